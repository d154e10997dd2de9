package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/talentmatch/internal/bootstrap"
	"github.com/kailas-cloud/talentmatch/internal/config"
	dombatch "github.com/kailas-cloud/talentmatch/internal/domain/batch"
	logpkg "github.com/kailas-cloud/talentmatch/internal/logger"
	"github.com/kailas-cloud/talentmatch/internal/metrics"
	jobrepo "github.com/kailas-cloud/talentmatch/internal/repository/job"
	profilerepo "github.com/kailas-cloud/talentmatch/internal/repository/profile"
	seeduc "github.com/kailas-cloud/talentmatch/internal/usecase/seed"
	"github.com/kailas-cloud/talentmatch/internal/version"
)

type seedOptions struct {
	file      string
	batchSize int
	delay     time.Duration
	dryRun    bool
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "talentmatch-seed",
		Short: "Bulk-load profiles and jobs into talentmatch",
		Long: `talentmatch-seed loads a YAML dataset of profiles and jobs,
embeds them in small timed batches and writes them to the document store.

Configuration comes from config/<ENV>.yaml, as for the API server.`,
		SilenceUsage: true,
	}
	root.AddCommand(newSeedCmd(), newVersionCmd())
	return root
}

func newSeedCmd() *cobra.Command {
	opts := &seedOptions{}
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed a dataset",
		Long: `Seed profiles, then jobs, from a YAML file.

Examples:
  talentmatch-seed seed --file data.yaml
  talentmatch-seed seed --file data.yaml --batch-size 10 --delay 500ms
  talentmatch-seed seed --file data.yaml --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSeed(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.file, "file", "", "YAML dataset to load")
	cmd.Flags().IntVar(&opts.batchSize, "batch-size", seeduc.DefaultBatchSize, "Items embedded concurrently per batch")
	cmd.Flags().DurationVar(&opts.delay, "delay", seeduc.DefaultBatchDelay, "Pause between batches")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Parse and validate the dataset without writing")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "talentmatch-seed %s\n", version.String())
		},
	}
}

func runSeed(cmd *cobra.Command, opts *seedOptions) error {
	f, err := os.Open(filepath.Clean(opts.file))
	if err != nil {
		return fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	ds, err := seeduc.LoadDataset(f, time.Now())
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Dataset: %d profiles, %d jobs\n", len(ds.Profiles), len(ds.Jobs))
	if opts.dryRun {
		return nil
	}

	_ = godotenv.Load()
	env := config.GetEnv()
	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger, err := logpkg.New(logpkg.Options{Env: env, Level: cfg.Logging.Level, Service: "talentmatch-seed"})
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(contextOrBackground(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, layout, err := bootstrap.OpenStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	metrics.RegisterEmbeddingMetrics()
	emb, err := bootstrap.BuildEmbedding(ctx, cfg, store, logger)
	if err != nil {
		return err
	}

	svc := seeduc.New(emb.Generator, profilerepo.New(store, layout), jobrepo.New(store, layout),
		seedConfig(cmd, opts, cfg.Seed), logger)

	rep, runErr := svc.Run(ctx, ds)
	printReport(cmd, rep)
	if runErr != nil {
		logger.Warn("Seed run stopped early", zap.Error(runErr))
		return runErr
	}
	if rep.Failed > 0 {
		return fmt.Errorf("%d of %d items failed", rep.Failed, len(rep.Results))
	}
	return nil
}

// seedConfig lets explicit flags win over the config file.
func seedConfig(cmd *cobra.Command, opts *seedOptions, sc config.SeedConfig) seeduc.Config {
	cfg := seeduc.Config{
		BatchSize:  sc.BatchSize,
		BatchDelay: time.Duration(sc.BatchDelayMs) * time.Millisecond,
		CacheSize:  sc.CacheSize,
	}
	if cmd.Flags().Changed("batch-size") {
		cfg.BatchSize = opts.batchSize
	}
	if cmd.Flags().Changed("delay") {
		cfg.BatchDelay = opts.delay
	}
	return cfg
}

func printReport(cmd *cobra.Command, rep *dombatch.Report) {
	if rep == nil {
		return
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Processed: %d\nFailed:    %d\nCache hits: %d\n", rep.Processed, rep.Failed, rep.CacheHits)
	for _, r := range rep.Results {
		if r.Status() == dombatch.StatusFailed {
			fmt.Fprintf(out, "  %s %s: %v\n", r.Item().Kind, r.Item().ID, r.Err())
		}
	}
}

// contextOrBackground keeps cobra commands executable outside Execute.
func contextOrBackground(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
