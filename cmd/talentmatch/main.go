package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/kailas-cloud/talentmatch/internal/bootstrap"
	"github.com/kailas-cloud/talentmatch/internal/config"
	"github.com/kailas-cloud/talentmatch/internal/domain/job"
	"github.com/kailas-cloud/talentmatch/internal/domain/profile"
	logpkg "github.com/kailas-cloud/talentmatch/internal/logger"
	"github.com/kailas-cloud/talentmatch/internal/metrics"
	applicationrepo "github.com/kailas-cloud/talentmatch/internal/repository/application"
	jobrepo "github.com/kailas-cloud/talentmatch/internal/repository/job"
	profilerepo "github.com/kailas-cloud/talentmatch/internal/repository/profile"
	"github.com/kailas-cloud/talentmatch/internal/repository/retrieval"
	"github.com/kailas-cloud/talentmatch/internal/repository/schema"
	chiTransport "github.com/kailas-cloud/talentmatch/internal/transport/chi"
	analyticsuc "github.com/kailas-cloud/talentmatch/internal/usecase/analytics"
	applicationuc "github.com/kailas-cloud/talentmatch/internal/usecase/application"
	"github.com/kailas-cloud/talentmatch/internal/usecase/autoheal"
	healthuc "github.com/kailas-cloud/talentmatch/internal/usecase/health"
	jobuc "github.com/kailas-cloud/talentmatch/internal/usecase/job"
	matchinguc "github.com/kailas-cloud/talentmatch/internal/usecase/matching"
	profileuc "github.com/kailas-cloud/talentmatch/internal/usecase/profile"
	skillgapuc "github.com/kailas-cloud/talentmatch/internal/usecase/skillgap"
	"github.com/kailas-cloud/talentmatch/internal/version"
)

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(logpkg.Options{Env: env, Level: cfg.Logging.Level, Service: "talentmatch-api"})
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting talentmatch API server",
		zap.String("version", version.String()),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	ctx := context.Background()

	store, layout, err := bootstrap.OpenStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to open store", zap.Error(err))
	}
	defer store.Close()
	logger.Info("Connected to database", zap.String("key_prefix", layout.Prefix()))

	// Register metrics explicitly (no init())
	metrics.RegisterHTTPMetrics()
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterMatchingMetrics()

	emb, err := bootstrap.BuildEmbedding(ctx, cfg, store, logger)
	if err != nil {
		logger.Fatal("Failed to build embedder", zap.Error(err))
	}
	// Nil interface, not a typed nil pointer, when generation is off.
	textGen, err := bootstrap.TextGenerator(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to build text generator", zap.Error(err))
	}

	// Repositories
	profiles := profilerepo.New(store, layout)
	jobs := jobrepo.New(store, layout)
	applications := applicationrepo.New(store, layout)

	jobPool := retrieval.NewCollection[*job.Job](
		store, schema.Jobs, layout.Index(schema.Jobs), schema.FieldSkillsVector, jobrepo.Decode, logger)
	profilePool := retrieval.NewCollection[*profile.Profile](
		store, schema.Profiles, layout.Index(schema.Profiles), schema.FieldSkillsVector, profilerepo.Decode, logger)

	// Use cases
	healer := autoheal.New(emb.Generator, profiles, jobs, logger)
	profileSvc := profileuc.New(profiles, emb.Generator)
	jobSvc := jobuc.New(jobs, emb.Generator)
	applicationSvc := applicationuc.New(applications, jobs, profiles)
	matchingSvc := matchinguc.New(profiles, jobs, healer, jobPool, profilePool, applications, matchinguc.Config{
		Recall:          cfg.Matching.Recall,
		Limit:           cfg.Matching.Limit,
		Recommendations: cfg.Matching.Recommendations,
		Candidates:      cfg.Matching.Candidates,
		MaxCandidates:   cfg.Matching.MaxCandidates,
		EFRuntime:       cfg.Index.EFRuntime,
	})
	analyticsSvc := analyticsuc.New(jobs, applications, profiles, healer)
	skillGapSvc := skillgapuc.New(profiles, jobs, healer, textGen)
	healthSvc := healthuc.New(store, store, bootstrap.IndexNames(layout), emb.Health)

	server := chiTransport.NewServer(chiTransport.Services{
		Profiles:     profileSvc,
		Jobs:         jobSvc,
		Applications: applicationSvc,
		Matching:     matchingSvc,
		Analytics:    analyticsSvc,
		SkillGap:     skillGapSvc,
		Health:       healthSvc,
	}, logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           server.Handler(cfg.Auth.APIKeys),
		ReadHeaderTimeout: time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		ReadTimeout:       time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout:      time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}
