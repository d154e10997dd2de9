// Package bootstrap assembles the pieces shared by the server and the seeding CLI:
// the document store, its indexes and the embedding chain.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/talentmatch/internal/config"
	"github.com/kailas-cloud/talentmatch/internal/db"
	dbRedis "github.com/kailas-cloud/talentmatch/internal/db/redis"
	"github.com/kailas-cloud/talentmatch/internal/domain"
	"github.com/kailas-cloud/talentmatch/internal/metrics"
	"github.com/kailas-cloud/talentmatch/internal/repository/embcache"
	"github.com/kailas-cloud/talentmatch/internal/repository/schema"
	"github.com/kailas-cloud/talentmatch/internal/transport/gemini"
	openaiEmb "github.com/kailas-cloud/talentmatch/internal/transport/openai"
	embeddinguc "github.com/kailas-cloud/talentmatch/internal/usecase/embedding"
)

// OpenStore connects to the document store, waits for it and creates missing indexes.
func OpenStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (db.Store, schema.Layout, error) {
	layout := schema.NewLayout(cfg.Storage.KeyPrefix)

	var (
		store db.Store
		err   error
	)
	switch cfg.Database.Driver {
	case "redis":
		store, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Database.Addrs,
			Username: cfg.Database.Username,
			Password: cfg.Database.Password,
			DB:       cfg.Database.DB,
		})
	default:
		return nil, layout, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
	if err != nil {
		return nil, layout, fmt.Errorf("create store: %w", err)
	}

	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		store.Close()
		return nil, layout, fmt.Errorf("database not ready: %w", err)
	}

	defs, err := layout.Definitions(cfg.Embedding.Dimensions, schema.HNSWConfig{
		M:           cfg.Index.HNSWM,
		EFConstruct: cfg.Index.HNSWEFConstruct,
	})
	if err != nil {
		store.Close()
		return nil, layout, fmt.Errorf("index definitions: %w", err)
	}
	if err := schema.Ensure(ctx, store, defs, logger); err != nil {
		store.Close()
		return nil, layout, fmt.Errorf("ensure indexes: %w", err)
	}
	return store, layout, nil
}

// IndexNames lists the vector indexes matching depends on.
func IndexNames(layout schema.Layout) []string {
	return []string{layout.Index(schema.Profiles), layout.Index(schema.Jobs)}
}

// Embedding is the assembled embedding chain.
type Embedding struct {
	// Generator produces single vectors and triples.
	Generator *embeddinguc.Generator
	// Health probes the provider itself, below the cache.
	Health domain.HealthChecker
}

// BuildEmbedding assembles provider -> cache -> instrumentation -> generator.
// The cache sits under the instrumentation so hits are counted as zero-token calls.
func BuildEmbedding(ctx context.Context, cfg config.Config, store db.Store, logger *zap.Logger) (*Embedding, error) {
	ec := cfg.Embedding

	var base interface {
		domain.Embedder
		domain.HealthChecker
	}
	switch ec.Provider {
	case "openai":
		base = openaiEmb.NewEmbedder(&openaiEmb.Config{
			APIKey:            ec.APIKey,
			BaseURL:           ec.BaseURL,
			Model:             ec.Model,
			Dimensions:        ec.Dimensions,
			Provider:          ec.Provider,
			RequestsPerSecond: ec.RequestsPerSecond,
			Timeout:           time.Duration(ec.TimeoutSec) * time.Second,
			MaxRetries:        ec.MaxRetries,
			Logger:            logger,
		})
	case "gemini":
		models, err := gemini.NewModels(ctx, ec.APIKey)
		if err != nil {
			return nil, fmt.Errorf("gemini client: %w", err)
		}
		base = gemini.NewEmbedder(models, gemini.EmbedderConfig{
			Model:             ec.Model,
			Dimensions:        ec.Dimensions,
			RequestsPerSecond: ec.RequestsPerSecond,
			Logger:            logger,
		})
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", ec.Provider)
	}

	var embedder domain.Embedder = base
	if ec.CacheTTLHours > 0 {
		embedder = embcache.New(base, store, embcache.Options{
			KeyPrefix: cfg.Storage.KeyPrefix,
			Model:     ec.Model,
			Dim:       ec.Dimensions,
			TTL:       time.Duration(ec.CacheTTLHours) * time.Hour,
		}, metrics.EmbeddingCacheTotal, logger)
	}
	embedder = embeddinguc.NewMetered(embedder, ec.Provider, ec.Model, logger)

	logger.Info("Embedder created",
		zap.String("provider", ec.Provider),
		zap.String("model", ec.Model),
		zap.Int("dimensions", ec.Dimensions),
		zap.Bool("cache", ec.CacheTTLHours > 0),
	)

	return &Embedding{
		Generator: embeddinguc.NewGenerator(embedder, ec.Dimensions, logger),
		Health:    base,
	}, nil
}

// TextGenerator returns the generator behind skill-gap explanations, or a nil
// interface when generation is not configured.
func TextGenerator(ctx context.Context, cfg config.Config, logger *zap.Logger) (domain.TextGenerator, error) {
	gc := cfg.Generation
	if gc.APIKey == "" {
		logger.Info("Text generation disabled")
		return nil, nil
	}
	models, err := gemini.NewModels(ctx, gc.APIKey)
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return gemini.NewGenerator(models, gemini.GeneratorConfig{
		Model:             gc.Model,
		MaxRetries:        gc.MaxRetries,
		RequestsPerSecond: gc.RequestsPerSecond,
		Logger:            logger,
	}), nil
}
