// Package bootstrap connects the configured store, Redis and tracing.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"socialapp/internal/cache"
	"socialapp/internal/config"
	"socialapp/internal/database"
	"socialapp/internal/middleware"
	"socialapp/internal/observability"
	"socialapp/internal/repository"
	"socialapp/internal/repository/mongostore"
)

// Runtime is the set of process-wide dependencies shared by the binaries.
type Runtime struct {
	Store *repository.Store
	Cache *cache.Cache

	shutdownTracing func(context.Context) error
}

// Options control runtime initialization behavior.
type Options struct {
	// ServiceName labels traces; empty disables tracing regardless of config.
	ServiceName string
}

// InitRuntime opens the store selected by STORE_DRIVER, connects Redis (the
// cache is disabled when Redis is unreachable) and starts tracing.
func InitRuntime(ctx context.Context, cfg *config.Config, opts Options) (*Runtime, error) {
	store, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	c := cache.New(cache.Connect(cfg.RedisURL))
	store.WithCache(c)

	rt := &Runtime{
		Store:           store,
		Cache:           c,
		shutdownTracing: func(context.Context) error { return nil },
	}

	if opts.ServiceName != "" {
		shutdown, err := observability.InitTracing(observability.TracingConfig{
			ServiceName:    opts.ServiceName,
			ServiceVersion: "1.0.0",
			Environment:    cfg.Env,
			Enabled:        cfg.TracingEnabled,
			Exporter:       cfg.TracingExporter,
			OTLPEndpoint:   cfg.OTLPEndpoint,
			SamplerRatio:   cfg.TracingSamplerRatio,
		})
		if err != nil {
			_ = rt.Close(ctx)
			return nil, fmt.Errorf("failed to initialize tracing: %w", err)
		}
		rt.shutdownTracing = shutdown
	}

	return rt, nil
}

// OpenStore connects the backend named by cfg.StoreDriver without a cache.
func OpenStore(ctx context.Context, cfg *config.Config) (*repository.Store, error) {
	switch cfg.StoreDriver {
	case config.StoreMongo:
		client, db, err := database.ConnectMongo(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if err := mongostore.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		return mongostore.New(client, db), nil
	case config.StorePostgres, config.StoreSQLite:
		db, err := database.Connect(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("database connection failed: %w", err)
		}
		return repository.NewGormStore(cfg.StoreDriver, db), nil
	default:
		return nil, fmt.Errorf("unsupported STORE_DRIVER %q", cfg.StoreDriver)
	}
}

// Close releases the store, Redis and the tracer provider.
func (rt *Runtime) Close(ctx context.Context) error {
	var firstErr error
	if err := rt.Store.Close(ctx); err != nil {
		middleware.Logger.Error("error closing store", slog.String("error", err.Error()))
		firstErr = err
	}
	if client := rt.Cache.Client(); client != nil {
		if err := client.Close(); err != nil {
			middleware.Logger.Error("error closing redis", slog.String("error", err.Error()))
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	if err := rt.shutdownTracing(ctx); err != nil {
		middleware.Logger.Error("error shutting down tracer", slog.String("error", err.Error()))
		if firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
