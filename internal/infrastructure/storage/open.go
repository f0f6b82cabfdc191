// Package storage selects and opens the repository.Store backend named by
// STORE_DRIVER.
package storage

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/fastygo/tasklists/internal/config"
	pgInfra "github.com/fastygo/tasklists/internal/infrastructure/postgres"
	"github.com/fastygo/tasklists/repository"
	"github.com/fastygo/tasklists/repository/bolt"
	"github.com/fastygo/tasklists/repository/memory"
	"github.com/fastygo/tasklists/repository/postgres"
)

// CloseFunc releases the resources behind an opened store.
type CloseFunc func(ctx context.Context) error

// Open returns the configured store. For postgres, pending migrations are
// applied first when enabled.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repository.Store, CloseFunc, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch cfg.Store.Driver {
	case config.DriverPostgres:
		if err := pgInfra.RunMigrations(cfg, logger); err != nil {
			return nil, nil, fmt.Errorf("migrations: %w", err)
		}
		pool, err := pgInfra.NewPool(ctx, cfg.Database, cfg.AppName, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("postgres: %w", err)
		}
		closer := func(context.Context) error {
			pool.Close()
			return nil
		}
		return postgres.NewStore(pool), closer, nil

	case config.DriverBolt:
		store, err := bolt.Open(cfg.Store.BoltPath)
		if err != nil {
			return nil, nil, fmt.Errorf("bolt: %w", err)
		}
		logger.Info("opened bolt store", zap.String("path", cfg.Store.BoltPath))
		return store, func(context.Context) error { return store.Close() }, nil

	case config.DriverMemory:
		logger.Warn("using in-memory store; data is lost on restart")
		store := memory.New()
		return store, func(context.Context) error { return store.Close() }, nil
	}
	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}
