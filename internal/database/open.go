package database

import (
	"context"
	"fmt"

	"github.com/hotelops/hotel-admin-backend/internal/config"
	"github.com/hotelops/hotel-admin-backend/internal/storage"
	"github.com/sirupsen/logrus"
)

// OpenStore connects the storage backend selected by cfg.Storage.Driver.
// origin tags change notifications so an instance can skip its own.
func OpenStore(ctx context.Context, cfg *config.Config, origin string, logger *logrus.Logger) (storage.Store, error) {
	switch cfg.Storage.Driver {
	case config.StorageMemory:
		logger.Warn("Using in-memory storage, data is lost on restart")
		return storage.NewMemoryStore(), nil

	case config.StorageFile:
		store, err := storage.NewFileStore(cfg.Storage.Dir)
		if err != nil {
			return nil, fmt.Errorf("failed to open file storage: %w", err)
		}
		logger.WithField("dir", cfg.Storage.Dir).Info("Using file storage")
		return store, nil

	case config.StorageRedis:
		store, err := storage.NewRedisStore(ctx, cfg.Redis, origin, logger)
		if err != nil {
			return nil, err
		}
		logger.WithField("addr", cfg.Redis.Addr).Info("Using redis storage")
		return store, nil

	case config.StoragePostgres:
		db, err := NewConnection(cfg.Database, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		store := NewKVStore(db, cfg.Database, origin, logger)
		if err := store.EnsureSchema(); err != nil {
			db.Close()
			return nil, err
		}
		logger.Info("Using postgres storage")
		return store, nil
	}

	return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}
