package persistence

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/internal/infrastructure/config"
	"github.com/shopfront/backend/internal/infrastructure/logger"
)

// NewKeyedStore builds the keyed store selected by configuration.
// Database backends are wrapped in a polling watcher so store owners can
// observe external changes; the redis backend is returned watchless
// (keyspace notifications are deployment-dependent and not relied on).
func NewKeyedStore(cfg *config.Config, log *zap.Logger) (shared.KeyedStore, error) {
	switch cfg.Storage.Backend {
	case config.StorageBackendMemory:
		return NewMemoryKeyedStore(), nil

	case config.StorageBackendSQLite:
		gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
		store, err := OpenSQLite(cfg.Storage.SQLitePath, gormLog)
		if err != nil {
			return nil, err
		}
		return NewPollingWatchStore(store, 0, log.Named("storage-watch")), nil

	case config.StorageBackendPostgres:
		gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
		store, err := OpenPostgres(cfg.Storage.DSN, gormLog)
		if err != nil {
			return nil, err
		}
		return NewPollingWatchStore(store, 0, log.Named("storage-watch")), nil

	case config.StorageBackendRedis:
		return NewRedisKeyedStore(RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	return nil, fmt.Errorf("persistence: unknown storage backend %q", cfg.Storage.Backend)
}
