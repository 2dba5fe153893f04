package db

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"campusconnect/internal/config"
	"campusconnect/internal/store"
)

// OpenStore connects the blob store selected by cfg.StoreBackend. The returned
// close function releases the underlying connection.
func OpenStore(ctx context.Context, cfg *config.Config) (store.Store, func() error, error) {
	noop := func() error { return nil }

	switch cfg.StoreBackend {
	case config.BackendMemory:
		return store.NewMemoryStore(), noop, nil

	case config.BackendSQLite:
		s, err := store.NewSQLiteStore(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil

	case config.BackendRedis:
		s := store.NewRedisStore(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		if err := s.Ping(ctx); err != nil {
			_ = s.Close()
			return nil, nil, fmt.Errorf("ping redis: %w", err)
		}
		return s, s.Close, nil

	case config.BackendMySQL:
		gormDB, err := NewMySQL(cfg.MySQLDSN)
		if err != nil {
			return nil, nil, err
		}
		return openGormStore(gormDB)

	case config.BackendPostgres:
		gormDB, err := NewPostgres(cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		return openGormStore(gormDB)
	}
	return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}

func openGormStore(gormDB *gorm.DB) (store.Store, func() error, error) {
	s, err := store.NewGormStore(gormDB)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() error {
		sqlDB, err := gormDB.DB()
		if err != nil {
			return err
		}
		zap.L().Debug("closing database pool")
		return sqlDB.Close()
	}
	return s, closeFn, nil
}
