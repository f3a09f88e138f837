package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"git.sr.ht/~jackmordaunt/decks/config"
	"git.sr.ht/~jackmordaunt/decks/logger"
	"git.sr.ht/~jackmordaunt/decks/storage"
	"git.sr.ht/~jackmordaunt/decks/storage/bolt"
	"git.sr.ht/~jackmordaunt/decks/storage/mem"
	"git.sr.ht/~jackmordaunt/decks/storage/redis"
	"git.sr.ht/~jackmordaunt/decks/storage/sqlite"
	"git.sr.ht/~jackmordaunt/decks/storage/storm"
)

// openStore opens the storage driver named by the config.
func openStore(ctx context.Context, cfg config.Config) (storage.KV, error) {
	switch cfg.Storage.Driver {
	case config.DriverMem:
		return mem.New(), nil
	case config.DriverBolt, config.DriverStorm, config.DriverSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.Storage.Path), 0o755); err != nil {
			return nil, fmt.Errorf("data dir: %w", err)
		}
	}
	switch cfg.Storage.Driver {
	case config.DriverBolt:
		return bolt.Open(cfg.Storage.Path)
	case config.DriverStorm:
		return storm.Open(cfg.Storage.Path)
	case config.DriverSQLite:
		return sqlite.Open(cfg.Storage.Path)
	case config.DriverRedis:
		s, err := redis.NewStore(redis.Config{
			Addrs:    cfg.Redis.Addrs,
			Username: cfg.Redis.Username,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		})
		if err != nil {
			return nil, err
		}
		logger.From(ctx).Info("waiting for redis", zap.Strings("addrs", cfg.Redis.Addrs))
		if err := s.WaitForReady(ctx, 5*time.Second); err != nil {
			_ = s.Close()
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
