package backend

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/redis/go-redis/v9"

	"github.com/emika-opensource/marketing-manager/internal/config"
	"github.com/emika-opensource/marketing-manager/internal/database"
	"github.com/emika-opensource/marketing-manager/pkg/logger"
)

// Open builds the backend selected by cfg.Store.Backend and dials whatever
// client it needs. The returned backend's Close releases that client.
func Open(ctx context.Context, cfg *config.Config) (Backend, error) {
	switch cfg.Store.Backend {
	case "memory":
		logger.Warn("using in-memory store; data is lost on restart")
		return NewMemory(), nil
	case "", "file":
		dir := ResolveDataDir(cfg.Store.DataDir, cfg.Store.FallbackDir)
		logger.Infof("data directory: %s", dir)
		return NewFile(dir)
	case "sqlite":
		path := cfg.Store.SQLitePath
		if path == "" {
			path = filepath.Join(ResolveDataDir(cfg.Store.DataDir, cfg.Store.FallbackDir), "marketing.db")
		}
		logger.Infof("sqlite store: %s", path)
		return NewSQLite(path)
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr(), Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("redis ping %s: %w", cfg.Redis.Addr(), err)
		}
		logger.Infof("redis store: %s (prefix %q)", cfg.Redis.Addr(), cfg.Redis.Prefix)
		return NewRedis(client, cfg.Redis.Prefix), nil
	case "mongo":
		client, err := database.ConnectMongoWithRetry(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, 5)
		if err != nil {
			return nil, err
		}
		col := client.Database(cfg.MongoDB.Database).Collection(cfg.MongoDB.Collection)
		logger.Infof("mongo store: %s.%s", cfg.MongoDB.Database, cfg.MongoDB.Collection)
		m := NewMongo(col)
		m.owned = true
		return m, nil
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
}
