package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/GoSim-25-26J-441/projectdash/config"
	"github.com/GoSim-25-26J-441/projectdash/internal/docstore"
	"github.com/GoSim-25-26J-441/projectdash/internal/docstore/postgres"
	"github.com/GoSim-25-26J-441/projectdash/internal/docstore/redisstore"
)

// OpenDocStore opens the collection named name on the configured backend.
// The returned func releases the backend's connections.
func OpenDocStore(ctx context.Context, cfg *config.Config, name string, log *zap.Logger) (docstore.Collection, func(), error) {
	switch cfg.DocStore.Driver {
	case config.DriverPostgres:
		pool, err := OpenDB(ctx, DBOptions{DSN: cfg.Database.DSN, MaxConns: cfg.Database.MaxConns})
		if err != nil {
			return nil, nil, err
		}
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
		log.Info("document store ready", zap.String("driver", cfg.DocStore.Driver), zap.String("collection", name))
		return postgres.NewCollection(pool, name), pool.Close, nil

	case config.DriverRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := client.Ping(pctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("redis ping: %w", err)
		}
		log.Info("document store ready", zap.String("driver", cfg.DocStore.Driver), zap.String("addr", cfg.Redis.Addr))
		return redisstore.NewCollection(client, name), func() { _ = client.Close() }, nil

	case config.DriverMemory:
		log.Warn("using in-memory document store; data is lost on restart")
		return docstore.NewMemoryCollection(name), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown document store driver %q", cfg.DocStore.Driver)
	}
}
