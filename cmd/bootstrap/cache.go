package bootstrap

import (
	"context"
	"log/slog"

	"storefront/internal/cache"
	"storefront/internal/pkg/clock"
	"storefront/internal/pkg/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var CacheModule = fx.Module("cache",
	fx.Provide(
		NewCacheStore,
		cache.NewManager,
	),
)

// NewCacheStore picks the store backend from config. Redis is the default;
// the in-memory store serves single-instance deployments and tests.
func NewCacheStore(lc fx.Lifecycle, cfg config.Config, clk clock.Clock, logger *slog.Logger) (cache.Store, error) {
	if cfg.Cache.Backend == "memory" {
		logger.Info("cache backend: in-process memory")
		return cache.NewMemoryStore(clk), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Redis.Addr,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		DialTimeout:  cfg.Redis.Timeout,
		ReadTimeout:  cfg.Redis.Timeout,
		WriteTimeout: cfg.Redis.Timeout,
	})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			// A dead cache is not fatal; the manager degrades to miss.
			if err := client.Ping(ctx).Err(); err != nil {
				logger.Warn("redis unreachable at startup, serving misses until it recovers", "error", err)
			}
			return nil
		},
		OnStop: func(_ context.Context) error {
			return client.Close()
		},
	})

	logger.Info("cache backend: redis", "addr", cfg.Redis.Addr)
	return cache.NewRedisStore(client), nil
}
