package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jonesrussell/gojobs/internal/config"
	"github.com/jonesrussell/gojobs/internal/logger"
	"github.com/jonesrussell/gojobs/internal/ratelimit"
)

const redisConnectTimeout = 5 * time.Second

// SetupRateLimitStore returns the Redis-backed counter store when Redis is
// enabled and reachable, and the in-memory store otherwise. Losing Redis
// degrades limiting to per-replica counters, never startup failure.
func SetupRateLimitStore(cfg *config.Config, log logger.Logger) ratelimit.Store {
	if !cfg.Redis.Enabled {
		return ratelimit.NewMemoryStore()
	}

	client, err := newRedisClient(cfg)
	if err != nil {
		log.Warn("Redis not available, using in-memory rate limiting",
			logger.Error(err),
		)
		return ratelimit.NewMemoryStore()
	}

	log.Info("Rate limiting backed by Redis",
		logger.String("redis_address", cfg.Redis.Address),
	)
	return ratelimit.NewRedisStore(client)
}

func newRedisClient(cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisConnectTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return client, nil
}
