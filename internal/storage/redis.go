package storage

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/srw-platform/portal/internal/config"
)

const redisOpTimeout = 2 * time.Second

// NewRedisClient connects to Redis using the provided configuration. A
// failed ping is logged but not fatal; the portal degrades until Redis
// comes back.
func NewRedisClient(cfg config.RedisConfig, logger *zap.Logger) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("unable to reach redis", zap.Error(err))
	} else {
		logger.Info("connected to redis")
	}

	return client
}

// Redis adapts a go-redis client to the Storage interface. An optional TTL
// bounds how long abandoned session slots linger server-side.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis wraps client as Storage. ttl of zero means keys never expire.
func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

func (r *Redis) Get(key string) (string, error) {
	ctx, cancel := r.opContext()
	defer cancel()

	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (r *Redis) Set(key, value string) error {
	ctx, cancel := r.opContext()
	defer cancel()
	return r.client.Set(ctx, key, value, r.ttl).Err()
}

func (r *Redis) Remove(key string) error {
	ctx, cancel := r.opContext()
	defer cancel()
	return r.client.Del(ctx, key).Err()
}

// Ping verifies connectivity for readiness checks.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *Redis) opContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), redisOpTimeout)
}
