package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/crm-ticketing/internal/config"
)

const redisPingTimeout = 3 * time.Second

// Redis wraps the go-redis client used for rate limiting.
type Redis struct {
	Client *redis.Client
}

// NewRedis dials Redis with the configured address and database. A
// failed initial ping is logged but does not abort startup; the login
// limiter fails open without Redis.
func NewRedis(cfg config.RedisConfig, logger *zap.Logger) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unreachable at startup", zap.String("addr", cfg.Addr), zap.Error(err))
	} else {
		logger.Info("redis connected", zap.String("addr", cfg.Addr), zap.Int("db", cfg.DB))
	}

	return &Redis{Client: client}
}

// Ping reports whether Redis answers within the caller's deadline.
func (r *Redis) Ping(ctx context.Context) error {
	if r == nil || r.Client == nil {
		return errors.New("redis client not configured")
	}
	return r.Client.Ping(ctx).Err()
}

func (r *Redis) Close() {
	if r == nil || r.Client == nil {
		return
	}
	_ = r.Client.Close()
}
