package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"skill-gap/internal/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var ErrUnavailable = errors.New("redis unavailable")

// Redis stores JSON documents under a shared key prefix. A zero or
// unreachable instance reports Available() == false and every call returns
// ErrUnavailable, so callers pick the in-process store instead.
type Redis struct {
	client *redis.Client
	prefix string
	logger *zap.Logger

	degraded atomic.Bool
}

func NewRedis(cfg config.RedisConfig, logger *zap.Logger) *Redis {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Redis{prefix: cfg.KeyPrefix, logger: logger}
	if !cfg.Enabled() {
		return r
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unavailable, falling back", zap.String("addr", cfg.Addr()), zap.Error(err))
		_ = client.Close()
		return r
	}

	r.client = client
	return r
}

func (r *Redis) Available() bool {
	return r != nil && r.client != nil
}

func (r *Redis) key(k string) string { return r.prefix + k }

// observe logs the first failure after a healthy period.
func (r *Redis) observe(err error) error {
	if err == nil {
		r.degraded.Store(false)
		return nil
	}
	if r.degraded.CompareAndSwap(false, true) {
		r.logger.Warn("redis call failed", zap.Error(err))
	}
	return err
}

func (r *Redis) Ping(ctx context.Context) error {
	if !r.Available() {
		return ErrUnavailable
	}
	return r.observe(r.client.Ping(ctx).Err())
}

func (r *Redis) Close() error {
	if !r.Available() {
		return nil
	}
	return r.client.Close()
}

// GetJSON decodes the value at key into out and reports whether it existed.
func (r *Redis) GetJSON(ctx context.Context, key string, out any) (bool, error) {
	if !r.Available() {
		return false, ErrUnavailable
	}
	b, err := r.client.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, r.observe(nil)
	}
	if err := r.observe(err); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b, out); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (r *Redis) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	if !r.Available() {
		return ErrUnavailable
	}
	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return r.observe(r.client.Set(ctx, r.key(key), b, ttl).Err())
}

// Delete reports whether the key existed.
func (r *Redis) Delete(ctx context.Context, key string) (bool, error) {
	if !r.Available() {
		return false, ErrUnavailable
	}
	n, err := r.client.Del(ctx, r.key(key)).Result()
	if err := r.observe(err); err != nil {
		return false, err
	}
	return n > 0, nil
}
