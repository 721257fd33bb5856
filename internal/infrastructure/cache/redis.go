package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sangkips/duka-pos/internal/config"
	"github.com/sangkips/duka-pos/internal/logger"
)

// Client wraps the Redis client
type Client struct {
	Redis *redis.Client
}

// NewConnection creates a new Redis connection and pings it
func NewConnection(ctx context.Context, cfg *config.RedisConfig) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,

		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolTimeout:  4 * time.Second,
	})

	client := NewClient(rdb)
	if err := client.Health(ctx); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log := logger.WithComponent("redis")
	log.Info().Str("addr", cfg.Addr()).Msg("Redis connection established")
	return client, nil
}

// NewClient wraps an existing go-redis client
func NewClient(rdb *redis.Client) *Client {
	return &Client{Redis: rdb}
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.Redis.Close()
}

// Health checks the Redis connection health
func (c *Client) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return c.Redis.Ping(ctx).Err()
}

// Del deletes one or more keys
func (c *Client) Del(ctx context.Context, keys ...string) error {
	return c.Redis.Del(ctx, keys...).Err()
}

// SetJSON stores value encoded as JSON
func (c *Client) SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return c.Redis.Set(ctx, key, data, expiration).Err()
}

// GetJSON decodes the value at key into dest. It reports false on a cache miss.
func (c *Client) GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := c.Redis.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}
