// Package redis provides Redis database connectivity and operations.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/tuneport/backend/internal/config"
	"github.com/tuneport/backend/internal/utils"
)

// Client wraps a Redis connection with the small key/value surface the
// session manager and rate limiter need. Callers that need raw commands
// (pipelines, sorted sets) go through Client().
type Client struct {
	client *redis.Client
	logger *utils.Logger
}

// NewClient connects to Redis using the application configuration.
func NewClient(cfg *config.Config, logger *utils.Logger) (*Client, error) {
	if logger == nil {
		logger = utils.GetLogger()
	}

	opts := &redis.Options{
		Addr:         cfg.Database.Redis.Addresses[0], // Use the first address in the list
		Username:     cfg.Database.Redis.Username,
		Password:     cfg.Database.Redis.Password,
		DB:           cfg.Database.Redis.Database,
		MaxRetries:   cfg.Database.Redis.MaxRetries,
		PoolSize:     cfg.Database.Redis.PoolSize,
		MinIdleConns: cfg.Database.Redis.MinIdleConns,
		DialTimeout:  cfg.Database.Redis.DialTimeout,
		ReadTimeout:  cfg.Database.Redis.ReadTimeout,
		WriteTimeout: cfg.Database.Redis.WriteTimeout,
		IdleTimeout:  cfg.Database.Redis.IdleTimeout,
	}

	client := redis.NewClient(opts)

	// Verify the connection before handing the client out.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to Redis", err, "addr", opts.Addr)
		return nil, err
	}

	logger.Info("Connected to Redis", "addr", opts.Addr, "db", opts.DB)

	return &Client{
		client: client,
		logger: logger,
	}, nil
}

// Close closes the Redis connection.
func (c *Client) Close() error {
	if err := c.client.Close(); err != nil {
		c.logger.Error("Failed to close Redis connection", err)
		return err
	}
	c.logger.Info("Closed Redis connection")
	return nil
}

// Client returns the underlying Redis client for commands the wrapper
// does not cover.
func (c *Client) Client() *redis.Client {
	return c.client
}

// Ping checks connectivity to the Redis server.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		c.logger.Error("Failed to ping Redis", err)
		return err
	}
	return nil
}

// Get returns the string value at key. A missing key yields "" with no error.
func (c *Client) Get(ctx context.Context, key string) (string, error) {
	value, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil
		}
		c.logger.Error("Failed to get value from Redis", err, "key", key)
		return "", err
	}
	return value, nil
}

// GetObject reads the JSON value at key into dest. A missing key is
// reported as redis.Nil so callers can tell absence from a zero value.
func (c *Client) GetObject(ctx context.Context, key string, dest any) error {
	data, err := c.Get(ctx, key)
	if err != nil {
		return err
	}

	if data == "" {
		return redis.Nil
	}

	return json.Unmarshal([]byte(data), dest)
}

// Set stores a string value with an expiration. Zero expiration means no TTL.
func (c *Client) Set(ctx context.Context, key, value string, expiration time.Duration) error {
	if err := c.client.Set(ctx, key, value, expiration).Err(); err != nil {
		c.logger.Error("Failed to set value in Redis", err, "key", key)
		return err
	}
	return nil
}

// SetObject marshals value as JSON and stores it with an expiration.
func (c *Client) SetObject(ctx context.Context, key string, value any, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		c.logger.Error("Failed to marshal object for Redis", err, "key", key)
		return err
	}

	return c.Set(ctx, key, string(data), expiration)
}

// Del removes a key.
func (c *Client) Del(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		c.logger.Error("Failed to delete key from Redis", err, "key", key)
		return err
	}
	return nil
}

// Keys returns the keys matching a glob pattern. Pattern scans are only
// used by low-frequency maintenance jobs.
func (c *Client) Keys(ctx context.Context, pattern string) ([]string, error) {
	keys, err := c.client.Keys(ctx, pattern).Result()
	if err != nil {
		c.logger.Error("Failed to list keys from Redis", err, "pattern", pattern)
		return nil, err
	}
	return keys, nil
}

// Expire resets the TTL on a key.
func (c *Client) Expire(ctx context.Context, key string, expiration time.Duration) error {
	if err := c.client.Expire(ctx, key, expiration).Err(); err != nil {
		c.logger.Error("Failed to set expiration on Redis key", err, "key", key)
		return err
	}
	return nil
}

// TTL returns the remaining time to live of a key. Redis reports -1 for
// keys without a TTL and -2 for missing keys.
func (c *Client) TTL(ctx context.Context, key string) (time.Duration, error) {
	ttl, err := c.client.TTL(ctx, key).Result()
	if err != nil {
		c.logger.Error("Failed to get TTL from Redis", err, "key", key)
		return 0, err
	}
	return ttl, nil
}

// Pipeline returns a command pipeline on the underlying client.
func (c *Client) Pipeline() redis.Pipeliner {
	return c.client.Pipeline()
}

// Logger returns the client's logger.
func (c *Client) Logger() *utils.Logger {
	return c.logger
}

// FormatKey creates a namespaced Redis key.
func FormatKey(namespace, key string) string {
	return fmt.Sprintf("%s:%s", namespace, key)
}
