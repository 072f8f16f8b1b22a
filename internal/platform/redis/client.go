// Package redis opens the Redis connection shared by the notary and the
// write rate limiter.
package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"bizledger/internal/platform/config"
)

// Client is a connected go-redis client. It satisfies redis.Scripter, which
// is all the notary and the rate limiter need.
type Client struct {
	*redis.Client
}

// New connects using cfg and fails unless the server answers a PING within
// the dial timeout.
func New(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
	if cfg.URL == "" {
		return nil, errors.New("redis: no URL configured")
	}
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	opts.ClientName = "bizledger"
	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns
	opts.DialTimeout = cfg.DialTimeout
	opts.ReadTimeout = cfg.ReadTimeout
	opts.WriteTimeout = cfg.WriteTimeout

	c := &Client{Client: redis.NewClient(opts)}
	pingCtx, cancel := context.WithTimeout(ctx, cfg.DialTimeout)
	defer cancel()
	if err := c.Health(pingCtx); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return c, nil
}

// Health is registered as the /healthz check for Redis.
func (c *Client) Health(ctx context.Context) error {
	return c.Ping(ctx).Err()
}
