// Package cache keeps a Redis index of catalog slugs in front of the store.
package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const clientName = "tripcatalog"

// Connect parses redisURL, creates a named client, and verifies connectivity with a ping.
func Connect(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis URL: %w", err)
	}
	if opts.ClientName == "" {
		opts.ClientName = clientName
	}

	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}

	return client, nil
}

// Pinger adapts a redis.Client to the health check's Ping(ctx) error shape.
type Pinger struct {
	Client *redis.Client
}

// Ping checks connectivity.
func (p Pinger) Ping(ctx context.Context) error {
	return p.Client.Ping(ctx).Err()
}
