package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultTTL = time.Hour

// SlugIndex caches slug to record-id lookups for one catalog table.
// Only positive lookups are stored.
type SlugIndex struct {
	client    *redis.Client
	namespace string
	ttl       time.Duration
}

// NewSlugIndex constructs a SlugIndex for namespace (usually the table name).
// A non-positive ttl means one hour.
func NewSlugIndex(client *redis.Client, namespace string, ttl time.Duration) *SlugIndex {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &SlugIndex{client: client, namespace: namespace, ttl: ttl}
}

// key returns the Redis key for the given slug.
func (c *SlugIndex) key(slug string) string {
	return "catalog:" + c.namespace + ":slug:" + slug
}

// Get returns the cached id for slug. ok is false on a cache miss.
func (c *SlugIndex) Get(ctx context.Context, slug string) (id int64, ok bool, err error) {
	val, err := c.client.Get(ctx, c.key(slug)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("cache get for slug %s: %w", slug, err)
	}

	id, err = strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("parsing cached id for slug %s: %w", slug, err)
	}

	return id, true, nil
}

// Set stores the id for slug with the configured TTL.
func (c *SlugIndex) Set(ctx context.Context, slug string, id int64) error {
	if err := c.client.Set(ctx, c.key(slug), strconv.FormatInt(id, 10), c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set for slug %s: %w", slug, err)
	}
	return nil
}

// Delete removes the cached entry for slug.
func (c *SlugIndex) Delete(ctx context.Context, slug string) error {
	if err := c.client.Del(ctx, c.key(slug)).Err(); err != nil {
		return fmt.Errorf("cache delete for slug %s: %w", slug, err)
	}
	return nil
}
