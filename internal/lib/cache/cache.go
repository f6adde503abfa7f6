// Package cache keeps rendered feed pages in Redis.
//
// Pages are keyed under a version number instead of being deleted one by
// one: any write that can change the feed bumps the version with INCR, and
// entries of older versions simply age out through their TTL.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/deppfellow/memwarzz/internal/model"
	"github.com/redis/go-redis/v9"
)

const versionKey = "feed:version"

type FeedCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewFeedCache(client *redis.Client, ttl time.Duration) *FeedCache {
	return &FeedCache{client: client, ttl: ttl}
}

// PageKey builds the cache key of a feed page.
func PageKey(version int64, before *time.Time, limit int) string {
	cursor := "latest"
	if before != nil {
		cursor = strconv.FormatInt(before.UTC().UnixNano(), 10)
	}
	return fmt.Sprintf("feed:v%d:%s:%d", version, cursor, limit)
}

// Version returns the current feed version. Callers read it once before
// loading a page and pass it to both Get and Set, so a page loaded before
// an Invalidate is never stored under the newer version.
func (c *FeedCache) Version(ctx context.Context) (int64, error) {
	v, err := c.client.Get(ctx, versionKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read feed version: %w", err)
	}
	return v, nil
}

// Get returns the page cached under version, or ok=false on a miss.
func (c *FeedCache) Get(ctx context.Context, version int64, before *time.Time, limit int) (*model.FeedPage, bool, error) {
	raw, err := c.client.Get(ctx, PageKey(version, before, limit)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read feed page: %w", err)
	}

	var page model.FeedPage
	if err := json.Unmarshal(raw, &page); err != nil {
		return nil, false, fmt.Errorf("decode feed page: %w", err)
	}
	return &page, true, nil
}

func (c *FeedCache) Set(ctx context.Context, version int64, before *time.Time, limit int, page *model.FeedPage) error {
	raw, err := json.Marshal(page)
	if err != nil {
		return fmt.Errorf("encode feed page: %w", err)
	}

	return c.client.Set(ctx, PageKey(version, before, limit), raw, c.ttl).Err()
}

// Invalidate makes every cached page unreachable.
func (c *FeedCache) Invalidate(ctx context.Context) error {
	return c.client.Incr(ctx, versionKey).Err()
}
