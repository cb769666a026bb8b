// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	pageKeyPrefix = "kubolor:page:"

	// DefaultPageTTL is how long a rendered page stays cached.
	DefaultPageTTL = 5 * time.Minute
)

// PageCache stores rendered public pages in Valkey. A nil *PageCache is
// valid and behaves as an always-empty cache, so callers need no checks
// when caching is disabled. Cache errors are logged, never returned.
type PageCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *logrus.Logger
}

// NewPageCache creates a page cache backed by client.
func NewPageCache(client *redis.Client, ttl time.Duration, logger *logrus.Logger) *PageCache {
	if ttl <= 0 {
		ttl = DefaultPageTTL
	}
	return &PageCache{client: client, ttl: ttl, logger: logger}
}

// Enabled reports whether the cache is backed by a client.
func (pc *PageCache) Enabled() bool {
	return pc != nil && pc.client != nil
}

// Get returns the cached page for key.
func (pc *PageCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if !pc.Enabled() {
		return nil, false
	}
	val, err := pc.client.Get(ctx, pageKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		pc.logger.WithError(err).WithField("key", key).Warn("page cache get failed")
		return nil, false
	}
	return val, true
}

// Set stores a rendered page under key.
func (pc *PageCache) Set(ctx context.Context, key string, page []byte) {
	if !pc.Enabled() {
		return
	}
	if err := pc.client.Set(ctx, pageKeyPrefix+key, page, pc.ttl).Err(); err != nil {
		pc.logger.WithError(err).WithField("key", key).Warn("page cache set failed")
	}
}

// InvalidateAll removes every cached page. Content edits can change the
// homepage, any post page and every page showing a renamed term, so
// mutations clear the whole cache.
func (pc *PageCache) InvalidateAll(ctx context.Context) {
	if !pc.Enabled() {
		return
	}
	var cursor uint64
	deleted := 0
	for {
		keys, next, err := pc.client.Scan(ctx, cursor, pageKeyPrefix+"*", 100).Result()
		if err != nil {
			pc.logger.WithError(err).Warn("page cache scan failed")
			return
		}
		if len(keys) > 0 {
			if err := pc.client.Del(ctx, keys...).Err(); err != nil {
				pc.logger.WithError(err).Warn("page cache bulk delete failed")
			}
			deleted += len(keys)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	pc.logger.WithField("deleted", deleted).Debug("page cache cleared")
}

// HomeKey is the cache key of the homepage.
func HomeKey() string {
	return "home"
}

// PostKey is the cache key of a post page.
func PostKey(slug string) string {
	return "post:" + slug
}
