// Copyright (c) 2026 Eduards Krastiņš <eduards@veikals.dev>
// Copyright (c) 2026 Veikals Commerce SIA <dev@veikals.dev>
// All rights reserved. See LICENSE for details.

// resolve.go provides a Valkey-backed cache for resolved catalog paths.
// When a public path resolves to a product or category, the JSON payload
// is stored in Valkey so subsequent requests skip the category-tree load
// and resolution entirely. Misses are never cached, so the store stays the
// authority on 404s.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// resolveKeyPrefix namespaces resolved-path keys in Valkey.
	resolveKeyPrefix = "resolve:"

	// DefaultResolveTTL is how long a resolved payload stays cached.
	// Admin catalog writes invalidate the whole namespace, so the TTL only
	// bounds staleness for writes that bypass this service.
	DefaultResolveTTL = 5 * time.Minute
)

// ResolveCache manages resolved catalog path payloads in Valkey.
type ResolveCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewResolveCache creates a resolve cache backed by the given Valkey client.
func NewResolveCache(client *redis.Client, ttl time.Duration) *ResolveCache {
	if ttl == 0 {
		ttl = DefaultResolveTTL
	}
	return &ResolveCache{client: client, ttl: ttl}
}

// Key builds the cache key for a locale and catalog path.
func Key(locale, path string) string {
	return locale + ":" + path
}

// Get retrieves a cached payload. Returns false on miss or cache error;
// the caller falls through to the resolver either way.
func (rc *ResolveCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := rc.client.Get(ctx, resolveKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("resolve cache get error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("resolve cache hit", "key", key)
	return val, true
}

// Set stores a resolved payload with the configured TTL.
func (rc *ResolveCache) Set(ctx context.Context, key string, payload []byte) {
	if err := rc.client.Set(ctx, resolveKeyPrefix+key, payload, rc.ttl).Err(); err != nil {
		slog.Warn("resolve cache set error", "key", key, "error", err)
	}
}

// InvalidateAll removes every cached payload by scanning for the prefix.
// A category rename or re-parenting changes the canonical path of the
// whole subtree and of every product under it, so catalog writes clear
// the namespace rather than chasing individual paths.
func (rc *ResolveCache) InvalidateAll(ctx context.Context) {
	var cursor uint64
	var deleted int
	for {
		keys, next, err := rc.client.Scan(ctx, cursor, resolveKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("resolve cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := rc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("resolve cache delete error", "error", err)
				return
			}
			deleted += len(keys)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	slog.Debug("resolve cache invalidated", "deleted", deleted)
}
