// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// listingKeyPrefix is the Valkey key prefix for cached candidate listings.
	listingKeyPrefix = "candidates:"

	// generationKey counts listing invalidations. Bodies are stored under
	// the generation they were built in.
	generationKey = listingKeyPrefix + "gen"

	// DefaultListingTTL is how long an encoded listing stays cached.
	DefaultListingTTL = 30 * time.Second
)

// Listing variants of the public candidate list.
const (
	ListingVisible  = "visible"
	ListingAssigned = "assigned"
)

// Generation identifies the invalidation epoch a listing was read in.
// NoGeneration means the epoch is unknown and nothing should be stored.
type Generation int64

const NoGeneration Generation = -1

// ListingCache holds the JSON-encoded public candidate listing. A nil
// *ListingCache is valid and behaves as a cache that never hits.
type ListingCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewListingCache creates a listing cache backed by the given Valkey client.
func NewListingCache(client *redis.Client, ttl time.Duration) *ListingCache {
	if ttl == 0 {
		ttl = DefaultListingTTL
	}
	return &ListingCache{client: client, ttl: ttl}
}

func listingKey(gen Generation, variant string) string {
	return listingKeyPrefix + strconv.FormatInt(int64(gen), 10) + ":" + variant
}

// generation reads the current epoch. A missing counter is epoch 0.
func (lc *ListingCache) generation(ctx context.Context) (Generation, error) {
	n, err := lc.client.Get(ctx, generationKey).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return NoGeneration, err
	}
	return Generation(n), nil
}

// Get returns the cached body for a listing variant in the current epoch.
// On a miss the returned generation must be passed to Set once the body
// has been rebuilt, so a rebuild that straddles an invalidation is never
// served.
func (lc *ListingCache) Get(ctx context.Context, variant string) ([]byte, Generation, bool) {
	if lc == nil {
		return nil, NoGeneration, false
	}
	gen, err := lc.generation(ctx)
	if err != nil {
		slog.Warn("listing cache generation error", "error", err)
		return nil, NoGeneration, false
	}
	val, err := lc.client.Get(ctx, listingKey(gen, variant)).Bytes()
	if err == redis.Nil {
		return nil, gen, false
	}
	if err != nil {
		slog.Warn("listing cache get error", "variant", variant, "error", err)
		return nil, gen, false
	}
	slog.Debug("listing cache hit", "variant", variant, "generation", gen)
	return val, gen, true
}

// Set stores an encoded listing built during epoch gen. If the listing
// has been invalidated since, the body lands under a retired key that is
// never read again and simply expires.
func (lc *ListingCache) Set(ctx context.Context, gen Generation, variant string, body []byte) {
	if lc == nil || gen == NoGeneration {
		return
	}
	if err := lc.client.Set(ctx, listingKey(gen, variant), body, lc.ttl).Err(); err != nil {
		slog.Warn("listing cache set error", "variant", variant, "error", err)
	}
}

// InvalidateAll retires every cached listing by advancing the epoch.
// Called after any candidate or vote write since either can change what
// the listing shows.
func (lc *ListingCache) InvalidateAll(ctx context.Context) {
	if lc == nil {
		return
	}
	gen, err := lc.client.Incr(ctx, generationKey).Result()
	if err != nil {
		slog.Warn("listing cache invalidate error", "error", err)
		return
	}
	slog.Debug("listing cache invalidated", "generation", gen)
}
