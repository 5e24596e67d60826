// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testValkeyClient returns a Redis client for tests.
// Skips if Valkey is unavailable.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr:     envOr("VALKEY_HOST", "localhost") + ":" + envOr("VALKEY_PORT", "6379"),
		Password: os.Getenv("VALKEY_PASSWORD"),
		DB:       15, // Use DB 15 for tests.
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping integration test: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, listingKeyPrefix+"*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})
	return client
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func TestConnectValkey(t *testing.T) {
	client, err := ConnectValkey(context.Background(), ValkeyOptions{
		Host:     envOr("VALKEY_HOST", "localhost"),
		Port:     envOr("VALKEY_PORT", "6379"),
		Password: os.Getenv("VALKEY_PASSWORD"),
		DB:       15,
	})
	if err != nil {
		t.Skipf("skipping: Valkey not available: %v", err)
	}
	defer client.Close()

	pong, err := client.Ping(context.Background()).Result()
	require.NoError(t, err)
	assert.Equal(t, "PONG", pong)

	name, err := client.ClientGetName(context.Background()).Result()
	require.NoError(t, err)
	assert.Equal(t, clientName, name)
}

func TestConnectValkeyUnreachable(t *testing.T) {
	_, err := ConnectValkey(context.Background(), ValkeyOptions{Host: "127.0.0.1", Port: "1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "127.0.0.1:1")
}

func TestListingCacheSetAndGet(t *testing.T) {
	lc := NewListingCache(testValkeyClient(t), time.Minute)
	ctx := context.Background()

	data, gen, ok := lc.Get(ctx, ListingVisible)
	assert.False(t, ok)
	assert.Nil(t, data)
	require.NotEqual(t, NoGeneration, gen)

	body := []byte(`[{"name":"Ada"}]`)
	lc.Set(ctx, gen, ListingVisible, body)

	data, _, ok = lc.Get(ctx, ListingVisible)
	require.True(t, ok)
	assert.Equal(t, body, data)

	_, _, ok = lc.Get(ctx, ListingAssigned)
	assert.False(t, ok, "variants are cached independently")
}

func TestListingCacheInvalidateAll(t *testing.T) {
	lc := NewListingCache(testValkeyClient(t), time.Minute)
	ctx := context.Background()

	_, gen, _ := lc.Get(ctx, ListingVisible)
	for _, v := range []string{ListingVisible, ListingAssigned, "extra-0", "extra-1"} {
		lc.Set(ctx, gen, v, []byte(v))
	}

	lc.InvalidateAll(ctx)

	for _, v := range []string{ListingVisible, ListingAssigned, "extra-0", "extra-1"} {
		_, next, ok := lc.Get(ctx, v)
		assert.False(t, ok, "expected miss for %q after InvalidateAll", v)
		assert.Greater(t, next, gen)
	}
}

func TestListingCacheRebuildRacingInvalidation(t *testing.T) {
	lc := NewListingCache(testValkeyClient(t), time.Minute)
	ctx := context.Background()

	// A reader misses and starts rebuilding from the database.
	_, readerGen, ok := lc.Get(ctx, ListingAssigned)
	require.False(t, ok)

	// A vote is written and the listing invalidated before the reader
	// stores its now outdated body.
	lc.InvalidateAll(ctx)
	lc.Set(ctx, readerGen, ListingAssigned, []byte(`[]`))

	_, gen, ok := lc.Get(ctx, ListingAssigned)
	assert.False(t, ok, "a body built before the invalidation is never served")

	fresh := []byte(`[{"name":"Voted"}]`)
	lc.Set(ctx, gen, ListingAssigned, fresh)
	data, _, ok := lc.Get(ctx, ListingAssigned)
	require.True(t, ok)
	assert.Equal(t, fresh, data)
}

func TestNilListingCache(t *testing.T) {
	var lc *ListingCache
	ctx := context.Background()

	lc.Set(ctx, 0, ListingVisible, []byte("ignored"))
	_, gen, ok := lc.Get(ctx, ListingVisible)
	assert.False(t, ok)
	assert.Equal(t, NoGeneration, gen)
	lc.InvalidateAll(ctx)
}
