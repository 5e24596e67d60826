// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler integration
// tests. Tests are skipped when PostgreSQL or Valkey are unavailable.
package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"votehub/internal/cache"
	"votehub/internal/database"
	"votehub/internal/metrics"
	"votehub/internal/middleware"
	"votehub/internal/models"
	"votehub/internal/store"
	"votehub/internal/token"
)

const testPassword = "handler-secret"

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "votehub")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "votehub")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(context.Background(), db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

// testValkeyClient returns a Redis client for handler tests on DB 14, apart
// from the token and cache package tests.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr:     envOr("VALKEY_HOST", "localhost") + ":" + envOr("VALKEY_PORT", "6379"),
		Password: os.Getenv("VALKEY_PASSWORD"),
		DB:       14,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		for _, pattern := range []string{"token:*", "user-token:*", "candidates:*"} {
			keys, _ := client.Keys(ctx, pattern).Result()
			if len(keys) > 0 {
				client.Del(ctx, keys...)
			}
		}
		client.Close()
	})

	return client
}

// testEnv holds all dependencies for handler integration tests.
type testEnv struct {
	DB       *sql.DB
	Valkey   *redis.Client
	Registry *prometheus.Registry
	Metrics  *metrics.Metrics

	UserStore           *store.UserStore
	CandidateStore      *store.CandidateStore
	CandidateTopicStore *store.CandidateTopicStore
	VoteStore           *store.VoteStore
	FavoriteStore       *store.FavoriteStore
	FilterStore         *store.FilterStore
	LocationStore       *store.LocationStore
	TaxonomyStore       *store.TaxonomyStore
	Tokens              *token.Store
	Listing             *cache.ListingCache

	Users      *Users
	Candidates *Candidates
	Votes      *Votes
	Favorites  *Favorites
	Filters    *Filters
	Reference  *Reference
}

// newTestEnv creates a complete test environment with all handler dependencies.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testDB(t)
	vk := testValkeyClient(t)
	reg := prometheus.NewRegistry()

	env := &testEnv{
		DB:                  db,
		Valkey:              vk,
		Registry:            reg,
		Metrics:             metrics.New(reg),
		UserStore:           store.NewUserStore(db),
		CandidateStore:      store.NewCandidateStore(db),
		CandidateTopicStore: store.NewCandidateTopicStore(db),
		VoteStore:           store.NewVoteStore(db),
		FavoriteStore:       store.NewFavoriteStore(db),
		FilterStore:         store.NewFilterStore(db),
		LocationStore:       store.NewLocationStore(db),
		TaxonomyStore:       store.NewTaxonomyStore(db),
		Tokens:              token.NewStore(vk, time.Hour),
		Listing:             cache.NewListingCache(vk, time.Minute),
	}
	env.Listing.InvalidateAll(context.Background())

	env.Users = NewUsers(env.UserStore, env.LocationStore, env.Tokens, env.Metrics)
	env.Candidates = NewCandidates(CandidateDeps{
		Candidates: env.CandidateStore,
		Topics:     env.CandidateTopicStore,
		Votes:      env.VoteStore,
		Taxonomy:   env.TaxonomyStore,
		Locations:  env.LocationStore,
		Listing:    env.Listing,
		Metrics:    env.Metrics,
	})
	env.Votes = NewVotes(env.VoteStore, env.CandidateStore, env.Listing, env.Metrics)
	env.Favorites = NewFavorites(env.FavoriteStore, env.CandidateStore)
	env.Filters = NewFilters(env.FilterStore, env.TaxonomyStore)
	env.Reference = NewReference(env.LocationStore, env.TaxonomyStore)
	return env
}

// jsonRequest builds a request carrying body as JSON.
func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// withUser puts an authenticated user into the request context.
func withUser(r *http.Request, u *models.User) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), middleware.UserKey, u))
}

// withChiURLParam adds a chi URL parameter to a request.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// decodeBody unmarshals the recorded JSON response into T.
func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

// testUser creates a user and removes it (and everything it owns) after the test.
func testUser(t *testing.T, env *testEnv, email string) *models.User {
	t.Helper()
	env.DB.Exec("DELETE FROM users WHERE email = $1", email)
	u, err := env.UserStore.Create(email, testPassword, store.UserProfile{Name: "Handler Tester"})
	require.NoError(t, err)
	t.Cleanup(func() { env.DB.Exec("DELETE FROM users WHERE id = $1", u.ID) })
	return u
}

// testCandidate creates a live candidate and hard-deletes it after the test.
func testCandidate(t *testing.T, env *testEnv, name string) *models.Candidate {
	t.Helper()
	c, err := env.CandidateStore.Create(&models.Candidate{Name: name})
	require.NoError(t, err)
	t.Cleanup(func() { env.DB.Exec("DELETE FROM candidates WHERE id = $1", c.ID) })
	return c
}

// testCity creates a country, state and city chain. Removing the country
// cascades to the rest.
func testCity(t *testing.T, env *testEnv) *models.City {
	t.Helper()
	country, err := env.LocationStore.CreateCountry("Handlerland")
	require.NoError(t, err)
	t.Cleanup(func() { env.DB.Exec("DELETE FROM countries WHERE id = $1", country.ID) })

	state, err := env.LocationStore.CreateState("Handler State", country.ID)
	require.NoError(t, err)
	city, err := env.LocationStore.CreateCity("Handler City", state.ID)
	require.NoError(t, err)
	return city
}

// testTopic creates a category, sub-category and topic chain.
func testTopic(t *testing.T, env *testEnv) *models.Topic {
	t.Helper()
	cat, err := env.TaxonomyStore.CreateCategory("Handler Category")
	require.NoError(t, err)
	t.Cleanup(func() { env.DB.Exec("DELETE FROM categories WHERE id = $1", cat.ID) })

	sub, err := env.TaxonomyStore.CreateSubCategory("Handler Sub", cat.ID)
	require.NoError(t, err)
	topic, err := env.TaxonomyStore.CreateTopic("Handler Topic", sub.ID)
	require.NoError(t, err)
	return topic
}
