// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the votehub API server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"votehub/internal/cache"
	"votehub/internal/config"
	"votehub/internal/database"
	"votehub/internal/handlers"
	"votehub/internal/metrics"
	"votehub/internal/middleware"
	"votehub/internal/router"
	"votehub/internal/store"
	"votehub/internal/token"
)

func main() {
	// Load configuration from .env and environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Structured logger: text in development, JSON everywhere else.
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	var logger *slog.Logger
	if cfg.IsDev() {
		logger = slog.New(slog.NewTextHandler(os.Stdout, opts))
	} else {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	slog.SetDefault(logger)

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN(), database.Pool{
		MaxOpen:     cfg.DBMaxOpenConns,
		MaxIdle:     cfg.DBMaxIdleConns,
		MaxLifetime: cfg.DBConnMaxLifetime,
	})
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(context.Background(), db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db, cfg.SeedAdminEmail, cfg.SeedAdminPassword); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Valkey (auth tokens + candidate listing cache).
	valkeyClient, err := cache.ConnectValkey(context.Background(), cache.ValkeyOptions{
		Host:     cfg.ValkeyHost,
		Port:     cfg.ValkeyPort,
		Password: cfg.ValkeyPassword,
	})
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	tokens := token.NewStore(valkeyClient, cfg.TokenTTL)
	listing := cache.NewListingCache(valkeyClient, cfg.CandidateCacheTTL)

	// Metrics live on a private registry served at /metrics.
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	// Initialize data stores.
	userStore := store.NewUserStore(db)
	candidateStore := store.NewCandidateStore(db)
	candidateTopicStore := store.NewCandidateTopicStore(db)
	voteStore := store.NewVoteStore(db)
	favoriteStore := store.NewFavoriteStore(db)
	filterStore := store.NewFilterStore(db)
	locationStore := store.NewLocationStore(db)
	taxonomyStore := store.NewTaxonomyStore(db)

	authLimiter := middleware.NewRateLimiter(cfg.AuthRateLimit, cfg.AuthRateWindow).
		Instrument(m).
		TrustProxies(cfg.TrustedProxies)
	defer authLimiter.Stop()

	// Set up the Chi router with all middleware and routes.
	r := router.New(router.Deps{
		Users: handlers.NewUsers(userStore, locationStore, tokens, m),
		Candidates: handlers.NewCandidates(handlers.CandidateDeps{
			Candidates: candidateStore,
			Topics:     candidateTopicStore,
			Votes:      voteStore,
			Taxonomy:   taxonomyStore,
			Locations:  locationStore,
			Listing:    listing,
			Metrics:    m,
		}),
		Votes:       handlers.NewVotes(voteStore, candidateStore, listing, m),
		Favorites:   handlers.NewFavorites(favoriteStore, candidateStore),
		Filters:     handlers.NewFilters(filterStore, taxonomyStore),
		Reference:   handlers.NewReference(locationStore, taxonomyStore),
		Tokens:      tokens,
		Accounts:    userStore,
		AuthLimiter: authLimiter,
		Metrics:     m,
		Gatherer:    registry,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
