// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// votehub API. Routes are grouped by resource, each group carrying the
// permission guard it needs.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"votehub/internal/handlers"
	"votehub/internal/metrics"
	"votehub/internal/middleware"
)

// Deps carries everything the route table needs.
type Deps struct {
	Users      *handlers.Users
	Candidates *handlers.Candidates
	Votes      *handlers.Votes
	Favorites  *handlers.Favorites
	Filters    *handlers.Filters
	Reference  *handlers.Reference

	Tokens   middleware.TokenResolver
	Accounts middleware.UserLoader

	// AuthLimiter throttles registration and token requests. Nil disables it.
	AuthLimiter *middleware.RateLimiter

	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(d Deps) chi.Router {
	r := chi.NewRouter()

	// Fallbacks first so mounted subrouters inherit them.
	r.NotFound(handlers.NotFound)
	r.MethodNotAllowed(handlers.MethodNotAllowed)

	// Global middleware, applied to every request.
	r.Use(chimw.StripSlashes)
	r.Use(middleware.Recoverer(d.Metrics))
	r.Use(middleware.Logger)
	r.Use(middleware.Metrics(d.Metrics))
	r.Use(middleware.SecureHeaders)

	// Health and metrics never read credentials, so a stale header cannot fail them.
	r.Get("/health", healthHandler)
	if d.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(d.Tokens, d.Accounts))
		api(r, d)
	})

	return r
}

// api registers every token-aware route.
func api(r chi.Router, d Deps) {
	// Registration and login.
	r.Group(func(r chi.Router) {
		if d.AuthLimiter != nil {
			r.Use(d.AuthLimiter.Middleware)
		}
		r.Post("/create", d.Users.Create)
		r.Post("/token", d.Users.Token)
	})

	r.Route("/me", func(r chi.Router) {
		r.Use(middleware.RequireUser)
		r.Get("/", d.Users.Me)
		r.Put("/", d.Users.UpdateMe)
		r.Patch("/", d.Users.UpdateMe)
		r.Post("/logout", d.Users.Logout)
	})

	// Per-user collections.
	r.Route("/vote", func(r chi.Router) {
		r.Use(middleware.RequireUser)
		r.Get("/", d.Votes.List)
		r.Post("/", d.Votes.Create)
		r.Get("/{id}", d.Votes.Get)
		r.Put("/{id}", d.Votes.Update)
		r.Patch("/{id}", d.Votes.Update)
		r.Delete("/{id}", d.Votes.Delete)
	})
	r.Route("/favorite", func(r chi.Router) {
		r.Use(middleware.RequireUser)
		r.Get("/", d.Favorites.List)
		r.Post("/", d.Favorites.Create)
		r.Get("/{id}", d.Favorites.Get)
		r.Put("/{id}", d.Favorites.Update)
		r.Patch("/{id}", d.Favorites.Update)
		r.Delete("/{id}", d.Favorites.Delete)
	})
	r.Route("/filter", func(r chi.Router) {
		r.Use(middleware.RequireUser)
		r.Get("/", d.Filters.List)
		r.Post("/", d.Filters.Create)
		r.Get("/{id}", d.Filters.Get)
		r.Put("/{id}", d.Filters.Update)
		r.Patch("/{id}", d.Filters.Update)
		r.Delete("/{id}", d.Filters.Delete)
	})

	// Candidates: reads are public, writes need a token.
	r.Route("/candidate", func(r chi.Router) {
		r.Use(middleware.ReadOnlyOrAuthenticated)
		r.Get("/", d.Candidates.List)
		r.Post("/", d.Candidates.Create)
		r.Get("/{id}", d.Candidates.Get)
		r.Put("/{id}", d.Candidates.Update)
		r.Patch("/{id}", d.Candidates.Update)
		r.Delete("/{id}", d.Candidates.Delete)
		r.Get("/{id}/topics", d.Candidates.ListTopics)
		r.Post("/{id}/topics", d.Candidates.CreateTopic)
		r.Get("/{id}/tally", d.Candidates.Tally)
	})
	r.Route("/candidates", func(r chi.Router) {
		r.Use(middleware.ReadOnlyOrAuthenticated)
		r.Get("/", d.Candidates.ListAll)
		r.Get("/deleted", d.Candidates.ListDeleted)
		r.Get("/deleted/{id}", d.Candidates.GetDeleted)
		r.Put("/deleted/{id}", d.Candidates.UpdateDeleted)
		r.Patch("/deleted/{id}", d.Candidates.UpdateDeleted)
		r.Delete("/deleted/{id}", d.Candidates.DeleteDeleted)
	})

	// Reference data: public reads, staff-only writes.
	for _, res := range d.Reference.Resources() {
		r.Route(res.Path, func(r chi.Router) {
			r.Use(middleware.ReadOnlyOrStaff)
			r.Get("/", res.List)
			r.Post("/", res.Create)
			r.Get("/{id}", res.Get)
		})
	}
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
