// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package metrics defines the Prometheus collectors exported at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "votehub"

// Metrics groups the HTTP and domain collectors. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPPanics          prometheus.Counter
	HTTPThrottled       *prometheus.CounterVec

	Registrations     prometheus.Counter
	TokensIssued      prometheus.Counter
	VotesCast         *prometheus.CounterVec
	CandidatesDeleted *prometheus.CounterVec
}

// New registers every collector with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		HTTPPanics: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "panics_total",
			Help:      "Handler panics turned into 500 responses.",
		}),
		HTTPThrottled: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "throttled_total",
			Help:      "Requests rejected by the auth rate limiter.",
		}, []string{"route"}),
		Registrations: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registrations_total",
			Help:      "Users registered through the public endpoint.",
		}),
		TokensIssued: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tokens_issued_total",
			Help:      "Successful token requests.",
		}),
		VotesCast: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "votes_cast_total",
			Help:      "Votes created, by decision.",
		}, []string{"decision"}),
		CandidatesDeleted: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "candidates_deleted_total",
			Help:      "Candidate deletions, by kind.",
		}, []string{"kind"}),
	}
}

func (m *Metrics) PanicInc() {
	if m != nil {
		m.HTTPPanics.Inc()
	}
}

// ThrottledInc counts a 429 on route. An empty route is recorded as
// "unmatched".
func (m *Metrics) ThrottledInc(route string) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.HTTPThrottled.WithLabelValues(route).Inc()
}

func (m *Metrics) RegistrationInc() {
	if m != nil {
		m.Registrations.Inc()
	}
}

func (m *Metrics) TokenIssuedInc() {
	if m != nil {
		m.TokensIssued.Inc()
	}
}

// VoteCastInc counts a new vote as "yes" or "no".
func (m *Metrics) VoteCastInc(isVote bool) {
	if m == nil {
		return
	}
	decision := "no"
	if isVote {
		decision = "yes"
	}
	m.VotesCast.WithLabelValues(decision).Inc()
}

// CandidateDeletedInc counts a deletion as "soft" or "hard".
func (m *Metrics) CandidateDeletedInc(hard bool) {
	if m == nil {
		return
	}
	kind := "soft"
	if hard {
		kind = "hard"
	}
	m.CandidatesDeleted.WithLabelValues(kind).Inc()
}
