// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"math"
	"net"
	"net/http"
	"net/netip"
	"strconv"
	"strings"
	"sync"
	"time"

	"votehub/internal/metrics"
)

// limiterEntry tracks request timestamps for a single client.
type limiterEntry struct {
	mu         sync.Mutex
	timestamps []time.Time
}

// RateLimiter throttles anonymous credential endpoints per client IP
// using a sliding window.
type RateLimiter struct {
	mu      sync.RWMutex
	clients map[string]*limiterEntry
	limit   int
	window  time.Duration
	stopCh  chan struct{}
	once    sync.Once
	metrics *metrics.Metrics
	proxies []netip.Prefix
}

// NewRateLimiter creates a rate limiter that allows limit requests per window.
// It starts a background goroutine to clean up idle clients.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		clients: make(map[string]*limiterEntry),
		limit:   limit,
		window:  window,
		stopCh:  make(chan struct{}),
	}

	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				rl.cleanup()
			case <-rl.stopCh:
				return
			}
		}
	}()

	return rl
}

// Instrument makes the limiter count rejected requests in m.
func (rl *RateLimiter) Instrument(m *metrics.Metrics) *RateLimiter {
	rl.metrics = m
	return rl
}

// TrustProxies makes the limiter honour X-Forwarded-For and X-Real-IP,
// but only on requests whose peer address falls inside one of prefixes.
// Without it the peer address is the only client identity.
func (rl *RateLimiter) TrustProxies(prefixes []netip.Prefix) *RateLimiter {
	rl.proxies = prefixes
	return rl
}

// Stop terminates the background cleanup goroutine. Safe to call twice.
func (rl *RateLimiter) Stop() {
	rl.once.Do(func() { close(rl.stopCh) })
}

// entry returns the window for key, creating it on first sight.
func (rl *RateLimiter) entry(key string) *limiterEntry {
	rl.mu.RLock()
	e, ok := rl.clients[key]
	rl.mu.RUnlock()
	if ok {
		return e
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if e, ok = rl.clients[key]; !ok {
		e = &limiterEntry{}
		rl.clients[key] = e
	}
	return e
}

// allow records a request for key. When the key is over its limit it
// returns false and how long until the oldest request leaves the window.
func (rl *RateLimiter) allow(key string) (bool, time.Duration) {
	e := rl.entry(key)
	now := time.Now()

	e.mu.Lock()
	defer e.mu.Unlock()

	// Timestamps are appended in order, so expired ones form a prefix.
	cutoff := now.Add(-rl.window)
	drop := 0
	for drop < len(e.timestamps) && !e.timestamps[drop].After(cutoff) {
		drop++
	}
	e.timestamps = e.timestamps[drop:]

	if len(e.timestamps) >= rl.limit {
		return false, e.timestamps[0].Add(rl.window).Sub(now)
	}
	e.timestamps = append(e.timestamps, now)
	return true, 0
}

// cleanup forgets clients whose newest request has left the window.
func (rl *RateLimiter) cleanup() {
	cutoff := time.Now().Add(-rl.window)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for key, e := range rl.clients {
		e.mu.Lock()
		idle := len(e.timestamps) == 0 || !e.timestamps[len(e.timestamps)-1].After(cutoff)
		e.mu.Unlock()
		if idle {
			delete(rl.clients, key)
		}
	}
}

// Middleware rejects over-limit clients with 429 and a Retry-After header.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ok, wait := rl.allow(rl.clientIP(r))
		if !ok {
			secs := int(math.Ceil(wait.Seconds()))
			if secs < 1 {
				secs = 1
			}
			rl.metrics.ThrottledInc(routePattern(r))
			w.Header().Set("Retry-After", strconv.Itoa(secs))
			writeDetail(w, http.StatusTooManyRequests,
				"Request was throttled. Expected available in "+strconv.Itoa(secs)+" seconds.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// trusted reports whether addr is one of the configured proxies.
func (rl *RateLimiter) trusted(addr string) bool {
	ip, err := netip.ParseAddr(addr)
	if err != nil {
		return false
	}
	ip = ip.Unmap()
	for _, p := range rl.proxies {
		if p.Contains(ip) {
			return true
		}
	}
	return false
}

// clientIP returns the address a request is throttled under. Forwarding
// headers are read only when the peer is a trusted proxy. X-Forwarded-For
// is walked right to left past further trusted hops, so entries a client
// prepends itself are never reached.
func (rl *RateLimiter) clientIP(r *http.Request) string {
	peer := r.RemoteAddr
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		peer = host
	}
	if !rl.trusted(peer) {
		return peer
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		hops := strings.Split(xff, ",")
		for i := len(hops) - 1; i >= 0; i-- {
			hop := strings.TrimSpace(hops[i])
			if hop == "" {
				continue
			}
			if i == 0 || !rl.trusted(hop) {
				return hop
			}
		}
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}
	return peer
}
