// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"votehub/internal/metrics"
)

const msgServerError = "A server error occurred."

// Recoverer turns a handler panic into the API's JSON 500 and counts it.
// http.ErrAbortHandler is re-raised so net/http can drop the connection.
func Recoverer(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				m.PanicInc()
				slog.Error("panic recovered",
					"error", rec,
					"method", r.Method,
					"path", r.URL.Path,
					"stack", string(debug.Stack()),
				)
				writeDetail(w, http.StatusInternalServerError, msgServerError)
			}()

			next.ServeHTTP(w, r)
		})
	}
}

