// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureLog routes the default logger into a buffer for the test.
func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func lastEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[len(lines)-1], &entry))
	return entry
}

func TestLoggerRecordsRequest(t *testing.T) {
	buf := captureLog(t)

	r := chi.NewRouter()
	r.Use(Logger)
	r.Post("/vote/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"ok":true}`))
	})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/vote/42", nil))
	require.Equal(t, http.StatusCreated, rr.Code)

	entry := lastEntry(t, buf)
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "http request", entry["msg"])
	assert.Equal(t, "POST", entry["method"])
	assert.Equal(t, "/vote/42", entry["path"])
	assert.Equal(t, "/vote/{id}", entry["route"])
	assert.Equal(t, 201.0, entry["status"])
	assert.Equal(t, 11.0, entry["bytes"])
}

func TestLoggerLevels(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		status int
		want   string
	}{
		{"ok", "/candidate/", http.StatusOK, "INFO"},
		{"client error", "/candidate/missing", http.StatusNotFound, "INFO"},
		{"server error", "/candidate/", http.StatusBadGateway, "WARN"},
		{"health poll", "/health", http.StatusOK, "DEBUG"},
		{"metrics scrape", "/metrics", http.StatusOK, "DEBUG"},
		{"failing health check", "/health", http.StatusServiceUnavailable, "WARN"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureLog(t)
			handler := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))

			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.status, rr.Code)
			assert.Equal(t, tt.want, lastEntry(t, buf)["level"])
		})
	}
}

func TestResponseWriter(t *testing.T) {
	t.Run("first WriteHeader wins", func(t *testing.T) {
		rw := &responseWriter{ResponseWriter: httptest.NewRecorder(), statusCode: http.StatusOK}
		rw.WriteHeader(http.StatusNotFound)
		rw.WriteHeader(http.StatusInternalServerError)

		assert.Equal(t, http.StatusNotFound, rw.statusCode)
		assert.True(t, rw.written)
	})

	t.Run("Write implies 200 and counts bytes", func(t *testing.T) {
		rw := &responseWriter{ResponseWriter: httptest.NewRecorder()}
		n, err := rw.Write([]byte("test"))
		require.NoError(t, err)
		rw.Write([]byte("ing"))

		assert.Equal(t, 4, n)
		assert.Equal(t, http.StatusOK, rw.statusCode)
		assert.Equal(t, 7, rw.bytes)
	})

	t.Run("Write keeps explicit status", func(t *testing.T) {
		rw := &responseWriter{ResponseWriter: httptest.NewRecorder()}
		rw.WriteHeader(http.StatusCreated)
		rw.Write([]byte("created"))

		assert.Equal(t, http.StatusCreated, rw.statusCode)
	})

	t.Run("Unwrap", func(t *testing.T) {
		rr := httptest.NewRecorder()
		rw := &responseWriter{ResponseWriter: rr}
		assert.Same(t, rr, rw.Unwrap())
	})
}
