// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the JSON HTTP handlers for the votehub API.
// Handlers are grouped by resource and receive their dependencies through
// the handler struct.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"votehub/internal/store"
)

const msgServerError = "A server error occurred."

func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		slog.Error("encode response failed", "error", err)
		writeDetail(w, http.StatusInternalServerError, msgServerError)
		return
	}
	writeRaw(w, status, body)
}

// writeRaw sends an already encoded JSON body.
func writeRaw(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}

func writeDetail(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"detail": msg})
}

func writeNotFound(w http.ResponseWriter) {
	writeDetail(w, http.StatusNotFound, "Not found.")
}

// writeError renders err as a 400 for client mistakes and a logged 500
// for everything else.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var pe *parseError
	var ve *validationError
	switch {
	case errors.As(err, &pe):
		writeDetail(w, http.StatusBadRequest, pe.Error())
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, ve.fields)
	default:
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeDetail(w, http.StatusInternalServerError, msgServerError)
	}
}

// NotFound is the router fallback for unknown paths.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeNotFound(w)
}

// MethodNotAllowed is the router fallback for known paths hit with an
// unsupported method.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeDetail(w, http.StatusMethodNotAllowed, `Method "`+r.Method+`" not allowed.`)
}

// pathID parses the {id} URL parameter. Malformed IDs cannot match any row.
func pathID(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	return id, err == nil
}

// refError turns a foreign-key violation that slipped past checkPK into
// the same field error the pre-check would have produced.
func refError(err error, name string, id *uuid.UUID) error {
	if id != nil && errors.Is(err, store.ErrInvalidReference) {
		return &validationError{fields: fieldErrors{name: {invalidPK(id.String())}}}
	}
	return err
}

func isPartial(r *http.Request) bool {
	return r.Method == http.MethodPatch
}
