// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"votehub/internal/middleware"
	"votehub/internal/models"
	"votehub/internal/store"
)

// Filters serves the topics a user follows.
type Filters struct {
	filters  *store.FilterStore
	taxonomy *store.TaxonomyStore
}

// NewFilters creates the filter handler group.
func NewFilters(filters *store.FilterStore, taxonomy *store.TaxonomyStore) *Filters {
	return &Filters{filters: filters, taxonomy: taxonomy}
}

type filterInput struct {
	Name  field[string]    `json:"name" validate:"omitempty,max=255"`
	Topic field[uuid.UUID] `json:"topic"`
}

func (h *Filters) bind(r *http.Request) (*filterInput, error) {
	p, err := decodePayload(r, isPartial(r))
	if err != nil {
		return nil, err
	}
	in := &filterInput{
		Name:  bindString(p, "name", rule{required: true}),
		Topic: bindPK(p, "topic", rule{required: true}),
	}
	p.check(in)
	if err := checkPK(p, "topic", in.Topic, h.taxonomy.TopicExists); err != nil {
		return nil, err
	}
	return in, p.err()
}

// List handles GET /filter/.
func (h *Filters) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.filters.ListByUser(middleware.UserFromCtx(r.Context()).ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Filters) find(w http.ResponseWriter, r *http.Request) (*models.Filter, bool) {
	id, ok := pathID(r)
	if !ok {
		writeNotFound(w)
		return nil, false
	}
	f, err := h.filters.FindForUser(id, middleware.UserFromCtx(r.Context()).ID)
	if err != nil {
		writeError(w, r, err)
		return nil, false
	}
	if f == nil {
		writeNotFound(w)
		return nil, false
	}
	return f, true
}

// Get handles GET /filter/{id}/.
func (h *Filters) Get(w http.ResponseWriter, r *http.Request) {
	if f, ok := h.find(w, r); ok {
		writeJSON(w, http.StatusOK, f)
	}
}

// Create handles POST /filter/.
func (h *Filters) Create(w http.ResponseWriter, r *http.Request) {
	in, err := h.bind(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	created, err := h.filters.Create(&models.Filter{
		Name:    in.Name.Value,
		TopicID: in.Topic.Value,
		UserID:  middleware.UserFromCtx(r.Context()).ID,
	})
	if err != nil {
		writeError(w, r, refError(err, "topic", in.Topic.Ptr()))
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// Update handles PUT and PATCH /filter/{id}/.
func (h *Filters) Update(w http.ResponseWriter, r *http.Request) {
	f, ok := h.find(w, r)
	if !ok {
		return
	}
	in, err := h.bind(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if in.Name.Set {
		f.Name = in.Name.Value
	}
	if in.Topic.Set {
		f.TopicID = in.Topic.Value
	}
	updated, err := h.filters.Update(f)
	if err != nil {
		writeError(w, r, refError(err, "topic", in.Topic.Ptr()))
		return
	}
	if updated == nil {
		writeNotFound(w)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /filter/{id}/.
func (h *Filters) Delete(w http.ResponseWriter, r *http.Request) {
	f, ok := h.find(w, r)
	if !ok {
		return
	}
	if _, err := h.filters.Delete(f.ID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
