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

// Favorites serves the caller's favorite candidates.
type Favorites struct {
	favorites  *store.FavoriteStore
	candidates *store.CandidateStore
}

// NewFavorites creates the favorite handler group.
func NewFavorites(favorites *store.FavoriteStore, candidates *store.CandidateStore) *Favorites {
	return &Favorites{favorites: favorites, candidates: candidates}
}

type favoriteInput struct {
	Name      field[string]    `json:"name" validate:"omitempty,max=255"`
	Candidate field[uuid.UUID] `json:"candidate"`
}

func (h *Favorites) bind(r *http.Request) (*favoriteInput, error) {
	p, err := decodePayload(r, isPartial(r))
	if err != nil {
		return nil, err
	}
	in := &favoriteInput{
		Name:      bindString(p, "name", rule{required: true}),
		Candidate: bindPK(p, "candidate", rule{required: true}),
	}
	p.check(in)
	if err := checkPK(p, "candidate", in.Candidate, h.candidates.Exists); err != nil {
		return nil, err
	}
	return in, p.err()
}

func (in *favoriteInput) apply(f *models.Favorite) {
	if in.Name.Set {
		f.Name = in.Name.Value
	}
	if in.Candidate.Set {
		f.CandidateID = in.Candidate.Value
	}
}

// List handles GET /favorite/.
func (h *Favorites) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.favorites.ListByUser(middleware.UserFromCtx(r.Context()).ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Favorites) find(w http.ResponseWriter, r *http.Request) (*models.Favorite, bool) {
	id, ok := pathID(r)
	if !ok {
		writeNotFound(w)
		return nil, false
	}
	f, err := h.favorites.FindForUser(id, middleware.UserFromCtx(r.Context()).ID)
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

// Get handles GET /favorite/{id}/.
func (h *Favorites) Get(w http.ResponseWriter, r *http.Request) {
	if f, ok := h.find(w, r); ok {
		writeJSON(w, http.StatusOK, f)
	}
}

// Create handles POST /favorite/.
func (h *Favorites) Create(w http.ResponseWriter, r *http.Request) {
	in, err := h.bind(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	f := &models.Favorite{UserID: middleware.UserFromCtx(r.Context()).ID}
	in.apply(f)
	created, err := h.favorites.Create(f)
	if err != nil {
		writeError(w, r, refError(err, "candidate", in.Candidate.Ptr()))
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// Update handles PUT and PATCH /favorite/{id}/.
func (h *Favorites) Update(w http.ResponseWriter, r *http.Request) {
	f, ok := h.find(w, r)
	if !ok {
		return
	}
	in, err := h.bind(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	in.apply(f)
	updated, err := h.favorites.Update(f)
	if err != nil {
		writeError(w, r, refError(err, "candidate", in.Candidate.Ptr()))
		return
	}
	if updated == nil {
		writeNotFound(w)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /favorite/{id}/.
func (h *Favorites) Delete(w http.ResponseWriter, r *http.Request) {
	f, ok := h.find(w, r)
	if !ok {
		return
	}
	if _, err := h.favorites.Delete(f.ID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
