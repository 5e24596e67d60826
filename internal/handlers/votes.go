// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"votehub/internal/cache"
	"votehub/internal/metrics"
	"votehub/internal/middleware"
	"votehub/internal/models"
	"votehub/internal/store"
)

// Votes serves the caller's own votes. Every query is scoped to the
// authenticated user, so other users' votes are indistinguishable from
// missing ones.
type Votes struct {
	votes      *store.VoteStore
	candidates *store.CandidateStore
	listing    *cache.ListingCache
	metrics    *metrics.Metrics
}

// NewVotes creates the vote handler group.
func NewVotes(votes *store.VoteStore, candidates *store.CandidateStore, listing *cache.ListingCache, m *metrics.Metrics) *Votes {
	return &Votes{votes: votes, candidates: candidates, listing: listing, metrics: m}
}

type voteInput struct {
	Name      field[string]    `json:"name" validate:"omitempty,max=255"`
	IsVote    field[bool]      `json:"is_vote"`
	Candidate field[uuid.UUID] `json:"candidate"`
}

func (h *Votes) bind(r *http.Request) (*voteInput, error) {
	p, err := decodePayload(r, isPartial(r))
	if err != nil {
		return nil, err
	}
	in := &voteInput{
		Name:      bindString(p, "name", rule{required: true}),
		IsVote:    bindBool(p, "is_vote", rule{required: true}),
		Candidate: bindPK(p, "candidate", rule{required: true}),
	}
	p.check(in)
	if err := checkPK(p, "candidate", in.Candidate, h.candidates.Exists); err != nil {
		return nil, err
	}
	return in, p.err()
}

func (in *voteInput) apply(v *models.Vote) {
	if in.Name.Set {
		v.Name = in.Name.Value
	}
	if in.IsVote.Set {
		v.IsVote = in.IsVote.Value
	}
	if in.Candidate.Set {
		v.CandidateID = in.Candidate.Value
	}
}

// List handles GET /vote/.
func (h *Votes) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.votes.ListByUser(middleware.UserFromCtx(r.Context()).ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Votes) find(w http.ResponseWriter, r *http.Request) (*models.Vote, bool) {
	id, ok := pathID(r)
	if !ok {
		writeNotFound(w)
		return nil, false
	}
	v, err := h.votes.FindForUser(id, middleware.UserFromCtx(r.Context()).ID)
	if err != nil {
		writeError(w, r, err)
		return nil, false
	}
	if v == nil {
		writeNotFound(w)
		return nil, false
	}
	return v, true
}

// Get handles GET /vote/{id}/.
func (h *Votes) Get(w http.ResponseWriter, r *http.Request) {
	if v, ok := h.find(w, r); ok {
		writeJSON(w, http.StatusOK, v)
	}
}

// Create handles POST /vote/. The vote always belongs to the caller.
func (h *Votes) Create(w http.ResponseWriter, r *http.Request) {
	in, err := h.bind(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	v := &models.Vote{UserID: middleware.UserFromCtx(r.Context()).ID}
	in.apply(v)
	created, err := h.votes.Create(v)
	if err != nil {
		writeError(w, r, refError(err, "candidate", in.Candidate.Ptr()))
		return
	}

	h.metrics.VoteCastInc(created.IsVote)
	h.listing.InvalidateAll(r.Context())
	writeJSON(w, http.StatusCreated, created)
}

// Update handles PUT and PATCH /vote/{id}/.
func (h *Votes) Update(w http.ResponseWriter, r *http.Request) {
	v, ok := h.find(w, r)
	if !ok {
		return
	}
	in, err := h.bind(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	in.apply(v)
	updated, err := h.votes.Update(v)
	if err != nil {
		writeError(w, r, refError(err, "candidate", in.Candidate.Ptr()))
		return
	}
	if updated == nil {
		writeNotFound(w)
		return
	}

	h.listing.InvalidateAll(r.Context())
	writeJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /vote/{id}/.
func (h *Votes) Delete(w http.ResponseWriter, r *http.Request) {
	v, ok := h.find(w, r)
	if !ok {
		return
	}
	if _, err := h.votes.Delete(v.ID); err != nil {
		writeError(w, r, err)
		return
	}
	h.listing.InvalidateAll(r.Context())
	w.WriteHeader(http.StatusNoContent)
}
