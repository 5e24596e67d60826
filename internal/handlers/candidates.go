// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"votehub/internal/cache"
	"votehub/internal/metrics"
	"votehub/internal/models"
	"votehub/internal/store"
)

// Candidates serves the candidate resource, its deleted-candidate views
// and the topics attached to a candidate.
type Candidates struct {
	candidates *store.CandidateStore
	topics     *store.CandidateTopicStore
	votes      *store.VoteStore
	taxonomy   *store.TaxonomyStore
	locations  *store.LocationStore
	listing    *cache.ListingCache
	metrics    *metrics.Metrics
}

// CandidateDeps groups the collaborators of the candidate handlers.
type CandidateDeps struct {
	Candidates *store.CandidateStore
	Topics     *store.CandidateTopicStore
	Votes      *store.VoteStore
	Taxonomy   *store.TaxonomyStore
	Locations  *store.LocationStore
	Listing    *cache.ListingCache
	Metrics    *metrics.Metrics
}

// NewCandidates creates the candidate handler group.
func NewCandidates(d CandidateDeps) *Candidates {
	return &Candidates{
		candidates: d.Candidates,
		topics:     d.Topics,
		votes:      d.Votes,
		taxonomy:   d.Taxonomy,
		locations:  d.Locations,
		listing:    d.Listing,
		metrics:    d.Metrics,
	}
}

type candidateInput struct {
	Name        field[string]    `json:"name" validate:"omitempty,max=255"`
	Description field[string]    `json:"description"`
	City        field[uuid.UUID] `json:"city"`
}

func (h *Candidates) bindCandidate(p *payload) (*candidateInput, error) {
	in := &candidateInput{
		Name:        bindString(p, "name", rule{required: true}),
		Description: bindString(p, "description", rule{allowNull: true, allowBlank: true}),
		City:        bindPK(p, "city", rule{allowNull: true}),
	}
	p.check(in)
	if err := checkPK(p, "city", in.City, h.locations.CityExists); err != nil {
		return nil, err
	}
	if in.Description.Set && !in.Description.Null {
		in.Description.Value = stripMarkup(in.Description.Value)
	}
	return in, p.err()
}

func (in *candidateInput) apply(c *models.Candidate) {
	if in.Name.Set {
		c.Name = in.Name.Value
	}
	if in.Description.Set {
		c.Description = in.Description.Ptr()
	}
	if in.City.Set {
		c.CityID = in.City.Ptr()
	}
}

// assignedOnly reads the assigned_only query flag. Any non-zero integer
// enables it.
func assignedOnly(r *http.Request) (bool, error) {
	raw := r.URL.Query().Get("assigned_only")
	if raw == "" {
		return false, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return false, &validationError{fields: fieldErrors{"assigned_only": {"A valid integer is required."}}}
	}
	return n != 0, nil
}

// List handles GET /candidate/. The encoded listing is served from Valkey
// when a fresh copy exists.
func (h *Candidates) List(w http.ResponseWriter, r *http.Request) {
	assigned, err := assignedOnly(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	variant := cache.ListingVisible
	if assigned {
		variant = cache.ListingAssigned
	}

	body, gen, ok := h.listing.Get(r.Context(), variant)
	if ok {
		writeRaw(w, http.StatusOK, body)
		return
	}

	items, err := h.candidates.List(store.Visible, assigned)
	if err != nil {
		writeError(w, r, err)
		return
	}
	body, err = json.Marshal(items)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.listing.Set(r.Context(), gen, variant, body)
	writeRaw(w, http.StatusOK, body)
}

// ListAll handles GET /candidates/, which includes soft-deleted rows.
func (h *Candidates) ListAll(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, store.WithDeleted)
}

// ListDeleted handles GET /candidates/deleted/.
func (h *Candidates) ListDeleted(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, store.DeletedOnly)
}

func (h *Candidates) list(w http.ResponseWriter, r *http.Request, vis store.Visibility) {
	items, err := h.candidates.List(vis, false)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// find loads the candidate named by the {id} path parameter under vis and
// writes a 404 when there is none.
func (h *Candidates) find(w http.ResponseWriter, r *http.Request, vis store.Visibility) (*models.Candidate, bool) {
	id, ok := pathID(r)
	if !ok {
		writeNotFound(w)
		return nil, false
	}
	c, err := h.candidates.FindByID(id, vis)
	if err != nil {
		writeError(w, r, err)
		return nil, false
	}
	if c == nil {
		writeNotFound(w)
		return nil, false
	}
	return c, true
}

// Get handles GET /candidate/{id}/.
func (h *Candidates) Get(w http.ResponseWriter, r *http.Request) {
	if c, ok := h.find(w, r, store.Visible); ok {
		writeJSON(w, http.StatusOK, c)
	}
}

// GetDeleted handles GET /candidates/deleted/{id}/.
func (h *Candidates) GetDeleted(w http.ResponseWriter, r *http.Request) {
	if c, ok := h.find(w, r, store.DeletedOnly); ok {
		writeJSON(w, http.StatusOK, c)
	}
}

// Create handles POST /candidate/.
func (h *Candidates) Create(w http.ResponseWriter, r *http.Request) {
	p, err := decodePayload(r, false)
	if err != nil {
		writeError(w, r, err)
		return
	}
	in, err := h.bindCandidate(p)
	if err != nil {
		writeError(w, r, err)
		return
	}

	c := &models.Candidate{}
	in.apply(c)
	created, err := h.candidates.Create(c)
	if err != nil {
		writeError(w, r, refError(err, "city", in.City.Ptr()))
		return
	}

	h.listing.InvalidateAll(r.Context())
	slog.Info("candidate created", "candidate_id", created.ID)
	writeJSON(w, http.StatusCreated, created)
}

// Update handles PUT and PATCH /candidate/{id}/.
func (h *Candidates) Update(w http.ResponseWriter, r *http.Request) {
	c, ok := h.find(w, r, store.Visible)
	if !ok {
		return
	}
	h.save(w, r, c)
}

// UpdateDeleted handles PUT and PATCH /candidates/deleted/{id}/. Saving a
// deleted candidate brings it back.
func (h *Candidates) UpdateDeleted(w http.ResponseWriter, r *http.Request) {
	c, ok := h.find(w, r, store.DeletedOnly)
	if !ok {
		return
	}
	c.Deleted = nil
	h.save(w, r, c)
}

func (h *Candidates) save(w http.ResponseWriter, r *http.Request, c *models.Candidate) {
	p, err := decodePayload(r, isPartial(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	in, err := h.bindCandidate(p)
	if err != nil {
		writeError(w, r, err)
		return
	}

	in.apply(c)
	updated, err := h.candidates.Update(c)
	if err != nil {
		writeError(w, r, refError(err, "city", in.City.Ptr()))
		return
	}
	if updated == nil {
		writeNotFound(w)
		return
	}

	h.listing.InvalidateAll(r.Context())
	writeJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /candidate/{id}/ and soft-deletes the candidate.
func (h *Candidates) Delete(w http.ResponseWriter, r *http.Request) {
	if c, ok := h.find(w, r, store.Visible); ok {
		h.destroy(w, r, c)
	}
}

// DeleteDeleted handles DELETE /candidates/deleted/{id}/ and removes the
// candidate for good.
func (h *Candidates) DeleteDeleted(w http.ResponseWriter, r *http.Request) {
	if c, ok := h.find(w, r, store.DeletedOnly); ok {
		h.destroy(w, r, c)
	}
}

func (h *Candidates) destroy(w http.ResponseWriter, r *http.Request, c *models.Candidate) {
	res, err := h.candidates.Delete(c.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if res == store.NotDeleted {
		writeNotFound(w)
		return
	}

	hard := res == store.HardDeleted
	h.metrics.CandidateDeletedInc(hard)
	h.listing.InvalidateAll(r.Context())
	slog.Info("candidate deleted", "candidate_id", c.ID, "hard", hard)
	w.WriteHeader(http.StatusNoContent)
}

// Tally handles GET /candidate/{id}/tally/.
func (h *Candidates) Tally(w http.ResponseWriter, r *http.Request) {
	c, ok := h.find(w, r, store.Visible)
	if !ok {
		return
	}
	yes, no, err := h.votes.CountForCandidate(c.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"candidate": c.ID, "yes": yes, "no": no})
}

type candidateTopicInput struct {
	Name  field[string]    `json:"name" validate:"omitempty,max=255"`
	Topic field[uuid.UUID] `json:"topic"`
}

// ListTopics handles GET /candidate/{id}/topics/.
func (h *Candidates) ListTopics(w http.ResponseWriter, r *http.Request) {
	c, ok := h.find(w, r, store.Visible)
	if !ok {
		return
	}
	items, err := h.topics.ListByCandidate(c.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// CreateTopic handles POST /candidate/{id}/topics/.
func (h *Candidates) CreateTopic(w http.ResponseWriter, r *http.Request) {
	c, ok := h.find(w, r, store.Visible)
	if !ok {
		return
	}
	p, err := decodePayload(r, false)
	if err != nil {
		writeError(w, r, err)
		return
	}
	in := &candidateTopicInput{
		Name:  bindString(p, "name", rule{required: true}),
		Topic: bindPK(p, "topic", rule{required: true}),
	}
	p.check(in)
	if err := checkPK(p, "topic", in.Topic, h.taxonomy.TopicExists); err != nil {
		writeError(w, r, err)
		return
	}
	if err := p.err(); err != nil {
		writeError(w, r, err)
		return
	}

	created, err := h.topics.Create(&models.CandidateTopic{
		Name:        in.Name.Value,
		CandidateID: c.ID,
		TopicID:     in.Topic.Value,
	})
	if err != nil {
		writeError(w, r, refError(err, "topic", in.Topic.Ptr()))
		return
	}
	writeJSON(w, http.StatusCreated, created)
}
