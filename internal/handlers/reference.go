// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"votehub/internal/models"
	"votehub/internal/store"
)

const msgInvalidChoice = "Select a valid choice. That choice is not one of the available choices."

// Reference serves the location and topic hierarchies that users,
// candidates and filters point into.
type Reference struct {
	locations *store.LocationStore
	taxonomy  *store.TaxonomyStore
}

// NewReference creates the reference data handler group.
func NewReference(locations *store.LocationStore, taxonomy *store.TaxonomyStore) *Reference {
	return &Reference{locations: locations, taxonomy: taxonomy}
}

// ReferenceResource is one mountable reference collection.
type ReferenceResource struct {
	Path   string
	List   http.HandlerFunc
	Get    http.HandlerFunc
	Create http.HandlerFunc
}

// Resources returns every reference collection in hierarchy order.
func (h *Reference) Resources() []ReferenceResource {
	return []ReferenceResource{
		{
			Path:   "/country",
			List:   listRef("", func(*uuid.UUID) ([]models.Country, error) { return h.locations.ListCountries() }),
			Get:    getRef(h.locations.FindCountry),
			Create: createRef("", nil, func(name string, _ uuid.UUID) (*models.Country, error) { return h.locations.CreateCountry(name) }),
		},
		{
			Path:   "/state",
			List:   listRef("country", h.locations.ListStates),
			Get:    getRef(h.locations.FindState),
			Create: createRef("country", h.locations.CountryExists, h.locations.CreateState),
		},
		{
			Path:   "/city",
			List:   listRef("state", h.locations.ListCities),
			Get:    getRef(h.locations.FindCity),
			Create: createRef("state", h.locations.StateExists, h.locations.CreateCity),
		},
		{
			Path:   "/category",
			List:   listRef("", func(*uuid.UUID) ([]models.Category, error) { return h.taxonomy.ListCategories() }),
			Get:    getRef(h.taxonomy.FindCategory),
			Create: createRef("", nil, func(name string, _ uuid.UUID) (*models.Category, error) { return h.taxonomy.CreateCategory(name) }),
		},
		{
			Path:   "/subcategory",
			List:   listRef("category", h.taxonomy.ListSubCategories),
			Get:    getRef(h.taxonomy.FindSubCategory),
			Create: createRef("category", h.taxonomy.CategoryExists, h.taxonomy.CreateSubCategory),
		},
		{
			Path:   "/topic",
			List:   listRef("sub_category", h.taxonomy.ListTopics),
			Get:    getRef(h.taxonomy.FindTopic),
			Create: createRef("sub_category", h.taxonomy.SubCategoryExists, h.taxonomy.CreateTopic),
		},
	}
}

// listRef lists a collection, optionally narrowed to one parent through
// the query parameter named parent.
func listRef[T any](parent string, list func(*uuid.UUID) ([]T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var parentID *uuid.UUID
		if raw := r.URL.Query().Get(parent); parent != "" && raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				writeError(w, r, &validationError{fields: fieldErrors{parent: {msgInvalidChoice}}})
				return
			}
			parentID = &id
		}

		items, err := list(parentID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, items)
	}
}

func getRef[T any](find func(uuid.UUID) (*T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		if !ok {
			writeNotFound(w)
			return
		}
		item, err := find(id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if item == nil {
			writeNotFound(w)
			return
		}
		writeJSON(w, http.StatusOK, item)
	}
}

type refInput struct {
	Name field[string] `json:"name" validate:"omitempty,max=255"`
}

// createRef inserts a named row. Root collections pass an empty parent
// and a nil existence check.
func createRef[T any](parent string, parentExists func(uuid.UUID) (bool, error), create func(string, uuid.UUID) (*T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := decodePayload(r, false)
		if err != nil {
			writeError(w, r, err)
			return
		}
		in := &refInput{Name: bindString(p, "name", rule{required: true})}
		p.check(in)

		var parentField field[uuid.UUID]
		if parent != "" {
			parentField = bindPK(p, parent, rule{required: true})
			if err := checkPK(p, parent, parentField, parentExists); err != nil {
				writeError(w, r, err)
				return
			}
		}
		if err := p.err(); err != nil {
			writeError(w, r, err)
			return
		}

		created, err := create(in.Name.Value, parentField.Value)
		if err != nil {
			writeError(w, r, refError(err, parent, parentField.Ptr()))
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}
