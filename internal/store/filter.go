// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"votehub/internal/models"
)

// FilterStore handles a user's saved topic filters.
type FilterStore struct {
	db *sql.DB
}

// NewFilterStore creates a new FilterStore with the given database connection.
func NewFilterStore(db *sql.DB) *FilterStore {
	return &FilterStore{db: db}
}

const filterColumns = `id, name, topic_id, user_id,
	created_at, modified_at, is_active, deleted_at`

func scanFilter(row rowScanner) (*models.Filter, error) {
	f := &models.Filter{}
	err := row.Scan(
		&f.ID, &f.Name, &f.TopicID, &f.UserID,
		&f.Created, &f.Modified, &f.IsActive, &f.Deleted,
	)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// ListByUser returns the user's live filters ordered by name descending.
func (s *FilterStore) ListByUser(userID uuid.UUID) ([]models.Filter, error) {
	rows, err := s.db.Query(`
		SELECT `+filterColumns+` FROM filters
		WHERE user_id = $1 AND deleted_at IS NULL
		ORDER BY name DESC, created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list filters: %w", err)
	}
	defer rows.Close()

	items := []models.Filter{}
	for rows.Next() {
		f, err := scanFilter(rows)
		if err != nil {
			return nil, fmt.Errorf("scan filter: %w", err)
		}
		items = append(items, *f)
	}
	return items, rows.Err()
}

// FindForUser retrieves a live filter owned by userID. Returns nil if not found.
func (s *FilterStore) FindForUser(id, userID uuid.UUID) (*models.Filter, error) {
	f, err := scanFilter(s.db.QueryRow(`
		SELECT `+filterColumns+` FROM filters
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
	`, id, userID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find filter: %w", err)
	}
	return f, nil
}

// Create inserts a filter for f.UserID.
func (s *FilterStore) Create(f *models.Filter) (*models.Filter, error) {
	created, err := scanFilter(s.db.QueryRow(`
		INSERT INTO filters (name, topic_id, user_id)
		VALUES ($1, $2, $3)
		RETURNING `+filterColumns,
		f.Name, f.TopicID, f.UserID,
	))
	if err != nil {
		return nil, fmt.Errorf("create filter: %w", translate(err))
	}
	return created, nil
}

// Update writes name and topic of a live filter.
func (s *FilterStore) Update(f *models.Filter) (*models.Filter, error) {
	updated, err := scanFilter(s.db.QueryRow(`
		UPDATE filters SET name = $1, topic_id = $2, modified_at = NOW()
		WHERE id = $3 AND user_id = $4 AND deleted_at IS NULL
		RETURNING `+filterColumns,
		f.Name, f.TopicID, f.ID, f.UserID,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update filter: %w", translate(err))
	}
	return updated, nil
}

// Delete applies the soft-delete policy to a filter.
func (s *FilterStore) Delete(id uuid.UUID) (DeleteResult, error) {
	return destroy(s.db, "filters", id)
}
