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

// FavoriteStore handles favorites. Every read is scoped to the owning user.
type FavoriteStore struct {
	db *sql.DB
}

// NewFavoriteStore creates a new FavoriteStore with the given database connection.
func NewFavoriteStore(db *sql.DB) *FavoriteStore {
	return &FavoriteStore{db: db}
}

const favoriteColumns = `id, name, candidate_id, user_id,
	created_at, modified_at, is_active, deleted_at`

func scanFavorite(row rowScanner) (*models.Favorite, error) {
	f := &models.Favorite{}
	err := row.Scan(
		&f.ID, &f.Name, &f.CandidateID, &f.UserID,
		&f.Created, &f.Modified, &f.IsActive, &f.Deleted,
	)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// ListByUser returns the user's live favorites ordered by name descending.
func (s *FavoriteStore) ListByUser(userID uuid.UUID) ([]models.Favorite, error) {
	rows, err := s.db.Query(`
		SELECT `+favoriteColumns+` FROM favorites
		WHERE user_id = $1 AND deleted_at IS NULL
		ORDER BY name DESC, created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	defer rows.Close()

	items := []models.Favorite{}
	for rows.Next() {
		f, err := scanFavorite(rows)
		if err != nil {
			return nil, fmt.Errorf("scan favorite: %w", err)
		}
		items = append(items, *f)
	}
	return items, rows.Err()
}

// FindForUser retrieves a live favorite owned by userID. Returns nil if not found.
func (s *FavoriteStore) FindForUser(id, userID uuid.UUID) (*models.Favorite, error) {
	f, err := scanFavorite(s.db.QueryRow(`
		SELECT `+favoriteColumns+` FROM favorites
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
	`, id, userID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find favorite: %w", err)
	}
	return f, nil
}

// Create inserts a favorite for f.UserID.
func (s *FavoriteStore) Create(f *models.Favorite) (*models.Favorite, error) {
	created, err := scanFavorite(s.db.QueryRow(`
		INSERT INTO favorites (name, candidate_id, user_id)
		VALUES ($1, $2, $3)
		RETURNING `+favoriteColumns,
		f.Name, f.CandidateID, f.UserID,
	))
	if err != nil {
		return nil, fmt.Errorf("create favorite: %w", translate(err))
	}
	return created, nil
}

// Update writes name and candidate of a live favorite.
func (s *FavoriteStore) Update(f *models.Favorite) (*models.Favorite, error) {
	updated, err := scanFavorite(s.db.QueryRow(`
		UPDATE favorites SET name = $1, candidate_id = $2, modified_at = NOW()
		WHERE id = $3 AND user_id = $4 AND deleted_at IS NULL
		RETURNING `+favoriteColumns,
		f.Name, f.CandidateID, f.ID, f.UserID,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update favorite: %w", translate(err))
	}
	return updated, nil
}

// Delete applies the soft-delete policy to a favorite.
func (s *FavoriteStore) Delete(id uuid.UUID) (DeleteResult, error) {
	return destroy(s.db, "favorites", id)
}
