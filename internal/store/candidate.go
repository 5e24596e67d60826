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

// CandidateStore handles candidate rows, including their soft-delete lifecycle.
type CandidateStore struct {
	db *sql.DB
}

// NewCandidateStore creates a new CandidateStore with the given database connection.
func NewCandidateStore(db *sql.DB) *CandidateStore {
	return &CandidateStore{db: db}
}

const candidateColumns = `c.id, c.name, c.description, c.city_id,
	c.created_at, c.modified_at, c.is_active, c.deleted_at`

func scanCandidate(row rowScanner) (*models.Candidate, error) {
	c := &models.Candidate{}
	err := row.Scan(
		&c.ID, &c.Name, &c.Description, &c.CityID,
		&c.Created, &c.Modified, &c.IsActive, &c.Deleted,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// List returns candidates under the given visibility ordered by name
// descending. With assignedOnly set, only candidates that have at least
// one live vote are returned.
func (s *CandidateStore) List(vis Visibility, assignedOnly bool) ([]models.Candidate, error) {
	query := `SELECT ` + candidateColumns + ` FROM candidates c WHERE ` + vis.predicate("c")
	if assignedOnly {
		query += ` AND EXISTS (
			SELECT 1 FROM votes v WHERE v.candidate_id = c.id AND v.deleted_at IS NULL
		)`
	}
	query += ` ORDER BY c.name DESC, c.created_at DESC`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	defer rows.Close()

	items := []models.Candidate{}
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// FindByID retrieves a candidate visible under vis. Returns nil if not found.
func (s *CandidateStore) FindByID(id uuid.UUID, vis Visibility) (*models.Candidate, error) {
	c, err := scanCandidate(s.db.QueryRow(
		`SELECT `+candidateColumns+` FROM candidates c WHERE c.id = $1 AND `+vis.predicate("c"), id,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find candidate by id: %w", err)
	}
	return c, nil
}

// Exists reports whether a live candidate with id exists.
func (s *CandidateStore) Exists(id uuid.UUID) (bool, error) {
	return exists(s.db, "candidates", id, Visible)
}

// Create inserts a new candidate and returns it with the generated ID.
func (s *CandidateStore) Create(c *models.Candidate) (*models.Candidate, error) {
	created, err := scanCandidate(s.db.QueryRow(`
		INSERT INTO candidates AS c (name, description, city_id)
		VALUES ($1, $2, $3)
		RETURNING `+candidateColumns,
		c.Name, c.Description, c.CityID,
	))
	if err != nil {
		return nil, fmt.Errorf("create candidate: %w", translate(err))
	}
	return created, nil
}

// Update writes name, description and city of c. The deleted marker is
// written as well, so saving a soft-deleted candidate with Deleted cleared
// restores it.
func (s *CandidateStore) Update(c *models.Candidate) (*models.Candidate, error) {
	updated, err := scanCandidate(s.db.QueryRow(`
		UPDATE candidates AS c SET
			name = $1, description = $2, city_id = $3, deleted_at = $4, modified_at = NOW()
		WHERE c.id = $5
		RETURNING `+candidateColumns,
		c.Name, c.Description, c.CityID, c.Deleted, c.ID,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update candidate: %w", translate(err))
	}
	return updated, nil
}

// Delete soft-deletes a live candidate or hard-deletes one that is already
// soft-deleted. Votes, favorites and topics of a hard-deleted candidate
// are removed by cascade.
func (s *CandidateStore) Delete(id uuid.UUID) (DeleteResult, error) {
	return destroy(s.db, "candidates", id)
}
