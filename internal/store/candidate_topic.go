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

// CandidateTopicStore handles the topics a candidate is tagged with.
type CandidateTopicStore struct {
	db *sql.DB
}

// NewCandidateTopicStore creates a new CandidateTopicStore with the given database connection.
func NewCandidateTopicStore(db *sql.DB) *CandidateTopicStore {
	return &CandidateTopicStore{db: db}
}

const candidateTopicColumns = `id, name, candidate_id, topic_id,
	created_at, modified_at, is_active, deleted_at`

func scanCandidateTopic(row rowScanner) (*models.CandidateTopic, error) {
	ct := &models.CandidateTopic{}
	err := row.Scan(
		&ct.ID, &ct.Name, &ct.CandidateID, &ct.TopicID,
		&ct.Created, &ct.Modified, &ct.IsActive, &ct.Deleted,
	)
	if err != nil {
		return nil, err
	}
	return ct, nil
}

// ListByCandidate returns the live topic tags of a candidate ordered by name descending.
func (s *CandidateTopicStore) ListByCandidate(candidateID uuid.UUID) ([]models.CandidateTopic, error) {
	rows, err := s.db.Query(`
		SELECT `+candidateTopicColumns+` FROM candidate_topics
		WHERE candidate_id = $1 AND deleted_at IS NULL
		ORDER BY name DESC
	`, candidateID)
	if err != nil {
		return nil, fmt.Errorf("list candidate topics: %w", err)
	}
	defer rows.Close()

	items := []models.CandidateTopic{}
	for rows.Next() {
		ct, err := scanCandidateTopic(rows)
		if err != nil {
			return nil, fmt.Errorf("scan candidate topic: %w", err)
		}
		items = append(items, *ct)
	}
	return items, rows.Err()
}

// Create tags a candidate with a topic.
func (s *CandidateTopicStore) Create(ct *models.CandidateTopic) (*models.CandidateTopic, error) {
	created, err := scanCandidateTopic(s.db.QueryRow(`
		INSERT INTO candidate_topics (name, candidate_id, topic_id)
		VALUES ($1, $2, $3)
		RETURNING `+candidateTopicColumns,
		ct.Name, ct.CandidateID, ct.TopicID,
	))
	if err != nil {
		return nil, fmt.Errorf("create candidate topic: %w", translate(err))
	}
	return created, nil
}

// Delete applies the soft-delete policy to a topic tag.
func (s *CandidateTopicStore) Delete(id uuid.UUID) (DeleteResult, error) {
	return destroy(s.db, "candidate_topics", id)
}
