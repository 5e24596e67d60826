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

// VoteStore handles votes. Every read is scoped to the owning user.
type VoteStore struct {
	db *sql.DB
}

// NewVoteStore creates a new VoteStore with the given database connection.
func NewVoteStore(db *sql.DB) *VoteStore {
	return &VoteStore{db: db}
}

const voteColumns = `id, name, is_vote, candidate_id, user_id,
	created_at, modified_at, is_active, deleted_at`

func scanVote(row rowScanner) (*models.Vote, error) {
	v := &models.Vote{}
	err := row.Scan(
		&v.ID, &v.Name, &v.IsVote, &v.CandidateID, &v.UserID,
		&v.Created, &v.Modified, &v.IsActive, &v.Deleted,
	)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// ListByUser returns the user's live votes ordered by name descending.
func (s *VoteStore) ListByUser(userID uuid.UUID) ([]models.Vote, error) {
	rows, err := s.db.Query(`
		SELECT `+voteColumns+` FROM votes
		WHERE user_id = $1 AND deleted_at IS NULL
		ORDER BY name DESC, created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list votes: %w", err)
	}
	defer rows.Close()

	items := []models.Vote{}
	for rows.Next() {
		v, err := scanVote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan vote: %w", err)
		}
		items = append(items, *v)
	}
	return items, rows.Err()
}

// FindForUser retrieves a live vote owned by userID. Returns nil if the
// vote does not exist or belongs to someone else.
func (s *VoteStore) FindForUser(id, userID uuid.UUID) (*models.Vote, error) {
	v, err := scanVote(s.db.QueryRow(`
		SELECT `+voteColumns+` FROM votes
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
	`, id, userID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find vote: %w", err)
	}
	return v, nil
}

// Create inserts a vote for v.UserID.
func (s *VoteStore) Create(v *models.Vote) (*models.Vote, error) {
	created, err := scanVote(s.db.QueryRow(`
		INSERT INTO votes (name, is_vote, candidate_id, user_id)
		VALUES ($1, $2, $3, $4)
		RETURNING `+voteColumns,
		v.Name, v.IsVote, v.CandidateID, v.UserID,
	))
	if err != nil {
		return nil, fmt.Errorf("create vote: %w", translate(err))
	}
	return created, nil
}

// Update writes name, is_vote and candidate of a live vote.
func (s *VoteStore) Update(v *models.Vote) (*models.Vote, error) {
	updated, err := scanVote(s.db.QueryRow(`
		UPDATE votes SET name = $1, is_vote = $2, candidate_id = $3, modified_at = NOW()
		WHERE id = $4 AND user_id = $5 AND deleted_at IS NULL
		RETURNING `+voteColumns,
		v.Name, v.IsVote, v.CandidateID, v.ID, v.UserID,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update vote: %w", translate(err))
	}
	return updated, nil
}

// Delete applies the soft-delete policy to a vote.
func (s *VoteStore) Delete(id uuid.UUID) (DeleteResult, error) {
	return destroy(s.db, "votes", id)
}

// CountForCandidate returns the number of live yes and no votes a
// candidate has received.
func (s *VoteStore) CountForCandidate(candidateID uuid.UUID) (yes, no int, err error) {
	err = s.db.QueryRow(`
		SELECT COUNT(*) FILTER (WHERE is_vote), COUNT(*) FILTER (WHERE NOT is_vote)
		FROM votes WHERE candidate_id = $1 AND deleted_at IS NULL
	`, candidateID).Scan(&yes, &no)
	if err != nil {
		return 0, 0, fmt.Errorf("count votes: %w", err)
	}
	return yes, no, nil
}
