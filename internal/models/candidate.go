// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "github.com/google/uuid"

// Candidate is someone voters can vote for or mark as a favorite.
type Candidate struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Description *string    `json:"description"`
	CityID      *uuid.UUID `json:"city"`
	Audit
}

func (c *Candidate) String() string { return "Candidate: " + c.Name }

// Vote records a user's yes/no decision on a candidate.
type Vote struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	IsVote      bool      `json:"is_vote"`
	CandidateID uuid.UUID `json:"candidate"`
	UserID      uuid.UUID `json:"user"`
	Audit
}

func (v *Vote) String() string { return "Vote: " + v.Name }

// Favorite bookmarks a candidate for a user.
type Favorite struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	CandidateID uuid.UUID `json:"candidate"`
	UserID      uuid.UUID `json:"user"`
	Audit
}

func (f *Favorite) String() string { return "Favorite: " + f.Name }
