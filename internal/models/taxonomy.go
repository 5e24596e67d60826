// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "github.com/google/uuid"

// Category is the top level of the topic taxonomy.
type Category struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Audit
}

func (c *Category) String() string { return "Category: " + c.Name }

// SubCategory belongs to a Category.
type SubCategory struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	CategoryID uuid.UUID `json:"category"`
	Audit
}

func (s *SubCategory) String() string { return "Sub-Category: " + s.Name }

// Topic belongs to a SubCategory.
type Topic struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	SubCategoryID uuid.UUID `json:"sub_category"`
	Audit
}

func (t *Topic) String() string { return "Topic: " + t.Name }

// Filter is a user's saved interest in a Topic.
type Filter struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	TopicID uuid.UUID `json:"topic"`
	UserID  uuid.UUID `json:"user"`
	Audit
}

func (f *Filter) String() string { return "Filter: " + f.Name }

// CandidateTopic tags a Candidate with a Topic.
type CandidateTopic struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	CandidateID uuid.UUID `json:"candidate"`
	TopicID     uuid.UUID `json:"topic"`
	Audit
}

func (c *CandidateTopic) String() string { return "Candidate-Topic: " + c.Name }
