// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "github.com/google/uuid"

// Country is the root of the location hierarchy.
type Country struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Audit
}

func (c *Country) String() string { return "Country: " + c.Name }

// State belongs to a Country.
type State struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CountryID uuid.UUID `json:"country"`
	Audit
}

func (s *State) String() string { return "State: " + s.Name }

// City belongs to a State. Users and candidates may reference one.
type City struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	StateID uuid.UUID `json:"state"`
	Audit
}

func (c *City) String() string { return "City: " + c.Name }
