// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User is an account identified by email. Password, activity and deletion
// bookkeeping never leave the server.
type User struct {
	ID           uuid.UUID  `json:"id"`
	Email        string     `json:"email"`
	Name         string     `json:"name"`
	PasswordHash string     `json:"-"` // Never serialize the hash
	IsStaff      bool       `json:"is_staff"`
	IsSuperuser  bool       `json:"is_superuser"`
	Birthday     Date       `json:"birthday"`
	IsMale       bool       `json:"is_male"`
	CityID       *uuid.UUID `json:"city"`
	WorkingID    *string    `json:"working_id"`
	LastLogin    *time.Time `json:"-"`
	IsActive     bool       `json:"-"`
	Deleted      *time.Time `json:"-"`
	Created      time.Time  `json:"created"`
	Modified     time.Time  `json:"modified"`
}

// CanAuthenticate reports whether the account may log in or use a token.
func (u *User) CanAuthenticate() bool {
	return u.IsActive && u.Deleted == nil
}

func (u *User) String() string {
	return "User: " + u.Email
}

// NormalizeEmail lowercases the domain part of an address, leaving the
// local part untouched.
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at] + "@" + strings.ToLower(email[at+1:])
}
