// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"votehub/internal/metrics"
	"votehub/internal/middleware"
	"votehub/internal/models"
	"votehub/internal/store"
	"votehub/internal/token"
)

const (
	msgEmailTaken       = "user with this email already exists."
	msgPasswordMismatch = "Those passwords don't match."
	msgBadCredentials   = "Unable to authenticate with provided credentials"
)

// Users handles registration, token issuance and the caller's own profile.
type Users struct {
	users     *store.UserStore
	locations *store.LocationStore
	tokens    *token.Store
	metrics   *metrics.Metrics
}

// NewUsers creates the user handler group.
func NewUsers(users *store.UserStore, locations *store.LocationStore, tokens *token.Store, m *metrics.Metrics) *Users {
	return &Users{users: users, locations: locations, tokens: tokens, metrics: m}
}

// userInput is the writable part of a user. is_staff and is_superuser
// are never bound, so payloads cannot grant themselves privileges.
type userInput struct {
	Email                field[string]      `json:"email" validate:"omitempty,min=5,max=255,email"`
	Name                 field[string]      `json:"name" validate:"omitempty,min=5,max=255"`
	Password             field[string]      `json:"password" validate:"omitempty,min=5"`
	PasswordConfirmation field[string]      `json:"password_confirmation" validate:"omitempty,min=5"`
	Birthday             field[models.Date] `json:"birthday"`
	IsMale               field[bool]        `json:"is_male"`
	City                 field[uuid.UUID]   `json:"city"`
	WorkingID            field[string]      `json:"working_id" validate:"omitempty,max=255"`
}

// bindUser binds and validates a user payload. self is the user being
// updated, or nil on registration.
func (h *Users) bindUser(p *payload, self *models.User) (*userInput, error) {
	creating := self == nil
	in := &userInput{
		Email:                bindString(p, "email", rule{required: true}),
		Name:                 bindString(p, "name", rule{required: true}),
		Password:             bindString(p, "password", rule{required: creating, noTrim: true}),
		PasswordConfirmation: bindString(p, "password_confirmation", rule{required: creating, noTrim: true}),
		Birthday:             bindDate(p, "birthday", rule{}),
		IsMale:               bindBool(p, "is_male", rule{}),
		City:                 bindPK(p, "city", rule{allowNull: true}),
		WorkingID:            bindString(p, "working_id", rule{allowNull: true, allowBlank: true}),
	}
	p.check(in)

	if in.Email.Set && !p.errs.has("email") {
		exclude := uuid.Nil
		if self != nil {
			exclude = self.ID
		}
		taken, err := h.users.EmailTaken(in.Email.Value, exclude)
		if err != nil {
			return nil, err
		}
		if taken {
			p.errs.add("email", msgEmailTaken)
		}
	}
	if err := checkPK(p, "city", in.City, h.locations.CityExists); err != nil {
		return nil, err
	}

	if len(p.errs) == 0 && (in.Password.Set || in.PasswordConfirmation.Set) &&
		in.Password.Value != in.PasswordConfirmation.Value {
		p.errs.add(nonFieldErrors, msgPasswordMismatch)
	}
	return in, p.err()
}

// userError maps store constraint errors onto field errors.
func userError(err error, in *userInput) error {
	if errors.Is(err, store.ErrDuplicate) {
		return &validationError{fields: fieldErrors{"email": {msgEmailTaken}}}
	}
	return refError(err, "city", in.City.Ptr())
}

// Create handles POST /create/.
func (h *Users) Create(w http.ResponseWriter, r *http.Request) {
	p, err := decodePayload(r, false)
	if err != nil {
		writeError(w, r, err)
		return
	}
	in, err := h.bindUser(p, nil)
	if err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.users.Create(in.Email.Value, in.Password.Value, store.UserProfile{
		Name:      in.Name.Value,
		Birthday:  in.Birthday.Ptr(),
		IsMale:    in.IsMale.Ptr(),
		CityID:    in.City.Ptr(),
		WorkingID: in.WorkingID.Ptr(),
	})
	if err != nil {
		writeError(w, r, userError(err, in))
		return
	}

	h.metrics.RegistrationInc()
	slog.Info("user registered", "user_id", user.ID)
	writeJSON(w, http.StatusCreated, user)
}

// Token handles POST /token/ and exchanges credentials for an auth token.
func (h *Users) Token(w http.ResponseWriter, r *http.Request) {
	p, err := decodePayload(r, false)
	if err != nil {
		writeError(w, r, err)
		return
	}
	email := bindString(p, "email", rule{required: true})
	password := bindString(p, "password", rule{required: true, noTrim: true})
	if err := p.err(); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.users.FindByEmail(email.Value)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if user == nil || !user.CanAuthenticate() || !h.users.CheckPassword(user, password.Value) {
		writeJSON(w, http.StatusBadRequest, fieldErrors{nonFieldErrors: {msgBadCredentials}})
		return
	}

	key, err := h.tokens.Issue(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.users.TouchLastLogin(user.ID); err != nil {
		slog.Warn("record last login failed", "user_id", user.ID, "error", err)
	}

	h.metrics.TokenIssuedInc()
	writeJSON(w, http.StatusOK, map[string]string{"token": key})
}

// Me handles GET /me/.
func (h *Users) Me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, middleware.UserFromCtx(r.Context()))
}

// UpdateMe handles PUT and PATCH /me/.
func (h *Users) UpdateMe(w http.ResponseWriter, r *http.Request) {
	current := middleware.UserFromCtx(r.Context())

	p, err := decodePayload(r, isPartial(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	in, err := h.bindUser(p, current)
	if err != nil {
		writeError(w, r, err)
		return
	}

	u := *current
	if in.Email.Set {
		u.Email = in.Email.Value
	}
	if in.Name.Set {
		u.Name = in.Name.Value
	}
	if in.Birthday.Set {
		u.Birthday = in.Birthday.Value
	}
	if in.IsMale.Set {
		u.IsMale = in.IsMale.Value
	}
	if in.City.Set {
		u.CityID = in.City.Ptr()
	}
	if in.WorkingID.Set {
		u.WorkingID = in.WorkingID.Ptr()
	}

	var password *string
	if in.Password.Set {
		password = &in.Password.Value
	}
	if err := h.users.Update(&u, password); err != nil {
		writeError(w, r, userError(err, in))
		return
	}

	writeJSON(w, http.StatusOK, &u)
}

// Logout revokes the token the request was authenticated with.
func (h *Users) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.tokens.Revoke(r.Context(), middleware.TokenFromCtx(r.Context())); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}
