// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"votehub/internal/models"
)

// ErrEmailRequired is returned when a user is created without an email.
var ErrEmailRequired = errors.New("users must have an email address")

// UserProfile carries the optional profile columns set at creation time.
// Nil pointers fall back to the column defaults.
type UserProfile struct {
	Name      string
	Birthday  *models.Date
	IsMale    *bool
	CityID    *uuid.UUID
	WorkingID *string
}

// UserStore handles all user-related database operations.
type UserStore struct {
	db *sql.DB
}

// NewUserStore creates a new UserStore with the given database connection.
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

const userColumns = `id, email, name, password_hash, is_staff, is_superuser, birthday,
	is_male, city_id, working_id, last_login, is_active, deleted_at, created_at, modified_at`

func scanUser(row rowScanner) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(
		&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.IsStaff, &u.IsSuperuser, &u.Birthday,
		&u.IsMale, &u.CityID, &u.WorkingID, &u.LastLogin, &u.IsActive, &u.Deleted,
		&u.Created, &u.Modified,
	)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// FindByEmail retrieves a user by their email address, normalizing the
// domain first. Returns nil if not found.
func (s *UserStore) FindByEmail(email string) (*models.User, error) {
	u, err := scanUser(s.db.QueryRow(
		`SELECT `+userColumns+` FROM users WHERE email = $1`, models.NormalizeEmail(email),
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return u, nil
}

// FindByID retrieves a user by their UUID. Returns nil if not found.
func (s *UserStore) FindByID(id uuid.UUID) (*models.User, error) {
	u, err := scanUser(s.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return u, nil
}

// EmailTaken reports whether any user other than exclude already uses email.
func (s *UserStore) EmailTaken(email string, exclude uuid.UUID) (bool, error) {
	var taken bool
	err := s.db.QueryRow(
		`SELECT EXISTS (SELECT 1 FROM users WHERE email = $1 AND id <> $2)`,
		models.NormalizeEmail(email), exclude,
	).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("check email taken: %w", err)
	}
	return taken, nil
}

// Create inserts a new regular user with a bcrypt-hashed password.
func (s *UserStore) Create(email, password string, p UserProfile) (*models.User, error) {
	return s.create(email, password, p, false)
}

// CreateSuperuser inserts a user with staff and superuser flags set.
func (s *UserStore) CreateSuperuser(email, password string) (*models.User, error) {
	return s.create(email, password, UserProfile{}, true)
}

func (s *UserStore) create(email, password string, p UserProfile, super bool) (*models.User, error) {
	email = models.NormalizeEmail(email)
	if email == "" {
		return nil, ErrEmailRequired
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	birthday := models.Today()
	if p.Birthday != nil {
		birthday = *p.Birthday
	}
	isMale := true
	if p.IsMale != nil {
		isMale = *p.IsMale
	}

	u, err := scanUser(s.db.QueryRow(`
		INSERT INTO users (email, password_hash, name, birthday, is_male, city_id, working_id, is_staff, is_superuser)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
		RETURNING `+userColumns,
		email, hash, p.Name, birthday, isMale, p.CityID, p.WorkingID, super,
	))
	if err != nil {
		return nil, fmt.Errorf("create user: %w", translate(err))
	}
	return u, nil
}

// Update writes the editable profile columns of u and refreshes its
// timestamps. A non-nil password replaces the hash in the same statement,
// so a rejected profile change never rotates the password.
func (s *UserStore) Update(u *models.User, password *string) error {
	var hash *string
	if password != nil {
		h, err := hashPassword(*password)
		if err != nil {
			return err
		}
		hash = &h
	}

	err := s.db.QueryRow(`
		UPDATE users SET
			email = $1, name = $2, birthday = $3, is_male = $4,
			city_id = $5, working_id = $6,
			password_hash = COALESCE($7, password_hash), modified_at = NOW()
		WHERE id = $8
		RETURNING password_hash, modified_at
	`, models.NormalizeEmail(u.Email), u.Name, u.Birthday, u.IsMale, u.CityID, u.WorkingID, hash, u.ID,
	).Scan(&u.PasswordHash, &u.Modified)
	if err != nil {
		return fmt.Errorf("update user: %w", translate(err))
	}
	u.Email = models.NormalizeEmail(u.Email)
	return nil
}

// TouchLastLogin records a successful authentication.
func (s *UserStore) TouchLastLogin(userID uuid.UUID) error {
	_, err := s.db.Exec(`UPDATE users SET last_login = NOW() WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("touch last login: %w", err)
	}
	return nil
}

// SetActive toggles whether the user may authenticate.
func (s *UserStore) SetActive(userID uuid.UUID, active bool) error {
	_, err := s.db.Exec(`
		UPDATE users SET is_active = $1, modified_at = NOW() WHERE id = $2
	`, active, userID)
	if err != nil {
		return fmt.Errorf("set user active: %w", err)
	}
	return nil
}

// Delete soft-deletes a live user or removes an already deleted one.
func (s *UserStore) Delete(userID uuid.UUID) (DeleteResult, error) {
	return destroy(s.db, "users", userID)
}

// CheckPassword verifies a plaintext password against the user's stored hash.
func (s *UserStore) CheckPassword(user *models.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
