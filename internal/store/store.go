// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store provides database access methods for all votehub
// entities. Each store struct wraps a *sql.DB and exposes typed query methods.
// Lookups return nil, nil when a row does not exist.
package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrDuplicate is returned when an insert or update violates a unique constraint.
	ErrDuplicate = errors.New("duplicate value")

	// ErrInvalidReference is returned when a foreign key points at a missing row.
	ErrInvalidReference = errors.New("referenced row does not exist")
)

// Visibility selects which rows a query sees with respect to soft deletion.
type Visibility int

const (
	// Visible hides soft-deleted rows. This is the default for every query.
	Visible Visibility = iota
	// WithDeleted returns every row regardless of deletion state.
	WithDeleted
	// DeletedOnly returns only soft-deleted rows.
	DeletedOnly
)

func (v Visibility) String() string {
	switch v {
	case WithDeleted:
		return "all_with_deleted"
	case DeletedOnly:
		return "deleted_only"
	default:
		return "visible"
	}
}

// predicate returns the WHERE fragment for v against the given table alias.
// An empty alias refers to the unqualified column.
func (v Visibility) predicate(alias string) string {
	col := "deleted_at"
	if alias != "" {
		col = alias + ".deleted_at"
	}
	switch v {
	case WithDeleted:
		return "TRUE"
	case DeletedOnly:
		return col + " IS NOT NULL"
	default:
		return col + " IS NULL"
	}
}

// DeleteResult reports what a delete call did to the row.
type DeleteResult int

const (
	// NotDeleted means no row matched.
	NotDeleted DeleteResult = iota
	// SoftDeleted means the row was marked deleted and is still stored.
	SoftDeleted
	// HardDeleted means the row was physically removed.
	HardDeleted
)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// destroy applies the soft-delete policy to a row: a live row is marked
// deleted, an already soft-deleted row is removed for good.
func destroy(db *sql.DB, table string, id uuid.UUID) (DeleteResult, error) {
	res, err := db.Exec(`
		UPDATE `+table+` SET deleted_at = NOW(), modified_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`, id)
	if err != nil {
		return NotDeleted, fmt.Errorf("soft delete %s: %w", table, err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return SoftDeleted, nil
	}

	res, err = db.Exec(`DELETE FROM `+table+` WHERE id = $1 AND deleted_at IS NOT NULL`, id)
	if err != nil {
		return NotDeleted, fmt.Errorf("hard delete %s: %w", table, err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return HardDeleted, nil
	}
	return NotDeleted, nil
}

// exists reports whether a row with id is visible under vis.
func exists(db *sql.DB, table string, id uuid.UUID, vis Visibility) (bool, error) {
	var ok bool
	err := db.QueryRow(
		`SELECT EXISTS (SELECT 1 FROM `+table+` WHERE id = $1 AND `+vis.predicate("")+`)`, id,
	).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("check %s exists: %w", table, err)
	}
	return ok, nil
}

// ConstraintError wraps ErrDuplicate or ErrInvalidReference with the name
// of the violated constraint so callers can attribute it to a field.
type ConstraintError struct {
	Kind       error
	Constraint string
}

func (e *ConstraintError) Error() string {
	return e.Kind.Error() + ": " + e.Constraint
}

func (e *ConstraintError) Unwrap() error {
	return e.Kind
}

// translate maps constraint violations onto the package sentinel errors.
func translate(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return &ConstraintError{Kind: ErrDuplicate, Constraint: pgErr.ConstraintName}
		case "23503":
			return &ConstraintError{Kind: ErrInvalidReference, Constraint: pgErr.ConstraintName}
		}
	}
	return err
}
