// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// namedTable describes a reference table made of a name and an optional
// parent foreign key, such as countries or topics.
type namedTable[T any] struct {
	table  string
	parent string
	scan   func(rowScanner) (*T, error)
}

func (t namedTable[T]) columns() string {
	cols := "id, name, "
	if t.parent != "" {
		cols += t.parent + ", "
	}
	return cols + "created_at, modified_at, is_active, deleted_at"
}

// list returns live rows ordered by name descending. A non-nil parentID
// restricts the result to children of that parent.
func (t namedTable[T]) list(db *sql.DB, parentID *uuid.UUID) ([]T, error) {
	query := `SELECT ` + t.columns() + ` FROM ` + t.table + ` WHERE deleted_at IS NULL`
	var args []any
	if parentID != nil && t.parent != "" {
		query += ` AND ` + t.parent + ` = $1`
		args = append(args, *parentID)
	}
	query += ` ORDER BY name DESC`

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", t.table, err)
	}
	defer rows.Close()

	items := []T{}
	for rows.Next() {
		item, err := t.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", t.table, err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func (t namedTable[T]) find(db *sql.DB, id uuid.UUID) (*T, error) {
	item, err := t.scan(db.QueryRow(
		`SELECT `+t.columns()+` FROM `+t.table+` WHERE id = $1 AND deleted_at IS NULL`, id,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", t.table, err)
	}
	return item, nil
}

func (t namedTable[T]) create(db *sql.DB, name string, parentID uuid.UUID) (*T, error) {
	var row *sql.Row
	if t.parent == "" {
		row = db.QueryRow(
			`INSERT INTO `+t.table+` (name) VALUES ($1) RETURNING `+t.columns(), name,
		)
	} else {
		row = db.QueryRow(
			`INSERT INTO `+t.table+` (name, `+t.parent+`) VALUES ($1, $2) RETURNING `+t.columns(),
			name, parentID,
		)
	}
	item, err := t.scan(row)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", t.table, translate(err))
	}
	return item, nil
}
