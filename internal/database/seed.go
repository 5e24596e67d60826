// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"votehub/internal/models"
)

// Seed populates the database with initial development data: a superuser
// with the given credentials and a minimal location/topic hierarchy.
// Each part is skipped if matching rows already exist.
func Seed(db *sql.DB, adminEmail, adminPassword string) error {
	if err := seedSuperuser(db, adminEmail, adminPassword); err != nil {
		return err
	}
	if err := seedLocations(db); err != nil {
		return err
	}
	return seedTopics(db)
}

func seedSuperuser(db *sql.DB, email, password string) error {
	email = models.NormalizeEmail(email)

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users WHERE email = $1", email).Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}
	if count > 0 {
		slog.Info("superuser already seeded, skipping", "email", email)
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO users (email, password_hash, name, is_staff, is_superuser)
		VALUES ($1, $2, $3, TRUE, TRUE)
	`, email, string(hash), "Administrator")
	if err != nil {
		return fmt.Errorf("seed insert superuser: %w", err)
	}

	slog.Info("database seeded with superuser", "email", email)
	return nil
}

func seedLocations(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM countries").Scan(&count); err != nil {
		return fmt.Errorf("seed check countries: %w", err)
	}
	if count > 0 {
		return nil
	}

	_, err := db.Exec(`
		WITH c AS (
			INSERT INTO countries (name) VALUES ('Malaysia') RETURNING id
		), s AS (
			INSERT INTO states (name, country_id) SELECT 'Johor', id FROM c RETURNING id
		)
		INSERT INTO cities (name, state_id) SELECT 'Muar', id FROM s
	`)
	if err != nil {
		return fmt.Errorf("seed locations: %w", err)
	}
	slog.Info("database seeded with sample locations")
	return nil
}

func seedTopics(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM categories").Scan(&count); err != nil {
		return fmt.Errorf("seed check categories: %w", err)
	}
	if count > 0 {
		return nil
	}

	_, err := db.Exec(`
		WITH c AS (
			INSERT INTO categories (name) VALUES ('Economy') RETURNING id
		), sc AS (
			INSERT INTO sub_categories (name, category_id) SELECT 'Taxation', id FROM c RETURNING id
		)
		INSERT INTO topics (name, sub_category_id) SELECT 'Sales tax', id FROM sc
	`)
	if err != nil {
		return fmt.Errorf("seed topics: %w", err)
	}
	slog.Info("database seeded with sample topics")
	return nil
}
