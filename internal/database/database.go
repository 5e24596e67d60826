// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package database opens the PostgreSQL pool, applies the embedded goose
// migrations and seeds development data.
package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/pressly/goose/v3/lock"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// Pool sizes the database/sql connection pool.
type Pool struct {
	MaxOpen     int
	MaxIdle     int
	MaxLifetime time.Duration
}

// DefaultPool suits a single API process.
var DefaultPool = Pool{MaxOpen: 25, MaxIdle: 5, MaxLifetime: 30 * time.Minute}

// Connect opens a pgx-backed pool sized by pool and pings it before
// returning. Zero fields in pool fall back to DefaultPool.
func Connect(dsn string, pool Pool) (*sql.DB, error) {
	if pool.MaxOpen <= 0 {
		pool.MaxOpen = DefaultPool.MaxOpen
	}
	if pool.MaxIdle <= 0 {
		pool.MaxIdle = DefaultPool.MaxIdle
	}
	if pool.MaxLifetime <= 0 {
		pool.MaxLifetime = DefaultPool.MaxLifetime
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("database open: %w", err)
	}
	db.SetMaxOpenConns(pool.MaxOpen)
	db.SetMaxIdleConns(min(pool.MaxIdle, pool.MaxOpen))
	db.SetConnMaxLifetime(pool.MaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping: %w", err)
	}

	slog.Info("database connected", "max_open", pool.MaxOpen)
	return db, nil
}

// Migrate applies every pending migration. A Postgres advisory lock keeps
// concurrent processes (replicas, parallel test packages) from racing.
func Migrate(ctx context.Context, db *sql.DB) error {
	fsys, err := fs.Sub(embedMigrations, "migrations")
	if err != nil {
		return fmt.Errorf("migrations fs: %w", err)
	}

	locker, err := lock.NewPostgresSessionLocker()
	if err != nil {
		return fmt.Errorf("migration locker: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectPostgres, db, fsys,
		goose.WithSessionLocker(locker),
	)
	if err != nil {
		return fmt.Errorf("migration provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	for _, res := range results {
		slog.Info("migration applied",
			"version", res.Source.Version,
			"file", res.Source.Path,
			"duration", res.Duration.String(),
		)
	}

	version, err := provider.GetDBVersion(ctx)
	if err != nil {
		return fmt.Errorf("goose version: %w", err)
	}
	slog.Info("database schema current", "version", version, "applied", len(results))
	return nil
}
