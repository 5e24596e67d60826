// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package cache provides Valkey (Redis-compatible) client initialization
// and the short-lived cache in front of the public candidate listing.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
)

// clientName identifies API connections in CLIENT LIST.
const clientName = "votehub-api"

// ValkeyOptions locates a Valkey server and logical database.
type ValkeyOptions struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// ConnectValkey creates a client shared by the token store and the listing
// cache. Commands time out quickly since both callers degrade gracefully.
func ConnectValkey(ctx context.Context, o ValkeyOptions) (*redis.Client, error) {
	addr := net.JoinHostPort(o.Host, o.Port)
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     o.Password,
		DB:           o.DB,
		ClientName:   clientName,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("valkey ping %s: %w", addr, err)
	}

	slog.Info("valkey connected", "addr", addr, "db", o.DB)
	return client, nil
}
