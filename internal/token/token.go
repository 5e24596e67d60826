// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package token provides Valkey-backed API auth tokens. A token is an
// opaque random key mapped to a user ID. Each user holds at most one live
// token, so issuing twice returns the same key.
package token

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// keyPrefix maps a token key to its user ID.
	keyPrefix = "token:"

	// userPrefix maps a user ID back to their current token key.
	userPrefix = "user-token:"

	// keyLength is the byte length of a token (20 bytes = 40 hex chars).
	keyLength = 20
)

// ErrInvalidToken is returned by Resolve for unknown or expired keys.
var ErrInvalidToken = errors.New("invalid token")

// Store manages token lifecycle in Valkey.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore creates a token store backed by the given Valkey client.
// A zero ttl keeps tokens until they are revoked.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

// issueScript returns the token KEYS[1] (the user's slot) points at when
// it still resolves to ARGV[2], and otherwise stores ARGV[1] as the new
// token. It runs atomically, so concurrent logins share one key.
//
// ARGV: new key, user id, ttl in ms (0 = none), token key prefix.
var issueScript = redis.NewScript(`
local current = redis.call('GET', KEYS[1])
if current and redis.call('GET', ARGV[4] .. current) == ARGV[2] then
  return current
end
local tokenKey = ARGV[4] .. ARGV[1]
if tonumber(ARGV[3]) > 0 then
  redis.call('SET', tokenKey, ARGV[2], 'PX', ARGV[3])
  redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[3])
else
  redis.call('SET', tokenKey, ARGV[2])
  redis.call('SET', KEYS[1], ARGV[1])
end
return ARGV[1]
`)

// revokeScript deletes token KEYS[1] and clears its owner's slot only
// while the slot still names this token.
//
// ARGV: token key, user slot prefix.
var revokeScript = redis.NewScript(`
local owner = redis.call('GET', KEYS[1])
if not owner then
  return 0
end
redis.call('DEL', KEYS[1])
local slot = ARGV[2] .. owner
if redis.call('GET', slot) == ARGV[1] then
  redis.call('DEL', slot)
end
return 1
`)

// Issue returns the user's live token, creating one if none exists.
func (s *Store) Issue(ctx context.Context, userID uuid.UUID) (string, error) {
	candidate, err := generateKey()
	if err != nil {
		return "", fmt.Errorf("token create: %w", err)
	}

	key, err := issueScript.Run(ctx, s.client,
		[]string{userPrefix + userID.String()},
		candidate, userID.String(), s.ttl.Milliseconds(), keyPrefix,
	).Text()
	if err != nil {
		return "", fmt.Errorf("token issue: %w", err)
	}
	return key, nil
}

// Resolve returns the user ID a token key belongs to.
func (s *Store) Resolve(ctx context.Context, key string) (uuid.UUID, error) {
	if key == "" {
		return uuid.Nil, ErrInvalidToken
	}
	val, err := s.client.Get(ctx, keyPrefix+key).Result()
	if err == redis.Nil {
		return uuid.Nil, ErrInvalidToken
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("token resolve: %w", err)
	}
	id, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}
	return id, nil
}

// Revoke deletes a token key and, if it is still the owner's current
// token, the owner's back-reference. Revoking an unknown key is not an error.
func (s *Store) Revoke(ctx context.Context, key string) error {
	err := revokeScript.Run(ctx, s.client, []string{keyPrefix + key}, key, userPrefix).Err()
	if err != nil && err != redis.Nil {
		return fmt.Errorf("token revoke: %w", err)
	}
	return nil
}

// RevokeUser deletes whatever token the user currently holds.
func (s *Store) RevokeUser(ctx context.Context, userID uuid.UUID) error {
	key, err := s.client.Get(ctx, userPrefix+userID.String()).Result()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		return fmt.Errorf("token revoke user: %w", err)
	}
	return s.Revoke(ctx, key)
}

// generateKey creates a cryptographically random token key.
func generateKey() (string, error) {
	b := make([]byte, keyLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
