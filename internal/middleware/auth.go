// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"votehub/internal/models"
	"votehub/internal/token"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const (
	// UserKey is the context key for the authenticated user.
	UserKey contextKey = "user"

	// TokenKey is the context key for the raw token the request carried.
	TokenKey contextKey = "token"
)

// Response messages for failed authentication and authorization.
const (
	MsgNotAuthenticated = "Authentication credentials were not provided."
	MsgInvalidToken     = "Invalid token."
	MsgUserInactive     = "User inactive or deleted."
	MsgPermissionDenied = "You do not have permission to perform this action."
)

const (
	msgNoCredentials  = "Invalid token header. No credentials provided."
	msgTokenHasSpaces = "Invalid token header. Token string should not contain spaces."

	// authenticateChallenge is sent in WWW-Authenticate on every 401.
	authenticateChallenge = "Token"
)

// TokenResolver maps a token key to the user it was issued for.
type TokenResolver interface {
	Resolve(ctx context.Context, key string) (uuid.UUID, error)
}

// UserLoader loads a user row by ID, returning nil when it does not exist.
type UserLoader interface {
	FindByID(id uuid.UUID) (*models.User, error)
}

// Authenticate reads an "Authorization: Token <key>" (or Bearer) header
// and puts the resolved user into the request context. Requests without
// the header pass through anonymously. A header carrying a bad token is
// rejected with 401 even on public routes.
func Authenticate(tokens TokenResolver, users UserLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key, msg, ok := parseAuthorization(r.Header.Get("Authorization"))
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			if msg != "" {
				unauthorized(w, msg)
				return
			}

			userID, err := tokens.Resolve(r.Context(), key)
			if errors.Is(err, token.ErrInvalidToken) {
				unauthorized(w, MsgInvalidToken)
				return
			}
			if err != nil {
				slog.Error("resolve token failed", "error", err)
				writeDetail(w, http.StatusInternalServerError, msgServerError)
				return
			}

			user, err := users.FindByID(userID)
			if err != nil {
				slog.Error("load token user failed", "error", err, "user_id", userID)
				writeDetail(w, http.StatusInternalServerError, msgServerError)
				return
			}
			if user == nil {
				unauthorized(w, MsgInvalidToken)
				return
			}
			if !user.CanAuthenticate() {
				unauthorized(w, MsgUserInactive)
				return
			}

			ctx := context.WithValue(r.Context(), UserKey, user)
			ctx = context.WithValue(ctx, TokenKey, key)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// parseAuthorization splits the header value. ok is false when the header
// is absent or uses another scheme. A non-empty msg means the header was
// for us but malformed.
func parseAuthorization(header string) (key, msg string, ok bool) {
	parts := strings.Fields(header)
	if len(parts) == 0 {
		return "", "", false
	}
	scheme := strings.ToLower(parts[0])
	if scheme != "token" && scheme != "bearer" {
		return "", "", false
	}
	switch len(parts) {
	case 1:
		return "", msgNoCredentials, true
	case 2:
		return parts[1], "", true
	default:
		return "", msgTokenHasSpaces, true
	}
}

// RequireUser rejects anonymous requests with 401.
// Must be applied after Authenticate.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if UserFromCtx(r.Context()) == nil {
			unauthorized(w, MsgNotAuthenticated)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ReadOnlyOrAuthenticated lets safe methods through for everyone and
// requires a user for anything that writes.
func ReadOnlyOrAuthenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isSafeMethod(r.Method) {
			next.ServeHTTP(w, r)
			return
		}
		RequireUser(next).ServeHTTP(w, r)
	})
}

// ReadOnlyOrStaff lets safe methods through for everyone and requires a
// staff user for anything that writes.
func ReadOnlyOrStaff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isSafeMethod(r.Method) {
			next.ServeHTTP(w, r)
			return
		}
		RequireStaff(next).ServeHTTP(w, r)
	})
}

// RequireStaff returns 401 for anonymous requests and 403 for users
// without the staff flag.
func RequireStaff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := UserFromCtx(r.Context())
		if user == nil {
			unauthorized(w, MsgNotAuthenticated)
			return
		}
		if !user.IsStaff {
			writeDetail(w, http.StatusForbidden, MsgPermissionDenied)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// UserFromCtx extracts the authenticated user from the request context.
// Returns nil for anonymous requests.
func UserFromCtx(ctx context.Context) *models.User {
	u, _ := ctx.Value(UserKey).(*models.User)
	return u
}

// TokenFromCtx returns the token key the request authenticated with.
func TokenFromCtx(ctx context.Context) string {
	key, _ := ctx.Value(TokenKey).(string)
	return key
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("WWW-Authenticate", authenticateChallenge)
	writeDetail(w, http.StatusUnauthorized, msg)
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}
