// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"votehub/internal/models"
	"votehub/internal/token"
)

// fakeTokens resolves keys from a map.
type fakeTokens struct {
	keys map[string]uuid.UUID
	err  error
}

func (f *fakeTokens) Resolve(_ context.Context, key string) (uuid.UUID, error) {
	if f.err != nil {
		return uuid.Nil, f.err
	}
	id, ok := f.keys[key]
	if !ok {
		return uuid.Nil, token.ErrInvalidToken
	}
	return id, nil
}

// fakeUsers loads users from a map.
type fakeUsers map[uuid.UUID]*models.User

func (f fakeUsers) FindByID(id uuid.UUID) (*models.User, error) {
	return f[id], nil
}

// okHandler is a simple handler that records whether it was invoked.
func okHandler() (http.Handler, *bool) {
	var called bool
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})
	return h, &called
}

func detail(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body["detail"]
}

func authFixture() (*fakeTokens, fakeUsers, *models.User) {
	active := &models.User{ID: uuid.New(), Email: "active@votehub.local", IsActive: true}
	inactive := &models.User{ID: uuid.New(), Email: "inactive@votehub.local", IsActive: false}
	deletedAt := time.Now()
	deleted := &models.User{ID: uuid.New(), Email: "deleted@votehub.local", IsActive: true, Deleted: &deletedAt}
	orphan := uuid.New()

	tokens := &fakeTokens{keys: map[string]uuid.UUID{
		"good":     active.ID,
		"inactive": inactive.ID,
		"deleted":  deleted.ID,
		"orphan":   orphan,
	}}
	users := fakeUsers{active.ID: active, inactive.ID: inactive, deleted.ID: deleted}
	return tokens, users, active
}

func TestAuthenticate(t *testing.T) {
	tokens, users, active := authFixture()

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantDetail string
		wantUser   bool
	}{
		{name: "no header is anonymous", wantStatus: http.StatusOK},
		{name: "other scheme is ignored", header: "Basic Zm9vOmJhcg==", wantStatus: http.StatusOK},
		{name: "token scheme", header: "Token good", wantStatus: http.StatusOK, wantUser: true},
		{name: "bearer scheme", header: "Bearer good", wantStatus: http.StatusOK, wantUser: true},
		{name: "scheme is case insensitive", header: "token good", wantStatus: http.StatusOK, wantUser: true},
		{name: "missing key", header: "Token", wantStatus: http.StatusUnauthorized, wantDetail: msgNoCredentials},
		{name: "key with spaces", header: "Token a b", wantStatus: http.StatusUnauthorized, wantDetail: msgTokenHasSpaces},
		{name: "unknown key", header: "Token nope", wantStatus: http.StatusUnauthorized, wantDetail: MsgInvalidToken},
		{name: "user gone", header: "Token orphan", wantStatus: http.StatusUnauthorized, wantDetail: MsgInvalidToken},
		{name: "inactive user", header: "Token inactive", wantStatus: http.StatusUnauthorized, wantDetail: MsgUserInactive},
		{name: "soft-deleted user", header: "Token deleted", wantStatus: http.StatusUnauthorized, wantDetail: MsgUserInactive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got *models.User
			var gotKey string
			h := Authenticate(tokens, users)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = UserFromCtx(r.Context())
				gotKey = TokenFromCtx(r.Context())
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/candidate/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantDetail != "" {
				assert.Equal(t, tt.wantDetail, detail(t, rr))
				assert.Equal(t, "Token", rr.Header().Get("WWW-Authenticate"))
			}
			if tt.wantUser {
				require.NotNil(t, got)
				assert.Equal(t, active.ID, got.ID)
				assert.Equal(t, "good", gotKey)
			} else {
				assert.Nil(t, got)
			}
		})
	}
}

func TestAuthenticateResolverError(t *testing.T) {
	_, users, _ := authFixture()
	h := Authenticate(&fakeTokens{err: errors.New("valkey down")}, users)(http.NotFoundHandler())

	req := httptest.NewRequest(http.MethodGet, "/me/", nil)
	req.Header.Set("Authorization", "Token good")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "A server error occurred.", detail(t, rr))
}

func withUser(r *http.Request, u *models.User) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), UserKey, u))
}

func TestRequireUser(t *testing.T) {
	t.Run("anonymous gets 401", func(t *testing.T) {
		next, called := okHandler()
		rr := httptest.NewRecorder()
		RequireUser(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/me/", nil))

		assert.False(t, *called)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Equal(t, MsgNotAuthenticated, detail(t, rr))
		assert.Equal(t, "Token", rr.Header().Get("WWW-Authenticate"))
	})

	t.Run("user passes", func(t *testing.T) {
		next, called := okHandler()
		rr := httptest.NewRecorder()
		req := withUser(httptest.NewRequest(http.MethodGet, "/me/", nil), &models.User{ID: uuid.New()})
		RequireUser(next).ServeHTTP(rr, req)

		assert.True(t, *called)
		assert.Equal(t, http.StatusOK, rr.Code)
	})
}

func TestReadOnlyOrAuthenticated(t *testing.T) {
	for _, method := range []string{http.MethodGet, http.MethodHead, http.MethodOptions} {
		t.Run(method+" is public", func(t *testing.T) {
			next, called := okHandler()
			rr := httptest.NewRecorder()
			ReadOnlyOrAuthenticated(next).ServeHTTP(rr, httptest.NewRequest(method, "/candidate/", nil))
			assert.True(t, *called)
		})
	}

	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete} {
		t.Run(method+" needs a user", func(t *testing.T) {
			next, called := okHandler()
			rr := httptest.NewRecorder()
			ReadOnlyOrAuthenticated(next).ServeHTTP(rr, httptest.NewRequest(method, "/candidate/", nil))
			assert.False(t, *called)
			assert.Equal(t, http.StatusUnauthorized, rr.Code)
		})
	}
}

func TestRequireStaff(t *testing.T) {
	t.Run("anonymous gets 401", func(t *testing.T) {
		next, _ := okHandler()
		rr := httptest.NewRecorder()
		RequireStaff(next).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/country/", nil))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("regular user gets 403", func(t *testing.T) {
		next, called := okHandler()
		rr := httptest.NewRecorder()
		req := withUser(httptest.NewRequest(http.MethodPost, "/country/", nil), &models.User{ID: uuid.New()})
		RequireStaff(next).ServeHTTP(rr, req)
		assert.False(t, *called)
		assert.Equal(t, http.StatusForbidden, rr.Code)
		assert.Equal(t, MsgPermissionDenied, detail(t, rr))
	})

	t.Run("staff passes", func(t *testing.T) {
		next, called := okHandler()
		rr := httptest.NewRecorder()
		req := withUser(httptest.NewRequest(http.MethodPost, "/country/", nil), &models.User{ID: uuid.New(), IsStaff: true})
		RequireStaff(next).ServeHTTP(rr, req)
		assert.True(t, *called)
	})

	t.Run("read-only variant lets GET through", func(t *testing.T) {
		next, called := okHandler()
		rr := httptest.NewRecorder()
		ReadOnlyOrStaff(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/country/", nil))
		assert.True(t, *called)
	})
}

func TestFromCtxEmpty(t *testing.T) {
	assert.Nil(t, UserFromCtx(context.Background()))
	assert.Empty(t, TokenFromCtx(context.Background()))
}
