package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "domain lowercased", in: "testpublic@EXAMPLE.com", want: "testpublic@example.com"},
		{name: "local part kept", in: "Test.User@Example.COM", want: "Test.User@example.com"},
		{name: "already normal", in: "a@b.c", want: "a@b.c"},
		{name: "surrounding space trimmed", in: "  a@B.c ", want: "a@b.c"},
		{name: "no at sign", in: "not-an-email", want: "not-an-email"},
		{name: "last at wins", in: "we@ird@HOST.io", want: "we@ird@host.io"},
		{name: "empty", in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeEmail(tt.in))
		})
	}
}

func TestUserCanAuthenticate(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		active  bool
		deleted *time.Time
		want    bool
	}{
		{name: "active", active: true, want: true},
		{name: "inactive", active: false, want: false},
		{name: "soft-deleted", active: true, deleted: &now, want: false},
		{name: "inactive and deleted", active: false, deleted: &now, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := &User{IsActive: tt.active, Deleted: tt.deleted}
			assert.Equal(t, tt.want, u.CanAuthenticate())
		})
	}
}

func TestDisplayStrings(t *testing.T) {
	assert.Equal(t, "Candidate: Candidate 1", (&Candidate{Name: "Candidate 1"}).String())
	assert.Equal(t, "Vote: Vote 1", (&Vote{Name: "Vote 1"}).String())
	assert.Equal(t, "Favorite: Fav", (&Favorite{Name: "Fav"}).String())
	assert.Equal(t, "Country: Malaysia", (&Country{Name: "Malaysia"}).String())
	assert.Equal(t, "State: Johor", (&State{Name: "Johor"}).String())
	assert.Equal(t, "City: Muar", (&City{Name: "Muar"}).String())
	assert.Equal(t, "Category: Economy", (&Category{Name: "Economy"}).String())
	assert.Equal(t, "Sub-Category: Tax", (&SubCategory{Name: "Tax"}).String())
	assert.Equal(t, "Topic: VAT", (&Topic{Name: "VAT"}).String())
	assert.Equal(t, "Filter: Mine", (&Filter{Name: "Mine"}).String())
	assert.Equal(t, "Candidate-Topic: Stance", (&CandidateTopic{Name: "Stance"}).String())
	assert.Equal(t, "User: a@b.c", (&User{Email: "a@b.c"}).String())
}
