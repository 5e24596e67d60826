package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestSeedIdempotent(t *testing.T) {
	db, err := Connect(testDSN(), DefaultPool)
	if err != nil {
		t.Skipf("skipping: DB not available: %v", err)
	}
	defer db.Close()

	require.NoError(t, Migrate(context.Background(), db))

	email := "seed-admin@VOTEHUB.test"
	t.Cleanup(func() { db.Exec("DELETE FROM users WHERE email = $1", "seed-admin@votehub.test") })

	// Seed only creates rows that are missing, so running it twice is safe
	// even while other packages share the database.
	require.NoError(t, Seed(db, email, "seed-pass-1"), "first Seed")
	require.NoError(t, Seed(db, email, "seed-pass-1"), "second Seed")

	var (
		hash                 string
		isStaff, isSuperuser bool
		count                int
	)
	require.NoError(t, db.QueryRow(
		"SELECT COUNT(*) FROM users WHERE email = $1", "seed-admin@votehub.test",
	).Scan(&count))
	assert.Equal(t, 1, count, "superuser stored once with normalized email")

	require.NoError(t, db.QueryRow(
		"SELECT password_hash, is_staff, is_superuser FROM users WHERE email = $1", "seed-admin@votehub.test",
	).Scan(&hash, &isStaff, &isSuperuser))
	assert.True(t, isStaff)
	assert.True(t, isSuperuser)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("seed-pass-1")))

	for _, table := range []string{"countries", "states", "cities", "categories", "sub_categories", "topics"} {
		var n int
		require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
		assert.Positive(t, n, "expected seeded rows in %s", table)
	}
}
