// Package testutil provides test databases and fixtures.
package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/ringside/internal/infrastructure/sqlite"
)

// NewTestDB creates an in-memory database with every migration applied.
// It is closed when the test ends.
func NewTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.NewMemoryDB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}
