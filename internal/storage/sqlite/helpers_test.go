package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/sandevgo/kinbot/internal/core"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := NewDB(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func seedCompanion(t *testing.T, db *sql.DB, userID string) core.Companion {
	t.Helper()
	c, err := NewCompanionsRepo(db).CreateCompanion(context.Background(), core.Companion{
		UserID:    userID,
		Name:      "Mira",
		ToneLevel: core.DefaultToneLevel,
		Persona:   map[string]any{"hobby": "astronomy"},
	})
	require.NoError(t, err)
	return c
}
