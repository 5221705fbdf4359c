package sqlite

import (
	"context"
	"testing"

	"github.com/sandevgo/kinbot/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompanionsRepo_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewCompanionsRepo(db)

	created := seedCompanion(t, db, "u1")
	assert.NotEmpty(t, created.ID)

	got, err := repo.GetCompanion(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mira", got.Name)
	assert.Equal(t, "u1", got.UserID)
	assert.Equal(t, core.DefaultToneLevel, got.ToneLevel)
	assert.Equal(t, "astronomy", got.Persona["hobby"])
}

func TestCompanionsRepo_NilPersonaStoredAsEmptyObject(t *testing.T) {
	ctx := context.Background()
	repo := NewCompanionsRepo(newTestDB(t))

	c, err := repo.CreateCompanion(ctx, core.Companion{UserID: "u1", Name: "Ash"})
	require.NoError(t, err)

	got, err := repo.GetCompanion(ctx, c.ID)
	require.NoError(t, err)
	assert.NotNil(t, got.Persona)
	assert.Empty(t, got.Persona)
}

func TestCompanionsRepo_GetMissing(t *testing.T) {
	_, err := NewCompanionsRepo(newTestDB(t)).GetCompanion(context.Background(), "nope")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestCompanionsRepo_SetToneLevel(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewCompanionsRepo(db)
	c := seedCompanion(t, db, "u1")

	updated, err := repo.SetToneLevel(ctx, c.ID, 75)
	require.NoError(t, err)
	assert.Equal(t, 75, updated.ToneLevel)

	_, err = repo.SetToneLevel(ctx, "missing", 10)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestCompanionsRepo_ToneCheckConstraint(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	c := seedCompanion(t, db, "u1")

	_, err := NewCompanionsRepo(db).SetToneLevel(ctx, c.ID, 150)
	assert.Error(t, err)
}

func TestCompanionsRepo_ListCompanionIDs(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	a := seedCompanion(t, db, "u1")
	b := seedCompanion(t, db, "u2")

	ids, err := NewCompanionsRepo(db).ListCompanionIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{a.ID, b.ID}, ids)
}
