package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/sandevgo/kinbot/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecapsRepo_FindByRange(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewRecapsRepo(db)
	c := seedCompanion(t, db, "u1")

	start := time.Date(2026, 10, 1, 9, 0, 0, 123456789, time.UTC)
	end := start.Add(2 * time.Hour)

	_, err := repo.FindRecapByRange(ctx, c.ID, start, end)
	assert.ErrorIs(t, err, core.ErrNotFound)

	created, err := repo.AddRecap(ctx, c.ID, "they talked about stars", start, end)
	require.NoError(t, err)

	found, err := repo.FindRecapByRange(ctx, c.ID, start, end)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.True(t, found.RangeStart.Equal(start))
	assert.True(t, found.RangeEnd.Equal(end))

	_, err = repo.FindRecapByRange(ctx, c.ID, start, end.Add(time.Nanosecond))
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestRecapsRepo_AddRecapAllowsDuplicates(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewRecapsRepo(db)
	c := seedCompanion(t, db, "u1")

	start := time.Now().UTC()
	end := start.Add(time.Minute)
	_, err := repo.AddRecap(ctx, c.ID, "one", start, end)
	require.NoError(t, err)
	_, err = repo.AddRecap(ctx, c.ID, "two", start, end)
	require.NoError(t, err)

	all, err := repo.ListRecaps(ctx, c.ID)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestRecapsRepo_AddRecapIfAbsent(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewRecapsRepo(db)
	c := seedCompanion(t, db, "u1")

	start := time.Now().UTC()
	end := start.Add(time.Minute)

	_, ok, err := repo.AddRecapIfAbsent(ctx, c.ID, "first", start, end)
	require.NoError(t, err)
	assert.True(t, ok)

	_, ok, err = repo.AddRecapIfAbsent(ctx, c.ID, "second", start, end)
	require.NoError(t, err)
	assert.False(t, ok)

	all, err := repo.ListRecaps(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "first", all[0].Summary)
}

func TestRecapsRepo_RangeFromStoredMessages(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	msgs := NewMessagesRepo(db)
	repo := NewRecapsRepo(db)
	c := seedCompanion(t, db, "u1")

	for i := 0; i < 3; i++ {
		_, err := msgs.AddMessage(ctx, "u1", c.ID, core.RoleUser, "hello")
		require.NoError(t, err)
	}
	window, err := msgs.GetChronological(ctx, c.ID, 500)
	require.NoError(t, err)

	start, end := window[0].CreatedAt, window[len(window)-1].CreatedAt
	_, err = repo.AddRecap(ctx, c.ID, "s", start, end)
	require.NoError(t, err)

	// timestamps read back from the store must match the stored range exactly
	_, err = repo.FindRecapByRange(ctx, c.ID, start, end)
	assert.NoError(t, err)
}
