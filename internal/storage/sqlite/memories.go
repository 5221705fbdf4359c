package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/sandevgo/kinbot/internal/core"
)

type MemoriesRepo struct {
	db *sql.DB
}

func NewMemoriesRepo(db *sql.DB) *MemoriesRepo {
	return &MemoriesRepo{db: db}
}

func (r *MemoriesRepo) GetRanked(ctx context.Context, companionID string, limit int) ([]core.Memory, error) {
	// rowid DESC breaks importance ties by insertion recency
	query := `SELECT id, companion_id, key, value, importance, created_at, updated_at FROM memories
		WHERE companion_id = ? ORDER BY importance DESC, rowid DESC LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, companionID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query memories: %w", err)
	}
	defer rows.Close()

	var memories []core.Memory
	for rows.Next() {
		var m core.Memory
		if err := rows.Scan(&m.ID, &m.CompanionID, &m.Key, &m.Value, &m.Importance, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan memory: %w", err)
		}
		memories = append(memories, m)
	}
	return memories, rows.Err()
}

// UpsertMemory relies on the (companion_id, key) unique index, so concurrent
// writers for one key converge on a single row.
func (r *MemoriesRepo) UpsertMemory(ctx context.Context, companionID, key, value string, importance *int) (core.Memory, error) {
	ts := now()
	insertImportance := core.DefaultImportance
	if importance != nil {
		insertImportance = *importance
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Memory{}, err
	}
	defer tx.Rollback()

	upsert := `INSERT INTO memories (id, companion_id, key, value, importance, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (companion_id, key) DO UPDATE SET
			value = excluded.value,
			importance = CASE WHEN ? THEN excluded.importance ELSE memories.importance END,
			updated_at = excluded.updated_at`

	_, err = tx.ExecContext(ctx, upsert,
		uuid.NewString(), companionID, key, value, insertImportance, ts, ts,
		importance != nil,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return core.Memory{}, fmt.Errorf("companion %s: %w", companionID, core.ErrNotFound)
		}
		return core.Memory{}, fmt.Errorf("failed to upsert memory: %w", err)
	}

	var m core.Memory
	err = tx.QueryRowContext(ctx,
		`SELECT id, companion_id, key, value, importance, created_at, updated_at FROM memories WHERE companion_id = ? AND key = ?`,
		companionID, key,
	).Scan(&m.ID, &m.CompanionID, &m.Key, &m.Value, &m.Importance, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return core.Memory{}, fmt.Errorf("failed to read upserted memory: %w", err)
	}

	return m, tx.Commit()
}
