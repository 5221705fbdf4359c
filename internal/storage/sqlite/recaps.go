package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sandevgo/kinbot/internal/core"
)

type RecapsRepo struct {
	db *sql.DB
}

func NewRecapsRepo(db *sql.DB) *RecapsRepo {
	return &RecapsRepo{db: db}
}

func (r *RecapsRepo) AddRecap(ctx context.Context, companionID, summary string, start, end time.Time) (core.Recap, error) {
	rc := newRecap(companionID, summary, start, end)

	query := `INSERT INTO recaps (id, companion_id, summary, range_start, range_end, created_at) VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, rc.ID, rc.CompanionID, rc.Summary, rc.RangeStart, rc.RangeEnd, rc.CreatedAt)
	if err != nil {
		return core.Recap{}, r.wrapInsertErr(companionID, err)
	}
	return rc, nil
}

// AddRecapIfAbsent inserts only when no recap covers the same range. The
// check and the insert are one statement, so a concurrent writer cannot
// slip in between them.
func (r *RecapsRepo) AddRecapIfAbsent(ctx context.Context, companionID, summary string, start, end time.Time) (core.Recap, bool, error) {
	rc := newRecap(companionID, summary, start, end)

	query := `INSERT INTO recaps (id, companion_id, summary, range_start, range_end, created_at)
		SELECT ?, ?, ?, ?, ?, ?
		WHERE NOT EXISTS (
			SELECT 1 FROM recaps WHERE companion_id = ? AND range_start = ? AND range_end = ?
		)`
	res, err := r.db.ExecContext(ctx, query,
		rc.ID, rc.CompanionID, rc.Summary, rc.RangeStart, rc.RangeEnd, rc.CreatedAt,
		rc.CompanionID, rc.RangeStart, rc.RangeEnd,
	)
	if err != nil {
		return core.Recap{}, false, r.wrapInsertErr(companionID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return core.Recap{}, false, err
	}
	if n == 0 {
		return core.Recap{}, false, nil
	}
	return rc, true, nil
}

func (r *RecapsRepo) FindRecapByRange(ctx context.Context, companionID string, start, end time.Time) (core.Recap, error) {
	query := `SELECT id, companion_id, summary, range_start, range_end, created_at FROM recaps
		WHERE companion_id = ? AND range_start = ? AND range_end = ? ORDER BY rowid LIMIT 1`

	var rc core.Recap
	err := r.db.QueryRowContext(ctx, query, companionID, start.UTC(), end.UTC()).
		Scan(&rc.ID, &rc.CompanionID, &rc.Summary, &rc.RangeStart, &rc.RangeEnd, &rc.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Recap{}, core.ErrNotFound
	}
	if err != nil {
		return core.Recap{}, fmt.Errorf("failed to query recap: %w", err)
	}
	return rc, nil
}

func (r *RecapsRepo) ListRecaps(ctx context.Context, companionID string) ([]core.Recap, error) {
	query := `SELECT id, companion_id, summary, range_start, range_end, created_at FROM recaps
		WHERE companion_id = ? ORDER BY rowid`

	rows, err := r.db.QueryContext(ctx, query, companionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query recaps: %w", err)
	}
	defer rows.Close()

	var recaps []core.Recap
	for rows.Next() {
		var rc core.Recap
		if err := rows.Scan(&rc.ID, &rc.CompanionID, &rc.Summary, &rc.RangeStart, &rc.RangeEnd, &rc.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan recap: %w", err)
		}
		recaps = append(recaps, rc)
	}
	return recaps, rows.Err()
}

func (r *RecapsRepo) wrapInsertErr(companionID string, err error) error {
	if isForeignKeyViolation(err) {
		return fmt.Errorf("companion %s: %w", companionID, core.ErrNotFound)
	}
	return fmt.Errorf("failed to insert recap: %w", err)
}

func newRecap(companionID, summary string, start, end time.Time) core.Recap {
	return core.Recap{
		ID:          uuid.NewString(),
		CompanionID: companionID,
		Summary:     summary,
		RangeStart:  start.UTC(),
		RangeEnd:    end.UTC(),
		CreatedAt:   now(),
	}
}
