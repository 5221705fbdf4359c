package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sandevgo/kinbot/internal/core"
)

type CompanionsRepo struct {
	db *sql.DB
}

func NewCompanionsRepo(db *sql.DB) *CompanionsRepo {
	return &CompanionsRepo{db: db}
}

func (r *CompanionsRepo) CreateCompanion(ctx context.Context, c core.Companion) (core.Companion, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Persona == nil {
		c.Persona = map[string]any{}
	}
	c.CreatedAt = now()

	persona, err := json.Marshal(c.Persona)
	if err != nil {
		return core.Companion{}, fmt.Errorf("failed to marshal persona: %w", err)
	}

	query := `INSERT INTO companions (id, user_id, name, tone_level, persona, created_at) VALUES (?, ?, ?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query, c.ID, c.UserID, c.Name, c.ToneLevel, string(persona), c.CreatedAt); err != nil {
		return core.Companion{}, fmt.Errorf("failed to insert companion: %w", err)
	}
	return c, nil
}

func (r *CompanionsRepo) GetCompanion(ctx context.Context, id string) (core.Companion, error) {
	query := `SELECT id, user_id, name, tone_level, persona, created_at FROM companions WHERE id = ?`

	var c core.Companion
	var persona string
	err := r.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.UserID, &c.Name, &c.ToneLevel, &persona, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Companion{}, fmt.Errorf("companion %s: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Companion{}, fmt.Errorf("failed to query companion: %w", err)
	}

	if err := json.Unmarshal([]byte(persona), &c.Persona); err != nil {
		return core.Companion{}, fmt.Errorf("failed to unmarshal persona: %w", err)
	}
	return c, nil
}

func (r *CompanionsRepo) SetToneLevel(ctx context.Context, id string, tone int) (core.Companion, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE companions SET tone_level = ? WHERE id = ?`, tone, id)
	if err != nil {
		return core.Companion{}, fmt.Errorf("failed to update tone level: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return core.Companion{}, err
	}
	if n == 0 {
		return core.Companion{}, fmt.Errorf("companion %s: %w", id, core.ErrNotFound)
	}
	return r.GetCompanion(ctx, id)
}

func (r *CompanionsRepo) ListCompanionIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM companions ORDER BY created_at, rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to query companions: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan companion id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
