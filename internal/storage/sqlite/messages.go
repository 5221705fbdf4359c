package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sandevgo/kinbot/internal/core"
	"github.com/sandevgo/kinbot/pkg/log"
)

type MessagesRepo struct {
	db *sql.DB
}

func NewMessagesRepo(db *sql.DB) *MessagesRepo {
	return &MessagesRepo{db: db}
}

func (r *MessagesRepo) AddMessage(ctx context.Context, userID, companionID, role, content string) (core.Message, error) {
	msg := core.Message{
		UserID:      userID,
		CompanionID: companionID,
		Role:        role,
		Content:     content,
		CreatedAt:   now(),
	}

	query := `INSERT INTO messages (user_id, companion_id, role, content, created_at) VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query, userID, companionID, role, content, msg.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return core.Message{}, fmt.Errorf("companion %s: %w", companionID, core.ErrNotFound)
		}
		return core.Message{}, fmt.Errorf("failed to insert message: %w", err)
	}

	if msg.ID, err = res.LastInsertId(); err != nil {
		return core.Message{}, err
	}
	return msg, nil
}

func (r *MessagesRepo) GetRecent(ctx context.Context, userID, companionID string, limit int) ([]core.Message, error) {
	query := `SELECT id, user_id, companion_id, role, content, created_at FROM messages
		WHERE user_id = ? AND companion_id = ? ORDER BY id DESC LIMIT ?`

	messages, err := r.query(ctx, query, userID, companionID, limit)
	if err != nil {
		return nil, err
	}

	log.FromCtx(ctx).Debug().Int("count", len(messages)).Msg("loaded recent messages")
	return messages, nil
}

func (r *MessagesRepo) GetChronological(ctx context.Context, companionID string, limit int) ([]core.Message, error) {
	query := `SELECT id, user_id, companion_id, role, content, created_at FROM messages
		WHERE companion_id = ? ORDER BY id ASC LIMIT ?`
	return r.query(ctx, query, companionID, limit)
}

func (r *MessagesRepo) query(ctx context.Context, query string, args ...any) ([]core.Message, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	var messages []core.Message
	for rows.Next() {
		var m core.Message
		if err := rows.Scan(&m.ID, &m.UserID, &m.CompanionID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, m)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return messages, nil
}
