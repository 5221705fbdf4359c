package memory

import (
	"context"
	"fmt"

	"github.com/sandevgo/kinbot/internal/core"
	"github.com/sandevgo/kinbot/pkg/log"
)

const (
	// RankedLimit caps the facts injected into a prompt.
	RankedLimit = 20
	// HistoryLimit caps the turns injected into a prompt.
	HistoryLimit = 30
)

type Memory struct {
	msgRepo core.MessagesRepository
	memRepo core.MemoryRepository
}

func NewMemory(msgRepo core.MessagesRepository, memRepo core.MemoryRepository) *Memory {
	return &Memory{
		msgRepo: msgRepo,
		memRepo: memRepo,
	}
}

// Rank returns up to RankedLimit memories, most important first.
func (m *Memory) Rank(ctx context.Context, companionID string) ([]core.Memory, error) {
	memories, err := m.memRepo.GetRanked(ctx, companionID, RankedLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to rank memories: %w", err)
	}
	if len(memories) > RankedLimit {
		memories = memories[:RankedLimit]
	}
	return memories, nil
}

// Window returns the last HistoryLimit messages of the conversation,
// oldest first.
func (m *Memory) Window(ctx context.Context, userID, companionID string) ([]core.Message, error) {
	recent, err := m.msgRepo.GetRecent(ctx, userID, companionID, HistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}
	if len(recent) > HistoryLimit {
		recent = recent[:HistoryLimit]
	}

	// The store returns Newest -> Oldest; the prompt needs Oldest -> Newest.
	history := make([]core.Message, len(recent))
	for i, msg := range recent {
		history[len(recent)-1-i] = msg
	}

	log.FromCtx(ctx).Debug().
		Str("companion_id", companionID).
		Int("count", len(history)).
		Msg("loaded history window")
	return history, nil
}

func (m *Memory) Remember(ctx context.Context, companionID, key, value string, importance *int) (core.Memory, error) {
	return m.memRepo.UpsertMemory(ctx, companionID, key, value, importance)
}
