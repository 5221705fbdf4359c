package core

import (
	"context"
	"time"
)

type CompanionRepository interface {
	CreateCompanion(ctx context.Context, c Companion) (Companion, error)
	GetCompanion(ctx context.Context, id string) (Companion, error)
	SetToneLevel(ctx context.Context, id string, tone int) (Companion, error)
	ListCompanionIDs(ctx context.Context) ([]string, error)
}

type MessagesRepository interface {
	AddMessage(ctx context.Context, userID, companionID, role, content string) (Message, error)
	// GetRecent returns the newest messages of a conversation, newest first.
	GetRecent(ctx context.Context, userID, companionID string, limit int) ([]Message, error)
	// GetChronological returns the oldest messages of a companion, oldest first.
	GetChronological(ctx context.Context, companionID string, limit int) ([]Message, error)
}

type MemoryRepository interface {
	// GetRanked returns memories by importance desc, newest first on ties.
	GetRanked(ctx context.Context, companionID string, limit int) ([]Memory, error)
	// UpsertMemory keeps the stored importance when importance is nil.
	UpsertMemory(ctx context.Context, companionID, key, value string, importance *int) (Memory, error)
}

type RecapRepository interface {
	AddRecap(ctx context.Context, companionID, summary string, start, end time.Time) (Recap, error)
	// AddRecapIfAbsent returns false when a recap for the same range already exists.
	AddRecapIfAbsent(ctx context.Context, companionID, summary string, start, end time.Time) (Recap, bool, error)
	FindRecapByRange(ctx context.Context, companionID string, start, end time.Time) (Recap, error)
}
