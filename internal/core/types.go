package core

import "time"

const (
	KinName          = "KinBot"
	KinUserAgent     = "KinBot/0.1"
	KinRepositoryURL = "https://github.com/sandevgo/kinbot"
	KinVersion       = "0.1.0"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Companion struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id"`
	Name      string         `json:"name"`
	ToneLevel int            `json:"tone_level"`
	Persona   map[string]any `json:"persona"`
	CreatedAt time.Time      `json:"created_at"`
}

// Memory is a user-editable fact. Importance is only used for ranking.
type Memory struct {
	ID          string    `json:"id"`
	CompanionID string    `json:"companion_id"`
	Key         string    `json:"key"`
	Value       string    `json:"value"`
	Importance  int       `json:"importance"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Message struct {
	ID          int64     `json:"id"`
	UserID      string    `json:"user_id"`
	CompanionID string    `json:"companion_id"`
	Role        string    `json:"role"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"created_at"`
}

type Recap struct {
	ID          string    `json:"id"`
	CompanionID string    `json:"companion_id"`
	Summary     string    `json:"summary"`
	RangeStart  time.Time `json:"range_start"`
	RangeEnd    time.Time `json:"range_end"`
	CreatedAt   time.Time `json:"created_at"`
}

// Instruction is one entry of a prompt handed to the completion provider.
type Instruction struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Policy holds the content flags resolved for a single invocation.
type Policy struct {
	AllowFlirtation   bool
	AllowAdultContent bool
}
