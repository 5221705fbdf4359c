package companion

import (
	"context"
	"fmt"
	"strings"

	"github.com/sandevgo/kinbot/internal/core"
	"github.com/sandevgo/kinbot/internal/service/memory"
	"github.com/sandevgo/kinbot/pkg/log"
)

type CreateInput struct {
	UserID    string         `json:"userId"`
	Name      string         `json:"name"`
	ToneLevel *int           `json:"toneLevel,omitempty"`
	Persona   map[string]any `json:"persona,omitempty"`
}

// Profile is a companion together with its top-ranked memories.
type Profile struct {
	Companion core.Companion `json:"companion"`
	Memories  []core.Memory  `json:"memories"`
}

// Service owns companion setup: creation, tone changes and memory edits.
type Service struct {
	repo   core.CompanionRepository
	memory *memory.Memory
}

func NewService(repo core.CompanionRepository, mem *memory.Memory) *Service {
	return &Service{repo: repo, memory: mem}
}

func (s *Service) Create(ctx context.Context, in CreateInput) (core.Companion, error) {
	if strings.TrimSpace(in.UserID) == "" {
		return core.Companion{}, fmt.Errorf("%w: userId is required", core.ErrValidation)
	}
	if err := core.ValidateCompanionName(in.Name); err != nil {
		return core.Companion{}, err
	}

	tone := core.DefaultToneLevel
	if in.ToneLevel != nil {
		if err := core.ValidateLevel("toneLevel", *in.ToneLevel); err != nil {
			return core.Companion{}, err
		}
		tone = *in.ToneLevel
	}

	c, err := s.repo.CreateCompanion(ctx, core.Companion{
		UserID:    in.UserID,
		Name:      in.Name,
		ToneLevel: tone,
		Persona:   in.Persona,
	})
	if err != nil {
		return core.Companion{}, err
	}

	log.FromCtx(ctx).Info().Str("companion_id", c.ID).Str("name", c.Name).Msg("companion created")
	return c, nil
}

func (s *Service) Get(ctx context.Context, id string) (Profile, error) {
	c, err := s.repo.GetCompanion(ctx, id)
	if err != nil {
		return Profile{}, err
	}
	memories, err := s.memory.Rank(ctx, id)
	if err != nil {
		return Profile{}, err
	}
	if memories == nil {
		memories = []core.Memory{}
	}
	return Profile{Companion: c, Memories: memories}, nil
}

func (s *Service) SetTone(ctx context.Context, id string, tone int) (core.Companion, error) {
	if err := core.ValidateLevel("toneLevel", tone); err != nil {
		return core.Companion{}, err
	}
	return s.repo.SetToneLevel(ctx, id, tone)
}

// Remember creates or updates the memory stored under key.
// A nil importance keeps the stored value, or the default for a new key.
func (s *Service) Remember(ctx context.Context, companionID, key, value string, importance *int) (core.Memory, error) {
	if err := core.ValidateMemory(companionID, key, value, importance); err != nil {
		return core.Memory{}, err
	}
	return s.memory.Remember(ctx, companionID, key, value, importance)
}
