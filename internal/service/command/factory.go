package command

import (
	"context"

	"github.com/sandevgo/kinbot/internal/core"
	"github.com/sandevgo/kinbot/internal/service/companion"
)

// Companions is the part of companion setup reachable from a chat.
type Companions interface {
	Get(ctx context.Context, id string) (companion.Profile, error)
	SetTone(ctx context.Context, id string, tone int) (core.Companion, error)
	Remember(ctx context.Context, companionID, key, value string, importance *int) (core.Memory, error)
}

func NewCommands(companions Companions) []core.Command {
	return []core.Command{
		NewToneCommand(companions),
		NewRememberCommand(companions),
		NewProfileCommand(companions),
	}
}
