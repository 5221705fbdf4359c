package core

import "context"

// CmdRouter handles slash commands typed into a chat instead of a message.
type CmdRouter interface {
	Execute(ctx context.Context, companionID, input string) (string, bool)
	ListCommands() []Command
}

type Command interface {
	Name() string
	Description() string
	Execute(ctx context.Context, companionID string, args []string) (string, error)
}
