package command

import (
	"context"
	"fmt"
	"strconv"
)

type ToneCommand struct {
	companions Companions
	formatter  *ResponseFormatter
}

func NewToneCommand(companions Companions) *ToneCommand {
	return &ToneCommand{
		companions: companions,
		formatter:  NewResponseFormatter(),
	}
}

func (c *ToneCommand) Name() string {
	return "tone"
}

func (c *ToneCommand) Description() string {
	return "Show or change the companion's tone level"
}

func (c *ToneCommand) Execute(ctx context.Context, companionID string, args []string) (string, error) {
	if len(args) == 0 {
		p, err := c.companions.Get(ctx, companionID)
		if err != nil {
			return "", err
		}
		return c.formatter.Combine(
			c.formatter.Info("Tone"),
			c.formatter.Label("Level", strconv.Itoa(p.Companion.ToneLevel)),
			c.formatter.Usage("/tone [0..100]"),
		), nil
	}

	tone, err := strconv.Atoi(args[0])
	if err != nil {
		return "", fmt.Errorf("tone must be a number between 0 and 100")
	}
	updated, err := c.companions.SetTone(ctx, companionID, tone)
	if err != nil {
		return "", err
	}
	return c.formatter.Success(fmt.Sprintf("Tone set to %d", updated.ToneLevel)), nil
}
