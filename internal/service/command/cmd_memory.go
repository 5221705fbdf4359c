package command

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

type RememberCommand struct {
	companions Companions
	formatter  *ResponseFormatter
}

func NewRememberCommand(companions Companions) *RememberCommand {
	return &RememberCommand{
		companions: companions,
		formatter:  NewResponseFormatter(),
	}
}

func (c *RememberCommand) Name() string {
	return "remember"
}

func (c *RememberCommand) Description() string {
	return "Save a fact the companion should keep in mind"
}

// Execute takes "key value..." with an optional trailing "!N" importance.
func (c *RememberCommand) Execute(ctx context.Context, companionID string, args []string) (string, error) {
	if len(args) < 2 {
		return c.formatter.Combine(
			c.formatter.Usage("/remember <key> <value> [!importance]"),
			c.formatter.Examples([]string{
				"/remember favorite_color blue",
				"/remember birthday March 3rd !90",
			}),
		), nil
	}

	var importance *int
	last := args[len(args)-1]
	if n, ok := strings.CutPrefix(last, "!"); ok && len(args) > 2 {
		v, err := strconv.Atoi(n)
		if err != nil {
			return "", fmt.Errorf("importance must be a number, got %q", last)
		}
		importance = &v
		args = args[:len(args)-1]
	}

	m, err := c.companions.Remember(ctx, companionID, args[0], strings.Join(args[1:], " "), importance)
	if err != nil {
		return "", err
	}
	return c.formatter.Combine(
		c.formatter.Success("Remembered"),
		c.formatter.Label(m.Key, m.Value),
		c.formatter.Label("Importance", strconv.Itoa(m.Importance)),
	), nil
}

type ProfileCommand struct {
	companions Companions
	formatter  *ResponseFormatter
}

func NewProfileCommand(companions Companions) *ProfileCommand {
	return &ProfileCommand{
		companions: companions,
		formatter:  NewResponseFormatter(),
	}
}

func (c *ProfileCommand) Name() string {
	return "profile"
}

func (c *ProfileCommand) Description() string {
	return "Show the companion and what it remembers"
}

func (c *ProfileCommand) Execute(ctx context.Context, companionID string, args []string) (string, error) {
	p, err := c.companions.Get(ctx, companionID)
	if err != nil {
		return "", err
	}

	facts := make([]string, 0, len(p.Memories))
	for _, m := range p.Memories {
		facts = append(facts, fmt.Sprintf("%s: %s (%d)", m.Key, m.Value, m.Importance))
	}
	if len(facts) == 0 {
		facts = append(facts, "nothing yet, try /remember")
	}

	return c.formatter.Combine(
		c.formatter.Info(p.Companion.Name),
		c.formatter.Label("Tone", strconv.Itoa(p.Companion.ToneLevel)),
		c.formatter.Section("🧠", "Memories", c.formatter.List(facts)),
	), nil
}
