package command

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sandevgo/kinbot/internal/core"
)

type Router struct {
	commands  map[string]core.Command
	formatter *ResponseFormatter
}

func New(commands []core.Command) *Router {
	c := &Router{
		commands:  make(map[string]core.Command),
		formatter: NewResponseFormatter(),
	}

	for _, cmd := range commands {
		c.commands[cmd.Name()] = cmd
	}
	return c
}

// Execute reports false when input is not a command, so the caller can
// treat it as a chat message.
func (c *Router) Execute(ctx context.Context, companionID, input string) (string, bool) {
	if !strings.HasPrefix(input, "/") {
		return "", false
	}

	parts := strings.Fields(input)
	if len(parts) == 0 {
		return "", false
	}
	name := strings.TrimPrefix(parts[0], "/")
	// Telegram appends the bot name in groups: /tone@kin_bot
	name, _, _ = strings.Cut(name, "@")
	args := parts[1:]

	if name == "help" || name == "start" {
		return c.help(), true
	}

	cmd, ok := c.commands[name]
	if !ok {
		return fmt.Sprintf("Unknown command: /%s", name), true
	}

	result, err := cmd.Execute(ctx, companionID, args)
	if err != nil {
		return c.formatter.Error(name, err), true
	}
	return result, true
}

func (c *Router) ListCommands() []core.Command {
	res := make([]core.Command, 0, len(c.commands))
	for _, cmd := range c.commands {
		res = append(res, cmd)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Name() < res[j].Name() })
	return res
}

func (c *Router) help() string {
	items := make([]string, 0, len(c.commands))
	for _, cmd := range c.ListCommands() {
		items = append(items, fmt.Sprintf("/%s - %s", cmd.Name(), cmd.Description()))
	}
	return c.formatter.Combine(
		c.formatter.Info("Commands"),
		c.formatter.List(items),
		c.formatter.Tip("anything not starting with / goes to your companion"),
	)
}
