package agent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sandevgo/kinbot/internal/core"
	"github.com/sandevgo/kinbot/internal/metrics"
	"github.com/sandevgo/kinbot/internal/service/memory"
	"github.com/sandevgo/kinbot/internal/service/prompt"
	"github.com/sandevgo/kinbot/pkg/log"
	"github.com/sandevgo/kinbot/pkg/tokens"
)

type Agent struct {
	companions core.CompanionRepository
	messages   core.MessagesRepository
	memory     *memory.Memory
	ai         core.Completer
	policy     core.PolicySource
	metrics    *metrics.Metrics
}

func NewAgent(
	companions core.CompanionRepository,
	messages core.MessagesRepository,
	mem *memory.Memory,
	ai core.Completer,
	policy core.PolicySource,
	m *metrics.Metrics,
) *Agent {
	return &Agent{
		companions: companions,
		messages:   messages,
		memory:     mem,
		ai:         ai,
		policy:     policy,
		metrics:    m,
	}
}

// Turn runs one chat exchange. The user message is stored before the
// completion call and stays stored when the call fails.
func (a *Agent) Turn(ctx context.Context, userID, companionID, message string) (reply string, err error) {
	defer func() { a.metrics.ObserveChatTurn(err) }()

	ctx = log.WithComponent(ctx, "agent")
	logger := log.FromCtx(ctx)

	companion, err := a.companions.GetCompanion(ctx, companionID)
	if err != nil {
		return "", fmt.Errorf("failed to load companion: %w", err)
	}

	history, err := a.memory.Window(ctx, userID, companionID)
	if err != nil {
		return "", err
	}
	memories, err := a.memory.Rank(ctx, companionID)
	if err != nil {
		return "", err
	}

	instructions := prompt.ComposeChat(prompt.ChatInput{
		Policy:      a.policy.Policy(),
		Memories:    memories,
		Companion:   companion,
		History:     history,
		UserMessage: message,
	})
	if logger.Debug().Enabled() {
		logger.Debug().
			Str("companion_id", companionID).
			Int("history", len(history)).
			Int("memories", len(memories)).
			Int("tokens", estimate(instructions)).
			Msg("composed chat prompt")
	}

	if _, err := a.messages.AddMessage(ctx, userID, companionID, core.RoleUser, message); err != nil {
		return "", fmt.Errorf("failed to save user message: %w", err)
	}

	start := time.Now()
	reply, err = a.ai.Complete(ctx, instructions)
	a.metrics.ObserveCompletion(time.Since(start), err)
	if err != nil {
		logger.Error().Err(err).Str("companion_id", companionID).Msg("completion failed")
		return "", wrapCompletion(err)
	}

	if _, err := a.messages.AddMessage(ctx, userID, companionID, core.RoleAssistant, reply); err != nil {
		return "", fmt.Errorf("failed to save assistant message: %w", err)
	}
	return reply, nil
}

func wrapCompletion(err error) error {
	if errors.Is(err, core.ErrCompletion) {
		return err
	}
	return fmt.Errorf("%w: %w", core.ErrCompletion, err)
}

func estimate(instructions []core.Instruction) int {
	total := 0
	for _, in := range instructions {
		total += tokens.Count(in.Content)
	}
	return total
}
