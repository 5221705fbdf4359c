package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/sandevgo/kinbot/internal/config"
	"github.com/sandevgo/kinbot/internal/core"
	"github.com/sandevgo/kinbot/pkg/log"
)

const defaultUserID = "cli-local"

type ChatService interface {
	Turn(ctx context.Context, userID, companionID, message string) (string, error)
}

type ReadLine struct {
	chat        ChatService
	cmds        core.CmdRouter
	companionID string
	userID      string
	rl          *readline.Instance
}

func NewReadLine(chat ChatService, cmds core.CmdRouter, cfg *config.AppConfig, companionID, userID string) (*ReadLine, error) {
	// Ensure runtime directory exists
	if err := os.MkdirAll(cfg.RuntimePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create runtime directory: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(cfg.GetInputHistoryPath()), 0755); err != nil {
		return nil, err
	}
	if userID == "" {
		userID = defaultUserID
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "you> ",
		HistoryFile:     cfg.GetInputHistoryPath(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, err
	}

	return &ReadLine{
		chat:        chat,
		cmds:        cmds,
		companionID: companionID,
		userID:      userID,
		rl:          rl,
	}, nil
}

func (r *ReadLine) Start(ctx context.Context) error {
	logger := log.FromCtx(ctx)
	logger.Info().Str("companion_id", r.companionID).Msg("ReadLine chat started. Type 'exit' to quit.")

	for {
		// Check context before blocking read
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, err := r.rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				if len(line) == 0 {
					return nil // Exit on Ctrl+C
				}
				continue
			} else if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "exit" {
			return nil
		}
		if line == "" {
			continue
		}

		r.turn(ctx, r.rl.Stdout(), line)
	}
}

func (r *ReadLine) turn(ctx context.Context, out io.Writer, line string) {
	if r.cmds != nil {
		if res, ok := r.cmds.Execute(ctx, r.companionID, line); ok {
			fmt.Fprintf(out, "%s\n", res)
			return
		}
	}

	if err := core.ValidateChatMessage(r.userID, r.companionID, line); err != nil {
		fmt.Fprintf(out, "Error: %v\n", err)
		return
	}

	reply, err := r.chat.Turn(ctx, r.userID, r.companionID, line)
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Msg("chat turn failed")
		fmt.Fprintf(out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(out, "%s\n", reply)
}

func (r *ReadLine) Shutdown(ctx context.Context) error {
	if r.rl != nil {
		return r.rl.Close()
	}
	return nil
}
