package telegram

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sandevgo/kinbot/internal/config"
	"github.com/sandevgo/kinbot/internal/core"
	"github.com/sandevgo/kinbot/pkg/log"
	tele "gopkg.in/telebot.v3"
)

const baseContextKey = "base_context"

type ChatService interface {
	Turn(ctx context.Context, userID, companionID, message string) (string, error)
}

type Bot struct {
	bot     *tele.Bot
	cfg     *config.TelegramConfig
	chat    ChatService
	cmds    core.CmdRouter
	sender  *sender
	ownerID int64
}

func NewBot(
	ctx context.Context,
	cfg *config.TelegramConfig,
	chat ChatService,
	cmds core.CmdRouter,
) (*Bot, error) {
	pref := tele.Settings{
		Token:  cfg.Token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	bot := &Bot{
		bot:     b,
		cfg:     cfg,
		chat:    chat,
		cmds:    cmds,
		sender:  newSender(b),
		ownerID: cfg.OwnerID,
	}

	ctx = log.WithComponent(ctx, "telegram")

	// Use context from Signal with logger
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			c.Set(baseContextKey, ctx)
			return next(c)
		}
	})

	// Middleware: Only allow the owner
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if c.Sender() == nil || c.Sender().ID != bot.ownerID {
				return nil // Ignore unauthorized users
			}
			return next(c)
		}
	})

	b.Handle(tele.OnText, bot.handleMessage)

	return bot, nil
}

func (b *Bot) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Str("companion_id", b.cfg.CompanionID).Msg("starting telegram bot")
	b.bot.Start()
	return nil
}

func (b *Bot) Shutdown(ctx context.Context) error {
	b.bot.Stop()
	return nil
}

func userID(senderID int64) string {
	return fmt.Sprintf("telegram-%d", senderID)
}

func (b *Bot) handleMessage(c tele.Context) error {
	ctx := c.Get(baseContextKey).(context.Context)
	logger := log.FromCtx(ctx)
	uid := userID(c.Sender().ID)

	if b.cmds != nil {
		if out, ok := b.cmds.Execute(ctx, b.cfg.CompanionID, c.Text()); ok {
			return b.sender.sendMarkdown(ctx, c.Recipient(), out)
		}
	}

	if err := core.ValidateChatMessage(uid, b.cfg.CompanionID, c.Text()); err != nil {
		return c.Send(err.Error())
	}

	_ = c.Notify(tele.Typing)

	reply, err := b.chat.Turn(ctx, uid, b.cfg.CompanionID, c.Text())
	if err != nil {
		logger.Error().Err(err).Msg("chat turn failed")
		return c.Send(userFacingError(err))
	}
	if reply == "" {
		return nil
	}

	return b.sender.sendMarkdown(ctx, c.Recipient(), reply)
}

func userFacingError(err error) string {
	switch {
	case errors.Is(err, core.ErrNotFound):
		return "companion not found, check TELEGRAM_COMPANION_ID"
	case errors.Is(err, core.ErrCompletion):
		return "the model did not answer, please try again"
	default:
		return fmt.Sprintf("error: %v", err)
	}
}
