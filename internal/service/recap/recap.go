package recap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sandevgo/kinbot/internal/core"
	"github.com/sandevgo/kinbot/internal/metrics"
	"github.com/sandevgo/kinbot/internal/service/prompt"
	"github.com/sandevgo/kinbot/pkg/log"
)

const (
	// WindowLimit caps the messages summarized in one recap.
	WindowLimit = 500
	// MinMessages is the smallest window worth summarizing.
	MinMessages = 20
)

type Status string

const (
	StatusCreated Status = "created"
	StatusSkipped Status = "skipped"
)

const (
	ReasonInsufficientHistory = "insufficient history"
	ReasonDuplicateWindow     = "duplicate window"
)

type Outcome struct {
	Status Status      `json:"status"`
	Reason string      `json:"reason,omitempty"`
	Recap  *core.Recap `json:"recap,omitempty"`
}

type BatchResult struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
	Total   int `json:"total"`
}

type Recapper struct {
	companions core.CompanionRepository
	messages   core.MessagesRepository
	recaps     core.RecapRepository
	ai         core.Completer
	metrics    *metrics.Metrics
}

func NewRecapper(
	companions core.CompanionRepository,
	messages core.MessagesRepository,
	recaps core.RecapRepository,
	ai core.Completer,
	m *metrics.Metrics,
) *Recapper {
	return &Recapper{
		companions: companions,
		messages:   messages,
		recaps:     recaps,
		ai:         ai,
		metrics:    m,
	}
}

// RecapOne summarizes the oldest window of a companion's conversation.
// It always writes a new recap, even for a window that was already summarized.
func (r *Recapper) RecapOne(ctx context.Context, companionID string) (Outcome, error) {
	ctx = log.WithComponent(ctx, "recap")

	if _, err := r.companions.GetCompanion(ctx, companionID); err != nil {
		return Outcome{}, fmt.Errorf("failed to load companion: %w", err)
	}

	out, err := r.run(ctx, companionID, false)
	r.observe(out, err)
	return out, err
}

// RecapAll runs the deduplicating pipeline for every companion in turn.
// A failing companion is counted and does not stop the batch.
func (r *Recapper) RecapAll(ctx context.Context) (BatchResult, error) {
	ctx = log.WithComponent(ctx, "recap")
	logger := log.FromCtx(ctx)

	ids, err := r.companions.ListCompanionIDs(ctx)
	if err != nil {
		return BatchResult{}, fmt.Errorf("failed to list companions: %w", err)
	}

	res := BatchResult{Total: len(ids)}
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		out, err := r.run(ctx, id, true)
		r.observe(out, err)
		switch {
		case err != nil:
			res.Failed++
			logger.Error().Err(err).Str("companion_id", id).Msg("recap failed")
		case out.Status == StatusCreated:
			res.Created++
		default:
			res.Skipped++
		}
	}

	logger.Info().
		Int("created", res.Created).
		Int("skipped", res.Skipped).
		Int("failed", res.Failed).
		Int("total", res.Total).
		Msg("recap batch finished")
	return res, nil
}

func (r *Recapper) run(ctx context.Context, companionID string, dedup bool) (Outcome, error) {
	logger := log.FromCtx(ctx)

	msgs, err := r.messages.GetChronological(ctx, companionID, WindowLimit)
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to load messages: %w", err)
	}
	if len(msgs) < MinMessages {
		logger.Debug().Str("companion_id", companionID).Int("messages", len(msgs)).Msg("recap skipped")
		return Outcome{Status: StatusSkipped, Reason: ReasonInsufficientHistory}, nil
	}

	start, end := msgs[0].CreatedAt, msgs[len(msgs)-1].CreatedAt

	if dedup {
		_, err := r.recaps.FindRecapByRange(ctx, companionID, start, end)
		switch {
		case err == nil:
			return Outcome{Status: StatusSkipped, Reason: ReasonDuplicateWindow}, nil
		case !errors.Is(err, core.ErrNotFound):
			return Outcome{}, fmt.Errorf("failed to look up recap: %w", err)
		}
	}

	began := time.Now()
	summary, err := r.ai.Complete(ctx, prompt.ComposeRecap(msgs))
	r.metrics.ObserveCompletion(time.Since(began), err)
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: %w", core.ErrCompletion, err)
	}

	if !dedup {
		rc, err := r.recaps.AddRecap(ctx, companionID, summary, start, end)
		if err != nil {
			return Outcome{}, fmt.Errorf("failed to save recap: %w", err)
		}
		return created(ctx, rc), nil
	}

	rc, ok, err := r.recaps.AddRecapIfAbsent(ctx, companionID, summary, start, end)
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to save recap: %w", err)
	}
	if !ok {
		return Outcome{Status: StatusSkipped, Reason: ReasonDuplicateWindow}, nil
	}
	return created(ctx, rc), nil
}

func created(ctx context.Context, rc core.Recap) Outcome {
	log.FromCtx(ctx).Info().
		Str("companion_id", rc.CompanionID).
		Str("recap_id", rc.ID).
		Time("range_start", rc.RangeStart).
		Time("range_end", rc.RangeEnd).
		Msg("recap created")
	return Outcome{Status: StatusCreated, Recap: &rc}
}

func (r *Recapper) observe(out Outcome, err error) {
	if err != nil {
		r.metrics.ObserveRecap("failed")
		return
	}
	r.metrics.ObserveRecap(string(out.Status))
}
