package recap

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/sandevgo/kinbot/pkg/log"
)

type batchRunner interface {
	RecapAll(ctx context.Context) (BatchResult, error)
}

// Job runs the recap batch on a cron schedule. A tick that fires while the
// previous batch is still running is skipped.
type Job struct {
	runner   batchRunner
	schedule string
	cron     *cron.Cron
	running  sync.Mutex
}

func NewJob(runner batchRunner, schedule string) (*Job, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	if _, err := parser.Parse(schedule); err != nil {
		return nil, fmt.Errorf("invalid recap schedule %q: %w", schedule, err)
	}
	return &Job{
		runner:   runner,
		schedule: schedule,
		cron:     cron.New(cron.WithParser(parser)),
	}, nil
}

func (j *Job) Start(ctx context.Context) error {
	ctx = log.WithComponent(ctx, "recap-job")

	if _, err := j.cron.AddFunc(j.schedule, func() { j.Tick(ctx) }); err != nil {
		return fmt.Errorf("failed to schedule recap job: %w", err)
	}
	j.cron.Start()

	log.FromCtx(ctx).Info().Str("schedule", j.schedule).Msg("recap job scheduled")
	return nil
}

// Shutdown waits for an in-flight batch to finish.
func (j *Job) Shutdown(ctx context.Context) error {
	select {
	case <-j.cron.Stop().Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Tick runs one batch unless another is in progress. It reports whether a batch ran.
func (j *Job) Tick(ctx context.Context) bool {
	logger := log.FromCtx(ctx)
	if !j.running.TryLock() {
		logger.Warn().Msg("recap batch still running, skipping tick")
		return false
	}
	defer j.running.Unlock()

	if _, err := j.runner.RecapAll(ctx); err != nil {
		logger.Error().Err(err).Msg("recap batch failed")
	}
	return true
}
