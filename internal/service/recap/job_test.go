package recap

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type blockingRunner struct {
	calls   atomic.Int32
	started chan struct{}
	release chan struct{}
}

func (b *blockingRunner) RecapAll(ctx context.Context) (BatchResult, error) {
	b.calls.Add(1)
	b.started <- struct{}{}
	<-b.release
	return BatchResult{}, nil
}

func TestNewJob_InvalidSchedule(t *testing.T) {
	_, err := NewJob(&blockingRunner{}, "not a schedule")
	assert.Error(t, err)

	_, err = NewJob(&blockingRunner{}, "0 3 * * 1")
	assert.NoError(t, err)
}

func TestJob_SkipsOverlappingTick(t *testing.T) {
	runner := &blockingRunner{started: make(chan struct{}, 1), release: make(chan struct{})}
	job, err := NewJob(runner, "0 3 * * 1")
	require.NoError(t, err)

	done := make(chan bool)
	go func() { done <- job.Tick(context.Background()) }()

	select {
	case <-runner.started:
	case <-time.After(time.Second):
		t.Fatal("first tick did not start")
	}

	assert.False(t, job.Tick(context.Background()))

	close(runner.release)
	assert.True(t, <-done)
	assert.Equal(t, int32(1), runner.calls.Load())
}

func TestJob_StartShutdown(t *testing.T) {
	job, err := NewJob(&blockingRunner{}, "0 3 * * 1")
	require.NoError(t, err)

	require.NoError(t, job.Start(context.Background()))
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, job.Shutdown(ctx))
}
