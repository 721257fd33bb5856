package dispatch_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/sangkips/duka-pos/pkg/dispatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunsSubmittedTasks(t *testing.T) {
	t.Parallel()

	d := dispatch.New(dispatch.Options{Workers: 3, QueueSize: 10, TaskTimeout: time.Second}, zerolog.Nop())

	var ran atomic.Int32
	for i := 0; i < 10; i++ {
		ok := d.Submit(dispatch.Task{Name: "count", Run: func(ctx context.Context) error {
			ran.Add(1)
			return nil
		}})
		require.True(t, ok)
	}

	require.NoError(t, d.Shutdown(context.Background()))
	assert.Equal(t, int32(10), ran.Load())
}

func TestFailuresAndPanicsAreContained(t *testing.T) {
	t.Parallel()

	d := dispatch.New(dispatch.Options{Workers: 1, QueueSize: 4}, zerolog.Nop())

	var after atomic.Bool
	d.Submit(dispatch.Task{Name: "fail", Run: func(ctx context.Context) error { return errors.New("printer offline") }})
	d.Submit(dispatch.Task{Name: "panic", Run: func(ctx context.Context) error { panic("boom") }})
	d.Submit(dispatch.Task{Name: "after", Run: func(ctx context.Context) error {
		after.Store(true)
		return nil
	}})

	require.NoError(t, d.Shutdown(context.Background()))
	assert.True(t, after.Load())
}

func TestSubmitNeverBlocksWhenFull(t *testing.T) {
	t.Parallel()

	d := dispatch.New(dispatch.Options{Workers: 1, QueueSize: 1}, zerolog.Nop())

	release := make(chan struct{})
	started := make(chan struct{})
	blocker := dispatch.Task{Name: "block", Run: func(ctx context.Context) error {
		close(started)
		<-release
		return nil
	}}
	require.True(t, d.Submit(blocker))
	<-started

	noop := dispatch.Task{Name: "noop", Run: func(ctx context.Context) error { return nil }}
	require.True(t, d.Submit(noop))

	submitted := make(chan bool, 1)
	go func() { submitted <- d.Submit(noop) }()
	select {
	case ok := <-submitted:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("Submit blocked on a full queue")
	}

	close(release)
	require.NoError(t, d.Shutdown(context.Background()))
	assert.False(t, d.Submit(noop))
	assert.ErrorIs(t, d.Shutdown(context.Background()), dispatch.ErrStopped)
}

func TestTaskTimeoutCancelsContext(t *testing.T) {
	t.Parallel()

	d := dispatch.New(dispatch.Options{Workers: 1, QueueSize: 1, TaskTimeout: 20 * time.Millisecond}, zerolog.Nop())

	result := make(chan error, 1)
	d.Submit(dispatch.Task{Name: "slow", Run: func(ctx context.Context) error {
		<-ctx.Done()
		result <- ctx.Err()
		return ctx.Err()
	}})

	select {
	case err := <-result:
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	case <-time.After(time.Second):
		t.Fatal("task context never expired")
	}
	require.NoError(t, d.Shutdown(context.Background()))
}
