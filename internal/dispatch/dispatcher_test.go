package dispatch_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/sevenply/plybot/internal/dispatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSubmitRunsTask(t *testing.T) {
	t.Parallel()

	d := dispatch.New(2, "test_submit", zap.NewNop())

	done := make(chan struct{})
	err := d.Submit(t.Context(), "key", func(context.Context) error {
		close(done)
		return nil
	})
	require.NoError(t, err)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("task was never executed")
	}

	d.Shutdown()
}

func TestPerKeyOrdering(t *testing.T) {
	t.Parallel()

	d := dispatch.New(4, "test_ordering", zap.NewNop())

	const n = 50

	var (
		mu    sync.Mutex
		order []int
	)

	release := make(chan struct{})

	// The first task blocks until everything is submitted, forcing the
	// rest to queue behind the key.
	err := d.Submit(t.Context(), "member", func(context.Context) error {
		<-release

		mu.Lock()
		order = append(order, 0)
		mu.Unlock()

		return nil
	})
	require.NoError(t, err)

	for i := 1; i <= n; i++ {
		err := d.Submit(t.Context(), "member", func(context.Context) error {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()

			return nil
		})
		require.NoError(t, err)
	}

	close(release)
	d.Shutdown()

	require.Len(t, order, n+1)
	for i, got := range order {
		assert.Equal(t, i, got, "tasks for one key must run in submission order")
	}
}

func TestDistinctKeysRunConcurrently(t *testing.T) {
	t.Parallel()

	d := dispatch.New(2, "test_parallel", zap.NewNop())

	blocked := make(chan struct{})
	proceed := make(chan struct{})

	err := d.Submit(t.Context(), "slow", func(context.Context) error {
		close(blocked)
		<-proceed

		return nil
	})
	require.NoError(t, err)

	<-blocked

	// With the first worker parked on "slow", a second key must still
	// make progress.
	done := make(chan struct{})
	err = d.Submit(t.Context(), "fast", func(context.Context) error {
		close(done)
		return nil
	})
	require.NoError(t, err)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("second key was blocked behind an unrelated key")
	}

	close(proceed)
	d.Shutdown()
}

func TestFailedTaskDoesNotStallKey(t *testing.T) {
	t.Parallel()

	d := dispatch.New(1, "test_failure", zap.NewNop())

	done := make(chan struct{})

	err := d.Submit(t.Context(), "member", func(context.Context) error {
		return context.DeadlineExceeded
	})
	require.NoError(t, err)

	err = d.Submit(t.Context(), "member", func(context.Context) error {
		close(done)
		return nil
	})
	require.NoError(t, err)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("key stalled after a failed task")
	}

	d.Shutdown()
}

func TestCancelledSubmitKeepsAcceptedTasks(t *testing.T) {
	t.Parallel()

	d := dispatch.New(1, "test_cancel_keep", zap.NewNop())

	busy := make(chan struct{})
	release := make(chan struct{})

	// Park the only worker so the next Submit for a fresh key blocks on
	// the feeder after claiming the key.
	err := d.Submit(t.Context(), "busy", func(context.Context) error {
		close(busy)
		<-release

		return nil
	})
	require.NoError(t, err)

	<-busy

	ctx, cancel := context.WithCancel(t.Context())

	first := make(chan error, 1)
	go func() {
		first <- d.Submit(ctx, "member", func(context.Context) error {
			return nil
		})
	}()

	// Let the first submit claim the key before queueing behind it.
	time.Sleep(50 * time.Millisecond)

	done := make(chan struct{})
	second := make(chan error, 1)
	go func() {
		second <- d.Submit(t.Context(), "member", func(context.Context) error {
			close(done)
			return nil
		})
	}()

	select {
	case err := <-second:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("second submit was not accepted behind the claimed key")
	}

	// Cancelling the head submit must not drop the task accepted behind
	// its claim.
	cancel()
	require.ErrorIs(t, <-first, context.Canceled)

	close(release)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("accepted task was lost after the head submit was cancelled")
	}

	d.Shutdown()
}

func TestSubmitAfterShutdownFails(t *testing.T) {
	t.Parallel()

	d := dispatch.New(1, "test_stopped", zap.NewNop())
	d.Shutdown()

	err := d.Submit(t.Context(), "member", func(context.Context) error {
		t.Error("task ran after shutdown")
		return nil
	})
	require.ErrorIs(t, err, dispatch.ErrStopped)
}

func TestShutdownDrainsQueuedTasks(t *testing.T) {
	t.Parallel()

	d := dispatch.New(1, "test_drain", zap.NewNop())

	const n = 10

	var (
		mu  sync.Mutex
		ran int
	)

	release := make(chan struct{})

	err := d.Submit(t.Context(), "member", func(context.Context) error {
		<-release
		return nil
	})
	require.NoError(t, err)

	for range n {
		err := d.Submit(t.Context(), "member", func(context.Context) error {
			mu.Lock()
			ran++
			mu.Unlock()

			return nil
		})
		require.NoError(t, err)
	}

	close(release)
	d.Shutdown()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, n, ran, "queued tasks behind an owned key must drain before shutdown")
}
