package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// TEST HELPERS
// ============================================================================

func startPool(t *testing.T, workers, queue int) (*WorkingPool, context.CancelFunc) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	pool := NewWorkingPool(workers, queue)

	var managerWg sync.WaitGroup
	managerWg.Add(1)
	go pool.Start(ctx, &managerWg)

	t.Cleanup(func() {
		cancel()
		managerWg.Wait()
	})
	return pool, cancel
}

func waitForRun(t *testing.T, runs <-chan string, want string) {
	t.Helper()
	select {
	case got := <-runs:
		require.Equal(t, want, got)
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for job %q to run", want)
	}
}

// ============================================================================
// TEST SUITE 1: WORKING POOL
// ============================================================================

func TestWorkingPool_ExecutesSubmittedJobs(t *testing.T) {
	pool, _ := startPool(t, 2, 8)

	runs := make(chan string, 8)
	pool.SubmitJob(func(context.Context) error {
		runs <- "first"
		return nil
	})

	waitForRun(t, runs, "first")
}

func TestWorkingPool_SurvivesPanickingJob(t *testing.T) {
	pool, _ := startPool(t, 1, 8)

	runs := make(chan string, 8)
	pool.SubmitJob(func(context.Context) error {
		panic("bad job")
	})
	pool.SubmitJob(func(context.Context) error {
		runs <- "after-panic"
		return nil
	})

	waitForRun(t, runs, "after-panic")
}

func TestWorkingPool_SurvivesFailingJob(t *testing.T) {
	pool, _ := startPool(t, 1, 8)

	runs := make(chan string, 8)
	pool.SubmitJob(func(context.Context) error {
		return errors.New("transient failure")
	})
	pool.SubmitJob(func(context.Context) error {
		runs <- "after-error"
		return nil
	})

	waitForRun(t, runs, "after-error")
}

// ============================================================================
// TEST SUITE 2: SCHEDULER
// ============================================================================

func TestJobScheduler_SubmitsJobsOnEachTick(t *testing.T) {
	pool, _ := startPool(t, 1, 8)

	clock := clockwork.NewFakeClock()
	scheduler := NewJobScheduler("monthly-analysis", time.Hour, pool, clock)

	runs := make(chan string, 8)
	scheduler.AddJob(func(context.Context) error {
		runs <- "tick"
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go scheduler.Run(ctx)

	// Wait for the ticker to be registered before advancing time.
	require.NoError(t, clock.BlockUntilContext(ctx, 1))

	clock.Advance(time.Hour)
	waitForRun(t, runs, "tick")

	clock.Advance(time.Hour)
	waitForRun(t, runs, "tick")
}

func TestJobScheduler_DoesNotFireBeforeInterval(t *testing.T) {
	pool, _ := startPool(t, 1, 8)

	clock := clockwork.NewFakeClock()
	scheduler := NewJobScheduler("monthly-analysis", time.Hour, pool, clock)

	runs := make(chan string, 8)
	scheduler.AddJob(func(context.Context) error {
		runs <- "tick"
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go scheduler.Run(ctx)

	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	clock.Advance(59 * time.Minute)

	select {
	case <-runs:
		t.Fatal("job ran before the interval elapsed")
	case <-time.After(100 * time.Millisecond):
	}
}
