package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// JobScheduler submits its registered jobs to a pool on a fixed
// interval. The clock is injected so tests can advance time directly.
type JobScheduler struct {
	Name     string
	Interval time.Duration
	Pool     *WorkingPool

	clock clockwork.Clock
	jobs  []Job
	mu    sync.RWMutex
}

func NewJobScheduler(name string, interval time.Duration, pool *WorkingPool, clock clockwork.Clock) *JobScheduler {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &JobScheduler{
		Name:     name,
		Interval: interval,
		Pool:     pool,
		clock:    clock,
	}
}

func (s *JobScheduler) AddJob(job Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = append(s.jobs, job)
}

// Run ticks until ctx is cancelled, submitting all registered jobs on
// each tick.
func (s *JobScheduler) Run(ctx context.Context) {
	slog.Info("scheduler running", "name", s.Name, "interval", s.Interval)
	ticker := s.clock.NewTicker(s.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.Chan():
			s.submitJobs()

		case <-ctx.Done():
			slog.Info("scheduler shutting down", "name", s.Name)
			return
		}
	}
}

func (s *JobScheduler) submitJobs() {
	s.mu.RLock()
	jobsToRun := make([]Job, len(s.jobs))
	copy(jobsToRun, s.jobs)
	s.mu.RUnlock()

	for _, job := range jobsToRun {
		s.Pool.SubmitJob(job)
	}
}
