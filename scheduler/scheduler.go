// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package scheduler

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
)

// Job is one unit of background work. The context is cancelled when the
// scheduler stops.
type Job func(ctx context.Context) error

// registration is one named periodic job.
type registration struct {
	name     string
	interval time.Duration
	run      Job
}

// Scheduler runs registered periodic jobs and on-demand work over a
// bounded worker pool.
//
// A job that keeps failing backs off exponentially, capped at the maximum
// retry interval; it is never abandoned. A success resets its cadence.
type Scheduler struct {
	pool             *ants.Pool
	maxRetryInterval time.Duration
	logger           *slog.Logger

	mu      sync.Mutex
	jobs    []registration
	started bool
	stopped bool
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// Option configures a Scheduler.
type Option func(*Scheduler) error

// WithPoolSize sets the worker pool size.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(s *Scheduler) error {
		if size < 1 {
			size = 1
		}
		if s.pool != nil {
			s.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		s.pool = pool
		return nil
	}
}

// WithMaxRetryInterval caps the backoff delay for a repeatedly failing job.
// Default is 1 hour.
func WithMaxRetryInterval(max time.Duration) Option {
	return func(s *Scheduler) error {
		if max > 0 {
			s.maxRetryInterval = max
		}
		return nil
	}
}

// NewScheduler creates a scheduler.
func NewScheduler(opts ...Option) (*Scheduler, error) {
	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	s := &Scheduler{
		pool:             pool,
		maxRetryInterval: time.Hour,
		logger:           slog.Default().With("component", "scheduler"),
	}
	for _, opt := range opts {
		if optErr := opt(s); optErr != nil {
			s.pool.Release()
			return nil, optErr
		}
	}
	return s, nil
}

// Register adds a named periodic job. All jobs must be registered before
// Start.
func (s *Scheduler) Register(name string, interval time.Duration, run Job) error {
	if interval <= 0 {
		return ErrInvalidInterval
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return ErrAlreadyStarted
	}
	for _, existing := range s.jobs {
		if existing.name == name {
			return ErrDuplicateJob
		}
	}
	s.jobs = append(s.jobs, registration{name: name, interval: interval, run: run})
	return nil
}

// Start launches one ticker loop per registered job. Each job runs once
// immediately, then on its interval.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return ErrStopped
	}
	if s.started {
		return ErrAlreadyStarted
	}
	s.started = true
	s.ctx, s.cancel = context.WithCancel(context.Background())

	for _, reg := range s.jobs {
		s.wg.Add(1)
		go s.loop(reg)
	}

	s.logger.Info("scheduler started", "jobs", len(s.jobs))
	return nil
}

// loop drives one job until the scheduler stops.
func (s *Scheduler) loop(reg registration) {
	defer s.wg.Done()

	failures := 0
	delay := time.Duration(0) // first run is immediate

	for {
		timer := time.NewTimer(delay)
		select {
		case <-s.ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		if err := s.execute(reg.name, reg.run); err != nil {
			failures++
			delay = backoffDelay(reg.interval, failures, s.maxRetryInterval)
			s.logger.Warn("job failed, backing off",
				"job", reg.name,
				"failures", failures,
				"next_run_in", delay,
				"err", err)
			continue
		}

		if failures > 0 {
			s.logger.Info("job recovered", "job", reg.name, "after_failures", failures)
		}
		failures = 0
		delay = reg.interval
	}
}

// execute runs a job inside the bounded pool and waits for it.
func (s *Scheduler) execute(name string, run Job) error {
	done := make(chan error, 1)
	submitErr := s.pool.Submit(func() {
		done <- run(s.ctx)
	})
	if submitErr != nil {
		return submitErr
	}

	select {
	case <-s.ctx.Done():
		// The job sees the same context and is expected to bail out; its
		// late result is discarded.
		return s.ctx.Err()
	case err := <-done:
		return err
	}
}

// Submit dispatches one-off asynchronous work (a reprocess request, an
// on-demand harvest) to the pool. Failures are logged, not returned.
func (s *Scheduler) Submit(name string, run Job) error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return ErrNotStarted
	}
	if s.stopped {
		s.mu.Unlock()
		return ErrStopped
	}
	ctx := s.ctx
	s.mu.Unlock()

	return s.pool.Submit(func() {
		if err := run(ctx); err != nil {
			s.logger.Error("submitted work failed", "name", name, "err", err)
		}
	})
}

// Stop cancels all jobs, waits for the loops to exit, and releases the
// pool. The scheduler cannot be restarted.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	cancel := s.cancel
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	s.wg.Wait()
	s.pool.Release()
	s.logger.Info("scheduler stopped")
}

// backoffDelay computes interval * 2^failures, capped.
func backoffDelay(interval time.Duration, failures int, max time.Duration) time.Duration {
	delay := interval
	for i := 0; i < failures; i++ {
		delay *= 2
		if delay >= max {
			return max
		}
	}
	return delay
}
