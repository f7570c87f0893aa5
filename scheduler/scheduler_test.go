package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAfterStart(t *testing.T) {
	s, err := NewScheduler()
	require.NoError(t, err)
	defer s.Stop()

	require.NoError(t, s.Start())
	err = s.Register("late", time.Minute, func(ctx context.Context) error { return nil })
	assert.ErrorIs(t, err, ErrAlreadyStarted)
}

func TestRegisterDuplicate(t *testing.T) {
	s, err := NewScheduler()
	require.NoError(t, err)
	defer s.Stop()

	noop := func(ctx context.Context) error { return nil }
	require.NoError(t, s.Register("harvest:campus_news", time.Minute, noop))
	assert.ErrorIs(t, s.Register("harvest:campus_news", time.Minute, noop), ErrDuplicateJob)
}

func TestPeriodicJobRuns(t *testing.T) {
	s, err := NewScheduler(WithPoolSize(2))
	require.NoError(t, err)
	defer s.Stop()

	var runs atomic.Int32
	require.NoError(t, s.Register("tick", 10*time.Millisecond, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	}))
	require.NoError(t, s.Start())

	require.Eventually(t, func() bool {
		return runs.Load() >= 3
	}, 2*time.Second, 5*time.Millisecond)
}

func TestFailingJobBacksOffAndRecovers(t *testing.T) {
	s, err := NewScheduler(WithMaxRetryInterval(40 * time.Millisecond))
	require.NoError(t, err)
	defer s.Stop()

	var runs atomic.Int32
	require.NoError(t, s.Register("flaky", 5*time.Millisecond, func(ctx context.Context) error {
		if runs.Add(1) <= 3 {
			return errors.New("source down")
		}
		return nil
	}))
	require.NoError(t, s.Start())

	// Despite three consecutive failures the job keeps running and then
	// settles back to its normal cadence.
	require.Eventually(t, func() bool {
		return runs.Load() >= 6
	}, 3*time.Second, 5*time.Millisecond)
}

func TestSubmitRequiresStart(t *testing.T) {
	s, err := NewScheduler()
	require.NoError(t, err)
	defer s.Stop()

	err = s.Submit("reprocess", func(ctx context.Context) error { return nil })
	assert.ErrorIs(t, err, ErrNotStarted)
}

func TestSubmitRunsWork(t *testing.T) {
	s, err := NewScheduler()
	require.NoError(t, err)
	defer s.Stop()
	require.NoError(t, s.Start())

	done := make(chan struct{})
	require.NoError(t, s.Submit("reprocess", func(ctx context.Context) error {
		close(done)
		return nil
	}))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("submitted work never ran")
	}
}

func TestStopCancelsJobs(t *testing.T) {
	s, err := NewScheduler()
	require.NoError(t, err)

	started := make(chan struct{})
	cancelled := make(chan struct{})
	require.NoError(t, s.Register("blocker", 5*time.Millisecond, func(ctx context.Context) error {
		select {
		case started <- struct{}{}:
		default:
		}
		<-ctx.Done()
		close(cancelled)
		return ctx.Err()
	}))
	require.NoError(t, s.Start())

	<-started
	s.Stop()

	select {
	case <-cancelled:
	case <-time.After(2 * time.Second):
		t.Fatal("job context was not cancelled on Stop")
	}
}

func TestBackoffDelayCapped(t *testing.T) {
	interval := time.Second
	max := 10 * time.Second

	assert.Equal(t, 2*time.Second, backoffDelay(interval, 1, max))
	assert.Equal(t, 4*time.Second, backoffDelay(interval, 2, max))
	assert.Equal(t, 8*time.Second, backoffDelay(interval, 3, max))
	assert.Equal(t, max, backoffDelay(interval, 4, max))
	assert.Equal(t, max, backoffDelay(interval, 20, max), "cap holds however long the outage")
}
