package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func recordingPolicy(attempts int, waits *[]time.Duration) Policy {
	return Policy{
		MaxAttempts: attempts,
		Backoff:     Linear(1500 * time.Millisecond),
		sleep: func(_ context.Context, d time.Duration) error {
			*waits = append(*waits, d)
			return nil
		},
	}
}

func TestDoStopsAfterMaxAttempts(t *testing.T) {
	var waits []time.Duration
	calls := 0
	err := recordingPolicy(3, &waits).Do(context.Background(), func(context.Context) error {
		calls++
		return errBoom
	})
	require.ErrorIs(t, err, errBoom)
	require.Equal(t, 3, calls)
	require.Equal(t, []time.Duration{1500 * time.Millisecond, 3000 * time.Millisecond}, waits)
}

func TestDoReturnsOnFirstSuccess(t *testing.T) {
	var waits []time.Duration
	calls := 0
	err := recordingPolicy(3, &waits).Do(context.Background(), func(context.Context) error {
		calls++
		if calls < 2 {
			return errBoom
		}
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 2, calls)
	require.Len(t, waits, 1)
}

func TestDoSkipsNonRetryable(t *testing.T) {
	var waits []time.Duration
	p := recordingPolicy(3, &waits)
	p.Retryable = func(err error) bool { return !errors.Is(err, errBoom) }
	calls := 0
	err := p.Do(context.Background(), func(context.Context) error {
		calls++
		return errBoom
	})
	require.ErrorIs(t, err, errBoom)
	require.Equal(t, 1, calls)
	require.Empty(t, waits)
}

func TestDoHonorsCancellationWhileWaiting(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := Policy{MaxAttempts: 3, Backoff: Linear(time.Hour)}
	calls := 0
	err := p.DoNotify(ctx, func(context.Context) error {
		calls++
		return errBoom
	}, func(Attempt) { cancel() })
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 1, calls)
}

func TestZeroPolicyRunsOnce(t *testing.T) {
	calls := 0
	err := Policy{}.Do(context.Background(), func(context.Context) error {
		calls++
		return errBoom
	})
	require.ErrorIs(t, err, errBoom)
	require.Equal(t, 1, calls)
}

func TestSplitDeadlineLeavesRoomForEveryAttempt(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 900*time.Millisecond)
	defer cancel()
	parent, _ := ctx.Deadline()

	p := Policy{
		MaxAttempts:   3,
		Backoff:       Linear(10 * time.Millisecond),
		SplitDeadline: true,
		Reserve:       300 * time.Millisecond,
	}
	calls := 0
	err := p.Do(ctx, func(actx context.Context) error {
		calls++
		d, ok := actx.Deadline()
		require.True(t, ok)
		require.True(t, d.Before(parent))
		// hang until this attempt's share runs out
		<-actx.Done()
		return actx.Err()
	})
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Equal(t, 3, calls)
	require.NoError(t, ctx.Err())
}

func TestSplitDeadlineWithoutDeadlineUsesParent(t *testing.T) {
	p := Policy{MaxAttempts: 2, SplitDeadline: true}
	err := p.Do(context.Background(), func(actx context.Context) error {
		_, ok := actx.Deadline()
		require.False(t, ok)
		return nil
	})
	require.NoError(t, err)
}
