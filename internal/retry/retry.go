// Package retry runs an operation a bounded number of times with a backoff
// between attempts.
package retry

import (
	"context"
	"time"
)

// Policy describes how an operation is retried. The zero value runs the
// operation once.
type Policy struct {
	MaxAttempts int
	Backoff     func(attempt int) time.Duration
	// Retryable decides whether an error is worth another attempt. Nil
	// retries every error.
	Retryable func(error) bool
	// SplitDeadline gives each attempt an equal share of the time left
	// before ctx's deadline, after the remaining backoffs and Reserve are
	// set aside, so a hanging attempt cannot starve the ones after it.
	SplitDeadline bool
	// Reserve is kept back from the deadline for the caller to respond.
	Reserve time.Duration

	// sleep is replaced in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// Linear returns a backoff that waits step × attempt after each failure.
func Linear(step time.Duration) func(int) time.Duration {
	return func(attempt int) time.Duration {
		return step * time.Duration(attempt)
	}
}

// Attempt is reported to the observer after each failed try.
type Attempt struct {
	Number int
	Err    error
	Wait   time.Duration
}

// Do calls fn until it succeeds, the attempts run out, the error is not
// retryable or ctx is done. The last error is returned.
func (p Policy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return p.DoNotify(ctx, fn, nil)
}

// DoNotify is Do with a callback invoked after every failed attempt that
// will be retried.
func (p Policy) DoNotify(ctx context.Context, fn func(ctx context.Context) error, notify func(Attempt)) error {
	limit := p.MaxAttempts
	if limit < 1 {
		limit = 1
	}
	sleep := p.sleep
	if sleep == nil {
		sleep = sleepCtx
	}

	var err error
	for attempt := 1; attempt <= limit; attempt++ {
		if err = ctx.Err(); err != nil {
			return err
		}
		actx, cancel := p.attemptContext(ctx, attempt, limit)
		err = fn(actx)
		cancel()
		if err == nil {
			return nil
		}
		if attempt == limit || (p.Retryable != nil && !p.Retryable(err)) {
			return err
		}
		var wait time.Duration
		if p.Backoff != nil {
			wait = p.Backoff(attempt)
		}
		if notify != nil {
			notify(Attempt{Number: attempt, Err: err, Wait: wait})
		}
		if serr := sleep(ctx, wait); serr != nil {
			return serr
		}
	}
	return err
}

// attemptContext bounds one attempt when SplitDeadline is set and ctx has a
// deadline. Without a usable share the attempt runs under ctx as is.
func (p Policy) attemptContext(ctx context.Context, attempt, limit int) (context.Context, context.CancelFunc) {
	if !p.SplitDeadline {
		return ctx, func() {}
	}
	deadline, ok := ctx.Deadline()
	if !ok {
		return ctx, func() {}
	}
	left := time.Until(deadline) - p.Reserve
	if p.Backoff != nil {
		for a := attempt; a < limit; a++ {
			left -= p.Backoff(a)
		}
	}
	share := left / time.Duration(limit-attempt+1)
	if share <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, share)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
