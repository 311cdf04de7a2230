package client

import (
	"context"
	"time"
)

// Sleep waits for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// RetryPolicy is a bounded attempt count with a fixed delay between attempts.
type RetryPolicy struct {
	Attempts int
	Delay    time.Duration
}

// Do calls fn until it reports done or Attempts runs out. Cancelling ctx
// interrupts the delay.
// A lookup that finds nothing returns (false, nil) and is retried. When no
// attempt reports done, the last attempt's error is returned, which is nil
// if that attempt merely found nothing.
func (p RetryPolicy) Do(ctx context.Context, fn func(ctx context.Context) (done bool, err error)) error {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			if err := Sleep(ctx, p.Delay); err != nil {
				return err
			}
		}
		done, err := fn(ctx)
		if err == nil && done {
			return nil
		}
		lastErr = err
	}
	return lastErr
}
