// Package retry selects workflow runs for a command and re-triggers them.
package retry

import (
	"context"
	"log/slog"
	"time"

	"github.com/alan/ci-bot/internal/github"
	"github.com/cenkalti/backoff/v4"
)

// MaxReattempts is how many times a transient failure is re-attempted
const MaxReattempts = 1

// DefaultCallTimeout bounds a single remote call
const DefaultCallTimeout = 30 * time.Second

// Do runs op with a per-call timeout, re-attempting it once immediately when
// the failure is transient. Non-transient errors and caller cancellation are
// returned without a re-attempt.
func Do(ctx context.Context, timeout time.Duration, op func(context.Context) error) error {
	attempt := 0

	operation := func() error {
		attempt++
		if err := ctx.Err(); err != nil {
			return backoff.Permanent(err)
		}

		callCtx, cancel := withTimeout(ctx, timeout)
		defer cancel()

		err := op(callCtx)
		if err == nil {
			return nil
		}
		if !github.IsTransient(err) {
			return backoff.Permanent(err)
		}

		slog.Debug("Transient API failure", "attempt", attempt, "error", err)
		return err
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(&backoff.ZeroBackOff{}, MaxReattempts), ctx)
	return backoff.Retry(operation, policy)
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
