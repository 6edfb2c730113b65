// Package retry wraps fallible external calls (storage procedures, Telegram
// sends) with bounded exponential backoff. The policy retries every error:
// idempotency of the wrapped operation is the caller's responsibility.
package retry

import (
	"context"
	"fmt"
	"time"

	"github.com/m3rciful/vbot/core/logger"
	"log/slog"
)

const (
	defaultInitialBackoff = 1 * time.Second
	defaultMaxBackoff     = 10 * time.Second
	defaultMaxElapsed     = 60 * time.Second
)

// FatalError is returned once the elapsed-time budget is exhausted.
// It wraps the last error observed from the operation.
type FatalError struct {
	Op       string
	Attempts int
	Elapsed  time.Duration
	Err      error
}

// Error implements the error interface.
func (e *FatalError) Error() string {
	return fmt.Sprintf("retry: %s failed after %d attempts in %s: %v", e.Op, e.Attempts, e.Elapsed.Round(time.Millisecond), e.Err)
}

// Unwrap exposes the last underlying error.
func (e *FatalError) Unwrap() error { return e.Err }

// Code identifies the error class in handler summaries.
func (e *FatalError) Code() string { return "FATAL_CALL_FAILURE" }

// Policy describes bounded exponential backoff applied around one operation.
// The zero value uses the defaults: 1s initial backoff doubling up to 10s per
// attempt, with a 60s total budget.
type Policy struct {
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	MaxElapsed     time.Duration

	// test seams; nil means real clock
	sleep func(ctx context.Context, d time.Duration) error
	now   func() time.Time
}

func (p Policy) initial() time.Duration {
	if p.InitialBackoff > 0 {
		return p.InitialBackoff
	}
	return defaultInitialBackoff
}

func (p Policy) max() time.Duration {
	if p.MaxBackoff > 0 {
		return p.MaxBackoff
	}
	return defaultMaxBackoff
}

func (p Policy) budget() time.Duration {
	if p.MaxElapsed > 0 {
		return p.MaxElapsed
	}
	return defaultMaxElapsed
}

func (p Policy) clock() func() time.Time {
	if p.now != nil {
		return p.now
	}
	return time.Now
}

func (p Policy) pause(ctx context.Context, d time.Duration) error {
	if p.sleep != nil {
		return p.sleep(ctx, d)
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

// Execute runs fn until it succeeds or the elapsed budget runs out.
// The op name is used for log correlation only.
func (p Policy) Execute(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	if ctx == nil {
		ctx = context.Background()
	}

	now := p.clock()
	start := now()
	backoff := p.initial()

	var lastErr error
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			if attempt > 1 {
				logger.Info(ctx, "retry", "retry.recovered",
					slog.String("op", op),
					slog.Int("attempts", attempt),
					slog.Duration("duration", now().Sub(start)),
				)
			}
			return nil
		}

		elapsed := now().Sub(start)
		if elapsed >= p.budget() {
			fatal := &FatalError{Op: op, Attempts: attempt, Elapsed: elapsed, Err: lastErr}
			logger.Error(ctx, "retry", "retry.exhausted",
				slog.String("op", op),
				slog.Int("attempts", attempt),
				slog.Duration("duration", elapsed),
				slog.String("err", lastErr.Error()),
			)
			return fatal
		}

		logger.Warn(ctx, "retry", "retry.backoff",
			slog.String("op", op),
			slog.String("status", "retry"),
			slog.Int("attempts", attempt),
			slog.Int64("backoff_ms", backoff.Milliseconds()),
			slog.String("err", lastErr.Error()),
		)
		if err := p.pause(ctx, backoff); err != nil {
			return err
		}

		backoff *= 2
		if max := p.max(); backoff > max {
			backoff = max
		}
	}
}

// Value runs fn under policy p and returns its result.
func Value[T any](ctx context.Context, p Policy, op string, fn func(ctx context.Context) (T, error)) (T, error) {
	var out T
	err := p.Execute(ctx, op, func(ctx context.Context) error {
		v, err := fn(ctx)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}
