// Package retry wraps an operation in a bounded retry loop with
// exponential backoff, honoring server-provided Retry-After delays.
package retry

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"time"
)

type Logger interface {
	Debug(s string)
	Info(s string)
}

// temporaryError is implemented by errors worth retrying.
type temporaryError interface {
	Temporary() bool
}

// retryAfterError is implemented by errors carrying a
// server-provided delay to wait before the next attempt.
type retryAfterError interface {
	RetryAfterDelay() (delay time.Duration, ok bool)
}

// ExhaustedError is returned when all attempts failed with a
// temporary error. It unwraps to the error of the last attempt.
type ExhaustedError struct {
	Attempts uint
	Last     error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("all %d attempts failed: %s", e.Attempts, e.Last)
}

func (e *ExhaustedError) Unwrap() error { return e.Last }

// Do runs op up to settings.MaxAttempts times. Only temporary errors
// are retried; any other error propagates immediately with zero
// retries. The delay before retry k is BaseDelay * 2^(k-1) plus up to
// 10% jitter, capped at MaxDelay, unless the last error carried a
// Retry-After delay which then takes precedence for that attempt.
func Do[T any](ctx context.Context, settings Settings, logger Logger,
	op func(ctx context.Context) (result T, err error)) (result T, err error) {
	var lastErr error
	for attempt := uint(1); attempt <= settings.MaxAttempts; attempt++ {
		if attempt > 1 {
			delay := delayBeforeRetry(attempt-1, settings, lastErr)
			logger.Debug("waiting " + delay.String() + " before attempt " +
				strconv.FormatUint(uint64(attempt), 10) + " of " +
				strconv.FormatUint(uint64(settings.MaxAttempts), 10))
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return result, ctx.Err()
			case <-timer.C:
			}
		}

		result, err = op(ctx)
		if err == nil {
			if attempt > 1 {
				logger.Info("succeeded after " +
					strconv.FormatUint(uint64(attempt), 10) + " attempts")
			}
			return result, nil
		}

		if !IsTemporary(err) {
			return result, err
		}
		lastErr = err
		logger.Debug("attempt " + strconv.FormatUint(uint64(attempt), 10) +
			" of " + strconv.FormatUint(uint64(settings.MaxAttempts), 10) +
			" failed: " + err.Error())
	}

	return result, &ExhaustedError{
		Attempts: settings.MaxAttempts,
		Last:     lastErr,
	}
}

// IsTemporary returns true if any error in the tree of err
// reports itself as temporary.
func IsTemporary(err error) bool {
	var temporary temporaryError
	return errors.As(err, &temporary) && temporary.Temporary()
}

// delayBeforeRetry computes the wait before retry number `retry`,
// counted from 1.
func delayBeforeRetry(retry uint, settings Settings, lastErr error) (delay time.Duration) {
	var withRetryAfter retryAfterError
	if errors.As(lastErr, &withRetryAfter) {
		serverDelay, ok := withRetryAfter.RetryAfterDelay()
		if ok {
			return serverDelay
		}
	}

	const maxShift = 30 // delay is capped anyway beyond this
	shift := retry - 1
	if shift > maxShift {
		shift = maxShift
	}
	delay = settings.BaseDelay << shift
	if delay > settings.MaxDelay || delay <= 0 {
		delay = settings.MaxDelay
	}

	const jitterDivisor = 10
	maxJitter := int64(delay / jitterDivisor)
	if maxJitter > 0 {
		delay += time.Duration(rand.Int63n(maxJitter)) //nolint:gosec
	}
	return delay
}
