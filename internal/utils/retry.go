package utils

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/lib/pq"
	"github.com/stellar/go-stellar-sdk/support/log"
)

// RetryConfig holds configuration for retry operations.
type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

// DefaultDeadlockRetryConfig is used when writing run snapshots to the database.
var DefaultDeadlockRetryConfig = RetryConfig{
	MaxRetries: 5,
	BaseDelay:  100 * time.Millisecond,
	MaxDelay:   2 * time.Second,
}

// IsDeadlock checks if the error is a PostgreSQL deadlock error (code 40P01).
func IsDeadlock(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "40P01"
}

// IsRetryableDBError reports deadlocks and serialization failures.
func IsRetryableDBError(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "40P01" || pqErr.Code == "40001"
	}
	return false
}

// RetryOnDeadlock executes fn and retries it on transient database errors.
func RetryOnDeadlock(ctx context.Context, fn func() error) error {
	return RetryWithConfig(ctx, DefaultDeadlockRetryConfig, IsRetryableDBError, fn)
}

// RetryWithConfig executes fn, retrying errors accepted by isRetryable with an exponential backoff plus jitter.
func RetryWithConfig(ctx context.Context, config RetryConfig, isRetryable func(error) bool, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error before retry attempt: %w", err)
	}

	attempts := uint(config.MaxRetries + 1)
	err := retry.Do(fn,
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(config.BaseDelay),
		retry.MaxDelay(config.MaxDelay),
		retry.MaxJitter(config.BaseDelay/2),
		retry.DelayType(retry.CombineDelay(retry.BackOffDelay, retry.RandomDelay)),
		retry.RetryIf(isRetryable),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.Ctx(ctx).Warnf("Retryable error (attempt %d/%d): %v", n+1, attempts, err)
		}),
	)
	if err != nil && ctx.Err() != nil {
		return fmt.Errorf("context canceled during retry backoff: %w", ctx.Err())
	}
	return err
}
