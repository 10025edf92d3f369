// Package retry wraps transient-failure resilience for data-source
// operations. Every operation passed to Do must be safe to repeat:
// reads trivially, writes because duplicate-key collisions are
// translated into non-error outcomes by the callers.
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const maxRetries = 3

// Do runs op with bounded exponential backoff, giving up after
// maxRetries re-attempts or when ctx is done. Errors wrapped with
// Permanent are returned immediately.
func Do(ctx context.Context, op func() error) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 100 * time.Millisecond
	return backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(bo, maxRetries), ctx))
}

// Permanent marks err as non-retryable. Use it for auth failures,
// validation failures, and "not found" translations that repeating
// cannot fix.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return backoff.Permanent(err)
}
