package cloudwatch

import (
	"context"
	"fmt"
	"time"
)

const (
	maxRetries     = 3
	initialBackoff = 100 * time.Millisecond
	flushTimeout   = 30 * time.Second
)

// withRetry runs op up to maxRetries times with exponential backoff.
// op returns wait=false to retry immediately without backoff.
func withRetry(ctx context.Context, backoff time.Duration, op func() (wait bool, err error)) error {
	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		wait, err := op()
		if err == nil {
			return nil
		}
		lastErr = err
		if !wait {
			continue
		}

		if attempt < maxRetries-1 {
			select {
			case <-time.After(backoff):
				backoff *= 2
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	return fmt.Errorf("failed after %d retries: %w", maxRetries, lastErr)
}
