package model

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// withRetry calls fn up to maxRetries+1 times with exponential backoff
// (base * 2^attempt). It stops early on non-retryable errors or when ctx is done.
func withRetry(ctx context.Context, maxRetries int, base time.Duration, logger *slog.Logger, fn func(context.Context) (string, error)) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		out, err := fn(ctx)
		if err == nil {
			return out, nil
		}
		lastErr = err

		if ctx.Err() != nil || attempt == maxRetries {
			break
		}

		var reqErr *RequestError
		if errors.As(err, &reqErr) && !reqErr.retryable() {
			break
		}

		wait := base * (1 << uint(attempt))
		logger.WarnContext(ctx, "retrying completion request",
			"attempt", attempt+1,
			"max_retries", maxRetries,
			"backoff_ms", wait.Milliseconds(),
			"error", err)

		select {
		case <-ctx.Done():
			return "", lastErr
		case <-time.After(wait):
		}
	}
	return "", lastErr
}
