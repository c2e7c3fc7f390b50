package core

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	"github.com/go-git/go-git/v5/plumbing/transport"
)

// BackoffFunc returns how long to wait before retry number attempt (0-based).
type BackoffFunc func(attempt int) time.Duration

// ExponentialBackoff waits 1s, 2s, 4s... capped at 30s.
func ExponentialBackoff(attempt int) time.Duration {
	return min(time.Duration(1<<attempt)*time.Second, 30*time.Second)
}

// withNetworkRetry runs op up to attempts times while it fails with a
// transient network error. It returns the number of retries performed.
func withNetworkRetry(ctx context.Context, operation string, attempts int, backoff BackoffFunc, op func() error) (int, error) {
	if attempts < 1 {
		attempts = 1
	}

	if backoff == nil {
		backoff = ExponentialBackoff
	}

	var (
		lastErr error
		retries int
	)

	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			retries++

			timer := time.NewTimer(backoff(attempt - 1))
			select {
			case <-ctx.Done():
				timer.Stop()
				return retries, ctx.Err()
			case <-timer.C:
			}
		}

		err := op()
		if err == nil {
			return retries, nil
		}

		// Non-retryable error
		if !IsNetworkError(err) {
			return retries, err
		}

		lastErr = err
	}

	if attempts == 1 {
		return retries, lastErr
	}

	return retries, &NetworkError{
		Operation: operation,
		Err:       lastErr,
		Attempts:  attempts,
	}
}

// IsNetworkError checks if an error is a transient network error
func IsNetworkError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	if errors.Is(err, transport.ErrRepositoryNotFound) ||
		errors.Is(err, transport.ErrAuthenticationRequired) ||
		errors.Is(err, transport.ErrAuthorizationFailed) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	errStr := strings.ToLower(err.Error())
	networkIndicators := []string{
		"connection refused",
		"connection reset",
		"timeout",
		"temporary failure",
		"network is unreachable",
		"no such host",
		"i/o timeout",
		"tls handshake timeout",
		"unexpected eof",
	}

	for _, indicator := range networkIndicators {
		if strings.Contains(errStr, indicator) {
			return true
		}
	}

	return false
}
