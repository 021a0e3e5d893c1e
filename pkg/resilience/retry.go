package resilience

import (
	"context"
	"errors"
	"net"
	"strings"
	"syscall"
	"time"

	"rag-chat-be/internal/pkg/apperrors"
)

// RetryConfig bounds one retry loop.
type RetryConfig struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
}

func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:  3,
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     10 * time.Second,
	}
}

// IsRetryable classifies an error. Breaker-open errors and 4xx statuses
// other than 429 fail immediately; network resets, timeouts, DNS failures
// and 429/502/503/504 are transient. Unclassified errors default to
// retryable.
func IsRetryable(err error) bool {
	if errors.Is(err, apperrors.ErrBreakerOpen) {
		return false
	}

	var esErr *apperrors.ExternalServiceError
	if errors.As(err, &esErr) && esErr.StatusHint > 0 {
		switch esErr.StatusHint {
		case 429, 502, 503, 504:
			return true
		}
		if esErr.StatusHint >= 400 && esErr.StatusHint < 500 {
			return false
		}
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	if errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ETIMEDOUT) ||
		errors.Is(err, syscall.ENETUNREACH) {
		return true
	}
	if strings.Contains(err.Error(), "timeout") {
		return true
	}

	return true
}

// Retry runs op with exponential backoff: min(MaxDelay, InitialDelay * 2^n)
// between attempts. Non-retryable errors surface on the first failure; the
// last error surfaces once attempts are exhausted.
func Retry[T any](ctx context.Context, cfg RetryConfig, op func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		result, err := op()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !IsRetryable(err) {
			return zero, err
		}
		if attempt == cfg.MaxAttempts-1 {
			break
		}

		delay := cfg.InitialDelay << uint(attempt)
		if cfg.MaxDelay > 0 && delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return zero, ctx.Err()
		}
	}

	return zero, lastErr
}
