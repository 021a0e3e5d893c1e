package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"rag-chat-be/internal/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
		MaxDelay:     10 * time.Millisecond,
	}
}

func TestRetrySucceedsFirstAttempt(t *testing.T) {
	calls := 0
	result, err := Retry(context.Background(), fastRetryConfig(), func() (string, error) {
		calls++
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, 1, calls)
}

func TestRetryRecoversFromTransientFailures(t *testing.T) {
	calls := 0
	result, err := Retry(context.Background(), fastRetryConfig(), func() (string, error) {
		calls++
		if calls < 3 {
			return "", apperrors.NewExternalServiceError("rate limited", 429, nil)
		}
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, 3, calls)
}

func TestRetryStopsOnNonRetryableError(t *testing.T) {
	calls := 0
	_, err := Retry(context.Background(), fastRetryConfig(), func() (string, error) {
		calls++
		return "", apperrors.NewExternalServiceError("bad request", 400, nil)
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls, "a 4xx other than 429 must not be retried")
}

func TestRetryStopsOnBreakerOpen(t *testing.T) {
	calls := 0
	_, err := Retry(context.Background(), fastRetryConfig(), func() (string, error) {
		calls++
		return "", apperrors.ErrBreakerOpen
	})
	require.ErrorIs(t, err, apperrors.ErrBreakerOpen)
	assert.Equal(t, 1, calls)
}

func TestRetryExhaustsAttempts(t *testing.T) {
	calls := 0
	serviceErr := apperrors.NewExternalServiceError("unavailable", 503, nil)
	_, err := Retry(context.Background(), fastRetryConfig(), func() (string, error) {
		calls++
		return "", serviceErr
	})
	require.Error(t, err)
	assert.Equal(t, 3, calls)

	var esErr *apperrors.ExternalServiceError
	require.ErrorAs(t, err, &esErr)
	assert.Equal(t, 503, esErr.StatusHint)
}

func TestRetryHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	_, err := Retry(ctx, RetryConfig{MaxAttempts: 5, InitialDelay: time.Minute, MaxDelay: time.Minute}, func() (string, error) {
		calls++
		cancel()
		return "", apperrors.NewExternalServiceError("unavailable", 503, nil)
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls, "cancellation during backoff must stop the loop")
}

func TestRetryAroundBreakerCountsEveryAttempt(t *testing.T) {
	b := NewCircuitBreaker(2, time.Minute)

	calls := 0
	_, err := Retry(context.Background(), RetryConfig{MaxAttempts: 5, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond}, func() (string, error) {
		return Execute(b, func() (string, error) {
			calls++
			return "", apperrors.NewExternalServiceError("unavailable", 503, nil)
		})
	})

	// Each retry attempt counts as one breaker failure, so the breaker
	// opens mid-loop and the open error ends the loop without burning
	// the remaining attempts.
	require.ErrorIs(t, err, apperrors.ErrBreakerOpen)
	assert.Equal(t, 2, calls)
	assert.True(t, b.IsOpen())
}

func TestIsRetryableClassification(t *testing.T) {
	cases := []struct {
		name      string
		err       error
		retryable bool
	}{
		{"breaker open", apperrors.ErrBreakerOpen, false},
		{"429", apperrors.NewExternalServiceError("x", 429, nil), true},
		{"502", apperrors.NewExternalServiceError("x", 502, nil), true},
		{"503", apperrors.NewExternalServiceError("x", 503, nil), true},
		{"504", apperrors.NewExternalServiceError("x", 504, nil), true},
		{"400", apperrors.NewExternalServiceError("x", 400, nil), false},
		{"404", apperrors.NewExternalServiceError("x", 404, nil), false},
		{"500", apperrors.NewExternalServiceError("x", 500, nil), true},
		{"timeout message", errors.New("client timeout exceeded"), true},
		{"unclassified", errors.New("something odd"), true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.retryable, IsRetryable(tc.err))
		})
	}
}
