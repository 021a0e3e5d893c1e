package resilience

import (
	"sync"
	"time"

	"rag-chat-be/internal/pkg/apperrors"
)

// CircuitBreaker tracks consecutive failures for one external dependency.
// Once the threshold is reached every call fails fast with ErrBreakerOpen
// for the cooldown duration, without invoking the underlying operation.
// Any success resets the counter. Safe for concurrent use; the counter and
// open-until timestamp are guarded by a mutex so simultaneous failures from
// parallel requests are not lost.
type CircuitBreaker struct {
	mu               sync.Mutex
	failureThreshold int
	cooldown         time.Duration
	failureCount     int
	openUntil        time.Time

	now func() time.Time // overridable in tests
}

func NewCircuitBreaker(failureThreshold int, cooldown time.Duration) *CircuitBreaker {
	if failureThreshold <= 0 {
		failureThreshold = 5
	}
	return &CircuitBreaker{
		failureThreshold: failureThreshold,
		cooldown:         cooldown,
		now:              time.Now,
	}
}

// IsOpen reports whether calls are currently rejected.
func (b *CircuitBreaker) IsOpen() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.now().Before(b.openUntil)
}

func (b *CircuitBreaker) allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.now().Before(b.openUntil) {
		return apperrors.ErrBreakerOpen
	}
	return nil
}

func (b *CircuitBreaker) record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err == nil {
		b.failureCount = 0
		return
	}

	b.failureCount++
	if b.failureCount >= b.failureThreshold {
		b.openUntil = b.now().Add(b.cooldown)
		b.failureCount = 0
	}
}

// Execute guards op with the breaker. Rejected calls return ErrBreakerOpen
// without touching op. Composable with Retry: the typical shape is a Retry
// whose inner operation runs through the dependency's shared breaker.
func Execute[T any](b *CircuitBreaker, op func() (T, error)) (T, error) {
	var zero T
	if err := b.allow(); err != nil {
		return zero, err
	}
	result, err := op()
	b.record(err)
	if err != nil {
		return zero, err
	}
	return result, nil
}
