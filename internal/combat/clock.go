package combat

import (
	"context"
	"time"
)

// Clock abstracts the pacing delay of the automated responder turn so tests
// can run it without real-time waits.
type Clock interface {
	// Sleep blocks for d or until ctx is cancelled, returning ctx.Err() in
	// the cancelled case.
	Sleep(ctx context.Context, d time.Duration) error
}

type realClock struct{}

// NewRealClock returns a Clock backed by the wall clock.
func NewRealClock() Clock {
	return realClock{}
}

func (realClock) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type instantClock struct{}

// NewInstantClock returns a Clock whose sleeps return immediately. Used by
// tests that drive the automated responder turn synchronously.
func NewInstantClock() Clock {
	return instantClock{}
}

func (instantClock) Sleep(ctx context.Context, _ time.Duration) error {
	return ctx.Err()
}
