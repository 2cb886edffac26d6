package chatbot

import (
	"context"
	"time"
)

// RetryPolicy bounds the attempts made against the AI endpoint.
type RetryPolicy struct {
	// MaxAttempts counts the initial attempt.
	MaxAttempts int

	// Delays[i] is waited after failed attempt i+1. The last entry repeats
	// if there are more retries than delays.
	Delays []time.Duration
}

// DefaultRetryPolicy is one attempt plus three retries spaced 1s, 2s, 4s.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 4,
		Delays:      []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second},
	}
}

func (p RetryPolicy) delayAfter(attempt int) time.Duration {
	if len(p.Delays) == 0 {
		return 0
	}
	i := attempt - 1
	if i >= len(p.Delays) {
		i = len(p.Delays) - 1
	}
	return p.Delays[i]
}

// Sleeper waits between attempts. Sleep returns early with ctx.Err() when
// the context ends.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

type timerSleeper struct{}

func (timerSleeper) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

type retryState int

const (
	stateAttempting retryState = iota
	stateBackoff
	stateSucceeded
	stateExhausted
)

func (s retryState) String() string {
	switch s {
	case stateAttempting:
		return "attempting"
	case stateBackoff:
		return "backoff"
	case stateSucceeded:
		return "succeeded"
	case stateExhausted:
		return "exhausted"
	}
	return "unknown"
}
