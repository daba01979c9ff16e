package core

// limiter.go bounds how many decode requests run at once.
//
// Decoding materializes every record in memory, so the transport layer
// acquires a slot per request. When all slots are busy a request waits up to
// maxWait before failing with ErrTooManyDecodes.

import (
	"context"
	"errors"
	"sync/atomic"
	"time"
)

// ErrTooManyDecodes is returned when all slots stay occupied past the wait timeout.
var ErrTooManyDecodes = errors.New("too many concurrent decodes, please try again later")

// DefaultMaxConcurrentDecodes is the default limit for parallel decodes.
const DefaultMaxConcurrentDecodes = 8

// DefaultMaxWaitTime is how long to wait for a slot before rejecting.
const DefaultMaxWaitTime = 5 * time.Second

// DecodeLimiter is a counting semaphore with a bounded wait.
type DecodeLimiter struct {
	slots   chan struct{}
	maxWait time.Duration
	active  atomic.Int64
}

// NewDecodeLimiter allows at most maxConcurrent simultaneous decodes.
func NewDecodeLimiter(maxConcurrent int, maxWait time.Duration) *DecodeLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentDecodes
	}
	if maxWait <= 0 {
		maxWait = DefaultMaxWaitTime
	}
	return &DecodeLimiter{
		slots:   make(chan struct{}, maxConcurrent),
		maxWait: maxWait,
	}
}

// Acquire waits for a slot. The caller must Release on success.
func (l *DecodeLimiter) Acquire(ctx context.Context) error {
	timer := time.NewTimer(l.maxWait)
	defer timer.Stop()

	select {
	case l.slots <- struct{}{}:
		l.active.Add(1)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return ErrTooManyDecodes
	}
}

// Release frees a slot taken by Acquire.
func (l *DecodeLimiter) Release() {
	l.active.Add(-1)
	<-l.slots
}

// ActiveCount returns the number of decodes holding a slot.
func (l *DecodeLimiter) ActiveCount() int {
	return int(l.active.Load())
}

// WaitForDrain blocks until no decode holds a slot or ctx ends.
func (l *DecodeLimiter) WaitForDrain(ctx context.Context) error {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for l.ActiveCount() > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}

// DecodeLimiterStatus is a snapshot of limiter state.
type DecodeLimiterStatus struct {
	Active        int `json:"active"`
	Available     int `json:"available"`
	MaxConcurrent int `json:"max_concurrent"`
}

// Status returns the current limiter state for monitoring.
func (l *DecodeLimiter) Status() DecodeLimiterStatus {
	return DecodeLimiterStatus{
		Active:        l.ActiveCount(),
		Available:     cap(l.slots) - len(l.slots),
		MaxConcurrent: cap(l.slots),
	}
}
