package utils

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrDebounced is returned to callers superseded by a newer call
var ErrDebounced = errors.New("superseded by a newer call")

// Debouncer runs only the last of a burst of calls, after a quiet period
type Debouncer struct {
	delay time.Duration

	mu      sync.Mutex
	pending chan struct{}
}

// NewDebouncer creates a debouncer with the given quiet period
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Call waits for the quiet period and then runs fn, unless another call
// arrives first, in which case it returns ErrDebounced without running fn.
func (d *Debouncer) Call(ctx context.Context, fn func(context.Context) error) error {
	d.mu.Lock()
	if d.pending != nil {
		close(d.pending)
	}
	superseded := make(chan struct{})
	d.pending = superseded
	d.mu.Unlock()

	timer := time.NewTimer(d.delay)
	defer timer.Stop()

	select {
	case <-superseded:
		return ErrDebounced
	case <-ctx.Done():
		d.release(superseded)
		return ctx.Err()
	case <-timer.C:
	}

	d.mu.Lock()
	select {
	case <-superseded:
		d.mu.Unlock()
		return ErrDebounced
	default:
	}
	d.pending = nil
	d.mu.Unlock()

	return fn(ctx)
}

func (d *Debouncer) release(ch chan struct{}) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pending == ch {
		d.pending = nil
	}
}
