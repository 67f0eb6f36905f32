// Package schedule runs periodic tasks bound to a context.
package schedule

import (
	"context"
	"time"
)

// Every calls fn once every interval until ctx is done. fn is not called
// immediately. Runs never overlap: a slow fn delays the next tick.
// It returns ctx.Err() when the context ends.
func Every(ctx context.Context, interval time.Duration, fn func(ctx context.Context)) error {
	if interval <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if ctx.Err() != nil {
				return ctx.Err()
			}
			fn(ctx)
		}
	}
}

// Trigger is a coalescing wake-up signal. Multiple Fire calls before the
// consumer reads collapse into one.
type Trigger struct {
	ch chan struct{}
}

// NewTrigger creates a Trigger.
func NewTrigger() *Trigger {
	return &Trigger{ch: make(chan struct{}, 1)}
}

// Fire signals the trigger without blocking.
func (t *Trigger) Fire() {
	select {
	case t.ch <- struct{}{}:
	default:
	}
}

// C returns the channel that receives the signals.
func (t *Trigger) C() <-chan struct{} {
	return t.ch
}

// OnTrigger calls fn for every signal of t until ctx is done.
func OnTrigger(ctx context.Context, t *Trigger, fn func(ctx context.Context)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C():
			fn(ctx)
		}
	}
}
