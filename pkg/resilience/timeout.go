// Package resilience provides a caller-side timeout wrapper. The engine
// itself performs no I/O and exposes no cancellation; callers that cannot
// afford a long fuzzy scan bound it here.
package resilience

import (
	"context"
	"fmt"
	"time"
)

// WithTimeout runs fn and abandons it once the timeout elapses, returning a
// wrapped context error. A non-positive timeout runs fn directly. The
// abandoned goroutine finishes its scan in the background; the engine only
// ever reads under its own lock, so this is safe.
func WithTimeout(ctx context.Context, timeout time.Duration, name string, fn func(ctx context.Context) error) error {
	if timeout <= 0 {
		return fn(ctx)
	}
	bounded, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- fn(bounded) }()

	select {
	case err := <-done:
		return err
	case <-bounded.Done():
		return fmt.Errorf("%s: %w after %v", name, bounded.Err(), timeout)
	}
}
