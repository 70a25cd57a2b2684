// Package idempotency keeps the stock decrement side effect from running more
// than once per SubOrder when the same transition is observed repeatedly.
package idempotency

import (
	"context"
	"sync"
)

const keyPrefix = "stock-decremented:"

// Key returns the idempotency key for a SubOrder's first entry into
// out_for_delivery.
func Key(subOrderID string) string {
	return keyPrefix + subOrderID
}

// Guard is consulted before a stock decrement. MarkRun must be called before
// the decrement starts, and only the caller that gets true back may proceed;
// that closes the window between two near-simultaneous observers.
type Guard interface {
	ShouldRun(ctx context.Context, subOrderID string) (bool, error)
	MarkRun(ctx context.Context, subOrderID string) (bool, error)
}

// MemoryGuard is scoped to the current process. A second process (or a
// restart) observing the same transition is not protected by it.
type MemoryGuard struct {
	marks sync.Map
}

func NewMemoryGuard() *MemoryGuard {
	return &MemoryGuard{}
}

func (g *MemoryGuard) ShouldRun(_ context.Context, subOrderID string) (bool, error) {
	_, marked := g.marks.Load(Key(subOrderID))
	return !marked, nil
}

func (g *MemoryGuard) MarkRun(_ context.Context, subOrderID string) (bool, error) {
	_, loaded := g.marks.LoadOrStore(Key(subOrderID), struct{}{})
	return !loaded, nil
}
