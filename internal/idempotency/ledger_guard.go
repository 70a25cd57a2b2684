package idempotency

import (
	"context"
	"time"
)

// Ledger is the durable record kept on the SubOrder itself
// (SubOrders.stockDecrementedAt).
type Ledger interface {
	IsStockDecremented(ctx context.Context, subOrderID string) (bool, error)
	MarkStockDecremented(ctx context.Context, subOrderID string, at time.Time) (bool, error)
}

// LedgerGuard survives restarts and is shared by every process that talks to
// the same store, unlike MemoryGuard.
type LedgerGuard struct {
	ledger Ledger
	now    func() time.Time
}

func NewLedgerGuard(ledger Ledger) *LedgerGuard {
	return &LedgerGuard{ledger: ledger, now: time.Now}
}

func (g *LedgerGuard) ShouldRun(ctx context.Context, subOrderID string) (bool, error) {
	done, err := g.ledger.IsStockDecremented(ctx, subOrderID)
	if err != nil {
		return false, err
	}
	return !done, nil
}

func (g *LedgerGuard) MarkRun(ctx context.Context, subOrderID string) (bool, error) {
	return g.ledger.MarkStockDecremented(ctx, subOrderID, g.now().UTC())
}
