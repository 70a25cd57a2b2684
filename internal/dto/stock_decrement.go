package dto

import apperrors "supplierhub/internal/errors"

type FailureReason string

const (
	ReasonNotFound         FailureReason = "NOT_FOUND"
	ReasonInvalidQuantity  FailureReason = "INVALID_QUANTITY"
	ReasonPersistenceError FailureReason = "PERSISTENCE_ERROR"
	ReasonDeadlock         FailureReason = "DEADLOCK"
)

type StockDecrement struct {
	ProductID string
	Quantity  int
}

type StockLevel struct {
	ProductID     string
	SupplierID    string
	Name          string
	StockQuantity int
	IsAvailable   bool
}

type StockItemError struct {
	ProductID string
	Reason    FailureReason
}

type StockDecrementResult struct {
	Success bool
	Errors  []StockItemError
	Updated []StockLevel
}

// Err returns a PartialStockFailure describing the failed items, or nil when
// every item was decremented.
func (r *StockDecrementResult) Err() error {
	if r == nil || len(r.Errors) == 0 {
		return nil
	}
	failures := make([]apperrors.StockItemFailure, len(r.Errors))
	for i, e := range r.Errors {
		failures[i] = apperrors.StockItemFailure{ProductID: e.ProductID, Reason: string(e.Reason)}
	}
	return apperrors.NewPartialStockFailure(failures...)
}
