package errors

import (
	"errors"
	"fmt"
	"strings"
)

type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{Message: message}
}

func IsNotFoundError(err error) (*NotFoundError, bool) {
	var nf *NotFoundError
	if errors.As(err, &nf) {
		return nf, true
	}
	return nil, false
}

type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationError struct {
	Message string
	Details []ValidationDetail
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(message string, details ...ValidationDetail) *ValidationError {
	return &ValidationError{
		Message: message,
		Details: details,
	}
}

func IsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

type DeadlockError struct {
	Message string
}

func (e *DeadlockError) Error() string {
	return e.Message
}

func NewDeadlockError(message string) *DeadlockError {
	return &DeadlockError{Message: message}
}

func IsDeadlockError(err error) (*DeadlockError, bool) {
	var de *DeadlockError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// PersistenceError is returned when a store read or write fails. Callers
// surface it as-is; nothing retries it automatically.
type PersistenceError struct {
	Message string
	Cause   error
}

func (e *PersistenceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *PersistenceError) Unwrap() error {
	return e.Cause
}

func NewPersistenceError(message string, cause error) *PersistenceError {
	return &PersistenceError{
		Message: message,
		Cause:   cause,
	}
}

func IsPersistenceError(err error) (*PersistenceError, bool) {
	var pe *PersistenceError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

type StockItemFailure struct {
	ProductID string
	Reason    string
}

// PartialStockFailure collects the line items that could not be decremented.
// It is informational and never aborts the transition that triggered it.
type PartialStockFailure struct {
	Failures []StockItemFailure
}

func (e *PartialStockFailure) Error() string {
	ids := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		ids[i] = f.ProductID + " (" + f.Reason + ")"
	}
	return fmt.Sprintf("stock decrement failed for %d item(s): %s", len(e.Failures), strings.Join(ids, ", "))
}

func NewPartialStockFailure(failures ...StockItemFailure) *PartialStockFailure {
	return &PartialStockFailure{Failures: failures}
}

func IsPartialStockFailure(err error) (*PartialStockFailure, bool) {
	var ps *PartialStockFailure
	if errors.As(err, &ps) {
		return ps, true
	}
	return nil, false
}

type PreferenceLookupFailure struct {
	SupplierID string
	Cause      error
}

func (e *PreferenceLookupFailure) Error() string {
	return fmt.Sprintf("notification preference lookup failed for supplier %s: %v", e.SupplierID, e.Cause)
}

func (e *PreferenceLookupFailure) Unwrap() error {
	return e.Cause
}

func NewPreferenceLookupFailure(supplierID string, cause error) *PreferenceLookupFailure {
	return &PreferenceLookupFailure{
		SupplierID: supplierID,
		Cause:      cause,
	}
}

func IsPreferenceLookupFailure(err error) (*PreferenceLookupFailure, bool) {
	var pf *PreferenceLookupFailure
	if errors.As(err, &pf) {
		return pf, true
	}
	return nil, false
}

type InternalError struct {
	Message string
	Cause   error
}

func (e *InternalError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *InternalError) Unwrap() error {
	return e.Cause
}

func NewInternalError(message string, cause error) *InternalError {
	return &InternalError{
		Message: message,
		Cause:   cause,
	}
}
