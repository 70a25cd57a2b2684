package service

import (
	"context"
	"math/rand"
	"time"

	"supplierhub/internal/domain"
	"supplierhub/internal/dto"
	apperrors "supplierhub/internal/errors"
	"supplierhub/internal/infrastructure/mysql"

	"go.uber.org/zap"
)

type StockRepository interface {
	DecrementStock(ctx context.Context, productID string, quantity int) (*domain.Product, error)
}

type StockService struct {
	repo             StockRepository
	logger           *zap.Logger
	txTimeout        time.Duration
	maxRetryAttempts int
	isRetryable      func(error) bool
	sleep            func(time.Duration)
}

func NewStockService(
	repo StockRepository,
	logger *zap.Logger,
	txTimeout time.Duration,
	maxRetryAttempts int,
) *StockService {
	if maxRetryAttempts <= 0 {
		maxRetryAttempts = 1
	}
	return &StockService{
		repo:             repo,
		logger:           logger,
		txTimeout:        txTimeout,
		maxRetryAttempts: maxRetryAttempts,
		isRetryable:      mysql.IsDeadlock,
		sleep:            time.Sleep,
	}
}

// DecrementMany reduces stock for every item independently. A failing item is
// recorded in the result and never stops the remaining items.
func (s *StockService) DecrementMany(ctx context.Context, items []dto.StockDecrement) *dto.StockDecrementResult {
	result := &dto.StockDecrementResult{
		Errors:  []dto.StockItemError{},
		Updated: []dto.StockLevel{},
	}

	for _, item := range items {
		if item.Quantity <= 0 {
			s.logger.Warn("skipping stock decrement with invalid quantity", zap.String("productId", item.ProductID), zap.Int("quantity", item.Quantity))
			result.Errors = append(result.Errors, dto.StockItemError{ProductID: item.ProductID, Reason: dto.ReasonInvalidQuantity})
			continue
		}

		product, err := s.decrementWithRetry(ctx, item)
		if err != nil {
			reason := failureReason(err)
			s.logger.Warn("stock decrement failed", zap.String("productId", item.ProductID), zap.Int("quantity", item.Quantity), zap.String("reason", string(reason)), zap.Error(err))
			result.Errors = append(result.Errors, dto.StockItemError{ProductID: item.ProductID, Reason: reason})
			continue
		}

		s.logger.Info("stock decremented", zap.String("productId", product.ID), zap.Int("quantity", item.Quantity), zap.Int("stockQuantity", product.StockQuantity), zap.Bool("isAvailable", product.IsAvailable))
		result.Updated = append(result.Updated, dto.StockLevel{
			ProductID:     product.ID,
			SupplierID:    product.SupplierID,
			Name:          product.Name,
			StockQuantity: product.StockQuantity,
			IsAvailable:   product.IsAvailable,
		})
	}

	result.Success = len(result.Errors) == 0
	return result
}

func (s *StockService) decrementWithRetry(ctx context.Context, item dto.StockDecrement) (*domain.Product, error) {
	// Backoff intervals: attempt 1 (0ms), attempt 2 (100ms), attempt 3 (200ms), etc.
	backoffs := []time.Duration{0, 100 * time.Millisecond, 200 * time.Millisecond}

	for attempt := 1; attempt <= s.maxRetryAttempts; attempt++ {
		product, err := s.decrementOnce(ctx, item)
		if err == nil {
			return product, nil
		}

		if !s.isRetryable(err) {
			return nil, err
		}

		if attempt < s.maxRetryAttempts {
			base := backoffs[min(attempt, len(backoffs)-1)]
			// ±20% jitter
			jitter := time.Duration(float64(base) * (rand.Float64()*0.4 - 0.2))
			s.logger.Warn("deadlock detected, retrying stock decrement", zap.Int("attempt", attempt), zap.Int("maxAttempts", s.maxRetryAttempts), zap.String("productId", item.ProductID))
			s.sleep(base + jitter)
		}
	}

	return nil, apperrors.NewDeadlockError("max retries exceeded")
}

func (s *StockService) decrementOnce(ctx context.Context, item dto.StockDecrement) (*domain.Product, error) {
	if s.txTimeout <= 0 {
		return s.repo.DecrementStock(ctx, item.ProductID, item.Quantity)
	}
	txCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()
	return s.repo.DecrementStock(txCtx, item.ProductID, item.Quantity)
}

func failureReason(err error) dto.FailureReason {
	if _, ok := apperrors.IsNotFoundError(err); ok {
		return dto.ReasonNotFound
	}
	if _, ok := apperrors.IsDeadlockError(err); ok {
		return dto.ReasonDeadlock
	}
	return dto.ReasonPersistenceError
}
