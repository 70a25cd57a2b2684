package service

import (
	"context"
	"time"

	"supplierhub/internal/domain"
	apperrors "supplierhub/internal/errors"

	"go.uber.org/zap"
)

type SubOrderLister interface {
	FindByMasterOrderID(ctx context.Context, masterOrderID string) ([]domain.SubOrder, error)
}

type MasterOrderRepository interface {
	FindByID(ctx context.Context, id string) (*domain.MasterOrder, error)
	UpdateAggregate(ctx context.Context, id string, agg domain.MasterOrderAggregate) error
}

type SyncResult struct {
	MasterOrderID string
	Status        domain.OrderStatus
	PaymentStatus domain.PaymentStatus
	Updated       bool
}

type Synchronizer struct {
	subOrders    SubOrderLister
	masterOrders MasterOrderRepository
	logger       *zap.Logger
	now          func() time.Time
}

func NewSynchronizer(subOrders SubOrderLister, masterOrders MasterOrderRepository, logger *zap.Logger) *Synchronizer {
	return &Synchronizer{
		subOrders:    subOrders,
		masterOrders: masterOrders,
		logger:       logger,
		now:          time.Now,
	}
}

// Sync recomputes the master order aggregate from its sub orders. It writes
// nothing when there are no sub orders or the stored values already match.
func (s *Synchronizer) Sync(ctx context.Context, masterOrderID string) (*SyncResult, error) {
	subs, err := s.subOrders.FindByMasterOrderID(ctx, masterOrderID)
	if err != nil {
		s.logger.Error("failed to list sub orders", zap.String("masterOrderId", masterOrderID), zap.Error(err))
		return nil, apperrors.NewPersistenceError("listing sub orders", err)
	}

	if len(subs) == 0 {
		s.logger.Debug("no sub orders, nothing to sync", zap.String("masterOrderId", masterOrderID))
		return &SyncResult{MasterOrderID: masterOrderID}, nil
	}

	master, err := s.masterOrders.FindByID(ctx, masterOrderID)
	if err != nil {
		if _, ok := apperrors.IsNotFoundError(err); ok {
			return nil, err
		}
		s.logger.Error("failed to read master order", zap.String("masterOrderId", masterOrderID), zap.Error(err))
		return nil, apperrors.NewPersistenceError("reading master order", err)
	}

	result := &SyncResult{
		MasterOrderID: masterOrderID,
		Status:        master.Status,
		PaymentStatus: master.PaymentStatus,
	}

	agg, changed := Converge(*master, subs, s.now().UTC())
	if !changed {
		s.logger.Debug("master order already converged", zap.String("masterOrderId", masterOrderID), zap.Int("subOrders", len(subs)))
		return result, nil
	}

	if err := s.masterOrders.UpdateAggregate(ctx, masterOrderID, agg); err != nil {
		if _, ok := apperrors.IsNotFoundError(err); ok {
			return nil, err
		}
		s.logger.Error("failed to update master order", zap.String("masterOrderId", masterOrderID), zap.Error(err))
		return nil, apperrors.NewPersistenceError("updating master order", err)
	}

	if agg.Status != nil {
		result.Status = *agg.Status
	}
	if agg.PaymentStatus != nil {
		result.PaymentStatus = *agg.PaymentStatus
	}
	result.Updated = true

	s.logger.Info("master order synchronized",
		zap.String("masterOrderId", masterOrderID),
		zap.String("status", string(result.Status)),
		zap.String("paymentStatus", string(result.PaymentStatus)),
	)

	return result, nil
}

// Converge applies the unanimity rule. A field is only written when every sub
// order agrees on it and the stored value differs. The bool reports whether
// anything needs to be written.
func Converge(current domain.MasterOrder, subs []domain.SubOrder, now time.Time) (domain.MasterOrderAggregate, bool) {
	agg := domain.MasterOrderAggregate{UpdatedAt: now}
	if len(subs) == 0 {
		return agg, false
	}

	if status, ok := commonStatus(subs); ok {
		if status != current.Status {
			agg.Status = &status
		}
		if status == domain.OrderStatusConfirmed && (status != current.Status || current.ConfirmedAt == nil) {
			agg.ConfirmedAt = &now
		}
		if status == domain.OrderStatusDelivered && (status != current.Status || current.DeliveredAt == nil) {
			agg.DeliveredAt = &now
		}
	}

	if payment, ok := commonPaymentStatus(subs); ok && payment != current.PaymentStatus {
		agg.PaymentStatus = &payment
	}

	return agg, !agg.IsEmpty()
}

func commonStatus(subs []domain.SubOrder) (domain.OrderStatus, bool) {
	first := subs[0].Status
	for _, s := range subs[1:] {
		if s.Status != first {
			return "", false
		}
	}
	return first, true
}

func commonPaymentStatus(subs []domain.SubOrder) (domain.PaymentStatus, bool) {
	first := subs[0].PaymentStatus
	for _, s := range subs[1:] {
		if s.PaymentStatus != first {
			return "", false
		}
	}
	return first, true
}
