package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"supplierhub/internal/domain"
	"supplierhub/internal/dto"
	apperrors "supplierhub/internal/errors"
	"supplierhub/internal/idempotency"
	"supplierhub/internal/notification"
	"supplierhub/internal/order/events"
	"supplierhub/internal/order/service"
)

type SubOrderRepository interface {
	FindByID(ctx context.Context, id string) (*domain.SubOrder, error)
	UpdateStatus(ctx context.Context, id string, update domain.SubOrderUpdate) error
}

type StockDecrementer interface {
	DecrementMany(ctx context.Context, items []dto.StockDecrement) *dto.StockDecrementResult
}

type NotificationDispatcher interface {
	Dispatch(ctx context.Context, supplierID string, e notification.Event) (notification.DispatchResult, error)
}

type MasterOrderSyncer interface {
	Sync(ctx context.Context, masterOrderID string) (*service.SyncResult, error)
}

type TransitionPublisher interface {
	PublishTransition(ctx context.Context, payload events.TransitionedPayload) error
}

type TransitionResult struct {
	SubOrder              domain.SubOrder
	PreviousStatus        domain.OrderStatus
	PreviousPaymentStatus domain.PaymentStatus
	StatusChanged         bool
	PaymentStatusChanged  bool
	Stock                 *dto.StockDecrementResult
	NotificationIDs       []string
	MasterSynced          bool
}

type TransitionUseCase struct {
	subOrders         SubOrderRepository
	guard             idempotency.Guard
	stock             StockDecrementer
	dispatcher        NotificationDispatcher
	syncer            MasterOrderSyncer
	publisher         TransitionPublisher
	logger            *zap.Logger
	lowStockThreshold int
	now               func() time.Time
}

func NewTransitionUseCase(
	subOrders SubOrderRepository,
	guard idempotency.Guard,
	stock StockDecrementer,
	dispatcher NotificationDispatcher,
	syncer MasterOrderSyncer,
	publisher TransitionPublisher,
	logger *zap.Logger,
	lowStockThreshold int,
) *TransitionUseCase {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &TransitionUseCase{
		subOrders:         subOrders,
		guard:             guard,
		stock:             stock,
		dispatcher:        dispatcher,
		syncer:            syncer,
		publisher:         publisher,
		logger:            logger,
		lowStockThreshold: lowStockThreshold,
		now:               time.Now,
	}
}

// Transition moves a sub order to newStatus and, when given, newPaymentStatus.
// Only a failed read or status write is returned; stock, notification, event
// and sync failures are logged and reflected in the result.
func (uc *TransitionUseCase) Transition(
	ctx context.Context,
	subOrderID string,
	newStatus domain.OrderStatus,
	newPaymentStatus *domain.PaymentStatus,
) (*TransitionResult, error) {
	uc.logger.Info("transition started", zap.String("subOrderId", subOrderID), zap.String("status", string(newStatus)))

	sub, err := uc.findSubOrder(ctx, subOrderID)
	if err != nil {
		return nil, err
	}

	if err := validateTransition(sub.Status, newStatus, newPaymentStatus); err != nil {
		return nil, err
	}

	result := &TransitionResult{
		PreviousStatus:        sub.Status,
		PreviousPaymentStatus: sub.PaymentStatus,
		StatusChanged:         sub.Status != newStatus,
		PaymentStatusChanged:  newPaymentStatus != nil && *newPaymentStatus != sub.PaymentStatus,
		NotificationIDs:       []string{},
	}

	if newStatus == domain.OrderStatusOutForDelivery && sub.Status != domain.OrderStatusOutForDelivery {
		stock, err := uc.decrementOnce(ctx, sub)
		if err != nil {
			uc.logger.Warn("stock decrement skipped, guard unavailable", zap.String("subOrderId", sub.ID), zap.Error(err))
		}
		result.Stock = stock
		result.NotificationIDs = append(result.NotificationIDs, uc.notifyStockLevels(ctx, sub, stock)...)
	}

	now := uc.now().UTC()
	update := domain.SubOrderUpdate{
		Status:        newStatus,
		PaymentStatus: newPaymentStatus,
		UpdatedAt:     now,
	}
	if result.StatusChanged && newStatus == domain.OrderStatusConfirmed {
		update.ConfirmedAt = &now
	}
	if result.StatusChanged && newStatus == domain.OrderStatusDelivered {
		update.DeliveredAt = &now
	}

	if err := uc.subOrders.UpdateStatus(ctx, sub.ID, update); err != nil {
		uc.logger.Error("failed to persist transition", zap.String("subOrderId", sub.ID), zap.Error(err))
		if _, ok := apperrors.IsNotFoundError(err); ok {
			return nil, err
		}
		return nil, apperrors.NewPersistenceError("updating sub order status", err)
	}

	updated := applyUpdate(*sub, update)
	result.SubOrder = updated

	if result.StatusChanged {
		if id := uc.dispatch(ctx, updated.SupplierID, notification.OrderStatusEvent(updated, newStatus)); id != "" {
			result.NotificationIDs = append(result.NotificationIDs, id)
		}
	}
	if result.PaymentStatusChanged {
		if id := uc.dispatch(ctx, updated.SupplierID, notification.PaymentStatusEvent(updated, *newPaymentStatus)); id != "" {
			result.NotificationIDs = append(result.NotificationIDs, id)
		}
	}

	uc.publish(ctx, updated, result)

	if _, err := uc.syncer.Sync(ctx, updated.MasterOrderID); err != nil {
		uc.logger.Warn("master order sync failed", zap.String("masterOrderId", updated.MasterOrderID), zap.Error(err))
	} else {
		result.MasterSynced = true
	}

	uc.logger.Info("transition completed",
		zap.String("subOrderId", updated.ID),
		zap.String("previousStatus", string(result.PreviousStatus)),
		zap.String("status", string(updated.Status)),
		zap.String("paymentStatus", string(updated.PaymentStatus)),
		zap.Bool("masterSynced", result.MasterSynced),
	)

	return result, nil
}

// EnsureStockDecremented runs the guarded decrement for a sub order that
// entered out_for_delivery from previous. Only a first entry whose stored
// status is still out_for_delivery reaches the guard.
func (uc *TransitionUseCase) EnsureStockDecremented(ctx context.Context, subOrderID string, previous domain.OrderStatus) error {
	if previous == domain.OrderStatusOutForDelivery {
		return nil
	}

	sub, err := uc.findSubOrder(ctx, subOrderID)
	if err != nil {
		return err
	}
	if sub.Status != domain.OrderStatusOutForDelivery {
		uc.logger.Info("sub order no longer out for delivery, skipping stock decrement",
			zap.String("subOrderId", sub.ID), zap.String("status", string(sub.Status)))
		return nil
	}

	stock, err := uc.decrementOnce(ctx, sub)
	if err != nil {
		return err
	}
	uc.notifyStockLevels(ctx, sub, stock)
	return nil
}

func (uc *TransitionUseCase) findSubOrder(ctx context.Context, id string) (*domain.SubOrder, error) {
	sub, err := uc.subOrders.FindByID(ctx, id)
	if err != nil {
		if _, ok := apperrors.IsNotFoundError(err); ok {
			return nil, err
		}
		uc.logger.Error("failed to read sub order", zap.String("subOrderId", id), zap.Error(err))
		return nil, apperrors.NewPersistenceError("reading sub order", err)
	}
	return sub, nil
}

// decrementOnce claims the guard before touching stock. A nil result with a
// nil error means another caller already ran the decrement.
func (uc *TransitionUseCase) decrementOnce(ctx context.Context, sub *domain.SubOrder) (*dto.StockDecrementResult, error) {
	shouldRun, err := uc.guard.ShouldRun(ctx, sub.ID)
	if err != nil {
		return nil, err
	}
	if !shouldRun {
		uc.logger.Info("stock already decremented", zap.String("subOrderId", sub.ID))
		return nil, nil
	}

	won, err := uc.guard.MarkRun(ctx, sub.ID)
	if err != nil {
		return nil, err
	}
	if !won {
		uc.logger.Info("stock decrement claimed by another caller", zap.String("subOrderId", sub.ID))
		return nil, nil
	}

	items := make([]dto.StockDecrement, 0, len(sub.Items))
	for _, item := range sub.Items {
		items = append(items, dto.StockDecrement{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	result := uc.stock.DecrementMany(ctx, items)
	if err := result.Err(); err != nil {
		uc.logger.Warn("stock decrement incomplete", zap.String("subOrderId", sub.ID), zap.Error(err))
	}
	return result, nil
}

func (uc *TransitionUseCase) notifyStockLevels(ctx context.Context, sub *domain.SubOrder, stock *dto.StockDecrementResult) []string {
	if stock == nil {
		return nil
	}

	var ids []string
	for _, level := range stock.Updated {
		e, ok := notification.StockEvent(level, uc.lowStockThreshold)
		if !ok {
			continue
		}
		supplierID := level.SupplierID
		if supplierID == "" {
			supplierID = sub.SupplierID
		}
		if id := uc.dispatch(ctx, supplierID, e); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

func (uc *TransitionUseCase) dispatch(ctx context.Context, supplierID string, e notification.Event) string {
	res, err := uc.dispatcher.Dispatch(ctx, supplierID, e)
	if err != nil {
		uc.logger.Warn("notification dispatch failed", zap.String("supplierId", supplierID), zap.String("category", string(e.Category)), zap.Error(err))
		return ""
	}
	return res.NotificationID
}

func (uc *TransitionUseCase) publish(ctx context.Context, sub domain.SubOrder, result *TransitionResult) {
	err := uc.publisher.PublishTransition(ctx, events.TransitionedPayload{
		SubOrderID:            sub.ID,
		MasterOrderID:         sub.MasterOrderID,
		SupplierID:            sub.SupplierID,
		Status:                string(sub.Status),
		PaymentStatus:         string(sub.PaymentStatus),
		PreviousStatus:        string(result.PreviousStatus),
		PreviousPaymentStatus: string(result.PreviousPaymentStatus),
	})
	if err != nil {
		uc.logger.Warn("failed to publish transition event", zap.String("subOrderId", sub.ID), zap.Error(err))
	}
}

func validateTransition(from, to domain.OrderStatus, payment *domain.PaymentStatus) error {
	var details []apperrors.ValidationDetail
	switch {
	case !to.Valid():
		details = append(details, apperrors.ValidationDetail{Field: "status", Message: "unknown status " + string(to)})
	case !domain.CanTransition(from, to):
		details = append(details, apperrors.ValidationDetail{Field: "status", Message: "cannot leave stored status " + string(from)})
	}
	if payment != nil && !payment.Valid() {
		details = append(details, apperrors.ValidationDetail{Field: "paymentStatus", Message: "unknown payment status " + string(*payment)})
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid transition", details...)
	}
	return nil
}

func applyUpdate(sub domain.SubOrder, update domain.SubOrderUpdate) domain.SubOrder {
	sub.Status = update.Status
	if update.PaymentStatus != nil {
		sub.PaymentStatus = *update.PaymentStatus
	}
	sub.UpdatedAt = update.UpdatedAt
	if update.ConfirmedAt != nil {
		sub.ConfirmedAt = update.ConfirmedAt
	}
	if update.DeliveredAt != nil {
		sub.DeliveredAt = update.DeliveredAt
	}
	return sub
}
