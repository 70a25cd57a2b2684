package events

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"supplierhub/internal/domain"
	apperrors "supplierhub/internal/errors"
	"supplierhub/internal/order/service"
)

type MasterOrderSyncer interface {
	Sync(ctx context.Context, masterOrderID string) (*service.SyncResult, error)
}

type StockEnsurer interface {
	EnsureStockDecremented(ctx context.Context, subOrderID string, previous domain.OrderStatus) error
}

// Handler replays every transition against the synchronizer and the guarded
// stock decrement. Both are idempotent, so redelivered messages are harmless.
type Handler struct {
	syncer MasterOrderSyncer
	stock  StockEnsurer
	logger *zap.Logger
}

func NewHandler(syncer MasterOrderSyncer, stock StockEnsurer, logger *zap.Logger) *Handler {
	return &Handler{syncer: syncer, stock: stock, logger: logger}
}

// Handle returns an error only for failures worth a redelivery. Undecodable
// messages and unknown orders are logged and committed.
func (h *Handler) Handle(ctx context.Context, m kafka.Message) error {
	var env Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		h.logger.Warn("dropping undecodable message", zap.Int64("offset", m.Offset), zap.Error(err))
		return nil
	}
	if env.EventType != EventSubOrderTransitioned {
		return nil
	}

	p, err := decodePayload[TransitionedPayload](env.Payload)
	if err != nil {
		h.logger.Warn("dropping message with bad payload", zap.String("eventId", env.EventID), zap.Error(err))
		return nil
	}

	log := h.logger.With(
		zap.String("eventId", env.EventID),
		zap.String("subOrderId", p.SubOrderID),
		zap.String("masterOrderId", p.MasterOrderID),
	)

	if enteredOutForDelivery(p) {
		if err := h.stock.EnsureStockDecremented(ctx, p.SubOrderID, domain.OrderStatus(p.PreviousStatus)); err != nil {
			if _, ok := apperrors.IsNotFoundError(err); !ok {
				log.Error("ensuring stock decrement failed", zap.Error(err))
				return err
			}
			log.Warn("sub order not found, skipping stock decrement")
		}
	}

	if _, err := h.syncer.Sync(ctx, p.MasterOrderID); err != nil {
		if _, ok := apperrors.IsNotFoundError(err); ok {
			log.Warn("master order not found, skipping sync")
			return nil
		}
		log.Error("master order sync failed", zap.Error(err))
		return err
	}

	log.Debug("transition event applied")
	return nil
}

// enteredOutForDelivery reports whether the event records the first entry
// into out_for_delivery. Payment-only updates on a dispatched sub order carry
// out_for_delivery on both sides and must not touch stock.
func enteredOutForDelivery(p TransitionedPayload) bool {
	return domain.OrderStatus(p.Status) == domain.OrderStatusOutForDelivery &&
		domain.OrderStatus(p.PreviousStatus) != domain.OrderStatusOutForDelivery
}
