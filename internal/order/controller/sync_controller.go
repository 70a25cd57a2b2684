package controller

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"supplierhub/internal/dto"
	apperrors "supplierhub/internal/errors"
	"supplierhub/internal/order/service"
)

type MasterOrderSyncer interface {
	Sync(ctx context.Context, masterOrderID string) (*service.SyncResult, error)
}

type SyncController struct {
	syncer MasterOrderSyncer
	responder
}

func NewSyncController(syncer MasterOrderSyncer, logger *zap.Logger) *SyncController {
	return &SyncController{
		syncer:    syncer,
		responder: responder{logger: logger},
	}
}

func (c *SyncController) Sync(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	masterOrderID := strings.TrimSpace(chi.URLParam(r, "masterOrderId"))
	logger := c.logger.With(zap.String("traceId", traceID), zap.String("masterOrderId", masterOrderID))

	if masterOrderID == "" {
		c.writeValidationError(w, traceID, "validation failed", apperrors.ValidationDetail{
			Field:   "masterOrderId",
			Message: "masterOrderId is required",
		})
		return
	}

	result, err := c.syncer.Sync(r.Context(), masterOrderID)
	if err != nil {
		c.handleUseCaseError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, dto.SyncResponse{
		TraceID:       traceID,
		MasterOrderID: result.MasterOrderID,
		Status:        string(result.Status),
		PaymentStatus: string(result.PaymentStatus),
		Updated:       result.Updated,
		Timestamp:     time.Now().UTC(),
	})
}
