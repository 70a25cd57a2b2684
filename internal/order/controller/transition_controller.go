package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"supplierhub/internal/domain"
	"supplierhub/internal/dto"
	apperrors "supplierhub/internal/errors"
	"supplierhub/internal/order/usecase"
)

type TransitionUseCase interface {
	Transition(ctx context.Context, subOrderID string, status domain.OrderStatus, paymentStatus *domain.PaymentStatus) (*usecase.TransitionResult, error)
}

type TransitionController struct {
	useCase TransitionUseCase
	responder
}

func NewTransitionController(useCase TransitionUseCase, logger *zap.Logger) *TransitionController {
	return &TransitionController{
		useCase:   useCase,
		responder: responder{logger: logger},
	}
}

func (c *TransitionController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	subOrderID := strings.TrimSpace(chi.URLParam(r, "subOrderId"))

	var req dto.TransitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.writeValidationError(w, traceID, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	status, paymentStatus, err := parseTransitionRequest(subOrderID, req)
	if err != nil {
		ve, _ := apperrors.IsValidationError(err)
		c.writeValidationError(w, traceID, ve.Message, ve.Details...)
		return
	}

	logger = logger.With(zap.String("subOrderId", subOrderID))
	result, err := c.useCase.Transition(r.Context(), subOrderID, status, paymentStatus)
	if err != nil {
		c.handleUseCaseError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, toTransitionResponse(traceID, result))
}

func parseTransitionRequest(subOrderID string, req dto.TransitionRequest) (domain.OrderStatus, *domain.PaymentStatus, error) {
	var details []apperrors.ValidationDetail

	if subOrderID == "" {
		details = append(details, apperrors.ValidationDetail{
			Field:   "subOrderId",
			Message: "subOrderId is required",
		})
	}

	status, err := domain.ParseOrderStatus(req.Status)
	if err != nil {
		msg := "status must be one of pending, confirmed, preparing, out_for_delivery, delivered, cancelled"
		if req.Status == "" {
			msg = "status is required"
		}
		details = append(details, apperrors.ValidationDetail{Field: "status", Message: msg})
	}

	var paymentStatus *domain.PaymentStatus
	if req.PaymentStatus != nil {
		ps, err := domain.ParsePaymentStatus(*req.PaymentStatus)
		if err != nil {
			details = append(details, apperrors.ValidationDetail{
				Field:   "paymentStatus",
				Message: "paymentStatus must be one of pending, paid, failed, refunded",
			})
		} else {
			paymentStatus = &ps
		}
	}

	if len(details) > 0 {
		return "", nil, apperrors.NewValidationError("validation failed", details...)
	}

	return status, paymentStatus, nil
}

func toTransitionResponse(traceID string, result *usecase.TransitionResult) dto.TransitionResponse {
	resp := dto.TransitionResponse{
		TraceID:               traceID,
		SubOrderID:            result.SubOrder.ID,
		MasterOrderID:         result.SubOrder.MasterOrderID,
		Status:                string(result.SubOrder.Status),
		PaymentStatus:         string(result.SubOrder.PaymentStatus),
		PreviousStatus:        string(result.PreviousStatus),
		PreviousPaymentStatus: string(result.PreviousPaymentStatus),
		StatusChanged:         result.StatusChanged,
		PaymentStatusChanged:  result.PaymentStatusChanged,
		NotificationIDs:       result.NotificationIDs,
		MasterSynced:          result.MasterSynced,
		Timestamp:             time.Now().UTC(),
	}
	if resp.NotificationIDs == nil {
		resp.NotificationIDs = []string{}
	}

	if result.Stock != nil {
		errs := make([]dto.StockItemErrorDTO, len(result.Stock.Errors))
		for i, e := range result.Stock.Errors {
			errs[i] = dto.StockItemErrorDTO{ProductID: e.ProductID, Reason: string(e.Reason)}
		}
		resp.Stock = &dto.StockResultDTO{Success: result.Stock.Success, Errors: errs}
	}

	return resp
}
