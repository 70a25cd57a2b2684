package controller

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"supplierhub/internal/dto"
	apperrors "supplierhub/internal/errors"
)

type responder struct {
	logger *zap.Logger
}

func (r responder) handleUseCaseError(w http.ResponseWriter, traceID string, err error, logger *zap.Logger) {
	if ve, ok := apperrors.IsValidationError(err); ok {
		r.writeValidationError(w, traceID, ve.Message, ve.Details...)
		return
	}

	if _, ok := apperrors.IsNotFoundError(err); ok {
		r.writeErrorResponse(w, traceID, http.StatusNotFound, "NOT_FOUND", err.Error())
		return
	}

	if _, ok := apperrors.IsPersistenceError(err); ok {
		logger.Error("persistence error", zap.Error(err))
		r.writeErrorResponse(w, traceID, http.StatusInternalServerError, "PERSISTENCE_ERROR", "the order could not be saved, please try again")
		return
	}

	logger.Error("unexpected error", zap.Error(err))
	r.writeErrorResponse(w, traceID, http.StatusInternalServerError, "INTERNAL_ERROR", "an unexpected error occurred")
}

func (r responder) writeErrorResponse(w http.ResponseWriter, traceID string, statusCode int, code string, message string) {
	r.writeJSON(w, statusCode, dto.ErrorResponse{
		TraceID:   traceID,
		Status:    statusCode,
		Message:   message,
		Code:      code,
		Timestamp: time.Now().UTC(),
	})
}

func (r responder) writeValidationError(w http.ResponseWriter, traceID string, message string, details ...apperrors.ValidationDetail) {
	r.writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{
		TraceID:   traceID,
		Status:    http.StatusBadRequest,
		Message:   message,
		Code:      "VALIDATION_ERROR",
		Details:   details,
		Timestamp: time.Now().UTC(),
	})
}

func (r responder) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		r.logger.Error("failed to encode response", zap.Error(err))
	}
}
