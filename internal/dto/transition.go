package dto

import (
	"time"

	apperrors "supplierhub/internal/errors"
)

type TransitionRequest struct {
	Status        string  `json:"status"`
	PaymentStatus *string `json:"paymentStatus,omitempty"`
}

type TransitionResponse struct {
	TraceID               string          `json:"traceId"`
	SubOrderID            string          `json:"subOrderId"`
	MasterOrderID         string          `json:"masterOrderId"`
	Status                string          `json:"status"`
	PaymentStatus         string          `json:"paymentStatus"`
	PreviousStatus        string          `json:"previousStatus"`
	PreviousPaymentStatus string          `json:"previousPaymentStatus"`
	StatusChanged         bool            `json:"statusChanged"`
	PaymentStatusChanged  bool            `json:"paymentStatusChanged"`
	Stock                 *StockResultDTO `json:"stock,omitempty"`
	NotificationIDs       []string        `json:"notificationIds"`
	MasterSynced          bool            `json:"masterSynced"`
	Timestamp             time.Time       `json:"timestamp"`
}

type StockResultDTO struct {
	Success bool                `json:"success"`
	Errors  []StockItemErrorDTO `json:"errors"`
}

type StockItemErrorDTO struct {
	ProductID string `json:"productId"`
	Reason    string `json:"reason"`
}

type SyncResponse struct {
	TraceID       string    `json:"traceId"`
	MasterOrderID string    `json:"masterOrderId"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"paymentStatus"`
	Updated       bool      `json:"updated"`
	Timestamp     time.Time `json:"timestamp"`
}

type ErrorResponse struct {
	TraceID   string                       `json:"traceId"`
	Status    int                          `json:"status"`
	Message   string                       `json:"message"`
	Code      string                       `json:"code"`
	Details   []apperrors.ValidationDetail `json:"details,omitempty"`
	Timestamp time.Time                    `json:"timestamp"`
}
