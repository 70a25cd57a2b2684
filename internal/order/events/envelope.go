package events

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	EventSubOrderTransitioned = "SubOrderTransitioned"
	EventVersion              = 1

	headerEventType    = "x-event-type"
	headerEventVersion = "x-event-version"
)

type Envelope struct {
	EventID       string          `json:"eventId"`
	EventType     string          `json:"eventType"`
	EventVersion  int             `json:"eventVersion"`
	OccurredAt    time.Time       `json:"occurredAt"`
	Producer      string          `json:"producer"`
	CorrelationID string          `json:"correlationId,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

// TransitionedPayload describes one persisted sub order transition. The
// previous values let consumers tell a first entry from a replay.
type TransitionedPayload struct {
	SubOrderID            string `json:"subOrderId"`
	MasterOrderID         string `json:"masterOrderId"`
	SupplierID            string `json:"supplierId"`
	Status                string `json:"status"`
	PaymentStatus         string `json:"paymentStatus"`
	PreviousStatus        string `json:"previousStatus"`
	PreviousPaymentStatus string `json:"previousPaymentStatus"`
}

func decodePayload[T any](payload json.RawMessage) (T, error) {
	var t T
	if err := json.Unmarshal(payload, &t); err != nil {
		return t, fmt.Errorf("decode payload: %w", err)
	}
	return t, nil
}
