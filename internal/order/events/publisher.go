package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

type MessageWriter interface {
	Publish(ctx context.Context, key, value []byte, headers ...kafka.Header) error
}

// KafkaPublisher writes transition events keyed by master order id, so all
// events of one master order stay on one partition.
type KafkaPublisher struct {
	w        MessageWriter
	producer string
	now      func() time.Time
	newID    func() string
}

func NewKafkaPublisher(w MessageWriter, producer string) *KafkaPublisher {
	return &KafkaPublisher{
		w:        w,
		producer: producer,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

func (p *KafkaPublisher) PublishTransition(ctx context.Context, payload TransitionedPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding transition payload: %w", err)
	}

	env := Envelope{
		EventID:       p.newID(),
		EventType:     EventSubOrderTransitioned,
		EventVersion:  EventVersion,
		OccurredAt:    p.now().UTC(),
		Producer:      p.producer,
		CorrelationID: payload.SubOrderID,
		Payload:       body,
	}
	value, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("encoding envelope: %w", err)
	}

	return p.w.Publish(ctx, []byte(payload.MasterOrderID), value,
		kafka.Header{Key: headerEventType, Value: []byte(EventSubOrderTransitioned)},
		kafka.Header{Key: headerEventVersion, Value: []byte(strconv.Itoa(EventVersion))},
	)
}

// NopPublisher is used when the change feed is disabled.
type NopPublisher struct{}

func (NopPublisher) PublishTransition(context.Context, TransitionedPayload) error { return nil }
