package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockMessageWriter struct {
	PublishFunc func(ctx context.Context, key, value []byte, headers ...kafka.Header) error
}

func (m *mockMessageWriter) Publish(ctx context.Context, key, value []byte, headers ...kafka.Header) error {
	return m.PublishFunc(ctx, key, value, headers...)
}

func TestKafkaPublisher_PublishTransition(t *testing.T) {
	var (
		gotKey     []byte
		gotValue   []byte
		gotHeaders []kafka.Header
	)
	w := &mockMessageWriter{
		PublishFunc: func(ctx context.Context, key, value []byte, headers ...kafka.Header) error {
			gotKey, gotValue, gotHeaders = key, value, headers
			return nil
		},
	}

	at := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	p := NewKafkaPublisher(w, "supplierhub")
	p.now = func() time.Time { return at }
	p.newID = func() string { return "evt-1" }

	err := p.PublishTransition(context.Background(), TransitionedPayload{
		SubOrderID:     "s-1",
		MasterOrderID:  "m-1",
		SupplierID:     "sup-1",
		Status:         "out_for_delivery",
		PaymentStatus:  "paid",
		PreviousStatus: "preparing",
	})
	require.NoError(t, err)

	assert.Equal(t, "m-1", string(gotKey))
	require.Len(t, gotHeaders, 2)
	assert.Equal(t, headerEventType, gotHeaders[0].Key)
	assert.Equal(t, EventSubOrderTransitioned, string(gotHeaders[0].Value))

	var env Envelope
	require.NoError(t, json.Unmarshal(gotValue, &env))
	assert.Equal(t, "evt-1", env.EventID)
	assert.Equal(t, EventSubOrderTransitioned, env.EventType)
	assert.Equal(t, "supplierhub", env.Producer)
	assert.True(t, at.Equal(env.OccurredAt))

	payload, err := decodePayload[TransitionedPayload](env.Payload)
	require.NoError(t, err)
	assert.Equal(t, "s-1", payload.SubOrderID)
	assert.Equal(t, "preparing", payload.PreviousStatus)
}

func TestKafkaPublisher_WriterError(t *testing.T) {
	w := &mockMessageWriter{
		PublishFunc: func(ctx context.Context, key, value []byte, headers ...kafka.Header) error {
			return context.DeadlineExceeded
		},
	}
	p := NewKafkaPublisher(w, "supplierhub")

	err := p.PublishTransition(context.Background(), TransitionedPayload{MasterOrderID: "m-1"})
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestNopPublisher(t *testing.T) {
	assert.NoError(t, NopPublisher{}.PublishTransition(context.Background(), TransitionedPayload{}))
}
