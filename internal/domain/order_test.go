package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrderStatus(t *testing.T) {
	for _, st := range OrderStatuses() {
		parsed, err := ParseOrderStatus(string(st))
		require.NoError(t, err)
		assert.Equal(t, st, parsed)
	}

	_, err := ParseOrderStatus("shipped")
	assert.Error(t, err)

	_, err = ParseOrderStatus("")
	assert.Error(t, err)
}

func TestParsePaymentStatus(t *testing.T) {
	parsed, err := ParsePaymentStatus("refunded")
	require.NoError(t, err)
	assert.Equal(t, PaymentStatusRefunded, parsed)

	_, err = ParsePaymentStatus("PAID")
	assert.Error(t, err)
}

func TestCanTransition_AnyStateReachable(t *testing.T) {
	for _, from := range OrderStatuses() {
		for _, to := range OrderStatuses() {
			assert.True(t, CanTransition(from, to), "%s -> %s", from, to)
		}
	}

	assert.False(t, CanTransition(OrderStatusPending, OrderStatus("lost")))
}

func TestStatusConstants(t *testing.T) {
	assert.Equal(t, "out_for_delivery", OrderStatusOutForDelivery.String())
	assert.Equal(t, "paid", PaymentStatusPaid.String())
	assert.Len(t, OrderStatuses(), 6)
}

func TestMasterOrderAggregate_IsEmpty(t *testing.T) {
	assert.True(t, MasterOrderAggregate{}.IsEmpty())

	status := OrderStatusDelivered
	assert.False(t, MasterOrderAggregate{Status: &status}.IsEmpty())
}
