package notification

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"supplierhub/internal/domain"
	"supplierhub/internal/dto"
)

func TestOrderStatusEvent_Routes(t *testing.T) {
	tests := []struct {
		status   domain.OrderStatus
		category domain.NotificationCategory
		priority domain.Priority
	}{
		{domain.OrderStatusPending, domain.CategoryNewOrder, domain.PriorityHigh},
		{domain.OrderStatusConfirmed, domain.CategoryOrderStatusChanged, domain.PriorityMedium},
		{domain.OrderStatusPreparing, domain.CategoryOrderStatusChanged, domain.PriorityLow},
		{domain.OrderStatusOutForDelivery, domain.CategoryOrderStatusChanged, domain.PriorityHigh},
		{domain.OrderStatusDelivered, domain.CategoryOrderDelivered, domain.PriorityMedium},
		{domain.OrderStatusCancelled, domain.CategoryOrderCancelled, domain.PriorityHigh},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			e := OrderStatusEvent(sample, tt.status)
			assert.Equal(t, tt.category, e.Category)
			assert.Equal(t, tt.priority, e.Priority)
			assert.Equal(t, domain.NotificationTypeOrder, e.Type)
			assert.Equal(t, "s-1", e.OrderID)
			assert.Equal(t, string(tt.status), e.Data["status"])
		})
	}
}

func TestPaymentStatusEvent_Routes(t *testing.T) {
	tests := []struct {
		status   domain.PaymentStatus
		category domain.NotificationCategory
		priority domain.Priority
	}{
		{domain.PaymentStatusPaid, domain.CategoryPaymentReceived, domain.PriorityMedium},
		{domain.PaymentStatusFailed, domain.CategoryPaymentFailed, domain.PriorityHigh},
		{domain.PaymentStatusRefunded, domain.CategoryPaymentRefunded, domain.PriorityMedium},
		{domain.PaymentStatusPending, domain.CategoryOrderStatusChanged, domain.PriorityLow},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			e := PaymentStatusEvent(sample, tt.status)
			assert.Equal(t, tt.category, e.Category)
			assert.Equal(t, tt.priority, e.Priority)
			assert.Equal(t, domain.NotificationTypePayment, e.Type)
			assert.Equal(t, "payment_"+string(tt.status), e.SubType)
		})
	}
}

func TestPaymentPending_RendersPaymentTemplate(t *testing.T) {
	title, message := render(PaymentStatusEvent(sample, domain.PaymentStatusPending))
	assert.Equal(t, "Payment pending", title)
	assert.Contains(t, message, "s-1")
}

func TestStockEvent(t *testing.T) {
	level := dto.StockLevel{ProductID: "p-1", Name: "Tomatoes"}

	level.StockQuantity = 0
	e, ok := StockEvent(level, 5)
	assert.True(t, ok)
	assert.Equal(t, domain.CategoryOutOfStock, e.Category)
	assert.Equal(t, domain.PriorityHigh, e.Priority)
	assert.Equal(t, "p-1", e.ProductID)

	level.StockQuantity = 5
	e, ok = StockEvent(level, 5)
	assert.True(t, ok)
	assert.Equal(t, domain.CategoryLowInventory, e.Category)
	assert.Equal(t, domain.PriorityMedium, e.Priority)
	title, message := render(e)
	assert.Equal(t, "Low inventory", title)
	assert.Contains(t, message, "Tomatoes")
	assert.Contains(t, message, "5 left")

	level.StockQuantity = 6
	_, ok = StockEvent(level, 5)
	assert.False(t, ok)
}
