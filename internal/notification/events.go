package notification

import (
	"supplierhub/internal/domain"
	"supplierhub/internal/dto"
)

// Event is a dispatch request before preferences are applied.
type Event struct {
	Category  domain.NotificationCategory
	Type      domain.NotificationType
	SubType   string
	Priority  domain.Priority
	OrderID   string
	ProductID string
	Data      map[string]any
}

type orderRoute struct {
	category domain.NotificationCategory
	priority domain.Priority
}

var orderRoutes = map[domain.OrderStatus]orderRoute{
	domain.OrderStatusPending:        {domain.CategoryNewOrder, domain.PriorityHigh},
	domain.OrderStatusConfirmed:      {domain.CategoryOrderStatusChanged, domain.PriorityMedium},
	domain.OrderStatusPreparing:      {domain.CategoryOrderStatusChanged, domain.PriorityLow},
	domain.OrderStatusOutForDelivery: {domain.CategoryOrderStatusChanged, domain.PriorityHigh},
	domain.OrderStatusDelivered:      {domain.CategoryOrderDelivered, domain.PriorityMedium},
	domain.OrderStatusCancelled:      {domain.CategoryOrderCancelled, domain.PriorityHigh},
}

var paymentRoutes = map[domain.PaymentStatus]orderRoute{
	domain.PaymentStatusPaid:     {domain.CategoryPaymentReceived, domain.PriorityMedium},
	domain.PaymentStatusFailed:   {domain.CategoryPaymentFailed, domain.PriorityHigh},
	domain.PaymentStatusRefunded: {domain.CategoryPaymentRefunded, domain.PriorityMedium},
	domain.PaymentStatusPending:  {domain.CategoryOrderStatusChanged, domain.PriorityLow},
}

func orderData(sub domain.SubOrder) map[string]any {
	return map[string]any{
		"subOrderId":    sub.ID,
		"masterOrderId": sub.MasterOrderID,
		"buyerName":     sub.Buyer.Name,
		"total":         sub.Totals.Total,
		"itemCount":     len(sub.Items),
	}
}

// OrderStatusEvent builds the order notification for a sub order entering status.
func OrderStatusEvent(sub domain.SubOrder, status domain.OrderStatus) Event {
	route, ok := orderRoutes[status]
	if !ok {
		route = orderRoute{domain.CategoryOrderStatusChanged, domain.PriorityMedium}
	}

	data := orderData(sub)
	data["status"] = string(status)

	return Event{
		Category: route.category,
		Type:     domain.NotificationTypeOrder,
		SubType:  string(status),
		Priority: route.priority,
		OrderID:  sub.ID,
		Data:     data,
	}
}

// PaymentStatusEvent builds the payment notification for a sub order whose
// payment status changed to status.
func PaymentStatusEvent(sub domain.SubOrder, status domain.PaymentStatus) Event {
	route, ok := paymentRoutes[status]
	if !ok {
		route = orderRoute{domain.CategoryOrderStatusChanged, domain.PriorityLow}
	}

	data := orderData(sub)
	data["paymentStatus"] = string(status)
	data["paymentMethod"] = sub.PaymentMethod

	return Event{
		Category: route.category,
		Type:     domain.NotificationTypePayment,
		SubType:  "payment_" + string(status),
		Priority: route.priority,
		OrderID:  sub.ID,
		Data:     data,
	}
}

// StockEvent builds an inventory notification for a product whose stock fell
// to or below threshold. It reports false when the level needs no alert.
func StockEvent(level dto.StockLevel, threshold int) (Event, bool) {
	var (
		category domain.NotificationCategory
		priority domain.Priority
		subType  string
	)
	switch {
	case level.StockQuantity <= 0:
		category, priority, subType = domain.CategoryOutOfStock, domain.PriorityHigh, "out_of_stock"
	case level.StockQuantity <= threshold:
		category, priority, subType = domain.CategoryLowInventory, domain.PriorityMedium, "low_inventory"
	default:
		return Event{}, false
	}

	return Event{
		Category:  category,
		Type:      domain.NotificationTypeInventory,
		SubType:   subType,
		Priority:  priority,
		ProductID: level.ProductID,
		Data: map[string]any{
			"productId":     level.ProductID,
			"productName":   level.Name,
			"stockQuantity": level.StockQuantity,
			"threshold":     threshold,
		},
	}, true
}
