package notification

import (
	"fmt"

	"supplierhub/internal/domain"
)

type renderFunc func(e Event) (title, message string)

var templates = map[domain.NotificationCategory]renderFunc{
	domain.CategoryNewOrder: func(e Event) (string, string) {
		return "New order received",
			fmt.Sprintf("%s placed order %s (%d items, total %s)", buyer(e), e.OrderID, intField(e, "itemCount"), money(e))
	},
	domain.CategoryOrderStatusChanged: func(e Event) (string, string) {
		if e.Type == domain.NotificationTypePayment {
			return "Payment pending", fmt.Sprintf("Payment for order %s is pending", e.OrderID)
		}
		return "Order status updated",
			fmt.Sprintf("Order %s is now %s", e.OrderID, statusLabel(stringField(e, "status")))
	},
	domain.CategoryOrderCancelled: func(e Event) (string, string) {
		return "Order cancelled", fmt.Sprintf("Order %s from %s was cancelled", e.OrderID, buyer(e))
	},
	domain.CategoryOrderDelivered: func(e Event) (string, string) {
		return "Order delivered", fmt.Sprintf("Order %s was delivered to %s", e.OrderID, buyer(e))
	},
	domain.CategoryPaymentReceived: func(e Event) (string, string) {
		return "Payment received", fmt.Sprintf("Payment of %s received for order %s", money(e), e.OrderID)
	},
	domain.CategoryPaymentFailed: func(e Event) (string, string) {
		return "Payment failed", fmt.Sprintf("Payment of %s for order %s failed", money(e), e.OrderID)
	},
	domain.CategoryPaymentRefunded: func(e Event) (string, string) {
		return "Payment refunded", fmt.Sprintf("Payment of %s for order %s was refunded", money(e), e.OrderID)
	},
	domain.CategoryLowInventory: func(e Event) (string, string) {
		return "Low inventory",
			fmt.Sprintf("%s is running low: %d left", stringField(e, "productName"), intField(e, "stockQuantity"))
	},
	domain.CategoryOutOfStock: func(e Event) (string, string) {
		return "Out of stock", fmt.Sprintf("%s is out of stock and no longer available", stringField(e, "productName"))
	},
}

func render(e Event) (string, string) {
	if tmpl, ok := templates[e.Category]; ok {
		return tmpl(e)
	}
	return "Notification", fmt.Sprintf("Update for %s", e.OrderID)
}

var statusLabels = map[string]string{
	string(domain.OrderStatusPending):        "pending",
	string(domain.OrderStatusConfirmed):      "confirmed",
	string(domain.OrderStatusPreparing):      "being prepared",
	string(domain.OrderStatusOutForDelivery): "out for delivery",
	string(domain.OrderStatusDelivered):      "delivered",
	string(domain.OrderStatusCancelled):      "cancelled",
}

func statusLabel(s string) string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return s
}

func buyer(e Event) string {
	if name := stringField(e, "buyerName"); name != "" {
		return name
	}
	return "A buyer"
}

func money(e Event) string {
	if v, ok := e.Data["total"].(float64); ok {
		return fmt.Sprintf("$%.2f", v)
	}
	return "$0.00"
}

func stringField(e Event, key string) string {
	s, _ := e.Data[key].(string)
	return s
}

func intField(e Event, key string) int {
	n, _ := e.Data[key].(int)
	return n
}
