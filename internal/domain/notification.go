package domain

import (
	"fmt"
	"time"
)

type NotificationCategory string

const (
	CategoryNewOrder           NotificationCategory = "newOrder"
	CategoryOrderStatusChanged NotificationCategory = "orderStatusChanged"
	CategoryOrderCancelled     NotificationCategory = "orderCancelled"
	CategoryOrderDelivered     NotificationCategory = "orderDelivered"
	CategoryPaymentReceived    NotificationCategory = "paymentReceived"
	CategoryPaymentFailed      NotificationCategory = "paymentFailed"
	CategoryPaymentRefunded    NotificationCategory = "paymentRefunded"
	CategoryLowInventory       NotificationCategory = "lowInventory"
	CategoryOutOfStock         NotificationCategory = "outOfStock"
)

type NotificationType string

const (
	NotificationTypeOrder     NotificationType = "order"
	NotificationTypePayment   NotificationType = "payment"
	NotificationTypeInventory NotificationType = "inventory"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

type Notification struct {
	ID            string
	SupplierID    string
	Type          NotificationType
	SubType       string
	Title         string
	Message       string
	Priority      Priority
	OrderID       *string
	ProductID     *string
	IsRead        bool
	IsArchived    bool
	Clicked       bool
	EmailFollowUp bool
	Data          map[string]any
	CreatedAt     time.Time
}

// NotificationPreference is owned by the preferences editor and read-only
// here. A category missing from Categories counts as enabled.
type NotificationPreference struct {
	SupplierID        string
	Categories        map[NotificationCategory]bool
	InApp             bool
	Email             bool
	SMS               bool
	QuietHoursEnabled bool
	QuietHoursStart   string
	QuietHoursEnd     string
}

// DefaultNotificationPreference is applied when a supplier has no stored
// preferences or they cannot be loaded: deliver everything in-app.
func DefaultNotificationPreference(supplierID string) NotificationPreference {
	return NotificationPreference{
		SupplierID: supplierID,
		Categories: map[NotificationCategory]bool{},
		InApp:      true,
		Email:      true,
	}
}

func (p NotificationPreference) CategoryEnabled(c NotificationCategory) bool {
	enabled, ok := p.Categories[c]
	if !ok {
		return true
	}
	return enabled
}

// InQuietHours reports whether t, already converted to the supplier's local
// time, falls inside the quiet window. Windows may wrap midnight
// (22:00-07:00). An equal start and end is an empty window. Malformed bounds
// are reported as an error and treated as outside the window by callers.
func (p NotificationPreference) InQuietHours(t time.Time) (bool, error) {
	if !p.QuietHoursEnabled {
		return false, nil
	}

	start, err := parseClock(p.QuietHoursStart)
	if err != nil {
		return false, err
	}
	end, err := parseClock(p.QuietHoursEnd)
	if err != nil {
		return false, err
	}

	now := t.Hour()*60 + t.Minute()
	switch {
	case start == end:
		return false, nil
	case start < end:
		return now >= start && now < end, nil
	default:
		return now >= start || now < end, nil
	}
}

func parseClock(s string) (int, error) {
	parsed, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid quiet hours time %q: %w", s, err)
	}
	return parsed.Hour()*60 + parsed.Minute(), nil
}
