package domain

import (
	"fmt"
	"time"
)

type OrderStatus string

const (
	OrderStatusPending        OrderStatus = "pending"
	OrderStatusConfirmed      OrderStatus = "confirmed"
	OrderStatusPreparing      OrderStatus = "preparing"
	OrderStatusOutForDelivery OrderStatus = "out_for_delivery"
	OrderStatusDelivered      OrderStatus = "delivered"
	OrderStatusCancelled      OrderStatus = "cancelled"
)

var orderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusPreparing,
	OrderStatusOutForDelivery,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

func OrderStatuses() []OrderStatus {
	out := make([]OrderStatus, len(orderStatuses))
	copy(out, orderStatuses)
	return out
}

func ParseOrderStatus(s string) (OrderStatus, error) {
	for _, st := range orderStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown order status %q", s)
}

func (s OrderStatus) Valid() bool {
	_, err := ParseOrderStatus(string(s))
	return err == nil
}

func (s OrderStatus) String() string {
	return string(s)
}

// CanTransition reports whether a supplier may move a SubOrder from one status
// to another. Suppliers choose freely in the dashboard, so every valid status
// is reachable from every other one, including delivered and cancelled.
func CanTransition(from, to OrderStatus) bool {
	return from.Valid() && to.Valid()
}

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

var paymentStatuses = []PaymentStatus{
	PaymentStatusPending,
	PaymentStatusPaid,
	PaymentStatusFailed,
	PaymentStatusRefunded,
}

func ParsePaymentStatus(s string) (PaymentStatus, error) {
	for _, ps := range paymentStatuses {
		if string(ps) == s {
			return ps, nil
		}
	}
	return "", fmt.Errorf("unknown payment status %q", s)
}

func (s PaymentStatus) Valid() bool {
	_, err := ParsePaymentStatus(string(s))
	return err == nil
}

func (s PaymentStatus) String() string {
	return string(s)
}

type Buyer struct {
	ID    string `json:"buyerId"`
	Name  string `json:"buyerName"`
	Email string `json:"buyerEmail"`
	Phone string `json:"buyerPhone"`
}

type Totals struct {
	Subtotal    float64 `json:"subtotal"`
	DeliveryFee float64 `json:"deliveryFee"`
	Tax         float64 `json:"tax"`
	Discount    float64 `json:"discount"`
	Total       float64 `json:"total"`
}

// MasterOrder is the customer-facing aggregate of one checkout. Its Status
// and PaymentStatus are only written by the synchronizer.
type MasterOrder struct {
	ID            string
	Buyer         Buyer
	Totals        Totals
	Status        OrderStatus
	PaymentStatus PaymentStatus
	SubOrderIDs   []string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	ConfirmedAt   *time.Time
	DeliveredAt   *time.Time
}

type LineItem struct {
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	TotalPrice  float64 `json:"totalPrice"`
	Unit        string  `json:"unit"`
}

// SubOrder is the per-supplier partition of a MasterOrder.
type SubOrder struct {
	ID                 string
	MasterOrderID      string
	SupplierID         string
	SupplierName       string
	Buyer              Buyer
	Items              []LineItem
	Totals             Totals
	Status             OrderStatus
	PaymentStatus      PaymentStatus
	PaymentMethod      string
	DeliveryAddress    string
	OrderNotes         string
	CreatedAt          time.Time
	UpdatedAt          time.Time
	ConfirmedAt        *time.Time
	DeliveredAt        *time.Time
	StockDecrementedAt *time.Time
}

// SubOrderUpdate is the set of fields written by a single transition.
type SubOrderUpdate struct {
	Status        OrderStatus
	PaymentStatus *PaymentStatus
	UpdatedAt     time.Time
	ConfirmedAt   *time.Time
	DeliveredAt   *time.Time
}

// MasterOrderAggregate carries the fields the synchronizer writes. Nil
// pointers leave the stored value untouched.
type MasterOrderAggregate struct {
	Status        *OrderStatus
	PaymentStatus *PaymentStatus
	ConfirmedAt   *time.Time
	DeliveredAt   *time.Time
	UpdatedAt     time.Time
}

func (a MasterOrderAggregate) IsEmpty() bool {
	return a.Status == nil && a.PaymentStatus == nil && a.ConfirmedAt == nil && a.DeliveredAt == nil
}
