package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"supplierhub/internal/domain"
	apperrors "supplierhub/internal/errors"
)

// Mock implementations

type mockSubOrderLister struct {
	FindByMasterOrderIDFunc func(ctx context.Context, masterOrderID string) ([]domain.SubOrder, error)
}

func (m *mockSubOrderLister) FindByMasterOrderID(ctx context.Context, masterOrderID string) ([]domain.SubOrder, error) {
	return m.FindByMasterOrderIDFunc(ctx, masterOrderID)
}

// memoryMasterOrders stores a single master order and counts writes.
type memoryMasterOrders struct {
	order     domain.MasterOrder
	writes    int
	updateErr error
}

func (m *memoryMasterOrders) FindByID(ctx context.Context, id string) (*domain.MasterOrder, error) {
	if id != m.order.ID {
		return nil, apperrors.NewNotFoundError("master order not found")
	}
	o := m.order
	return &o, nil
}

func (m *memoryMasterOrders) UpdateAggregate(ctx context.Context, id string, agg domain.MasterOrderAggregate) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.writes++
	if agg.Status != nil {
		m.order.Status = *agg.Status
	}
	if agg.PaymentStatus != nil {
		m.order.PaymentStatus = *agg.PaymentStatus
	}
	if agg.ConfirmedAt != nil {
		m.order.ConfirmedAt = agg.ConfirmedAt
	}
	if agg.DeliveredAt != nil {
		m.order.DeliveredAt = agg.DeliveredAt
	}
	m.order.UpdatedAt = agg.UpdatedAt
	return nil
}

func subs(statuses ...domain.OrderStatus) []domain.SubOrder {
	out := make([]domain.SubOrder, len(statuses))
	for i, s := range statuses {
		out[i] = domain.SubOrder{ID: string(rune('a' + i)), MasterOrderID: "m-1", Status: s, PaymentStatus: domain.PaymentStatusPending}
	}
	return out
}

func listerOf(list []domain.SubOrder) *mockSubOrderLister {
	return &mockSubOrderLister{
		FindByMasterOrderIDFunc: func(ctx context.Context, masterOrderID string) ([]domain.SubOrder, error) {
			return list, nil
		},
	}
}

func pendingMaster() *memoryMasterOrders {
	return &memoryMasterOrders{order: domain.MasterOrder{
		ID:            "m-1",
		Status:        domain.OrderStatusPending,
		PaymentStatus: domain.PaymentStatusPending,
	}}
}

// Tests

func TestSync_AllEqual_ConvergesOnce(t *testing.T) {
	masters := pendingMaster()
	sync := NewSynchronizer(listerOf(subs(domain.OrderStatusOutForDelivery, domain.OrderStatusOutForDelivery)), masters, zap.NewNop())

	result, err := sync.Sync(context.Background(), "m-1")
	require.NoError(t, err)
	assert.True(t, result.Updated)
	assert.Equal(t, domain.OrderStatusOutForDelivery, result.Status)
	assert.Equal(t, domain.OrderStatusOutForDelivery, masters.order.Status)
	assert.Equal(t, 1, masters.writes)

	for i := 0; i < 3; i++ {
		result, err = sync.Sync(context.Background(), "m-1")
		require.NoError(t, err)
		assert.False(t, result.Updated)
		assert.Equal(t, domain.OrderStatusOutForDelivery, result.Status)
	}
	assert.Equal(t, 1, masters.writes)
}

func TestSync_Disagreement_LeavesStatus(t *testing.T) {
	masters := pendingMaster()
	sync := NewSynchronizer(listerOf(subs(domain.OrderStatusOutForDelivery, domain.OrderStatusPending)), masters, zap.NewNop())

	result, err := sync.Sync(context.Background(), "m-1")
	require.NoError(t, err)
	assert.False(t, result.Updated)
	assert.Equal(t, domain.OrderStatusPending, masters.order.Status)
	assert.Equal(t, 0, masters.writes)
}

func TestSync_NoSubOrders_NoOp(t *testing.T) {
	masters := pendingMaster()
	sync := NewSynchronizer(listerOf(nil), masters, zap.NewNop())

	result, err := sync.Sync(context.Background(), "m-1")
	require.NoError(t, err)
	assert.False(t, result.Updated)
	assert.Equal(t, 0, masters.writes)
}

func TestSync_NoSubOrders_UnknownMasterIsNoOp(t *testing.T) {
	masters := pendingMaster()
	sync := NewSynchronizer(listerOf(nil), masters, zap.NewNop())

	result, err := sync.Sync(context.Background(), "m-unknown")
	require.NoError(t, err)
	assert.Equal(t, "m-unknown", result.MasterOrderID)
	assert.False(t, result.Updated)
	assert.Equal(t, 0, masters.writes)
}

func TestSync_PaymentConvergesIndependently(t *testing.T) {
	masters := pendingMaster()
	list := subs(domain.OrderStatusConfirmed, domain.OrderStatusPreparing)
	for i := range list {
		list[i].PaymentStatus = domain.PaymentStatusPaid
	}
	sync := NewSynchronizer(listerOf(list), masters, zap.NewNop())

	result, err := sync.Sync(context.Background(), "m-1")
	require.NoError(t, err)
	assert.True(t, result.Updated)
	assert.Equal(t, domain.OrderStatusPending, masters.order.Status)
	assert.Equal(t, domain.PaymentStatusPaid, masters.order.PaymentStatus)
}

func TestSync_MasterNotFound(t *testing.T) {
	sync := NewSynchronizer(listerOf(subs(domain.OrderStatusPending)), pendingMaster(), zap.NewNop())

	result, err := sync.Sync(context.Background(), "m-unknown")
	assert.Nil(t, result)
	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestSync_ListFailure_IsPersistenceError(t *testing.T) {
	lister := &mockSubOrderLister{
		FindByMasterOrderIDFunc: func(ctx context.Context, masterOrderID string) ([]domain.SubOrder, error) {
			return nil, errors.New("connection refused")
		},
	}
	sync := NewSynchronizer(lister, pendingMaster(), zap.NewNop())

	_, err := sync.Sync(context.Background(), "m-1")
	_, ok := apperrors.IsPersistenceError(err)
	assert.True(t, ok)
}

func TestSync_UpdateFailure_IsPersistenceError(t *testing.T) {
	masters := pendingMaster()
	masters.updateErr = errors.New("write failed")
	sync := NewSynchronizer(listerOf(subs(domain.OrderStatusCancelled)), masters, zap.NewNop())

	_, err := sync.Sync(context.Background(), "m-1")
	_, ok := apperrors.IsPersistenceError(err)
	assert.True(t, ok)
}

func TestConverge(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	confirmedAt := now.Add(-time.Hour)

	tests := []struct {
		name          string
		current       domain.MasterOrder
		subs          []domain.SubOrder
		wantChanged   bool
		wantStatus    *domain.OrderStatus
		wantConfirmed bool
		wantDelivered bool
	}{
		{
			name:        "empty set",
			current:     domain.MasterOrder{Status: domain.OrderStatusPending, PaymentStatus: domain.PaymentStatusPending},
			subs:        nil,
			wantChanged: false,
		},
		{
			name:          "enter confirmed sets confirmedAt",
			current:       domain.MasterOrder{Status: domain.OrderStatusPending, PaymentStatus: domain.PaymentStatusPending},
			subs:          subs(domain.OrderStatusConfirmed, domain.OrderStatusConfirmed),
			wantChanged:   true,
			wantStatus:    statusPtr(domain.OrderStatusConfirmed),
			wantConfirmed: true,
		},
		{
			name:          "enter delivered sets deliveredAt",
			current:       domain.MasterOrder{Status: domain.OrderStatusOutForDelivery, PaymentStatus: domain.PaymentStatusPending},
			subs:          subs(domain.OrderStatusDelivered),
			wantChanged:   true,
			wantStatus:    statusPtr(domain.OrderStatusDelivered),
			wantDelivered: true,
		},
		{
			name:        "already converged",
			current:     domain.MasterOrder{Status: domain.OrderStatusConfirmed, PaymentStatus: domain.PaymentStatusPending, ConfirmedAt: &confirmedAt},
			subs:        subs(domain.OrderStatusConfirmed, domain.OrderStatusConfirmed),
			wantChanged: false,
		},
		{
			name:          "converged status missing confirmedAt",
			current:       domain.MasterOrder{Status: domain.OrderStatusConfirmed, PaymentStatus: domain.PaymentStatusPending},
			subs:          subs(domain.OrderStatusConfirmed),
			wantChanged:   true,
			wantConfirmed: true,
		},
		{
			name:        "disagreement",
			current:     domain.MasterOrder{Status: domain.OrderStatusPending, PaymentStatus: domain.PaymentStatusPending},
			subs:        subs(domain.OrderStatusConfirmed, domain.OrderStatusCancelled),
			wantChanged: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agg, changed := Converge(tt.current, tt.subs, now)

			assert.Equal(t, tt.wantChanged, changed)
			assert.Equal(t, tt.wantStatus, agg.Status)
			assert.Equal(t, tt.wantConfirmed, agg.ConfirmedAt != nil)
			assert.Equal(t, tt.wantDelivered, agg.DeliveredAt != nil)
			assert.Equal(t, now, agg.UpdatedAt)
		})
	}
}

func statusPtr(s domain.OrderStatus) *domain.OrderStatus {
	return &s
}
