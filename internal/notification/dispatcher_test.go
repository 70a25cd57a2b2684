package notification

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

type mockPreferenceRepository struct {
	FindBySupplierIDFunc func(ctx context.Context, supplierID string) (*domain.NotificationPreference, error)
}

func (m *mockPreferenceRepository) FindBySupplierID(ctx context.Context, supplierID string) (*domain.NotificationPreference, error) {
	return m.FindBySupplierIDFunc(ctx, supplierID)
}

type mockNotificationRepository struct {
	InsertFunc func(ctx context.Context, n domain.Notification) error
	inserted   []domain.Notification
}

func (m *mockNotificationRepository) Insert(ctx context.Context, n domain.Notification) error {
	if m.InsertFunc != nil {
		if err := m.InsertFunc(ctx, n); err != nil {
			return err
		}
	}
	m.inserted = append(m.inserted, n)
	return nil
}

func preferenceOf(pref *domain.NotificationPreference, err error) *mockPreferenceRepository {
	return &mockPreferenceRepository{
		FindBySupplierIDFunc: func(ctx context.Context, supplierID string) (*domain.NotificationPreference, error) {
			return pref, err
		},
	}
}

func newTestDispatcher(prefs PreferenceRepository, repo NotificationRepository, at time.Time) *Dispatcher {
	d := NewDispatcher(prefs, repo, zap.NewNop(), time.UTC)
	d.now = func() time.Time { return at }
	d.newID = func() string { return "n-fixed" }
	return d
}

func quietPreference() *domain.NotificationPreference {
	p := domain.DefaultNotificationPreference("sup-1")
	p.QuietHoursEnabled = true
	p.QuietHoursStart = "22:00"
	p.QuietHoursEnd = "07:00"
	return &p
}

var (
	midnight = time.Date(2024, 3, 1, 23, 30, 0, 0, time.UTC)
	noon     = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	sample   = domain.SubOrder{
		ID:            "s-1",
		MasterOrderID: "m-1",
		SupplierID:    "sup-1",
		Buyer:         domain.Buyer{Name: "Cafe Luna"},
		Totals:        domain.Totals{Total: 120.5},
		Items:         []domain.LineItem{{ProductID: "p-1", Quantity: 2}},
	}
)

// Tests

func TestDispatch_NoPreferences_DefaultAllow(t *testing.T) {
	repo := &mockNotificationRepository{}
	d := newTestDispatcher(preferenceOf(nil, apperrors.NewNotFoundError("none")), repo, noon)

	result, err := d.Dispatch(context.Background(), "sup-1", OrderStatusEvent(sample, domain.OrderStatusPending))
	require.NoError(t, err)

	assert.False(t, result.Suppressed)
	assert.Equal(t, "n-fixed", result.NotificationID)
	require.Len(t, repo.inserted, 1)

	n := repo.inserted[0]
	assert.Equal(t, "sup-1", n.SupplierID)
	assert.Equal(t, domain.NotificationTypeOrder, n.Type)
	assert.Equal(t, domain.PriorityHigh, n.Priority)
	assert.Equal(t, "New order received", n.Title)
	assert.Contains(t, n.Message, "Cafe Luna")
	assert.True(t, n.EmailFollowUp)
	require.NotNil(t, n.OrderID)
	assert.Equal(t, "s-1", *n.OrderID)
	assert.Nil(t, n.ProductID)
}

func TestDispatch_LookupFailure_FailsOpen(t *testing.T) {
	repo := &mockNotificationRepository{}
	d := newTestDispatcher(preferenceOf(nil, errors.New("timeout")), repo, noon)

	result, err := d.Dispatch(context.Background(), "sup-1", OrderStatusEvent(sample, domain.OrderStatusConfirmed))
	require.NoError(t, err)
	assert.False(t, result.Suppressed)
	assert.Len(t, repo.inserted, 1)
}

func TestDispatch_InAppDisabled(t *testing.T) {
	pref := domain.DefaultNotificationPreference("sup-1")
	pref.InApp = false
	repo := &mockNotificationRepository{}
	d := newTestDispatcher(preferenceOf(&pref, nil), repo, noon)

	result, err := d.Dispatch(context.Background(), "sup-1", OrderStatusEvent(sample, domain.OrderStatusCancelled))
	require.NoError(t, err)
	assert.True(t, result.Suppressed)
	assert.Equal(t, ReasonInAppDisabled, result.Reason)
	assert.Empty(t, repo.inserted)
}

func TestDispatch_CategoryDisabled(t *testing.T) {
	pref := domain.DefaultNotificationPreference("sup-1")
	pref.Categories[domain.CategoryPaymentReceived] = false
	repo := &mockNotificationRepository{}
	d := newTestDispatcher(preferenceOf(&pref, nil), repo, noon)

	result, err := d.Dispatch(context.Background(), "sup-1", PaymentStatusEvent(sample, domain.PaymentStatusPaid))
	require.NoError(t, err)
	assert.True(t, result.Suppressed)
	assert.Equal(t, ReasonCategoryDisabled, result.Reason)
	assert.Empty(t, repo.inserted)
}

func TestDispatch_QuietHours_MediumSuppressed(t *testing.T) {
	repo := &mockNotificationRepository{}
	d := newTestDispatcher(preferenceOf(quietPreference(), nil), repo, midnight)

	result, err := d.Dispatch(context.Background(), "sup-1", OrderStatusEvent(sample, domain.OrderStatusConfirmed))
	require.NoError(t, err)
	assert.True(t, result.Suppressed)
	assert.Equal(t, ReasonQuietHours, result.Reason)
	assert.Empty(t, repo.inserted)
}

func TestDispatch_QuietHours_HighBypasses(t *testing.T) {
	repo := &mockNotificationRepository{}
	d := newTestDispatcher(preferenceOf(quietPreference(), nil), repo, midnight)

	result, err := d.Dispatch(context.Background(), "sup-1", OrderStatusEvent(sample, domain.OrderStatusOutForDelivery))
	require.NoError(t, err)
	assert.False(t, result.Suppressed)
	assert.Len(t, repo.inserted, 1)
}

func TestDispatch_QuietHours_UsesConfiguredLocation(t *testing.T) {
	// 12:00 UTC is 23:00 in UTC+11, inside the 22:00-07:00 window.
	repo := &mockNotificationRepository{}
	d := newTestDispatcher(preferenceOf(quietPreference(), nil), repo, noon)
	d.location = time.FixedZone("UTC+11", 11*60*60)

	result, err := d.Dispatch(context.Background(), "sup-1", OrderStatusEvent(sample, domain.OrderStatusDelivered))
	require.NoError(t, err)
	assert.True(t, result.Suppressed)
	assert.Equal(t, ReasonQuietHours, result.Reason)
}

func TestDispatch_MalformedQuietHours_Delivers(t *testing.T) {
	pref := quietPreference()
	pref.QuietHoursStart = "late"
	repo := &mockNotificationRepository{}
	d := newTestDispatcher(preferenceOf(pref, nil), repo, midnight)

	result, err := d.Dispatch(context.Background(), "sup-1", OrderStatusEvent(sample, domain.OrderStatusPreparing))
	require.NoError(t, err)
	assert.False(t, result.Suppressed)
}

func TestDispatch_EmailDisabled_NoFollowUp(t *testing.T) {
	pref := domain.DefaultNotificationPreference("sup-1")
	pref.Email = false
	repo := &mockNotificationRepository{}
	d := newTestDispatcher(preferenceOf(&pref, nil), repo, noon)

	_, err := d.Dispatch(context.Background(), "sup-1", PaymentStatusEvent(sample, domain.PaymentStatusFailed))
	require.NoError(t, err)
	require.Len(t, repo.inserted, 1)
	assert.False(t, repo.inserted[0].EmailFollowUp)
}

func TestDispatch_InsertFailure(t *testing.T) {
	repo := &mockNotificationRepository{
		InsertFunc: func(ctx context.Context, n domain.Notification) error {
			return errors.New("disk full")
		},
	}
	d := newTestDispatcher(preferenceOf(nil, apperrors.NewNotFoundError("none")), repo, noon)

	result, err := d.Dispatch(context.Background(), "sup-1", OrderStatusEvent(sample, domain.OrderStatusPending))
	assert.Empty(t, result.NotificationID)
	_, ok := apperrors.IsPersistenceError(err)
	assert.True(t, ok)
}
