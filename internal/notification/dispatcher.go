package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"supplierhub/internal/domain"
	apperrors "supplierhub/internal/errors"
)

type PreferenceRepository interface {
	FindBySupplierID(ctx context.Context, supplierID string) (*domain.NotificationPreference, error)
}

type NotificationRepository interface {
	Insert(ctx context.Context, n domain.Notification) error
}

type SuppressionReason string

const (
	ReasonInAppDisabled    SuppressionReason = "in_app_disabled"
	ReasonCategoryDisabled SuppressionReason = "category_disabled"
	ReasonQuietHours       SuppressionReason = "quiet_hours"
)

type DispatchResult struct {
	NotificationID string
	Suppressed     bool
	Reason         SuppressionReason
}

type Dispatcher struct {
	preferences   PreferenceRepository
	notifications NotificationRepository
	logger        *zap.Logger
	location      *time.Location
	now           func() time.Time
	newID         func() string
}

func NewDispatcher(
	preferences PreferenceRepository,
	notifications NotificationRepository,
	logger *zap.Logger,
	location *time.Location,
) *Dispatcher {
	if location == nil {
		location = time.Local
	}
	return &Dispatcher{
		preferences:   preferences,
		notifications: notifications,
		logger:        logger,
		location:      location,
		now:           time.Now,
		newID:         uuid.NewString,
	}
}

// Dispatch applies the supplier's preferences to e and persists the
// notification unless it is suppressed. Preference lookup failures fall back
// to the default preference; only a failed insert is returned as an error.
func (d *Dispatcher) Dispatch(ctx context.Context, supplierID string, e Event) (DispatchResult, error) {
	pref := d.preferenceFor(ctx, supplierID)
	now := d.now()

	if reason, suppressed := d.suppression(pref, e, now); suppressed {
		d.logger.Info("notification suppressed",
			zap.String("supplierId", supplierID),
			zap.String("category", string(e.Category)),
			zap.String("reason", string(reason)),
		)
		return DispatchResult{Suppressed: true, Reason: reason}, nil
	}

	title, message := render(e)
	n := domain.Notification{
		ID:            d.newID(),
		SupplierID:    supplierID,
		Type:          e.Type,
		SubType:       e.SubType,
		Title:         title,
		Message:       message,
		Priority:      e.Priority,
		OrderID:       optional(e.OrderID),
		ProductID:     optional(e.ProductID),
		EmailFollowUp: e.Priority == domain.PriorityHigh && pref.Email,
		Data:          e.Data,
		CreatedAt:     now.UTC(),
	}

	if err := d.notifications.Insert(ctx, n); err != nil {
		d.logger.Error("failed to persist notification",
			zap.String("supplierId", supplierID),
			zap.String("category", string(e.Category)),
			zap.Error(err),
		)
		return DispatchResult{}, apperrors.NewPersistenceError("inserting notification", err)
	}

	d.logger.Info("notification dispatched",
		zap.String("notificationId", n.ID),
		zap.String("supplierId", supplierID),
		zap.String("category", string(e.Category)),
		zap.String("priority", string(e.Priority)),
		zap.Bool("emailFollowUp", n.EmailFollowUp),
	)

	return DispatchResult{NotificationID: n.ID}, nil
}

func (d *Dispatcher) preferenceFor(ctx context.Context, supplierID string) domain.NotificationPreference {
	pref, err := d.preferences.FindBySupplierID(ctx, supplierID)
	if err == nil && pref != nil {
		return *pref
	}
	if err != nil {
		if _, ok := apperrors.IsNotFoundError(err); !ok {
			d.logger.Warn("falling back to default notification preferences",
				zap.String("supplierId", supplierID),
				zap.Error(apperrors.NewPreferenceLookupFailure(supplierID, err)),
			)
		}
	}
	return domain.DefaultNotificationPreference(supplierID)
}

func (d *Dispatcher) suppression(pref domain.NotificationPreference, e Event, now time.Time) (SuppressionReason, bool) {
	if !pref.InApp {
		return ReasonInAppDisabled, true
	}
	if !pref.CategoryEnabled(e.Category) {
		return ReasonCategoryDisabled, true
	}
	if e.Priority == domain.PriorityHigh {
		return "", false
	}

	quiet, err := pref.InQuietHours(now.In(d.location))
	if err != nil {
		d.logger.Warn("ignoring malformed quiet hours", zap.String("supplierId", pref.SupplierID), zap.Error(err))
		return "", false
	}
	if quiet {
		return ReasonQuietHours, true
	}
	return "", false
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
