package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"supplierhub/internal/domain"
	"supplierhub/internal/errors"
)

type MySQLPreferenceRepository struct {
	db *sql.DB
}

func NewMySQLPreferenceRepository(db *sql.DB) *MySQLPreferenceRepository {
	return &MySQLPreferenceRepository{db: db}
}

func (r *MySQLPreferenceRepository) FindBySupplierID(ctx context.Context, supplierID string) (*domain.NotificationPreference, error) {
	query := `
		SELECT supplierId, categories, inAppNotifications, emailNotifications, smsNotifications,
		       quietHoursEnabled, quietHoursStart, quietHoursEnd
		FROM NotificationPreferences
		WHERE supplierId = ?
	`

	var (
		pref       domain.NotificationPreference
		categories []byte
	)
	err := r.db.QueryRowContext(ctx, query, supplierID).Scan(
		&pref.SupplierID, &categories, &pref.InApp, &pref.Email, &pref.SMS,
		&pref.QuietHoursEnabled, &pref.QuietHoursStart, &pref.QuietHoursEnd,
	)

	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("notification preferences for supplier %s not found", supplierID))
	}
	if err != nil {
		return nil, fmt.Errorf("querying notification preferences: %w", err)
	}

	pref.Categories = map[domain.NotificationCategory]bool{}
	if len(categories) > 0 {
		if err := json.Unmarshal(categories, &pref.Categories); err != nil {
			return nil, fmt.Errorf("decoding notification categories: %w", err)
		}
	}

	return &pref, nil
}
