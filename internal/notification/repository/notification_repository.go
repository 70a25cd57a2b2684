package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"supplierhub/internal/domain"
)

type MySQLNotificationRepository struct {
	db *sql.DB
}

func NewMySQLNotificationRepository(db *sql.DB) *MySQLNotificationRepository {
	return &MySQLNotificationRepository{db: db}
}

func (r *MySQLNotificationRepository) Insert(ctx context.Context, n domain.Notification) error {
	data := n.Data
	if data == nil {
		data = map[string]any{}
	}
	encoded, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encoding notification data: %w", err)
	}

	query := `
		INSERT INTO Notifications (
			id, supplierId, type, subType, title, message, priority,
			orderId, productId, isRead, isArchived, clicked, emailFollowUp, data, createdAt
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.ExecContext(ctx, query,
		n.ID, n.SupplierID, string(n.Type), n.SubType, n.Title, n.Message, string(n.Priority),
		nullString(n.OrderID), nullString(n.ProductID),
		n.IsRead, n.IsArchived, n.Clicked, n.EmailFollowUp, encoded, n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting notification: %w", err)
	}

	return nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
