package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"supplierhub/internal/domain"
	"supplierhub/internal/errors"
)

type MySQLMasterOrderRepository struct {
	db *sql.DB
}

func NewMySQLMasterOrderRepository(db *sql.DB) *MySQLMasterOrderRepository {
	return &MySQLMasterOrderRepository{db: db}
}

func (r *MySQLMasterOrderRepository) FindByID(ctx context.Context, id string) (*domain.MasterOrder, error) {
	query := `
		SELECT id, buyerId, buyerName, buyerEmail, buyerPhone,
		       subtotal, deliveryFee, tax, discount, total,
		       status, paymentStatus, subOrderIds,
		       createdAt, updatedAt, confirmedAt, deliveredAt
		FROM MasterOrders
		WHERE id = ?
	`

	var (
		m                        domain.MasterOrder
		subOrderIDs              []byte
		confirmedAt, deliveredAt sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&m.ID, &m.Buyer.ID, &m.Buyer.Name, &m.Buyer.Email, &m.Buyer.Phone,
		&m.Totals.Subtotal, &m.Totals.DeliveryFee, &m.Totals.Tax, &m.Totals.Discount, &m.Totals.Total,
		&m.Status, &m.PaymentStatus, &subOrderIDs,
		&m.CreatedAt, &m.UpdatedAt, &confirmedAt, &deliveredAt,
	)

	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("master order with id %s not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying master order by id: %w", err)
	}

	if len(subOrderIDs) > 0 {
		if err := json.Unmarshal(subOrderIDs, &m.SubOrderIDs); err != nil {
			return nil, fmt.Errorf("decoding sub order ids: %w", err)
		}
	}
	m.ConfirmedAt = timePtr(confirmedAt)
	m.DeliveredAt = timePtr(deliveredAt)

	return &m, nil
}

// UpdateAggregate writes only the fields present in agg, plus updatedAt.
func (r *MySQLMasterOrderRepository) UpdateAggregate(ctx context.Context, id string, agg domain.MasterOrderAggregate) error {
	sets := []string{"updatedAt = ?"}
	args := []any{agg.UpdatedAt}

	if agg.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, string(*agg.Status))
	}
	if agg.PaymentStatus != nil {
		sets = append(sets, "paymentStatus = ?")
		args = append(args, string(*agg.PaymentStatus))
	}
	if agg.ConfirmedAt != nil {
		sets = append(sets, "confirmedAt = ?")
		args = append(args, *agg.ConfirmedAt)
	}
	if agg.DeliveredAt != nil {
		sets = append(sets, "deliveredAt = ?")
		args = append(args, *agg.DeliveredAt)
	}
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE MasterOrders SET %s WHERE id = ?`, strings.Join(sets, ", "))

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating master order aggregate: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("master order with id %s not found", id))
	}

	return nil
}
