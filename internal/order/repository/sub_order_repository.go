package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"supplierhub/internal/domain"
	"supplierhub/internal/errors"
)

const subOrderColumns = `
	id, masterOrderId, supplierId, supplierName,
	buyerId, buyerName, buyerEmail, buyerPhone,
	items, subtotal, deliveryFee, tax, discount, total,
	status, paymentStatus, paymentMethod, deliveryAddress, orderNotes,
	createdAt, updatedAt, confirmedAt, deliveredAt, stockDecrementedAt`

type MySQLSubOrderRepository struct {
	db *sql.DB
}

func NewMySQLSubOrderRepository(db *sql.DB) *MySQLSubOrderRepository {
	return &MySQLSubOrderRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubOrder(row rowScanner) (*domain.SubOrder, error) {
	var (
		s                                            domain.SubOrder
		items                                        []byte
		notes                                        sql.NullString
		confirmedAt, deliveredAt, stockDecrementedAt sql.NullTime
	)

	err := row.Scan(
		&s.ID, &s.MasterOrderID, &s.SupplierID, &s.SupplierName,
		&s.Buyer.ID, &s.Buyer.Name, &s.Buyer.Email, &s.Buyer.Phone,
		&items, &s.Totals.Subtotal, &s.Totals.DeliveryFee, &s.Totals.Tax, &s.Totals.Discount, &s.Totals.Total,
		&s.Status, &s.PaymentStatus, &s.PaymentMethod, &s.DeliveryAddress, &notes,
		&s.CreatedAt, &s.UpdatedAt, &confirmedAt, &deliveredAt, &stockDecrementedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(items) > 0 {
		if err := json.Unmarshal(items, &s.Items); err != nil {
			return nil, fmt.Errorf("decoding sub order items: %w", err)
		}
	}
	s.OrderNotes = notes.String
	s.ConfirmedAt = timePtr(confirmedAt)
	s.DeliveredAt = timePtr(deliveredAt)
	s.StockDecrementedAt = timePtr(stockDecrementedAt)

	return &s, nil
}

func (r *MySQLSubOrderRepository) FindByID(ctx context.Context, id string) (*domain.SubOrder, error) {
	query := `SELECT ` + subOrderColumns + ` FROM SubOrders WHERE id = ?`

	s, err := scanSubOrder(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("sub order with id %s not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying sub order by id: %w", err)
	}

	return s, nil
}

func (r *MySQLSubOrderRepository) FindByMasterOrderID(ctx context.Context, masterOrderID string) ([]domain.SubOrder, error) {
	query := `SELECT ` + subOrderColumns + ` FROM SubOrders WHERE masterOrderId = ? ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, masterOrderID)
	if err != nil {
		return nil, fmt.Errorf("querying sub orders by master order: %w", err)
	}
	defer rows.Close()

	var subOrders []domain.SubOrder
	for rows.Next() {
		s, err := scanSubOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning sub order row: %w", err)
		}
		subOrders = append(subOrders, *s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sub order rows: %w", err)
	}

	return subOrders, nil
}

// UpdateStatus writes one transition. Nil timestamps and a nil payment
// status keep the stored values.
func (r *MySQLSubOrderRepository) UpdateStatus(ctx context.Context, id string, update domain.SubOrderUpdate) error {
	query := `
		UPDATE SubOrders
		SET status = ?,
		    paymentStatus = COALESCE(?, paymentStatus),
		    updatedAt = ?,
		    confirmedAt = COALESCE(?, confirmedAt),
		    deliveredAt = COALESCE(?, deliveredAt)
		WHERE id = ?
	`

	var paymentStatus any
	if update.PaymentStatus != nil {
		paymentStatus = string(*update.PaymentStatus)
	}

	result, err := r.db.ExecContext(ctx, query,
		string(update.Status), paymentStatus, update.UpdatedAt,
		nullTime(update.ConfirmedAt), nullTime(update.DeliveredAt), id,
	)
	if err != nil {
		return fmt.Errorf("updating sub order status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("sub order with id %s not found", id))
	}

	return nil
}

func (r *MySQLSubOrderRepository) IsStockDecremented(ctx context.Context, id string) (bool, error) {
	var at sql.NullTime
	err := r.db.QueryRowContext(ctx, `SELECT stockDecrementedAt FROM SubOrders WHERE id = ?`, id).Scan(&at)
	if err == sql.ErrNoRows {
		return false, errors.NewNotFoundError(fmt.Sprintf("sub order with id %s not found", id))
	}
	if err != nil {
		return false, fmt.Errorf("querying stock ledger: %w", err)
	}
	return at.Valid, nil
}

// MarkStockDecremented claims the ledger entry. Only the first caller sees
// true; the conditional UPDATE is what makes concurrent claims safe.
func (r *MySQLSubOrderRepository) MarkStockDecremented(ctx context.Context, id string, at time.Time) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE SubOrders SET stockDecrementedAt = ? WHERE id = ? AND stockDecrementedAt IS NULL`,
		at, id,
	)
	if err != nil {
		return false, fmt.Errorf("marking stock ledger: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("getting rows affected: %w", err)
	}

	return rowsAffected == 1, nil
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
