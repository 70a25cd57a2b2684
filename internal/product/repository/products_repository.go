package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"supplierhub/internal/domain"
	"supplierhub/internal/errors"
)

type MySQLRepository struct {
	db *sql.DB
}

func NewMySQLRepository(db *sql.DB) *MySQLRepository {
	return &MySQLRepository{db: db}
}

func (r *MySQLRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	query := `
		SELECT id, supplierId, name, stockQuantity, isAvailable, updatedAt
		FROM Products
		WHERE id = ?
	`

	var p domain.Product
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.SupplierID, &p.Name, &p.StockQuantity, &p.IsAvailable, &p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("product with id %s not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying product by id: %w", err)
	}

	return &p, nil
}

// DecrementStock removes quantity units from a product inside its own
// transaction. The row is locked with SELECT ... FOR UPDATE so concurrent
// decrements of the same product serialize instead of losing updates.
func (r *MySQLRepository) DecrementStock(ctx context.Context, id string, quantity int) (*domain.Product, error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		return nil, fmt.Errorf("beginning stock transaction: %w", err)
	}
	// MySQL ignores rollback after commit.
	defer tx.Rollback()

	p, err := r.findByIDForUpdate(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	stock, available := p.AfterDecrement(quantity)
	now := time.Now().UTC()

	_, err = tx.ExecContext(ctx,
		`UPDATE Products SET stockQuantity = ?, isAvailable = ?, updatedAt = ? WHERE id = ?`,
		stock, available, now, id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating product stock: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing stock transaction: %w", err)
	}

	p.StockQuantity = stock
	p.IsAvailable = available
	p.UpdatedAt = now
	return p, nil
}

func (r *MySQLRepository) findByIDForUpdate(ctx context.Context, tx *sql.Tx, id string) (*domain.Product, error) {
	query := `
		SELECT id, supplierId, name, stockQuantity, isAvailable, updatedAt
		FROM Products
		WHERE id = ?
		FOR UPDATE
	`

	var p domain.Product
	err := tx.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.SupplierID, &p.Name, &p.StockQuantity, &p.IsAvailable, &p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("product with id %s not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("locking product: %w", err)
	}

	return &p, nil
}
