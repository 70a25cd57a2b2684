package domain

import "time"

// Product is the stock-relevant slice of a supplier product.
type Product struct {
	ID            string
	SupplierID    string
	Name          string
	StockQuantity int
	IsAvailable   bool
	UpdatedAt     time.Time
}

// AfterDecrement returns the stock level after removing quantity units. Stock
// never goes below zero and a product with no stock left is unavailable.
func (p Product) AfterDecrement(quantity int) (stock int, available bool) {
	stock = p.StockQuantity - quantity
	if stock < 0 {
		stock = 0
	}
	available = p.IsAvailable
	if stock == 0 {
		available = false
	}
	return stock, available
}
