package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProduct_AfterDecrement(t *testing.T) {
	tests := []struct {
		name          string
		stock         int
		available     bool
		quantity      int
		wantStock     int
		wantAvailable bool
	}{
		{name: "partial", stock: 10, available: true, quantity: 3, wantStock: 7, wantAvailable: true},
		{name: "exact", stock: 5, available: true, quantity: 5, wantStock: 0, wantAvailable: false},
		{name: "over decrement clamps to zero", stock: 2, available: true, quantity: 9, wantStock: 0, wantAvailable: false},
		{name: "already empty", stock: 0, available: false, quantity: 1, wantStock: 0, wantAvailable: false},
		{name: "hidden product stays hidden", stock: 10, available: false, quantity: 1, wantStock: 9, wantAvailable: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Product{ID: "p-1", StockQuantity: tt.stock, IsAvailable: tt.available}

			stock, available := p.AfterDecrement(tt.quantity)

			assert.Equal(t, tt.wantStock, stock)
			assert.Equal(t, tt.wantAvailable, available)
		})
	}
}

func TestProduct_RepeatedDecrementsNeverNegative(t *testing.T) {
	p := Product{ID: "p-1", StockQuantity: 7, IsAvailable: true}

	for _, q := range []int{3, 3, 3, 3} {
		p.StockQuantity, p.IsAvailable = p.AfterDecrement(q)
		assert.GreaterOrEqual(t, p.StockQuantity, 0)
		assert.Equal(t, p.StockQuantity > 0, p.IsAvailable)
	}
	assert.Equal(t, 0, p.StockQuantity)
}
