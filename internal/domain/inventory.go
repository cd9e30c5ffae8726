package domain

import "time"

// InventoryItem tracks the stock level of a single SKU.
type InventoryItem struct {
	ID        int64
	SKUCode   string
	Quantity  int
	UpdatedAt time.Time
}

// InStock reports whether at least one unit is available.
func (i InventoryItem) InStock() bool {
	return i.Quantity > 0
}
