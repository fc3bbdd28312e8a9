// Package stock derives stock levels from inventory movement sets.
// Like the ledger package it is purely functional: levels are recomputed
// from the full movement set on every refresh.
package stock

import (
	"github.com/shopspring/decimal"

	"github.com/khataplus/khataplus/internal/models"
)

// LowStockThreshold is the level at or below which an in-stock item is
// flagged as running low.
var LowStockThreshold = decimal.NewFromInt(5)

// ItemLevel is an inventory item annotated with its derived stock level.
type ItemLevel struct {
	models.InventoryItem
	Stock decimal.Decimal `json:"stock"`
}

// Totals aggregates stock levels across all items.
type Totals struct {
	// TotalItems is the number of items in scope.
	TotalItems int `json:"total_items"`

	// TotalUnits is the summed stock level across items.
	TotalUnits decimal.Decimal `json:"total_units"`

	// LowStock counts items with 0 < stock <= LowStockThreshold.
	LowStock int `json:"low_stock"`

	// OutOfStock counts items with stock <= 0. Negative stock is possible
	// (over-withdrawal) and counts as out of stock.
	OutOfStock int `json:"out_of_stock"`
}

// signed returns the movement quantity with its sign applied:
// positive for "in", negative for "out".
func signed(m models.InventoryMovement) decimal.Decimal {
	if m.Type == models.MovementIn {
		return m.Quantity
	}
	return m.Quantity.Neg()
}

// Level computes Σ(in) − Σ(out) over the given movements.
// An empty movement set yields zero.
func Level(movements []models.InventoryMovement) decimal.Decimal {
	total := decimal.Zero
	for _, m := range movements {
		total = total.Add(signed(m))
	}
	return total
}

// ItemLevels derives the stock level of every item from the full movement
// set. Movements referencing unknown items are ignored.
func ItemLevels(items []models.InventoryItem, movements []models.InventoryMovement) []ItemLevel {
	byItem := make(map[string]decimal.Decimal, len(items))
	for _, m := range movements {
		byItem[m.ItemID] = byItem[m.ItemID].Add(signed(m))
	}

	levels := make([]ItemLevel, len(items))
	for i, item := range items {
		levels[i] = ItemLevel{InventoryItem: item, Stock: byItem[item.ID]}
	}
	return levels
}

// Summarize aggregates item levels into inventory totals.
func Summarize(levels []ItemLevel) Totals {
	t := Totals{TotalItems: len(levels), TotalUnits: decimal.Zero}
	for _, l := range levels {
		t.TotalUnits = t.TotalUnits.Add(l.Stock)
		switch {
		case l.Stock.IsPositive() && l.Stock.LessThanOrEqual(LowStockThreshold):
			t.LowStock++
		case !l.Stock.IsPositive():
			t.OutOfStock++
		}
	}
	return t
}
