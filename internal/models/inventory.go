package models

import "github.com/shopspring/decimal"

// MovementType is the direction of an inventory movement.
type MovementType string

const (
	// MovementIn adds stock (purchase, restock).
	MovementIn MovementType = "in"

	// MovementOut removes stock (sale, consumption).
	MovementOut MovementType = "out"
)

// Valid reports whether t is one of the known movement types.
func (t MovementType) Valid() bool {
	return t == MovementIn || t == MovementOut
}

// Units is the default unit-of-measure vocabulary offered to users.
// Free-text units are still accepted; this list only feeds pickers.
var Units = []string{
	"NOS", "PCS", "KG", "G", "MG", "L", "ML", "MTR", "CM", "MM", "FT", "IN",
	"BOX", "PACK", "DOZEN", "SET", "BAG", "BOTTLE", "CAN", "JAR", "ROLL",
	"PAIR", "CARTON", "TON",
}

// InventoryItem is a stock-tracked item. It is owned either by a single
// user (GroupID empty) or by a sync group, never both.
type InventoryItem struct {
	// ID is the unique identifier for the item (UUID format).
	ID string `json:"id"`

	// OwnerID is the user who created the item.
	OwnerID string `json:"owner_id"`

	// GroupID is the sync group the item belongs to, or empty for a
	// personal item.
	GroupID string `json:"group_id,omitempty"`

	// Name is the display name. Must be non-empty after trimming.
	Name string `json:"name"`

	// Unit is the unit of measure (upper-cased free text, e.g. "NOS", "KG").
	Unit string `json:"unit,omitempty"`

	// CreatedAt is the Unix timestamp when the item was created.
	CreatedAt int64 `json:"created_at"`
}

// InventoryMovement is an immutable stock event belonging to exactly one
// item. Its GroupID must match the item's scope.
type InventoryMovement struct {
	// ID is the unique identifier for the movement (UUID format).
	ID string `json:"id"`

	// OwnerID is the user who recorded the movement.
	OwnerID string `json:"owner_id"`

	// GroupID mirrors the item's group scope, or empty for personal scope.
	GroupID string `json:"group_id,omitempty"`

	// ItemID is the inventory item this movement belongs to.
	ItemID string `json:"item_id"`

	// Type is the direction of the movement.
	Type MovementType `json:"type"`

	// Quantity is the moved quantity. Always positive; direction is carried
	// by Type.
	Quantity decimal.Decimal `json:"quantity"`

	// Note is an optional free-text description. Movements written by the
	// invoice reconciler carry the invoice tag encoding here.
	Note string `json:"note,omitempty"`

	// MovementDate is the calendar date of the movement in YYYY-MM-DD form.
	MovementDate string `json:"movement_date"`

	// CreatedAt is the Unix timestamp when the movement was recorded.
	CreatedAt int64 `json:"created_at"`
}
