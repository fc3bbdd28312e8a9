package models

import "github.com/shopspring/decimal"

// EntryType is the direction of a ledger entry.
type EntryType string

const (
	// EntryGave means the owner gave money or goods: the contact owes more,
	// "you will get" increases.
	EntryGave EntryType = "gave"

	// EntryGot means the owner received money or goods: the contact owes
	// less, "you will get" decreases.
	EntryGot EntryType = "got"
)

// Valid reports whether t is one of the known entry types.
func (t EntryType) Valid() bool {
	return t == EntryGave || t == EntryGot
}

// Entry is an immutable financial event belonging to exactly one contact
// and one owner.
type Entry struct {
	// ID is the unique identifier for the entry (UUID format).
	ID string `json:"id"`

	// OwnerID is the user who recorded the entry.
	OwnerID string `json:"owner_id"`

	// ContactID is the contact this entry belongs to.
	ContactID string `json:"contact_id"`

	// Type is the direction of the entry.
	Type EntryType `json:"type"`

	// Amount is the entry amount. Always positive; direction is carried by
	// Type, not by sign.
	Amount decimal.Decimal `json:"amount"`

	// Note is an optional free-text description.
	Note string `json:"note,omitempty"`

	// EntryDate is the calendar date of the event in YYYY-MM-DD form.
	// Distinct from CreatedAt: a user can backdate an entry.
	EntryDate string `json:"entry_date"`

	// CreatedAt is the Unix timestamp when the entry was recorded.
	CreatedAt int64 `json:"created_at"`
}
