package models

// Contact represents a party (customer or supplier) whose running balance
// the owner tracks.
type Contact struct {
	// ID is the unique identifier for the contact (UUID format).
	ID string `json:"id"`

	// OwnerID is the user who owns this contact. Contacts are never shared.
	OwnerID string `json:"owner_id"`

	// Name is the display name. Must be non-empty after trimming.
	Name string `json:"name"`

	// Phone is an optional phone number.
	Phone string `json:"phone,omitempty"`

	// CreatedAt is the Unix timestamp when the contact was created.
	CreatedAt int64 `json:"created_at"`
}
