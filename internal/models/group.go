package models

// Role of a user inside an inventory sync group.
const (
	RoleOwner  = "owner"
	RoleMember = "member"
)

// InventorySyncGroup is a shared inventory scope. Items and movements
// created while a group is active belong to the group, so every member
// sees the same stock.
type InventorySyncGroup struct {
	// ID is the unique identifier for the group (UUID format).
	ID string `json:"id"`

	// OwnerID is the user who created the group. Only the owner can rename
	// or delete it.
	OwnerID string `json:"owner_id"`

	// Name is the display name of the group.
	Name string `json:"name"`

	// JoinCode is the human-enterable code other users type to join.
	// Six characters, globally unique, drawn from an alphabet without
	// easily-confused glyphs.
	JoinCode string `json:"join_code"`

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64 `json:"created_at"`
}

// GroupMember links one user to a group with a role. A user has at most
// one active membership.
type GroupMember struct {
	GroupID string `json:"group_id"`
	UserID  string `json:"user_id"`

	// Role is RoleOwner or RoleMember.
	Role string `json:"role"`

	// DisplayName is the member's display name, joined in from the users
	// table for listing.
	DisplayName string `json:"display_name,omitempty"`

	// CreatedAt is the Unix timestamp when the membership was created.
	CreatedAt int64 `json:"created_at"`
}
