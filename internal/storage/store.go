// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/khataplus/khataplus/internal/models"
)

// ErrNotFound is returned when a record does not exist or is not visible
// to the requesting owner.
var ErrNotFound = errors.New("record not found")

// Scope selects which inventory record set a query runs against: the
// user's personal records (GroupID empty) or a shared sync group's.
// The two sets never mix.
type Scope struct {
	OwnerID string
	GroupID string
}

// Personal reports whether the scope is the owner's private record set.
func (s Scope) Personal() bool { return s.GroupID == "" }

// Store defines the record-store collaborator. All list operations return
// records ordered by creation time descending, the order the UI consumes.
// Update and delete operations are scoped by owner on top of the record id,
// so a user can never touch another owner's records. This abstraction
// allows swapping storage backends without changing the service layer.
type Store interface {
	// Users.
	CreateUser(ctx context.Context, user *models.User) error
	// GetUserByEmail returns (nil, nil) when no user has the email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// Contacts. Deleting a contact cascades its entries.
	CreateContact(ctx context.Context, contact *models.Contact) error
	ListContacts(ctx context.Context, ownerID string) ([]models.Contact, error)
	UpdateContact(ctx context.Context, contact *models.Contact) error
	DeleteContact(ctx context.Context, id, ownerID string) error

	// Entries.
	CreateEntry(ctx context.Context, entry *models.Entry) error
	ListEntries(ctx context.Context, ownerID string) ([]models.Entry, error)
	UpdateEntry(ctx context.Context, entry *models.Entry) error
	DeleteEntry(ctx context.Context, id, ownerID string) error

	// Inventory items and movements, selected by scope.
	CreateItem(ctx context.Context, item *models.InventoryItem) error
	ListItems(ctx context.Context, scope Scope) ([]models.InventoryItem, error)
	UpdateItem(ctx context.Context, item *models.InventoryItem) error
	DeleteItem(ctx context.Context, id, ownerID string) error
	CreateMovement(ctx context.Context, movement *models.InventoryMovement) error
	ListMovements(ctx context.Context, scope Scope) ([]models.InventoryMovement, error)
	UpdateMovement(ctx context.Context, movement *models.InventoryMovement) error
	DeleteMovement(ctx context.Context, id, ownerID string) error

	// CreateInvoiceBatch persists an invoice's movements and entries in a
	// single transaction. Either every record commits or none does; a
	// ledger with movements but no matching entries is never acceptable.
	CreateInvoiceBatch(ctx context.Context, movements []models.InventoryMovement, entries []models.Entry) error

	// Sync groups and memberships.
	// CreateGroup also inserts the owner's membership in the same
	// transaction.
	CreateGroup(ctx context.Context, group *models.InventorySyncGroup) error
	// GetGroupByJoinCode returns ErrNotFound for an unknown code.
	GetGroupByJoinCode(ctx context.Context, code string) (*models.InventorySyncGroup, error)
	// GetGroupForUser returns (nil, nil) when the user has no active group.
	GetGroupForUser(ctx context.Context, userID string) (*models.InventorySyncGroup, error)
	AddGroupMember(ctx context.Context, groupID, userID, role string) error
	RemoveGroupMember(ctx context.Context, groupID, userID string) error
	ListGroupMembers(ctx context.Context, groupID string) ([]models.GroupMember, error)
	UpdateGroupName(ctx context.Context, groupID, ownerID, name string) error
	DeleteGroup(ctx context.Context, groupID, ownerID string) error

	// Close releases any resources held by the store.
	Close() error
}
