package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/khataplus/khataplus/internal/invoice"
	"github.com/khataplus/khataplus/internal/models"
	"github.com/khataplus/khataplus/internal/notify"
	"github.com/khataplus/khataplus/internal/storage"
)

// InvoiceService turns draft invoices into consistent ledger and inventory
// records, and reconstructs invoice history from the movement stream.
type InvoiceService struct {
	store     storage.Store
	inventory *InventoryService
	hub       *notify.Hub
	logger    *slog.Logger
	now       func() time.Time
}

// NewInvoiceService creates a new invoice service.
func NewInvoiceService(store storage.Store, inventory *InventoryService, hub *notify.Hub, logger *slog.Logger) *InvoiceService {
	return &InvoiceService{
		store:     store,
		inventory: inventory,
		hub:       hub,
		logger:    logger,
		now:       time.Now,
	}
}

// Create reconciles a draft invoice and persists the resulting movements
// and entries in a single transaction. The party is resolved to a ledger
// contact, created on first use if the name is new.
func (s *InvoiceService) Create(ctx context.Context, userID string, draft invoice.Draft) (*invoice.Batch, error) {
	scope, err := s.inventory.ActiveScope(ctx, userID)
	if err != nil {
		return nil, err
	}

	items, err := s.store.ListItems(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	movements, err := s.store.ListMovements(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to list movements: %w", err)
	}

	batch, err := invoice.Reconcile(draft, items, movements, s.now())
	if err != nil {
		return nil, mapReconcileErr(err)
	}

	contact, err := s.resolveContact(ctx, userID, batch.Party)
	if err != nil {
		return nil, err
	}

	for i := range batch.Movements {
		batch.Movements[i].OwnerID = userID
		batch.Movements[i].GroupID = scope.GroupID
	}
	for i := range batch.Entries {
		batch.Entries[i].OwnerID = userID
		batch.Entries[i].ContactID = contact.ID
	}

	if err := s.store.CreateInvoiceBatch(ctx, batch.Movements, batch.Entries); err != nil {
		return nil, fmt.Errorf("failed to persist invoice: %w", err)
	}

	s.hub.Publish("inventory_movements", scopeKey(scope))
	s.hub.Publish("entries", userID)
	s.logger.Info("Invoice recorded",
		"invoice_id", batch.InvoiceID,
		"kind", batch.Kind,
		"total", batch.Total,
		"outstanding", batch.Outstanding,
		"user_id", userID,
	)
	return batch, nil
}

// History reconstructs past invoices from tagged movements in the user's
// active scope, newest first. Kind narrows to purchases or sales when set.
func (s *InvoiceService) History(ctx context.Context, userID string, kind models.InvoiceKind) ([]models.InvoiceSummary, error) {
	scope, err := s.inventory.ActiveScope(ctx, userID)
	if err != nil {
		return nil, err
	}

	movements, err := s.store.ListMovements(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to list movements: %w", err)
	}

	summaries := invoice.Reconstruct(movements)
	if kind != "" {
		if !kind.Valid() {
			return nil, invalidf("invoice kind must be %q or %q", models.InvoicePurchase, models.InvoiceSale)
		}
		summaries = invoice.FilterKind(summaries, kind)
	}
	return summaries, nil
}

// resolveContact finds the ledger contact for an invoice party by
// case-insensitive name match, creating one when the party is new.
func (s *InvoiceService) resolveContact(ctx context.Context, ownerID, party string) (*models.Contact, error) {
	contacts, err := s.store.ListContacts(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	for i := range contacts {
		// Stored names can carry stray whitespace (imported records); trim
		// before matching so such a contact is reused, not duplicated.
		if strings.EqualFold(strings.TrimSpace(contacts[i].Name), party) {
			return &contacts[i], nil
		}
	}

	contact := &models.Contact{OwnerID: ownerID, Name: party}
	if err := s.store.CreateContact(ctx, contact); err != nil {
		return nil, fmt.Errorf("failed to create contact: %w", err)
	}
	s.hub.Publish("contacts", ownerID)
	return contact, nil
}

// mapReconcileErr folds the reconciler's rejection taxonomy into the
// service sentinels. Stock shortfalls keep their detailed message so the
// client can show which item ran short.
func mapReconcileErr(err error) error {
	var stockErr *invoice.InsufficientStockError
	if errors.As(err, &stockErr) {
		return fmt.Errorf("%w: %s", ErrConflict, err)
	}
	switch {
	case errors.Is(err, invoice.ErrUnknownItem):
		return fmt.Errorf("%w: %s", ErrNotFound, err)
	default:
		return fmt.Errorf("%w: %s", ErrInvalid, err)
	}
}
