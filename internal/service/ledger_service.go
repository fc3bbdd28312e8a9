package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/khataplus/khataplus/internal/ledger"
	"github.com/khataplus/khataplus/internal/models"
	"github.com/khataplus/khataplus/internal/notify"
	"github.com/khataplus/khataplus/internal/storage"
)

// LedgerService manages contacts and gave/got entries and answers balance
// queries over them.
type LedgerService struct {
	store  storage.Store
	hub    *notify.Hub
	logger *slog.Logger
}

// NewLedgerService creates a new ledger service.
func NewLedgerService(store storage.Store, hub *notify.Hub, logger *slog.Logger) *LedgerService {
	return &LedgerService{
		store:  store,
		hub:    hub,
		logger: logger,
	}
}

// CreateContact adds a contact to the user's ledger.
func (s *LedgerService) CreateContact(ctx context.Context, ownerID, name, phone string) (*models.Contact, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalidf("contact name is required")
	}

	contact := &models.Contact{
		OwnerID: ownerID,
		Name:    name,
		Phone:   strings.TrimSpace(phone),
	}
	if err := s.store.CreateContact(ctx, contact); err != nil {
		return nil, fmt.Errorf("failed to create contact: %w", err)
	}

	s.hub.Publish("contacts", ownerID)
	s.logger.Info("Contact created", "contact_id", contact.ID, "user_id", ownerID)
	return contact, nil
}

// ListContacts returns the user's contacts, newest first.
func (s *LedgerService) ListContacts(ctx context.Context, ownerID string) ([]models.Contact, error) {
	return s.store.ListContacts(ctx, ownerID)
}

// UpdateContact renames a contact or changes its phone number.
func (s *LedgerService) UpdateContact(ctx context.Context, ownerID, contactID, name, phone string) (*models.Contact, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalidf("contact name is required")
	}

	contact := &models.Contact{
		ID:      contactID,
		OwnerID: ownerID,
		Name:    name,
		Phone:   strings.TrimSpace(phone),
	}
	if err := s.store.UpdateContact(ctx, contact); err != nil {
		return nil, mapStorageErr(err)
	}

	s.hub.Publish("contacts", ownerID)
	return contact, nil
}

// DeleteContact removes a contact and, with it, every entry on its ledger.
func (s *LedgerService) DeleteContact(ctx context.Context, ownerID, contactID string) error {
	if err := s.store.DeleteContact(ctx, contactID, ownerID); err != nil {
		return mapStorageErr(err)
	}

	s.hub.Publish("contacts", ownerID)
	s.hub.Publish("entries", ownerID)
	s.logger.Info("Contact deleted", "contact_id", contactID, "user_id", ownerID)
	return nil
}

// CreateEntry records a gave or got event on a contact's ledger.
func (s *LedgerService) CreateEntry(ctx context.Context, entry *models.Entry) (*models.Entry, error) {
	if err := validateEntry(entry); err != nil {
		return nil, err
	}

	if err := s.store.CreateEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to create entry: %w", err)
	}

	s.hub.Publish("entries", entry.OwnerID)
	s.logger.Info("Entry created",
		"entry_id", entry.ID,
		"type", entry.Type,
		"amount", entry.Amount,
		"user_id", entry.OwnerID,
	)
	return entry, nil
}

// ListEntries returns every entry across the user's ledgers, newest first.
func (s *LedgerService) ListEntries(ctx context.Context, ownerID string) ([]models.Entry, error) {
	return s.store.ListEntries(ctx, ownerID)
}

// UpdateEntry corrects an entry's type, amount, note, or date.
func (s *LedgerService) UpdateEntry(ctx context.Context, entry *models.Entry) (*models.Entry, error) {
	if err := validateEntry(entry); err != nil {
		return nil, err
	}

	if err := s.store.UpdateEntry(ctx, entry); err != nil {
		return nil, mapStorageErr(err)
	}

	s.hub.Publish("entries", entry.OwnerID)
	return entry, nil
}

// DeleteEntry removes an entry from the ledger.
func (s *LedgerService) DeleteEntry(ctx context.Context, ownerID, entryID string) error {
	if err := s.store.DeleteEntry(ctx, entryID, ownerID); err != nil {
		return mapStorageErr(err)
	}

	s.hub.Publish("entries", ownerID)
	return nil
}

// Overview computes per-contact balances and the headline totals from the
// user's full entry stream.
func (s *LedgerService) Overview(ctx context.Context, ownerID string) ([]ledger.ContactBalance, ledger.Totals, error) {
	contacts, err := s.store.ListContacts(ctx, ownerID)
	if err != nil {
		return nil, ledger.Totals{}, fmt.Errorf("failed to list contacts: %w", err)
	}
	entries, err := s.store.ListEntries(ctx, ownerID)
	if err != nil {
		return nil, ledger.Totals{}, fmt.Errorf("failed to list entries: %w", err)
	}

	balances := ledger.ContactBalances(contacts, entries)
	return balances, ledger.Summarize(balances), nil
}

// Statement returns a contact's entries annotated with running balances,
// newest first.
func (s *LedgerService) Statement(ctx context.Context, ownerID, contactID string) ([]ledger.AnnotatedEntry, error) {
	entries, err := s.store.ListEntries(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}

	var contactEntries []models.Entry
	for _, e := range entries {
		if e.ContactID == contactID {
			contactEntries = append(contactEntries, e)
		}
	}
	return ledger.Annotate(contactEntries), nil
}

func validateEntry(entry *models.Entry) error {
	if !entry.Type.Valid() {
		return invalidf("entry type must be %q or %q", models.EntryGave, models.EntryGot)
	}
	if entry.ContactID == "" {
		return invalidf("entry contact is required")
	}
	if !entry.Amount.IsPositive() {
		return invalidf("entry amount must be positive")
	}
	if entry.EntryDate == "" {
		return invalidf("entry date is required")
	}
	return nil
}

func mapStorageErr(err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, err)
	}
	return err
}
