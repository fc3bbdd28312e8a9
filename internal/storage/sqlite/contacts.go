package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/khataplus/khataplus/internal/models"
)

// CreateContact persists a new contact, generating its ID and timestamp.
func (s *SQLiteStore) CreateContact(ctx context.Context, contact *models.Contact) error {
	stamp(&contact.ID, &contact.CreatedAt)

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO contacts (id, owner_id, name, phone, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		contact.ID, contact.OwnerID, contact.Name, nullable(contact.Phone), contact.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert contact: %w", err)
	}
	return nil
}

// ListContacts retrieves all contacts of an owner, newest first.
func (s *SQLiteStore) ListContacts(ctx context.Context, ownerID string) ([]models.Contact, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, owner_id, name, phone, created_at
		 FROM contacts WHERE owner_id = ? ORDER BY created_at DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	defer rows.Close()

	var contacts []models.Contact
	for rows.Next() {
		var contact models.Contact
		var phone sql.NullString
		if err := rows.Scan(&contact.ID, &contact.OwnerID, &contact.Name, &phone, &contact.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		contact.Phone = phone.String
		contacts = append(contacts, contact)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate contacts: %w", err)
	}
	return contacts, nil
}

// UpdateContact updates a contact's name and phone, scoped by owner.
func (s *SQLiteStore) UpdateContact(ctx context.Context, contact *models.Contact) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE contacts SET name = ?, phone = ? WHERE id = ? AND owner_id = ?`,
		contact.Name, nullable(contact.Phone), contact.ID, contact.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("failed to update contact: %w", err)
	}
	return requireRow(result, "contact", contact.ID)
}

// DeleteContact removes a contact, cascading its entries.
func (s *SQLiteStore) DeleteContact(ctx context.Context, id, ownerID string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM contacts WHERE id = ? AND owner_id = ?`, id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	return requireRow(result, "contact", id)
}
