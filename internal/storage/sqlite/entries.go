package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/khataplus/khataplus/internal/models"
)

// execer is satisfied by both *sql.DB and *sql.Tx, so the insert helpers
// serve single writes and the invoice batch alike.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertEntry(ctx context.Context, db execer, entry *models.Entry) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO entries (id, owner_id, contact_id, type, amount, note, entry_date, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.OwnerID, entry.ContactID, string(entry.Type),
		entry.Amount, nullable(entry.Note), entry.EntryDate, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert entry: %w", err)
	}
	return nil
}

// CreateEntry persists a new ledger entry, generating its ID and timestamp.
func (s *SQLiteStore) CreateEntry(ctx context.Context, entry *models.Entry) error {
	stamp(&entry.ID, &entry.CreatedAt)
	return insertEntry(ctx, s.db, entry)
}

// ListEntries retrieves all entries of an owner, newest first.
func (s *SQLiteStore) ListEntries(ctx context.Context, ownerID string) ([]models.Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, owner_id, contact_id, type, amount, note, entry_date, created_at
		 FROM entries WHERE owner_id = ? ORDER BY created_at DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	defer rows.Close()

	var entries []models.Entry
	for rows.Next() {
		var entry models.Entry
		var note sql.NullString
		if err := rows.Scan(&entry.ID, &entry.OwnerID, &entry.ContactID, &entry.Type,
			&entry.Amount, &note, &entry.EntryDate, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entry.Note = note.String
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate entries: %w", err)
	}
	return entries, nil
}

// UpdateEntry updates an entry's mutable fields, scoped by owner.
func (s *SQLiteStore) UpdateEntry(ctx context.Context, entry *models.Entry) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE entries SET type = ?, amount = ?, note = ?, entry_date = ?
		 WHERE id = ? AND owner_id = ?`,
		string(entry.Type), entry.Amount, nullable(entry.Note), entry.EntryDate,
		entry.ID, entry.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("failed to update entry: %w", err)
	}
	return requireRow(result, "entry", entry.ID)
}

// DeleteEntry removes an entry, scoped by owner.
func (s *SQLiteStore) DeleteEntry(ctx context.Context, id, ownerID string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM entries WHERE id = ? AND owner_id = ?`, id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	return requireRow(result, "entry", id)
}
