// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/khataplus/khataplus/internal/models"
	"github.com/khataplus/khataplus/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Open database with pure Go driver
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Run migrations
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// stamp fills in a fresh UUID and/or creation timestamp when not set.
func stamp(id *string, createdAt *int64) {
	if *id == "" {
		*id = uuid.New().String()
	}
	if *createdAt == 0 {
		*createdAt = time.Now().Unix()
	}
}

// nullable converts an empty string to NULL for optional columns.
func nullable(value string) any {
	if value == "" {
		return nil
	}
	return value
}

// requireRow maps a scoped UPDATE/DELETE result to storage.ErrNotFound
// when no row matched the id+owner filter.
func requireRow(result sql.Result, what, id string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%s %s: %w", what, id, storage.ErrNotFound)
	}
	return nil
}

// scopeFilter renders the WHERE fragment selecting a personal or group
// record set. Personal records are those with no group reference.
func scopeFilter(scope storage.Scope) (string, []any) {
	if scope.Personal() {
		return "owner_id = ? AND group_id IS NULL", []any{scope.OwnerID}
	}
	return "group_id = ?", []any{scope.GroupID}
}

// CreateInvoiceBatch persists an invoice's movements and entries in one
// transaction, so a partial invoice can never be observed.
func (s *SQLiteStore) CreateInvoiceBatch(ctx context.Context, movements []models.InventoryMovement, entries []models.Entry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for i := range movements {
		movement := &movements[i]
		stamp(&movement.ID, &movement.CreatedAt)
		if err := insertMovement(ctx, tx, movement); err != nil {
			return err
		}
	}

	for i := range entries {
		entry := &entries[i]
		stamp(&entry.ID, &entry.CreatedAt)
		if err := insertEntry(ctx, tx, entry); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit invoice batch: %w", err)
	}
	return nil
}
