package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/khataplus/khataplus/internal/models"
	"github.com/khataplus/khataplus/internal/storage"
)

// CreateItem persists a new inventory item, generating its ID and timestamp.
func (s *SQLiteStore) CreateItem(ctx context.Context, item *models.InventoryItem) error {
	stamp(&item.ID, &item.CreatedAt)

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO inventory_items (id, owner_id, group_id, name, unit, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		item.ID, item.OwnerID, nullable(item.GroupID), item.Name, nullable(item.Unit), item.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert inventory item: %w", err)
	}
	return nil
}

// ListItems retrieves all items in the given scope, newest first.
func (s *SQLiteStore) ListItems(ctx context.Context, scope storage.Scope) ([]models.InventoryItem, error) {
	filter, args := scopeFilter(scope)
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, owner_id, group_id, name, unit, created_at
		 FROM inventory_items WHERE `+filter+` ORDER BY created_at DESC`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory items: %w", err)
	}
	defer rows.Close()

	var items []models.InventoryItem
	for rows.Next() {
		var item models.InventoryItem
		var groupID, unit sql.NullString
		if err := rows.Scan(&item.ID, &item.OwnerID, &groupID, &item.Name, &unit, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan inventory item: %w", err)
		}
		item.GroupID = groupID.String
		item.Unit = unit.String
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate inventory items: %w", err)
	}
	return items, nil
}

// UpdateItem updates an item's name and unit, scoped by owner.
func (s *SQLiteStore) UpdateItem(ctx context.Context, item *models.InventoryItem) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE inventory_items SET name = ?, unit = ? WHERE id = ? AND owner_id = ?`,
		item.Name, nullable(item.Unit), item.ID, item.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("failed to update inventory item: %w", err)
	}
	return requireRow(result, "inventory item", item.ID)
}

// DeleteItem removes an item, cascading its movements.
func (s *SQLiteStore) DeleteItem(ctx context.Context, id, ownerID string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM inventory_items WHERE id = ? AND owner_id = ?`, id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete inventory item: %w", err)
	}
	return requireRow(result, "inventory item", id)
}

func insertMovement(ctx context.Context, db execer, movement *models.InventoryMovement) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO inventory_movements (id, owner_id, group_id, item_id, type, quantity, note, movement_date, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		movement.ID, movement.OwnerID, nullable(movement.GroupID), movement.ItemID,
		string(movement.Type), movement.Quantity, nullable(movement.Note),
		movement.MovementDate, movement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert inventory movement: %w", err)
	}
	return nil
}

// CreateMovement persists a new movement, generating its ID and timestamp.
func (s *SQLiteStore) CreateMovement(ctx context.Context, movement *models.InventoryMovement) error {
	stamp(&movement.ID, &movement.CreatedAt)
	return insertMovement(ctx, s.db, movement)
}

// ListMovements retrieves all movements in the given scope, newest first.
func (s *SQLiteStore) ListMovements(ctx context.Context, scope storage.Scope) ([]models.InventoryMovement, error) {
	filter, args := scopeFilter(scope)
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, owner_id, group_id, item_id, type, quantity, note, movement_date, created_at
		 FROM inventory_movements WHERE `+filter+` ORDER BY created_at DESC`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory movements: %w", err)
	}
	defer rows.Close()

	var movements []models.InventoryMovement
	for rows.Next() {
		var movement models.InventoryMovement
		var groupID, note sql.NullString
		if err := rows.Scan(&movement.ID, &movement.OwnerID, &groupID, &movement.ItemID,
			&movement.Type, &movement.Quantity, &note, &movement.MovementDate, &movement.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan inventory movement: %w", err)
		}
		movement.GroupID = groupID.String
		movement.Note = note.String
		movements = append(movements, movement)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate inventory movements: %w", err)
	}
	return movements, nil
}

// UpdateMovement updates a movement's mutable fields, scoped by owner.
func (s *SQLiteStore) UpdateMovement(ctx context.Context, movement *models.InventoryMovement) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE inventory_movements SET type = ?, quantity = ?, note = ?, movement_date = ?
		 WHERE id = ? AND owner_id = ?`,
		string(movement.Type), movement.Quantity, nullable(movement.Note), movement.MovementDate,
		movement.ID, movement.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("failed to update inventory movement: %w", err)
	}
	return requireRow(result, "inventory movement", movement.ID)
}

// DeleteMovement removes a movement, scoped by owner.
func (s *SQLiteStore) DeleteMovement(ctx context.Context, id, ownerID string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM inventory_movements WHERE id = ? AND owner_id = ?`, id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete inventory movement: %w", err)
	}
	return requireRow(result, "inventory movement", id)
}
