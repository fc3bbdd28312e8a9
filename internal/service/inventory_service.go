package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/khataplus/khataplus/internal/models"
	"github.com/khataplus/khataplus/internal/notify"
	"github.com/khataplus/khataplus/internal/stock"
	"github.com/khataplus/khataplus/internal/storage"
)

// InventoryService manages items and stock movements. Every operation runs
// against the user's active scope: the sync group they belong to, or their
// personal records when they are in none.
type InventoryService struct {
	store  storage.Store
	hub    *notify.Hub
	logger *slog.Logger
}

// NewInventoryService creates a new inventory service.
func NewInventoryService(store storage.Store, hub *notify.Hub, logger *slog.Logger) *InventoryService {
	return &InventoryService{
		store:  store,
		hub:    hub,
		logger: logger,
	}
}

// ActiveScope resolves which record set the user currently works against.
func (s *InventoryService) ActiveScope(ctx context.Context, userID string) (storage.Scope, error) {
	group, err := s.store.GetGroupForUser(ctx, userID)
	if err != nil {
		return storage.Scope{}, fmt.Errorf("failed to resolve scope: %w", err)
	}
	scope := storage.Scope{OwnerID: userID}
	if group != nil {
		scope.GroupID = group.ID
	}
	return scope, nil
}

// scopeKey is the notification key for a scope: the group ID for shared
// records, the user ID for personal ones.
func scopeKey(scope storage.Scope) string {
	if scope.Personal() {
		return scope.OwnerID
	}
	return scope.GroupID
}

// CreateItem registers a new inventory item in the user's active scope.
func (s *InventoryService) CreateItem(ctx context.Context, userID, name, unit string) (*models.InventoryItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalidf("item name is required")
	}

	scope, err := s.ActiveScope(ctx, userID)
	if err != nil {
		return nil, err
	}

	item := &models.InventoryItem{
		OwnerID: userID,
		GroupID: scope.GroupID,
		Name:    name,
		Unit:    strings.ToUpper(strings.TrimSpace(unit)),
	}
	if err := s.store.CreateItem(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	s.hub.Publish("inventory_items", scopeKey(scope))
	s.logger.Info("Item created", "item_id", item.ID, "user_id", userID, "group_id", scope.GroupID)
	return item, nil
}

// ListItems returns the items visible in the user's active scope.
func (s *InventoryService) ListItems(ctx context.Context, userID string) ([]models.InventoryItem, error) {
	scope, err := s.ActiveScope(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.store.ListItems(ctx, scope)
}

// UpdateItem renames an item or changes its unit.
func (s *InventoryService) UpdateItem(ctx context.Context, userID, itemID, name, unit string) (*models.InventoryItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalidf("item name is required")
	}

	scope, err := s.ActiveScope(ctx, userID)
	if err != nil {
		return nil, err
	}

	item := &models.InventoryItem{
		ID:      itemID,
		OwnerID: userID,
		GroupID: scope.GroupID,
		Name:    name,
		Unit:    strings.ToUpper(strings.TrimSpace(unit)),
	}
	if err := s.store.UpdateItem(ctx, item); err != nil {
		return nil, mapStorageErr(err)
	}

	s.hub.Publish("inventory_items", scopeKey(scope))
	return item, nil
}

// DeleteItem removes an item and, with it, its movement history.
func (s *InventoryService) DeleteItem(ctx context.Context, userID, itemID string) error {
	scope, err := s.ActiveScope(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.store.DeleteItem(ctx, itemID, userID); err != nil {
		return mapStorageErr(err)
	}

	s.hub.Publish("inventory_items", scopeKey(scope))
	s.hub.Publish("inventory_movements", scopeKey(scope))
	s.logger.Info("Item deleted", "item_id", itemID, "user_id", userID)
	return nil
}

// CreateMovement records a manual stock in or stock out event.
func (s *InventoryService) CreateMovement(ctx context.Context, userID string, movement *models.InventoryMovement) (*models.InventoryMovement, error) {
	if err := validateMovement(movement); err != nil {
		return nil, err
	}

	scope, err := s.ActiveScope(ctx, userID)
	if err != nil {
		return nil, err
	}

	movement.OwnerID = userID
	movement.GroupID = scope.GroupID
	if err := s.store.CreateMovement(ctx, movement); err != nil {
		return nil, fmt.Errorf("failed to create movement: %w", err)
	}

	s.hub.Publish("inventory_movements", scopeKey(scope))
	s.logger.Info("Movement recorded",
		"movement_id", movement.ID,
		"item_id", movement.ItemID,
		"type", movement.Type,
		"quantity", movement.Quantity,
		"user_id", userID,
	)
	return movement, nil
}

// ListMovements returns the movements visible in the user's active scope,
// newest first.
func (s *InventoryService) ListMovements(ctx context.Context, userID string) ([]models.InventoryMovement, error) {
	scope, err := s.ActiveScope(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.store.ListMovements(ctx, scope)
}

// UpdateMovement corrects a movement's type, quantity, note, or date.
func (s *InventoryService) UpdateMovement(ctx context.Context, userID string, movement *models.InventoryMovement) (*models.InventoryMovement, error) {
	if err := validateMovement(movement); err != nil {
		return nil, err
	}

	scope, err := s.ActiveScope(ctx, userID)
	if err != nil {
		return nil, err
	}

	movement.OwnerID = userID
	if err := s.store.UpdateMovement(ctx, movement); err != nil {
		return nil, mapStorageErr(err)
	}

	s.hub.Publish("inventory_movements", scopeKey(scope))
	return movement, nil
}

// DeleteMovement removes a movement event.
func (s *InventoryService) DeleteMovement(ctx context.Context, userID, movementID string) error {
	scope, err := s.ActiveScope(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.store.DeleteMovement(ctx, movementID, userID); err != nil {
		return mapStorageErr(err)
	}

	s.hub.Publish("inventory_movements", scopeKey(scope))
	return nil
}

// StockOverview computes per-item levels and summary counts from the full
// movement stream of the user's active scope.
func (s *InventoryService) StockOverview(ctx context.Context, userID string) ([]stock.ItemLevel, stock.Totals, error) {
	scope, err := s.ActiveScope(ctx, userID)
	if err != nil {
		return nil, stock.Totals{}, err
	}

	items, err := s.store.ListItems(ctx, scope)
	if err != nil {
		return nil, stock.Totals{}, fmt.Errorf("failed to list items: %w", err)
	}
	movements, err := s.store.ListMovements(ctx, scope)
	if err != nil {
		return nil, stock.Totals{}, fmt.Errorf("failed to list movements: %w", err)
	}

	levels := stock.ItemLevels(items, movements)
	return levels, stock.Summarize(levels), nil
}

// Units returns the measurement unit vocabulary offered to clients.
func (s *InventoryService) Units() []string {
	return models.Units
}

func validateMovement(movement *models.InventoryMovement) error {
	if !movement.Type.Valid() {
		return invalidf("movement type must be %q or %q", models.MovementIn, models.MovementOut)
	}
	if movement.ItemID == "" {
		return invalidf("movement item is required")
	}
	if !movement.Quantity.IsPositive() {
		return invalidf("movement quantity must be positive")
	}
	if movement.MovementDate == "" {
		return invalidf("movement date is required")
	}
	return nil
}
