package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/khataplus/khataplus/internal/models"
	"github.com/khataplus/khataplus/internal/storage"
)

// CreateGroup inserts the group and its owner membership in one transaction.
func (s *SQLiteStore) CreateGroup(ctx context.Context, group *models.InventorySyncGroup) error {
	stamp(&group.ID, &group.CreatedAt)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO inventory_sync_groups (id, owner_id, name, join_code, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		group.ID, group.OwnerID, group.Name, group.JoinCode, group.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO inventory_sync_group_members (group_id, user_id, role, created_at)
		 VALUES (?, ?, ?, ?)`,
		group.ID, group.OwnerID, models.RoleOwner, group.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert owner membership: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit group: %w", err)
	}
	return nil
}

// GetGroupByJoinCode looks up a group by its join code.
// Returns storage.ErrNotFound when no group carries the code.
func (s *SQLiteStore) GetGroupByJoinCode(ctx context.Context, joinCode string) (*models.InventorySyncGroup, error) {
	var group models.InventorySyncGroup
	err := s.db.QueryRowContext(ctx,
		`SELECT id, owner_id, name, join_code, created_at
		 FROM inventory_sync_groups WHERE join_code = ?`, joinCode,
	).Scan(&group.ID, &group.OwnerID, &group.Name, &group.JoinCode, &group.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("group with join code %q: %w", joinCode, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group by join code: %w", err)
	}
	return &group, nil
}

// GetGroupForUser returns the group the user belongs to, or nil when the
// user has no active membership.
func (s *SQLiteStore) GetGroupForUser(ctx context.Context, userID string) (*models.InventorySyncGroup, error) {
	var group models.InventorySyncGroup
	err := s.db.QueryRowContext(ctx,
		`SELECT g.id, g.owner_id, g.name, g.join_code, g.created_at
		 FROM inventory_sync_groups g
		 JOIN inventory_sync_group_members m ON m.group_id = g.id
		 WHERE m.user_id = ?`, userID,
	).Scan(&group.ID, &group.OwnerID, &group.Name, &group.JoinCode, &group.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group for user: %w", err)
	}
	return &group, nil
}

// AddGroupMember records a membership. The UNIQUE constraint on user_id
// rejects users already in a group.
func (s *SQLiteStore) AddGroupMember(ctx context.Context, groupID, userID, role string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO inventory_sync_group_members (group_id, user_id, role, created_at)
		 VALUES (?, ?, ?, ?)`,
		groupID, userID, role, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to add group member: %w", err)
	}
	return nil
}

// RemoveGroupMember deletes a membership.
func (s *SQLiteStore) RemoveGroupMember(ctx context.Context, groupID, userID string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM inventory_sync_group_members WHERE group_id = ? AND user_id = ?`,
		groupID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to remove group member: %w", err)
	}
	return requireRow(result, "group membership", userID)
}

// ListGroupMembers returns the group's members with display names resolved.
func (s *SQLiteStore) ListGroupMembers(ctx context.Context, groupID string) ([]models.GroupMember, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT m.group_id, m.user_id, m.role, u.display_name, m.created_at
		 FROM inventory_sync_group_members m
		 JOIN users u ON u.id = m.user_id
		 WHERE m.group_id = ?
		 ORDER BY m.created_at ASC`, groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list group members: %w", err)
	}
	defer rows.Close()

	var members []models.GroupMember
	for rows.Next() {
		var member models.GroupMember
		if err := rows.Scan(&member.GroupID, &member.UserID, &member.Role, &member.DisplayName, &member.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan group member: %w", err)
		}
		members = append(members, member)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate group members: %w", err)
	}
	return members, nil
}

// UpdateGroupName renames a group. Only the owner may rename.
func (s *SQLiteStore) UpdateGroupName(ctx context.Context, groupID, ownerID, name string) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE inventory_sync_groups SET name = ? WHERE id = ? AND owner_id = ?`,
		name, groupID, ownerID,
	)
	if err != nil {
		return fmt.Errorf("failed to update group name: %w", err)
	}
	return requireRow(result, "group", groupID)
}

// DeleteGroup removes a group and, via cascade, its memberships.
// Only the owner may delete.
func (s *SQLiteStore) DeleteGroup(ctx context.Context, groupID, ownerID string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM inventory_sync_groups WHERE id = ? AND owner_id = ?`,
		groupID, ownerID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	return requireRow(result, "group", groupID)
}
