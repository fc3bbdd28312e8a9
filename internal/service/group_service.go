package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"math/big"
	"strings"

	"github.com/khataplus/khataplus/internal/models"
	"github.com/khataplus/khataplus/internal/notify"
	"github.com/khataplus/khataplus/internal/storage"
)

// joinCodeAlphabet omits the lookalike characters 0, O, 1, and I so codes
// survive being read aloud or copied by hand.
const (
	joinCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	joinCodeLength   = 6
)

// GroupService manages inventory sync groups: shared record sets that
// several users read and write together.
type GroupService struct {
	store  storage.Store
	hub    *notify.Hub
	logger *slog.Logger
}

// NewGroupService creates a new group service.
func NewGroupService(store storage.Store, hub *notify.Hub, logger *slog.Logger) *GroupService {
	return &GroupService{
		store:  store,
		hub:    hub,
		logger: logger,
	}
}

// Create starts a new sync group owned by the user. The caller must not be
// in a group already; a user holds at most one membership at a time.
func (s *GroupService) Create(ctx context.Context, userID, name string) (*models.InventorySyncGroup, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalidf("group name is required")
	}

	existing, err := s.store.GetGroupForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: already a member of group %s", ErrConflict, existing.ID)
	}

	code, err := generateJoinCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate join code: %w", err)
	}

	group := &models.InventorySyncGroup{
		OwnerID:  userID,
		Name:     name,
		JoinCode: code,
	}
	if err := s.store.CreateGroup(ctx, group); err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	s.logger.Info("Group created", "group_id", group.ID, "user_id", userID)
	return group, nil
}

// Join adds the user to the group carrying the given join code.
func (s *GroupService) Join(ctx context.Context, userID, code string) (*models.InventorySyncGroup, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, invalidf("join code is required")
	}

	existing, err := s.store.GetGroupForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: already a member of group %s", ErrConflict, existing.ID)
	}

	group, err := s.store.GetGroupByJoinCode(ctx, code)
	if err != nil {
		return nil, mapStorageErr(err)
	}

	if err := s.store.AddGroupMember(ctx, group.ID, userID, models.RoleMember); err != nil {
		return nil, fmt.Errorf("failed to join group: %w", err)
	}

	s.hub.Publish("group_members", group.ID)
	s.logger.Info("User joined group", "group_id", group.ID, "user_id", userID)
	return group, nil
}

// Leave removes the user's membership. The owner cannot leave; they delete
// the group instead, which releases every member.
func (s *GroupService) Leave(ctx context.Context, userID string) error {
	group, err := s.store.GetGroupForUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to check membership: %w", err)
	}
	if group == nil {
		return fmt.Errorf("%w: no active group", ErrNotFound)
	}
	if group.OwnerID == userID {
		return fmt.Errorf("%w: the owner must delete the group to leave it", ErrForbidden)
	}

	if err := s.store.RemoveGroupMember(ctx, group.ID, userID); err != nil {
		return mapStorageErr(err)
	}

	s.hub.Publish("group_members", group.ID)
	s.logger.Info("User left group", "group_id", group.ID, "user_id", userID)
	return nil
}

// Current returns the user's group and fellow members, or a nil group when
// the user is in none.
func (s *GroupService) Current(ctx context.Context, userID string) (*models.InventorySyncGroup, []models.GroupMember, error) {
	group, err := s.store.GetGroupForUser(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve group: %w", err)
	}
	if group == nil {
		return nil, nil, nil
	}

	members, err := s.store.ListGroupMembers(ctx, group.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list members: %w", err)
	}
	return group, members, nil
}

// Rename changes the group's name. Only the owner may rename.
func (s *GroupService) Rename(ctx context.Context, userID, name string) (*models.InventorySyncGroup, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalidf("group name is required")
	}

	group, err := s.store.GetGroupForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve group: %w", err)
	}
	if group == nil {
		return nil, fmt.Errorf("%w: no active group", ErrNotFound)
	}
	if group.OwnerID != userID {
		return nil, fmt.Errorf("%w: only the owner can rename the group", ErrForbidden)
	}

	if err := s.store.UpdateGroupName(ctx, group.ID, userID, name); err != nil {
		return nil, mapStorageErr(err)
	}
	group.Name = name

	s.hub.Publish("group_members", group.ID)
	return group, nil
}

// Delete disbands the group, releasing all memberships. Only the owner may
// delete.
func (s *GroupService) Delete(ctx context.Context, userID string) error {
	group, err := s.store.GetGroupForUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to resolve group: %w", err)
	}
	if group == nil {
		return fmt.Errorf("%w: no active group", ErrNotFound)
	}
	if group.OwnerID != userID {
		return fmt.Errorf("%w: only the owner can delete the group", ErrForbidden)
	}

	if err := s.store.DeleteGroup(ctx, group.ID, userID); err != nil {
		return mapStorageErr(err)
	}

	s.hub.Publish("group_members", group.ID)
	s.logger.Info("Group deleted", "group_id", group.ID, "user_id", userID)
	return nil
}

// generateJoinCode draws a 6-character code from the unambiguous alphabet
// using crypto/rand. With 32^6 possible codes a collision is rare enough
// that the UNIQUE constraint on join_code is the only guard needed.
func generateJoinCode() (string, error) {
	max := big.NewInt(int64(len(joinCodeAlphabet)))
	code := make([]byte, joinCodeLength)
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		code[i] = joinCodeAlphabet[n.Int64()]
	}
	return string(code), nil
}
