package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/khataplus/khataplus/internal/models"
	"github.com/khataplus/khataplus/internal/notify"
	"github.com/khataplus/khataplus/internal/storage"
	"github.com/khataplus/khataplus/internal/storage/sqlite"
)

// setupStore creates a throwaway sqlite store for service tests.
func setupStore(t *testing.T) storage.Store {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "khataplus-service-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func createTestUser(t *testing.T, store storage.Store, email string) *models.User {
	t.Helper()
	user := models.NewUser(email, "Test User", "hash")
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

func TestGroupLifecycle(t *testing.T) {
	store := setupStore(t)
	svc := NewGroupService(store, notify.NewHub(), testLogger())
	ctx := context.Background()

	owner := createTestUser(t, store, "owner@example.com")
	member := createTestUser(t, store, "member@example.com")

	group, err := svc.Create(ctx, owner.ID, "Shop Floor")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if len(group.JoinCode) != 6 {
		t.Errorf("Expected 6-character join code, got %q", group.JoinCode)
	}
	for _, c := range group.JoinCode {
		if c == '0' || c == 'O' || c == '1' || c == 'I' {
			t.Errorf("Join code %q contains ambiguous character %q", group.JoinCode, c)
		}
	}

	t.Run("Owner cannot create a second group", func(t *testing.T) {
		_, err := svc.Create(ctx, owner.ID, "Second")
		if !errors.Is(err, ErrConflict) {
			t.Errorf("Expected ErrConflict, got %v", err)
		}
	})

	t.Run("Join by code, case-insensitive", func(t *testing.T) {
		joined, err := svc.Join(ctx, member.ID, "  "+strings.ToLower(group.JoinCode)+" ")
		if err != nil {
			t.Fatalf("Join failed: %v", err)
		}
		if joined.ID != group.ID {
			t.Errorf("Joined wrong group: %s", joined.ID)
		}

		_, members, err := svc.Current(ctx, member.ID)
		if err != nil {
			t.Fatalf("Current failed: %v", err)
		}
		if len(members) != 2 {
			t.Errorf("Expected 2 members, got %d", len(members))
		}
	})

	t.Run("Unknown code rejected", func(t *testing.T) {
		outsider := createTestUser(t, store, "outsider@example.com")
		_, err := svc.Join(ctx, outsider.ID, "AAAAAA")
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("Member cannot rename or delete", func(t *testing.T) {
		if _, err := svc.Rename(ctx, member.ID, "Hijacked"); !errors.Is(err, ErrForbidden) {
			t.Errorf("Expected ErrForbidden on rename, got %v", err)
		}
		if err := svc.Delete(ctx, member.ID); !errors.Is(err, ErrForbidden) {
			t.Errorf("Expected ErrForbidden on delete, got %v", err)
		}
	})

	t.Run("Owner renames", func(t *testing.T) {
		renamed, err := svc.Rename(ctx, owner.ID, "Warehouse")
		if err != nil {
			t.Fatalf("Rename failed: %v", err)
		}
		if renamed.Name != "Warehouse" {
			t.Errorf("Expected renamed group, got %q", renamed.Name)
		}
	})

	t.Run("Owner cannot leave, member can", func(t *testing.T) {
		if err := svc.Leave(ctx, owner.ID); !errors.Is(err, ErrForbidden) {
			t.Errorf("Expected ErrForbidden, got %v", err)
		}
		if err := svc.Leave(ctx, member.ID); err != nil {
			t.Fatalf("Leave failed: %v", err)
		}
		current, _, err := svc.Current(ctx, member.ID)
		if err != nil {
			t.Fatalf("Current failed: %v", err)
		}
		if current != nil {
			t.Errorf("Expected no group after leaving, got %+v", current)
		}
	})

	t.Run("Owner deletes, memberships released", func(t *testing.T) {
		if err := svc.Delete(ctx, owner.ID); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		current, _, err := svc.Current(ctx, owner.ID)
		if err != nil {
			t.Fatalf("Current failed: %v", err)
		}
		if current != nil {
			t.Errorf("Expected no group after delete, got %+v", current)
		}
	})
}

func TestGenerateJoinCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code, err := generateJoinCode()
		if err != nil {
			t.Fatalf("generateJoinCode failed: %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("Expected length 6, got %q", code)
		}
		seen[code] = true
	}
	// 100 draws from a 32^6 space colliding down to a handful would mean
	// the generator is broken.
	if len(seen) < 95 {
		t.Errorf("Expected distinct codes, got %d unique of 100", len(seen))
	}
}
