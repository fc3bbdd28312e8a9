package server

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/khataplus/khataplus/internal/auth"
	"github.com/khataplus/khataplus/internal/notify"
	"github.com/khataplus/khataplus/internal/service"
	"github.com/khataplus/khataplus/internal/storage/sqlite"
)

// setupTestServer builds the full stack over a throwaway database.
func setupTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "khataplus-server-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	hub := notify.NewHub()
	jwtManager := auth.NewJWTManager("test-secret-key-32-bytes-long!!!", time.Hour)
	authenticator := auth.NewPasswordAuthenticator(store)

	authSvc := service.NewAuthService(authenticator, jwtManager, store, logger)
	ledgerSvc := service.NewLedgerService(store, hub, logger)
	inventorySvc := service.NewInventoryService(store, hub, logger)
	groupSvc := service.NewGroupService(store, hub, logger)
	invoiceSvc := service.NewInvoiceService(store, inventorySvc, hub, logger)

	srv := New(authSvc, ledgerSvc, inventorySvc, groupSvc, invoiceSvc, hub, jwtManager, logger)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

// call sends a JSON request and decodes the response body into out when
// out is non-nil. It returns the status code.
func call(t *testing.T, ts *httptest.Server, method, path, token string, body, out interface{}) int {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequest(method, ts.URL+path, reader)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
			t.Fatalf("failed to decode response: %v", err)
		}
	}
	return resp.StatusCode
}

func registerUser(t *testing.T, ts *httptest.Server, email string) string {
	t.Helper()
	var session struct {
		Token string `json:"token"`
	}
	status := call(t, ts, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email":        email,
		"display_name": "Test User",
		"password":     "long-enough-password",
	}, &session)
	if status != http.StatusCreated {
		t.Fatalf("register returned %d", status)
	}
	return session.Token
}

func TestAuthFlow(t *testing.T) {
	ts := setupTestServer(t)

	token := registerUser(t, ts, "flow@example.com")

	t.Run("Duplicate email conflicts", func(t *testing.T) {
		status := call(t, ts, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
			"email":        "flow@example.com",
			"display_name": "Again",
			"password":     "long-enough-password",
		}, nil)
		if status != http.StatusConflict {
			t.Errorf("Expected 409, got %d", status)
		}
	})

	t.Run("Login returns session", func(t *testing.T) {
		var session struct {
			Token string `json:"token"`
		}
		status := call(t, ts, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
			"email":    "flow@example.com",
			"password": "long-enough-password",
		}, &session)
		if status != http.StatusOK {
			t.Fatalf("Expected 200, got %d", status)
		}
		if session.Token == "" {
			t.Error("Expected token in login response")
		}
	})

	t.Run("Wrong password rejected", func(t *testing.T) {
		status := call(t, ts, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
			"email":    "flow@example.com",
			"password": "wrong-password-here",
		}, nil)
		if status != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d", status)
		}
	})

	t.Run("Protected route requires token", func(t *testing.T) {
		status := call(t, ts, http.MethodGet, "/api/v1/contacts", "", nil, nil)
		if status != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d", status)
		}
	})

	t.Run("Me returns account without password hash", func(t *testing.T) {
		var user map[string]interface{}
		status := call(t, ts, http.MethodGet, "/api/v1/auth/me", token, nil, &user)
		if status != http.StatusOK {
			t.Fatalf("Expected 200, got %d", status)
		}
		if user["email"] != "flow@example.com" {
			t.Errorf("Unexpected user %+v", user)
		}
		if _, leaked := user["password_hash"]; leaked {
			t.Error("Password hash leaked in response")
		}
	})
}

func TestLedgerEndpoints(t *testing.T) {
	ts := setupTestServer(t)
	token := registerUser(t, ts, "ledger@example.com")

	var contact struct {
		ID string `json:"id"`
	}
	status := call(t, ts, http.MethodPost, "/api/v1/contacts", token, map[string]string{
		"name":  "Ravi",
		"phone": "9876543210",
	}, &contact)
	if status != http.StatusCreated {
		t.Fatalf("create contact returned %d", status)
	}

	entries := []map[string]interface{}{
		{"contact_id": contact.ID, "type": "gave", "amount": "120", "entry_date": "2026-08-01"},
		{"contact_id": contact.ID, "type": "got", "amount": "50", "entry_date": "2026-08-02"},
	}
	for _, e := range entries {
		if status := call(t, ts, http.MethodPost, "/api/v1/entries", token, e, nil); status != http.StatusCreated {
			t.Fatalf("create entry returned %d", status)
		}
	}

	t.Run("Overview nets gave minus got", func(t *testing.T) {
		var overview struct {
			Balances []struct {
				ID      string `json:"id"`
				Balance string `json:"balance"`
			} `json:"balances"`
			Totals struct {
				YouWillGet string `json:"you_will_get"`
				Net        string `json:"net"`
			} `json:"totals"`
		}
		status := call(t, ts, http.MethodGet, "/api/v1/ledger/overview", token, nil, &overview)
		if status != http.StatusOK {
			t.Fatalf("overview returned %d", status)
		}
		if len(overview.Balances) != 1 {
			t.Fatalf("Expected 1 balance, got %d", len(overview.Balances))
		}
		if overview.Balances[0].Balance != "70" {
			t.Errorf("Expected balance 70, got %s", overview.Balances[0].Balance)
		}
		if overview.Totals.YouWillGet != "70" {
			t.Errorf("Expected you_will_get 70, got %s", overview.Totals.YouWillGet)
		}
	})

	t.Run("Invalid entry type rejected", func(t *testing.T) {
		status := call(t, ts, http.MethodPost, "/api/v1/entries", token, map[string]interface{}{
			"contact_id": contact.ID, "type": "lent", "amount": "10", "entry_date": "2026-08-03",
		}, nil)
		if status != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", status)
		}
	})

	t.Run("Statement runs newest first", func(t *testing.T) {
		var statement []struct {
			Running string `json:"running_balance"`
		}
		status := call(t, ts, http.MethodGet, "/api/v1/ledger/statement/"+contact.ID, token, nil, &statement)
		if status != http.StatusOK {
			t.Fatalf("statement returned %d", status)
		}
		if len(statement) != 2 {
			t.Fatalf("Expected 2 rows, got %d", len(statement))
		}
		if statement[0].Running != "70" {
			t.Errorf("Expected newest running balance 70, got %s", statement[0].Running)
		}
	})
}

func TestInvoiceEndpoints(t *testing.T) {
	ts := setupTestServer(t)
	token := registerUser(t, ts, "invoice@example.com")

	var item struct {
		ID string `json:"id"`
	}
	if status := call(t, ts, http.MethodPost, "/api/v1/items", token, map[string]string{
		"name": "Sugar", "unit": "KG",
	}, &item); status != http.StatusCreated {
		t.Fatalf("create item returned %d", status)
	}

	if status := call(t, ts, http.MethodPost, "/api/v1/movements", token, map[string]interface{}{
		"item_id": item.ID, "type": "in", "quantity": "10", "movement_date": "2026-08-01",
	}, nil); status != http.StatusCreated {
		t.Fatalf("create movement returned %d", status)
	}

	t.Run("Sale invoice accepted and reconstructed", func(t *testing.T) {
		var receipt struct {
			InvoiceID   string `json:"invoice_id"`
			Total       string `json:"total"`
			Outstanding string `json:"outstanding"`
		}
		status := call(t, ts, http.MethodPost, "/api/v1/invoices", token, map[string]interface{}{
			"kind":       "sale",
			"party":      "Ravi Traders",
			"date":       "2026-08-15",
			"settlement": "50",
			"lines": []map[string]string{
				{"item_id": item.ID, "quantity": "5", "rate": "20"},
			},
		}, &receipt)
		if status != http.StatusCreated {
			t.Fatalf("create invoice returned %d", status)
		}
		if receipt.Total != "100" {
			t.Errorf("Expected total 100, got %s", receipt.Total)
		}
		if receipt.Outstanding != "50" {
			t.Errorf("Expected outstanding 50, got %s", receipt.Outstanding)
		}

		var history []struct {
			ID   string `json:"id"`
			Kind string `json:"kind"`
		}
		if status := call(t, ts, http.MethodGet, "/api/v1/invoices?kind=sale", token, nil, &history); status != http.StatusOK {
			t.Fatalf("history returned %d", status)
		}
		if len(history) != 1 || history[0].ID != receipt.InvoiceID {
			t.Errorf("Expected reconstructed invoice %s, got %+v", receipt.InvoiceID, history)
		}
	})

	t.Run("Oversold invoice conflicts", func(t *testing.T) {
		status := call(t, ts, http.MethodPost, "/api/v1/invoices", token, map[string]interface{}{
			"kind":  "sale",
			"party": "Ravi Traders",
			"date":  "2026-08-16",
			"lines": []map[string]string{
				{"item_id": item.ID, "quantity": "500", "rate": "20"},
			},
		}, nil)
		if status != http.StatusConflict {
			t.Errorf("Expected 409, got %d", status)
		}
	})

	t.Run("Stock overview reflects the sale", func(t *testing.T) {
		var overview struct {
			Levels []struct {
				ID    string `json:"id"`
				Stock string `json:"stock"`
			} `json:"levels"`
		}
		if status := call(t, ts, http.MethodGet, "/api/v1/stock/overview", token, nil, &overview); status != http.StatusOK {
			t.Fatalf("stock overview returned %d", status)
		}
		if len(overview.Levels) != 1 {
			t.Fatalf("Expected 1 level, got %d", len(overview.Levels))
		}
		if overview.Levels[0].Stock != "5" {
			t.Errorf("Expected stock 5 after selling 5 of 10, got %s", overview.Levels[0].Stock)
		}
	})
}

func TestEventsStream(t *testing.T) {
	ts := setupTestServer(t)
	token := registerUser(t, ts, "events@example.com")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/api/v1/events", nil)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	// The stream must open through the full middleware chain, not fall
	// over on a writer wrapper that hides http.Flusher.
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("Expected text/event-stream, got %q", ct)
	}

	// A write after the stream is open must arrive as an event.
	if status := call(t, ts, http.MethodPost, "/api/v1/contacts", token, map[string]string{
		"name": "Ravi",
	}, nil); status != http.StatusCreated {
		t.Fatalf("create contact returned %d", status)
	}

	line, err := bufio.NewReader(resp.Body).ReadString('\n')
	if err != nil {
		t.Fatalf("failed to read event: %v", err)
	}
	if !strings.HasPrefix(line, "data:") || !strings.Contains(line, `"contacts"`) {
		t.Errorf("Expected contacts change event, got %q", line)
	}
}

func TestGroupEndpoints(t *testing.T) {
	ts := setupTestServer(t)
	ownerToken := registerUser(t, ts, "owner@example.com")
	memberToken := registerUser(t, ts, "member@example.com")

	var created struct {
		Group struct {
			ID       string `json:"id"`
			JoinCode string `json:"join_code"`
		} `json:"group"`
	}
	if status := call(t, ts, http.MethodPost, "/api/v1/group", ownerToken, map[string]string{
		"name": "Shop Floor",
	}, &created); status != http.StatusCreated {
		t.Fatalf("create group returned %d", status)
	}

	t.Run("Member joins by code and sees shared items", func(t *testing.T) {
		if status := call(t, ts, http.MethodPost, "/api/v1/group/join", memberToken, map[string]string{
			"join_code": created.Group.JoinCode,
		}, nil); status != http.StatusOK {
			t.Fatalf("join returned %d", status)
		}

		// Owner adds an item; member must see it through the shared scope.
		if status := call(t, ts, http.MethodPost, "/api/v1/items", ownerToken, map[string]string{
			"name": "Shared Rice", "unit": "KG",
		}, nil); status != http.StatusCreated {
			t.Fatalf("create item returned %d", status)
		}

		var items []struct {
			Name string `json:"name"`
		}
		if status := call(t, ts, http.MethodGet, "/api/v1/items", memberToken, nil, &items); status != http.StatusOK {
			t.Fatalf("list items returned %d", status)
		}
		if len(items) != 1 || items[0].Name != "Shared Rice" {
			t.Errorf("Expected shared item visible to member, got %+v", items)
		}
	})

	t.Run("Member cannot rename", func(t *testing.T) {
		status := call(t, ts, http.MethodPut, "/api/v1/group", memberToken, map[string]string{
			"name": "Hijacked",
		}, nil)
		if status != http.StatusForbidden {
			t.Errorf("Expected 403, got %d", status)
		}
	})

	t.Run("Bad join code not found", func(t *testing.T) {
		outsiderToken := registerUser(t, ts, fmt.Sprintf("outsider-%d@example.com", time.Now().UnixNano()))
		status := call(t, ts, http.MethodPost, "/api/v1/group/join", outsiderToken, map[string]string{
			"join_code": "AAAAAA",
		}, nil)
		if status != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", status)
		}
	})
}
