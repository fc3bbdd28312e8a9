package ledger

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/khataplus/khataplus/internal/models"
)

func gave(contactID string, amount float64, createdAt int64) models.Entry {
	return models.Entry{ContactID: contactID, Type: models.EntryGave, Amount: decimal.NewFromFloat(amount), CreatedAt: createdAt}
}

func got(contactID string, amount float64, createdAt int64) models.Entry {
	return models.Entry{ContactID: contactID, Type: models.EntryGot, Amount: decimal.NewFromFloat(amount), CreatedAt: createdAt}
}

func TestBalance(t *testing.T) {
	tests := []struct {
		name    string
		entries []models.Entry
		want    string
	}{
		{
			name:    "empty entry set is zero",
			entries: nil,
			want:    "0",
		},
		{
			name:    "gave minus got",
			entries: []models.Entry{gave("c1", 100, 1), got("c1", 30, 2)},
			want:    "70",
		},
		{
			name:    "negative balance when got exceeds gave",
			entries: []models.Entry{gave("c1", 20, 1), got("c1", 50, 2)},
			want:    "-30",
		},
		{
			name:    "fractional amounts stay exact",
			entries: []models.Entry{gave("c1", 0.1, 1), gave("c1", 0.2, 2), got("c1", 0.3, 3)},
			want:    "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			balance := Balance(tt.entries)
			if !balance.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("Balance() = %s, want %s", balance, tt.want)
			}
		})
	}
}

func TestBalanceIdempotent(t *testing.T) {
	entries := []models.Entry{gave("c1", 100, 1), got("c1", 30, 2), gave("c1", 12.5, 3)}

	first := Balance(entries)
	second := Balance(entries)
	if !first.Equal(second) {
		t.Errorf("Balance not idempotent: %s vs %s", first, second)
	}
}

func TestContactBalances(t *testing.T) {
	contacts := []models.Contact{
		{ID: "c1", Name: "Asha"},
		{ID: "c2", Name: "Bilal"},
		{ID: "c3", Name: "Chitra"},
	}
	entries := []models.Entry{
		gave("c1", 100, 1),
		got("c1", 30, 2),
		got("c2", 40, 3),
		gave("unknown", 500, 4), // no matching contact, ignored
	}

	balances := ContactBalances(contacts, entries)
	if len(balances) != 3 {
		t.Fatalf("expected 3 balances, got %d", len(balances))
	}

	want := map[string]string{"c1": "70", "c2": "-40", "c3": "0"}
	for _, b := range balances {
		if !b.Balance.Equal(decimal.RequireFromString(want[b.ID])) {
			t.Errorf("%s balance = %s, want %s", b.Name, b.Balance, want[b.ID])
		}
	}
}

func TestSummarize(t *testing.T) {
	balances := []ContactBalance{
		{Contact: models.Contact{ID: "c1"}, Balance: decimal.NewFromInt(70)},
		{Contact: models.Contact{ID: "c2"}, Balance: decimal.NewFromInt(-40)},
		{Contact: models.Contact{ID: "c3"}, Balance: decimal.Zero},
		{Contact: models.Contact{ID: "c4"}, Balance: decimal.NewFromInt(30)},
	}

	totals := Summarize(balances)
	if !totals.YouWillGet.Equal(decimal.NewFromInt(100)) {
		t.Errorf("YouWillGet = %s, want 100", totals.YouWillGet)
	}
	if !totals.YouWillGive.Equal(decimal.NewFromInt(40)) {
		t.Errorf("YouWillGive = %s, want 40", totals.YouWillGive)
	}
	if !totals.Net.Equal(decimal.NewFromInt(60)) {
		t.Errorf("Net = %s, want 60", totals.Net)
	}
}

func TestAnnotate(t *testing.T) {
	// Deliberately out of creation order.
	entries := []models.Entry{
		got("c1", 30, 200),
		gave("c1", 100, 100),
		gave("c1", 50, 300),
	}

	annotated := Annotate(entries)
	if len(annotated) != 3 {
		t.Fatalf("expected 3 annotated entries, got %d", len(annotated))
	}

	// Newest first: created 300, 200, 100 with running balances 120, 70, 100.
	wantCreated := []int64{300, 200, 100}
	wantRunning := []string{"120", "70", "100"}
	for i, a := range annotated {
		if a.CreatedAt != wantCreated[i] {
			t.Errorf("entry %d CreatedAt = %d, want %d", i, a.CreatedAt, wantCreated[i])
		}
		if !a.RunningBalance.Equal(decimal.RequireFromString(wantRunning[i])) {
			t.Errorf("entry %d RunningBalance = %s, want %s", i, a.RunningBalance, wantRunning[i])
		}
	}
}

func TestAnnotateEmpty(t *testing.T) {
	if annotated := Annotate(nil); len(annotated) != 0 {
		t.Errorf("expected no annotations for empty set, got %d", len(annotated))
	}
}
