// Package ledger derives running balances from entry sets.
//
// Every function here is a pure function of its arguments: the enclosing
// application loads the full entry set, derives, renders, and re-derives
// from scratch after every write or change notification. Nothing is ever
// patched incrementally.
package ledger

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/khataplus/khataplus/internal/models"
)

// ContactBalance is a contact annotated with its derived balance.
// Positive balance = the contact owes the owner ("you will get").
type ContactBalance struct {
	models.Contact
	Balance decimal.Decimal `json:"balance"`
}

// AnnotatedEntry is an entry annotated with the running balance after it
// was applied, in chronological order.
type AnnotatedEntry struct {
	models.Entry
	RunningBalance decimal.Decimal `json:"running_balance"`
}

// Totals aggregates balances across all contacts.
type Totals struct {
	// YouWillGet is the sum of all positive contact balances.
	YouWillGet decimal.Decimal `json:"you_will_get"`

	// YouWillGive is the sum of absolute values of negative balances.
	YouWillGive decimal.Decimal `json:"you_will_give"`

	// Net is YouWillGet − YouWillGive.
	Net decimal.Decimal `json:"net"`
}

// signed returns the entry amount with its ledger sign applied:
// positive for "gave", negative for "got".
func signed(e models.Entry) decimal.Decimal {
	if e.Type == models.EntryGave {
		return e.Amount
	}
	return e.Amount.Neg()
}

// Balance computes Σ(gave) − Σ(got) over the given entries.
// An empty entry set yields zero.
func Balance(entries []models.Entry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(signed(e))
	}
	return total
}

// ContactBalances derives the balance of every contact from the full entry
// set. Entries referencing unknown contacts are ignored.
func ContactBalances(contacts []models.Contact, entries []models.Entry) []ContactBalance {
	byContact := make(map[string]decimal.Decimal, len(contacts))
	for _, e := range entries {
		byContact[e.ContactID] = byContact[e.ContactID].Add(signed(e))
	}

	balances := make([]ContactBalance, len(contacts))
	for i, c := range contacts {
		balances[i] = ContactBalance{Contact: c, Balance: byContact[c.ID]}
	}
	return balances
}

// Summarize aggregates contact balances into "you will get" / "you will
// give" totals.
func Summarize(balances []ContactBalance) Totals {
	t := Totals{YouWillGet: decimal.Zero, YouWillGive: decimal.Zero, Net: decimal.Zero}
	for _, b := range balances {
		if b.Balance.IsPositive() {
			t.YouWillGet = t.YouWillGet.Add(b.Balance)
		} else if b.Balance.IsNegative() {
			t.YouWillGive = t.YouWillGive.Add(b.Balance.Abs())
		}
	}
	t.Net = t.YouWillGet.Sub(t.YouWillGive)
	return t
}

// Annotate orders the entries chronologically (creation time ascending),
// attaches the running balance after each one, then reverses so the newest
// entry comes first, which is how the ledger is presented.
func Annotate(entries []models.Entry) []AnnotatedEntry {
	chronological := make([]models.Entry, len(entries))
	copy(chronological, entries)
	sort.SliceStable(chronological, func(i, j int) bool {
		return chronological[i].CreatedAt < chronological[j].CreatedAt
	})

	running := decimal.Zero
	annotated := make([]AnnotatedEntry, len(chronological))
	for i, e := range chronological {
		running = running.Add(signed(e))
		annotated[i] = AnnotatedEntry{Entry: e, RunningBalance: running}
	}

	// Newest first.
	for i, j := 0, len(annotated)-1; i < j; i, j = i+1, j-1 {
		annotated[i], annotated[j] = annotated[j], annotated[i]
	}
	return annotated
}
