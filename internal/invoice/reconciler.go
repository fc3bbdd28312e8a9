package invoice

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/khataplus/khataplus/internal/models"
	"github.com/khataplus/khataplus/internal/stock"
)

var (
	ErrNoLines                = errors.New("invoice needs at least one line")
	ErrBlankParty             = errors.New("party name is required")
	ErrInvalidKind            = errors.New("invoice kind must be purchase or sale")
	ErrInvalidQuantity        = errors.New("line quantity must be greater than zero")
	ErrInvalidRate            = errors.New("line rate cannot be negative")
	ErrUnknownItem            = errors.New("line references an unknown item")
	ErrInvalidSettlement      = errors.New("settlement amount cannot be negative")
	ErrSettlementExceedsTotal = errors.New("settlement amount cannot exceed invoice total")
)

// InsufficientStockError reports a sale line asking for more than the
// currently derived stock of its item.
type InsufficientStockError struct {
	ItemName  string
	Available decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("not enough stock for %s, available: %s", e.ItemName, e.Available.StringFixed(2))
}

// Line is one invoice line: an item, a quantity and a per-unit rate.
type Line struct {
	ItemID   string          `json:"item_id"`
	Quantity decimal.Decimal `json:"quantity"`
	Rate     decimal.Decimal `json:"rate"`
}

// Draft is a user-submitted invoice before reconciliation.
type Draft struct {
	Kind       models.InvoiceKind `json:"kind"`
	Party      string             `json:"party"`
	Date       string             `json:"date"`
	Note       string             `json:"note"`
	Settlement decimal.Decimal    `json:"settlement"`
	Lines      []Line             `json:"lines"`
}

// Batch is the consistent record set an accepted invoice translates into.
// Everything in it must be persisted atomically: movements without entries
// (or vice versa) would corrupt the ledger.
//
// Movements and entries are returned without IDs, owner or scope fields;
// the caller assigns those. Entries additionally lack a ContactID until the
// party has been resolved to a contact.
type Batch struct {
	InvoiceID   string
	Kind        models.InvoiceKind
	Party       string
	Total       decimal.Decimal
	Settlement  decimal.Decimal
	Outstanding decimal.Decimal
	Movements   []models.InventoryMovement
	Entries     []models.Entry
}

// Reconcile validates a draft invoice against the current item and movement
// sets and computes the batch to persist. It rejects before producing
// anything persistable: a returned error means zero writes.
//
// The sale-side stock check derives availability from the movement set at
// call time. Concurrent writers to the same store can race past it; the
// check is advisory, not a serialization point.
func Reconcile(draft Draft, items []models.InventoryItem, movements []models.InventoryMovement, now time.Time) (*Batch, error) {
	if len(draft.Lines) == 0 {
		return nil, ErrNoLines
	}
	party := strings.TrimSpace(draft.Party)
	if party == "" {
		return nil, ErrBlankParty
	}
	if !draft.Kind.Valid() {
		return nil, ErrInvalidKind
	}

	movementType := models.MovementIn
	if draft.Kind == models.InvoiceSale {
		movementType = models.MovementOut
	}

	itemsByID := make(map[string]models.InventoryItem, len(items))
	for _, item := range items {
		itemsByID[item.ID] = item
	}
	available := make(map[string]decimal.Decimal, len(items))
	for _, level := range stock.ItemLevels(items, movements) {
		available[level.ID] = level.Stock
	}

	invoiceID := NewInvoiceID(draft.Kind, now)
	note := strings.TrimSpace(draft.Note)

	total := decimal.Zero
	batchMovements := make([]models.InventoryMovement, 0, len(draft.Lines))
	for _, line := range draft.Lines {
		if !line.Quantity.IsPositive() {
			return nil, ErrInvalidQuantity
		}
		if line.Rate.IsNegative() {
			return nil, ErrInvalidRate
		}
		item, ok := itemsByID[line.ItemID]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownItem, line.ItemID)
		}

		if movementType == models.MovementOut {
			if line.Quantity.GreaterThan(available[item.ID]) {
				return nil, &InsufficientStockError{ItemName: item.Name, Available: available[item.ID]}
			}
		}

		total = total.Add(line.Quantity.Mul(line.Rate))
		tag := Tag{
			InvoiceID: invoiceID,
			Kind:      draft.Kind,
			Party:     party,
			Rate:      line.Rate,
			Item:      item.Name,
			Note:      note,
		}
		batchMovements = append(batchMovements, models.InventoryMovement{
			ItemID:       item.ID,
			Type:         movementType,
			Quantity:     line.Quantity,
			Note:         tag.Encode(),
			MovementDate: draft.Date,
		})
	}

	if draft.Settlement.IsNegative() {
		return nil, ErrInvalidSettlement
	}
	if draft.Settlement.GreaterThan(total) {
		return nil, ErrSettlementExceedsTotal
	}
	outstanding := total.Sub(draft.Settlement)

	batch := &Batch{
		InvoiceID:   invoiceID,
		Kind:        draft.Kind,
		Party:       party,
		Total:       total,
		Settlement:  draft.Settlement,
		Outstanding: outstanding,
		Movements:   batchMovements,
	}

	// The outstanding amount is what the party still owes (sale) or what we
	// still owe (purchase). "gave" raises "you will get", so a sale's
	// receivable is a gave entry and a purchase's payable is a got entry.
	if outstanding.IsPositive() {
		entryType, label := models.EntryGot, "Purchase"
		if draft.Kind == models.InvoiceSale {
			entryType, label = models.EntryGave, "Sales"
		}
		batch.Entries = append(batch.Entries, models.Entry{
			Type:      entryType,
			Amount:    outstanding.Round(2),
			Note:      fmt.Sprintf("%s invoice %s", label, invoiceID),
			EntryDate: draft.Date,
		})
	}

	// Cash already exchanged at invoice time goes the other way.
	if draft.Settlement.IsPositive() {
		entryType, label := models.EntryGave, "Paid"
		if draft.Kind == models.InvoiceSale {
			entryType, label = models.EntryGot, "Received"
		}
		batch.Entries = append(batch.Entries, models.Entry{
			Type:      entryType,
			Amount:    draft.Settlement.Round(2),
			Note:      fmt.Sprintf("%s against invoice %s", label, invoiceID),
			EntryDate: draft.Date,
		})
	}

	return batch, nil
}
