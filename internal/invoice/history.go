package invoice

import (
	"sort"

	"github.com/khataplus/khataplus/internal/models"
)

// Reconstruct recovers invoice-level aggregates from the tag encoding in
// movement notes. Movements without a parseable invoice id are skipped;
// nothing here errors, unparseable data is tolerated as a data-quality
// concern.
//
// Party and date are taken from the first movement seen per invoice id, so
// with the movement set ordered newest-first (as the store returns it) the
// most recent movement wins. Results come back sorted by date descending.
func Reconstruct(movements []models.InventoryMovement) []models.InvoiceSummary {
	byID := make(map[string]*models.InvoiceSummary)
	var order []string

	for _, movement := range movements {
		tag, ok := ParseTag(movement.Note)
		if !ok {
			continue
		}

		// Legacy tags carry no TYPE field; an out movement implies a sale.
		kind := models.InvoicePurchase
		if tag.Kind == models.InvoiceSale || movement.Type == models.MovementOut {
			kind = models.InvoiceSale
		}

		value := tag.Rate.Mul(movement.Quantity)

		if existing, seen := byID[tag.InvoiceID]; seen {
			existing.TotalQty = existing.TotalQty.Add(movement.Quantity)
			existing.TotalValue = existing.TotalValue.Add(value)
			existing.LineCount++
			continue
		}

		party := tag.Party
		if party == "" {
			party = "Walk-in"
		}
		byID[tag.InvoiceID] = &models.InvoiceSummary{
			ID:         tag.InvoiceID,
			Kind:       kind,
			Party:      party,
			Date:       movement.MovementDate,
			TotalQty:   movement.Quantity,
			TotalValue: value,
			LineCount:  1,
		}
		order = append(order, tag.InvoiceID)
	}

	summaries := make([]models.InvoiceSummary, 0, len(order))
	for _, id := range order {
		summaries = append(summaries, *byID[id])
	}
	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].Date > summaries[j].Date
	})
	return summaries
}

// FilterKind returns only the summaries of the given kind.
func FilterKind(summaries []models.InvoiceSummary, kind models.InvoiceKind) []models.InvoiceSummary {
	filtered := make([]models.InvoiceSummary, 0, len(summaries))
	for _, s := range summaries {
		if s.Kind == kind {
			filtered = append(filtered, s)
		}
	}
	return filtered
}
