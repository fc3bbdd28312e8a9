package invoice

import (
	"testing"

	"github.com/khataplus/khataplus/internal/models"
)

func TestTagRoundTrip(t *testing.T) {
	tag := Tag{
		InvoiceID: "SAL-12345678",
		Kind:      models.InvoiceSale,
		Party:     "Asha",
		Rate:      d("20"),
		Item:      "Sugar",
		Note:      "march order",
	}

	parsed, ok := ParseTag(tag.Encode())
	if !ok {
		t.Fatalf("ParseTag rejected encoded tag %q", tag.Encode())
	}
	if parsed.InvoiceID != tag.InvoiceID || parsed.Kind != tag.Kind || parsed.Party != tag.Party {
		t.Errorf("round trip mismatch: %+v", parsed)
	}
	if !parsed.Rate.Equal(d("20.00")) {
		t.Errorf("Rate = %s, want 20.00", parsed.Rate)
	}
	if parsed.Item != "Sugar" || parsed.Note != "march order" {
		t.Errorf("Item/Note mismatch: %+v", parsed)
	}
}

func TestParseTagMalformed(t *testing.T) {
	tests := []struct {
		name string
		note string
	}{
		{"plain note", "restocked shelf"},
		{"empty note", ""},
		{"prefix without id", "INV:"},
		{"prefix without id but other fields", "INV:|TYPE:sale|PARTY:Asha"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := ParseTag(tt.note); ok {
				t.Errorf("ParseTag(%q) should not parse", tt.note)
			}
		})
	}
}

func TestReconstructGroupsByInvoice(t *testing.T) {
	// Two lines of one sale invoice plus one purchase invoice and one
	// untagged movement, newest first as the store returns them.
	movements := []models.InventoryMovement{
		{
			ItemID: "i1", Type: models.MovementOut, Quantity: d("5"), MovementDate: "2024-03-02",
			Note: "INV:SAL-00000002|TYPE:sale|PARTY:Asha|RATE:20.00|ITEM:Sugar",
		},
		{
			ItemID: "i2", Type: models.MovementOut, Quantity: d("2"), MovementDate: "2024-03-02",
			Note: "INV:SAL-00000002|TYPE:sale|PARTY:Asha|RATE:50.00|ITEM:Rice",
		},
		{
			ItemID: "i1", Type: models.MovementIn, Quantity: d("10"), MovementDate: "2024-03-01",
			Note: "INV:PUR-00000001|TYPE:purchase|PARTY:Bilal Traders|RATE:15.00|ITEM:Sugar",
		},
		{
			ItemID: "i1", Type: models.MovementIn, Quantity: d("3"), MovementDate: "2024-03-01",
			Note: "manual restock",
		},
	}

	summaries := Reconstruct(movements)
	if len(summaries) != 2 {
		t.Fatalf("expected 2 invoices, got %d", len(summaries))
	}

	// Sorted date descending: the sale comes first.
	sale := summaries[0]
	if sale.ID != "SAL-00000002" || sale.Kind != models.InvoiceSale {
		t.Errorf("unexpected first summary: %+v", sale)
	}
	if sale.Party != "Asha" || sale.Date != "2024-03-02" {
		t.Errorf("sale party/date mismatch: %+v", sale)
	}
	if !sale.TotalQty.Equal(d("7")) {
		t.Errorf("sale TotalQty = %s, want 7", sale.TotalQty)
	}
	if !sale.TotalValue.Equal(d("200")) { // 5×20 + 2×50
		t.Errorf("sale TotalValue = %s, want 200", sale.TotalValue)
	}
	if sale.LineCount != 2 {
		t.Errorf("sale LineCount = %d, want 2", sale.LineCount)
	}

	purchase := summaries[1]
	if purchase.Kind != models.InvoicePurchase || !purchase.TotalValue.Equal(d("150")) {
		t.Errorf("unexpected purchase summary: %+v", purchase)
	}
}

func TestReconstructLegacyAndMalformed(t *testing.T) {
	movements := []models.InventoryMovement{
		// Legacy tag without TYPE: direction decides the kind.
		{
			ItemID: "i1", Type: models.MovementOut, Quantity: d("1"), MovementDate: "2024-02-01",
			Note: "INV:SAL-00000009|PARTY:Asha|RATE:10.00|ITEM:Sugar",
		},
		// Tagged but without invoice id: must not be counted at all.
		{
			ItemID: "i1", Type: models.MovementOut, Quantity: d("4"), MovementDate: "2024-02-01",
			Note: "INV:|RATE:10.00",
		},
		// Tag with unparseable rate: the line counts with value zero.
		{
			ItemID: "i1", Type: models.MovementIn, Quantity: d("2"), MovementDate: "2024-01-05",
			Note: "INV:PUR-00000008|TYPE:purchase|RATE:abc|ITEM:Sugar",
		},
	}

	summaries := Reconstruct(movements)
	if len(summaries) != 2 {
		t.Fatalf("expected 2 invoices, got %d", len(summaries))
	}

	legacy := summaries[0]
	if legacy.Kind != models.InvoiceSale {
		t.Errorf("legacy out movement should imply sale, got %s", legacy.Kind)
	}
	if !legacy.TotalQty.Equal(d("1")) {
		t.Errorf("legacy TotalQty = %s, want 1 (untagged movement must not count)", legacy.TotalQty)
	}

	badRate := summaries[1]
	if badRate.Party != "Walk-in" {
		t.Errorf("missing party should fall back to Walk-in, got %q", badRate.Party)
	}
	if !badRate.TotalValue.IsZero() {
		t.Errorf("unparseable rate should value to 0, got %s", badRate.TotalValue)
	}
}

func TestFilterKind(t *testing.T) {
	summaries := []models.InvoiceSummary{
		{ID: "SAL-1", Kind: models.InvoiceSale},
		{ID: "PUR-1", Kind: models.InvoicePurchase},
		{ID: "SAL-2", Kind: models.InvoiceSale},
	}

	sales := FilterKind(summaries, models.InvoiceSale)
	if len(sales) != 2 {
		t.Fatalf("expected 2 sales, got %d", len(sales))
	}
	for _, s := range sales {
		if s.Kind != models.InvoiceSale {
			t.Errorf("unexpected kind in filtered list: %s", s.Kind)
		}
	}
}

func TestReconcileReconstructRoundTrip(t *testing.T) {
	// An invoice built by the reconciler and parsed back by the
	// reconstructor yields the same kind, party, quantity and value.
	draft := Draft{
		Kind:       models.InvoiceSale,
		Party:      "Asha",
		Date:       "2024-03-01",
		Settlement: d("50"),
		Lines: []Line{
			{ItemID: "i1", Quantity: d("5"), Rate: d("20")},
			{ItemID: "i2", Quantity: d("2"), Rate: d("30")},
		},
	}

	batch, err := Reconcile(draft, testItems(), testMovements(), testNow)
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}

	summaries := Reconstruct(batch.Movements)
	if len(summaries) != 1 {
		t.Fatalf("expected 1 reconstructed invoice, got %d", len(summaries))
	}

	summary := summaries[0]
	if summary.ID != batch.InvoiceID {
		t.Errorf("ID = %s, want %s", summary.ID, batch.InvoiceID)
	}
	if summary.Kind != models.InvoiceSale {
		t.Errorf("Kind = %s, want sale", summary.Kind)
	}
	if summary.Party != "Asha" {
		t.Errorf("Party = %s, want Asha", summary.Party)
	}
	if !summary.TotalQty.Equal(d("7")) {
		t.Errorf("TotalQty = %s, want 7", summary.TotalQty)
	}
	if !summary.TotalValue.Equal(batch.Total) {
		t.Errorf("TotalValue = %s, want %s", summary.TotalValue, batch.Total)
	}
	if summary.LineCount != 2 {
		t.Errorf("LineCount = %d, want 2", summary.LineCount)
	}
	if summary.Date != "2024-03-01" {
		t.Errorf("Date = %s, want 2024-03-01", summary.Date)
	}
}
