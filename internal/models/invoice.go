package models

import "github.com/shopspring/decimal"

// InvoiceKind distinguishes purchase invoices (stock in, you owe the
// supplier) from sale invoices (stock out, the customer owes you).
type InvoiceKind string

const (
	InvoicePurchase InvoiceKind = "purchase"
	InvoiceSale     InvoiceKind = "sale"
)

// Valid reports whether k is one of the known invoice kinds.
func (k InvoiceKind) Valid() bool {
	return k == InvoicePurchase || k == InvoiceSale
}

// InvoiceSummary is an invoice-level aggregate reconstructed from the tag
// encoding embedded in movement notes. Invoices are not stored as
// first-class records; this is always derived.
type InvoiceSummary struct {
	// ID is the short invoice id, e.g. "SAL-12345678".
	ID string `json:"id"`

	// Kind is purchase or sale.
	Kind InvoiceKind `json:"kind"`

	// Party is the supplier or customer name recorded on the invoice.
	Party string `json:"party"`

	// Date is the invoice date in YYYY-MM-DD form.
	Date string `json:"date"`

	// TotalQty is the summed quantity across all lines.
	TotalQty decimal.Decimal `json:"total_qty"`

	// TotalValue is Σ(rate × quantity) across all lines.
	TotalValue decimal.Decimal `json:"total_value"`

	// LineCount is the number of movements belonging to the invoice.
	LineCount int `json:"line_count"`
}
