package server

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/khataplus/khataplus/internal/invoice"
	"github.com/khataplus/khataplus/internal/middleware"
	"github.com/khataplus/khataplus/internal/models"
)

// invoiceResponse is the accepted-invoice receipt: the generated ID and
// the reconciled amounts, without the raw record batch.
type invoiceResponse struct {
	InvoiceID   string             `json:"invoice_id"`
	Kind        models.InvoiceKind `json:"kind"`
	Party       string             `json:"party"`
	Total       decimal.Decimal    `json:"total"`
	Settlement  decimal.Decimal    `json:"settlement"`
	Outstanding decimal.Decimal    `json:"outstanding"`
}

func (s *Server) handleCreateInvoice(w http.ResponseWriter, r *http.Request) {
	var draft invoice.Draft
	if err := decode(r, &draft); err != nil {
		respondError(w, err)
		return
	}

	batch, err := s.invoices.Create(r.Context(), middleware.GetUserID(r.Context()), draft)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, invoiceResponse{
		InvoiceID:   batch.InvoiceID,
		Kind:        batch.Kind,
		Party:       batch.Party,
		Total:       batch.Total,
		Settlement:  batch.Settlement,
		Outstanding: batch.Outstanding,
	})
}

func (s *Server) handleInvoiceHistory(w http.ResponseWriter, r *http.Request) {
	kind := models.InvoiceKind(r.URL.Query().Get("kind"))
	summaries, err := s.invoices.History(r.Context(), middleware.GetUserID(r.Context()), kind)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, summaries)
}
