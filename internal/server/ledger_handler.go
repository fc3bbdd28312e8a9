package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/khataplus/khataplus/internal/ledger"
	"github.com/khataplus/khataplus/internal/middleware"
	"github.com/khataplus/khataplus/internal/models"
)

type contactRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type entryRequest struct {
	ContactID string           `json:"contact_id"`
	Type      models.EntryType `json:"type"`
	Amount    decimal.Decimal  `json:"amount"`
	Note      string           `json:"note"`
	EntryDate string           `json:"entry_date"`
}

func (s *Server) handleListContacts(w http.ResponseWriter, r *http.Request) {
	contacts, err := s.ledger.ListContacts(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, contacts)
}

func (s *Server) handleCreateContact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := decode(r, &req); err != nil {
		respondError(w, err)
		return
	}

	contact, err := s.ledger.CreateContact(r.Context(), middleware.GetUserID(r.Context()), req.Name, req.Phone)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, contact)
}

func (s *Server) handleUpdateContact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := decode(r, &req); err != nil {
		respondError(w, err)
		return
	}

	contact, err := s.ledger.UpdateContact(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "id"), req.Name, req.Phone)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, contact)
}

func (s *Server) handleDeleteContact(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.DeleteContact(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "id")); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := s.ledger.ListEntries(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, entries)
}

func (s *Server) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if err := decode(r, &req); err != nil {
		respondError(w, err)
		return
	}

	entry, err := s.ledger.CreateEntry(r.Context(), &models.Entry{
		OwnerID:   middleware.GetUserID(r.Context()),
		ContactID: req.ContactID,
		Type:      req.Type,
		Amount:    req.Amount,
		Note:      req.Note,
		EntryDate: req.EntryDate,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, entry)
}

func (s *Server) handleUpdateEntry(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if err := decode(r, &req); err != nil {
		respondError(w, err)
		return
	}

	entry, err := s.ledger.UpdateEntry(r.Context(), &models.Entry{
		ID:        chi.URLParam(r, "id"),
		OwnerID:   middleware.GetUserID(r.Context()),
		ContactID: req.ContactID,
		Type:      req.Type,
		Amount:    req.Amount,
		Note:      req.Note,
		EntryDate: req.EntryDate,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, entry)
}

func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.DeleteEntry(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "id")); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleLedgerOverview(w http.ResponseWriter, r *http.Request) {
	balances, totals, err := s.ledger.Overview(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, struct {
		Balances []ledger.ContactBalance `json:"balances"`
		Totals   ledger.Totals           `json:"totals"`
	}{Balances: balances, Totals: totals})
}

func (s *Server) handleStatement(w http.ResponseWriter, r *http.Request) {
	statement, err := s.ledger.Statement(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "contactID"))
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, statement)
}
