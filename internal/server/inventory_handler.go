package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/khataplus/khataplus/internal/middleware"
	"github.com/khataplus/khataplus/internal/models"
	"github.com/khataplus/khataplus/internal/stock"
)

type itemRequest struct {
	Name string `json:"name"`
	Unit string `json:"unit"`
}

type movementRequest struct {
	ItemID       string              `json:"item_id"`
	Type         models.MovementType `json:"type"`
	Quantity     decimal.Decimal     `json:"quantity"`
	Note         string              `json:"note"`
	MovementDate string              `json:"movement_date"`
}

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	items, err := s.inventory.ListItems(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, items)
}

func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := decode(r, &req); err != nil {
		respondError(w, err)
		return
	}

	item, err := s.inventory.CreateItem(r.Context(), middleware.GetUserID(r.Context()), req.Name, req.Unit)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, item)
}

func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := decode(r, &req); err != nil {
		respondError(w, err)
		return
	}

	item, err := s.inventory.UpdateItem(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "id"), req.Name, req.Unit)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, item)
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	if err := s.inventory.DeleteItem(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "id")); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListMovements(w http.ResponseWriter, r *http.Request) {
	movements, err := s.inventory.ListMovements(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, movements)
}

func (s *Server) handleCreateMovement(w http.ResponseWriter, r *http.Request) {
	var req movementRequest
	if err := decode(r, &req); err != nil {
		respondError(w, err)
		return
	}

	movement, err := s.inventory.CreateMovement(r.Context(), middleware.GetUserID(r.Context()), &models.InventoryMovement{
		ItemID:       req.ItemID,
		Type:         req.Type,
		Quantity:     req.Quantity,
		Note:         req.Note,
		MovementDate: req.MovementDate,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, movement)
}

func (s *Server) handleUpdateMovement(w http.ResponseWriter, r *http.Request) {
	var req movementRequest
	if err := decode(r, &req); err != nil {
		respondError(w, err)
		return
	}

	movement, err := s.inventory.UpdateMovement(r.Context(), middleware.GetUserID(r.Context()), &models.InventoryMovement{
		ID:           chi.URLParam(r, "id"),
		ItemID:       req.ItemID,
		Type:         req.Type,
		Quantity:     req.Quantity,
		Note:         req.Note,
		MovementDate: req.MovementDate,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, movement)
}

func (s *Server) handleDeleteMovement(w http.ResponseWriter, r *http.Request) {
	if err := s.inventory.DeleteMovement(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "id")); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStockOverview(w http.ResponseWriter, r *http.Request) {
	levels, totals, err := s.inventory.StockOverview(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, struct {
		Levels []stock.ItemLevel `json:"levels"`
		Totals stock.Totals      `json:"totals"`
	}{Levels: levels, Totals: totals})
}

func (s *Server) handleUnits(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, s.inventory.Units())
}
