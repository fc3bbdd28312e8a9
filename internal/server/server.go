// Package server wires the HTTP API: route registration, request
// decoding, and the mapping from service errors to status codes.
package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/khataplus/khataplus/internal/auth"
	"github.com/khataplus/khataplus/internal/middleware"
	"github.com/khataplus/khataplus/internal/notify"
	"github.com/khataplus/khataplus/internal/service"
)

// Server bundles the services behind the HTTP API.
type Server struct {
	auth      *service.AuthService
	ledger    *service.LedgerService
	inventory *service.InventoryService
	groups    *service.GroupService
	invoices  *service.InvoiceService
	hub       *notify.Hub
	jwt       *auth.JWTManager
	logger    *slog.Logger
}

// New creates a server over the given services.
func New(
	authSvc *service.AuthService,
	ledgerSvc *service.LedgerService,
	inventorySvc *service.InventoryService,
	groupSvc *service.GroupService,
	invoiceSvc *service.InvoiceService,
	hub *notify.Hub,
	jwtManager *auth.JWTManager,
	logger *slog.Logger,
) *Server {
	return &Server{
		auth:      authSvc,
		ledger:    ledgerSvc,
		inventory: inventorySvc,
		groups:    groupSvc,
		invoices:  invoiceSvc,
		hub:       hub,
		jwt:       jwtManager,
		logger:    logger,
	}
}

// Router assembles the full route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(middleware.RequestLogger)
	r.Use(corsMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respond(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", middleware.MetricsHandler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(s.jwt))

			r.Get("/auth/me", s.handleCurrentUser)

			r.Get("/contacts", s.handleListContacts)
			r.Post("/contacts", s.handleCreateContact)
			r.Put("/contacts/{id}", s.handleUpdateContact)
			r.Delete("/contacts/{id}", s.handleDeleteContact)

			r.Get("/entries", s.handleListEntries)
			r.Post("/entries", s.handleCreateEntry)
			r.Put("/entries/{id}", s.handleUpdateEntry)
			r.Delete("/entries/{id}", s.handleDeleteEntry)

			r.Get("/ledger/overview", s.handleLedgerOverview)
			r.Get("/ledger/statement/{contactID}", s.handleStatement)

			r.Get("/items", s.handleListItems)
			r.Post("/items", s.handleCreateItem)
			r.Put("/items/{id}", s.handleUpdateItem)
			r.Delete("/items/{id}", s.handleDeleteItem)

			r.Get("/movements", s.handleListMovements)
			r.Post("/movements", s.handleCreateMovement)
			r.Put("/movements/{id}", s.handleUpdateMovement)
			r.Delete("/movements/{id}", s.handleDeleteMovement)

			r.Get("/stock/overview", s.handleStockOverview)
			r.Get("/units", s.handleUnits)

			r.Get("/group", s.handleCurrentGroup)
			r.Post("/group", s.handleCreateGroup)
			r.Post("/group/join", s.handleJoinGroup)
			r.Post("/group/leave", s.handleLeaveGroup)
			r.Put("/group", s.handleRenameGroup)
			r.Delete("/group", s.handleDeleteGroup)

			r.Post("/invoices", s.handleCreateInvoice)
			r.Get("/invoices", s.handleInvoiceHistory)

			r.Get("/events", s.handleEvents)
		})
	})

	return r
}

// corsMiddleware adds CORS headers for browser access.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
