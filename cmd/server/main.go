package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/khataplus/khataplus/internal/auth"
	"github.com/khataplus/khataplus/internal/notify"
	"github.com/khataplus/khataplus/internal/server"
	"github.com/khataplus/khataplus/internal/service"
	"github.com/khataplus/khataplus/internal/storage/sqlite"
	"github.com/khataplus/khataplus/pkg/logging"
)

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	logging.Setup()
	logger := slog.Default()

	dbPath := getEnv("DB_PATH", "./data/khata.db")
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Error("JWT_SECRET is required")
		os.Exit(1)
	}

	store, err := sqlite.New(dbPath)
	if err != nil {
		logger.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	logger.Info("Storage initialized", "database", dbPath)

	jwtManager := auth.NewJWTManager(jwtSecret, 24*time.Hour)
	authenticator := auth.NewPasswordAuthenticator(store)
	hub := notify.NewHub()

	authSvc := service.NewAuthService(authenticator, jwtManager, store, logger)
	ledgerSvc := service.NewLedgerService(store, hub, logger)
	inventorySvc := service.NewInventoryService(store, hub, logger)
	groupSvc := service.NewGroupService(store, hub, logger)
	invoiceSvc := service.NewInvoiceService(store, inventorySvc, hub, logger)

	srv := server.New(authSvc, ledgerSvc, inventorySvc, groupSvc, invoiceSvc, hub, jwtManager, logger)

	// h2c lets a single listener serve HTTP/2 without TLS, which keeps many
	// concurrent SSE streams cheap behind a TLS-terminating proxy.
	handler := h2c.NewHandler(srv.Router(), &http2.Server{})

	addr := ":" + getEnv("APP_PORT", "8080")
	logger.Info("Server starting", "address", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
