/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the fiscal engine server. Handles
  configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load .env and environment configuration
  2. Initialize SQLite store
  3. Wire register book, budget service, importer and audit recorder
  4. Configure HTTP router
  5. Start server with graceful shutdown

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Flush pending autosaves and audit events
  4. Close database connection
  5. Exit

EXAMPLES:
  # Run with defaults (./data/fiscal.db on :8080)
  ./server

  # In-memory database on another port
  SQLITE_DB_PATH=":memory:" PORT=3000 ./server

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/skgov/fiscal-engine/abyip"
	"github.com/skgov/fiscal-engine/api"
	"github.com/skgov/fiscal-engine/budget"
	"github.com/skgov/fiscal-engine/config"
	"github.com/skgov/fiscal-engine/factory"
	"github.com/skgov/fiscal-engine/fiscal"
	"github.com/skgov/fiscal-engine/rcb"
	"github.com/skgov/fiscal-engine/store/sqlite"
)

func main() {
	// Load .env for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("configuration validation failed", "error", err)
		os.Exit(1)
	}

	// Store
	store, err := sqlite.New(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("failed to initialize database", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer store.Close()

	// Audit trail persists through the same store, recorded off the
	// request path.
	audit := fiscal.NewAsyncRecorder(store, logger)

	// Domain services
	book := rcb.NewBook(store,
		rcb.WithAudit(audit),
		rcb.WithLogger(logger),
	)

	var guard budget.ApprovalGuard = budget.AllowAll{}
	if len(cfg.Approvers) > 0 {
		guard = budget.Allowlist(cfg.Approvers)
	}
	svc := budget.NewService(store,
		budget.WithGuard(guard),
		budget.WithAudit(audit),
		budget.WithTemplate(factory.DefaultTemplate),
		budget.WithLogger(logger),
	)

	var importer *abyip.Importer
	if cfg.PlanServiceURL != "" {
		importer = abyip.NewImporter(abyip.NewHTTPSource(cfg.PlanServiceURL))
		logger.Info("investment plan import enabled", "source", cfg.PlanServiceURL)
	}

	// HTTP surface
	autosave := api.NewAutosaver(cfg.AutosaveDelay, logger)
	handler := api.NewHandler(book, svc, importer, autosave, logger)

	uploader, err := api.NewDirUploader(cfg.UploadDir)
	if err != nil {
		logger.Error("failed to initialize upload directory", "error", err, "dir", cfg.UploadDir)
		os.Exit(1)
	}
	handler.Uploader = uploader

	router := api.NewRouter(handler, cfg.AllowedOrigins, cfg.UploadDir)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "port", cfg.Port, "db", cfg.SQLiteDBPath)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", "error", err)
	}

	// Pending edits and audit events flush before the store closes.
	autosave.Flush()
	autosave.Stop()
	audit.Wait()

	logger.Info("server stopped")
}
