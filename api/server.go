/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route
  definitions. This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. CORS:       Cross-origin requests for the frontend
  4. Metrics:    Prometheus counters and latency histograms

ROUTE GROUPS:
  /api/rcb/*       Register of Cash in Bank, keyed by "<year>-Q<n>"
  /api/budget/*    Annual budget, keyed by fiscal year
  /healthz         Liveness probe
  /metrics         Prometheus scrape endpoint

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter creates a new router with all routes configured. uploadDir,
// when non-empty, is served at /uploads/ for signed document retrieval.
func NewRouter(h *Handler, allowedOrigins []string, uploadDir string) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Actor"},
		AllowCredentials: true,
	}))
	r.Use(metricsMiddleware)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Register routes
		r.Route("/rcb", func(r chi.Router) {
			r.Post("/reset-all", h.PostResetAll)

			r.Route("/{period}", func(r chi.Router) {
				r.Get("/", h.GetPeriod)
				r.Get("/metadata", h.GetMetadata)
				r.Put("/metadata", h.PutMetadata)

				r.Post("/entries", h.PostEntry)
				r.Delete("/entries/{index}", h.DeleteEntry)

				r.Get("/accounts/{kind}", h.GetAccounts)
				r.Post("/accounts/{kind}", h.PostAccount)
				r.Put("/accounts/{kind}/{index}", h.PutAccount)
				r.Delete("/accounts/{kind}/{index}", h.DeleteAccount)

				r.Post("/close", h.PostClose)
				r.Post("/close/cancel", h.PostCancelClose)
				r.Post("/signed-document", h.PostSignedDocument)

				r.Post("/save", h.PostSave)
				r.Post("/reset", h.PostReset)
				r.Post("/recalculate", h.PostRecalculate)
				r.Get("/export", h.GetPeriodExport)
			})
		})

		// Budget routes
		r.Route("/budget/{year}", func(r chi.Router) {
			r.Get("/", h.GetBudget)
			r.Put("/header", h.PutHeader)

			r.Post("/initiate", h.budgetTransition(h.Budget.Initiate))
			r.Post("/submit", h.budgetTransition(h.Budget.Submit))
			r.Post("/close", h.budgetTransition(h.Budget.CloseEditingPeriod))
			r.Post("/approve", h.budgetTransition(h.Budget.Approve))
			r.Post("/reject", h.budgetTransition(h.Budget.Reject))

			r.Post("/programs", h.PostProgram)
			r.Post("/programs/{program}/items", h.PostItem)
			r.Put("/programs/{program}/items/{index}", h.PutItem)
			r.Delete("/programs/{program}/items/{index}", h.DeleteItem)

			r.Post("/receipts", h.PostReceipt)
			r.Put("/receipts/{index}", h.PutReceipt)
			r.Delete("/receipts/{index}", h.DeleteReceipt)

			r.Post("/save", h.PostBudgetSave)
			r.Get("/export", h.GetBudgetExport)
			r.Post("/import", h.PostImport)
		})
	})

	// Ops routes
	r.Get("/healthz", h.GetHealth)
	r.Handle("/metrics", promhttp.Handler())

	// Signed document downloads
	if uploadDir != "" {
		fs := http.StripPrefix("/uploads/", http.FileServer(http.Dir(uploadDir)))
		r.Get("/uploads/*", fs.ServeHTTP)
	}

	return r
}
