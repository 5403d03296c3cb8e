package app

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"

	"github.com/mutevazi/depo-api/internal/audit"
	"github.com/mutevazi/depo-api/internal/clients"
	"github.com/mutevazi/depo-api/internal/orders"
	"github.com/mutevazi/depo-api/internal/platform/httpx"
	"github.com/mutevazi/depo-api/internal/storage"
	"github.com/mutevazi/depo-api/jobs"
)

// Version is stamped at build time.
var Version = "dev"

// orderRateLimit throttles the write-heavy orders subtree harder than the
// rest of the API.
const orderRateLimit = 30

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	Auth           clients.Middleware
	AuditRecorder  *audit.Recorder
	StorageHandler *storage.Handler
	OrdersHandler  *orders.Handler
	JobHandler     *jobs.Handler
}

// NewRouter constructs the chi.Router with service defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]any{
			"status":    "ok",
			"service":   "depo-api",
			"version":   Version,
			"timestamp": time.Now().UTC(),
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(audit.Middleware(params.AuditRecorder))
		r.Use(params.Auth.Authenticate)

		r.Route("/storage", func(r chi.Router) {
			r.Use(params.Auth.RequireScope(clients.ScopeStorageRead))
			params.StorageHandler.MountRoutes(r)
		})
		r.Route("/orders", func(r chi.Router) {
			r.Use(httprate.Limit(orderRateLimit, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP)))
			params.OrdersHandler.MountRoutes(r)
		})
	})

	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}

	return r
}
