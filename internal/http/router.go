// Package httpapi assembles the HTTP surface: global middleware, the public
// volunteer-facing routes, and the authenticated operator routes.
package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	authhandler "mobiliza/internal/auth/handler"
	cataloghandler "mobiliza/internal/catalog/handler"
	dashboardhandler "mobiliza/internal/dashboard/handler"
	feedbackhandler "mobiliza/internal/feedback/handler"
	"mobiliza/internal/platform/middleware"
	statushandler "mobiliza/internal/status/handler"
	volunteerhandler "mobiliza/internal/volunteer/handler"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Auth      *authhandler.Handler
	Volunteer *volunteerhandler.Handler
	Status    *statushandler.Handler
	Catalog   *cataloghandler.Handler
	Feedback  *feedbackhandler.Handler
	Dashboard *dashboardhandler.Handler
}

// NewRouter wires the full route tree. Operator routes sit behind bearer
// token authentication; intake, the public profile, and the edit flow do not.
func NewRouter(h Handlers, validator middleware.JWTValidator, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logging(logger))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	h.Auth.Register(r)
	h.Volunteer.RegisterPublic(r)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(validator, logger))
		h.Volunteer.Register(r)
		h.Status.Register(r)
		h.Catalog.Register(r)
		h.Feedback.Register(r)
		h.Dashboard.Register(r)
	})

	return r
}
