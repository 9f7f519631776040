package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mentorhub/internal/auth"
	"mentorhub/internal/config"
	"mentorhub/internal/favorites"
	"mentorhub/internal/list"
	"mentorhub/internal/middleware"
	"mentorhub/internal/user"
)

// Deps are the collaborators the HTTP layer needs.
type Deps struct {
	Config   *config.Config
	Verifier middleware.TokenVerifier
	Users    *user.Manager
	Lists    *list.Manager
	DB       Pinger
	Logger   *slog.Logger
}

// NewRouter builds the HTTP handler with all routes registered.
func NewRouter(d Deps) http.Handler {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}

	favoritesHandler := NewFavoritesHandler(favorites.NewService(d.Users, d.Lists), logger)
	usersHandler := NewUsersHandler(d.Users, logger)
	adminUsersHandler := NewAdminUsersHandler(d.Users, logger)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.Metrics)
	r.Use(chimw.Recoverer)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		auth.WriteJSONError(w, http.StatusNotFound, "not found", auth.TypeNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		auth.WriteJSONError(w, http.StatusMethodNotAllowed, "method not allowed", auth.TypeInvalidRequest)
	})

	// Health and status endpoints (no auth required)
	r.Get("/health", HealthCheck)
	r.Get("/health/ready", readinessHandler(d.DB, logger))
	r.Get("/api/v1/status", statusHandler(d.Config))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RequireAuth(d.Verifier, logger))

		r.Route("/lists/favorites/{userId}", func(r chi.Router) {
			r.Get("/", favoritesHandler.List)
			r.Put("/{mentorId}", favoritesHandler.Toggle)
			r.Post("/{mentorId}", favoritesHandler.Toggle)
		})

		r.Post("/users/sync", usersHandler.Sync)
		r.Get("/users/me", usersHandler.Me)

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireRole(d.Users, user.RoleAdmin, logger))
			r.Put("/users/{userId}/roles", adminUsersHandler.SetRoles)
		})
	})

	return r
}
