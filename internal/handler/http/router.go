package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wasgeurtjeNL/storefront-session/internal/reorder"
	"github.com/wasgeurtjeNL/storefront-session/internal/session"
	apperrors "github.com/wasgeurtjeNL/storefront-session/pkg/errors"
	"github.com/wasgeurtjeNL/storefront-session/pkg/health"
	"github.com/wasgeurtjeNL/storefront-session/pkg/middleware"
)

// NewRouter creates a chi router with all session service routes registered.
func NewRouter(
	lifecycle *session.Lifecycle,
	resolver *reorder.Resolver,
	healthHandler *health.Handler,
	corsCfg middleware.CORSConfig,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.CORS(corsCfg))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("session"))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	h := NewSessionHandler(lifecycle, resolver, logger)

	// The bearer token is only accepted when it matches the active
	// session's own token.
	requireSession := middleware.Auth(func(token string) (string, error) {
		if !lifecycle.TokenMatches(token) {
			return "", apperrors.Unauthorized("invalid or expired session token")
		}
		user := lifecycle.CurrentUser()
		if user == nil {
			return "", apperrors.Unauthorized("no active session")
		}
		return user.ID, nil
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Post("/auth/login", h.Login)
		r.Post("/auth/register", h.Register)
		r.Get("/session", h.SessionState)

		r.Group(func(r chi.Router) {
			r.Use(requireSession)

			r.Post("/auth/logout", h.Logout)

			r.Route("/users/me", func(r chi.Router) {
				r.Get("/", h.GetProfile)
				r.Patch("/", h.UpdateProfile)

				r.Get("/addresses", h.ListAddresses)
				r.Post("/addresses", h.AddAddress)
				r.Put("/addresses/{id}", h.UpdateAddress)
				r.Delete("/addresses/{id}", h.DeleteAddress)
				r.Post("/addresses/{id}/default", h.SetDefaultAddress)

				r.Get("/orders", h.ListOrders)
				r.Get("/loyalty", h.GetLoyalty)
				r.Post("/loyalty/redeem", h.RedeemPoints)
				r.Get("/loyalty/eligibility", h.GetEligibility)
			})

			r.Post("/orders/{id}/reorder", h.Reorder)

			r.Get("/offers/{id}/dismissed", h.OfferDismissed)
			r.Post("/offers/{id}/dismiss", h.DismissOffer)
		})
	})

	return r
}

// ContentTypeJSON sets the JSON content type on all API responses.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}
