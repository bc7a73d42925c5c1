package httpapi

import (
	stdhttp "net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"server/internal/http/handlers"
	"server/internal/infra"
	"server/internal/middleware"
)

// NewRouter wires the full HTTP surface. Reads that power the public site
// (events, leaderboard, stats) are unauthenticated; every mutation sits
// behind the bearer-token middleware.
func NewRouter(app *handlers.App, cfg *infra.Config) stdhttp.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID, chimw.RealIP, chimw.Recoverer)
	r.Use(middleware.Logger(app.Logger))
	r.Use(middleware.I18N)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Locale", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	limiter := middleware.NewRateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst)
	r.Use(limiter.Limit)

	r.Get("/v1/healthz", app.Health)
	r.Method("GET", "/metrics", promhttp.Handler())

	r.Get("/v1/events", app.EventsList)
	r.Get("/v1/leaderboard", app.Leaderboard)
	r.Get("/v1/stats", app.StatsSummary)

	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthJWT(cfg.JWTSecret))

		r.Post("/v1/events", app.EventsCreate)
		r.Patch("/v1/events/{id}", app.EventsUpdate)
		r.Get("/v1/events/{id}/registrations", app.RegistrationsList)
		r.Get("/v1/registrations/mine", app.RegistrationsMine)
		r.Post("/v1/events/{id}/register", app.Register)
		r.Post("/v1/events/{id}/cancel", app.CancelRegistration)
		r.Post("/v1/events/{id}/attended", app.MarkAttended)

		r.Post("/v1/hours", app.HoursLog)
		r.Get("/v1/hours/total", app.HoursTotal)
		r.Post("/v1/donations", app.DonationsCreate)
		r.Get("/v1/donations", app.DonationsList)

		r.Get("/v1/notifications", app.NotificationsList)
		r.Post("/v1/notifications/{id}/read", app.NotificationsMarkRead)
	})

	return r
}
