package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/umtlostfound/lostfound-backend/api/controllers"
	"github.com/umtlostfound/lostfound-backend/api/middleware"
	"github.com/umtlostfound/lostfound-backend/internal/notifications"
	"github.com/umtlostfound/lostfound-backend/pkg/config"
	"github.com/umtlostfound/lostfound-backend/pkg/logger"
	"github.com/umtlostfound/lostfound-backend/pkg/metrics"
	"github.com/umtlostfound/lostfound-backend/pkg/redis"
)

// Deps carries everything the HTTP surface is built from. The Redis-backed
// stores, the metrics gatherer and the readiness checks are optional; a nil
// store disables idempotency replay or the write rate limit.
type Deps struct {
	Config *config.Config
	Logger *logger.Logger

	Profiles      middleware.ProfileResolver
	Items         controllers.ItemsService
	Catalog       controllers.CatalogService
	Claims        controllers.ClaimsService
	Messages      controllers.MessagesService
	Notifications notifications.Service
	Media         controllers.MediaService

	Idempotency redis.IdempotencyStore
	Limiter     redis.RateLimiter
	HTTPMetrics *metrics.HTTPMetrics
	Gatherer    prometheus.Gatherer
	Readiness   []controllers.ReadinessCheck
}

func NewRouter(deps Deps) http.Handler {
	cfg, logg := deps.Config, deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, deps.HTTPMetrics),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.Readiness...))
	})

	if deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Public reads. A token is honoured when present so owners can see
		// their own inactive reports.
		r.Group(func(r chi.Router) {
			r.Use(middleware.OptionalAuth(cfg.JWT, deps.Profiles, logg))
			r.Get("/items", controllers.ListItems(deps.Items, logg))
			r.Get("/items/{itemId}", controllers.GetItem(deps.Items, logg))
			r.Get("/categories", controllers.ListCategories(deps.Catalog, logg))
			r.Get("/locations", controllers.ListLocations(deps.Catalog, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, deps.Profiles, logg))
			r.Use(middleware.WriteRateLimit(deps.Limiter, cfg.RateLimit, logg))
			r.Use(middleware.Idempotency(deps.Idempotency, logg))

			r.Post("/items", controllers.CreateItem(deps.Items, logg))
			r.Put("/items/{itemId}", controllers.UpdateItem(deps.Items, logg))

			r.Route("/me", func(r chi.Router) {
				r.Get("/", controllers.Me(logg))
				r.Get("/items", controllers.ListMyItems(deps.Items, logg))
				r.Get("/dashboard", controllers.MyDashboard(deps.Items, logg))
			})

			r.Post("/uploads/images", controllers.UploadImage(deps.Media, logg))

			// Registered flat so the group middleware sees the full route
			// pattern; a mounted subrouter would only expose /claims/*.
			r.Post("/claims", controllers.CreateClaim(deps.Claims, logg))
			r.Get("/claims", controllers.ListClaims(deps.Claims, logg))
			r.Put("/claims/{claimId}/status", controllers.UpdateClaimStatus(deps.Claims, logg))
			r.Get("/claims/{claimId}/messages", controllers.ListClaimMessages(deps.Messages, logg))
			r.Post("/claims/{claimId}/messages", controllers.SendClaimMessage(deps.Messages, logg))

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", controllers.ListNotifications(deps.Notifications, logg))
				r.Post("/{notificationId}/read", controllers.MarkNotificationRead(deps.Notifications, logg))
				r.Post("/read-all", controllers.MarkAllNotificationsRead(deps.Notifications, logg))
			})
		})
	})

	return r
}
