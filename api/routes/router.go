package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/scrappickup-backend/api/controllers"
	"github.com/angelmondragon/scrappickup-backend/api/middleware"
	"github.com/angelmondragon/scrappickup-backend/internal/bills"
	"github.com/angelmondragon/scrappickup-backend/internal/cart"
	"github.com/angelmondragon/scrappickup-backend/internal/catalog"
	"github.com/angelmondragon/scrappickup-backend/internal/lifecycle"
	"github.com/angelmondragon/scrappickup-backend/internal/pickups"
	"github.com/angelmondragon/scrappickup-backend/pkg/auth/session"
	"github.com/angelmondragon/scrappickup-backend/pkg/config"
	"github.com/angelmondragon/scrappickup-backend/pkg/logger"
	"github.com/angelmondragon/scrappickup-backend/pkg/redis"
)

type sessionManager interface {
	session.RevocationChecker
	Revoke(ctx context.Context, sessionID string, expiresAt time.Time) error
}

// Catalog lists the products offered at a location.
type Catalog interface {
	List(ctx context.Context, location string) ([]catalog.ProductDTO, error)
}

// Tracker serves lifecycle snapshots.
type Tracker interface {
	Snapshot(ctx context.Context, sess session.Session) (lifecycle.View, error)
}

// ViewWatcher starts a live lifecycle subscription.
type ViewWatcher interface {
	Watch(ctx context.Context, sess session.Session) *lifecycle.Watch
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP controllers.Pinger,
	redisP controllers.Pinger,
	idempotencyStore redis.IdempotencyStore,
	sessionManager sessionManager,
	gatherer prometheus.Gatherer,
	catalogService Catalog,
	cartService cart.Service,
	pickupService pickups.Service,
	tracker Tracker,
	watcher ViewWatcher,
	billService bills.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.CORS(cfg.CORS.AllowedOrigins),
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessionManager, logg))
		r.Use(middleware.Idempotency(idempotencyStore, logg))

		r.Post("/auth/logout", controllers.AuthLogout(sessionManager, logg))

		r.Get("/catalog", controllers.CatalogList(catalogService, logg))
		r.Post("/cart/quote", controllers.CartQuote(cartService, logg))

		r.Route("/pickups", func(r chi.Router) {
			r.Post("/", controllers.PickupSubmit(pickupService, logg))
			r.Get("/history", controllers.PickupHistory(pickupService, logg))
		})

		r.Route("/tracker", func(r chi.Router) {
			r.Get("/", controllers.TrackerSnapshot(tracker, logg))
			r.Get("/stream", controllers.TrackerStream(watcher, logg))
		})

		r.Get("/bills/{assignmentId}", controllers.BillDetail(billService, logg))
	})

	return r
}
