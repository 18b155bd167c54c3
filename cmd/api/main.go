package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/angelmondragon/scrappickup-backend/api/routes"
	"github.com/angelmondragon/scrappickup-backend/internal/assignments"
	"github.com/angelmondragon/scrappickup-backend/internal/bills"
	"github.com/angelmondragon/scrappickup-backend/internal/cart"
	"github.com/angelmondragon/scrappickup-backend/internal/catalog"
	"github.com/angelmondragon/scrappickup-backend/internal/lifecycle"
	"github.com/angelmondragon/scrappickup-backend/internal/pickups"
	"github.com/angelmondragon/scrappickup-backend/internal/users"
	"github.com/angelmondragon/scrappickup-backend/pkg/auth/session"
	"github.com/angelmondragon/scrappickup-backend/pkg/config"
	"github.com/angelmondragon/scrappickup-backend/pkg/db"
	"github.com/angelmondragon/scrappickup-backend/pkg/instance"
	"github.com/angelmondragon/scrappickup-backend/pkg/logger"
	"github.com/angelmondragon/scrappickup-backend/pkg/metrics"
	"github.com/angelmondragon/scrappickup-backend/pkg/migrate"
	"github.com/angelmondragon/scrappickup-backend/pkg/pubsub"
	"github.com/angelmondragon/scrappickup-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       cfg.App.LogLevel,
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	var events pubsub.EventPublisher = pubsub.Noop{}
	if cfg.PubSub.Enabled() {
		psClient, err := pubsub.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap pubsub", err)
			os.Exit(1)
		}
		defer func() {
			if err := psClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing pubsub", err)
			}
		}()
		publisher, err := psClient.Events()
		if err != nil {
			logg.Error(context.Background(), "failed to create pickups publisher", err)
			os.Exit(1)
		}
		events = publisher
	} else {
		logg.Warn(context.Background(), "pubsub topic not configured; pickup events disabled")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	trackerMetrics := metrics.NewTrackerMetrics(registry)

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	countryCode := cfg.Phone.CountryCode
	usersRepo := users.NewRepository(dbClient.DB())
	assignmentsRepo := assignments.NewRepository(dbClient.DB())

	profileLookup, err := users.NewLookup(usersRepo, countryCode)
	if err != nil {
		logg.Error(context.Background(), "failed to create profile lookup", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(catalog.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	cartService, err := cart.NewService(catalogService)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	statusFeed, err := lifecycle.NewRedisFeed(redisClient, countryCode)
	if err != nil {
		logg.Error(context.Background(), "failed to create status feed", err)
		os.Exit(1)
	}

	pickupService, err := pickups.NewService(pickups.ServiceParams{
		Logger:      logg,
		DB:          dbClient,
		Requests:    pickups.NewRepository(dbClient.DB()),
		Users:       usersRepo,
		Assignments: assignmentsRepo,
		Quoter:      cartService,
		Notifier:    statusFeed,
		Events:      events,
		CountryCode: countryCode,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create pickup service", err)
		os.Exit(1)
	}

	tracker, err := lifecycle.NewTracker(lifecycle.TrackerParams{
		Logger:          logg,
		Profiles:        profileLookup,
		Assignments:     assignmentsRepo,
		SideDataTimeout: cfg.Tracker.SideDataTimeout,
		Metrics:         trackerMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create tracker", err)
		os.Exit(1)
	}

	watcher, err := lifecycle.NewWatcher(lifecycle.WatcherParams{
		Logger:       logg,
		Tracker:      tracker,
		Feed:         statusFeed,
		PollInterval: cfg.Tracker.PollInterval,
		Metrics:      trackerMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create tracker watcher", err)
		os.Exit(1)
	}

	billService, err := bills.NewService(bills.NewRepository(dbClient.DB()), assignmentsRepo, countryCode)
	if err != nil {
		logg.Error(context.Background(), "failed to create bill service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance.GetID(),
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			redisClient,
			sessionManager,
			registry,
			catalogService,
			cartService,
			pickupService,
			tracker,
			watcher,
			billService,
		),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logg.Info(ctx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(shutdownCtx, "api server shutdown failed", err)
		}
	}
}
