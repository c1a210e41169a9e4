package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/umtlostfound/lostfound-backend/api/controllers"
	"github.com/umtlostfound/lostfound-backend/api/routes"
	"github.com/umtlostfound/lostfound-backend/internal/async"
	"github.com/umtlostfound/lostfound-backend/internal/catalog"
	"github.com/umtlostfound/lostfound-backend/internal/claims"
	"github.com/umtlostfound/lostfound-backend/internal/items"
	"github.com/umtlostfound/lostfound-backend/internal/media"
	"github.com/umtlostfound/lostfound-backend/internal/messages"
	"github.com/umtlostfound/lostfound-backend/internal/notifications"
	"github.com/umtlostfound/lostfound-backend/internal/profiles"
	"github.com/umtlostfound/lostfound-backend/pkg/config"
	"github.com/umtlostfound/lostfound-backend/pkg/db"
	"github.com/umtlostfound/lostfound-backend/pkg/instance"
	"github.com/umtlostfound/lostfound-backend/pkg/logger"
	"github.com/umtlostfound/lostfound-backend/pkg/metrics"
	"github.com/umtlostfound/lostfound-backend/pkg/migrate"
	"github.com/umtlostfound/lostfound-backend/pkg/pubsub"
	"github.com/umtlostfound/lostfound-backend/pkg/redis"
	"github.com/umtlostfound/lostfound-backend/pkg/storage/gcs"
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
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) (err error) {
	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, dbClient.Close()) }()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	readiness := []controllers.ReadinessCheck{{Name: "database", Ping: dbClient.Ping}}

	var redisClient *redis.Client
	switch client, rerr := redis.New(ctx, cfg.Redis, logg); {
	case errors.Is(rerr, redis.ErrNotConfigured):
		logg.Warn(ctx, "redis not configured; idempotency and write rate limits disabled")
	case rerr != nil:
		return rerr
	default:
		redisClient = client
		defer func() { err = multierr.Append(err, redisClient.Close()) }()
		readiness = append(readiness, controllers.ReadinessCheck{Name: "redis", Ping: redisClient.Ping})
	}

	gcsClient, err := gcs.NewClient(ctx, cfg.GCS, cfg.GCP, logg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, gcsClient.Close()) }()
	readiness = append(readiness, controllers.ReadinessCheck{Name: "storage", Ping: gcsClient.Ping})

	// Pub/Sub fan-out is optional; stored notifications work without it.
	var publisher notifications.Publisher
	if cfg.PubSub.NotificationTopic != "" {
		psClient, perr := pubsub.NewClient(ctx, cfg.GCP, cfg.PubSub, logg)
		if perr != nil {
			return perr
		}
		topic := psClient.NotificationPublisher()
		defer func() {
			topic.Stop()
			err = multierr.Append(err, psClient.Close())
		}()
		publisher = topic
		readiness = append(readiness, controllers.ReadinessCheck{Name: "pubsub", Ping: psClient.Ping})
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	runner := async.NewDetached(logg, async.DefaultTimeout)
	defer runner.Wait()

	conn := dbClient.DB()

	profileService, err := profiles.NewService(profiles.NewRepository(conn), logg)
	if err != nil {
		return err
	}
	resolver := catalog.NewResolver(conn)
	itemRepo := items.NewRepository(conn)
	itemService, err := items.NewService(items.ServiceParams{
		Repository: itemRepo,
		Resolver:   resolver,
		Runner:     runner,
		Logger:     logg,
		Listing:    metrics.NewListingMetrics(registry),
		Lookups:    metrics.NewLookupMetrics(registry),
	})
	if err != nil {
		return err
	}
	notificationRepo := notifications.NewRepository(conn)
	notifier, err := notifications.NewNotifier(notificationRepo, publisher, runner, logg)
	if err != nil {
		return err
	}
	notificationService, err := notifications.NewService(notificationRepo)
	if err != nil {
		return err
	}
	claimService, err := claims.NewService(claims.ServiceParams{
		Repository: claims.NewRepository(conn),
		Items:      itemService,
		ItemStore:  itemRepo,
		Tx:         dbClient,
		Notifier:   notifier,
		Logger:     logg,
	})
	if err != nil {
		return err
	}
	messageService, err := messages.NewService(messages.NewRepository(conn), claimService, notifier, logg)
	if err != nil {
		return err
	}
	mediaService, err := media.NewService(gcsClient, cfg.Media.MaxUploadBytes(), logg)
	if err != nil {
		return err
	}

	deps := routes.Deps{
		Config:        cfg,
		Logger:        logg,
		Profiles:      profileService,
		Items:         itemService,
		Catalog:       resolver,
		Claims:        claimService,
		Messages:      messageService,
		Notifications: notificationService,
		Media:         mediaService,
		HTTPMetrics:   metrics.NewHTTPMetrics(registry),
		Gatherer:      registry,
		Readiness:     readiness,
	}
	// Assigned only when connected so the interfaces stay nil otherwise.
	if redisClient != nil {
		deps.Idempotency = redisClient
		deps.Limiter = redisClient
	}
	handler := routes.NewRouter(deps)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	logCtx := logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance.GetID(),
	})

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logg.Info(logCtx, "starting api server")
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logg.Info(logCtx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
