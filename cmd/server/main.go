// Command server runs the mobiliza API: volunteer intake, lifecycle
// transitions, token-gated self-service edits, and the operator dashboard.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mobiliza/internal/apoiase"
	authhandler "mobiliza/internal/auth/handler"
	authjwt "mobiliza/internal/auth/jwt"
	authservice "mobiliza/internal/auth/service"
	authstore "mobiliza/internal/auth/store"
	cataloghandler "mobiliza/internal/catalog/handler"
	catalogservice "mobiliza/internal/catalog/service"
	catalogstore "mobiliza/internal/catalog/store"
	dashboardhandler "mobiliza/internal/dashboard/handler"
	dashboardservice "mobiliza/internal/dashboard/service"
	"mobiliza/internal/events"
	feedbackhandler "mobiliza/internal/feedback/handler"
	feedbackservice "mobiliza/internal/feedback/service"
	feedbackstore "mobiliza/internal/feedback/store"
	httpapi "mobiliza/internal/http"
	"mobiliza/internal/notify"
	"mobiliza/internal/notify/brevo"
	"mobiliza/internal/platform/config"
	"mobiliza/internal/platform/httpserver"
	"mobiliza/internal/platform/logger"
	"mobiliza/internal/platform/metrics"
	"mobiliza/internal/platform/postgres"
	"mobiliza/internal/platform/redis"
	statushandler "mobiliza/internal/status/handler"
	statusservice "mobiliza/internal/status/service"
	statusstore "mobiliza/internal/status/store"
	volunteerhandler "mobiliza/internal/volunteer/handler"
	volunteerservice "mobiliza/internal/volunteer/service"
	volunteerstore "mobiliza/internal/volunteer/store"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	db, err := postgres.Open(ctx, cfg.Postgres.DSN)
	cancel()
	if err != nil {
		log.Error("postgres unavailable", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := postgres.Migrate(context.Background(), db); err != nil {
		log.Error("schema migration failed", "error", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(cfg.Redis)
	if err != nil {
		log.Error("redis unavailable", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	var publisher events.Publisher = events.NopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaPublisher, err := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic,
			events.WithLogger(log))
		if err != nil {
			log.Error("kafka unavailable", "error", err)
			os.Exit(1)
		}
		publisher = kafkaPublisher
	}
	defer publisher.Close()

	var notifier notify.Notifier = notify.Nop{}
	if cfg.Brevo.APIKey != "" {
		notifier = brevo.New(cfg.Brevo)
	} else {
		log.Warn("no brevo api key, outbound email disabled")
	}

	m := metrics.New()

	statuses := statusservice.NewService(statusstore.NewPostgresStore(db))
	if err := statuses.Seed(context.Background(),
		cfg.Lifecycle.DefaultStatusName, cfg.Lifecycle.InviteStatusName); err != nil {
		log.Error("status seeding failed", "error", err)
		os.Exit(1)
	}
	catalog := catalogservice.NewService(catalogstore.NewPostgresStore(db))

	volunteers := volunteerstore.NewPostgresStore(db)
	volunteerOpts := []volunteerservice.Option{
		volunteerservice.WithLogger(log),
		volunteerservice.WithMetrics(m),
		volunteerservice.WithNotifier(notifier),
		volunteerservice.WithPublisher(publisher),
	}
	if cfg.Apoiase.CampaignID != "" {
		volunteerOpts = append(volunteerOpts, volunteerservice.WithApoiaseChecker(apoiase.New(cfg.Apoiase)))
	}
	volunteerSvc := volunteerservice.NewService(volunteers, statuses, catalog, volunteerservice.Config{
		DefaultStatusName:  cfg.Lifecycle.DefaultStatusName,
		InviteStatusName:   cfg.Lifecycle.InviteStatusName,
		EditTokenTTL:       cfg.Lifecycle.EditTokenTTL,
		DailyEditLimit:     cfg.Lifecycle.DailyEditLimit,
		EditLinkBaseURL:    cfg.Lifecycle.EditLinkBaseURL,
		EditLinkTemplateID: cfg.Brevo.EditLinkTemplateID,
		InviteTemplateID:   cfg.Brevo.DiscordInviteTemplateID,
	}, volunteerOpts...)

	tokens := authjwt.NewService(cfg.Server.JWTSigningKey, "mobiliza")
	authSvc := authservice.NewService(authstore.NewPostgresStore(db), tokens, authservice.Config{
		RegistrationCode: cfg.Server.RegistrationCode,
		TokenTTL:         cfg.Server.TokenTTL,
	}, authservice.WithLogger(log))

	feedbackSvc := feedbackservice.NewService(feedbackstore.NewPostgresStore(db),
		volunteerSvc, authSvc, feedbackservice.WithLogger(log))

	dashboardOpts := []dashboardservice.Option{dashboardservice.WithLogger(log)}
	if redisClient != nil {
		dashboardOpts = append(dashboardOpts, dashboardservice.WithCache(dashboardservice.NewRedisCache(redisClient)))
	}
	dashboardSvc := dashboardservice.NewService(volunteers, statuses, catalog, dashboardservice.Config{
		Timezone: cfg.Dashboard.Timezone,
		CacheTTL: cfg.Dashboard.CacheTTL,
	}, dashboardOpts...)

	router := httpapi.NewRouter(httpapi.Handlers{
		Auth:      authhandler.New(authSvc, log),
		Volunteer: volunteerhandler.New(volunteerSvc, statuses, feedbackSvc, log),
		Status:    statushandler.New(statuses, log),
		Catalog:   cataloghandler.New(catalog, log),
		Feedback:  feedbackhandler.New(feedbackSvc, log),
		Dashboard: dashboardhandler.New(dashboardSvc, log),
	}, authjwt.NewServiceAdapter(tokens), log)

	srv := httpserver.New(cfg.Server.Addr, router)

	go func() {
		log.Info("starting mobiliza api", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}
