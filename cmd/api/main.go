package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/huseyingedek/geras-api/internal/audit"
	"github.com/huseyingedek/geras-api/internal/cache"
	"github.com/huseyingedek/geras-api/internal/config"
	dbpkg "github.com/huseyingedek/geras-api/internal/db"
	"github.com/huseyingedek/geras-api/internal/httperr"
	infraRepo "github.com/huseyingedek/geras-api/internal/infra/repository"
	"github.com/huseyingedek/geras-api/internal/logger"
	"github.com/huseyingedek/geras-api/internal/notification"
	"github.com/huseyingedek/geras-api/internal/reminder"
	"github.com/huseyingedek/geras-api/internal/routes"
	"github.com/huseyingedek/geras-api/internal/timezone"
	"github.com/huseyingedek/geras-api/internal/validators"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	logger.Init(cfg)
	timezone.SetDefault(cfg.Timezone)
	httperr.ExposeInternal = !cfg.IsProduction()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := validators.Register(); err != nil {
		log.Fatal().Err(err).Msg("failed to register validators")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	db := dbpkg.NewDB(cfg)

	appointmentRepo := infraRepo.NewAppointmentGormRepository(db, infraRepo.TxOptions{
		Timeout: cfg.TxTimeout(),
		MaxWait: cfg.TxMaxWait(),
	})

	var availabilityCache cache.Availability = cache.Noop{}
	if cfg.Redis.Addr != "" {
		client, err := cache.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, availability cache disabled")
		} else {
			defer client.Close()
			availabilityCache = cache.NewRedisAvailability(client, cfg.CacheTTL())
		}
	}

	senders := notification.Fanout{}
	if cfg.SMS.WebhookURL != "" {
		senders = append(senders, notification.NewWebhookSMSSender(cfg.SMS.WebhookURL, cfg.SMS.Token, cfg.SMS.Sender))
	} else {
		senders = append(senders, notification.NoopSender{})
	}
	if cfg.SMTP.Host != "" {
		senders = append(senders, notification.NewMailSender(
			cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Pass, cfg.SMTP.From,
		))
	}

	notifier := notification.NewDispatcher(senders, 100)
	auditDispatcher := audit.NewDispatcher(audit.New(db))

	var reminderJob *reminder.Job
	if cfg.Reminder.Enabled {
		reminderJob = reminder.New(appointmentRepo, senders, reminder.Options{
			Spec:   cfg.Reminder.Spec,
			Lead:   time.Duration(cfg.Reminder.LeadMinutes) * time.Minute,
			Window: time.Duration(cfg.Reminder.WindowMinutes) * time.Minute,
		})
		if err := reminderJob.Start(); err != nil {
			log.Fatal().Err(err).Msg("failed to start reminder job")
		}
	}

	// ======================================================
	// HTTP
	// ======================================================
	r := gin.New()
	r.Use(gin.Recovery())

	routes.RegisterRoutes(r, routes.Dependencies{
		DB:       db,
		Repo:     appointmentRepo,
		Audit:    auditDispatcher,
		Notifier: notifier,
		Cache:    availabilityCache,
	}, cfg)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr()).Msg("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}

	if reminderJob != nil {
		reminderJob.Stop()
	}
	notifier.Close()
	auditDispatcher.Close()
}
