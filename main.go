package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"socialevents/config"
	_ "socialevents/docs"
	"socialevents/internal/adapters/broker"
	"socialevents/internal/adapters/email"
	httpDelivery "socialevents/internal/delivery/http"
	"socialevents/internal/delivery/http/controllers"
	"socialevents/internal/delivery/http/middleware"
	"socialevents/internal/domain"
	"socialevents/internal/repository/postgres"
	"socialevents/internal/services"
)

const shutdownTimeout = 10 * time.Second

// @title Social Development Events API
// @version 1.0
// @description Create, browse and join community service events.
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}
	logger := config.NewLogger()
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Open(ctx, cfg.DBUrl)
	if err != nil {
		return err
	}
	defer db.Close()
	logger.Info("connected to database")

	if cfg.RunMigrations {
		if err := postgres.RunMigrations(ctx, db, logger); err != nil {
			return err
		}
	}

	publisher, closePublisher := newPublisher(cfg, logger)
	defer closePublisher()

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Email.Provider,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		SES: email.SESConfig{
			Region:             cfg.Email.AWSRegion,
			AccessKeyID:        cfg.Email.AWSAccessKeyID,
			SecretAccessKey:    cfg.Email.AWSSecretAccessKey,
			InsecureSkipVerify: cfg.Email.SESInsecureSkipVerify,
		},
	}, logger)
	if err != nil {
		return err
	}
	renderer, err := email.NewTemplateRenderer()
	if err != nil {
		return err
	}

	eventRepo := postgres.NewEventRepository(db)
	joinRepo := postgres.NewJoinRepository(db)
	tx := postgres.NewTransactor(db)

	eventService := services.NewEventService(eventRepo, joinRepo, tx, publisher, cfg.RequestTimeout)
	participationService := services.NewParticipationService(
		eventRepo, joinRepo, tx,
		services.NewEmailService(mailer, renderer),
		publisher,
		cfg.RequestTimeout,
	)

	router := httpDelivery.NewRouter(
		controllers.NewEventController(logger, eventService),
		controllers.NewParticipationController(logger, participationService),
	)
	handler := middleware.Recover(logger, router)
	handler = middleware.LoggingMiddleware(logger, handler)
	handler = middleware.CORS(cfg.AllowedOrigins, handler)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newPublisher connects to RabbitMQ when AMQP_URL is set. A broker that cannot
// be reached is logged and replaced with a no-op so the API still serves.
func newPublisher(cfg *config.Config, logger *slog.Logger) (domain.Publisher, func()) {
	if cfg.AMQPUrl == "" {
		logger.Info("AMQP_URL not set; lifecycle messages disabled")
		return broker.NoopPublisher{}, func() {}
	}
	p, err := broker.NewPublisher(cfg.AMQPUrl, logger)
	if err != nil {
		logger.Warn("rabbitmq unavailable; lifecycle messages disabled", "err", err)
		return broker.NoopPublisher{}, func() {}
	}
	return p, p.Close
}
