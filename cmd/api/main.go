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

	"server/internal/adapter/repo"
	"server/internal/http/handlers"
	httpapi "server/internal/http/httpapi"
	"server/internal/infra"
	"server/internal/infra/feed"
	"server/internal/infra/smtp"
	"server/internal/service"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv, "api")

	ctx := context.Background()
	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	var publisher feed.Publisher
	if cfg.FeedDriver == "sns" {
		publisher, err = feed.NewSNSPublisher(ctx, cfg.FeedRegion, cfg.FeedTopicARN)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to configure sns feed")
		}
	} else {
		publisher = feed.NewLogPublisher(logger)
	}

	mailer := smtp.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom, cfg.SMTPUsername, cfg.SMTPPassword)
	if mailer == nil {
		logger.Info().Msg("smtp not configured, notification email disabled")
	}

	events := repo.NewEventRepository(dbpool)
	registrations := repo.NewRegistrationRepository(dbpool)
	hours := repo.NewHoursRepository(dbpool)
	profiles := repo.NewProfileRepository(dbpool)
	notifications := repo.NewNotificationRepository(dbpool)
	donations := repo.NewDonationRepository(dbpool)

	notifier := service.NewNotificationService(notifications, profiles, mailer, publisher, logger)
	app := &handlers.App{
		SQL:           infra.NewSQLRunner(dbpool, logger),
		Logger:        logger,
		Events:        service.NewEventService(events, publisher, logger, time.Now),
		Registrations: service.NewRegistrationService(registrations, events, notifier, publisher, logger, cfg.RegisterTimeout),
		Hours:         service.NewHoursService(hours, notifier, logger, time.Now),
		Donations:     service.NewDonationService(donations, profiles, publisher, logger),
		Notifications: notifier,
		Profiles:      service.NewProfileService(profiles),
	}

	router := httpapi.NewRouter(app, cfg)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
