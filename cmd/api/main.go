package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"campusconnect/internal/accounts"
	"campusconnect/internal/adapter/repo"
	"campusconnect/internal/auth"
	"campusconnect/internal/http/handlers"
	httpapi "campusconnect/internal/http/httpapi"
	"campusconnect/internal/infra"
	"campusconnect/internal/infra/geoip"
	"campusconnect/internal/kv"
	"campusconnect/internal/mail"
	"campusconnect/internal/passwordreset"
	"campusconnect/internal/storage"
	"campusconnect/internal/visits"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()
	runner := infra.NewSQLRunner(dbpool, logger)

	if cfg.AutoMigrate {
		if err := repo.EnsureSchema(ctx, runner); err != nil {
			logger.Fatal().Err(err).Msg("failed to apply schema")
		}
	}

	rdb, err := infra.NewRedisClient(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect redis")
	}
	defer rdb.Close()
	store := kv.NewRedisStore(rdb)

	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip disabled")
	}
	defer resolver.Close()

	metrics := infra.NewMetrics()

	visitSvc := visits.NewService(repo.NewVisitRepository(runner, cfg.VisitLocation), visits.Options{
		Location: cfg.VisitLocation,
		Locale:   cfg.DefaultLocale,
		Timeout:  cfg.RequestTimeout,
		Observer: metrics,
		Logger:   logger,
	})

	sessions := auth.NewSessions(auth.SessionConfig{Secret: cfg.JWTSecret, TTL: cfg.SessionTTL}, store)
	accountSvc := accounts.NewService(repo.NewUserRepository(runner), repo.NewAdminRepository(runner), sessions, logger)

	mailer, err := newMailer(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure mail")
	}
	resetSvc := passwordreset.NewService(accountSvc, store, mailer, cfg.ResetCodeTTL, logger)

	if cfg.SweepEnabled {
		sweeper := visits.NewSweeper(visitSvc, cfg.SweepInterval, cfg.RetentionDays, logger)
		go func() {
			if err := sweeper.Run(ctx); err != nil && ctx.Err() == nil {
				logger.Error().Err(err).Msg("sweeper stopped")
			}
		}()
	}

	app := handlers.NewApp(visitSvc, accountSvc, resetSvc, handlers.CookieConfig{
		Name:   cfg.SessionCookieName,
		Secure: cfg.CookieSecure,
		TTL:    sessions.TTL(),
	}, logger)

	router := httpapi.NewRouter(app, httpapi.Options{
		Logger:          logger,
		Sessions:        sessions,
		CookieName:      cfg.SessionCookieName,
		CORSOrigins:     cfg.CORSOrigins,
		DefaultLocale:   cfg.DefaultLocale,
		CountryLookup:   resolver.Lookup(),
		HTTPObserver:    metrics,
		Metrics:         metrics.Handler(),
		RateLimitPerMin: cfg.RateLimitPerMin,
		StaticDir:       cfg.StaticDir,
	})

	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}

// newMailer relays over SMTP when SMTP_HOST is set and drops messages into
// the outbox directory otherwise.
func newMailer(cfg *infra.Config, logger infra.Logger) (mail.Sender, error) {
	if cfg.SMTPHost != "" {
		return mail.NewSMTPSender(mail.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.MailFrom,
		}), nil
	}
	outbox, err := storage.NewFileStore(cfg.MailOutboxDir)
	if err != nil {
		return nil, err
	}
	logger.Info().Str("dir", outbox.Root()).Msg("mail: SMTP_HOST unset, writing to outbox")
	return mail.NewOutboxSender(outbox, cfg.MailFrom), nil
}
