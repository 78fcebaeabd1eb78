package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"campusconnect/internal/adapter/repo"
	"campusconnect/internal/infra"
	"campusconnect/internal/visits"
)

func main() {
	once := flag.Bool("once", false, "run a single retention sweep and exit")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv).With().Str("cmd", "worker").Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: db connection failed")
	}
	defer pool.Close()

	runner := infra.NewSQLRunner(pool, logger)
	if cfg.AutoMigrate {
		if err := repo.EnsureSchema(ctx, runner); err != nil {
			logger.Fatal().Err(err).Msg("worker: failed to apply schema")
		}
	}

	svc := visits.NewService(repo.NewVisitRepository(runner, cfg.VisitLocation), visits.Options{
		Location: cfg.VisitLocation,
		Logger:   logger,
	})
	sweeper := visits.NewSweeper(svc, cfg.SweepInterval, cfg.RetentionDays, logger)

	if *once {
		deleted, err := sweeper.RunOnce(ctx)
		if err != nil {
			logger.Fatal().Err(err).Msg("worker: sweep failed")
		}
		logger.Info().Int64("deleted", deleted).Msg("worker: sweep finished")
		return
	}

	if err := sweeper.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal().Err(err).Msg("worker: stopped with error")
	}
	logger.Info().Msg("worker: stopped")
}
