package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"NewsPoster/internal/app"
	"NewsPoster/internal/config"
	"NewsPoster/internal/logging"
)

func main() {
	once := flag.Bool("once", false, "run the pipeline a single time and exit")
	dryRun := flag.Bool("dry-run", false, "simulate posting without calling the X API")
	flag.Parse()

	// .env is optional; real deployments use environment variables.
	_ = godotenv.Load()

	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level)

	application := app.New(cfg, logger, *dryRun)
	defer application.Close()

	if *once {
		if err := application.RunOnce(context.Background()); err != nil {
			logger.Error("pipeline failed", "error", err)
			os.Exit(1)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := application.RunScheduled(ctx); err != nil {
		logger.Error("application stopped", "error", err)
		os.Exit(1)
	}
}
