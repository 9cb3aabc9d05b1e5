package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"SpimexTradingResults/internal/app"
	"SpimexTradingResults/internal/config"
	"SpimexTradingResults/internal/logging"
)

func main() {
	once := flag.Bool("once", false, "run a single ingestion and exit")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level)

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("application init failed", "error", err)
		os.Exit(1)
	}
	defer application.Close()

	run := application.Run
	if *once {
		run = application.RunOnce
	}

	if err := run(ctx); err != nil {
		logger.Error("application stopped", "error", err)
		stop()
		application.Close()
		os.Exit(1)
	}
}
