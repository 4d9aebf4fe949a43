package main

import (
	"context"
	"log"
	"os"

	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/logging"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/server"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/server/config"
)

func main() {

	ctx := context.Background()
	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(os.Stdout, cfg.Env)

	app, err := server.NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "init failed", "error", err)
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		logger.Error(ctx, "server stopped with error", "error", err)
		os.Exit(1)
	}
}
