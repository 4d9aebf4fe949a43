package main

import (
	"context"
	"log"
	"os"

	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/admin"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/flagx"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/logging"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/server"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/server/config"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/server/repositories/repomanager"
)

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		log.Fatalf("%v", err)
	}
}

// run takes the command name first and config flags after it.
func run(ctx context.Context, args []string) error {
	cmd, args := flagx.SplitCommand(args)

	cfg, err := config.LoadConfig(args)
	if err != nil {
		return err
	}
	logger := logging.New(os.Stderr, cfg.Env)

	store, closer, err := server.OpenStore(ctx, cfg)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}

	m := repomanager.NewDocStoreRepositoryManager(store, cfg.TablePrefix)
	return admin.NewApp(m, logger, os.Stdin, os.Stdout).Run(ctx, cmd)
}
