package main

import (
	"context"
	"log"
	"os"
	"os/signal"

	"github.com/dmitrijs2005/gophbank/internal/atm/cli"
	"github.com/dmitrijs2005/gophbank/internal/atm/config"
	"github.com/dmitrijs2005/gophbank/internal/buildinfo"
	"github.com/dmitrijs2005/gophbank/internal/logging"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("%v", err)
	}
}

func run() error {
	buildinfo.PrintBuildData(os.Stdout)

	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		return err
	}

	logger, closer, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "startup failed", "error", err)
		return err
	}
	defer app.Close()

	logger.Info(ctx, "started", "driver", cfg.StorageDriver)
	return app.Run(ctx)
}
