package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/gymnastic-app/gymcli/internal/buildinfo"
	"github.com/gymnastic-app/gymcli/internal/client/cli"
	"github.com/gymnastic-app/gymcli/internal/client/config"
	"github.com/gymnastic-app/gymcli/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()

	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	app, err := cli.NewApp(cfg, log)
	if err != nil {
		log.Error(ctx, "failed to start", "err", err)
		os.Exit(1)
	}

	app.Run(ctx)
}
