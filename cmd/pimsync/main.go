package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/MKhiriev/go-pim-sync/internal/client"
	"github.com/MKhiriev/go-pim-sync/internal/config"
	"github.com/MKhiriev/go-pim-sync/internal/logger"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("pimsync")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	// a daemon keeps the terminal free and logs to a rotated file
	if cfg.Run.Daemon {
		log = logger.NewFileLogger("pimsync", filepath.Join(cfg.Storage.StateDir, "pimsync.log"))
	}
	log.Debug().Any("config", cfg).Msg("received configs")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := client.NewApp(ctx, cfg, os.Stdout, log)
	if err != nil {
		log.Fatal().Err(err).Msg("init pimsync error")
	}

	runErr := app.Run(ctx)
	if err = app.Close(); err != nil {
		log.Error().Err(err).Msg("error closing pimsync")
	}
	if runErr != nil {
		log.Error().Err(runErr).Msg("pimsync run error")
		os.Exit(1)
	}
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
