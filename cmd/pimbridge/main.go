package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-pim-sync/internal/config"
	"github.com/MKhiriev/go-pim-sync/internal/device"
	handler "github.com/MKhiriev/go-pim-sync/internal/handler/http"
	"github.com/MKhiriev/go-pim-sync/internal/logger"
	"github.com/MKhiriev/go-pim-sync/internal/server"
	"github.com/MKhiriev/go-pim-sync/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("pimbridge")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	log.Debug().Any("config", cfg).Msg("received configs")

	link, err := device.OpenFileLink(cfg.Device.ImagePath, cfg.Profile.UserName)
	if err != nil {
		log.Fatal().Err(err).Msg("error opening device image")
	}
	log.Info().Str("image", link.Path()).Str("user", link.UserName()).Msg("serving device image")

	buildInfo := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	router := handler.NewHandler(link, buildInfo, log).Init()

	srv, err := server.NewServer(router, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runErr := srv.Run(ctx)
	if err = link.Save(); err != nil {
		log.Error().Err(err).Msg("error saving device image")
	}
	if runErr != nil {
		log.Fatal().Err(runErr).Msg("server run error")
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
