package http

import (
	"github.com/MKhiriev/go-pim-sync/internal/device"
	"github.com/MKhiriev/go-pim-sync/internal/logger"
	"github.com/MKhiriev/go-pim-sync/models"
)

type Handler struct {
	link      device.Link
	buildInfo models.AppBuildInfo

	logger *logger.Logger
}

func NewHandler(link device.Link, buildInfo models.AppBuildInfo, logger *logger.Logger) *Handler {
	logger.Info().Str("user", link.UserName()).Msg("bridge handler created")
	return &Handler{
		link:      link,
		buildInfo: buildInfo,
		logger:    logger,
	}
}
