package http

import (
	"github.com/mealkeep/syncserver/internal/config"
	"github.com/mealkeep/syncserver/internal/logger"
	"github.com/mealkeep/syncserver/internal/service"
)

type Handler struct {
	services *service.Services

	// app carries the token verification parameters used by the auth
	// middleware; tokens themselves are issued by an external service.
	app config.App

	logger *logger.Logger
}

func NewHandler(services *service.Services, app config.App, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services: services,
		app:      app,
		logger:   logger,
	}
}
