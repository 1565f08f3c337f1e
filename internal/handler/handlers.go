package handler

import (
	"github.com/mealkeep/syncserver/internal/config"
	"github.com/mealkeep/syncserver/internal/handler/http"
	"github.com/mealkeep/syncserver/internal/logger"
	"github.com/mealkeep/syncserver/internal/service"
)

type Handlers struct {
	HTTP *http.Handler
}

func NewHandlers(services *service.Services, cfg *config.StructuredConfig, logger *logger.Logger) (*Handlers, error) {
	logger.Info().Msg("creating new handlers...")

	handlers := &Handlers{}

	if cfg.Server.HTTPAddress != "" {
		handlers.HTTP = http.NewHandler(services, cfg.App, logger)
	}

	if handlers.HTTP == nil {
		return nil, errNoHandlersAreCreated
	}

	return handlers, nil
}
