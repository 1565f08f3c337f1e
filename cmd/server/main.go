package main

import (
	"context"
	"fmt"

	"github.com/mealkeep/syncserver/internal/config"
	"github.com/mealkeep/syncserver/internal/handler"
	"github.com/mealkeep/syncserver/internal/logger"
	"github.com/mealkeep/syncserver/internal/server"
	"github.com/mealkeep/syncserver/internal/service"
	"github.com/mealkeep/syncserver/internal/store"
	"github.com/mealkeep/syncserver/internal/workers"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("sync-server")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	log.Debug().Any("config", cfg).Msg("received configs")

	storages, err := store.NewStorages(context.Background(), cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}

	services := service.NewServices(*storages, *cfg, log)

	handlers, err := handler.NewHandlers(services, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	srv, err := server.NewServer(handlers, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	ws := workers.NewWorkers(storages, cfg.Workers, log)
	ws.Run()

	// RunServer blocks until the HTTP server has drained; the workers
	// come down right after.
	srv.RunServer()
	ws.Stop()
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
