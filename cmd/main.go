package main

import (
	"go.uber.org/fx"

	"garmin-sync/internal/config"
	deliveryhttp "garmin-sync/internal/delivery/http"
	"garmin-sync/internal/infrastructure/garmin"
	"garmin-sync/internal/infrastructure/httpclient"
	"garmin-sync/internal/infrastructure/logger"
	"garmin-sync/internal/infrastructure/notify"
	"garmin-sync/internal/infrastructure/oauth2"
	"garmin-sync/internal/infrastructure/repository"
	"garmin-sync/internal/infrastructure/tokenstore"
	"garmin-sync/internal/server"
	"garmin-sync/internal/usecase"
)

func main() {
	fx.New(
		// Configuration
		config.Module,

		// Infrastructure
		logger.Module,
		tokenstore.Module,
		deliveryhttp.Module,
		oauth2.Module,
		httpclient.Module,
		garmin.Module,
		notify.Module,
		repository.Module,

		// Business Logic
		usecase.Module,

		// One-shot sync run
		server.Module,
	).Run()
}
