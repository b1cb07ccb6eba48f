package main

import (
	"github.com/LewisLovet/opatam-sub005/internal/providers/handler"
	"github.com/LewisLovet/opatam-sub005/internal/providers/repository"
	"github.com/LewisLovet/opatam-sub005/internal/providers/service"
	"github.com/LewisLovet/opatam-sub005/internal/providers/validator"
	"github.com/LewisLovet/opatam-sub005/pkg/app"
	"github.com/LewisLovet/opatam-sub005/pkg/config"
	"github.com/LewisLovet/opatam-sub005/pkg/contracts"
)

const ServiceName = "providers"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Providers service")

	settingsService := service.NewProviderSettingsService(
		repository.NewMongoProviderSettingsRepository(cfg),
		validator.NewProviderSettingsValidator(cfg.Log),
		cfg,
	)

	handlers := contracts.Handlers{
		handler.NewProviderSettingsHandler(settingsService, cfg.Log),
	}

	app.NewApplication(cfg, handlers).Run()
}
