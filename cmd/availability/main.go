package main

import (
	"github.com/LewisLovet/opatam-sub005/internal/availability/handler"
	"github.com/LewisLovet/opatam-sub005/internal/availability/service"
	blocksrepo "github.com/LewisLovet/opatam-sub005/internal/blocks/repository"
	bookingsrepo "github.com/LewisLovet/opatam-sub005/internal/bookings/repository"
	providersrepo "github.com/LewisLovet/opatam-sub005/internal/providers/repository"
	providersvc "github.com/LewisLovet/opatam-sub005/internal/providers/service"
	providersvalidator "github.com/LewisLovet/opatam-sub005/internal/providers/validator"
	schedrepo "github.com/LewisLovet/opatam-sub005/internal/schedules/repository"
	"github.com/LewisLovet/opatam-sub005/pkg/app"
	"github.com/LewisLovet/opatam-sub005/pkg/config"
	"github.com/LewisLovet/opatam-sub005/pkg/contracts"
)

const ServiceName = "availability"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Availability service")

	settingsService := providersvc.NewProviderSettingsService(
		providersrepo.NewMongoProviderSettingsRepository(cfg),
		providersvalidator.NewProviderSettingsValidator(cfg.Log),
		cfg,
	)

	availabilityService := service.NewAvailabilityService(
		schedrepo.NewMongoScheduleRepository(cfg),
		blocksrepo.NewMongoBlockedRangeRepository(cfg),
		bookingsrepo.NewMongoBookingRepository(cfg),
		settingsService,
		cfg,
	)

	handlers := contracts.Handlers{
		handler.NewAvailabilityHandler(availabilityService, cfg.Log),
	}

	app.NewApplication(cfg, handlers).Run()
}
