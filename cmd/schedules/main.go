package main

import (
	blockshandler "github.com/LewisLovet/opatam-sub005/internal/blocks/handler"
	blocksrepo "github.com/LewisLovet/opatam-sub005/internal/blocks/repository"
	blockssvc "github.com/LewisLovet/opatam-sub005/internal/blocks/service"
	blocksvalidator "github.com/LewisLovet/opatam-sub005/internal/blocks/validator"
	"github.com/LewisLovet/opatam-sub005/internal/schedules/handler"
	"github.com/LewisLovet/opatam-sub005/internal/schedules/repository"
	"github.com/LewisLovet/opatam-sub005/internal/schedules/service"
	"github.com/LewisLovet/opatam-sub005/internal/schedules/validator"
	"github.com/LewisLovet/opatam-sub005/pkg/app"
	"github.com/LewisLovet/opatam-sub005/pkg/config"
	"github.com/LewisLovet/opatam-sub005/pkg/contracts"
)

const ServiceName = "schedules"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Schedules service")

	scheduleRepo := repository.NewMongoScheduleRepository(cfg)
	scheduleService := service.NewScheduleService(
		scheduleRepo,
		validator.NewScheduleValidator(cfg.Log),
		cfg,
	)

	blockRepo := blocksrepo.NewMongoBlockedRangeRepository(cfg)
	blockService := blockssvc.NewBlockedRangeService(
		blockRepo,
		blocksvalidator.NewBlockedRangeValidator(cfg.Log),
		cfg,
	)

	handlers := contracts.Handlers{
		handler.NewScheduleHandler(scheduleService, cfg.Log),
		blockshandler.NewBlockedRangeHandler(blockService, cfg.Log),
	}

	app.NewApplication(cfg, handlers).Run()
}
