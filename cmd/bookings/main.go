package main

import (
	"os"

	blocksrepo "github.com/LewisLovet/opatam-sub005/internal/blocks/repository"
	"github.com/LewisLovet/opatam-sub005/internal/bookings/handler"
	"github.com/LewisLovet/opatam-sub005/internal/bookings/repository"
	"github.com/LewisLovet/opatam-sub005/internal/bookings/service"
	"github.com/LewisLovet/opatam-sub005/internal/bookings/validator"
	providersrepo "github.com/LewisLovet/opatam-sub005/internal/providers/repository"
	providersvc "github.com/LewisLovet/opatam-sub005/internal/providers/service"
	providersvalidator "github.com/LewisLovet/opatam-sub005/internal/providers/validator"
	schedrepo "github.com/LewisLovet/opatam-sub005/internal/schedules/repository"
	"github.com/LewisLovet/opatam-sub005/pkg/app"
	"github.com/LewisLovet/opatam-sub005/pkg/config"
	"github.com/LewisLovet/opatam-sub005/pkg/contracts"
	"github.com/LewisLovet/opatam-sub005/pkg/events"
	"github.com/LewisLovet/opatam-sub005/pkg/kafka"
	kafka_config "github.com/LewisLovet/opatam-sub005/pkg/kafka/config"
	"github.com/LewisLovet/opatam-sub005/pkg/sealer"
)

const ServiceName = "bookings"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Bookings service")

	publisher := buildPublisher(cfg)
	defer func() {
		if err := publisher.Close(); err != nil {
			cfg.Log.Error("Failed to close event publisher", "error", err)
		}
	}()

	bookingService := initServices(cfg, publisher)

	handlers := contracts.Handlers{
		handler.NewBookingHandler(bookingService, cfg.Log),
	}

	app.NewApplication(cfg, handlers).Run()
}

func initServices(cfg *config.Config, publisher events.Publisher) service.BookingService {
	settingsService := providersvc.NewProviderSettingsService(
		providersrepo.NewMongoProviderSettingsRepository(cfg),
		providersvalidator.NewProviderSettingsValidator(cfg.Log),
		cfg,
	)

	bookingService := service.NewBookingService(
		repository.NewMongoBookingRepository(cfg),
		repository.NewMongoSlotClaimRepository(cfg),
		schedrepo.NewMongoScheduleRepository(cfg),
		blocksrepo.NewMongoBlockedRangeRepository(cfg),
		settingsService,
		validator.NewBookingValidator(cfg.Log),
		buildSealer(cfg),
		publisher,
		cfg,
	)

	cfg.Log.Info("Booking service initialized", "database", cfg.MongoDatabaseName)
	return bookingService
}

// buildSealer returns nil when no seal key is configured; the service then
// serves everything except self-service cancellation.
func buildSealer(cfg *config.Config) *sealer.Sealer {
	if cfg.TokenSealKey == "" {
		cfg.Log.Warn("No token seal key configured, self-service cancellation disabled")
		return nil
	}
	s, err := sealer.New(cfg.TokenSealKey)
	if err != nil {
		cfg.Log.Fatal("Invalid token seal key", "error", err)
	}
	return s
}

func buildPublisher(cfg *config.Config) events.Publisher {
	if os.Getenv(kafka_config.EnvKafkaBrokers) == "" {
		cfg.Log.Warn("No Kafka brokers configured, booking facts will not be published")
		return events.NoopPublisher{}
	}

	producer, err := kafka.NewProducer(kafka_config.Load(), events.TopicBookingFacts, events.TopicBookingFactsDLQ)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	return events.NewKafkaPublisher(producer, ServiceName, cfg.Log)
}
