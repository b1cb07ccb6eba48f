package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	providersrepo "github.com/LewisLovet/opatam-sub005/internal/providers/repository"
	providersvc "github.com/LewisLovet/opatam-sub005/internal/providers/service"
	providersvalidator "github.com/LewisLovet/opatam-sub005/internal/providers/validator"
	"github.com/LewisLovet/opatam-sub005/internal/reminders/repository"
	"github.com/LewisLovet/opatam-sub005/internal/reminders/service"
	"github.com/LewisLovet/opatam-sub005/pkg/config"
	"github.com/LewisLovet/opatam-sub005/pkg/events"
	"github.com/LewisLovet/opatam-sub005/pkg/kafka"
	kafka_config "github.com/LewisLovet/opatam-sub005/pkg/kafka/config"
	kafka_middleware "github.com/LewisLovet/opatam-sub005/pkg/kafka/middleware"
	"github.com/LewisLovet/opatam-sub005/pkg/logger"
)

const (
	ServiceName   = "notifier"
	consumerGroup = "notifier"
	sweepInterval = time.Minute
)

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Notifier service")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reminderService := initReminderService(cfg)
	go runSweeps(ctx, cfg, reminderService)

	if os.Getenv(kafka_config.EnvKafkaBrokers) == "" {
		cfg.Log.Warn("No Kafka brokers configured, running sweeps only")
		<-ctx.Done()
		return
	}

	consumer, err := kafka.NewConsumer(
		kafka_config.Load(),
		events.TopicBookingFacts,
		consumerGroup,
		events.TopicBookingFactsDLQ,
		dispatchIntent(cfg.Log),
	)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka consumer", "error", err)
	}
	defer func() {
		if err := consumer.Close(); err != nil {
			cfg.Log.Error("Failed to close Kafka consumer", "error", err)
		}
	}()
	consumer.Use(kafka_middleware.LoggingConsumerMiddleware(cfg.Log))

	if err := consumer.Start(ctx); err != nil && ctx.Err() == nil {
		cfg.Log.Fatal("Consumer stopped unexpectedly", "error", err)
	}
	cfg.Log.Info("Notifier shut down")
}

func initReminderService(cfg *config.Config) service.ReminderService {
	settingsService := providersvc.NewProviderSettingsService(
		providersrepo.NewMongoProviderSettingsRepository(cfg),
		providersvalidator.NewProviderSettingsValidator(cfg.Log),
		cfg,
	)
	return service.NewReminderService(
		repository.NewMongoReminderRepository(cfg),
		settingsService,
		buildPublisher(cfg),
		cfg,
	)
}

func buildPublisher(cfg *config.Config) events.Publisher {
	if os.Getenv(kafka_config.EnvKafkaBrokers) == "" {
		return events.NoopPublisher{}
	}
	producer, err := kafka.NewProducer(kafka_config.Load(), events.TopicBookingFacts, events.TopicBookingFactsDLQ)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	return events.NewKafkaPublisher(producer, ServiceName, cfg.Log)
}

func runSweeps(ctx context.Context, cfg *config.Config, reminders service.ReminderService) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if _, err := reminders.SweepDue(ctx, now); err != nil {
				cfg.Log.Error("Reminder sweep failed", "error", err)
			}
			if _, err := reminders.SweepReviewRequests(ctx, now); err != nil {
				cfg.Log.Error("Review request sweep failed", "error", err)
			}
		}
	}
}

// dispatchIntent is the delivery stub: it logs what would be sent. Actual
// channel delivery (email, SMS) plugs in here.
func dispatchIntent(log *logger.Logger) kafka.MessageHandler {
	return func(ctx context.Context, msg kafka.Message) error {
		switch eventType := msg.GetEventType(); eventType {
		case events.TypeReminderDue, events.TypeReviewRequested:
			var fact events.ReminderFact
			if err := msg.DecodeValue(&fact); err != nil {
				return err
			}
			log.Info("Would dispatch notification",
				"event_type", eventType,
				"booking_id", fact.BookingID,
				"client_email", fact.ClientEmail,
				"offset_hours", fact.OffsetHours,
			)
		default:
			var fact events.BookingFact
			if err := msg.DecodeValue(&fact); err != nil {
				return err
			}
			log.Info("Would dispatch booking update",
				"event_type", eventType,
				"booking_id", fact.BookingID,
				"status", fact.Status,
				"client_email", fact.ClientEmail,
			)
		}
		return nil
	}
}
