package events

import (
	"context"

	"github.com/LewisLovet/opatam-sub005/pkg/kafka"
	"github.com/LewisLovet/opatam-sub005/pkg/logger"
)

// Publisher emits domain events. Publishing is best-effort: callers
// treat failures as non-fatal and must not roll back state changes
// because an event could not be delivered.
type Publisher interface {
	Publish(ctx context.Context, eventType string, key string, payload interface{}) error
	Close() error
}

// KafkaPublisher publishes events through a Kafka producer
type KafkaPublisher struct {
	producer *kafka.Producer
	source   string
	log      *logger.Logger
}

// NewKafkaPublisher wraps a producer as an event publisher.
// source identifies the emitting service in message headers.
func NewKafkaPublisher(producer *kafka.Producer, source string, log *logger.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		producer: producer,
		source:   source,
		log:      log,
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, eventType string, key string, payload interface{}) error {
	msg := kafka.NewMessage().
		WithKey(key).
		WithValue(payload).
		WithEventType(eventType).
		WithSchemaVersion(SchemaVersion).
		WithSource(p.source).
		Build()

	if err := p.producer.Publish(ctx, msg); err != nil {
		p.log.Error("failed to publish event",
			"event_type", eventType,
			"key", key,
			"error", err,
		)
		return err
	}

	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}

// NoopPublisher discards all events. Used in tests and when the
// broker is not configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, eventType string, key string, payload interface{}) error {
	return nil
}

func (NoopPublisher) Close() error {
	return nil
}
