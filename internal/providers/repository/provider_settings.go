package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	providerserrors "github.com/LewisLovet/opatam-sub005/internal/providers/errors"
	"github.com/LewisLovet/opatam-sub005/pkg/config"
	"github.com/LewisLovet/opatam-sub005/pkg/model"
)

const (
	CollectionName = "Provider_settings"
)

type mongoProviderSettingsRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

type ProviderSettingsRepository interface {
	Find(ctx context.Context, providerID string) (*model.ProviderSettings, error)
	Upsert(ctx context.Context, settings *model.ProviderSettings) error
}

func NewMongoProviderSettingsRepository(cfg *config.Config) ProviderSettingsRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoProviderSettingsRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoProviderSettingsRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoProviderSettingsRepository) Find(ctx context.Context, providerID string) (*model.ProviderSettings, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var settings model.ProviderSettings
	err := r.collection.FindOne(ctx, bson.M{"_id": providerID}).Decode(&settings)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", providerserrors.ErrNotFound, providerID)
		}
		return nil, fmt.Errorf("failed to find provider settings: %w", err)
	}

	return &settings, nil
}

func (r *mongoProviderSettingsRepository) Upsert(ctx context.Context, settings *model.ProviderSettings) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	settings.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)

	filter := bson.M{"_id": settings.ProviderID}
	update := bson.M{"$set": bson.M{
		"requires_confirmation":     settings.RequiresConfirmation,
		"default_buffer_min":        settings.DefaultBufferMin,
		"min_booking_notice_min":    settings.MinBookingNoticeMin,
		"max_booking_advance_days":  settings.MaxBookingAdvanceDays,
		"allow_client_cancellation": settings.AllowClientCancellation,
		"cancellation_deadline_min": settings.CancellationDeadlineMin,
		"reminder_offsets_hours":    settings.ReminderOffsetsHours,
		"updated_at":                settings.UpdatedAt,
	}}

	opts := options.Update().SetUpsert(true)
	if _, err := r.collection.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("failed to upsert provider settings: %w", err)
	}
	return nil
}
