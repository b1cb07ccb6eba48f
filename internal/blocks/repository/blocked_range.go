package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	blockserrors "github.com/LewisLovet/opatam-sub005/internal/blocks/errors"
	"github.com/LewisLovet/opatam-sub005/pkg/config"
	"github.com/LewisLovet/opatam-sub005/pkg/model"
)

const (
	CollectionName = "Blocked_ranges"
)

type mongoBlockedRangeRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

type BlockedRangeRepository interface {
	Create(ctx context.Context, br *model.BlockedRange) error
	FindByID(ctx context.Context, id string) (*model.BlockedRange, error)
	FindUpcoming(ctx context.Context, providerID string, fromDate time.Time) ([]*model.BlockedRange, error)
	FindCovering(ctx context.Context, providerID string, date time.Time) ([]*model.BlockedRange, error)
	Delete(ctx context.Context, id string) error
	DeleteEndedBefore(ctx context.Context, providerID string, date time.Time) (int64, error)
}

func NewMongoBlockedRangeRepository(cfg *config.Config) BlockedRangeRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBlockedRangeRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoBlockedRangeRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoBlockedRangeRepository) Create(ctx context.Context, br *model.BlockedRange) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	br.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, br)
	if err != nil {
		return fmt.Errorf("failed to create blocked range: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		br.ID = oid.Hex()
	}
	return nil
}

func (r *mongoBlockedRangeRepository) FindByID(ctx context.Context, id string) (*model.BlockedRange, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", blockserrors.ErrInvalidID, id)
	}

	var br model.BlockedRange
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&br)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", blockserrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to find blocked range: %w", err)
	}

	return &br, nil
}

func (r *mongoBlockedRangeRepository) FindUpcoming(ctx context.Context, providerID string, fromDate time.Time) ([]*model.BlockedRange, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"provider_id": providerID,
		"end_date":    bson.M{"$gte": model.DateOf(fromDate)},
	}
	opts := options.Find().SetSort(bson.D{{Key: "start_date", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query blocked ranges: %w", err)
	}
	defer cursor.Close(ctx)

	var ranges []*model.BlockedRange
	if err = cursor.All(ctx, &ranges); err != nil {
		return nil, fmt.Errorf("failed to decode blocked ranges: %w", err)
	}
	return ranges, nil
}

// FindCovering returns every range whose [start_date, end_date] spans the
// given date, regardless of location/member scoping. Callers narrow with
// AppliesTo since empty scope fields mean provider-wide.
func (r *mongoBlockedRangeRepository) FindCovering(ctx context.Context, providerID string, date time.Time) ([]*model.BlockedRange, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	day := model.DateOf(date)
	filter := bson.M{
		"provider_id": providerID,
		"start_date":  bson.M{"$lte": day},
		"end_date":    bson.M{"$gte": day},
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query covering blocked ranges: %w", err)
	}
	defer cursor.Close(ctx)

	var ranges []*model.BlockedRange
	if err = cursor.All(ctx, &ranges); err != nil {
		return nil, fmt.Errorf("failed to decode blocked ranges: %w", err)
	}
	return ranges, nil
}

func (r *mongoBlockedRangeRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", blockserrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete blocked range: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%w: %s", blockserrors.ErrNotFound, id)
	}
	return nil
}

// DeleteEndedBefore removes every range that ended strictly before the given
// date. Running it twice is harmless: the second pass matches nothing.
func (r *mongoBlockedRangeRepository) DeleteEndedBefore(ctx context.Context, providerID string, date time.Time) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := bson.M{
		"provider_id": providerID,
		"end_date":    bson.M{"$lt": model.DateOf(date)},
	}

	result, err := r.collection.DeleteMany(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to purge past blocked ranges: %w", err)
	}
	return result.DeletedCount, nil
}
