package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/LewisLovet/opatam-sub005/pkg/config"
	mongotx "github.com/LewisLovet/opatam-sub005/pkg/db/mongo"
	"github.com/LewisLovet/opatam-sub005/pkg/model"
)

const (
	CollectionName = "Weekly_schedules"
)

type mongoScheduleRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

type ScheduleRepository interface {
	FindVersions(ctx context.Context, key model.ScheduleKey) ([]*model.WeeklyScheduleEntry, error)
	FindVersionsForDay(ctx context.Context, key model.ScheduleKey, dayOfWeek int) ([]*model.WeeklyScheduleEntry, error)
	UpsertBaseline(ctx context.Context, entry *model.WeeklyScheduleEntry) error
	UpsertVersion(ctx context.Context, entry *model.WeeklyScheduleEntry) error
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

func NewMongoScheduleRepository(cfg *config.Config) ScheduleRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoScheduleRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

// withTimeout wraps the context with a timeout if not already in a transaction.
// SessionContext cannot be wrapped without breaking transaction semantics, so
// inside a transaction the original context is returned with a no-op cancel.
func (r *mongoScheduleRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func keyFilter(key model.ScheduleKey) bson.M {
	filter := bson.M{
		"provider_id": key.ProviderID,
		"location_id": key.LocationID,
	}
	if key.MemberID != "" {
		filter["member_id"] = key.MemberID
	} else {
		filter["member_id"] = bson.M{"$exists": false}
	}
	return filter
}

func (r *mongoScheduleRepository) FindVersions(ctx context.Context, key model.ScheduleKey) ([]*model.WeeklyScheduleEntry, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{
		{Key: "day_of_week", Value: 1},
		{Key: "effective_from", Value: 1},
	})

	cursor, err := r.collection.Find(ctx, keyFilter(key), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query schedule entries: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []*model.WeeklyScheduleEntry
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode schedule entries: %w", err)
	}
	return entries, nil
}

func (r *mongoScheduleRepository) FindVersionsForDay(ctx context.Context, key model.ScheduleKey, dayOfWeek int) ([]*model.WeeklyScheduleEntry, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := keyFilter(key)
	filter["day_of_week"] = dayOfWeek

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query schedule entries for day %d: %w", dayOfWeek, err)
	}
	defer cursor.Close(ctx)

	var entries []*model.WeeklyScheduleEntry
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode schedule entries: %w", err)
	}
	return entries, nil
}

// UpsertBaseline replaces the undated entry for the key/day. The baseline is
// the only entry that may be overwritten in place.
func (r *mongoScheduleRepository) UpsertBaseline(ctx context.Context, entry *model.WeeklyScheduleEntry) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := keyFilter(entry.Key())
	filter["day_of_week"] = entry.DayOfWeek
	filter["effective_from"] = bson.M{"$exists": false}

	return r.upsert(ctx, filter, entry)
}

// UpsertVersion appends a dated version. Re-submitting a change for the same
// effective date replaces the earlier submission instead of stacking a
// duplicate version.
func (r *mongoScheduleRepository) UpsertVersion(ctx context.Context, entry *model.WeeklyScheduleEntry) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := keyFilter(entry.Key())
	filter["day_of_week"] = entry.DayOfWeek
	filter["effective_from"] = entry.EffectiveFrom

	return r.upsert(ctx, filter, entry)
}

func (r *mongoScheduleRepository) upsert(ctx context.Context, filter bson.M, entry *model.WeeklyScheduleEntry) error {
	entry.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	set := bson.M{
		"provider_id": entry.ProviderID,
		"location_id": entry.LocationID,
		"day_of_week": entry.DayOfWeek,
		"is_open":     entry.IsOpen,
		"slots":       entry.Slots,
		"created_at":  entry.CreatedAt,
	}
	if entry.MemberID != "" {
		set["member_id"] = entry.MemberID
	}
	if entry.EffectiveFrom != nil {
		set["effective_from"] = entry.EffectiveFrom
	}

	opts := options.Update().SetUpsert(true)
	result, err := r.collection.UpdateOne(ctx, filter, bson.M{"$set": set}, opts)
	if err != nil {
		return fmt.Errorf("failed to upsert schedule entry: %w", err)
	}

	if result.UpsertedID != nil {
		if oid, ok := result.UpsertedID.(primitive.ObjectID); ok {
			entry.ID = oid.Hex()
		}
	}
	return nil
}

func (r *mongoScheduleRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
