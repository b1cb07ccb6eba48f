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

	bookingserrors "github.com/LewisLovet/opatam-sub005/internal/bookings/errors"
	"github.com/LewisLovet/opatam-sub005/pkg/config"
	mongotx "github.com/LewisLovet/opatam-sub005/pkg/db/mongo"
	"github.com/LewisLovet/opatam-sub005/pkg/model"
)

const (
	CollectionName = "Bookings"
)

var activeStatuses = bson.A{model.StatusPending, model.StatusConfirmed}

type mongoBookingRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

type BookingRepository interface {
	Create(ctx context.Context, b *model.Booking) error
	FindByID(ctx context.Context, id string) (*model.Booking, error)
	FindByCancelToken(ctx context.Context, token string) (*model.Booking, error)
	FindActiveForKeyOnDate(ctx context.Context, key model.ScheduleKey, date time.Time) ([]*model.Booking, error)
	FindActiveInRange(ctx context.Context, key model.ScheduleKey, from, to time.Time) ([]*model.Booking, error)
	UpdateStatus(ctx context.Context, id string, from, to model.BookingStatus) error
	MarkCancelled(ctx context.Context, id string, from model.BookingStatus, cancelledBy, reason string, at time.Time) error
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

func NewMongoBookingRepository(cfg *config.Config) BookingRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBookingRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

func (r *mongoBookingRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoBookingRepository) Create(ctx context.Context, b *model.Booking) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	b.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, b)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		b.ID = oid.Hex()
	}
	return nil
}

func (r *mongoBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	var b model.Booking
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&b)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", bookingserrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}

	return &b, nil
}

func (r *mongoBookingRepository) FindByCancelToken(ctx context.Context, token string) (*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var b model.Booking
	err := r.collection.FindOne(ctx, bson.M{"cancel_token": token}).Decode(&b)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find booking by cancel token: %w", err)
	}

	return &b, nil
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

// FindActiveForKeyOnDate returns pending and confirmed bookings starting on
// the given calendar date.
func (r *mongoBookingRepository) FindActiveForKeyOnDate(ctx context.Context, key model.ScheduleKey, date time.Time) ([]*model.Booking, error) {
	day := model.DateOf(date)
	return r.FindActiveInRange(ctx, key, day, day.AddDate(0, 0, 1))
}

// FindActiveInRange returns pending and confirmed bookings with
// from <= start_time < to.
func (r *mongoBookingRepository) FindActiveInRange(ctx context.Context, key model.ScheduleKey, from, to time.Time) ([]*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := keyFilter(key)
	filter["status"] = bson.M{"$in": activeStatuses}
	filter["start_time"] = bson.M{"$gte": from, "$lt": to}

	opts := options.Find().SetSort(bson.D{{Key: "start_time", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*model.Booking
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}

// UpdateStatus flips the status only when the document still carries the
// expected one, closing the read-then-write race on concurrent transitions.
func (r *mongoBookingRepository) UpdateStatus(ctx context.Context, id string, from, to model.BookingStatus) error {
	return r.casUpdate(ctx, id, from, bson.M{"status": to})
}

func (r *mongoBookingRepository) MarkCancelled(ctx context.Context, id string, from model.BookingStatus, cancelledBy, reason string, at time.Time) error {
	return r.casUpdate(ctx, id, from, bson.M{
		"status":        model.StatusCancelled,
		"cancelled_by":  cancelledBy,
		"cancel_reason": reason,
		"cancelled_at":  at,
	})
}

func (r *mongoBookingRepository) casUpdate(ctx context.Context, id string, from model.BookingStatus, set bson.M) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	filter := bson.M{"_id": objectID, "status": from}
	result, err := r.collection.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", bookingserrors.ErrStatusChanged, id)
	}
	return nil
}

func (r *mongoBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
