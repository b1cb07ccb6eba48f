package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	bookingsrepo "github.com/LewisLovet/opatam-sub005/internal/bookings/repository"
	remindererrors "github.com/LewisLovet/opatam-sub005/internal/reminders/errors"
	"github.com/LewisLovet/opatam-sub005/pkg/config"
	"github.com/LewisLovet/opatam-sub005/pkg/model"
)

// ReminderRepository is the reminder ledger over the bookings collection.
// Sent markers live on the booking document itself, so marking and reading
// never race across collections.
type ReminderRepository interface {
	// MarkSent records that the reminder at the given offset went out.
	// Returns true only for the request that actually added the marker,
	// making dispatch at-most-once per offset under retries.
	MarkSent(ctx context.Context, bookingID string, offsetHours int) (bool, error)
	// MarkReviewRequested stamps the review request time, once.
	MarkReviewRequested(ctx context.Context, bookingID string, at time.Time) (bool, error)
	FindConfirmedStartingBetween(ctx context.Context, from, to time.Time) ([]*model.Booking, error)
	FindCompletedWithoutReview(ctx context.Context, completedBefore time.Time) ([]*model.Booking, error)
}

type mongoReminderRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoReminderRepository(cfg *config.Config) ReminderRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoReminderRepository{
		cfg:        cfg,
		collection: db.Collection(bookingsrepo.CollectionName),
	}
}

func (r *mongoReminderRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoReminderRepository) MarkSent(ctx context.Context, bookingID string, offsetHours int) (bool, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(bookingID)
	if err != nil {
		return false, fmt.Errorf("%w: %s", remindererrors.ErrInvalidID, bookingID)
	}

	// The $ne filter makes the write conditional on the marker being absent:
	// exactly one of any number of concurrent retries modifies the document.
	filter := bson.M{
		"_id":            objectID,
		"status":         model.StatusConfirmed,
		"reminders_sent": bson.M{"$ne": offsetHours},
	}
	update := bson.M{"$addToSet": bson.M{"reminders_sent": offsetHours}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to mark reminder sent: %w", err)
	}
	return result.ModifiedCount == 1, nil
}

func (r *mongoReminderRepository) MarkReviewRequested(ctx context.Context, bookingID string, at time.Time) (bool, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(bookingID)
	if err != nil {
		return false, fmt.Errorf("%w: %s", remindererrors.ErrInvalidID, bookingID)
	}

	filter := bson.M{
		"_id":                    objectID,
		"status":                 model.StatusCompleted,
		"review_request_sent_at": bson.M{"$exists": false},
	}
	update := bson.M{"$set": bson.M{"review_request_sent_at": at}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to mark review requested: %w", err)
	}
	return result.ModifiedCount == 1, nil
}

func (r *mongoReminderRepository) FindConfirmedStartingBetween(ctx context.Context, from, to time.Time) ([]*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"status":     model.StatusConfirmed,
		"start_time": bson.M{"$gte": from, "$lt": to},
	}
	opts := options.Find().SetSort(bson.D{{Key: "start_time", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query confirmed bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*model.Booking
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}

func (r *mongoReminderRepository) FindCompletedWithoutReview(ctx context.Context, completedBefore time.Time) ([]*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"status":                 model.StatusCompleted,
		"end_time":               bson.M{"$lt": completedBefore},
		"review_request_sent_at": bson.M{"$exists": false},
	}
	opts := options.Find().SetSort(bson.D{{Key: "end_time", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query completed bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*model.Booking
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}
