package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/LewisLovet/opatam-sub005/pkg/config"
	"github.com/LewisLovet/opatam-sub005/pkg/model"
)

const ClaimCollectionName = "Slot_claims"

// SlotClaimRepository manages the advisory locks taken while a booking is
// committed. The unique index on _id is what makes claims exclusive: the
// second insert for the same slot fails with a duplicate key error.
type SlotClaimRepository interface {
	Create(ctx context.Context, claim *model.SlotClaim) error
	Delete(ctx context.Context, claimID string) error
}

type mongoSlotClaimRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoSlotClaimRepository(cfg *config.Config) SlotClaimRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoSlotClaimRepository{
		cfg:        cfg,
		collection: db.Collection(ClaimCollectionName),
	}
}

// Create inserts the claim. A duplicate key error means another request
// holds the slot; callers translate it, this layer passes it through.
func (r *mongoSlotClaimRepository) Create(ctx context.Context, claim *model.SlotClaim) error {
	claim.CreatedAt = time.Now().UTC()
	claim.ExpiresAt = claim.CreatedAt.Add(r.cfg.SlotClaimTTL)

	_, err := r.collection.InsertOne(ctx, claim)
	return err
}

func (r *mongoSlotClaimRepository) Delete(ctx context.Context, claimID string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": claimID})
	return err
}
