package model

import (
	"fmt"
	"time"
)

// SlotClaim is an advisory lock taken while a booking is being committed.
// The _id encodes the slot coordinates, so the unique index on _id makes
// two concurrent claims for the same slot collide at insert time.
type SlotClaim struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// SlotClaimID derives the lock key for a slot. Bookings for different
// members at the same location never contend.
func SlotClaimID(providerID, locationID, memberID string, start time.Time) string {
	return fmt.Sprintf("%s:%s:%s:%d", providerID, locationID, memberID, start.UTC().Unix())
}
