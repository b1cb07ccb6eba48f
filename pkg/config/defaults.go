package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "opatam"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRateLimitRequests = 30
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	// Slot claims auto-expire so a crashed create cannot wedge a slot.
	DefaultSlotClaimTTL = 10 * time.Second

	// How long after completion the review request goes out.
	DefaultReviewRequestDelay = 2 * time.Hour

	DefaultDefaultBufferMin               = 0
	DefaultDefaultMinBookingNoticeMin     = 60
	DefaultDefaultMaxBookingAdvanceDays   = 60
	DefaultDefaultCancellationDeadlineMin = 24 * 60
	DefaultDefaultRequiresConfirmation    = true
	DefaultDefaultAllowClientCancellation = true

	DefaultPaginationLimit = 100
)

// DefaultReminderOffsetsHours: hours before the appointment at which a
// reminder fires when the provider has not configured offsets.
var DefaultReminderOffsetsHours = []int{24, 2}
