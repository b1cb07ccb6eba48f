package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvTokenSealKey = "TOKEN_SEAL_KEY"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvSlotClaimTTL       = "SLOT_CLAIM_TTL"
	EnvReviewRequestDelay = "REVIEW_REQUEST_DELAY"

	EnvDefaultBufferMin               = "DEFAULT_BUFFER_MIN"
	EnvDefaultMinBookingNoticeMin     = "DEFAULT_MIN_BOOKING_NOTICE_MIN"
	EnvDefaultMaxBookingAdvanceDays   = "DEFAULT_MAX_BOOKING_ADVANCE_DAYS"
	EnvDefaultCancellationDeadlineMin = "DEFAULT_CANCELLATION_DEADLINE_MIN"
	EnvDefaultReminderOffsetsHours    = "DEFAULT_REMINDER_OFFSETS_HOURS"
	EnvDefaultRequiresConfirmation    = "DEFAULT_REQUIRES_CONFIRMATION"
	EnvDefaultAllowClientCancellation = "DEFAULT_ALLOW_CLIENT_CANCELLATION"
)
