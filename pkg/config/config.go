package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/LewisLovet/opatam-sub005/pkg/client"
	"github.com/LewisLovet/opatam-sub005/pkg/logger"
)

type Config struct {
	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	Port string

	TokenSealKey string

	RateLimitRequests int
	RateLimitWindow   time.Duration

	RequestTimeout time.Duration
	IdempotencyTTL time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	SlotClaimTTL       time.Duration
	ReviewRequestDelay time.Duration

	DefaultBufferMin               int
	DefaultMinBookingNoticeMin     int
	DefaultMaxBookingAdvanceDays   int
	DefaultCancellationDeadlineMin int
	DefaultReminderOffsetsHours    []int
	DefaultRequiresConfirmation    bool
	DefaultAllowClientCancellation bool

	Log    *logger.Logger
	Client *client.Client
}

func Load(serviceName string) *Config {
	cfg := &Config{
		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		Port: getEnvStr(EnvPort, DefaultPort),

		TokenSealKey: getEnvStr(EnvTokenSealKey, ""),

		RateLimitRequests: getEnvNum(EnvRateLimitRequests, DefaultRateLimitRequests),
		RateLimitWindow:   getEnvDuration(EnvRateLimitWindow, DefaultRateLimitWindow),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		IdempotencyTTL: getEnvDuration(EnvIdempotencyTTL, DefaultIdempotencyTTL),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		SlotClaimTTL:       getEnvDuration(EnvSlotClaimTTL, DefaultSlotClaimTTL),
		ReviewRequestDelay: getEnvDuration(EnvReviewRequestDelay, DefaultReviewRequestDelay),

		DefaultBufferMin:               getEnvNum(EnvDefaultBufferMin, DefaultDefaultBufferMin),
		DefaultMinBookingNoticeMin:     getEnvNum(EnvDefaultMinBookingNoticeMin, DefaultDefaultMinBookingNoticeMin),
		DefaultMaxBookingAdvanceDays:   getEnvNum(EnvDefaultMaxBookingAdvanceDays, DefaultDefaultMaxBookingAdvanceDays),
		DefaultCancellationDeadlineMin: getEnvNum(EnvDefaultCancellationDeadlineMin, DefaultDefaultCancellationDeadlineMin),
		DefaultReminderOffsetsHours:    getEnvNumList(EnvDefaultReminderOffsetsHours, DefaultReminderOffsetsHours),
		DefaultRequiresConfirmation:    getEnvBool(EnvDefaultRequiresConfirmation, DefaultDefaultRequiresConfirmation),
		DefaultAllowClientCancellation: getEnvBool(EnvDefaultAllowClientCancellation, DefaultDefaultAllowClientCancellation),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
			Format:    logger.JSON,
			AddSource: true,
			Service:   serviceName,
		}),
		Client: client.NewClient(),
	}

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

func (cfg *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.MongoURI == "" {
		errs = append(errs, "MongoURI cannot be empty")
	} else if !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
		errs = append(errs, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", cfg.MongoURI))
	}
	if cfg.MongoDatabaseName == "" {
		errs = append(errs, "MongoDatabaseName cannot be empty")
	}
	if cfg.MongoConnTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("MongoConnTimeout must be positive, got: %s", cfg.MongoConnTimeout))
	}

	for name, d := range map[string]time.Duration{
		"RateLimitWindow":    cfg.RateLimitWindow,
		"RequestTimeout":     cfg.RequestTimeout,
		"IdempotencyTTL":     cfg.IdempotencyTTL,
		"ReadTimeout":        cfg.ReadTimeout,
		"WriteTimeout":       cfg.WriteTimeout,
		"IdleTimeout":        cfg.IdleTimeout,
		"ShutdownTimeout":    cfg.ShutdownTimeout,
		"SlotClaimTTL":       cfg.SlotClaimTTL,
		"ReviewRequestDelay": cfg.ReviewRequestDelay,
	} {
		if d <= 0 {
			errs = append(errs, fmt.Sprintf("%s must be positive, got: %s", name, d))
		}
	}

	if cfg.RateLimitRequests <= 0 {
		errs = append(errs, fmt.Sprintf("RateLimitRequests must be positive, got: %d", cfg.RateLimitRequests))
	}
	if cfg.MaxRequestSize <= 0 {
		errs = append(errs, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}

	if cfg.DefaultBufferMin < 0 {
		errs = append(errs, fmt.Sprintf("DefaultBufferMin cannot be negative, got: %d", cfg.DefaultBufferMin))
	}
	if cfg.DefaultMinBookingNoticeMin < 0 {
		errs = append(errs, fmt.Sprintf("DefaultMinBookingNoticeMin cannot be negative, got: %d", cfg.DefaultMinBookingNoticeMin))
	}
	if cfg.DefaultMaxBookingAdvanceDays <= 0 {
		errs = append(errs, fmt.Sprintf("DefaultMaxBookingAdvanceDays must be positive, got: %d", cfg.DefaultMaxBookingAdvanceDays))
	}
	if cfg.DefaultCancellationDeadlineMin < 0 {
		errs = append(errs, fmt.Sprintf("DefaultCancellationDeadlineMin cannot be negative, got: %d", cfg.DefaultCancellationDeadlineMin))
	}
	for _, offset := range cfg.DefaultReminderOffsetsHours {
		if offset <= 0 {
			errs = append(errs, fmt.Sprintf("reminder offsets must be positive hours, got: %d", offset))
		}
	}

	if len(errs) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errs {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"port", cfg.Port,
		"token_seal_key_set", cfg.TokenSealKey != "",
		"rate_limit_requests", cfg.RateLimitRequests,
		"rate_limit_window", cfg.RateLimitWindow,
		"request_timeout", cfg.RequestTimeout,
		"idempotency_ttl", cfg.IdempotencyTTL,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
		"slot_claim_ttl", cfg.SlotClaimTTL,
		"review_request_delay", cfg.ReviewRequestDelay,
		"default_buffer_min", cfg.DefaultBufferMin,
		"default_min_booking_notice_min", cfg.DefaultMinBookingNoticeMin,
		"default_max_booking_advance_days", cfg.DefaultMaxBookingAdvanceDays,
		"default_cancellation_deadline_min", cfg.DefaultCancellationDeadlineMin,
		"default_reminder_offsets_hours", cfg.DefaultReminderOffsetsHours,
		"default_requires_confirmation", cfg.DefaultRequiresConfirmation,
		"default_allow_client_cancellation", cfg.DefaultAllowClientCancellation,
	)
}

func redactMongoURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvNumList(key string, fallback []int) []int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	var nums []int
	for _, part := range strings.Split(value, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return fallback
		}
		nums = append(nums, n)
	}
	return nums
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown()
}

func NormalizePaginationLimit(limit int) int {
	if limit <= 0 {
		limit = 10
	} else if limit > DefaultPaginationLimit {
		limit = DefaultPaginationLimit
	}
	return limit
}

func NormalizeOffset(offset int64) int64 {
	return max(0, offset)
}
