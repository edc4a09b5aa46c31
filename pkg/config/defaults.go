package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "dialoom"
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

	DefaultRedisDB = 0

	DefaultJWTAudience = "authenticated"

	DefaultPriceTolerance  = "0.00"
	DefaultDefaultTimeZone = "UTC"
	DefaultBookingLockTTL  = 45 * time.Second
	DefaultRejectPastSlots = false

	DefaultKafkaEnabled          = false
	DefaultKafkaBookingsTopic    = "dialoom.bookings"
	DefaultKafkaBookingsDLQTopic = "dlq-bookings"
	DefaultKafkaPaymentsTopic    = "dialoom.payments"
	DefaultKafkaPaymentsGroupID  = "bookings-payment-events"
	DefaultKafkaPaymentsDLQTopic = "dlq-payment-events"

	DefaultPaginationLimit = 100
)
