package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvRedisAddr     = "REDIS_ADDR"
	EnvRedisPassword = "REDIS_PASSWORD"
	EnvRedisDB       = "REDIS_DB"

	EnvJWTSecret   = "SUPABASE_JWT_SECRET"
	EnvJWTAudience = "SUPABASE_JWT_AUDIENCE"

	EnvPriceTolerance  = "PRICE_TOLERANCE"
	EnvDefaultTimeZone = "DEFAULT_TIME_ZONE"
	EnvBookingLockTTL  = "BOOKING_LOCK_TTL"
	EnvRejectPastSlots = "REJECT_PAST_SLOTS"

	EnvKafkaEnabled          = "KAFKA_ENABLED"
	EnvKafkaBookingsTopic    = "KAFKA_BOOKINGS_TOPIC"
	EnvKafkaBookingsDLQTopic = "KAFKA_BOOKINGS_DLQ_TOPIC"
	EnvKafkaPaymentsTopic    = "KAFKA_PAYMENTS_TOPIC"
	EnvKafkaPaymentsGroupID  = "KAFKA_PAYMENTS_GROUP_ID"
	EnvKafkaPaymentsDLQTopic = "KAFKA_PAYMENTS_DLQ_TOPIC"
)
