package config

const (
	EnvStoreDriver       = "STORE_DRIVER"
	EnvRedisURL          = "REDIS_URL"
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvStoreConnTimeout  = "STORE_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvBusinessTimezone     = "BUSINESS_TIMEZONE"
	EnvBookingBufferMinutes = "BOOKING_BUFFER_MINUTES"
	EnvMaxBookingDaysAhead  = "MAX_BOOKING_DAYS_AHEAD"
	EnvMinBookingDaysAhead  = "MIN_BOOKING_DAYS_AHEAD"

	EnvLockTTL         = "LOCK_TTL"
	EnvLockAttempts    = "LOCK_ATTEMPTS"
	EnvLockBackoffStep = "LOCK_BACKOFF_STEP"

	EnvKafkaBrokers = "KAFKA_BROKERS"
	EnvKafkaTopic   = "KAFKA_BOOKING_EVENTS_TOPIC"

	EnvRequestTimeout  = "REQUEST_TIMEOUT"
	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvSlotsCacheSeconds = "SLOTS_CACHE_SECONDS"
)
