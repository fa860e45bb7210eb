package config

import "time"

const (
	DriverRedis = "redis"
	DriverMongo = "mongo"

	DefaultStoreDriver       = DriverRedis
	DefaultRedisURL          = "redis://localhost:6379"
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "slotbook"
	DefaultStoreConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultBusinessTimezone     = "Europe/Warsaw"
	DefaultBookingBufferMinutes = 60
	DefaultMaxBookingDaysAhead  = 60
	DefaultMinBookingDaysAhead  = 0

	DefaultLockTTL         = 10 * time.Second
	DefaultLockAttempts    = 3
	DefaultLockBackoffStep = 100 * time.Millisecond

	DefaultKafkaTopic = "booking.events"

	DefaultRequestTimeout  = 30 * time.Second
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultSlotsCacheSeconds = 5
)
