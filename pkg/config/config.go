package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"slotbook/pkg/client"
	"slotbook/pkg/logger"
)

type Config struct {
	StoreDriver       string
	RedisURL          string
	MongoURI          string
	MongoDatabaseName string
	StoreConnTimeout  time.Duration

	Port string

	BusinessTimezone     string
	BookingBufferMinutes int
	MaxBookingDaysAhead  int
	MinBookingDaysAhead  int

	LockTTL         time.Duration
	LockAttempts    int
	LockBackoffStep time.Duration

	KafkaBrokers []string
	KafkaTopic   string

	RequestTimeout  time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	SlotsCacheSeconds int

	// Location is resolved from BusinessTimezone during Validate.
	Location *time.Location

	Log    *logger.Logger
	Client *client.Client
}

func Load(serviceName string) *Config {
	cfg := &Config{
		StoreDriver:       getEnvStr(EnvStoreDriver, DefaultStoreDriver),
		RedisURL:          getEnvStr(EnvRedisURL, DefaultRedisURL),
		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		StoreConnTimeout:  getEnvDuration(EnvStoreConnTimeout, DefaultStoreConnTimeout),

		Port: getEnvStr(EnvPort, DefaultPort),

		BusinessTimezone:     getEnvStr(EnvBusinessTimezone, DefaultBusinessTimezone),
		BookingBufferMinutes: getEnvNum(EnvBookingBufferMinutes, DefaultBookingBufferMinutes),
		MaxBookingDaysAhead:  getEnvNum(EnvMaxBookingDaysAhead, DefaultMaxBookingDaysAhead),
		MinBookingDaysAhead:  getEnvNum(EnvMinBookingDaysAhead, DefaultMinBookingDaysAhead),

		LockTTL:         getEnvDuration(EnvLockTTL, DefaultLockTTL),
		LockAttempts:    getEnvNum(EnvLockAttempts, DefaultLockAttempts),
		LockBackoffStep: getEnvDuration(EnvLockBackoffStep, DefaultLockBackoffStep),

		KafkaBrokers: getEnvList(EnvKafkaBrokers),
		KafkaTopic:   getEnvStr(EnvKafkaTopic, DefaultKafkaTopic),

		RequestTimeout:  getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		SlotsCacheSeconds: getEnvNum(EnvSlotsCacheSeconds, DefaultSlotsCacheSeconds),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
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

func (cfg *Config) SetRedis() {
	cfg.Client.SetRedis(cfg.Log, cfg.RedisURL, cfg.StoreConnTimeout)
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.StoreConnTimeout)
}

func (cfg *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	switch cfg.StoreDriver {
	case DriverRedis:
		if !regexp.MustCompile(`^rediss?://`).MatchString(cfg.RedisURL) {
			errs = append(errs, fmt.Sprintf("RedisURL must start with 'redis://' or 'rediss://', got: %s", cfg.RedisURL))
		}
	case DriverMongo:
		if !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
			errs = append(errs, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", cfg.MongoURI))
		}
		if cfg.MongoDatabaseName == "" {
			errs = append(errs, "MongoDatabaseName cannot be empty")
		}
	default:
		errs = append(errs, fmt.Sprintf("StoreDriver must be %q or %q, got: %s", DriverRedis, DriverMongo, cfg.StoreDriver))
	}

	loc, err := time.LoadLocation(cfg.BusinessTimezone)
	if err != nil {
		errs = append(errs, fmt.Sprintf("BusinessTimezone must be a valid IANA zone, got: %s", cfg.BusinessTimezone))
	} else {
		cfg.Location = loc
	}

	if cfg.BookingBufferMinutes < 0 {
		errs = append(errs, fmt.Sprintf("BookingBufferMinutes cannot be negative, got: %d", cfg.BookingBufferMinutes))
	}
	if cfg.MinBookingDaysAhead < 0 {
		errs = append(errs, fmt.Sprintf("MinBookingDaysAhead cannot be negative, got: %d", cfg.MinBookingDaysAhead))
	}
	if cfg.MaxBookingDaysAhead < cfg.MinBookingDaysAhead {
		errs = append(errs, fmt.Sprintf("MaxBookingDaysAhead (%d) must be >= MinBookingDaysAhead (%d)", cfg.MaxBookingDaysAhead, cfg.MinBookingDaysAhead))
	}

	if cfg.LockTTL <= 0 {
		errs = append(errs, fmt.Sprintf("LockTTL must be positive, got: %s", cfg.LockTTL))
	}
	if cfg.LockAttempts <= 0 {
		errs = append(errs, fmt.Sprintf("LockAttempts must be positive, got: %d", cfg.LockAttempts))
	}
	if cfg.LockBackoffStep <= 0 {
		errs = append(errs, fmt.Sprintf("LockBackoffStep must be positive, got: %s", cfg.LockBackoffStep))
	}

	for name, d := range map[string]time.Duration{
		"StoreConnTimeout": cfg.StoreConnTimeout,
		"RequestTimeout":   cfg.RequestTimeout,
		"ReadTimeout":      cfg.ReadTimeout,
		"WriteTimeout":     cfg.WriteTimeout,
		"IdleTimeout":      cfg.IdleTimeout,
		"ShutdownTimeout":  cfg.ShutdownTimeout,
	} {
		if d <= 0 {
			errs = append(errs, fmt.Sprintf("%s must be positive, got: %s", name, d))
		}
	}

	if cfg.SlotsCacheSeconds < 0 {
		errs = append(errs, fmt.Sprintf("SlotsCacheSeconds cannot be negative, got: %d", cfg.SlotsCacheSeconds))
	}

	if len(errs) > 0 {
		msg := "Configuration validation failed:\n"
		for i, e := range errs {
			msg += fmt.Sprintf("  %d. %s\n", i+1, e)
		}
		return fmt.Errorf("%s", msg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"store_driver", cfg.StoreDriver,
		"redis_url", redactURL(cfg.RedisURL),
		"mongo_uri", redactURL(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"port", cfg.Port,
		"business_timezone", cfg.BusinessTimezone,
		"booking_buffer_minutes", cfg.BookingBufferMinutes,
		"max_booking_days_ahead", cfg.MaxBookingDaysAhead,
		"min_booking_days_ahead", cfg.MinBookingDaysAhead,
		"lock_ttl", cfg.LockTTL,
		"lock_attempts", cfg.LockAttempts,
		"lock_backoff_step", cfg.LockBackoffStep,
		"kafka_brokers", strings.Join(cfg.KafkaBrokers, ","),
		"kafka_topic", cfg.KafkaTopic,
		"request_timeout", cfg.RequestTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
		"slots_cache_seconds", cfg.SlotsCacheSeconds,
	)
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown(cfg.Log)
}

func redactURL(url string) string {
	credentialRegex := regexp.MustCompile(`^(\w+(\+srv)?://)[^:/@]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(url, "${1}***:***@")
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

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
