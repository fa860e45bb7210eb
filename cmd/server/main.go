package main

import (
	"context"

	"slotbook/internal/availability"
	"slotbook/internal/booking/handler"
	"slotbook/internal/booking/service"
	"slotbook/internal/booking/validator"
	"slotbook/internal/guestbook"
	"slotbook/internal/notify"
	"slotbook/internal/store"
	"slotbook/pkg/app"
	"slotbook/pkg/config"

	"github.com/joho/godotenv"
)

const ServiceName = "slotbook"

func main() {
	// Local development convenience; production relies on real env vars.
	_ = godotenv.Load()

	cfg := config.Load(ServiceName)
	cfg.Log.Info("Starting slot booking service")

	st := initStore(cfg)
	notifier := initNotifier(cfg)

	calc := availability.NewCalculator(availability.Config{
		Schedule:      availability.DefaultSchedule(),
		Location:      cfg.Location,
		BufferMinutes: cfg.BookingBufferMinutes,
		MinDaysAhead:  cfg.MinBookingDaysAhead,
		MaxDaysAhead:  cfg.MaxBookingDaysAhead,
	})

	bookingValidator := validator.NewBookingValidator(cfg.Log)
	bookingService := service.NewBookingService(st, calc, bookingValidator, notifier, cfg)
	guestbookService := guestbook.NewGuestbookService(st, cfg)

	serverApp := app.NewApplication()
	serverApp.SetApp(cfg, st,
		handler.NewBookingHandler(bookingService, cfg.Log, cfg.SlotsCacheSeconds),
		guestbook.NewGuestbookHandler(guestbookService, cfg.Log),
	)
	serverApp.OnShutdown(func() {
		if err := notifier.Close(); err != nil {
			cfg.Log.Error("Failed to close notifier", "error", err)
		}
		cfg.GracefulShutdown()
	})
	serverApp.Run()
}

func initStore(cfg *config.Config) store.Store {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		cfg.SetMongo()
		mongoStore := store.NewMongoStore(cfg.Client.Mongo.Database(cfg.MongoDatabaseName))

		ctx, cancel := context.WithTimeout(context.Background(), cfg.StoreConnTimeout)
		defer cancel()
		if err := mongoStore.EnsureIndexes(ctx); err != nil {
			cfg.Log.Fatal("Failed to ensure store indexes", "error", err)
		}

		cfg.Log.Info("Store initialized", "driver", config.DriverMongo, "database", cfg.MongoDatabaseName)
		return mongoStore

	default:
		cfg.SetRedis()
		cfg.Log.Info("Store initialized", "driver", config.DriverRedis)
		return store.NewRedisStore(cfg.Client.Redis)
	}
}

func initNotifier(cfg *config.Config) notify.Notifier {
	if len(cfg.KafkaBrokers) == 0 {
		cfg.Log.Info("No Kafka brokers configured, booking notifications disabled")
		return notify.NopNotifier{}
	}

	cfg.Log.Info("Kafka notifier initialized", "topic", cfg.KafkaTopic)
	return notify.NewKafkaNotifier(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.Log)
}
