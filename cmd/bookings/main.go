package main

import (
	"staybook/internal/availability"
	"staybook/internal/bookings/handler"
	"staybook/internal/bookings/repository"
	"staybook/internal/bookings/service"
	"staybook/internal/bookings/validator"
	calendarsrepository "staybook/internal/calendars/repository"
	"staybook/internal/events"
	propertiesrepository "staybook/internal/properties/repository"
	"staybook/pkg/app"
	"staybook/pkg/config"
	kafka_config "staybook/pkg/kafka/config"
)

const ServiceName = "bookings"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	publisher := initPublisher(cfg)

	cfg.Log.Info("Starting Bookings service")
	bookingService := initServices(cfg, publisher)
	serverApp := app.NewApplication(cfg, app.WithShutdownHook(func() {
		if err := publisher.Close(); err != nil {
			cfg.Log.Error("Failed to close event publisher", "error", err)
		}
	}))
	serverApp.SetApp(handler.NewBookingHandler(bookingService, cfg.Log))
	serverApp.Run()
}

func initPublisher(cfg *config.Config) events.Publisher {
	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kafkaCfg.LogConfiguration(cfg.Log)

	publisher, err := events.New(kafkaCfg, ServiceName, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create event publisher", "error", err)
	}
	return publisher
}

func initServices(cfg *config.Config, publisher events.Publisher) service.BookingService {
	bookingRepo := repository.NewMongoBookingRepository(cfg)
	lockRepo := repository.NewBookingLockRepository(cfg)
	propertyRepo := propertiesrepository.NewMongoPropertyRepository(cfg)
	blockRepo := calendarsrepository.NewMongoBlockedDateRepository(cfg)

	bookingService := service.NewBookingService(
		bookingRepo,
		lockRepo,
		propertyRepo,
		availability.NewChecker(bookingRepo, blockRepo),
		publisher,
		validator.NewBookingValidator(cfg.Log),
		cfg,
	)

	cfg.Log.Info("Booking service initialized", "database", cfg.MongoDatabaseName)
	return bookingService
}
