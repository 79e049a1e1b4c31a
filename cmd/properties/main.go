package main

import (
	"staybook/internal/availability"
	bookingsrepository "staybook/internal/bookings/repository"
	calendarsrepository "staybook/internal/calendars/repository"
	"staybook/internal/properties/handler"
	"staybook/internal/properties/repository"
	"staybook/internal/properties/service"
	"staybook/internal/properties/validator"
	"staybook/pkg/app"
	"staybook/pkg/config"
)

const ServiceName = "properties"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Properties service")
	propertyService, availabilityService := initServices(cfg)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(
		handler.NewPropertyHandler(propertyService, cfg.Log),
		availability.NewHandler(availabilityService, cfg.Log),
	)
	serverApp.Run()
}

func initServices(cfg *config.Config) (service.PropertyService, availability.Service) {
	propertyRepo := repository.NewMongoPropertyRepository(cfg)
	bookingRepo := bookingsrepository.NewMongoBookingRepository(cfg)
	blockRepo := calendarsrepository.NewMongoBlockedDateRepository(cfg)
	calendarRepo := calendarsrepository.NewMongoExternalCalendarRepository(cfg)

	propertyService := service.NewPropertyService(
		propertyRepo,
		validator.NewPropertyValidator(cfg.Log),
		cfg,
		bookingRepo,
		blockRepo,
		calendarRepo,
	)

	checker := availability.NewChecker(bookingRepo, blockRepo)
	availabilityService := availability.NewService(checker, propertyRepo, bookingRepo, blockRepo, cfg)

	cfg.Log.Info("Property services initialized", "database", cfg.MongoDatabaseName)
	return propertyService, availabilityService
}
