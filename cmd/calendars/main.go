package main

import (
	"net/http"
	"strings"

	bookingsrepository "staybook/internal/bookings/repository"
	"staybook/internal/calendars/handler"
	"staybook/internal/calendars/repository"
	"staybook/internal/calendars/service"
	calsync "staybook/internal/calendars/sync"
	"staybook/internal/calendars/validator"
	"staybook/internal/events"
	propertiesrepository "staybook/internal/properties/repository"
	"staybook/pkg/app"
	"staybook/pkg/config"
	"staybook/pkg/contracts"
	"staybook/pkg/ical"
	kafka_config "staybook/pkg/kafka/config"
)

const ServiceName = "calendars"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	publisher := initPublisher(cfg)

	cfg.Log.Info("Starting Calendars service")
	handlers := initHandlers(cfg, publisher)

	serverApp := app.NewApplication(cfg,
		app.WithLongRunning(isSyncRequest),
		app.WithShutdownHook(func() {
			if err := publisher.Close(); err != nil {
				cfg.Log.Error("Failed to close event publisher", "error", err)
			}
		}),
	)
	serverApp.SetApp(handlers...)
	serverApp.Run()
}

// isSyncRequest matches the endpoints that fetch remote feeds inline.
func isSyncRequest(r *http.Request) bool {
	return r.Method == http.MethodPost &&
		(strings.HasSuffix(r.URL.Path, "/sync") || strings.HasSuffix(r.URL.Path, "/sync-all"))
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

func initHandlers(cfg *config.Config, publisher events.Publisher) []contracts.Handler {
	calendarRepo := repository.NewMongoExternalCalendarRepository(cfg)
	blockRepo := repository.NewMongoBlockedDateRepository(cfg)
	propertyRepo := propertiesrepository.NewMongoPropertyRepository(cfg)
	bookingRepo := bookingsrepository.NewMongoBookingRepository(cfg)
	calendarValidator := validator.NewCalendarValidator(cfg.Log)

	importer := calsync.NewImporter(
		calendarRepo,
		blockRepo,
		propertyRepo,
		ical.NewHTTPFetcher(cfg.SyncFetchTimeout, cfg.SyncUserAgent),
		publisher,
		cfg,
	)

	calendarService := service.NewExternalCalendarService(calendarRepo, blockRepo, propertyRepo, publisher, calendarValidator, cfg)
	blockService := service.NewBlockedDateService(blockRepo, propertyRepo, calendarValidator, cfg)
	exportService, err := service.NewExportService(propertyRepo, bookingRepo, blockRepo, calendarRepo, cfg)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize calendar export", "error", err)
	}

	cfg.Log.Info("Calendar services initialized", "database", cfg.MongoDatabaseName)
	return []contracts.Handler{
		handler.NewExternalCalendarHandler(calendarService, importer, cfg.Log),
		handler.NewBlockedDateHandler(blockService, cfg.Log),
		handler.NewExportHandler(exportService, cfg.Log),
	}
}
