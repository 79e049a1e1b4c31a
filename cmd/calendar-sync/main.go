package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"staybook/internal/calendars/repository"
	"staybook/internal/calendars/scheduler"
	calsync "staybook/internal/calendars/sync"
	"staybook/internal/events"
	propertiesrepository "staybook/internal/properties/repository"
	"staybook/pkg/config"
	"staybook/pkg/ical"
	"staybook/pkg/kafka"
	kafka_config "staybook/pkg/kafka/config"
	kafka_middleware "staybook/pkg/kafka/middleware"
	"staybook/pkg/model"

	"github.com/urfave/cli/v2"
)

const ServiceName = "calendar-sync"

// maxPrintedErrors bounds the per-calendar event errors shown by sync --verbose.
const maxPrintedErrors = 3

type worker struct {
	cfg       *config.Config
	kafkaCfg  *kafka_config.Config
	publisher events.Publisher
	importer  *calsync.Importer
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &cli.App{
		Name:  ServiceName,
		Usage: "import external iCal feeds into blocked dates",
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "sync on the configured schedule and serve sync requests from Kafka",
				Action: runWorker,
			},
			{
				Name:  "sync",
				Usage: "sync every active external calendar once",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "print per-calendar counts and errors"},
				},
				Action: syncOnce,
			},
			{
				Name:  "cleanup",
				Usage: "delete blocked dates that ended more than --days days ago",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "days", Usage: "retention in days (default CLEANUP_DAYS)"},
				},
				Action: cleanup,
			},
		},
	}

	if err := app.RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newWorker() *worker {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}

	publisher, err := events.New(kafkaCfg, ServiceName, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create event publisher", "error", err)
	}

	importer := calsync.NewImporter(
		repository.NewMongoExternalCalendarRepository(cfg),
		repository.NewMongoBlockedDateRepository(cfg),
		propertiesrepository.NewMongoPropertyRepository(cfg),
		ical.NewHTTPFetcher(cfg.SyncFetchTimeout, cfg.SyncUserAgent),
		publisher,
		cfg,
	)

	return &worker{cfg: cfg, kafkaCfg: kafkaCfg, publisher: publisher, importer: importer}
}

func (w *worker) close() {
	if err := w.publisher.Close(); err != nil {
		w.cfg.Log.Error("Failed to close event publisher", "error", err)
	}
	w.cfg.GracefulShutdown()
}

func runWorker(c *cli.Context) error {
	w := newWorker()
	defer w.close()
	w.kafkaCfg.LogConfiguration(w.cfg.Log)

	sched, err := scheduler.New(w.cfg.SyncSchedule, w.importer, w.cfg.Log)
	if err != nil {
		return err
	}

	ctx := c.Context
	if w.kafkaCfg.Enabled() {
		consumer, err := kafka.NewConsumer(
			w.kafkaCfg,
			w.kafkaCfg.SyncRequestedTopic,
			w.kafkaCfg.SyncConsumerGroup,
			w.kafkaCfg.SyncRequestedDLQ,
			events.NewSyncRequestHandler(w.importer, w.cfg.Log),
			w.cfg.Log,
		)
		if err != nil {
			return err
		}
		if w.kafkaCfg.EnableMiddleware {
			consumer.Use(kafka_middleware.LoggingConsumerMiddleware(w.cfg.Log))
			consumer.Use(kafka_middleware.MetricsConsumerMiddleware())
		}

		go func() {
			if err := consumer.Start(ctx); err != nil && ctx.Err() == nil {
				w.cfg.Log.Error("Sync request consumer stopped", "error", err)
			}
		}()
		defer func() {
			if err := consumer.Close(); err != nil {
				w.cfg.Log.Error("Failed to close sync request consumer", "error", err)
			}
		}()
	}

	w.cfg.Log.Info("Calendar sync worker started", "schedule", w.cfg.SyncSchedule, "kafka", w.kafkaCfg.Enabled())
	sched.Start(ctx)
	w.cfg.Log.Info("Calendar sync worker stopped")
	return nil
}

func syncOnce(c *cli.Context) error {
	w := newWorker()
	defer w.close()

	summaries, err := w.importer.SyncAll(c.Context)
	if err != nil {
		return err
	}

	printSummaries(os.Stdout, summaries, c.Bool("verbose"))
	return nil
}

func printSummaries(out io.Writer, summaries []model.CalendarSyncSummary, verbose bool) {
	result := model.NewSyncAllResult(summaries)
	for _, s := range result.Results {
		if s.Result.Success {
			fmt.Fprintf(out, "✓ %s (%s)\n", s.Property, s.Source)
		} else {
			fmt.Fprintf(out, "✗ %s (%s): %s\n", s.Property, s.Source, s.Result.Error)
		}

		if !verbose {
			continue
		}
		fmt.Fprintf(out, "  events: %d, created: %d, updated: %d\n", s.Result.TotalEvents, s.Result.Created, s.Result.Updated)
		for i, msg := range s.Result.Errors {
			if i == maxPrintedErrors {
				fmt.Fprintf(out, "  ... and %d more\n", len(s.Result.Errors)-maxPrintedErrors)
				break
			}
			fmt.Fprintf(out, "  - %s\n", msg)
		}
	}
	fmt.Fprintf(out, "Sync completed: %d succeeded, %d failed\n", result.Succeeded, result.Failed)
}

func cleanup(c *cli.Context) error {
	w := newWorker()
	defer w.close()

	days := w.cfg.CleanupDays
	if c.IsSet("days") {
		days = c.Int("days")
	}

	deleted, err := w.importer.Cleanup(c.Context, days)
	if err != nil {
		return err
	}

	fmt.Printf("Deleted %d blocked dates that ended more than %d days ago\n", deleted, days)
	return nil
}
