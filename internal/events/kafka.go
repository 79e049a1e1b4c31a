package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"staybook/pkg/kafka"
	kafka_config "staybook/pkg/kafka/config"
	kafka_middleware "staybook/pkg/kafka/middleware"
	"staybook/pkg/logger"
	"staybook/pkg/model"
)

type producer interface {
	Publish(ctx context.Context, msg kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	bookings     producer
	calendars    producer
	syncRequests producer
	source       string
}

// New returns a Kafka backed publisher, or Noop when Kafka is disabled.
func New(cfg *kafka_config.Config, source string, log *logger.Logger) (Publisher, error) {
	if cfg == nil || !cfg.Enabled() {
		return Noop{}, nil
	}

	topics := []string{cfg.BookingEventsTopic, cfg.CalendarEventsTopic, cfg.SyncRequestedTopic}
	producers := make([]*kafka.Producer, 0, len(topics))
	for _, topic := range topics {
		p, err := kafka.NewProducer(cfg, topic, "", log)
		if err != nil {
			for _, created := range producers {
				_ = created.Close()
			}
			return nil, fmt.Errorf("failed to create producer for %s: %w", topic, err)
		}
		if cfg.EnableMiddleware {
			p.Use(kafka_middleware.LoggingProducerMiddleware(log))
			p.Use(kafka_middleware.MetricsProducerMiddleware())
		}
		producers = append(producers, p)
	}

	return &KafkaPublisher{
		bookings:     producers[0],
		calendars:    producers[1],
		syncRequests: producers[2],
		source:       source,
	}, nil
}

func (p *KafkaPublisher) BookingChanged(ctx context.Context, eventType string, booking *model.Booking) error {
	return p.publish(ctx, p.bookings, booking.PropertyID, eventType, NewBookingEvent(eventType, booking))
}

func (p *KafkaPublisher) CalendarSynced(ctx context.Context, calendar *model.ExternalCalendar, result model.SyncResult) error {
	event := CalendarSyncedEvent{
		CalendarID: calendar.ID,
		PropertyID: calendar.PropertyID,
		Source:     calendar.Source,
		Result:     result,
		OccurredAt: time.Now().UTC(),
	}
	return p.publish(ctx, p.calendars, calendar.PropertyID, CalendarSynced, event)
}

// SyncRequested is keyed by calendar so repeated requests land on one partition.
func (p *KafkaPublisher) SyncRequested(ctx context.Context, calendar *model.ExternalCalendar) error {
	event := SyncRequestedEvent{
		CalendarID:  calendar.ID,
		PropertyID:  calendar.PropertyID,
		RequestedAt: time.Now().UTC(),
	}
	return p.publish(ctx, p.syncRequests, calendar.ID, SyncRequested, event)
}

func (p *KafkaPublisher) publish(ctx context.Context, to producer, key, eventType string, payload any) error {
	msg, err := kafka.NewMessage().
		WithKey(key).
		WithValue(payload).
		WithEventID("").
		WithEventType(eventType).
		WithSchemaVersion(SchemaVersion).
		WithSource(p.source).
		Build()
	if err != nil {
		return err
	}
	return to.Publish(ctx, msg)
}

func (p *KafkaPublisher) Close() error {
	return errors.Join(p.bookings.Close(), p.calendars.Close(), p.syncRequests.Close())
}
