package events

import (
	"context"
	"time"

	"staybook/pkg/model"
)

const (
	BookingCreated = "booking.created"
	BookingUpdated = "booking.updated"
	BookingDeleted = "booking.deleted"

	CalendarSynced = "calendar.synced"
	SyncRequested  = "calendar.sync.requested"

	SchemaVersion = "1"
)

// Publisher announces domain changes. Failures are reported to the caller
// but never undo the change that triggered them.
type Publisher interface {
	BookingChanged(ctx context.Context, eventType string, booking *model.Booking) error
	CalendarSynced(ctx context.Context, calendar *model.ExternalCalendar, result model.SyncResult) error
	SyncRequested(ctx context.Context, calendar *model.ExternalCalendar) error
	Close() error
}

type BookingEvent struct {
	Type       string     `json:"type"`
	ID         string     `json:"id"`
	BookingID  string     `json:"booking_id"`
	PropertyID string     `json:"property_id"`
	CheckIn    model.Date `json:"check_in"`
	CheckOut   model.Date `json:"check_out"`
	Status     string     `json:"status"`
	OccurredAt time.Time  `json:"occurred_at"`
}

type CalendarSyncedEvent struct {
	CalendarID string           `json:"calendar_id"`
	PropertyID string           `json:"property_id"`
	Source     string           `json:"source"`
	Result     model.SyncResult `json:"result"`
	OccurredAt time.Time        `json:"occurred_at"`
}

type SyncRequestedEvent struct {
	CalendarID  string    `json:"calendar_id"`
	PropertyID  string    `json:"property_id"`
	RequestedAt time.Time `json:"requested_at"`
}

func NewBookingEvent(eventType string, b *model.Booking) BookingEvent {
	return BookingEvent{
		Type:       eventType,
		ID:         b.ID,
		BookingID:  b.BookingID,
		PropertyID: b.PropertyID,
		CheckIn:    b.CheckIn,
		CheckOut:   b.CheckOut,
		Status:     b.Status,
		OccurredAt: time.Now().UTC(),
	}
}

// Noop drops every event. Used when no Kafka brokers are configured.
type Noop struct{}

func (Noop) BookingChanged(context.Context, string, *model.Booking) error { return nil }

func (Noop) CalendarSynced(context.Context, *model.ExternalCalendar, model.SyncResult) error {
	return nil
}

func (Noop) SyncRequested(context.Context, *model.ExternalCalendar) error { return nil }

func (Noop) Close() error { return nil }
