package events

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	apperrors "staybook/pkg/errors"
	"staybook/pkg/kafka"
	kafka_config "staybook/pkg/kafka/config"
	"staybook/pkg/logger"
	"staybook/pkg/model"
)

type fakeProducer struct {
	published []kafka.Message
	err       error
	closed    bool
}

func (p *fakeProducer) Publish(_ context.Context, msg kafka.Message) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, msg)
	return nil
}

func (p *fakeProducer) Close() error {
	p.closed = true
	return nil
}

type mockSyncer struct {
	syncFunc func(ctx context.Context, id string) (model.SyncResult, error)
}

func (m *mockSyncer) SyncByID(ctx context.Context, id string) (model.SyncResult, error) {
	return m.syncFunc(ctx, id)
}

func newTestPublisher() (*KafkaPublisher, *fakeProducer, *fakeProducer, *fakeProducer) {
	b, c, s := &fakeProducer{}, &fakeProducer{}, &fakeProducer{}
	return &KafkaPublisher{bookings: b, calendars: c, syncRequests: s, source: "test"}, b, c, s
}

func TestNewReturnsNoopWhenDisabled(t *testing.T) {
	log := logger.New(logger.Config{Output: io.Discard})
	pub, err := New(&kafka_config.Config{}, "bookings", log)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, ok := pub.(Noop); !ok {
		t.Errorf("New() = %T, want Noop", pub)
	}
}

func TestBookingChanged(t *testing.T) {
	pub, bookings, _, _ := newTestPublisher()
	booking := &model.Booking{
		ID:         "b1",
		BookingID:  "9f1c",
		PropertyID: "p1",
		CheckIn:    model.NewDate(2024, 6, 10),
		CheckOut:   model.NewDate(2024, 6, 15),
		Status:     "confirmed",
	}

	if err := pub.BookingChanged(context.Background(), BookingCreated, booking); err != nil {
		t.Fatalf("BookingChanged() error = %v", err)
	}
	if len(bookings.published) != 1 {
		t.Fatalf("published = %d, want 1", len(bookings.published))
	}

	msg := bookings.published[0]
	if msg.Key != "p1" {
		t.Errorf("key = %q, want property id", msg.Key)
	}
	if msg.GetEventType() != BookingCreated {
		t.Errorf("event type = %q", msg.GetEventType())
	}
	if msg.GetEventID() == "" {
		t.Error("expected event id")
	}

	var event BookingEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if event.BookingID != "9f1c" || !event.CheckOut.Equal(model.NewDate(2024, 6, 15)) {
		t.Errorf("event = %+v", event)
	}
}

func TestCalendarEvents(t *testing.T) {
	pub, _, calendars, syncRequests := newTestPublisher()
	cal := &model.ExternalCalendar{ID: "c1", PropertyID: "p1", Source: "airbnb"}

	if err := pub.CalendarSynced(context.Background(), cal, model.SyncResult{Success: true, Created: 2}); err != nil {
		t.Fatalf("CalendarSynced() error = %v", err)
	}
	if err := pub.SyncRequested(context.Background(), cal); err != nil {
		t.Fatalf("SyncRequested() error = %v", err)
	}

	if len(calendars.published) != 1 || calendars.published[0].Key != "p1" {
		t.Errorf("calendar events = %+v", calendars.published)
	}
	if len(syncRequests.published) != 1 || syncRequests.published[0].Key != "c1" {
		t.Errorf("sync requests = %+v", syncRequests.published)
	}
	if syncRequests.published[0].GetEventType() != SyncRequested {
		t.Errorf("event type = %q", syncRequests.published[0].GetEventType())
	}
}

func TestPublisherClose(t *testing.T) {
	pub, b, c, s := newTestPublisher()
	if err := pub.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !b.closed || !c.closed || !s.closed {
		t.Error("expected every producer to be closed")
	}
}

func syncRequestMessage(t *testing.T, calendarID string) kafka.Message {
	t.Helper()
	msg, err := kafka.NewMessage().
		WithKey(calendarID).
		WithValue(SyncRequestedEvent{CalendarID: calendarID}).
		Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return msg
}

func TestSyncRequestHandler(t *testing.T) {
	log := logger.New(logger.Config{Output: io.Discard})

	tests := []struct {
		name     string
		msg      func(t *testing.T) kafka.Message
		syncErr  error
		wantErr  bool
		wantType kafka.ErrorType
		wantCall string
	}{
		{
			name:     "runs import",
			msg:      func(t *testing.T) kafka.Message { return syncRequestMessage(t, "c1") },
			wantCall: "c1",
		},
		{
			name:     "unknown calendar is permanent",
			msg:      func(t *testing.T) kafka.Message { return syncRequestMessage(t, "c2") },
			syncErr:  apperrors.NotFoundWithID("External calendar", "c2"),
			wantErr:  true,
			wantType: kafka.ErrorTypePermanent,
			wantCall: "c2",
		},
		{
			name:     "store failure is transient",
			msg:      func(t *testing.T) kafka.Message { return syncRequestMessage(t, "c3") },
			syncErr:  apperrors.Internal("db down", errors.New("boom")),
			wantErr:  true,
			wantType: kafka.ErrorTypeTransient,
			wantCall: "c3",
		},
		{
			name:     "bad payload",
			msg:      func(t *testing.T) kafka.Message { return kafka.Message{Key: "x", Value: []byte("nope")} },
			wantErr:  true,
			wantType: kafka.ErrorTypePermanent,
		},
		{
			name:     "missing calendar id",
			msg:      func(t *testing.T) kafka.Message { return syncRequestMessage(t, "") },
			wantErr:  true,
			wantType: kafka.ErrorTypePermanent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var called string
			syncer := &mockSyncer{syncFunc: func(_ context.Context, id string) (model.SyncResult, error) {
				called = id
				return model.SyncResult{Success: tt.syncErr == nil}, tt.syncErr
			}}

			err := NewSyncRequestHandler(syncer, log)(context.Background(), tt.msg(t))
			if (err != nil) != tt.wantErr {
				t.Fatalf("handler error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && kafka.ClassifyError(err) != tt.wantType {
				t.Errorf("ClassifyError() = %v, want %v", kafka.ClassifyError(err), tt.wantType)
			}
			if called != tt.wantCall {
				t.Errorf("synced %q, want %q", called, tt.wantCall)
			}
		})
	}
}
