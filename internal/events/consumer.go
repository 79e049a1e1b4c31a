package events

import (
	"context"

	apperrors "staybook/pkg/errors"
	"staybook/pkg/kafka"
	"staybook/pkg/logger"
	"staybook/pkg/model"
)

// CalendarSyncer imports one external calendar by id.
type CalendarSyncer interface {
	SyncByID(ctx context.Context, calendarID string) (model.SyncResult, error)
}

// NewSyncRequestHandler runs an import for every calendar.sync.requested
// message. Unknown calendars are permanent failures; anything else is retried.
// A feed that fails to download is recorded on the calendar and is not an error here.
func NewSyncRequestHandler(syncer CalendarSyncer, log *logger.Logger) kafka.MessageHandler {
	return func(ctx context.Context, msg kafka.Message) error {
		var event SyncRequestedEvent
		if err := msg.DecodeValue(&event); err != nil {
			return err
		}
		if event.CalendarID == "" {
			return kafka.NewPermanentError("sync request without calendar_id", nil)
		}

		result, err := syncer.SyncByID(ctx, event.CalendarID)
		if err != nil {
			if apperrors.HasCode(err, apperrors.CodeNotFound) || apperrors.HasCode(err, apperrors.CodeInvalidInput) {
				return kafka.NewPermanentError("calendar cannot be synced", err)
			}
			return kafka.NewTransientError("calendar sync failed", err)
		}

		log.Info("Calendar sync request processed",
			"calendar_id", event.CalendarID,
			"success", result.Success,
			"created", result.Created,
			"updated", result.Updated,
			"event_id", msg.GetEventID(),
		)
		return nil
	}
}
