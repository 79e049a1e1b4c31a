// Package sync imports external iCalendar feeds into blocked dates.
package sync

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	calendarserrors "staybook/internal/calendars/errors"
	"staybook/internal/calendars/repository"
	"staybook/internal/events"
	"staybook/pkg/config"
	apperrors "staybook/pkg/errors"
	"staybook/pkg/ical"
	"staybook/pkg/metrics"
	"staybook/pkg/model"
	"time"
)

const (
	fetchErrorPrefix = "Failed to fetch calendar: "
	parseErrorPrefix = "Failed to parse calendar: "
	eventErrorPrefix = "Error processing event: "
)

// PropertyReader resolves property titles for batch summaries.
type PropertyReader interface {
	FindByID(ctx context.Context, id string) (*model.Property, error)
}

type outcome int

const (
	unchanged outcome = iota
	created
	updated
)

type Importer struct {
	calendars  repository.ExternalCalendarRepository
	blocks     repository.BlockedDateRepository
	properties PropertyReader
	fetcher    ical.Fetcher
	parser     *ical.Parser
	publisher  events.Publisher
	cfg        *config.Config
	today      func() model.Date
	now        func() time.Time
}

func NewImporter(
	calendars repository.ExternalCalendarRepository,
	blocks repository.BlockedDateRepository,
	properties PropertyReader,
	fetcher ical.Fetcher,
	publisher events.Publisher,
	cfg *config.Config,
) *Importer {
	im := &Importer{
		calendars:  calendars,
		blocks:     blocks,
		properties: properties,
		fetcher:    fetcher,
		publisher:  publisher,
		cfg:        cfg,
		today:      model.Today,
		now:        time.Now,
	}
	im.parser = ical.NewParser(cfg.SyncRecurrenceHorizon).WithClock(func() time.Time { return im.now() })
	return im
}

// SyncCalendar imports one feed. Fetch and parse failures are recorded on
// the calendar and leave its blocked dates untouched. Problems with single
// events are collected in the result without stopping the import.
func (im *Importer) SyncCalendar(ctx context.Context, calendar *model.ExternalCalendar) model.SyncResult {
	started := time.Now()
	log := im.cfg.Log.With("calendar_id", calendar.ID, "property_id", calendar.PropertyID, "source", calendar.Source)

	data, err := im.fetcher.Fetch(ctx, calendar.ICalURL)
	if err != nil {
		return im.fail(ctx, calendar, fetchErrorPrefix+err.Error(), started)
	}

	feed, err := im.parser.Parse(bytes.NewReader(data))
	if err != nil {
		return im.fail(ctx, calendar, parseErrorPrefix+err.Error(), started)
	}

	result := model.SyncResult{
		Success:     true,
		TotalEvents: feed.TotalEvents,
		Errors:      []string{},
	}
	for _, problem := range feed.Problems {
		result.Errors = append(result.Errors, eventErrorPrefix+problem.Error())
	}

	today := im.today()
	for _, occ := range feed.Occurrences {
		if occ.End.Before(today) {
			continue
		}

		out, err := im.upsert(ctx, calendar, occ)
		if err != nil {
			log.Warn("Failed to import feed event", "uid", occ.UID, "error", err)
			result.Errors = append(result.Errors, eventErrorPrefix+err.Error())
			continue
		}
		switch out {
		case created:
			result.Created++
		case updated:
			result.Updated++
		}
	}

	syncedAt := im.now().UTC()
	if err := im.calendars.UpdateSyncStatus(ctx, calendar.ID, &syncedAt, nil); err != nil {
		log.Error("Failed to record sync status", "error", err)
	}
	calendar.LastSynced = &syncedAt
	calendar.SyncErrors = nil

	log.Info("Calendar synced",
		"created", result.Created,
		"updated", result.Updated,
		"total_events", result.TotalEvents,
		"errors", len(result.Errors),
	)
	im.finish(ctx, calendar, result, started)
	return result
}

// SyncByID loads a calendar and imports it.
func (im *Importer) SyncByID(ctx context.Context, id string) (model.SyncResult, error) {
	if id == "" {
		return model.SyncResult{}, apperrors.InvalidInput("External calendar ID cannot be empty")
	}

	calendar, err := im.calendars.FindByID(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, calendarserrors.ErrCalendarNotFound):
			return model.SyncResult{}, apperrors.NotFoundWithID("External calendar", id)
		case errors.Is(err, calendarserrors.ErrInvalidID):
			return model.SyncResult{}, apperrors.InvalidInput("Invalid external calendar ID format")
		default:
			return model.SyncResult{}, apperrors.Internal("Failed to load external calendar", err)
		}
	}

	return im.SyncCalendar(ctx, calendar), nil
}

// SyncAll imports every active calendar in turn. A failing calendar is
// reported in its summary and does not stop the batch.
func (im *Importer) SyncAll(ctx context.Context) ([]model.CalendarSyncSummary, error) {
	calendars, err := im.calendars.ListActive(ctx)
	if err != nil {
		im.cfg.Log.Error("Failed to list active calendars", "error", err)
		return nil, apperrors.Internal("Failed to list active calendars", err)
	}

	titles := make(map[string]string)
	summaries := make([]model.CalendarSyncSummary, 0, len(calendars))
	for _, calendar := range calendars {
		if err := ctx.Err(); err != nil {
			return summaries, err
		}

		result := im.SyncCalendar(ctx, calendar)
		summaries = append(summaries, model.CalendarSyncSummary{
			CalendarID: calendar.ID,
			Property:   im.propertyTitle(ctx, titles, calendar.PropertyID),
			Source:     calendar.SourceDisplay(),
			Result:     result,
		})
	}

	im.cfg.Log.Info("Calendar batch sync finished", "calendars", len(summaries))
	return summaries, nil
}

// Cleanup removes blocked dates that ended more than days days ago.
func (im *Importer) Cleanup(ctx context.Context, days int) (int64, error) {
	if days < 0 {
		return 0, apperrors.InvalidInput("days cannot be negative")
	}

	cutoff := im.today().AddDays(-days)
	deleted, err := im.blocks.DeleteEndedBefore(ctx, cutoff)
	if err != nil {
		im.cfg.Log.Error("Failed to clean up blocked dates", "cutoff", cutoff, "error", err)
		return 0, apperrors.Internal("Failed to clean up blocked dates", err)
	}

	im.cfg.Log.Info("Old blocked dates removed", "cutoff", cutoff, "deleted", deleted)
	return deleted, nil
}

// upsert creates or moves the block for occ. Notes follow range changes only;
// a renamed event with the same dates is left unchanged.
func (im *Importer) upsert(ctx context.Context, calendar *model.ExternalCalendar, occ ical.Occurrence) (outcome, error) {
	existing, err := im.blocks.FindByExternalID(ctx, calendar.PropertyID, calendar.ID, occ.UID)
	switch {
	case err == nil:
		if existing.StartDate.Equal(occ.Start) && existing.EndDate.Equal(occ.End) {
			return unchanged, nil
		}
		existing.StartDate = occ.Start
		existing.EndDate = occ.End
		existing.Notes = occ.Summary
		if err := im.blocks.Update(ctx, existing.ID, existing); err != nil {
			return unchanged, fmt.Errorf("event %s: %w", occ.UID, err)
		}
		return updated, nil

	case errors.Is(err, calendarserrors.ErrBlockedDateNotFound):
		block := &model.BlockedDate{
			PropertyID:         calendar.PropertyID,
			ExternalCalendarID: calendar.ID,
			StartDate:          occ.Start,
			EndDate:            occ.End,
			ExternalID:         occ.UID,
			Notes:              occ.Summary,
		}
		if err := im.blocks.Create(ctx, block); err != nil {
			return unchanged, fmt.Errorf("event %s: %w", occ.UID, err)
		}
		return created, nil

	default:
		return unchanged, fmt.Errorf("event %s: %w", occ.UID, err)
	}
}

func (im *Importer) fail(ctx context.Context, calendar *model.ExternalCalendar, msg string, started time.Time) model.SyncResult {
	im.cfg.Log.Warn("Calendar sync failed",
		"calendar_id", calendar.ID,
		"property_id", calendar.PropertyID,
		"source", calendar.Source,
		"error", msg,
	)

	if err := im.calendars.UpdateSyncStatus(ctx, calendar.ID, nil, &msg); err != nil {
		im.cfg.Log.Error("Failed to record sync error", "calendar_id", calendar.ID, "error", err)
	}
	calendar.SyncErrors = &msg

	result := model.FailedSync(msg)
	im.finish(ctx, calendar, result, started)
	return result
}

func (im *Importer) finish(ctx context.Context, calendar *model.ExternalCalendar, result model.SyncResult, started time.Time) {
	metrics.ObserveCalendarSync(calendar.SourceDisplay(), result.Success, result.Created, result.Updated, len(result.Errors), time.Since(started))
	if err := im.publisher.CalendarSynced(ctx, calendar, result); err != nil {
		im.cfg.Log.Warn("Failed to publish calendar sync event", "calendar_id", calendar.ID, "error", err)
	}
}

func (im *Importer) propertyTitle(ctx context.Context, cache map[string]string, propertyID string) string {
	if title, ok := cache[propertyID]; ok {
		return title
	}
	title := propertyID
	if property, err := im.properties.FindByID(ctx, propertyID); err == nil {
		title = property.Title
	} else {
		im.cfg.Log.Warn("Failed to load property for sync summary", "property_id", propertyID, "error", err)
	}
	cache[propertyID] = title
	return title
}
