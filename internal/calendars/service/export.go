package service

import (
	"context"
	"errors"
	"staybook/internal/calendars/repository"
	"staybook/pkg/config"
	apperrors "staybook/pkg/errors"
	"staybook/pkg/ical"
	"staybook/pkg/model"
	"staybook/pkg/sealer"
	"sync"
)

// BookingLister loads a property's bookings in the given statuses.
type BookingLister interface {
	FindByProperty(ctx context.Context, propertyID string, statuses []string) ([]*model.Booking, error)
}

// CalendarDocument is a rendered iCalendar export.
type CalendarDocument struct {
	Filename string
	Body     []byte
}

type ExportService interface {
	Export(ctx context.Context, propertyID string) (*CalendarDocument, error)
	FeedToken(ctx context.Context, propertyID string) (string, error)
	ExportByToken(ctx context.Context, token string) (*CalendarDocument, error)
}

type exportService struct {
	properties PropertyReader
	bookings   BookingLister
	blocks     repository.BlockedDateRepository
	calendars  repository.ExternalCalendarRepository
	exporter   *ical.Exporter
	sealer     *sealer.Sealer
	cfg        *config.Config
}

// NewExportService builds the exporter. Feed tokens are disabled when
// FeedTokenKey is empty.
func NewExportService(
	properties PropertyReader,
	bookings BookingLister,
	blocks repository.BlockedDateRepository,
	calendars repository.ExternalCalendarRepository,
	cfg *config.Config,
) (ExportService, error) {
	s := &exportService{
		properties: properties,
		bookings:   bookings,
		blocks:     blocks,
		calendars:  calendars,
		exporter:   ical.NewExporter(cfg.CalendarDomain, cfg.CalendarOrganizerEmail),
		cfg:        cfg,
	}

	if cfg.FeedTokenKey != "" {
		sl, err := sealer.New(cfg.FeedTokenKey)
		if err != nil {
			return nil, err
		}
		s.sealer = sl
	}
	return s, nil
}

// Export renders the property's non-cancelled bookings and all of its
// blocks as one calendar.
func (s *exportService) Export(ctx context.Context, propertyID string) (*CalendarDocument, error) {
	if propertyID == "" {
		return nil, apperrors.InvalidInput("Property ID cannot be empty")
	}

	property, err := loadProperty(ctx, s.properties, propertyID)
	if err != nil {
		return nil, err
	}

	var bookings []*model.Booking
	var blocks []*model.BlockedDate
	var calendars []*model.ExternalCalendar
	var errBookings, errBlocks, errCalendars error
	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		bookings, errBookings = s.bookings.FindByProperty(ctx, propertyID, config.ExportedStatuses)
	}()

	go func() {
		defer wg.Done()
		blocks, errBlocks = s.blocks.FindByProperty(ctx, propertyID)
	}()

	go func() {
		defer wg.Done()
		calendars, errCalendars = s.calendars.FindAll(ctx, propertyID, 0, 0)
	}()

	wg.Wait()
	if err := errors.Join(errBookings, errBlocks, errCalendars); err != nil {
		s.cfg.Log.Error("Failed to load calendar export data", "property_id", propertyID, "error", err)
		return nil, apperrors.Internal("Failed to export calendar", err)
	}

	sources := make(ical.CalendarSources, len(calendars))
	for _, c := range calendars {
		sources[c.ID] = c.SourceDisplay()
	}

	body := s.exporter.Export(property, bookings, blocks, sources)
	s.cfg.Log.Debug("Calendar exported",
		"property_id", propertyID,
		"bookings", len(bookings),
		"blocked_dates", len(blocks),
	)

	return &CalendarDocument{
		Filename: ical.Filename(property.Title),
		Body:     []byte(body),
	}, nil
}

func (s *exportService) FeedToken(ctx context.Context, propertyID string) (string, error) {
	if s.sealer == nil {
		return "", apperrors.NotFound("Calendar feed")
	}
	if _, err := loadProperty(ctx, s.properties, propertyID); err != nil {
		return "", err
	}

	token, err := s.sealer.CreateFeedToken(propertyID)
	if err != nil {
		return "", apperrors.Internal("Failed to create feed token", err)
	}
	return token, nil
}

func (s *exportService) ExportByToken(ctx context.Context, token string) (*CalendarDocument, error) {
	if s.sealer == nil {
		return nil, apperrors.NotFound("Calendar feed")
	}

	propertyID, err := s.sealer.ParseFeedToken(token)
	if err != nil {
		if errors.Is(err, sealer.ErrInvalidToken) {
			return nil, apperrors.NotFound("Calendar feed")
		}
		return nil, apperrors.Internal("Failed to read feed token", err)
	}
	return s.Export(ctx, propertyID)
}
