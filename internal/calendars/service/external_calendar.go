package service

import (
	"context"
	"staybook/internal/calendars/repository"
	"staybook/internal/calendars/validator"
	"staybook/internal/events"
	"staybook/pkg/config"
	apperrors "staybook/pkg/errors"
	"staybook/pkg/model"
	"staybook/pkg/sanitizer"
	"staybook/pkg/validation"
	"sync"

	"go.mongodb.org/mongo-driver/mongo"
)

const externalCalendarResource = "External calendar"

type ExternalCalendarService interface {
	Create(ctx context.Context, calendar *model.ExternalCalendar) error
	GetByID(ctx context.Context, id string) (*model.ExternalCalendar, error)
	GetAll(ctx context.Context, propertyID string, limit int, offset int64) ([]*model.ExternalCalendar, int64, error)
	Update(ctx context.Context, id string, updates *model.ExternalCalendarUpdate) (*model.ExternalCalendar, error)
	Delete(ctx context.Context, id string) error
}

type externalCalendarService struct {
	repo       repository.ExternalCalendarRepository
	blocks     repository.BlockedDateRepository
	properties PropertyReader
	publisher  events.Publisher
	validator  *validator.CalendarValidator
	cfg        *config.Config
}

func NewExternalCalendarService(
	repo repository.ExternalCalendarRepository,
	blocks repository.BlockedDateRepository,
	properties PropertyReader,
	publisher events.Publisher,
	validator *validator.CalendarValidator,
	cfg *config.Config,
) ExternalCalendarService {
	return &externalCalendarService{
		repo:       repo,
		blocks:     blocks,
		properties: properties,
		publisher:  publisher,
		validator:  validator,
		cfg:        cfg,
	}
}

// Create registers a feed for a property and requests a first sync when the
// calendar is active.
func (s *externalCalendarService) Create(ctx context.Context, calendar *model.ExternalCalendar) error {
	calendar.ICalURL = sanitizer.NormalizeFeedURL(calendar.ICalURL)
	calendar.LastSynced = nil
	calendar.SyncErrors = nil

	if err := s.validator.ValidateCalendar(calendar); err != nil {
		s.cfg.Log.Warn("External calendar validation failed", "error", err)
		return validation.ToAppError("External calendar validation failed", err)
	}

	if _, err := loadProperty(ctx, s.properties, calendar.PropertyID); err != nil {
		return err
	}

	if err := s.repo.Create(ctx, calendar); err != nil {
		s.cfg.Log.Error("Failed to create external calendar",
			"property_id", calendar.PropertyID,
			"source", calendar.Source,
			"error", err,
		)
		return mapRepoError(err, externalCalendarResource, "", "Failed to create external calendar")
	}

	s.cfg.Log.Info("External calendar created successfully",
		"id", calendar.ID,
		"property_id", calendar.PropertyID,
		"source", calendar.Source,
	)

	if calendar.IsActive {
		if err := s.publisher.SyncRequested(ctx, calendar); err != nil {
			s.cfg.Log.Warn("Failed to request initial sync", "id", calendar.ID, "error", err)
		}
	}
	return nil
}

func (s *externalCalendarService) GetByID(ctx context.Context, id string) (*model.ExternalCalendar, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("External calendar ID cannot be empty")
	}

	calendar, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, externalCalendarResource, id, "Failed to retrieve external calendar")
	}
	return calendar, nil
}

func (s *externalCalendarService) GetAll(ctx context.Context, propertyID string, limit int, offset int64) ([]*model.ExternalCalendar, int64, error) {
	var count int64
	var calendars []*model.ExternalCalendar
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx, propertyID)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count external calendars", "property_id", propertyID, "error", errCount)
			errCount = apperrors.Internal("Failed to count external calendars", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		calendars, errFind = s.repo.FindAll(ctx, propertyID, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list external calendars", "property_id", propertyID, "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve external calendars", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return calendars, count, nil
}

func (s *externalCalendarService) Update(ctx context.Context, id string, updates *model.ExternalCalendarUpdate) (*model.ExternalCalendar, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("External calendar ID cannot be empty")
	}

	if updates.ICalURL != nil {
		normalized := sanitizer.NormalizeFeedURL(*updates.ICalURL)
		updates.ICalURL = &normalized
	}
	if err := s.validator.ValidateCalendarUpdate(updates); err != nil {
		s.cfg.Log.Warn("External calendar update validation failed", "id", id, "error", err)
		return nil, validation.ToAppError("Invalid update input", err)
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, externalCalendarResource, id, "Failed to check external calendar existence")
	}

	merged := *existing
	if updates.ICalURL != nil {
		merged.ICalURL = *updates.ICalURL
	}
	if updates.IsActive != nil {
		merged.IsActive = *updates.IsActive
	}

	if err := s.repo.Update(ctx, id, &merged); err != nil {
		s.cfg.Log.Error("Failed to update external calendar", "id", id, "error", err)
		return nil, mapRepoError(err, externalCalendarResource, id, "Failed to update external calendar")
	}

	s.cfg.Log.Info("External calendar updated successfully", "id", id)
	return &merged, nil
}

// Delete removes the calendar together with every block it imported.
func (s *externalCalendarService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("External calendar ID cannot be empty")
	}

	var removed int64
	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if _, err := s.repo.FindByID(sessCtx, id); err != nil {
			return mapRepoError(err, externalCalendarResource, id, "Failed to check external calendar existence")
		}

		n, err := s.blocks.DeleteByCalendar(sessCtx, id)
		if err != nil {
			return apperrors.Internal("Failed to delete imported blocked dates", err)
		}
		removed = n

		if err := s.repo.Delete(sessCtx, id); err != nil {
			return mapRepoError(err, externalCalendarResource, id, "Failed to delete external calendar")
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to delete external calendar", "id", id, "error", err)
		return err
	}

	s.cfg.Log.Info("External calendar deleted successfully", "id", id, "blocked_dates_removed", removed)
	return nil
}
