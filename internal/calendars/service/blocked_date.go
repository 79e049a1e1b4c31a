package service

import (
	"context"
	"staybook/internal/calendars/repository"
	"staybook/internal/calendars/validator"
	"staybook/pkg/config"
	apperrors "staybook/pkg/errors"
	"staybook/pkg/model"
	"staybook/pkg/sanitizer"
	"staybook/pkg/validation"
	"sync"
)

const blockedDateResource = "Blocked date"

type BlockedDateService interface {
	Create(ctx context.Context, block *model.BlockedDate) error
	GetByID(ctx context.Context, id string) (*model.BlockedDate, error)
	GetAll(ctx context.Context, propertyID string, limit int, offset int64) ([]*model.BlockedDate, int64, error)
	Update(ctx context.Context, id string, updates *model.BlockedDateUpdate) (*model.BlockedDate, error)
	Delete(ctx context.Context, id string) error
}

type blockedDateService struct {
	repo       repository.BlockedDateRepository
	properties PropertyReader
	validator  *validator.CalendarValidator
	cfg        *config.Config
}

func NewBlockedDateService(
	repo repository.BlockedDateRepository,
	properties PropertyReader,
	validator *validator.CalendarValidator,
	cfg *config.Config,
) BlockedDateService {
	return &blockedDateService{
		repo:       repo,
		properties: properties,
		validator:  validator,
		cfg:        cfg,
	}
}

// Create adds a manual block. Feed ownership fields are managed by the
// importer and cleared here.
func (s *blockedDateService) Create(ctx context.Context, block *model.BlockedDate) error {
	block.ExternalCalendarID = ""
	block.ExternalID = ""
	block.Notes = sanitizer.TrimAndNormalize(block.Notes)

	if err := s.validator.ValidateBlockedDate(block); err != nil {
		s.cfg.Log.Warn("Blocked date validation failed", "error", err)
		return validation.ToAppError("Blocked date validation failed", err)
	}

	if _, err := loadProperty(ctx, s.properties, block.PropertyID); err != nil {
		return err
	}

	if err := s.repo.Create(ctx, block); err != nil {
		s.cfg.Log.Error("Failed to create blocked date", "property_id", block.PropertyID, "error", err)
		return apperrors.Internal("Failed to create blocked date", err)
	}

	s.cfg.Log.Info("Blocked date created successfully",
		"id", block.ID,
		"property_id", block.PropertyID,
		"start_date", block.StartDate,
		"end_date", block.EndDate,
	)
	return nil
}

func (s *blockedDateService) GetByID(ctx context.Context, id string) (*model.BlockedDate, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Blocked date ID cannot be empty")
	}

	block, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, blockedDateResource, id, "Failed to retrieve blocked date")
	}
	return block, nil
}

func (s *blockedDateService) GetAll(ctx context.Context, propertyID string, limit int, offset int64) ([]*model.BlockedDate, int64, error) {
	var count int64
	var blocks []*model.BlockedDate
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx, propertyID)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count blocked dates", "property_id", propertyID, "error", errCount)
			errCount = apperrors.Internal("Failed to count blocked dates", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		blocks, errFind = s.repo.FindAll(ctx, propertyID, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list blocked dates", "property_id", propertyID, "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve blocked dates", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return blocks, count, nil
}

func (s *blockedDateService) Update(ctx context.Context, id string, updates *model.BlockedDateUpdate) (*model.BlockedDate, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Blocked date ID cannot be empty")
	}

	if err := s.validator.ValidateBlockedDateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Blocked date update validation failed", "id", id, "error", err)
		return nil, validation.ToAppError("Invalid update input", err)
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, blockedDateResource, id, "Failed to check blocked date existence")
	}

	merged := *existing
	if updates.StartDate != nil {
		merged.StartDate = *updates.StartDate
	}
	if updates.EndDate != nil {
		merged.EndDate = *updates.EndDate
	}
	if updates.Notes != nil {
		merged.Notes = sanitizer.TrimAndNormalize(*updates.Notes)
	}

	if err := s.validator.ValidateBlockedDate(&merged); err != nil {
		s.cfg.Log.Warn("Blocked date update rejected", "id", id, "error", err)
		return nil, validation.ToAppError("Blocked date validation failed", err)
	}

	if err := s.repo.Update(ctx, id, &merged); err != nil {
		s.cfg.Log.Error("Failed to update blocked date", "id", id, "error", err)
		return nil, mapRepoError(err, blockedDateResource, id, "Failed to update blocked date")
	}

	s.cfg.Log.Info("Blocked date updated successfully", "id", id)
	return &merged, nil
}

func (s *blockedDateService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Blocked date ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.cfg.Log.Error("Failed to delete blocked date", "id", id, "error", err)
		return mapRepoError(err, blockedDateResource, id, "Failed to delete blocked date")
	}

	s.cfg.Log.Info("Blocked date deleted successfully", "id", id)
	return nil
}
