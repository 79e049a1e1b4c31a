package service

import (
	"context"
	"errors"
	propertieserrors "staybook/internal/properties/errors"
	"staybook/internal/properties/repository"
	"staybook/internal/properties/validator"
	"staybook/pkg/config"
	apperrors "staybook/pkg/errors"
	"staybook/pkg/model"
	"staybook/pkg/sanitizer"
	"staybook/pkg/validation"
	"sync"

	"go.mongodb.org/mongo-driver/mongo"
)

// DependentStore removes the records a property owns when it is deleted.
type DependentStore interface {
	DeleteByProperty(ctx context.Context, propertyID string) (int64, error)
}

type PropertyService interface {
	Create(ctx context.Context, property *model.Property) error
	GetByID(ctx context.Context, id string) (*model.Property, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Property, int64, error)
	Update(ctx context.Context, id string, updates *model.PropertyUpdate) (*model.Property, error)
	Delete(ctx context.Context, id string) error
}

type propertyService struct {
	repo       repository.PropertyRepository
	dependents []DependentStore
	validator  *validator.PropertyValidator
	cfg        *config.Config
}

func NewPropertyService(
	repo repository.PropertyRepository,
	validator *validator.PropertyValidator,
	cfg *config.Config,
	dependents ...DependentStore,
) PropertyService {
	return &propertyService{
		repo:       repo,
		dependents: dependents,
		validator:  validator,
		cfg:        cfg,
	}
}

func (s *propertyService) Create(ctx context.Context, property *model.Property) error {
	s.sanitize(property)
	if err := s.validate(property); err != nil {
		return err
	}

	if err := s.repo.Create(ctx, property); err != nil {
		s.cfg.Log.Error("Failed to create property", "error", err)
		return apperrors.Internal("Failed to create property", err)
	}

	s.cfg.Log.Info("Property created successfully",
		"id", property.ID,
		"title", property.Title,
		"max_guests", property.MaxGuests,
	)
	return nil
}

func (s *propertyService) GetByID(ctx context.Context, id string) (*model.Property, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Property ID cannot be empty")
	}

	property, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, id, "Failed to retrieve property")
	}

	return property, nil
}

func (s *propertyService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Property, int64, error) {
	var count int64
	var properties []*model.Property
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count properties", "error", errCount)
			errCount = apperrors.Internal("Failed to count properties", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		properties, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list properties", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve properties", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return properties, count, nil
}

func (s *propertyService) Update(ctx context.Context, id string, updates *model.PropertyUpdate) (*model.Property, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Property ID cannot be empty")
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Property update validation failed", "id", id, "error", err)
		return nil, validation.ToAppError("Invalid update input", err)
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, id, "Failed to check property existence")
	}

	merged := mergePropertyUpdates(existing, updates)
	s.sanitize(merged)
	if err := s.validate(merged); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, id, merged); err != nil {
		s.cfg.Log.Error("Failed to update property", "id", id, "error", err)
		return nil, mapRepoError(err, id, "Failed to update property")
	}

	s.cfg.Log.Info("Property updated successfully", "id", id)
	return merged, nil
}

// Delete removes the property together with its bookings, blocked dates and
// external calendars.
func (s *propertyService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Property ID cannot be empty")
	}

	var removed int64
	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.repo.Delete(sessCtx, id); err != nil {
			return mapRepoError(err, id, "Failed to delete property")
		}
		for _, store := range s.dependents {
			n, err := store.DeleteByProperty(sessCtx, id)
			if err != nil {
				return apperrors.Internal("Failed to delete property records", err)
			}
			removed += n
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to delete property", "id", id, "error", err)
		return err
	}

	s.cfg.Log.Info("Property deleted successfully", "id", id, "dependent_records", removed)
	return nil
}

func (s *propertyService) sanitize(p *model.Property) {
	p.Title = sanitizer.TrimAndNormalize(p.Title)
	p.Address = sanitizer.TrimAndNormalize(p.Address)
	p.Description = sanitizer.TrimAndNormalize(p.Description)
}

func (s *propertyService) validate(p *model.Property) error {
	if err := s.validator.Validate(p); err != nil {
		s.cfg.Log.Warn("Property validation failed", "error", err)
		return validation.ToAppError("Property validation failed", err)
	}
	return nil
}

func mergePropertyUpdates(existing *model.Property, updates *model.PropertyUpdate) *model.Property {
	merged := *existing

	if updates.Title != nil {
		merged.Title = *updates.Title
	}
	if updates.Description != nil {
		merged.Description = *updates.Description
	}
	if updates.Address != nil {
		merged.Address = *updates.Address
	}
	if updates.MaxGuests != nil {
		merged.MaxGuests = *updates.MaxGuests
	}
	if updates.PricePerNight != nil {
		merged.PricePerNight = *updates.PricePerNight
	}
	if updates.IsActive != nil {
		merged.IsActive = *updates.IsActive
	}
	if updates.AvailableFrom != nil {
		merged.AvailableFrom = updates.AvailableFrom
	}

	return &merged
}

func mapRepoError(err error, id, msg string) error {
	if apperrors.IsAppError(err) {
		return err
	}
	if errors.Is(err, propertieserrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Property", id)
	}
	if errors.Is(err, propertieserrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid property ID format")
	}
	return apperrors.Internal(msg, err)
}
