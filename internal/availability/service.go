package availability

import (
	"context"
	"errors"
	"sort"
	propertieserrors "staybook/internal/properties/errors"
	"staybook/pkg/config"
	apperrors "staybook/pkg/errors"
	"staybook/pkg/model"
	"sync"
)

type PropertyFinder interface {
	FindByID(ctx context.Context, id string) (*model.Property, error)
}

type BookingLister interface {
	FindByProperty(ctx context.Context, propertyID string, statuses []string) ([]*model.Booking, error)
}

type BlockLister interface {
	FindByProperty(ctx context.Context, propertyID string) ([]*model.BlockedDate, error)
}

type Service interface {
	Check(ctx context.Context, propertyID string, rng model.DateRange) (*model.AvailabilityResult, error)
	BookedDates(ctx context.Context, propertyID string) ([]model.BookedRange, error)
}

type availabilityService struct {
	checker    *Checker
	properties PropertyFinder
	bookings   BookingLister
	blocks     BlockLister
	cfg        *config.Config
}

func NewService(checker *Checker, properties PropertyFinder, bookings BookingLister, blocks BlockLister, cfg *config.Config) Service {
	return &availabilityService{
		checker:    checker,
		properties: properties,
		bookings:   bookings,
		blocks:     blocks,
		cfg:        cfg,
	}
}

// Check answers the public availability query. Beyond overlapping stays the
// property must be active and open from the requested check-in.
func (s *availabilityService) Check(ctx context.Context, propertyID string, rng model.DateRange) (*model.AvailabilityResult, error) {
	if !rng.Valid() {
		return nil, apperrors.InvalidInput(ErrInvalidRange.Error())
	}

	property, err := s.getProperty(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	available, err := s.checker.IsAvailable(ctx, propertyID, rng, "")
	if err != nil {
		s.cfg.Log.Error("Failed to check availability", "property_id", propertyID, "range", rng.String(), "error", err)
		return nil, apperrors.Internal("Failed to check availability", err)
	}

	result := &model.AvailabilityResult{
		Available:  available && property.IsActive && property.AcceptsFrom(rng.Start),
		PropertyID: propertyID,
		CheckIn:    rng.Start,
		CheckOut:   rng.End,
	}

	s.cfg.Log.Debug("Availability checked",
		"property_id", propertyID,
		"range", rng.String(),
		"available", result.Available,
	)
	return result, nil
}

func (s *availabilityService) BookedDates(ctx context.Context, propertyID string) ([]model.BookedRange, error) {
	if _, err := s.getProperty(ctx, propertyID); err != nil {
		return nil, err
	}

	var bookings []*model.Booking
	var blocks []*model.BlockedDate
	var errBookings, errBlocks error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		bookings, errBookings = s.bookings.FindByProperty(ctx, propertyID, config.ExportedStatuses)
	}()

	go func() {
		defer wg.Done()
		blocks, errBlocks = s.blocks.FindByProperty(ctx, propertyID)
	}()

	wg.Wait()
	if err := errors.Join(errBookings, errBlocks); err != nil {
		s.cfg.Log.Error("Failed to load booked dates", "property_id", propertyID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve booked dates", err)
	}

	ranges := make([]model.BookedRange, 0, len(bookings)+len(blocks))
	for _, b := range bookings {
		ranges = append(ranges, model.BookedRange{
			ID:     b.ID,
			Kind:   model.RangeKindBooking,
			Start:  b.CheckIn,
			End:    b.CheckOut,
			Status: b.Status,
		})
	}
	for _, b := range blocks {
		ranges = append(ranges, model.BookedRange{
			ID:    b.ID,
			Kind:  model.RangeKindBlocked,
			Start: b.StartDate,
			End:   b.EndDate,
		})
	}

	sort.SliceStable(ranges, func(i, j int) bool {
		return ranges[i].Start.Before(ranges[j].Start)
	})
	return ranges, nil
}

func (s *availabilityService) getProperty(ctx context.Context, id string) (*model.Property, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Property ID cannot be empty")
	}

	property, err := s.properties.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, propertieserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Property", id)
		}
		if errors.Is(err, propertieserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid property ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve property", err)
	}
	return property, nil
}
