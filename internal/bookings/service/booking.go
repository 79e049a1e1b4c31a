package service

import (
	"context"
	"errors"
	"math"
	"staybook/internal/availability"
	bookingserrors "staybook/internal/bookings/errors"
	"staybook/internal/bookings/repository"
	"staybook/internal/bookings/validator"
	"staybook/internal/events"
	propertieserrors "staybook/internal/properties/errors"
	"staybook/pkg/config"
	apperrors "staybook/pkg/errors"
	"staybook/pkg/metrics"
	"staybook/pkg/model"
	"staybook/pkg/sanitizer"
	"staybook/pkg/validation"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	opCreate = "create"
	opUpdate = "update"
	opDelete = "delete"
)

// PropertyReader loads the property a booking targets.
type PropertyReader interface {
	FindByID(ctx context.Context, id string) (*model.Property, error)
}

// ConflictChecker finds the bookings and blocks that overlap a stay.
type ConflictChecker interface {
	Conflicts(ctx context.Context, propertyID string, rng model.DateRange, excludeBookingID string) (*availability.Conflicts, error)
}

type BookingService interface {
	Create(ctx context.Context, booking *model.Booking) error
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error)
	Update(ctx context.Context, id string, updates *model.BookingUpdate) (*model.Booking, error)
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, filter model.BookingFilter, limit int, offset int64) ([]*model.Booking, int64, error)
}

type bookingService struct {
	repo       repository.BookingRepository
	lockRepo   repository.BookingLockRepository
	properties PropertyReader
	checker    ConflictChecker
	publisher  events.Publisher
	validator  *validator.BookingValidator
	cfg        *config.Config
	today      func() model.Date
}

func NewBookingService(
	repo repository.BookingRepository,
	lockRepo repository.BookingLockRepository,
	properties PropertyReader,
	checker ConflictChecker,
	publisher events.Publisher,
	validator *validator.BookingValidator,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:       repo,
		lockRepo:   lockRepo,
		properties: properties,
		checker:    checker,
		publisher:  publisher,
		validator:  validator,
		cfg:        cfg,
		today:      model.Today,
	}
}

func (s *bookingService) Create(ctx context.Context, booking *model.Booking) (err error) {
	defer func() { metrics.ObserveBooking(opCreate, err) }()

	s.applyDefaults(booking)
	s.sanitize(booking)
	if err := s.validate(booking); err != nil {
		return err
	}

	property, err := s.loadProperty(ctx, booking.PropertyID)
	if err != nil {
		return err
	}
	if err := s.validateStay(booking, property, true); err != nil {
		return err
	}
	price(booking, property)

	release, err := s.acquireLock(ctx, booking.PropertyID)
	if err != nil {
		return err
	}
	defer release()

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.ensureAvailable(sessCtx, booking, ""); err != nil {
			return err
		}
		if err := s.repo.Create(sessCtx, booking); err != nil {
			return apperrors.Internal("Failed to create booking", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create booking", "property_id", booking.PropertyID, "error", err)
		return err
	}

	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"booking_id", booking.BookingID,
		"property_id", booking.PropertyID,
		"check_in", booking.CheckIn,
		"check_out", booking.CheckOut,
	)
	s.publish(ctx, events.BookingCreated, booking)
	return nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, id, "Failed to retrieve booking")
	}

	return booking, nil
}

func (s *bookingService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error) {
	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count bookings", "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list bookings", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, count, nil
}

// Update applies a partial change. Moving the dates or reactivating a
// cancelled booking re-checks availability, ignoring the booking itself.
// Cancelling never conflicts.
func (s *bookingService) Update(ctx context.Context, id string, updates *model.BookingUpdate) (_ *model.Booking, err error) {
	defer func() { metrics.ObserveBooking(opUpdate, err) }()

	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Booking update validation failed", "id", id, "error", err)
		return nil, validation.ToAppError("Invalid update input", err)
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, id, "Failed to check booking existence")
	}

	merged := mergeBookingUpdates(existing, updates)
	s.sanitize(merged)
	if err := s.validate(merged); err != nil {
		return nil, err
	}

	reactivated := existing.Status == config.Cancelled && merged.Status != config.Cancelled
	needsCheck := merged.Status != config.Cancelled && (updates.ChangesDates() || reactivated)
	revalidate := updates.ChangesDates() || updates.Guests != nil

	if needsCheck || revalidate {
		property, err := s.loadProperty(ctx, merged.PropertyID)
		if err != nil {
			return nil, err
		}
		if err := s.validateStay(merged, property, updates.ChangesDates()); err != nil {
			return nil, err
		}
		if updates.ChangesDates() {
			price(merged, property)
		}
	}

	write := func(sessCtx mongo.SessionContext) error {
		if needsCheck {
			if err := s.ensureAvailable(sessCtx, merged, id); err != nil {
				return err
			}
		}
		if err := s.repo.Update(sessCtx, id, merged); err != nil {
			return mapRepoError(err, id, "Failed to update booking")
		}
		return nil
	}

	if needsCheck {
		release, err := s.acquireLock(ctx, merged.PropertyID)
		if err != nil {
			return nil, err
		}
		defer release()
	}

	if err := s.repo.ExecuteTransaction(ctx, write); err != nil {
		s.cfg.Log.Error("Failed to update booking", "id", id, "error", err)
		return nil, err
	}

	s.cfg.Log.Info("Booking updated successfully", "id", id, "status", merged.Status)
	s.publish(ctx, events.BookingUpdated, merged)
	return merged, nil
}

func (s *bookingService) Delete(ctx context.Context, id string) (err error) {
	defer func() { metrics.ObserveBooking(opDelete, err) }()

	if id == "" {
		return apperrors.InvalidInput("Booking ID cannot be empty")
	}

	var deleted *model.Booking
	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		booking, err := s.repo.FindByID(sessCtx, id)
		if err != nil {
			return mapRepoError(err, id, "Failed to delete booking")
		}
		if err := s.repo.Delete(sessCtx, id); err != nil {
			return mapRepoError(err, id, "Failed to delete booking")
		}
		deleted = booking
		return nil
	})
	if err != nil {
		return err
	}

	s.cfg.Log.Info("Booking deleted successfully", "id", id, "property_id", deleted.PropertyID)
	s.publish(ctx, events.BookingDeleted, deleted)
	return nil
}

func (s *bookingService) Search(ctx context.Context, filter model.BookingFilter, limit int, offset int64) ([]*model.Booking, int64, error) {
	if filter.PropertyID == "" {
		return nil, 0, apperrors.InvalidInput("property_id is required")
	}
	if filter.CheckIn != nil && filter.CheckOut != nil && !filter.CheckOut.After(*filter.CheckIn) {
		return nil, 0, apperrors.InvalidInput("check_out must be after check_in")
	}

	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		var err error
		count, err = s.repo.CountSearch(ctx, filter)
		if err != nil {
			s.cfg.Log.Error("Failed to count bookings by search", "property_id", filter.PropertyID, "error", err)
			errCount = apperrors.Internal("Failed to count bookings", err)
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		bookings, err = s.repo.Search(ctx, filter, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to search bookings",
				"property_id", filter.PropertyID,
				"limit", limit,
				"offset", offset,
				"error", err,
			)
			errFind = apperrors.Internal("Failed to search bookings", err)
		}
	}()

	wg.Wait()

	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	s.cfg.Log.Debug("Booking search completed",
		"property_id", filter.PropertyID,
		"count", len(bookings),
		"total_count", count,
	)
	return bookings, count, nil
}

func (s *bookingService) applyDefaults(b *model.Booking) {
	if b.Status == "" {
		b.Status = config.Pending
	}
	b.BookingID = uuid.NewString()
}

func (s *bookingService) sanitize(b *model.Booking) {
	b.GuestName = sanitizer.TrimAndNormalize(b.GuestName)
	b.GuestEmail = sanitizer.NormalizeEmail(b.GuestEmail)
	b.GuestPhone = sanitizer.NormalizePhone(b.GuestPhone)
	b.Notes = sanitizer.TrimAndNormalize(b.Notes)
}

func (s *bookingService) validate(b *model.Booking) error {
	if err := s.validator.Validate(b); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return validation.ToAppError("Booking validation failed", err)
	}
	return nil
}

func (s *bookingService) validateStay(b *model.Booking, p *model.Property, newStay bool) error {
	if err := s.validator.ValidateStay(b, p, s.today(), newStay); err != nil {
		s.cfg.Log.Warn("Booking rejected by property rules", "property_id", p.ID, "error", err)
		return validation.ToAppError("Booking validation failed", err)
	}
	return nil
}

func (s *bookingService) loadProperty(ctx context.Context, id string) (*model.Property, error) {
	property, err := s.properties.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, propertieserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Property", id)
		}
		if errors.Is(err, propertieserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid property ID format")
		}
		return nil, apperrors.Internal("Failed to load property", err)
	}
	return property, nil
}

func (s *bookingService) ensureAvailable(ctx context.Context, b *model.Booking, excludeID string) error {
	conflicts, err := s.checker.Conflicts(ctx, b.PropertyID, b.Range(), excludeID)
	if err != nil {
		if errors.Is(err, availability.ErrInvalidRange) {
			return apperrors.InvalidInput(err.Error())
		}
		return apperrors.Internal("Failed to check availability", err)
	}
	if !conflicts.Empty() {
		return apperrors.Conflict(conflicts.Describe())
	}
	return nil
}

// acquireLock takes the property's advisory lock and returns its release func.
func (s *bookingService) acquireLock(ctx context.Context, propertyID string) (func(), error) {
	lock := &model.BookingLock{
		ID:         model.BookingLockID(propertyID),
		PropertyID: propertyID,
		ExpiresAt:  time.Now().UTC().Add(s.cfg.BookingLockTTL),
	}

	if err := s.lockRepo.Acquire(ctx, lock); err != nil {
		if errors.Is(err, bookingserrors.ErrLocked) {
			return nil, apperrors.Conflict("Another booking for this property is being processed. Please try again.")
		}
		return nil, apperrors.Internal("Failed to acquire booking lock", err)
	}

	return func() {
		if err := s.lockRepo.Release(context.WithoutCancel(ctx), lock.ID); err != nil {
			s.cfg.Log.Warn("Failed to release booking lock", "lock_id", lock.ID, "error", err)
		}
	}, nil
}

func (s *bookingService) publish(ctx context.Context, eventType string, b *model.Booking) {
	if err := s.publisher.BookingChanged(ctx, eventType, b); err != nil {
		s.cfg.Log.Warn("Failed to publish booking event", "event", eventType, "id", b.ID, "error", err)
	}
}

// price derives nights and total from the stay and the nightly rate.
func price(b *model.Booking, p *model.Property) {
	b.Nights = b.Range().Nights()
	b.TotalPrice = math.Round(p.PricePerNight*float64(b.Nights)*100) / 100
}

func mergeBookingUpdates(existing *model.Booking, updates *model.BookingUpdate) *model.Booking {
	merged := *existing

	if updates.GuestName != nil {
		merged.GuestName = *updates.GuestName
	}
	if updates.GuestEmail != nil {
		merged.GuestEmail = *updates.GuestEmail
	}
	if updates.GuestPhone != nil {
		merged.GuestPhone = *updates.GuestPhone
	}
	if updates.CheckIn != nil {
		merged.CheckIn = *updates.CheckIn
	}
	if updates.CheckOut != nil {
		merged.CheckOut = *updates.CheckOut
	}
	if updates.Guests != nil {
		merged.Guests = *updates.Guests
	}
	if updates.Status != nil {
		merged.Status = *updates.Status
	}
	if updates.Notes != nil {
		merged.Notes = *updates.Notes
	}

	return &merged
}

func mapRepoError(err error, id, msg string) error {
	if apperrors.IsAppError(err) {
		return err
	}
	if errors.Is(err, bookingserrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Booking", id)
	}
	if errors.Is(err, bookingserrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid booking ID format")
	}
	return apperrors.Internal(msg, err)
}
