package availability

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"staybook/pkg/config"
	"staybook/pkg/model"
)

var ErrInvalidRange = errors.New("check_out must be after check_in")

// BookingReader loads bookings of a property whose stay overlaps rng.
type BookingReader interface {
	FindOverlapping(ctx context.Context, propertyID string, rng model.DateRange, statuses []string, excludeID string) ([]*model.Booking, error)
}

// BlockReader loads blocked ranges of a property that overlap rng.
type BlockReader interface {
	FindOverlapping(ctx context.Context, propertyID string, rng model.DateRange) ([]*model.BlockedDate, error)
}

// Overlaps reports whether two half-open ranges share at least one night.
// Ranges that only touch at an endpoint do not overlap.
func Overlaps(a, b model.DateRange) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

type Conflicts struct {
	Bookings []*model.Booking
	Blocks   []*model.BlockedDate
}

func (c *Conflicts) Empty() bool {
	return len(c.Bookings) == 0 && len(c.Blocks) == 0
}

// Describe returns a user facing message for the first conflict found.
func (c *Conflicts) Describe() string {
	if len(c.Bookings) > 0 {
		b := c.Bookings[0]
		return fmt.Sprintf("Property is already booked from %s to %s", b.CheckIn, b.CheckOut)
	}
	if len(c.Blocks) > 0 {
		b := c.Blocks[0]
		return fmt.Sprintf("Property is blocked from %s to %s", b.StartDate, b.EndDate)
	}
	return ""
}

type Checker struct {
	bookings BookingReader
	blocks   BlockReader
}

func NewChecker(bookings BookingReader, blocks BlockReader) *Checker {
	return &Checker{
		bookings: bookings,
		blocks:   blocks,
	}
}

// IsAvailable reports whether the property is free for the whole of rng.
// excludeBookingID is ignored when empty.
func (c *Checker) IsAvailable(ctx context.Context, propertyID string, rng model.DateRange, excludeBookingID string) (bool, error) {
	conflicts, err := c.Conflicts(ctx, propertyID, rng, excludeBookingID)
	if err != nil {
		return false, err
	}
	return conflicts.Empty(), nil
}

// Conflicts returns the pending or confirmed bookings and the blocks that
// overlap rng.
func (c *Checker) Conflicts(ctx context.Context, propertyID string, rng model.DateRange, excludeBookingID string) (*Conflicts, error) {
	if !rng.Valid() {
		return nil, ErrInvalidRange
	}

	bookings, err := c.bookings.FindOverlapping(ctx, propertyID, rng, config.BlockingStatuses, excludeBookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to load overlapping bookings: %w", err)
	}
	blocks, err := c.blocks.FindOverlapping(ctx, propertyID, rng)
	if err != nil {
		return nil, fmt.Errorf("failed to load overlapping blocks: %w", err)
	}

	out := &Conflicts{}
	for _, b := range bookings {
		if excludeBookingID != "" && b.ID == excludeBookingID {
			continue
		}
		if !slices.Contains(config.BlockingStatuses, b.Status) {
			continue
		}
		if Overlaps(rng, b.Range()) {
			out.Bookings = append(out.Bookings, b)
		}
	}
	for _, b := range blocks {
		if Overlaps(rng, b.Range()) {
			out.Blocks = append(out.Blocks, b)
		}
	}

	return out, nil
}
