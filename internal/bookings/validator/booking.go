package validator

import (
	"fmt"
	"staybook/pkg/logger"
	"staybook/pkg/model"
	"staybook/pkg/validation"
)

type BookingValidator struct {
	validate *validation.Validator
}

func NewBookingValidator(log *logger.Logger) *BookingValidator {
	v := validation.New(log)
	log.Info("Booking validator initialized successfully")
	return &BookingValidator{validate: v}
}

// Validate checks the struct rules and that the stay is at least one night.
func (v *BookingValidator) Validate(booking *model.Booking) error {
	if err := v.validate.Struct(booking); err != nil {
		return err
	}

	var errs validation.ValidationErrors
	if booking.CheckIn.IsZero() {
		errs = append(errs, validation.Field("check_in", "check_in is required")...)
	}
	if booking.CheckOut.IsZero() {
		errs = append(errs, validation.Field("check_out", "check_out is required")...)
	}
	if len(errs) == 0 && !booking.Range().Valid() {
		errs = append(errs, validation.Field("check_out", "Check-out date must be after check-in date")...)
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (v *BookingValidator) ValidateUpdate(update *model.BookingUpdate) error {
	return v.validate.Struct(update)
}

// ValidateStay checks the booking against the property it targets. The
// past-date rule applies only to new stays so existing bookings can still be
// edited after check-in.
func (v *BookingValidator) ValidateStay(booking *model.Booking, property *model.Property, today model.Date, newStay bool) error {
	var errs validation.ValidationErrors

	if !property.IsActive {
		errs = append(errs, validation.Field("property_id", "Property is not accepting bookings")...)
	}
	if newStay && booking.CheckIn.Before(today) {
		errs = append(errs, validation.Field("check_in", "Check-in date cannot be in the past")...)
	}
	if !property.AcceptsFrom(booking.CheckIn) {
		errs = append(errs, validation.Field("check_in", fmt.Sprintf("Property is available from %s", property.AvailableFrom))...)
	}
	if booking.Guests > property.MaxGuests {
		errs = append(errs, validation.Field("guests", fmt.Sprintf("Maximum %d guests allowed", property.MaxGuests))...)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
