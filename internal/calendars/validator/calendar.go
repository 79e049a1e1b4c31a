package validator

import (
	"staybook/pkg/logger"
	"staybook/pkg/model"
	"staybook/pkg/validation"
)

type CalendarValidator struct {
	validate *validation.Validator
}

func NewCalendarValidator(log *logger.Logger) *CalendarValidator {
	v := validation.New(log)
	log.Info("Calendar validator initialized successfully")
	return &CalendarValidator{validate: v}
}

func (v *CalendarValidator) ValidateCalendar(calendar *model.ExternalCalendar) error {
	return v.validate.Struct(calendar)
}

func (v *CalendarValidator) ValidateCalendarUpdate(update *model.ExternalCalendarUpdate) error {
	return v.validate.Struct(update)
}

// ValidateBlockedDate checks the struct rules and that the block covers at
// least one night.
func (v *CalendarValidator) ValidateBlockedDate(block *model.BlockedDate) error {
	if err := v.validate.Struct(block); err != nil {
		return err
	}

	var errs validation.ValidationErrors
	if block.StartDate.IsZero() {
		errs = append(errs, validation.Field("start_date", "start_date is required")...)
	}
	if block.EndDate.IsZero() {
		errs = append(errs, validation.Field("end_date", "end_date is required")...)
	}
	if len(errs) == 0 && !block.Range().Valid() {
		errs = append(errs, validation.Field("end_date", "End date must be after start date")...)
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (v *CalendarValidator) ValidateBlockedDateUpdate(update *model.BlockedDateUpdate) error {
	return v.validate.Struct(update)
}
