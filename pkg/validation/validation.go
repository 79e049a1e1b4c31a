package validation

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"staybook/pkg/config"
	apperrors "staybook/pkg/errors"
	"staybook/pkg/logger"
	"strings"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

// Details renders the errors as a field to message map for API responses.
func (v ValidationErrors) Details() map[string]any {
	details := make(map[string]any, len(v))
	for _, err := range v {
		details[err.Field] = err.Message
	}
	return details
}

// Field builds a single-entry ValidationErrors for rules checked outside tags.
func Field(field, message string) ValidationErrors {
	return ValidationErrors{{Field: field, Message: message}}
}

// ToAppError wraps a validation failure as a 422 AppError carrying the
// per-field messages.
func ToAppError(msg string, err error) *apperrors.AppError {
	var verrs ValidationErrors
	if errors.As(err, &verrs) {
		return apperrors.Validation(msg, verrs.Details())
	}
	return apperrors.Validation(msg, map[string]any{"error": err.Error()})
}

type Validator struct {
	validate *validator.Validate
}

// New returns a struct validator with the domain rules registered:
// booking_status, calendar_source and feed_url.
func New(log *logger.Logger) *Validator {
	v := validator.New()

	if err := v.RegisterValidation("booking_status", validateBookingStatus); err != nil {
		log.Fatal("Failed to register 'booking_status' validator", "error", err)
	}
	if err := v.RegisterValidation("calendar_source", validateCalendarSource); err != nil {
		log.Fatal("Failed to register 'calendar_source' validator", "error", err)
	}
	if err := v.RegisterValidation("feed_url", validateFeedURL); err != nil {
		log.Fatal("Failed to register 'feed_url' validator", "error", err)
	}

	return &Validator{validate: v}
}

// Struct validates s against its tags and returns ValidationErrors on failure.
func (v *Validator) Struct(s any) error {
	if err := v.validate.Struct(s); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return translate(validationErrs)
		}
		return err
	}
	return nil
}

func validateBookingStatus(fl validator.FieldLevel) bool {
	return slices.Contains(config.BookingStatuses, fl.Field().String())
}

func validateCalendarSource(fl validator.FieldLevel) bool {
	return slices.Contains(config.CalendarSources, fl.Field().String())
}

func validateFeedURL(fl validator.FieldLevel) bool {
	u, err := url.Parse(fl.Field().String())
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func translate(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "gte":
			message = fmt.Sprintf("%s must be greater than or equal to %s", err.Field(), err.Param())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", err.Field())
		case "e164":
			message = fmt.Sprintf("%s must be in E.164 format (e.g., +12015550123)", err.Field())
		case "email":
			message = fmt.Sprintf("%s must be a valid email address", err.Field())
		case "uuid4":
			message = fmt.Sprintf("%s must be a valid UUID", err.Field())
		case "booking_status":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), strings.Join(config.BookingStatuses, ", "))
		case "calendar_source":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), strings.Join(config.CalendarSources, ", "))
		case "feed_url":
			message = fmt.Sprintf("%s must be an http or https URL", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
