package validation

import (
	"errors"
	"staybook/pkg/logger"
	"strings"
	"testing"
)

type sample struct {
	Status string `validate:"required,booking_status"`
	Source string `validate:"omitempty,calendar_source"`
	Feed   string `validate:"omitempty,feed_url"`
}

func newTestValidator() *Validator {
	return New(logger.New(logger.Config{
		Level:   "error",
		Format:  logger.JSON,
		Service: "test",
	}))
}

func TestValidator_CustomRules(t *testing.T) {
	v := newTestValidator()

	tests := []struct {
		name      string
		in        sample
		wantField string
	}{
		{name: "valid", in: sample{Status: "confirmed", Source: "airbnb", Feed: "https://example.com/a.ics"}},
		{name: "missing status", in: sample{}, wantField: "Status"},
		{name: "unknown status", in: sample{Status: "archived"}, wantField: "Status"},
		{name: "unknown source", in: sample{Status: "pending", Source: "expedia"}, wantField: "Source"},
		{name: "webcal feed", in: sample{Status: "pending", Feed: "webcal://example.com/a.ics"}, wantField: "Feed"},
		{name: "relative feed", in: sample{Status: "pending", Feed: "/calendar.ics"}, wantField: "Feed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.in)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			var verrs ValidationErrors
			if !errors.As(err, &verrs) {
				t.Fatalf("expected ValidationErrors, got %v", err)
			}
			if len(verrs) != 1 || verrs[0].Field != tt.wantField {
				t.Errorf("unexpected errors: %v", verrs)
			}
		})
	}
}

func TestValidationErrors_Messages(t *testing.T) {
	err := newTestValidator().Struct(sample{Status: "archived"})

	var verrs ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected ValidationErrors, got %v", err)
	}
	if !strings.Contains(verrs[0].Message, "pending, confirmed, cancelled, completed") {
		t.Errorf("message should list statuses: %q", verrs[0].Message)
	}
	if verrs.Details()["Status"] != verrs[0].Message {
		t.Errorf("Details() = %v", verrs.Details())
	}
}

func TestField(t *testing.T) {
	err := Field("CheckOut", "check_out must be after check_in")
	if err.Error() != "validation failed: 1 error(s): [CheckOut: check_out must be after check_in]" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestToAppError(t *testing.T) {
	appErr := ToAppError("Booking validation failed", Field("Guests", "guests exceeds max_guests (4)"))
	if appErr.HTTPStatus != 422 {
		t.Errorf("HTTPStatus = %d, want 422", appErr.HTTPStatus)
	}
	if appErr.Details["Guests"] != "guests exceeds max_guests (4)" {
		t.Errorf("Details = %v", appErr.Details)
	}

	plain := ToAppError("Invalid", errors.New("boom"))
	if plain.Details["error"] != "boom" {
		t.Errorf("Details = %v", plain.Details)
	}
}
