package service

import (
	"context"
	"errors"
	calendarserrors "staybook/internal/calendars/errors"
	propertieserrors "staybook/internal/properties/errors"
	apperrors "staybook/pkg/errors"
	"staybook/pkg/model"
	"strings"
)

// PropertyReader loads the property a calendar or block belongs to.
type PropertyReader interface {
	FindByID(ctx context.Context, id string) (*model.Property, error)
}

func loadProperty(ctx context.Context, properties PropertyReader, id string) (*model.Property, error) {
	property, err := properties.FindByID(ctx, id)
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

func mapRepoError(err error, resource, id, msg string) error {
	if apperrors.IsAppError(err) {
		return err
	}
	if errors.Is(err, calendarserrors.ErrCalendarNotFound) || errors.Is(err, calendarserrors.ErrBlockedDateNotFound) {
		return apperrors.NotFoundWithID(resource, id)
	}
	if errors.Is(err, calendarserrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid " + strings.ToLower(resource) + " ID format")
	}
	if errors.Is(err, calendarserrors.ErrDuplicate) {
		return apperrors.Conflict("An external calendar for this property and source already exists")
	}
	return apperrors.Internal(msg, err)
}
