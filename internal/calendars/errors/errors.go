package errors

import "errors"

var (
	ErrCalendarNotFound    = errors.New("external calendar not found")
	ErrBlockedDateNotFound = errors.New("blocked date not found")
	ErrInvalidID           = errors.New("invalid ID format")
	ErrDuplicate           = errors.New("external calendar already exists for this property and source")
)
