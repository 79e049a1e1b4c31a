package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

const (
	CodeNotFound     = "NOT_FOUND"
	CodeValidation   = "VALIDATION_ERROR"
	CodeConflict     = "CONFLICT"
	CodeInternal     = "INTERNAL_ERROR"
	CodeInvalidInput = "INVALID_INPUT"
)

var statusByCode = map[string]int{
	CodeNotFound:     http.StatusNotFound,
	CodeValidation:   http.StatusUnprocessableEntity,
	CodeConflict:     http.StatusConflict,
	CodeInternal:     http.StatusInternalServerError,
	CodeInvalidInput: http.StatusBadRequest,
}

// AppError is the error type services return to handlers. Code selects the
// HTTP status; Details is rendered next to the message.
type AppError struct {
	Code       string         `json:"code"`
	Message    string         `json:"message"`
	HTTPStatus int            `json:"-"`
	Details    map[string]any `json:"details,omitempty"`
	Err        error          `json:"-"`
}

func newAppError(code, message string) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: statusByCode[code]}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func (e *AppError) StatusCode() int {
	if e.HTTPStatus != 0 {
		return e.HTTPStatus
	}
	return http.StatusInternalServerError
}

func NotFound(resource string) *AppError {
	return newAppError(CodeNotFound, resource+" not found")
}

func NotFoundWithID(resource, id string) *AppError {
	e := NotFound(resource)
	e.Details = map[string]any{"resource": resource, "id": id}
	return e
}

// Validation carries per-field messages in details.
func Validation(message string, details map[string]any) *AppError {
	e := newAppError(CodeValidation, message)
	e.Details = details
	return e
}

func InvalidInput(message string) *AppError {
	return newAppError(CodeInvalidInput, message)
}

func Conflict(message string) *AppError {
	return newAppError(CodeConflict, message)
}

// Internal hides err from the client; it is kept for logging.
func Internal(message string, err error) *AppError {
	e := newAppError(CodeInternal, message)
	e.Err = err
	return e
}

func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError unwraps an *AppError from err, or wraps err as an internal error.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return Internal("An unexpected error occurred", err)
}

func HasCode(err error, code string) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr) && appErr.Code == code
}
