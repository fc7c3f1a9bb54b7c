package apperror

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// Error is the one error type handlers and services trade in: an HTTP status,
// a caller-facing message and optional per-field detail strings. The server's
// error handler renders it as the uniform error body; anything that is not an
// *Error degrades to a generic 500 there.
type Error struct {
	Status  int
	Message string
	Errors  []string
}

func (e *Error) Error() string {
	return e.Message
}

func New(status int, message string, details ...string) *Error {
	return &Error{Status: status, Message: message, Errors: details}
}

func Validation(message string, details ...string) *Error {
	return New(fiber.StatusBadRequest, message, details...)
}

func Unauthorized(message string) *Error {
	return New(fiber.StatusUnauthorized, message)
}

func Forbidden(message string) *Error {
	return New(fiber.StatusForbidden, message)
}

func NotFound(resource string) *Error {
	return New(fiber.StatusNotFound, resource+" not found")
}

func Internal(message string) *Error {
	return New(fiber.StatusInternalServerError, message)
}

// From returns err as an *Error, or wraps it as a 500.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("Internal server error.")
}
