package models

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Error codes carried by AppError and echoed in JSON error bodies.
const (
	CodeNotFound     = "NOT_FOUND"
	CodeValidation   = "VALIDATION_ERROR"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeConflict     = "CONFLICT"
	CodeInternal     = "INTERNAL_ERROR"
)

var codeStatus = map[string]int{
	CodeNotFound:     fiber.StatusNotFound,
	CodeValidation:   fiber.StatusBadRequest,
	CodeUnauthorized: fiber.StatusUnauthorized,
	CodeConflict:     fiber.StatusConflict,
	CodeInternal:     fiber.StatusInternalServerError,
}

// CodeForStatus picks the code that best describes an HTTP status.
func CodeForStatus(status int) string {
	switch status {
	case fiber.StatusNotFound:
		return CodeNotFound
	case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity:
		return CodeValidation
	case fiber.StatusUnauthorized, fiber.StatusForbidden:
		return CodeUnauthorized
	case fiber.StatusConflict:
		return CodeConflict
	}
	return CodeInternal
}

// ErrorResponse is the JSON body of every failed API call.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// AppError is an error with a stable code and a message safe to show users.
// Err, when set, is the underlying cause.
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *AppError) Unwrap() error { return e.Err }

// Status is the HTTP status for the error's code.
func (e *AppError) Status() int {
	if s, ok := codeStatus[e.Code]; ok {
		return s
	}
	return fiber.StatusInternalServerError
}

func NewNotFoundError(resource string, id any) *AppError {
	return &AppError{Code: CodeNotFound, Message: fmt.Sprintf("%s with ID %v not found", resource, id)}
}

func NewValidationError(message string) *AppError {
	return &AppError{Code: CodeValidation, Message: message}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{Code: CodeUnauthorized, Message: message}
}

func NewConflictError(message string, err error) *AppError {
	return &AppError{Code: CodeConflict, Message: message, Err: err}
}

// NewInternalError hides err behind a generic message.
func NewInternalError(err error) *AppError {
	return &AppError{Code: CodeInternal, Message: "Internal server error", Err: err}
}

// HasCode reports whether err wraps an AppError with the given code.
func HasCode(err error, code string) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// IsNotFound reports whether err wraps a NOT_FOUND AppError.
func IsNotFound(err error) bool {
	return HasCode(err, CodeNotFound)
}

// RespondWithError writes err as an ErrorResponse. Causes of internal errors
// never reach the client.
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	body := ErrorResponse{Error: err.Error()}
	var appErr *AppError
	if errors.As(err, &appErr) {
		body = ErrorResponse{Error: appErr.Message, Code: appErr.Code}
		if appErr.Err != nil && appErr.Code != CodeInternal {
			body.Details = appErr.Err.Error()
		}
	}
	return c.Status(status).JSON(body)
}
