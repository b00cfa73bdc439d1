package apierr

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

const (
	CodeNotFound           = "NOT_FOUND"
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeInternalError      = "INTERNAL_ERROR"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

var (
	// ErrNotFound is returned when a resource is not found.
	ErrNotFound = New(fiber.StatusNotFound, CodeNotFound, "resource not found with given parameters")

	// ErrInvalidReq is returned when a request is invalid.
	ErrInvalidReq = New(fiber.StatusBadRequest, CodeInvalidRequest, "invalid request: some or all request parameters are invalid")

	// ErrInternalError is returned when an internal error occurs.
	ErrInternalError = New(fiber.StatusInternalServerError, CodeInternalError, "internal server error occurred")

	// ErrUnavailable is returned when a dependency of the service is not reachable.
	ErrUnavailable = New(fiber.StatusServiceUnavailable, CodeServiceUnavailable, "service unavailable: one or more dependencies are not reachable")
)

type Extras map[string]any

type AdminError struct {
	StatusCode int    `json:"-"`
	ErrorCode  string `json:"code"`
	Message    string `json:"message"`
	Extras     *Extras
}

func New(statusCode int, errorCode string, message string) *AdminError {
	return &AdminError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
	}
}

func (e AdminError) Msg(format string, parts ...any) *AdminError {
	e.Message = fmt.Sprintf(format, parts...)
	return &e
}

func (e AdminError) WithExtras(extras Extras) *AdminError {
	e.Extras = &extras
	return &e
}

func (e *AdminError) Error() string {
	return fmt.Sprintf("%s: %s", e.ErrorCode, e.Message)
}
