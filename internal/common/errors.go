package common

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrNotFound           = errors.New("not found")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrBackendUnavailable = errors.New("backend unavailable")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrRateLimited        = errors.New("too many requests")
)

// DomainError pairs a sentinel kind with the message shown to the client
type DomainError struct {
	Kind    error
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Kind
}

func NewValidationError(format string, args ...interface{}) error {
	return &DomainError{Kind: ErrValidation, Message: fmt.Sprintf(format, args...)}
}

func NewNotFoundError(format string, args ...interface{}) error {
	return &DomainError{Kind: ErrNotFound, Message: fmt.Sprintf(format, args...)}
}

func NewInsufficientStockError(format string, args ...interface{}) error {
	return &DomainError{Kind: ErrInsufficientStock, Message: fmt.Sprintf(format, args...)}
}

// StatusForError maps an error onto an HTTP status and a client safe message.
// Unknown errors become a generic 500 so backend details never leak.
func StatusForError(err error) (int, string) {
	msg := clientMessage(err)
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest, msg
	case errors.Is(err, ErrInsufficientStock):
		return http.StatusBadRequest, msg
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, msg
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, msg
	case errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized, msg
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests, msg
	case errors.Is(err, ErrBackendUnavailable):
		return http.StatusInternalServerError, "service temporarily unavailable"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

func clientMessage(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Message
	}
	if err == nil {
		return ""
	}
	// bare sentinels carry their own text
	for _, sentinel := range []error{ErrValidation, ErrUnauthorized, ErrNotFound, ErrInsufficientStock, ErrInvalidCredentials, ErrRateLimited} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return err.Error()
}

// SendError writes {"error": msg} with the status mapped from err. Auth
// failures use {"message": msg}, the same body the JWT gate answers with.
// Server side failures are logged with their full cause.
func SendError(c echo.Context, err error) error {
	status, msg := StatusForError(err)
	if status >= http.StatusInternalServerError {
		log.Printf("ERROR: %s %s: %v", c.Request().Method, c.Path(), err)
	}
	if status == http.StatusUnauthorized {
		return c.JSON(status, map[string]string{"message": msg})
	}
	return c.JSON(status, map[string]string{"error": msg})
}
