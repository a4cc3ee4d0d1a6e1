package common

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type contextKey string

const (
	UserIDKey    contextKey = "user_id"
	UserEmailKey contextKey = "user_email"
)

// SendValidationError sends a 400 for a single invalid field
func SendValidationError(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, map[string]string{"error": message})
}

// ValidateID parses a positive numeric identifier from a path or body value
func ValidateID(idStr string, fieldName string) (int64, error) {
	idStr = strings.TrimSpace(idStr)
	if idStr == "" {
		return 0, NewValidationError("%s is required", fieldName)
	}

	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return 0, NewValidationError("%s must be a number", fieldName)
	}
	if id <= 0 {
		return 0, NewValidationError("%s must be positive", fieldName)
	}
	return id, nil
}

// ValidateRequiredString validates required string fields
func ValidateRequiredString(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return NewValidationError("%s is required", fieldName)
	}
	return nil
}

// ParseFecha accepts RFC3339 timestamps or plain YYYY-MM-DD dates.
// Dates are interpreted in loc.
func ParseFecha(value string, loc *time.Location) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	if loc == nil {
		loc = time.UTC
	}

	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", value, loc); err == nil {
		return &t, nil
	}
	return nil, NewValidationError("fecha must be RFC3339 or YYYY-MM-DD")
}

// SafeString safely handles string pointer operations
func SafeString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// GetUserIDFromContext extracts the authenticated user ID from the request context
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return userID, ok
}

// GetUserEmailFromContext extracts the authenticated user email, when the token carries one
func GetUserEmailFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(UserEmailKey).(string)
	return email, ok
}
