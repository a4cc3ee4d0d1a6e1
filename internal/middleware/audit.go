package middleware

import (
	"errors"
	"log"
	"net/http"
	"time"

	"todostock/internal/common"

	"github.com/labstack/echo/v4"
)

// AuditEntry describes one state-changing request and who made it
type AuditEntry struct {
	Action    string
	Path      string
	UserID    string
	Email     string
	IP        string
	RequestID string
	Status    int
	Err       error
	At        time.Time
}

// AuditMiddleware records every write against the catalog, customers and sales
type AuditMiddleware struct {
	record func(AuditEntry)
}

// NewAuditMiddleware creates a new audit middleware instance. A nil record
// function writes entries to the standard logger.
func NewAuditMiddleware(record func(AuditEntry)) *AuditMiddleware {
	if record == nil {
		record = LogAuditEntry
	}
	return &AuditMiddleware{record: record}
}

// AuditWrites must run after the JWT middleware so the user is known.
// Reads pass through unrecorded.
func (m *AuditMiddleware) AuditWrites() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)

			if !isWrite(c.Request().Method) {
				return err
			}

			ctx := c.Request().Context()
			entry := AuditEntry{
				Action:    c.Request().Method + " " + c.Path(),
				Path:      c.Request().URL.Path,
				IP:        c.RealIP(),
				RequestID: c.Response().Header().Get(echo.HeaderXRequestID),
				Status:    c.Response().Status,
				Err:       err,
				At:        time.Now(),
			}
			if userID, ok := common.GetUserIDFromContext(ctx); ok {
				entry.UserID = userID.String()
			}
			if email, ok := common.GetUserEmailFromContext(ctx); ok {
				entry.Email = email
			}

			// the error handler has not written the response yet
			var he *echo.HTTPError
			if errors.As(err, &he) {
				entry.Status = he.Code
			} else if err != nil {
				entry.Status = http.StatusInternalServerError
			}

			m.record(entry)
			return err
		}
	}
}

// LogAuditEntry is the default sink
func LogAuditEntry(e AuditEntry) {
	if e.Err != nil {
		log.Printf("AUDIT: %s path=%s status=%d user=%s email=%s ip=%s request_id=%s error=%v",
			e.Action, e.Path, e.Status, e.UserID, e.Email, e.IP, e.RequestID, e.Err)
		return
	}
	log.Printf("AUDIT: %s path=%s status=%d user=%s email=%s ip=%s request_id=%s",
		e.Action, e.Path, e.Status, e.UserID, e.Email, e.IP, e.RequestID)
}

func isWrite(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}
