package handlers

import (
	"context"
	"net/http"
	"time"

	"todostock/internal/caching"

	"github.com/labstack/echo/v4"
)

const healthCheckTimeout = 2 * time.Second

// Pinger is satisfied by *pgxpool.Pool
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandlers handles health check endpoints
type HealthHandlers struct {
	db       Pinger
	cacheSvc caching.CacheService
	version  string
}

// NewHealthHandlers creates a new health handlers instance. cacheSvc may be nil.
func NewHealthHandlers(db Pinger, cacheSvc caching.CacheService, version string) *HealthHandlers {
	return &HealthHandlers{db: db, cacheSvc: cacheSvc, version: version}
}

// HealthStatus represents the overall health status
type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Services  map[string]string `json:"services"`
	Version   string            `json:"version"`
}

// Banner answers GET / with the plain text liveness line
func (h *HealthHandlers) Banner(c echo.Context) error {
	return c.String(http.StatusOK, "¡El Backend está funcionando!")
}

// HealthCheck reports each dependency. The database is required, the cache is not.
func (h *HealthHandlers) HealthCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), healthCheckTimeout)
	defer cancel()

	health := &HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Services:  make(map[string]string),
		Version:   h.version,
	}

	if err := h.db.Ping(ctx); err != nil {
		health.Services["database"] = "unhealthy"
		health.Status = "unhealthy"
	} else {
		health.Services["database"] = "healthy"
	}

	if h.cacheSvc != nil {
		if err := h.cacheSvc.Ping(ctx); err != nil {
			health.Services["redis"] = "unhealthy"
			if health.Status == "healthy" {
				health.Status = "degraded"
			}
		} else {
			health.Services["redis"] = "healthy"
		}
	}

	statusCode := http.StatusOK
	if health.Status == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}
	return c.JSON(statusCode, health)
}

// ReadinessCheck determines if the application is ready to serve traffic
func (h *HealthHandlers) ReadinessCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), healthCheckTimeout)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status":  "not_ready",
			"message": "database unavailable",
		})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ready",
		"message": "All systems operational",
	})
}
