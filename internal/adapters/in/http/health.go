package http

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	serviceName    = "tracking-api"
	serviceVersion = "1.0.0"

	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"

	healthCheckTimeout = 3 * time.Second
)

// HealthCheck probes one dependency. A nil error means healthy.
type HealthCheck struct {
	Name  string
	Probe func(ctx context.Context) error
}

type ComponentHealth struct {
	Status         string `json:"status"`
	ResponseTimeMs int64  `json:"response_time_ms"`
	Error          string `json:"error,omitempty"`
}

type DetailedHealth struct {
	Status        string                     `json:"status"`
	Timestamp     time.Time                  `json:"timestamp"`
	UptimeSeconds int64                      `json:"uptime_seconds"`
	Version       string                     `json:"version"`
	Components    map[string]ComponentHealth `json:"components"`
}

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	checks    []HealthCheck
	startedAt time.Time
	logger    *zap.Logger
}

func NewHealthHandler(logger *zap.Logger, checks ...HealthCheck) *HealthHandler {
	return &HealthHandler{
		checks:    checks,
		startedAt: time.Now(),
		logger:    logger.With(zap.String("component", "health")),
	}
}

// Register mounts /health, /health/live, /health/ready and /health/detailed.
func (h *HealthHandler) Register(e *echo.Echo) {
	e.GET("/health", h.Health)
	e.GET("/health/live", h.Live)
	e.GET("/health/ready", h.Ready)
	e.GET("/health/detailed", h.Detailed)
}

func (h *HealthHandler) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]any{
		"status":    statusHealthy,
		"service":   serviceName,
		"version":   serviceVersion,
		"timestamp": time.Now().UTC(),
	})
}

func (h *HealthHandler) Live(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "alive"})
}

func (h *HealthHandler) Ready(ctx echo.Context) error {
	report := h.check(ctx.Request().Context())
	if report.Status != statusHealthy {
		return ctx.JSON(http.StatusServiceUnavailable, map[string]string{"status": "not ready"})
	}
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ready"})
}

func (h *HealthHandler) Detailed(ctx echo.Context) error {
	report := h.check(ctx.Request().Context())
	if report.Status != statusHealthy {
		return ctx.JSON(http.StatusServiceUnavailable, report)
	}
	return ctx.JSON(http.StatusOK, report)
}

func (h *HealthHandler) check(ctx context.Context) DetailedHealth {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	report := DetailedHealth{
		Status:        statusHealthy,
		Timestamp:     time.Now().UTC(),
		UptimeSeconds: int64(time.Since(h.startedAt).Seconds()),
		Version:       serviceVersion,
		Components:    make(map[string]ComponentHealth, len(h.checks)),
	}

	for _, c := range h.checks {
		start := time.Now()
		err := c.Probe(ctx)

		component := ComponentHealth{
			Status:         statusHealthy,
			ResponseTimeMs: time.Since(start).Milliseconds(),
		}
		if err != nil {
			h.logger.Error("health check failed", zap.String("check", c.Name), zap.Error(err))
			component.Status = statusUnhealthy
			component.Error = err.Error()
			report.Status = statusUnhealthy
		}

		report.Components[c.Name] = component
	}

	return report
}
