package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/deppfellow/memwarzz/internal/middleware"
	"github.com/deppfellow/memwarzz/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

const defaultHealthCheckTimeout = 5 * time.Second

// HealthHandler reports whether the API and its backing stores are
// reachable.
type HealthHandler struct {
	Handler
}

func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
	}
}

type checkResult map[string]interface{}

// probe reports whether the named dependency is checked and with which
// timeout.
func (h *HealthHandler) probe(name string) (bool, time.Duration) {
	obs := h.server.Config.Observability
	if obs == nil {
		return true, defaultHealthCheckTimeout
	}
	timeout := obs.HealthChecks.Timeout
	if timeout <= 0 {
		timeout = defaultHealthCheckTimeout
	}
	return obs.HealthCheckEnabled(name), timeout
}

// check times ping and records its outcome under name.
func (h *HealthHandler) check(ctx context.Context, logger *zerolog.Logger, name string, timeout time.Duration, ping func(context.Context) error) (checkResult, bool) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	err := ping(ctx)
	elapsed := time.Since(start)

	if err != nil {
		logger.Error().Err(err).Dur("response_time", elapsed).Msgf("%s health check failed", name)

		if h.server.LoggerService != nil && h.server.LoggerService.GetApplication() != nil {
			h.server.LoggerService.GetApplication().RecordCustomEvent("HealthCheckError", map[string]interface{}{
				"check_type":       name,
				"operation":        "health_check",
				"error_type":       name + "_unhealthy",
				"response_time_ms": elapsed.Milliseconds(),
				"error_message":    err.Error(),
			})
		}

		return checkResult{
			"status":        "unhealthy",
			"response_time": elapsed.String(),
			"error":         err.Error(),
		}, false
	}

	logger.Debug().Dur("response_time", elapsed).Msgf("%s health check passed", name)
	return checkResult{
		"status":        "healthy",
		"response_time": elapsed.String(),
	}, true
}

// CheckHealth answers 200 when the probed dependencies respond and 503
// otherwise. Both back user facing reads: Postgres everything, Redis the
// feed cache and the job queue.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()
	logger := middleware.GetLogger(c).With().Str("operation", "health_check").Logger()
	ctx := c.Request().Context()

	checks := map[string]interface{}{}
	healthy := true

	if enabled, timeout := h.probe("database"); enabled && h.server.DB != nil {
		result, ok := h.check(ctx, &logger, "database", timeout, h.server.DB.Pool.Ping)
		checks["database"] = result
		healthy = healthy && ok
	}

	if enabled, timeout := h.probe("redis"); enabled && h.server.Redis != nil {
		result, ok := h.check(ctx, &logger, "redis", timeout, func(ctx context.Context) error {
			return h.server.Redis.Ping(ctx).Err()
		})
		checks["redis"] = result
		healthy = healthy && ok
	}

	response := map[string]interface{}{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"environment": h.server.Config.Primary.Env,
		"checks":      checks,
	}

	if !healthy {
		response["status"] = "unhealthy"
		logger.Warn().Dur("total_duration", time.Since(start)).Msg("health check failed")
		return c.JSON(http.StatusServiceUnavailable, response)
	}

	if err := c.JSON(http.StatusOK, response); err != nil {
		logger.Error().Err(err).Msg("failed to write JSON response")
		return fmt.Errorf("failed to write JSON response: %w", err)
	}
	return nil
}
