package middleware

import (
	"github.com/deppfellow/memwarzz/internal/errs"
	"github.com/deppfellow/memwarzz/internal/logger"
	"github.com/deppfellow/memwarzz/internal/server"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"
)

// Echo context keys set by the middleware.
const (
	UserIDKey      = "user_id"
	UserRoleKey    = "user_role"
	AccessTokenKey = "access_token"
	LoggerKey      = "logger"
)

// ContextEnhancer builds the request scoped logger.
type ContextEnhancer struct {
	server *server.Server
}

func NewContextEnhancer(s *server.Server) *ContextEnhancer {
	return &ContextEnhancer{server: s}
}

// EnhanceContext stores a logger carrying request_id, method, route, ip and
// the New Relic trace ids. Auth adds the user once it is known.
func (ce *ContextEnhancer) EnhanceContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			contextLogger := ce.server.Logger.With().
				Str("request_id", GetRequestID(c)).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Str("ip", c.RealIP()).
				Logger()

			if txn := newrelic.FromContext(c.Request().Context()); txn != nil {
				contextLogger = logger.WithTraceContext(contextLogger, txn)
			}

			c.Set(LoggerKey, &contextLogger)
			return next(c)
		}
	}
}

// GetUserID returns the authenticated user id, or "" on public routes.
func GetUserID(c echo.Context) string {
	if userID, ok := c.Get(UserIDKey).(string); ok {
		return userID
	}
	return ""
}

// GetUserUUID returns the authenticated user id as a UUID. Routes behind
// RequireAuth always have one.
func GetUserUUID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(GetUserID(c))
	if err != nil {
		return uuid.Nil, errs.NewUnauthorizedError("Unauthorized", false)
	}
	return id, nil
}

// GetViewerID returns the user id on routes with optional auth, nil for
// anonymous requests.
func GetViewerID(c echo.Context) *uuid.UUID {
	id, err := uuid.Parse(GetUserID(c))
	if err != nil {
		return nil
	}
	return &id
}

// GetAccessToken returns the bearer token of an authenticated request.
func GetAccessToken(c echo.Context) string {
	if token, ok := c.Get(AccessTokenKey).(string); ok {
		return token
	}
	return ""
}

// GetLogger returns the request scoped logger, or a no-op logger when
// EnhanceContext did not run.
func GetLogger(c echo.Context) *zerolog.Logger {
	if l, ok := c.Get(LoggerKey).(*zerolog.Logger); ok {
		return l
	}
	l := zerolog.Nop()
	return &l
}
