package middleware

import (
	"time"

	"github.com/deppfellow/memwarzz/internal/errs"
	"github.com/deppfellow/memwarzz/internal/metrics"
	"github.com/deppfellow/memwarzz/internal/server"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// RateLimitMiddleware limits write routes per client IP with a token
// bucket of RateLimitPerSecond and RateLimitBurst.
type RateLimitMiddleware struct {
	server *server.Server
	store  echomw.RateLimiterStore
}

func NewRateLimitMiddleware(s *server.Server) *RateLimitMiddleware {
	store := echomw.NewRateLimiterMemoryStoreWithConfig(echomw.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(s.Config.App.RateLimitPerSecond),
		Burst:     s.Config.App.RateLimitBurst,
		ExpiresIn: 3 * time.Minute,
	})

	return &RateLimitMiddleware{server: s, store: store}
}

// Limit returns the limiter middleware. Rejections are 429s.
func (r *RateLimitMiddleware) Limit() echo.MiddlewareFunc {
	return echomw.RateLimiterWithConfig(echomw.RateLimiterConfig{
		Store: r.store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return errs.NewForbiddenError("Could not identify the client.", false)
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			r.RecordRateLimitHit(c.Path())
			GetLogger(c).Warn().Str("client", identifier).Msg("rate limited")
			return errs.NewTooManyRequestsError()
		},
	})
}

// RecordRateLimitHit counts a rejection in Prometheus and, when APM is on,
// as a New Relic custom event.
func (r *RateLimitMiddleware) RecordRateLimitHit(endpoint string) {
	metrics.RecordRateLimited(endpoint)

	if r.server.LoggerService != nil && r.server.LoggerService.GetApplication() != nil {
		r.server.LoggerService.GetApplication().RecordCustomEvent("RateLimitHit", map[string]interface{}{
			"endpoint": endpoint,
		})
	}
}
