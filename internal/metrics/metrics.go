// Package metrics owns the Prometheus collectors exposed on GET /metrics.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/deppfellow/memwarzz/internal/errs"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "memwarzz"

var (
	// Registry holds the application collectors. It is separate from the
	// default registry so tests can gather it without global noise.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "route"},
	)

	domainEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "domain",
			Name:      "events_total",
			Help:      "Domain events such as memes created, votes cast and bids placed.",
		},
		[]string{"event"},
	)

	feedCache = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "cache_requests_total",
			Help:      "Feed page cache lookups by result (hit, miss, error).",
		},
		[]string{"result"},
	)

	jobRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "jobs",
			Name:      "runs_total",
			Help:      "Background task executions.",
		},
		[]string{"task", "success"},
	)

	jobDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "jobs",
			Name:      "run_duration_seconds",
			Help:      "Duration of background task executions.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 10),
		},
		[]string{"task"},
	)

	rateLimited = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the rate limiter.",
		},
		[]string{"route"},
	)
)

// Domain event names.
const (
	EventMemeCreated    = "meme_created"
	EventMemeDeleted    = "meme_deleted"
	EventBattleStarted  = "battle_started"
	EventBattleClosed   = "battle_closed"
	EventVoteCast       = "vote_cast"
	EventLikeAdded      = "like_added"
	EventLikeRemoved    = "like_removed"
	EventCommentAdded   = "comment_added"
	EventFollow         = "follow"
	EventUnfollow       = "unfollow"
	EventSponsorCreated = "sponsor_created"
	EventBidPlaced      = "bid_placed"
	EventTokenDraft     = "token_draft_created"
	EventIPFSUpload     = "ipfs_upload"
	EventSignUp         = "sign_up"
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		domainEvents,
		feedCache,
		jobRuns,
		jobDuration,
		rateLimited,
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)
}

// Handler exposes Registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// Middleware records request count and latency per route template, so
// /memes/:id stays one series no matter how many ids are requested.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			route := c.Path()
			if route == "/metrics" {
				return next(c)
			}
			if route == "" {
				route = "unmatched"
			}

			httpInFlight.Inc()
			defer httpInFlight.Dec()

			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				var httpErr *errs.HTTPError
				var echoErr *echo.HTTPError
				switch {
				case errors.As(err, &httpErr):
					status = httpErr.Status
				case errors.As(err, &echoErr):
					status = echoErr.Code
				default:
					status = http.StatusInternalServerError
				}
			}

			method := c.Request().Method
			httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
			httpDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())

			return err
		}
	}
}

// RecordEvent counts one occurrence of a domain event.
func RecordEvent(event string) {
	domainEvents.WithLabelValues(event).Inc()
}

// RecordFeedCache counts a feed cache lookup ("hit", "miss" or "error").
func RecordFeedCache(result string) {
	feedCache.WithLabelValues(result).Inc()
}

// RecordJobRun records one background task execution.
func RecordJobRun(task string, success bool, duration time.Duration) {
	jobRuns.WithLabelValues(task, strconv.FormatBool(success)).Inc()
	jobDuration.WithLabelValues(task).Observe(duration.Seconds())
}

// RecordRateLimited counts a request rejected by the limiter.
func RecordRateLimited(route string) {
	rateLimited.WithLabelValues(route).Inc()
}
