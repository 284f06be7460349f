// Package metrics provides Prometheus metrics for the eagle API.
package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "eagle"

var (
	// HTTPRequestsTotal counts handled requests by route and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration measures request latency by route.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// CommentsCreatedTotal counts created comments by owner kind.
	CommentsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "comments_created_total",
			Help:      "Total number of comments created",
		},
		[]string{"owner"},
	)

	// ArticleMutationsTotal counts article writes by operation.
	ArticleMutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "article_mutations_total",
			Help:      "Total number of article create, update and delete operations",
		},
		[]string{"operation"},
	)

	// ReconcileFixesTotal counts back-reference repairs by kind.
	ReconcileFixesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconcile_fixes_total",
			Help:      "Total number of comment reference repairs made by the reconciler",
		},
		[]string{"kind"},
	)

	// EmailsTotal counts mail tasks by type and outcome.
	EmailsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "emails_total",
			Help:      "Total number of email tasks",
		},
		[]string{"type", "status"},
	)

	// RateLimitedTotal counts rejected requests.
	RateLimitedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_total",
			Help:      "Total number of requests rejected by the rate limiter",
		},
		[]string{"route"},
	)
)

// RecordCommentCreated records a new comment.
func RecordCommentCreated(anonymous bool) {
	owner := "user"
	if anonymous {
		owner = "anonymous"
	}
	CommentsCreatedTotal.WithLabelValues(owner).Inc()
}

// RecordArticleMutation records an article write.
func RecordArticleMutation(operation string) {
	ArticleMutationsTotal.WithLabelValues(operation).Inc()
}

// RecordReconcile records the repairs of one sweep.
func RecordReconcile(pruned, added, orphans int) {
	ReconcileFixesTotal.WithLabelValues("pruned").Add(float64(pruned))
	ReconcileFixesTotal.WithLabelValues("added").Add(float64(added))
	ReconcileFixesTotal.WithLabelValues("orphan_deleted").Add(float64(orphans))
}

// RecordEmail records an email task outcome.
func RecordEmail(taskType, status string) {
	EmailsTotal.WithLabelValues(taskType, status).Inc()
}

// Middleware records request count and latency, labelled by the matched route pattern.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				}
			}
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}

			HTTPRequestsTotal.WithLabelValues(c.Request().Method, route, strconv.Itoa(status)).Inc()
			HTTPRequestDuration.WithLabelValues(c.Request().Method, route).Observe(time.Since(start).Seconds())
			return err
		}
	}
}
