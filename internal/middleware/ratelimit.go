package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"eagle/internal/cache"
	apperrors "eagle/internal/errors"
	"eagle/internal/metrics"
)

// RateLimit allows limit requests per client IP and route within window. Counters live
// in Redis; when Redis is unreachable requests are let through.
func RateLimit(counter *cache.Client, limit int, window time.Duration, log zerolog.Logger) echo.MiddlewareFunc {
	logger := log.With().Str("component", "rate_limiter").Logger()

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			route := c.Path()
			key := "ratelimit:" + c.Request().Method + ":" + route + ":" + c.RealIP()

			count, err := counter.Incr(c.Request().Context(), key, window)
			if err != nil {
				logger.Warn().Err(err).Str("route", route).Msg("rate limiter unavailable, allowing request")
				return next(c)
			}

			if count > int64(limit) {
				metrics.RateLimitedTotal.WithLabelValues(route).Inc()
				c.Response().Header().Set("Retry-After", strconv.Itoa(int(window.Seconds())))
				return echo.NewHTTPError(http.StatusTooManyRequests, apperrors.ErrorResponse{
					Message: "too many requests, please try again later",
					Code:    "RATE_LIMITED",
				})
			}
			return next(c)
		}
	}
}
