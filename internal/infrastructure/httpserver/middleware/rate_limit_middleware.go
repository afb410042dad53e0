package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/quizmith/mcqs/internal/core/ports"
	"github.com/quizmith/mcqs/internal/infrastructure/httpserver/helpers"
)

type RateLimitMiddleware struct {
	rateLimiter ports.RateLimiterService
	logger      *logrus.Logger
}

func NewRateLimitMiddleware(rateLimiter ports.RateLimiterService, logger *logrus.Logger) *RateLimitMiddleware {
	return &RateLimitMiddleware{rateLimiter: rateLimiter, logger: logger}
}

// Limit enforces the named endpoint's policy per client. Quota headers are
// set on every response, allowed or not.
func (r *RateLimitMiddleware) Limit(endpoint string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			client := helpers.ClientIP(c.Request())
			decision := r.rateLimiter.Check(c.Request().Context(), endpoint, client)

			c.Response().Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", decision.Limit))
			c.Response().Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", decision.Remaining))
			c.Response().Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", decision.ResetAt.Unix()))

			if !decision.Allowed {
				if r.logger != nil {
					r.logger.WithFields(logrus.Fields{"endpoint": endpoint, "client": client}).Info("rate limit exceeded")
				}
				return c.JSON(http.StatusTooManyRequests, map[string]any{
					"error":      "Rate limit exceeded",
					"message":    fmt.Sprintf("Too many requests. Limit: %d requests per %s", decision.Limit, windowLabel(decision.Window)),
					"retryAfter": decision.ResetAt.Unix(),
				})
			}
			return next(c)
		}
	}
}

func windowLabel(window time.Duration) string {
	if window >= 24*time.Hour {
		return fmt.Sprintf("%d day(s)", int(window/(24*time.Hour)))
	}
	return fmt.Sprintf("%d minute(s)", int(window/time.Minute))
}
