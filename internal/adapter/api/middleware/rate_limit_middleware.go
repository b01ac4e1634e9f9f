package middleware

import (
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"outdoormatch/internal/usecase"
	"outdoormatch/pkg/errors"
	"outdoormatch/pkg/logger"
	"outdoormatch/pkg/response"
)

var unlimitedPrefixes = []string{"/health", "/metrics"}

// RateLimit caps requests per client IP under action. Probe and scrape
// endpoints are not counted.
func RateLimit(limiter usecase.RateLimiter, action string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path
			for _, prefix := range unlimitedPrefixes {
				if strings.HasPrefix(path, prefix) {
					return next(c)
				}
			}

			ip := c.RealIP()
			if ok, retryAfter := limiter.Allow("ip:"+ip, action); !ok {
				logger.Warn("RATE LIMIT: blocked request from %s (retry in %v)", ip, retryAfter)
				seconds := int(retryAfter.Seconds()) + 1
				c.Response().Header().Set("Retry-After", strconv.Itoa(seconds))
				return response.Error(c, errors.TooManyRequests("Rate limit exceeded"))
			}
			return next(c)
		}
	}
}
