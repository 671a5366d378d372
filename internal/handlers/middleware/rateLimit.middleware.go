package middleware

import (
	"github.com/gofiber/fiber/v2"

	"golang.org/x/time/rate"
)

const (
	apiRatePerSecond = 20
	apiRateBurst     = 40
)

// RateLimit caps the request rate across the whole API. The app serves a
// single user, so one global limiter is enough; it keeps a runaway client
// loop from hammering the AI and catalog upstreams.
func (m *Middleware) RateLimit() fiber.Handler {
	limiter := rate.NewLimiter(rate.Limit(apiRatePerSecond), apiRateBurst)

	return func(c *fiber.Ctx) error {
		if !limiter.Allow() {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Muitas requisições, tente novamente em instantes.",
			})
		}
		return c.Next()
	}
}
