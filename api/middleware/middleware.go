package middleware

import (
	"errors"
	"sync"

	"github.com/DSACMS/survey-session-client/pkg/circuitbreaker"
	"github.com/gofiber/fiber/v2"
)

// WithCircuitBreaker keeps one breaker per route. A handler error or a 5xx
// response counts as a failure.
func WithCircuitBreaker(newBreaker func(name string) circuitbreaker.Breaker) func(fiber.Handler) fiber.Handler {
	var mu sync.RWMutex
	breakers := make(map[string]circuitbreaker.Breaker)

	getBreaker := func(name string) circuitbreaker.Breaker {
		mu.RLock()
		b := breakers[name]
		mu.RUnlock()
		if b != nil {
			return b
		}

		mu.Lock()
		defer mu.Unlock()
		if b = breakers[name]; b != nil {
			return b
		}

		b = newBreaker(name)
		breakers[name] = b
		return b
	}

	return func(next fiber.Handler) fiber.Handler {
		return func(c *fiber.Ctx) error {
			name := breakerName(c)
			breaker := getBreaker(name)

			err := breaker.Allow(c.Context())
			if err != nil {
				if errors.Is(err, circuitbreaker.ErrCircuitOpen) {
					return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
						"error": "service temporarily unavailable",
						"code":  "CIRCUIT_OPEN",
					})
				}

				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
					"error": "service temporarily unavailable",
					"code":  "BREAKER_ERROR",
				})
			}

			err = next(c)
			if err != nil || c.Response().StatusCode() >= fiber.StatusInternalServerError {
				breaker.OnFailure(c.Context())
			} else {
				breaker.OnSuccess(c.Context())
			}

			return err
		}
	}
}

func breakerName(c *fiber.Ctx) string {
	var path string
	r := c.Route()
	if r != nil && r.Path != "" {
		path = r.Path
	} else {
		path = c.Path()
	}

	return c.Method() + " " + path
}
