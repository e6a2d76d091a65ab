package routes

import (
	"log/slog"

	"github.com/DSACMS/survey-session-client/api/handlers"
	"github.com/DSACMS/survey-session-client/api/middleware"
	"github.com/DSACMS/survey-session-client/pkg/circuitbreaker"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// StatusRouter mounts /status. With redis the check pings it behind a
// redis-backed breaker; rdb may be nil.
func StatusRouter(app fiber.Router, rdb *redis.Client, logger *slog.Logger) {
	if rdb == nil {
		app.Get("/status", handlers.GetRDBStatus(nil))
		return
	}

	withBreaker := middleware.WithCircuitBreaker(func(name string) circuitbreaker.Breaker {
		return circuitbreaker.NewRedisBreaker(rdb, name, circuitbreaker.DefaultOptions(), logger)
	})

	app.Get("/status", withBreaker(handlers.GetRDBStatus(rdb)))
}
