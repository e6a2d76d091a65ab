package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DSACMS/survey-session-client/pkg/circuitbreaker"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingBreaker struct {
	allowErr  error
	successes int
	failures  int
}

func (b *countingBreaker) Allow(context.Context) error { return b.allowErr }
func (b *countingBreaker) OnSuccess(context.Context)   { b.successes++ }
func (b *countingBreaker) OnFailure(context.Context)   { b.failures++ }

func newApp(breakers map[string]*countingBreaker) *fiber.App {
	withCB := WithCircuitBreaker(func(name string) circuitbreaker.Breaker {
		b, ok := breakers[name]
		if !ok {
			b = &countingBreaker{}
			breakers[name] = b
		}
		return b
	})

	app := fiber.New()
	app.Get("/ok", withCB(func(c *fiber.Ctx) error { return c.SendString("OK") }))
	app.Get("/down", withCB(func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusBadGateway) }))
	app.Get("/err", withCB(func(*fiber.Ctx) error { return fiber.ErrServiceUnavailable }))
	return app
}

func get(t *testing.T, app *fiber.App, path string) *http.Response {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, http.NoBody))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestWithCircuitBreaker_ReportsOutcome(t *testing.T) {
	breakers := map[string]*countingBreaker{}
	app := newApp(breakers)

	assert.Equal(t, http.StatusOK, get(t, app, "/ok").StatusCode)
	get(t, app, "/ok")
	get(t, app, "/down")
	get(t, app, "/err")

	assert.Equal(t, 2, breakers["GET /ok"].successes)
	assert.Zero(t, breakers["GET /ok"].failures)
	assert.Equal(t, 1, breakers["GET /down"].failures)
	assert.Equal(t, 1, breakers["GET /err"].failures)
}

func TestWithCircuitBreaker_OpenShortCircuits(t *testing.T) {
	breakers := map[string]*countingBreaker{
		"GET /ok": {allowErr: circuitbreaker.ErrCircuitOpen},
	}
	app := newApp(breakers)

	resp := get(t, app, "/ok")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Zero(t, breakers["GET /ok"].successes+breakers["GET /ok"].failures)
}
