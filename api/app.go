package api

import (
	"errors"
	"log/slog"
	"runtime/debug"

	"github.com/DSACMS/survey-session-client/api/routes"
	"github.com/DSACMS/survey-session-client/pkg/core"
	"github.com/DSACMS/survey-session-client/pkg/directory"
	"github.com/DSACMS/survey-session-client/pkg/survey"
	"github.com/redis/go-redis/v9"

	"go.opentelemetry.io/otel/codes"

	"github.com/gofiber/contrib/otelfiber/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	slogfiber "github.com/samber/slog-fiber"
)

// errorHandler answers with the plain-text message of a *fiber.Error, which
// is the failure shape clients of the real backend read.
func errorHandler(logger *slog.Logger, otel core.OtelService) fiber.ErrorHandler {
	handleFiberError := func(ctx *fiber.Ctx, err *fiber.Error) error {
		if otel != nil {
			span := otel.SpanFromContext(ctx.UserContext())
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Message)
		}

		level := slog.LevelWarn
		if err.Code >= fiber.StatusInternalServerError {
			level = slog.LevelError
		}

		logger.Log(
			ctx.UserContext(),
			level,
			"Fiber Error",
			"Code",
			err.Code,
			"Message",
			err.Message,
		)

		return ctx.
			Status(err.Code).
			SendString(err.Message)
	}

	return func(ctx *fiber.Ctx, err error) error {
		var e *fiber.Error
		if !errors.As(err, &e) {
			e = fiber.ErrInternalServerError
		}
		return handleFiberError(ctx, e)
	}
}

func stackTraceHandler(logger *slog.Logger) func(*fiber.Ctx, any) {
	return func(c *fiber.Ctx, e any) {
		stack := debug.Stack()
		logger.ErrorContext(
			c.Context(),
			"panic!",
			"stack",
			stack,
			"err",
			e,
		)
	}
}

type Config struct {
	// Optional; nil skips span annotation of errors
	Otel   core.OtelService
	Logger *slog.Logger
	// Defaults to directory.Demo()
	Users   *directory.Directory
	Answers *directory.Answers
	Catalog *survey.Catalog
	// Optional; enables the redis check on /status
	Redis *redis.Client
	core.Config
}

func New(cfg *Config) (*fiber.App, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Users == nil {
		cfg.Users = directory.Demo()
	}
	if cfg.Answers == nil {
		cfg.Answers = directory.NewAnswers()
	}

	fiberConfig := fiber.Config{
		ErrorHandler:          errorHandler(cfg.Logger, cfg.Otel),
		DisableStartupMessage: true,
	}

	app := fiber.New(fiberConfig)

	app.Use(recover.New(recover.Config{
		Next:              nil,
		EnableStackTrace:  true,
		StackTraceHandler: stackTraceHandler(cfg.Logger),
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "*",
		AllowMethods: "*",
	}))

	if cfg.Otel != nil {
		app.Use(otelfiber.Middleware())
	}

	app.Use(slogfiber.NewWithConfig(
		cfg.Logger,
		slogfiber.Config{
			WithRequestID: true,
			WithSpanID:    true,
			WithTraceID:   true,
		},
	))

	routes.RegisterRoutes(app, routes.Deps{
		Users:   cfg.Users,
		Answers: cfg.Answers,
		Catalog: cfg.Catalog,
		Logger:  cfg.Logger,
	})
	routes.StatusRouter(app, cfg.Redis, cfg.Logger)

	return app, nil
}
