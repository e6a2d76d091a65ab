package routes

import (
	"log/slog"

	"github.com/DSACMS/survey-session-client/api/handlers"
	"github.com/DSACMS/survey-session-client/pkg/directory"
	"github.com/DSACMS/survey-session-client/pkg/survey"
	"github.com/gofiber/fiber/v2"
)

type Deps struct {
	Users   *directory.Directory
	Answers *directory.Answers
	Catalog *survey.Catalog
	Logger  *slog.Logger
}

func RegisterRoutes(app fiber.Router, deps Deps) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	catalog := deps.Catalog
	if catalog == nil {
		catalog = survey.DefaultCatalog()
	}

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Backend running!")
	})

	app.Post("/login", handlers.LoginHandler(deps.Users, logger))
	app.Post("/submit-answers", handlers.SubmitAnswersHandler(deps.Users, catalog, deps.Answers, logger))
}
