package handlers

import (
	"log/slog"
	"strings"

	"github.com/DSACMS/survey-session-client/pkg/directory"
	"github.com/gofiber/fiber/v2"
)

// MsgInvalidCode is the body the backend returns for an unknown passcode.
const MsgInvalidCode = "Code invalide"

type loginRequest struct {
	Password string `json:"password" form:"password"`
}

// LoginHandler accepts the passcode as a JSON body or a multipart form
// field and answers with the matching identity.
func LoginHandler(users *directory.Directory, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req loginRequest
		if err := c.BodyParser(&req); err != nil {
			logger.DebugContext(c.UserContext(), "login body rejected", slog.Any("error", err))
			return fiber.NewError(fiber.StatusUnprocessableEntity, "password is required")
		}

		password := strings.TrimSpace(req.Password)
		if password == "" {
			return fiber.NewError(fiber.StatusUnprocessableEntity, "password is required")
		}

		id, ok := users.ByPassword(password)
		if !ok {
			logger.InfoContext(c.UserContext(), "login refused")
			return fiber.NewError(fiber.StatusForbidden, MsgInvalidCode)
		}

		logger.InfoContext(c.UserContext(), "login accepted", slog.String("user_id", id.ID))
		return c.Status(fiber.StatusOK).JSON(id)
	}
}
