package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/DSACMS/survey-session-client/pkg/directory"
	"github.com/DSACMS/survey-session-client/pkg/survey"
	"github.com/gofiber/fiber/v2"
)

const MsgAnswersSaved = "Answers saved"

// SubmitAnswersHandler validates {"user_id": ..., "q<id>": option, ...}
// against the catalog and records it for the user.
func SubmitAnswersHandler(
	users *directory.Directory,
	catalog *survey.Catalog,
	answers *directory.Answers,
	logger *slog.Logger,
) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body map[string]json.RawMessage
		if err := json.Unmarshal(c.Body(), &body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "body must be a JSON object")
		}

		var userID string
		if err := json.Unmarshal(body["user_id"], &userID); err != nil || userID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "user_id is required")
		}
		if _, ok := users.ByID(userID); !ok {
			return fiber.NewError(fiber.StatusNotFound, "unknown user")
		}

		got := make(map[int]int, catalog.Len())
		for _, q := range catalog.Questions() {
			raw, ok := body[q.Field()]
			if !ok {
				return fiber.NewError(fiber.StatusBadRequest, "missing "+q.Field())
			}

			var option int
			if err := json.Unmarshal(raw, &option); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, q.Field()+" must be an integer")
			}
			if !q.HasOption(option) {
				return fiber.NewError(
					fiber.StatusBadRequest,
					fmt.Sprintf("%s must be between 1 and %d", q.Field(), len(q.Options)),
				)
			}
			got[q.ID] = option
		}

		for key := range body {
			if key == "user_id" {
				continue
			}
			id, err := strconv.Atoi(strings.TrimPrefix(key, "q"))
			if _, known := catalog.Question(id); err != nil || !known || !strings.HasPrefix(key, "q") {
				return fiber.NewError(fiber.StatusBadRequest, "unexpected field "+key)
			}
		}

		answers.Record(userID, got)
		logger.InfoContext(c.UserContext(), "answers recorded",
			slog.String("user_id", userID),
			slog.Int("count", len(got)),
		)

		return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": MsgAnswersSaved})
	}
}
