package remote

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/DSACMS/survey-session-client/pkg/survey"
)

const opSubmit = "submit-answers"

type submitResponse struct {
	Message string `json:"message"`
}

func (s *service) SubmitAnswers(ctx context.Context, payload survey.SubmissionPayload) (SubmissionResult, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		s.logger.Error("remote submit marshal failed", slog.Any("error", err))
		return SubmissionResult{}, &Error{Op: opSubmit, Message: err.Error(), Err: err}
	}

	result := SubmissionResult{Message: DefaultSubmissionMessage}
	err = s.do(ctx, request{
		op:          opSubmit,
		spanName:    "remote.SubmitAnswers",
		url:         s.cfg.SubmitURL(),
		contentType: "application/json",
		body:        body,
		decode: func(raw []byte) error {
			// A confirmation without a usable message keeps the default.
			var resp submitResponse
			if json.Unmarshal(raw, &resp) == nil && resp.Message != "" {
				result.Message = resp.Message
			}
			return nil
		},
	})
	if err != nil {
		return SubmissionResult{}, err
	}

	return result, nil
}
