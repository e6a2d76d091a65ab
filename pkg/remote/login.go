package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"mime/multipart"

	"github.com/DSACMS/survey-session-client/pkg/core"
	"github.com/DSACMS/survey-session-client/pkg/identity"
)

const opLogin = "login"

type loginRequest struct {
	Password string `json:"password"`
}

// Login exchanges the shared passcode for the caller's Identity. It does not
// validate password; callers reject empty input first.
func (s *service) Login(ctx context.Context, password string) (identity.Identity, error) {
	body, contentType, err := s.encodeLogin(password)
	if err != nil {
		s.logger.Error("remote login encode failed", slog.Any("error", err))
		return identity.Identity{}, &Error{Op: opLogin, Message: err.Error(), Err: err}
	}

	var id identity.Identity
	err = s.do(ctx, request{
		op:          opLogin,
		spanName:    "remote.Login",
		url:         s.cfg.LoginURL(),
		contentType: contentType,
		body:        body,
		decode: func(raw []byte) error {
			var derr error
			id, derr = identity.Decode(raw)
			return derr
		},
	})
	if err != nil {
		return identity.Identity{}, err
	}

	return id, nil
}

func (s *service) encodeLogin(password string) ([]byte, string, error) {
	if s.cfg.LoginEncoding == core.LoginEncodingMultipart {
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		if err := w.WriteField("password", password); err != nil {
			return nil, "", fmt.Errorf("write password field: %w", err)
		}
		if err := w.Close(); err != nil {
			return nil, "", fmt.Errorf("close multipart body: %w", err)
		}
		return buf.Bytes(), w.FormDataContentType(), nil
	}

	body, err := json.Marshal(loginRequest{Password: password})
	if err != nil {
		return nil, "", fmt.Errorf("marshal login body: %w", err)
	}
	return body, "application/json", nil
}
