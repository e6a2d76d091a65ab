package remote

import (
	"errors"
	"fmt"
)

// Error is the single failure shape of Client. Status is the HTTP status
// code, or 0 when no response was received.
type Error struct {
	Op      string
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Op, e.Status, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) IsTransport() bool {
	return e.Status == 0
}

// Message returns the text to show a user for err.
func Message(err error) string {
	var re *Error
	if errors.As(err, &re) {
		return re.Message
	}
	if err == nil {
		return ""
	}
	return "unexpected error"
}
