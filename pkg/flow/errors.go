package flow

import "errors"

var (
	ErrBusy         = errors.New("flow: a submission is already in progress")
	ErrInvalidState = errors.New("flow: action not available in the current state")
	ErrDisposed     = errors.New("flow: closed")
)

// ValidationError is a local input problem. It never reaches the network.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
