// Package sessionstore holds raw values scoped to one client session, the
// way a browser tab's session storage does.
package sessionstore

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned by Get when the key holds no value.
var ErrNotFound = errors.New("sessionstore: key not found")

type Storage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	// Set overwrites any prior value.
	Set(ctx context.Context, key string, value []byte) error
	// Delete is a no-op when the key is absent.
	Delete(ctx context.Context, key string) error
}

// NewSessionID returns a random identifier for a fresh session namespace.
func NewSessionID() string {
	return uuid.NewString()
}
