package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/DSACMS/survey-session-client/pkg/sessionstore"
)

// StorageKey is the single well-known key holding the serialized Identity.
const StorageKey = "user"

// Store owns the session's Identity. Flows only ever get copies.
type Store struct {
	storage sessionstore.Storage
	logger  *slog.Logger
}

func NewStore(storage sessionstore.Storage, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}

	return &Store{
		storage: storage,
		logger:  logger.With(slog.String("component", "identity_store")),
	}
}

func (s *Store) Set(ctx context.Context, id Identity) error {
	raw, err := Encode(id)
	if err != nil {
		return fmt.Errorf("encode identity: %w", err)
	}

	err = s.storage.Set(ctx, StorageKey, raw)
	if err != nil {
		return fmt.Errorf("persist identity: %w", err)
	}
	return nil
}

// Get reports found=false both when nothing is stored and when the stored
// value is corrupt; a corrupt value is purged first. Only storage failures
// produce an error.
func (s *Store) Get(ctx context.Context) (Identity, bool, error) {
	raw, err := s.storage.Get(ctx, StorageKey)
	if errors.Is(err, sessionstore.ErrNotFound) {
		return Identity{}, false, nil
	}
	if err != nil {
		return Identity{}, false, fmt.Errorf("load identity: %w", err)
	}

	id, err := Decode(raw)
	if err != nil {
		s.logger.WarnContext(ctx, "discarding corrupt session identity", slog.Any("err", err))

		clearErr := s.Clear(ctx)
		if clearErr != nil {
			s.logger.ErrorContext(ctx, "failed to purge corrupt session identity", slog.Any("err", clearErr))
		}
		return Identity{}, false, nil
	}

	return id, true, nil
}

func (s *Store) Clear(ctx context.Context) error {
	err := s.storage.Delete(ctx, StorageKey)
	if err != nil {
		return fmt.Errorf("clear identity: %w", err)
	}
	return nil
}

func (s *Store) IsAuthenticated(ctx context.Context) bool {
	_, found, err := s.Get(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "identity lookup failed", slog.Any("err", err))
		return false
	}
	return found
}
