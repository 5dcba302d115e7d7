// Package storage persists structured values in named slots of a durable
// key-value backend. Reads never fail: absence or corruption yields the
// caller's fallback.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// Slot names used by the tracker.
const (
	KeyAssignments = "studentAssignments"
	KeyDarkMode    = "darkMode"
)

// ErrSlotNotFound is returned by a Backend when the slot was never written.
var ErrSlotNotFound = errors.New("slot not found")

// Backend is the raw durable substrate.
type Backend interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key, value string) error
}

// Store encodes values as JSON on top of a Backend.
type Store struct {
	backend Backend
	log     zerolog.Logger
}

func NewStore(backend Backend, log zerolog.Logger) *Store {
	return &Store{
		backend: backend,
		log:     log.With().Str("component", "storage").Logger(),
	}
}

// Load decodes the slot into a T. Any failure is logged and fallback is
// returned instead.
func Load[T any](ctx context.Context, s *Store, key string, fallback T) T {
	raw, err := s.backend.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrSlotNotFound) {
			s.log.Debug().Str("key", key).Msg("slot is empty, using fallback")
		} else {
			s.log.Error().Err(err).Str("key", key).Msg("read slot")
		}
		return fallback
	}

	var value T
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		s.log.Error().Err(err).Str("key", key).Msg("decode slot")
		return fallback
	}
	return value
}

// Save encodes value and overwrites the slot. On failure the previous
// durable content is left as it was.
func (s *Store) Save(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		s.log.Error().Err(err).Str("key", key).Msg("encode slot")
		return fmt.Errorf("encode slot %q: %w", key, err)
	}
	if err := s.backend.Put(ctx, key, string(data)); err != nil {
		s.log.Error().Err(err).Str("key", key).Msg("write slot")
		return fmt.Errorf("write slot %q: %w", key, err)
	}
	return nil
}
