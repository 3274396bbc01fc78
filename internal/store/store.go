// Package store persists each entity type as a single JSON document and
// serializes every read-modify-write cycle on that document.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/HammerMeetNail/chatcore/internal/apperr"
	"github.com/HammerMeetNail/chatcore/internal/logging"
)

type Kind string

const (
	KindUsers         Kind = "users"
	KindRooms         Kind = "rooms"
	KindNotifications Kind = "notifications"
	KindMessages      Kind = "messages"
)

var (
	ErrStorageWriteFailed = apperr.New(apperr.CodeStorageWriteFailed, "storage write failed")
	ErrStorageCorrupted   = apperr.New(apperr.CodeStorageCorrupted, "storage document is corrupted")

	// ErrNoChange returned from an Update callback ends the update without
	// writing the document.
	ErrNoChange = errors.New("no change")

	// ErrConflict is returned by backends that gave up retrying an optimistic
	// write.
	ErrConflict = errors.New("document changed concurrently")
)

// Backend reads and writes whole documents. Read returns nil, nil for a
// document that does not exist yet.
type Backend interface {
	Read(ctx context.Context, kind Kind) ([]byte, error)
	Write(ctx context.Context, kind Kind, data []byte) error
}

// Mutator is implemented by backends that can run a read-modify-write cycle
// atomically across processes. fn may be called more than once; returning a
// nil slice from fn leaves the document untouched.
type Mutator interface {
	Mutate(ctx context.Context, kind Kind, fn func(current []byte) ([]byte, error)) error
}

type CorruptionPolicy string

const (
	CorruptionFail  CorruptionPolicy = "fail"
	CorruptionReset CorruptionPolicy = "reset"
)

type Store struct {
	backend Backend
	policy  CorruptionPolicy
	logger  *logging.Logger

	mu    sync.Mutex
	locks map[Kind]*sync.Mutex
}

type Option func(*Store)

func WithCorruptionPolicy(policy CorruptionPolicy) Option {
	return func(s *Store) {
		s.policy = policy
	}
}

func WithLogger(logger *logging.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

func New(backend Backend, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		policy:  CorruptionFail,
		logger:  logging.Default,
		locks:   make(map[Kind]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.WithField("component", "store")
	return s
}

func (s *Store) Backend() Backend {
	return s.backend
}

func (s *Store) lock(kind Kind) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.locks[kind]
	if !ok {
		m = &sync.Mutex{}
		s.locks[kind] = m
	}
	return m
}

// mutate runs fn against the current document while holding the document
// lock. Errors returned by fn are passed through unchanged; backend failures
// come back as ErrStorageWriteFailed.
func (s *Store) mutate(ctx context.Context, kind Kind, fn func(current []byte) ([]byte, error)) error {
	m := s.lock(kind)
	m.Lock()
	defer m.Unlock()

	var fnErr error
	guarded := func(current []byte) ([]byte, error) {
		next, err := fn(current)
		fnErr = err
		return next, err
	}

	if mut, ok := s.backend.(Mutator); ok {
		err := mut.Mutate(ctx, kind, guarded)
		if err == nil {
			return nil
		}
		if fnErr != nil {
			return fnErr
		}
		s.logger.Error("document mutation failed", map[string]interface{}{
			"kind":  string(kind),
			"error": err.Error(),
		})
		return ErrStorageWriteFailed.Wrap(fmt.Errorf("mutating %s: %w", kind, err))
	}

	current, err := s.backend.Read(ctx, kind)
	if err != nil {
		return ErrStorageWriteFailed.Wrap(fmt.Errorf("reading %s: %w", kind, err))
	}
	next, err := guarded(current)
	if err != nil {
		return err
	}
	if next == nil {
		return nil
	}
	if err := s.backend.Write(ctx, kind, next); err != nil {
		s.logger.Error("document write failed", map[string]interface{}{
			"kind":  string(kind),
			"error": err.Error(),
		})
		return ErrStorageWriteFailed.Wrap(fmt.Errorf("writing %s: %w", kind, err))
	}
	return nil
}
