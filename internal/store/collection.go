package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

var emptyDocument = []byte("[]")

// Collection is a typed view over one document holding a JSON array of T.
type Collection[T any] struct {
	store *Store
	kind  Kind
}

func NewCollection[T any](s *Store, kind Kind) *Collection[T] {
	return &Collection[T]{store: s, kind: kind}
}

func (c *Collection[T]) Kind() Kind {
	return c.kind
}

// Load returns every record. An absent or empty document is initialized to
// an empty array and persisted before returning.
func (c *Collection[T]) Load(ctx context.Context) ([]T, error) {
	var records []T
	err := c.store.mutate(ctx, c.kind, func(current []byte) ([]byte, error) {
		decoded, heal, err := c.decode(current)
		if err != nil {
			return nil, err
		}
		records = decoded
		if heal {
			return emptyDocument, nil
		}
		return nil, nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// SaveAll replaces the document with records.
func (c *Collection[T]) SaveAll(ctx context.Context, records []T) error {
	data, err := encode(records)
	if err != nil {
		return err
	}
	return c.store.mutate(ctx, c.kind, func([]byte) ([]byte, error) {
		return data, nil
	})
}

// Update loads the records, passes them to fn and persists what fn returns,
// all under the document lock. fn may return ErrNoChange to skip the write;
// Update then returns nil. Any other error from fn is returned as is and the
// document is left untouched.
func (c *Collection[T]) Update(ctx context.Context, fn func(records []T) ([]T, error)) error {
	return c.store.mutate(ctx, c.kind, func(current []byte) ([]byte, error) {
		records, heal, err := c.decode(current)
		if err != nil {
			return nil, err
		}
		next, err := fn(records)
		if errors.Is(err, ErrNoChange) {
			if heal {
				return emptyDocument, nil
			}
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return encode(next)
	})
}

// View passes the records to fn while holding the document lock and writes
// nothing. Updates to other documents made inside fn are ordered after
// this document's writers.
func (c *Collection[T]) View(ctx context.Context, fn func(records []T) error) error {
	return c.Update(ctx, func(records []T) ([]T, error) {
		if err := fn(records); err != nil {
			return nil, err
		}
		return nil, ErrNoChange
	})
}

func (c *Collection[T]) decode(current []byte) (records []T, heal bool, err error) {
	if len(bytes.TrimSpace(current)) == 0 {
		return []T{}, true, nil
	}
	if err := json.Unmarshal(current, &records); err != nil {
		if c.store.policy == CorruptionReset {
			c.store.logger.Warn("corrupted document reset to empty", map[string]interface{}{
				"kind":  string(c.kind),
				"error": err.Error(),
				"bytes": len(current),
			})
			return []T{}, true, nil
		}
		c.store.logger.Error("corrupted document", map[string]interface{}{
			"kind":  string(c.kind),
			"error": err.Error(),
		})
		return nil, false, ErrStorageCorrupted.Wrap(fmt.Errorf("decoding %s: %w", c.kind, err))
	}
	if records == nil {
		return []T{}, true, nil
	}
	return records, false, nil
}

func encode[T any](records []T) ([]byte, error) {
	if records == nil {
		records = []T{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding records: %w", err)
	}
	return data, nil
}
