// Package store provides keyed in-memory stores with write-through
// persistence. Every mutation applies to the in-memory map first, then
// rewrites the entire durable representation; if the durable write fails the
// in-memory change is rolled back, so readers only ever observe fully-pre- or
// fully-post-mutation state.
package store

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
)

// Persister loads and saves the full contents of a store.
type Persister[T any] interface {
	Load() (map[string]T, error)
	Save(map[string]T) error
}

// Store is a keyed store guarded by a single per-instance lock. A mutating
// call holds the write lock across apply, persist, and rollback, so
// concurrent writers serialize and readers never see a partial write.
type Store[T any] struct {
	mu      sync.RWMutex
	items   map[string]T
	persist Persister[T]
	logger  *slog.Logger
}

// New creates a store populated from the persister's durable state.
func New[T any](p Persister[T], logger *slog.Logger) (*Store[T], error) {
	items, err := p.Load()
	if err != nil {
		return nil, fmt.Errorf("loading store: %w", err)
	}
	if items == nil {
		items = make(map[string]T)
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Store[T]{items: items, persist: p, logger: logger}, nil
}

// Get returns the value stored under id.
func (s *Store[T]) Get(id string) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.items[id]
	if !ok {
		var zero T
		return zero, ErrNotFound
	}
	return v, nil
}

// Put stores value under id and persists the whole store. On persist failure
// the previous value is restored (or the key removed if it was a fresh
// insert) before the error is returned.
func (s *Store[T]) Put(id string, value T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, existed := s.items[id]
	s.items[id] = value

	if err := s.persist.Save(s.items); err != nil {
		if existed {
			s.items[id] = prev
		} else {
			delete(s.items, id)
		}
		s.logger.Error("persist failed, rolled back put", "id", id, "error", err)
		return fmt.Errorf("persisting store: %w", err)
	}
	return nil
}

// Update applies fn to the current value under the write lock, stores the
// result, and persists. Rollback semantics match Put. The previous value and
// whether it existed are passed to fn.
func (s *Store[T]) Update(id string, fn func(prev T, exists bool) T) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, existed := s.items[id]
	next := fn(prev, existed)
	s.items[id] = next

	if err := s.persist.Save(s.items); err != nil {
		if existed {
			s.items[id] = prev
		} else {
			delete(s.items, id)
		}
		s.logger.Error("persist failed, rolled back update", "id", id, "error", err)
		var zero T
		return zero, fmt.Errorf("persisting store: %w", err)
	}
	return next, nil
}

// Delete removes the value stored under id and persists. On persist failure
// the removed value is re-inserted before the error is returned.
func (s *Store[T]) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.items[id]
	if !ok {
		return ErrNotFound
	}
	delete(s.items, id)

	if err := s.persist.Save(s.items); err != nil {
		s.items[id] = prev
		s.logger.Error("persist failed, rolled back delete", "id", id, "error", err)
		return fmt.Errorf("persisting store: %w", err)
	}
	return nil
}

// Snapshot returns a copy of the current contents for read-only iteration.
func (s *Store[T]) Snapshot() map[string]T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]T, len(s.items))
	for k, v := range s.items {
		out[k] = v
	}
	return out
}

// Len returns the number of stored values.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
