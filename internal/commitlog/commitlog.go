// Package commitlog implements the server-side append-only commit history.
// Each project owns an ordered list of commits kept in an authoritative
// store keyed by project id. Commits are immutable once created; the list
// only ever grows by append or disappears by full clear.
package commitlog

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/studiokit/studio/internal/store"
)

// Commit pairs a message with a full project snapshot. Ordered by insertion
// within a project's log; ids are unique within the log.
type Commit struct {
	ID        string          `json:"id"`
	Message   string          `json:"message"`
	Timestamp float64         `json:"timestamp"`
	Snapshot  json.RawMessage `json:"snapshot"`
}

// Log exposes commit operations over a per-project store.
type Log struct {
	store  *store.Store[[]Commit]
	logger *slog.Logger
}

// NewLog creates a commit log service.
func NewLog(st *store.Store[[]Commit], logger *slog.Logger) *Log {
	return &Log{store: st, logger: logger}
}

// Append adds a commit to the project's history, creating the history if
// absent. The append and the durable write happen under the store's write
// lock; a failed persist leaves the history without the new commit.
func (l *Log) Append(projectID, message string, timestamp float64, snapshot json.RawMessage) (Commit, error) {
	commit := Commit{
		ID:        uuid.NewString(),
		Message:   message,
		Timestamp: timestamp,
		Snapshot:  snapshot,
	}

	_, err := l.store.Update(projectID, func(prev []Commit, _ bool) []Commit {
		next := make([]Commit, 0, len(prev)+1)
		next = append(next, prev...)
		return append(next, commit)
	})
	if err != nil {
		return Commit{}, fmt.Errorf("appending commit: %w", err)
	}
	return commit, nil
}

// List returns the project's commits in insertion order, oldest first. A
// project with no history yields an empty list. Presentation order
// (newest-first) is a caller-side concern.
func (l *Log) List(projectID string) ([]Commit, error) {
	commits, err := l.store.Get(projectID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return []Commit{}, nil
		}
		return nil, fmt.Errorf("listing commits: %w", err)
	}
	if commits == nil {
		commits = []Commit{}
	}
	return commits, nil
}

// Clear removes the project's entire history. On persist failure the
// removed list is restored before the error is returned.
func (l *Log) Clear(projectID string) error {
	if err := l.store.Delete(projectID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("clearing commits: %w", err)
	}
	return nil
}
