// Package vcs gives the editor version control over project snapshots. One
// contract, two interchangeable backends: LocalBackend keeps the repository
// in the editor's local SQLite store, RemoteBackend talks to the studio
// server's commit endpoints. Both share the dirty-state evaluator, both
// return commit logs newest first, and both reject commits with an empty
// message or no changes before touching durable state.
package vcs

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/studiokit/studio/internal/config"
	"github.com/studiokit/studio/internal/project"
	"github.com/studiokit/studio/internal/sqlite"
)

// DefaultBranch is the only branch; branching is out of scope.
const DefaultBranch = "main"

// RepoStatus is derived on demand and never persisted.
type RepoStatus struct {
	Branch      string `json:"branch"`
	CommitCount int    `json:"commit_count"`
	Clean       bool   `json:"clean"`
	Active      bool   `json:"active"`
	HasChanges  bool   `json:"has_changes"`
}

// CommitInfo is the log entry view of a commit, without its snapshot.
type CommitInfo struct {
	ID        string  `json:"id"`
	Message   string  `json:"message"`
	Timestamp float64 `json:"timestamp"`
}

// Backend abstracts version-control operations so the editor doesn't couple
// to a storage location. Implementations must behave identically for every
// operation below; contract tests in this package hold them to it.
type Backend interface {
	// Status derives the repository state relative to the working snapshot.
	Status(ctx context.Context, working *project.Project) (RepoStatus, error)
	// Log returns commit infos newest first.
	Log(ctx context.Context) ([]CommitInfo, error)
	// Commit records the working snapshot under message. Fails with
	// ValidationError, with no durable mutation, when the message is blank
	// or nothing changed relative to HEAD.
	Commit(ctx context.Context, working *project.Project, message string) error
	// Push exports the commit history as a serialized dump for manual
	// backup. ok is false when the backend has nothing to export.
	Push(ctx context.Context) (dump string, ok bool, err error)
	// CloneRepo replaces the repository wholesale with the deserialized
	// blob. Backends with no local notion of import treat it as a no-op but
	// must not fail.
	CloneRepo(ctx context.Context, blob string) error
	// RestoreHead returns the HEAD commit's snapshot, or nil when no
	// commits exist.
	RestoreHead(ctx context.Context) (*project.Project, error)
	// Reset clears all commits and HEAD unconditionally. Idempotent.
	Reset(ctx context.Context) error
}

// New selects the backend implementation once from configuration.
func New(cfg config.GitConfig, projectID string, logger *slog.Logger) (Backend, error) {
	switch cfg.Backend {
	case "", "local":
		db, err := sqlite.New(cfg.LocalDBPath)
		if err != nil {
			return nil, fmt.Errorf("opening local repository: %w", err)
		}
		delay := time.Duration(cfg.LatencyMS) * time.Millisecond
		return NewLocalBackend(sqlite.NewRecordStore(db), delay, logger), nil
	case "remote":
		return NewRemoteBackend(cfg.RemoteURL, projectID, http.DefaultClient, logger), nil
	default:
		return nil, fmt.Errorf("unknown git backend %q", cfg.Backend)
	}
}
