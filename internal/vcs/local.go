package vcs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/studiokit/studio/internal/project"
	"github.com/studiokit/studio/internal/sqlite"
)

// repoNamespace is the record key the local repository lives under.
const repoNamespace = "studio.git.repo"

// RepoCommit is a commit as stored by the local backend and returned by the
// server's commit endpoints.
type RepoCommit struct {
	ID        string          `json:"id"`
	Message   string          `json:"message"`
	Timestamp float64         `json:"timestamp"`
	Snapshot  json.RawMessage `json:"snapshot"`
}

// RepositoryState is the persisted shape of the local repository: the commit
// list plus an explicit HEAD pointer. Head, when set, refers to a commit in
// Commits.
type RepositoryState struct {
	Commits []RepoCommit `json:"commits"`
	Head    *string      `json:"head"`
}

func (r RepositoryState) headSnapshot() json.RawMessage {
	if r.Head == nil {
		return nil
	}
	for _, c := range r.Commits {
		if c.ID == *r.Head {
			return c.Snapshot
		}
	}
	return nil
}

// LocalBackend keeps the repository in the editor's local SQLite store as a
// single namespaced record. Every operation waits a fixed delay first,
// mirroring the asynchronous I/O latency of a real remote.
type LocalBackend struct {
	records *sqlite.RecordStore
	ns      string
	delay   time.Duration
	eq      Comparator
	logger  *slog.Logger
	now     func() float64
}

// LocalOption customizes a LocalBackend.
type LocalOption func(*LocalBackend)

// WithComparator replaces the dirty-check equality predicate.
func WithComparator(eq Comparator) LocalOption {
	return func(b *LocalBackend) { b.eq = eq }
}

// WithClock replaces the commit timestamp source.
func WithClock(now func() float64) LocalOption {
	return func(b *LocalBackend) { b.now = now }
}

// NewLocalBackend creates a local backend over the given record store.
func NewLocalBackend(records *sqlite.RecordStore, delay time.Duration, logger *slog.Logger, opts ...LocalOption) *LocalBackend {
	b := &LocalBackend{
		records: records,
		ns:      repoNamespace,
		delay:   delay,
		eq:      DeepEqual,
		logger:  logger,
		now:     func() float64 { return float64(time.Now().UnixMilli()) },
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *LocalBackend) wait(ctx context.Context) error {
	if b.delay <= 0 {
		return ctx.Err()
	}
	select {
	case <-time.After(b.delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (b *LocalBackend) load(ctx context.Context) (RepositoryState, error) {
	raw, err := b.records.Get(ctx, b.ns)
	if errors.Is(err, sqlite.ErrNotFound) {
		return RepositoryState{}, nil
	}
	if err != nil {
		return RepositoryState{}, &StorageError{Op: "load", Err: err}
	}

	var repo RepositoryState
	if err := json.Unmarshal([]byte(raw), &repo); err != nil {
		return RepositoryState{}, &SerializationError{Err: err}
	}
	return repo, nil
}

func (b *LocalBackend) save(ctx context.Context, repo RepositoryState) error {
	raw, err := json.Marshal(repo)
	if err != nil {
		return &SerializationError{Err: err}
	}
	if err := b.records.Put(ctx, b.ns, string(raw)); err != nil {
		return &StorageError{Op: "save", Err: err}
	}
	return nil
}

// Status derives the repository state relative to the working snapshot.
func (b *LocalBackend) Status(ctx context.Context, working *project.Project) (RepoStatus, error) {
	if err := b.wait(ctx); err != nil {
		return RepoStatus{}, err
	}
	repo, err := b.load(ctx)
	if err != nil {
		return RepoStatus{}, err
	}

	hasChanges := DirtyWith(b.eq, working, repo.headSnapshot())
	return RepoStatus{
		Branch:      DefaultBranch,
		CommitCount: len(repo.Commits),
		Clean:       !hasChanges,
		Active:      true,
		HasChanges:  hasChanges,
	}, nil
}

// Log returns commit infos newest first.
func (b *LocalBackend) Log(ctx context.Context) ([]CommitInfo, error) {
	if err := b.wait(ctx); err != nil {
		return nil, err
	}
	repo, err := b.load(ctx)
	if err != nil {
		return nil, err
	}

	infos := make([]CommitInfo, 0, len(repo.Commits))
	for i := len(repo.Commits) - 1; i >= 0; i-- {
		c := repo.Commits[i]
		infos = append(infos, CommitInfo{ID: c.ID, Message: c.Message, Timestamp: c.Timestamp})
	}
	return infos, nil
}

// Commit appends the working snapshot and advances HEAD to it.
func (b *LocalBackend) Commit(ctx context.Context, working *project.Project, message string) error {
	if strings.TrimSpace(message) == "" {
		return &ValidationError{Reason: "commit message cannot be empty"}
	}
	if err := b.wait(ctx); err != nil {
		return err
	}

	repo, err := b.load(ctx)
	if err != nil {
		return err
	}
	if !DirtyWith(b.eq, working, repo.headSnapshot()) {
		return &ValidationError{Reason: "no changes to commit"}
	}

	snapshot, err := json.Marshal(working)
	if err != nil {
		return &SerializationError{Err: err}
	}

	commit := RepoCommit{
		ID:        uuid.NewString(),
		Message:   message,
		Timestamp: b.now(),
		Snapshot:  snapshot,
	}
	repo.Commits = append(repo.Commits, commit)
	repo.Head = &commit.ID

	return b.save(ctx, repo)
}

// Push exports the whole repository as a serialized dump.
func (b *LocalBackend) Push(ctx context.Context) (string, bool, error) {
	if err := b.wait(ctx); err != nil {
		return "", false, err
	}
	repo, err := b.load(ctx)
	if err != nil {
		return "", false, err
	}

	raw, err := json.MarshalIndent(repo, "", "  ")
	if err != nil {
		return "", false, &SerializationError{Err: err}
	}
	return string(raw), true, nil
}

// CloneRepo replaces the repository wholesale with the blob's content.
func (b *LocalBackend) CloneRepo(ctx context.Context, blob string) error {
	if err := b.wait(ctx); err != nil {
		return err
	}

	var repo RepositoryState
	if err := json.Unmarshal([]byte(blob), &repo); err != nil {
		return &SerializationError{Err: err}
	}
	return b.save(ctx, repo)
}

// RestoreHead returns the HEAD commit's snapshot, or nil without commits.
func (b *LocalBackend) RestoreHead(ctx context.Context) (*project.Project, error) {
	if err := b.wait(ctx); err != nil {
		return nil, err
	}
	repo, err := b.load(ctx)
	if err != nil {
		return nil, err
	}

	snapshot := repo.headSnapshot()
	if snapshot == nil {
		return nil, nil
	}
	var proj project.Project
	if err := json.Unmarshal(snapshot, &proj); err != nil {
		return nil, &SerializationError{Err: err}
	}
	return &proj, nil
}

// Reset clears all commits and HEAD. Idempotent.
func (b *LocalBackend) Reset(ctx context.Context) error {
	if err := b.wait(ctx); err != nil {
		return err
	}
	return b.save(ctx, RepositoryState{})
}
