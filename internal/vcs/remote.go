package vcs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/studiokit/studio/internal/project"
)

// RemoteBackend performs version-control operations against the studio
// server's commit endpoints. The server is the durable store; HEAD is the
// last commit in the list.
type RemoteBackend struct {
	baseURL   string
	projectID string
	client    *http.Client
	eq        Comparator
	logger    *slog.Logger
	now       func() float64
}

// RemoteOption customizes a RemoteBackend.
type RemoteOption func(*RemoteBackend)

// WithRemoteComparator replaces the dirty-check equality predicate.
func WithRemoteComparator(eq Comparator) RemoteOption {
	return func(b *RemoteBackend) { b.eq = eq }
}

// WithRemoteClock replaces the commit timestamp source.
func WithRemoteClock(now func() float64) RemoteOption {
	return func(b *RemoteBackend) { b.now = now }
}

// NewRemoteBackend creates a remote backend for one project.
func NewRemoteBackend(baseURL, projectID string, client *http.Client, logger *slog.Logger, opts ...RemoteOption) *RemoteBackend {
	if client == nil {
		client = http.DefaultClient
	}
	b := &RemoteBackend{
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		projectID: projectID,
		client:    client,
		eq:        DeepEqual,
		logger:    logger,
		now:       func() float64 { return float64(time.Now().UnixMilli()) },
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *RemoteBackend) commitsURL() string {
	return fmt.Sprintf("%s/api/projects/%s/commits", b.baseURL, b.projectID)
}

// fetchCommits lists the project's history, oldest first. A 404 means the
// project has no commits yet and is an empty list, not an error.
func (b *RemoteBackend) fetchCommits(ctx context.Context) ([]RepoCommit, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.commitsURL(), nil)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	resp, err := b.client.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &NetworkError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	var commits []RepoCommit
	if err := json.NewDecoder(resp.Body).Decode(&commits); err != nil {
		return nil, &SerializationError{Err: err}
	}
	return commits, nil
}

func headSnapshot(commits []RepoCommit) json.RawMessage {
	if len(commits) == 0 {
		return nil
	}
	return commits[len(commits)-1].Snapshot
}

// Status derives the repository state relative to the working snapshot.
func (b *RemoteBackend) Status(ctx context.Context, working *project.Project) (RepoStatus, error) {
	commits, err := b.fetchCommits(ctx)
	if err != nil {
		return RepoStatus{}, err
	}

	hasChanges := DirtyWith(b.eq, working, headSnapshot(commits))
	return RepoStatus{
		Branch:      DefaultBranch,
		CommitCount: len(commits),
		Clean:       !hasChanges,
		Active:      true,
		HasChanges:  hasChanges,
	}, nil
}

// Log returns commit infos newest first.
func (b *RemoteBackend) Log(ctx context.Context) ([]CommitInfo, error) {
	commits, err := b.fetchCommits(ctx)
	if err != nil {
		return nil, err
	}

	infos := make([]CommitInfo, 0, len(commits))
	for i := len(commits) - 1; i >= 0; i-- {
		c := commits[i]
		infos = append(infos, CommitInfo{ID: c.ID, Message: c.Message, Timestamp: c.Timestamp})
	}
	return infos, nil
}

// Commit posts the working snapshot as a new commit. The dirty check runs
// client-side before anything is sent, so a rejected commit has no side
// effects.
func (b *RemoteBackend) Commit(ctx context.Context, working *project.Project, message string) error {
	if strings.TrimSpace(message) == "" {
		return &ValidationError{Reason: "commit message cannot be empty"}
	}

	commits, err := b.fetchCommits(ctx)
	if err != nil {
		return err
	}
	if !DirtyWith(b.eq, working, headSnapshot(commits)) {
		return &ValidationError{Reason: "no changes to commit"}
	}

	payload, err := json.Marshal(map[string]any{
		"message":   message,
		"timestamp": b.now(),
		"snapshot":  working,
	})
	if err != nil {
		return &SerializationError{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.commitsURL(), bytes.NewReader(payload))
	if err != nil {
		return &NetworkError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &NetworkError{StatusCode: resp.StatusCode, Status: resp.Status}
	}
	return nil
}

// Push exports the server-side commit history as a serialized dump. The
// history is already durable on the server; the dump exists for manual
// backup.
func (b *RemoteBackend) Push(ctx context.Context) (string, bool, error) {
	commits, err := b.fetchCommits(ctx)
	if err != nil {
		return "", false, err
	}

	raw, err := json.MarshalIndent(commits, "", "  ")
	if err != nil {
		return "", false, &SerializationError{Err: err}
	}
	return string(raw), true, nil
}

// CloneRepo is a no-op: the server is the repository and has no local import
// notion. It must not fail.
func (b *RemoteBackend) CloneRepo(_ context.Context, _ string) error {
	return nil
}

// RestoreHead returns the HEAD commit's snapshot, or nil without commits.
func (b *RemoteBackend) RestoreHead(ctx context.Context) (*project.Project, error) {
	commits, err := b.fetchCommits(ctx)
	if err != nil {
		return nil, err
	}

	snapshot := headSnapshot(commits)
	if snapshot == nil {
		return nil, nil
	}
	var proj project.Project
	if err := json.Unmarshal(snapshot, &proj); err != nil {
		return nil, &SerializationError{Err: err}
	}
	return &proj, nil
}

// Reset clears the project's history on the server. A 404 means there was
// nothing to clear; reset stays idempotent.
func (b *RemoteBackend) Reset(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, b.commitsURL(), nil)
	if err != nil {
		return &NetworkError{Err: err}
	}
	resp, err := b.client.Do(req)
	if err != nil {
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusNotFound {
		return &NetworkError{StatusCode: resp.StatusCode, Status: resp.Status}
	}
	return nil
}
