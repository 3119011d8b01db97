package commitlog_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/studiokit/studio/internal/commitlog"
	"github.com/studiokit/studio/internal/store"
)

type memPersister struct {
	saved    map[string][]commitlog.Commit
	failNext bool
}

func (p *memPersister) Load() (map[string][]commitlog.Commit, error) {
	return p.saved, nil
}

func (p *memPersister) Save(items map[string][]commitlog.Commit) error {
	if p.failNext {
		p.failNext = false
		return errors.New("disk full")
	}
	p.saved = make(map[string][]commitlog.Commit, len(items))
	for k, v := range items {
		p.saved[k] = append([]commitlog.Commit{}, v...)
	}
	return nil
}

func newLog(t *testing.T, p *memPersister) *commitlog.Log {
	t.Helper()
	st, err := store.New[[]commitlog.Commit](p, nil)
	require.NoError(t, err)
	return commitlog.NewLog(st, nil)
}

func TestLog_AppendAssignsUniqueIDs(t *testing.T) {
	log := newLog(t, &memPersister{})

	c1, err := log.Append("p1", "first", 1, json.RawMessage(`{"v":1}`))
	require.NoError(t, err)
	c2, err := log.Append("p1", "second", 2, json.RawMessage(`{"v":2}`))
	require.NoError(t, err)

	require.NotEmpty(t, c1.ID)
	require.NotEqual(t, c1.ID, c2.ID)
}

func TestLog_ListInsertionOrder(t *testing.T) {
	log := newLog(t, &memPersister{})

	for i, msg := range []string{"one", "two", "three"} {
		_, err := log.Append("p1", msg, float64(i), nil)
		require.NoError(t, err)
	}

	commits, err := log.List("p1")
	require.NoError(t, err)
	require.Len(t, commits, 3)
	require.Equal(t, "one", commits[0].Message)
	require.Equal(t, "two", commits[1].Message)
	require.Equal(t, "three", commits[2].Message)
}

func TestLog_ListMissingProjectIsEmpty(t *testing.T) {
	log := newLog(t, &memPersister{})

	commits, err := log.List("nope")
	require.NoError(t, err)
	require.Empty(t, commits)
}

func TestLog_AppendPersistFailureNotRetained(t *testing.T) {
	p := &memPersister{}
	log := newLog(t, p)

	_, err := log.Append("p1", "kept", 1, nil)
	require.NoError(t, err)

	p.failNext = true
	_, err = log.Append("p1", "dropped", 2, nil)
	require.Error(t, err)

	commits, err := log.List("p1")
	require.NoError(t, err)
	require.Len(t, commits, 1)
	require.Equal(t, "kept", commits[0].Message)
}

func TestLog_Clear(t *testing.T) {
	log := newLog(t, &memPersister{})

	_, err := log.Append("p1", "one", 1, nil)
	require.NoError(t, err)

	require.NoError(t, log.Clear("p1"))

	commits, err := log.List("p1")
	require.NoError(t, err)
	require.Empty(t, commits)
}

func TestLog_ClearMissing(t *testing.T) {
	log := newLog(t, &memPersister{})

	require.ErrorIs(t, log.Clear("nope"), commitlog.ErrNotFound)
}

func TestLog_ClearPersistFailureRestores(t *testing.T) {
	p := &memPersister{}
	log := newLog(t, p)

	_, err := log.Append("p1", "one", 1, nil)
	require.NoError(t, err)

	p.failNext = true
	require.Error(t, log.Clear("p1"))

	commits, err := log.List("p1")
	require.NoError(t, err)
	require.Len(t, commits, 1)
}
