package vcs_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/studiokit/studio/internal/project"
	"github.com/studiokit/studio/internal/vcs"
)

func TestDirty_NoWorkingSnapshot(t *testing.T) {
	// Nothing to compare: not dirty, with or without HEAD.
	require.False(t, vcs.Dirty(nil, nil))
	require.False(t, vcs.Dirty(nil, json.RawMessage(`{"name":"V1"}`)))
}

func TestDirty_NoHead(t *testing.T) {
	working := project.New("V1", nil)
	require.True(t, vcs.Dirty(working, nil))
}

func TestDirty_EqualIgnoresKeyOrder(t *testing.T) {
	working := &project.Project{
		ID:     "p1",
		Name:   "V1",
		Layout: []project.Component{{ID: "c1", Kind: "button"}},
	}

	head := json.RawMessage(`{
		"layout": [{"kind": "button", "id": "c1"}],
		"name": "V1",
		"last_modified": 0,
		"id": "p1"
	}`)
	require.False(t, vcs.Dirty(working, head))
}

func TestDirty_DetectsFieldChange(t *testing.T) {
	working := &project.Project{ID: "p1", Name: "V2"}
	head := json.RawMessage(`{"id":"p1","name":"V1","layout":null,"last_modified":0}`)
	require.True(t, vcs.Dirty(working, head))
}

func TestDirty_DetectsNestedChange(t *testing.T) {
	working := &project.Project{
		ID:   "p1",
		Name: "V1",
		Layout: []project.Component{{
			ID:       "root",
			Kind:     "container",
			Children: []project.Component{{ID: "c1", Kind: "text", Props: map[string]any{"value": "after"}}},
		}},
	}
	head := json.RawMessage(`{
		"id": "p1", "name": "V1", "last_modified": 0,
		"layout": [{
			"id": "root", "kind": "container",
			"children": [{"id": "c1", "kind": "text", "props": {"value": "before"}}]
		}]
	}`)
	require.True(t, vcs.Dirty(working, head))
}

func TestDirty_MalformedHeadCountsAsDirty(t *testing.T) {
	working := project.New("V1", nil)
	require.True(t, vcs.Dirty(working, json.RawMessage(`{broken`)))
}

func TestDirtyWith_CustomComparator(t *testing.T) {
	// A comparator that ignores last_modified sees the snapshots as equal.
	ignoreLastModified := func(working, head any) bool {
		w, _ := working.(map[string]any)
		h, _ := head.(map[string]any)
		if w == nil || h == nil {
			return vcs.DeepEqual(working, head)
		}
		delete(w, "last_modified")
		delete(h, "last_modified")
		return vcs.DeepEqual(w, h)
	}

	working := &project.Project{ID: "p1", Name: "V1", LastModified: 99}
	head := json.RawMessage(`{"id":"p1","name":"V1","layout":null,"last_modified":1}`)

	require.True(t, vcs.Dirty(working, head))
	require.False(t, vcs.DirtyWith(ignoreLastModified, working, head))
}
