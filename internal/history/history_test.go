package history_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/studiokit/studio/internal/history"
	"github.com/studiokit/studio/internal/project"
)

func snap(label string) history.Snapshot {
	return history.Snapshot{
		Components:  []project.Component{{ID: label, Kind: "button"}},
		Selected:    label,
		Description: "Update " + label,
	}
}

func labels(snaps []history.Snapshot) []string {
	out := make([]string, len(snaps))
	for i, s := range snaps {
		out[i] = s.Selected
	}
	return out
}

func TestHistory_Push(t *testing.T) {
	h := history.New(0)

	h.Push(snap("A"))
	h.Push(snap("B"))

	require.Equal(t, 2, h.UndoLen())
	require.Equal(t, 0, h.RedoLen())
}

func TestHistory_BoundedEviction(t *testing.T) {
	h := history.New(2)

	h.Push(snap("A"))
	h.Push(snap("B"))
	h.Push(snap("C"))

	require.Equal(t, []string{"B", "C"}, labels(h.UndoEntries()))

	// Undo returns B and moves C onto the redo stack.
	got, ok := h.Undo()
	require.True(t, ok)
	require.Equal(t, "B", got.Selected)
	require.Equal(t, []string{"C"}, labels(h.RedoEntries()))

	// A new push discards the redoable entry.
	h.Push(snap("D"))
	require.False(t, h.CanRedo())
}

func TestHistory_UndoNeedsTwoEntries(t *testing.T) {
	h := history.New(0)

	_, ok := h.Undo()
	require.False(t, ok)

	h.Push(snap("A"))
	_, ok = h.Undo()
	require.False(t, ok)
	require.Equal(t, 1, h.UndoLen())

	h.Push(snap("B"))
	got, ok := h.Undo()
	require.True(t, ok)
	require.Equal(t, "A", got.Selected)
}

func TestHistory_Redo(t *testing.T) {
	h := history.New(0)

	h.Push(snap("A"))
	h.Push(snap("B"))
	_, ok := h.Undo()
	require.True(t, ok)

	got, ok := h.Redo()
	require.True(t, ok)
	require.Equal(t, "B", got.Selected)
	require.Equal(t, 2, h.UndoLen())
	require.Equal(t, 0, h.RedoLen())

	_, ok = h.Redo()
	require.False(t, ok)
}

func TestHistory_RestoreToIndex(t *testing.T) {
	h := history.New(0)

	for _, label := range []string{"S0", "S1", "S2", "S3"} {
		h.Push(snap(label))
	}

	got, ok := h.RestoreToIndex(1)
	require.True(t, ok)
	require.Equal(t, "S1", got.Selected)
	require.Equal(t, []string{"S0", "S1"}, labels(h.UndoEntries()))
	// S3 was pushed to the redo stack first.
	require.Equal(t, []string{"S3", "S2"}, labels(h.RedoEntries()))

	// Redo walks forward in order.
	next, ok := h.Redo()
	require.True(t, ok)
	require.Equal(t, "S2", next.Selected)
}

func TestHistory_RestoreToIndexOutOfRange(t *testing.T) {
	h := history.New(0)
	h.Push(snap("A"))

	_, ok := h.RestoreToIndex(1)
	require.False(t, ok)
	_, ok = h.RestoreToIndex(-1)
	require.False(t, ok)
}

func TestHistory_CanUndoCanRedo(t *testing.T) {
	h := history.New(0)
	require.False(t, h.CanUndo())
	require.False(t, h.CanRedo())

	h.Push(snap("A"))
	require.False(t, h.CanUndo())

	h.Push(snap("B"))
	require.True(t, h.CanUndo())
	require.False(t, h.CanRedo())

	_, ok := h.Undo()
	require.True(t, ok)
	require.True(t, h.CanRedo())
}

func TestHistory_Clear(t *testing.T) {
	h := history.New(0)
	h.Push(snap("A"))
	h.Push(snap("B"))
	_, _ = h.Undo()

	h.Clear()
	require.Equal(t, 0, h.UndoLen())
	require.Equal(t, 0, h.RedoLen())
	require.False(t, h.CanUndo())
	require.False(t, h.CanRedo())
}
