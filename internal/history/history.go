// Package history provides bounded undo/redo over canvas snapshots.
//
// The history is two stacks. Recording an edit pushes a snapshot onto the
// undo stack and clears the redo stack; undo moves the top of the undo stack
// onto the redo stack and exposes the state beneath it. The top of the undo
// stack is always the current state, which is why undo needs at least two
// entries. All operations are synchronous and do no I/O; the type is meant
// for a single editing goroutine.
package history

import "github.com/studiokit/studio/internal/project"

// DefaultMaxSize bounds the undo stack unless overridden.
const DefaultMaxSize = 50

// Snapshot captures canvas state at a point in time. Immutable once pushed.
type Snapshot struct {
	Components  []project.Component `json:"components"`
	Selected    string              `json:"selected,omitempty"`
	Timestamp   float64             `json:"timestamp"`
	Description string              `json:"description"`
}

// History manages undo/redo state.
type History struct {
	undoStack []Snapshot
	redoStack []Snapshot
	maxSize   int
}

// New creates a history bounded to maxSize undo entries. Non-positive sizes
// fall back to DefaultMaxSize.
func New(maxSize int) *History {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	return &History{maxSize: maxSize}
}

// Push records a snapshot. Any redoable entries are discarded; the oldest
// undo entry is evicted once the stack exceeds its bound.
func (h *History) Push(s Snapshot) {
	h.redoStack = nil
	h.undoStack = append(h.undoStack, s)

	if len(h.undoStack) > h.maxSize {
		excess := len(h.undoStack) - h.maxSize
		h.undoStack = append([]Snapshot{}, h.undoStack[excess:]...)
	}
}

// Undo moves the current state onto the redo stack and returns the state
// beneath it. Reports false when fewer than two entries exist.
func (h *History) Undo() (Snapshot, bool) {
	if len(h.undoStack) < 2 {
		return Snapshot{}, false
	}

	top := h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	h.redoStack = append(h.redoStack, top)

	return h.undoStack[len(h.undoStack)-1], true
}

// Redo reapplies the most recently undone snapshot and returns it. Reports
// false when nothing is redoable.
func (h *History) Redo() (Snapshot, bool) {
	if len(h.redoStack) == 0 {
		return Snapshot{}, false
	}

	top := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	h.undoStack = append(h.undoStack, top)

	return top, true
}

// RestoreToIndex jumps back to the undo entry at index (oldest-first). Every
// newer entry moves to the redo stack, newest pushed first, so a later Redo
// walks forward in order. Returns the entry now on top of the undo stack, or
// false when the index is out of range.
func (h *History) RestoreToIndex(index int) (Snapshot, bool) {
	if index < 0 || index >= len(h.undoStack) {
		return Snapshot{}, false
	}

	for len(h.undoStack) > index+1 {
		top := h.undoStack[len(h.undoStack)-1]
		h.undoStack = h.undoStack[:len(h.undoStack)-1]
		h.redoStack = append(h.redoStack, top)
	}

	return h.undoStack[len(h.undoStack)-1], true
}

// CanUndo reports whether an undo target exists beneath the current state.
func (h *History) CanUndo() bool {
	return len(h.undoStack) > 1
}

// CanRedo reports whether any undone snapshot can be reapplied.
func (h *History) CanRedo() bool {
	return len(h.redoStack) > 0
}

// Clear empties both stacks.
func (h *History) Clear() {
	h.undoStack = nil
	h.redoStack = nil
}

// UndoEntries returns a copy of the undo stack, oldest first. Used by the
// history panel to render the timeline.
func (h *History) UndoEntries() []Snapshot {
	return append([]Snapshot{}, h.undoStack...)
}

// RedoEntries returns a copy of the redo stack in pop order, next redo last.
func (h *History) RedoEntries() []Snapshot {
	return append([]Snapshot{}, h.redoStack...)
}

// UndoLen returns the number of entries on the undo stack.
func (h *History) UndoLen() int { return len(h.undoStack) }

// RedoLen returns the number of entries on the redo stack.
func (h *History) RedoLen() int { return len(h.redoStack) }
