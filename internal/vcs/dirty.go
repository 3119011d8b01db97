package vcs

import (
	"encoding/json"
	"reflect"

	"github.com/studiokit/studio/internal/project"
)

// Comparator reports whether two decoded JSON values are equal. The default
// compares the entire snapshot; callers that need to ignore volatile fields
// (embedded settings, timestamps) can supply their own.
type Comparator func(working, head any) bool

// DeepEqual is the default comparator: canonical structural equality over the
// decoded JSON values, so key order and formatting don't matter.
func DeepEqual(working, head any) bool {
	return reflect.DeepEqual(working, head)
}

// Dirty reports whether the working project differs from the HEAD snapshot.
// Both backends use this for status and as the commit precondition; they
// must never diverge.
func Dirty(working *project.Project, head json.RawMessage) bool {
	return DirtyWith(DeepEqual, working, head)
}

// DirtyWith is Dirty with an explicit comparator.
//
// No working snapshot means there is nothing to compare: not dirty. No HEAD
// means any supplied working snapshot is dirty. Otherwise both sides are
// decoded to canonical values and compared structurally; a HEAD snapshot
// that fails to decode counts as dirty.
func DirtyWith(eq Comparator, working *project.Project, head json.RawMessage) bool {
	if working == nil {
		return false
	}
	if len(head) == 0 {
		return true
	}

	workingRaw, err := json.Marshal(working)
	if err != nil {
		return true
	}
	var workingVal, headVal any
	if err := json.Unmarshal(workingRaw, &workingVal); err != nil {
		return true
	}
	if err := json.Unmarshal(head, &headVal); err != nil {
		return true
	}
	return !eq(workingVal, headVal)
}
