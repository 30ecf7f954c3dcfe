package session

import "github.com/photomark/photomark/pkg/mark"

// History is a linear sequence of annotation-set snapshots with a cursor.
// The cursor is always a valid index; committing after an undo truncates the
// abandoned redo tail before appending.
type History struct {
	snapshots []mark.Set
	index     int
}

// NewHistory creates a history seeded with the initial set as its first
// snapshot.
func NewHistory(initial mark.Set) *History {
	return &History{snapshots: []mark.Set{initial.Clone()}}
}

// Push records a new snapshot after the cursor, discarding any snapshots
// beyond it.
func (h *History) Push(s mark.Set) {
	h.snapshots = append(h.snapshots[:h.index+1], s.Clone())
	h.index = len(h.snapshots) - 1
}

// Undo moves the cursor back one snapshot and returns it. The second return
// is false when already at the oldest snapshot.
func (h *History) Undo() (mark.Set, bool) {
	if h.index == 0 {
		return h.Current(), false
	}
	h.index--
	return h.Current(), true
}

// Redo moves the cursor forward one snapshot and returns it. The second
// return is false when already at the newest snapshot.
func (h *History) Redo() (mark.Set, bool) {
	if h.index >= len(h.snapshots)-1 {
		return h.Current(), false
	}
	h.index++
	return h.Current(), true
}

// Current returns a copy of the snapshot at the cursor.
func (h *History) Current() mark.Set {
	return h.snapshots[h.index].Clone()
}

// CanUndo reports whether an older snapshot exists.
func (h *History) CanUndo() bool { return h.index > 0 }

// CanRedo reports whether a newer snapshot exists.
func (h *History) CanRedo() bool { return h.index < len(h.snapshots)-1 }

// Len returns the number of snapshots.
func (h *History) Len() int { return len(h.snapshots) }
