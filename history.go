package kilox

import "errors"

var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// Snapshot is the whole document plus the cursor at the moment it was taken.
type Snapshot struct {
	Lines  []string
	Cursor Cursor
}

// History keeps whole-document snapshots for undo and redo.
type History struct {
	undo []Snapshot
	redo []Snapshot
}

// Record pushes the state taken just before a mutation.
// Any redo entries belong to an abandoned branch and are dropped.
func (h *History) Record(s Snapshot) {
	h.undo = append(h.undo, s)
	h.redo = nil
}

// Undo pops the latest snapshot and saves current for redo.
func (h *History) Undo(current Snapshot) (Snapshot, error) {
	if len(h.undo) == 0 {
		return Snapshot{}, ErrNothingToUndo
	}
	last := len(h.undo) - 1
	s := h.undo[last]
	h.undo = h.undo[:last]
	h.redo = append(h.redo, current)
	return s, nil
}

// Redo pops the latest undone state and saves current for undo.
func (h *History) Redo(current Snapshot) (Snapshot, error) {
	if len(h.redo) == 0 {
		return Snapshot{}, ErrNothingToRedo
	}
	last := len(h.redo) - 1
	s := h.redo[last]
	h.redo = h.redo[:last]
	h.undo = append(h.undo, current)
	return s, nil
}

// CanUndo reports whether Undo would succeed.
func (h *History) CanUndo() bool { return len(h.undo) > 0 }

// CanRedo reports whether Redo would succeed.
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

// Clear forgets all history, as after loading a new file.
func (h *History) Clear() {
	h.undo = nil
	h.redo = nil
}
