// Package history records drawn updates and the undo/redo stacks built on
// top of them.
package history

import (
	"github.com/example/drawpad/internal/coords"
	"github.com/example/drawpad/internal/update"
)

// Store holds every drawn update in draw order. Undone strokes stay in the
// history with their updates marked invisible.
type Store struct {
	entries []*update.Update
	undo    []string
	redo    []string
	last    map[string]coords.Point
}

func New() *Store {
	return &Store{last: make(map[string]coords.Point)}
}

// Append records u. drawnAt is the device position it was painted at and is
// used to connect the next segment of the same stroke.
func (s *Store) Append(u *update.Update, drawnAt coords.Point) {
	s.entries = append(s.entries, u)
	switch u.Type() {
	case update.Start, update.Drag:
		s.last[u.UUID()] = drawnAt
	case update.Stop:
		if u.Visible() {
			s.undo = append(s.undo, u.UUID())
			delete(s.last, u.UUID())
		}
	}
}

// LastPosition returns the most recent device position of an active stroke.
func (s *Store) LastPosition(id string) (coords.Point, bool) {
	p, ok := s.last[id]
	return p, ok
}

// Undo hides the most recent visible stroke. It reports false when there is
// nothing to undo.
func (s *Store) Undo() (string, bool) {
	if len(s.undo) == 0 {
		return "", false
	}
	id := s.undo[len(s.undo)-1]
	s.undo = s.undo[:len(s.undo)-1]
	s.redo = append(s.redo, id)
	s.setVisible(id, false)
	return id, true
}

// Redo shows the most recently undone stroke again.
func (s *Store) Redo() (string, bool) {
	if len(s.redo) == 0 {
		return "", false
	}
	id := s.redo[len(s.redo)-1]
	s.redo = s.redo[:len(s.redo)-1]
	s.undo = append(s.undo, id)
	s.setVisible(id, true)
	return id, true
}

func (s *Store) setVisible(id string, v bool) {
	for _, u := range s.entries {
		if u.UUID() == id {
			u.SetVisible(v)
		}
	}
}

// Clear drops the history and both stacks.
func (s *Store) Clear() {
	s.Reset()
	s.redo = nil
}

// Reset drops the history and the undo stack but keeps the redo stack. A
// replay calls it before drawing the history again, which rebuilds the undo
// stack from the visible Stop updates.
func (s *Store) Reset() {
	s.entries = nil
	s.undo = nil
	clear(s.last)
}

// Snapshot returns a copy of the history slice. The updates are shared.
func (s *Store) Snapshot() []*update.Update {
	out := make([]*update.Update, len(s.entries))
	copy(out, s.entries)
	return out
}

// Visible reports whether any update of the stroke is visible.
func (s *Store) Visible(id string) bool {
	for _, u := range s.entries {
		if u.UUID() == id {
			return u.Visible()
		}
	}
	return false
}

func (s *Store) Len() int       { return len(s.entries) }
func (s *Store) UndoDepth() int { return len(s.undo) }
func (s *Store) RedoDepth() int { return len(s.redo) }

// CanUndo and CanRedo drive toolbar state.
func (s *Store) CanUndo() bool { return len(s.undo) > 0 }
func (s *Store) CanRedo() bool { return len(s.redo) > 0 }
