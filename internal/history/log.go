package history

import (
	"fmt"
	"slices"

	"github.com/conorfennell/eqflash/internal/domain"
)

// Target is the card collection entries are replayed against.
type Target interface {
	Insert(setID int64, card domain.Card, pos int) error
	Remove(id int64) (card domain.Card, setID int64, pos int, err error)
	Update(id int64, fields domain.CardFields) (old, updated domain.Card, err error)
}

// Log is a linear journal with a cursor. index is in [-1, len-1]; -1 means
// there is nothing to undo.
//
// When a record overflows the capacity the oldest entry is dropped and the
// cursor stays where it is, so that mutation can no longer be undone.
type Log struct {
	entries []Entry
	index   int
	max     int
}

// State is the serialisable form of a Log.
type State struct {
	Entries []Entry `json:"entries"`
	Index   int     `json:"index"`
}

// New returns an empty log holding at most maxSize entries. A non-positive
// size selects DefaultMaxSize.
func New(maxSize int) *Log {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	return &Log{index: -1, max: maxSize}
}

// Record appends an entry. Any redo branch beyond the cursor is discarded
// first; undo/redo is strictly linear.
func (l *Log) Record(e Entry) {
	if l.index < len(l.entries)-1 {
		l.entries = slices.Delete(l.entries, l.index+1, len(l.entries))
	}
	l.entries = append(l.entries, e.clone())
	if len(l.entries) > l.max {
		l.entries = slices.Delete(l.entries, 0, 1)
		return
	}
	l.index++
}

// Undo reverts the entry under the cursor and moves the cursor back. It
// returns ok=false when there is nothing to undo. If the target refuses the
// change the cursor does not move.
func (l *Log) Undo(t Target) (e Entry, ok bool, err error) {
	if !l.CanUndo() {
		return Entry{}, false, nil
	}
	e, err = revert(t, l.entries[l.index])
	if err != nil {
		return Entry{}, false, fmt.Errorf("undo %s: %w", e.Type, err)
	}
	l.entries[l.index] = e
	l.index--
	return e.clone(), true, nil
}

// Redo re-applies the entry after the cursor and moves the cursor forward.
func (l *Log) Redo(t Target) (e Entry, ok bool, err error) {
	if !l.CanRedo() {
		return Entry{}, false, nil
	}
	e, err = apply(t, l.entries[l.index+1])
	if err != nil {
		return Entry{}, false, fmt.Errorf("redo %s: %w", e.Type, err)
	}
	l.entries[l.index+1] = e
	l.index++
	return e.clone(), true, nil
}

// revert and apply replay e against t. Edits only touch the editable fields.
// A card taken out of the collection is re-snapshotted, so putting it back
// keeps its study stats.
func revert(t Target, e Entry) (Entry, error) {
	switch e.Type {
	case Create:
		removed, _, _, err := t.Remove(e.CardID)
		if err != nil {
			return e, err
		}
		e.Card = snapshot(removed)
		return e, nil
	case Delete:
		return e, t.Insert(e.SetID, *e.Card, e.Position)
	case Edit:
		_, _, err := t.Update(e.CardID, e.OldCard.Fields())
		return e, err
	}
	return e, fmt.Errorf("unknown history entry type %q", e.Type)
}

func apply(t Target, e Entry) (Entry, error) {
	switch e.Type {
	case Create:
		return e, t.Insert(e.SetID, *e.Card, e.Position)
	case Delete:
		removed, _, pos, err := t.Remove(e.CardID)
		if err != nil {
			return e, err
		}
		e.Card = snapshot(removed)
		e.Position = pos
		return e, nil
	case Edit:
		_, _, err := t.Update(e.CardID, e.NewCard.Fields())
		return e, err
	}
	return e, fmt.Errorf("unknown history entry type %q", e.Type)
}

// CanUndo reports whether an entry is available to undo.
func (l *Log) CanUndo() bool { return l.index >= 0 }

// CanRedo reports whether an undone entry is available to redo.
func (l *Log) CanRedo() bool { return l.index < len(l.entries)-1 }

// Len returns the number of entries held.
func (l *Log) Len() int { return len(l.entries) }

// Index returns the cursor.
func (l *Log) Index() int { return l.index }

// CardIDs returns the id of every card the journal refers to.
func (l *Log) CardIDs() []int64 {
	ids := make([]int64, len(l.entries))
	for i, e := range l.entries {
		ids[i] = e.CardID
	}
	return ids
}

// Clear drops every entry.
func (l *Log) Clear() {
	l.entries = nil
	l.index = -1
}

// State returns a copy of the journal for persistence.
func (l *Log) State() State {
	st := State{Index: l.index, Entries: make([]Entry, len(l.entries))}
	for i, e := range l.entries {
		st.Entries[i] = e.clone()
	}
	return st
}

// Restore replaces the journal with persisted state. Entries beyond the
// capacity are trimmed from the oldest end, shifting the cursor with them.
func (l *Log) Restore(st State) error {
	if st.Index < -1 || st.Index >= len(st.Entries) {
		return fmt.Errorf("history index %d out of range for %d entries", st.Index, len(st.Entries))
	}
	for _, e := range st.Entries {
		if err := e.validate(); err != nil {
			return err
		}
	}
	entries := make([]Entry, len(st.Entries))
	for i, e := range st.Entries {
		entries[i] = e.clone()
	}
	index := st.Index
	if over := len(entries) - l.max; over > 0 {
		entries = entries[over:]
		index = max(index-over, -1)
	}
	l.entries = entries
	l.index = index
	return nil
}
