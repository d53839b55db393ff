package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conorfennell/eqflash/internal/cardstore"
	"github.com/conorfennell/eqflash/internal/domain"
)

func newStore() *cardstore.Store {
	at := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	return cardstore.New(cardstore.WithClock(func() time.Time { return at }))
}

// create adds a card and records it the way the application does.
func create(t *testing.T, s *cardstore.Store, l *Log, eq string) domain.Card {
	t.Helper()
	c, err := s.Create(domain.CardFields{Equation: eq, Solution: "s"})
	require.NoError(t, err)
	set := s.ActiveSet()
	l.Record(Created(set.ID, c, len(set.Cards)-1))
	return c
}

func TestUndoRedoCreateRoundTrip(t *testing.T) {
	s := newStore()
	l := New(10)
	c := create(t, s, l, "2+2")

	e, ok, err := l.Undo(s)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, Create, e.Type)
	_, found := s.Find(c.ID)
	assert.False(t, found, "undo of create removes the card")

	_, ok, err = l.Redo(s)
	require.NoError(t, err)
	require.True(t, ok)
	got, found := s.Find(c.ID)
	require.True(t, found)
	assert.Equal(t, c, got, "redo reinserts the card with identical fields")
}

func TestUndoRedoEdit(t *testing.T) {
	s := newStore()
	l := New(10)
	c := create(t, s, l, "x+1=2")

	old, updated, err := s.Update(c.ID, domain.CardFields{Equation: "x+1=3", Solution: "x=2"})
	require.NoError(t, err)
	l.Record(Edited(old, updated))

	_, _, err = l.Undo(s)
	require.NoError(t, err)
	got, _ := s.Find(c.ID)
	assert.Equal(t, "x+1=2", got.Equation)

	_, _, err = l.Redo(s)
	require.NoError(t, err)
	got, _ = s.Find(c.ID)
	assert.Equal(t, "x+1=3", got.Equation)
}

// study records a review of the card the way the study engine does.
func study(t *testing.T, s *cardstore.Store, id int64) domain.Card {
	t.Helper()
	c, ok := s.Find(id)
	require.True(t, ok)
	at := time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC)
	c.Mastery++
	c.TimesStudied++
	c.LastStudied = &at
	require.NoError(t, s.Studied(c, at))
	return c
}

func TestUndoRedoEditKeepsStudyStats(t *testing.T) {
	s := newStore()
	l := New(10)
	c := create(t, s, l, "x+1=2")

	old, updated, err := s.Update(c.ID, domain.CardFields{Equation: "x+1=3", Solution: "x=2", Difficulty: domain.Hard})
	require.NoError(t, err)
	l.Record(Edited(old, updated))
	studied := study(t, s, c.ID)

	_, _, err = l.Undo(s)
	require.NoError(t, err)
	got, _ := s.Find(c.ID)
	assert.Equal(t, "x+1=2", got.Equation)
	assert.Equal(t, domain.Medium, got.Difficulty)
	assert.Equal(t, 1, got.Mastery, "undo of an edit keeps mastery")
	assert.Equal(t, 1, got.TimesStudied, "undo of an edit keeps the review count")
	assert.Equal(t, studied.LastStudied, got.LastStudied)

	_, _, err = l.Redo(s)
	require.NoError(t, err)
	got, _ = s.Find(c.ID)
	assert.Equal(t, "x+1=3", got.Equation)
	assert.Equal(t, 1, got.TimesStudied)
}

func TestUndoRedoCreateKeepsStudyStats(t *testing.T) {
	s := newStore()
	l := New(10)
	c := create(t, s, l, "2+2")
	study(t, s, c.ID)

	_, _, err := l.Undo(s)
	require.NoError(t, err)
	_, _, err = l.Redo(s)
	require.NoError(t, err)

	got, found := s.Find(c.ID)
	require.True(t, found)
	assert.Equal(t, 1, got.TimesStudied, "redo reinserts the card as it was removed")
	assert.Equal(t, 1, got.Mastery)
}

func TestUndoRedoDeleteRestoresPosition(t *testing.T) {
	s := newStore()
	l := New(10)
	a := create(t, s, l, "a")
	b := create(t, s, l, "b")
	c := create(t, s, l, "c")

	removed, setID, pos, err := s.Remove(b.ID)
	require.NoError(t, err)
	l.Record(Deleted(setID, removed, pos))

	_, _, err = l.Undo(s)
	require.NoError(t, err)
	ids := []int64{}
	for _, card := range s.List(domain.Filter{}) {
		ids = append(ids, card.ID)
	}
	assert.Equal(t, []int64{a.ID, b.ID, c.ID}, ids)

	_, _, err = l.Redo(s)
	require.NoError(t, err)
	_, found := s.Find(b.ID)
	assert.False(t, found)
}

func TestRedoDeleteSnapshotsLatestStats(t *testing.T) {
	s := newStore()
	l := New(10)
	c := create(t, s, l, "a")

	removed, setID, pos, err := s.Remove(c.ID)
	require.NoError(t, err)
	l.Record(Deleted(setID, removed, pos))

	_, _, err = l.Undo(s)
	require.NoError(t, err)
	study(t, s, c.ID)
	_, _, err = l.Redo(s)
	require.NoError(t, err)
	_, _, err = l.Undo(s)
	require.NoError(t, err)

	got, found := s.Find(c.ID)
	require.True(t, found)
	assert.Equal(t, 1, got.TimesStudied)
}

func TestUndoRedoAtBoundsAreNoops(t *testing.T) {
	s := newStore()
	l := New(10)

	_, ok, err := l.Undo(s)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, -1, l.Index())

	create(t, s, l, "a")
	_, ok, err = l.Redo(s)
	require.NoError(t, err)
	assert.False(t, ok, "nothing to redo at the end of the log")
	assert.Equal(t, 0, l.Index())
}

func TestRecordTruncatesRedoBranch(t *testing.T) {
	s := newStore()
	l := New(10)
	create(t, s, l, "a")
	b := create(t, s, l, "b")

	_, _, err := l.Undo(s)
	require.NoError(t, err)
	require.True(t, l.CanRedo())

	create(t, s, l, "c")
	assert.False(t, l.CanRedo(), "a fresh mutation discards the redo branch")
	assert.Equal(t, 2, l.Len())

	_, ok, err := l.Redo(s)
	require.NoError(t, err)
	assert.False(t, ok)
	_, found := s.Find(b.ID)
	assert.False(t, found, "the undone card is unreachable")
}

func TestRecordDropsOldestOnOverflow(t *testing.T) {
	s := newStore()
	l := New(3)
	first := create(t, s, l, "1")
	create(t, s, l, "2")
	create(t, s, l, "3")
	require.Equal(t, 2, l.Index())

	create(t, s, l, "4")
	assert.Equal(t, 3, l.Len(), "length never exceeds capacity")
	assert.Equal(t, 2, l.Index(), "cursor does not advance on overflow")
	assert.Equal(t, "2", l.State().Entries[0].Card.Equation, "exactly the oldest entry was dropped")

	for l.CanUndo() {
		_, _, err := l.Undo(s)
		require.NoError(t, err)
	}
	_, found := s.Find(first.ID)
	assert.True(t, found, "the forgotten create can no longer be undone")
	assert.Len(t, s.List(domain.Filter{}), 1)
}

func TestUndoFailureKeepsCursor(t *testing.T) {
	s := newStore()
	l := New(10)
	c := create(t, s, l, "a")
	_, _, _, err := s.Remove(c.ID)
	require.NoError(t, err)

	_, ok, err := l.Undo(s)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.False(t, ok)
	assert.Equal(t, 0, l.Index())
}

func TestSnapshotsDoNotAlias(t *testing.T) {
	s := newStore()
	l := New(10)
	c, err := s.Create(domain.CardFields{Equation: "a", Solution: "b"})
	require.NoError(t, err)
	e := Created(s.ActiveSet().ID, c, 0)
	l.Record(e)

	e.Card.Equation = "mutated"
	assert.Equal(t, "a", l.State().Entries[0].Card.Equation)
}

func TestRestore(t *testing.T) {
	s := newStore()
	l := New(10)
	create(t, s, l, "a")
	create(t, s, l, "b")
	_, _, err := l.Undo(s)
	require.NoError(t, err)

	restored := New(10)
	require.NoError(t, restored.Restore(l.State()))
	assert.Equal(t, l.State(), restored.State())
	assert.True(t, restored.CanRedo())

	t.Run("trims to capacity", func(t *testing.T) {
		small := New(1)
		require.NoError(t, small.Restore(l.State()))
		assert.Equal(t, 1, small.Len())
		assert.Equal(t, -1, small.Index())
	})

	t.Run("rejects bad cursor", func(t *testing.T) {
		err := New(10).Restore(State{Index: 3})
		assert.Error(t, err)
	})

	t.Run("rejects entry without snapshot", func(t *testing.T) {
		err := New(10).Restore(State{Index: 0, Entries: []Entry{{Type: Delete, CardID: 1}}})
		assert.Error(t, err)
	})
}
