// Package cardstore owns the study sets and their cards.
package cardstore

import (
	"fmt"
	"time"

	"github.com/conorfennell/eqflash/internal/domain"
)

// DefaultSetName names the set a fresh store starts with.
const DefaultSetName = "My Cards"

// Store holds every study set in memory. It is not safe for concurrent use.
type Store struct {
	sets   []*domain.StudySet
	active int64
	now    func() time.Time
	lastID int64
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for ids and timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New creates a store holding a single empty default set.
func New(opts ...Option) *Store {
	s := &Store{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	set := s.newSet(domain.SetFields{Name: DefaultSetName})
	s.active = set.ID
	return s
}

// NewFromLibrary rebuilds a store from persisted data. An empty library
// yields the same state as New.
func NewFromLibrary(lib domain.Library, opts ...Option) *Store {
	if len(lib.Sets) == 0 {
		return New(opts...)
	}
	s := &Store{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	for _, set := range lib.Sets {
		cp := set.Clone()
		s.sets = append(s.sets, &cp)
		s.seenID(cp.ID)
		for _, c := range cp.Cards {
			s.seenID(c.ID)
		}
	}
	s.active = lib.ActiveSetID
	if s.setByID(s.active) == nil {
		s.active = s.sets[0].ID
	}
	return s
}

// Library returns a copy of the full collection for persistence.
func (s *Store) Library() domain.Library {
	lib := domain.Library{ActiveSetID: s.active, Sets: make([]domain.StudySet, len(s.sets))}
	for i, set := range s.sets {
		lib.Sets[i] = set.Clone()
	}
	return lib
}

// nextID returns the current time in milliseconds, bumped past the last
// issued id so ids stay strictly increasing.
func (s *Store) nextID() int64 {
	id := s.now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

// Reserve marks ids as taken, so cards that only exist outside the store
// (in undo history, for instance) are never reissued.
func (s *Store) Reserve(ids ...int64) {
	for _, id := range ids {
		s.seenID(id)
	}
}

func (s *Store) seenID(id int64) {
	if id > s.lastID {
		s.lastID = id
	}
}

func (s *Store) setByID(id int64) *domain.StudySet {
	for _, set := range s.sets {
		if set.ID == id {
			return set
		}
	}
	return nil
}

// locate finds the set and index holding the card.
func (s *Store) locate(id int64) (*domain.StudySet, int) {
	for _, set := range s.sets {
		for i := range set.Cards {
			if set.Cards[i].ID == id {
				return set, i
			}
		}
	}
	return nil, -1
}

func (s *Store) activeSet() *domain.StudySet {
	return s.setByID(s.active)
}

func notFound(kind string, id int64) error {
	return fmt.Errorf("%s %d: %w", kind, id, domain.ErrNotFound)
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidInput, fmt.Sprintf(format, args...))
}
