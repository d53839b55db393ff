// Package app ties the card store, study engine and history log into one
// application state and keeps it persisted.
package app

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/conorfennell/eqflash/internal/cardstore"
	"github.com/conorfennell/eqflash/internal/domain"
	"github.com/conorfennell/eqflash/internal/history"
	"github.com/conorfennell/eqflash/internal/importer"
	"github.com/conorfennell/eqflash/internal/storage"
	"github.com/conorfennell/eqflash/internal/study"
)

// Persister loads and saves application state.
type Persister interface {
	Load() (storage.Snapshot, bool, error)
	Save(storage.Snapshot) error
}

// Observer is called with a fresh view after every operation that changes
// what the user sees.
type Observer func(View)

// Options configures a State. The zero value is usable.
type Options struct {
	MaxHistory int
	Logger     *slog.Logger
	Observer   Observer
	Importer   *importer.Importer
	Clock      func() time.Time
	Rand       *rand.Rand
}

// State is the whole application. It is driven from a single goroutine.
type State struct {
	store    *cardstore.Store
	engine   *study.Engine
	history  *history.Log
	persist  Persister
	observer Observer
	importer *importer.Importer
	log      *slog.Logger
	now      func() time.Time
	filter   domain.Filter
}

// New loads persisted state through p and returns the application.
func New(p Persister, opts Options) (*State, error) {
	snap, found, err := p.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load state: %w", err)
	}

	s := &State{
		persist:  p,
		observer: opts.Observer,
		importer: opts.Importer,
		log:      opts.Logger,
		now:      opts.Clock,
		history:  history.New(opts.MaxHistory),
		filter:   domain.Filter{Difficulty: domain.DifficultyAll},
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.importer == nil {
		s.importer = &importer.Importer{}
	}
	if s.importer.Logger == nil {
		s.importer.Logger = s.log
	}

	s.store = cardstore.NewFromLibrary(snap.Library, cardstore.WithClock(s.now))

	engineOpts := []study.Option{study.WithClock(s.now), study.WithDaily(snap.Daily)}
	if opts.Rand != nil {
		engineOpts = append(engineOpts, study.WithRand(opts.Rand))
	}
	s.engine = study.NewEngine(s.store, engineOpts...)

	if found && len(snap.History.Entries) > 0 {
		if err := s.history.Restore(snap.History); err != nil {
			return nil, fmt.Errorf("failed to restore history: %w", err)
		}
		s.store.Reserve(s.history.CardIDs()...)
	}

	s.log.Debug("state loaded",
		"found", found,
		"sets", len(snap.Library.Sets),
		"history_entries", s.history.Len(),
	)
	return s, nil
}

// save persists the current state. Failures are logged and the in-memory
// change stands.
func (s *State) save() {
	snap := storage.Snapshot{
		Library: s.store.Library(),
		Daily:   s.engine.DailyRaw(),
		History: s.history.State(),
	}
	if err := s.persist.Save(snap); err != nil {
		s.log.Warn("failed to save state", "error", err)
	}
}

func (s *State) notify(msg string) {
	if s.observer != nil {
		s.observer(s.View(msg))
	}
}

// commit persists and re-renders after a successful mutation.
func (s *State) commit(msg string) {
	s.save()
	s.notify(msg)
}
