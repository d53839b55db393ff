// Package study runs review sessions over a copy of a study set.
package study

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/conorfennell/eqflash/internal/domain"
	"github.com/conorfennell/eqflash/internal/mastery"
)

// CardSource is the canonical card collection outcomes are written back to.
type CardSource interface {
	Find(id int64) (domain.Card, bool)
	Studied(card domain.Card, at time.Time) error
}

// Progress describes where a session stands.
type Progress struct {
	Active   bool
	SetID    int64
	Position int // zero-based
	Total    int
	Known    int
	Learning int
}

// Engine is a study session state machine: Idle until Start, Active until
// the deck runs out. The deck is a copy, so shuffling and traversal never
// touch the stored card order.
type Engine struct {
	cards   CardSource
	now     func() time.Time
	permute func(n int, swap func(i, j int))

	active   bool
	setID    int64
	deck     []domain.Card
	pos      int
	total    int
	known    int
	learning int
	daily    domain.DailyStats
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the time source for review timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithRand makes shuffling deterministic.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) { e.permute = r.Shuffle }
}

// WithDaily seeds the studied-today counter.
func WithDaily(d domain.DailyStats) Option {
	return func(e *Engine) { e.daily = d }
}

// NewEngine returns an idle engine writing outcomes to cards.
func NewEngine(cards CardSource, opts ...Option) *Engine {
	e := &Engine{cards: cards, now: time.Now, permute: rand.Shuffle}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start begins a session over a copy of cards. An empty collection leaves
// the engine untouched.
func (e *Engine) Start(setID int64, cards []domain.Card, shuffle bool) error {
	if len(cards) == 0 {
		return domain.ErrEmptyCollection
	}
	deck := make([]domain.Card, len(cards))
	for i, c := range cards {
		deck[i] = c.Clone()
	}
	if shuffle {
		e.shuffleDeck(deck)
	}
	e.active = true
	e.setID = setID
	e.deck = deck
	e.pos = 0
	e.total = len(deck)
	e.known, e.learning = 0, 0
	return nil
}

// shuffleDeck applies a Fisher-Yates permutation: for i from the last index
// down to 1, swap with a uniform index in [0,i].
func (e *Engine) shuffleDeck(deck []domain.Card) {
	e.permute(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })
}

// Shuffle reorders the running deck and returns to its first card.
func (e *Engine) Shuffle() error {
	if !e.active || len(e.deck) == 0 {
		return domain.ErrEmptyCollection
	}
	e.shuffleDeck(e.deck)
	e.pos = 0
	return nil
}

// Active reports whether a session is running.
func (e *Engine) Active() bool { return e.active }

// Current returns the card under the cursor.
func (e *Engine) Current() (domain.Card, error) {
	if !e.active {
		return domain.Card{}, domain.ErrNoSession
	}
	return e.deck[e.pos].Clone(), nil
}

// Advance moves to the next card. When the deck is exhausted the session
// ends and ok is false.
func (e *Engine) Advance() (card domain.Card, ok bool) {
	if !e.active {
		return domain.Card{}, false
	}
	if e.pos+1 > len(e.deck)-1 {
		e.stop()
		return domain.Card{}, false
	}
	e.pos++
	return e.deck[e.pos].Clone(), true
}

// Retreat moves back one card, staying on the first card.
func (e *Engine) Retreat() {
	if e.active && e.pos > 0 {
		e.pos--
	}
}

// End abandons the session.
func (e *Engine) End() { e.stop() }

func (e *Engine) stop() {
	e.active = false
	e.deck = nil
	e.pos = 0
}

// RecordOutcome scores the current card against the stored original, not
// the deck copy, then advances. It returns the next card, or ok=false when
// the session is complete.
//
// A card no longer in the collection is dropped from the deck and ErrNotFound
// is returned; Current then yields the card that followed it, and the session
// ends if there is none.
func (e *Engine) RecordOutcome(outcome mastery.Outcome) (next domain.Card, ok bool, err error) {
	current, err := e.Current()
	if err != nil {
		return domain.Card{}, false, err
	}
	original, found := e.cards.Find(current.ID)
	if !found {
		e.drop()
		return domain.Card{}, false, fmt.Errorf("card %d: %w", current.ID, domain.ErrNotFound)
	}
	now := e.now()
	reviewed := mastery.Apply(original, outcome, now)
	if err := e.cards.Studied(reviewed, now); err != nil {
		return domain.Card{}, false, err
	}
	e.deck[e.pos] = reviewed
	e.daily = e.daily.Increment(now)
	if outcome == mastery.Known {
		e.known++
	} else {
		e.learning++
	}
	next, ok = e.Advance()
	return next, ok, nil
}

func (e *Engine) drop() {
	e.deck = slices.Delete(e.deck, e.pos, e.pos+1)
	e.total--
	if e.pos >= len(e.deck) {
		e.stop()
	}
}

// Progress returns the session position and tallies. Tallies of the last
// session remain readable after it completes.
func (e *Engine) Progress() Progress {
	return Progress{
		Active:   e.active,
		SetID:    e.setID,
		Position: e.pos,
		Total:    e.total,
		Known:    e.known,
		Learning: e.learning,
	}
}

// Daily returns the studied-today counter as of now.
func (e *Engine) Daily() domain.DailyStats {
	return e.daily.On(e.now())
}

// DailyRaw returns the counter as last written, for persistence.
func (e *Engine) DailyRaw() domain.DailyStats {
	return e.daily
}
