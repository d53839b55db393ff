package app

import (
	"errors"

	"github.com/conorfennell/eqflash/internal/domain"
	"github.com/conorfennell/eqflash/internal/mastery"
)

// StartStudy begins a session over the active set.
func (s *State) StartStudy(shuffle bool) (domain.Card, error) {
	set := s.store.ActiveSet()
	if err := s.engine.Start(set.ID, set.Cards, shuffle); err != nil {
		return domain.Card{}, err
	}
	s.log.Info("study session started", "set_id", set.ID, "cards", len(set.Cards), "shuffle", shuffle)
	s.notify("")
	return s.engine.Current()
}

// CurrentCard returns the card being studied.
func (s *State) CurrentCard() (domain.Card, error) {
	return s.engine.Current()
}

// NextCard moves forward. ok is false once the session has completed.
func (s *State) NextCard() (domain.Card, bool) {
	if !s.engine.Active() {
		return domain.Card{}, false
	}
	card, ok := s.engine.Advance()
	s.notify(completion(ok))
	return card, ok
}

// PrevCard moves back one card.
func (s *State) PrevCard() (domain.Card, error) {
	s.engine.Retreat()
	card, err := s.engine.Current()
	if err == nil {
		s.notify("")
	}
	return card, err
}

// ShuffleDeck reshuffles the running session.
func (s *State) ShuffleDeck() (domain.Card, error) {
	if err := s.engine.Shuffle(); err != nil {
		return domain.Card{}, err
	}
	s.notify("Cards shuffled!")
	return s.engine.Current()
}

// Mark records the outcome for the current card and moves on. ok is false
// once the session has completed. A card deleted mid-session is skipped and
// reported as ErrNotFound.
func (s *State) Mark(outcome mastery.Outcome) (next domain.Card, ok bool, err error) {
	current, err := s.engine.Current()
	if err != nil {
		return domain.Card{}, false, err
	}
	next, ok, err = s.engine.RecordOutcome(outcome)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// The card was dropped from the deck.
			s.notify("")
		}
		return domain.Card{}, false, err
	}
	s.log.Debug("outcome recorded", "card_id", current.ID, "outcome", outcome)
	if !ok {
		p := s.engine.Progress()
		s.log.Info("study session complete", "set_id", p.SetID, "known", p.Known, "learning", p.Learning)
	}
	s.commit(completion(ok))
	return next, ok, nil
}

// EndStudy abandons the running session.
func (s *State) EndStudy() {
	s.engine.End()
	s.notify("")
}

func completion(ok bool) string {
	if ok {
		return ""
	}
	return "Session complete!"
}
