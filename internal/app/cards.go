package app

import (
	"fmt"

	"github.com/conorfennell/eqflash/internal/domain"
	"github.com/conorfennell/eqflash/internal/history"
)

// CreateCard adds a card to the active set.
func (s *State) CreateCard(fields domain.CardFields) (domain.Card, error) {
	card, err := s.store.Create(fields)
	if err != nil {
		return domain.Card{}, err
	}
	set := s.store.ActiveSet()
	s.history.Record(history.Created(set.ID, card, len(set.Cards)-1))
	s.log.Info("card created", "id", card.ID, "set_id", set.ID)
	s.commit("Flashcard created successfully!")
	return card, nil
}

// EditCard replaces the equation, solution and difficulty of a card.
func (s *State) EditCard(id int64, fields domain.CardFields) (domain.Card, error) {
	old, updated, err := s.store.Update(id, fields)
	if err != nil {
		return domain.Card{}, err
	}
	s.history.Record(history.Edited(old, updated))
	s.log.Info("card updated", "id", id)
	s.commit("Flashcard updated successfully!")
	return updated, nil
}

// DeleteCard removes a card.
func (s *State) DeleteCard(id int64) (domain.Card, error) {
	card, setID, pos, err := s.store.Remove(id)
	if err != nil {
		return domain.Card{}, err
	}
	s.history.Record(history.Deleted(setID, card, pos))
	s.log.Info("card deleted", "id", id, "set_id", setID)
	s.commit("Flashcard deleted.")
	return card, nil
}

// Card returns a single card from any set.
func (s *State) Card(id int64) (domain.Card, error) {
	card, ok := s.store.Find(id)
	if !ok {
		return domain.Card{}, fmt.Errorf("card %d: %w", id, domain.ErrNotFound)
	}
	return card, nil
}

// Cards lists the active set through the given filter.
func (s *State) Cards(f domain.Filter) []domain.Card {
	return s.store.List(f)
}

// SetFilter changes the filter applied to the card list in views.
func (s *State) SetFilter(f domain.Filter) {
	s.filter = f
	s.notify("")
}

// Undo reverts the most recent card change. ok is false when there is
// nothing to undo.
func (s *State) Undo() (e history.Entry, ok bool, err error) {
	e, ok, err = s.history.Undo(s.store)
	if err != nil || !ok {
		return e, ok, err
	}
	s.log.Info("undo", "type", e.Type, "card_id", e.CardID)
	s.commit("Undid " + e.Describe())
	return e, true, nil
}

// Redo re-applies the most recently undone card change.
func (s *State) Redo() (e history.Entry, ok bool, err error) {
	e, ok, err = s.history.Redo(s.store)
	if err != nil || !ok {
		return e, ok, err
	}
	s.log.Info("redo", "type", e.Type, "card_id", e.CardID)
	s.commit("Redid " + e.Describe())
	return e, true, nil
}
