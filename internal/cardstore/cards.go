package cardstore

import (
	"slices"
	"time"

	"github.com/conorfennell/eqflash/internal/domain"
)

// Create validates the fields and appends a new card to the active set.
func (s *Store) Create(fields domain.CardFields) (domain.Card, error) {
	fields, err := fields.Normalize()
	if err != nil {
		return domain.Card{}, err
	}
	set := s.activeSet()
	card := fields.Apply(domain.Card{ID: s.nextID()})
	set.Cards = append(set.Cards, card)
	return card.Clone(), nil
}

// Update replaces the editable fields of a card and returns the card as it
// was before and after. Mastery and study stats are preserved.
func (s *Store) Update(id int64, fields domain.CardFields) (old, updated domain.Card, err error) {
	fields, err = fields.Normalize()
	if err != nil {
		return domain.Card{}, domain.Card{}, err
	}
	set, i := s.locate(id)
	if set == nil {
		return domain.Card{}, domain.Card{}, notFound("card", id)
	}
	old = set.Cards[i].Clone()
	set.Cards[i] = fields.Apply(set.Cards[i])
	return old, set.Cards[i].Clone(), nil
}

// Remove deletes a card and returns it with the set it lived in and its
// position there, so the removal can be reverted.
func (s *Store) Remove(id int64) (card domain.Card, setID int64, pos int, err error) {
	set, i := s.locate(id)
	if set == nil {
		return domain.Card{}, 0, -1, notFound("card", id)
	}
	card = set.Cards[i].Clone()
	set.Cards = slices.Delete(set.Cards, i, i+1)
	return card, set.ID, i, nil
}

// Find looks a card up in any set.
func (s *Store) Find(id int64) (domain.Card, bool) {
	set, i := s.locate(id)
	if set == nil {
		return domain.Card{}, false
	}
	return set.Cards[i].Clone(), true
}

// List returns the cards of the active set that pass the filter, in set order.
func (s *Store) List(f domain.Filter) []domain.Card {
	var out []domain.Card
	for _, c := range s.activeSet().Cards {
		if f.Matches(c) {
			out = append(out, c.Clone())
		}
	}
	return out
}

// Cards returns every card of a set in order.
func (s *Store) Cards(setID int64) ([]domain.Card, error) {
	set := s.setByID(setID)
	if set == nil {
		return nil, notFound("study set", setID)
	}
	return set.Clone().Cards, nil
}

// Insert puts a card back into a set at pos, clamped to the set bounds.
// The card id must not already be in use.
func (s *Store) Insert(setID int64, card domain.Card, pos int) error {
	set := s.setByID(setID)
	if set == nil {
		return notFound("study set", setID)
	}
	if other, _ := s.locate(card.ID); other != nil {
		return invalidf("card %d already exists", card.ID)
	}
	pos = max(0, min(pos, len(set.Cards)))
	set.Cards = slices.Insert(set.Cards, pos, card.Clone())
	s.seenID(card.ID)
	return nil
}

// Studied writes back a reviewed card and stamps its set as studied at t.
func (s *Store) Studied(card domain.Card, t time.Time) error {
	set, i := s.locate(card.ID)
	if set == nil {
		return notFound("card", card.ID)
	}
	set.Cards[i] = card.Clone()
	set.LastStudied = &t
	return nil
}
