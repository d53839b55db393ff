// Package history keeps a bounded, linear undo/redo journal of card mutations.
package history

import (
	"fmt"

	"github.com/conorfennell/eqflash/internal/domain"
)

// DefaultMaxSize is the journal capacity used when none is configured.
const DefaultMaxSize = 50

// Type tags an Entry.
type Type string

const (
	Create Type = "create"
	Edit   Type = "edit"
	Delete Type = "delete"
)

// Entry is a reversible mutation. Cards are snapshots taken when the entry
// was recorded and never alias live cards.
type Entry struct {
	Type     Type         `json:"type"`
	SetID    int64        `json:"setId"`
	CardID   int64        `json:"cardId"`
	Card     *domain.Card `json:"card,omitempty"`    // create, delete
	OldCard  *domain.Card `json:"oldCard,omitempty"` // edit
	NewCard  *domain.Card `json:"newCard,omitempty"` // edit
	Position int          `json:"position"`
}

func snapshot(c domain.Card) *domain.Card {
	cp := c.Clone()
	return &cp
}

// Created builds the entry for a card appended to a set at pos.
func Created(setID int64, card domain.Card, pos int) Entry {
	return Entry{Type: Create, SetID: setID, CardID: card.ID, Card: snapshot(card), Position: pos}
}

// Edited builds the entry for a card changed from old to updated.
func Edited(old, updated domain.Card) Entry {
	return Entry{Type: Edit, CardID: old.ID, OldCard: snapshot(old), NewCard: snapshot(updated)}
}

// Deleted builds the entry for a card removed from pos in a set.
func Deleted(setID int64, card domain.Card, pos int) Entry {
	return Entry{Type: Delete, SetID: setID, CardID: card.ID, Card: snapshot(card), Position: pos}
}

func (e Entry) clone() Entry {
	if e.Card != nil {
		e.Card = snapshot(*e.Card)
	}
	if e.OldCard != nil {
		e.OldCard = snapshot(*e.OldCard)
	}
	if e.NewCard != nil {
		e.NewCard = snapshot(*e.NewCard)
	}
	return e
}

func (e Entry) validate() error {
	switch e.Type {
	case Create, Delete:
		if e.Card == nil {
			return fmt.Errorf("%s entry for card %d has no snapshot", e.Type, e.CardID)
		}
	case Edit:
		if e.OldCard == nil || e.NewCard == nil {
			return fmt.Errorf("edit entry for card %d is missing a snapshot", e.CardID)
		}
	default:
		return fmt.Errorf("unknown history entry type %q", e.Type)
	}
	return nil
}

// Describe returns a short human-readable label for notifications.
func (e Entry) Describe() string {
	switch e.Type {
	case Create:
		return fmt.Sprintf("create %q", e.Card.Equation)
	case Edit:
		return fmt.Sprintf("edit %q", e.NewCard.Equation)
	case Delete:
		return fmt.Sprintf("delete %q", e.Card.Equation)
	}
	return string(e.Type)
}
