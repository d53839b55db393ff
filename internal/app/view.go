package app

import (
	"github.com/conorfennell/eqflash/internal/domain"
	"github.com/conorfennell/eqflash/internal/mastery"
	"github.com/conorfennell/eqflash/internal/study"
)

// SetSummary is a study set without its cards.
type SetSummary struct {
	ID      int64
	Name    string
	Cards   int
	Active  bool
	Mastery mastery.Summary
}

// View is a plain-data snapshot for the presentation shell.
type View struct {
	Sets    []SetSummary
	Active  SetSummary
	Filter  domain.Filter
	Cards   []domain.Card // active set through Filter
	Study   study.Progress
	Current *domain.Card // nil when no session is running
	Today   int
	CanUndo bool
	CanRedo bool
	Message string
}

// View builds a snapshot of the current state carrying msg as the notification.
func (s *State) View(msg string) View {
	v := View{
		Filter:  s.filter,
		Cards:   s.store.List(s.filter),
		Study:   s.engine.Progress(),
		Today:   s.engine.Daily().Count,
		CanUndo: s.history.CanUndo(),
		CanRedo: s.history.CanRedo(),
		Message: msg,
	}
	activeID := s.store.ActiveSet().ID
	for _, set := range s.store.Sets() {
		sum := SetSummary{
			ID:      set.ID,
			Name:    set.Name,
			Cards:   len(set.Cards),
			Active:  set.ID == activeID,
			Mastery: mastery.Summarize(set.Cards),
		}
		v.Sets = append(v.Sets, sum)
		if sum.Active {
			v.Active = sum
		}
	}
	if card, err := s.engine.Current(); err == nil {
		v.Current = &card
	}
	return v
}

// Stats summarises progress for the active set and across all sets.
type Stats struct {
	Set     mastery.Summary
	Overall mastery.Summary
	Today   int
	Session study.Progress
}

// Stats returns mastery and study statistics.
func (s *State) Stats() Stats {
	var all []domain.Card
	for _, set := range s.store.Sets() {
		all = append(all, set.Cards...)
	}
	return Stats{
		Set:     mastery.Summarize(s.store.ActiveSet().Cards),
		Overall: mastery.Summarize(all),
		Today:   s.engine.Daily().Count,
		Session: s.engine.Progress(),
	}
}
