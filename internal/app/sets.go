package app

import (
	"fmt"

	"github.com/conorfennell/eqflash/internal/domain"
	"github.com/conorfennell/eqflash/internal/importer"
)

// CreateSet adds an empty study set.
func (s *State) CreateSet(fields domain.SetFields) (domain.StudySet, error) {
	set, err := s.store.CreateSet(fields)
	if err != nil {
		return domain.StudySet{}, err
	}
	s.log.Info("study set created", "set_id", set.ID, "name", set.Name)
	s.commit(fmt.Sprintf("Study set %q created.", set.Name))
	return set, nil
}

// EditSet renames a study set.
func (s *State) EditSet(id int64, fields domain.SetFields) (domain.StudySet, error) {
	set, err := s.store.UpdateSet(id, fields)
	if err != nil {
		return domain.StudySet{}, err
	}
	s.commit(fmt.Sprintf("Study set %q updated.", set.Name))
	return set, nil
}

// DeleteSet removes a study set with its cards. History entries may point
// into the removed set, so the history is cleared.
func (s *State) DeleteSet(id int64) (domain.StudySet, error) {
	set, err := s.store.DeleteSet(id)
	if err != nil {
		return domain.StudySet{}, err
	}
	if s.engine.Progress().SetID == id {
		s.engine.End()
	}
	s.history.Clear()
	s.log.Info("study set deleted", "set_id", id, "cards", len(set.Cards))
	s.commit(fmt.Sprintf("Study set %q deleted.", set.Name))
	return set, nil
}

// SelectSet switches the active set. A running session is abandoned.
func (s *State) SelectSet(id int64) error {
	if err := s.store.SelectSet(id); err != nil {
		return err
	}
	if s.engine.Active() {
		s.engine.End()
	}
	s.commit("")
	return nil
}

// Sets returns every study set.
func (s *State) Sets() []domain.StudySet {
	return s.store.Sets()
}

// ActiveSet returns the set cards are added to and studied from.
func (s *State) ActiveSet() domain.StudySet {
	return s.store.ActiveSet()
}

// Import adds the cards found in a markdown directory or git repository to
// the active set. Imported cards are not recorded in the undo history.
func (s *State) Import(source string) (importer.Report, error) {
	report, err := s.importer.Import(source, s.store)
	if len(report.Added) > 0 {
		s.commit(fmt.Sprintf("Imported %d cards.", len(report.Added)))
	}
	return report, err
}
