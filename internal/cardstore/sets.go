package cardstore

import (
	"slices"

	"github.com/conorfennell/eqflash/internal/domain"
)

func (s *Store) newSet(fields domain.SetFields) *domain.StudySet {
	set := &domain.StudySet{
		ID:          s.nextID(),
		Name:        fields.Name,
		Description: fields.Description,
		Cards:       []domain.Card{},
		Created:     s.now(),
	}
	s.sets = append(s.sets, set)
	return set
}

// CreateSet adds an empty study set. It does not change the active set.
func (s *Store) CreateSet(fields domain.SetFields) (domain.StudySet, error) {
	fields, err := fields.Normalize()
	if err != nil {
		return domain.StudySet{}, err
	}
	return s.newSet(fields).Clone(), nil
}

// UpdateSet renames a set and replaces its description.
func (s *Store) UpdateSet(id int64, fields domain.SetFields) (domain.StudySet, error) {
	fields, err := fields.Normalize()
	if err != nil {
		return domain.StudySet{}, err
	}
	set := s.setByID(id)
	if set == nil {
		return domain.StudySet{}, notFound("study set", id)
	}
	set.Name = fields.Name
	set.Description = fields.Description
	return set.Clone(), nil
}

// DeleteSet removes a set and all of its cards. The last remaining set
// cannot be deleted. If the active set is removed the first set becomes active.
func (s *Store) DeleteSet(id int64) (domain.StudySet, error) {
	i := slices.IndexFunc(s.sets, func(set *domain.StudySet) bool { return set.ID == id })
	if i < 0 {
		return domain.StudySet{}, notFound("study set", id)
	}
	if len(s.sets) == 1 {
		return domain.StudySet{}, invalidf("cannot delete the only study set")
	}
	removed := s.sets[i]
	s.sets = slices.Delete(s.sets, i, i+1)
	if s.active == id {
		s.active = s.sets[0].ID
	}
	return *removed, nil
}

// SelectSet makes the set the target of Create and List.
func (s *Store) SelectSet(id int64) error {
	if s.setByID(id) == nil {
		return notFound("study set", id)
	}
	s.active = id
	return nil
}

// ActiveSet returns a copy of the active set.
func (s *Store) ActiveSet() domain.StudySet {
	return s.activeSet().Clone()
}

// Set returns a copy of the set with the given id.
func (s *Store) Set(id int64) (domain.StudySet, bool) {
	set := s.setByID(id)
	if set == nil {
		return domain.StudySet{}, false
	}
	return set.Clone(), true
}

// Sets returns copies of every set in creation order.
func (s *Store) Sets() []domain.StudySet {
	out := make([]domain.StudySet, len(s.sets))
	for i, set := range s.sets {
		out[i] = set.Clone()
	}
	return out
}
