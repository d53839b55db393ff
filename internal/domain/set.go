package domain

import (
	"strings"
	"time"
)

// StudySet is a named collection of cards. It owns its cards exclusively.
type StudySet struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Cards       []Card     `json:"cards"`
	Created     time.Time  `json:"created"`
	LastStudied *time.Time `json:"lastStudied"`
}

// Clone returns a deep copy of the set, cards included.
func (s StudySet) Clone() StudySet {
	cards := make([]Card, len(s.Cards))
	for i, c := range s.Cards {
		cards[i] = c.Clone()
	}
	s.Cards = cards
	if s.LastStudied != nil {
		t := *s.LastStudied
		s.LastStudied = &t
	}
	return s
}

// SetFields holds the user-editable part of a study set.
type SetFields struct {
	Name        string `validate:"required,max=100"`
	Description string `validate:"max=500"`
}

// Normalize trims the fields and validates them.
func (f SetFields) Normalize() (SetFields, error) {
	f.Name = strings.TrimSpace(f.Name)
	f.Description = strings.TrimSpace(f.Description)
	if err := Validate(f); err != nil {
		return SetFields{}, err
	}
	return f, nil
}

// Library is the persisted card collection.
type Library struct {
	Sets        []StudySet `json:"sets"`
	ActiveSetID int64      `json:"activeSetId"`
}

// DailyStats counts cards studied on a single calendar day.
type DailyStats struct {
	Count int    `json:"count"`
	Date  string `json:"date"`
}

const dayLayout = "2006-01-02"

// Increment bumps the counter, starting over when the day has changed.
func (d DailyStats) Increment(now time.Time) DailyStats {
	d = d.On(now)
	d.Count++
	return d
}

// On returns the stats as seen on the day of now: a stale day reads as zero.
func (d DailyStats) On(now time.Time) DailyStats {
	today := now.Format(dayLayout)
	if d.Date != today {
		return DailyStats{Date: today}
	}
	return d
}
