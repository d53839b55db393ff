package mastery

import (
	"fmt"
	"strings"
	"time"

	"github.com/conorfennell/eqflash/internal/domain"
)

// Outcome is the user's verdict after seeing a card's solution.
type Outcome int

const (
	Learning Outcome = iota // still learning the card
	Known                   // recalled the solution
)

func (o Outcome) String() string {
	if o == Known {
		return "known"
	}
	return "learning"
}

// ParseOutcome accepts "known"/"k" and "learning"/"l".
func ParseOutcome(s string) (Outcome, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "known", "k":
		return Known, nil
	case "learning", "l":
		return Learning, nil
	default:
		return Learning, fmt.Errorf("%w: unknown outcome %q", domain.ErrInvalidInput, s)
	}
}

// Apply records a review of the card at the given time. A known card gains
// one mastery point, capped at domain.MaxMastery. Every review stamps
// LastStudied and counts towards TimesStudied.
func Apply(card domain.Card, outcome Outcome, at time.Time) domain.Card {
	card = card.Clone()
	if outcome == Known {
		card.Mastery = min(card.Mastery+1, domain.MaxMastery)
	}
	card.Mastery = max(card.Mastery, 0)
	card.LastStudied = &at
	card.TimesStudied++
	return card
}

// Level buckets a mastery score for display.
type Level string

const (
	New      Level = "new"
	Studying Level = "learning"
	Mastered Level = "mastered"
)

// LevelOf returns the bucket a card falls in.
func LevelOf(c domain.Card) Level {
	switch {
	case c.Mastery <= 0:
		return New
	case c.Mastery >= domain.MaxMastery:
		return Mastered
	default:
		return Studying
	}
}

// Summary aggregates mastery over a collection of cards.
type Summary struct {
	Total        int
	New          int
	Learning     int
	Mastered     int
	TimesStudied int
	Average      float64 // mean mastery, 0 for an empty collection
}

// Progress is the share of cards that are mastered, in [0,1].
func (s Summary) Progress() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Mastered) / float64(s.Total)
}

// Summarize computes mastery statistics for cards.
func Summarize(cards []domain.Card) Summary {
	var s Summary
	var points int
	for _, c := range cards {
		s.Total++
		points += c.Mastery
		s.TimesStudied += c.TimesStudied
		switch LevelOf(c) {
		case New:
			s.New++
		case Mastered:
			s.Mastered++
		default:
			s.Learning++
		}
	}
	if s.Total > 0 {
		s.Average = float64(points) / float64(s.Total)
	}
	return s
}
