package domain

import (
	"strings"
	"time"
)

// MaxMastery is the highest mastery a card can reach.
const MaxMastery = 5

// Difficulty is the author's own rating of how hard a card is.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// DifficultyAll is the wildcard used by list filters.
const DifficultyAll Difficulty = "all"

// ParseDifficulty maps user input to a Difficulty. An empty string yields Medium.
func ParseDifficulty(s string) (Difficulty, error) {
	switch d := Difficulty(strings.ToLower(strings.TrimSpace(s))); d {
	case "":
		return Medium, nil
	case Easy, Medium, Hard:
		return d, nil
	default:
		return "", invalidf("unknown difficulty %q", s)
	}
}

// Card is a single equation/solution pair with its study metadata.
type Card struct {
	ID           int64      `json:"id"`
	Equation     string     `json:"equation"`
	Solution     string     `json:"solution"`
	Difficulty   Difficulty `json:"difficulty"`
	Mastery      int        `json:"mastery"`
	LastStudied  *time.Time `json:"lastStudied"`
	TimesStudied int        `json:"timesStudied"`
}

// Clone returns a deep copy of the card.
func (c Card) Clone() Card {
	if c.LastStudied != nil {
		t := *c.LastStudied
		c.LastStudied = &t
	}
	return c
}

// Fields returns the user-editable part of the card.
func (c Card) Fields() CardFields {
	return CardFields{Equation: c.Equation, Solution: c.Solution, Difficulty: c.Difficulty}
}

// CardFields holds the user-editable part of a card.
type CardFields struct {
	Equation   string     `validate:"required"`
	Solution   string     `validate:"required"`
	Difficulty Difficulty `validate:"oneof=easy medium hard"`
}

// Normalize trims the text fields and defaults the difficulty, then validates.
func (f CardFields) Normalize() (CardFields, error) {
	f.Equation = strings.TrimSpace(f.Equation)
	f.Solution = strings.TrimSpace(f.Solution)
	if f.Difficulty == "" {
		f.Difficulty = Medium
	}
	if err := Validate(f); err != nil {
		return CardFields{}, err
	}
	return f, nil
}

// Apply writes the editable fields onto the card, leaving study stats untouched.
func (f CardFields) Apply(c Card) Card {
	c.Equation = f.Equation
	c.Solution = f.Solution
	c.Difficulty = f.Difficulty
	return c
}

// Filter narrows a card listing.
type Filter struct {
	SearchText string
	Difficulty Difficulty
}

// Matches reports whether the card passes the filter. Search is a
// case-insensitive substring match on equation or solution.
func (f Filter) Matches(c Card) bool {
	if f.Difficulty != "" && f.Difficulty != DifficultyAll && c.Difficulty != f.Difficulty {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(f.SearchText))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(c.Equation), q) ||
		strings.Contains(strings.ToLower(c.Solution), q)
}
