package parser

import (
	"bufio"
	"io"
	"os"
	"strings"
)

const (
	equationPrefix   = "E:"
	solutionPrefix   = "S:"
	difficultyPrefix = "D:"
)

type state int

const (
	seeking state = iota
	readingEquation
	readingSolution
	readingDifficulty
)

// Card is one equation/solution block found in a markdown file.
type Card struct {
	Equation   string
	Solution   string
	Difficulty string
	Line       int // line the equation starts on
}

// ParseFile reads a file from the given path and extracts all cards.
func ParseFile(path string) ([]Card, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Parse(file)
}

// Parse reads from an io.Reader and extracts all cards. A card starts at an
// "E:" line and runs until the next "E:" line or a "---" separator. Values
// may span several lines. Blocks without an equation are ignored.
func Parse(r io.Reader) ([]Card, error) {
	scanner := bufio.NewScanner(r)
	var cards []Card
	var current Card
	var block []string
	st := seeking
	lineNo := 0

	flushBlock := func() {
		if len(block) == 0 {
			return
		}
		content := strings.TrimSpace(strings.Join(block, "\n"))
		switch st {
		case readingEquation:
			current.Equation = content
		case readingSolution:
			current.Solution = content
		case readingDifficulty:
			current.Difficulty = content
		}
		block = nil
	}

	finishCard := func() {
		flushBlock()
		if current.Equation != "" {
			cards = append(cards, current)
		}
		current = Card{}
		st = seeking
	}

	for scanner.Scan() {
		lineNo++
		line := scanner.Text()

		if strings.TrimSpace(line) == "---" {
			finishCard()
			continue
		}

		prefix, next := "", st
		switch {
		case strings.HasPrefix(line, equationPrefix):
			prefix, next = equationPrefix, readingEquation
		case strings.HasPrefix(line, solutionPrefix):
			prefix, next = solutionPrefix, readingSolution
		case strings.HasPrefix(line, difficultyPrefix):
			prefix, next = difficultyPrefix, readingDifficulty
		}

		if prefix == "" {
			if st != seeking {
				block = append(block, line)
			}
			continue
		}

		if next == readingEquation {
			// A new equation always starts a new card.
			finishCard()
			current.Line = lineNo
		} else {
			flushBlock()
		}
		st = next
		block = append(block, strings.TrimPrefix(line[len(prefix):], " "))
	}

	finishCard()

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return cards, nil
}
