// Package knol identifies cards by their content.
package knol

import (
	"crypto/sha256"
	"fmt"
	"strings"
)

// Normalize joins equation and solution after cleaning each part.
// It lowercases, normalizes line endings, trims and collapses runs of
// whitespace so formatting differences do not matter.
func Normalize(equation, solution string) string {
	normalizePart := func(part string) string {
		p := strings.ToLower(part)
		p = strings.ReplaceAll(p, "\r\n", "\n")
		return strings.Join(strings.Fields(p), " ")
	}

	// Joined with a newline so "ab"+"c" and "a"+"bc" stay distinct.
	return normalizePart(equation) + "\n" + normalizePart(solution)
}

// Fingerprint returns the SHA-256 of the normalized card content as hex.
func Fingerprint(equation, solution string) string {
	sum := sha256.Sum256([]byte(Normalize(equation, solution)))
	return fmt.Sprintf("%x", sum)
}

// Index tracks fingerprints already present in a collection.
type Index map[string]struct{}

// Add records a card and reports whether it was new.
func (ix Index) Add(equation, solution string) bool {
	fp := Fingerprint(equation, solution)
	if _, seen := ix[fp]; seen {
		return false
	}
	ix[fp] = struct{}{}
	return true
}
