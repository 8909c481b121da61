// Package search provides normalized substring matching for list
// filters. Text is NFC-normalized and case-folded before comparison so
// that composed/decomposed forms and case differences don't hide rows.
package search

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Fold returns the canonical matching form of s: NFC normalization
// followed by Unicode case folding.
func Fold(s string) string {
	// Casers are stateful; mint one per call rather than sharing.
	return cases.Fold().String(norm.NFC.String(s))
}

// Match reports whether needle occurs as a substring of any haystack
// under canonical folding. An empty needle matches everything.
func Match(needle string, haystacks ...string) bool {
	n := Fold(needle)
	if n == "" {
		return true
	}
	for _, h := range haystacks {
		if strings.Contains(Fold(h), n) {
			return true
		}
	}
	return false
}
