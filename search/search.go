// Package search implements the matching strategies used to answer catalog
// queries and the ranking that orders their results.
//
// Every engine sees the same candidate set and implements exactly one
// algorithm. Composite fans a query out to the non-hybrid engines, merges
// their hits by element id and hands the merged list to Rank.
package search

import (
	"strings"
	"unicode/utf8"

	"github.com/fwojciec/apicat"
)

// Engine matches a query against candidate elements.
type Engine interface {
	// Name identifies the engine in logs and configuration.
	Name() string
	// Hybrid reports whether the engine combines other strategies. Hybrid
	// engines are not run by Composite.
	Hybrid() bool
	// Search returns the matching candidates with their scores. Results
	// are unordered; callers rank them.
	Search(q apicat.SearchQuery, candidates []apicat.Element) []apicat.SearchResultItem
}

// names returns the strings an element can be found by: its name, its
// English alias and, for members, the owner-qualified name.
func names(e apicat.Element) []string {
	b := e.Base()
	out := []string{b.Name}
	if b.EnglishName != "" {
		out = append(out, b.EnglishName)
	}
	if b.Owner != "" {
		out = append(out, apicat.QualifiedName(b.Owner, b.Name))
	}
	return out
}

// fold lowercases s unless the query is case-sensitive.
func fold(q apicat.SearchQuery, s string) string {
	if q.CaseSensitive {
		return s
	}
	return strings.ToLower(s)
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

// ratio returns len(part)/len(whole) in runes, capped at 1.
func ratio(part, whole string) float64 {
	w := runeLen(whole)
	if w == 0 {
		return 0
	}
	return min(1, float64(runeLen(part))/float64(w))
}
