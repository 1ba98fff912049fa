package search

import (
	"cmp"
	"slices"

	"github.com/fwojciec/apicat"
)

// Composite runs several engines over the same candidates and merges their
// results by element id.
type Composite struct {
	engines []Engine
}

// NewComposite returns a Composite over engines. Hybrid engines are kept
// but never run.
func NewComposite(engines ...Engine) *Composite {
	return &Composite{engines: engines}
}

// NewDefaultComposite returns a Composite over the exact, prefix and fuzzy
// engines.
func NewDefaultComposite() *Composite {
	return NewComposite(NewExact(), NewPrefix(), NewFuzzy())
}

func (*Composite) Name() string { return "composite" }
func (*Composite) Hybrid() bool { return true }

// Search returns the ranked, truncated union of the engines' results.
// Merged scores below the query threshold are dropped, whichever engine
// produced them.
func (c *Composite) Search(q apicat.SearchQuery, candidates []apicat.Element) []apicat.SearchResultItem {
	type merged struct {
		item    apicat.SearchResultItem
		reasons []apicat.MatchReason
	}
	byID := make(map[string]*merged)
	var order []string

	for _, e := range c.engines {
		if e.Hybrid() {
			continue
		}
		for _, hit := range e.Search(q, candidates) {
			id := hit.Element.Base().ID
			m, ok := byID[id]
			if !ok {
				byID[id] = &merged{item: hit, reasons: []apicat.MatchReason{hit.Reason}}
				order = append(order, id)
				continue
			}
			m.reasons = append(m.reasons, hit.Reason)
			m.item.Score = max(m.item.Score, hit.Score)
			if m.item.Snippet == "" {
				m.item.Snippet = hit.Snippet
			}
		}
	}

	items := make([]apicat.SearchResultItem, 0, len(order))
	for _, id := range order {
		m := byID[id]
		if m.item.Score < q.Threshold {
			continue
		}
		if len(m.reasons) > 1 {
			m.item.Reason = apicat.MultipleMatches{Reasons: m.reasons}
		}
		items = append(items, m.item)
	}
	return Rank(items, q.Limit)
}

// Rank orders items by score descending, then by shorter name, then by
// name and id ascending, and truncates the ordered list to limit. A limit
// of zero or less keeps every item.
func Rank(items []apicat.SearchResultItem, limit int) []apicat.SearchResultItem {
	slices.SortStableFunc(items, func(a, b apicat.SearchResultItem) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		an, bn := a.Element.Base().Name, b.Element.Base().Name
		if c := cmp.Compare(runeLen(an), runeLen(bn)); c != 0 {
			return c
		}
		if c := cmp.Compare(an, bn); c != 0 {
			return c
		}
		return cmp.Compare(a.Element.Base().ID, b.Element.Base().ID)
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}
