package search

import (
	"strings"

	"github.com/fwojciec/apicat"
)

// Weights tunes the Intelligent engine. Field weights scale the score of a
// match by where it was found; the remaining values shape the score of each
// match kind.
type Weights struct {
	Name        float64
	Description float64

	// Prefix matches score PrefixBase + PrefixRatio*coverage.
	PrefixBase  float64
	PrefixRatio float64

	// Substring matches score ContainsBase + ContainsRatio*coverage.
	ContainsBase  float64
	ContainsRatio float64

	// Fuzzy matches score Fuzzy*similarity.
	Fuzzy float64
}

// DefaultWeights are the weights used when none are configured.
var DefaultWeights = Weights{
	Name:          1.0,
	Description:   0.6,
	PrefixBase:    0.7,
	PrefixRatio:   0.3,
	ContainsBase:  0.5,
	ContainsRatio: 0.2,
	Fuzzy:         0.6,
}

// Intelligent evaluates exact, prefix, substring and fuzzy matching in that
// order for each field and keeps the best weighted result. Multi-word
// queries score each word and average the results.
type Intelligent struct {
	Weights Weights
}

// NewIntelligent returns an Intelligent engine with the given weights.
func NewIntelligent(w Weights) *Intelligent {
	return &Intelligent{Weights: w}
}

func (*Intelligent) Name() string { return IntelligentEngine }
func (*Intelligent) Hybrid() bool { return true }

func (e *Intelligent) Search(q apicat.SearchQuery, candidates []apicat.Element) []apicat.SearchResultItem {
	terms := strings.Fields(fold(q, q.Text))
	if q.ExactMatch {
		terms = []string{fold(q, strings.TrimSpace(q.Text))}
	}

	var out []apicat.SearchResultItem
	for _, c := range candidates {
		var (
			total   float64
			reasons []apicat.MatchReason
			snippet string
		)
		for _, term := range terms {
			m := e.matchTerm(q, c, term)
			if m.reason == nil {
				continue
			}
			total += m.score
			reasons = append(reasons, m.reason)
			if snippet == "" && m.field == apicat.FieldDescription {
				snippet = Snippet(c.Base().Description, term)
			}
		}
		if len(reasons) == 0 {
			continue
		}
		score := min(1, total/float64(len(terms)))
		if score <= 0 || score < q.Threshold {
			continue
		}

		var reason apicat.MatchReason = apicat.MultipleMatches{Reasons: reasons}
		if len(reasons) == 1 {
			reason = reasons[0]
		}
		out = append(out, apicat.SearchResultItem{Element: c, Score: score, Reason: reason, Snippet: snippet})
	}
	return out
}

type termMatch struct {
	score  float64
	field  apicat.Field
	reason apicat.MatchReason
}

// matchTerm returns the best weighted match of one term across the name
// fields and the description.
func (e *Intelligent) matchTerm(q apicat.SearchQuery, c apicat.Element, term string) termMatch {
	var best termMatch
	for _, n := range names(c) {
		if m := e.matchField(q, fold(q, n), term, apicat.FieldName, e.Weights.Name, false); m.score > best.score {
			best = m
		}
	}
	if desc := c.Base().Description; desc != "" && e.Weights.Description > 0 {
		if m := e.matchField(q, fold(q, desc), term, apicat.FieldDescription, e.Weights.Description, true); m.score > best.score {
			best = m
		}
	}
	return best
}

// matchField applies the match kinds in priority order and returns the
// first that matches. Text fields are matched word by word for the fuzzy
// step.
func (e *Intelligent) matchField(q apicat.SearchQuery, value, term string, field apicat.Field, weight float64, text bool) termMatch {
	w := e.Weights
	switch {
	case value == term:
		return termMatch{score: weight, field: field, reason: apicat.ExactMatch{Field: field}}
	case q.ExactMatch:
		return termMatch{}
	case strings.HasPrefix(value, term):
		s := (w.PrefixBase + w.PrefixRatio*ratio(term, value)) * weight
		return termMatch{score: s, field: field, reason: apicat.PrefixMatch{Field: field}}
	case strings.Contains(value, term):
		s := (w.ContainsBase + w.ContainsRatio*ratio(term, value)) * weight
		return termMatch{score: s, field: field, reason: apicat.ContainsMatch{Field: field}}
	}

	sim := 0.0
	if text {
		for _, word := range strings.Fields(value) {
			sim = max(sim, Similarity(term, strings.Trim(word, ".,;:()«»\"`")))
		}
	} else {
		sim = Similarity(term, value)
	}
	if sim <= 0 || sim < q.Threshold {
		return termMatch{}
	}
	return termMatch{
		score:  w.Fuzzy * sim * weight,
		field:  field,
		reason: apicat.FuzzyMatch{Field: field, Similarity: sim},
	}
}
