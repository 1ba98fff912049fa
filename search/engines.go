package search

import (
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/fwojciec/apicat"
)

// Engine names.
const (
	ExactEngine       = "exact"
	PrefixEngine      = "prefix"
	FuzzyEngine       = "fuzzy"
	IntelligentEngine = "intelligent"
)

// Exact matches elements whose name equals the query text.
type Exact struct{}

// NewExact returns an exact-match engine.
func NewExact() *Exact { return &Exact{} }

func (*Exact) Name() string { return ExactEngine }
func (*Exact) Hybrid() bool { return false }

// Search scores every exact name match 1.0.
func (*Exact) Search(q apicat.SearchQuery, candidates []apicat.Element) []apicat.SearchResultItem {
	text := fold(q, strings.TrimSpace(q.Text))
	var out []apicat.SearchResultItem
	for _, c := range candidates {
		for _, n := range names(c) {
			if fold(q, n) == text {
				out = append(out, apicat.SearchResultItem{
					Element: c,
					Score:   1,
					Reason:  apicat.ExactMatch{Field: apicat.FieldName},
				})
				break
			}
		}
	}
	return out
}

// Prefix matches elements whose name starts with the query text. The score
// is the fraction of the name the query covers.
type Prefix struct{}

// NewPrefix returns a prefix-match engine.
func NewPrefix() *Prefix { return &Prefix{} }

func (*Prefix) Name() string { return PrefixEngine }
func (*Prefix) Hybrid() bool { return false }

func (*Prefix) Search(q apicat.SearchQuery, candidates []apicat.Element) []apicat.SearchResultItem {
	if q.ExactMatch {
		return nil
	}
	text := fold(q, strings.TrimSpace(q.Text))
	var out []apicat.SearchResultItem
	for _, c := range candidates {
		best := 0.0
		for _, n := range names(c) {
			if n := fold(q, n); strings.HasPrefix(n, text) {
				best = max(best, ratio(text, n))
			}
		}
		if best > 0 {
			out = append(out, apicat.SearchResultItem{
				Element: c,
				Score:   best,
				Reason:  apicat.PrefixMatch{Field: apicat.FieldName},
			})
		}
	}
	return out
}

// Fuzzy scores elements by edit-distance similarity between the query and
// their names. With Descriptions set, description words are compared too,
// scaled by DescriptionWeight.
type Fuzzy struct {
	Descriptions      bool
	DescriptionWeight float64
}

// NewFuzzy returns a fuzzy engine comparing names only.
func NewFuzzy() *Fuzzy { return &Fuzzy{} }

func (*Fuzzy) Name() string { return FuzzyEngine }
func (*Fuzzy) Hybrid() bool { return false }

// Search excludes candidates whose similarity is zero or below the query
// threshold.
func (f *Fuzzy) Search(q apicat.SearchQuery, candidates []apicat.Element) []apicat.SearchResultItem {
	if q.ExactMatch {
		return nil
	}
	text := fold(q, strings.TrimSpace(q.Text))
	var out []apicat.SearchResultItem
	for _, c := range candidates {
		best, field, snippet := 0.0, apicat.FieldName, ""
		for _, n := range names(c) {
			best = max(best, Similarity(text, fold(q, n)))
		}
		if f.Descriptions && f.DescriptionWeight > 0 {
			desc := c.Base().Description
			for _, w := range strings.Fields(desc) {
				s := Similarity(text, fold(q, strings.Trim(w, ".,;:()«»\"`"))) * f.DescriptionWeight
				if s > best {
					best, field = s, apicat.FieldDescription
					snippet = Snippet(desc, w)
				}
			}
		}
		if best <= 0 || best < q.Threshold {
			continue
		}
		item := apicat.SearchResultItem{
			Element: c,
			Score:   best,
			Reason:  apicat.FuzzyMatch{Field: field, Similarity: best},
		}
		if field == apicat.FieldDescription {
			item.Snippet = snippet
		}
		out = append(out, item)
	}
	return out
}

// Similarity returns 1 - distance/maxLen for the Levenshtein distance of a
// and b measured in runes. Identical strings score 1, two empty strings 0.
func Similarity(a, b string) float64 {
	longest := max(runeLen(a), runeLen(b))
	if longest == 0 {
		return 0
	}
	d := levenshtein.ComputeDistance(a, b)
	return 1 - float64(d)/float64(longest)
}
