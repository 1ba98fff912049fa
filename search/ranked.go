package search

import "github.com/fwojciec/apicat"

// Ranked wraps a single engine so that its results are ranked and
// truncated like Composite's.
type Ranked struct {
	Engine
}

// Search runs the wrapped engine and ranks its results.
func (r Ranked) Search(q apicat.SearchQuery, candidates []apicat.Element) []apicat.SearchResultItem {
	return Rank(r.Engine.Search(q, candidates), q.Limit)
}

// Strategy returns the top-level engine for a strategy name: "composite"
// (the default) or one of the engine names.
func Strategy(name string, w Weights) (Engine, error) {
	switch name {
	case "", "composite":
		return NewDefaultComposite(), nil
	case IntelligentEngine:
		return Ranked{NewIntelligent(w)}, nil
	case ExactEngine:
		return Ranked{NewExact()}, nil
	case PrefixEngine:
		return Ranked{NewPrefix()}, nil
	case FuzzyEngine:
		return Ranked{&Fuzzy{Descriptions: true, DescriptionWeight: w.Description}}, nil
	}
	return nil, apicat.Errorf(apicat.EINVALID, "unknown search strategy %q", name)
}
