package apicat

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"
)

// Query limits.
const (
	DefaultSearchLimit = 20
	MaxSearchLimit     = 100
)

// SearchQuery describes one catalog search.
type SearchQuery struct {
	Text  string        `json:"text"`
	Kinds []ElementKind `json:"kinds,omitempty"` // empty means all kinds
	Limit int           `json:"limit"`

	CaseSensitive bool `json:"caseSensitive,omitempty"`
	ExactMatch    bool `json:"exactMatch,omitempty"`

	// Owner restricts results to members of the named type.
	// IncludeInherited extends that scope to the members of its base types.
	Owner            string `json:"owner,omitempty"`
	IncludeInherited bool   `json:"includeInherited,omitempty"`

	// Threshold is the minimum relevance score. Engines drop weaker
	// fuzzy and intelligent matches; the composite engine drops weaker
	// merged scores of any origin.
	Threshold float64 `json:"threshold"`
}

// Validate returns an EINVALID error if the query cannot be executed.
func (q *SearchQuery) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return Errorf(EINVALID, "query text required")
	}
	if q.Limit < 1 || q.Limit > MaxSearchLimit {
		return Errorf(EINVALID, "limit must be between 1 and %d, got %d", MaxSearchLimit, q.Limit)
	}
	if q.Threshold < 0 || q.Threshold > 1 {
		return Errorf(EINVALID, "threshold must be between 0 and 1, got %g", q.Threshold)
	}
	return nil
}

// WantsKind reports whether elements of kind k are requested.
func (q *SearchQuery) WantsKind(k ElementKind) bool {
	return len(q.Kinds) == 0 || slices.Contains(q.Kinds, k)
}

// Field names the element field a match was found in.
type Field string

// Field values.
const (
	FieldName        Field = "name"
	FieldDescription Field = "description"
)

// MatchReason explains why an element matched. The set of implementations
// is closed: ExactMatch, PrefixMatch, ContainsMatch, FuzzyMatch and
// MultipleMatches.
type MatchReason interface {
	String() string
	reason()
}

// ExactMatch means the field equals the query text.
type ExactMatch struct{ Field Field }

// PrefixMatch means the field starts with the query text.
type PrefixMatch struct{ Field Field }

// ContainsMatch means the field contains the query text.
type ContainsMatch struct{ Field Field }

// FuzzyMatch means the field is within edit distance of the query text.
type FuzzyMatch struct {
	Field      Field
	Similarity float64
}

// MultipleMatches combines reasons reported by several engines.
type MultipleMatches struct{ Reasons []MatchReason }

func (r ExactMatch) String() string    { return "exact " + string(r.Field) }
func (r PrefixMatch) String() string   { return "prefix " + string(r.Field) }
func (r ContainsMatch) String() string { return "contains " + string(r.Field) }
func (r FuzzyMatch) String() string {
	return fmt.Sprintf("fuzzy %s (%.2f)", r.Field, r.Similarity)
}
func (r MultipleMatches) String() string {
	parts := make([]string, len(r.Reasons))
	for i, reason := range r.Reasons {
		parts[i] = reason.String()
	}
	return strings.Join(parts, ", ")
}

func (ExactMatch) reason()      {}
func (PrefixMatch) reason()     {}
func (ContainsMatch) reason()   {}
func (FuzzyMatch) reason()      {}
func (MultipleMatches) reason() {}

// SearchResultItem is one ranked search hit.
type SearchResultItem struct {
	Element Element     `json:"element"`
	Score   float64     `json:"score"` // 0..1, 1 is an exact match
	Reason  MatchReason `json:"-"`
	Snippet string      `json:"snippet,omitempty"`
}

// Source classifies where an element lives in the catalog.
type Source string

// Source values.
const (
	SourceGlobal Source = "global"
	SourceType   Source = "type"
	SourceMember Source = "member"
)

// PageFailure records a page skipped during load.
type PageFailure struct {
	PageID  string `json:"pageId"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Statistics summarises a loaded catalog.
type Statistics struct {
	Generation  string              `json:"generation"`
	LoadedAt    time.Time           `json:"loadedAt"`
	Fingerprint string              `json:"fingerprint"`
	ByKind      map[ElementKind]int `json:"byKind"`
	BySource    map[Source]int      `json:"bySource"`

	TOCNodes int           `json:"tocNodes"`
	Pages    int           `json:"pages"`
	Parsed   int           `json:"parsed"`
	Skipped  int           `json:"skipped"`
	Failures []PageFailure `json:"failures,omitempty"`
	Warnings []string      `json:"warnings,omitempty"`
}

// CatalogService answers queries against the currently published catalog.
// All methods return ENOTLOADED until a first load succeeds.
type CatalogService interface {
	// Search runs a validated query. Returns EINVALID before any matching
	// when the query is malformed.
	Search(ctx context.Context, q SearchQuery) ([]SearchResultItem, error)

	// FindByExactName returns the element with the given name, or nil when
	// none exists. Member names may be qualified as "Type.Member"; a plain
	// member name resolves to the first member of that name in TOC order.
	FindByExactName(ctx context.Context, kind ElementKind, name string) (Element, error)

	// FindMembers returns the methods and properties of a type.
	// Returns ETYPENOTFOUND if the type does not exist.
	FindMembers(ctx context.Context, typeName string, includeInherited bool) ([]Element, error)

	// FindMember returns one member of a type.
	// Returns ETYPENOTFOUND or EMEMBERNOTFOUND.
	FindMember(ctx context.Context, typeName, memberName string) (Element, error)

	// FindConstructors returns the constructor signatures of a type.
	// Returns ETYPENOTFOUND if the type does not exist.
	FindConstructors(ctx context.Context, typeName string) ([]Signature, error)

	// Suggest returns elements whose name starts with prefix.
	Suggest(ctx context.Context, kind ElementKind, prefix string, limit int) ([]Element, error)

	// Statistics reports counts for the current catalog.
	Statistics(ctx context.Context) (*Statistics, error)
}
