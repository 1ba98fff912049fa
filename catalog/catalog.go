package catalog

import (
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/apicat"
	"github.com/fwojciec/apicat/bloom"
	"github.com/fwojciec/apicat/index"
	"github.com/google/uuid"
)

// bloomFalsePositiveRate sizes the name prefilter.
const bloomFalsePositiveRate = 0.01

// LoadReport describes how a catalog's pages were loaded.
type LoadReport struct {
	TOCNodes int
	Pages    int
	Failures []apicat.PageFailure
}

// Catalog is an immutable snapshot of the API surface and its indexes.
type Catalog struct {
	generation  string
	loadedAt    time.Time
	fingerprint string

	model    *Model
	elements []apicat.Element
	byKind   map[apicat.ElementKind][]apicat.Element

	// lookup holds one exact index per kind for each naming tier, most
	// specific tier first.
	lookup [][]*index.Exact[apicat.Element]
	prefix map[apicat.ElementKind]*index.Prefix[apicat.Element]
	names  *bloom.NameFilter

	report LoadReport
}

// New indexes a model into a catalog snapshot.
func New(m *Model, report LoadReport) *Catalog {
	c := &Catalog{
		generation: uuid.NewString(),
		loadedAt:   time.Now(),
		model:      m,
		byKind:     make(map[apicat.ElementKind][]apicat.Element),
		prefix:     make(map[apicat.ElementKind]*index.Prefix[apicat.Element]),
		report:     report,
	}

	add := func(e apicat.Element) {
		c.elements = append(c.elements, e)
		c.byKind[e.Kind()] = append(c.byKind[e.Kind()], e)
	}
	for _, t := range m.Types {
		add(t)
		for _, e := range t.Members() {
			add(e)
		}
		for _, ctor := range t.Constructors {
			add(ctor)
		}
	}
	for _, g := range m.GlobalMethods {
		add(g)
	}
	for _, g := range m.GlobalProperties {
		add(g)
	}

	englishOwner := make(map[string]string, len(m.Types))
	for _, t := range m.Types {
		if _, ok := englishOwner[t.Name]; !ok && t.EnglishName != "" {
			englishOwner[t.Name] = t.EnglishName
		}
	}
	tiers := lookupTiers(englishOwner)

	c.names = bloom.NewNameFilter(uint(len(c.elements)*len(tiers)), bloomFalsePositiveRate)
	c.lookup = make([][]*index.Exact[apicat.Element], len(tiers))
	for i, key := range tiers {
		c.lookup[i] = make([]*index.Exact[apicat.Element], len(apicat.ElementKinds))
		for j, kind := range apicat.ElementKinds {
			var keyed []apicat.Element
			for _, e := range c.byKind[kind] {
				if k := key(e); k != "" {
					keyed = append(keyed, e)
					c.names.Add(kind, k)
				}
			}
			idx := index.NewExact[apicat.Element]()
			idx.Load(keyed, index.KeyFunc[apicat.Element](key))
			c.lookup[i][j] = idx
		}
	}
	for _, kind := range apicat.ElementKinds {
		prefix := index.NewPrefix[apicat.Element]()
		prefix.Load(c.byKind[kind], func(e apicat.Element) string { return e.Base().Name })
		c.prefix[kind] = prefix
	}

	c.fingerprint = fingerprint(c.elements)
	return c
}

// lookupTiers returns the lookup key functions in precedence order:
// the qualified local name, the qualified English name, the local owner
// with the English member name, then the plain member names. Plain names
// are ambiguous across owners; the first element in TOC order wins.
func lookupTiers(englishOwner map[string]string) []func(apicat.Element) string {
	return []func(apicat.Element) string{
		func(e apicat.Element) string {
			b := e.Base()
			return apicat.QualifiedName(b.Owner, b.Name)
		},
		func(e apicat.Element) string {
			b := e.Base()
			if b.EnglishName == "" {
				return ""
			}
			owner := b.Owner
			if en, ok := englishOwner[owner]; ok {
				owner = en
			}
			return apicat.QualifiedName(owner, b.EnglishName)
		},
		func(e apicat.Element) string {
			b := e.Base()
			if b.EnglishName == "" || b.Owner == "" {
				return ""
			}
			return apicat.QualifiedName(b.Owner, b.EnglishName)
		},
		func(e apicat.Element) string {
			if b := e.Base(); b.Owner != "" {
				return b.Name
			}
			return ""
		},
		func(e apicat.Element) string {
			if b := e.Base(); b.Owner != "" {
				return b.EnglishName
			}
			return ""
		},
	}
}

// fingerprint hashes the sorted element ids.
func fingerprint(elements []apicat.Element) string {
	ids := make([]string, len(elements))
	for i, e := range elements {
		ids[i] = e.Base().ID
	}
	slices.Sort(ids)
	h := xxhash.New()
	for _, id := range ids {
		_, _ = h.WriteString(id)
		_, _ = h.WriteString("\n")
	}
	return strconv.FormatUint(h.Sum64(), 16)
}

// Generation returns the unique id of this snapshot.
func (c *Catalog) Generation() string { return c.generation }

// Fingerprint returns a hash of the catalog's element ids. Loading the
// same container twice yields the same fingerprint.
func (c *Catalog) Fingerprint() string { return c.fingerprint }

// Elements returns every element: types followed by their members, then
// global members.
func (c *Catalog) Elements() []apicat.Element { return c.elements }

// ElementsOf returns the elements of one kind.
func (c *Catalog) ElementsOf(kind apicat.ElementKind) []apicat.Element { return c.byKind[kind] }

// Types returns the catalog's types in TOC order.
func (c *Catalog) Types() []*apicat.Type { return c.model.Types }

// GlobalMethods returns the methods not owned by any type.
func (c *Catalog) GlobalMethods() []*apicat.Method { return c.model.GlobalMethods }

// GlobalProperties returns the properties not owned by any type.
func (c *Catalog) GlobalProperties() []*apicat.Property { return c.model.GlobalProperties }

// Lookup returns the element of the given kind named name. Qualified
// "Type.Member" names are preferred; a plain member name falls back to the
// first member of that name in TOC order. English aliases are accepted,
// with either the local or the English owner name. An empty kind searches
// every kind.
func (c *Catalog) Lookup(kind apicat.ElementKind, name string) (apicat.Element, bool) {
	name = strings.TrimSpace(name)
	if name == "" || !c.names.MayContain(kind, name) {
		return nil, false
	}
	for _, tier := range c.lookup {
		for i, k := range apicat.ElementKinds {
			if kind != "" && kind != k {
				continue
			}
			if e, ok := tier[i].Get(name); ok {
				return e, true
			}
		}
	}
	return nil, false
}

// Type returns the type named name.
func (c *Catalog) Type(name string) (*apicat.Type, bool) {
	e, ok := c.Lookup(apicat.KindType, name)
	if !ok {
		return nil, false
	}
	t, ok := e.(*apicat.Type)
	return t, ok
}

// Members returns the methods and properties of t, followed by those of
// its base types when inherited is set. Members shadowed by a name already
// collected are left out.
func (c *Catalog) Members(t *apicat.Type, inherited bool) []apicat.Element {
	if !inherited {
		return t.Members()
	}

	var out []apicat.Element
	seen := make(map[string]bool)
	visited := make(map[string]bool)
	var walk func(t *apicat.Type)
	walk = func(t *apicat.Type) {
		if visited[t.ID] {
			return
		}
		visited[t.ID] = true
		for _, m := range t.Members() {
			key := string(m.Kind()) + ":" + strings.ToLower(m.Base().Name)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, m)
		}
		for _, base := range t.BaseTypes {
			if bt, ok := c.Type(base); ok {
				walk(bt)
			}
		}
	}
	walk(t)
	return out
}

// Suggest returns up to limit elements of kind whose name starts with
// prefix, in name order. An empty kind searches every kind.
func (c *Catalog) Suggest(kind apicat.ElementKind, prefix string, limit int) []apicat.Element {
	kinds := apicat.ElementKinds
	if kind != "" {
		kinds = []apicat.ElementKind{kind}
	}
	var out []apicat.Element
	for _, k := range kinds {
		if idx, ok := c.prefix[k]; ok {
			out = append(out, idx.Get(prefix)...)
		}
	}
	slices.SortStableFunc(out, func(a, b apicat.Element) int {
		return strings.Compare(strings.ToLower(a.Base().Name), strings.ToLower(b.Base().Name))
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Statistics summarises the snapshot.
func (c *Catalog) Statistics() *apicat.Statistics {
	s := &apicat.Statistics{
		Generation:  c.generation,
		LoadedAt:    c.loadedAt,
		Fingerprint: c.fingerprint,
		ByKind:      make(map[apicat.ElementKind]int),
		BySource:    make(map[apicat.Source]int),
		TOCNodes:    c.report.TOCNodes,
		Pages:       c.report.Pages,
		Parsed:      c.report.Pages - len(c.report.Failures),
		Skipped:     len(c.report.Failures),
		Failures:    c.report.Failures,
		Warnings:    c.model.Warnings,
	}
	for _, kind := range apicat.ElementKinds {
		s.ByKind[kind] = len(c.byKind[kind])
	}
	s.BySource[apicat.SourceType] = len(c.model.Types)
	s.BySource[apicat.SourceGlobal] = len(c.model.GlobalMethods) + len(c.model.GlobalProperties)
	s.BySource[apicat.SourceMember] = len(c.elements) - s.BySource[apicat.SourceType] - s.BySource[apicat.SourceGlobal]
	return s
}
