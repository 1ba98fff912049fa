package catalog

import (
	"context"
	"strings"

	"github.com/fwojciec/apicat"
	"github.com/fwojciec/apicat/search"
)

// Ensure Service implements apicat.CatalogService at compile time.
var _ apicat.CatalogService = (*Service)(nil)

// Service answers catalog queries against the holder's current snapshot.
type Service struct {
	holder *Holder
	loader *Loader
	engine search.Engine
}

// NewService creates a Service. Queries run through engine, which is
// expected to rank and truncate its results.
func NewService(holder *Holder, loader *Loader, engine search.Engine) *Service {
	return &Service{holder: holder, loader: loader, engine: engine}
}

// Reload builds a catalog from the container at path and publishes it. On
// failure the previously published catalog stays current.
func (s *Service) Reload(ctx context.Context, path string) (*apicat.Statistics, error) {
	c, err := s.loader.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	s.holder.Publish(c)
	return c.Statistics(), nil
}

// Search validates q and runs it against the candidates it selects.
func (s *Service) Search(_ context.Context, q apicat.SearchQuery) ([]apicat.SearchResultItem, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	c, err := s.holder.Current()
	if err != nil {
		return nil, err
	}
	candidates, err := s.candidates(c, q)
	if err != nil {
		return nil, err
	}
	return s.engine.Search(q, candidates), nil
}

// candidates selects the elements a query may match: the members of the
// owner type when one is given, every element otherwise.
func (s *Service) candidates(c *Catalog, q apicat.SearchQuery) ([]apicat.Element, error) {
	pool := c.Elements()
	if q.Owner != "" {
		t, ok := c.Type(q.Owner)
		if !ok {
			return nil, apicat.Errorf(apicat.ETYPENOTFOUND, "type %q not found", q.Owner)
		}
		pool = c.Members(t, q.IncludeInherited)
		for _, ctor := range t.Constructors {
			pool = append(pool, ctor)
		}
	}
	if len(q.Kinds) == 0 {
		return pool, nil
	}
	out := make([]apicat.Element, 0, len(pool))
	for _, e := range pool {
		if q.WantsKind(e.Kind()) {
			out = append(out, e)
		}
	}
	return out, nil
}

// FindByExactName returns nil without error when nothing matches.
func (s *Service) FindByExactName(_ context.Context, kind apicat.ElementKind, name string) (apicat.Element, error) {
	c, err := s.holder.Current()
	if err != nil {
		return nil, err
	}
	if e, ok := c.Lookup(kind, name); ok {
		return e, nil
	}
	return nil, nil
}

func (s *Service) FindMembers(_ context.Context, typeName string, includeInherited bool) ([]apicat.Element, error) {
	c, t, err := s.typeNamed(typeName)
	if err != nil {
		return nil, err
	}
	return c.Members(t, includeInherited), nil
}

func (s *Service) FindMember(_ context.Context, typeName, memberName string) (apicat.Element, error) {
	c, t, err := s.typeNamed(typeName)
	if err != nil {
		return nil, err
	}
	for _, m := range c.Members(t, true) {
		b := m.Base()
		if strings.EqualFold(b.Name, memberName) || (b.EnglishName != "" && strings.EqualFold(b.EnglishName, memberName)) {
			return m, nil
		}
	}
	return nil, apicat.Errorf(apicat.EMEMBERNOTFOUND, "type %q has no member %q", t.Name, memberName)
}

func (s *Service) FindConstructors(_ context.Context, typeName string) ([]apicat.Signature, error) {
	_, t, err := s.typeNamed(typeName)
	if err != nil {
		return nil, err
	}
	sigs := make([]apicat.Signature, len(t.Constructors))
	for i, c := range t.Constructors {
		sigs[i] = c.Signature
	}
	return sigs, nil
}

func (s *Service) Suggest(_ context.Context, kind apicat.ElementKind, prefix string, limit int) ([]apicat.Element, error) {
	c, err := s.holder.Current()
	if err != nil {
		return nil, err
	}
	if limit < 1 || limit > apicat.MaxSearchLimit {
		limit = apicat.DefaultSearchLimit
	}
	return c.Suggest(kind, prefix, limit), nil
}

func (s *Service) Statistics(_ context.Context) (*apicat.Statistics, error) {
	c, err := s.holder.Current()
	if err != nil {
		return nil, err
	}
	return c.Statistics(), nil
}

func (s *Service) typeNamed(name string) (*Catalog, *apicat.Type, error) {
	c, err := s.holder.Current()
	if err != nil {
		return nil, nil, err
	}
	t, ok := c.Type(name)
	if !ok {
		return nil, nil, apicat.Errorf(apicat.ETYPENOTFOUND, "type %q not found", name)
	}
	return c, t, nil
}
