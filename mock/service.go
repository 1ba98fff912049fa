package mock

import (
	"context"

	"github.com/fwojciec/apicat"
)

var _ apicat.CatalogService = (*CatalogService)(nil)

// CatalogService is a mock implementation of apicat.CatalogService.
type CatalogService struct {
	SearchFn           func(ctx context.Context, q apicat.SearchQuery) ([]apicat.SearchResultItem, error)
	FindByExactNameFn  func(ctx context.Context, kind apicat.ElementKind, name string) (apicat.Element, error)
	FindMembersFn      func(ctx context.Context, typeName string, includeInherited bool) ([]apicat.Element, error)
	FindMemberFn       func(ctx context.Context, typeName, memberName string) (apicat.Element, error)
	FindConstructorsFn func(ctx context.Context, typeName string) ([]apicat.Signature, error)
	SuggestFn          func(ctx context.Context, kind apicat.ElementKind, prefix string, limit int) ([]apicat.Element, error)
	StatisticsFn       func(ctx context.Context) (*apicat.Statistics, error)
}

func (s *CatalogService) Search(ctx context.Context, q apicat.SearchQuery) ([]apicat.SearchResultItem, error) {
	return s.SearchFn(ctx, q)
}

func (s *CatalogService) FindByExactName(ctx context.Context, kind apicat.ElementKind, name string) (apicat.Element, error) {
	return s.FindByExactNameFn(ctx, kind, name)
}

func (s *CatalogService) FindMembers(ctx context.Context, typeName string, includeInherited bool) ([]apicat.Element, error) {
	return s.FindMembersFn(ctx, typeName, includeInherited)
}

func (s *CatalogService) FindMember(ctx context.Context, typeName, memberName string) (apicat.Element, error) {
	return s.FindMemberFn(ctx, typeName, memberName)
}

func (s *CatalogService) FindConstructors(ctx context.Context, typeName string) ([]apicat.Signature, error) {
	return s.FindConstructorsFn(ctx, typeName)
}

func (s *CatalogService) Suggest(ctx context.Context, kind apicat.ElementKind, prefix string, limit int) ([]apicat.Element, error) {
	return s.SuggestFn(ctx, kind, prefix, limit)
}

func (s *CatalogService) Statistics(ctx context.Context) (*apicat.Statistics, error) {
	return s.StatisticsFn(ctx)
}
