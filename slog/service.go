package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/apicat"
)

// Ensure LoggingCatalogService implements apicat.CatalogService.
var _ apicat.CatalogService = (*LoggingCatalogService)(nil)

// LoggingCatalogService wraps a CatalogService with logging.
type LoggingCatalogService struct {
	next   apicat.CatalogService
	logger *slog.Logger
}

// NewLoggingCatalogService creates a new LoggingCatalogService.
func NewLoggingCatalogService(next apicat.CatalogService, logger *slog.Logger) *LoggingCatalogService {
	return &LoggingCatalogService{next: next, logger: logger}
}

func (s *LoggingCatalogService) Search(ctx context.Context, q apicat.SearchQuery) (items []apicat.SearchResultItem, err error) {
	defer func(begin time.Time) {
		s.logger.Info("search",
			"query", q.Text,
			"owner", q.Owner,
			"limit", q.Limit,
			"count", len(items),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Search(ctx, q)
}

func (s *LoggingCatalogService) FindByExactName(ctx context.Context, kind apicat.ElementKind, name string) (e apicat.Element, err error) {
	defer func(begin time.Time) {
		s.logger.Info("find by exact name",
			"kind", kind,
			"name", name,
			"found", e != nil,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindByExactName(ctx, kind, name)
}

func (s *LoggingCatalogService) FindMembers(ctx context.Context, typeName string, includeInherited bool) (members []apicat.Element, err error) {
	defer func(begin time.Time) {
		s.logger.Info("find members",
			"type", typeName,
			"inherited", includeInherited,
			"count", len(members),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindMembers(ctx, typeName, includeInherited)
}

func (s *LoggingCatalogService) FindMember(ctx context.Context, typeName, memberName string) (e apicat.Element, err error) {
	defer func(begin time.Time) {
		s.logger.Info("find member",
			"type", typeName,
			"member", memberName,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindMember(ctx, typeName, memberName)
}

func (s *LoggingCatalogService) FindConstructors(ctx context.Context, typeName string) (sigs []apicat.Signature, err error) {
	defer func(begin time.Time) {
		s.logger.Info("find constructors",
			"type", typeName,
			"count", len(sigs),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindConstructors(ctx, typeName)
}

func (s *LoggingCatalogService) Suggest(ctx context.Context, kind apicat.ElementKind, prefix string, limit int) (out []apicat.Element, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("suggest",
			"kind", kind,
			"prefix", prefix,
			"count", len(out),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Suggest(ctx, kind, prefix, limit)
}

func (s *LoggingCatalogService) Statistics(ctx context.Context) (*apicat.Statistics, error) {
	return s.next.Statistics(ctx)
}
