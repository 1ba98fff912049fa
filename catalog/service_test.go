package catalog_test

import (
	"context"
	"testing"

	"github.com/fwojciec/apicat"
	"github.com/fwojciec/apicat/catalog"
	"github.com/fwojciec/apicat/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_Search(t *testing.T) {
	t.Parallel()

	svc, _ := loadBook(t)

	t.Run("rejects invalid queries before searching", func(t *testing.T) {
		t.Parallel()

		for _, q := range []apicat.SearchQuery{
			{Text: "  ", Limit: 10},
			{Text: "x", Limit: 0},
			{Text: "x", Limit: 101},
			{Text: "x", Limit: 10, Threshold: 1.5},
			{Text: "x", Limit: 10, Threshold: -0.1},
		} {
			_, err := svc.Search(t.Context(), q)
			assert.Equal(t, apicat.EINVALID, apicat.ErrorCode(err), "%+v", q)
		}
	})

	t.Run("ranks exact match first", func(t *testing.T) {
		t.Parallel()

		got, err := svc.Search(t.Context(), apicat.SearchQuery{Text: "Добавить", Limit: 5, Threshold: 0.6})
		require.NoError(t, err)

		require.NotEmpty(t, got)
		assert.Equal(t, "method_массив.добавить", got[0].Element.Base().ID)
		assert.Equal(t, 1.0, got[0].Score)
	})

	t.Run("filters by kind", func(t *testing.T) {
		t.Parallel()

		got, err := svc.Search(t.Context(), apicat.SearchQuery{
			Text:  "Массив",
			Kinds: []apicat.ElementKind{apicat.KindType},
			Limit: 10,
		})
		require.NoError(t, err)

		require.NotEmpty(t, got)
		for _, it := range got {
			assert.Equal(t, apicat.KindType, it.Element.Kind())
		}
	})

	t.Run("scopes to owner with inherited members", func(t *testing.T) {
		t.Parallel()

		q := apicat.SearchQuery{Text: "ПолучитьТекст", Owner: "ЭлементDOM", Limit: 10, Threshold: 0.9}
		got, err := svc.Search(t.Context(), q)
		require.NoError(t, err)
		assert.Empty(t, got)

		q.IncludeInherited = true
		got, err = svc.Search(t.Context(), q)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "method_узелdom.получитьтекст", got[0].Element.Base().ID)
	})

	t.Run("returns ETYPENOTFOUND for unknown owner", func(t *testing.T) {
		t.Parallel()

		_, err := svc.Search(t.Context(), apicat.SearchQuery{Text: "x", Owner: "Нет", Limit: 10})
		assert.Equal(t, apicat.ETYPENOTFOUND, apicat.ErrorCode(err))
	})
}

func TestService_FindByExactName(t *testing.T) {
	t.Parallel()

	svc, _ := loadBook(t)
	ctx := t.Context()

	t.Run("finds types by local and english name", func(t *testing.T) {
		t.Parallel()

		e, err := svc.FindByExactName(ctx, apicat.KindType, "массив")
		require.NoError(t, err)
		require.NotNil(t, e)
		assert.Equal(t, "Массив", e.Base().Name)

		e, err = svc.FindByExactName(ctx, apicat.KindType, "Array")
		require.NoError(t, err)
		require.NotNil(t, e)
		assert.Equal(t, "type_массив", e.Base().ID)
	})

	t.Run("finds members by qualified name and globals by plain name", func(t *testing.T) {
		t.Parallel()

		e, err := svc.FindByExactName(ctx, apicat.KindProperty, "ЭлементDOM.Атрибуты")
		require.NoError(t, err)
		require.NotNil(t, e)

		e, err = svc.FindByExactName(ctx, apicat.KindMethod, "Сообщить")
		require.NoError(t, err)
		require.NotNil(t, e)
		assert.Equal(t, "", e.Base().Owner)
	})

	t.Run("finds members by plain name", func(t *testing.T) {
		t.Parallel()

		e, err := svc.FindByExactName(ctx, apicat.KindMethod, "Добавить")
		require.NoError(t, err)
		require.NotNil(t, e)
		assert.Equal(t, "method_массив.добавить", e.Base().ID)

		e, err = svc.FindByExactName(ctx, apicat.KindProperty, "Attributes")
		require.NoError(t, err)
		require.NotNil(t, e)
		assert.Equal(t, "ЭлементDOM", e.Base().Owner)
	})

	t.Run("finds members by english qualified name", func(t *testing.T) {
		t.Parallel()

		e, err := svc.FindByExactName(ctx, apicat.KindProperty, "DOMElement.Attributes")
		require.NoError(t, err)
		require.NotNil(t, e)
		assert.Equal(t, "property_элементdom.атрибуты", e.Base().ID)
	})

	t.Run("returns nil without error when absent", func(t *testing.T) {
		t.Parallel()

		e, err := svc.FindByExactName(ctx, apicat.KindType, "НетТакого")
		assert.NoError(t, err)
		assert.Nil(t, e)

		e, err = svc.FindByExactName(ctx, apicat.KindMethod, "Массив")
		assert.NoError(t, err)
		assert.Nil(t, e)
	})
}

func TestService_FindMembers(t *testing.T) {
	t.Parallel()

	svc, _ := loadBook(t)
	ctx := t.Context()

	t.Run("returns own members", func(t *testing.T) {
		t.Parallel()

		got, err := svc.FindMembers(ctx, "ЭлементDOM", false)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Атрибуты", got[0].Base().Name)
	})

	t.Run("includes inherited members", func(t *testing.T) {
		t.Parallel()

		got, err := svc.FindMembers(ctx, "DOMElement", true)
		require.NoError(t, err)

		var names []string
		for _, e := range got {
			names = append(names, e.Base().Name)
		}
		assert.Equal(t, []string{"Атрибуты", "ПолучитьТекст"}, names)
	})

	t.Run("returns ETYPENOTFOUND", func(t *testing.T) {
		t.Parallel()

		_, err := svc.FindMembers(ctx, "Нет", false)
		assert.Equal(t, apicat.ETYPENOTFOUND, apicat.ErrorCode(err))
	})
}

func TestService_FindMember(t *testing.T) {
	t.Parallel()

	svc, _ := loadBook(t)
	ctx := t.Context()

	t.Run("returns the read-only property scenario", func(t *testing.T) {
		t.Parallel()

		e, err := svc.FindMember(ctx, "ЭлементDOM", "Attributes")
		require.NoError(t, err)

		p, ok := e.(*apicat.Property)
		require.True(t, ok)
		assert.Equal(t, "Атрибуты", p.Name)
		assert.Equal(t, "Attributes", p.EnglishName)
		assert.True(t, p.ReadOnly)
		assert.Equal(t, "КоллекцияАтрибутовDOM", p.Type)
	})

	t.Run("returns EMEMBERNOTFOUND", func(t *testing.T) {
		t.Parallel()

		_, err := svc.FindMember(ctx, "Массив", "Удалить")
		assert.Equal(t, apicat.EMEMBERNOTFOUND, apicat.ErrorCode(err))
	})

	t.Run("returns ETYPENOTFOUND", func(t *testing.T) {
		t.Parallel()

		_, err := svc.FindMember(ctx, "Нет", "Удалить")
		assert.Equal(t, apicat.ETYPENOTFOUND, apicat.ErrorCode(err))
	})
}

func TestService_FindConstructors(t *testing.T) {
	t.Parallel()

	svc, _ := loadBook(t)
	ctx := t.Context()

	got, err := svc.FindConstructors(ctx, "Массив")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Новый Массив()", got[0].Syntax)

	got, err = svc.FindConstructors(ctx, "УзелDOM")
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = svc.FindConstructors(ctx, "Нет")
	assert.Equal(t, apicat.ETYPENOTFOUND, apicat.ErrorCode(err))
}

func TestService_Suggest(t *testing.T) {
	t.Parallel()

	svc, _ := loadBook(t)

	got, err := svc.Suggest(t.Context(), apicat.KindType, "эл", 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "ЭлементDOM", got[0].Base().Name)

	got, err = svc.Suggest(t.Context(), "", "", 2)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestService_Statistics(t *testing.T) {
	t.Parallel()

	svc, _ := loadBook(t)

	s, err := svc.Statistics(t.Context())
	require.NoError(t, err)

	assert.Equal(t, map[apicat.ElementKind]int{
		apicat.KindType:        4,
		apicat.KindMethod:      3,
		apicat.KindProperty:    1,
		apicat.KindConstructor: 1,
	}, s.ByKind)
	assert.Equal(t, map[apicat.Source]int{
		apicat.SourceType:   4,
		apicat.SourceGlobal: 1,
		apicat.SourceMember: 4,
	}, s.BySource)
	assert.Equal(t, 14, s.TOCNodes)
	assert.Equal(t, 13, s.Pages)
	assert.Equal(t, 12, s.Parsed)
	assert.Equal(t, 1, s.Skipped)
	require.Len(t, s.Failures, 1)
	assert.Equal(t, "Global context/methods/Broken.html", s.Failures[0].PageID)
	assert.Equal(t, apicat.EUNKNOWNBLOCK, s.Failures[0].Code)
	require.Len(t, s.Warnings, 1)
	assert.Contains(t, s.Warnings[0], "Orphan")
	assert.NotEmpty(t, s.Generation)
	assert.NotEmpty(t, s.Fingerprint)
}

func TestService_NotLoaded(t *testing.T) {
	t.Parallel()

	svc := catalog.NewService(catalog.NewHolder(), newLoader(), search.NewDefaultComposite())
	ctx := t.Context()

	_, err := svc.Search(ctx, apicat.SearchQuery{Text: "x", Limit: 10})
	assert.Equal(t, apicat.ENOTLOADED, apicat.ErrorCode(err))

	_, err = svc.FindByExactName(ctx, apicat.KindType, "x")
	assert.Equal(t, apicat.ENOTLOADED, apicat.ErrorCode(err))

	_, err = svc.FindMembers(ctx, "x", false)
	assert.Equal(t, apicat.ENOTLOADED, apicat.ErrorCode(err))

	_, err = svc.FindConstructors(ctx, "x")
	assert.Equal(t, apicat.ENOTLOADED, apicat.ErrorCode(err))

	_, err = svc.Suggest(ctx, apicat.KindType, "x", 5)
	assert.Equal(t, apicat.ENOTLOADED, apicat.ErrorCode(err))

	_, err = svc.Statistics(ctx)
	assert.Equal(t, apicat.ENOTLOADED, apicat.ErrorCode(err))
}

func TestService_Reload(t *testing.T) {
	t.Parallel()

	t.Run("failed reload keeps the published catalog", func(t *testing.T) {
		t.Parallel()

		svc, holder := loadBook(t)
		before, err := holder.Current()
		require.NoError(t, err)

		_, err = svc.Reload(t.Context(), t.TempDir()+"/missing.hbk")
		require.Error(t, err)

		after, err := holder.Current()
		require.NoError(t, err)
		assert.Same(t, before, after)
	})

	t.Run("cancelled reload keeps the published catalog", func(t *testing.T) {
		t.Parallel()

		svc, holder := loadBook(t)
		before, _ := holder.Current()

		ctx, cancel := context.WithCancel(t.Context())
		cancel()
		_, err := svc.Reload(ctx, writeBook(t))
		assert.ErrorIs(t, err, context.Canceled)

		after, _ := holder.Current()
		assert.Same(t, before, after)
	})

	t.Run("reload publishes a new generation", func(t *testing.T) {
		t.Parallel()

		svc, holder := loadBook(t)
		before, _ := holder.Current()

		_, err := svc.Reload(t.Context(), writeBook(t))
		require.NoError(t, err)

		after, _ := holder.Current()
		assert.NotEqual(t, before.Generation(), after.Generation())
		assert.Equal(t, before.Fingerprint(), after.Fingerprint())
	})
}

func TestService_StrategySelection(t *testing.T) {
	t.Parallel()

	holder := catalog.NewHolder()
	engine, err := search.Strategy(search.IntelligentEngine, search.DefaultWeights)
	require.NoError(t, err)
	svc := catalog.NewService(holder, newLoader(), engine)
	_, err = svc.Reload(t.Context(), writeBook(t))
	require.NoError(t, err)

	got, err := svc.Search(t.Context(), apicat.SearchQuery{Text: "пользователю", Limit: 3, Threshold: 0.3})
	require.NoError(t, err)
	require.NotEmpty(t, got)
	assert.Equal(t, "method_сообщить", got[0].Element.Base().ID)
	assert.Contains(t, got[0].Snippet, "<<пользователю>>")
}
