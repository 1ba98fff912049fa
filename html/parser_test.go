package html_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/apicat"
	"github.com/fwojciec/apicat/hbk/hbktest"
	"github.com/fwojciec/apicat/html"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, markup string) (*apicat.Page, error) {
	t.Helper()
	return html.NewPageParser().Parse("page.html", strings.NewReader(markup))
}

func findRecord[T apicat.Record](page *apicat.Page) T {
	var zero T
	for _, r := range page.Records {
		if v, ok := r.(T); ok {
			return v
		}
	}
	return zero
}

func TestSplitName(t *testing.T) {
	t.Parallel()

	t.Run("strings without separator are returned unchanged", func(t *testing.T) {
		t.Parallel()

		for _, s := range []string{"", "Массив", "Добавить(Значение)", " leading", "a(b)", "ends with )"} {
			local, english := html.SplitName(s)
			assert.Equal(t, s, local)
			assert.Equal(t, "", english)
		}
	})

	t.Run("splits local and english names", func(t *testing.T) {
		t.Parallel()

		for _, tc := range [][3]string{
			{"X (Y)", "X", "Y"},
			{"Атрибуты (Attributes)", "Атрибуты", "Attributes"},
			{"ТаблицаЗначений (ValueTable)", "ТаблицаЗначений", "ValueTable"},
		} {
			local, english := html.SplitName(tc[0])
			assert.Equal(t, tc[1], local)
			assert.Equal(t, tc[2], english)
		}
	})
}

func TestPageParser_Parse(t *testing.T) {
	t.Parallel()

	t.Run("reads a parameter with hyperlinked type", func(t *testing.T) {
		t.Parallel()

		page, err := parse(t, hbktest.Page("Массив.Добавить (Array.Add)",
			hbktest.Section{Chapter: "Параметры", Body: hbktest.Param(
				"&lt;Количество&gt; (необязательный)",
				`<a href="v8help://SyntaxHelperContext/def_Any">Произвольный</a>`,
				"Описание параметра",
			)},
		))
		require.NoError(t, err)

		rec := findRecord[*apicat.ParametersRecord](page)
		require.NotNil(t, rec)
		require.Len(t, rec.Parameters, 1)
		p := rec.Parameters[0]
		assert.Equal(t, "Количество", p.Name)
		assert.Equal(t, "Произвольный", p.Type)
		assert.True(t, p.Optional)
		assert.Equal(t, "Описание параметра", p.Description)
		assert.Nil(t, p.Default)
	})

	t.Run("keeps an untyped parameter sentence as its description", func(t *testing.T) {
		t.Parallel()

		page, err := parse(t, hbktest.Page("Сообщить (Message)",
			hbktest.Section{Chapter: "Параметры", Body: `<div class="V8SH_rubric">&lt;Имя&gt;</div>Описание параметра без типа.<br>` +
				hbktest.Param("&lt;Текст&gt;", "Строка", "Текст сообщения.")},
		))
		require.NoError(t, err)

		rec := findRecord[*apicat.ParametersRecord](page)
		require.NotNil(t, rec)
		require.Len(t, rec.Parameters, 2)
		assert.Equal(t, apicat.Parameter{Name: "Имя", Description: "Описание параметра без типа."}, rec.Parameters[0])
		assert.Equal(t, "Строка", rec.Parameters[1].Type)
		assert.Equal(t, "Текст сообщения.", rec.Parameters[1].Description)
	})

	t.Run("reads repeated parameters in order", func(t *testing.T) {
		t.Parallel()

		page, err := parse(t, hbktest.Page("Вставить (Insert)",
			hbktest.Section{Chapter: "Параметры", Body: hbktest.Param("&lt;Индекс&gt;", "Число", "Индекс вставки") +
				hbktest.Param("&lt;Значение&gt; (optional)", `<a href="#">Строка</a>, <a href="#">Число</a>`, "Вставляемое значение") +
				`Значение по умолчанию: Неопределено.`},
		))
		require.NoError(t, err)

		rec := findRecord[*apicat.ParametersRecord](page)
		require.NotNil(t, rec)
		require.Len(t, rec.Parameters, 2)

		assert.Equal(t, "Индекс", rec.Parameters[0].Name)
		assert.Equal(t, "Число", rec.Parameters[0].Type)
		assert.False(t, rec.Parameters[0].Optional)
		assert.Equal(t, "Индекс вставки", rec.Parameters[0].Description)

		assert.Equal(t, "Значение", rec.Parameters[1].Name)
		assert.Equal(t, "Строка, Число", rec.Parameters[1].Type)
		assert.True(t, rec.Parameters[1].Optional)
		require.NotNil(t, rec.Parameters[1].Default)
		assert.Equal(t, "Неопределено", *rec.Parameters[1].Default)
	})

	t.Run("reads a read-only property page", func(t *testing.T) {
		t.Parallel()

		page, err := parse(t, hbktest.Page("Атрибуты (Attributes)",
			hbktest.Section{Chapter: "Использование", Body: "Только чтение."},
			hbktest.Section{Chapter: "Тип", Body: `<a href="v8help://SyntaxHelperContext/objects/DOMAttributeCollection.html">КоллекцияАтрибутовDOM</a>.`},
			hbktest.Section{Chapter: "Описание", Body: "Содержит коллекцию атрибутов узла."},
		))
		require.NoError(t, err)

		name := page.Name()
		require.NotNil(t, name)
		assert.Equal(t, "Атрибуты", name.Local)
		assert.Equal(t, "Attributes", name.English)

		usage := findRecord[*apicat.UsageRecord](page)
		require.NotNil(t, usage)
		assert.True(t, usage.ReadOnly)

		typ := findRecord[*apicat.TypeRecord](page)
		require.NotNil(t, typ)
		assert.Equal(t, "КоллекцияАтрибутовDOM", typ.TypeName)

		desc := findRecord[*apicat.DescriptionRecord](page)
		require.NotNil(t, desc)
		assert.Equal(t, "Содержит коллекцию атрибутов узла.", desc.Text)
	})

	t.Run("reads a method page", func(t *testing.T) {
		t.Parallel()

		page, err := parse(t, hbktest.Page("Найти (Find)",
			hbktest.Section{Chapter: "Синтаксис", Body: "Найти(<span>&lt;Значение&gt;</span>)"},
			hbktest.Section{Chapter: "Возвращаемое значение", Body: `Тип: <a href="#">Число</a>. Индекс элемента.`},
			hbktest.Section{Chapter: "Описание", Body: "Ищет значение. Вызывает <code>Найти</code> рекурсивно."},
			hbktest.Section{Chapter: "Пример", Body: "Инд = Массив.Найти(1);<br>Сообщить(Инд);"},
			hbktest.Section{Chapter: "См. также", Body: `<a href="#">Массив</a>`},
		))
		require.NoError(t, err)

		syntax := findRecord[*apicat.SyntaxRecord](page)
		require.NotNil(t, syntax)
		assert.Equal(t, "Найти(<Значение>)", syntax.Text)

		ret := findRecord[*apicat.ReturnsRecord](page)
		require.NotNil(t, ret)
		assert.Equal(t, "Число", ret.TypeName)
		assert.Equal(t, "Индекс элемента.", ret.Description)

		desc := findRecord[*apicat.DescriptionRecord](page)
		require.NotNil(t, desc)
		assert.Equal(t, "Ищет значение. Вызывает `Найти` рекурсивно.", desc.Text)

		example := findRecord[*apicat.ExampleRecord](page)
		require.NotNil(t, example)
		assert.Equal(t, "Инд = Массив.Найти(1);\nСообщить(Инд);", example.Text)
	})

	t.Run("reads literal type when no hyperlink precedes the period", func(t *testing.T) {
		t.Parallel()

		page, err := parse(t, hbktest.Page("Размер (Size)",
			hbktest.Section{Chapter: "Тип", Body: "Тип: Число. Размер в байтах."},
		))
		require.NoError(t, err)

		typ := findRecord[*apicat.TypeRecord](page)
		require.NotNil(t, typ)
		assert.Equal(t, "Число", typ.TypeName)
		assert.Equal(t, "Размер в байтах.", typ.Description)
	})

	t.Run("reads base types", func(t *testing.T) {
		t.Parallel()

		page, err := parse(t, hbktest.Page("ДокументСсылка (DocumentRef)",
			hbktest.Section{Chapter: "Базовые типы", Body: `<a href="#">ЛюбаяСсылка</a>, <a href="#">СсылкаНаОбъект</a>`},
		))
		require.NoError(t, err)

		base := findRecord[*apicat.BaseTypesRecord](page)
		require.NotNil(t, base)
		assert.Equal(t, []string{"ЛюбаяСсылка", "СсылкаНаОбъект"}, base.Names)
	})

	t.Run("unknown chapters fall into the description", func(t *testing.T) {
		t.Parallel()

		page, err := parse(t, hbktest.Page("Тип (Kind)",
			hbktest.Section{Chapter: "Вариант синтаксиса", Body: "По умолчанию"},
		))
		require.NoError(t, err)

		desc := findRecord[*apicat.DescriptionRecord](page)
		require.NotNil(t, desc)
		assert.Equal(t, "По умолчанию", desc.Text)
	})

	t.Run("skips version info blocks", func(t *testing.T) {
		t.Parallel()

		page, err := parse(t, `<h1 class="V8SH_pagetitle">Массив (Array)</h1><p class="V8SH_versionInfo">Доступен, начиная с версии 8.0.</p>`)
		require.NoError(t, err)

		assert.Nil(t, findRecord[*apicat.DescriptionRecord](page))
	})

	t.Run("marker classes may be combined with other classes", func(t *testing.T) {
		t.Parallel()

		page, err := parse(t, `<h1 class="big V8SH_pagetitle">Массив (Array)</h1>`)
		require.NoError(t, err)

		require.NotNil(t, page.Name())
		assert.Equal(t, "Array", page.Name().English)
	})

	t.Run("pages without markers yield no records", func(t *testing.T) {
		t.Parallel()

		page, err := parse(t, `<html><body><p>plain</p></body></html>`)
		require.NoError(t, err)

		assert.Equal(t, "page.html", page.ID)
		assert.Empty(t, page.Records)
	})
}

func TestPageParser_Parse_Failures(t *testing.T) {
	t.Parallel()

	t.Run("fails with EUNKNOWNBLOCK on unknown marker", func(t *testing.T) {
		t.Parallel()

		_, err := parse(t, `<h1 class="V8SH_pagetitle">Массив</h1><p class="V8SH_mystery">?</p>`)

		assert.Equal(t, apicat.EUNKNOWNBLOCK, apicat.ErrorCode(err))
		assert.Contains(t, apicat.ErrorMessage(err), "V8SH_mystery")
	})

	t.Run("fails with EUNIMPLEMENTED when the title is empty", func(t *testing.T) {
		t.Parallel()

		_, err := parse(t, `<h1 class="V8SH_pagetitle">  </h1>`)

		assert.Equal(t, apicat.EUNIMPLEMENTED, apicat.ErrorCode(err))
	})

	t.Run("fails with EUNIMPLEMENTED when a parameter has no heading", func(t *testing.T) {
		t.Parallel()

		_, err := parse(t, hbktest.Page("Добавить (Add)",
			hbktest.Section{Chapter: "Параметры", Body: hbktest.Param("", "Число", "")},
		))

		assert.Equal(t, apicat.EUNIMPLEMENTED, apicat.ErrorCode(err))
	})

	t.Run("ignores markers on inline elements", func(t *testing.T) {
		t.Parallel()

		page, err := parse(t, `<h1 class="V8SH_pagetitle">Массив</h1><span class="V8SH_mystery">x</span>`)
		require.NoError(t, err)
		assert.Equal(t, "Массив", page.Name().Local)
	})
}
