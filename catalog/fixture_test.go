package catalog_test

import (
	"testing"

	"github.com/fwojciec/apicat/catalog"
	"github.com/fwojciec/apicat/hbk"
	"github.com/fwojciec/apicat/hbk/hbktest"
	"github.com/fwojciec/apicat/html"
	"github.com/fwojciec/apicat/search"
)

func bookTOC() []byte {
	return hbktest.TOC(
		hbktest.Node{ID: 1, ParentID: 0, Title: "Универсальные коллекции"},
		hbktest.Node{ID: 2, ParentID: 1, Title: "Массив", Path: "objects/Array.html"},
		hbktest.Node{ID: 3, ParentID: 2, Title: "Массив.Добавить", Path: "objects/Array/methods/Add.html"},
		hbktest.Node{ID: 4, ParentID: 2, Title: "Массив.Добавить", Path: "objects/Array/methods/Add2.html"},
		hbktest.Node{ID: 5, ParentID: 2, Title: "По умолчанию", Path: "objects/Array/ctors/Default.html"},
		hbktest.Node{ID: 6, ParentID: 0, Title: "УзелDOM", Path: "objects/DOMNode.html"},
		hbktest.Node{ID: 7, ParentID: 6, Title: "УзелDOM.ПолучитьТекст", Path: "objects/DOMNode/methods/GetText.html"},
		hbktest.Node{ID: 8, ParentID: 0, Title: "ЭлементDOM", Path: "objects/DOMElement.html"},
		hbktest.Node{ID: 9, ParentID: 8, Title: "ЭлементDOM.Атрибуты", Path: "objects/DOMElement/properties/Attributes.html"},
		hbktest.Node{ID: 10, ParentID: 0, Title: "Глобальный контекст", Path: "Global context.html"},
		hbktest.Node{ID: 11, ParentID: 10, Title: "Сообщить", Path: "Global context/methods/Message.html"},
		hbktest.Node{ID: 12, ParentID: 10, Title: "Сломанный", Path: "Global context/methods/Broken.html"},
		hbktest.Node{ID: 13, ParentID: 0, Title: "ВидСравнения", Path: "enums/ComparisonType.html"},
		hbktest.Node{ID: 14, ParentID: 10, Title: "Сирота", Path: "Global context/ctors/Orphan.html"},
	)
}

func bookFiles() []hbktest.File {
	return []hbktest.File{
		{Name: "objects/Array.html", Body: hbktest.Page("Массив (Array)",
			hbktest.Section{Chapter: "Описание", Body: "Коллекция значений с доступом по индексу."},
		)},
		{Name: "objects/Array/methods/Add.html", Body: hbktest.Page("Массив.Добавить (Array.Add)",
			hbktest.Section{Chapter: "Синтаксис", Body: "Добавить(&lt;Значение&gt;)"},
			hbktest.Section{Chapter: "Параметры", Body: hbktest.Param("&lt;Значение&gt; (необязательный)", `<a href="#">Произвольный</a>`, "Добавляемое значение.")},
			hbktest.Section{Chapter: "Описание", Body: "Добавляет элемент в конец массива."},
		)},
		{Name: "objects/Array/methods/Add2.html", Body: hbktest.Page("Массив.Добавить (Array.Add)",
			hbktest.Section{Chapter: "Синтаксис", Body: "Добавить(&lt;Значение&gt;, &lt;Количество&gt;)"},
			hbktest.Section{Chapter: "Параметры", Body: hbktest.Param("&lt;Значение&gt;", "Произвольный", "Значение.") +
				hbktest.Param("&lt;Количество&gt;", "Число", "Сколько раз добавить.")},
		)},
		{Name: "objects/Array/ctors/Default.html", Body: hbktest.Page("По умолчанию",
			hbktest.Section{Chapter: "Синтаксис", Body: "Новый Массив()"},
			hbktest.Section{Chapter: "Описание", Body: "Создает пустой массив."},
		)},
		{Name: "objects/DOMNode.html", Body: hbktest.Page("УзелDOM (DOMNode)")},
		{Name: "objects/DOMNode/methods/GetText.html", Body: hbktest.Page("УзелDOM.ПолучитьТекст (DOMNode.GetText)",
			hbktest.Section{Chapter: "Синтаксис", Body: "ПолучитьТекст()"},
			hbktest.Section{Chapter: "Возвращаемое значение", Body: `Тип: <a href="#">Строка</a>.`},
		)},
		{Name: "objects/DOMElement.html", Body: hbktest.Page("ЭлементDOM (DOMElement)",
			hbktest.Section{Chapter: "Базовые типы", Body: `<a href="#">УзелDOM</a>`},
		)},
		{Name: "objects/DOMElement/properties/Attributes.html", Body: hbktest.Page("ЭлементDOM.Атрибуты (DOMElement.Attributes)",
			hbktest.Section{Chapter: "Использование", Body: "Только чтение."},
			hbktest.Section{Chapter: "Тип", Body: `<a href="#">КоллекцияАтрибутовDOM</a>.`},
		)},
		{Name: "Global context.html", Body: hbktest.Page("Глобальный контекст")},
		{Name: "Global context/methods/Message.html", Body: hbktest.Page("Сообщить (Message)",
			hbktest.Section{Chapter: "Синтаксис", Body: "Сообщить(&lt;ТекстСообщения&gt;)"},
			hbktest.Section{Chapter: "Описание", Body: "Выводит сообщение пользователю."},
		)},
		{Name: "Global context/methods/Broken.html", Body: `<h1 class="V8SH_pagetitle">Сломанный</h1><p class="V8SH_mystery">?</p>`},
		{Name: "enums/ComparisonType.html", Body: hbktest.Page("ВидСравнения (ComparisonType)")},
		{Name: "Global context/ctors/Orphan.html", Body: hbktest.Page("Сирота")},
	}
}

// writeBook writes the fixture container and returns its path.
func writeBook(t *testing.T) string {
	t.Helper()
	return hbktest.WriteBook(t, hbktest.Book(t, bookTOC(), bookFiles()...))
}

func newLoader() *catalog.Loader {
	return catalog.NewLoader(hbk.NewOpener(), html.NewPageParser())
}

// loadBook loads the fixture container into a fresh service.
func loadBook(t *testing.T) (*catalog.Service, *catalog.Holder) {
	t.Helper()

	holder := catalog.NewHolder()
	svc := catalog.NewService(holder, newLoader(), search.NewDefaultComposite())
	if _, err := svc.Reload(t.Context(), writeBook(t)); err != nil {
		t.Fatalf("load fixture: %v", err)
	}
	return svc, holder
}
