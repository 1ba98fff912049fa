package html

import (
	"errors"
	"io"
	"strings"

	"github.com/fwojciec/apicat"
)

// Ensure PageParser implements apicat.PageParser at compile time.
var _ apicat.PageParser = (*PageParser)(nil)

// MarkerPrefix starts the class name of every block marker.
const MarkerPrefix = "V8SH_"

// block identifies a handler state of the page state machine.
type block int

const (
	blockNone block = iota
	blockName
	blockSyntax
	blockParameters
	blockDescription
	blockTypeRef
	blockReturns
	blockUsage
	blockExample
	blockBaseTypes
	blockSkip
	blockChapter
)

// transition describes what a marker does to the state machine: the block
// it activates, and the block that takes over once the marker element
// closes (blockNone keeps the current one).
type transition struct {
	open  block
	close block
}

// markers maps marker classes to transitions.
var markers = map[string]transition{
	"V8SH_pagetitle":   {open: blockName, close: blockDescription},
	"V8SH_rubric":      {open: blockParameters},
	"V8SH_chapter":     {open: blockChapter},
	"V8SH_heading":     {open: blockChapter},
	"V8SH_title":       {open: blockChapter},
	"V8SH_versionInfo": {open: blockSkip},
}

// chapters maps lowercased chapter titles to the block that handles the
// chapter body. Unlisted titles fall back to blockDescription.
var chapters = map[string]block{
	"синтаксис":              blockSyntax,
	"syntax":                 blockSyntax,
	"параметры":              blockSkip,
	"parameters":             blockSkip,
	"описание":               blockDescription,
	"description":            blockDescription,
	"тип":                    blockTypeRef,
	"type":                   blockTypeRef,
	"возвращаемое значение":  blockReturns,
	"return value":           blockReturns,
	"returned value":         blockReturns,
	"использование":          blockUsage,
	"usage":                  blockUsage,
	"пример":                 blockExample,
	"example":                blockExample,
	"базовые типы":           blockBaseTypes,
	"base types":             blockBaseTypes,
	"доступность":            blockSkip,
	"availability":           blockSkip,
	"см. также":              blockSkip,
	"see also":               blockSkip,
	"замечание":              blockSkip,
	"note":                   blockSkip,
	"использование в версии": blockSkip,
	"version":                blockSkip,
}

// blockElements may carry markers.
var blockElements = map[string]bool{
	"p": true, "div": true, "h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

// chapterBlock resolves a chapter title such as "Синтаксис:".
func chapterBlock(title string) block {
	key := strings.ToLower(strings.Join(strings.Fields(title), " "))
	key = strings.TrimRight(key, ": ")
	if b, ok := chapters[key]; ok {
		return b
	}
	return blockDescription
}

// handler consumes the events of one block kind. A page keeps one handler
// per kind, so a block kind that recurs resumes the same handler.
type handler interface {
	// start is called each time a marker or chapter activates the handler.
	start()
	// handle receives an event. heading is set while the event lies inside
	// the marker element that activated the handler.
	handle(ev Event, heading bool)
	// finish commits partial state when the block ends.
	finish()
	// record returns the extracted record, nil when the block produced
	// nothing, or EUNIMPLEMENTED when it lacked required input.
	record() (apicat.Record, error)
}

func newHandler(b block) handler {
	switch b {
	case blockName:
		return &nameHandler{}
	case blockSyntax:
		return &syntaxHandler{}
	case blockParameters:
		return &parametersHandler{}
	case blockDescription:
		return &descriptionHandler{}
	case blockTypeRef:
		return &typeRefHandler{}
	case blockReturns:
		return &typeRefHandler{returns: true}
	case blockUsage:
		return &usageHandler{}
	case blockExample:
		return &descriptionHandler{example: true}
	case blockBaseTypes:
		return &baseTypesHandler{}
	}
	return nil
}

// PageParser extracts records from syntax-helper pages. It is stateless and
// safe for concurrent use.
type PageParser struct{}

// NewPageParser creates a new PageParser.
func NewPageParser() *PageParser {
	return &PageParser{}
}

// Parse streams one page through the block state machine.
func (p *PageParser) Parse(id string, r io.Reader) (*apicat.Page, error) {
	m := &machine{handlers: make(map[block]handler)}
	t := NewTokenizer(r)
	for {
		ev, err := t.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if err := m.feed(ev); err != nil {
			return nil, err
		}
	}
	m.end()

	page := &apicat.Page{ID: id}
	for _, b := range m.order {
		rec, err := m.handlers[b].record()
		if err != nil {
			return nil, err
		}
		if rec != nil {
			page.Records = append(page.Records, rec)
		}
	}
	return page, nil
}

// machine is the per-page state: the active block, the marker element
// currently open and the handlers created so far.
type machine struct {
	state    block
	active   handler
	handlers map[block]handler
	order    []block

	// marker tracks the open marker element by tag name and nesting depth.
	marker      string
	markerDepth int
	onClose     block

	chapter strings.Builder
}

func (m *machine) feed(ev Event) error {
	if ev.Kind == OpenTag && blockElements[ev.Name] {
		if class, ok := markerClass(ev.Attr("class")); ok {
			return m.openMarker(ev, class)
		}
	}

	heading := m.marker != ""
	if heading {
		switch {
		case ev.Kind == OpenTag && ev.Name == m.marker && !ev.SelfClosing:
			m.markerDepth++
		case ev.Kind == CloseTag && ev.Name == m.marker:
			m.markerDepth--
			if m.markerDepth == 0 {
				m.closeMarker()
				return nil
			}
		}
	}

	if m.state == blockChapter {
		if ev.Kind == Text {
			m.chapter.WriteString(ev.Text)
		}
		return nil
	}
	if m.active != nil {
		m.active.handle(ev, heading)
	}
	return nil
}

func (m *machine) openMarker(ev Event, class string) error {
	tr, ok := markers[class]
	if !ok {
		return apicat.Errorf(apicat.EUNKNOWNBLOCK, "unknown block marker %q", class)
	}
	m.marker = ev.Name
	m.markerDepth = 1
	m.onClose = tr.close
	if tr.open == blockChapter {
		m.chapter.Reset()
	}
	m.activate(tr.open)
	return nil
}

func (m *machine) closeMarker() {
	m.marker = ""
	next := m.onClose
	if m.state == blockChapter {
		next = chapterBlock(m.chapter.String())
	}
	if next != blockNone {
		m.activate(next)
	}
}

// activate ends the current block and starts b.
func (m *machine) activate(b block) {
	if m.active != nil {
		m.active.finish()
	}
	m.state = b
	m.active = m.handlers[b]
	if m.active == nil {
		m.active = newHandler(b)
		if m.active != nil {
			m.handlers[b] = m.active
			m.order = append(m.order, b)
		}
	}
	if m.active != nil {
		m.active.start()
	}
}

func (m *machine) end() {
	if m.active != nil {
		m.active.finish()
	}
	m.active = nil
	m.state = blockNone
}

// markerClass returns the first class in attr that starts with MarkerPrefix.
func markerClass(attr string) (string, bool) {
	for _, c := range strings.Fields(attr) {
		if strings.HasPrefix(c, MarkerPrefix) {
			return c, true
		}
	}
	return "", false
}
