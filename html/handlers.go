package html

import (
	"regexp"
	"strings"

	"github.com/fwojciec/apicat"
)

// SplitName splits a heading of the form "Local (English)" into its local
// and English names. Strings without a " (" separator, or that do not end
// in ")", are returned unchanged with an empty English name.
func SplitName(s string) (local, english string) {
	idx := strings.Index(s, " (")
	if idx < 0 || !strings.HasSuffix(s, ")") {
		return s, ""
	}
	return s[:idx], s[idx+2 : len(s)-1]
}

// collapse trims s and folds internal whitespace runs into single spaces.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func isBreak(ev Event) bool {
	return ev.Kind == OpenTag && ev.Name == "br"
}

// nameHandler reads the page title.
type nameHandler struct {
	text strings.Builder
	seen bool
}

func (h *nameHandler) start() {}

func (h *nameHandler) handle(ev Event, heading bool) {
	if heading && ev.Kind == Text {
		h.text.WriteString(ev.Text)
		h.seen = true
	}
}

func (h *nameHandler) finish() {}

func (h *nameHandler) record() (apicat.Record, error) {
	title := collapse(h.text.String())
	if !h.seen || title == "" {
		return nil, apicat.Errorf(apicat.EUNIMPLEMENTED, "name handler: no heading text")
	}
	local, english := SplitName(title)
	return &apicat.NameRecord{Local: strings.TrimSpace(local), English: strings.TrimSpace(english)}, nil
}

// syntaxHandler concatenates all text of the syntax block.
type syntaxHandler struct {
	text strings.Builder
}

func (h *syntaxHandler) start() {}

func (h *syntaxHandler) handle(ev Event, _ bool) {
	if ev.Kind == Text {
		h.text.WriteString(ev.Text)
	}
}

func (h *syntaxHandler) finish() {}

func (h *syntaxHandler) record() (apicat.Record, error) {
	text := strings.TrimSpace(h.text.String())
	if text == "" {
		return nil, nil
	}
	return &apicat.SyntaxRecord{Text: text}, nil
}

// descriptionHandler accumulates text verbatim, quoting inline code in
// backticks. In example mode line breaks are kept as newlines.
type descriptionHandler struct {
	example bool
	text    strings.Builder
}

func (h *descriptionHandler) start() {}

func (h *descriptionHandler) handle(ev Event, _ bool) {
	switch {
	case ev.Kind == Text:
		h.text.WriteString(ev.Text)
	case ev.Name == "code" && !ev.SelfClosing:
		h.text.WriteByte('`')
	case h.example && isBreak(ev):
		h.text.WriteByte('\n')
	}
}

func (h *descriptionHandler) finish() {}

func (h *descriptionHandler) record() (apicat.Record, error) {
	text := strings.TrimSpace(h.text.String())
	if text == "" {
		return nil, nil
	}
	if h.example {
		return &apicat.ExampleRecord{Text: text}, nil
	}
	return &apicat.DescriptionRecord{Text: text}, nil
}

var typeMarker = regexp.MustCompile(`(?i)(?:Тип|Type)\s*:`)

// typeSentence reads "Тип: <a>Name</a>, <a>Other</a>." The type is the
// text of the hyperlinks before the terminating period, or the literal
// after the type marker when no hyperlink precedes it.
type typeSentence struct {
	links   []string
	link    strings.Builder
	inLink  bool
	literal strings.Builder
	period  bool
	done    bool
}

// feed consumes one event and reports any text left over after the
// terminating period.
func (s *typeSentence) feed(ev Event) (rest string, ended bool) {
	switch {
	case ev.Kind == OpenTag && ev.Name == "a":
		s.inLink = true
		s.link.Reset()
	case ev.Kind == CloseTag && ev.Name == "a":
		s.inLink = false
		if name := collapse(s.link.String()); name != "" {
			s.links = append(s.links, name)
		}
	case isBreak(ev):
		s.done = true
		return "", true
	case ev.Kind == Text && s.inLink:
		s.link.WriteString(ev.Text)
	case ev.Kind == Text:
		before, after, found := strings.Cut(ev.Text, ".")
		s.literal.WriteString(before)
		if found {
			s.done = true
			s.period = true
			return after, true
		}
	}
	return "", false
}

// typeName returns the sentence's type. Inside a type chapter a bare
// literal is the type itself.
func (s *typeSentence) typeName() string {
	if typ, text := s.split(); typ != "" || text == "" {
		return typ
	}
	return collapse(s.literal.String())
}

// split returns the type named by hyperlinks or after a type marker. A
// sentence with neither names no type and is returned as plain text,
// period included.
func (s *typeSentence) split() (typ, text string) {
	if len(s.links) > 0 {
		return strings.Join(s.links, ", "), ""
	}
	lit := s.literal.String()
	if loc := typeMarker.FindStringIndex(lit); loc != nil {
		return collapse(lit[loc[1]:]), ""
	}
	text = collapse(lit)
	if text != "" && s.period {
		text += "."
	}
	return "", text
}

var (
	optionalMarker = regexp.MustCompile(`(?i)\((?:необязательный|optional)\)`)
	defaultMarker  = regexp.MustCompile(`(?i)(?:Значение по умолчанию|Default value)\s*:\s*(.+)`)
)

type paramPhase int

const (
	phaseHeading paramPhase = iota
	phaseType
	phaseDescription
	phaseDone
)

// parametersHandler reads repeated parameter blocks, one per rubric.
type parametersHandler struct {
	params []apicat.Parameter

	active  bool
	phase   paramPhase
	heading strings.Builder
	typ     typeSentence
	desc    strings.Builder
	tail    strings.Builder
}

func (h *parametersHandler) start() {
	h.commit()
	h.active = true
	h.phase = phaseHeading
	h.heading.Reset()
	h.typ = typeSentence{}
	h.desc.Reset()
	h.tail.Reset()
}

func (h *parametersHandler) handle(ev Event, heading bool) {
	if !h.active {
		return
	}
	if heading {
		if ev.Kind == Text {
			h.heading.WriteString(ev.Text)
		}
		return
	}
	if h.phase == phaseHeading {
		h.phase = phaseType
	}

	switch h.phase {
	case phaseType:
		rest, ended := h.typ.feed(ev)
		if ended {
			h.phase = phaseDescription
			if _, untyped := h.typ.split(); untyped != "" {
				h.desc.WriteString(untyped + " ")
			}
			h.desc.WriteString(rest)
		}
	case phaseDescription:
		switch {
		case isBreak(ev) && strings.TrimSpace(h.desc.String()) == "":
		case isBreak(ev):
			h.phase = phaseDone
		case ev.Kind == Text:
			h.desc.WriteString(ev.Text)
		}
	case phaseDone:
		if ev.Kind == Text {
			h.tail.WriteString(ev.Text)
		} else if isBreak(ev) {
			h.tail.WriteByte('\n')
		}
	}
}

func (h *parametersHandler) finish() {
	h.commit()
}

// commit appends the parameter being read, if any.
func (h *parametersHandler) commit() {
	if !h.active {
		return
	}
	h.active = false

	heading := collapse(h.heading.String())
	typ, _ := h.typ.split()
	p := apicat.Parameter{
		Optional:    optionalMarker.MatchString(heading),
		Type:        typ,
		Description: collapse(h.desc.String()),
	}
	name, _ := SplitName(heading)
	p.Name = strings.Trim(strings.TrimSpace(name), "<>")
	for _, line := range strings.Split(h.tail.String(), "\n") {
		if m := defaultMarker.FindStringSubmatch(line); m != nil {
			v := strings.TrimSuffix(strings.TrimSpace(m[1]), ".")
			p.Default = &v
			break
		}
	}
	h.params = append(h.params, p)
}

func (h *parametersHandler) record() (apicat.Record, error) {
	for _, p := range h.params {
		if p.Name == "" {
			return nil, apicat.Errorf(apicat.EUNIMPLEMENTED, "parameters handler: parameter without heading")
		}
	}
	if len(h.params) == 0 {
		return nil, apicat.Errorf(apicat.EUNIMPLEMENTED, "parameters handler: no parameter heading")
	}
	return &apicat.ParametersRecord{Parameters: h.params}, nil
}

// typeRefHandler reads a property type or a method return value: a type
// sentence followed by a free-text description.
type typeRefHandler struct {
	returns bool
	typ     typeSentence
	desc    strings.Builder
	seen    bool
}

func (h *typeRefHandler) start() {}

func (h *typeRefHandler) handle(ev Event, _ bool) {
	if ev.Kind == Text && strings.TrimSpace(ev.Text) != "" {
		h.seen = true
	}
	if !h.typ.done {
		rest, _ := h.typ.feed(ev)
		h.desc.WriteString(rest)
		return
	}
	if ev.Kind == Text {
		h.desc.WriteString(ev.Text)
	}
}

func (h *typeRefHandler) finish() {}

func (h *typeRefHandler) record() (apicat.Record, error) {
	if !h.seen {
		return nil, nil
	}
	name, desc := h.typ.typeName(), collapse(h.desc.String())
	if h.returns {
		return &apicat.ReturnsRecord{TypeName: name, Description: desc}, nil
	}
	return &apicat.TypeRecord{TypeName: name, Description: desc}, nil
}

var readOnlyMarker = regexp.MustCompile(`(?i)только\s+чтение|read\s*only`)

// usageHandler reads the access mode of a property.
type usageHandler struct {
	text strings.Builder
}

func (h *usageHandler) start() {}

func (h *usageHandler) handle(ev Event, _ bool) {
	if ev.Kind == Text {
		h.text.WriteString(ev.Text)
	}
}

func (h *usageHandler) finish() {}

func (h *usageHandler) record() (apicat.Record, error) {
	text := collapse(h.text.String())
	if text == "" {
		return nil, nil
	}
	return &apicat.UsageRecord{ReadOnly: readOnlyMarker.MatchString(text)}, nil
}

// baseTypesHandler collects the hyperlinked names of base types, falling
// back to a comma-separated list when the chapter has no links.
type baseTypesHandler struct {
	links  []string
	link   strings.Builder
	inLink bool
	text   strings.Builder
}

func (h *baseTypesHandler) start() {}

func (h *baseTypesHandler) handle(ev Event, _ bool) {
	switch {
	case ev.Kind == OpenTag && ev.Name == "a":
		h.inLink = true
		h.link.Reset()
	case ev.Kind == CloseTag && ev.Name == "a":
		h.inLink = false
		if name := collapse(h.link.String()); name != "" {
			h.links = append(h.links, name)
		}
	case ev.Kind == Text && h.inLink:
		h.link.WriteString(ev.Text)
	case ev.Kind == Text:
		h.text.WriteString(ev.Text)
	}
}

func (h *baseTypesHandler) finish() {}

func (h *baseTypesHandler) record() (apicat.Record, error) {
	names := h.links
	if len(names) == 0 {
		for _, part := range strings.Split(h.text.String(), ",") {
			if name := strings.TrimSuffix(collapse(part), "."); name != "" {
				names = append(names, name)
			}
		}
	}
	if len(names) == 0 {
		return nil, nil
	}
	return &apicat.BaseTypesRecord{Names: names}, nil
}
