// Package html extracts typed records from syntax-helper page markup.
//
// Pages are streamed through a forward-only Tokenizer built on
// golang.org/x/net/html and dispatched by a table-driven state machine to
// one block handler at a time.
package html

import (
	"errors"
	"io"
	"strings"

	xhtml "golang.org/x/net/html"
)

// EventKind identifies the kind of a tokenizer event.
type EventKind int

// EventKind values.
const (
	OpenTag EventKind = iota
	Text
	CloseTag
)

func (k EventKind) String() string {
	switch k {
	case OpenTag:
		return "open"
	case Text:
		return "text"
	case CloseTag:
		return "close"
	}
	return "unknown"
}

// Event is one tokenizer event.
type Event struct {
	Kind EventKind
	// Name is the lowercased tag name for OpenTag and CloseTag events.
	Name  string
	Attrs map[string]string
	// SelfClosing is set on OpenTag events for void elements. No CloseTag
	// event follows them.
	SelfClosing bool
	// Text holds unescaped character data for Text events.
	Text string
}

// Attr returns the value of the named attribute.
func (e Event) Attr(name string) string {
	return e.Attrs[name]
}

// voidElements never have content or a closing tag.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

// skippedElements have content that never reaches handlers.
var skippedElements = map[string]bool{
	"head": true, "script": true, "style": true,
}

// Tokenizer emits open-tag, text and close-tag events in document order.
type Tokenizer struct {
	z    *xhtml.Tokenizer
	skip string
}

// NewTokenizer returns a Tokenizer reading markup from r.
func NewTokenizer(r io.Reader) *Tokenizer {
	return &Tokenizer{z: xhtml.NewTokenizer(r)}
}

// Next returns the next event. It returns io.EOF after the last event and
// passes through any error from the underlying reader.
func (t *Tokenizer) Next() (Event, error) {
	for {
		tt := t.z.Next()
		if tt == xhtml.ErrorToken {
			err := t.z.Err()
			if errors.Is(err, io.EOF) {
				return Event{}, io.EOF
			}
			return Event{}, err
		}

		tok := t.z.Token()
		name := strings.ToLower(tok.Data)

		if t.skip != "" {
			if tt == xhtml.EndTagToken && name == t.skip {
				t.skip = ""
			}
			continue
		}

		switch tt {
		case xhtml.TextToken:
			return Event{Kind: Text, Text: tok.Data}, nil
		case xhtml.StartTagToken, xhtml.SelfClosingTagToken:
			void := tt == xhtml.SelfClosingTagToken || voidElements[name]
			if skippedElements[name] && !void {
				t.skip = name
				continue
			}
			return Event{Kind: OpenTag, Name: name, Attrs: attrs(tok.Attr), SelfClosing: void}, nil
		case xhtml.EndTagToken:
			if voidElements[name] {
				continue
			}
			return Event{Kind: CloseTag, Name: name}, nil
		}
		// Comments and doctypes carry no content.
	}
}

func attrs(in []xhtml.Attribute) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for _, a := range in {
		out[strings.ToLower(a.Key)] = a.Val
	}
	return out
}
