// Package goquery isolates the readable parts of raw help pages using CSS
// selectors over the parsed document.
package goquery

import (
	stdhtml "html"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/apicat"
)

// Ensure Extractor implements apicat.Extractor at compile time.
var _ apicat.Extractor = (*Extractor)(nil)

// Selectors for the page markup. Chapter and rubric markers become headings
// so converted output keeps the page structure.
const (
	titleSelector   = "h1.V8SH_pagetitle"
	chapterSelector = ".V8SH_chapter, .V8SH_heading, .V8SH_title"
	rubricSelector  = ".V8SH_rubric"
	noiseSelector   = ".V8SH_versionInfo, script, style"
)

// Extractor extracts the heading and body of a help page.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the page title and its body with block markers rewritten
// as headings. Returns EINVALID when the page has neither.
func (e *Extractor) Extract(html string) (*apicat.ExtractResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, apicat.Errorf(apicat.EINVALID, "failed to parse HTML: %v", err)
	}

	heading := doc.Find(titleSelector).First()
	title := collapse(heading.Text())
	if title == "" {
		title = collapse(doc.Find("title").First().Text())
	}
	heading.Remove()
	doc.Find("head").Remove()
	doc.Find(noiseSelector).Remove()

	doc.Find(chapterSelector).Each(func(_ int, s *goquery.Selection) {
		s.ReplaceWithHtml(headingHTML("h2", strings.TrimRight(collapse(s.Text()), ": ")))
	})
	doc.Find(rubricSelector).Each(func(_ int, s *goquery.Selection) {
		s.ReplaceWithHtml(headingHTML("h3", collapse(s.Text())))
	})

	body, err := doc.Find("body").Html()
	if err != nil {
		return nil, apicat.Errorf(apicat.EINVALID, "failed to render body: %v", err)
	}
	body = strings.TrimSpace(body)
	if title == "" && body == "" {
		return nil, apicat.Errorf(apicat.EINVALID, "page has no content")
	}
	return &apicat.ExtractResult{Title: title, ContentHTML: body}, nil
}

func headingHTML(tag, text string) string {
	return "<" + tag + ">" + stdhtml.EscapeString(text) + "</" + tag + ">"
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
