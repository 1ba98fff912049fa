// Package htmltomarkdown renders extracted help page bodies as Markdown.
package htmltomarkdown

import (
	"regexp"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/fwojciec/apicat"
)

// Ensure Converter implements apicat.Converter at compile time.
var _ apicat.Converter = (*Converter)(nil)

var (
	blankLines = regexp.MustCompile(`\n{3,}`)
	nbsp       = strings.NewReplacer("\u00a0", " ", "&nbsp;", " ")
)

// Converter wraps html-to-markdown to render help pages as Markdown.
type Converter struct {
	conv *converter.Converter

	// Domain, if set, resolves relative links in pages against it.
	Domain string
}

// NewConverter creates a new Converter.
func NewConverter() *Converter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	return &Converter{conv: conv}
}

// Convert transforms HTML content into Markdown. Help pages pad parameter
// headings with non-breaking spaces; those become plain spaces.
func (c *Converter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", apicat.Errorf(apicat.EINVALID, "empty HTML input")
	}

	var result string
	var err error
	if c.Domain != "" {
		result, err = c.conv.ConvertString(html, converter.WithDomain(c.Domain))
	} else {
		result, err = c.conv.ConvertString(html)
	}
	if err != nil {
		return "", err
	}

	return blankLines.ReplaceAllString(nbsp.Replace(result), "\n\n"), nil
}
