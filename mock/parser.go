package mock

import (
	"io"

	"github.com/fwojciec/apicat"
)

var _ apicat.PageParser = (*PageParser)(nil)

// PageParser is a mock implementation of apicat.PageParser.
type PageParser struct {
	ParseFn func(id string, r io.Reader) (*apicat.Page, error)
}

func (p *PageParser) Parse(id string, r io.Reader) (*apicat.Page, error) {
	return p.ParseFn(id, r)
}
