package mock

import "github.com/fwojciec/apicat"

var _ apicat.Converter = (*Converter)(nil)

// Converter is a mock implementation of apicat.Converter.
// A nil ConvertFn returns the input unchanged.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	if c.ConvertFn == nil {
		return html, nil
	}
	return c.ConvertFn(html)
}
