package mock

import "github.com/fwojciec/apicat"

var _ apicat.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of apicat.Extractor.
// A nil ExtractFn returns the whole input as untitled content.
type Extractor struct {
	ExtractFn func(html string) (*apicat.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*apicat.ExtractResult, error) {
	if e.ExtractFn == nil {
		return &apicat.ExtractResult{ContentHTML: html}, nil
	}
	return e.ExtractFn(html)
}
