package catalog

import (
	"sync/atomic"

	"github.com/fwojciec/apicat"
)

// Holder publishes catalog snapshots to concurrent readers. Readers never
// lock; a publish is a single pointer swap.
type Holder struct {
	current atomic.Pointer[Catalog]
}

// NewHolder returns a Holder with no published catalog.
func NewHolder() *Holder {
	return &Holder{}
}

// Current returns the published catalog, or ENOTLOADED before the first
// publish.
func (h *Holder) Current() (*Catalog, error) {
	c := h.current.Load()
	if c == nil {
		return nil, apicat.Errorf(apicat.ENOTLOADED, "catalog not loaded")
	}
	return c, nil
}

// Publish makes c visible to all subsequent readers.
func (h *Holder) Publish(c *Catalog) {
	h.current.Store(c)
}
