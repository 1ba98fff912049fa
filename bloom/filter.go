// Package bloom provides a probabilistic set of catalog element names.
package bloom

import (
	"strings"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/fwojciec/apicat"
)

// NameFilter answers "definitely absent" for element names that were never
// added, so exact lookups skip the indexes on a miss. Names are matched
// case-insensitively, per kind or across all kinds.
type NameFilter struct {
	f *bloom.BloomFilter
}

// NewNameFilter creates a filter sized for n element names with the given
// false positive rate.
func NewNameFilter(n uint, fpRate float64) *NameFilter {
	// Every name is stored under its kind and under the any-kind key.
	return &NameFilter{
		f: bloom.NewWithEstimates(2*max(n, 1), fpRate),
	}
}

func key(kind apicat.ElementKind, name string) string {
	return string(kind) + "\x00" + strings.ToLower(strings.TrimSpace(name))
}

// Add records that an element of kind is reachable under name.
func (f *NameFilter) Add(kind apicat.ElementKind, name string) {
	f.f.AddString(key(kind, name))
	f.f.AddString(key("", name))
}

// MayContain reports whether an element of kind might be named name.
// An empty kind matches any kind. False negatives are impossible.
func (f *NameFilter) MayContain(kind apicat.ElementKind, name string) bool {
	return f.f.TestString(key(kind, name))
}

// EstimatedCount returns the approximate number of stored keys.
func (f *NameFilter) EstimatedCount() uint {
	return uint(f.f.ApproximatedSize())
}
