// Package index provides generic lookup structures over catalog elements.
//
// Both index kinds swap their whole state in one atomic step on Load, so a
// reader never observes a partially loaded index.
package index

import (
	"sort"
	"strings"
	"sync/atomic"
)

// KeyFunc extracts the lookup key of an item.
type KeyFunc[T any] func(T) string

func normalize(key string) string {
	return strings.ToLower(key)
}

// Exact maps case-insensitive keys to at most one item each.
type Exact[T any] struct {
	state atomic.Pointer[map[string]T]
}

// NewExact returns an empty exact index.
func NewExact[T any]() *Exact[T] {
	return &Exact[T]{}
}

// Load replaces the index contents. When several items share a key the
// first one wins.
func (x *Exact[T]) Load(items []T, key KeyFunc[T]) {
	m := make(map[string]T, len(items))
	for _, item := range items {
		k := normalize(key(item))
		if _, ok := m[k]; ok {
			continue
		}
		m[k] = item
	}
	x.state.Store(&m)
}

// Get returns the item stored under key.
func (x *Exact[T]) Get(key string) (T, bool) {
	var zero T
	m := x.state.Load()
	if m == nil {
		return zero, false
	}
	v, ok := (*m)[normalize(key)]
	return v, ok
}

// Size returns the number of keys.
func (x *Exact[T]) Size() int {
	m := x.state.Load()
	if m == nil {
		return 0
	}
	return len(*m)
}

// IsEmpty reports whether the index holds no keys.
func (x *Exact[T]) IsEmpty() bool {
	return x.Size() == 0
}

// Keys returns the loaded keys in ascending order.
func (x *Exact[T]) Keys() []string {
	m := x.state.Load()
	if m == nil {
		return nil
	}
	keys := make([]string, 0, len(*m))
	for k := range *m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

type prefixEntry[T any] struct {
	key  string
	item T
}

// Prefix holds items under lowercased keys in sorted order and returns
// every item whose key starts with a given prefix.
type Prefix[T any] struct {
	state atomic.Pointer[[]prefixEntry[T]]
}

// NewPrefix returns an empty prefix index.
func NewPrefix[T any]() *Prefix[T] {
	return &Prefix[T]{}
}

// Load replaces the index contents. Items sharing a key are all kept, in
// input order.
func (x *Prefix[T]) Load(items []T, key KeyFunc[T]) {
	entries := make([]prefixEntry[T], len(items))
	for i, item := range items {
		entries[i] = prefixEntry[T]{key: normalize(key(item)), item: item}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].key < entries[j].key
	})
	x.state.Store(&entries)
}

// Get returns the items whose key lies in [prefix, prefix+successor), in
// key order.
func (x *Prefix[T]) Get(prefix string) []T {
	p := x.state.Load()
	if p == nil {
		return nil
	}
	entries := *p
	prefix = normalize(prefix)

	start := sort.Search(len(entries), func(i int) bool {
		return entries[i].key >= prefix
	})
	var out []T
	for i := start; i < len(entries) && strings.HasPrefix(entries[i].key, prefix); i++ {
		out = append(out, entries[i].item)
	}
	return out
}

// Size returns the number of items.
func (x *Prefix[T]) Size() int {
	p := x.state.Load()
	if p == nil {
		return 0
	}
	return len(*p)
}

// IsEmpty reports whether the index holds no items.
func (x *Prefix[T]) IsEmpty() bool {
	return x.Size() == 0
}
