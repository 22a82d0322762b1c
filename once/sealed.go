package once

import (
	"sort"

	"easlyc/report"
)

// Table is a freeze-after-build map.  It is mutable until sealed; afterwards
// reads are safe from any goroutine and writes are contract violations.  The
// insertion order of keys is preserved.
type Table[K comparable, V any] struct {
	name    string
	entries map[K]V
	keys    []K
	sealed  bool
}

// NewTable creates a new, unsealed table.
func NewTable[K comparable, V any](name string) *Table[K, V] {
	return &Table[K, V]{name: name, entries: make(map[K]V)}
}

// Add adds a new entry to the table.  The key must not already be present.
func (t *Table[K, V]) Add(key K, value V) {
	if t.sealed {
		report.ICE("add to sealed table `%s`", t.name)
	}

	if _, ok := t.entries[key]; ok {
		report.ICE("duplicate key `%v` in table `%s`", key, t.name)
	}

	t.entries[key] = value
	t.keys = append(t.keys, key)
}

// Set adds or replaces an entry of the table.
func (t *Table[K, V]) Set(key K, value V) {
	if t.sealed {
		report.ICE("set in sealed table `%s`", t.name)
	}

	if _, ok := t.entries[key]; !ok {
		t.keys = append(t.keys, key)
	}

	t.entries[key] = value
}

// Get looks up an entry.
func (t *Table[K, V]) Get(key K) (V, bool) {
	v, ok := t.entries[key]
	return v, ok
}

// Has returns whether the table contains the key.
func (t *Table[K, V]) Has(key K) bool {
	_, ok := t.entries[key]
	return ok
}

// Len returns the number of entries.
func (t *Table[K, V]) Len() int {
	return len(t.keys)
}

// Keys returns the keys in insertion order.
func (t *Table[K, V]) Keys() []K {
	keys := make([]K, len(t.keys))
	copy(keys, t.keys)
	return keys
}

// Each calls f for every entry in insertion order.
func (t *Table[K, V]) Each(f func(K, V)) {
	for _, key := range t.keys {
		f(key, t.entries[key])
	}
}

// Seal freezes the table.
func (t *Table[K, V]) Seal() {
	if t.sealed {
		report.ICE("table `%s` sealed twice", t.name)
	}

	t.sealed = true
}

// IsSealed returns whether the table has been sealed.
func (t *Table[K, V]) IsSealed() bool {
	return t.sealed
}

// A table used as a resolution cell is assigned once it is sealed.

func (t *Table[K, V]) Name() string {
	return t.name
}

func (t *Table[K, V]) IsAssigned() bool {
	return t.sealed
}

// Reset empties and unseals the table.
func (t *Table[K, V]) Reset() {
	t.entries = make(map[K]V)
	t.keys = nil
	t.sealed = false
}

// SortedStringKeys returns the keys of a string keyed table in ascending order.
func SortedStringKeys[V any](t *Table[string, V]) []string {
	keys := t.Keys()
	sort.Strings(keys)
	return keys
}

// -----------------------------------------------------------------------------

// List is a freeze-after-build list.
type List[T any] struct {
	name   string
	items  []T
	sealed bool
}

// NewList creates a new, unsealed list.
func NewList[T any](name string) *List[T] {
	return &List[T]{name: name}
}

// Append appends items to the list.
func (l *List[T]) Append(items ...T) {
	if l.sealed {
		report.ICE("append to sealed list `%s`", l.name)
	}

	l.items = append(l.items, items...)
}

// At returns the item at the given index.
func (l *List[T]) At(i int) T {
	return l.items[i]
}

// Len returns the number of items.
func (l *List[T]) Len() int {
	return len(l.items)
}

// Items returns a copy of the items.
func (l *List[T]) Items() []T {
	items := make([]T, len(l.items))
	copy(items, l.items)
	return items
}

// Seal freezes the list.
func (l *List[T]) Seal() {
	if l.sealed {
		report.ICE("list `%s` sealed twice", l.name)
	}

	l.sealed = true
}

// IsSealed returns whether the list has been sealed.
func (l *List[T]) IsSealed() bool {
	return l.sealed
}
