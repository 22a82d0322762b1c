// Package once provides write-once storage slots and freeze-after-build
// containers used to record the results of resolution.
package once

import "easlyc/report"

// Cell is the untyped view of a write-once slot: what a resolution record needs
// to know to decide whether a phase is resolved and to reset it.
type Cell interface {
	// Name returns the name of the cell used in contract violation messages.
	Name() string

	// IsAssigned returns whether the cell has been written.
	IsAssigned() bool

	// Reset clears the cell so that it can be written again.
	Reset()
}

// Ref is a write-once slot.  It starts empty, is filled exactly once and is
// only emptied again by an explicit reset.  Writing twice or reading before
// writing is a contract violation.
type Ref[T any] struct {
	name     string
	item     T
	assigned bool
}

// NewRef creates a new, unassigned slot with the given name.
func NewRef[T any](name string) *Ref[T] {
	return &Ref[T]{name: name}
}

func (r *Ref[T]) Name() string {
	return r.name
}

func (r *Ref[T]) IsAssigned() bool {
	return r.assigned
}

// Item returns the value stored in the slot.
func (r *Ref[T]) Item() T {
	if !r.assigned {
		report.ICE("`%s` read before it was assigned", r.name)
	}

	return r.item
}

// TryItem returns the value stored in the slot and whether it was assigned.
func (r *Ref[T]) TryItem() (T, bool) {
	return r.item, r.assigned
}

// Set writes the slot.
func (r *Ref[T]) Set(item T) {
	if r.assigned {
		report.ICE("`%s` assigned twice", r.name)
	}

	r.item = item
	r.assigned = true
}

func (r *Ref[T]) Reset() {
	var zero T
	r.item = zero
	r.assigned = false
}
