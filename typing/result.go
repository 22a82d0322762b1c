package typing

import (
	"strings"

	"easlyc/depm"
)

// ResultEntry is a single named, typed result slot.
type ResultEntry struct {
	Name string
	Type depm.Type

	// Preferred indicates that this entry is used when the expression is
	// consumed in a single value position.
	Preferred bool
}

// ResultType is the ordered list of results produced by evaluating an
// expression.  At most one entry is preferred.
type ResultType struct {
	entries []ResultEntry
}

// NewResultType creates a result type from a list of named types.  A single
// entry is always preferred; otherwise the entry named `Result`, if any, is.
func NewResultType(entries ...ResultEntry) *ResultType {
	rt := &ResultType{entries: make([]ResultEntry, len(entries))}
	copy(rt.entries, entries)

	for i := range rt.entries {
		rt.entries[i].Preferred = false
	}

	if len(rt.entries) == 1 {
		rt.entries[0].Preferred = true
	} else {
		for i := range rt.entries {
			if rt.entries[i].Name == depm.ResultName {
				rt.entries[i].Preferred = true
				break
			}
		}
	}

	return rt
}

// Single creates a result type with exactly one, preferred, entry.
func Single(name string, t depm.Type) *ResultType {
	return NewResultType(ResultEntry{Name: name, Type: t})
}

// Empty is the result type of expressions producing no value.
func Empty() *ResultType {
	return &ResultType{}
}

// ResultTypeOf builds the result type of a call to an overload of a feature
// accessed through a value of type base.  Base may be nil.
func ResultTypeOf(results []*depm.Parameter, owner *depm.Class, base depm.Type) *ResultType {
	entries := make([]ResultEntry, len(results))
	for i, r := range results {
		entries[i] = ResultEntry{Name: r.Name, Type: depm.Instantiate(r.Type, owner, base)}
	}

	return NewResultType(entries...)
}

// Entries returns the result entries in order.
func (rt *ResultType) Entries() []ResultEntry {
	return rt.entries
}

// Len returns the number of entries.
func (rt *ResultType) Len() int {
	return len(rt.entries)
}

// IsEmpty returns whether the result type has no entry.
func (rt *ResultType) IsEmpty() bool {
	return len(rt.entries) == 0
}

// Preferred returns the preferred entry, if any.
func (rt *ResultType) Preferred() (ResultEntry, bool) {
	for _, e := range rt.entries {
		if e.Preferred {
			return e, true
		}
	}

	return ResultEntry{}, false
}

// PreferredType returns the type of the preferred entry or nil.
func (rt *ResultType) PreferredType() depm.Type {
	if e, ok := rt.Preferred(); ok {
		return e.Type
	}

	return nil
}

// Lookup finds an entry by name.
func (rt *ResultType) Lookup(name string) (ResultEntry, bool) {
	for _, e := range rt.entries {
		if e.Name == name {
			return e, true
		}
	}

	return ResultEntry{}, false
}

// Equals returns whether two result types have the same entries.
func (rt *ResultType) Equals(other *ResultType) bool {
	if len(rt.entries) != len(other.entries) {
		return false
	}

	for i, e := range rt.entries {
		oe := other.entries[i]
		if e.Name != oe.Name || e.Preferred != oe.Preferred || !depm.Equals(e.Type, oe.Type) {
			return false
		}
	}

	return true
}

func (rt *ResultType) String() string {
	if len(rt.entries) == 0 {
		return "()"
	}

	if len(rt.entries) == 1 {
		return rt.entries[0].Type.Repr()
	}

	sb := strings.Builder{}
	sb.WriteRune('(')
	for i, e := range rt.entries {
		if i > 0 {
			sb.WriteString(", ")
		}

		sb.WriteString(e.Name)
		sb.WriteString(": ")
		sb.WriteString(e.Type.Repr())
	}
	sb.WriteRune(')')

	return sb.String()
}
