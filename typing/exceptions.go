package typing

import (
	"sort"
	"strings"
)

// ResultException is the immutable set of exception identifiers the
// evaluation of a node can raise.
type ResultException struct {
	ids []string
}

// NewResultException creates an exception set from a list of identifiers.
func NewResultException(ids ...string) *ResultException {
	return (&ResultException{}).with(ids)
}

// NoException returns the empty exception set.
func NoException() *ResultException {
	return &ResultException{}
}

// Propagate returns the exceptions of a single source, passed through as is.
func Propagate(src *ResultException) *ResultException {
	if src == nil {
		return NoException()
	}

	return src
}

// Merge returns the union of this set with other sets.  Nil sets are ignored.
func (re *ResultException) Merge(others ...*ResultException) *ResultException {
	ids := re.ids
	for _, other := range others {
		if other != nil {
			ids = append(ids[:len(ids):len(ids)], other.ids...)
		}
	}

	return (&ResultException{}).with(ids)
}

// MergeAll returns the union of a list of sets.
func MergeAll(sets ...*ResultException) *ResultException {
	return NoException().Merge(sets...)
}

// Add returns the union of this set with the given identifiers.
func (re *ResultException) Add(ids ...string) *ResultException {
	return (&ResultException{}).with(append(re.ids[:len(re.ids):len(re.ids)], ids...))
}

// with sets the identifiers of the set, sorted and without duplicates.
func (re *ResultException) with(ids []string) *ResultException {
	sorted := make([]string, len(ids))
	copy(sorted, ids)
	sort.Strings(sorted)

	for _, id := range sorted {
		if len(re.ids) == 0 || re.ids[len(re.ids)-1] != id {
			re.ids = append(re.ids, id)
		}
	}

	return re
}

// Has returns whether the set contains an identifier.
func (re *ResultException) Has(id string) bool {
	i := sort.SearchStrings(re.ids, id)
	return i < len(re.ids) && re.ids[i] == id
}

// IDs returns the sorted identifiers.
func (re *ResultException) IDs() []string {
	ids := make([]string, len(re.ids))
	copy(ids, re.ids)
	return ids
}

// Len returns the number of identifiers.
func (re *ResultException) Len() int {
	return len(re.ids)
}

// Equals returns whether two sets contain the same identifiers.
func (re *ResultException) Equals(other *ResultException) bool {
	if len(re.ids) != len(other.ids) {
		return false
	}

	for i, id := range re.ids {
		if other.ids[i] != id {
			return false
		}
	}

	return true
}

func (re *ResultException) String() string {
	return "{" + strings.Join(re.ids, ", ") + "}"
}
