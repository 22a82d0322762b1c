package ast

import (
	"easlyc/once"
	"easlyc/report"
)

// Phase is a resolution phase.  It partitions the cells of the resolution
// records: a cell may only be written by the resolver of its phase.
type Phase int

// Enumeration of phases in the order they are run.
const (
	PhaseIdentifiers Phase = iota
	PhaseTypes
	PhaseContract
	PhaseBody

	numPhases
)

// Phases is the list of phases in the order they are run.
var Phases = []Phase{PhaseIdentifiers, PhaseTypes, PhaseContract, PhaseBody}

func (p Phase) String() string {
	switch p {
	case PhaseIdentifiers:
		return "identifiers"
	case PhaseTypes:
		return "types"
	case PhaseContract:
		return "contract"
	case PhaseBody:
		return "body"
	}

	return "?"
}

// Record is the resolution record of a node: its write-once cells grouped by
// the phase that writes them.
type Record struct {
	// required contains the cells that must all be written.
	required [numPhases][]once.Cell

	// exclusive contains groups of cells exactly one of which is written.
	exclusive [numPhases][][]once.Cell
}

// Own registers cells that a phase must write.
func (r *Record) Own(phase Phase, cells ...once.Cell) {
	r.required[phase] = append(r.required[phase], cells...)
}

// OwnOneOf registers mutually exclusive cells: a phase writes exactly one of
// them.
func (r *Record) OwnOneOf(phase Phase, cells ...once.Cell) {
	r.exclusive[phase] = append(r.exclusive[phase], cells)
}

// Owns returns whether the phase has any cell to write.
func (r *Record) Owns(phase Phase) bool {
	return len(r.required[phase]) > 0 || len(r.exclusive[phase]) > 0
}

// Cells returns every cell of the phase.
func (r *Record) Cells(phase Phase) []once.Cell {
	cells := append([]once.Cell(nil), r.required[phase]...)
	for _, group := range r.exclusive[phase] {
		cells = append(cells, group...)
	}

	return cells
}

// IsWritten returns whether every cell of the phase is written.  A phase that
// is only partly written is a contract violation: resolvers commit all their
// cells at once.
func (r *Record) IsWritten(phase Phase) bool {
	written, unwritten := 0, 0
	var firstUnwritten, firstWritten string

	count := func(c once.Cell) {
		if c.IsAssigned() {
			written++
			firstWritten = c.Name()
		} else {
			unwritten++
			if firstUnwritten == "" {
				firstUnwritten = c.Name()
			}
		}
	}

	for _, c := range r.required[phase] {
		count(c)
	}

	for _, group := range r.exclusive[phase] {
		assigned := 0
		for _, c := range group {
			if c.IsAssigned() {
				assigned++
				firstWritten = c.Name()
			}
		}

		switch assigned {
		case 0:
			count(group[0])
		case 1:
			written++
		default:
			report.ICE("more than one of the exclusive cells `%s`... is assigned", group[0].Name())
		}
	}

	if written > 0 && unwritten > 0 {
		report.ICE("%s phase partly written: `%s` is assigned but `%s` is not", phase, firstWritten, firstUnwritten)
	}

	return unwritten == 0
}

// Reset clears every cell of the phase.  Resetting a phase that owns cells
// that are not written is a contract violation.
func (r *Record) Reset(phase Phase) {
	if !r.Owns(phase) {
		return
	}

	if !r.IsWritten(phase) {
		report.ICE("reset of the unwritten %s phase", phase)
	}

	for _, c := range r.Cells(phase) {
		c.Reset()
	}
}
