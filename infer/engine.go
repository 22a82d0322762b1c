// Package infer classifies numeric values as integers or reals once the
// program is fully resolved.
package infer

import (
	"easlyc/ast"
	"easlyc/depm"
)

// slot is the number kind of a declaration: a parameter, a result, a feature,
// a local variable or a discrete.  Undeclared slots are inferred from the
// values flowing into them.
type slot struct {
	name     string
	declared depm.NumberKind
	kind     depm.NumberKind
	sources  []ast.Expression
}

// cell is either an ast.Expression or a *slot.
type cell interface{}

// Stats summarizes a run of the engine.
type Stats struct {
	// Rounds is the number of times the worklist was drained.
	Rounds int

	// Decided is the number of expressions whose kind was decided.
	Decided int
}

// Engine infers the number kinds of the expressions of a program.  Each
// expression and each declaration slot moves at most once from not checked to
// a terminal kind: an expression is queued again only when one of its inputs
// is decided, so the engine stops when the queue is empty and no slot can be
// decided by stall-breaking.
type Engine struct {
	exprs []ast.Expression

	// slots is indexed by the declaration: *depm.Parameter, *depm.Feature,
	// *depm.Discrete or *ast.EntityDeclaration.
	slots     map[interface{}]*slot
	slotOrder []*slot

	dependents map[cell][]cell

	queue  []cell
	queued map[cell]bool
}

// NewEngine creates an engine over the declarations of the given classes and
// the given nodes.  Every node must be resolved.
func NewEngine(classes []*depm.Class, nodes []ast.Node) *Engine {
	e := &Engine{
		slots:      make(map[interface{}]*slot),
		dependents: make(map[cell][]cell),
		queued:     make(map[cell]bool),
	}

	for _, class := range classes {
		e.addDeclarations(class)
	}

	for _, n := range nodes {
		switch v := n.(type) {
		case ast.Expression:
			e.exprs = append(e.exprs, v)
		case *ast.Assignment:
			for _, dest := range v.ResolvedDestinations.Item() {
				e.addSource(e.destinationSlot(dest), v.Source)
			}
		case *ast.EntityDeclaration:
			s := e.slotOf(v, v.Name, v.DeclaredKind)
			if v.Default != nil {
				e.addSource(s, v.Default)
			}
		}

		if io, ok := n.(*ast.InitializedObject); ok {
			for _, arg := range io.Assignments {
				if f, ok := io.AssignedFeatureTable.Get(arg.Name); ok {
					e.addSource(e.slotOf(f, f.Name, f.DeclaredKind), arg.Value)
				}
			}
		}

		// Each argument flows into the parameter it is bound to.
		if fc, ok := featureCallOf(n); ok && fc != nil {
			for _, b := range fc.Bindings {
				if b.Argument == nil {
					continue
				}

				if value, ok := argumentValue(b.Argument); ok {
					e.addSource(e.paramSlot(b.Parameter), value)
				}
			}
		}
	}

	for _, x := range e.exprs {
		for _, input := range e.inputsOf(x) {
			e.dependents[input] = append(e.dependents[input], x)
		}
	}

	return e
}

func (e *Engine) addDeclarations(class *depm.Class) {
	for _, f := range class.OwnFeatures() {
		s := e.slotOf(f, f.Name, f.DeclaredKind)
		if value, ok := f.Value.(ast.Expression); ok {
			e.addSource(s, value)
		}

		for _, o := range f.Overloads {
			for _, p := range o.Parameters {
				ps := e.slotOf(p, p.Name, p.DeclaredKind)
				if def, ok := p.Default.(ast.Expression); ok {
					e.addSource(ps, def)
				}
			}
		}
	}

	for _, d := range class.OwnDiscretes() {
		s := e.slotOf(d, d.Name, depm.NumberNotChecked)
		if value, ok := d.Value.(ast.Expression); ok {
			e.addSource(s, value)
		} else {
			s.declared, s.kind = depm.NumberInteger, depm.NumberInteger
		}
	}
}

// slotOf returns the slot of a declaration, creating it on first use.
func (e *Engine) slotOf(key interface{}, name string, declared depm.NumberKind) *slot {
	if s, ok := e.slots[key]; ok {
		return s
	}

	s := &slot{name: name, declared: declared}
	if declared.IsTerminal() {
		s.kind = declared
	}

	e.slots[key] = s
	e.slotOrder = append(e.slotOrder, s)
	return s
}

func (e *Engine) addSource(s *slot, x ast.Expression) {
	s.sources = append(s.sources, x)
	e.dependents[x] = append(e.dependents[x], s)
}

func (e *Engine) destinationSlot(d ast.Destination) *slot {
	if d.Feature != nil {
		return e.slotOf(d.Feature, d.Feature.Name, d.Feature.DeclaredKind)
	}

	return e.localSlot(d.Local)
}

func (e *Engine) localSlot(l *ast.Local) *slot {
	if l.Parameter != nil {
		return e.slotOf(l.Parameter, l.Name, l.Parameter.DeclaredKind)
	}

	return e.slotOf(l.Declaration, l.Name, l.Declaration.DeclaredKind)
}

func (e *Engine) paramSlot(p *depm.Parameter) *slot {
	return e.slotOf(p, p.Name, p.DeclaredKind)
}

func (e *Engine) featureSlot(f *depm.Feature) *slot {
	return e.slotOf(f, f.Name, f.DeclaredKind)
}

// -----------------------------------------------------------------------------

// Restart forgets every inferred kind.  Declared kinds are kept.
func (e *Engine) Restart() {
	for _, x := range e.exprs {
		x.Expr().RestartNumberKind()
	}

	for _, s := range e.slotOrder {
		s.kind = s.declared
	}
}

// Run infers the kinds of all the expressions.  Running again without a
// restart decides nothing new.
func (e *Engine) Run() Stats {
	var stats Stats

	for _, x := range e.exprs {
		e.push(x)
	}

	for {
		if len(e.queue) > 0 {
			stats.Rounds++
			stats.Decided += e.drain()
			continue
		}

		if e.breakStall(false) || e.breakStall(true) {
			continue
		}

		if forced := e.forceExpressions(); forced > 0 {
			stats.Decided += forced
			continue
		}

		return stats
	}
}

func (e *Engine) push(c cell) {
	if !e.queued[c] {
		e.queued[c] = true
		e.queue = append(e.queue, c)
	}
}

// drain processes the queue until it is empty, returning the number of
// expressions decided.
func (e *Engine) drain() int {
	decided := 0

	for len(e.queue) > 0 {
		c := e.queue[0]
		e.queue = e.queue[1:]
		delete(e.queued, c)

		switch v := c.(type) {
		case ast.Expression:
			if v.Expr().NumberKind().IsTerminal() {
				continue
			}

			if k := e.kindOf(v); k.IsTerminal() {
				v.Expr().RefineNumberKind(k)
				decided++
				e.notify(v)
			}
		case *slot:
			if v.kind.IsTerminal() {
				continue
			}

			if k, complete := joinSources(v); complete && k.IsTerminal() {
				v.kind = k
				e.notify(v)
			}
		}
	}

	return decided
}

func (e *Engine) notify(c cell) {
	for _, d := range e.dependents[c] {
		e.push(d)
	}
}

// joinSources joins the kinds of the decided sources of a slot.  complete
// indicates whether every source is decided.
func joinSources(s *slot) (depm.NumberKind, bool) {
	kind := depm.NumberNotChecked
	complete := len(s.sources) > 0

	for _, src := range s.sources {
		k := src.Expr().NumberKind()
		switch {
		case !k.IsNumeric():
			complete = complete && k.IsTerminal()
		case kind == depm.NumberNotChecked:
			kind = k
		default:
			kind = depm.JoinNumberKinds(kind, k)
		}
	}

	if complete && kind == depm.NumberNotChecked {
		return depm.NumberNotApplicable, true
	}

	return kind, complete
}

// breakStall decides undecided slots when the queue is empty.  Slots with at
// least one decided source take the join of the decided sources.  If force is
// set, all the remaining slots are decided as reals.
func (e *Engine) breakStall(force bool) bool {
	progress := false

	for _, s := range e.slotOrder {
		if s.kind.IsTerminal() {
			continue
		}

		k, _ := joinSources(s)
		if !k.IsTerminal() {
			if !force {
				continue
			}

			k = depm.NumberReal
		}

		s.kind = k
		e.notify(s)
		progress = true
	}

	return progress
}

// forceExpressions decides the expressions no rule can decide as reals.
func (e *Engine) forceExpressions() int {
	forced := 0

	for _, x := range e.exprs {
		if !x.Expr().NumberKind().IsTerminal() {
			x.Expr().RefineNumberKind(depm.NumberReal)
			e.notify(x)
			forced++
		}
	}

	return forced
}
