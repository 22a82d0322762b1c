// Package resolve drives the resolution of a whole program: it collects the
// nodes reachable from the classes of a sealed universe and runs the resolvers
// phase by phase.
package resolve

import (
	"fmt"

	"easlyc/ast"
	"easlyc/depm"
)

// Program is the set of nodes reachable from the classes of a universe.  The
// nodes are attached when the program is built.
type Program struct {
	Universe *depm.Universe

	roots []ast.Node
	nodes []ast.Node
}

// NewProgram collects and attaches the nodes declared by the user classes of a
// sealed universe: constant values, parameter defaults, discrete values,
// contracts and bodies.
func NewProgram(u *depm.Universe) (*Program, error) {
	if !u.IsSealed() {
		return nil, fmt.Errorf("the universe must be sealed before resolution")
	}

	p := &Program{Universe: u}
	for _, class := range u.UserClasses() {
		if err := p.addClass(class); err != nil {
			return nil, err
		}
	}

	for _, root := range p.roots {
		p.nodes = append(p.nodes, ast.Collect(root)...)
	}

	return p, nil
}

func (p *Program) addClass(class *depm.Class) error {
	for _, d := range class.OwnDiscretes() {
		if d.Value != nil {
			if err := p.addExpression(d.Value, ast.Context{Class: class}); err != nil {
				return fmt.Errorf("value of discrete `%s.%s`: %w", class.Name, d.Name, err)
			}
		}
	}

	for _, f := range class.OwnFeatures() {
		if err := p.addFeature(class, f); err != nil {
			return fmt.Errorf("feature `%s.%s`: %w", class.Name, f.Name, err)
		}
	}

	return nil
}

func (p *Program) addFeature(class *depm.Class, f *depm.Feature) error {
	ctx := ast.Context{Class: class, Feature: f}

	if f.Value != nil {
		if err := p.addExpression(f.Value, ctx); err != nil {
			return err
		}
	}

	for _, o := range f.Overloads {
		octx := ctx
		octx.Overload = o

		if err := p.addOverload(o, octx); err != nil {
			return err
		}
	}

	// Accessors of indexers see the index parameters through the single
	// overload of the indexer.
	actx := ctx
	if f.Kind == depm.IndexerFeature && len(f.Overloads) == 1 {
		actx.Overload = f.Overloads[0]
	}

	if f.Getter != nil {
		actx.Accessor = ast.GetterAccessor
		if err := p.addBody(f.Getter, actx); err != nil {
			return err
		}
	}

	if f.Setter != nil {
		actx.Accessor = ast.SetterAccessor
		if err := p.addBody(f.Setter, actx); err != nil {
			return err
		}
	}

	return nil
}

func (p *Program) addOverload(o *depm.Overload, ctx ast.Context) error {
	for _, param := range o.Parameters {
		if param.Default != nil {
			if err := p.addExpression(param.Default, ctx); err != nil {
				return err
			}
		}
	}

	for _, src := range o.Require {
		if err := p.addAssertion(src, ast.RequireClause, ctx); err != nil {
			return err
		}
	}

	for _, src := range o.Ensure {
		if err := p.addAssertion(src, ast.EnsureClause, ctx); err != nil {
			return err
		}
	}

	if o.Body != nil && o.Feature.Kind != depm.IndexerFeature {
		return p.addBody(o.Body, ctx)
	}

	return nil
}

func (p *Program) addExpression(src depm.Source, ctx ast.Context) error {
	x, ok := src.(ast.Expression)
	if !ok {
		return fmt.Errorf("%s is not an expression", src.Describe())
	}

	p.attach(x, ctx)
	return nil
}

func (p *Program) addAssertion(src depm.Source, clause ast.Clause, ctx ast.Context) error {
	a, ok := src.(*ast.Assertion)
	if !ok || a.Clause != clause {
		return fmt.Errorf("%s is not a valid contract clause", src.Describe())
	}

	p.attach(a, ctx)
	return nil
}

func (p *Program) addBody(src depm.Source, ctx ast.Context) error {
	b, ok := src.(ast.Body)
	if !ok {
		return fmt.Errorf("%s is not a body", src.Describe())
	}

	p.attach(b, ctx)
	return nil
}

func (p *Program) attach(root ast.Node, ctx ast.Context) {
	ast.Attach(root, ctx)
	p.roots = append(p.roots, root)
}

// Nodes returns every node of the program in depth-first order.
func (p *Program) Nodes() []ast.Node {
	return p.nodes
}

// IsFullyResolved returns whether every node of the program is resolved for
// every phase.  Code generation may only run over a fully resolved program.
func (p *Program) IsFullyResolved() bool {
	for _, phase := range ast.Phases {
		if !ast.AllResolved(p.nodes, phase) {
			return false
		}
	}

	return true
}
