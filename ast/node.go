// Package ast defines the nodes of the syntax tree and the resolution records
// they carry.
package ast

import (
	"strings"

	"easlyc/depm"
	"easlyc/once"
	"easlyc/report"
)

// Node is the interface implemented by every node of the syntax tree.  The set
// of nodes is closed: resolvers switch exhaustively over the concrete types.
type Node interface {
	report.Locatable

	// Base returns the common part of the node.
	Base() *NodeBase

	// Children returns the direct children of the node in source order.
	Children() []Node
}

// NodeBase is the common part of all nodes: the span, the links fixed at
// attach time and the resolution record.
type NodeBase struct {
	span   *report.TextSpan
	parent Node
	ctx    *Context

	Record Record
}

func (nb *NodeBase) Base() *NodeBase {
	return nb
}

func (nb *NodeBase) Span() *report.TextSpan {
	return nb.span
}

// Parent returns the parent node or nil for roots.
func (nb *NodeBase) Parent() Node {
	return nb.parent
}

// Context returns the embedding context computed when the node was attached.
func (nb *NodeBase) Context() *Context {
	if nb.ctx == nil {
		report.ICE("embedding context of a node read before it was attached")
	}

	return nb.ctx
}

// IsAttached returns whether the node has been attached.
func (nb *NodeBase) IsAttached() bool {
	return nb.ctx != nil
}

// At sets the span of a node.
func At[N Node](n N, span *report.TextSpan) N {
	n.Base().span = span
	return n
}

// -----------------------------------------------------------------------------

// Accessor indicates whether a node is inside the getter or the setter of a
// property or an indexer.
type Accessor int

// Enumeration of accessors.
const (
	NoAccessor Accessor = iota
	GetterAccessor
	SetterAccessor
)

// Context is the embedding context of a node: the nearest enclosing class,
// feature, overload, body and assertion.
type Context struct {
	Class    *depm.Class
	Feature  *depm.Feature
	Overload *depm.Overload

	// Body and Assertion are nil if the node is not inside one.
	Body      Body
	Assertion *Assertion

	Accessor Accessor
}

// IsIndexerGetter returns whether the context is the getter of an indexer.
func (c *Context) IsIndexerGetter() bool {
	return c.Feature != nil && c.Feature.Kind == depm.IndexerFeature && c.Accessor == GetterAccessor
}

// InEnsure returns whether the context is a postcondition.
func (c *Context) InEnsure() bool {
	return c.Assertion != nil && c.Assertion.Clause == EnsureClause
}

// Local is a local name: a parameter or result of the enclosing overload, or
// a local variable of the enclosing body.
type Local struct {
	Name string

	// Exactly one of Parameter and Declaration is set.
	Parameter   *depm.Parameter
	Declaration *EntityDeclaration
}

// Type returns the type of the local if it is known.
func (l *Local) Type() (depm.Type, bool) {
	if l.Parameter != nil {
		return l.Parameter.Type, true
	}

	return l.Declaration.ResolvedType.TryItem()
}

// DeclaredKind returns the number kind the local is declared with.
func (l *Local) DeclaredKind() depm.NumberKind {
	if l.Parameter != nil {
		return l.Parameter.DeclaredKind
	}

	return l.Declaration.DeclaredKind
}

// LookupLocal looks up a name in the local scope: the local variables of the
// body, then the parameters and results of the overload.
func (c *Context) LookupLocal(name string) (*Local, bool) {
	if eb, ok := c.Body.(*EffectiveBody); ok {
		for _, decl := range eb.Locals {
			if decl.Name == name {
				return &Local{Name: name, Declaration: decl}, true
			}
		}
	}

	if c.Overload != nil {
		for _, p := range c.Overload.Parameters {
			if p.Name == name {
				return &Local{Name: name, Parameter: p}, true
			}
		}

		for _, r := range c.Overload.Results {
			if r.Name == name {
				return &Local{Name: name, Parameter: r}, true
			}
		}
	}

	return nil, false
}

// -----------------------------------------------------------------------------

// Attach links a root node and all of its descendants to their parents and
// computes their embedding contexts.  A node is only ever attached once.
func Attach(root Node, ctx Context) {
	attach(root, nil, ctx)
}

func attach(n Node, parent Node, ctx Context) {
	nb := n.Base()
	if nb.ctx != nil {
		report.ICE("%s attached twice", n.Describe())
	}

	switch v := n.(type) {
	case Body:
		ctx.Body = v
	case *Assertion:
		ctx.Assertion = v
	}

	nb.parent = parent
	nb.ctx = &ctx

	for _, child := range n.Children() {
		attach(child, n, ctx)
	}
}

// Inspect traverses the tree in depth-first order, calling f on every node.
// The children of a node are skipped if f returns false.
func Inspect(n Node, f func(Node) bool) {
	if !f(n) {
		return
	}

	for _, child := range n.Children() {
		Inspect(child, f)
	}
}

// Collect returns the nodes of a tree in depth-first order.
func Collect(root Node) []Node {
	var nodes []Node
	Inspect(root, func(n Node) bool {
		nodes = append(nodes, n)
		return true
	})

	return nodes
}

// -----------------------------------------------------------------------------

// invariantChecker is implemented by nodes with consistency conditions between
// their cells beyond the record's own.
type invariantChecker interface {
	checkInvariants(phase Phase)
}

// IsResolved returns whether every cell the phase owns on the node is written.
// It never modifies the node; inconsistent records are contract violations.
func IsResolved(n Node, phase Phase) bool {
	if !n.Base().Record.IsWritten(phase) {
		return false
	}

	if ic, ok := n.(invariantChecker); ok {
		ic.checkInvariants(phase)
	}

	return true
}

// Reset clears the cells the phase owns on the node.
func Reset(n Node, phase Phase) {
	n.Base().Record.Reset(phase)
}

// AllResolved returns whether all the nodes are resolved for the phase.
func AllResolved[N Node](nodes []N, phase Phase) bool {
	for _, n := range nodes {
		if !IsResolved(n, phase) {
			return false
		}
	}

	return true
}

// -----------------------------------------------------------------------------

// QualifiedName is a dotted identifier path.
type QualifiedName struct {
	Path []string
}

// Name creates a qualified name from its segments.
func Name(path ...string) QualifiedName {
	return QualifiedName{Path: path}
}

func (qn QualifiedName) String() string {
	return strings.Join(qn.Path, ".")
}

// TypeName is a type as written in the source: a class name with optional
// generic arguments.
type TypeName struct {
	NodeBase

	Name string
	Args []*TypeName

	// ResolvedType is written in the Types phase.
	ResolvedType *once.Ref[depm.Type]
}

// NewTypeName creates a new type name.
func NewTypeName(name string, args ...*TypeName) *TypeName {
	tn := &TypeName{Name: name, Args: args, ResolvedType: once.NewRef[depm.Type]("ResolvedType")}
	tn.Record.Own(PhaseTypes, tn.ResolvedType)
	return tn
}

func (tn *TypeName) Describe() string {
	return "type `" + tn.String() + "`"
}

func (tn *TypeName) String() string {
	if len(tn.Args) == 0 {
		return tn.Name
	}

	args := make([]string, len(tn.Args))
	for i, arg := range tn.Args {
		args[i] = arg.String()
	}

	return tn.Name + "[" + strings.Join(args, ", ") + "]"
}

func (tn *TypeName) Children() []Node {
	return nodes(tn.Args)
}

// nodes converts a slice of concrete nodes to a slice of nodes.
func nodes[N Node](ns []N) []Node {
	out := make([]Node, 0, len(ns))
	for _, n := range ns {
		out = append(out, n)
	}

	return out
}
