package ast

import (
	"easlyc/depm"
	"easlyc/once"
	"easlyc/typing"
)

// Body is the body of an overload or of an accessor.
type Body interface {
	Node

	// Common returns the common part of the body.
	Common() *BodyBase
}

// BodyBase is the common part of bodies.
type BodyBase struct {
	NodeBase

	ResolvedException *once.Ref[*typing.ResultException]
}

func (bb *BodyBase) initBody() {
	bb.ResolvedException = once.NewRef[*typing.ResultException]("ResolvedException")
	bb.Record.Own(PhaseBody, bb.ResolvedException)
}

func (bb *BodyBase) Common() *BodyBase {
	return bb
}

// EffectiveBody is a body with local variables and instructions.
type EffectiveBody struct {
	BodyBase

	Locals       []*EntityDeclaration
	Instructions []Instruction
}

func NewEffectiveBody(locals []*EntityDeclaration, instrs ...Instruction) *EffectiveBody {
	eb := &EffectiveBody{Locals: locals, Instructions: instrs}
	eb.initBody()
	return eb
}

func (eb *EffectiveBody) Describe() string { return "body" }

func (eb *EffectiveBody) Children() []Node {
	return append(nodes(eb.Locals), nodes(eb.Instructions)...)
}

// DeferredBody is the body of a feature implemented by descendants.
type DeferredBody struct {
	BodyBase
}

func NewDeferredBody() *DeferredBody {
	db := &DeferredBody{}
	db.initBody()
	return db
}

func (db *DeferredBody) Describe() string { return "deferred body" }
func (db *DeferredBody) Children() []Node { return nil }

// ExternBody is the body of a feature implemented outside of the program.
type ExternBody struct {
	BodyBase
}

func NewExternBody() *ExternBody {
	eb := &ExternBody{}
	eb.initBody()
	return eb
}

func (eb *ExternBody) Describe() string { return "extern body" }
func (eb *ExternBody) Children() []Node { return nil }

// PrecursorBody is a body that calls the ancestor version of the feature with
// the same arguments.
type PrecursorBody struct {
	BodyBase

	ResolvedPrecursor *once.Ref[*depm.Precursor]
}

func NewPrecursorBody() *PrecursorBody {
	pb := &PrecursorBody{ResolvedPrecursor: once.NewRef[*depm.Precursor]("ResolvedPrecursor")}
	pb.initBody()
	pb.Record.Own(PhaseBody, pb.ResolvedPrecursor)
	return pb
}

func (pb *PrecursorBody) Describe() string { return "precursor body" }
func (pb *PrecursorBody) Children() []Node { return nil }

// -----------------------------------------------------------------------------

// Clause is the contract clause of an assertion.
type Clause int

// Enumeration of clauses.
const (
	RequireClause Clause = iota
	EnsureClause
	InvariantClause
)

// Assertion is a boolean expression of a contract, optionally tagged.
type Assertion struct {
	NodeBase

	Tag        string
	Clause     Clause
	Expression Expression

	ResolvedException *once.Ref[*typing.ResultException]
}

func NewAssertion(clause Clause, tag string, expr Expression) *Assertion {
	a := &Assertion{Tag: tag, Clause: clause, Expression: expr, ResolvedException: once.NewRef[*typing.ResultException]("ResolvedException")}
	a.Record.Own(PhaseContract, a.ResolvedException)
	return a
}

func (a *Assertion) Describe() string {
	if a.Tag == "" {
		return "assertion"
	}

	return "assertion `" + a.Tag + "`"
}

func (a *Assertion) Children() []Node { return []Node{a.Expression} }

// EntityDeclaration is a local variable declaration.
type EntityDeclaration struct {
	NodeBase

	Name    string
	Type    *TypeName
	Default Expression

	// DeclaredKind constrains the number kind of numeric locals.
	DeclaredKind depm.NumberKind

	ResolvedType *once.Ref[depm.Type]
}

func NewEntityDeclaration(name string, t *TypeName, def Expression) *EntityDeclaration {
	ed := &EntityDeclaration{Name: name, Type: t, Default: def, ResolvedType: once.NewRef[depm.Type]("ResolvedType")}
	ed.Record.Own(PhaseTypes, ed.ResolvedType)
	return ed
}

func (ed *EntityDeclaration) Describe() string { return "local `" + ed.Name + "`" }

func (ed *EntityDeclaration) Children() []Node {
	if ed.Default == nil {
		return []Node{ed.Type}
	}

	return []Node{ed.Type, ed.Default}
}
