package ast

import (
	"easlyc/depm"
	"easlyc/once"
	"easlyc/typing"
)

// Instruction is a node of the body of a routine.
type Instruction interface {
	Node

	// Instr returns the common part of the instruction.
	Instr() *InstrBase
}

// InstrBase is the common part of instructions.  All instruction cells are
// written in the Body phase.
type InstrBase struct {
	NodeBase

	ResolvedException *once.Ref[*typing.ResultException]
}

func (ib *InstrBase) initInstr() {
	ib.ResolvedException = once.NewRef[*typing.ResultException]("ResolvedException")
	ib.Record.Own(PhaseBody, ib.ResolvedException)
}

func (ib *InstrBase) Instr() *InstrBase {
	return ib
}

// -----------------------------------------------------------------------------

// AsLongAs is a loop running its instructions while its condition holds.
type AsLongAs struct {
	InstrBase

	Condition    Expression
	Instructions []Instruction
}

func NewAsLongAs(cond Expression, instrs ...Instruction) *AsLongAs {
	al := &AsLongAs{Condition: cond, Instructions: instrs}
	al.initInstr()
	return al
}

func (al *AsLongAs) Describe() string { return "`as long as` instruction" }

func (al *AsLongAs) Children() []Node {
	return append([]Node{al.Condition}, nodes(al.Instructions)...)
}

// Destination is a resolved assignment destination.  Exactly one of Local and
// Feature is set.
type Destination struct {
	Local   *Local
	Feature *depm.Feature

	// Type is the declared type of the destination.
	Type depm.Type
}

// DeclaredKind returns the number kind the destination is declared with.
func (d Destination) DeclaredKind() depm.NumberKind {
	if d.Local != nil {
		return d.Local.DeclaredKind()
	}

	return d.Feature.DeclaredKind
}

// Assignment assigns the value of an expression to one or more destinations.
type Assignment struct {
	InstrBase

	Destinations []QualifiedName
	Source       Expression

	ResolvedDestinations *once.Ref[[]Destination]
}

func NewAssignment(source Expression, dests ...QualifiedName) *Assignment {
	a := &Assignment{Destinations: dests, Source: source, ResolvedDestinations: once.NewRef[[]Destination]("ResolvedDestinations")}
	a.initInstr()
	a.Record.Own(PhaseBody, a.ResolvedDestinations)
	return a
}

func (a *Assignment) Describe() string { return "assignment" }
func (a *Assignment) Children() []Node { return []Node{a.Source} }

// Check is a run-time assertion.
type Check struct {
	InstrBase

	Condition Expression
}

func NewCheck(cond Expression) *Check {
	c := &Check{Condition: cond}
	c.initInstr()
	return c
}

func (c *Check) Describe() string { return "`check` instruction" }
func (c *Check) Children() []Node { return []Node{c.Condition} }

// Command is a call to a procedure.
type Command struct {
	InstrBase
	CallBinding

	Path      QualifiedName
	Arguments []*Argument

	ResolvedFeature *once.Ref[*depm.Feature]
}

func NewCommand(path QualifiedName, args ...*Argument) *Command {
	c := &Command{Path: path, Arguments: args, ResolvedFeature: once.NewRef[*depm.Feature]("ResolvedFeature")}
	c.initInstr()
	c.initCall(&c.Record, PhaseBody)
	c.Record.Own(PhaseBody, c.ResolvedFeature)
	return c
}

func (c *Command) Describe() string { return "command `" + c.Path.String() + "`" }
func (c *Command) Children() []Node { return nodes(c.Arguments) }

// Branch is a guarded list of instructions of a conditional.
type Branch struct {
	Condition    Expression
	Instructions []Instruction
}

// Conditional runs the instructions of the first branch whose condition holds,
// or the else instructions.
type Conditional struct {
	InstrBase

	Branches []Branch
	Else     []Instruction
}

func NewConditional(branches []Branch, elseInstrs ...Instruction) *Conditional {
	c := &Conditional{Branches: branches, Else: elseInstrs}
	c.initInstr()
	return c
}

func (c *Conditional) Describe() string { return "conditional" }

func (c *Conditional) Children() []Node {
	var children []Node
	for _, b := range c.Branches {
		children = append(children, b.Condition)
		children = append(children, nodes(b.Instructions)...)
	}

	return append(children, nodes(c.Else)...)
}

// Create creates an object and assigns it to an entity.
type Create struct {
	InstrBase
	CallBinding

	Entity    QualifiedName
	Creation  string
	Arguments []*Argument

	ResolvedEntityType *once.Ref[*depm.ClassType]
	ResolvedCreation   *once.Ref[*depm.Feature]
}

func NewCreate(entity QualifiedName, creation string, args ...*Argument) *Create {
	c := &Create{
		Entity:             entity,
		Creation:           creation,
		Arguments:          args,
		ResolvedEntityType: once.NewRef[*depm.ClassType]("ResolvedEntityType"),
		ResolvedCreation:   once.NewRef[*depm.Feature]("ResolvedCreation"),
	}
	c.initInstr()
	c.initCall(&c.Record, PhaseBody)
	c.Record.Own(PhaseBody, c.ResolvedEntityType, c.ResolvedCreation)
	return c
}

func (c *Create) Describe() string { return "creation of `" + c.Entity.String() + "`" }
func (c *Create) Children() []Node { return nodes(c.Arguments) }

// Debug holds instructions only run in debug builds.
type Debug struct {
	InstrBase

	Instructions []Instruction
}

func NewDebug(instrs ...Instruction) *Debug {
	d := &Debug{Instructions: instrs}
	d.initInstr()
	return d
}

func (d *Debug) Describe() string { return "`debug` instruction" }
func (d *Debug) Children() []Node { return nodes(d.Instructions) }

// PrecursorInstruction is a call to the ancestor version of the current
// procedure.
type PrecursorInstruction struct {
	InstrBase
	AncestorBinding
	CallBinding

	Arguments []*Argument

	ResolvedPrecursor *once.Ref[*depm.Precursor]
}

func NewPrecursorInstruction(ancestor *TypeName, args ...*Argument) *PrecursorInstruction {
	pi := &PrecursorInstruction{Arguments: args, ResolvedPrecursor: once.NewRef[*depm.Precursor]("ResolvedPrecursor")}
	pi.initInstr()
	pi.initAncestor(&pi.Record, ancestor)
	pi.initCall(&pi.Record, PhaseBody)
	pi.Record.Own(PhaseBody, pi.ResolvedPrecursor)
	return pi
}

func (pi *PrecursorInstruction) Describe() string { return "precursor instruction" }

func (pi *PrecursorInstruction) Children() []Node {
	return append(pi.ancestorChildren(), nodes(pi.Arguments)...)
}

func (pi *PrecursorInstruction) checkInvariants(Phase) { pi.checkAncestor() }

// Throw raises an exception created with one of the creation routines of the
// exception type.
type Throw struct {
	InstrBase
	CallBinding

	ExceptionType *TypeName
	Creation      string
	Arguments     []*Argument

	ResolvedCreation *once.Ref[*depm.Feature]
}

func NewThrow(excType *TypeName, creation string, args ...*Argument) *Throw {
	t := &Throw{ExceptionType: excType, Creation: creation, Arguments: args, ResolvedCreation: once.NewRef[*depm.Feature]("ResolvedCreation")}
	t.initInstr()
	t.initCall(&t.Record, PhaseBody)
	t.Record.Own(PhaseBody, t.ResolvedCreation)
	return t
}

func (t *Throw) Describe() string { return "`throw " + t.ExceptionType.String() + "`" }

func (t *Throw) Children() []Node {
	return append([]Node{t.ExceptionType}, nodes(t.Arguments)...)
}
