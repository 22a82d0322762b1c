package ast

import (
	"easlyc/constant"
	"easlyc/depm"
	"easlyc/once"
	"easlyc/report"
	"easlyc/typing"
)

// Expression is a node that produces a value.
type Expression interface {
	Node

	// Expr returns the common part of the expression.
	Expr() *ExprBase
}

// ExprBase is the common part of expressions: the cells every expression
// writes in the Contract phase and its inferred number kind.
type ExprBase struct {
	NodeBase

	ResolvedResult     *once.Ref[*typing.ResultType]
	ResolvedException  *once.Ref[*typing.ResultException]
	ConstantSources    *once.Ref[[]Expression]
	ExpressionConstant *once.Ref[constant.Constant]

	numKind depm.NumberKind
}

func (eb *ExprBase) initExpr() {
	eb.ResolvedResult = once.NewRef[*typing.ResultType]("ResolvedResult")
	eb.ResolvedException = once.NewRef[*typing.ResultException]("ResolvedException")
	eb.ConstantSources = once.NewRef[[]Expression]("ConstantSources")
	eb.ExpressionConstant = once.NewRef[constant.Constant]("ExpressionConstant")

	eb.Record.Own(PhaseContract, eb.ResolvedResult, eb.ResolvedException, eb.ConstantSources, eb.ExpressionConstant)
}

func (eb *ExprBase) Expr() *ExprBase {
	return eb
}

// TryConstant returns the constant of the expression if it is resolved.
func (eb *ExprBase) TryConstant() (constant.Constant, bool) {
	return eb.ExpressionConstant.TryItem()
}

// PreferredType returns the type of the preferred result of the expression if
// the expression is resolved and has one.
func (eb *ExprBase) PreferredType() (depm.Type, bool) {
	rt, ok := eb.ResolvedResult.TryItem()
	if !ok {
		return nil, false
	}

	t := rt.PreferredType()
	return t, t != nil
}

// NumberKind returns the number kind inferred so far.
func (eb *ExprBase) NumberKind() depm.NumberKind {
	return eb.numKind
}

// RefineNumberKind moves the number kind from not checked to a terminal kind.
// It returns whether the kind changed.  A terminal kind never changes.
func (eb *ExprBase) RefineNumberKind(k depm.NumberKind) bool {
	if k == eb.numKind || k == depm.NumberNotChecked {
		return false
	}

	if eb.numKind.IsTerminal() {
		report.ICE("number kind refined from %s to %s", eb.numKind, k)
	}

	eb.numKind = k
	return true
}

// RestartNumberKind forgets the inferred number kind.
func (eb *ExprBase) RestartNumberKind() {
	eb.numKind = depm.NumberNotChecked
}

// -----------------------------------------------------------------------------

// CallBinding holds the cells of a resolved call.
type CallBinding struct {
	SelectedOverload *once.Ref[*depm.Overload]
	FeatureCall      *once.Ref[*typing.FeatureCall]
}

func (cb *CallBinding) initCall(r *Record, phase Phase) {
	cb.SelectedOverload = once.NewRef[*depm.Overload]("SelectedOverload")
	cb.FeatureCall = once.NewRef[*typing.FeatureCall]("FeatureCall")
	r.Own(phase, cb.SelectedOverload, cb.FeatureCall)
}

// FinalTarget holds the mutually exclusive cells of a resolved name.
type FinalTarget struct {
	ResolvedFinalFeature  *once.Ref[*depm.Feature]
	ResolvedFinalDiscrete *once.Ref[*depm.Discrete]
}

func (ft *FinalTarget) initTarget(r *Record, extra ...once.Cell) {
	ft.ResolvedFinalFeature = once.NewRef[*depm.Feature]("ResolvedFinalFeature")
	ft.ResolvedFinalDiscrete = once.NewRef[*depm.Discrete]("ResolvedFinalDiscrete")
	r.OwnOneOf(PhaseContract, append([]once.Cell{ft.ResolvedFinalFeature, ft.ResolvedFinalDiscrete}, extra...)...)
}

// AncestorBinding holds the optional ancestor type annotation of a precursor
// and the cells it resolves to.
type AncestorBinding struct {
	AncestorType *TypeName

	ResolvedAncestorTypeName *once.Ref[string]
	ResolvedAncestorType     *once.Ref[*depm.ClassType]
}

func (ab *AncestorBinding) initAncestor(r *Record, ancestor *TypeName) {
	ab.AncestorType = ancestor
	ab.ResolvedAncestorTypeName = once.NewRef[string]("ResolvedAncestorTypeName")
	ab.ResolvedAncestorType = once.NewRef[*depm.ClassType]("ResolvedAncestorType")

	if ancestor != nil {
		r.Own(PhaseTypes, ab.ResolvedAncestorTypeName, ab.ResolvedAncestorType)
	}
}

func (ab *AncestorBinding) checkAncestor() {
	if ab.ResolvedAncestorTypeName.IsAssigned() != ab.ResolvedAncestorType.IsAssigned() {
		report.ICE("ancestor type name and ancestor type resolved separately")
	}

	if ab.AncestorType == nil && ab.ResolvedAncestorType.IsAssigned() {
		report.ICE("ancestor type resolved without an annotation")
	}
}

func (ab *AncestorBinding) ancestorChildren() []Node {
	if ab.AncestorType == nil {
		return nil
	}

	return []Node{ab.AncestorType}
}

// -----------------------------------------------------------------------------

// Argument is an argument of a call: positional, or assigned to a parameter by
// name.
type Argument struct {
	NodeBase

	// Name is empty for positional arguments.
	Name  string
	Value Expression

	ResolvedArgument *once.Ref[*typing.Argument]
}

// NewArgument creates a positional argument.
func NewArgument(value Expression) *Argument {
	return NewNamedArgument("", value)
}

// NewNamedArgument creates an argument assigned by name.
func NewNamedArgument(name string, value Expression) *Argument {
	arg := &Argument{Name: name, Value: value, ResolvedArgument: once.NewRef[*typing.Argument]("ResolvedArgument")}
	arg.Record.Own(PhaseContract, arg.ResolvedArgument)
	return arg
}

func (arg *Argument) Describe() string {
	if arg.Name == "" {
		return "argument"
	}

	return "argument `" + arg.Name + "`"
}

func (arg *Argument) Children() []Node {
	return []Node{arg.Value}
}

// -----------------------------------------------------------------------------

// Agent is a reference to a feature that can be called later: `agent f` or
// `agent {T} f`.
type Agent struct {
	ExprBase

	// BaseType is nil if the feature belongs to the current class.
	BaseType  *TypeName
	Delegated string

	ResolvedFeature *once.Ref[*depm.Feature]
}

func NewAgent(baseType *TypeName, delegated string) *Agent {
	a := &Agent{BaseType: baseType, Delegated: delegated, ResolvedFeature: once.NewRef[*depm.Feature]("ResolvedFeature")}
	a.initExpr()
	a.Record.Own(PhaseContract, a.ResolvedFeature)
	return a
}

func (a *Agent) Describe() string { return "agent `" + a.Delegated + "`" }

func (a *Agent) Children() []Node {
	if a.BaseType == nil {
		return nil
	}

	return []Node{a.BaseType}
}

// AssertionTag is a reference to a tagged assertion of the contract: `tag t`.
type AssertionTag struct {
	ExprBase

	Tag string

	ResolvedAssertion *once.Ref[*Assertion]
}

func NewAssertionTag(tag string) *AssertionTag {
	at := &AssertionTag{Tag: tag, ResolvedAssertion: once.NewRef[*Assertion]("ResolvedAssertion")}
	at.initExpr()
	at.Record.Own(PhaseContract, at.ResolvedAssertion)
	return at
}

func (at *AssertionTag) Describe() string { return "assertion tag `" + at.Tag + "`" }
func (at *AssertionTag) Children() []Node { return nil }

// BinaryConditional is a short-circuit boolean operation.
type BinaryConditional struct {
	ExprBase

	Op          constant.ConditionalOp
	Left, Right Expression
}

func NewBinaryConditional(op constant.ConditionalOp, left, right Expression) *BinaryConditional {
	bc := &BinaryConditional{Op: op, Left: left, Right: right}
	bc.initExpr()
	return bc
}

var conditionalOpNames = map[constant.ConditionalOp]string{
	constant.OpAnd:     "and then",
	constant.OpOr:      "or else",
	constant.OpXor:     "xor",
	constant.OpImplies: "implies",
}

func (bc *BinaryConditional) Describe() string { return "`" + conditionalOpNames[bc.Op] + "` expression" }
func (bc *BinaryConditional) Children() []Node { return []Node{bc.Left, bc.Right} }

// BinaryOperator is the application of a binary operator feature of the class
// of the left operand.
type BinaryOperator struct {
	ExprBase
	CallBinding

	Operator    string
	Left, Right Expression

	ResolvedOperator *once.Ref[*depm.Feature]
}

func NewBinaryOperator(operator string, left, right Expression) *BinaryOperator {
	bo := &BinaryOperator{Operator: operator, Left: left, Right: right, ResolvedOperator: once.NewRef[*depm.Feature]("ResolvedOperator")}
	bo.initExpr()
	bo.initCall(&bo.Record, PhaseContract)
	bo.Record.Own(PhaseContract, bo.ResolvedOperator)
	return bo
}

func (bo *BinaryOperator) Describe() string { return "operator `" + bo.Operator + "`" }
func (bo *BinaryOperator) Children() []Node { return []Node{bo.Left, bo.Right} }

// ClassConstant is a constant or discrete of a class: `{T}Name`.
type ClassConstant struct {
	ExprBase
	FinalTarget

	Class    *TypeName
	Constant string
}

func NewClassConstant(class *TypeName, name string) *ClassConstant {
	cc := &ClassConstant{Class: class, Constant: name}
	cc.initExpr()
	cc.initTarget(&cc.Record)
	return cc
}

func (cc *ClassConstant) Describe() string {
	return "class constant `{" + cc.Class.String() + "}" + cc.Constant + "`"
}

func (cc *ClassConstant) Children() []Node { return []Node{cc.Class} }

// CloneOf is a shallow or deep copy of a value.
type CloneOf struct {
	ExprBase

	Deep   bool
	Source Expression
}

func NewCloneOf(deep bool, source Expression) *CloneOf {
	co := &CloneOf{Deep: deep, Source: source}
	co.initExpr()
	return co
}

func (co *CloneOf) Describe() string { return "clone" }
func (co *CloneOf) Children() []Node { return []Node{co.Source} }

// Entity is the run-time description of a feature: `entity a.b`.
type Entity struct {
	ExprBase
	FinalTarget

	Path QualifiedName

	ValidPath *once.Ref[bool]
}

func NewEntity(path QualifiedName) *Entity {
	e := &Entity{Path: path, ValidPath: once.NewRef[bool]("ValidPath")}
	e.initExpr()
	e.initTarget(&e.Record)
	e.Record.Own(PhaseIdentifiers, e.ValidPath)
	return e
}

func (e *Entity) Describe() string { return "entity `" + e.Path.String() + "`" }
func (e *Entity) Children() []Node { return nil }

// EqualityOp is an equality comparison operator.
type EqualityOp int

// Enumeration of equality operators.
const (
	OpEqual EqualityOp = iota
	OpDifferent
)

// Equality is the comparison of two values by equality.
type Equality struct {
	ExprBase

	Op          EqualityOp
	Left, Right Expression
}

func NewEquality(op EqualityOp, left, right Expression) *Equality {
	eq := &Equality{Op: op, Left: left, Right: right}
	eq.initExpr()
	return eq
}

func (eq *Equality) Describe() string {
	if eq.Op == OpDifferent {
		return "`/=` comparison"
	}

	return "`=` comparison"
}

func (eq *Equality) Children() []Node { return []Node{eq.Left, eq.Right} }

// IndexQuery is a call to the indexer of a value: `a[i, j]`.
type IndexQuery struct {
	ExprBase

	Indexed   Expression
	Arguments []*Argument

	ResolvedIndexer *once.Ref[*depm.Feature]
	FeatureCall     *once.Ref[*typing.FeatureCall]
}

func NewIndexQuery(indexed Expression, args ...*Argument) *IndexQuery {
	iq := &IndexQuery{
		Indexed:         indexed,
		Arguments:       args,
		ResolvedIndexer: once.NewRef[*depm.Feature]("ResolvedIndexer"),
		FeatureCall:     once.NewRef[*typing.FeatureCall]("FeatureCall"),
	}
	iq.initExpr()
	iq.Record.Own(PhaseContract, iq.ResolvedIndexer, iq.FeatureCall)
	return iq
}

func (iq *IndexQuery) Describe() string { return "index query" }

func (iq *IndexQuery) Children() []Node {
	return append([]Node{iq.Indexed}, nodes(iq.Arguments)...)
}

// InitializedObject is a new object with assigned fields: `T { x = 1 }`.
type InitializedObject struct {
	ExprBase

	Class       *TypeName
	Assignments []*Argument

	// AssignedFeatureTable maps each assigned field to its feature.  It is
	// sealed when the expression is resolved.
	AssignedFeatureTable *once.Table[string, *depm.Feature]
}

func NewInitializedObject(class *TypeName, assignments ...*Argument) *InitializedObject {
	io := &InitializedObject{
		Class:                class,
		Assignments:          assignments,
		AssignedFeatureTable: once.NewTable[string, *depm.Feature]("AssignedFeatureTable"),
	}
	io.initExpr()
	io.Record.Own(PhaseContract, io.AssignedFeatureTable)
	return io
}

func (io *InitializedObject) Describe() string { return "initialized `" + io.Class.String() + "`" }

func (io *InitializedObject) Children() []Node {
	return append([]Node{io.Class}, nodes(io.Assignments)...)
}

func (io *InitializedObject) checkInvariants(phase Phase) {
	if phase == PhaseContract && io.AssignedFeatureTable.Len() != len(io.Assignments) {
		report.ICE("assigned feature table of %s does not match its assignments", io.Describe())
	}
}

// Keyword is a reserved name with a contextual meaning.
type Keyword int

// Enumeration of keywords.
const (
	KeywordTrue Keyword = iota
	KeywordFalse
	KeywordCurrent
	KeywordValue
	KeywordResult
	KeywordRetry
	KeywordException
)

var keywordNames = map[Keyword]string{
	KeywordTrue:      "True",
	KeywordFalse:     "False",
	KeywordCurrent:   "Current",
	KeywordValue:     "Value",
	KeywordResult:    "Result",
	KeywordRetry:     "Retry",
	KeywordException: "Exception",
}

func (k Keyword) String() string {
	return keywordNames[k]
}

// KeywordEntity is the run-time description of a keyword: `entity Current`.
type KeywordEntity struct {
	ExprBase

	Keyword Keyword
}

func NewKeywordEntity(k Keyword) *KeywordEntity {
	ke := &KeywordEntity{Keyword: k}
	ke.initExpr()
	return ke
}

func (ke *KeywordEntity) Describe() string { return "entity `" + ke.Keyword.String() + "`" }
func (ke *KeywordEntity) Children() []Node { return nil }

// KeywordExpression is the value of a keyword.
type KeywordExpression struct {
	ExprBase

	Keyword Keyword
}

func NewKeyword(k Keyword) *KeywordExpression {
	ke := &KeywordExpression{Keyword: k}
	ke.initExpr()
	return ke
}

func (ke *KeywordExpression) Describe() string { return "keyword `" + ke.Keyword.String() + "`" }
func (ke *KeywordExpression) Children() []Node { return nil }

// ManifestCharacter is a character literal.  Text is the content between the
// quotes.
type ManifestCharacter struct {
	ExprBase

	Text string

	ParsedCharacter *once.Ref[rune]
}

func NewManifestCharacter(text string) *ManifestCharacter {
	mc := &ManifestCharacter{Text: text, ParsedCharacter: once.NewRef[rune]("ParsedCharacter")}
	mc.initExpr()
	mc.Record.Own(PhaseIdentifiers, mc.ParsedCharacter)
	return mc
}

func (mc *ManifestCharacter) Describe() string { return "character `'" + mc.Text + "'`" }
func (mc *ManifestCharacter) Children() []Node { return nil }

// ManifestNumber is a number literal.
type ManifestNumber struct {
	ExprBase

	Text string

	ParsedNumber *once.Ref[*constant.Number]
}

func NewManifestNumber(text string) *ManifestNumber {
	mn := &ManifestNumber{Text: text, ParsedNumber: once.NewRef[*constant.Number]("ParsedNumber")}
	mn.initExpr()
	mn.Record.Own(PhaseIdentifiers, mn.ParsedNumber)
	return mn
}

func (mn *ManifestNumber) Describe() string { return "number `" + mn.Text + "`" }
func (mn *ManifestNumber) Children() []Node { return nil }

// ManifestString is a string literal.  Text is the content between the
// quotes, with its escapes.
type ManifestString struct {
	ExprBase

	Text string

	ParsedString *once.Ref[string]
}

func NewManifestString(text string) *ManifestString {
	ms := &ManifestString{Text: text, ParsedString: once.NewRef[string]("ParsedString")}
	ms.initExpr()
	ms.Record.Own(PhaseIdentifiers, ms.ParsedString)
	return ms
}

func (ms *ManifestString) Describe() string { return "string `\"" + ms.Text + "\"`" }
func (ms *ManifestString) Children() []Node { return nil }

// New tests whether an attribute refers to a newly created object: `new a`.
type New struct {
	ExprBase

	Path QualifiedName

	ResolvedFinalFeature *once.Ref[*depm.Feature]
}

func NewNew(path QualifiedName) *New {
	n := &New{Path: path, ResolvedFinalFeature: once.NewRef[*depm.Feature]("ResolvedFinalFeature")}
	n.initExpr()
	n.Record.Own(PhaseContract, n.ResolvedFinalFeature)
	return n
}

func (n *New) Describe() string { return "`new " + n.Path.String() + "`" }
func (n *New) Children() []Node { return nil }

// Old is the value of an expression when the routine was entered.
type Old struct {
	ExprBase

	Source Expression
}

func NewOld(source Expression) *Old {
	o := &Old{Source: source}
	o.initExpr()
	return o
}

func (o *Old) Describe() string { return "`old` expression" }
func (o *Old) Children() []Node { return []Node{o.Source} }

// PrecursorExpression is a call to the ancestor version of the current
// feature: `precursor` or `precursor {T}(args)`.
type PrecursorExpression struct {
	ExprBase
	AncestorBinding
	CallBinding

	Arguments []*Argument

	ResolvedPrecursor *once.Ref[*depm.Precursor]
}

func NewPrecursorExpression(ancestor *TypeName, args ...*Argument) *PrecursorExpression {
	pe := &PrecursorExpression{Arguments: args, ResolvedPrecursor: once.NewRef[*depm.Precursor]("ResolvedPrecursor")}
	pe.initExpr()
	pe.initAncestor(&pe.Record, ancestor)
	pe.initCall(&pe.Record, PhaseContract)
	pe.Record.Own(PhaseContract, pe.ResolvedPrecursor)
	return pe
}

func (pe *PrecursorExpression) Describe() string { return "precursor expression" }

func (pe *PrecursorExpression) Children() []Node {
	return append(pe.ancestorChildren(), nodes(pe.Arguments)...)
}

func (pe *PrecursorExpression) checkInvariants(Phase) { pe.checkAncestor() }

// PrecursorIndex is a call to the ancestor version of the current indexer:
// `precursor [args]`.
type PrecursorIndex struct {
	ExprBase
	AncestorBinding

	Arguments []*Argument

	ResolvedPrecursor *once.Ref[*depm.Precursor]
	FeatureCall       *once.Ref[*typing.FeatureCall]
}

func NewPrecursorIndex(ancestor *TypeName, args ...*Argument) *PrecursorIndex {
	pi := &PrecursorIndex{
		Arguments:         args,
		ResolvedPrecursor: once.NewRef[*depm.Precursor]("ResolvedPrecursor"),
		FeatureCall:       once.NewRef[*typing.FeatureCall]("FeatureCall"),
	}
	pi.initExpr()
	pi.initAncestor(&pi.Record, ancestor)
	pi.Record.Own(PhaseContract, pi.ResolvedPrecursor, pi.FeatureCall)
	return pi
}

func (pi *PrecursorIndex) Describe() string { return "precursor index" }

func (pi *PrecursorIndex) Children() []Node {
	return append(pi.ancestorChildren(), nodes(pi.Arguments)...)
}

func (pi *PrecursorIndex) checkInvariants(Phase) { pi.checkAncestor() }

// Macro is a preprocessor macro.
type Macro int

// Enumeration of macros.
const (
	MacroClassPath Macro = iota
	MacroCompilerVersion
	MacroDebugging
	MacroDateAndTime
	MacroCounter
	MacroRandomInteger
)

var macroNames = map[Macro]string{
	MacroClassPath:       "ClassPath",
	MacroCompilerVersion: "CompilerVersion",
	MacroDebugging:       "Debugging",
	MacroDateAndTime:     "DateAndTime",
	MacroCounter:         "Counter",
	MacroRandomInteger:   "RandomInteger",
}

func (m Macro) String() string {
	return macroNames[m]
}

// Preprocessor is a value provided by the compiler.
type Preprocessor struct {
	ExprBase

	Macro Macro
}

func NewPreprocessor(m Macro) *Preprocessor {
	p := &Preprocessor{Macro: m}
	p.initExpr()
	return p
}

func (p *Preprocessor) Describe() string { return "macro `" + p.Macro.String() + "`" }
func (p *Preprocessor) Children() []Node { return nil }

// Query is a named value: a local, a feature of the current class or of the
// value of the previous segment, or a discrete, possibly called with
// arguments.
type Query struct {
	ExprBase
	FinalTarget
	CallBinding

	Path      QualifiedName
	Arguments []*Argument

	ValidPath     *once.Ref[bool]
	ResolvedLocal *once.Ref[*Local]
}

func NewQuery(path QualifiedName, args ...*Argument) *Query {
	q := &Query{Path: path, Arguments: args, ValidPath: once.NewRef[bool]("ValidPath"), ResolvedLocal: once.NewRef[*Local]("ResolvedLocal")}
	q.initExpr()
	q.initTarget(&q.Record, q.ResolvedLocal)
	q.initCall(&q.Record, PhaseContract)
	q.Record.Own(PhaseIdentifiers, q.ValidPath)
	return q
}

func (q *Query) Describe() string { return "query `" + q.Path.String() + "`" }
func (q *Query) Children() []Node { return nodes(q.Arguments) }

func (q *Query) checkInvariants(phase Phase) {
	if phase != PhaseContract {
		return
	}

	if f, ok := q.ResolvedFinalFeature.TryItem(); ok && len(f.Overloads) > 0 && q.SelectedOverload.Item() == nil {
		report.ICE("%s resolved to a routine without an overload", q.Describe())
	}
}

// ResultOf is the preferred result of an expression with several results.
type ResultOf struct {
	ExprBase

	Source Expression
}

func NewResultOf(source Expression) *ResultOf {
	ro := &ResultOf{Source: source}
	ro.initExpr()
	return ro
}

func (ro *ResultOf) Describe() string { return "`result of` expression" }
func (ro *ResultOf) Children() []Node { return []Node{ro.Source} }

// UnaryNot is a boolean negation.
type UnaryNot struct {
	ExprBase

	Operand Expression
}

func NewUnaryNot(operand Expression) *UnaryNot {
	un := &UnaryNot{Operand: operand}
	un.initExpr()
	return un
}

func (un *UnaryNot) Describe() string { return "`not` expression" }
func (un *UnaryNot) Children() []Node { return []Node{un.Operand} }

// UnaryOperator is the application of a prefix operator feature of the class
// of the operand.
type UnaryOperator struct {
	ExprBase
	CallBinding

	Operator string
	Operand  Expression

	ResolvedOperator *once.Ref[*depm.Feature]
}

func NewUnaryOperator(operator string, operand Expression) *UnaryOperator {
	uo := &UnaryOperator{Operator: operator, Operand: operand, ResolvedOperator: once.NewRef[*depm.Feature]("ResolvedOperator")}
	uo.initExpr()
	uo.initCall(&uo.Record, PhaseContract)
	uo.Record.Own(PhaseContract, uo.ResolvedOperator)
	return uo
}

func (uo *UnaryOperator) Describe() string { return "prefix operator `" + uo.Operator + "`" }
func (uo *UnaryOperator) Children() []Node { return []Node{uo.Operand} }
