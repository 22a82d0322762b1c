package walk

import (
	"fmt"

	"easlyc/ast"
	"easlyc/common"
	"easlyc/constant"
	"easlyc/depm"
	"easlyc/report"
	"easlyc/typing"
)

// Status is the verdict of a resolver.
type Status int

// Enumeration of statuses.
const (
	// The zero value: no resolver produced the outcome.
	Unset Status = iota

	// The node can be resolved: committing the outcome writes all its cells.
	Resolved

	// The node depends on something that is not resolved yet: it is retried
	// in the next round.
	Blocked

	// The node cannot be resolved: its diagnostics are final.
	Failed
)

func (s Status) String() string {
	switch s {
	case Resolved:
		return "resolved"
	case Blocked:
		return "blocked"
	case Failed:
		return "failed"
	default:
		return "unset"
	}
}

// Outcome is the result of running the resolver of a node.  Resolvers never
// write cells: a resolved outcome carries a commit function writing every cell
// of the phase, which the scheduler runs once all the resolvers of the round
// are done.
type Outcome struct {
	Status Status

	// Commit writes the cells of the node.  It is only set when resolved.
	Commit func()

	// Diagnostics holds the errors of a failed outcome, and the warnings of a
	// resolved one.
	Diagnostics []*report.Diagnostic

	// Reason describes what a blocked node is waiting for.
	Reason string
}

func resolved(commit func(), warnings ...*report.Diagnostic) Outcome {
	return Outcome{Status: Resolved, Commit: commit, Diagnostics: warnings}
}

func blocked(format string, args ...interface{}) Outcome {
	return Outcome{Status: Blocked, Reason: fmt.Sprintf(format, args...)}
}

func failed(diags ...*report.Diagnostic) Outcome {
	return Outcome{Status: Failed, Diagnostics: diags}
}

// -----------------------------------------------------------------------------

// Walker runs the resolvers of the nodes.  It holds no state of its own
// besides the symbol environment and the configuration, so it can be shared by
// concurrent workers.
type Walker struct {
	env    depm.Environment
	config *common.Config
}

// NewWalker creates a new walker.
func NewWalker(env depm.Environment, config *common.Config) *Walker {
	return &Walker{env: env, config: config}
}

// Resolve runs the resolver of a node for a phase.  The node must own cells in
// that phase and must not already be resolved.
func (w *Walker) Resolve(n ast.Node, phase ast.Phase) Outcome {
	out := w.resolvePhase(n, phase)
	checkOutcome(n, out)
	return out
}

// checkOutcome raises a contract violation for an outcome no resolver could
// have produced.
func checkOutcome(n ast.Node, out Outcome) {
	switch out.Status {
	case Resolved:
		if out.Commit == nil {
			report.ICE("%s resolved without a commit", n.Describe())
		}
	case Blocked, Failed:
	default:
		report.ICE("%s has an unset outcome", n.Describe())
	}
}

func (w *Walker) resolvePhase(n ast.Node, phase ast.Phase) Outcome {
	switch phase {
	case ast.PhaseIdentifiers:
		return w.resolveIdentifiers(n)
	case ast.PhaseTypes:
		return w.resolveTypes(n)
	case ast.PhaseContract:
		return w.resolveContract(n)
	case ast.PhaseBody:
		return w.resolveBody(n)
	}

	report.ICE("unknown phase %d", phase)
	return Outcome{}
}

func (w *Walker) resolveIdentifiers(n ast.Node) Outcome {
	switch v := n.(type) {
	case *ast.ManifestNumber:
		return w.walkNumberText(v)
	case *ast.ManifestCharacter:
		return w.walkCharacterText(v)
	case *ast.ManifestString:
		return w.walkStringText(v)
	case *ast.Query:
		return w.walkValidPath(v, v.Path, v.ValidPath)
	case *ast.Entity:
		return w.walkValidPath(v, v.Path, v.ValidPath)
	}

	report.ICE("%s has no identifiers resolver", n.Describe())
	return Outcome{}
}

func (w *Walker) resolveTypes(n ast.Node) Outcome {
	switch v := n.(type) {
	case *ast.TypeName:
		return w.walkTypeName(v)
	case *ast.EntityDeclaration:
		return w.walkEntityDeclaration(v)
	case *ast.PrecursorExpression:
		return w.walkAncestor(v, &v.AncestorBinding)
	case *ast.PrecursorIndex:
		return w.walkAncestor(v, &v.AncestorBinding)
	case *ast.PrecursorInstruction:
		return w.walkAncestor(v, &v.AncestorBinding)
	}

	report.ICE("%s has no types resolver", n.Describe())
	return Outcome{}
}

func (w *Walker) resolveContract(n ast.Node) Outcome {
	switch v := n.(type) {
	case *ast.Agent:
		return w.walkAgent(v)
	case *ast.AssertionTag:
		return w.walkAssertionTag(v)
	case *ast.BinaryConditional:
		return w.walkBinaryConditional(v)
	case *ast.BinaryOperator:
		return w.walkBinaryOperator(v)
	case *ast.ClassConstant:
		return w.walkClassConstant(v)
	case *ast.CloneOf:
		return w.walkCloneOf(v)
	case *ast.Entity:
		return w.walkEntity(v)
	case *ast.Equality:
		return w.walkEquality(v)
	case *ast.IndexQuery:
		return w.walkIndexQuery(v)
	case *ast.InitializedObject:
		return w.walkInitializedObject(v)
	case *ast.KeywordEntity:
		return w.walkKeywordEntity(v)
	case *ast.KeywordExpression:
		return w.walkKeyword(v)
	case *ast.ManifestCharacter:
		return w.walkManifestCharacter(v)
	case *ast.ManifestNumber:
		return w.walkManifestNumber(v)
	case *ast.ManifestString:
		return w.walkManifestString(v)
	case *ast.New:
		return w.walkNew(v)
	case *ast.Old:
		return w.walkOld(v)
	case *ast.PrecursorExpression:
		return w.walkPrecursorExpression(v)
	case *ast.PrecursorIndex:
		return w.walkPrecursorIndex(v)
	case *ast.Preprocessor:
		return w.walkPreprocessor(v)
	case *ast.Query:
		return w.walkQuery(v)
	case *ast.ResultOf:
		return w.walkResultOf(v)
	case *ast.UnaryNot:
		return w.walkUnaryNot(v)
	case *ast.UnaryOperator:
		return w.walkUnaryOperator(v)
	case *ast.Argument:
		return w.walkArgument(v)
	case *ast.Assertion:
		return w.walkAssertion(v)
	}

	report.ICE("%s has no contract resolver", n.Describe())
	return Outcome{}
}

func (w *Walker) resolveBody(n ast.Node) Outcome {
	switch v := n.(type) {
	case *ast.AsLongAs:
		return w.walkAsLongAs(v)
	case *ast.Assignment:
		return w.walkAssignment(v)
	case *ast.Check:
		return w.walkCheck(v)
	case *ast.Command:
		return w.walkCommand(v)
	case *ast.Conditional:
		return w.walkConditional(v)
	case *ast.Create:
		return w.walkCreate(v)
	case *ast.Debug:
		return w.walkDebug(v)
	case *ast.PrecursorInstruction:
		return w.walkPrecursorInstruction(v)
	case *ast.Throw:
		return w.walkThrow(v)
	case *ast.EffectiveBody:
		return w.walkEffectiveBody(v)
	case *ast.DeferredBody:
		return w.walkDeclaredBody(v)
	case *ast.ExternBody:
		return w.walkDeclaredBody(v)
	case *ast.PrecursorBody:
		return w.walkPrecursorBody(v)
	}

	report.ICE("%s has no body resolver", n.Describe())
	return Outcome{}
}

// -----------------------------------------------------------------------------

// exprResult holds the common cells of an expression until they are committed.
type exprResult struct {
	result     *typing.ResultType
	exceptions *typing.ResultException
	sources    []ast.Expression
	constant   constant.Constant
}

func (er exprResult) commitTo(eb *ast.ExprBase) {
	eb.ResolvedResult.Set(er.result)

	if er.exceptions == nil {
		er.exceptions = typing.NoException()
	}
	eb.ResolvedException.Set(er.exceptions)

	eb.ConstantSources.Set(er.sources)

	if er.constant == nil {
		er.constant = constant.NotConstant
	}
	eb.ExpressionConstant.Set(er.constant)
}

// builtin looks up a built-in type in the class embedding a node.
func (w *Walker) builtin(n ast.Node, kind depm.BuiltinKind) (*depm.ClassType, *report.Diagnostic) {
	class := n.Base().Context().Class
	if _, t, ok := w.env.LookupBuiltin(class, kind); ok {
		return t, nil
	}

	return nil, report.Errorf(n, report.KindMissingBuiltin, "missing `%s` type: it is not imported by `%s`", kind, class.Name)
}

// isBuiltin returns whether a type is the given built-in type.
func isBuiltin(t depm.Type, kind depm.BuiltinKind) bool {
	ct, ok := t.(*depm.ClassType)
	return ok && ct.IsBuiltin(kind)
}

// currentType returns the type of `Current` in a class.
func currentType(class *depm.Class) *depm.ClassType {
	args := make([]depm.Type, len(class.Generics))
	for i, fg := range class.Generics {
		args[i] = fg
	}

	return &depm.ClassType{Class: class, Args: args}
}

// waitFor returns the first node of the list that is not resolved for the
// phase, or nil.
func waitFor[N ast.Node](phase ast.Phase, ns ...N) ast.Node {
	for _, n := range ns {
		if !ast.IsResolved(n, phase) {
			return n
		}
	}

	return nil
}

// valueOf returns the preferred type of a resolved expression, or a diagnostic
// if it has none.
func valueOf(e ast.Expression) (depm.Type, *report.Diagnostic) {
	if t, ok := e.Expr().PreferredType(); ok {
		return t, nil
	}

	return nil, report.Errorf(e, report.KindTypeMismatch, "%s does not produce a single value", e.Describe())
}

// constantOf returns the constant of a resolved expression.
func constantOf(e ast.Expression) constant.Constant {
	return e.Expr().ExpressionConstant.Item()
}

// exceptionsOf returns the exceptions of resolved expressions.
func exceptionsOf(es ...ast.Expression) *typing.ResultException {
	re := typing.NoException()
	for _, e := range es {
		re = re.Merge(e.Expr().ResolvedException.Item())
	}

	return re
}

// instrExceptions returns the exceptions of resolved instructions.
func instrExceptions(instrs []ast.Instruction) *typing.ResultException {
	re := typing.NoException()
	for _, instr := range instrs {
		re = re.Merge(instr.Instr().ResolvedException.Item())
	}

	return re
}
