package walk

import (
	"testing"

	"easlyc/ast"
	"easlyc/common"
	"easlyc/constant"
	"easlyc/depm"
	"easlyc/report"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	u *depm.Universe
	w *Walker

	number, boolean *depm.ClassType
}

func newFixture() *fixture {
	u := depm.NewUniverse()
	return &fixture{
		u:       u,
		w:       NewWalker(u, common.DefaultConfig()),
		number:  depm.TypeOf(u.Builtin(depm.BuiltinNumber)),
		boolean: depm.TypeOf(u.Builtin(depm.BuiltinBoolean)),
	}
}

func (fx *fixture) class(name string) *depm.Class {
	c := fx.u.AddClass(depm.NewClass(name))
	fx.u.ImportBuiltins(c)
	return c
}

// resolve attaches a tree and runs its resolvers phase by phase, committing
// each outcome immediately.  It returns the diagnostics of failed nodes.
func (fx *fixture) resolve(t *testing.T, root ast.Node, ctx ast.Context) []*report.Diagnostic {
	t.Helper()

	if !fx.u.IsSealed() {
		require.NoError(t, fx.u.Seal())
	}

	ast.Attach(root, ctx)
	nodes := ast.Collect(root)

	var diags []*report.Diagnostic
	failed := make(map[ast.Node]bool)

	for _, phase := range ast.Phases {
		for progress := true; progress; {
			progress = false

			for _, n := range nodes {
				if failed[n] || !n.Base().Record.Owns(phase) || ast.IsResolved(n, phase) {
					continue
				}

				switch out := fx.w.Resolve(n, phase); out.Status {
				case Resolved:
					out.Commit()
					progress = true
				case Failed:
					failed[n] = true
					diags = append(diags, out.Diagnostics...)
				}
			}
		}
	}

	return diags
}

func routine(kind depm.FeatureKind, name string, params, results []*depm.Parameter) (*depm.Feature, *depm.Overload) {
	o := depm.NewOverload(params, results)
	if kind == depm.FunctionFeature {
		return depm.NewFunction(name, o), o
	}

	return depm.NewProcedure(name, o), o
}

// -----------------------------------------------------------------------------

func TestSelectPrecursor(t *testing.T) {
	shape := depm.NewClass("Shape")
	colored := depm.NewClass("Colored")

	shapeArea := depm.NewAttribute("Area", nil)
	coloredArea := depm.NewAttribute("Area", nil)

	f := depm.NewAttribute("Area", nil)
	f.Precursors = []*depm.Precursor{
		{Ancestor: depm.TypeOf(shape), Feature: shapeArea},
		{Ancestor: depm.TypeOf(colored), Feature: coloredArea},
	}

	_, err := SelectPrecursor(f, nil)
	require.Error(t, err)

	var pe *PrecursorError
	require.ErrorAs(t, err, &pe)
	assert.Len(t, pe.Candidates, 2)
	assert.Contains(t, err.Error(), "`Shape.Area`, `Colored.Area`")
	assert.Contains(t, err.Error(), "precursor {T}")

	p, err := SelectPrecursor(f, depm.TypeOf(colored))
	require.NoError(t, err)
	assert.Same(t, coloredArea, p.Feature)

	_, err = SelectPrecursor(f, depm.TypeOf(depm.NewClass("Other")))
	assert.EqualError(t, err, "`Other` does not provide a precursor of `Area`")

	_, err = SelectPrecursor(depm.NewAttribute("Size", nil), nil)
	assert.EqualError(t, err, "`Size` has no precursor")

	single := depm.NewAttribute("Area", nil)
	single.Precursors = f.Precursors[:1]
	p, err = SelectPrecursor(single, nil)
	require.NoError(t, err)
	assert.Same(t, shapeArea, p.Feature)
}

func TestOutcomeMustBeSet(t *testing.T) {
	n := ast.NewManifestNumber("1")

	for _, out := range []Outcome{{}, {Status: Resolved}} {
		err := func() (err error) {
			defer report.CatchContract(&err)
			checkOutcome(n, out)
			return nil
		}()

		var cv *report.ContractViolation
		assert.ErrorAs(t, err, &cv, out.Status.String())
	}

	assert.Equal(t, "unset", Outcome{}.Status.String())
	assert.NotPanics(t, func() { checkOutcome(n, blocked("value")) })
	assert.NotPanics(t, func() { checkOutcome(n, resolved(func() {})) })
}

func TestLiterals(t *testing.T) {
	fx := newFixture()
	main := fx.class("Main")

	mc := ast.NewManifestCharacter(`\n`)
	diags := fx.resolve(t, mc, ast.Context{Class: main})
	require.Empty(t, diags)
	assert.Equal(t, '\n', mc.ParsedCharacter.Item())
	assert.Equal(t, &constant.Character{Value: '\n'}, mc.ExpressionConstant.Item())

	ms := ast.NewManifestString(`a\tb`)
	require.Empty(t, fx.resolve(t, ms, ast.Context{Class: main}))
	assert.Equal(t, "a\tb", ms.ParsedString.Item())

	mn := ast.NewManifestNumber("3.14")
	require.Empty(t, fx.resolve(t, mn, ast.Context{Class: main}))
	assert.Equal(t, depm.NumberReal, mn.ParsedNumber.Item().NumKind)
	assert.True(t, ast.IsResolved(mn, ast.PhaseContract))

	bad := ast.NewManifestNumber("1/")
	diags = fx.resolve(t, bad, ast.Context{Class: main})
	require.Len(t, diags, 1)
	assert.Equal(t, report.KindInvalidLiteral, diags[0].Kind)

	twoChars := ast.NewManifestCharacter("ab")
	diags = fx.resolve(t, twoChars, ast.Context{Class: main})
	require.Len(t, diags, 1)
	assert.Equal(t, report.KindInvalidLiteral, diags[0].Kind)
}

func TestMissingNumberType(t *testing.T) {
	fx := newFixture()
	bare := fx.u.AddClass(depm.NewClass("Bare"))

	mn := ast.NewManifestNumber("1")
	diags := fx.resolve(t, mn, ast.Context{Class: bare})
	require.Len(t, diags, 1)
	assert.Equal(t, report.KindMissingBuiltin, diags[0].Kind)
	assert.Equal(t, "missing `Number` type: it is not imported by `Bare`", diags[0].Message)
	assert.True(t, ast.IsResolved(mn, ast.PhaseIdentifiers))
	assert.False(t, ast.IsResolved(mn, ast.PhaseContract))
}

func TestConstantFolding(t *testing.T) {
	fx := newFixture()
	main := fx.class("Main")

	sum := ast.NewBinaryOperator("+", ast.NewManifestNumber("40"), ast.NewManifestNumber("2"))
	require.Empty(t, fx.resolve(t, sum, ast.Context{Class: main}))
	assert.Equal(t, "42", sum.ExpressionConstant.Item().Repr())
	assert.Equal(t, depm.OpAdd, sum.SelectedOverload.Item().Intrinsic)

	neg := ast.NewUnaryOperator("-", ast.NewManifestNumber("1"))
	require.Empty(t, fx.resolve(t, neg, ast.Context{Class: main}))
	assert.Equal(t, "-1", neg.ExpressionConstant.Item().Repr())

	eq := ast.NewEquality(ast.OpEqual, ast.NewManifestString("a"), ast.NewManifestString("a"))
	require.Empty(t, fx.resolve(t, eq, ast.Context{Class: main}))
	assert.Equal(t, &constant.Boolean{Value: true}, eq.ExpressionConstant.Item())

	cond := ast.NewBinaryConditional(constant.OpOr, ast.NewKeyword(ast.KeywordFalse), ast.NewKeyword(ast.KeywordTrue))
	require.Empty(t, fx.resolve(t, cond, ast.Context{Class: main}))
	assert.Equal(t, &constant.Boolean{Value: true}, cond.ExpressionConstant.Item())
}

func TestKeywordValueOutsideSetter(t *testing.T) {
	fx := newFixture()
	main := fx.class("Main")
	prop := main.AddFeature(depm.NewProperty("Size", fx.number, depm.ReadWrite))

	ke := ast.NewKeyword(ast.KeywordValue)
	diags := fx.resolve(t, ke, ast.Context{Class: main, Feature: prop, Accessor: ast.GetterAccessor})
	require.Len(t, diags, 1)
	assert.Equal(t, report.KindContext, diags[0].Kind)

	ke = ast.NewKeyword(ast.KeywordValue)
	require.Empty(t, fx.resolve(t, ke, ast.Context{Class: main, Feature: prop, Accessor: ast.SetterAccessor}))
	assert.True(t, depm.Equals(fx.number, ke.ResolvedResult.Item().PreferredType()))
}

// -----------------------------------------------------------------------------

func TestConditionMustBeBoolean(t *testing.T) {
	fx := newFixture()
	main := fx.class("Main")
	run, o := routine(depm.ProcedureFeature, "Run", nil, nil)
	main.AddFeature(run)

	check := ast.NewCheck(ast.NewManifestNumber("1"))
	diags := fx.resolve(t, check, ast.Context{Class: main, Feature: run, Overload: o})
	require.Len(t, diags, 1)
	assert.Equal(t, report.KindTypeMismatch, diags[0].Kind)
	assert.Equal(t, "expected `Boolean` condition, got `Number`", diags[0].Message)
}

func TestLoopExceptions(t *testing.T) {
	fx := newFixture()
	main := fx.class("Main")
	run, o := routine(depm.ProcedureFeature, "Run", nil, nil)
	main.AddFeature(run)

	throw := ast.NewThrow(ast.NewTypeName("Exception"), "Make")
	loop := ast.NewAsLongAs(ast.NewKeyword(ast.KeywordTrue), ast.NewDebug(throw))
	body := ast.NewEffectiveBody(nil, loop)

	require.Empty(t, fx.resolve(t, body, ast.Context{Class: main, Feature: run, Overload: o}))

	assert.True(t, throw.ResolvedException.Item().Has("Exception"))
	assert.True(t, loop.ResolvedException.Item().Has("Exception"))
	assert.Equal(t, []string{"Exception"}, body.ResolvedException.Item().IDs())
	assert.Equal(t, "Make", throw.ResolvedCreation.Item().Name)
}

func TestThrowRequiresException(t *testing.T) {
	fx := newFixture()
	main := fx.class("Main")
	run, o := routine(depm.ProcedureFeature, "Run", nil, nil)
	main.AddFeature(run)

	throw := ast.NewThrow(ast.NewTypeName("String"), "Make")
	diags := fx.resolve(t, throw, ast.Context{Class: main, Feature: run, Overload: o})
	require.Len(t, diags, 1)
	assert.Equal(t, "`String` is not an exception type", diags[0].Message)
}

func TestAssignmentDestinations(t *testing.T) {
	fx := newFixture()
	main := fx.class("Main")
	main.AddFeature(depm.NewAttribute("total", fx.number))
	main.AddFeature(depm.NewConstant("Limit", fx.number, nil))
	main.AddDiscrete("Red", nil)

	f, o := routine(depm.FunctionFeature, "Compute",
		[]*depm.Parameter{depm.Param("x", fx.number)},
		[]*depm.Parameter{depm.Param(depm.ResultName, fx.number)},
	)
	main.AddFeature(f)
	ctx := ast.Context{Class: main, Feature: f, Overload: o}

	ok := ast.NewAssignment(ast.NewManifestNumber("1"), ast.Name("Result"), ast.Name("total"))
	require.Empty(t, fx.resolve(t, ok, ctx))
	dests := ok.ResolvedDestinations.Item()
	require.Len(t, dests, 2)
	assert.NotNil(t, dests[0].Local)
	assert.Equal(t, "total", dests[1].Feature.Name)

	cases := []struct {
		dests []ast.QualifiedName
		want  string
	}{
		{[]ast.QualifiedName{ast.Name("x")}, "cannot assign to parameter `x`"},
		{[]ast.QualifiedName{ast.Name("Limit")}, "constant `Limit` cannot be assigned"},
		{[]ast.QualifiedName{ast.Name("total"), ast.Name("total")}, "`total` is assigned more than once"},
		{[]ast.QualifiedName{ast.Name("Red")}, "discrete `Red` cannot be assigned"},
	}

	for _, c := range cases {
		a := ast.NewAssignment(ast.NewManifestNumber("1"), c.dests...)
		diags := fx.resolve(t, a, ctx)
		require.Len(t, diags, 1, c.want)
		assert.Equal(t, c.want, diags[0].Message)
	}

	mismatch := ast.NewAssignment(ast.NewManifestString("s"), ast.Name("total"))
	diags := fx.resolve(t, mismatch, ctx)
	require.Len(t, diags, 1)
	assert.Equal(t, report.KindTypeMismatch, diags[0].Kind)
}

func TestCommandAndCreate(t *testing.T) {
	fx := newFixture()

	point := fx.class("Point")
	point.AddFeature(depm.NewCreation("Make", depm.NewOverload([]*depm.Parameter{depm.Param("x", fx.number)}, nil)))

	main := fx.class("Main")
	main.AddFeature(depm.NewAttribute("origin", depm.TypeOf(point)))
	main.AddFeature(depm.NewAttribute("count", fx.number))
	run, o := routine(depm.ProcedureFeature, "Run", nil, nil)
	main.AddFeature(run)
	ctx := ast.Context{Class: main, Feature: run, Overload: o}

	create := ast.NewCreate(ast.Name("origin"), "Make", ast.NewArgument(ast.NewManifestNumber("0")))
	require.Empty(t, fx.resolve(t, create, ctx))
	assert.Same(t, point, create.ResolvedEntityType.Item().Class)
	assert.Equal(t, depm.CreationFeature, create.ResolvedCreation.Item().Kind)

	cmd := ast.NewCommand(ast.Name("Run"))
	require.Empty(t, fx.resolve(t, cmd, ctx))
	assert.Same(t, run, cmd.ResolvedFeature.Item())
	assert.Same(t, o, cmd.SelectedOverload.Item())

	notProc := ast.NewCommand(ast.Name("count"))
	diags := fx.resolve(t, notProc, ctx)
	require.Len(t, diags, 1)
	assert.Equal(t, "`count` is not a procedure", diags[0].Message)

	notClass := ast.NewCreate(ast.Name("count"), "Make")
	diags = fx.resolve(t, notClass, ctx)
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Message, "unknown creation routine `Make` in `Number`")
}

// -----------------------------------------------------------------------------

func TestPrecursorIndexOutsideIndexer(t *testing.T) {
	fx := newFixture()
	main := fx.class("Main")
	f, o := routine(depm.FunctionFeature, "Get", nil, []*depm.Parameter{depm.Param(depm.ResultName, fx.number)})
	main.AddFeature(f)

	pi := ast.NewPrecursorIndex(nil, ast.NewArgument(ast.NewManifestNumber("0")))
	diags := fx.resolve(t, pi, ast.Context{Class: main, Feature: f, Overload: o})
	require.Len(t, diags, 1)
	assert.Equal(t, report.KindContext, diags[0].Kind)
	assert.Equal(t, "precursor index outside of an indexer", diags[0].Message)
}

func TestPrecursorInstruction(t *testing.T) {
	fx := newFixture()

	base := fx.class("Base")
	run, _ := routine(depm.ProcedureFeature, "Run", nil, nil)
	run.Overloads[0].Exceptions = []string{"Failure"}
	base.AddFeature(run)

	derived := fx.class("Derived").Inherit(depm.TypeOf(base))
	redef, o := routine(depm.ProcedureFeature, "Run", nil, nil)
	derived.AddFeature(redef)

	pi := ast.NewPrecursorInstruction(nil)
	require.Empty(t, fx.resolve(t, pi, ast.Context{Class: derived, Feature: redef, Overload: o}))
	assert.Same(t, run, pi.ResolvedPrecursor.Item().Feature)
	assert.True(t, pi.ResolvedException.Item().Has("Failure"))

	pb := ast.NewPrecursorBody()
	require.Empty(t, fx.resolve(t, pb, ast.Context{Class: derived, Feature: redef, Overload: o}))
	assert.True(t, pb.ResolvedException.Item().Has("Failure"))
}

func TestDeclaredBodies(t *testing.T) {
	fx := newFixture()
	main := fx.class("Main")
	run, o := routine(depm.ProcedureFeature, "Run", nil, nil)
	o.Exceptions = []string{"IO"}
	main.AddFeature(run)

	db := ast.NewDeferredBody()
	require.Empty(t, fx.resolve(t, db, ast.Context{Class: main, Feature: run, Overload: o}))
	assert.Equal(t, []string{"IO"}, db.ResolvedException.Item().IDs())

	eb := ast.NewExternBody()
	require.Empty(t, fx.resolve(t, eb, ast.Context{Class: main, Feature: run, Overload: o}))
	assert.Equal(t, []string{"IO"}, eb.ResolvedException.Item().IDs())
}

func TestTypeNameConstraint(t *testing.T) {
	fx := newFixture()

	list := fx.class("List")
	list.AddGeneric("G", fx.number)

	main := fx.class("Main").Import(list)

	ok := ast.NewTypeName("List", ast.NewTypeName("Number"))
	require.Empty(t, fx.resolve(t, ok, ast.Context{Class: main}))
	assert.Equal(t, "List[Number]", ok.ResolvedType.Item().Repr())

	bad := ast.NewTypeName("List", ast.NewTypeName("String"))
	diags := fx.resolve(t, bad, ast.Context{Class: main})
	require.Len(t, diags, 1)
	assert.Equal(t, "`String` does not satisfy the constraint `Number` of `G`", diags[0].Message)

	unknown := ast.NewTypeName("Missing")
	diags = fx.resolve(t, unknown, ast.Context{Class: main})
	require.Len(t, diags, 1)
	assert.Equal(t, report.KindUnknownIdentifier, diags[0].Kind)
}

// -----------------------------------------------------------------------------

func TestEntitiesAndAgents(t *testing.T) {
	fx := newFixture()

	color := fx.class("Color")
	red := color.AddDiscrete("Red", nil)

	main := fx.class("Main").Import(color)
	count := main.AddFeature(depm.NewAttribute("count", fx.number))
	ctx := ast.Context{Class: main}

	e := ast.NewEntity(ast.Name("count"))
	require.Empty(t, fx.resolve(t, e, ctx))
	assert.Same(t, count, e.ResolvedFinalFeature.Item())
	assert.Equal(t, "Entity", e.ResolvedResult.Item().PreferredType().Repr())

	ke := ast.NewKeywordEntity(ast.KeywordCurrent)
	require.Empty(t, fx.resolve(t, ke, ctx))
	assert.Equal(t, "Entity", ke.ResolvedResult.Item().PreferredType().Repr())

	agent := ast.NewAgent(nil, "count")
	require.Empty(t, fx.resolve(t, agent, ctx))
	assert.Same(t, count, agent.ResolvedFeature.Item())
	assert.Equal(t, &constant.Agent{Feature: count}, agent.ExpressionConstant.Item())

	missing := ast.NewAgent(nil, "missing")
	diags := fx.resolve(t, missing, ctx)
	require.Len(t, diags, 1)
	assert.Equal(t, "unknown feature `missing` in `Main`", diags[0].Message)

	cc := ast.NewClassConstant(ast.NewTypeName("Color"), "Red")
	require.Empty(t, fx.resolve(t, cc, ctx))
	assert.Same(t, red, cc.ResolvedFinalDiscrete.Item())
	assert.Equal(t, "Color.Red", cc.ExpressionConstant.Item().Repr())

	unknown := ast.NewClassConstant(ast.NewTypeName("Color"), "Blue")
	diags = fx.resolve(t, unknown, ctx)
	require.Len(t, diags, 1)
	assert.Equal(t, "unknown constant `Blue` in `Color`", diags[0].Message)
}

func TestPostconditionExpressions(t *testing.T) {
	fx := newFixture()
	main := fx.class("Main")
	main.AddFeature(depm.NewAttribute("total", fx.number))

	f, o := routine(depm.FunctionFeature, "Compute",
		[]*depm.Parameter{depm.Param("x", fx.number)},
		[]*depm.Parameter{depm.Param(depm.ResultName, fx.number)},
	)
	main.AddFeature(f)

	positive := ast.NewAssertion(ast.RequireClause, "positive", ast.NewKeyword(ast.KeywordTrue))
	o.Require = []depm.Source{positive}
	ctx := ast.Context{Class: main, Feature: f, Overload: o}

	old := ast.NewOld(ast.NewQuery(ast.Name("x")))
	ensure := ast.NewAssertion(ast.EnsureClause, "", ast.NewEquality(ast.OpEqual, old, ast.NewQuery(ast.Name("x"))))
	require.Empty(t, fx.resolve(t, ensure, ctx))
	assert.True(t, depm.Equals(fx.number, old.ResolvedResult.Item().PreferredType()))

	isNew := ast.NewNew(ast.Name("total"))
	require.Empty(t, fx.resolve(t, ast.NewAssertion(ast.EnsureClause, "", isNew), ctx))
	assert.Equal(t, "total", isNew.ResolvedFinalFeature.Item().Name)

	outside := ast.NewOld(ast.NewQuery(ast.Name("x")))
	diags := fx.resolve(t, outside, ctx)
	require.Len(t, diags, 1)
	assert.Equal(t, "`old` is only valid in postconditions", diags[0].Message)

	tag := ast.NewAssertionTag("positive")
	require.Empty(t, fx.resolve(t, tag, ctx))
	assert.Same(t, positive, tag.ResolvedAssertion.Item())

	unknownTag := ast.NewAssertionTag("negative")
	diags = fx.resolve(t, unknownTag, ctx)
	require.Len(t, diags, 1)
	assert.Equal(t, "unknown assertion tag `negative`", diags[0].Message)
}

func TestExpressionWrappers(t *testing.T) {
	fx := newFixture()
	main := fx.class("Main")
	main.AddFeature(depm.NewAttribute("total", fx.number))

	f, _ := routine(depm.FunctionFeature, "Compute",
		[]*depm.Parameter{depm.Param("x", fx.number)},
		[]*depm.Parameter{depm.Param(depm.ResultName, fx.number)},
	)
	main.AddFeature(f)
	ctx := ast.Context{Class: main}

	ro := ast.NewResultOf(ast.NewQuery(ast.Name("Compute"), ast.NewArgument(ast.NewManifestNumber("1"))))
	require.Empty(t, fx.resolve(t, ro, ctx))
	assert.True(t, depm.Equals(fx.number, ro.ResolvedResult.Item().PreferredType()))

	clone := ast.NewCloneOf(true, ast.NewQuery(ast.Name("total")))
	require.Empty(t, fx.resolve(t, clone, ctx))
	assert.True(t, depm.Equals(fx.number, clone.ResolvedResult.Item().PreferredType()))

	cloneAgent := ast.NewCloneOf(false, ast.NewAgent(nil, "total"))
	diags := fx.resolve(t, cloneAgent, ctx)
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Message, "cannot be cloned")

	not := ast.NewUnaryNot(ast.NewKeyword(ast.KeywordTrue))
	require.Empty(t, fx.resolve(t, not, ctx))
	assert.Equal(t, &constant.Boolean{Value: false}, not.ExpressionConstant.Item())

	classPath := ast.NewPreprocessor(ast.MacroClassPath)
	require.Empty(t, fx.resolve(t, classPath, ctx))
	assert.Equal(t, &constant.String{Value: "Main"}, classPath.ExpressionConstant.Item())

	debugging := ast.NewPreprocessor(ast.MacroDebugging)
	require.Empty(t, fx.resolve(t, debugging, ctx))
	assert.Equal(t, &constant.Boolean{Value: false}, debugging.ExpressionConstant.Item())

	counter := ast.NewPreprocessor(ast.MacroCounter)
	require.Empty(t, fx.resolve(t, counter, ctx))
	assert.False(t, constant.IsConstant(counter.ExpressionConstant.Item()))
}

func TestIndexQuery(t *testing.T) {
	fx := newFixture()

	vector := fx.class("Vector")
	indexer := vector.AddFeature(depm.NewIndexer(fx.number, depm.ReadOnly, depm.Param("i", fx.number)))

	main := fx.class("Main").Import(vector)
	main.AddFeature(depm.NewAttribute("v", depm.TypeOf(vector)))
	main.AddFeature(depm.NewAttribute("count", fx.number))
	ctx := ast.Context{Class: main}

	iq := ast.NewIndexQuery(ast.NewQuery(ast.Name("v")), ast.NewArgument(ast.NewManifestNumber("0")))
	require.Empty(t, fx.resolve(t, iq, ctx))
	assert.Same(t, indexer, iq.ResolvedIndexer.Item())
	assert.True(t, depm.Equals(fx.number, iq.ResolvedResult.Item().PreferredType()))

	bad := ast.NewIndexQuery(ast.NewQuery(ast.Name("count")), ast.NewArgument(ast.NewManifestNumber("0")))
	diags := fx.resolve(t, bad, ctx)
	require.Len(t, diags, 1)
	assert.Equal(t, "`Number` has no indexer", diags[0].Message)
}

func TestConditionalBranches(t *testing.T) {
	fx := newFixture()
	main := fx.class("Main")
	run, o := routine(depm.ProcedureFeature, "Run", nil, nil)
	main.AddFeature(run)

	cond := ast.NewConditional(
		[]ast.Branch{{
			Condition:    ast.NewKeyword(ast.KeywordTrue),
			Instructions: []ast.Instruction{ast.NewThrow(ast.NewTypeName("Exception"), "Make")},
		}},
		ast.NewCheck(ast.NewKeyword(ast.KeywordFalse)),
	)

	require.Empty(t, fx.resolve(t, cond, ast.Context{Class: main, Feature: run, Overload: o}))
	assert.Equal(t, []string{"Exception"}, cond.ResolvedException.Item().IDs())
}
