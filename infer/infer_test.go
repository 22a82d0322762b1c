package infer_test

import (
	"testing"

	"easlyc/ast"
	"easlyc/common"
	"easlyc/depm"
	"easlyc/infer"
	"easlyc/report"
	"easlyc/resolve"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	u      *depm.Universe
	main   *depm.Class
	number *depm.ClassType
}

func newFixture() *fixture {
	u := depm.NewUniverse()
	main := u.AddClass(depm.NewClass("Main"))
	u.ImportBuiltins(main)

	return &fixture{u: u, main: main, number: depm.TypeOf(u.Builtin(depm.BuiltinNumber))}
}

// function adds a function with a single result whose body declares the given
// locals.
func (fx *fixture) function(name string, params []*depm.Parameter, locals []*ast.EntityDeclaration, instrs ...ast.Instruction) *depm.Overload {
	o := depm.NewOverload(params, []*depm.Parameter{depm.Param(depm.ResultName, fx.number)})
	o.Body = ast.NewEffectiveBody(locals, instrs...)
	fx.main.AddFeature(depm.NewFunction(name, o))
	return o
}

// resolve runs every phase without the number kind engine.
func (fx *fixture) resolve(t *testing.T) *resolve.Program {
	t.Helper()

	require.NoError(t, fx.u.Seal())

	prog, err := resolve.NewProgram(fx.u)
	require.NoError(t, err)

	config := common.DefaultConfig()
	config.CheckNumberKinds = false

	res, err := resolve.NewScheduler(config, report.NewReporter("silent")).Run(prog)
	require.NoError(t, err)
	require.Empty(t, res.Diagnostics)
	require.True(t, prog.IsFullyResolved())

	return prog
}

func (fx *fixture) engine(prog *resolve.Program) *infer.Engine {
	return infer.NewEngine(fx.u.UserClasses(), prog.Nodes())
}

func local(name string, def ast.Expression) *ast.EntityDeclaration {
	return ast.NewEntityDeclaration(name, ast.NewTypeName("Number"), def)
}

func num(text string) *ast.ManifestNumber {
	return ast.NewManifestNumber(text)
}

func query(name string) *ast.Query {
	return ast.NewQuery(ast.Name(name))
}

// -----------------------------------------------------------------------------

func TestLiteralKinds(t *testing.T) {
	fx := newFixture()

	integer, fraction := num("42"), num("3.14")
	fx.function("Integer", nil, nil, ast.NewAssignment(integer, ast.Name("Result")))
	fx.function("Real", nil, nil, ast.NewAssignment(fraction, ast.Name("Result")))

	prog := fx.resolve(t)
	stats := fx.engine(prog).Run()

	assert.Equal(t, depm.NumberInteger, integer.NumberKind())
	assert.Equal(t, depm.NumberReal, fraction.NumberKind())
	assert.Equal(t, 2, stats.Decided)
	assert.Equal(t, 1, stats.Rounds)
}

func TestLocalInferredFromAssignments(t *testing.T) {
	fx := newFixture()

	x := local("x", num("0"))
	inc := ast.NewBinaryOperator("+", query("x"), num("1"))
	read := query("x")

	fx.function("Count", nil, []*ast.EntityDeclaration{x},
		ast.NewAssignment(inc, ast.Name("x")),
		ast.NewAssignment(read, ast.Name("Result")),
	)

	prog := fx.resolve(t)
	fx.engine(prog).Run()

	assert.Equal(t, depm.NumberInteger, inc.NumberKind())
	assert.Equal(t, depm.NumberInteger, read.NumberKind())
}

func TestRealSourceWidensLocal(t *testing.T) {
	fx := newFixture()

	x := local("x", num("0"))
	read := query("x")

	fx.function("Mean", nil, []*ast.EntityDeclaration{x},
		ast.NewAssignment(ast.NewBinaryOperator("/", num("1"), num("2")), ast.Name("x")),
		ast.NewAssignment(read, ast.Name("Result")),
	)

	prog := fx.resolve(t)
	fx.engine(prog).Run()

	assert.Equal(t, depm.NumberReal, read.NumberKind())
}

func TestUnconstrainedParameterIsReal(t *testing.T) {
	fx := newFixture()

	double := ast.NewBinaryOperator("*", query("p"), num("2"))
	fx.function("Double", []*depm.Parameter{depm.Param("p", fx.number)}, nil, ast.NewAssignment(double, ast.Name("Result")))

	prog := fx.resolve(t)
	fx.engine(prog).Run()

	assert.Equal(t, depm.NumberReal, double.NumberKind())
}

func TestArgumentsFlowIntoParameters(t *testing.T) {
	fx := newFixture()

	double := ast.NewBinaryOperator("*", query("p"), num("2"))
	fx.function("Double", []*depm.Parameter{depm.Param("p", fx.number)}, nil, ast.NewAssignment(double, ast.Name("Result")))

	call := ast.NewQuery(ast.Name("Double"), ast.NewArgument(num("1")))
	fx.function("Twice", nil, nil, ast.NewAssignment(call, ast.Name("Result")))

	prog := fx.resolve(t)
	fx.engine(prog).Run()

	assert.Equal(t, depm.NumberInteger, double.NumberKind())
	assert.Equal(t, depm.NumberInteger, call.NumberKind())
}

func TestDeclaredKindWins(t *testing.T) {
	fx := newFixture()

	p := depm.Param("p", fx.number)
	p.DeclaredKind = depm.NumberInteger

	double := ast.NewBinaryOperator("*", query("p"), num("2"))
	fx.function("Double", []*depm.Parameter{p}, nil, ast.NewAssignment(double, ast.Name("Result")))

	prog := fx.resolve(t)
	fx.engine(prog).Run()

	assert.Equal(t, depm.NumberInteger, double.NumberKind())
}

func TestRunNeverRegresses(t *testing.T) {
	fx := newFixture()

	x := local("x", num("0"))
	inc := ast.NewBinaryOperator("+", query("x"), num("1"))
	half := ast.NewBinaryOperator("/", query("x"), num("2"))

	fx.function("Count", nil, []*ast.EntityDeclaration{x},
		ast.NewAssignment(inc, ast.Name("x")),
		ast.NewAssignment(half, ast.Name("Result")),
	)

	prog := fx.resolve(t)
	engine := fx.engine(prog)

	first := engine.Run()
	kinds := []depm.NumberKind{inc.NumberKind(), half.NumberKind()}

	again := engine.Run()
	assert.Zero(t, again.Decided)
	assert.Equal(t, kinds, []depm.NumberKind{inc.NumberKind(), half.NumberKind()})

	engine.Restart()
	assert.Equal(t, depm.NumberNotChecked, inc.NumberKind())

	restarted := engine.Run()
	assert.Equal(t, first.Decided, restarted.Decided)
	assert.Equal(t, kinds, []depm.NumberKind{inc.NumberKind(), half.NumberKind()})
}

func TestNonNumbersAreNotApplicable(t *testing.T) {
	fx := newFixture()

	cmp := ast.NewBinaryOperator("<", num("1"), num("2"))
	fx.main.AddFeature(depm.NewConstant("Less", depm.TypeOf(fx.u.Builtin(depm.BuiltinBoolean)), cmp))

	prog := fx.resolve(t)
	fx.engine(prog).Run()

	assert.Equal(t, depm.NumberNotApplicable, cmp.NumberKind())
}

func TestValidateIntegerDestination(t *testing.T) {
	fx := newFixture()

	x := local("x", nil)
	x.DeclaredKind = depm.NumberInteger

	assign := ast.NewAssignment(ast.NewBinaryOperator("/", num("1"), num("2")), ast.Name("x"))
	fx.function("Truncate", nil, []*ast.EntityDeclaration{x}, assign)

	prog := fx.resolve(t)
	fx.engine(prog).Run()

	before := assign.Source.Expr().NumberKind()
	diags := infer.Validate(prog.Nodes())
	require.Len(t, diags, 1)
	assert.Equal(t, report.KindNumber, diags[0].Kind)
	assert.Equal(t, "real value assigned to integer `x`", diags[0].Message)
	assert.Equal(t, before, assign.Source.Expr().NumberKind())
}
