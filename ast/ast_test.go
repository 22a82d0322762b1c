package ast

import (
	"testing"

	"easlyc/constant"
	"easlyc/depm"
	"easlyc/report"
	"easlyc/typing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contractViolated(f func()) (violated bool) {
	defer func() {
		if x := recover(); x != nil {
			_, violated = x.(*report.ContractViolation)
		}
	}()

	f()
	return false
}

func writeContract(eb *ExprBase, t depm.Type) {
	eb.ResolvedResult.Set(typing.Single("", t))
	eb.ResolvedException.Set(typing.NoException())
	eb.ConstantSources.Set(nil)
	eb.ExpressionConstant.Set(constant.NotConstant)
}

func TestRecordPhases(t *testing.T) {
	n := NewManifestNumber("42")

	assert.True(t, n.Record.Owns(PhaseIdentifiers))
	assert.False(t, n.Record.Owns(PhaseTypes))
	assert.True(t, n.Record.Owns(PhaseContract))

	// a phase with no cell is trivially resolved
	assert.True(t, IsResolved(n, PhaseTypes))
	assert.False(t, IsResolved(n, PhaseIdentifiers))

	num, _ := constant.ParseNumber("42")
	n.ParsedNumber.Set(num)
	assert.True(t, IsResolved(n, PhaseIdentifiers))
	assert.True(t, IsResolved(n, PhaseIdentifiers), "resolution is stable")

	assert.False(t, IsResolved(n, PhaseContract))
	writeContract(&n.ExprBase, depm.TypeOf(depm.NewClass("Number")))
	assert.True(t, IsResolved(n, PhaseContract))
}

func TestPartlyWrittenPhase(t *testing.T) {
	n := NewManifestString("abc")
	n.ResolvedResult.Set(typing.Empty())

	assert.True(t, contractViolated(func() { IsResolved(n, PhaseContract) }))
}

func TestResetPhase(t *testing.T) {
	n := NewManifestCharacter("a")

	assert.True(t, contractViolated(func() { Reset(n, PhaseIdentifiers) }))

	n.ParsedCharacter.Set('a')
	Reset(n, PhaseIdentifiers)
	assert.False(t, IsResolved(n, PhaseIdentifiers))

	// only the cells of the phase are cleared
	writeContract(&n.ExprBase, depm.TypeOf(depm.NewClass("Character")))
	n.ParsedCharacter.Set('a')
	Reset(n, PhaseIdentifiers)
	assert.True(t, IsResolved(n, PhaseContract))

	// a phase without cells can always be reset
	assert.False(t, contractViolated(func() { Reset(n, PhaseBody) }))
}

func TestExclusiveCells(t *testing.T) {
	q := NewQuery(Name("a"))
	q.ValidPath.Set(true)

	writeContract(&q.ExprBase, depm.TypeOf(depm.NewClass("Number")))
	q.SelectedOverload.Set(nil)
	q.FeatureCall.Set(typing.EmptyCall())

	// none of the exclusive targets is written yet
	assert.True(t, contractViolated(func() { IsResolved(q, PhaseContract) }))

	q.ResolvedLocal.Set(&Local{Name: "a", Parameter: depm.Param("a", nil)})
	assert.True(t, IsResolved(q, PhaseContract))

	q.ResolvedFinalFeature.Set(depm.NewAttribute("a", nil))
	assert.True(t, contractViolated(func() { IsResolved(q, PhaseContract) }))
}

func TestAncestorInvariant(t *testing.T) {
	plain := NewPrecursorExpression(nil)
	assert.False(t, plain.Record.Owns(PhaseTypes))

	annotated := NewPrecursorExpression(NewTypeName("Shape"))
	assert.True(t, annotated.Record.Owns(PhaseTypes))

	annotated.ResolvedAncestorTypeName.Set("Shape")
	assert.True(t, contractViolated(func() { IsResolved(annotated, PhaseTypes) }))

	annotated.ResolvedAncestorType.Set(depm.TypeOf(depm.NewClass("Shape")))
	assert.True(t, IsResolved(annotated, PhaseTypes))
}

func TestAttachContext(t *testing.T) {
	class := depm.NewClass("Main")
	num := depm.TypeOf(depm.NewClass("Number"))
	o := depm.NewOverload([]*depm.Parameter{depm.Param("x", num)}, []*depm.Parameter{depm.Param("Result", num)})
	f := class.AddFeature(depm.NewFunction("f", o))

	query := NewQuery(Name("x"))
	local := NewEntityDeclaration("y", NewTypeName("Number"), nil)
	assign := NewAssignment(query, Name("Result"))
	body := NewEffectiveBody([]*EntityDeclaration{local}, assign)

	ensure := NewAssertion(EnsureClause, "positive", NewKeyword(KeywordResult))

	Attach(body, Context{Class: class, Feature: f, Overload: o})
	Attach(ensure, Context{Class: class, Feature: f, Overload: o})

	ctx := query.Context()
	assert.Same(t, class, ctx.Class)
	assert.Same(t, body, ctx.Body)
	assert.Nil(t, ctx.Assertion)
	assert.Same(t, assign, query.Parent())
	assert.Nil(t, body.Parent())

	kw := ensure.Expression
	assert.Same(t, ensure, kw.Base().Context().Assertion)
	assert.True(t, kw.Base().Context().InEnsure())
	assert.False(t, ctx.InEnsure())

	l, ok := ctx.LookupLocal("y")
	require.True(t, ok)
	assert.Same(t, local, l.Declaration)

	l, ok = ctx.LookupLocal("x")
	require.True(t, ok)
	lt, ok := l.Type()
	require.True(t, ok)
	assert.Same(t, num, lt)

	_, ok = ctx.LookupLocal("Result")
	assert.True(t, ok)
	_, ok = ctx.LookupLocal("z")
	assert.False(t, ok)

	assert.True(t, contractViolated(func() { Attach(body, Context{}) }))
	assert.True(t, contractViolated(func() { NewQuery(Name("q")).Context() }))
}

func TestCollectOrder(t *testing.T) {
	one, two := NewManifestNumber("1"), NewManifestNumber("2")
	sum := NewBinaryOperator("+", one, two)
	arg := NewArgument(sum)
	call := NewQuery(Name("f"), arg)

	assert.Equal(t, []Node{call, arg, sum, one, two}, Collect(call))

	var seen []Node
	Inspect(call, func(n Node) bool {
		seen = append(seen, n)
		return n != Node(sum)
	})
	assert.Equal(t, []Node{call, arg, sum}, seen)
}

func TestRefineNumberKind(t *testing.T) {
	n := NewManifestNumber("1")
	assert.Equal(t, depm.NumberNotChecked, n.NumberKind())

	assert.False(t, n.RefineNumberKind(depm.NumberNotChecked))
	assert.True(t, n.RefineNumberKind(depm.NumberInteger))
	assert.False(t, n.RefineNumberKind(depm.NumberInteger))
	assert.True(t, contractViolated(func() { n.RefineNumberKind(depm.NumberReal) }))

	n.RestartNumberKind()
	assert.True(t, n.RefineNumberKind(depm.NumberReal))
}

func TestInitializedObjectInvariant(t *testing.T) {
	x := NewNamedArgument("x", NewManifestNumber("1"))
	io := NewInitializedObject(NewTypeName("Point"), x)

	writeContract(&io.ExprBase, depm.TypeOf(depm.NewClass("Point")))
	io.AssignedFeatureTable.Seal()
	assert.True(t, contractViolated(func() { IsResolved(io, PhaseContract) }))
}
