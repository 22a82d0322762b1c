package typing

import (
	"testing"

	"easlyc/depm"
	"easlyc/report"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type site string

func (site) Span() *report.TextSpan { return &report.TextSpan{} }
func (s site) Describe() string     { return string(s) }

func TestResultTypePreferred(t *testing.T) {
	num := depm.TypeOf(depm.NewClass("Number"))

	single := Single("Value", num)
	e, ok := single.Preferred()
	require.True(t, ok)
	assert.Equal(t, "Value", e.Name)

	multi := NewResultType(ResultEntry{Name: "Low", Type: num}, ResultEntry{Name: "Result", Type: num})
	e, ok = multi.Preferred()
	require.True(t, ok)
	assert.Equal(t, "Result", e.Name)

	none := NewResultType(ResultEntry{Name: "Low", Type: num}, ResultEntry{Name: "High", Type: num})
	_, ok = none.Preferred()
	assert.False(t, ok)
	assert.Nil(t, none.PreferredType())
	assert.Equal(t, "(Low: Number, High: Number)", none.String())

	assert.True(t, Empty().IsEmpty())
	assert.True(t, multi.Equals(NewResultType(multi.Entries()...)))
}

func TestResultExceptionMerge(t *testing.T) {
	a := NewResultException("Overflow", "DivideByZero")
	b := NewResultException("Overflow", "Parse")

	m := a.Merge(b, nil)
	assert.Equal(t, []string{"DivideByZero", "Overflow", "Parse"}, m.IDs())
	assert.True(t, m.Has("Parse"))
	assert.False(t, m.Has("Other"))

	// operands are left untouched
	assert.Equal(t, []string{"DivideByZero", "Overflow"}, a.IDs())
	assert.True(t, Propagate(a).Equals(a))
	assert.Equal(t, 0, Propagate(nil).Len())
	assert.Equal(t, "{DivideByZero, Overflow, Parse}", MergeAll(a, b).String())
}

func TestNormalizeArguments(t *testing.T) {
	_, style, diags := NormalizeArguments(site("f"), []*Argument{{}, {}, {Name: "c"}})
	assert.Empty(t, diags)
	assert.Equal(t, StyleMixed, style)

	_, _, diags = NormalizeArguments(site("f"), []*Argument{{Name: "a"}, {}})
	require.Len(t, diags, 1)
	assert.Equal(t, report.KindArgument, diags[0].Kind)

	_, _, diags = NormalizeArguments(site("f"), []*Argument{{Name: "a"}, {Name: "a"}})
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Message, "`a` given more than once")

	_, style, _ = NormalizeArguments(site("f"), nil)
	assert.Equal(t, StyleNone, style)
}

func TestPositionalPairing(t *testing.T) {
	u := depm.NewUniverse()
	num := depm.TypeOf(u.Builtin(depm.BuiltinNumber))
	f := depm.NewFunction("f", depm.NewOverload(
		[]*depm.Parameter{depm.Param("p1", num), depm.Param("p2", num)},
		[]*depm.Parameter{depm.Param("Result", num)},
	))

	c := u.AddClass(depm.NewClass("Main"))
	c.AddFeature(f)
	require.NoError(t, u.Seal())

	x := &Argument{Type: num, Source: site("x")}
	q := &OverloadQuery{Node: site("f(x, x)"), Name: "f", Overloads: f.Overloads, Arguments: []*Argument{x, x}}

	fc, diags := ResolveOverload(u, q)
	require.Empty(t, diags)
	assert.Equal(t, StylePositional, fc.Style)
	require.Len(t, fc.Bindings, 2)
	assert.Equal(t, "p1", fc.Bindings[0].Parameter.Name)
	assert.Same(t, x, fc.Bindings[0].Argument)
	assert.Equal(t, "p2", fc.Bindings[1].Parameter.Name)
	assert.Same(t, x, fc.Bindings[1].Argument)

	// same input, same verdict
	again, _ := ResolveOverload(u, q)
	assert.Same(t, fc.Overload, again.Overload)

	q.Arguments = []*Argument{{Name: "p1", Type: num}, {Name: "p1", Type: num}}
	_, diags = ResolveOverload(u, q)
	require.Len(t, diags, 1)
	assert.Equal(t, report.KindArgument, diags[0].Kind)
}

func TestOverloadSelection(t *testing.T) {
	u := depm.NewUniverse()
	num := depm.TypeOf(u.Builtin(depm.BuiltinNumber))
	str := depm.TypeOf(u.Builtin(depm.BuiltinString))

	byNumber := depm.NewOverload([]*depm.Parameter{depm.Param("n", num)}, nil)
	byString := depm.NewOverload([]*depm.Parameter{depm.Param("s", str)}, nil)
	withDefault := depm.NewOverload([]*depm.Parameter{depm.Param("a", num), {Name: "b", Type: num, Default: site("0")}}, nil)

	c := u.AddClass(depm.NewClass("Main"))
	show := c.AddFeature(depm.NewProcedure("Show", byNumber, byString))
	twice := c.AddFeature(depm.NewProcedure("Twice", withDefault))
	require.NoError(t, u.Seal())

	resolve := func(f *depm.Feature, args ...*Argument) (*FeatureCall, []*report.Diagnostic) {
		return ResolveOverload(u, &OverloadQuery{Node: site(f.Name), Name: f.Name, Overloads: f.Overloads, Arguments: args})
	}

	fc, diags := resolve(show, &Argument{Type: str})
	require.Empty(t, diags)
	assert.Same(t, byString, fc.Overload)

	fc, diags = resolve(twice, &Argument{Type: num})
	require.Empty(t, diags)
	assert.Nil(t, fc.Bindings[1].Argument)

	fc, diags = resolve(twice, &Argument{Type: num}, &Argument{Name: "b", Type: num})
	require.Empty(t, diags)
	assert.Equal(t, StyleMixed, fc.Style)
	assert.NotNil(t, fc.Bindings[1].Argument)

	_, diags = resolve(twice, &Argument{Name: "b", Type: num})
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Message, "missing argument for `a`")

	_, diags = resolve(show, &Argument{Type: num}, &Argument{Type: num})
	require.Len(t, diags, 1)
	assert.Equal(t, report.KindOverloadMismatch, diags[0].Kind)
	assert.Contains(t, diags[0].Message, "closest candidate is `Show(n: Number)`")

	anyType := depm.TypeOf(u.Builtin(depm.BuiltinAny))
	either := depm.NewProcedure("Either", depm.NewOverload([]*depm.Parameter{depm.Param("n", num)}, nil),
		depm.NewOverload([]*depm.Parameter{depm.Param("x", anyType)}, nil))
	_, diags = resolve(either, &Argument{Type: num})
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Message, "ambiguous call to `Either`")
}

func TestGenericParameterInstantiation(t *testing.T) {
	u := depm.NewUniverse()
	num := depm.TypeOf(u.Builtin(depm.BuiltinNumber))
	str := depm.TypeOf(u.Builtin(depm.BuiltinString))

	list := u.AddClass(depm.NewClass("List"))
	g := list.AddGeneric("G", nil)
	put := list.AddFeature(depm.NewProcedure("Put", depm.NewOverload([]*depm.Parameter{depm.Param("item", g)}, nil)))
	require.NoError(t, u.Seal())

	numbers := &depm.ClassType{Class: list, Args: []depm.Type{num}}
	q := &OverloadQuery{Node: site("Put"), Name: "Put", Overloads: put.Overloads, Base: numbers, Arguments: []*Argument{{Type: num}}}

	fc, diags := ResolveOverload(u, q)
	require.Empty(t, diags)
	assert.True(t, depm.Equals(num, fc.Bindings[0].Type))

	q.Arguments = []*Argument{{Type: str}}
	_, diags = ResolveOverload(u, q)
	assert.Len(t, diags, 1)
}

func TestFeatureCallExceptions(t *testing.T) {
	o := depm.NewOverload(nil, nil)
	o.Exceptions = []string{"Overflow"}

	fc := &FeatureCall{Overload: o, Arguments: []*Argument{{Exceptions: NewResultException("Parse")}, {}}}
	assert.Equal(t, []string{"Overflow", "Parse"}, fc.Exceptions().IDs())
	assert.Equal(t, 0, EmptyCall().Exceptions().Len())
}
