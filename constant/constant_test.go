package constant

import (
	"testing"

	"easlyc/depm"
	"easlyc/report"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNumber(t *testing.T) {
	cases := []struct {
		text string
		kind depm.NumberKind
		repr string
	}{
		{"42", depm.NumberInteger, "42"},
		{"3.14", depm.NumberReal, "3.14"},
		{"1e3", depm.NumberReal, "1000.0"},
		{"0x1F", depm.NumberInteger, "31"},
		{"0x1p-2", depm.NumberReal, "0.25"},
		{"-7", depm.NumberInteger, "-7"},
	}

	for _, c := range cases {
		n, err := ParseNumber(c.text)
		require.NoError(t, err, c.text)
		assert.Equal(t, c.kind, n.NumKind, c.text)
		assert.Equal(t, c.repr, n.Repr(), c.text)

		again, err := ParseNumber(c.text)
		require.NoError(t, err)
		assert.True(t, n.Equals(again), c.text)
	}

	for _, bad := range []string{"", "abc", "1/2", "1..2"} {
		_, err := ParseNumber(bad)
		assert.Error(t, err, bad)
	}
}

func TestNumberInt(t *testing.T) {
	n, _ := ParseNumber("42")
	v, err := n.Int()
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	r, _ := ParseNumber("2.5")
	_, err = r.Int()
	assert.Error(t, err)

	huge, _ := ParseNumber("123456789012345678901234567890")
	_, err = huge.Int()
	assert.Error(t, err)
}

func TestFoldIntrinsic(t *testing.T) {
	two, three := NewInteger(2), NewInteger(3)
	half, _ := ParseNumber("0.5")

	sum := FoldIntrinsic(depm.OpAdd, two, three).(*Number)
	assert.Equal(t, "5", sum.Repr())
	assert.Equal(t, depm.NumberInteger, sum.NumKind)

	mixed := FoldIntrinsic(depm.OpMul, two, half).(*Number)
	assert.Equal(t, depm.NumberReal, mixed.NumKind)

	assert.Equal(t, depm.NumberReal, FoldIntrinsic(depm.OpDiv, three, two).(*Number).NumKind)
	assert.Equal(t, NotConstant, FoldIntrinsic(depm.OpDiv, three, NewInteger(0)))

	assert.Equal(t, "-2", FoldIntrinsic(depm.OpNeg, two).Repr())
	assert.Equal(t, &Boolean{Value: true}, FoldIntrinsic(depm.OpLess, two, three))
	assert.Equal(t, "3", FoldIntrinsic(depm.OpMax, two, three).Repr())

	assert.Equal(t, &String{Value: "ab"}, FoldIntrinsic(depm.OpConcat, &String{Value: "a"}, &String{Value: "b"}))
	assert.Equal(t, "2", FoldIntrinsic(depm.OpLength, &String{Value: "é!"}).Repr())
	assert.Equal(t, "65", FoldIntrinsic(depm.OpCode, &Character{Value: 'A'}).Repr())
	assert.Equal(t, NotConstant, FoldIntrinsic(depm.OpCode, &Character{Value: -1}))
}

func TestNotConstantIsNeutral(t *testing.T) {
	two := NewInteger(2)
	yes := &Boolean{Value: true}

	assert.False(t, IsConstant(FoldIntrinsic(depm.OpAdd, two, NotConstant)))
	assert.False(t, IsConstant(FoldIntrinsic(depm.OpAdd, NotConstant, two)))
	assert.False(t, IsConstant(FoldConditional(OpOr, yes, NotConstant)))
	assert.False(t, IsConstant(FoldNot(NotConstant)))
	assert.False(t, IsConstant(FoldEquality(two, NotConstant, false)))

	assert.True(t, IsConstant(FoldIntrinsic(depm.OpAdd, two, two)))
	assert.True(t, IsConstant(FoldConditional(OpOr, yes, yes)))
}

func TestFoldConditionalAndEquality(t *testing.T) {
	yes, no := &Boolean{Value: true}, &Boolean{Value: false}

	assert.Equal(t, no, FoldConditional(OpAnd, yes, no))
	assert.Equal(t, yes, FoldConditional(OpOr, yes, no))
	assert.Equal(t, yes, FoldConditional(OpXor, yes, no))
	assert.Equal(t, yes, FoldConditional(OpImplies, no, no))
	assert.Equal(t, no, FoldNot(yes))

	assert.Equal(t, yes, FoldEquality(NewInteger(2), NewInteger(2), false))
	assert.Equal(t, yes, FoldEquality(&String{Value: "a"}, &String{Value: "b"}, true))
	assert.Equal(t, NotConstant, FoldEquality(NewInteger(2), &String{Value: "2"}, false))
}

type valueNode struct {
	c        Constant
	resolved bool
}

func (*valueNode) Span() *report.TextSpan { return nil }
func (*valueNode) Describe() string       { return "value" }

func (n *valueNode) TryConstant() (Constant, bool) {
	return n.c, n.resolved
}

func TestFinalConstant(t *testing.T) {
	owner := depm.NewClass("Color")
	plain := owner.AddDiscrete("Red", nil)

	c, ok := FinalConstant(&Discrete{Discrete: plain})
	require.True(t, ok)
	assert.Equal(t, KindDiscrete, c.Kind())

	backing := &valueNode{}
	backed := owner.AddDiscrete("Green", backing)

	_, ok = FinalConstant(&Discrete{Discrete: backed})
	assert.False(t, ok)

	backing.c, backing.resolved = NewInteger(7), true
	c, ok = FinalConstant(&Discrete{Discrete: backed})
	require.True(t, ok)
	assert.Equal(t, "7", c.Repr())

	// a discrete whose value is itself
	loop := &valueNode{resolved: true}
	self := owner.AddDiscrete("Blue", loop)
	loop.c = &Discrete{Discrete: self}
	c, ok = FinalConstant(&Discrete{Discrete: self})
	require.True(t, ok)
	assert.False(t, IsConstant(c))
}

func TestFinalObjectConstant(t *testing.T) {
	point := depm.NewClass("Point")
	x := point.AddFeature(depm.NewAttribute("x", nil))
	y := point.AddFeature(depm.NewAttribute("y", nil))

	xv := &valueNode{c: NewInteger(1), resolved: true}
	yv := &valueNode{c: NotConstant, resolved: true}
	obj := &Object{Class: point, Fields: []Field{{Feature: x, Value: xv}, {Feature: y, Value: yv}}}

	c, ok := FinalConstant(obj)
	require.True(t, ok)
	assert.False(t, IsConstant(c))

	yv.c = NewInteger(2)
	c, ok = FinalConstant(obj)
	require.True(t, ok)
	assert.Equal(t, "Point {x, y}", c.Repr())
}
