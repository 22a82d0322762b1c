package constant

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"easlyc/depm"

	"fortio.org/safecast"
)

// Kind is the tag of a compile-time constant.
type Kind int

// Enumeration of constant kinds.
const (
	KindNotConstant Kind = iota
	KindBoolean
	KindCharacter
	KindNumber
	KindString
	KindEntity
	KindDiscrete
	KindAgent
	KindObject
)

// Constant is an immutable compile-time value.
type Constant interface {
	Kind() Kind
	Repr() string
}

// -----------------------------------------------------------------------------

// notConstant is the value of expressions that cannot be evaluated at compile
// time.
type notConstant struct{}

// NotConstant is the neutral element of folding: any composite with a
// non-constant operand is itself non-constant.
var NotConstant Constant = notConstant{}

func (notConstant) Kind() Kind   { return KindNotConstant }
func (notConstant) Repr() string { return "<not constant>" }

// IsConstant returns whether c is a known constant.
func IsConstant(c Constant) bool {
	return c != nil && c.Kind() != KindNotConstant
}

// Boolean is a boolean constant.
type Boolean struct {
	Value bool
}

func (*Boolean) Kind() Kind     { return KindBoolean }
func (b *Boolean) Repr() string { return strconv.FormatBool(b.Value) }

// Character is a character constant.
type Character struct {
	Value rune
}

func (*Character) Kind() Kind     { return KindCharacter }
func (c *Character) Repr() string { return strconv.QuoteRune(c.Value) }

// String is a string constant.
type String struct {
	Value string
}

func (*String) Kind() Kind     { return KindString }
func (s *String) Repr() string { return strconv.Quote(s.Value) }

// Entity is a constant reference to the run-time description of a type.
type Entity struct {
	Type depm.Type
}

func (*Entity) Kind() Kind     { return KindEntity }
func (e *Entity) Repr() string { return "entity " + e.Type.Repr() }

// Agent is a constant reference to a feature.
type Agent struct {
	Feature *depm.Feature
}

func (*Agent) Kind() Kind     { return KindAgent }
func (a *Agent) Repr() string { return "agent " + a.Feature.Name }

// Discrete is a reference to a discrete value.  If the discrete is backed by a
// numeric expression, its final value is the constant of that expression.
type Discrete struct {
	Discrete *depm.Discrete
}

func (*Discrete) Kind() Kind     { return KindDiscrete }
func (d *Discrete) Repr() string { return d.Discrete.Owner.Name + "." + d.Discrete.Name }

// Field is an assigned field of an object constant.
type Field struct {
	Feature *depm.Feature
	Value   depm.Source
}

// Object is an initialized object whose fields are all assigned constants.
type Object struct {
	Class  *depm.Class
	Fields []Field
}

func (*Object) Kind() Kind { return KindObject }

func (o *Object) Repr() string {
	names := make([]string, len(o.Fields))
	for i, f := range o.Fields {
		names[i] = f.Feature.Name
	}

	return o.Class.Name + " {" + strings.Join(names, ", ") + "}"
}

// -----------------------------------------------------------------------------

// Number is a numeric constant with its canonical exact value.
type Number struct {
	Value *big.Rat

	// NumKind is the kind inferred from the literal or the folding.
	NumKind depm.NumberKind
}

func (*Number) Kind() Kind { return KindNumber }

func (n *Number) Repr() string {
	if n.Value.IsInt() {
		if n.NumKind == depm.NumberReal {
			return n.Value.Num().String() + ".0"
		}

		return n.Value.Num().String()
	}

	f, _ := n.Value.Float64()
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// NewInteger creates an integer number constant.
func NewInteger(v int64) *Number {
	return &Number{Value: new(big.Rat).SetInt64(v), NumKind: depm.NumberInteger}
}

// ParseNumber parses the text of a manifest number.  The kind is decided by
// the lexical form of the text: decimal text with a fraction or an exponent
// and hexadecimal text with a fraction or a binary exponent are real numbers,
// everything else is an integer.
func ParseNumber(text string) (*Number, error) {
	if text == "" || strings.ContainsRune(text, '/') {
		return nil, fmt.Errorf("invalid number `%s`", text)
	}

	r, ok := new(big.Rat).SetString(text)
	if !ok {
		return nil, fmt.Errorf("invalid number `%s`", text)
	}

	return &Number{Value: r, NumKind: lexicalKind(text)}, nil
}

func lexicalKind(text string) depm.NumberKind {
	digits := strings.TrimLeft(text, "+-")
	lower := strings.ToLower(digits)

	if strings.HasPrefix(lower, "0x") {
		if strings.ContainsAny(lower, ".p") {
			return depm.NumberReal
		}
	} else if strings.ContainsAny(lower, ".e") && !strings.HasPrefix(lower, "0b") {
		return depm.NumberReal
	}

	return depm.NumberInteger
}

// Int returns the value of an integral number as an int.
func (n *Number) Int() (int, error) {
	if !n.Value.IsInt() || !n.Value.Num().IsInt64() {
		return 0, fmt.Errorf("number %s is not a machine integer", n.Repr())
	}

	return safecast.Conv[int](n.Value.Num().Int64())
}

// Equals returns whether two numbers have the same value and kind.
func (n *Number) Equals(other *Number) bool {
	return n.NumKind == other.NumKind && n.Value.Cmp(other.Value) == 0
}
