package constant

import (
	"math/big"
	"unicode/utf8"

	"easlyc/depm"
	"easlyc/util"

	"fortio.org/safecast"
)

// FoldIntrinsic evaluates an intrinsic operation over constant operands.  The
// first operand is the value the feature is called on.  The result is
// NotConstant if any operand is not constant or if the operation would fail
// at run time.
func FoldIntrinsic(op depm.Opcode, operands ...Constant) Constant {
	if !util.All(operands, IsConstant) {
		return NotConstant
	}

	switch len(operands) {
	case 1:
		return foldUnary(op, operands[0])
	case 2:
		return foldBinary(op, operands[0], operands[1])
	}

	return NotConstant
}

func foldUnary(op depm.Opcode, operand Constant) Constant {
	switch v := operand.(type) {
	case *Number:
		switch op {
		case depm.OpNeg:
			return &Number{Value: new(big.Rat).Neg(v.Value), NumKind: v.NumKind}
		case depm.OpAbs:
			return &Number{Value: new(big.Rat).Abs(v.Value), NumKind: v.NumKind}
		}
	case *String:
		if op == depm.OpLength {
			return NewInteger(int64(utf8.RuneCountInString(v.Value)))
		}
	case *Character:
		if op == depm.OpCode {
			// a negative rune is not a code point
			if code, err := safecast.Conv[uint32](v.Value); err == nil {
				return NewInteger(int64(code))
			}
		}
	}

	return NotConstant
}

func foldBinary(op depm.Opcode, lhs, rhs Constant) Constant {
	switch l := lhs.(type) {
	case *Number:
		if r, ok := rhs.(*Number); ok {
			return foldArithmetic(op, l, r)
		}
	case *String:
		if r, ok := rhs.(*String); ok && op == depm.OpConcat {
			return &String{Value: l.Value + r.Value}
		}
	}

	return NotConstant
}

func foldArithmetic(op depm.Opcode, l, r *Number) Constant {
	kind := depm.JoinNumberKinds(l.NumKind, r.NumKind)

	switch op {
	case depm.OpAdd:
		return &Number{Value: new(big.Rat).Add(l.Value, r.Value), NumKind: kind}
	case depm.OpSub:
		return &Number{Value: new(big.Rat).Sub(l.Value, r.Value), NumKind: kind}
	case depm.OpMul:
		return &Number{Value: new(big.Rat).Mul(l.Value, r.Value), NumKind: kind}
	case depm.OpDiv:
		// division by zero raises at run time
		if r.Value.Sign() == 0 {
			return NotConstant
		}

		return &Number{Value: new(big.Rat).Quo(l.Value, r.Value), NumKind: depm.NumberReal}
	case depm.OpMax:
		if l.Value.Cmp(r.Value) >= 0 {
			return &Number{Value: l.Value, NumKind: kind}
		}

		return &Number{Value: r.Value, NumKind: kind}
	case depm.OpLess:
		return &Boolean{Value: l.Value.Cmp(r.Value) < 0}
	case depm.OpLessEqual:
		return &Boolean{Value: l.Value.Cmp(r.Value) <= 0}
	case depm.OpGreater:
		return &Boolean{Value: l.Value.Cmp(r.Value) > 0}
	case depm.OpGreaterEqual:
		return &Boolean{Value: l.Value.Cmp(r.Value) >= 0}
	}

	return NotConstant
}

// -----------------------------------------------------------------------------

// ConditionalOp is a boolean conditional operator.
type ConditionalOp int

// Enumeration of conditional operators.
const (
	OpAnd ConditionalOp = iota
	OpOr
	OpXor
	OpImplies
)

// FoldConditional evaluates a conditional operator over boolean constants.
func FoldConditional(op ConditionalOp, lhs, rhs Constant) Constant {
	l, lok := lhs.(*Boolean)
	r, rok := rhs.(*Boolean)
	if !lok || !rok {
		return NotConstant
	}

	switch op {
	case OpAnd:
		return &Boolean{Value: l.Value && r.Value}
	case OpOr:
		return &Boolean{Value: l.Value || r.Value}
	case OpXor:
		return &Boolean{Value: l.Value != r.Value}
	default:
		return &Boolean{Value: !l.Value || r.Value}
	}
}

// FoldNot evaluates the negation of a boolean constant.
func FoldNot(operand Constant) Constant {
	if b, ok := operand.(*Boolean); ok {
		return &Boolean{Value: !b.Value}
	}

	return NotConstant
}

// FoldEquality evaluates the equality of two constants, or their inequality if
// negate is set.  Only final constants of the same kind are compared.
func FoldEquality(lhs, rhs Constant, negate bool) Constant {
	eq, ok := Same(lhs, rhs)
	if !ok {
		return NotConstant
	}

	return &Boolean{Value: eq != negate}
}

// Same compares two constants.  It returns false as its second result if the
// constants cannot be compared at compile time.
func Same(lhs, rhs Constant) (bool, bool) {
	if !IsConstant(lhs) || !IsConstant(rhs) || lhs.Kind() != rhs.Kind() {
		return false, false
	}

	switch l := lhs.(type) {
	case *Boolean:
		return l.Value == rhs.(*Boolean).Value, true
	case *Character:
		return l.Value == rhs.(*Character).Value, true
	case *Number:
		return l.Value.Cmp(rhs.(*Number).Value) == 0, true
	case *String:
		return l.Value == rhs.(*String).Value, true
	case *Discrete:
		return l.Discrete == rhs.(*Discrete).Discrete, true
	case *Entity:
		return depm.Equals(l.Type, rhs.(*Entity).Type), true
	case *Agent:
		return l.Feature == rhs.(*Agent).Feature, true
	}

	return false, false
}
