package depm

// NumberKind classifies numeric values as integers or reals.  It starts at
// NumberNotChecked and is refined exactly once to one of the terminal kinds.
type NumberKind int

// Enumeration of number kinds.
const (
	NumberNotChecked    NumberKind = iota // Not yet inferred.
	NumberNotApplicable                   // The value is not a number.
	NumberInteger
	NumberReal
)

func (k NumberKind) String() string {
	switch k {
	case NumberNotChecked:
		return "not checked"
	case NumberNotApplicable:
		return "not applicable"
	case NumberInteger:
		return "integer"
	default:
		return "real"
	}
}

// IsTerminal returns whether the kind can no longer be refined.
func (k NumberKind) IsTerminal() bool {
	return k != NumberNotChecked
}

// IsNumeric returns whether the kind is one of integer or real.
func (k NumberKind) IsNumeric() bool {
	return k == NumberInteger || k == NumberReal
}

// JoinNumberKinds combines the kinds of two operands of an arithmetic
// operation: a real operand makes the result real regardless of the other, two
// integers make an integer and anything else is undecided.
func JoinNumberKinds(a, b NumberKind) NumberKind {
	if a == NumberReal || b == NumberReal {
		return NumberReal
	}

	if a == NumberInteger && b == NumberInteger {
		return NumberInteger
	}

	return NumberNotChecked
}
