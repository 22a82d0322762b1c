package depm

// Conformer is the type conformance oracle.
type Conformer interface {
	Conforms(src, dst Type, allowConversion bool) bool
}

// StandardConformance is the default conformance oracle:
//
//   - identical types conform;
//   - every type conforms to Any;
//   - a class type conforms to the types its ancestors conform to, with the
//     formal generics of each ancestor replaced by the actual arguments;
//   - a formal generic conforms to what its constraint conforms to;
//   - if conversions are allowed, a class type conforms to the types its
//     declared conversions conform to.
type StandardConformance struct{}

func (sc StandardConformance) Conforms(src, dst Type, allowConversion bool) bool {
	if src == nil || dst == nil {
		return false
	}

	if Equals(src, dst) {
		return true
	}

	if dct, ok := dst.(*ClassType); ok && dct.IsBuiltin(BuiltinAny) {
		return true
	}

	switch v := src.(type) {
	case *FormalGenericType:
		return v.Constraint != nil && sc.Conforms(v.Constraint, dst, allowConversion)
	case *ClassType:
		for _, parent := range v.Class.Parents {
			if sc.Conforms(substitute(parent, v.Class.Generics, v.Args), dst, allowConversion) {
				return true
			}
		}

		if allowConversion {
			for _, conv := range v.Class.Conversions {
				// conversions are not chained
				if sc.Conforms(substitute(conv, v.Class.Generics, v.Args), dst, false) {
					return true
				}
			}
		}
	}

	return false
}
