package depm

import "strings"

// Type is the interface for all value types.
type Type interface {
	// Repr returns a string representing the type.
	Repr() string

	// equals returns whether the two types are exactly identical.  It should
	// only be called through Equals.
	equals(other Type) bool
}

// Equals returns if two types are exactly identical.  This operation is
// commutative.
func Equals(lhs, rhs Type) bool {
	if lhs == nil || rhs == nil {
		return lhs == nil && rhs == nil
	}

	return lhs.equals(rhs)
}

// -----------------------------------------------------------------------------

// ClassType is an instance of a class, with actual generic arguments if the
// class has formal generics.
type ClassType struct {
	Class *Class
	Args  []Type
}

// TypeOf returns a class type with no generic arguments.
func TypeOf(c *Class) *ClassType {
	return &ClassType{Class: c}
}

func (ct *ClassType) Repr() string {
	if len(ct.Args) == 0 {
		return ct.Class.Name
	}

	argReprs := make([]string, len(ct.Args))
	for i, arg := range ct.Args {
		argReprs[i] = arg.Repr()
	}

	return ct.Class.Name + "[" + strings.Join(argReprs, ", ") + "]"
}

func (ct *ClassType) equals(other Type) bool {
	oct, ok := other.(*ClassType)
	if !ok || oct.Class != ct.Class || len(oct.Args) != len(ct.Args) {
		return false
	}

	for i, arg := range ct.Args {
		if !Equals(arg, oct.Args[i]) {
			return false
		}
	}

	return true
}

// IsBuiltin returns whether the type is the given built-in class.
func (ct *ClassType) IsBuiltin(kind BuiltinKind) bool {
	return ct.Class.Builtin == kind
}

// -----------------------------------------------------------------------------

// FormalGenericType is a formal generic parameter of a class.  Its constraint
// is the type its actual arguments must conform to; it may be nil.
type FormalGenericType struct {
	Name       string
	Owner      *Class
	Constraint *ClassType
}

func (fg *FormalGenericType) Repr() string {
	return fg.Name
}

func (fg *FormalGenericType) equals(other Type) bool {
	// formal generics are only ever equal to themselves
	return fg == other
}

// -----------------------------------------------------------------------------

// FeatureType is the type of an agent: a reference to a feature that can be
// called later.
type FeatureType struct {
	Feature *Feature
}

func (ft *FeatureType) Repr() string {
	return "agent " + ft.Feature.Owner.Name + "." + ft.Feature.Name
}

func (ft *FeatureType) equals(other Type) bool {
	oft, ok := other.(*FeatureType)
	return ok && oft.Feature == ft.Feature
}

// -----------------------------------------------------------------------------

// ClassOf returns the class whose feature table is used to look up members of
// a value of the given type.  Formal generics use their constraint.
func ClassOf(t Type) (*Class, bool) {
	switch v := t.(type) {
	case *ClassType:
		return v.Class, true
	case *FormalGenericType:
		if v.Constraint != nil {
			return v.Constraint.Class, true
		}
	}

	return nil, false
}

// substitute replaces the formal generics of a class by actual arguments in
// the given type.
func substitute(t Type, generics []*FormalGenericType, args []Type) Type {
	switch v := t.(type) {
	case *FormalGenericType:
		for i, fg := range generics {
			if fg == v && i < len(args) {
				return args[i]
			}
		}
	case *ClassType:
		if len(v.Args) == 0 {
			return v
		}

		newArgs := make([]Type, len(v.Args))
		for i, arg := range v.Args {
			newArgs[i] = substitute(arg, generics, args)
		}

		return &ClassType{Class: v.Class, Args: newArgs}
	}

	return t
}

// AncestorInstance finds the instance of the given ancestor class in the
// ancestry of base, with the formal generics of each intermediate class
// replaced by the actual arguments.
func AncestorInstance(base *ClassType, ancestor *Class) (*ClassType, bool) {
	if base.Class == ancestor {
		return base, true
	}

	for _, parent := range base.Class.Parents {
		pt := substitute(parent, base.Class.Generics, base.Args).(*ClassType)
		if inst, ok := AncestorInstance(pt, ancestor); ok {
			return inst, true
		}
	}

	return nil, false
}

// Instantiate replaces the formal generics of owner in t by the actual
// arguments they take when a feature of owner is accessed through a value of
// type base.
func Instantiate(t Type, owner *Class, base Type) Type {
	bct, ok := base.(*ClassType)
	if !ok || owner == nil || len(owner.Generics) == 0 {
		return t
	}

	if inst, ok := AncestorInstance(bct, owner); ok {
		return substitute(t, owner.Generics, inst.Args)
	}

	return t
}
