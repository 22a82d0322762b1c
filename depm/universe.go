package depm

import (
	"fmt"

	"easlyc/once"
	"easlyc/report"
)

// Environment is the read-only symbol environment consumed by the resolvers.
// All the tables it returns are sealed.
type Environment interface {
	// LookupBuiltin looks up a built-in type in the import set of a class.  It
	// returns the name under which the type is imported.
	LookupBuiltin(class *Class, kind BuiltinKind) (string, *ClassType, bool)

	// FeatureTable returns the feature table of a class.
	FeatureTable(class *Class) *once.Table[string, *Feature]

	// DiscreteTable returns the discrete table of a class.
	DiscreteTable(class *Class) *once.Table[string, *Discrete]

	// ImportedClassTable returns the classes visible by name from a class.
	ImportedClassTable(class *Class) *once.Table[string, *Class]

	// ResolveTypeName resolves a type name as written in the given class.
	ResolveTypeName(class *Class, name string, args []Type) (Type, bool)

	// Conforms returns whether a value of type src can be used where a value
	// of type dst is expected.
	Conforms(src, dst Type, allowConversion bool) bool
}

// Universe is the set of classes of a program, including the built-in classes.
// It is built and then sealed before resolution begins.
type Universe struct {
	classes   *once.Table[string, *Class]
	builtins  map[BuiltinKind]*Class
	conformer Conformer
	sealed    bool
}

// NewUniverse creates a new universe containing only the built-in classes.
func NewUniverse() *Universe {
	u := &Universe{
		classes:   once.NewTable[string, *Class]("universe"),
		builtins:  make(map[BuiltinKind]*Class),
		conformer: StandardConformance{},
	}

	u.installBuiltins()
	return u
}

// SetConformer replaces the conformance oracle.
func (u *Universe) SetConformer(c Conformer) {
	u.conformer = c
}

// AddClass adds a user class to the universe.
func (u *Universe) AddClass(c *Class) *Class {
	if u.sealed {
		report.ICE("class `%s` added to a sealed universe", c.Name)
	}

	u.classes.Add(c.Name, c)
	return c
}

// ImportBuiltins imports the given built-in classes into a class.  If no kind
// is given, every built-in class is imported.
func (u *Universe) ImportBuiltins(c *Class, kinds ...BuiltinKind) {
	if len(kinds) == 0 {
		for kind := BuiltinAny; kind <= BuiltinException; kind++ {
			kinds = append(kinds, kind)
		}
	}

	for _, kind := range kinds {
		c.Import(u.builtins[kind])
	}
}

// Builtin returns the built-in class of the given kind.
func (u *Universe) Builtin(kind BuiltinKind) *Class {
	return u.builtins[kind]
}

// Class looks up a class by name.
func (u *Universe) Class(name string) (*Class, bool) {
	return u.classes.Get(name)
}

// Classes returns every class of the universe in insertion order.
func (u *Universe) Classes() []*Class {
	var classes []*Class
	u.classes.Each(func(_ string, c *Class) {
		classes = append(classes, c)
	})

	return classes
}

// UserClasses returns the non built-in classes of the universe.
func (u *Universe) UserClasses() []*Class {
	var classes []*Class
	u.classes.Each(func(_ string, c *Class) {
		if c.Builtin == BuiltinNone {
			classes = append(classes, c)
		}
	})

	return classes
}

// IsSealed returns whether the universe has been sealed.
func (u *Universe) IsSealed() bool {
	return u.sealed
}

// Seal builds the inherited feature tables of every class, parents first, and
// seals them.  It fails if the inheritance graph is cyclic.
func (u *Universe) Seal() error {
	if u.sealed {
		report.ICE("universe sealed twice")
	}

	order, err := u.inheritanceOrder()
	if err != nil {
		return err
	}

	for _, c := range order {
		c.seal()
	}

	u.classes.Seal()
	u.sealed = true
	return nil
}

// inheritanceOrder sorts the classes so that every class comes after all of
// its parents.
func (u *Universe) inheritanceOrder() ([]*Class, error) {
	const (
		unvisited = iota
		visiting
		visited
	)

	state := make(map[*Class]int)
	var order []*Class

	var visit func(c *Class, path []string) error
	visit = func(c *Class, path []string) error {
		switch state[c] {
		case visiting:
			return fmt.Errorf("cyclic inheritance: %v", append(path, c.Name))
		case visited:
			return nil
		}

		state[c] = visiting
		for _, parent := range c.Parents {
			if err := visit(parent.Class, append(path, c.Name)); err != nil {
				return err
			}
		}

		state[c] = visited
		order = append(order, c)
		return nil
	}

	for _, c := range u.Classes() {
		if err := visit(c, nil); err != nil {
			return nil, err
		}
	}

	return order, nil
}

// -----------------------------------------------------------------------------

func (u *Universe) LookupBuiltin(class *Class, kind BuiltinKind) (string, *ClassType, bool) {
	for _, name := range class.Imports.Keys() {
		imported, _ := class.Imports.Get(name)
		if imported.Builtin == kind {
			return name, TypeOf(imported), true
		}
	}

	return "", nil, false
}

func (u *Universe) FeatureTable(class *Class) *once.Table[string, *Feature] {
	return class.Features
}

func (u *Universe) DiscreteTable(class *Class) *once.Table[string, *Discrete] {
	return class.Discretes
}

func (u *Universe) ImportedClassTable(class *Class) *once.Table[string, *Class] {
	return class.Imports
}

func (u *Universe) ResolveTypeName(class *Class, name string, args []Type) (Type, bool) {
	for _, fg := range class.Generics {
		if fg.Name == name {
			return fg, len(args) == 0
		}
	}

	if named, ok := class.Imports.Get(name); ok {
		if len(args) != len(named.Generics) {
			return nil, false
		}

		return &ClassType{Class: named, Args: args}, true
	}

	return nil, false
}

func (u *Universe) Conforms(src, dst Type, allowConversion bool) bool {
	return u.conformer.Conforms(src, dst, allowConversion)
}

// -----------------------------------------------------------------------------

func (u *Universe) newBuiltin(kind BuiltinKind) *Class {
	c := NewClass(kind.String())
	c.Builtin = kind
	u.builtins[kind] = c
	u.classes.Add(c.Name, c)
	return c
}

// installBuiltins creates the built-in classes and their intrinsic features.
func (u *Universe) installBuiltins() {
	for kind := BuiltinAny; kind <= BuiltinException; kind++ {
		u.newBuiltin(kind)
	}

	for kind := BuiltinAny; kind <= BuiltinException; kind++ {
		u.ImportBuiltins(u.builtins[kind])
	}

	boolType := TypeOf(u.builtins[BuiltinBoolean])
	numType := TypeOf(u.builtins[BuiltinNumber])
	strType := TypeOf(u.builtins[BuiltinString])

	intrinsic := func(op Opcode, result Type, params ...*Parameter) *Overload {
		o := NewOverload(params, []*Parameter{Param(ResultName, result)})
		o.Intrinsic = op
		return o
	}

	number := u.builtins[BuiltinNumber]
	for _, binop := range []struct {
		name   string
		op     Opcode
		result Type
	}{
		{"+", OpAdd, numType},
		{"*", OpMul, numType},
		{"/", OpDiv, numType},
		{"<", OpLess, boolType},
		{"<=", OpLessEqual, boolType},
		{">", OpGreater, boolType},
		{">=", OpGreaterEqual, boolType},
		{"Max", OpMax, numType},
	} {
		number.AddFeature(NewFunction(binop.name, intrinsic(binop.op, binop.result, Param("other", numType))))
	}

	// `-` is both the unary negation and the binary subtraction
	number.AddFeature(NewFunction("-",
		intrinsic(OpNeg, numType),
		intrinsic(OpSub, numType, Param("other", numType)),
	))
	number.AddFeature(NewFunction("Abs", intrinsic(OpAbs, numType)))

	str := u.builtins[BuiltinString]
	str.AddFeature(NewFunction("+", intrinsic(OpConcat, strType, Param("other", strType))))
	length := str.AddFeature(NewFunction("Length", intrinsic(OpLength, numType)))
	length.Overloads[0].Results[0].DeclaredKind = NumberInteger

	char := u.builtins[BuiltinCharacter]
	code := char.AddFeature(NewFunction("Code", intrinsic(OpCode, numType)))
	code.Overloads[0].Results[0].DeclaredKind = NumberInteger

	exc := u.builtins[BuiltinException]
	exc.AddFeature(NewAttribute("Message", strType))
	exc.AddFeature(NewCreation("Make", NewOverload(nil, nil)))
}
