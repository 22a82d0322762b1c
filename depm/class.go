package depm

import (
	"easlyc/once"
	"easlyc/report"
)

// BuiltinKind is the fixed identity of a built-in language class.  Built-in
// types are looked up by this identity in the import set of a class.
type BuiltinKind int

// Enumeration of built-in kinds.
const (
	BuiltinNone BuiltinKind = iota
	BuiltinAny
	BuiltinBoolean
	BuiltinCharacter
	BuiltinNumber
	BuiltinString
	BuiltinEvent
	BuiltinEntity
	BuiltinException
)

var builtinNames = map[BuiltinKind]string{
	BuiltinAny:       "Any",
	BuiltinBoolean:   "Boolean",
	BuiltinCharacter: "Character",
	BuiltinNumber:    "Number",
	BuiltinString:    "String",
	BuiltinEvent:     "Event",
	BuiltinEntity:    "Entity",
	BuiltinException: "Exception",
}

func (k BuiltinKind) String() string {
	if name, ok := builtinNames[k]; ok {
		return name
	}

	return "none"
}

// -----------------------------------------------------------------------------

// Class is a class declaration with its feature, discrete and import tables.
// The tables are built by AddFeature, AddDiscrete and Import and sealed when
// the universe is sealed: from then on the class is read-only.
type Class struct {
	Name string

	// Builtin is the built-in identity of this class, BuiltinNone for user
	// classes.
	Builtin BuiltinKind

	// Parents is the list of direct ancestor types in declaration order.
	Parents []*ClassType

	// Generics is the list of formal generics of the class.
	Generics []*FormalGenericType

	// Conversions is the list of types this class can be implicitly converted
	// to when conversions are allowed.
	Conversions []*ClassType

	// Features is the feature table: own features and inherited features that
	// are not redefined.
	Features *once.Table[string, *Feature]

	// Discretes is the discrete table: own and inherited discretes.
	Discretes *once.Table[string, *Discrete]

	// Imports is the table of classes visible from this class by name.
	Imports *once.Table[string, *Class]

	// own is the list of features declared by the class itself.
	own []*Feature

	// ownDiscretes is the list of discretes declared by the class itself.
	ownDiscretes []*Discrete

	sealed bool
}

// NewClass creates a new user class.
func NewClass(name string) *Class {
	return &Class{
		Name:      name,
		Features:  once.NewTable[string, *Feature](name + ".Features"),
		Discretes: once.NewTable[string, *Discrete](name + ".Discretes"),
		Imports:   once.NewTable[string, *Class](name + ".Imports"),
	}
}

// Inherit adds a parent type to the class.
func (c *Class) Inherit(parent *ClassType) *Class {
	c.mustNotBeSealed()
	c.Parents = append(c.Parents, parent)
	return c
}

// AddGeneric adds a formal generic to the class and returns it.
func (c *Class) AddGeneric(name string, constraint *ClassType) *FormalGenericType {
	c.mustNotBeSealed()

	fg := &FormalGenericType{Name: name, Owner: c, Constraint: constraint}
	c.Generics = append(c.Generics, fg)
	return fg
}

// AddConversion declares that instances of the class convert to the given type.
func (c *Class) AddConversion(to *ClassType) *Class {
	c.mustNotBeSealed()
	c.Conversions = append(c.Conversions, to)
	return c
}

// AddFeature adds a feature declared by the class.
func (c *Class) AddFeature(f *Feature) *Feature {
	c.mustNotBeSealed()

	f.Owner = c
	c.own = append(c.own, f)
	return f
}

// AddDiscrete adds a discrete declared by the class.  The value may be nil if
// the discrete is not backed by an explicit numeric expression.
func (c *Class) AddDiscrete(name string, value Source) *Discrete {
	c.mustNotBeSealed()

	d := &Discrete{
		Name:    name,
		Owner:   c,
		Ordinal: len(c.ownDiscretes),
		Value:   value,
	}
	c.ownDiscretes = append(c.ownDiscretes, d)
	return d
}

// Import makes another class visible by its own name.
func (c *Class) Import(other *Class) *Class {
	return c.ImportAs(other.Name, other)
}

// ImportAs makes another class visible under the given name.
func (c *Class) ImportAs(name string, other *Class) *Class {
	c.mustNotBeSealed()
	c.Imports.Set(name, other)
	return c
}

// OwnFeatures returns the features declared by the class itself.
func (c *Class) OwnFeatures() []*Feature {
	return c.own
}

// OwnDiscretes returns the discretes declared by the class itself.
func (c *Class) OwnDiscretes() []*Discrete {
	return c.ownDiscretes
}

// IsSealed returns whether the class tables have been sealed.
func (c *Class) IsSealed() bool {
	return c.sealed
}

func (c *Class) mustNotBeSealed() {
	if c.sealed {
		report.ICE("class `%s` modified after it was sealed", c.Name)
	}
}

// seal builds the inherited part of the tables and seals them.  All the
// parents must already be sealed.
func (c *Class) seal() {
	for _, f := range c.own {
		f.Precursors = c.collectPrecursors(f.Name)
		c.Features.Add(f.Name, f)
	}

	for _, d := range c.ownDiscretes {
		c.Discretes.Add(d.Name, d)
	}

	for _, parent := range c.Parents {
		parent.Class.Features.Each(func(name string, pf *Feature) {
			if !c.Features.Has(name) {
				c.Features.Add(name, pf)
			}
		})

		parent.Class.Discretes.Each(func(name string, pd *Discrete) {
			if !c.Discretes.Has(name) {
				c.Discretes.Add(name, pd)
			}
		})
	}

	if !c.Imports.Has(c.Name) {
		c.Imports.Add(c.Name, c)
	}

	c.Features.Seal()
	c.Discretes.Seal()
	c.Imports.Seal()
	c.sealed = true
}

// collectPrecursors finds the ancestor versions of a feature redefined by this
// class.  The same ancestor feature reached through several parents is only
// listed once.
func (c *Class) collectPrecursors(name string) []*Precursor {
	var precursors []*Precursor
	seen := make(map[*Feature]struct{})

	for _, parent := range c.Parents {
		if pf, ok := parent.Class.Features.Get(name); ok {
			if _, ok := seen[pf]; ok {
				continue
			}

			seen[pf] = struct{}{}
			precursors = append(precursors, &Precursor{Ancestor: parent, Feature: pf})
		}
	}

	return precursors
}

// Discrete is a named constant value of an enumeration-like class, optionally
// backed by an explicit numeric expression.
type Discrete struct {
	Name  string
	Owner *Class

	// Ordinal is the position of the discrete in its class.
	Ordinal int

	// Value is the numeric expression backing the discrete.  It may be nil.
	Value Source
}
