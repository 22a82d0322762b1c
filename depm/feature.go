package depm

import "easlyc/report"

// Source is a node of the syntax tree referenced by a declaration: an overload
// body, the value of a constant feature, the default value of a parameter...
// The declaration tables only hold these nodes; they are resolved by the walker.
type Source interface {
	report.Locatable
}

// FeatureKind is the kind of a feature.
type FeatureKind int

// Enumeration of feature kinds.
const (
	AttributeFeature FeatureKind = iota
	ConstantFeature
	CreationFeature
	FunctionFeature
	ProcedureFeature
	PropertyFeature
	IndexerFeature
)

var featureKindNames = map[FeatureKind]string{
	AttributeFeature: "attribute",
	ConstantFeature:  "constant",
	CreationFeature:  "creation",
	FunctionFeature:  "function",
	ProcedureFeature: "procedure",
	PropertyFeature:  "property",
	IndexerFeature:   "indexer",
}

func (k FeatureKind) String() string {
	return featureKindNames[k]
}

// Access is the access mode of a property or indexer.
type Access int

// Enumeration of access modes.
const (
	ReadWrite Access = iota
	ReadOnly
	WriteOnly
)

// IndexerName is the name under which the indexer of a class is stored in its
// feature table.
const IndexerName = "Indexer"

// ResultName is the name of the preferred result of an overload with more
// than one result.
const ResultName = "Result"

// Feature is a member of a class.
type Feature struct {
	Name string
	Kind FeatureKind

	// Owner is the class declaring the feature.
	Owner *Class

	// Type is the value type of attributes, constants, properties and
	// indexers.  It is nil for routines.
	Type Type

	// Access is the access mode of properties and indexers.
	Access Access

	// Overloads is the list of overloads of routines.  Indexers have a single
	// overload whose parameters are the index parameters.
	Overloads []*Overload

	// Value is the expression of a constant feature.
	Value Source

	// Getter and Setter are the bodies of properties and indexers.  Either may
	// be nil.
	Getter, Setter Source

	// Exceptions is the list of exceptions the getter of a property or
	// indexer can raise.
	Exceptions []string

	// Precursors is the list of ancestor versions of the feature if the owner
	// redefines it.  It is computed when the universe is sealed.
	Precursors []*Precursor

	// DeclaredKind constrains the number kind of attributes, constants,
	// properties and indexers of numeric type.
	DeclaredKind NumberKind
}

// Precursor is an ancestor version of a redefined feature.
type Precursor struct {
	// Ancestor is the parent type through which the feature is inherited.
	Ancestor *ClassType

	Feature *Feature
}

// IsQuery returns whether calling the feature produces a value.
func (f *Feature) IsQuery() bool {
	switch f.Kind {
	case ProcedureFeature, CreationFeature:
		return false
	default:
		return true
	}
}

// IsAssignable returns whether the feature can be the destination of an
// assignment or of an object initializer field.
func (f *Feature) IsAssignable() bool {
	switch f.Kind {
	case AttributeFeature:
		return true
	case PropertyFeature:
		return f.Access != ReadOnly
	default:
		return false
	}
}

// IsReadable returns whether the value of the feature can be read.
func (f *Feature) IsReadable() bool {
	return !(f.Kind == PropertyFeature || f.Kind == IndexerFeature) || f.Access != WriteOnly
}

// -----------------------------------------------------------------------------

// Opcode identifies an intrinsic operation that can be folded at compile time.
type Opcode int

// Enumeration of intrinsic opcodes.
const (
	OpNone Opcode = iota
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpNeg
	OpLess
	OpLessEqual
	OpGreater
	OpGreaterEqual
	OpAbs
	OpMax
	OpConcat
	OpLength
	OpCode
)

// Overload is one callable signature of a routine.
type Overload struct {
	// Feature is the feature this overload belongs to.
	Feature *Feature

	Parameters []*Parameter
	Results    []*Parameter

	// Exceptions is the list of exception identifiers the overload can raise.
	Exceptions []string

	// Body is the body of the overload.  It may be nil for intrinsics.
	Body Source

	// Require and Ensure are the assertions of the contract of the overload.
	Require, Ensure []Source

	// Intrinsic is the opcode of intrinsic overloads: those can be folded if
	// all their arguments are constant.
	Intrinsic Opcode
}

// NewOverload creates an overload with the given parameters and results.
func NewOverload(params []*Parameter, results []*Parameter) *Overload {
	o := &Overload{Parameters: params, Results: results}
	for _, p := range params {
		p.Overload = o
	}

	for _, r := range results {
		r.Overload = o
	}

	return o
}

// RequiredCount returns the number of parameters without a default value.
func (o *Overload) RequiredCount() int {
	n := 0
	for _, p := range o.Parameters {
		if p.Default == nil {
			n++
		}
	}

	return n
}

// PreferredResult returns the result used when the overload is called as an
// expression: the only result, or the one named `Result`.
func (o *Overload) PreferredResult() (*Parameter, bool) {
	if len(o.Results) == 1 {
		return o.Results[0], true
	}

	for _, r := range o.Results {
		if r.Name == ResultName {
			return r, true
		}
	}

	return nil, false
}

// Parameter is a parameter or a result of an overload.
type Parameter struct {
	Name string
	Type Type

	// Default is the default value.  A parameter without default value is
	// required at every call site.
	Default Source

	// DeclaredKind constrains the number kind of numeric parameters: eg. an
	// integer-only parameter has NumberInteger.
	DeclaredKind NumberKind

	// Overload is the overload declaring this parameter.
	Overload *Overload
}

// Param creates a new parameter.
func Param(name string, t Type) *Parameter {
	return &Parameter{Name: name, Type: t}
}

// -----------------------------------------------------------------------------

// NewAttribute creates an attribute feature.
func NewAttribute(name string, t Type) *Feature {
	return &Feature{Name: name, Kind: AttributeFeature, Type: t}
}

// NewConstant creates a constant feature with the given value expression.
func NewConstant(name string, t Type, value Source) *Feature {
	return &Feature{Name: name, Kind: ConstantFeature, Type: t, Value: value}
}

// NewProperty creates a property feature.
func NewProperty(name string, t Type, access Access) *Feature {
	return &Feature{Name: name, Kind: PropertyFeature, Type: t, Access: access}
}

// NewIndexer creates the indexer feature of a class.
func NewIndexer(t Type, access Access, indexParams ...*Parameter) *Feature {
	f := &Feature{Name: IndexerName, Kind: IndexerFeature, Type: t, Access: access}
	f.addOverload(NewOverload(indexParams, []*Parameter{Param(ResultName, t)}))
	return f
}

// NewFunction creates a function feature with the given overloads.
func NewFunction(name string, overloads ...*Overload) *Feature {
	return newRoutine(name, FunctionFeature, overloads)
}

// NewProcedure creates a procedure feature with the given overloads.
func NewProcedure(name string, overloads ...*Overload) *Feature {
	return newRoutine(name, ProcedureFeature, overloads)
}

// NewCreation creates a creation feature with the given overloads.
func NewCreation(name string, overloads ...*Overload) *Feature {
	return newRoutine(name, CreationFeature, overloads)
}

func newRoutine(name string, kind FeatureKind, overloads []*Overload) *Feature {
	f := &Feature{Name: name, Kind: kind}
	for _, o := range overloads {
		f.addOverload(o)
	}

	return f
}

func (f *Feature) addOverload(o *Overload) {
	o.Feature = f
	f.Overloads = append(f.Overloads, o)
}
