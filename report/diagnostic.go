package report

import "fmt"

// Severity is the severity of a diagnostic.
type Severity int

// Enumeration of severities.
const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// MessageKind classifies a diagnostic.  Downstream consumers only need to know
// that resolution failed; the kind exists for display and for tests.
type MessageKind int

// Enumeration of message kinds.
const (
	KindUnknownIdentifier MessageKind = iota // Path segment, class or operator name not found.
	KindTypeMismatch                         // Operand does not conform to a required type.
	KindMissingBuiltin                       // Required built-in type not imported.
	KindOverloadMismatch                     // Zero or several overloads match a call.
	KindArgument                             // Malformed argument list.
	KindInitializer                          // Invalid field in an object initializer.
	KindPrecursor                            // Missing or ambiguous precursor.
	KindInvalidLiteral                       // Literal text cannot be parsed.
	KindContext                              // Construct used where it is not allowed.
	KindNumber                               // Inconsistent number kind.
	KindCycle                                // Unresolvable dependency cycle.
)

var messageKindNames = map[MessageKind]string{
	KindUnknownIdentifier: "Name",
	KindTypeMismatch:      "Type",
	KindMissingBuiltin:    "Import",
	KindOverloadMismatch:  "Overload",
	KindArgument:          "Argument",
	KindInitializer:       "Initializer",
	KindPrecursor:         "Precursor",
	KindInvalidLiteral:    "Literal",
	KindContext:           "Usage",
	KindNumber:            "Number",
	KindCycle:             "Cycle",
}

func (k MessageKind) String() string {
	if name, ok := messageKindNames[k]; ok {
		return name
	}

	return "Unknown"
}

// Locatable is anything a diagnostic can be attached to: in practice, a node
// of the syntax tree.
type Locatable interface {
	// Span returns the source span of the item.  It may be nil.
	Span() *TextSpan

	// Describe returns a short human readable description of the item.
	Describe() string
}

// Diagnostic is a single error or warning produced during resolution.
type Diagnostic struct {
	Severity Severity
	Kind     MessageKind

	// The node the diagnostic is attached to.  This may be nil for program
	// level diagnostics.
	Node Locatable

	Message string
}

// Errorf creates a new error diagnostic.
func Errorf(node Locatable, kind MessageKind, msg string, args ...interface{}) *Diagnostic {
	return &Diagnostic{
		Severity: SeverityError,
		Kind:     kind,
		Node:     node,
		Message:  fmt.Sprintf(msg, args...),
	}
}

// Warningf creates a new warning diagnostic.
func Warningf(node Locatable, kind MessageKind, msg string, args ...interface{}) *Diagnostic {
	return &Diagnostic{
		Severity: SeverityWarning,
		Kind:     kind,
		Node:     node,
		Message:  fmt.Sprintf(msg, args...),
	}
}

// IsError returns whether the diagnostic is an error.
func (d *Diagnostic) IsError() bool {
	return d.Severity == SeverityError
}

func (d *Diagnostic) String() string {
	if d.Node == nil {
		return fmt.Sprintf("%s: %s", d.Severity, d.Message)
	}

	return fmt.Sprintf("%s: %s: %s: %s", d.Node.Span(), d.Node.Describe(), d.Severity, d.Message)
}
