package typing

import (
	"easlyc/depm"
	"easlyc/report"
)

// Argument is a call-site argument whose expression has been resolved.
type Argument struct {
	// Name is the name of the parameter the argument is assigned to.  It is
	// empty for positional arguments.
	Name string

	// Type is the preferred type of the argument expression.
	Type depm.Type

	// Exceptions is the set of exceptions the argument expression can raise.
	Exceptions *ResultException

	// Source is the argument node.
	Source depm.Source
}

// IsNamed returns whether the argument is assigned to a parameter by name.
func (a *Argument) IsNamed() bool {
	return a.Name != ""
}

// ArgumentStyle is the style of a call-site argument list.
type ArgumentStyle int

// Enumeration of argument styles.
const (
	// No argument at all.
	StyleNone ArgumentStyle = iota

	// Only positional arguments.
	StylePositional

	// Only named arguments.
	StyleNamed

	// Positional arguments followed by named arguments.
	StyleMixed
)

func (s ArgumentStyle) String() string {
	switch s {
	case StyleNone:
		return "none"
	case StylePositional:
		return "positional"
	case StyleNamed:
		return "named"
	default:
		return "mixed"
	}
}

// NormalizeArguments validates a call-site argument list.  Positional arguments
// may be followed by named arguments but not the other way around, and a name
// may only be given once.  The arguments are returned in call-site order.
func NormalizeArguments(node report.Locatable, args []*Argument) ([]*Argument, ArgumentStyle, []*report.Diagnostic) {
	var diags []*report.Diagnostic

	style := StyleNone
	positional, named := 0, 0
	seen := make(map[string]struct{})

	for _, arg := range args {
		if arg.IsNamed() {
			named++

			if _, ok := seen[arg.Name]; ok {
				diags = append(diags, report.Errorf(locate(arg, node), report.KindArgument, "argument `%s` given more than once", arg.Name))
			}

			seen[arg.Name] = struct{}{}
		} else {
			if named > 0 {
				diags = append(diags, report.Errorf(locate(arg, node), report.KindArgument, "positional argument follows named arguments"))
			}

			positional++
		}
	}

	if len(diags) > 0 {
		return nil, StyleNone, diags
	}

	switch {
	case positional > 0 && named > 0:
		style = StyleMixed
	case positional > 0:
		style = StylePositional
	case named > 0:
		style = StyleNamed
	}

	return args, style, nil
}

func locate(arg *Argument, fallback report.Locatable) report.Locatable {
	if arg.Source != nil {
		return arg.Source
	}

	return fallback
}
