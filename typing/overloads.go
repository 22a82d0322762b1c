package typing

import (
	"fmt"
	"strings"

	"easlyc/depm"
	"easlyc/report"
)

// Binding pairs a parameter of the selected overload with the argument that
// covers it.  Argument is nil when the default value is used.
type Binding struct {
	Parameter *depm.Parameter
	Argument  *Argument

	// Type is the parameter type as seen from the call site.
	Type depm.Type
}

// FeatureCall is the resolved binding between the arguments of a call site and
// the parameters and results of the selected overload.
type FeatureCall struct {
	Overload *depm.Overload
	Style    ArgumentStyle

	// Bindings has one entry per parameter, in parameter order.
	Bindings []Binding

	// Arguments is the list of arguments in call-site order.
	Arguments []*Argument

	Results []*depm.Parameter
}

// EmptyCall returns the feature call of a callee that takes no argument: an
// attribute, a constant or a discrete.
func EmptyCall() *FeatureCall {
	return &FeatureCall{}
}

// ArgumentCount returns the number of call-site arguments.
func (fc *FeatureCall) ArgumentCount() int {
	return len(fc.Arguments)
}

// Exceptions returns the exceptions raised by the arguments and the overload.
func (fc *FeatureCall) Exceptions() *ResultException {
	re := NoException()
	if fc.Overload != nil {
		re = NewResultException(fc.Overload.Exceptions...)
	}

	for _, arg := range fc.Arguments {
		re = re.Merge(arg.Exceptions)
	}

	return re
}

// -----------------------------------------------------------------------------

// OverloadQuery is the input of overload resolution.
type OverloadQuery struct {
	// Node is the call site.
	Node report.Locatable

	// Name is the name of the callee, for diagnostics.
	Name string

	Overloads []*depm.Overload

	// Base is the type of the value the feature is accessed through.  It is
	// used to instantiate generic parameter types.  It may be nil.
	Base depm.Type

	Arguments []*Argument

	AllowConversion bool
}

// ResolveOverload selects the unique overload matching the call-site
// arguments.  It fails if the arguments are malformed, if no overload matches
// or if several do: overloads are not ranked.
func ResolveOverload(env depm.Environment, q *OverloadQuery) (*FeatureCall, []*report.Diagnostic) {
	args, style, diags := NormalizeArguments(q.Node, q.Arguments)
	if len(diags) > 0 {
		return nil, diags
	}

	var (
		matches []*FeatureCall
		closest *depm.Overload
		reasons []string
	)

	for _, o := range q.Overloads {
		fc, why := matchOverload(env, q, o, args)
		if fc != nil {
			fc.Style = style
			matches = append(matches, fc)
		} else if closest == nil || len(why) < len(reasons) {
			closest, reasons = o, why
		}
	}

	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		if closest == nil {
			return nil, []*report.Diagnostic{
				report.Errorf(q.Node, report.KindOverloadMismatch, "`%s` has no overload", q.Name),
			}
		}

		return nil, []*report.Diagnostic{
			report.Errorf(
				q.Node,
				report.KindOverloadMismatch,
				"no overload of `%s` matches the arguments; closest candidate is `%s`: %s",
				q.Name,
				OverloadRepr(q.Name, closest),
				strings.Join(reasons, "; "),
			),
		}
	default:
		reprs := make([]string, len(matches))
		for i, m := range matches {
			reprs[i] = "`" + OverloadRepr(q.Name, m.Overload) + "`"
		}

		return nil, []*report.Diagnostic{
			report.Errorf(q.Node, report.KindOverloadMismatch, "ambiguous call to `%s`: %s all match", q.Name, strings.Join(reprs, ", ")),
		}
	}
}

// matchOverload tries to bind the arguments to the parameters of an overload.
// If it fails, it returns every reason why.
func matchOverload(env depm.Environment, q *OverloadQuery, o *depm.Overload, args []*Argument) (*FeatureCall, []string) {
	var owner *depm.Class
	if o.Feature != nil {
		owner = o.Feature.Owner
	}

	bindings := make([]Binding, len(o.Parameters))
	for i, p := range o.Parameters {
		bindings[i] = Binding{Parameter: p, Type: depm.Instantiate(p.Type, owner, q.Base)}
	}

	var reasons []string

	for i, arg := range args {
		ndx := i
		if arg.IsNamed() {
			ndx = -1
			for j, p := range o.Parameters {
				if p.Name == arg.Name {
					ndx = j
					break
				}
			}

			if ndx == -1 {
				reasons = append(reasons, fmt.Sprintf("no parameter named `%s`", arg.Name))
				continue
			}
		} else if ndx >= len(o.Parameters) {
			reasons = append(reasons, fmt.Sprintf("too many arguments: expected at most %d", len(o.Parameters)))
			continue
		}

		if bindings[ndx].Argument != nil {
			reasons = append(reasons, fmt.Sprintf("parameter `%s` is given more than once", o.Parameters[ndx].Name))
			continue
		}

		bindings[ndx].Argument = arg

		if !env.Conforms(arg.Type, bindings[ndx].Type, q.AllowConversion) {
			reasons = append(reasons, fmt.Sprintf(
				"argument for `%s` must be of type `%s`, not `%s`",
				o.Parameters[ndx].Name,
				bindings[ndx].Type.Repr(),
				reprOrUnknown(arg.Type),
			))
		}
	}

	for _, b := range bindings {
		if b.Argument == nil && b.Parameter.Default == nil {
			reasons = append(reasons, fmt.Sprintf("missing argument for `%s`", b.Parameter.Name))
		}
	}

	if len(reasons) > 0 {
		return nil, reasons
	}

	return &FeatureCall{
		Overload:  o,
		Bindings:  bindings,
		Arguments: args,
		Results:   o.Results,
	}, nil
}

// OverloadRepr returns a readable signature of an overload.
func OverloadRepr(name string, o *depm.Overload) string {
	params := make([]string, len(o.Parameters))
	for i, p := range o.Parameters {
		params[i] = p.Name + ": " + reprOrUnknown(p.Type)
	}

	return name + "(" + strings.Join(params, ", ") + ")"
}

func reprOrUnknown(t depm.Type) string {
	if t == nil {
		return "?"
	}

	return t.Repr()
}
