package walk

import (
	"fmt"
	"strings"

	"easlyc/ast"
	"easlyc/depm"
	"easlyc/report"
	"easlyc/typing"
	"easlyc/util"
)

// PrecursorError is returned when the ancestor version of a feature cannot be
// identified.  It lists every candidate.
type PrecursorError struct {
	Feature    *depm.Feature
	Hint       *depm.ClassType
	Candidates []*depm.Precursor
}

func (pe *PrecursorError) Error() string {
	if len(pe.Candidates) == 0 {
		if pe.Hint != nil {
			return fmt.Sprintf("`%s` does not provide a precursor of `%s`", pe.Hint.Repr(), pe.Feature.Name)
		}

		return fmt.Sprintf("`%s` has no precursor", pe.Feature.Name)
	}

	names := util.Map(pe.Candidates, func(c *depm.Precursor) string {
		return "`" + c.Ancestor.Repr() + "." + c.Feature.Name + "`"
	})

	return fmt.Sprintf(
		"ambiguous precursor of `%s`: candidates are %s; select one with `precursor {T}`",
		pe.Feature.Name,
		strings.Join(names, ", "),
	)
}

// SelectPrecursor picks the ancestor version of a feature.  Without a hint,
// the feature must have exactly one precursor.  With a hint, the precursor
// inherited through the hinted ancestor is selected.
func SelectPrecursor(f *depm.Feature, hint *depm.ClassType) (*depm.Precursor, error) {
	candidates := f.Precursors

	if hint != nil {
		candidates = util.Filter(candidates, func(c *depm.Precursor) bool {
			return c.Ancestor.Class == hint.Class
		})
	}

	if len(candidates) == 1 {
		return candidates[0], nil
	}

	return nil, &PrecursorError{Feature: f, Hint: hint, Candidates: candidates}
}

// -----------------------------------------------------------------------------

// walkAncestor resolves the ancestor annotation of a precursor: it must name a
// parent of the current class.
func (w *Walker) walkAncestor(n ast.Node, ab *ast.AncestorBinding) Outcome {
	if !ast.IsResolved(ab.AncestorType, ast.PhaseTypes) {
		return blocked("%s of %s", ab.AncestorType.Describe(), n.Describe())
	}

	class := n.Base().Context().Class
	t := ab.AncestorType.ResolvedType.Item()

	for _, parent := range class.Parents {
		if depm.Equals(parent, t) || (isBareClass(t) && parent.Class == t.(*depm.ClassType).Class) {
			name := ab.AncestorType.String()
			return resolved(func() {
				ab.ResolvedAncestorTypeName.Set(name)
				ab.ResolvedAncestorType.Set(parent)
			})
		}
	}

	return failed(report.Errorf(n, report.KindPrecursor, "`%s` is not a parent of `%s`", t.Repr(), class.Name))
}

// isBareClass returns whether a type is a class type written without generic
// arguments.
func isBareClass(t depm.Type) bool {
	ct, ok := t.(*depm.ClassType)
	return ok && len(ct.Args) == 0
}

// precursorOf selects the precursor targeted by a node.
func (w *Walker) precursorOf(n ast.Node, ab *ast.AncestorBinding) (*depm.Precursor, *Outcome) {
	ctx := n.Base().Context()
	if ctx.Feature == nil {
		out := failed(report.Errorf(n, report.KindContext, "precursor outside of a feature"))
		return nil, &out
	}

	var hint *depm.ClassType
	if ab != nil && ab.AncestorType != nil {
		hint = ab.ResolvedAncestorType.Item()
	}

	p, err := SelectPrecursor(ctx.Feature, hint)
	if err != nil {
		out := failed(report.Errorf(n, report.KindPrecursor, "%s", err))
		return nil, &out
	}

	return p, nil
}

// precursorCall resolves the call to a precursor routine, or the access to a
// precursor attribute or property.
func (w *Walker) precursorCall(n ast.Node, p *depm.Precursor, args []*ast.Argument) (*typing.FeatureCall, *Outcome) {
	f := p.Feature

	if len(f.Overloads) == 0 {
		if len(args) > 0 {
			out := failed(report.Errorf(n, report.KindContext, "precursor %s `%s` cannot be called with arguments", f.Kind, f.Name))
			return nil, &out
		}

		return typing.EmptyCall(), nil
	}

	return w.resolveCall(n, "precursor "+f.Name, f.Overloads, p.Ancestor, args)
}

func (w *Walker) walkPrecursorExpression(pe *ast.PrecursorExpression) Outcome {
	ctx := pe.Context()
	if ctx.Feature != nil && ctx.Feature.Kind == depm.IndexerFeature {
		return failed(report.Errorf(pe, report.KindContext, "the precursor of an indexer must be called with an index"))
	}

	if arg := waitFor(ast.PhaseContract, pe.Arguments...); arg != nil {
		return blocked("%s of %s", arg.Describe(), pe.Describe())
	}

	p, out := w.precursorOf(pe, &pe.AncestorBinding)
	if out != nil {
		return *out
	}

	if !p.Feature.IsQuery() {
		return failed(report.Errorf(pe, report.KindContext, "precursor %s `%s` does not produce a value", p.Feature.Kind, p.Feature.Name))
	}

	fc, out := w.precursorCall(pe, p, pe.Arguments)
	if out != nil {
		return *out
	}

	var rt *typing.ResultType
	if fc.Overload != nil {
		rt = typing.ResultTypeOf(fc.Results, p.Feature.Owner, p.Ancestor)
	} else {
		rt = typing.Single(p.Feature.Name, depm.Instantiate(p.Feature.Type, p.Feature.Owner, p.Ancestor))
	}

	res := exprResult{
		result:     rt,
		exceptions: fc.Exceptions().Add(p.Feature.Exceptions...),
		sources:    argumentValues(pe.Arguments),
	}

	return resolved(func() {
		res.commitTo(&pe.ExprBase)
		pe.ResolvedPrecursor.Set(p)
		pe.SelectedOverload.Set(fc.Overload)
		pe.FeatureCall.Set(fc)
	})
}

func (w *Walker) walkPrecursorIndex(pi *ast.PrecursorIndex) Outcome {
	ctx := pi.Context()
	if ctx.Feature == nil || ctx.Feature.Kind != depm.IndexerFeature {
		return failed(report.Errorf(pi, report.KindContext, "precursor index outside of an indexer"))
	} else if ctx.Overload == nil {
		return failed(report.Errorf(pi, report.KindContext, "precursor index outside of an indexer accessor"))
	}

	if arg := waitFor(ast.PhaseContract, pi.Arguments...); arg != nil {
		return blocked("%s of %s", arg.Describe(), pi.Describe())
	}

	p, out := w.precursorOf(pi, &pi.AncestorBinding)
	if out != nil {
		return *out
	}

	fc, out := w.resolveCall(pi, "precursor []", p.Feature.Overloads, p.Ancestor, pi.Arguments)
	if out != nil {
		return *out
	}

	res := exprResult{
		result:     typing.Single("", depm.Instantiate(p.Feature.Type, p.Feature.Owner, p.Ancestor)),
		exceptions: fc.Exceptions().Add(p.Feature.Exceptions...),
		sources:    argumentValues(pi.Arguments),
	}

	return resolved(func() {
		res.commitTo(&pi.ExprBase)
		pi.ResolvedPrecursor.Set(p)
		pi.FeatureCall.Set(fc)
	})
}

func (w *Walker) walkPrecursorInstruction(pi *ast.PrecursorInstruction) Outcome {
	if pi.Context().Feature != nil && pi.Context().Feature.Kind == depm.IndexerFeature {
		return failed(report.Errorf(pi, report.KindContext, "the precursor of an indexer must be called with an index"))
	}

	p, out := w.precursorOf(pi, &pi.AncestorBinding)
	if out != nil {
		return *out
	}

	if p.Feature.Kind != depm.ProcedureFeature {
		return failed(report.Errorf(pi, report.KindContext, "precursor %s `%s` cannot be used as an instruction", p.Feature.Kind, p.Feature.Name))
	}

	fc, out := w.precursorCall(pi, p, pi.Arguments)
	if out != nil {
		return *out
	}

	exceptions := fc.Exceptions()
	return resolved(func() {
		pi.ResolvedException.Set(exceptions)
		pi.ResolvedPrecursor.Set(p)
		pi.SelectedOverload.Set(fc.Overload)
		pi.FeatureCall.Set(fc)
	})
}

// walkPrecursorBody resolves a body delegating to the precursor: the overload
// at the same position in the precursor feature provides the exceptions.
func (w *Walker) walkPrecursorBody(pb *ast.PrecursorBody) Outcome {
	p, out := w.precursorOf(pb, nil)
	if out != nil {
		return *out
	}

	ctx := pb.Context()
	exceptions := typing.NewResultException(p.Feature.Exceptions...)
	for i, o := range ctx.Feature.Overloads {
		if o == ctx.Overload && i < len(p.Feature.Overloads) {
			exceptions = exceptions.Add(p.Feature.Overloads[i].Exceptions...)
		}
	}

	return resolved(func() {
		pb.ResolvedException.Set(exceptions)
		pb.ResolvedPrecursor.Set(p)
	})
}
