package walk

import (
	"easlyc/ast"
	"easlyc/depm"
	"easlyc/report"
	"easlyc/typing"
)

func (w *Walker) walkTypeName(tn *ast.TypeName) Outcome {
	if n := waitFor(ast.PhaseTypes, tn.Args...); n != nil {
		return blocked("%s of %s", n.Describe(), tn.Describe())
	}

	args := make([]depm.Type, len(tn.Args))
	for i, arg := range tn.Args {
		args[i] = arg.ResolvedType.Item()
	}

	class := tn.Context().Class
	t, ok := w.env.ResolveTypeName(class, tn.Name, args)
	if !ok {
		return failed(report.Errorf(tn, report.KindUnknownIdentifier, "unknown type `%s` in `%s`", tn, class.Name))
	}

	if ct, ok := t.(*depm.ClassType); ok {
		var diags []*report.Diagnostic
		for i, fg := range ct.Class.Generics {
			if fg.Constraint == nil || i >= len(ct.Args) {
				continue
			}

			if !w.env.Conforms(ct.Args[i], fg.Constraint, false) {
				diags = append(diags, report.Errorf(
					tn,
					report.KindTypeMismatch,
					"`%s` does not satisfy the constraint `%s` of `%s`",
					ct.Args[i].Repr(),
					fg.Constraint.Repr(),
					fg.Name,
				))
			}
		}

		if len(diags) > 0 {
			return failed(diags...)
		}
	}

	return resolved(func() {
		tn.ResolvedType.Set(t)
	})
}

func (w *Walker) walkEntityDeclaration(ed *ast.EntityDeclaration) Outcome {
	if !ast.IsResolved(ed.Type, ast.PhaseTypes) {
		return blocked("%s of %s", ed.Type.Describe(), ed.Describe())
	}

	t := ed.Type.ResolvedType.Item()
	return resolved(func() {
		ed.ResolvedType.Set(t)
	})
}

func (w *Walker) walkAssertion(a *ast.Assertion) Outcome {
	if !ast.IsResolved(a.Expression, ast.PhaseContract) {
		return blocked("expression of %s", a.Describe())
	}

	if diag := w.booleanCondition(a, a.Expression); diag != nil {
		return failed(diag)
	}

	exceptions := exceptionsOf(a.Expression)
	return resolved(func() {
		a.ResolvedException.Set(exceptions)
	})
}

// -----------------------------------------------------------------------------

func (w *Walker) walkEffectiveBody(eb *ast.EffectiveBody) Outcome {
	if n := waitFor(ast.PhaseBody, eb.Instructions...); n != nil {
		return blocked("%s of %s", n.Describe(), eb.Describe())
	}

	exceptions := instrExceptions(eb.Instructions)
	for _, decl := range eb.Locals {
		if decl.Default != nil {
			exceptions = exceptions.Merge(exceptionsOf(decl.Default))
		}
	}

	return resolved(func() {
		eb.ResolvedException.Set(exceptions)
	})
}

// walkDeclaredBody resolves a body whose instructions are not available: it
// raises the exceptions declared by the overload.
func (w *Walker) walkDeclaredBody(b ast.Body) Outcome {
	ctx := b.Base().Context()

	exceptions := typing.NoException()
	if ctx.Overload != nil {
		exceptions = exceptions.Add(ctx.Overload.Exceptions...)
	} else if ctx.Feature != nil {
		exceptions = exceptions.Add(ctx.Feature.Exceptions...)
	}

	return resolved(func() {
		b.Common().ResolvedException.Set(exceptions)
	})
}
