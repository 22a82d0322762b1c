package walk

import (
	"easlyc/ast"
	"easlyc/depm"
	"easlyc/report"
	"easlyc/typing"
)

// booleanCondition checks that a condition of an instruction is a Boolean.
func (w *Walker) booleanCondition(n ast.Node, cond ast.Expression) *report.Diagnostic {
	boolType, diag := w.builtin(n, depm.BuiltinBoolean)
	if diag != nil {
		return diag
	}

	t, diag := valueOf(cond)
	if diag != nil {
		return diag
	}

	if !depm.Equals(t, boolType) {
		return report.Errorf(cond, report.KindTypeMismatch, "expected `Boolean` condition, got `%s`", t.Repr())
	}

	return nil
}

func (w *Walker) walkAsLongAs(al *ast.AsLongAs) Outcome {
	if n := waitFor(ast.PhaseBody, al.Instructions...); n != nil {
		return blocked("%s of %s", n.Describe(), al.Describe())
	}

	if diag := w.booleanCondition(al, al.Condition); diag != nil {
		return failed(diag)
	}

	exceptions := exceptionsOf(al.Condition).Merge(instrExceptions(al.Instructions))
	return resolved(func() {
		al.ResolvedException.Set(exceptions)
	})
}

func (w *Walker) walkCheck(c *ast.Check) Outcome {
	if diag := w.booleanCondition(c, c.Condition); diag != nil {
		return failed(diag)
	}

	exceptions := exceptionsOf(c.Condition)
	return resolved(func() {
		c.ResolvedException.Set(exceptions)
	})
}

func (w *Walker) walkConditional(c *ast.Conditional) Outcome {
	var (
		conds  []ast.Expression
		instrs []ast.Instruction
	)

	for _, b := range c.Branches {
		conds = append(conds, b.Condition)
		instrs = append(instrs, b.Instructions...)
	}
	instrs = append(instrs, c.Else...)

	if n := waitFor(ast.PhaseBody, instrs...); n != nil {
		return blocked("%s of %s", n.Describe(), c.Describe())
	}

	var diags []*report.Diagnostic
	for _, cond := range conds {
		if diag := w.booleanCondition(c, cond); diag != nil {
			diags = append(diags, diag)
		}
	}

	if len(diags) > 0 {
		return failed(diags...)
	}

	exceptions := exceptionsOf(conds...).Merge(instrExceptions(instrs))
	return resolved(func() {
		c.ResolvedException.Set(exceptions)
	})
}

func (w *Walker) walkDebug(d *ast.Debug) Outcome {
	if n := waitFor(ast.PhaseBody, d.Instructions...); n != nil {
		return blocked("%s of %s", n.Describe(), d.Describe())
	}

	exceptions := instrExceptions(d.Instructions)
	return resolved(func() {
		d.ResolvedException.Set(exceptions)
	})
}

// -----------------------------------------------------------------------------

// destinationOf resolves the target of an assignment or a creation: a local
// variable, a result, or an assignable feature.
func (w *Walker) destinationOf(n ast.Node, qn ast.QualifiedName) (ast.Destination, *typing.ResultException, *Outcome) {
	target, out := w.resolvePath(n, qn)
	if out != nil {
		return ast.Destination{}, nil, out
	}

	switch {
	case target.local != nil:
		local := target.local
		if p := local.Parameter; p != nil && !isResult(n.Base().Context().Overload, p) {
			out := failed(report.Errorf(n, report.KindContext, "cannot assign to parameter `%s`", local.Name))
			return ast.Destination{}, nil, &out
		}

		t, ok := local.Type()
		if !ok {
			out := blocked("type of local `%s`", local.Name)
			return ast.Destination{}, nil, &out
		}

		return ast.Destination{Local: local, Type: t}, target.exceptions, nil
	case target.feature != nil:
		f := target.feature
		if !f.IsAssignable() {
			out := failed(report.Errorf(n, report.KindContext, "%s `%s` cannot be assigned", f.Kind, f.Name))
			return ast.Destination{}, nil, &out
		}

		t := depm.Instantiate(f.Type, f.Owner, target.base)
		return ast.Destination{Feature: f, Type: t}, target.exceptions.Add(f.Exceptions...), nil
	}

	discrete := failed(report.Errorf(n, report.KindContext, "discrete `%s` cannot be assigned", qn))
	return ast.Destination{}, nil, &discrete
}

func isResult(o *depm.Overload, p *depm.Parameter) bool {
	if o == nil {
		return false
	}

	for _, r := range o.Results {
		if r == p {
			return true
		}
	}

	return false
}

func (w *Walker) walkAssignment(a *ast.Assignment) Outcome {
	t, diag := valueOf(a.Source)
	if diag != nil {
		return failed(diag)
	}

	var (
		dests []ast.Destination
		diags []*report.Diagnostic
	)

	exceptions := exceptionsOf(a.Source)
	seen := make(map[string]struct{})

	for _, qn := range a.Destinations {
		key := qn.String()
		if _, ok := seen[key]; ok {
			diags = append(diags, report.Errorf(a, report.KindContext, "`%s` is assigned more than once", key))
			continue
		}
		seen[key] = struct{}{}

		dest, destExceptions, out := w.destinationOf(a, qn)
		if out != nil {
			if out.Status == Blocked {
				return *out
			}

			diags = append(diags, out.Diagnostics...)
			continue
		}

		if !w.env.Conforms(t, dest.Type, w.config.AllowConversion) {
			diags = append(diags, report.Errorf(a, report.KindTypeMismatch, "cannot assign `%s` to `%s` of type `%s`", t.Repr(), key, dest.Type.Repr()))
			continue
		}

		dests = append(dests, dest)
		exceptions = exceptions.Merge(destExceptions)
	}

	if len(diags) > 0 {
		return failed(diags...)
	}

	return resolved(func() {
		a.ResolvedException.Set(exceptions)
		a.ResolvedDestinations.Set(dests)
	})
}

// -----------------------------------------------------------------------------

func (w *Walker) walkCommand(c *ast.Command) Outcome {
	target, out := w.resolvePath(c, c.Path)
	if out != nil {
		return *out
	}

	f := target.feature
	if f == nil || f.Kind != depm.ProcedureFeature {
		return failed(report.Errorf(c, report.KindContext, "`%s` is not a procedure", c.Path))
	}

	fc, out := w.resolveCall(c, f.Name, f.Overloads, target.base, c.Arguments)
	if out != nil {
		return *out
	}

	exceptions := target.exceptions.Merge(fc.Exceptions()).Add(f.Exceptions...)
	return resolved(func() {
		c.ResolvedException.Set(exceptions)
		c.ResolvedFeature.Set(f)
		c.SelectedOverload.Set(fc.Overload)
		c.FeatureCall.Set(fc)
	})
}

// creationCall resolves the call to a creation routine of a class type.
func (w *Walker) creationCall(n ast.Node, t *depm.ClassType, name string, args []*ast.Argument) (*depm.Feature, *typing.FeatureCall, *Outcome) {
	f, ok := w.env.FeatureTable(t.Class).Get(name)
	if !ok {
		out := failed(report.Errorf(n, report.KindUnknownIdentifier, "unknown creation routine `%s` in `%s`", name, t.Class.Name))
		return nil, nil, &out
	} else if f.Kind != depm.CreationFeature {
		out := failed(report.Errorf(n, report.KindContext, "`%s` is not a creation routine of `%s`", name, t.Class.Name))
		return nil, nil, &out
	}

	fc, out := w.resolveCall(n, f.Name, f.Overloads, t, args)
	if out != nil {
		return nil, nil, out
	}

	return f, fc, nil
}

func (w *Walker) walkCreate(c *ast.Create) Outcome {
	dest, destExceptions, out := w.destinationOf(c, c.Entity)
	if out != nil {
		return *out
	}

	if dest.Feature != nil && dest.Feature.Kind != depm.AttributeFeature {
		return failed(report.Errorf(c, report.KindContext, "%s `%s` cannot be created", dest.Feature.Kind, dest.Feature.Name))
	}

	t, ok := dest.Type.(*depm.ClassType)
	if !ok {
		return failed(report.Errorf(c, report.KindTypeMismatch, "`%s` of type `%s` cannot be created", c.Entity, dest.Type.Repr()))
	}

	f, fc, out := w.creationCall(c, t, c.Creation, c.Arguments)
	if out != nil {
		return *out
	}

	exceptions := destExceptions.Merge(fc.Exceptions()).Add(f.Exceptions...)
	return resolved(func() {
		c.ResolvedException.Set(exceptions)
		c.ResolvedEntityType.Set(t)
		c.ResolvedCreation.Set(f)
		c.SelectedOverload.Set(fc.Overload)
		c.FeatureCall.Set(fc)
	})
}

func (w *Walker) walkThrow(th *ast.Throw) Outcome {
	excType, diag := w.builtin(th, depm.BuiltinException)
	if diag != nil {
		return failed(diag)
	}

	t, ok := th.ExceptionType.ResolvedType.Item().(*depm.ClassType)
	if !ok || !w.env.Conforms(t, excType, false) {
		return failed(report.Errorf(th, report.KindTypeMismatch, "`%s` is not an exception type", th.ExceptionType))
	}

	f, fc, out := w.creationCall(th, t, th.Creation, th.Arguments)
	if out != nil {
		return *out
	}

	exceptions := fc.Exceptions().Add(f.Exceptions...).Add(t.Repr())
	return resolved(func() {
		th.ResolvedException.Set(exceptions)
		th.ResolvedCreation.Set(f)
		th.SelectedOverload.Set(fc.Overload)
		th.FeatureCall.Set(fc)
	})
}
