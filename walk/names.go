package walk

import (
	"unicode"

	"easlyc/ast"
	"easlyc/constant"
	"easlyc/depm"
	"easlyc/once"
	"easlyc/report"
	"easlyc/typing"
)

// walkValidPath checks that a path is a non-empty list of identifiers.
func (w *Walker) walkValidPath(n ast.Node, qn ast.QualifiedName, valid *once.Ref[bool]) Outcome {
	if len(qn.Path) == 0 {
		return failed(report.Errorf(n, report.KindUnknownIdentifier, "empty path"))
	}

	for _, seg := range qn.Path {
		if !isIdentifier(seg) {
			return failed(report.Errorf(n, report.KindUnknownIdentifier, "invalid identifier `%s`", seg))
		}
	}

	return resolved(func() {
		valid.Set(true)
	})
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}

	for i, r := range s {
		if !(unicode.IsLetter(r) || r == '_' || (i > 0 && unicode.IsDigit(r))) {
			return false
		}
	}

	return true
}

// -----------------------------------------------------------------------------

// pathTarget is what the final segment of a path resolves to: exactly one of
// local, feature and discrete is set.
type pathTarget struct {
	local    *ast.Local
	feature  *depm.Feature
	discrete *depm.Discrete

	// base is the type of the value the feature or discrete is accessed
	// through: the current class for single segment paths.
	base depm.Type

	// baseConstant is the value of the prefix of the path when it is known at
	// compile time, and baseSources the expressions it was taken from.
	baseConstant constant.Constant
	baseSources  []ast.Expression

	// exceptions are raised by the getters of intermediate segments.
	exceptions *typing.ResultException
}

// resolvePath resolves a dotted path one segment at a time.  The first segment
// is looked up in the local scope, then in the features of the current class.
// Each following segment is looked up in the features of the class of the
// previous segment's value.  The final segment may also be a discrete.
func (w *Walker) resolvePath(n ast.Node, qn ast.QualifiedName) (pathTarget, *Outcome) {
	ctx := n.Base().Context()
	segs := qn.Path

	var base depm.Type = currentType(ctx.Class)
	exceptions := typing.NoException()

	var (
		baseConstant constant.Constant = constant.NotConstant
		baseSources  []ast.Expression
	)

	for i, seg := range segs {
		last := i == len(segs)-1

		if i == 0 {
			if local, ok := ctx.LookupLocal(seg); ok {
				if last {
					return pathTarget{local: local, exceptions: exceptions}, nil
				}

				t, ok := local.Type()
				if !ok {
					out := blocked("type of local `%s`", seg)
					return pathTarget{}, &out
				}

				base = t
				baseConstant, baseSources = constant.NotConstant, nil
				continue
			}
		}

		class, ok := depm.ClassOf(base)
		if !ok {
			out := failed(report.Errorf(n, report.KindUnknownIdentifier, "`%s` has no feature `%s`", base.Repr(), seg))
			return pathTarget{}, &out
		}

		if f, ok := w.env.FeatureTable(class).Get(seg); ok && f.Kind != depm.IndexerFeature {
			if last {
				return pathTarget{
					feature:      f,
					base:         base,
					baseConstant: baseConstant,
					baseSources:  baseSources,
					exceptions:   exceptions,
				}, nil
			}

			t, o, diag := segmentType(n, f, base)
			if diag != nil {
				out := failed(diag)
				return pathTarget{}, &out
			}

			switch {
			case f.Kind == depm.ConstantFeature:
				c, sources, out := w.sourceConstant(f.Value, "value of constant `"+f.Name+"`")
				if out != nil {
					return pathTarget{}, out
				}

				baseConstant, baseSources = c, sources
			case o != nil && o.Intrinsic != depm.OpNone:
				baseConstant = constant.FoldIntrinsic(o.Intrinsic, baseConstant)
			default:
				baseConstant, baseSources = constant.NotConstant, nil
			}

			exceptions = exceptions.Add(f.Exceptions...)
			base = t
			continue
		}

		if last {
			if d, ok := w.env.DiscreteTable(class).Get(seg); ok {
				return pathTarget{discrete: d, base: base, exceptions: exceptions}, nil
			}
		}

		out := failed(report.Errorf(n, report.KindUnknownIdentifier, "unknown identifier `%s` in `%s`", seg, class.Name))
		return pathTarget{}, &out
	}

	report.ICE("empty path in %s", n.Describe())
	return pathTarget{}, nil
}

// segmentType returns the type of the value of an intermediate path segment,
// and the overload called if the segment is a function.
func segmentType(n ast.Node, f *depm.Feature, base depm.Type) (depm.Type, *depm.Overload, *report.Diagnostic) {
	switch f.Kind {
	case depm.AttributeFeature, depm.ConstantFeature:
		return depm.Instantiate(f.Type, f.Owner, base), nil, nil
	case depm.PropertyFeature:
		if !f.IsReadable() {
			return nil, nil, report.Errorf(n, report.KindContext, "property `%s` is write-only", f.Name)
		}

		return depm.Instantiate(f.Type, f.Owner, base), nil, nil
	case depm.FunctionFeature:
		var candidates []*depm.Overload
		for _, o := range f.Overloads {
			if o.RequiredCount() == 0 {
				candidates = append(candidates, o)
			}
		}

		if len(candidates) != 1 {
			return nil, nil, report.Errorf(n, report.KindOverloadMismatch, "`%s` cannot be called without arguments in a path", f.Name)
		}

		rt := typing.ResultTypeOf(candidates[0].Results, f.Owner, base)
		if t := rt.PreferredType(); t != nil {
			return t, candidates[0], nil
		}

		return nil, nil, report.Errorf(n, report.KindTypeMismatch, "`%s` does not produce a single value", f.Name)
	}

	return nil, nil, report.Errorf(n, report.KindContext, "%s `%s` does not produce a value", f.Kind, f.Name)
}

// -----------------------------------------------------------------------------

// featureAccess is the resolved value of a feature used as an expression.
type featureAccess struct {
	overload *depm.Overload
	call     *typing.FeatureCall
	res      exprResult
}

// accessFeature resolves the value of a feature accessed through a value of
// type base, called with the given arguments.  Calls to intrinsics are folded
// when the base value and the arguments are constant.
func (w *Walker) accessFeature(n ast.Node, f *depm.Feature, base depm.Type, baseConstant constant.Constant, baseSources []ast.Expression, args []*ast.Argument) (featureAccess, *Outcome) {
	fail := func(format string, a ...interface{}) (featureAccess, *Outcome) {
		out := failed(report.Errorf(n, report.KindContext, format, a...))
		return featureAccess{}, &out
	}

	noArgs := func() bool { return len(args) == 0 }
	valueType := func() depm.Type { return depm.Instantiate(f.Type, f.Owner, base) }

	switch f.Kind {
	case depm.AttributeFeature:
		if !noArgs() {
			return fail("attribute `%s` cannot be called with arguments", f.Name)
		}

		return featureAccess{call: typing.EmptyCall(), res: exprResult{result: typing.Single(f.Name, valueType())}}, nil
	case depm.ConstantFeature:
		if !noArgs() {
			return fail("constant `%s` cannot be called with arguments", f.Name)
		}

		c, sources, out := w.sourceConstant(f.Value, "value of constant `"+f.Name+"`")
		if out != nil {
			return featureAccess{}, out
		}

		return featureAccess{
			call: typing.EmptyCall(),
			res:  exprResult{result: typing.Single(f.Name, valueType()), sources: sources, constant: c},
		}, nil
	case depm.PropertyFeature:
		if !f.IsReadable() {
			return fail("property `%s` is write-only", f.Name)
		} else if !noArgs() {
			return fail("property `%s` cannot be called with arguments", f.Name)
		}

		return featureAccess{
			call: typing.EmptyCall(),
			res:  exprResult{result: typing.Single(f.Name, valueType()), exceptions: typing.NewResultException(f.Exceptions...)},
		}, nil
	case depm.FunctionFeature:
		fc, out := w.resolveCall(n, f.Name, f.Overloads, base, args)
		if out != nil {
			return featureAccess{}, out
		}

		c := constant.NotConstant
		sources := argumentValues(args)
		if op := fc.Overload.Intrinsic; op != depm.OpNone {
			c = constant.FoldIntrinsic(op, append([]constant.Constant{baseConstant}, bindingConstants(fc)...)...)
			sources = append(append([]ast.Expression(nil), baseSources...), sources...)
		}

		return featureAccess{
			overload: fc.Overload,
			call:     fc,
			res: exprResult{
				result:     typing.ResultTypeOf(fc.Results, f.Owner, base),
				exceptions: fc.Exceptions(),
				sources:    sources,
				constant:   c,
			},
		}, nil
	}

	return fail("%s `%s` does not produce a value", f.Kind, f.Name)
}

// sourceConstant returns the final constant of an expression backing a
// declaration.  The source may be nil.
func (w *Walker) sourceConstant(src depm.Source, what string) (constant.Constant, []ast.Expression, *Outcome) {
	if src == nil {
		return constant.NotConstant, nil, nil
	}

	e, ok := src.(ast.Expression)
	if !ok {
		report.ICE("%s is not an expression", what)
	}

	if !ast.IsResolved(e, ast.PhaseContract) {
		out := blocked("%s", what)
		return nil, nil, &out
	}

	c, ok := constant.FinalConstant(constantOf(e))
	if !ok {
		out := blocked("constant of %s", what)
		return nil, nil, &out
	}

	return c, []ast.Expression{e}, nil
}

// discreteValue returns the value of a discrete used as an expression.
func (w *Walker) discreteValue(d *depm.Discrete, base depm.Type) (exprResult, *Outcome) {
	dt := depm.TypeOf(d.Owner)
	if bct, ok := base.(*depm.ClassType); ok && bct.Class == d.Owner {
		dt = bct
	}

	res := exprResult{result: typing.Single(d.Name, dt), constant: &constant.Discrete{Discrete: d}}
	if d.Value == nil {
		return res, nil
	}

	c, sources, out := w.sourceConstant(d.Value, "value of discrete `"+d.Name+"`")
	if out != nil {
		return exprResult{}, out
	}

	res.constant, res.sources = c, sources
	return res, nil
}

// -----------------------------------------------------------------------------

func (w *Walker) walkQuery(q *ast.Query) Outcome {
	if arg := waitFor(ast.PhaseContract, q.Arguments...); arg != nil {
		return blocked("%s of %s", arg.Describe(), q.Describe())
	}

	target, out := w.resolvePath(q, q.Path)
	if out != nil {
		return *out
	}

	switch {
	case target.local != nil:
		if len(q.Arguments) > 0 {
			return failed(report.Errorf(q, report.KindContext, "local `%s` cannot be called with arguments", target.local.Name))
		}

		t, ok := target.local.Type()
		if !ok {
			return blocked("type of local `%s`", target.local.Name)
		}

		res := exprResult{result: typing.Single(target.local.Name, t), exceptions: target.exceptions}
		return resolved(func() {
			res.commitTo(&q.ExprBase)
			q.ResolvedLocal.Set(target.local)
			q.SelectedOverload.Set(nil)
			q.FeatureCall.Set(typing.EmptyCall())
		})
	case target.discrete != nil:
		if len(q.Arguments) > 0 {
			return failed(report.Errorf(q, report.KindContext, "discrete `%s` cannot be called with arguments", target.discrete.Name))
		}

		res, out := w.discreteValue(target.discrete, target.base)
		if out != nil {
			return *out
		}

		res.exceptions = target.exceptions
		return resolved(func() {
			res.commitTo(&q.ExprBase)
			q.ResolvedFinalDiscrete.Set(target.discrete)
			q.SelectedOverload.Set(nil)
			q.FeatureCall.Set(typing.EmptyCall())
		})
	}

	fa, out := w.accessFeature(q, target.feature, target.base, target.baseConstant, target.baseSources, q.Arguments)
	if out != nil {
		return *out
	}

	fa.res.exceptions = target.exceptions.Merge(fa.res.exceptions)
	return resolved(func() {
		fa.res.commitTo(&q.ExprBase)
		q.ResolvedFinalFeature.Set(target.feature)
		q.SelectedOverload.Set(fa.overload)
		q.FeatureCall.Set(fa.call)
	})
}

func (w *Walker) walkEntity(e *ast.Entity) Outcome {
	target, out := w.resolvePath(e, e.Path)
	if out != nil {
		return *out
	}

	if target.local != nil {
		return failed(report.Errorf(e, report.KindContext, "local `%s` has no entity", target.local.Name))
	}

	t, diag := w.builtin(e, depm.BuiltinEntity)
	if diag != nil {
		return failed(diag)
	}

	res := exprResult{result: typing.Single("", t)}
	return resolved(func() {
		res.commitTo(&e.ExprBase)
		if target.feature != nil {
			e.ResolvedFinalFeature.Set(target.feature)
		} else {
			e.ResolvedFinalDiscrete.Set(target.discrete)
		}
	})
}

func (w *Walker) walkClassConstant(cc *ast.ClassConstant) Outcome {
	t := cc.Class.ResolvedType.Item()
	class, ok := depm.ClassOf(t)
	if !ok {
		return failed(report.Errorf(cc, report.KindTypeMismatch, "`%s` is not a class type", t.Repr()))
	}

	if f, ok := w.env.FeatureTable(class).Get(cc.Constant); ok {
		if f.Kind != depm.ConstantFeature {
			return failed(report.Errorf(cc, report.KindTypeMismatch, "`%s` of `%s` is not a constant", cc.Constant, class.Name))
		}

		fa, out := w.accessFeature(cc, f, t, constant.NotConstant, nil, nil)
		if out != nil {
			return *out
		}

		return resolved(func() {
			fa.res.commitTo(&cc.ExprBase)
			cc.ResolvedFinalFeature.Set(f)
		})
	}

	if d, ok := w.env.DiscreteTable(class).Get(cc.Constant); ok {
		res, out := w.discreteValue(d, t)
		if out != nil {
			return *out
		}

		return resolved(func() {
			res.commitTo(&cc.ExprBase)
			cc.ResolvedFinalDiscrete.Set(d)
		})
	}

	return failed(report.Errorf(cc, report.KindUnknownIdentifier, "unknown constant `%s` in `%s`", cc.Constant, class.Name))
}

func (w *Walker) walkNew(n *ast.New) Outcome {
	if !n.Context().InEnsure() {
		return failed(report.Errorf(n, report.KindContext, "`new` is only valid in postconditions"))
	}

	target, out := w.resolvePath(n, n.Path)
	if out != nil {
		return *out
	}

	if target.feature == nil || target.feature.Kind != depm.AttributeFeature {
		return failed(report.Errorf(n, report.KindTypeMismatch, "`%s` is not an attribute", n.Path))
	}

	t, diag := w.builtin(n, depm.BuiltinBoolean)
	if diag != nil {
		return failed(diag)
	}

	res := exprResult{result: typing.Single("", t), exceptions: target.exceptions}
	return resolved(func() {
		res.commitTo(&n.ExprBase)
		n.ResolvedFinalFeature.Set(target.feature)
	})
}
