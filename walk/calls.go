package walk

import (
	"easlyc/ast"
	"easlyc/constant"
	"easlyc/depm"
	"easlyc/report"
	"easlyc/typing"
	"easlyc/util"
)

func (w *Walker) walkArgument(arg *ast.Argument) Outcome {
	if !ast.IsResolved(arg.Value, ast.PhaseContract) {
		return blocked("value of %s", arg.Describe())
	}

	t, diag := valueOf(arg.Value)
	if diag != nil {
		return failed(diag)
	}

	ta := &typing.Argument{
		Name:       arg.Name,
		Type:       t,
		Exceptions: arg.Value.Expr().ResolvedException.Item(),
		Source:     arg,
	}

	return resolved(func() {
		arg.ResolvedArgument.Set(ta)
	})
}

// callArguments returns the typed arguments of a call.  The arguments must be
// resolved.
func callArguments(args []*ast.Argument) []*typing.Argument {
	return util.Map(args, func(arg *ast.Argument) *typing.Argument {
		return arg.ResolvedArgument.Item()
	})
}

// argumentValues returns the value expressions of arguments.
func argumentValues(args []*ast.Argument) []ast.Expression {
	values := make([]ast.Expression, len(args))
	for i, arg := range args {
		values[i] = arg.Value
	}

	return values
}

// bindingConstants returns the constants of the arguments of a call in
// parameter order.  Parameters left to their default value are not constant.
func bindingConstants(fc *typing.FeatureCall) []constant.Constant {
	return util.Map(fc.Bindings, func(b typing.Binding) constant.Constant {
		if b.Argument != nil {
			if arg, ok := b.Argument.Source.(*ast.Argument); ok {
				return constantOf(arg.Value)
			}
		}

		return constant.NotConstant
	})
}

// resolveCall runs overload resolution for a call whose arguments are
// resolved.
func (w *Walker) resolveCall(n ast.Node, name string, overloads []*depm.Overload, base depm.Type, args []*ast.Argument) (*typing.FeatureCall, *Outcome) {
	return w.resolveTypedCall(n, name, overloads, base, callArguments(args))
}

func (w *Walker) resolveTypedCall(n ast.Node, name string, overloads []*depm.Overload, base depm.Type, args []*typing.Argument) (*typing.FeatureCall, *Outcome) {
	fc, diags := typing.ResolveOverload(w.env, &typing.OverloadQuery{
		Node:            n,
		Name:            name,
		Overloads:       overloads,
		Base:            base,
		Arguments:       args,
		AllowConversion: w.config.AllowConversion,
	})

	if len(diags) > 0 {
		out := failed(diags...)
		return nil, &out
	}

	return fc, nil
}

// -----------------------------------------------------------------------------

func (w *Walker) walkAgent(a *ast.Agent) Outcome {
	var base depm.Type = currentType(a.Context().Class)
	if a.BaseType != nil {
		base = a.BaseType.ResolvedType.Item()
	}

	class, ok := depm.ClassOf(base)
	if !ok {
		return failed(report.Errorf(a, report.KindTypeMismatch, "`%s` has no feature", base.Repr()))
	}

	f, ok := w.env.FeatureTable(class).Get(a.Delegated)
	if !ok {
		return failed(report.Errorf(a, report.KindUnknownIdentifier, "unknown feature `%s` in `%s`", a.Delegated, class.Name))
	}

	res := exprResult{result: typing.Single("", &depm.FeatureType{Feature: f}), constant: &constant.Agent{Feature: f}}
	return resolved(func() {
		res.commitTo(&a.ExprBase)
		a.ResolvedFeature.Set(f)
	})
}

func (w *Walker) walkIndexQuery(iq *ast.IndexQuery) Outcome {
	if n := waitFor[ast.Node](ast.PhaseContract, append([]ast.Node{iq.Indexed}, nodesOf(iq.Arguments)...)...); n != nil {
		return blocked("%s of %s", n.Describe(), iq.Describe())
	}

	t, diag := valueOf(iq.Indexed)
	if diag != nil {
		return failed(diag)
	}

	class, ok := depm.ClassOf(t)
	if !ok {
		return failed(report.Errorf(iq, report.KindTypeMismatch, "`%s` cannot be indexed", t.Repr()))
	}

	indexer, ok := w.env.FeatureTable(class).Get(depm.IndexerName)
	if !ok || indexer.Kind != depm.IndexerFeature {
		return failed(report.Errorf(iq, report.KindUnknownIdentifier, "`%s` has no indexer", class.Name))
	} else if !indexer.IsReadable() {
		return failed(report.Errorf(iq, report.KindContext, "the indexer of `%s` is write-only", class.Name))
	}

	fc, out := w.resolveCall(iq, class.Name+"[]", indexer.Overloads, t, iq.Arguments)
	if out != nil {
		return *out
	}

	res := exprResult{
		result:     typing.Single("", depm.Instantiate(indexer.Type, indexer.Owner, t)),
		exceptions: exceptionsOf(iq.Indexed).Merge(fc.Exceptions()).Add(indexer.Exceptions...),
	}

	return resolved(func() {
		res.commitTo(&iq.ExprBase)
		iq.ResolvedIndexer.Set(indexer)
		iq.FeatureCall.Set(fc)
	})
}

// nodesOf converts a slice of concrete nodes to a slice of nodes.
func nodesOf[N ast.Node](ns []N) []ast.Node {
	return util.Map(ns, func(n N) ast.Node { return n })
}
