package walk

import (
	"easlyc/ast"
	"easlyc/constant"
	"easlyc/depm"
	"easlyc/report"
	"easlyc/typing"
)

// conditionType checks that the operands of a conditional all have the same
// type, either Boolean or Event.  Boolean must be imported in any case.
func (w *Walker) conditionType(n ast.Node, operands ...ast.Expression) (depm.Type, []*report.Diagnostic) {
	boolType, diag := w.builtin(n, depm.BuiltinBoolean)
	if diag != nil {
		return nil, []*report.Diagnostic{diag}
	}

	var (
		result depm.Type
		diags  []*report.Diagnostic
	)

	for _, operand := range operands {
		t, diag := valueOf(operand)
		if diag != nil {
			diags = append(diags, diag)
			continue
		}

		if !isBuiltin(t, depm.BuiltinBoolean) && !isBuiltin(t, depm.BuiltinEvent) {
			diags = append(diags, report.Errorf(operand, report.KindTypeMismatch, "expected `Boolean` or `Event`, got `%s`", t.Repr()))
			continue
		}

		if result == nil {
			result = t
		} else if !depm.Equals(result, t) {
			diags = append(diags, report.Errorf(n, report.KindTypeMismatch, "cannot combine `%s` and `%s`", result.Repr(), t.Repr()))
		}
	}

	if len(diags) > 0 {
		return nil, diags
	}

	if isBuiltin(result, depm.BuiltinBoolean) {
		return boolType, nil
	}

	return result, nil
}

func (w *Walker) walkBinaryConditional(bc *ast.BinaryConditional) Outcome {
	if _, diag := w.builtin(bc, depm.BuiltinBoolean); diag != nil {
		return failed(diag)
	}

	if n := waitFor[ast.Expression](ast.PhaseContract, bc.Left, bc.Right); n != nil {
		return blocked("%s of %s", n.Describe(), bc.Describe())
	}

	t, diags := w.conditionType(bc, bc.Left, bc.Right)
	if len(diags) > 0 {
		return failed(diags...)
	}

	res := exprResult{
		result:     typing.Single("", t),
		exceptions: exceptionsOf(bc.Left, bc.Right),
		sources:    []ast.Expression{bc.Left, bc.Right},
		constant:   constant.FoldConditional(bc.Op, constantOf(bc.Left), constantOf(bc.Right)),
	}

	return resolved(func() {
		res.commitTo(&bc.ExprBase)
	})
}

func (w *Walker) walkUnaryNot(un *ast.UnaryNot) Outcome {
	if _, diag := w.builtin(un, depm.BuiltinBoolean); diag != nil {
		return failed(diag)
	}

	if !ast.IsResolved(un.Operand, ast.PhaseContract) {
		return blocked("operand of %s", un.Describe())
	}

	t, diags := w.conditionType(un, un.Operand)
	if len(diags) > 0 {
		return failed(diags...)
	}

	res := exprResult{
		result:     typing.Single("", t),
		exceptions: exceptionsOf(un.Operand),
		sources:    []ast.Expression{un.Operand},
		constant:   constant.FoldNot(constantOf(un.Operand)),
	}

	return resolved(func() {
		res.commitTo(&un.ExprBase)
	})
}

func (w *Walker) walkEquality(eq *ast.Equality) Outcome {
	boolType, diag := w.builtin(eq, depm.BuiltinBoolean)
	if diag != nil {
		return failed(diag)
	}

	if n := waitFor[ast.Expression](ast.PhaseContract, eq.Left, eq.Right); n != nil {
		return blocked("%s of %s", n.Describe(), eq.Describe())
	}

	lt, ldiag := valueOf(eq.Left)
	rt, rdiag := valueOf(eq.Right)
	if ldiag != nil || rdiag != nil {
		var diags []*report.Diagnostic
		for _, d := range []*report.Diagnostic{ldiag, rdiag} {
			if d != nil {
				diags = append(diags, d)
			}
		}

		return failed(diags...)
	}

	if !w.env.Conforms(lt, rt, false) && !w.env.Conforms(rt, lt, false) {
		return failed(report.Errorf(eq, report.KindTypeMismatch, "cannot compare `%s` and `%s`", lt.Repr(), rt.Repr()))
	}

	c := constant.NotConstant
	if lc, ok := constant.FinalConstant(constantOf(eq.Left)); ok {
		if rc, ok := constant.FinalConstant(constantOf(eq.Right)); ok {
			c = constant.FoldEquality(lc, rc, eq.Op == ast.OpDifferent)
		}
	}

	res := exprResult{
		result:     typing.Single("", boolType),
		exceptions: exceptionsOf(eq.Left, eq.Right),
		sources:    []ast.Expression{eq.Left, eq.Right},
		constant:   c,
	}

	return resolved(func() {
		res.commitTo(&eq.ExprBase)
	})
}

// -----------------------------------------------------------------------------

// operatorCall is a resolved user operator application.
type operatorCall struct {
	feature *depm.Feature
	call    *typing.FeatureCall
	res     exprResult
}

// resolveOperator looks up an operator feature in the class of the target
// operand and resolves the call with the other operands as arguments.
func (w *Walker) resolveOperator(n ast.Node, operator string, target ast.Expression, others ...ast.Expression) (operatorCall, *Outcome) {
	fail := func(diags ...*report.Diagnostic) (operatorCall, *Outcome) {
		out := failed(diags...)
		return operatorCall{}, &out
	}

	t, diag := valueOf(target)
	if diag != nil {
		return fail(diag)
	}

	class, ok := depm.ClassOf(t)
	if !ok {
		return fail(report.Errorf(n, report.KindUnknownIdentifier, "`%s` has no operator `%s`", t.Repr(), operator))
	}

	f, ok := w.env.FeatureTable(class).Get(operator)
	if !ok || f.Kind != depm.FunctionFeature {
		return fail(report.Errorf(n, report.KindUnknownIdentifier, "`%s` has no operator `%s`", class.Name, operator))
	}

	args := make([]*typing.Argument, len(others))
	for i, other := range others {
		ot, diag := valueOf(other)
		if diag != nil {
			return fail(diag)
		}

		args[i] = &typing.Argument{Type: ot, Exceptions: other.Expr().ResolvedException.Item(), Source: other}
	}

	fc, out := w.resolveTypedCall(n, operator, f.Overloads, t, args)
	if out != nil {
		return operatorCall{}, out
	}

	operands := append([]ast.Expression{target}, others...)

	c := constant.NotConstant
	if fc.Overload.Intrinsic != depm.OpNone {
		values := make([]constant.Constant, len(operands))
		for i, operand := range operands {
			values[i] = constantOf(operand)
		}

		c = constant.FoldIntrinsic(fc.Overload.Intrinsic, values...)
	}

	return operatorCall{
		feature: f,
		call:    fc,
		res: exprResult{
			result:     typing.ResultTypeOf(fc.Results, f.Owner, t),
			exceptions: exceptionsOf(target).Merge(fc.Exceptions()),
			sources:    operands,
			constant:   c,
		},
	}, nil
}

func (w *Walker) walkBinaryOperator(bo *ast.BinaryOperator) Outcome {
	if n := waitFor[ast.Expression](ast.PhaseContract, bo.Left, bo.Right); n != nil {
		return blocked("%s of %s", n.Describe(), bo.Describe())
	}

	oc, out := w.resolveOperator(bo, bo.Operator, bo.Left, bo.Right)
	if out != nil {
		return *out
	}

	return resolved(func() {
		oc.res.commitTo(&bo.ExprBase)
		bo.ResolvedOperator.Set(oc.feature)
		bo.SelectedOverload.Set(oc.call.Overload)
		bo.FeatureCall.Set(oc.call)
	})
}

func (w *Walker) walkUnaryOperator(uo *ast.UnaryOperator) Outcome {
	if !ast.IsResolved(uo.Operand, ast.PhaseContract) {
		return blocked("operand of %s", uo.Describe())
	}

	oc, out := w.resolveOperator(uo, uo.Operator, uo.Operand)
	if out != nil {
		return *out
	}

	return resolved(func() {
		oc.res.commitTo(&uo.ExprBase)
		uo.ResolvedOperator.Set(oc.feature)
		uo.SelectedOverload.Set(oc.call.Overload)
		uo.FeatureCall.Set(oc.call)
	})
}
