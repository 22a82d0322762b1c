package infer

import (
	"easlyc/ast"
	"easlyc/constant"
	"easlyc/depm"
)

// isNumber returns whether an expression produces a value of the built-in
// Number type.
func isNumber(x ast.Expression) bool {
	t, ok := x.Expr().PreferredType()
	if !ok {
		return false
	}

	ct, ok := t.(*depm.ClassType)
	return ok && ct.IsBuiltin(depm.BuiltinNumber)
}

// kindOf computes the kind of an expression from the current kinds of its
// inputs.  It returns NumberNotChecked if an input is not decided yet.
func (e *Engine) kindOf(x ast.Expression) depm.NumberKind {
	if !isNumber(x) {
		return depm.NumberNotApplicable
	}

	if n, ok := x.Expr().ExpressionConstant.Item().(*constant.Number); ok {
		return n.NumKind
	}

	switch v := x.(type) {
	case *ast.BinaryOperator:
		if op := intrinsicOf(&v.CallBinding); op != depm.OpNone {
			return intrinsicKind(op, v.Left, v.Right)
		}
	case *ast.UnaryOperator:
		if op := intrinsicOf(&v.CallBinding); op != depm.OpNone {
			return intrinsicKind(op, v.Operand)
		}
	case *ast.ResultOf:
		return v.Source.Expr().NumberKind()
	case *ast.Old:
		return v.Source.Expr().NumberKind()
	case *ast.CloneOf:
		return v.Source.Expr().NumberKind()
	case *ast.Preprocessor:
		if v.Macro == ast.MacroCounter || v.Macro == ast.MacroRandomInteger {
			return depm.NumberInteger
		}
	}

	for _, input := range e.inputsOf(x) {
		if s, ok := input.(*slot); ok {
			return s.kind
		}
	}

	return depm.NumberNotChecked
}

// inputsOf returns the cells the kind of an expression depends on.
func (e *Engine) inputsOf(x ast.Expression) []cell {
	if !isNumber(x) {
		return nil
	}

	switch v := x.(type) {
	case *ast.BinaryOperator:
		if intrinsicOf(&v.CallBinding) != depm.OpNone {
			return []cell{v.Left, v.Right}
		}

		return e.resultInput(v.SelectedOverload.Item())
	case *ast.UnaryOperator:
		if intrinsicOf(&v.CallBinding) != depm.OpNone {
			return []cell{v.Operand}
		}

		return e.resultInput(v.SelectedOverload.Item())
	case *ast.ResultOf:
		return []cell{v.Source}
	case *ast.Old:
		return []cell{v.Source}
	case *ast.CloneOf:
		return []cell{v.Source}
	case *ast.Query:
		if local, ok := v.ResolvedLocal.TryItem(); ok {
			return []cell{e.localSlot(local)}
		}

		return e.targetInputs(&v.FinalTarget, v.SelectedOverload.Item())
	case *ast.ClassConstant:
		return e.targetInputs(&v.FinalTarget, nil)
	case *ast.IndexQuery:
		return []cell{e.featureSlot(v.ResolvedIndexer.Item())}
	case *ast.PrecursorExpression:
		p := v.ResolvedPrecursor.Item()
		if o := v.SelectedOverload.Item(); o != nil {
			return e.resultInput(o)
		}

		return []cell{e.featureSlot(p.Feature)}
	case *ast.PrecursorIndex:
		return []cell{e.featureSlot(v.ResolvedPrecursor.Item().Feature)}
	case *ast.KeywordExpression:
		return e.keywordInputs(v)
	}

	return nil
}

func intrinsicOf(cb *ast.CallBinding) depm.Opcode {
	if o := cb.SelectedOverload.Item(); o != nil {
		return o.Intrinsic
	}

	return depm.OpNone
}

// intrinsicKind combines the kinds of the operands of an intrinsic operation.
func intrinsicKind(op depm.Opcode, operands ...ast.Expression) depm.NumberKind {
	if op == depm.OpDiv {
		return depm.NumberReal
	}

	kind := operands[0].Expr().NumberKind()
	for _, operand := range operands[1:] {
		kind = depm.JoinNumberKinds(kind, operand.Expr().NumberKind())
	}

	return kind
}

func (e *Engine) resultInput(o *depm.Overload) []cell {
	if o == nil {
		return nil
	}

	if r, ok := o.PreferredResult(); ok {
		return []cell{e.paramSlot(r)}
	}

	return nil
}

func (e *Engine) targetInputs(ft *ast.FinalTarget, o *depm.Overload) []cell {
	if d, ok := ft.ResolvedFinalDiscrete.TryItem(); ok {
		return []cell{e.slotOf(d, d.Name, depm.NumberNotChecked)}
	}

	if f, ok := ft.ResolvedFinalFeature.TryItem(); ok {
		if o != nil {
			return e.resultInput(o)
		}

		return []cell{e.featureSlot(f)}
	}

	return nil
}

func (e *Engine) keywordInputs(ke *ast.KeywordExpression) []cell {
	ctx := ke.Context()

	switch ke.Keyword {
	case ast.KeywordResult:
		if ctx.Overload != nil && ctx.Feature.Kind != depm.IndexerFeature {
			return e.resultInput(ctx.Overload)
		}

		return []cell{e.featureSlot(ctx.Feature)}
	case ast.KeywordValue:
		return []cell{e.featureSlot(ctx.Feature)}
	}

	return nil
}
