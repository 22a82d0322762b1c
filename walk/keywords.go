package walk

import (
	"easlyc/ast"
	"easlyc/common"
	"easlyc/constant"
	"easlyc/depm"
	"easlyc/report"
	"easlyc/typing"
)

// keywordType returns the type of the value of a keyword in the context of a
// node, or why the keyword is not valid there.
func (w *Walker) keywordType(n ast.Node, k ast.Keyword) (depm.Type, *report.Diagnostic) {
	ctx := n.Base().Context()

	switch k {
	case ast.KeywordTrue, ast.KeywordFalse, ast.KeywordRetry:
		return w.builtin(n, depm.BuiltinBoolean)
	case ast.KeywordCurrent:
		return currentType(ctx.Class), nil
	case ast.KeywordException:
		return w.builtin(n, depm.BuiltinException)
	case ast.KeywordValue:
		if ctx.Accessor != ast.SetterAccessor || ctx.Feature == nil {
			return nil, report.Errorf(n, report.KindContext, "`Value` is only valid in setters")
		}

		return ctx.Feature.Type, nil
	case ast.KeywordResult:
		if ctx.Overload != nil {
			if t := typing.ResultTypeOf(ctx.Overload.Results, nil, nil).PreferredType(); t != nil {
				return t, nil
			}
		} else if ctx.Feature != nil && ctx.Feature.Kind == depm.PropertyFeature && ctx.Accessor == ast.GetterAccessor {
			return ctx.Feature.Type, nil
		}

		return nil, report.Errorf(n, report.KindContext, "`Result` is only valid in queries and getters")
	}

	report.ICE("unknown keyword %d", k)
	return nil, nil
}

func (w *Walker) walkKeyword(ke *ast.KeywordExpression) Outcome {
	t, diag := w.keywordType(ke, ke.Keyword)
	if diag != nil {
		return failed(diag)
	}

	var c constant.Constant = constant.NotConstant
	switch ke.Keyword {
	case ast.KeywordTrue:
		c = &constant.Boolean{Value: true}
	case ast.KeywordFalse:
		c = &constant.Boolean{Value: false}
	}

	res := exprResult{result: typing.Single(ke.Keyword.String(), t), constant: c}
	return resolved(func() {
		res.commitTo(&ke.ExprBase)
	})
}

func (w *Walker) walkKeywordEntity(ke *ast.KeywordEntity) Outcome {
	if _, diag := w.keywordType(ke, ke.Keyword); diag != nil {
		return failed(diag)
	}

	t, diag := w.builtin(ke, depm.BuiltinEntity)
	if diag != nil {
		return failed(diag)
	}

	res := exprResult{result: typing.Single("", t)}
	return resolved(func() {
		res.commitTo(&ke.ExprBase)
	})
}

func (w *Walker) walkAssertionTag(at *ast.AssertionTag) Outcome {
	ctx := at.Context()
	if ctx.Overload == nil {
		return failed(report.Errorf(at, report.KindContext, "assertion tags are only valid in routines"))
	}

	var tagged *ast.Assertion
	for _, src := range append(append([]depm.Source(nil), ctx.Overload.Require...), ctx.Overload.Ensure...) {
		if a, ok := src.(*ast.Assertion); ok && a.Tag == at.Tag {
			tagged = a
			break
		}
	}

	if tagged == nil {
		return failed(report.Errorf(at, report.KindUnknownIdentifier, "unknown assertion tag `%s`", at.Tag))
	}

	t, diag := w.builtin(at, depm.BuiltinBoolean)
	if diag != nil {
		return failed(diag)
	}

	res := exprResult{result: typing.Single("", t)}
	return resolved(func() {
		res.commitTo(&at.ExprBase)
		at.ResolvedAssertion.Set(tagged)
	})
}

func (w *Walker) walkPreprocessor(p *ast.Preprocessor) Outcome {
	var (
		kind depm.BuiltinKind
		c    constant.Constant = constant.NotConstant
	)

	switch p.Macro {
	case ast.MacroClassPath:
		kind, c = depm.BuiltinString, &constant.String{Value: p.Context().Class.Name}
	case ast.MacroCompilerVersion:
		kind, c = depm.BuiltinString, &constant.String{Value: common.CompilerVersion}
	case ast.MacroDebugging:
		kind, c = depm.BuiltinBoolean, &constant.Boolean{Value: w.config.Debugging}
	case ast.MacroDateAndTime:
		kind = depm.BuiltinString
	case ast.MacroCounter, ast.MacroRandomInteger:
		kind = depm.BuiltinNumber
	default:
		report.ICE("unknown macro %d", p.Macro)
	}

	t, diag := w.builtin(p, kind)
	if diag != nil {
		return failed(diag)
	}

	res := exprResult{result: typing.Single("", t), constant: c}
	return resolved(func() {
		res.commitTo(&p.ExprBase)
	})
}

// -----------------------------------------------------------------------------

func (w *Walker) walkResultOf(ro *ast.ResultOf) Outcome {
	if !ast.IsResolved(ro.Source, ast.PhaseContract) {
		return blocked("source of %s", ro.Describe())
	}

	entry, ok := ro.Source.Expr().ResolvedResult.Item().Preferred()
	if !ok {
		return failed(report.Errorf(ro, report.KindTypeMismatch, "%s has no preferred result", ro.Source.Describe()))
	}

	res := exprResult{
		result:     typing.Single(entry.Name, entry.Type),
		exceptions: typing.Propagate(ro.Source.Expr().ResolvedException.Item()),
		sources:    []ast.Expression{ro.Source},
		constant:   constantOf(ro.Source),
	}

	return resolved(func() {
		res.commitTo(&ro.ExprBase)
	})
}

func (w *Walker) walkOld(o *ast.Old) Outcome {
	if !o.Context().InEnsure() {
		return failed(report.Errorf(o, report.KindContext, "`old` is only valid in postconditions"))
	}

	if !ast.IsResolved(o.Source, ast.PhaseContract) {
		return blocked("source of %s", o.Describe())
	}

	res := exprResult{
		result:     o.Source.Expr().ResolvedResult.Item(),
		exceptions: typing.Propagate(o.Source.Expr().ResolvedException.Item()),
		sources:    []ast.Expression{o.Source},
		constant:   constantOf(o.Source),
	}

	return resolved(func() {
		res.commitTo(&o.ExprBase)
	})
}

func (w *Walker) walkCloneOf(co *ast.CloneOf) Outcome {
	if !ast.IsResolved(co.Source, ast.PhaseContract) {
		return blocked("source of %s", co.Describe())
	}

	t, diag := valueOf(co.Source)
	if diag != nil {
		return failed(diag)
	}

	if _, ok := depm.ClassOf(t); !ok {
		return failed(report.Errorf(co, report.KindTypeMismatch, "`%s` cannot be cloned", t.Repr()))
	}

	res := exprResult{
		result:     typing.Single("", t),
		exceptions: typing.Propagate(co.Source.Expr().ResolvedException.Item()),
	}

	return resolved(func() {
		res.commitTo(&co.ExprBase)
	})
}
