package infer

import (
	"easlyc/ast"
	"easlyc/depm"
	"easlyc/report"
	"easlyc/typing"
)

// Validate reports real values flowing into integer parameters and
// destinations.  It only reads the kinds computed by Run.
func Validate(nodes []ast.Node) []*report.Diagnostic {
	var diags []*report.Diagnostic

	for _, n := range nodes {
		if fc, ok := featureCallOf(n); ok && fc != nil {
			for _, b := range fc.Bindings {
				if b.Argument == nil || b.Parameter.DeclaredKind != depm.NumberInteger {
					continue
				}

				if x, ok := argumentValue(b.Argument); ok && x.Expr().NumberKind() == depm.NumberReal {
					diags = append(diags, report.Errorf(x, report.KindNumber, "real value passed to integer parameter `%s`", b.Parameter.Name))
				}
			}
		}

		if a, ok := n.(*ast.Assignment); ok && a.Source.Expr().NumberKind() == depm.NumberReal {
			for i, dest := range a.ResolvedDestinations.Item() {
				if dest.DeclaredKind() == depm.NumberInteger {
					diags = append(diags, report.Errorf(a, report.KindNumber, "real value assigned to integer `%s`", a.Destinations[i]))
				}
			}
		}
	}

	return diags
}

func featureCallOf(n ast.Node) (*typing.FeatureCall, bool) {
	switch v := n.(type) {
	case *ast.Query:
		return v.FeatureCall.TryItem()
	case *ast.BinaryOperator:
		return v.FeatureCall.TryItem()
	case *ast.UnaryOperator:
		return v.FeatureCall.TryItem()
	case *ast.IndexQuery:
		return v.FeatureCall.TryItem()
	case *ast.PrecursorExpression:
		return v.FeatureCall.TryItem()
	case *ast.PrecursorIndex:
		return v.FeatureCall.TryItem()
	case *ast.Command:
		return v.FeatureCall.TryItem()
	case *ast.Create:
		return v.FeatureCall.TryItem()
	case *ast.Throw:
		return v.FeatureCall.TryItem()
	case *ast.PrecursorInstruction:
		return v.FeatureCall.TryItem()
	}

	return nil, false
}

// argumentValue returns the expression an argument of a call comes from.
func argumentValue(arg *typing.Argument) (ast.Expression, bool) {
	switch v := arg.Source.(type) {
	case *ast.Argument:
		return v.Value, true
	case ast.Expression:
		return v, true
	}

	return nil, false
}
