package walk

import (
	"strconv"
	"unicode/utf8"

	"easlyc/ast"
	"easlyc/constant"
	"easlyc/depm"
	"easlyc/report"
	"easlyc/typing"
)

func (w *Walker) walkNumberText(mn *ast.ManifestNumber) Outcome {
	num, err := constant.ParseNumber(mn.Text)
	if err != nil {
		return failed(report.Errorf(mn, report.KindInvalidLiteral, "%s", err))
	}

	return resolved(func() {
		mn.ParsedNumber.Set(num)
	})
}

func (w *Walker) walkCharacterText(mc *ast.ManifestCharacter) Outcome {
	s, err := strconv.Unquote("'" + mc.Text + "'")
	if err != nil || utf8.RuneCountInString(s) != 1 {
		return failed(report.Errorf(mc, report.KindInvalidLiteral, "invalid character literal"))
	}

	r, _ := utf8.DecodeRuneInString(s)
	return resolved(func() {
		mc.ParsedCharacter.Set(r)
	})
}

func (w *Walker) walkStringText(ms *ast.ManifestString) Outcome {
	s, err := strconv.Unquote("\"" + ms.Text + "\"")
	if err != nil {
		return failed(report.Errorf(ms, report.KindInvalidLiteral, "invalid string literal"))
	}

	return resolved(func() {
		ms.ParsedString.Set(s)
	})
}

// -----------------------------------------------------------------------------

// walkLiteral resolves the contract of a literal: its type is looked up by its
// built-in identity and its constant is the parsed value.
func (w *Walker) walkLiteral(e ast.Expression, kind depm.BuiltinKind, value constant.Constant) Outcome {
	t, diag := w.builtin(e, kind)
	if diag != nil {
		return failed(diag)
	}

	res := exprResult{result: typing.Single("", t), constant: value}
	return resolved(func() {
		res.commitTo(e.Expr())
	})
}

func (w *Walker) walkManifestNumber(mn *ast.ManifestNumber) Outcome {
	return w.walkLiteral(mn, depm.BuiltinNumber, mn.ParsedNumber.Item())
}

func (w *Walker) walkManifestCharacter(mc *ast.ManifestCharacter) Outcome {
	return w.walkLiteral(mc, depm.BuiltinCharacter, &constant.Character{Value: mc.ParsedCharacter.Item()})
}

func (w *Walker) walkManifestString(ms *ast.ManifestString) Outcome {
	return w.walkLiteral(ms, depm.BuiltinString, &constant.String{Value: ms.ParsedString.Item()})
}
