package walk

import (
	"easlyc/ast"
	"easlyc/constant"
	"easlyc/depm"
	"easlyc/report"
	"easlyc/typing"
)

// walkInitializedObject checks every field assignment of an object
// initializer: the field must exist on the class, be assignable, be assigned
// only once, and receive a value conforming to its type.
func (w *Walker) walkInitializedObject(io *ast.InitializedObject) Outcome {
	t := io.Class.ResolvedType.Item()
	ct, ok := t.(*depm.ClassType)
	if !ok {
		return failed(report.Errorf(io, report.KindTypeMismatch, "`%s` is not a class type", t.Repr()))
	}

	var diags []*report.Diagnostic
	fields := make([]*depm.Feature, len(io.Assignments))
	seen := make(map[string]struct{})

	for i, assign := range io.Assignments {
		if assign.Name == "" {
			diags = append(diags, report.Errorf(assign, report.KindInitializer, "field name expected in initializer"))
			continue
		}

		if _, ok := seen[assign.Name]; ok {
			diags = append(diags, report.Errorf(assign, report.KindInitializer, "duplicate field `%s`", assign.Name))
			continue
		}
		seen[assign.Name] = struct{}{}

		f, ok := w.env.FeatureTable(ct.Class).Get(assign.Name)
		if !ok {
			diags = append(diags, report.Errorf(assign, report.KindUnknownIdentifier, "`%s` has no field `%s`", ct.Class.Name, assign.Name))
			continue
		} else if !f.IsAssignable() {
			diags = append(diags, report.Errorf(assign, report.KindInitializer, "%s `%s` cannot be assigned", f.Kind, assign.Name))
			continue
		}

		fields[i] = f
	}

	if len(diags) > 0 {
		return failed(diags...)
	}

	if arg := waitFor(ast.PhaseContract, io.Assignments...); arg != nil {
		return blocked("%s of %s", arg.Describe(), io.Describe())
	}

	objConst := &constant.Object{Class: ct.Class}
	for i, assign := range io.Assignments {
		f := fields[i]
		ft := depm.Instantiate(f.Type, f.Owner, ct)
		vt := assign.ResolvedArgument.Item().Type

		if !w.env.Conforms(vt, ft, w.config.AllowConversion) {
			diags = append(diags, report.Errorf(assign, report.KindTypeMismatch, "field `%s` expects `%s`, got `%s`", f.Name, ft.Repr(), vt.Repr()))
		}

		objConst.Fields = append(objConst.Fields, constant.Field{Feature: f, Value: assign.Value})
	}

	if len(diags) > 0 {
		return failed(diags...)
	}

	c, ok := constant.FinalConstant(objConst)
	if !ok {
		report.ICE("fields of %s resolved without a constant", io.Describe())
	}

	values := argumentValues(io.Assignments)
	res := exprResult{
		result:     typing.Single("", ct),
		exceptions: exceptionsOf(values...),
		sources:    values,
		constant:   c,
	}

	return resolved(func() {
		res.commitTo(&io.ExprBase)
		for i, assign := range io.Assignments {
			io.AssignedFeatureTable.Add(assign.Name, fields[i])
		}
		io.AssignedFeatureTable.Seal()
	})
}
