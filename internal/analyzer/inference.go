package analyzer

import (
	"fmt"

	"github.com/lumelang/lume/internal/ast"
	"github.com/lumelang/lume/internal/diagnostics"
	"github.com/lumelang/lume/internal/token"
	"github.com/lumelang/lume/internal/typesystem"
)

// checkExpr elaborates e against the expected type. The returned
// expression is e with implicit applications materialized; its inferred
// type is recorded in the TypeMap.
func (w *walker) checkExpr(expected *typesystem.Expr, e ast.Expression) (ast.Expression, *diagnostics.DiagnosticError) {
	switch n := e.(type) {
	case *ast.VariableExpression:
		return w.checkVariable(expected, n)

	case *ast.IntegerLiteral:
		intTy, ok := w.intType(n.Token)
		if !ok {
			return nil, diagnostics.NewError(diagnostics.ErrI903, n.Token, "built-in int type missing")
		}
		if err := w.unify(n.Token, expected, intTy); err != nil {
			return nil, err
		}
		w.annotate(n, intTy)
		return n, nil

	case *ast.ApplyExpression:
		return w.checkApply(expected, n)

	case *ast.FunctionLiteral:
		return w.checkFunction(expected, n)

	case *ast.SequenceExpression:
		first, err := w.checkExpr(w.unitType(n.First.GetToken()), n.First)
		if err != nil {
			return nil, err
		}
		second, err := w.checkExpr(expected, n.Second)
		if err != nil {
			return nil, err
		}
		out := &ast.SequenceExpression{Token: n.Token, First: first, Second: second}
		w.annotate(out, expected)
		return out, nil

	case *ast.LetExpression:
		w.symbolTable.EnterScope()
		value, err := w.checkBinding(n.Pattern, n.Value, false)
		if err != nil {
			w.symbolTable.LeaveScope()
			return nil, err
		}
		body, err := w.checkExpr(expected, n.Body)
		w.symbolTable.LeaveScope()
		if err != nil {
			return nil, err
		}
		out := &ast.LetExpression{Token: n.Token, Pattern: n.Pattern, Value: value, Body: body}
		w.annotate(out, expected)
		return out, nil

	case *ast.AnnotatedExpression:
		t, err := w.buildType(n.TypeAnnotation, make(map[string]*typesystem.Expr))
		if err != nil {
			return nil, err
		}
		if err := w.unify(n.Token, expected, t); err != nil {
			return nil, err
		}
		inner, err := w.checkExpr(t, n.Expression)
		if err != nil {
			return nil, err
		}
		// Re-unify so the annotation also reflects anything checking the
		// expression resolved.
		if err := w.unify(n.Token, expected, t); err != nil {
			return nil, err
		}
		out := &ast.AnnotatedExpression{Token: n.Token, Expression: inner, TypeAnnotation: n.TypeAnnotation}
		w.annotate(out, t)
		return out, nil

	case *ast.TupleExpression:
		elems := make([]*typesystem.Expr, len(n.Elements))
		for i := range n.Elements {
			elems[i] = w.state.NewVar(n.Token, "", w.symbolTable.Depth())
		}
		tup := w.state.New(n.Token, &typesystem.Tuple{Elems: elems})
		if err := w.unify(n.Token, expected, tup); err != nil {
			return nil, err
		}
		out := &ast.TupleExpression{Token: n.Token, Elements: make([]ast.Expression, len(n.Elements))}
		for i, el := range n.Elements {
			elab, err := w.checkExpr(elems[i], el)
			if err != nil {
				return nil, err
			}
			out.Elements[i] = elab
		}
		w.annotate(out, tup)
		return out, nil

	case *ast.MatchExpression:
		return w.checkMatch(expected, n)

	case *ast.FieldExpression:
		return w.checkField(expected, n)

	case *ast.RecordExpression:
		return w.checkRecord(expected, n)

	case *ast.ConstructorExpression:
		return w.checkConstructor(expected, n)

	case *ast.ImplicitArgument:
		// Placeholders are created by the checker, never parsed.
		return nil, diagnostics.NewError(
			diagnostics.ErrI901,
			n.Token,
			"implicit placeholder in source AST",
		)
	}
	return nil, diagnostics.NewError(
		diagnostics.ErrI903,
		e.GetToken(),
		fmt.Sprintf("unhandled expression %T", e),
	)
}

// checkVariable looks a name up, instantiates its scheme and materializes
// implicit arguments until the head type is non-implicit.
func (w *walker) checkVariable(expected *typesystem.Expr, n *ast.VariableExpression) (ast.Expression, *diagnostics.DiagnosticError) {
	stored, perr := w.symbolTable.ValueByPath(n.Name)
	if perr != nil {
		return nil, w.unbound(diagnostics.UnboundValue, n.GetToken(), perr)
	}
	cur := w.state.Instantiate(stored, n.Token, w.symbolTable.Depth())
	var out ast.Expression = n
	w.annotate(n, cur)

	for {
		head := w.state.Resolve(cur)
		arrow, ok := head.Repr.(*typesystem.Arrow)
		if !ok || !arrow.Implicit {
			break
		}
		// A use-site that expects the implicit function itself (e.g. an
		// annotated alias) takes it unapplied.
		if exp, ok := w.state.Resolve(expected).Repr.(*typesystem.Arrow); ok && exp.Implicit {
			break
		}
		placeholder := &ast.ImplicitArgument{
			Token: token.Synthetic(fmt.Sprintf("implicit argument of %s", n.Name.String())),
			Name:  w.freshImplicitName(),
			Type:  arrow.Dom,
		}
		w.pending = append(w.pending, placeholder)
		w.annotate(placeholder, arrow.Dom)
		out = &ast.ApplyExpression{Token: n.Token, Function: out, Arguments: []ast.Expression{placeholder}}
		w.annotate(out, arrow.Cod)
		cur = arrow.Cod
	}

	if err := w.unify(n.Token, expected, cur); err != nil {
		return nil, err
	}
	return out, nil
}

// checkApply elaborates the callee, then threads an arrow through every
// explicit argument left to right.
func (w *walker) checkApply(expected *typesystem.Expr, n *ast.ApplyExpression) (ast.Expression, *diagnostics.DiagnosticError) {
	depth := w.symbolTable.Depth()
	fnTy := w.state.NewVar(n.Token, "", depth)
	fn, err := w.checkExpr(fnTy, n.Function)
	if err != nil {
		return nil, err
	}
	cur := fnTy
	args := make([]ast.Expression, len(n.Arguments))
	for i, arg := range n.Arguments {
		argTy := w.state.NewVar(arg.GetToken(), "", depth)
		resTy := w.state.NewVar(arg.GetToken(), "", depth)
		arrow := w.state.New(arg.GetToken(), &typesystem.Arrow{Dom: argTy, Cod: resTy})
		if err := w.unify(arg.GetToken(), cur, arrow); err != nil {
			return nil, err
		}
		elab, err := w.checkExpr(argTy, arg)
		if err != nil {
			return nil, err
		}
		args[i] = elab
		cur = resTy
	}
	if err := w.unify(n.Token, expected, cur); err != nil {
		return nil, err
	}
	out := &ast.ApplyExpression{Token: n.Token, Function: fn, Arguments: args}
	w.annotate(out, cur)
	return out, nil
}

// checkFunction opens a scope for the parameter and checks the body.
// Parameters bind monomorphically.
func (w *walker) checkFunction(expected *typesystem.Expr, n *ast.FunctionLiteral) (ast.Expression, *diagnostics.DiagnosticError) {
	w.symbolTable.EnterScope()
	defer w.symbolTable.LeaveScope()

	depth := w.symbolTable.Depth()
	paramTy := w.state.NewVar(n.Token, "", depth)
	bodyTy := w.state.NewVar(n.Token, "", depth)
	arrow := w.state.New(n.Token, &typesystem.Arrow{Dom: paramTy, Cod: bodyTy, Implicit: n.Implicit})
	if err := w.unify(n.Token, expected, arrow); err != nil {
		return nil, err
	}
	if err := w.checkPattern(paramTy, n.Param, w.bindMono); err != nil {
		return nil, err
	}
	body, err := w.checkExpr(bodyTy, n.Body)
	if err != nil {
		return nil, err
	}
	out := &ast.FunctionLiteral{Token: n.Token, Param: n.Param, Body: body, Implicit: n.Implicit}
	w.annotate(out, arrow)
	return out, nil
}

// checkMatch infers the scrutinee then checks each arm in its own scope.
// Arm patterns bind polymorphically.
func (w *walker) checkMatch(expected *typesystem.Expr, n *ast.MatchExpression) (ast.Expression, *diagnostics.DiagnosticError) {
	scrutTy := w.state.NewVar(n.Token, "", w.symbolTable.Depth())
	scrut, err := w.checkExpr(scrutTy, n.Scrutinee)
	if err != nil {
		return nil, err
	}
	arms := make([]*ast.MatchArm, len(n.Arms))
	for i, arm := range n.Arms {
		w.symbolTable.EnterScope()
		if err := w.checkPattern(scrutTy, arm.Pattern, w.bindPoly); err != nil {
			w.symbolTable.LeaveScope()
			return nil, err
		}
		body, err := w.checkExpr(expected, arm.Body)
		w.symbolTable.LeaveScope()
		if err != nil {
			return nil, err
		}
		arms[i] = &ast.MatchArm{Token: arm.Token, Pattern: arm.Pattern, Body: body}
	}
	out := &ast.MatchExpression{Token: n.Token, Scrutinee: scrut, Arms: arms}
	w.annotate(out, expected)
	return out, nil
}

// checkField resolves the record declaration from the qualified field
// name or from the elaborated expression's type, then projects.
func (w *walker) checkField(expected *typesystem.Expr, n *ast.FieldExpression) (ast.Expression, *diagnostics.DiagnosticError) {
	leftTy := w.state.NewVar(n.Token, "", w.symbolTable.Depth())
	left, err := w.checkExpr(leftTy, n.Left)
	if err != nil {
		return nil, err
	}

	var decl *typesystem.Decl
	if _, qualified := n.Field.(*ast.Dotted); qualified {
		fref, perr := w.symbolTable.FieldByPath(n.Field)
		if perr != nil {
			return nil, w.unbound(diagnostics.UnboundField, n.Field.GetToken(), perr)
		}
		decl = fref.Decl
	} else {
		decl, err = w.resolveRecordDecl(n.Token, leftTy, n.Field)
		if err != nil {
			return nil, err
		}
	}

	body, ok := decl.Body.(*typesystem.RecordBody)
	if !ok {
		return nil, w.errWrongField(n.Field.GetToken(), fieldName(n.Field), w.state.Flatten(leftTy))
	}
	recTy, repl := w.freshDeclInstance(n.Token, decl)
	if err := w.unify(n.Token, recTy, leftTy); err != nil {
		return nil, err
	}
	_, field, ok := recordFieldIndex(body, fieldName(n.Field))
	if !ok {
		return nil, w.errWrongField(n.Field.GetToken(), fieldName(n.Field), recTy)
	}
	fieldTy := w.state.Substitute(field.Type, repl)
	if err := w.unify(n.Token, expected, fieldTy); err != nil {
		return nil, err
	}
	out := &ast.FieldExpression{Token: n.Token, Left: left, Field: n.Field}
	w.annotate(out, fieldTy)
	return out, nil
}

// checkRecord checks a record literal, tracking filled positions. With no
// extension every field must be assigned exactly once.
func (w *walker) checkRecord(expected *typesystem.Expr, n *ast.RecordExpression) (ast.Expression, *diagnostics.DiagnosticError) {
	if len(n.Fields) == 0 {
		return nil, diagnostics.NewError(diagnostics.ErrT007, n.Token, "record literal has no fields")
	}

	target := expected
	var extends ast.Expression
	if n.Extends != nil {
		extTy := w.state.NewVar(n.Token, "", w.symbolTable.Depth())
		var err *diagnostics.DiagnosticError
		extends, err = w.checkExpr(extTy, n.Extends)
		if err != nil {
			return nil, err
		}
		target = extTy
	}

	decl, derr := w.resolveRecordDecl(n.Token, target, n.Fields[0].Name)
	if derr != nil {
		return nil, derr
	}
	body := decl.Body.(*typesystem.RecordBody)
	recTy, repl := w.freshDeclInstance(n.Token, decl)
	if err := w.unify(n.Token, target, recTy); err != nil {
		return nil, err
	}
	if n.Extends != nil {
		if err := w.unify(n.Token, expected, recTy); err != nil {
			return nil, err
		}
	}

	filled := make([]bool, len(body.Fields))
	fields := make([]*ast.FieldAssign, len(n.Fields))
	for i, fa := range n.Fields {
		idx, field, ok := recordFieldIndex(body, fieldName(fa.Name))
		if !ok {
			return nil, w.errWrongField(fa.Name.GetToken(), fieldName(fa.Name), recTy)
		}
		if filled[idx] {
			return nil, diagnostics.NewError(
				diagnostics.ErrT009,
				fa.Name.GetToken(),
				fmt.Sprintf("field %s is assigned twice", field.Name),
			)
		}
		filled[idx] = true
		fieldTy := w.state.Substitute(field.Type, repl)
		value, err := w.checkExpr(fieldTy, fa.Value)
		if err != nil {
			return nil, err
		}
		fields[i] = &ast.FieldAssign{Name: fa.Name, Value: value}
	}

	if n.Extends == nil {
		var missing []string
		for i, f := range body.Fields {
			if !filled[i] {
				missing = append(missing, f.Name)
			}
		}
		if len(missing) > 0 {
			return nil, diagnostics.NewError(
				diagnostics.ErrT010,
				n.Token,
				fmt.Sprintf("record literal is missing fields %v", missing),
			)
		}
	}

	out := &ast.RecordExpression{Token: n.Token, Fields: fields, Extends: extends}
	w.annotate(out, recTy)
	return out, nil
}

// checkConstructor checks a variant constructor application.
func (w *walker) checkConstructor(expected *typesystem.Expr, n *ast.ConstructorExpression) (ast.Expression, *diagnostics.DiagnosticError) {
	cref, perr := w.symbolTable.CtorByPath(n.Name)
	if perr != nil {
		return nil, w.unbound(diagnostics.UnboundConstructor, n.GetToken(), perr)
	}
	retTy, argTy, derr := w.ctorTypes(n.GetToken(), cref)
	if derr != nil {
		return nil, derr
	}
	if err := w.unify(n.Token, expected, retTy); err != nil {
		return nil, err
	}
	var arg ast.Expression
	if n.Argument != nil {
		var err *diagnostics.DiagnosticError
		arg, err = w.checkExpr(argTy, n.Argument)
		if err != nil {
			return nil, err
		}
	} else if err := w.unify(n.Token, argTy, w.unitType(n.Token)); err != nil {
		return nil, diagnostics.NewError(
			diagnostics.ErrT012,
			n.Token,
			fmt.Sprintf("constructor %s expects an argument", n.Name.String()),
		).Wrap(err)
	}
	out := &ast.ConstructorExpression{Token: n.Token, Name: n.Name, Argument: arg}
	w.annotate(out, retTy)
	return out, nil
}
