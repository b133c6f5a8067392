package analyzer

import (
	"fmt"

	"github.com/lumelang/lume/internal/ast"
	"github.com/lumelang/lume/internal/diagnostics"
	"github.com/lumelang/lume/internal/typesystem"
)

// checkBinding infers the bound expression, discharges the implicit
// placeholders that belong to this binding, then generalizes and binds
// the pattern's names.
func (w *walker) checkBinding(p ast.Pattern, value ast.Expression, toplevel bool) (ast.Expression, *diagnostics.DiagnosticError) {
	pendingMark := len(w.pending)

	w.symbolTable.EnterScope()
	innerDepth := w.symbolTable.Depth()
	valTy := w.state.NewVar(value.GetToken(), "", innerDepth)
	elab, err := w.checkExpr(valTy, value)
	w.symbolTable.LeaveScope()
	if err != nil {
		return nil, err
	}

	ft := w.state.Flatten(valTy)
	fvSet := make(map[typesystem.TypeID]bool)
	for _, v := range w.state.FreeTypeVars(ft, innerDepth) {
		fvSet[v.ID] = true
	}

	// Partition the placeholders created while checking this binding:
	// resolve what the instance table can supply, abstract over what
	// stays generic here, and let the rest bubble up to the enclosing
	// binding.
	created := append([]*ast.ImplicitArgument(nil), w.pending[pendingMark:]...)
	w.pending = w.pending[:pendingMark:pendingMark]
	var toAbstract []*ast.ImplicitArgument
	for _, ph := range created {
		resolved, derr := w.resolveImplicit(ph)
		if derr != nil {
			return nil, derr
		}
		if resolved {
			continue
		}
		intersects := false
		for _, v := range w.state.FreeTypeVars(w.state.Flatten(ph.Type), innerDepth) {
			if fvSet[v.ID] {
				intersects = true
				break
			}
		}
		switch {
		case toplevel && w.opts.StrictInstances:
			return nil, diagnostics.NewError(
				diagnostics.ErrT011,
				ph.Token,
				fmt.Sprintf("no implicit instance for %s", w.state.Flatten(ph.Type)),
			)
		case intersects && !toplevel:
			toAbstract = append(toAbstract, ph)
		default:
			// Not tied to this binding's variables (or strict mode is
			// off): the enclosing binding decides.
			w.pending = append(w.pending, ph)
		}
	}

	// Remaining placeholders become implicit parameters, first created
	// outermost.
	for i := len(toAbstract) - 1; i >= 0; i-- {
		ph := toAbstract[i]
		param := &ast.Identifier{Token: ph.Token, Value: ph.Name}
		ph.Resolved = &ast.VariableExpression{Token: ph.Token, Name: &ast.Bare{Name: param}}
		elab = &ast.FunctionLiteral{
			Token:    ph.Token,
			Param:    &ast.VarPattern{Token: ph.Token, Name: param},
			Body:     elab,
			Implicit: true,
		}
		ft = w.state.New(ph.Token, &typesystem.Arrow{
			Dom:      w.state.Flatten(ph.Type),
			Cod:      ft,
			Implicit: true,
		})
		w.annotate(elab, ft)
	}

	// Generalize single-variable bindings into a scheme; other patterns
	// bind their names through the polymorphic binder.
	if vp, ok := p.(*ast.VarPattern); ok {
		bound := ft
		fvs := w.state.FreeTypeVars(ft, innerDepth)
		if len(fvs) > 0 {
			bound = w.state.New(vp.GetToken(), &typesystem.Poly{Vars: fvs, Body: ft})
		}
		w.symbolTable.DefineValue(vp.Name.Value, bound)
		w.annotate(vp, bound)
		return elab, nil
	}
	if err := w.checkPattern(valTy, p, w.bindPoly); err != nil {
		return nil, err
	}
	return elab, nil
}

// resolveImplicit tries every visible instance against the placeholder's
// type. Exactly one candidate may match. Several matching candidates mean
// there is no unique instance: that is an ErrT011 diagnostic at any binding
// level. No match returns false and leaves the placeholder to the caller.
func (w *walker) resolveImplicit(ph *ast.ImplicitArgument) (bool, *diagnostics.DiagnosticError) {
	candidates := w.symbolTable.ImplicitCandidates()
	if len(candidates) == 0 {
		return false, nil
	}
	snap := w.state.SnapshotInstances()
	depth := w.symbolTable.Depth()

	matches := 0
	winner := -1
	for i, cand := range candidates {
		w.state.RestoreInstances(snap)
		candTy := w.state.Instantiate(cand.Type, ph.Token, depth)
		if w.state.Unify(ph.Type, candTy) == nil {
			matches++
			if winner < 0 {
				winner = i
			}
		}
	}
	w.state.RestoreInstances(snap)

	if matches == 0 {
		return false, nil
	}
	if matches > 1 {
		return false, diagnostics.NewError(
			diagnostics.ErrT011,
			ph.Token,
			fmt.Sprintf("ambiguous implicit instance for %s", w.state.Flatten(ph.Type)),
		)
	}

	cand := candidates[winner]
	candTy := w.state.Instantiate(cand.Type, ph.Token, depth)
	if err := w.state.Unify(ph.Type, candTy); err != nil {
		return false, w.diagFromUnify(ph.Token, err)
	}
	ph.Resolved = &ast.VariableExpression{
		Token: ph.Token,
		Name:  &ast.Bare{Name: &ast.Identifier{Token: ph.Token, Value: cand.Name}},
	}
	return true, nil
}
