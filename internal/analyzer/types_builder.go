package analyzer

import (
	"fmt"

	"github.com/lumelang/lume/internal/ast"
	"github.com/lumelang/lume/internal/diagnostics"
	"github.com/lumelang/lume/internal/typesystem"
)

// buildType imports a surface type annotation into the typesystem,
// allocating fresh state for it. Free type-variable names are memoized in
// vars so repeated mentions share one unification variable within a
// single annotation or declaration.
func (w *walker) buildType(t ast.Type, vars map[string]*typesystem.Expr) (*typesystem.Expr, *diagnostics.DiagnosticError) {
	switch n := t.(type) {
	case *ast.TypeVariable:
		if v, ok := vars[n.Name]; ok {
			return v, nil
		}
		v := w.state.NewVar(n.Token, n.Name, w.symbolTable.Depth())
		vars[n.Name] = v
		return v, nil

	case *ast.ArrowType:
		dom, err := w.buildType(n.Domain, vars)
		if err != nil {
			return nil, err
		}
		cod, err := w.buildType(n.Codomain, vars)
		if err != nil {
			return nil, err
		}
		return w.state.New(n.Token, &typesystem.Arrow{Dom: dom, Cod: cod, Implicit: n.Implicit}), nil

	case *ast.TupleType:
		elems := make([]*typesystem.Expr, len(n.Elements))
		for i, e := range n.Elements {
			var err *diagnostics.DiagnosticError
			elems[i], err = w.buildType(e, vars)
			if err != nil {
				return nil, err
			}
		}
		return w.state.New(n.Token, &typesystem.Tuple{Elems: elems}), nil

	case *ast.NamedType:
		decl, perr := w.symbolTable.TypeByPath(n.Name)
		if perr != nil {
			return nil, w.unbound(diagnostics.UnboundType, n.GetToken(), perr)
		}
		if len(n.Arguments) != len(decl.Params) {
			return nil, diagnostics.NewError(
				diagnostics.ErrT002,
				n.GetToken(),
				fmt.Sprintf("type %s expects %d parameter(s), got %d",
					decl.Name, len(decl.Params), len(n.Arguments)),
			)
		}
		params := make([]*typesystem.Expr, len(n.Arguments))
		for i, arg := range n.Arguments {
			var err *diagnostics.DiagnosticError
			params[i], err = w.buildType(arg, vars)
			if err != nil {
				return nil, err
			}
		}
		return w.state.New(n.Token, &typesystem.Ctor{Name: decl.Name, Params: params, Decl: decl.ID}), nil
	}
	return nil, diagnostics.NewError(
		diagnostics.ErrI903,
		t.GetToken(),
		fmt.Sprintf("unhandled type annotation %T", t),
	)
}
