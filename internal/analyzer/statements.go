package analyzer

import (
	"github.com/lumelang/lume/internal/ast"
	"github.com/lumelang/lume/internal/diagnostics"
	"github.com/lumelang/lume/internal/typesystem"
)

func (w *walker) VisitValueStatement(n *ast.ValueStatement) {
	value, err := w.checkBinding(n.Pattern, n.Value, true)
	if err != nil {
		w.setErr(err)
		return
	}
	w.elaborated = append(w.elaborated, &ast.ValueStatement{
		Token:   n.Token,
		Pattern: n.Pattern,
		Value:   value,
	})
}

func (w *walker) VisitInstanceStatement(n *ast.InstanceStatement) {
	vp := &ast.VarPattern{Token: n.Name.Token, Name: n.Name}
	value, err := w.checkBinding(vp, n.Value, true)
	if err != nil {
		w.setErr(err)
		return
	}
	typ, ok := w.symbolTable.LookupValue(n.Name.Value)
	if !ok {
		w.setErr(diagnostics.NewError(
			diagnostics.ErrI902,
			n.GetToken(),
			"instance binding left no value behind",
		))
		return
	}
	w.symbolTable.DefineImplicit(n.Name.Value, typ)
	w.elaborated = append(w.elaborated, &ast.InstanceStatement{
		Token: n.Token,
		Name:  n.Name,
		Value: value,
	})
}

func (w *walker) VisitTypeDeclaration(n *ast.TypeDeclaration) {
	if err := w.importTypeDecl(n); err != nil {
		w.setErr(err)
		return
	}
	w.elaborated = append(w.elaborated, n)
}

// importTypeDecl allocates a fresh declaration id, freshens the formal
// parameters, and registers the declaration. The name is visible while
// the body is built so recursive declarations resolve.
func (w *walker) importTypeDecl(n *ast.TypeDeclaration) *diagnostics.DiagnosticError {
	vars := make(map[string]*typesystem.Expr)
	params := make([]*typesystem.Expr, len(n.Params))
	for i, p := range n.Params {
		v := w.state.NewVar(p.Token, p.Value, w.symbolTable.Depth())
		vars[p.Value] = v
		params[i] = v
	}
	decl := &typesystem.Decl{
		Name:   n.Name.Value,
		Params: params,
		ID:     w.state.FreshDeclID(),
		Body:   &typesystem.AbstractBody{},
	}
	w.symbolTable.DefineTypeDecl(decl)

	switch b := n.Body.(type) {
	case *ast.AbstractType, nil:
		// registered as-is
	case *ast.AliasType:
		t, err := w.buildType(b.Type, vars)
		if err != nil {
			return err
		}
		decl.Body = &typesystem.AliasBody{Type: t}
	case *ast.RecordType:
		fields, err := w.buildRecordFields(b, vars)
		if err != nil {
			return err
		}
		decl.Body = &typesystem.RecordBody{Fields: fields}
	case *ast.VariantType:
		ctors := make([]typesystem.Constructor, 0, len(b.Constructors))
		for _, c := range b.Constructors {
			ctor := typesystem.Constructor{Name: c.Name.Value, Record: typesystem.NoDecl}
			if c.Record != nil {
				fields, err := w.buildRecordFields(c.Record, vars)
				if err != nil {
					return err
				}
				// The inline record is its own declaration sharing the
				// variant's parameters.
				inline := &typesystem.Decl{
					Name:   decl.Name + "." + c.Name.Value,
					Params: params,
					ID:     w.state.FreshDeclID(),
					Body:   &typesystem.RecordBody{Fields: fields},
				}
				w.symbolTable.DefineTypeDecl(inline)
				ctor.Record = inline.ID
			} else {
				args := make([]*typesystem.Expr, len(c.Arguments))
				for i, at := range c.Arguments {
					var err *diagnostics.DiagnosticError
					args[i], err = w.buildType(at, vars)
					if err != nil {
						return err
					}
				}
				ctor.Args = args
			}
			if c.ReturnType != nil {
				ret, err := w.buildType(c.ReturnType, vars)
				if err != nil {
					return err
				}
				ctor.Result = ret
			}
			ctors = append(ctors, ctor)
		}
		decl.Body = &typesystem.VariantBody{Ctors: ctors}
	}

	// Re-register so the final body's fields and constructors are indexed.
	w.symbolTable.DefineTypeDecl(decl)
	return nil
}

func (w *walker) buildRecordFields(rt *ast.RecordType, vars map[string]*typesystem.Expr) ([]typesystem.Field, *diagnostics.DiagnosticError) {
	fields := make([]typesystem.Field, 0, len(rt.Fields))
	for _, f := range rt.Fields {
		t, err := w.buildType(f.Type, vars)
		if err != nil {
			return nil, err
		}
		fields = append(fields, typesystem.Field{Name: f.Name.Value, Type: t})
	}
	return fields, nil
}

func (w *walker) VisitModuleStatement(n *ast.ModuleStatement) {
	switch b := n.Body.(type) {
	case *ast.Structure:
		w.symbolTable.EnterScope()
		saved := w.elaborated
		w.elaborated = nil
		for _, stmt := range b.Statements {
			stmt.Accept(w)
			if w.err != nil {
				w.symbolTable.LeaveScope()
				w.elaborated = saved
				return
			}
		}
		inner := w.elaborated
		w.elaborated = saved
		scope := w.symbolTable.LeaveScope()
		w.symbolTable.DefineModule(n.Name.Value, scope)
		w.elaborated = append(w.elaborated, &ast.ModuleStatement{
			Token: n.Token,
			Name:  n.Name,
			Body:  &ast.Structure{Statements: inner},
		})
	case *ast.ModulePath:
		scope, perr := w.symbolTable.ModuleByPath(b.Name)
		if perr != nil {
			w.setErr(w.unbound(diagnostics.UnboundModule, b.Name.GetToken(), perr))
			return
		}
		w.symbolTable.DefineModule(n.Name.Value, scope)
		w.elaborated = append(w.elaborated, n)
	}
}

func (w *walker) VisitOpenStatement(n *ast.OpenStatement) {
	scope, perr := w.symbolTable.ModuleByPath(n.Path)
	if perr != nil {
		w.setErr(w.unbound(diagnostics.UnboundModule, n.Path.GetToken(), perr))
		return
	}
	w.symbolTable.Open(scope)
	w.elaborated = append(w.elaborated, n)
}
