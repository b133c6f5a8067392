package analyzer

import (
	"fmt"
	"strings"

	"github.com/lumelang/lume/internal/ast"
	"github.com/lumelang/lume/internal/diagnostics"
	"github.com/lumelang/lume/internal/symbols"
	"github.com/lumelang/lume/internal/token"
	"github.com/lumelang/lume/internal/typesystem"
)

// binder is how a pattern introduces a name. Function parameters bind
// monomorphically; match arms and let bindings bind polymorphically.
type binder func(name string, tok token.Token, typ *typesystem.Expr)

func (w *walker) bindMono(name string, _ token.Token, typ *typesystem.Expr) {
	w.symbolTable.DefineValue(name, typ)
}

func (w *walker) bindPoly(name string, tok token.Token, typ *typesystem.Expr) {
	ft := w.state.Flatten(typ)
	fvs := w.state.FreeTypeVars(ft, w.symbolTable.Depth())
	if len(fvs) > 0 {
		ft = w.state.New(tok, &typesystem.Poly{Vars: fvs, Body: ft})
	}
	w.symbolTable.DefineValue(name, ft)
}

// checkPattern verifies p against the expected type, introducing its
// names through bind.
func (w *walker) checkPattern(expected *typesystem.Expr, p ast.Pattern, bind binder) *diagnostics.DiagnosticError {
	switch n := p.(type) {
	case *ast.AnyPattern:
		w.annotate(n, expected)
		return nil

	case *ast.VarPattern:
		bind(n.Name.Value, n.GetToken(), expected)
		w.annotate(n, expected)
		return nil

	case *ast.AnnotatedPattern:
		t, err := w.buildType(n.TypeAnnotation, make(map[string]*typesystem.Expr))
		if err != nil {
			return err
		}
		if err := w.unify(n.GetToken(), expected, t); err != nil {
			return err
		}
		w.annotate(n, t)
		return w.checkPattern(t, n.Pattern, bind)

	case *ast.TuplePattern:
		elems := make([]*typesystem.Expr, len(n.Elements))
		for i := range n.Elements {
			elems[i] = w.state.NewVar(n.GetToken(), "", w.symbolTable.Depth())
		}
		tup := w.state.New(n.GetToken(), &typesystem.Tuple{Elems: elems})
		if err := w.unify(n.GetToken(), expected, tup); err != nil {
			return err
		}
		for i, sub := range n.Elements {
			if err := w.checkPattern(elems[i], sub, bind); err != nil {
				return err
			}
		}
		w.annotate(n, tup)
		return nil

	case *ast.OrPattern:
		return w.checkOrPattern(expected, n, bind)

	case *ast.IntPattern:
		intTy, ok := w.intType(n.Token)
		if !ok {
			return diagnostics.NewError(diagnostics.ErrI903, n.Token, "built-in int type missing")
		}
		w.annotate(n, intTy)
		return w.unify(n.Token, expected, intTy)

	case *ast.RecordPattern:
		return w.checkRecordPattern(expected, n, bind)

	case *ast.ConstructorPattern:
		cref, perr := w.symbolTable.CtorByPath(n.Name)
		if perr != nil {
			return w.unbound(diagnostics.UnboundConstructor, n.GetToken(), perr)
		}
		retTy, argTy, derr := w.ctorTypes(n.GetToken(), cref)
		if derr != nil {
			return derr
		}
		if err := w.unify(n.GetToken(), expected, retTy); err != nil {
			return err
		}
		w.annotate(n, retTy)
		if n.Argument != nil {
			return w.checkPattern(argTy, n.Argument, bind)
		}
		if err := w.unify(n.GetToken(), argTy, w.unitType(n.GetToken())); err != nil {
			return diagnostics.NewError(
				diagnostics.ErrT012,
				n.GetToken(),
				fmt.Sprintf("constructor %s expects an argument", n.Name.String()),
			).Wrap(err)
		}
		return nil
	}
	return diagnostics.NewError(
		diagnostics.ErrI903,
		p.GetToken(),
		fmt.Sprintf("unhandled pattern %T", p),
	)
}

// checkOrPattern checks both arms in fresh scopes and verifies that they
// bind the same names at unifiable types. The right arm's bindings become
// the live ones.
func (w *walker) checkOrPattern(expected *typesystem.Expr, n *ast.OrPattern, bind binder) *diagnostics.DiagnosticError {
	w.symbolTable.EnterScope()
	if err := w.checkPattern(expected, n.Left, bind); err != nil {
		w.symbolTable.LeaveScope()
		return err
	}
	left := w.symbolTable.LeaveScope()

	w.symbolTable.EnterScope()
	if err := w.checkPattern(expected, n.Right, bind); err != nil {
		w.symbolTable.LeaveScope()
		return err
	}
	right := w.symbolTable.LeaveScope()

	if left.DeclarationCount() > 0 || right.DeclarationCount() > 0 {
		names := append(left.DeclaredNames(), right.DeclaredNames()...)
		return diagnostics.NewError(
			diagnostics.ErrT006,
			n.GetToken(),
			fmt.Sprintf("declaration of %s is not allowed inside a pattern", strings.Join(names, ", ")),
		)
	}

	leftNames := left.ValueNames()
	rightNames := right.ValueNames()
	for _, name := range leftNames {
		if _, ok := right.ValueType(name); !ok {
			return w.errOneSide(n.GetToken(), name)
		}
	}
	for _, name := range rightNames {
		lt, ok := left.ValueType(name)
		if !ok {
			return w.errOneSide(n.GetToken(), name)
		}
		rt, _ := right.ValueType(name)
		if err := w.unify(n.GetToken(), lt, rt); err != nil {
			return err
		}
	}

	// Re-introduce the surviving bindings in the enclosing scope.
	for _, name := range rightNames {
		rt, _ := right.ValueType(name)
		w.symbolTable.DefineValue(name, rt)
	}
	w.annotate(n, expected)
	return nil
}

func (w *walker) errOneSide(tok token.Token, name string) *diagnostics.DiagnosticError {
	return diagnostics.NewError(
		diagnostics.ErrT005,
		tok,
		fmt.Sprintf("variable %s must occur on both sides of this pattern", name),
	)
}

// checkRecordPattern discovers the record declaration, unifies the
// expected type with a fresh instance of it, then checks each mentioned
// field's sub-pattern. Omitted fields are allowed.
func (w *walker) checkRecordPattern(expected *typesystem.Expr, n *ast.RecordPattern, bind binder) *diagnostics.DiagnosticError {
	if len(n.Fields) == 0 {
		return diagnostics.NewError(diagnostics.ErrT007, n.GetToken(), "record pattern has no fields")
	}
	decl, derr := w.resolveRecordDecl(n.GetToken(), expected, n.Fields[0].Name)
	if derr != nil {
		return derr
	}
	recTy, repl := w.freshDeclInstance(n.GetToken(), decl)
	if err := w.unify(n.GetToken(), expected, recTy); err != nil {
		return err
	}
	w.annotate(n, recTy)
	body := decl.Body.(*typesystem.RecordBody)
	for _, fp := range n.Fields {
		_, field, ok := recordFieldIndex(body, fieldName(fp.Name))
		if !ok {
			return w.errWrongField(fp.Name.GetToken(), fieldName(fp.Name), recTy)
		}
		fieldTy := w.state.Substitute(field.Type, repl)
		if err := w.checkPattern(fieldTy, fp.Pattern, bind); err != nil {
			return err
		}
	}
	return nil
}

// resolveRecordDecl finds the record declaration for a literal or pattern:
// by unaliasing the target type when it is already constrained, otherwise
// by looking up the first mentioned field name.
func (w *walker) resolveRecordDecl(tok token.Token, target *typesystem.Expr, firstField ast.LongIdent) (*typesystem.Decl, *diagnostics.DiagnosticError) {
	t := w.state.Unalias(target)
	if c, ok := t.Repr.(*typesystem.Ctor); ok {
		decl, ok := w.state.DeclByID(c.Decl)
		if !ok {
			return nil, diagnostics.NewError(
				diagnostics.ErrI903,
				tok,
				fmt.Sprintf("unregistered type declaration for %s", c.Name),
			)
		}
		if _, isRecord := decl.Body.(*typesystem.RecordBody); !isRecord {
			return nil, w.errWrongField(firstField.GetToken(), fieldName(firstField), t)
		}
		return decl, nil
	}
	fref, perr := w.symbolTable.FieldByPath(firstField)
	if perr != nil {
		return nil, w.unbound(diagnostics.UnboundField, firstField.GetToken(), perr)
	}
	return fref.Decl, nil
}

func (w *walker) errWrongField(tok token.Token, name string, typ *typesystem.Expr) *diagnostics.DiagnosticError {
	return diagnostics.NewError(
		diagnostics.ErrT008,
		tok,
		fmt.Sprintf("field %s does not belong to type %s", name, typ.StringIn(w.state)),
	)
}

// freshDeclInstance builds a constructor application of decl with fresh
// parameters, returning the substitution from the declaration's formal
// parameters.
func (w *walker) freshDeclInstance(tok token.Token, decl *typesystem.Decl) (*typesystem.Expr, map[typesystem.TypeID]*typesystem.Expr) {
	repl := make(map[typesystem.TypeID]*typesystem.Expr, len(decl.Params))
	params := make([]*typesystem.Expr, len(decl.Params))
	for i, p := range decl.Params {
		params[i] = w.state.NewVar(tok, "", w.symbolTable.Depth())
		repl[p.ID] = params[i]
	}
	return w.state.New(tok, &typesystem.Ctor{Name: decl.Name, Params: params, Decl: decl.ID}), repl
}

func recordFieldIndex(body *typesystem.RecordBody, name string) (int, typesystem.Field, bool) {
	for i, f := range body.Fields {
		if f.Name == name {
			return i, f, true
		}
	}
	return 0, typesystem.Field{}, false
}

// fieldName strips the module qualification off a field path; resolution
// of the path itself happens separately.
func fieldName(li ast.LongIdent) string {
	switch p := li.(type) {
	case *ast.Bare:
		return p.Name.Value
	case *ast.Dotted:
		return p.Name.Value
	default:
		return li.String()
	}
}

// ctorTypes instantiates a constructor's return and argument types with
// fresh declaration parameters.
func (w *walker) ctorTypes(tok token.Token, cref symbols.CtorRef) (*typesystem.Expr, *typesystem.Expr, *diagnostics.DiagnosticError) {
	body, ok := cref.Decl.Body.(*typesystem.VariantBody)
	if !ok {
		return nil, nil, diagnostics.NewError(
			diagnostics.ErrI903,
			tok,
			fmt.Sprintf("constructor index points at non-variant type %s", cref.Decl.Name),
		)
	}
	ctor := body.Ctors[cref.Index]
	recTy, repl := w.freshDeclInstance(tok, cref.Decl)

	retTy := recTy
	if ctor.Result != nil {
		retTy = w.state.Substitute(ctor.Result, repl)
	}

	var argTy *typesystem.Expr
	if ctor.Record != typesystem.NoDecl {
		argDecl, ok := w.state.DeclByID(ctor.Record)
		if !ok {
			return nil, nil, diagnostics.NewError(
				diagnostics.ErrI903,
				tok,
				fmt.Sprintf("unregistered inline record for constructor %s", ctor.Name),
			)
		}
		params := make([]*typesystem.Expr, len(argDecl.Params))
		for i, p := range argDecl.Params {
			params[i] = w.state.Substitute(p, repl)
		}
		argTy = w.state.New(tok, &typesystem.Ctor{Name: argDecl.Name, Params: params, Decl: argDecl.ID})
	} else if len(ctor.Args) == 1 {
		// A single-argument constructor takes its element directly, not a
		// 1-tuple of it.
		argTy = w.state.Substitute(ctor.Args[0], repl)
	} else {
		tup := w.state.New(tok, &typesystem.Tuple{Elems: ctor.Args})
		argTy = w.state.Substitute(tup, repl)
	}
	return retTy, argTy, nil
}
