package analyzer

import (
	"github.com/lumelang/lume/internal/config"
	"github.com/lumelang/lume/internal/symbols"
	"github.com/lumelang/lume/internal/token"
	"github.com/lumelang/lume/internal/typesystem"
)

// seedBuiltins populates the global scope with the built-in type
// declarations and a small set of primitive values. The runtime provides
// the implementations; the checker only needs the signatures.
func seedBuiltins(table *symbols.SymbolTable) {
	s := table.State()
	tok := token.Synthetic("builtin")

	intDecl := &typesystem.Decl{
		Name: config.IntTypeName,
		ID:   s.FreshDeclID(),
		Body: &typesystem.AbstractBody{},
	}
	table.DefineTypeDecl(intDecl)

	stringDecl := &typesystem.Decl{
		Name: config.StringTypeName,
		ID:   s.FreshDeclID(),
		Body: &typesystem.AbstractBody{},
	}
	table.DefineTypeDecl(stringDecl)

	boolDecl := &typesystem.Decl{
		Name: config.BoolTypeName,
		ID:   s.FreshDeclID(),
	}
	boolDecl.Body = &typesystem.VariantBody{
		Ctors: []typesystem.Constructor{
			{Name: config.TrueCtorName},
			{Name: config.FalseCtorName},
		},
	}
	table.DefineTypeDecl(boolDecl)

	intTy := func() *typesystem.Expr {
		return s.New(tok, &typesystem.Ctor{Name: intDecl.Name, Decl: intDecl.ID})
	}
	stringTy := func() *typesystem.Expr {
		return s.New(tok, &typesystem.Ctor{Name: stringDecl.Name, Decl: stringDecl.ID})
	}
	boolTy := func() *typesystem.Expr {
		return s.New(tok, &typesystem.Ctor{Name: boolDecl.Name, Decl: boolDecl.ID})
	}
	unitTy := func() *typesystem.Expr {
		return s.New(tok, &typesystem.Tuple{})
	}
	arrow := func(dom, cod *typesystem.Expr) *typesystem.Expr {
		return s.New(tok, &typesystem.Arrow{Dom: dom, Cod: cod})
	}

	binOp := func() *typesystem.Expr {
		return arrow(intTy(), arrow(intTy(), intTy()))
	}
	for _, op := range []string{"+", "-", "*", "/"} {
		table.DefineValue(op, binOp())
	}
	for _, op := range []string{"=", "<", ">"} {
		table.DefineValue(op, arrow(intTy(), arrow(intTy(), boolTy())))
	}
	table.DefineValue("string_of_int", arrow(intTy(), stringTy()))
	table.DefineValue("print", arrow(stringTy(), unitTy()))
}

// intType builds a fresh reference to the built-in integer type.
func (w *walker) intType(tok token.Token) (*typesystem.Expr, bool) {
	decl, ok := w.symbolTable.LookupTypeDecl(config.IntTypeName)
	if !ok {
		return nil, false
	}
	return w.state.New(tok, &typesystem.Ctor{Name: decl.Name, Decl: decl.ID}), true
}

// unitType builds the empty tuple.
func (w *walker) unitType(tok token.Token) *typesystem.Expr {
	return w.state.New(tok, &typesystem.Tuple{})
}
