package analyzer

import (
	"os"
	"testing"

	"github.com/lumelang/lume/internal/ast"
	"github.com/lumelang/lume/internal/config"
	"github.com/lumelang/lume/internal/token"
	"github.com/lumelang/lume/internal/typesystem"
)

func TestMain(m *testing.M) {
	config.TestMode = true
	os.Exit(m.Run())
}

// ---------------------------------------------------------------------------
// AST construction helpers. Parsing is a separate component, so tests
// assemble programs directly.
// ---------------------------------------------------------------------------

func tk(lex string) token.Token {
	return token.Token{Type: token.IDENT_LOWER, Lexeme: lex, Line: 1, Column: 1}
}

func id(name string) *ast.Identifier {
	return &ast.Identifier{Token: tk(name), Value: name}
}

func nm(name string) ast.LongIdent {
	return &ast.Bare{Name: id(name)}
}

func vr(name string) *ast.VariableExpression {
	return &ast.VariableExpression{Token: tk(name), Name: nm(name)}
}

func lit(n int64) *ast.IntegerLiteral {
	return &ast.IntegerLiteral{Token: tk("int"), Value: n}
}

func lam(param string, body ast.Expression) *ast.FunctionLiteral {
	return &ast.FunctionLiteral{
		Token: tk("fun"),
		Param: &ast.VarPattern{Token: tk(param), Name: id(param)},
		Body:  body,
	}
}

func ap(f ast.Expression, args ...ast.Expression) *ast.ApplyExpression {
	return &ast.ApplyExpression{Token: f.GetToken(), Function: f, Arguments: args}
}

func letStmt(name string, value ast.Expression) *ast.ValueStatement {
	return &ast.ValueStatement{
		Token:   tk("let"),
		Pattern: &ast.VarPattern{Token: tk(name), Name: id(name)},
		Value:   value,
	}
}

func tvar(name string) *ast.TypeVariable {
	return &ast.TypeVariable{Token: tk("'" + name), Name: name}
}

func namedTy(name string, args ...ast.Type) *ast.NamedType {
	return &ast.NamedType{Token: tk(name), Name: nm(name), Arguments: args}
}

func arrowTy(dom, cod ast.Type, implicit bool) *ast.ArrowType {
	return &ast.ArrowType{Token: tk("->"), Domain: dom, Codomain: cod, Implicit: implicit}
}

func prog(stmts ...ast.Statement) *ast.Program {
	return &ast.Program{File: "test.lm", Statements: stmts}
}

func analyze(t *testing.T, stmts ...ast.Statement) (*Analyzer, *ast.Program) {
	t.Helper()
	a := New()
	out, err := a.Analyze(prog(stmts...))
	if err != nil {
		t.Fatalf("analysis failed: %s", err)
	}
	return a, out
}

// typeOf returns the flattened printed type of a top-level binding.
func typeOf(t *testing.T, a *Analyzer, name string) string {
	t.Helper()
	typ, ok := a.SymbolTable().LookupValue(name)
	if !ok {
		t.Fatalf("binding %s not found", name)
	}
	return a.State().Flatten(typ).String()
}

// scheme asserts the binding is polymorphic and returns its parts.
func scheme(t *testing.T, a *Analyzer, name string) ([]*typesystem.Expr, *typesystem.Expr) {
	t.Helper()
	typ, ok := a.SymbolTable().LookupValue(name)
	if !ok {
		t.Fatalf("binding %s not found", name)
	}
	p, ok := typ.Repr.(*typesystem.Poly)
	if !ok {
		t.Fatalf("binding %s is not generalized: %s", name, typ)
	}
	return p.Vars, p.Body
}

// eitherDecl is `type either = A of int | B of int`.
func eitherDecl() *ast.TypeDeclaration {
	return &ast.TypeDeclaration{
		Token: tk("type"),
		Name:  id("either"),
		Body: &ast.VariantType{Constructors: []*ast.ConstructorDecl{
			{Name: id("A"), Arguments: []ast.Type{namedTy("int")}},
			{Name: id("B"), Arguments: []ast.Type{namedTy("int")}},
		}},
	}
}

// pointDecl is `type t = { x : int; y : int }`.
func pointDecl() *ast.TypeDeclaration {
	return &ast.TypeDeclaration{
		Token: tk("type"),
		Name:  id("t"),
		Body: &ast.RecordType{Fields: []*ast.FieldDecl{
			{Name: id("x"), Type: namedTy("int")},
			{Name: id("y"), Type: namedTy("int")},
		}},
	}
}

// ---------------------------------------------------------------------------
// Generalization
// ---------------------------------------------------------------------------

func TestIdentityFunctionGeneralizes(t *testing.T) {
	// let id = fun x -> x  :  forall a. a -> a
	a, _ := analyze(t, letStmt("id", lam("x", vr("x"))))

	vars, body := scheme(t, a, "id")
	if len(vars) != 1 {
		t.Fatalf("expected one quantified variable, got %d", len(vars))
	}
	arrow, ok := body.Repr.(*typesystem.Arrow)
	if !ok {
		t.Fatalf("scheme body is %s, not an arrow", body)
	}
	dom := a.State().Resolve(arrow.Dom)
	cod := a.State().Resolve(arrow.Cod)
	if dom.ID != cod.ID || dom.ID != vars[0].ID {
		t.Fatalf("domain and codomain must both be the quantified variable")
	}
}

func TestPairConstructorGeneralizes(t *testing.T) {
	// let pair = fun x -> fun y -> (x, y)  :  forall a b. a -> b -> (a, b)
	a, _ := analyze(t, letStmt("pair",
		lam("x", lam("y", &ast.TupleExpression{
			Token:    tk("("),
			Elements: []ast.Expression{vr("x"), vr("y")},
		}))))

	vars, body := scheme(t, a, "pair")
	if len(vars) != 2 {
		t.Fatalf("expected two quantified variables, got %d", len(vars))
	}
	s := a.State()
	outer, ok := body.Repr.(*typesystem.Arrow)
	if !ok {
		t.Fatalf("scheme body is %s, not an arrow", body)
	}
	inner, ok := s.Resolve(outer.Cod).Repr.(*typesystem.Arrow)
	if !ok {
		t.Fatalf("codomain is not an arrow: %s", body)
	}
	tup, ok := s.Resolve(inner.Cod).Repr.(*typesystem.Tuple)
	if !ok || len(tup.Elems) != 2 {
		t.Fatalf("result is not a pair: %s", body)
	}
	x := s.Resolve(outer.Dom)
	y := s.Resolve(inner.Dom)
	if x.ID == y.ID {
		t.Fatal("the two parameters must stay distinct")
	}
	if s.Resolve(tup.Elems[0]).ID != x.ID || s.Resolve(tup.Elems[1]).ID != y.ID {
		t.Fatal("tuple components must be the parameters, in order")
	}
}

func TestLetDoesNotGeneralizeEnclosingVariables(t *testing.T) {
	// let f = fun x -> let y = x in y  :  forall a. a -> a
	// y's binding must not capture x's variable into its own scheme in a
	// way that detaches it from the parameter.
	a, _ := analyze(t, letStmt("f",
		lam("x", &ast.LetExpression{
			Token:   tk("let"),
			Pattern: &ast.VarPattern{Token: tk("y"), Name: id("y")},
			Value:   vr("x"),
			Body:    vr("y"),
		})))

	vars, body := scheme(t, a, "f")
	if len(vars) != 1 {
		t.Fatalf("expected one quantified variable, got %d", len(vars))
	}
	arrow := body.Repr.(*typesystem.Arrow)
	if a.State().Resolve(arrow.Dom).ID != a.State().Resolve(arrow.Cod).ID {
		t.Fatal("f must still be the identity on its parameter's type")
	}
}

// ---------------------------------------------------------------------------
// Records and variants
// ---------------------------------------------------------------------------

func TestRecordFieldProjection(t *testing.T) {
	// type t = { x : int; y : int }
	// let f = fun r -> r.x  :  t -> int
	a, _ := analyze(t,
		pointDecl(),
		letStmt("f", lam("r", &ast.FieldExpression{
			Token: tk("."),
			Left:  vr("r"),
			Field: nm("x"),
		})))

	if got := typeOf(t, a, "f"); got != "t -> int" {
		t.Fatalf("f : %s, want t -> int", got)
	}
}

func TestRecordLiteralComplete(t *testing.T) {
	a, _ := analyze(t,
		pointDecl(),
		letStmt("origin", &ast.RecordExpression{
			Token: tk("{"),
			Fields: []*ast.FieldAssign{
				{Name: nm("x"), Value: lit(0)},
				{Name: nm("y"), Value: lit(0)},
			},
		}))
	if got := typeOf(t, a, "origin"); got != "t" {
		t.Fatalf("origin : %s, want t", got)
	}
}

func TestRecordExtension(t *testing.T) {
	// let shifted = { origin with x = 1 }
	a, _ := analyze(t,
		pointDecl(),
		letStmt("origin", &ast.RecordExpression{
			Token: tk("{"),
			Fields: []*ast.FieldAssign{
				{Name: nm("x"), Value: lit(0)},
				{Name: nm("y"), Value: lit(0)},
			},
		}),
		letStmt("shifted", &ast.RecordExpression{
			Token:   tk("{"),
			Extends: vr("origin"),
			Fields: []*ast.FieldAssign{
				{Name: nm("x"), Value: lit(1)},
			},
		}))
	if got := typeOf(t, a, "shifted"); got != "t" {
		t.Fatalf("shifted : %s, want t", got)
	}
}

func TestOrPatternChecks(t *testing.T) {
	// type either = A of int | B of int
	// let get = fun e -> match e with A n | B n -> n  :  either -> int
	a, _ := analyze(t,
		eitherDecl(),
		letStmt("get", lam("e", &ast.MatchExpression{
			Token:     tk("match"),
			Scrutinee: vr("e"),
			Arms: []*ast.MatchArm{{
				Token: tk("|"),
				Pattern: &ast.OrPattern{
					Token: tk("|"),
					Left: &ast.ConstructorPattern{
						Token: tk("A"), Name: nm("A"),
						Argument: &ast.VarPattern{Token: tk("n"), Name: id("n")},
					},
					Right: &ast.ConstructorPattern{
						Token: tk("B"), Name: nm("B"),
						Argument: &ast.VarPattern{Token: tk("n"), Name: id("n")},
					},
				},
				Body: vr("n"),
			}},
		})))

	if got := typeOf(t, a, "get"); got != "either -> int" {
		t.Fatalf("get : %s, want either -> int", got)
	}
}

func TestConstructorSingleTupleArgumentFolds(t *testing.T) {
	// A single-argument constructor applies to the element directly.
	a, _ := analyze(t,
		eitherDecl(),
		letStmt("a", &ast.ConstructorExpression{
			Token: tk("A"), Name: nm("A"), Argument: lit(1),
		}))
	if got := typeOf(t, a, "a"); got != "either" {
		t.Fatalf("a : %s, want either", got)
	}
}

func TestAliasUnfoldsAgainstDeclaredType(t *testing.T) {
	// type t = {...}; type u = t; annotated u flows where t is expected.
	a, _ := analyze(t,
		pointDecl(),
		&ast.TypeDeclaration{
			Token: tk("type"),
			Name:  id("u"),
			Body:  &ast.AliasType{Type: namedTy("t")},
		},
		letStmt("f", lam("r", &ast.FieldExpression{
			Token: tk("."),
			Left:  vr("r"),
			Field: nm("x"),
		})),
		letStmt("g", &ast.AnnotatedExpression{
			Token:          tk(":"),
			Expression:     vr("f"),
			TypeAnnotation: arrowTy(namedTy("u"), namedTy("int"), false),
		}))
	if got := typeOf(t, a, "g"); got != "u -> int" {
		t.Fatalf("g : %s, want u -> int", got)
	}
}

// ---------------------------------------------------------------------------
// Modules
// ---------------------------------------------------------------------------

func TestModuleBindingAndQualifiedAccess(t *testing.T) {
	// module M = struct let v = 1 end
	// let a = M.v
	// open M
	// let b = v
	mod := &ast.ModuleStatement{
		Token: tk("module"),
		Name:  id("M"),
		Body:  &ast.Structure{Statements: []ast.Statement{letStmt("v", lit(1))}},
	}
	qualified := &ast.VariableExpression{
		Token: tk("M"),
		Name:  &ast.Dotted{Path: nm("M"), Name: id("v")},
	}
	a, _ := analyze(t,
		mod,
		letStmt("a", qualified),
		&ast.OpenStatement{Token: tk("open"), Path: nm("M")},
		letStmt("b", vr("v")))

	if got := typeOf(t, a, "a"); got != "int" {
		t.Fatalf("a : %s, want int", got)
	}
	if got := typeOf(t, a, "b"); got != "int" {
		t.Fatalf("b : %s, want int", got)
	}
}

// ---------------------------------------------------------------------------
// Annotation and sequencing
// ---------------------------------------------------------------------------

func TestAnnotationConstrains(t *testing.T) {
	a, _ := analyze(t, letStmt("n", &ast.AnnotatedExpression{
		Token:          tk(":"),
		Expression:     lit(3),
		TypeAnnotation: namedTy("int"),
	}))
	if got := typeOf(t, a, "n"); got != "int" {
		t.Fatalf("n : %s, want int", got)
	}
}

func TestSequenceRequiresUnitFirst(t *testing.T) {
	// let s = print (string_of_int 1); 2
	a, _ := analyze(t, letStmt("s", &ast.SequenceExpression{
		Token:  tk(";"),
		First:  ap(vr("print"), ap(vr("string_of_int"), lit(1))),
		Second: lit(2),
	}))
	if got := typeOf(t, a, "s"); got != "int" {
		t.Fatalf("s : %s, want int", got)
	}
}

// ---------------------------------------------------------------------------
// Elaborated output invariants
// ---------------------------------------------------------------------------

func TestAnnotationsAreFixedPoints(t *testing.T) {
	a, out := analyze(t,
		pointDecl(),
		letStmt("f", lam("r", &ast.FieldExpression{
			Token: tk("."),
			Left:  vr("r"),
			Field: nm("x"),
		})),
		letStmt("n", ap(vr("f"), &ast.RecordExpression{
			Token: tk("{"),
			Fields: []*ast.FieldAssign{
				{Name: nm("x"), Value: lit(1)},
				{Name: nm("y"), Value: lit(2)},
			},
		})))
	if len(out.Statements) != 3 {
		t.Fatalf("expected 3 elaborated statements, got %d", len(out.Statements))
	}
	s := a.State()
	for node, typ := range a.TypeMap {
		again := s.Flatten(typ)
		if again.String() != typ.String() {
			t.Fatalf("annotation of %T is not a fixed point: %s vs %s", node, typ, again)
		}
	}
}
