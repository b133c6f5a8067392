package analyzer

import (
	"testing"

	"github.com/lumelang/lume/internal/ast"
	"github.com/lumelang/lume/internal/config"
	"github.com/lumelang/lume/internal/diagnostics"
)

// showDecl is `type ('a) Show = { show_impl : 'a -> string }` — the
// instance dictionary used by the implicit-resolution tests.
func showDecl() *ast.TypeDeclaration {
	return &ast.TypeDeclaration{
		Token:  tk("type"),
		Name:   id("Show"),
		Params: []*ast.Identifier{id("a")},
		Body: &ast.RecordType{Fields: []*ast.FieldDecl{
			{Name: id("show_impl"), Type: arrowTy(tvar("a"), namedTy("string"), false)},
		}},
	}
}

// showFn is `let (show : {Show 'a} -> 'a -> string) = fun {d} -> fun v -> ...`:
// a function whose first parameter is implicit.
func showFn() *ast.ValueStatement {
	return &ast.ValueStatement{
		Token: tk("let"),
		Pattern: &ast.AnnotatedPattern{
			Token:   tk(":"),
			Pattern: &ast.VarPattern{Token: tk("show"), Name: id("show")},
			TypeAnnotation: arrowTy(
				namedTy("Show", tvar("a")),
				arrowTy(tvar("a"), namedTy("string"), false),
				true,
			),
		},
		Value: &ast.FunctionLiteral{
			Token:    tk("fun"),
			Param:    &ast.VarPattern{Token: tk("d"), Name: id("d")},
			Implicit: true,
			Body: lam("v", ap(&ast.FieldExpression{
				Token: tk("."),
				Left:  vr("d"),
				Field: nm("show_impl"),
			}, vr("v"))),
		},
	}
}

// showIntInstance is `instance show_int = { show_impl = fun n -> string_of_int n }`.
func showIntInstance() *ast.InstanceStatement {
	return &ast.InstanceStatement{
		Token: tk("instance"),
		Name:  id("show_int"),
		Value: &ast.RecordExpression{
			Token: tk("{"),
			Fields: []*ast.FieldAssign{
				{Name: nm("show_impl"), Value: lam("n", ap(vr("string_of_int"), vr("n")))},
			},
		},
	}
}

func TestShowSignatureGeneralizes(t *testing.T) {
	a, _ := analyze(t, showDecl(), showFn())
	typ, ok := a.SymbolTable().LookupValue("show")
	if !ok {
		t.Fatal("show not bound")
	}
	if got := typ.String(); got != "forall 'a. {Show<'a>} -> 'a -> string" {
		t.Fatalf("show : %s", got)
	}
}

func TestImplicitResolutionAtToplevel(t *testing.T) {
	// With show_int in scope, `let p = fun x -> show x` pins x to int and
	// fills the placeholder with a reference to show_int.
	a, out := analyze(t,
		showDecl(),
		showFn(),
		showIntInstance(),
		letStmt("p", lam("x", ap(vr("show"), vr("x")))))

	if got := typeOf(t, a, "p"); got != "int -> string" {
		t.Fatalf("p : %s, want int -> string", got)
	}

	// The elaborated body must apply show to the placeholder before the
	// explicit argument, and the placeholder must name the instance.
	val := out.Statements[3].(*ast.ValueStatement).Value
	body := val.(*ast.FunctionLiteral).Body
	outer, ok := body.(*ast.ApplyExpression)
	if !ok {
		t.Fatalf("body is %T, not an application", body)
	}
	inner, ok := outer.Function.(*ast.ApplyExpression)
	if !ok {
		t.Fatalf("callee is %T; the implicit application is missing", outer.Function)
	}
	ph, ok := inner.Arguments[0].(*ast.ImplicitArgument)
	if !ok {
		t.Fatalf("implicit argument slot is %T", inner.Arguments[0])
	}
	res, ok := ph.Resolved.(*ast.VariableExpression)
	if !ok || res.Name.String() != "show_int" {
		t.Fatalf("placeholder resolved to %v, want show_int", ph.Resolved)
	}
}

func TestImplicitResolutionFailsWithoutInstance(t *testing.T) {
	err := expectAnalyzerError(t, diagnostics.ErrT011,
		showDecl(),
		showFn(),
		letStmt("p", lam("x", ap(vr("show"), vr("x")))))
	if err.Message == "" {
		t.Fatal("NoInstance diagnostic must describe the missing instance type")
	}
}

func TestImplicitResolutionAmbiguity(t *testing.T) {
	// Two instances for Show int: resolution must refuse to pick one.
	second := &ast.InstanceStatement{
		Token: tk("instance"),
		Name:  id("show_int_again"),
		Value: &ast.RecordExpression{
			Token: tk("{"),
			Fields: []*ast.FieldAssign{
				{Name: nm("show_impl"), Value: lam("n", ap(vr("string_of_int"), vr("n")))},
			},
		},
	}
	expectErrorContains(t, diagnostics.ErrT011, "ambiguous",
		showDecl(),
		showFn(),
		showIntInstance(),
		second,
		letStmt("p", lam("x", ap(vr("show"), vr("x")))))
}

func TestImplicitAbstractionAtNestedBinding(t *testing.T) {
	// let f = fun y -> let g = fun x -> show x in 0
	// With no instance in scope, g's placeholder stays generic and g is
	// rebuilt with an implicit parameter instead of failing: only
	// toplevel bindings demand resolution.
	_, out := analyze(t,
		showDecl(),
		showFn(),
		letStmt("f", lam("y", &ast.LetExpression{
			Token:   tk("let"),
			Pattern: &ast.VarPattern{Token: tk("g"), Name: id("g")},
			Value:   lam("x", ap(vr("show"), vr("x"))),
			Body:    lit(0),
		})))

	val := out.Statements[2].(*ast.ValueStatement).Value
	letE := val.(*ast.FunctionLiteral).Body.(*ast.LetExpression)
	g, ok := letE.Value.(*ast.FunctionLiteral)
	if !ok || !g.Implicit {
		t.Fatalf("g must be wrapped in an implicit lambda, got %T", letE.Value)
	}
	inner := g.Body.(*ast.FunctionLiteral).Body.(*ast.ApplyExpression)
	ph, ok := inner.Function.(*ast.ApplyExpression).Arguments[0].(*ast.ImplicitArgument)
	if !ok {
		t.Fatal("the implicit application must survive in g's body")
	}
	res, ok := ph.Resolved.(*ast.VariableExpression)
	if !ok || res.Name.String() != g.Param.(*ast.VarPattern).Name.Value {
		t.Fatalf("placeholder must refer to the abstracted parameter, got %v", ph.Resolved)
	}
}

func TestLenientModeLeavesPlaceholderPending(t *testing.T) {
	// With strict instances off (REPL/LSP mode) an unresolved toplevel
	// placeholder is not an error.
	a := NewWithOptions(config.Options{StrictInstances: false, MaxAliasDepth: 64})
	_, err := a.Analyze(prog(
		showDecl(),
		showFn(),
		letStmt("p", lam("x", ap(vr("show"), vr("x"))))))
	if err != nil {
		t.Fatalf("lenient mode must not fail: %s", err)
	}
}
