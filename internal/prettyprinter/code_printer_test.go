package prettyprinter

import (
	"strings"
	"testing"

	"github.com/lumelang/lume/internal/ast"
	"github.com/lumelang/lume/internal/token"
)

func tk(lex string) token.Token {
	return token.Token{Lexeme: lex, Line: 1, Column: 1}
}

func id(name string) *ast.Identifier {
	return &ast.Identifier{Token: tk(name), Value: name}
}

func nm(name string) ast.LongIdent { return &ast.Bare{Name: id(name)} }

func TestPrintLetBinding(t *testing.T) {
	p := NewCodePrinter()
	got := p.PrintProgram(&ast.Program{Statements: []ast.Statement{
		&ast.ValueStatement{
			Token:   tk("let"),
			Pattern: &ast.VarPattern{Token: tk("f"), Name: id("f")},
			Value: &ast.FunctionLiteral{
				Token: tk("fun"),
				Param: &ast.VarPattern{Token: tk("x"), Name: id("x")},
				Body:  &ast.VariableExpression{Token: tk("x"), Name: nm("x")},
			},
		},
	}})
	if got != "let f = fun x -> x" {
		t.Fatalf("printed %q", got)
	}
}

func TestPrintMatchWithOrPattern(t *testing.T) {
	p := NewCodePrinter()
	match := &ast.MatchExpression{
		Token:     tk("match"),
		Scrutinee: &ast.VariableExpression{Token: tk("e"), Name: nm("e")},
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
			Body: &ast.VariableExpression{Token: tk("n"), Name: nm("n")},
		}},
	}
	got := p.PrintProgram(&ast.Program{Statements: []ast.Statement{
		&ast.ValueStatement{
			Token:   tk("let"),
			Pattern: &ast.VarPattern{Token: tk("g"), Name: id("g")},
			Value:   match,
		},
	}})
	for _, want := range []string{"match e with", "| A n | B n -> n"} {
		if !strings.Contains(got, want) {
			t.Fatalf("printed %q, want fragment %q", got, want)
		}
	}
}

func TestPrintImplicitPlaceholder(t *testing.T) {
	p := NewCodePrinter()
	ph := &ast.ImplicitArgument{Token: tk("$imp1"), Name: "$imp1"}
	apply := &ast.ApplyExpression{
		Token:     tk("show"),
		Function:  &ast.VariableExpression{Token: tk("show"), Name: nm("show")},
		Arguments: []ast.Expression{ph},
	}
	got := p.PrintProgram(&ast.Program{Statements: []ast.Statement{
		&ast.ValueStatement{
			Token:   tk("let"),
			Pattern: &ast.VarPattern{Token: tk("s"), Name: id("s")},
			Value:   apply,
		},
	}})
	if !strings.Contains(got, "show {$imp1}") {
		t.Fatalf("printed %q", got)
	}

	ph.Resolved = &ast.VariableExpression{Token: tk("show_int"), Name: nm("show_int")}
	got = NewCodePrinter().PrintProgram(&ast.Program{Statements: []ast.Statement{
		&ast.ValueStatement{
			Token:   tk("let"),
			Pattern: &ast.VarPattern{Token: tk("s"), Name: id("s")},
			Value:   apply,
		},
	}})
	if !strings.Contains(got, "show {show_int}") {
		t.Fatalf("printed %q", got)
	}
}

func TestPrintTypeDeclaration(t *testing.T) {
	p := NewCodePrinter()
	got := p.PrintProgram(&ast.Program{Statements: []ast.Statement{
		&ast.TypeDeclaration{
			Token: tk("type"),
			Name:  id("either"),
			Body: &ast.VariantType{Constructors: []*ast.ConstructorDecl{
				{Name: id("A"), Arguments: []ast.Type{&ast.NamedType{Token: tk("int"), Name: nm("int")}}},
				{Name: id("B"), Arguments: []ast.Type{&ast.NamedType{Token: tk("int"), Name: nm("int")}}},
			}},
		},
	}})
	if got != "type either = | A of int | B of int" {
		t.Fatalf("printed %q", got)
	}
}
