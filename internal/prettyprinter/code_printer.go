// Package prettyprinter renders elaborated programs back to surface-ish
// syntax. The pipeline's debug dump goes through here; the printed form
// is not guaranteed to re-parse.
package prettyprinter

import (
	"bytes"
	"strconv"

	"github.com/lumelang/lume/internal/ast"
)

type CodePrinter struct {
	buf    bytes.Buffer
	indent int
}

func NewCodePrinter() *CodePrinter {
	return &CodePrinter{}
}

func (p *CodePrinter) String() string { return p.buf.String() }

func (p *CodePrinter) write(s string) { p.buf.WriteString(s) }

func (p *CodePrinter) newline() {
	p.buf.WriteByte('\n')
	for i := 0; i < p.indent; i++ {
		p.buf.WriteString("    ")
	}
}

// PrintProgram renders every statement.
func (p *CodePrinter) PrintProgram(prog *ast.Program) string {
	for i, stmt := range prog.Statements {
		if i > 0 {
			p.newline()
		}
		p.printStatement(stmt)
	}
	return p.String()
}

func (p *CodePrinter) printStatement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.ValueStatement:
		p.write("let ")
		p.printPattern(s.Pattern)
		p.write(" = ")
		p.printExpr(s.Value)
	case *ast.InstanceStatement:
		p.write("instance " + s.Name.Value + " = ")
		p.printExpr(s.Value)
	case *ast.TypeDeclaration:
		p.printTypeDecl(s)
	case *ast.ModuleStatement:
		p.write("module " + s.Name.Value + " = ")
		switch b := s.Body.(type) {
		case *ast.Structure:
			p.write("struct")
			p.indent++
			for _, inner := range b.Statements {
				p.newline()
				p.printStatement(inner)
			}
			p.indent--
			p.newline()
			p.write("end")
		case *ast.ModulePath:
			p.write(b.Name.String())
		}
	case *ast.OpenStatement:
		p.write("open " + s.Path.String())
	default:
		p.write("<?stmt>")
	}
}

func (p *CodePrinter) printExpr(expr ast.Expression) {
	if expr == nil {
		p.write("<???>")
		return
	}
	switch e := expr.(type) {
	case *ast.VariableExpression:
		p.write(e.Name.String())
	case *ast.IntegerLiteral:
		p.write(strconv.FormatInt(e.Value, 10))
	case *ast.ApplyExpression:
		p.printAtom(e.Function)
		for _, arg := range e.Arguments {
			p.write(" ")
			p.printAtom(arg)
		}
	case *ast.FunctionLiteral:
		p.write("fun ")
		if e.Implicit {
			p.write("{")
			p.printPattern(e.Param)
			p.write("}")
		} else {
			p.printPattern(e.Param)
		}
		p.write(" -> ")
		p.printExpr(e.Body)
	case *ast.SequenceExpression:
		p.printExpr(e.First)
		p.write("; ")
		p.printExpr(e.Second)
	case *ast.LetExpression:
		p.write("let ")
		p.printPattern(e.Pattern)
		p.write(" = ")
		p.printExpr(e.Value)
		p.write(" in ")
		p.printExpr(e.Body)
	case *ast.AnnotatedExpression:
		p.write("(")
		p.printExpr(e.Expression)
		p.write(" : ")
		p.printType(e.TypeAnnotation)
		p.write(")")
	case *ast.TupleExpression:
		p.write("(")
		for i, el := range e.Elements {
			if i > 0 {
				p.write(", ")
			}
			p.printExpr(el)
		}
		p.write(")")
	case *ast.MatchExpression:
		p.write("match ")
		p.printExpr(e.Scrutinee)
		p.write(" with")
		p.indent++
		for _, arm := range e.Arms {
			p.newline()
			p.write("| ")
			p.printPattern(arm.Pattern)
			p.write(" -> ")
			p.printExpr(arm.Body)
		}
		p.indent--
	case *ast.FieldExpression:
		p.printAtom(e.Left)
		p.write("." + e.Field.String())
	case *ast.RecordExpression:
		p.write("{ ")
		if e.Extends != nil {
			p.printExpr(e.Extends)
			p.write(" with ")
		}
		for i, f := range e.Fields {
			if i > 0 {
				p.write("; ")
			}
			p.write(f.Name.String() + " = ")
			p.printExpr(f.Value)
		}
		p.write(" }")
	case *ast.ConstructorExpression:
		p.write(e.Name.String())
		if e.Argument != nil {
			p.write(" ")
			p.printAtom(e.Argument)
		}
	case *ast.ImplicitArgument:
		if e.Resolved != nil {
			p.write("{")
			p.printExpr(e.Resolved)
			p.write("}")
		} else {
			p.write("{" + e.Name + "}")
		}
	default:
		p.write("<?expr>")
	}
}

// printAtom parenthesizes anything that doesn't read as a single token in
// argument position.
func (p *CodePrinter) printAtom(expr ast.Expression) {
	switch expr.(type) {
	case *ast.VariableExpression, *ast.IntegerLiteral, *ast.TupleExpression,
		*ast.RecordExpression, *ast.ImplicitArgument, *ast.FieldExpression:
		p.printExpr(expr)
	default:
		p.write("(")
		p.printExpr(expr)
		p.write(")")
	}
}

func (p *CodePrinter) printPattern(pat ast.Pattern) {
	switch pt := pat.(type) {
	case *ast.AnyPattern:
		p.write("_")
	case *ast.VarPattern:
		p.write(pt.Name.Value)
	case *ast.AnnotatedPattern:
		p.write("(")
		p.printPattern(pt.Pattern)
		p.write(" : ")
		p.printType(pt.TypeAnnotation)
		p.write(")")
	case *ast.TuplePattern:
		p.write("(")
		for i, el := range pt.Elements {
			if i > 0 {
				p.write(", ")
			}
			p.printPattern(el)
		}
		p.write(")")
	case *ast.OrPattern:
		p.printPattern(pt.Left)
		p.write(" | ")
		p.printPattern(pt.Right)
	case *ast.IntPattern:
		p.write(strconv.FormatInt(pt.Value, 10))
	case *ast.RecordPattern:
		p.write("{ ")
		for i, f := range pt.Fields {
			if i > 0 {
				p.write("; ")
			}
			p.write(f.Name.String() + " = ")
			p.printPattern(f.Pattern)
		}
		p.write(" }")
	case *ast.ConstructorPattern:
		p.write(pt.Name.String())
		if pt.Argument != nil {
			p.write(" ")
			p.printPattern(pt.Argument)
		}
	default:
		p.write("<?pat>")
	}
}

func (p *CodePrinter) printType(t ast.Type) {
	switch tt := t.(type) {
	case *ast.TypeVariable:
		p.write("'" + tt.Name)
	case *ast.ArrowType:
		if tt.Implicit {
			p.write("{")
			p.printType(tt.Domain)
			p.write("}")
		} else {
			p.printType(tt.Domain)
		}
		p.write(" -> ")
		p.printType(tt.Codomain)
	case *ast.TupleType:
		p.write("(")
		for i, el := range tt.Elements {
			if i > 0 {
				p.write(", ")
			}
			p.printType(el)
		}
		p.write(")")
	case *ast.NamedType:
		p.write(tt.Name.String())
		if len(tt.Arguments) > 0 {
			p.write("<")
			for i, a := range tt.Arguments {
				if i > 0 {
					p.write(", ")
				}
				p.printType(a)
			}
			p.write(">")
		}
	default:
		p.write("<?type>")
	}
}

func (p *CodePrinter) printTypeDecl(td *ast.TypeDeclaration) {
	p.write("type ")
	if len(td.Params) > 0 {
		p.write("(")
		for i, par := range td.Params {
			if i > 0 {
				p.write(", ")
			}
			p.write("'" + par.Value)
		}
		p.write(") ")
	}
	p.write(td.Name.Value)
	switch b := td.Body.(type) {
	case *ast.AbstractType, nil:
		// no body
	case *ast.AliasType:
		p.write(" = ")
		p.printType(b.Type)
	case *ast.RecordType:
		p.write(" = { ")
		for i, f := range b.Fields {
			if i > 0 {
				p.write("; ")
			}
			p.write(f.Name.Value + " : ")
			p.printType(f.Type)
		}
		p.write(" }")
	case *ast.VariantType:
		p.write(" =")
		for _, c := range b.Constructors {
			p.write(" | " + c.Name.Value)
			if len(c.Arguments) > 0 {
				p.write(" of ")
				for i, a := range c.Arguments {
					if i > 0 {
						p.write(" * ")
					}
					p.printType(a)
				}
			}
		}
	}
}
