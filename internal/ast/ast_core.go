package ast

import (
	"github.com/lumelang/lume/internal/token"
)

// TokenProvider is an interface for any AST node that can provide its primary token.
// This is useful for error reporting.
type TokenProvider interface {
	GetToken() token.Token
}

// Node is the base interface for all AST nodes.
type Node interface {
	TokenLiteral() string
}

// Statement is a Node that represents a top-level statement.
type Statement interface {
	Node
	statementNode()
	GetToken() token.Token
	Accept(v StatementVisitor)
}

// Expression is a Node that represents an expression.
type Expression interface {
	Node
	expressionNode()
	GetToken() token.Token
}

// Pattern is a Node that can appear on the binding side of let, fun and match arms.
type Pattern interface {
	Node
	patternNode()
	GetToken() token.Token
}

// StatementVisitor dispatches over top-level statements.
type StatementVisitor interface {
	VisitValueStatement(n *ValueStatement)
	VisitInstanceStatement(n *InstanceStatement)
	VisitTypeDeclaration(n *TypeDeclaration)
	VisitModuleStatement(n *ModuleStatement)
	VisitOpenStatement(n *OpenStatement)
}

// Identifier is a simple (unqualified) name with its source location.
type Identifier struct {
	Token token.Token
	Value string
}

func (i *Identifier) TokenLiteral() string  { return i.Token.Lexeme }
func (i *Identifier) GetToken() token.Token { return i.Token }
func (i *Identifier) String() string        { return i.Value }

// LongIdent is a possibly module-qualified identifier path.
//
// The parser produces three shapes: a bare name, a dotted path ending in a
// name, and (only for pathological inputs) an application of one path to
// another. The checker rejects Applied wherever a plain path is required.
type LongIdent interface {
	longIdent()
	GetToken() token.Token
	String() string
}

// Bare is an unqualified identifier.
type Bare struct {
	Name *Identifier
}

func (b *Bare) longIdent()            {}
func (b *Bare) GetToken() token.Token { return b.Name.GetToken() }
func (b *Bare) String() string        { return b.Name.Value }

// Dotted is a module-qualified identifier, e.g. List.map.
type Dotted struct {
	Path LongIdent
	Name *Identifier
}

func (d *Dotted) longIdent()            {}
func (d *Dotted) GetToken() token.Token { return d.Name.GetToken() }
func (d *Dotted) String() string        { return d.Path.String() + "." + d.Name.Value }

// Applied is one path applied to another, e.g. F(X).t. The grammar admits it
// but the checker does not support functor application.
type Applied struct {
	Fn  LongIdent
	Arg LongIdent
}

func (a *Applied) longIdent()            {}
func (a *Applied) GetToken() token.Token { return a.Fn.GetToken() }
func (a *Applied) String() string        { return a.Fn.String() + "(" + a.Arg.String() + ")" }

// Program is a parsed compilation unit.
type Program struct {
	File       string
	Statements []Statement
}

func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}

// ValueStatement binds a pattern to an expression at the top level.
// let p = e
type ValueStatement struct {
	Token   token.Token // The 'let' token
	Pattern Pattern
	Value   Expression
}

func (vs *ValueStatement) Accept(v StatementVisitor) { v.VisitValueStatement(vs) }
func (vs *ValueStatement) statementNode()            {}
func (vs *ValueStatement) TokenLiteral() string      { return vs.Token.Lexeme }
func (vs *ValueStatement) GetToken() token.Token     { return vs.Token }

// InstanceStatement is a value binding additionally registered as an
// implicit instance.
// instance show_int = e
type InstanceStatement struct {
	Token token.Token // The 'instance' token
	Name  *Identifier
	Value Expression
}

func (is *InstanceStatement) Accept(v StatementVisitor) { v.VisitInstanceStatement(is) }
func (is *InstanceStatement) statementNode()            {}
func (is *InstanceStatement) TokenLiteral() string      { return is.Token.Lexeme }
func (is *InstanceStatement) GetToken() token.Token     { return is.Token }

// ModuleStatement introduces a named module.
type ModuleStatement struct {
	Token token.Token // The 'module' token
	Name  *Identifier
	Body  ModuleBody
}

func (ms *ModuleStatement) Accept(v StatementVisitor) { v.VisitModuleStatement(ms) }
func (ms *ModuleStatement) statementNode()            {}
func (ms *ModuleStatement) TokenLiteral() string      { return ms.Token.Lexeme }
func (ms *ModuleStatement) GetToken() token.Token     { return ms.Token }

// ModuleBody is either an inline structure or a reference to another module.
type ModuleBody interface {
	moduleBody()
}

// Structure is an inline module body.
type Structure struct {
	Statements []Statement
}

func (s *Structure) moduleBody() {}

// ModulePath aliases an existing module.
type ModulePath struct {
	Name LongIdent
}

func (m *ModulePath) moduleBody() {}

// OpenStatement makes a module's bindings visible by copying them into the
// current scope.
type OpenStatement struct {
	Token token.Token // The 'open' token
	Path  LongIdent
}

func (os *OpenStatement) Accept(v StatementVisitor) { v.VisitOpenStatement(os) }
func (os *OpenStatement) statementNode()            {}
func (os *OpenStatement) TokenLiteral() string      { return os.Token.Lexeme }
func (os *OpenStatement) GetToken() token.Token     { return os.Token }
