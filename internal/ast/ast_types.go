package ast

import (
	"github.com/lumelang/lume/internal/token"
)

// Type is a surface (parsed) type expression. The checker imports these
// into the typesystem, allocating fresh unification state.
type Type interface {
	Node
	typeNode()
	GetToken() token.Token
}

// TypeVariable is a named type variable, e.g. 'a.
type TypeVariable struct {
	Token token.Token
	Name  string
}

func (tv *TypeVariable) typeNode()             {}
func (tv *TypeVariable) TokenLiteral() string  { return tv.Token.Lexeme }
func (tv *TypeVariable) GetToken() token.Token { return tv.Token }

// ArrowType is a function type. Implicit marks an implicit parameter,
// written {t1} -> t2.
type ArrowType struct {
	Token    token.Token // The '->' token
	Domain   Type
	Codomain Type
	Implicit bool
}

func (at *ArrowType) typeNode()             {}
func (at *ArrowType) TokenLiteral() string  { return at.Token.Lexeme }
func (at *ArrowType) GetToken() token.Token { return at.Token }

// TupleType is an ordered, possibly empty tuple type. The empty tuple is
// the unit type.
type TupleType struct {
	Token    token.Token // The '(' token
	Elements []Type
}

func (tt *TupleType) typeNode()             {}
func (tt *TupleType) TokenLiteral() string  { return tt.Token.Lexeme }
func (tt *TupleType) GetToken() token.Token { return tt.Token }

// NamedType applies a declared type constructor, e.g. int or list 'a.
type NamedType struct {
	Token     token.Token
	Name      LongIdent
	Arguments []Type
}

func (nt *NamedType) typeNode()             {}
func (nt *NamedType) TokenLiteral() string  { return nt.Token.Lexeme }
func (nt *NamedType) GetToken() token.Token { return nt.Token }

// TypeDeclaration declares a nominal type.
// type ('a, 'b) name = <body>
type TypeDeclaration struct {
	Token  token.Token // The 'type' token
	Name   *Identifier
	Params []*Identifier // formal type-variable parameters, in order
	Body   TypeBody
}

func (td *TypeDeclaration) Accept(v StatementVisitor) { v.VisitTypeDeclaration(td) }
func (td *TypeDeclaration) statementNode()            {}
func (td *TypeDeclaration) TokenLiteral() string      { return td.Token.Lexeme }
func (td *TypeDeclaration) GetToken() token.Token     { return td.Token }

// TypeBody is the right-hand side of a type declaration.
type TypeBody interface {
	typeBody()
}

// FieldDecl is one field of a record type body.
type FieldDecl struct {
	Name *Identifier
	Type Type
}

// RecordType is a record body; field indices are their positions.
type RecordType struct {
	Fields []*FieldDecl
}

func (rt *RecordType) typeBody() {}

// ConstructorDecl is one constructor of a variant body. A constructor
// carries either a tuple of argument types or an inline record. ReturnType
// is present only for constructors with an explicitly annotated result.
type ConstructorDecl struct {
	Name       *Identifier
	Arguments  []Type
	Record     *RecordType // inline record argument, mutually exclusive with Arguments
	ReturnType Type        // nil unless annotated
}

// VariantType is a sum-type body.
type VariantType struct {
	Constructors []*ConstructorDecl
}

func (vt *VariantType) typeBody() {}

// AliasType is a transparent alias body.
type AliasType struct {
	Type Type
}

func (at *AliasType) typeBody() {}

// AbstractType is a declaration without a body.
type AbstractType struct{}

func (at *AbstractType) typeBody() {}
