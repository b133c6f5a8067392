package ast

import (
	"github.com/lumelang/lume/internal/token"
)

// AnyPattern matches anything and binds nothing.
// _
type AnyPattern struct {
	Token token.Token
}

func (ap *AnyPattern) patternNode()          {}
func (ap *AnyPattern) TokenLiteral() string  { return ap.Token.Lexeme }
func (ap *AnyPattern) GetToken() token.Token { return ap.Token }

// VarPattern binds the matched value to a name.
type VarPattern struct {
	Token token.Token
	Name  *Identifier
}

func (vp *VarPattern) patternNode()          {}
func (vp *VarPattern) TokenLiteral() string  { return vp.Token.Lexeme }
func (vp *VarPattern) GetToken() token.Token { return vp.Token }

// AnnotatedPattern constrains a sub-pattern to an explicit type.
// (p : t)
type AnnotatedPattern struct {
	Token          token.Token // The ':' token
	Pattern        Pattern
	TypeAnnotation Type
}

func (ap *AnnotatedPattern) patternNode()          {}
func (ap *AnnotatedPattern) TokenLiteral() string  { return ap.Token.Lexeme }
func (ap *AnnotatedPattern) GetToken() token.Token { return ap.Token }

// TuplePattern destructures a tuple.
type TuplePattern struct {
	Token    token.Token // The '(' token
	Elements []Pattern
}

func (tp *TuplePattern) patternNode()          {}
func (tp *TuplePattern) TokenLiteral() string  { return tp.Token.Lexeme }
func (tp *TuplePattern) GetToken() token.Token { return tp.Token }

// OrPattern matches either side. Both sides must bind the same names at
// unifiable types.
// p1 | p2
type OrPattern struct {
	Token token.Token // The '|' token
	Left  Pattern
	Right Pattern
}

func (op *OrPattern) patternNode()          {}
func (op *OrPattern) TokenLiteral() string  { return op.Token.Lexeme }
func (op *OrPattern) GetToken() token.Token { return op.Token }

// IntPattern matches an integer literal.
type IntPattern struct {
	Token token.Token
	Value int64
}

func (ip *IntPattern) patternNode()          {}
func (ip *IntPattern) TokenLiteral() string  { return ip.Token.Lexeme }
func (ip *IntPattern) GetToken() token.Token { return ip.Token }

// FieldPattern is a single field inside a record pattern.
type FieldPattern struct {
	Name    LongIdent
	Pattern Pattern
}

// RecordPattern destructures a record. Fields may be omitted; the record
// declaration is discovered from the expected type or the first field name.
type RecordPattern struct {
	Token  token.Token // The '{' token
	Fields []*FieldPattern
}

func (rp *RecordPattern) patternNode()          {}
func (rp *RecordPattern) TokenLiteral() string  { return rp.Token.Lexeme }
func (rp *RecordPattern) GetToken() token.Token { return rp.Token }

// ConstructorPattern matches a variant constructor, optionally
// destructuring its argument.
type ConstructorPattern struct {
	Token    token.Token
	Name     LongIdent
	Argument Pattern // nil for nullary constructors
}

func (cp *ConstructorPattern) patternNode()          {}
func (cp *ConstructorPattern) TokenLiteral() string  { return cp.Token.Lexeme }
func (cp *ConstructorPattern) GetToken() token.Token { return cp.Token }
