package typesystem

import (
	"strconv"
	"strings"

	"github.com/lumelang/lume/internal/config"
	"github.com/lumelang/lume/internal/token"
)

// TypeID uniquely identifies an allocated type expression. Two expressions
// with the same TypeID are the same expression.
type TypeID int

// DeclID uniquely identifies a type declaration.
type DeclID int

// NoDecl marks the absence of a declaration reference.
const NoDecl DeclID = 0

// Expr is a type expression. Every Expr is allocated through a State,
// which assigns the TypeID; equality up to the current substitution is
// decided by Unify, identity by TypeID.
type Expr struct {
	ID   TypeID
	Tok  token.Token
	Repr Repr
}

// Repr is the shape of a type expression.
type Repr interface {
	reprNode()
}

// Var is a unification variable. Name is the display name ("" for
// variables invented by the checker). Depth is the scope depth the
// variable was introduced at; generalization closes over variables whose
// depth is at least the binder's depth.
type Var struct {
	Name  string
	Depth int
}

func (*Var) reprNode() {}

// Poly is a prenex quantifier. Vars hold Var expressions quantified over
// Body. A Poly never nests inside another type expression.
type Poly struct {
	Vars []*Expr
	Body *Expr
}

func (*Poly) reprNode() {}

// Arrow is a function type. Implicit marks implicit parameters, which are
// supplied by instance lookup at use sites instead of syntactically.
type Arrow struct {
	Dom      *Expr
	Cod      *Expr
	Implicit bool
}

func (*Arrow) reprNode() {}

// Tuple is an ordered, possibly empty product. The empty tuple is the
// unit type.
type Tuple struct {
	Elems []*Expr
}

func (*Tuple) reprNode() {}

// Ctor is a named type constructor applied to parameters. Decl ties the
// application to its declaration; two Ctors are compatible when their
// DeclIDs match or one side unfolds through an alias.
type Ctor struct {
	Name   string
	Params []*Expr
	Decl   DeclID
}

func (*Ctor) reprNode() {}

// Field is one field of a record declaration; its index is its position.
type Field struct {
	Name string
	Type *Expr
}

// Constructor is one constructor of a variant declaration. Args is the
// tuple of argument types; Record references an inline record argument by
// declaration instead. Result is non-nil only for constructors with an
// annotated return type.
type Constructor struct {
	Name   string
	Args   []*Expr
	Record DeclID // NoDecl when Args is authoritative
	Result *Expr  // nil unless annotated
}

// Decl is a registered nominal type declaration.
type Decl struct {
	Name   string
	Params []*Expr // Var expressions, in order
	ID     DeclID
	Body   DeclBody
}

// DeclBody is the right-hand side of a declaration.
type DeclBody interface {
	declBody()
}

// RecordBody is an ordered list of fields.
type RecordBody struct {
	Fields []Field
}

func (*RecordBody) declBody() {}

// VariantBody is an ordered list of constructors.
type VariantBody struct {
	Ctors []Constructor
}

func (*VariantBody) declBody() {}

// AliasBody is a transparent alias.
type AliasBody struct {
	Type *Expr
}

func (*AliasBody) declBody() {}

// AbstractBody is a declaration without a body.
type AbstractBody struct{}

func (*AbstractBody) declBody() {}

// String renders the expression as it stands: variables are not resolved
// through any instance table (StringIn does that). Used for error messages
// and test output only.
func (t *Expr) String() string {
	var b strings.Builder
	writeType(&b, t, make(map[TypeID]bool), nil)
	return b.String()
}

// StringIn renders like String but resolves variables through the given
// state's instance table.
func (t *Expr) StringIn(s *State) string {
	var b strings.Builder
	writeType(&b, t, make(map[TypeID]bool), s)
	return b.String()
}

func writeType(b *strings.Builder, t *Expr, visited map[TypeID]bool, s *State) {
	if t == nil {
		b.WriteString("<nil>")
		return
	}
	if visited[t.ID] {
		b.WriteString("...")
		return
	}
	switch r := t.Repr.(type) {
	case *Var:
		if s != nil {
			if inst, ok := s.Instance(t.ID); ok {
				visited[t.ID] = true
				writeType(b, inst, visited, s)
				delete(visited, t.ID)
				return
			}
		}
		b.WriteString(varName(r, t.ID))
	case *Poly:
		b.WriteString("forall")
		for _, v := range r.Vars {
			b.WriteByte(' ')
			b.WriteString(varName(v.Repr.(*Var), v.ID))
		}
		b.WriteString(". ")
		writeType(b, r.Body, visited, s)
	case *Arrow:
		if r.Implicit {
			b.WriteByte('{')
			writeType(b, r.Dom, visited, s)
			b.WriteByte('}')
		} else if isArrow(r.Dom) {
			b.WriteByte('(')
			writeType(b, r.Dom, visited, s)
			b.WriteByte(')')
		} else {
			writeType(b, r.Dom, visited, s)
		}
		b.WriteString(" -> ")
		writeType(b, r.Cod, visited, s)
	case *Tuple:
		b.WriteByte('(')
		for i, e := range r.Elems {
			if i > 0 {
				b.WriteString(", ")
			}
			writeType(b, e, visited, s)
		}
		b.WriteByte(')')
	case *Ctor:
		b.WriteString(r.Name)
		if len(r.Params) > 0 {
			b.WriteByte('<')
			for i, p := range r.Params {
				if i > 0 {
					b.WriteString(", ")
				}
				writeType(b, p, visited, s)
			}
			b.WriteByte('>')
		}
	}
}

func varName(v *Var, id TypeID) string {
	if v.Name != "" {
		return "'" + v.Name
	}
	// Anonymous inference variables normalize to t? in test mode so test
	// expectations stay stable across allocation order.
	if config.TestMode {
		return "t?"
	}
	return "t" + strconv.Itoa(int(id))
}

func isArrow(t *Expr) bool {
	_, ok := t.Repr.(*Arrow)
	return ok
}

// IsUnit reports whether t is the empty tuple.
func IsUnit(t *Expr) bool {
	tu, ok := t.Repr.(*Tuple)
	return ok && len(tu.Elems) == 0
}
