// Package symbols implements the layered environment of the checker: a
// stack of scopes mapping names to value types, type declarations, record
// fields, variant constructors, implicit instances and nested modules.
//
// The table also carries the typesystem.State, so the scope depth counter,
// the id allocators and the instance table travel together through every
// checking call.
package symbols

import (
	"github.com/lumelang/lume/internal/typesystem"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// FieldRef locates a field inside its record declaration.
type FieldRef struct {
	Decl  *typesystem.Decl
	Index int
}

// CtorRef locates a constructor inside its variant declaration.
type CtorRef struct {
	Decl  *typesystem.Decl
	Index int
}

// Scope is one layer of the environment. Writes go to the innermost
// scope; lookups walk outward. Last write wins within a scope.
type Scope struct {
	values    map[string]*typesystem.Expr
	types     map[string]*typesystem.Decl
	fields    map[string]FieldRef
	ctors     map[string]CtorRef
	implicits map[string]*typesystem.Expr
	modules   map[string]*Scope
}

func NewScope() *Scope {
	return &Scope{
		values:    make(map[string]*typesystem.Expr),
		types:     make(map[string]*typesystem.Decl),
		fields:    make(map[string]FieldRef),
		ctors:     make(map[string]CtorRef),
		implicits: make(map[string]*typesystem.Expr),
		modules:   make(map[string]*Scope),
	}
}

// Clone copies the scope one level deep. Opening a module copies a clone's
// entries into the innermost scope, so later writes there cannot mutate the
// module signature.
func (s *Scope) Clone() *Scope {
	c := NewScope()
	maps.Copy(c.values, s.values)
	maps.Copy(c.types, s.types)
	maps.Copy(c.fields, s.fields)
	maps.Copy(c.ctors, s.ctors)
	maps.Copy(c.implicits, s.implicits)
	maps.Copy(c.modules, s.modules)
	return c
}

// ValueNames returns the value names bound in this scope, sorted.
func (s *Scope) ValueNames() []string {
	names := maps.Keys(s.values)
	slices.Sort(names)
	return names
}

// ValueType returns the type a name is bound at in this scope only.
func (s *Scope) ValueType(name string) (*typesystem.Expr, bool) {
	t, ok := s.values[name]
	return t, ok
}

// DeclarationCount counts non-value entries: type declarations, fields,
// constructors and modules. Or-patterns must not introduce any.
func (s *Scope) DeclarationCount() int {
	return len(s.types) + len(s.fields) + len(s.ctors) + len(s.modules)
}

// DeclaredNames returns the names of non-value entries, sorted. Used for
// reporting declarations that appeared inside a pattern.
func (s *Scope) DeclaredNames() []string {
	names := make([]string, 0, s.DeclarationCount())
	names = append(names, maps.Keys(s.types)...)
	names = append(names, maps.Keys(s.fields)...)
	names = append(names, maps.Keys(s.ctors)...)
	names = append(names, maps.Keys(s.modules)...)
	slices.Sort(names)
	return names
}

// SymbolTable is the full environment: the scope stack plus the shared
// unification state.
type SymbolTable struct {
	state  *typesystem.State
	scopes []*Scope
}

func NewSymbolTable(state *typesystem.State) *SymbolTable {
	return &SymbolTable{
		state:  state,
		scopes: []*Scope{NewScope()},
	}
}

// State exposes the shared unification state.
func (t *SymbolTable) State() *typesystem.State { return t.state }

// Depth is the current lexical scope depth. Fresh variables remember the
// depth they were introduced at; generalization compares against it.
func (t *SymbolTable) Depth() int { return len(t.scopes) - 1 }

// Current is the innermost scope.
func (t *SymbolTable) Current() *Scope { return t.scopes[len(t.scopes)-1] }

// EnterScope pushes a fresh scope.
func (t *SymbolTable) EnterScope() {
	t.scopes = append(t.scopes, NewScope())
}

// PushScope pushes an existing scope onto the stack.
func (t *SymbolTable) PushScope(s *Scope) {
	t.scopes = append(t.scopes, s)
}

// LeaveScope pops and returns the innermost scope. The global scope is
// never popped.
func (t *SymbolTable) LeaveScope() *Scope {
	if len(t.scopes) == 1 {
		return t.scopes[0]
	}
	top := t.scopes[len(t.scopes)-1]
	t.scopes = t.scopes[:len(t.scopes)-1]
	return top
}
