package symbols

import (
	"github.com/lumelang/lume/internal/typesystem"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// DefineValue binds a name to a type in the innermost scope.
func (t *SymbolTable) DefineValue(name string, typ *typesystem.Expr) {
	t.Current().values[name] = typ
}

// DefineImplicit registers a value as an implicit instance candidate.
func (t *SymbolTable) DefineImplicit(name string, typ *typesystem.Expr) {
	t.Current().implicits[name] = typ
}

// DefineModule binds a module signature under a name.
func (t *SymbolTable) DefineModule(name string, scope *Scope) {
	t.Current().modules[name] = scope
}

// DefineTypeDecl registers a declaration in the shared state and indexes
// its name, fields and constructors in the innermost scope.
func (t *SymbolTable) DefineTypeDecl(decl *typesystem.Decl) {
	t.state.RegisterDecl(decl)
	cur := t.Current()
	cur.types[decl.Name] = decl
	switch body := decl.Body.(type) {
	case *typesystem.RecordBody:
		for i, f := range body.Fields {
			cur.fields[f.Name] = FieldRef{Decl: decl, Index: i}
		}
	case *typesystem.VariantBody:
		for i, c := range body.Ctors {
			cur.ctors[c.Name] = CtorRef{Decl: decl, Index: i}
		}
	}
}

// Open copies a module's entries into the innermost scope, putting the
// module's names on the search path. Later bindings shadow them.
func (t *SymbolTable) Open(s *Scope) {
	opened := s.Clone()
	cur := t.Current()
	maps.Copy(cur.values, opened.values)
	maps.Copy(cur.types, opened.types)
	maps.Copy(cur.fields, opened.fields)
	maps.Copy(cur.ctors, opened.ctors)
	maps.Copy(cur.implicits, opened.implicits)
	maps.Copy(cur.modules, opened.modules)
}

// LookupValue finds a name walking scopes inside out.
func (t *SymbolTable) LookupValue(name string) (*typesystem.Expr, bool) {
	for i := len(t.scopes) - 1; i >= 0; i-- {
		if typ, ok := t.scopes[i].values[name]; ok {
			return typ, true
		}
	}
	return nil, false
}

// LookupTypeDecl finds a type declaration by name.
func (t *SymbolTable) LookupTypeDecl(name string) (*typesystem.Decl, bool) {
	for i := len(t.scopes) - 1; i >= 0; i-- {
		if d, ok := t.scopes[i].types[name]; ok {
			return d, true
		}
	}
	return nil, false
}

// LookupField finds a record field by name.
func (t *SymbolTable) LookupField(name string) (FieldRef, bool) {
	for i := len(t.scopes) - 1; i >= 0; i-- {
		if f, ok := t.scopes[i].fields[name]; ok {
			return f, true
		}
	}
	return FieldRef{}, false
}

// LookupCtor finds a variant constructor by name.
func (t *SymbolTable) LookupCtor(name string) (CtorRef, bool) {
	for i := len(t.scopes) - 1; i >= 0; i-- {
		if c, ok := t.scopes[i].ctors[name]; ok {
			return c, true
		}
	}
	return CtorRef{}, false
}

// LookupModule finds a module scope by name.
func (t *SymbolTable) LookupModule(name string) (*Scope, bool) {
	for i := len(t.scopes) - 1; i >= 0; i-- {
		if m, ok := t.scopes[i].modules[name]; ok {
			return m, true
		}
	}
	return nil, false
}

// ImplicitCandidate is one entry of the implicit-instance table.
type ImplicitCandidate struct {
	Name string
	Type *typesystem.Expr
}

// ImplicitCandidates lists all visible implicit instances, innermost
// scope first, names sorted within a scope for deterministic resolution.
func (t *SymbolTable) ImplicitCandidates() []ImplicitCandidate {
	var out []ImplicitCandidate
	for i := len(t.scopes) - 1; i >= 0; i-- {
		names := maps.Keys(t.scopes[i].implicits)
		slices.Sort(names)
		for _, name := range names {
			out = append(out, ImplicitCandidate{Name: name, Type: t.scopes[i].implicits[name]})
		}
	}
	return out
}
