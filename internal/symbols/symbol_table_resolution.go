package symbols

import (
	"github.com/lumelang/lume/internal/ast"
	"github.com/lumelang/lume/internal/typesystem"
)

// PathError reports a failed long-identifier resolution. Applied is set
// when the path contained a functor application, which the checker does
// not support.
type PathError struct {
	Applied bool
	Name    string // the component that failed to resolve
}

// ModuleByPath resolves a long identifier to a module scope.
func (t *SymbolTable) ModuleByPath(path ast.LongIdent) (*Scope, *PathError) {
	switch p := path.(type) {
	case *ast.Bare:
		m, ok := t.LookupModule(p.Name.Value)
		if !ok {
			return nil, &PathError{Name: p.Name.Value}
		}
		return m, nil
	case *ast.Dotted:
		parent, err := t.ModuleByPath(p.Path)
		if err != nil {
			return nil, err
		}
		m, ok := parent.modules[p.Name.Value]
		if !ok {
			return nil, &PathError{Name: p.Name.Value}
		}
		return m, nil
	case *ast.Applied:
		return nil, &PathError{Applied: true, Name: path.String()}
	}
	return nil, &PathError{Name: path.String()}
}

// ValueByPath resolves a (possibly qualified) value name.
func (t *SymbolTable) ValueByPath(path ast.LongIdent) (*typesystem.Expr, *PathError) {
	switch p := path.(type) {
	case *ast.Bare:
		typ, ok := t.LookupValue(p.Name.Value)
		if !ok {
			return nil, &PathError{Name: p.Name.Value}
		}
		return typ, nil
	case *ast.Dotted:
		scope, err := t.ModuleByPath(p.Path)
		if err != nil {
			return nil, err
		}
		typ, ok := scope.values[p.Name.Value]
		if !ok {
			return nil, &PathError{Name: p.Name.Value}
		}
		return typ, nil
	case *ast.Applied:
		return nil, &PathError{Applied: true, Name: path.String()}
	}
	return nil, &PathError{Name: path.String()}
}

// FieldByPath resolves a (possibly qualified) record field name.
func (t *SymbolTable) FieldByPath(path ast.LongIdent) (FieldRef, *PathError) {
	switch p := path.(type) {
	case *ast.Bare:
		f, ok := t.LookupField(p.Name.Value)
		if !ok {
			return FieldRef{}, &PathError{Name: p.Name.Value}
		}
		return f, nil
	case *ast.Dotted:
		scope, err := t.ModuleByPath(p.Path)
		if err != nil {
			return FieldRef{}, err
		}
		f, ok := scope.fields[p.Name.Value]
		if !ok {
			return FieldRef{}, &PathError{Name: p.Name.Value}
		}
		return f, nil
	case *ast.Applied:
		return FieldRef{}, &PathError{Applied: true, Name: path.String()}
	}
	return FieldRef{}, &PathError{Name: path.String()}
}

// CtorByPath resolves a (possibly qualified) constructor name.
func (t *SymbolTable) CtorByPath(path ast.LongIdent) (CtorRef, *PathError) {
	switch p := path.(type) {
	case *ast.Bare:
		c, ok := t.LookupCtor(p.Name.Value)
		if !ok {
			return CtorRef{}, &PathError{Name: p.Name.Value}
		}
		return c, nil
	case *ast.Dotted:
		scope, err := t.ModuleByPath(p.Path)
		if err != nil {
			return CtorRef{}, err
		}
		c, ok := scope.ctors[p.Name.Value]
		if !ok {
			return CtorRef{}, &PathError{Name: p.Name.Value}
		}
		return c, nil
	case *ast.Applied:
		return CtorRef{}, &PathError{Applied: true, Name: path.String()}
	}
	return CtorRef{}, &PathError{Name: path.String()}
}

// TypeByPath resolves a (possibly qualified) type declaration name.
func (t *SymbolTable) TypeByPath(path ast.LongIdent) (*typesystem.Decl, *PathError) {
	switch p := path.(type) {
	case *ast.Bare:
		d, ok := t.LookupTypeDecl(p.Name.Value)
		if !ok {
			return nil, &PathError{Name: p.Name.Value}
		}
		return d, nil
	case *ast.Dotted:
		scope, err := t.ModuleByPath(p.Path)
		if err != nil {
			return nil, err
		}
		d, ok := scope.types[p.Name.Value]
		if !ok {
			return nil, &PathError{Name: p.Name.Value}
		}
		return d, nil
	case *ast.Applied:
		return nil, &PathError{Applied: true, Name: path.String()}
	}
	return nil, &PathError{Name: path.String()}
}
