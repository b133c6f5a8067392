package typesystem

import (
	"fmt"
)

// UnifyErrKind discriminates unification failures.
type UnifyErrKind int

const (
	// CannotUnify is a structural mismatch between two type expressions.
	CannotUnify UnifyErrKind = iota
	// RecursiveVariable is an occurs-check failure: a variable's instance
	// reappeared while unifying through it.
	RecursiveVariable
	// CheckFailed wraps the innermost cause with the outermost
	// expected/actual pair of the unification call site.
	CheckFailed
)

// UnifyError is the structured failure of a unification. The analyzer
// converts it to a coded diagnostic at the AST boundary.
type UnifyError struct {
	Kind     UnifyErrKind
	Expected *Expr
	Actual   *Expr
	Inner    error
}

func (e *UnifyError) Error() string {
	switch e.Kind {
	case RecursiveVariable:
		return fmt.Sprintf("recursive type variable %s", e.Expected)
	case CheckFailed:
		return fmt.Sprintf("expected %s but got %s: %v", e.Expected, e.Actual, e.Inner)
	default:
		return fmt.Sprintf("cannot unify %s with %s", e.Expected, e.Actual)
	}
}

func (e *UnifyError) Unwrap() error { return e.Inner }

// Unify decides whether expected and actual are equal up to substitution,
// extending the instance table as needed. A failure from a nested call is
// wrapped exactly once so the error carries both the outermost pair and
// the innermost mismatch.
func (s *State) Unify(expected, actual *Expr) error {
	err := s.unify(expected, actual)
	if err == nil {
		return nil
	}
	if ue, ok := err.(*UnifyError); ok && ue.Kind == CheckFailed {
		return err
	}
	return &UnifyError{
		Kind:     CheckFailed,
		Expected: s.Flatten(expected),
		Actual:   s.Flatten(actual),
		Inner:    err,
	}
}

func (s *State) unify(a, b *Expr) error {
	a = foldSingleton(a)
	b = foldSingleton(b)

	if a.ID == b.ID {
		return nil
	}

	// An outer check against a polymorphic side is a compatibility check;
	// the quantifier is dropped and the body compared.
	if p, ok := a.Repr.(*Poly); ok {
		return s.unify(p.Body, b)
	}
	if p, ok := b.Repr.(*Poly); ok {
		return s.unify(a, p.Body)
	}

	av, aIsVar := a.Repr.(*Var)
	bv, bIsVar := b.Repr.(*Var)

	switch {
	case aIsVar && bIsVar:
		if inst, ok := s.Instance(a.ID); ok {
			return s.retryWithoutInstance(a, inst, b)
		}
		if inst, ok := s.Instance(b.ID); ok {
			return s.retryWithoutInstance(b, inst, a)
		}
		// Instances must point from deeper scopes to shallower ones so no
		// variable escapes its binder at generalization time. Ties go to
		// the younger (larger id) variable.
		assignee, target := a, b
		if bv.Depth > av.Depth || (bv.Depth == av.Depth && b.ID > a.ID) {
			assignee, target = b, a
		}
		s.setInstance(assignee.ID, target)
		return nil
	case aIsVar:
		if inst, ok := s.Instance(a.ID); ok {
			return s.retryWithoutInstance(a, inst, b)
		}
		s.setInstance(a.ID, b)
		return nil
	case bIsVar:
		if inst, ok := s.Instance(b.ID); ok {
			return s.retryWithoutInstance(b, inst, a)
		}
		s.setInstance(b.ID, a)
		return nil
	}

	switch ar := a.Repr.(type) {
	case *Tuple:
		br, ok := b.Repr.(*Tuple)
		if !ok {
			return s.errUnify(a, b)
		}
		if len(ar.Elems) != len(br.Elems) {
			return s.errUnify(a, b)
		}
		for i := range ar.Elems {
			if err := s.unify(ar.Elems[i], br.Elems[i]); err != nil {
				return err
			}
		}
		return nil

	case *Arrow:
		br, ok := b.Repr.(*Arrow)
		if !ok || ar.Implicit != br.Implicit {
			return s.errUnify(a, b)
		}
		if err := s.unify(ar.Dom, br.Dom); err != nil {
			return err
		}
		return s.unify(ar.Cod, br.Cod)

	case *Ctor:
		br, ok := b.Repr.(*Ctor)
		if !ok {
			return s.errUnify(a, b)
		}
		if ar.Decl == br.Decl {
			if len(ar.Params) != len(br.Params) {
				return s.errUnify(a, b)
			}
			for i := range ar.Params {
				if err := s.unify(ar.Params[i], br.Params[i]); err != nil {
					return err
				}
			}
			return nil
		}
		// Distinct declarations may still agree through a transparent
		// alias. Newer types tend to alias older ones, so the side with
		// the older (smaller id) declaration unfolds first.
		first, second := a, b
		if br.Decl < ar.Decl {
			first, second = b, a
		}
		if t, ok := s.unfoldAlias(first); ok {
			if first == a {
				return s.unify(t, b)
			}
			return s.unify(a, t)
		}
		if t, ok := s.unfoldAlias(second); ok {
			if second == a {
				return s.unify(t, b)
			}
			return s.unify(a, t)
		}
		return s.errUnify(a, b)
	}

	return s.errUnify(a, b)
}

// retryWithoutInstance unifies through a resolved variable. The instance
// is removed for the duration of the recursion; if it reappears, the
// variable is part of its own resolution and the type is infinite.
func (s *State) retryWithoutInstance(v, inst, other *Expr) error {
	s.removeInstance(v.ID)
	if err := s.unify(inst, other); err != nil {
		return err
	}
	if _, reappeared := s.Instance(v.ID); reappeared {
		return &UnifyError{Kind: RecursiveVariable, Expected: v, Actual: s.Flatten(inst)}
	}
	s.setInstance(v.ID, inst)
	return nil
}

// unfoldAlias expands a constructor application through its declaration
// when the declaration is a transparent alias.
func (s *State) unfoldAlias(t *Expr) (*Expr, bool) {
	r, ok := t.Repr.(*Ctor)
	if !ok {
		return nil, false
	}
	decl, ok := s.DeclByID(r.Decl)
	if !ok {
		return nil, false
	}
	alias, ok := decl.Body.(*AliasBody)
	if !ok {
		return nil, false
	}
	repl := make(map[TypeID]*Expr, len(decl.Params))
	for i, p := range decl.Params {
		if i < len(r.Params) {
			repl[p.ID] = r.Params[i]
		}
	}
	return s.Substitute(alias.Type, repl), true
}

// Unalias resolves the head of t through instances and transparent
// aliases until a non-alias form is reached.
func (s *State) Unalias(t *Expr) *Expr {
	for i := 0; i < 1000; i++ {
		t = s.Resolve(t)
		u, ok := s.unfoldAlias(t)
		if !ok {
			return t
		}
		t = u
	}
	return t
}

// A tuple of one element is that element; the parser produces such tuples
// for parenthesized types and single-field constructor arguments.
func foldSingleton(t *Expr) *Expr {
	for {
		tu, ok := t.Repr.(*Tuple)
		if !ok || len(tu.Elems) != 1 {
			return t
		}
		t = tu.Elems[0]
	}
}

func (s *State) errUnify(a, b *Expr) error {
	return &UnifyError{Kind: CannotUnify, Expected: s.Flatten(a), Actual: s.Flatten(b)}
}
