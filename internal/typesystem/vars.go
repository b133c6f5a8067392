package typesystem

import (
	"github.com/lumelang/lume/internal/token"
)

// Resolve follows the instance chain at the head of t until it reaches a
// non-variable or an unresolved variable.
func (s *State) Resolve(t *Expr) *Expr {
	visited := make(map[TypeID]bool)
	for {
		if _, ok := t.Repr.(*Var); !ok {
			return t
		}
		if visited[t.ID] {
			// Break cycle - return the variable as-is
			return t
		}
		visited[t.ID] = true
		inst, ok := s.Instance(t.ID)
		if !ok {
			return t
		}
		t = inst
	}
}

// Flatten applies the current substitution deeply, producing a type whose
// variables are all unresolved. Unresolved variables are returned as the
// same expressions (identity matters for generalization); interior nodes
// are re-allocated only when a child changed.
func (s *State) Flatten(t *Expr) *Expr {
	return s.flatten(t, make(map[TypeID]bool))
}

func (s *State) flatten(t *Expr, visited map[TypeID]bool) *Expr {
	switch r := t.Repr.(type) {
	case *Var:
		if visited[t.ID] {
			return t
		}
		inst, ok := s.Instance(t.ID)
		if !ok {
			return t
		}
		visited[t.ID] = true
		out := s.flatten(inst, visited)
		delete(visited, t.ID)
		return out
	case *Poly:
		body := s.flatten(r.Body, visited)
		if body == r.Body {
			return t
		}
		return s.New(t.Tok, &Poly{Vars: r.Vars, Body: body})
	case *Arrow:
		dom := s.flatten(r.Dom, visited)
		cod := s.flatten(r.Cod, visited)
		if dom == r.Dom && cod == r.Cod {
			return t
		}
		return s.New(t.Tok, &Arrow{Dom: dom, Cod: cod, Implicit: r.Implicit})
	case *Tuple:
		elems, changed := s.flattenAll(r.Elems, visited)
		if !changed {
			return t
		}
		return s.New(t.Tok, &Tuple{Elems: elems})
	case *Ctor:
		params, changed := s.flattenAll(r.Params, visited)
		if !changed {
			return t
		}
		return s.New(t.Tok, &Ctor{Name: r.Name, Params: params, Decl: r.Decl})
	}
	return t
}

func (s *State) flattenAll(ts []*Expr, visited map[TypeID]bool) ([]*Expr, bool) {
	changed := false
	out := make([]*Expr, len(ts))
	for i, t := range ts {
		out[i] = s.flatten(t, visited)
		if out[i] != t {
			changed = true
		}
	}
	if !changed {
		return ts, false
	}
	return out, true
}

// FreeTypeVars collects the unresolved variables of t whose depth is at
// least the given cutoff, in first-encounter order. Variables bound by a
// Poly quantifier in t are not free.
func (s *State) FreeTypeVars(t *Expr, depth int) []*Expr {
	var out []*Expr
	seen := make(map[TypeID]bool)
	bound := make(map[TypeID]bool)
	s.freeVars(t, depth, seen, bound, &out, make(map[TypeID]bool))
	return out
}

func (s *State) freeVars(t *Expr, depth int, seen, bound map[TypeID]bool, out *[]*Expr, visiting map[TypeID]bool) {
	switch r := t.Repr.(type) {
	case *Var:
		if visiting[t.ID] {
			return
		}
		if inst, ok := s.Instance(t.ID); ok {
			visiting[t.ID] = true
			s.freeVars(inst, depth, seen, bound, out, visiting)
			delete(visiting, t.ID)
			return
		}
		if r.Depth >= depth && !seen[t.ID] && !bound[t.ID] {
			seen[t.ID] = true
			*out = append(*out, t)
		}
	case *Poly:
		for _, v := range r.Vars {
			bound[v.ID] = true
		}
		s.freeVars(r.Body, depth, seen, bound, out, visiting)
		for _, v := range r.Vars {
			delete(bound, v.ID)
		}
	case *Arrow:
		s.freeVars(r.Dom, depth, seen, bound, out, visiting)
		s.freeVars(r.Cod, depth, seen, bound, out, visiting)
	case *Tuple:
		for _, e := range r.Elems {
			s.freeVars(e, depth, seen, bound, out, visiting)
		}
	case *Ctor:
		for _, p := range r.Params {
			s.freeVars(p, depth, seen, bound, out, visiting)
		}
	}
}

// Substitute rebuilds t with every variable present in repl swapped for
// its replacement. Nodes are re-allocated only along changed paths.
func (s *State) Substitute(t *Expr, repl map[TypeID]*Expr) *Expr {
	if len(repl) == 0 {
		return t
	}
	return s.substitute(t, repl)
}

func (s *State) substitute(t *Expr, repl map[TypeID]*Expr) *Expr {
	switch r := t.Repr.(type) {
	case *Var:
		if nt, ok := repl[t.ID]; ok {
			return nt
		}
		if inst, ok := s.Instance(t.ID); ok {
			// The variable resolved earlier; substitution must reach
			// through so instantiated schemes keep no tie to it.
			return s.substitute(inst, repl)
		}
		return t
	case *Poly:
		body := s.substitute(r.Body, repl)
		if body == r.Body {
			return t
		}
		return s.New(t.Tok, &Poly{Vars: r.Vars, Body: body})
	case *Arrow:
		dom := s.substitute(r.Dom, repl)
		cod := s.substitute(r.Cod, repl)
		if dom == r.Dom && cod == r.Cod {
			return t
		}
		return s.New(t.Tok, &Arrow{Dom: dom, Cod: cod, Implicit: r.Implicit})
	case *Tuple:
		elems, changed := s.substituteAll(r.Elems, repl)
		if !changed {
			return t
		}
		return s.New(t.Tok, &Tuple{Elems: elems})
	case *Ctor:
		params, changed := s.substituteAll(r.Params, repl)
		if !changed {
			return t
		}
		return s.New(t.Tok, &Ctor{Name: r.Name, Params: params, Decl: r.Decl})
	}
	return t
}

func (s *State) substituteAll(ts []*Expr, repl map[TypeID]*Expr) ([]*Expr, bool) {
	changed := false
	out := make([]*Expr, len(ts))
	for i, t := range ts {
		out[i] = s.substitute(t, repl)
		if out[i] != t {
			changed = true
		}
	}
	if !changed {
		return ts, false
	}
	return out, true
}

// Instantiate replaces the quantified variables of a Poly scheme with
// fresh anonymous variables at the given depth. Non-polymorphic types are
// returned unchanged.
func (s *State) Instantiate(t *Expr, tok token.Token, depth int) *Expr {
	p, ok := t.Repr.(*Poly)
	if !ok {
		return t
	}
	repl := make(map[TypeID]*Expr, len(p.Vars))
	for _, v := range p.Vars {
		repl[v.ID] = s.NewVar(tok, "", depth)
	}
	return s.substitute(p.Body, repl)
}
