package typesystem

import (
	"github.com/lumelang/lume/internal/token"
)

// State owns the shared unification machinery of a checker run: the
// TypeID and DeclID allocators, the declaration registry, and the
// instance table (the current substitution, mapping variables to the
// types they resolved to). There is exactly one State per run and it is
// threaded through the environment.
type State struct {
	nextType  TypeID
	nextDecl  DeclID
	decls     map[DeclID]*Decl
	instances map[TypeID]*Expr
}

func NewState() *State {
	return &State{
		decls:     make(map[DeclID]*Decl),
		instances: make(map[TypeID]*Expr),
	}
}

// New allocates a type expression with a fresh TypeID.
func (s *State) New(tok token.Token, repr Repr) *Expr {
	s.nextType++
	return &Expr{ID: s.nextType, Tok: tok, Repr: repr}
}

// NewVar allocates a fresh unification variable at the given depth.
func (s *State) NewVar(tok token.Token, name string, depth int) *Expr {
	return s.New(tok, &Var{Name: name, Depth: depth})
}

// FreshDeclID hands out the next declaration identifier.
func (s *State) FreshDeclID() DeclID {
	s.nextDecl++
	return s.nextDecl
}

// RegisterDecl records a declaration so alias unfolding and record/ctor
// lookup can reach it by id.
func (s *State) RegisterDecl(d *Decl) {
	s.decls[d.ID] = d
}

// DeclByID looks up a registered declaration.
func (s *State) DeclByID(id DeclID) (*Decl, bool) {
	d, ok := s.decls[id]
	return d, ok
}

// Instance returns the current resolution of a variable, if any.
func (s *State) Instance(id TypeID) (*Expr, bool) {
	t, ok := s.instances[id]
	return t, ok
}

func (s *State) setInstance(id TypeID, t *Expr) {
	s.instances[id] = t
}

func (s *State) removeInstance(id TypeID) {
	delete(s.instances, id)
}

// SnapshotInstances copies the instance table. Trial unification (implicit
// instance matching) restores the snapshot when a candidate fails.
func (s *State) SnapshotInstances() map[TypeID]*Expr {
	snap := make(map[TypeID]*Expr, len(s.instances))
	for id, t := range s.instances {
		snap[id] = t
	}
	return snap
}

// RestoreInstances throws away the current substitution in favor of a
// snapshot taken earlier. The snapshot itself is copied so it can be
// restored again.
func (s *State) RestoreInstances(snap map[TypeID]*Expr) {
	s.instances = make(map[TypeID]*Expr, len(snap))
	for id, t := range snap {
		s.instances[id] = t
	}
}

// InstanceCount reports the number of resolved variables. Test hook.
func (s *State) InstanceCount() int {
	return len(s.instances)
}
