package typesystem

import (
	"testing"
)

func TestFlattenIsIdempotent(t *testing.T) {
	s, decl := intState(t)
	v := s.NewVar(tok, "", 1)
	w := s.NewVar(tok, "", 2)
	mustUnify(t, s, w, intTy(s, decl))
	mustUnify(t, s, v, s.New(tok, &Arrow{Dom: w, Cod: w}))

	once := s.Flatten(v)
	twice := s.Flatten(once)
	if once.String() != "int -> int" {
		t.Fatalf("flatten resolved to %s", once)
	}
	if twice != once {
		t.Fatalf("flatten must be a fixed point")
	}
}

func TestSubstitutionStaysAcyclic(t *testing.T) {
	s, decl := intState(t)
	vars := make([]*Expr, 6)
	for i := range vars {
		vars[i] = s.NewVar(tok, "", i)
	}
	for i := 0; i+1 < len(vars); i++ {
		mustUnify(t, s, vars[i], vars[i+1])
	}
	mustUnify(t, s, vars[0], intTy(s, decl))

	// Walking any chain terminates at int.
	for _, v := range vars {
		if got := s.Flatten(v).String(); got != "int" {
			t.Fatalf("chain must resolve to int, got %s", got)
		}
	}
}

func TestFreeTypeVarsDepthCutoff(t *testing.T) {
	s, _ := intState(t)
	shallow := s.NewVar(tok, "a", 1)
	deep := s.NewVar(tok, "b", 3)
	arrow := s.New(tok, &Arrow{Dom: shallow, Cod: deep})

	got := s.FreeTypeVars(arrow, 2)
	if len(got) != 1 || got[0].ID != deep.ID {
		t.Fatalf("only the deep variable is free above the cutoff, got %v", got)
	}
	all := s.FreeTypeVars(arrow, 0)
	if len(all) != 2 {
		t.Fatalf("both variables are free at depth 0, got %d", len(all))
	}
}

func TestFreeTypeVarsSkipsQuantified(t *testing.T) {
	s, _ := intState(t)
	a := s.NewVar(tok, "a", 2)
	b := s.NewVar(tok, "b", 2)
	body := s.New(tok, &Arrow{Dom: a, Cod: b})
	scheme := s.New(tok, &Poly{Vars: []*Expr{a}, Body: body})

	got := s.FreeTypeVars(scheme, 0)
	if len(got) != 1 || got[0].ID != b.ID {
		t.Fatalf("quantified variable must not be free, got %v", got)
	}
}

func TestPolyVarsAppearFreeInBody(t *testing.T) {
	s, _ := intState(t)
	a := s.NewVar(tok, "a", 1)
	body := s.New(tok, &Arrow{Dom: a, Cod: a})
	scheme := s.New(tok, &Poly{Vars: []*Expr{a}, Body: body})

	p := scheme.Repr.(*Poly)
	inBody := s.FreeTypeVars(p.Body, 0)
	for _, v := range p.Vars {
		found := false
		for _, fv := range inBody {
			if fv.ID == v.ID {
				found = true
			}
		}
		if !found {
			t.Fatalf("quantified variable %s does not occur in the body", v)
		}
	}
}

func TestInstantiateMakesFreshVariables(t *testing.T) {
	s, decl := intState(t)
	a := s.NewVar(tok, "a", 1)
	body := s.New(tok, &Arrow{Dom: a, Cod: a})
	scheme := s.New(tok, &Poly{Vars: []*Expr{a}, Body: body})

	first := s.Instantiate(scheme, tok, 2)
	second := s.Instantiate(scheme, tok, 2)

	// Pinning one instantiation to int must not contaminate the other.
	mustUnify(t, s, first, s.New(tok, &Arrow{Dom: intTy(s, decl), Cod: intTy(s, decl)}))
	fv := s.FreeTypeVars(second, 0)
	if len(fv) != 1 {
		t.Fatalf("second instantiation must keep its own variable, got %v", fv)
	}
	if _, ok := s.Instance(fv[0].ID); ok {
		t.Fatalf("second instantiation's variable must stay unresolved")
	}
	if _, ok := s.Instance(a.ID); ok {
		t.Fatalf("the quantified variable itself must never be resolved")
	}
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	s, decl := intState(t)
	v := s.NewVar(tok, "", 1)
	snap := s.SnapshotInstances()

	mustUnify(t, s, v, intTy(s, decl))
	if _, ok := s.Instance(v.ID); !ok {
		t.Fatal("variable must be resolved before restore")
	}
	s.RestoreInstances(snap)
	if _, ok := s.Instance(v.ID); ok {
		t.Fatal("restore must drop the trial resolution")
	}

	// The snapshot can be restored repeatedly.
	mustUnify(t, s, v, intTy(s, decl))
	s.RestoreInstances(snap)
	if s.InstanceCount() != 0 {
		t.Fatal("second restore must also start from a clean table")
	}
}
