package catalog

import "testing"

func TestVersionGateAcceptsInRange(t *testing.T) {
	g, err := NewVersionGate(DefaultVersionConstraint)
	if err != nil {
		t.Fatal(err)
	}
	if err := g.Check("1.4.0"); err != nil {
		t.Fatalf("expected 1.4.0 to satisfy %q: %v", DefaultVersionConstraint, err)
	}
}

func TestVersionGateRejectsOutOfRange(t *testing.T) {
	g, err := NewVersionGate(DefaultVersionConstraint)
	if err != nil {
		t.Fatal(err)
	}
	if err := g.Check("2.0.0"); err == nil {
		t.Fatal("expected 2.0.0 to be rejected by < 2.0.0 constraint")
	}
	if err := g.Check("0.9.0"); err == nil {
		t.Fatal("expected 0.9.0 to be rejected by >= 1.0.0 constraint")
	}
}

func TestVersionGateRejectsInvalidDeclaredVersion(t *testing.T) {
	g, err := NewVersionGate(DefaultVersionConstraint)
	if err != nil {
		t.Fatal(err)
	}
	if err := g.Check("not-a-version"); err == nil {
		t.Fatal("expected error for unparseable catalog version")
	}
}

func TestNewVersionGateRejectsInvalidConstraint(t *testing.T) {
	if _, err := NewVersionGate("not a constraint"); err == nil {
		t.Fatal("expected error for invalid constraint string")
	}
}
