package smt

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/go-air/hornq/terms"
)

const z3Hello = "(:version \"4.8.10\")\n"

func attach(t *testing.T, resp string) (*Solver, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	s, err := Attach(strings.NewReader(resp), out, Z3)
	if err != nil {
		t.Fatal(err)
	}
	return s, out
}

func TestHelloVersionGate(t *testing.T) {
	_, out := attach(t, z3Hello)
	sent := out.String()
	if !strings.Contains(sent, "(get-info :version)") {
		t.Error("no version probe")
	}
	if !strings.Contains(sent, "(set-option :smt.mbqi false)") {
		t.Errorf("post-4.3.2 options not chosen:\n%s", sent)
	}

	_, out = attach(t, "(:version \"4.3.1\")\n")
	if !strings.Contains(out.String(), "(set-option :MBQI false)") {
		t.Errorf("pre-4.3.2 options not chosen:\n%s", out.String())
	}
}

func TestHelloBadVersion(t *testing.T) {
	_, err := Attach(strings.NewReader("what\n"), &bytes.Buffer{}, Z3)
	if !errors.Is(err, ErrProto) {
		t.Fatalf("got %v", err)
	}
}

func TestMathSATNoProbe(t *testing.T) {
	out := &bytes.Buffer{}
	if _, err := Attach(strings.NewReader(""), out, MathSAT); err != nil {
		t.Fatal(err)
	}
	sent := out.String()
	if strings.Contains(sent, "get-info") {
		t.Error("mathsat probed for a version")
	}
	if !strings.Contains(sent, "(set-option :produce-interpolants true)") {
		t.Errorf("preamble:\n%s", sent)
	}
}

func TestDeclare(t *testing.T) {
	s, out := attach(t, z3Hello)
	if err := s.DeclareAll(map[terms.Symbol]terms.Sort{
		"k":   terms.Int(),
		"b":   terms.Bool(),
		"VV0": terms.Int(),
	}); err != nil {
		t.Fatal(err)
	}
	s.w.Flush()
	sent := out.String()
	for _, want := range []string{
		"(declare-fun VV0 () Int)",
		"(declare-fun b () Bool)",
		"(declare-fun k () Int)",
	} {
		if !strings.Contains(sent, want) {
			t.Errorf("missing %q in:\n%s", want, sent)
		}
	}
	// name order
	if strings.Index(sent, "VV0") > strings.Index(sent, "(declare-fun b") {
		t.Error("declarations not in name order")
	}
}

func TestInterpolate(t *testing.T) {
	s, out := attach(t, z3Hello+"unsat\n(>= VV0 0)\n(and (<= SUB0 0) (= s0 0))\n")
	f := terms.And(
		terms.Not(terms.Rel(terms.Ge, terms.Var("VV0"), terms.Var("k"))),
		terms.Interp(terms.Rel(terms.Eq, terms.Var("VV0"), terms.FromInt(0))),
		terms.Interp(terms.Rel(terms.Le, terms.Var("SUB0"), terms.FromInt(0))),
	)
	interps, err := s.Interpolate(f, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(interps) != 2 {
		t.Fatalf("got %d interpolants", len(interps))
	}
	if interps[0].String() != "(>= VV0 0)" {
		t.Errorf("interp 0: %s", interps[0])
	}
	if interps[1].String() != "(and (<= SUB0 0) (= s0 0))" {
		t.Errorf("interp 1: %s", interps[1])
	}
	sent := out.String()
	for _, want := range []string{
		"(push 1)",
		"(assert (! (and (not (>= VV0 k)) (interp (= VV0 0)) (interp (<= SUB0 0))) :named p-1))",
		"(compute-interpolant)",
		"(pop 1)",
	} {
		if !strings.Contains(sent, want) {
			t.Errorf("missing %q in:\n%s", want, sent)
		}
	}
}

func TestInterpolateSatIsProtocolError(t *testing.T) {
	s, _ := attach(t, z3Hello+"sat\n")
	_, err := s.Interpolate(terms.True(), 0)
	if !errors.Is(err, ErrProto) {
		t.Fatalf("got %v", err)
	}
	// the dialogue is no longer idle; further queries are rejected
	if _, err := s.Interpolate(terms.True(), 0); !errors.Is(err, ErrState) {
		t.Fatalf("got %v", err)
	}
}

func TestInterpolateUnknown(t *testing.T) {
	s, _ := attach(t, z3Hello+"unknown\n")
	if _, err := s.Interpolate(terms.True(), 0); !errors.Is(err, ErrProto) {
		t.Fatal("unknown accepted")
	}
}

func TestInterpolateTooFew(t *testing.T) {
	s, _ := attach(t, z3Hello+"unsat\n(>= VV0 0)\n")
	_, err := s.Interpolate(terms.True(), 2)
	if !errors.Is(err, ErrProto) {
		t.Fatalf("got %v", err)
	}
}

func TestInterpolateBadSexp(t *testing.T) {
	s, _ := attach(t, z3Hello+"unsat\n(?? x)\n")
	if _, err := s.Interpolate(terms.True(), 1); !errors.Is(err, ErrProto) {
		t.Fatal("unrecognized form accepted")
	}
}

func TestInterpolateErrorToken(t *testing.T) {
	s, _ := attach(t, z3Hello+"(error \"line 3: unknown constant\")\n")
	if _, err := s.Interpolate(terms.True(), 1); !errors.Is(err, ErrProto) {
		t.Fatal("error token accepted")
	}
}

func TestDeclareAfterAssertRejected(t *testing.T) {
	s, _ := attach(t, z3Hello+"sat\n")
	s.Interpolate(terms.True(), 0)
	if err := s.Declare("x", terms.Int()); !errors.Is(err, ErrState) {
		t.Fatalf("got %v", err)
	}
}

func TestParseZ3Version(t *testing.T) {
	v, err := parseZ3Version(`(:version "4.12.2")`)
	if err != nil {
		t.Fatal(err)
	}
	if v != (z3Version{4, 12, 2}) {
		t.Errorf("got %v", v)
	}
	if !v.atLeast(4, 3, 2) || v.atLeast(5, 0, 0) {
		t.Error("version comparison broken")
	}
	if _, err := parseZ3Version("unsat"); err == nil {
		t.Error("junk version accepted")
	}
}
