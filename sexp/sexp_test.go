package sexp

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/go-air/hornq/terms"
)

type readTest struct {
	in   string
	want string // display form, "" means same as in
	e    error
}

func TestRead(t *testing.T) {
	rts := []readTest{
		{in: `true`},
		{in: `false`},
		{in: `42`},
		{in: `x`},
		{in: `(- 5)`, want: `-5`},
		{in: `(not (= x y))`},
		{in: `(and (>= v k) (< v n))`},
		{in: `(or (= x 0) (= x 1))`},
		{in: `(=> (> k 0) (>= v k))`},
		{in: `(ite (> x y) x y)`},
		{in: `(mod x 2)`},
		{in: `(+ a b c)`, want: `(+ (+ a b) c)`},
		{in: `(f x (g y))`},
		{in: `(distinct x y)`},
		{in: `(- x)`},
		{in: `(= (> x 0) (> y 0))`, want: `(<=> (> x 0) (> y 0))`},
		{in: `(?? x)`, e: ErrForm},
		{in: `(not x y)`, e: ErrForm},
		{in: `((f) x)`, e: ErrForm},
		{in: `(f x`, e: ErrSyntax},
		{in: `)`, e: ErrSyntax},
	}
	for i, rt := range rts {
		got, err := ReadString(rt.in)
		if rt.e != nil {
			if !errors.Is(err, rt.e) {
				t.Errorf("%d %q: error %v, want %v", i, rt.in, err, rt.e)
			}
			continue
		}
		if err != nil {
			t.Errorf("%d %q: %v", i, rt.in, err)
			continue
		}
		want := rt.want
		if want == "" {
			want = rt.in
		}
		if got.String() != want {
			t.Errorf("%d %q: got %s", i, rt.in, got)
		}
	}
}

func TestReadSpansLines(t *testing.T) {
	rd := NewReader(strings.NewReader("(and\n  (>= v k)\n  (< v n))\nunsat\n"))
	e, err := rd.Read()
	if err != nil {
		t.Fatal(err)
	}
	if e.Kind != terms.AndKind {
		t.Fatalf("got %s", e)
	}
	atom, err := rd.ReadAtom()
	if err != nil || atom != "unsat" {
		t.Fatalf("got %q %v", atom, err)
	}
	if _, err := rd.Read(); err != io.EOF {
		t.Fatalf("want EOF, got %v", err)
	}
}

func TestReadComments(t *testing.T) {
	e, err := ReadString("; interpolant 0\n(>= v 0)")
	if err != nil {
		t.Fatal(err)
	}
	if e.String() != "(>= v 0)" {
		t.Errorf("got %s", e)
	}
}

// round trip: writing then reading yields a structurally equal
// expression, modulo = between formulas reading back as iff.
func TestRoundTrip(t *testing.T) {
	es := []*terms.Expr{
		terms.True(),
		terms.FromInt(-3),
		terms.Rel(terms.Ge, terms.Var("v"), terms.Var("k")),
		terms.And(
			terms.Rel(terms.Gt, terms.Var("k"), terms.FromInt(0)),
			terms.Rel(terms.Eq, terms.Var("v"),
				terms.Bin(terms.Plus, terms.Var("s"), terms.Var("k"))),
		),
		terms.Imp(terms.Not(terms.Var("p")), terms.Var("q")),
		terms.Ite(
			terms.Rel(terms.Lt, terms.Var("x"), terms.FromInt(0)),
			terms.Neg(terms.Var("x")),
			terms.Var("x")),
		terms.App("f", terms.Var("x"), terms.FromInt(2)),
		terms.Rel(terms.Ne, terms.Var("x"), terms.Var("y")),
	}
	for i, e := range es {
		s, err := String(e)
		if err != nil {
			t.Fatalf("%d: %v", i, err)
		}
		back, err := ReadString(s)
		if err != nil {
			t.Fatalf("%d %q: %v", i, s, err)
		}
		if !back.Equal(e) {
			t.Errorf("%d: %s read back as %s", i, e, back)
		}
	}
}

func TestWriteKAppRejected(t *testing.T) {
	_, err := String(terms.KApp("k0", terms.Subst{}))
	if !errors.Is(err, ErrWire) {
		t.Fatalf("got %v", err)
	}
}

func TestWriteIffAsEq(t *testing.T) {
	e := terms.Iff(
		terms.Rel(terms.Gt, terms.Var("x"), terms.FromInt(0)),
		terms.Rel(terms.Gt, terms.Var("y"), terms.FromInt(0)))
	s, err := String(e)
	if err != nil {
		t.Fatal(err)
	}
	if s != "(= (> x 0) (> y 0))" {
		t.Errorf("got %s", s)
	}
	back, err := ReadString(s)
	if err != nil {
		t.Fatal(err)
	}
	if back.Kind != terms.IffKind {
		t.Errorf("iff read back as %s", back)
	}
}
