package skeleton

import (
	"testing"

	"github.com/go-air/hornq/terms"
	"github.com/go-air/hornq/unroll"
)

func atom(s string) *terms.Expr {
	return terms.Rel(terms.Gt, terms.Var(terms.Symbol(s)), terms.FromInt(0))
}

func and(root *terms.Expr, kids ...*unroll.Node) *unroll.Node {
	return &unroll.Node{Kind: unroll.AndNode, Root: root, Kids: kids}
}

func TestSatPlain(t *testing.T) {
	n := and(terms.And(atom("a"), atom("b")), and(atom("c")))
	if !Sat(n) {
		t.Error("satisfiable skeleton reported unsat")
	}
}

func TestUnsatContradiction(t *testing.T) {
	// same atom positive and negated: propositionally unsat
	n := and(terms.And(atom("a"), terms.Not(atom("a"))))
	if Sat(n) {
		t.Error("contradictory skeleton reported sat")
	}
}

func TestTheoryBlind(t *testing.T) {
	// x > 0 and x < 0 are distinct atoms propositionally; the skeleton
	// must not decide theory facts
	contradictory := terms.And(
		terms.Rel(terms.Gt, terms.Var("x"), terms.FromInt(0)),
		terms.Rel(terms.Lt, terms.Var("x"), terms.FromInt(0)))
	if !Sat(and(contradictory)) {
		t.Error("skeleton decided a theory fact")
	}
}

func TestEmptyOrFalse(t *testing.T) {
	n := and(atom("a"), &unroll.Node{Kind: unroll.OrNode})
	if Sat(n) {
		t.Error("empty Or did not falsify the query")
	}
}

func TestPrune(t *testing.T) {
	good := and(atom("a"))
	bad := and(terms.And(atom("a"), terms.Not(atom("a"))))
	res := Prune([]*unroll.Node{good, bad, good})
	if len(res) != 2 {
		t.Fatalf("kept %d queries", len(res))
	}
	if res[0] != good || res[1] != good {
		t.Error("order not preserved")
	}
}
