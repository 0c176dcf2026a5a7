// Package skeleton decides the propositional skeleton of tree
// interpolation queries with a SAT solver. Theory atoms are abstracted
// to propositional variables, so an unsatisfiable skeleton proves the
// query vacuous before the SMT backend ever sees it. Theory reasoning is
// never performed here.
package skeleton

import (
	"github.com/go-air/gini"
	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"

	"github.com/go-air/hornq/debug"
	"github.com/go-air/hornq/terms"
	"github.com/go-air/hornq/unroll"
)

// skelBuilder abstracts a query tree into a gini circuit
type skelBuilder struct {
	c    *logic.C
	vars map[string]z.Lit // atom print form → literal
}

func newSkelBuilder() *skelBuilder {
	return &skelBuilder{
		c:    logic.NewC(),
		vars: map[string]z.Lit{},
	}
}

// Prune drops tree queries whose propositional skeleton is
// unsatisfiable. The surviving queries keep their original order.
func Prune(qs []*unroll.Node) []*unroll.Node {
	res := make([]*unroll.Node, 0, len(qs))
	for _, q := range qs {
		if Sat(q) {
			res = append(res, q)
			continue
		}
		if debug.Skel() {
			debug.Logf("skeleton unsat, dropping a tree query\n")
		}
	}
	return res
}

// Sat reports whether the propositional skeleton of the query tree is
// satisfiable.
func Sat(q *unroll.Node) bool {
	b := newSkelBuilder()
	lit := b.buildNode(q)
	g := gini.New()
	b.c.ToCnf(g)
	g.Assume(lit)
	return g.Solve() == 1
}

func (b *skelBuilder) buildNode(n *unroll.Node) z.Lit {
	if n.Kind == unroll.OrNode {
		if len(n.Kids) == 0 {
			return b.c.F
		}
		lits := make([]z.Lit, len(n.Kids))
		for i, kid := range n.Kids {
			lits[i] = b.buildNode(kid)
		}
		return b.c.Ors(lits...)
	}
	lits := []z.Lit{b.build(n.Root)}
	for _, kid := range n.Kids {
		lits = append(lits, b.buildNode(kid))
	}
	return b.c.Ands(lits...)
}

// build maps the boolean structure of e into the circuit; anything
// below a connective is an atom
func (b *skelBuilder) build(e *terms.Expr) z.Lit {
	switch e.Kind {
	case terms.TrueKind:
		return b.c.T
	case terms.FalseKind:
		return b.c.F
	case terms.AndKind:
		lits := make([]z.Lit, len(e.Args))
		for i, a := range e.Args {
			lits[i] = b.build(a)
		}
		return b.c.Ands(lits...)
	case terms.OrKind:
		lits := make([]z.Lit, len(e.Args))
		for i, a := range e.Args {
			lits[i] = b.build(a)
		}
		return b.c.Ors(lits...)
	case terms.NotKind:
		return b.build(e.Args[0]).Not()
	case terms.ImpKind:
		return b.c.Or(b.build(e.Args[0]).Not(), b.build(e.Args[1]))
	case terms.IffKind:
		l, r := b.build(e.Args[0]), b.build(e.Args[1])
		return b.c.And(b.c.Or(l.Not(), r), b.c.Or(r.Not(), l))
	case terms.InterpKind:
		return b.build(e.Args[0])
	default:
		return b.getVar(e.String())
	}
}

func (b *skelBuilder) getVar(key string) z.Lit {
	if lit, ok := b.vars[key]; ok {
		return lit
	}
	lit := b.c.Lit()
	b.vars[key] = lit
	return lit
}
