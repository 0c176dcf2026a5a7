package quals

import (
	"github.com/go-air/hornq/debug"
	"github.com/go-air/hornq/terms"
	"github.com/go-air/hornq/unroll"
)

// Solution maps each k-variable to its candidate predicates, in
// accumulation order.
type Solution map[terms.KVar][]*terms.Expr

// Extract walks a tree interpolant top-down and accumulates, for each
// node generated from a k-variable occurrence, the rehydrated
// interpolant into the solution. Rehydration reverses the renaming of
// unrolling: every fresh symbol becomes the original it stands in for,
// and the occurrence's own symbol becomes the value variable.
func Extract(ti *unroll.Node, st *unroll.State, sol Solution) {
	if ti == nil {
		return
	}
	if ti.Root != nil && ti.Info != nil {
		e := terms.RenameAll(ti.Root, st.Subs)
		e = terms.Rename(e, ti.Info.Sym, terms.VV)
		e = Numberify(e)
		sol[ti.Info.K] = append(sol[ti.Info.K], e)
		if debug.Quals() {
			debug.Logf("candidate for %s: %s\n", string(ti.Info.K), e)
		}
	}
	for _, kid := range ti.Kids {
		Extract(kid, st, sol)
	}
}

// Numberify replaces free variables whose names parse as integers with
// the corresponding integer constants, reversing a renaming artefact
// where integer constants had earlier become symbol names. The
// heuristic is unsound under shadowing; it lives behind this single
// helper so it can be dropped when the upstream encoding is fixed.
func Numberify(e *terms.Expr) *terms.Expr {
	if e == nil {
		return nil
	}
	if e.Kind == terms.VarKind {
		if n, ok := e.Sym.IsNumeric(); ok {
			return terms.FromInt(n)
		}
		return e.Clone()
	}
	res := e.Clone()
	numberifyInPlace(res)
	return res
}

func numberifyInPlace(e *terms.Expr) {
	for i, a := range e.Args {
		if a.Kind == terms.VarKind {
			if n, ok := a.Sym.IsNumeric(); ok {
				e.Args[i] = terms.FromInt(n)
				continue
			}
		}
		numberifyInPlace(a)
	}
	for _, p := range e.Su.Pairs() {
		if p.Expr.Kind == terms.VarKind {
			if n, ok := p.Expr.Sym.IsNumeric(); ok {
				*p.Expr = *terms.FromInt(n)
				continue
			}
		}
		numberifyInPlace(p.Expr)
	}
}
