package unroll

import (
	"github.com/go-air/hornq/debug"
	"github.com/go-air/hornq/horn"
	"github.com/go-air/hornq/terms"
)

// Unroll expands the query against the clause graph to the given depth,
// returning the disjunctive interpolation query and the state holding
// the symbols created on the way.
func Unroll(q horn.Query, kcs horn.KClauses, symSorts map[terms.Symbol]terms.Sort, depth int) (*Node, *State, error) {
	st := NewState(symSorts)
	root, err := st.Unroll(q, kcs, depth)
	return root, st, err
}

// Unroll expands one query against the clause graph, accumulating
// created symbols in st. Sharing one state across the queries of a
// constraint record keeps generated names unique for the whole SMT
// dialogue, where declarations persist across queries. The clause map
// and sort environment are not modified; unrolling works on a private
// view.
func (st *State) Unroll(q horn.Query, kcs horn.KClauses, depth int) (*Node, error) {
	if depth < 0 {
		return nil, ErrDepth
	}
	seedQuery(st, q)
	seedClauses(st, kcs)

	u := &unroller{st: st, view: kcs.Clone()}
	dmap := map[terms.KVar]int{}
	for k := range u.view {
		dmap[k] = depth
	}

	// the query's own value variable becomes a fresh symbol, recorded
	// under VV so extraction maps it back
	v := st.StandIn(terms.VV, terms.VV)
	q = q.Rename(terms.VV, v)

	atoms, kids := u.children(q.Children, dmap)
	parts := []*terms.Expr{terms.Not(q.Head), q.Body}
	root := &Node{
		Kind: AndNode,
		Root: terms.And(append(parts, atoms...)...),
		Kids: kids,
	}
	if debug.Unroll() {
		debug.Logf("unrolled query to %d cut(s), %d created symbol(s)\n",
			root.Cuts(), len(st.Created))
	}
	return root, nil
}

type unroller struct {
	st   *State
	view horn.KClauses
}

// children materializes the substitutions of the given k-variable
// occurrences and unrolls each occurrence. The returned atoms belong in
// the enclosing clause body.
func (u *unroller) children(children []horn.Child, dmap map[terms.KVar]int) ([]*terms.Expr, []*Node) {
	var atoms []*terms.Expr
	var kids []*Node
	for _, ch := range children {
		for _, p := range ch.Su.Pairs() {
			t := u.st.StandIn(terms.SubSeed, p.Sym)
			atoms = append(atoms, terms.Rel(terms.Eq, terms.Var(t), p.Expr))
			u.view.Rename(p.Sym, t)
		}
		kids = append(kids, u.unrollK(dmap, ch.K, ch.Sym))
	}
	return atoms, kids
}

// unrollK expands one occurrence of k whose value variable is bound to
// sym. With budget left, both recursive and non-recursive rules expand
// and the budget decreases; exhausted budgets admit only non-recursive
// rules. An unknown k-variable yields an empty Or node.
func (u *unroller) unrollK(dmap map[terms.KVar]int, k terms.KVar, sym terms.Symbol) *Node {
	info := &Info{K: k, Sym: u.st.Original(sym)}
	rs, ok := u.view[k]
	if !ok {
		return &Node{Kind: OrNode, Info: info}
	}
	var cs []horn.Rule
	if dmap[k] > 0 {
		cs = append(append([]horn.Rule{}, rs.Rec...), rs.NonRec...)
		next := make(map[terms.KVar]int, len(dmap))
		for kk, d := range dmap {
			next[kk] = d
		}
		next[k]--
		dmap = next
	} else {
		cs = append([]horn.Rule{}, rs.NonRec...)
	}

	res := &Node{Kind: OrNode, Info: info}
	for _, c := range cs {
		// alpha-rename the occurrence binder inside the rule and the
		// view so subsequent siblings cannot capture it, then bind the
		// rule's value variable to the caller's symbol
		symP := u.st.StandIn(sym, sym)
		c = c.Rename(sym, symP)
		u.view.Rename(sym, symP)
		body := terms.Subst1(c.Body, terms.VV, terms.Var(sym))

		atoms, kids := u.children(c.Children, dmap)
		res.Kids = append(res.Kids, &Node{
			Kind: AndNode,
			Root: terms.And(append([]*terms.Expr{body}, atoms...)...),
			Kids: kids,
		})
	}
	return res
}

func seedQuery(st *State, q horn.Query) {
	free := q.Body.FreeSymbols(nil)
	q.Head.FreeSymbols(free)
	for _, ch := range q.Children {
		free[ch.Sym] = true
		for _, p := range ch.Su.Pairs() {
			free[p.Sym] = true
			p.Expr.FreeSymbols(free)
		}
	}
	for s := range free {
		st.Seed(s)
	}
}

func seedClauses(st *State, kcs horn.KClauses) {
	seedRule := func(r horn.Rule) {
		free := r.Body.FreeSymbols(nil)
		for _, ch := range r.Children {
			free[ch.Sym] = true
			for _, p := range ch.Su.Pairs() {
				free[p.Sym] = true
				p.Expr.FreeSymbols(free)
			}
		}
		for s := range free {
			st.Seed(s)
		}
	}
	for _, rs := range kcs {
		for _, r := range rs.Rec {
			seedRule(r)
		}
		for _, r := range rs.NonRec {
			seedRule(r)
		}
	}
}
