package horn

import (
	"fmt"

	"github.com/go-air/hornq/terms"
)

// Child is a k-variable occurrence K[σ] in a clause body, tagged with
// the symbol its implicit value-variable argument was bound to.
type Child struct {
	K   terms.KVar
	Su  terms.Subst
	Sym terms.Symbol
}

// Rule is a Horn clause whose conclusion is a k-variable.
type Rule struct {
	Body     *terms.Expr
	Children []Child
	Head     terms.KVar
}

// Query is a Horn clause whose conclusion is a concrete predicate, the
// assertion to be refuted.
type Query struct {
	Body     *terms.Expr
	Children []Child
	Head     *terms.Expr
}

// RuleSet splits a k-variable's rules by recursion.
type RuleSet struct {
	Rec    []Rule
	NonRec []Rule
}

// KClauses maps each k-variable to its rules.
type KClauses map[terms.KVar]*RuleSet

// Clauses is the output of normalization.
type Clauses struct {
	KCs      KClauses
	Queries  []Query
	SymSorts map[terms.Symbol]terms.Sort
	KSorts   map[terms.KVar]terms.Sort
}

// Normalize turns the constraints of fi into rules and queries per the
// shape of their right-hand sides.
func Normalize(fi *FInfo) (*Clauses, error) {
	res := &Clauses{
		KCs:      KClauses{},
		SymSorts: fi.SymSorts(),
		KSorts:   map[terms.KVar]terms.Sort{},
	}
	for k, s := range fi.WfSorts {
		res.KSorts[k] = s
		res.SymSorts[terms.Symbol(k)] = s
		if _, ok := res.KCs[k]; !ok {
			res.KCs[k] = &RuleSet{}
		}
	}

	var rules []Rule
	for _, id := range fi.conIDs() {
		c := fi.Cons[id]
		body, children, err := clauseBody(fi, &c)
		if err != nil {
			return nil, err
		}
		rhs := terms.Rename(c.RHS.Reft.Expr, c.RHS.Reft.VV, terms.VV)
		if rhs.Kind == terms.KAppKind {
			k := rhs.KV()
			if _, ok := fi.WfSorts[k]; !ok {
				return nil, fmt.Errorf("%w: constraint %d: head %s has no well-formedness entry", ErrInput, id, k)
			}
			rules = append(rules, Rule{Body: body, Children: children, Head: k})
			continue
		}
		if rhs.HasKApps() {
			return nil, fmt.Errorf("%w: constraint %d: query head contains a k-variable application", ErrInput, id)
		}
		res.Queries = append(res.Queries, Query{Body: body, Children: children, Head: rhs})
	}

	graph := callGraph(rules)
	for _, r := range rules {
		rs, ok := res.KCs[r.Head]
		if !ok {
			rs = &RuleSet{}
			res.KCs[r.Head] = rs
		}
		if isClauseRec(graph, r) {
			rs.Rec = append(rs.Rec, r)
		} else {
			rs.NonRec = append(rs.NonRec, r)
		}
	}
	return res, nil
}

// clauseBody collects the constraint environment: each bound variable
// contributes its refinement expression associated with its binder
// symbol, and the left-hand side contributes its refinement tagged with
// the value variable.
func clauseBody(fi *FInfo, c *SubC) (*terms.Expr, []Child, error) {
	type tagged struct {
		e   *terms.Expr
		sym terms.Symbol
	}
	var collected []tagged
	for _, id := range c.Env {
		b, ok := fi.Binds[id]
		if !ok {
			return nil, nil, fmt.Errorf("%w: constraint %d: no bind %d", ErrInput, c.ID, id)
		}
		e := terms.Rename(b.SReft.Reft.Expr, b.SReft.Reft.VV, b.Sym)
		collected = append(collected, tagged{e: e, sym: b.Sym})
	}
	lhs := terms.Rename(c.LHS.Reft.Expr, c.LHS.Reft.VV, terms.VV)
	collected = append(collected, tagged{e: lhs, sym: terms.VV})

	var atoms []*terms.Expr
	var children []Child
	for _, tg := range collected {
		e := scrubKApps(tg.e, tg.sym)
		for _, conj := range e.Conjuncts() {
			if conj.Kind == terms.KAppKind {
				k := conj.KV()
				if _, ok := fi.WfSorts[k]; !ok {
					return nil, nil, fmt.Errorf("%w: constraint %d: %s has no well-formedness entry", ErrInput, c.ID, k)
				}
				children = append(children, Child{K: k, Su: conj.Su, Sym: tg.sym})
				continue
			}
			if conj.HasKApps() {
				return nil, nil, fmt.Errorf("%w: constraint %d: k-variable application below a connective", ErrInput, c.ID)
			}
			atoms = append(atoms, conj)
		}
	}
	return terms.And(atoms...), children, nil
}

// scrubKApps removes identity substitution entries [k := binder] from
// every k-variable application in e. These are artefacts of the upstream
// encoding and interfere with unrolling. No other entry is altered.
func scrubKApps(e *terms.Expr, binder terms.Symbol) *terms.Expr {
	res := e.Clone()
	res.WalkKApps(func(ka *terms.Expr) {
		ka.Su = ka.Su.Filter(func(_ terms.Symbol, img *terms.Expr) bool {
			return !(img.Kind == terms.VarKind && img.Sym == binder)
		})
	})
	return res
}

func callGraph(rules []Rule) map[terms.KVar][]terms.KVar {
	g := map[terms.KVar][]terms.KVar{}
	for _, r := range rules {
		for _, ch := range r.Children {
			g[r.Head] = append(g[r.Head], ch.K)
		}
	}
	return g
}

// isClauseRec reports whether the rule's head is reachable from any of
// its children's heads in the rule-call graph.
func isClauseRec(g map[terms.KVar][]terms.KVar, r Rule) bool {
	seen := map[terms.KVar]bool{}
	var dfs func(k terms.KVar) bool
	dfs = func(k terms.KVar) bool {
		if k == r.Head {
			return true
		}
		if seen[k] {
			return false
		}
		seen[k] = true
		for _, next := range g[k] {
			if dfs(next) {
				return true
			}
		}
		return false
	}
	for _, ch := range r.Children {
		if dfs(ch.K) {
			return true
		}
	}
	return false
}

// Rename renames free occurrences of from to to across the rule's body
// and children, including child occurrence tags.
func (r Rule) Rename(from, to terms.Symbol) Rule {
	res := Rule{Body: terms.Rename(r.Body, from, to), Head: r.Head}
	res.Children = renameChildren(r.Children, from, to)
	return res
}

// Rename renames free occurrences of from to to across the query.
func (q Query) Rename(from, to terms.Symbol) Query {
	res := Query{
		Body: terms.Rename(q.Body, from, to),
		Head: terms.Rename(q.Head, from, to),
	}
	res.Children = renameChildren(q.Children, from, to)
	return res
}

// renameChildren renames every symbol occurrence in the occurrences:
// the binder tag, the substitution images, and the substitution keys.
// Keys are symbol references into the clause graph; a rename that
// skipped them would break the chaining of later materializations.
func renameChildren(children []Child, from, to terms.Symbol) []Child {
	if children == nil {
		return nil
	}
	res := make([]Child, len(children))
	for i, ch := range children {
		nc := Child{K: ch.K, Sym: ch.Sym}
		if nc.Sym == from {
			nc.Sym = to
		}
		nc.Su = terms.Subst{}
		for _, p := range ch.Su.Pairs() {
			key := p.Sym
			if key == from {
				key = to
			}
			nc.Su = nc.Su.Bind(key, terms.Rename(p.Expr, from, to))
		}
		res[i] = nc
	}
	return res
}

// Clone returns a deep copy of the rule set.
func (rs *RuleSet) Clone() *RuleSet {
	res := &RuleSet{}
	for _, r := range rs.Rec {
		res.Rec = append(res.Rec, r.clone())
	}
	for _, r := range rs.NonRec {
		res.NonRec = append(res.NonRec, r.clone())
	}
	return res
}

func (r Rule) clone() Rule {
	res := Rule{Body: r.Body.Clone(), Head: r.Head}
	for _, ch := range r.Children {
		res.Children = append(res.Children, Child{K: ch.K, Su: ch.Su.Clone(), Sym: ch.Sym})
	}
	return res
}

// Clone returns a deep copy of kcs, for use as a mutable unrolling view.
func (kcs KClauses) Clone() KClauses {
	res := KClauses{}
	for k, rs := range kcs {
		res[k] = rs.Clone()
	}
	return res
}

// Rename renames from to to in every rule of the view.
func (kcs KClauses) Rename(from, to terms.Symbol) {
	for _, rs := range kcs {
		for i := range rs.Rec {
			rs.Rec[i] = rs.Rec[i].Rename(from, to)
		}
		for i := range rs.NonRec {
			rs.NonRec[i] = rs.NonRec[i].Rename(from, to)
		}
	}
}
