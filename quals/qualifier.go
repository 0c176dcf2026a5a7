package quals

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-air/hornq/terms"
)

// Param is a typed qualifier parameter.
type Param struct {
	Sym  terms.Symbol
	Sort terms.Sort
}

// Qualifier is a typed atomic predicate template.
type Qualifier struct {
	Name   string
	Params []Param
	Body   *terms.Expr
	// Loc names the k-variable whose candidates produced the
	// qualifier.
	Loc string
}

// String renders the qualifier in the textual output form.
func (q Qualifier) String() string {
	var sb strings.Builder
	sb.WriteString(q.Name)
	sb.WriteString(" (")
	for i, p := range q.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s:%s", p.Sym, p.Sort)
	}
	sb.WriteString("): ")
	sb.WriteString(q.Body.String())
	return sb.String()
}

// FromSolution decomposes the candidate predicates of every k-variable
// into atomic qualifiers with typed parameter lists, deduplicated across
// k-variables by structural equality. Output order is deterministic:
// k-variables by name, candidates and their atoms in accumulation
// order.
func FromSolution(sol Solution, symSorts map[terms.Symbol]terms.Sort, kSorts map[terms.KVar]terms.Sort) []Qualifier {
	ks := make([]terms.KVar, 0, len(sol))
	for k := range sol {
		ks = append(ks, k)
	}
	sort.Slice(ks, func(i, j int) bool { return ks[i] < ks[j] })

	var res []Qualifier
	seen := map[string]bool{}
	for _, k := range ks {
		for _, pred := range sol[k] {
			for _, a := range atoms(pred) {
				if a.Kind == terms.TrueKind || a.Kind == terms.FalseKind {
					continue
				}
				q := Qualifier{
					Params: params(a, k, symSorts, kSorts),
					Body:   a,
					Loc:    string(k),
				}
				key := dedupKey(q)
				if seen[key] {
					continue
				}
				seen[key] = true
				q.Name = fmt.Sprintf("q%d", len(res))
				res = append(res, q)
			}
		}
	}
	return res
}

// atoms flattens a predicate under conjunction and disjunction.
// Anything else, including negations, is atomic.
func atoms(e *terms.Expr) []*terms.Expr {
	switch e.Kind {
	case terms.AndKind, terms.OrKind:
		var res []*terms.Expr
		for _, a := range e.Args {
			res = append(res, atoms(a)...)
		}
		return res
	}
	return []*terms.Expr{e}
}

// params collects the sorted typed parameter list of an atom. The value
// variable takes the k-variable's parameter sort; other symbols default
// to integer when the sort environment has no entry.
func params(a *terms.Expr, k terms.KVar, symSorts map[terms.Symbol]terms.Sort, kSorts map[terms.KVar]terms.Sort) []Param {
	free := a.FreeSymbols(nil)
	syms := make([]terms.Symbol, 0, len(free))
	for s := range free {
		syms = append(syms, s)
	}
	sort.Slice(syms, func(i, j int) bool { return syms[i] < syms[j] })
	res := make([]Param, len(syms))
	for i, s := range syms {
		so := terms.Int()
		if s == terms.VV {
			if ks, ok := kSorts[k]; ok {
				so = ks
			}
		} else if sso, ok := symSorts[s]; ok {
			so = sso
		}
		res[i] = Param{Sym: s, Sort: so}
	}
	return res
}

func dedupKey(q Qualifier) string {
	var sb strings.Builder
	for _, p := range q.Params {
		fmt.Fprintf(&sb, "(%s %s)", p.Sym, p.Sort)
	}
	sb.WriteByte(':')
	sb.WriteString(q.Body.String())
	return sb.String()
}
