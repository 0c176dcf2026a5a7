package horn

import (
	"sort"

	"github.com/go-air/hornq/terms"
)

// BindID identifies an entry of the bind environment.
type BindID int

// Reft is a refinement: a predicate over a local value variable.
type Reft struct {
	VV   terms.Symbol
	Expr *terms.Expr
}

// SortedReft pairs a refinement with the sort of its value variable.
type SortedReft struct {
	Sort terms.Sort
	Reft Reft
}

// Bind is one entry of the bind environment.
type Bind struct {
	Sym   terms.Symbol
	SReft SortedReft
}

// SubC is a subtyping constraint over an environment of binds.
type SubC struct {
	ID  int
	Env []BindID
	LHS SortedReft
	RHS SortedReft
}

// FInfo is the constraint record produced by the upstream loader.
type FInfo struct {
	Binds map[BindID]Bind
	Cons  map[int]SubC
	// WfSorts assigns each k-variable the sort of its implicit
	// value-variable argument.
	WfSorts map[terms.KVar]terms.Sort
	// Lits is the sort environment for literals.
	Lits map[terms.Symbol]terms.Sort
}

// KVars returns the k-variables under consideration, sorted.
func (fi *FInfo) KVars() []terms.KVar {
	res := make([]terms.KVar, 0, len(fi.WfSorts))
	for k := range fi.WfSorts {
		res = append(res, k)
	}
	sort.Slice(res, func(i, j int) bool { return res[i] < res[j] })
	return res
}

func (fi *FInfo) conIDs() []int {
	res := make([]int, 0, len(fi.Cons))
	for id := range fi.Cons {
		res = append(res, id)
	}
	sort.Ints(res)
	return res
}

// SymSorts extracts the symbol sort environment from the binders and the
// literal environment.
func (fi *FInfo) SymSorts() map[terms.Symbol]terms.Sort {
	res := map[terms.Symbol]terms.Sort{}
	for _, b := range fi.Binds {
		res[b.Sym] = b.SReft.Sort
	}
	for s, so := range fi.Lits {
		res[s] = so
	}
	return res
}
