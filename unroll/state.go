package unroll

import (
	"github.com/go-air/hornq/debug"
	"github.com/go-air/hornq/terms"
)

// State accumulates the symbols created during unrolling.
//
// Created holds fresh symbols that must be declared to the SMT backend.
// Subs records, for every fresh symbol, the original symbol it stands in
// for, collapsed transitively at record time: a lookup never needs to
// chase chains.
type State struct {
	Created map[terms.Symbol]terms.Sort
	Subs    map[terms.Symbol]terms.Symbol

	counters map[terms.Symbol]int
	symSorts map[terms.Symbol]terms.Sort
}

// NewState builds unroll state over the input sort environment. Rename
// counters are seeded above any numeric suffix already present among the
// input symbols, so generated names cannot collide with them.
func NewState(symSorts map[terms.Symbol]terms.Sort) *State {
	st := &State{
		Created:  map[terms.Symbol]terms.Sort{},
		Subs:     map[terms.Symbol]terms.Symbol{},
		counters: map[terms.Symbol]int{},
		symSorts: symSorts,
	}
	for s := range symSorts {
		st.Seed(s)
	}
	return st
}

// Seed raises the rename counter of s's base above s's suffix, if any.
func (st *State) Seed(s terms.Symbol) {
	base, n, ok := s.SplitSuffix()
	if !ok {
		return
	}
	if st.counters[base] <= n {
		st.counters[base] = n + 1
	}
}

// Fresh generates the next suffixed symbol for base. Counters are kept
// per base symbol, not globally, so generated names are stable under
// reordering of unrelated occurrences.
func (st *State) Fresh(base terms.Symbol) terms.Symbol {
	n := st.counters[base]
	st.counters[base]++
	return base.WithSuffix(n)
}

// StandIn generates a fresh symbol from seed that stands in for the
// symbol standsFor. The fresh symbol is recorded for declaration with
// standsFor's sort, and Subs maps it to standsFor's own original.
func (st *State) StandIn(seed, standsFor terms.Symbol) terms.Symbol {
	orig := st.Original(standsFor)
	s := st.Fresh(seed)
	st.Created[s] = st.SortOf(orig)
	st.Subs[s] = orig
	return s
}

// Original resolves a possibly-fresh symbol to the original it stands in
// for. Non-fresh symbols resolve to themselves.
func (st *State) Original(s terms.Symbol) terms.Symbol {
	if orig, ok := st.Subs[s]; ok {
		return orig
	}
	return s
}

// SortOf looks up a symbol's sort, trying the input environment and then
// the created symbols. A miss is recovered by defaulting to integer.
func (st *State) SortOf(s terms.Symbol) terms.Sort {
	if so, ok := st.symSorts[s]; ok {
		return so
	}
	if so, ok := st.Created[s]; ok {
		return so
	}
	if orig := st.Original(s); orig != s {
		if so, ok := st.symSorts[orig]; ok {
			return so
		}
	}
	if debug.Unroll() {
		debug.Logf("no sort for %s, defaulting to Int\n", s)
	}
	return terms.Int()
}
