// Package unroll expands a Horn clause graph to a finite depth,
// producing a disjunctive interpolation query: an And/Or tree whose
// And-nodes denote interpolation cut points and whose Or-nodes denote
// the alternative expansions of a single k-variable occurrence.
package unroll
