// Package terms provides the term model for Horn constraints: expressions,
// symbols, sorts, k-variables and substitutions.
//
// Expressions are represented as a recursive tagged union structure, a
// single Expr struct whose Kind field selects which of the remaining
// fields are meaningful. This keeps traversal, cloning and comparison
// uniform across all variants.
package terms
