// Package horn turns raw subtyping constraints into Horn clauses whose
// heads are either k-variables (rules) or concrete predicates (queries),
// and classifies rules as recursive or not via the rule-call graph.
package horn
