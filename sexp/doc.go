// Package sexp reads and writes expressions in SMT-LIB 2 s-expression
// form. The reader recognizes the subset of forms an interpolating
// backend produces. A list headed by any other identifier reads as an
// uninterpreted function application; a head that is not an identifier
// fails cleanly.
package sexp
