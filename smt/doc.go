// Package smt drives a Craig-interpolating SMT backend over a
// line-oriented SMT-LIB 2 dialogue. Declarations persist for the life
// of the dialogue; each interpolation query runs inside a push/pop
// bracket so assertions do not.
package smt
