package sexp

import "errors"

var (
	ErrSyntax = errors.New("s-expression syntax error")
	ErrForm   = errors.New("unrecognized form")
	ErrWire   = errors.New("expression has no wire form")
)
