package smt

import "errors"

var (
	// ErrProto covers backend responses that violate the interpolation
	// dialogue: sat on an interpolation query, an unknown verdict, an
	// unparseable s-expression, too few interpolants, or an error token.
	ErrProto = errors.New("smt protocol error")
	// ErrState reports a command issued out of dialogue order.
	ErrState = errors.New("smt dialogue state error")
)
