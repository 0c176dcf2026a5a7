package horn

import "errors"

var (
	ErrInput = errors.New("input error")
	ErrLoad  = errors.New("load error")
)
