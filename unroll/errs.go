package unroll

import (
	"errors"
	"fmt"
)

var (
	ErrDepth    = errors.New("negative unroll depth")
	ErrCutCount = errors.New("cut/interpolant count mismatch")
)

func errCutCount(cuts, interps int) error {
	return fmt.Errorf("%w: %d cuts, %d interpolants", ErrCutCount, cuts, interps)
}
