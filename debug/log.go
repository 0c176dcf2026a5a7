package debug

import (
	"fmt"
	"os"
)

// Logf writes a debug line to stderr. Values with a String method, such
// as expressions, render through it.
func Logf(msg string, args ...any) {
	for i := range args {
		switch x := args[i].(type) {
		case fmt.Stringer:
			args[i] = x.String()
		case bool, string, float64, int:
		default:
		}
	}
	fmt.Fprintf(os.Stderr, msg, args...)
}
