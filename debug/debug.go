package debug

import (
	"os"
	"strconv"
)

type debug struct {
	Norm   bool
	Unroll bool
	Expand bool
	Skel   bool
	SMT    bool
	Quals  bool
}

var d *debug

func init() {
	d = &debug{}
	d.Norm = boolEnv("HORNQ_DEBUG_NORM")
	d.Unroll = boolEnv("HORNQ_DEBUG_UNROLL")
	d.Expand = boolEnv("HORNQ_DEBUG_EXPAND")
	d.Skel = boolEnv("HORNQ_DEBUG_SKEL")
	d.SMT = boolEnv("HORNQ_DEBUG_SMT")
	d.Quals = boolEnv("HORNQ_DEBUG_QUALS")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Norm() bool {
	return d.Norm
}
func Unroll() bool {
	return d.Unroll
}
func Expand() bool {
	return d.Expand
}
func Skel() bool {
	return d.Skel
}
func SMT() bool {
	return d.SMT
}
func Quals() bool {
	return d.Quals
}
