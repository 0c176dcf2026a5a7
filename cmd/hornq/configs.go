package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"

	"github.com/go-air/hornq"
	"github.com/go-air/hornq/smt"
)

type MainConfig struct {
	Color   bool   `cli:"name=color desc='colorize qualifier output'"`
	Backend string `cli:"name=backend desc='interpolating backend: z3, mathsat, cvc4'"`
	Solver  string `cli:"name=solver desc='path to the backend executable'"`

	Out      string
	CloseOut func() error

	Main *cli.Command
}

func (cfg *MainConfig) outOpt(cc *cli.Context, a string) (any, error) {
	cfg.Out = a
	if a == "-" {
		return nil, nil
	}
	f, err := os.OpenFile(cfg.Out, os.O_CREATE|os.O_TRUNC|os.O_RDWR, 0644)
	if err != nil {
		return nil, err
	}
	cc.Out = f
	cfg.CloseOut = f.Close
	return nil, nil
}

func (cfg *MainConfig) backend() (smt.Backend, error) {
	b, err := smt.ParseBackend(cfg.Backend)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", cli.ErrUsage, err)
	}
	return b, nil
}

func (cfg *MainConfig) inferOpts() ([]hornq.Option, error) {
	b, err := cfg.backend()
	if err != nil {
		return nil, err
	}
	res := []hornq.Option{hornq.WithBackend(b)}
	if cfg.Solver != "" {
		res = append(res, hornq.WithSolverPath(cfg.Solver))
	}
	return res, nil
}

// colorize reports whether qualifier output to w should use color:
// either forced by -color or auto-detected on a terminal.
func (cfg *MainConfig) colorize(w io.Writer) bool {
	if cfg.Color {
		return true
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd())
}

type InferConfig struct {
	*MainConfig
	Depth  int    `cli:"name=depth desc='per-k-variable unroll depth'"`
	Patch  string `cli:"name=patch desc='JSON merge patch applied to the input'"`
	Filter string `cli:"name=filter desc='qualifier filter program'"`
	Prune  bool   `cli:"name=prune desc='SAT-prune vacuous tree queries'"`
	SMTLog string `cli:"name=smtlog desc='SMT dialogue log path (default <input>.smt2)'"`
	NoLog  bool   `cli:"name=nolog desc='disable the SMT dialogue log'"`

	Infer *cli.Command
}

type ExpandConfig struct {
	*MainConfig
	Depth int    `cli:"name=depth desc='per-k-variable unroll depth'"`
	Patch string `cli:"name=patch desc='JSON merge patch applied to the input'"`
	Prune bool   `cli:"name=prune desc='SAT-prune vacuous tree queries'"`

	Expand *cli.Command
}

type DiffConfig struct {
	*MainConfig
	Depth int `cli:"name=depth desc='per-k-variable unroll depth'"`

	Diff *cli.Command
}
