package main

import (
	"fmt"

	"github.com/scott-cotton/cli"

	"github.com/go-air/hornq/horn"
	"github.com/go-air/hornq/sexp"
	"github.com/go-air/hornq/skeleton"
	"github.com/go-air/hornq/unroll"
)

func hornqExpand(cfg *ExpandConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Expand.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 1 {
		return fmt.Errorf("%w: expand expects one constraint file", cli.ErrUsage)
	}
	fi, err := horn.LoadFile(args[0], cfg.Patch)
	if err != nil {
		return err
	}
	cls, err := horn.Normalize(fi)
	if err != nil {
		return err
	}
	st := unroll.NewState(cls.SymSorts)
	n := 0
	for i := range cls.Queries {
		root, err := st.Unroll(cls.Queries[i], cls.KCs, cfg.Depth)
		if err != nil {
			return err
		}
		trees := unroll.Expand(root)
		if cfg.Prune {
			trees = skeleton.Prune(trees)
		}
		for _, tree := range trees {
			f := tree.Formula()
			wire, err := sexp.String(f)
			if err != nil {
				return err
			}
			fmt.Fprintf(cc.Out, "; query %d: %d cut(s)\n%s\n", n, unroll.CountCuts(f), wire)
			n++
		}
	}
	return nil
}
