package main

import (
	"fmt"

	"github.com/scott-cotton/cli"

	"github.com/go-air/hornq"
	"github.com/go-air/hornq/horn"
	"github.com/go-air/hornq/quals"
)

func hornqDiff(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Diff.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: diff expects two constraint files", cli.ErrUsage)
	}
	opts, err := cfg.inferOpts()
	if err != nil {
		return err
	}
	infer := func(path string) ([]quals.Qualifier, error) {
		fi, err := horn.LoadFile(path, "")
		if err != nil {
			return nil, err
		}
		return hornq.Infer(fi, cfg.Depth, opts...)
	}
	from, err := infer(args[0])
	if err != nil {
		return err
	}
	to, err := infer(args[1])
	if err != nil {
		return err
	}
	for _, line := range quals.Diff(from, to) {
		fmt.Fprintln(cc.Out, line)
	}
	return nil
}
