package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/scott-cotton/cli"

	"github.com/go-air/hornq"
	"github.com/go-air/hornq/horn"
	"github.com/go-air/hornq/quals"
)

func hornqInfer(cfg *InferConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Infer.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 1 {
		return fmt.Errorf("%w: infer expects one constraint file", cli.ErrUsage)
	}
	qs, err := runInfer(cfg, args[0])
	if err != nil {
		return err
	}
	printQuals(cc.Out, qs, cfg.colorize(cc.Out))
	return nil
}

func runInfer(cfg *InferConfig, path string) ([]quals.Qualifier, error) {
	fi, err := horn.LoadFile(path, cfg.Patch)
	if err != nil {
		return nil, err
	}
	opts, err := cfg.inferOpts()
	if err != nil {
		return nil, err
	}
	if !cfg.NoLog {
		logPath := cfg.SMTLog
		if logPath == "" {
			logPath = path + ".smt2"
		}
		opts = append(opts, hornq.WithLogFile(logPath))
	}
	if cfg.Prune {
		opts = append(opts, hornq.WithPrune(true))
	}
	qs, err := hornq.Infer(fi, cfg.Depth, opts...)
	if err != nil {
		return nil, err
	}
	if cfg.Filter != "" {
		f, err := quals.CompileFilter(cfg.Filter)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", cli.ErrUsage, err)
		}
		return f.Apply(qs)
	}
	return qs, nil
}

var (
	nameColor  = color.New(color.FgCyan).SprintFunc()
	paramColor = color.New(color.FgYellow).SprintFunc()
)

func printQuals(w io.Writer, qs []quals.Qualifier, colorize bool) {
	for _, q := range qs {
		if !colorize {
			fmt.Fprintln(w, q.String())
			continue
		}
		fmt.Fprintf(w, "%s (", nameColor(q.Name))
		for i, p := range q.Params {
			if i > 0 {
				fmt.Fprint(w, ", ")
			}
			fmt.Fprintf(w, "%s:%s", paramColor(string(p.Sym)), p.Sort)
		}
		fmt.Fprintf(w, "): %s\n", q.Body)
	}
}
