package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/scott-cotton/cli"
)

func MainCommand() *cli.Command {
	cfg := &MainConfig{}
	sOpts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts := append(sOpts, &cli.Opt{
		Name:        "o",
		Description: "output file (default stdout)",
		Type:        cli.NamedFuncOpt(cfg.outOpt, "(filepath)"),
	})

	return cli.NewCommandAt(&cfg.Main, "hornq").
		WithSynopsis("hornq [opts] command [opts]").
		WithDescription("hornq infers qualifier predicates for Horn constraints by tree interpolation.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return hornqMain(cfg, cc, args)
		}).
		WithSubs(
			InferCommand(cfg),
			ExpandCommand(cfg),
			DiffCommand(cfg))
}

func hornqMain(cfg *MainConfig, cc *cli.Context, args []string) error {
	defer func() {
		if cfg.CloseOut != nil {
			cfg.CloseOut()
		}
	}()
	args, err := cfg.Main.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return cli.ErrNoCommandProvided
	}
	sub := cfg.Main.FindSub(cc, args[0])
	if sub == nil {
		return fmt.Errorf("%w: %q not found", cli.ErrNoSuchCommand, args[0])
	}
	err = sub.Run(cc, args[1:])
	if errors.Is(err, cli.ErrUsage) {
		sub.Usage(cc, err)
		os.Exit(sub.Exit(cc, err))
	}
	return err
}

func InferCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &InferConfig{MainConfig: mainCfg, Depth: 2}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	cmd := cli.NewCommand("infer").
		WithAliases("i").
		WithSynopsis("infer [-depth n] [-backend b] [-filter prog] [-prune] file").
		WithDescription("Infer qualifiers for a constraint file").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return hornqInfer(cfg, cc, args)
		})
	cfg.Infer = cmd
	return cmd
}

func ExpandCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ExpandConfig{MainConfig: mainCfg, Depth: 2}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	cmd := cli.NewCommand("expand").
		WithAliases("x").
		WithSynopsis("expand [-depth n] file").
		WithDescription("Print the tree interpolation queries without invoking a backend").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return hornqExpand(cfg, cc, args)
		})
	cfg.Expand = cmd
	return cmd
}

func DiffCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &DiffConfig{MainConfig: mainCfg, Depth: 2}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	cmd := cli.NewCommand("diff").
		WithSynopsis("diff [-depth n] fileA fileB").
		WithDescription("Diff the qualifier sets inferred from two constraint files").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return hornqDiff(cfg, cc, args)
		})
	cfg.Diff = cmd
	return cmd
}
