package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sunholo/deplang/internal/config"
	"github.com/sunholo/deplang/internal/core"
	deperrors "github.com/sunholo/deplang/internal/errors"
	"github.com/sunholo/deplang/internal/eval"
	"github.com/sunholo/deplang/internal/parser"
	"github.com/sunholo/deplang/internal/repl"
	"github.com/sunholo/deplang/internal/types"
)

// Version info - set by ldflags during build
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

var (
	red  = color.New(color.FgRed).SprintFunc()
	cyan = color.New(color.FgCyan).SprintFunc()
)

var (
	flagNoColor bool
	flagConfig  string
	flagJSON    bool
)

func main() {
	root := &cobra.Command{
		Use:   "deplang",
		Short: "A small dependently typed language",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runREPL()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable colored output")
	root.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file (default ~/.deplang.yaml)")

	replCmd := &cobra.Command{
		Use:   "repl",
		Short: "Start the interactive REPL",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runREPL()
		},
	}

	checkCmd := &cobra.Command{
		Use:   "check FILE",
		Short: "Type-check the term in FILE and print its type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFile(args[0], false)
		},
	}
	checkCmd.Flags().BoolVar(&flagJSON, "json", false, "print errors as structured JSON")

	normCmd := &cobra.Command{
		Use:   "norm FILE",
		Short: "Type-check and normalize the term in FILE",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFile(args[0], true)
		},
	}
	normCmd.Flags().BoolVar(&flagJSON, "json", false, "print errors as structured JSON")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("deplang %s (%s, built %s)\n", Version, Commit, BuildTime)
		},
	}

	root.AddCommand(replCmd, checkCmd, normCmd, versionCmd)

	if err := root.Execute(); err != nil {
		reportError(err)
		os.Exit(1)
	}
}

func loadConfig() *config.Config {
	var cfg *config.Config
	var err error
	if flagConfig != "" {
		cfg, err = config.Load(flagConfig)
	} else {
		cfg, err = config.LoadDefault()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s bad config: %v\n", red("warning:"), err)
		cfg = config.Default()
	}
	if flagNoColor {
		cfg.NoColor = true
	}
	return cfg
}

func runREPL() error {
	cfg := loadConfig()
	repl.New(cfg, Version).Start(os.Stdout)
	return nil
}

func runFile(path string, normalize bool) error {
	if flagNoColor {
		color.NoColor = true
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	e, err := parser.ParseString(string(src), path)
	if err != nil {
		return err
	}
	ctx := types.NewContext()
	typ, t, err := types.Infer(ctx, e)
	if err != nil {
		return err
	}
	typT, err := eval.Quote(0, typ)
	if err != nil {
		return err
	}
	if !normalize {
		fmt.Printf(": %s\n", cyan(core.Pretty(typT)))
		return nil
	}
	v, err := eval.Eval(ctx.Env(), t)
	if err != nil {
		return err
	}
	norm, err := eval.Quote(0, v)
	if err != nil {
		return err
	}
	fmt.Printf("%s : %s\n", core.Pretty(norm), cyan(core.Pretty(typT)))
	return nil
}

func reportError(err error) {
	if rep, ok := deperrors.AsReport(err); ok {
		if flagJSON {
			if s, jerr := rep.ToJSON(false); jerr == nil {
				fmt.Fprintln(os.Stderr, s)
				return
			}
		}
		fmt.Fprintf(os.Stderr, "%s %s\n", red("error:"), err)
		return
	}
	fmt.Fprintf(os.Stderr, "%s %v\n", red("error:"), err)
}
