package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/midbel/cli"
)

var errFail = errors.New("fail")

var (
	summary = "sheetcalc evaluates spreadsheet formulas and keeps their results up to date"
	help    = `sheetcalc loads a grid of cells from a CSV or an xlsx file, computes every
formula it contains and prints the results.

Formulas start with "=" and can use references (A1, $B$2, A1:C3), the
operators + - * / ^ & % = <> < <= > >= and the builtin functions.`
)

var logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
	Level: slog.LevelWarn,
}))

func main() {
	var (
		set     = cli.NewFlagSet("sheetcalc")
		root    = prepare()
		verbose bool
	)
	set.BoolVar(&verbose, "v", false, "print debug messages")
	root.SetSummary(summary)
	root.SetHelp(help)
	if err := set.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			root.Help()
			os.Exit(2)
		}
	}
	if verbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	err := root.Execute(set.Args())
	if err != nil {
		if s, ok := err.(cli.SuggestionError); ok && len(s.Others) > 0 {
			fmt.Fprintln(os.Stderr, "similar command(s)")
			for _, n := range s.Others {
				fmt.Fprintln(os.Stderr, "-", n)
			}
		}
		if !errors.Is(err, errFail) {
			fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
		}
		os.Exit(1)
	}
}

func prepare() *cli.CommandTrie {
	root := cli.New()
	root.Register([]string{"eval"}, &evalCmd)
	root.Register([]string{"print"}, &printCmd)
	root.Register([]string{"inspect"}, &inspectCmd)
	root.Register([]string{"info"}, &infoCmd)

	return root
}

var evalCmd = cli.Command{
	Name:    "eval",
	Alias:   []string{"calc"},
	Summary: "evaluate expressions, optionally against the cells of a file",
	Usage:   "eval [-f file] [-s sep] [-r sheet] <expr> [<expr>...]",
	Handler: &EvalCommand{},
}

var printCmd = cli.Command{
	Name:    "print",
	Alias:   []string{"view", "show"},
	Summary: "compute and print the cells of a file",
	Usage:   "print [-s sep] [-r sheet] [-n] [-w width] [-c columns] [-p pattern] [-d pattern] <file>",
	Handler: &PrintSheetCommand{},
}

var inspectCmd = cli.Command{
	Name:    "inspect",
	Summary: "show input, result and dependencies of cells",
	Usage:   "inspect [-s sep] [-r sheet] <file> <cell> [<cell>...]",
	Handler: &InspectCellCommand{},
}

var infoCmd = cli.Command{
	Name:    "info",
	Summary: "list the sheets of an xlsx file",
	Usage:   "info <spreadsheet>",
	Handler: &GetInfoCommand{},
}
