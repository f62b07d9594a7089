// Command duality is the thin CLI wrapper around the kernel: it reads
// a JSON-encoded program (no args: stdin; one arg: that file),
// elaborates, checks and evaluates it, and reports the result.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/text/unicode/norm"

	"github.com/duality-lang/duality/internal/ast"
	"github.com/duality-lang/duality/internal/check"
	"github.com/duality-lang/duality/internal/config"
	"github.com/duality-lang/duality/internal/core"
	"github.com/duality-lang/duality/internal/elaborate"
	"github.com/duality-lang/duality/internal/errors"
	"github.com/duality-lang/duality/internal/eval"
	"github.com/duality-lang/duality/internal/lsp"
)

var (
	red   = color.New(color.FgRed).SprintFunc()
	green = color.New(color.FgGreen).SprintFunc()
	cyan  = color.New(color.FgCyan).SprintFunc()
)

func main() {
	var (
		serverFlag   = flag.Bool("server", false, "run the LSP JSON-RPC server on stdin/stdout")
		debuggerFlag = flag.Bool("debugger", false, "reserved (stub)")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
		os.Exit(-1)
	}
	if !cfg.ColorOutput {
		color.NoColor = true
	}

	if *serverFlag {
		os.Exit(runServer(cfg))
	}

	if *debuggerFlag {
		fmt.Fprintln(os.Stderr, "duality: --debugger is not implemented")
		os.Exit(-1)
	}

	os.Exit(runPipeline(flag.Args(), cfg))
}

func runServer(cfg *config.Config) int {
	logf := func(format string, args ...any) {
		if cfg.ServerLogLevel == "" {
			return
		}
		fmt.Fprintf(os.Stderr, "[%s] "+format+"\n", append([]any{cfg.ServerLogLevel}, args...)...)
	}
	return lsp.NewServer(logf).Run(os.Stdin, os.Stdout)
}

func runPipeline(args []string, cfg *config.Config) int {
	var (
		src []byte
		err error
	)
	if len(args) == 0 {
		src, err = io.ReadAll(os.Stdin)
	} else {
		src, err = os.ReadFile(args[0])
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
		return -1
	}

	src = norm.NFC.Bytes(src)

	program, err := ast.FromJSON(src)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("parse error"), err)
		return -1
	}

	ctx := core.NewCtx()
	ctx.RecursionUnfoldBudget = cfg.MaxRecursionUnfoldings
	elaborated := elaborate.New(ctx).Elaborate(program)

	checked, ok := check.CheckExpr(ctx, elaborated)
	if reports := errors.Walk(ctx, checked); len(reports) > 0 {
		printReports(reports)
		return -1
	}
	if !ok {
		fmt.Fprintf(os.Stderr, "%s: checking failed with no recorded diagnostic\n", red("type error"))
		return -1
	}

	result, status := eval.EvalExpr(ctx, checked)
	switch status {
	case core.Yes:
		fmt.Printf("%s %s\n", green("=>"), core.Pretty(ctx, result))
		return 0
	case core.Maybe:
		fmt.Printf("%s %s\n", cyan("stuck:"), core.Pretty(ctx, result))
		return -1
	default:
		fmt.Fprintf(os.Stderr, "%s: evaluation failed\n", red("eval error"))
		return -1
	}
}

func printReports(reports []*errors.Report) {
	for _, r := range reports {
		text, err := r.ToJSON(true)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %s: %s\n", red(r.Code), r.Phase, r.Message)
			continue
		}
		fmt.Fprintln(os.Stderr, text)
	}
}
