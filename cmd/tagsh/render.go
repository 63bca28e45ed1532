package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/corvidbot/tags/diag"
	"github.com/corvidbot/tags/host"
	"github.com/corvidbot/tags/interp"
	"github.com/corvidbot/tags/state"
	"github.com/corvidbot/tags/subtag"
)

// renderResult is the outcome of one render, kept separate from printing so
// check can report an error without printing a successful render's output.
type renderResult struct {
	output string
	err    *diag.Error
}

func renderOnce(source string, args []string, ignoreErrors bool) renderResult {
	mode := interp.StopOnError
	if ignoreErrors {
		mode = interp.IgnoreOnError
	}
	res, err := interp.Parse(context.Background(), source, args, mode, state.New(), host.NoOp{}, subtag.Default())
	if err != nil {
		return renderResult{err: err}
	}
	return renderResult{output: res.Output}
}

// printRender writes a render's output or formatted error to stdout/stderr,
// honouring noColor, and reports whether the render succeeded.
func printRender(source string, r renderResult, noColor bool) bool {
	if r.err != nil {
		text := diag.Format(source, r.err)
		if noColor {
			text = diag.FormatPlain(source, r.err)
		}
		fmt.Fprintln(os.Stderr, text)
		slog.Error("render failed", "kind", r.err.Kind.String())
		return false
	}
	fmt.Print(r.output)
	if len(r.output) == 0 || r.output[len(r.output)-1] != '\n' {
		fmt.Println()
	}
	return true
}

func readTemplate(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(b), nil
}
