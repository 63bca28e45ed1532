// Command tagsh is a small harness for exercising the tag interpreter from
// a terminal: render a template once, syntax-check it without producing
// output, or watch a file and re-render it on every save.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// errExitSilent signals a command failure already reported to stderr (a
// rendered diagnostic), so the root command's error path does not print it
// a second time.
var errExitSilent = fmt.Errorf("")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if err != errExitSilent {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var noColor bool
	var verbose bool

	root := &cobra.Command{
		Use:           "tagsh",
		Short:         "Render and check Discord-style tag templates",
		Version:       "0.1.0",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}

	root.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable ANSI colour in error output")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newRunCmd(&noColor))
	root.AddCommand(newCheckCmd(&noColor))
	root.AddCommand(newWatchCmd(&noColor))
	return root
}
