package main

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

func newWatchCmd(noColor *bool) *cobra.Command {
	var args []string
	var ignoreErrors bool

	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Re-render a template file on every save",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, cliArgs []string) error {
			return watchFile(cliArgs[0], args, ignoreErrors, *noColor)
		},
	}

	cmd.Flags().StringArrayVarP(&args, "arg", "a", nil, "argument to bind into the template's argument vector (repeatable)")
	cmd.Flags().BoolVar(&ignoreErrors, "ignore-errors", false, "echo failed subtag invocations verbatim instead of aborting")
	return cmd
}

// watchFile re-evaluates the whole file on every write event rather than
// trying to patch the previous render: the interpreter has no incremental
// mode, a full template is cheap to reparse (MaxStringLength bounds it),
// and a stale partial render is worse than a brief redundant one.
func watchFile(path string, args []string, ignoreErrors, noColor bool) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	render := func() {
		source, err := readTemplate(path)
		if err != nil {
			slog.Warn("read failed", "path", path, "error", err)
			return
		}
		r := renderOnce(source, args, ignoreErrors)
		printRender(source, r, noColor)
	}

	render()
	slog.Info("watching", "path", path)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			render()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watcher error", "error", err)
		}
	}
}
