package main

import (
	"github.com/spf13/cobra"
)

func newRunCmd(noColor *bool) *cobra.Command {
	var args []string
	var ignoreErrors bool

	cmd := &cobra.Command{
		Use:   "run <file>",
		Short: "Render a template file to stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, cliArgs []string) error {
			source, err := readTemplate(cliArgs[0])
			if err != nil {
				return err
			}
			r := renderOnce(source, args, ignoreErrors)
			if !printRender(source, r, *noColor) {
				return errExitSilent
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&args, "arg", "a", nil, "argument to bind into the template's argument vector (repeatable)")
	cmd.Flags().BoolVar(&ignoreErrors, "ignore-errors", false, "echo failed subtag invocations verbatim instead of aborting")
	return cmd
}
