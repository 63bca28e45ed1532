package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCheckCmd(noColor *bool) *cobra.Command {
	var args []string

	cmd := &cobra.Command{
		Use:   "check <file>",
		Short: "Parse a template and report errors without printing output",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, cliArgs []string) error {
			source, err := readTemplate(cliArgs[0])
			if err != nil {
				return err
			}
			r := renderOnce(source, args, false)
			if r.err != nil {
				printRender(source, r, *noColor)
				return errExitSilent
			}
			fmt.Println("ok")
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&args, "arg", "a", nil, "argument to bind into the template's argument vector (repeatable)")
	return cmd
}
