package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVersionCmd(r *root) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", r.program, version)
			if commit != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "commit %s %s\n", commit, date)
			}
			return nil
		},
	}
}
