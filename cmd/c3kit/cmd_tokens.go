package main

import (
	"github.com/spf13/cobra"

	"github.com/dhamidi/c3kit/format"
)

func newTokensCmd() *cobra.Command {
	var includeTrivia bool

	cmd := &cobra.Command{
		Use:   "tokens <file>",
		Short: "Print the token stream of a C3 file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := parseFile(args[0])
			if err != nil {
				return err
			}
			return format.Tokens(cmd.OutOrStdout(), tree, includeTrivia)
		},
	}

	cmd.Flags().BoolVar(&includeTrivia, "trivia", false, "include whitespace and comments")

	return cmd
}
