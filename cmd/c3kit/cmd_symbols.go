package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhamidi/c3kit/format"
)

func newSymbolsCmd() *cobra.Command {
	var query string

	cmd := &cobra.Command{
		Use:   "symbols [dirs...]",
		Short: "List the declarations of every C3 file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(".")
			if err != nil {
				return err
			}
			c := newCodebase(cfg, args)
			if err := c.ScanAll(cmd.Context()); err != nil {
				return fmt.Errorf("scan: %w", err)
			}
			return format.NewLineEncoder(cmd.OutOrStdout()).Encode(c.FindSymbols(query))
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "only list symbols whose name contains query")

	return cmd
}
