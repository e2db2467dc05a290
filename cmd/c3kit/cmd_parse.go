package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/c3kit/c3/parser"
	"github.com/dhamidi/c3kit/format"
)

func newParseCmd() *cobra.Command {
	var outputFormat string
	var includePositions bool

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a C3 file and dump the syntax tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			encoder := format.NewEncoder(outputFormat, cmd.OutOrStdout(), includePositions)
			if encoder == nil {
				return fmt.Errorf("unknown format: %s", outputFormat)
			}

			tree, err := parseFile(args[0])
			if err != nil {
				return err
			}
			if err := encoder.Encode(tree); err != nil {
				return fmt.Errorf("encode: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "sexp", "output format (sexp, json, tree)")
	cmd.Flags().BoolVar(&includePositions, "positions", false, "include node positions")

	return cmd
}

// parseFile parses filename with the limits of the governing c3kit.toml.
func parseFile(filename string) (*parser.Tree, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read c3 file: %w", err)
	}
	cfg, err := loadConfig(".")
	if err != nil {
		return nil, err
	}
	opts := append(cfg.ParserOptions(), parser.WithFile(filename))
	return parser.Parse(data, opts...), nil
}
