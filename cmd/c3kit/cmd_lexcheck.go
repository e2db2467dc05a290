package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/c3kit/c3/parser"
	"github.com/dhamidi/c3kit/ebnflex"
)

func newLexcheckCmd() *cobra.Command {
	var grammarFile string
	var startProduction string

	cmd := &cobra.Command{
		Use:   "lexcheck <file>",
		Short: "Check the tokens of a C3 file against an EBNF lexical grammar",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			grammar, err := ebnflex.C3()
			if grammarFile != "" {
				grammar, err = ebnflex.LoadFile(grammarFile, startProduction)
			}
			if err != nil {
				return err
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read c3 file: %w", err)
			}

			out := cmd.OutOrStdout()
			mismatches := 0
			lexer := parser.NewLexer(data, args[0])
			for tok := lexer.NextToken(); tok.Kind != parser.TokenEOF; tok = lexer.NextToken() {
				kind := tok.Kind.String()
				if !grammar.HasKind(kind) || grammar.Matches(kind, tok.Literal) {
					continue
				}
				mismatches++
				fmt.Fprintf(out, "%s: %s %q not matched by the grammar\n", tok.Span.Start, kind, tok.Literal)
			}
			if mismatches > 0 {
				return fmt.Errorf("%d tokens not matched", mismatches)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&grammarFile, "grammar", "", "EBNF grammar file (default: built-in C3 grammar)")
	cmd.Flags().StringVar(&startProduction, "start", "Token", "production listing the token kinds")

	return cmd
}
