package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dhamidi/c3kit/c3/codebase"
	"github.com/dhamidi/c3kit/config"
)

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [dirs...]",
		Short: "Parse every C3 file and report syntax errors",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(".")
			if err != nil {
				return err
			}
			c := newCodebase(cfg, args)
			if err := c.ScanAll(cmd.Context()); err != nil {
				return fmt.Errorf("scan: %w", err)
			}
			if n := report(cmd.OutOrStdout(), c); n > 0 {
				return fmt.Errorf("%d of %d files have errors", n, len(c.Files()))
			}
			return nil
		},
	}
	return cmd
}

// newCodebase builds a codebase from cfg. Non-empty dirs replace the
// configured source directories.
func newCodebase(cfg *config.Config, dirs []string) *codebase.Codebase {
	if len(dirs) == 0 {
		dirs = cfg.SourceDirPaths()
	}
	return codebase.New(cfg.Dir,
		codebase.WithDirs(dirs...),
		codebase.WithExclude(cfg.Source.Exclude...),
		codebase.WithWorkers(cfg.Codebase.Workers),
		codebase.WithParserOptions(cfg.ParserOptions()...),
	)
}

// report prints the diagnostics of every failed file and returns how many
// files failed.
func report(w io.Writer, c *codebase.Codebase) int {
	failed := c.FailedFiles()
	for _, path := range failed {
		info := c.GetFile(path)
		if info.ReadErr != nil {
			fmt.Fprintf(w, "%s: input: %v\n", path, info.ReadErr)
			continue
		}
		for _, d := range info.Tree.Diagnostics {
			fmt.Fprintf(w, "%s:%d:%d: %s: %s\n", path, d.Span.Start.Line, d.Span.Start.Column, d.Kind, d.Message)
		}
	}
	return len(failed)
}
