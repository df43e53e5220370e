package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import a legacy YAML or JSON history file",
		Long: `Import folds the entries of a legacy history file into the ledger.
Entries whose id already exists are skipped, so importing the same file
twice is harmless. The startup import is marked done afterwards.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, func(ctx context.Context, e *env) error {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("open history file: %w", err)
				}
				defer f.Close()

				l, _, closeLedger, err := e.ledger(ctx)
				if err != nil {
					return err
				}
				n, err := l.ImportLegacy(f)
				if err != nil {
					_ = closeLedger()
					return err
				}
				if err := closeLedger(); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "imported %d segment(s) from %s\n", n, args[0])
				return nil
			})
		},
	}
}
