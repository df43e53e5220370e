package main

import (
	"context"

	"github.com/spf13/cobra"
)

func newRepairCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repair",
		Short: "Run the ledger invariant repairs and save the result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEnv(cmd, func(ctx context.Context, e *env) error {
				l, _, closeLedger, err := e.ledger(ctx)
				if err != nil {
					return err
				}
				rep := l.Repair()
				if err := closeLedger(); err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), rep)
			})
		},
	}
}
