package main

import (
	"context"

	"github.com/spf13/cobra"
)

func newTotalsCmd() *cobra.Command {
	var (
		dayFlag string
		window  bool
	)
	cmd := &cobra.Command{
		Use:   "totals",
		Short: "Print per-tag totals for a day, or the trailing 7-day window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEnv(cmd, func(ctx context.Context, e *env) error {
				l, _, closeLedger, err := e.ledger(ctx)
				if err != nil {
					return err
				}
				defer closeLedger() //nolint:errcheck // read-only; nothing is pending

				d, err := parseDay(dayFlag, l.Location(), l.Today())
				if err != nil {
					return err
				}
				if window {
					return printJSON(cmd.OutOrStdout(), l.WindowReport(d))
				}
				return printJSON(cmd.OutOrStdout(), l.DaySummary(d))
			})
		},
	}
	cmd.Flags().StringVar(&dayFlag, "day", "", "Day as YYYY-MM-DD (default today)")
	cmd.Flags().BoolVar(&window, "window", false, "Print the 7-day window ending on --day instead")
	return cmd
}
