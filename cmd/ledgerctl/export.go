package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pkordes/activity-ledger/internal/clock"
	"github.com/pkordes/activity-ledger/internal/handler"
	"github.com/pkordes/activity-ledger/internal/ledger"
	"github.com/pkordes/activity-ledger/internal/repo"
	"github.com/pkordes/activity-ledger/internal/service"
)

func newExportCmd() *cobra.Command {
	var fromFlag, toFlag, format string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export stored segments for an inclusive day range",
		Long: `Export reads segments straight from the database, so it does not load
the ledger into memory. Rows match GET /export.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if format != "csv" && format != "json" {
				return fmt.Errorf("invalid --format %q: want csv or json", format)
			}
			return withEnv(cmd, func(ctx context.Context, e *env) error {
				loc := e.cfg.Location
				now := clock.System{}.Now()
				today := ledger.StartOfDay(now, loc)
				from, err := parseDay(fromFlag, loc, today)
				if err != nil {
					return err
				}
				to, err := parseDay(toFlag, loc, today)
				if err != nil {
					return err
				}
				if to.Before(from) {
					return fmt.Errorf("--to must not be before --from")
				}
				until := ledger.AddDays(to, 1)

				segs, err := repo.NewStore(e.pool).Segments(ctx, repo.SegmentFilter{From: &from, To: &until})
				if err != nil {
					return err
				}
				rows := service.ExportRows(segs, from, until, now, loc)
				if format == "csv" {
					return handler.EncodeCSV(cmd.OutOrStdout(), rows)
				}
				return printJSON(cmd.OutOrStdout(), rows)
			})
		},
	}
	cmd.Flags().StringVar(&fromFlag, "from", "", "First day as YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&toFlag, "to", "", "Last day as YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&format, "format", "csv", "Output format: csv or json")
	return cmd
}
