package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/report"
)

func newPeriodCmd() *cobra.Command {
	var at string
	cmd := &cobra.Command{
		Use:   "period <token>",
		Short: "Show the date range a dashboard period selects",
		Long: `Resolve a period token (month, quarter, year or the Japanese selector
labels) to the inclusive range the dashboard requests. Unknown tokens
select the current month.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			now := time.Now()
			if at != "" {
				t, err := time.ParseInLocation(report.DateLayout, at, time.Local)
				if err != nil {
					return fmt.Errorf("invalid --at: %w", err)
				}
				now = t
			}
			p := report.ParsePeriod(args[0])
			r := report.Resolve(p, now)
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s): %s .. %s\n", p, p.Label(), r.StartDate, r.EndDate)
			return nil
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "reference day as YYYY-MM-DD (default today)")
	return cmd
}
