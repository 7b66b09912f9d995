package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/gasapi"
	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/report"
	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/service"
)

type exportOptions struct {
	gasURL string
	token  string
	from   string
	to     string
	format string
	out    string
	limit  int
}

func newExportExpensesCmd() *cobra.Command {
	var o exportOptions
	cmd := &cobra.Command{
		Use:   "export-expenses",
		Short: "Export expenses to CSV or XLSX for accounting",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExportExpenses(cmd, o)
		},
	}
	f := cmd.Flags()
	f.StringVar(&o.gasURL, "gas-url", "", "remote API URL (default $GAS_WEB_APP_URL)")
	f.StringVar(&o.token, "token", "", "remote API session token (default $GAS_TOKEN)")
	f.StringVar(&o.from, "from", "", "first day, YYYY-MM-DD")
	f.StringVar(&o.to, "to", "", "last day, YYYY-MM-DD")
	f.StringVar(&o.format, "format", "csv", "csv or xlsx")
	f.StringVarP(&o.out, "out", "o", "", "output file (default stdout)")
	f.IntVar(&o.limit, "limit", 2000, "maximum rows fetched")
	return cmd
}

func runExportExpenses(cmd *cobra.Command, o exportOptions) error {
	for _, d := range []string{o.from, o.to} {
		if d == "" {
			continue
		}
		if _, err := time.Parse(report.DateLayout, d); err != nil {
			return fmt.Errorf("invalid date %q", d)
		}
	}
	if o.from != "" && o.to != "" && o.from > o.to {
		return errors.New("--from must be before --to")
	}
	if o.format != "csv" && o.format != "xlsx" {
		return fmt.Errorf("unknown format %q (use csv or xlsx)", o.format)
	}

	gas := gasapi.New(envOr(o.gasURL, "GAS_WEB_APP_URL"),
		gasapi.WithHTTPClient(&http.Client{Timeout: 60 * time.Second}),
	)
	ctx := gasapi.WithToken(cmd.Context(), envOr(o.token, "GAS_TOKEN"))
	svc := service.ExpenseService{Gas: gas}
	items, err := svc.Export(ctx, o.from, o.to, o.limit)
	if err != nil {
		return fmt.Errorf("fetch expenses: %s", gasapi.Message(err))
	}

	data, err := service.ExportExpensesCSV(items)
	if o.format == "xlsx" {
		data, err = service.ExportExpensesXLSX(items)
	}
	if err != nil {
		return err
	}

	if o.out == "" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(o.out, data, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d expenses to %s\n", len(items), o.out)
	return nil
}
