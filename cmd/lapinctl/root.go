package main

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "lapinctl",
		Short:         "Operator tools for the Lapin business backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			_ = godotenv.Load()
		},
	}
	root.AddCommand(
		newMigrateCmd(),
		newPeriodCmd(),
		newGeocodeCmd(),
		newExportExpensesCmd(),
		newPurgeSessionsCmd(),
	)
	return root
}

// envOr is read when the flag is left at its empty default.
func envOr(value, key string) string {
	if strings.TrimSpace(value) != "" {
		return value
	}
	return strings.TrimSpace(os.Getenv(key))
}
