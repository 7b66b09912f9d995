package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/db"
)

func newMigrateCmd() *cobra.Command {
	var databaseURL string
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the session store schema",
		Long:  `Apply the embedded migrations to DATABASE_URL and print the resulting schema version.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			url := envOr(databaseURL, "DATABASE_URL")
			if url == "" {
				return errors.New("DATABASE_URL is required")
			}
			ctx := cmd.Context()
			pg, err := db.New(ctx, url)
			if err != nil {
				return fmt.Errorf("connect database: %w", err)
			}
			defer pg.Close()

			if err := pg.Migrate(ctx); err != nil {
				return err
			}
			version, err := pg.MigrationVersion(ctx)
			if err != nil {
				return fmt.Errorf("read schema version: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema version: %d\n", version)
			return nil
		},
	}
	cmd.Flags().StringVar(&databaseURL, "database-url", "", "Postgres URL (default $DATABASE_URL)")
	return cmd
}
