package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/db"
	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/repository"
)

func newPurgeSessionsCmd() *cobra.Command {
	var databaseURL string
	cmd := &cobra.Command{
		Use:   "purge-sessions",
		Short: "Delete expired sessions from the Postgres store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			url := envOr(databaseURL, "DATABASE_URL")
			if url == "" {
				return errors.New("DATABASE_URL is required")
			}
			pg, err := db.New(cmd.Context(), url)
			if err != nil {
				return fmt.Errorf("connect database: %w", err)
			}
			defer pg.Close()

			n, err := repository.SessionRepository{DB: pg}.PurgeExpired(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d expired sessions\n", n)
			return nil
		},
	}
	cmd.Flags().StringVar(&databaseURL, "database-url", "", "Postgres URL (default $DATABASE_URL)")
	return cmd
}
