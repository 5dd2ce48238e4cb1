package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/eringen/folio"
)

func newMigrateCmd(st *cliState) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or inspect database schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := folio.NewStore(st.cfg.DatabasePath)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer store.Close()

			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			if dryRun {
				status, err := store.MigrationStatus(ctx)
				if err != nil {
					return fmt.Errorf("inspect migrations: %w", err)
				}
				printMigrationStatus(out, status)
				return nil
			}

			if err := store.Migrate(ctx); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			status, err := store.MigrationStatus(ctx)
			if err != nil {
				return fmt.Errorf("inspect migrations: %w", err)
			}
			st.logger.Info("migrations applied", "path", st.cfg.DatabasePath, "version", status.CurrentVersion)
			fmt.Fprintf(out, "Schema is at version %d.\n", status.CurrentVersion)
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show pending migrations without applying them")
	return cmd
}

func printMigrationStatus(w io.Writer, status folio.MigrationStatus) {
	fmt.Fprintf(w, "Current version: %d\n", status.CurrentVersion)
	fmt.Fprintf(w, "Available version: %d\n", status.AvailableVersion)
	if len(status.Pending) == 0 {
		fmt.Fprintln(w, "No pending migrations.")
		return
	}
	fmt.Fprintf(w, "Pending migrations: %d\n", len(status.Pending))
	for _, m := range status.Pending {
		fmt.Fprintf(w, "  %d: %s\n", m.Version, m.Description)
	}
}
