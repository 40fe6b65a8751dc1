package main

import (
	"github.com/spf13/cobra"
)

// =============================================================================
// MIGRATE COMMAND - goose migrations embedded in the binary
// =============================================================================

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or inspect database migrations",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				_, db, err := openDatabase()
				if err != nil {
					return err
				}
				defer db.Close()
				return db.MigrateUp(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the most recent migration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				_, db, err := openDatabase()
				if err != nil {
					return err
				}
				defer db.Close()
				return db.MigrateDown(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show the applied state of each migration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				_, db, err := openDatabase()
				if err != nil {
					return err
				}
				defer db.Close()
				return db.MigrationStatus(cmd.Context())
			},
		},
	)
	return cmd
}
