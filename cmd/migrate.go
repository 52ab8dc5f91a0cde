package main

import (
	"github.com/spf13/cobra"

	"supportbot/core/log"
	"supportbot/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Args:  cobra.NoArgs,
	RunE:  runMigrateUp,
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which migrations have been applied",
	Args:  cobra.NoArgs,
	RunE:  runMigrateStatus,
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateStatusCmd)
}

func runMigrateUp(cmd *cobra.Command, _ []string) error {
	dbConn, _, err := openToolingDB(cmd.Context())
	if err != nil {
		return err
	}
	defer dbConn.Close()

	if err := db.MigrateUp(cmd.Context(), dbConn); err != nil {
		return err
	}
	log.Info("✅ Migrations applied")
	return nil
}

func runMigrateStatus(cmd *cobra.Command, _ []string) error {
	dbConn, _, err := openToolingDB(cmd.Context())
	if err != nil {
		return err
	}
	defer dbConn.Close()

	return db.MigrationStatus(cmd.Context(), dbConn)
}
