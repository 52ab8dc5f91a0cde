package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"supportbot/config"
	"supportbot/core/log"
	"supportbot/db"
)

var rootCmd = &cobra.Command{
	Use:           "supportbot",
	Short:         "Community support bot: tickets, moderation log and guild settings",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(inspectCmd)
}

// openToolingDB connects for the commands that do not run the bot and returns the configured
// schema. Log output is human readable.
func openToolingDB(ctx context.Context) (*sqlx.DB, string, error) {
	log.Configure(os.Getenv("LOG_LEVEL"), "console")

	cfg, err := config.LoadDatabaseConfig()
	if err != nil {
		return nil, "", fmt.Errorf("failed to load config: %w", err)
	}

	connectCtx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	dbConn, err := db.NewConnection(connectCtx, cfg.DatabaseURL, cfg.DBConnectAttempts)
	if err != nil {
		return nil, "", err
	}
	return dbConn, cfg.DatabaseSchema, nil
}
