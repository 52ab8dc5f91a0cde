package testutils

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/require"

	"supportbot/core"
	"supportbot/db"
	"supportbot/models"
)

// OpenTestDB connects to the database named by DB_URL (optionally from .env.test) and applies
// migrations. Tests that need Postgres are skipped when it is not configured.
func OpenTestDB(t *testing.T) (*sqlx.DB, string) {
	t.Helper()

	_ = godotenv.Load("../.env.test")
	_ = godotenv.Load("../../.env.test")
	_ = godotenv.Load(".env.test")

	databaseURL := os.Getenv("DB_URL")
	if databaseURL == "" {
		t.Skip("DB_URL is not set, skipping database test")
	}
	schema := os.Getenv("DB_SCHEMA")
	if schema == "" {
		schema = "public"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	conn, err := db.NewConnection(ctx, databaseURL, 1)
	require.NoError(t, err, "Failed to connect to test database")
	require.NoError(t, db.MigrateUp(ctx, conn), "Failed to migrate test database")

	t.Cleanup(func() { _ = conn.Close() })
	return conn, schema
}

// NewGuildID returns a snowflake-shaped guild ID that is unique per call
func NewGuildID() string {
	return NewSnowflake(time.Now())
}

// NewSnowflake builds a platform snowflake for the given time with random low bits
func NewSnowflake(at time.Time) string {
	return core.FormatSnowflake(at, uint64(time.Now().UnixNano()&0x3fffff))
}

// CreateTestGuildConfig inserts a configured guild with fresh role IDs
func CreateTestGuildConfig(t *testing.T, repo *db.PostgresGuildConfigsRepository) *models.GuildConfig {
	t.Helper()

	config := &models.GuildConfig{
		GuildID:     NewGuildID(),
		AdminRoleID: NewSnowflake(time.Now()),
		StaffRoleID: NewSnowflake(time.Now()),
	}
	err := repo.CreateGuildConfig(context.Background(), config)
	require.NoError(t, err, "Failed to create test guild config")
	return config
}
