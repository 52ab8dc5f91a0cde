package db

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrations_Embedded(t *testing.T) {
	entries, err := fs.ReadDir(migrationsFS, migrationsDir)
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	for _, e := range entries {
		data, err := fs.ReadFile(migrationsFS, migrationsDir+"/"+e.Name())
		require.NoError(t, err)

		content := string(data)
		assert.True(t, strings.Contains(content, "-- +goose Up"), "%s has no up section", e.Name())
		assert.True(t, strings.Contains(content, "-- +goose Down"), "%s has no down section", e.Name())
	}
}

func TestMigrations_SchemaMatchesRepositories(t *testing.T) {
	data, err := fs.ReadFile(migrationsFS, migrationsDir+"/00001_init.sql")
	require.NoError(t, err)
	content := string(data)

	tables := map[string][]string{
		"guild_configs":      guildConfigsColumns,
		"tickets":            ticketsColumns,
		"ticket_messages":    ticketMessagesColumns,
		"pending_partners":   pendingPartnersColumns,
		"custom_categories":  customCategoriesColumns,
		"forms":              formsColumns,
		"form_questions":     formQuestionsColumns,
		"moderation_actions": moderationActionsColumns,
	}
	for table, columns := range tables {
		start := strings.Index(content, "CREATE TABLE "+table+" (")
		require.GreaterOrEqual(t, start, 0, "table %s missing", table)
		end := strings.Index(content[start:], ");")
		body := content[start : start+end]
		for _, column := range columns {
			assert.Contains(t, body, "\n    "+column+" ", "column %s.%s missing", table, column)
		}
	}
}
