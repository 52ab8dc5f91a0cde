package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/samber/mo"

	dbtx "supportbot/db/tx"
	"supportbot/models"
)

type PostgresGuildConfigsRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for guild_configs table
var guildConfigsColumns = []string{
	"guild_id",
	"admin_role_id",
	"staff_role_id",
	"ticket_channel_id",
	"ticket_message_id",
	"question_channel_id",
	"suggestion_channel_id",
	"complaint_channel_id",
	"new_partner_channel_id",
	"existing_partner_channel_id",
	"missing_reason_channel_id",
	"question_form_id",
	"suggestion_form_id",
	"complaint_form_id",
	"new_partner_form_id",
	"existing_partner_form_id",
	"created_at",
	"updated_at",
}

func NewPostgresGuildConfigsRepository(db *sqlx.DB, schema string) *PostgresGuildConfigsRepository {
	return &PostgresGuildConfigsRepository{db: db, schema: schema}
}

func (r *PostgresGuildConfigsRepository) CreateGuildConfig(ctx context.Context, config *models.GuildConfig) error {
	db := dbtx.GetTransactional(ctx, r.db)
	returningStr := strings.Join(guildConfigsColumns, ", ")
	query := fmt.Sprintf(`
		INSERT INTO %s.guild_configs (guild_id, admin_role_id, staff_role_id, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING %s`, r.schema, returningStr)

	err := db.QueryRowxContext(ctx, query, config.GuildID, config.AdminRoleID, config.StaffRoleID).StructScan(config)
	if err != nil {
		return fmt.Errorf("failed to create guild config: %w", err)
	}

	return nil
}

func (r *PostgresGuildConfigsRepository) GetGuildConfig(
	ctx context.Context,
	guildID string,
) (mo.Option[*models.GuildConfig], error) {
	if guildID == "" {
		return mo.None[*models.GuildConfig](), fmt.Errorf("guild ID cannot be empty")
	}

	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(guildConfigsColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.guild_configs
		WHERE guild_id = $1`, columnsStr, r.schema)

	var config models.GuildConfig
	err := db.GetContext(ctx, &config, query, guildID)
	if err != nil {
		if err == sql.ErrNoRows {
			return mo.None[*models.GuildConfig](), nil
		}
		return mo.None[*models.GuildConfig](), fmt.Errorf("failed to get guild config: %w", err)
	}

	return mo.Some(&config), nil
}

// SetChannelSetting writes or clears (channelID nil) one channel setting column.
// Returns false when the guild has no config.
func (r *PostgresGuildConfigsRepository) SetChannelSetting(
	ctx context.Context,
	guildID string,
	setting models.GuildSetting,
	channelID *string,
) (bool, error) {
	if !setting.IsValid() {
		return false, fmt.Errorf("unknown guild setting %q", setting)
	}

	query := fmt.Sprintf(`
		UPDATE %s.guild_configs
		SET %s = $2, updated_at = NOW()
		WHERE guild_id = $1`, r.schema, setting.Column())

	return r.execUpdate(ctx, query, "failed to set guild setting", guildID, channelID)
}

// SetTicketMessage records the channel and message carrying the ticket intake button
func (r *PostgresGuildConfigsRepository) SetTicketMessage(
	ctx context.Context,
	guildID string,
	channelID string,
	messageID string,
) (bool, error) {
	query := fmt.Sprintf(`
		UPDATE %s.guild_configs
		SET ticket_channel_id = $2, ticket_message_id = $3, updated_at = NOW()
		WHERE guild_id = $1`, r.schema)

	return r.execUpdate(ctx, query, "failed to set ticket message", guildID, channelID, messageID)
}

// ClearTicketMessage unsets ticket_channel_id and ticket_message_id in one statement
func (r *PostgresGuildConfigsRepository) ClearTicketMessage(ctx context.Context, guildID string) (bool, error) {
	query := fmt.Sprintf(`
		UPDATE %s.guild_configs
		SET ticket_channel_id = NULL, ticket_message_id = NULL, updated_at = NOW()
		WHERE guild_id = $1`, r.schema)

	return r.execUpdate(ctx, query, "failed to clear ticket message", guildID)
}

// SetDefaultForm binds (or unbinds, formID nil) the default form of a built-in category
func (r *PostgresGuildConfigsRepository) SetDefaultForm(
	ctx context.Context,
	guildID string,
	category models.BuiltInCategory,
	formID *string,
) (bool, error) {
	if _, ok := models.ParseBuiltInCategory(string(category)); !ok {
		return false, fmt.Errorf("unknown built-in category %q", category)
	}

	query := fmt.Sprintf(`
		UPDATE %s.guild_configs
		SET %s_form_id = $2, updated_at = NOW()
		WHERE guild_id = $1`, r.schema, category)

	return r.execUpdate(ctx, query, "failed to set default form", guildID, formID)
}

func (r *PostgresGuildConfigsRepository) execUpdate(ctx context.Context, query, errMsg string, args ...any) (bool, error) {
	db := dbtx.GetTransactional(ctx, r.db)
	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%s: %w", errMsg, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return rowsAffected > 0, nil
}
