package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	dbtx "supportbot/db/tx"
	"supportbot/models"
)

type PostgresModerationActionsRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for moderation_actions table
var moderationActionsColumns = []string{
	"id",
	"kind",
	"guild_id",
	"audit_entry_id",
	"actor_id",
	"target_id",
	"reason",
	"happened_at",
	"until",
	"automod_action",
	"rule_name",
}

func NewPostgresModerationActionsRepository(db *sqlx.DB, schema string) *PostgresModerationActionsRepository {
	return &PostgresModerationActionsRepository{db: db, schema: schema}
}

// CreateModerationAction inserts the record unless its audit entry was already stored.
// Returns false for a duplicate delivery.
func (r *PostgresModerationActionsRepository) CreateModerationAction(
	ctx context.Context,
	action *models.ModerationAction,
) (bool, error) {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(moderationActionsColumns, ", ")
	query := fmt.Sprintf(`
		INSERT INTO %s.moderation_actions (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (audit_entry_id) DO NOTHING`, r.schema, columnsStr)

	result, err := db.ExecContext(
		ctx,
		query,
		action.ID,
		action.Kind,
		action.GuildID,
		action.AuditEntryID,
		action.ActorID,
		action.TargetID,
		action.Reason,
		action.HappenedAt,
		action.Until,
		action.AutomodAction,
		action.RuleName,
	)
	if err != nil {
		return false, fmt.Errorf("failed to create moderation action: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return rowsAffected > 0, nil
}

// GetModerationActionsByTarget returns a member's moderation history, newest first
func (r *PostgresModerationActionsRepository) GetModerationActionsByTarget(
	ctx context.Context,
	guildID string,
	targetID string,
) ([]*models.ModerationAction, error) {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(moderationActionsColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.moderation_actions
		WHERE guild_id = $1 AND target_id = $2
		ORDER BY happened_at DESC`, columnsStr, r.schema)

	var actions []*models.ModerationAction
	err := db.SelectContext(ctx, &actions, query, guildID, targetID)
	if err != nil {
		return nil, fmt.Errorf("failed to get moderation actions: %w", err)
	}

	return actions, nil
}
