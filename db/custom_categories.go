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

type PostgresCustomCategoriesRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for custom_categories table
var customCategoriesColumns = []string{
	"id",
	"guild_id",
	"name",
	"channel_id",
	"form_id",
	"active",
	"created_at",
}

func NewPostgresCustomCategoriesRepository(db *sqlx.DB, schema string) *PostgresCustomCategoriesRepository {
	return &PostgresCustomCategoriesRepository{db: db, schema: schema}
}

func (r *PostgresCustomCategoriesRepository) CreateCustomCategory(
	ctx context.Context,
	category *models.CustomCategory,
) error {
	db := dbtx.GetTransactional(ctx, r.db)
	returningStr := strings.Join(customCategoriesColumns, ", ")
	query := fmt.Sprintf(`
		INSERT INTO %s.custom_categories (id, guild_id, name, channel_id, form_id, active, created_at)
		VALUES ($1, $2, $3, $4, $5, TRUE, NOW())
		RETURNING %s`, r.schema, returningStr)

	err := db.QueryRowxContext(
		ctx,
		query,
		category.ID,
		category.GuildID,
		category.Name,
		category.ChannelID,
		category.FormID,
	).StructScan(category)
	if err != nil {
		return fmt.Errorf("failed to create custom category: %w", err)
	}

	return nil
}

// GetActiveCustomCategories returns the guild's active categories ordered by name
func (r *PostgresCustomCategoriesRepository) GetActiveCustomCategories(
	ctx context.Context,
	guildID string,
) ([]*models.CustomCategory, error) {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(customCategoriesColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.custom_categories
		WHERE guild_id = $1 AND active
		ORDER BY name ASC`, columnsStr, r.schema)

	var categories []*models.CustomCategory
	err := db.SelectContext(ctx, &categories, query, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to get active custom categories: %w", err)
	}

	return categories, nil
}

// GetActiveCustomCategory returns None for unknown, foreign or deactivated categories
func (r *PostgresCustomCategoriesRepository) GetActiveCustomCategory(
	ctx context.Context,
	guildID string,
	id string,
) (mo.Option[*models.CustomCategory], error) {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(customCategoriesColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.custom_categories
		WHERE id = $1 AND guild_id = $2 AND active`, columnsStr, r.schema)

	var category models.CustomCategory
	err := db.GetContext(ctx, &category, query, id, guildID)
	if err != nil {
		if err == sql.ErrNoRows {
			return mo.None[*models.CustomCategory](), nil
		}
		return mo.None[*models.CustomCategory](), fmt.Errorf("failed to get custom category: %w", err)
	}

	return mo.Some(&category), nil
}

// DeactivateCustomCategory soft-deletes an active category by name. Tickets keep referencing it.
func (r *PostgresCustomCategoriesRepository) DeactivateCustomCategory(
	ctx context.Context,
	guildID string,
	name string,
) (bool, error) {
	query := fmt.Sprintf(`
		UPDATE %s.custom_categories
		SET active = FALSE
		WHERE guild_id = $1 AND name = $2 AND active`, r.schema)

	return r.execUpdate(ctx, query, "failed to deactivate custom category", guildID, name)
}

func (r *PostgresCustomCategoriesRepository) SetCustomCategoryForm(
	ctx context.Context,
	guildID string,
	id string,
	formID *string,
) (bool, error) {
	query := fmt.Sprintf(`
		UPDATE %s.custom_categories
		SET form_id = $3
		WHERE id = $1 AND guild_id = $2 AND active`, r.schema)

	return r.execUpdate(ctx, query, "failed to set custom category form", id, guildID, formID)
}

func (r *PostgresCustomCategoriesRepository) execUpdate(ctx context.Context, query, errMsg string, args ...any) (bool, error) {
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
