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

type PostgresFormsRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for forms table
var formsColumns = []string{
	"id",
	"guild_id",
	"name",
	"created_at",
}

// Column names for form_questions table
var formQuestionsColumns = []string{
	"id",
	"form_id",
	"position",
	"label",
	"style",
	"required",
}

func NewPostgresFormsRepository(db *sqlx.DB, schema string) *PostgresFormsRepository {
	return &PostgresFormsRepository{db: db, schema: schema}
}

func (r *PostgresFormsRepository) CreateForm(ctx context.Context, form *models.Form) error {
	db := dbtx.GetTransactional(ctx, r.db)
	returningStr := strings.Join(formsColumns, ", ")
	query := fmt.Sprintf(`
		INSERT INTO %s.forms (id, guild_id, name, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING %s`, r.schema, returningStr)

	err := db.QueryRowxContext(ctx, query, form.ID, form.GuildID, form.Name).StructScan(form)
	if err != nil {
		return fmt.Errorf("failed to create form: %w", err)
	}

	return nil
}

// GetFormsByGuildID returns the guild's forms ordered by name
func (r *PostgresFormsRepository) GetFormsByGuildID(ctx context.Context, guildID string) ([]*models.Form, error) {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(formsColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.forms
		WHERE guild_id = $1
		ORDER BY name ASC`, columnsStr, r.schema)

	var forms []*models.Form
	err := db.SelectContext(ctx, &forms, query, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to get forms by guild ID: %w", err)
	}

	return forms, nil
}

func (r *PostgresFormsRepository) GetFormByID(
	ctx context.Context,
	guildID string,
	id string,
) (mo.Option[*models.Form], error) {
	return r.getFormBy(ctx, "id", guildID, id)
}

func (r *PostgresFormsRepository) GetFormByName(
	ctx context.Context,
	guildID string,
	name string,
) (mo.Option[*models.Form], error) {
	return r.getFormBy(ctx, "name", guildID, name)
}

func (r *PostgresFormsRepository) getFormBy(
	ctx context.Context,
	column string,
	guildID string,
	value string,
) (mo.Option[*models.Form], error) {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(formsColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.forms
		WHERE guild_id = $1 AND %s = $2`, columnsStr, r.schema, column)

	var form models.Form
	err := db.GetContext(ctx, &form, query, guildID, value)
	if err != nil {
		if err == sql.ErrNoRows {
			return mo.None[*models.Form](), nil
		}
		return mo.None[*models.Form](), fmt.Errorf("failed to get form by %s: %w", column, err)
	}

	return mo.Some(&form), nil
}

// AddFormQuestion appends a question after the form's current last position
func (r *PostgresFormsRepository) AddFormQuestion(ctx context.Context, question *models.FormQuestion) error {
	db := dbtx.GetTransactional(ctx, r.db)
	returningStr := strings.Join(formQuestionsColumns, ", ")
	query := fmt.Sprintf(`
		INSERT INTO %s.form_questions (id, form_id, position, label, style, required)
		VALUES (
			$1, $2,
			(SELECT COALESCE(MAX(position), 0) + 1 FROM %s.form_questions WHERE form_id = $2),
			$3, $4, $5
		)
		RETURNING %s`, r.schema, r.schema, returningStr)

	err := db.QueryRowxContext(ctx, query, question.ID, question.FormID, question.Label, question.Style, question.Required).
		StructScan(question)
	if err != nil {
		return fmt.Errorf("failed to add form question: %w", err)
	}

	return nil
}

// GetFormQuestions returns the questions of a form ordered by position
func (r *PostgresFormsRepository) GetFormQuestions(ctx context.Context, formID string) ([]*models.FormQuestion, error) {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(formQuestionsColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.form_questions
		WHERE form_id = $1
		ORDER BY position ASC`, columnsStr, r.schema)

	var questions []*models.FormQuestion
	err := db.SelectContext(ctx, &questions, query, formID)
	if err != nil {
		return nil, fmt.Errorf("failed to get form questions: %w", err)
	}

	return questions, nil
}
