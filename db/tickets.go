package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/samber/mo"

	dbtx "supportbot/db/tx"
	"supportbot/models"
)

type PostgresTicketsRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for tickets table
var ticketsColumns = []string{
	"id",
	"guild_id",
	"user_id",
	"title",
	"built_in_category",
	"custom_category_id",
	"open",
	"thread_id",
	"closed_by",
	"closed_at",
	"created_at",
}

func NewPostgresTicketsRepository(db *sqlx.DB, schema string) *PostgresTicketsRepository {
	return &PostgresTicketsRepository{db: db, schema: schema}
}

func (r *PostgresTicketsRepository) CreateTicket(ctx context.Context, ticket *models.Ticket) error {
	db := dbtx.GetTransactional(ctx, r.db)
	insertColumns := []string{
		"id",
		"guild_id",
		"user_id",
		"title",
		"built_in_category",
		"custom_category_id",
		"open",
		"thread_id",
		"created_at",
	}
	columnsStr := strings.Join(insertColumns, ", ")
	returningStr := strings.Join(ticketsColumns, ", ")

	query := fmt.Sprintf(`
		INSERT INTO %s.tickets (%s)
		VALUES ($1, $2, $3, $4, $5, $6, TRUE, $7, NOW())
		RETURNING %s`, r.schema, columnsStr, returningStr)

	err := db.QueryRowxContext(
		ctx,
		query,
		ticket.ID,
		ticket.GuildID,
		ticket.UserID,
		ticket.Title,
		ticket.BuiltInCategory,
		ticket.CustomCategoryID,
		ticket.ThreadID,
	).StructScan(ticket)
	if err != nil {
		return fmt.Errorf("failed to create ticket: %w", err)
	}

	return nil
}

func (r *PostgresTicketsRepository) GetTicketByID(ctx context.Context, id string) (mo.Option[*models.Ticket], error) {
	return r.getTicketBy(ctx, "id", id)
}

// GetTicketByThreadID finds the ticket whose staff thread is threadID
func (r *PostgresTicketsRepository) GetTicketByThreadID(
	ctx context.Context,
	threadID string,
) (mo.Option[*models.Ticket], error) {
	return r.getTicketBy(ctx, "thread_id", threadID)
}

func (r *PostgresTicketsRepository) getTicketBy(
	ctx context.Context,
	column string,
	value string,
) (mo.Option[*models.Ticket], error) {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(ticketsColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.tickets
		WHERE %s = $1`, columnsStr, r.schema, column)

	var ticket models.Ticket
	err := db.GetContext(ctx, &ticket, query, value)
	if err != nil {
		if err == sql.ErrNoRows {
			return mo.None[*models.Ticket](), nil
		}
		return mo.None[*models.Ticket](), fmt.Errorf("failed to get ticket by %s: %w", column, err)
	}

	return mo.Some(&ticket), nil
}

// CloseTicket marks an open ticket closed. Returns false if it was not open.
func (r *PostgresTicketsRepository) CloseTicket(
	ctx context.Context,
	id string,
	closedBy string,
	closedAt time.Time,
) (bool, error) {
	db := dbtx.GetTransactional(ctx, r.db)
	query := fmt.Sprintf(`
		UPDATE %s.tickets
		SET open = FALSE, closed_by = $2, closed_at = $3
		WHERE id = $1 AND open`, r.schema)

	result, err := db.ExecContext(ctx, query, id, closedBy, closedAt)
	if err != nil {
		return false, fmt.Errorf("failed to close ticket: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return rowsAffected > 0, nil
}
