package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	dbtx "supportbot/db/tx"
	"supportbot/models"
)

type PostgresTicketMessagesRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for ticket_messages table
var ticketMessagesColumns = []string{
	"id",
	"ticket_id",
	"author_id",
	"sent_at",
	"body",
	"staff_message_id",
	"user_message_id",
}

func NewPostgresTicketMessagesRepository(db *sqlx.DB, schema string) *PostgresTicketMessagesRepository {
	return &PostgresTicketMessagesRepository{db: db, schema: schema}
}

func (r *PostgresTicketMessagesRepository) CreateTicketMessage(ctx context.Context, message *models.TicketMessage) error {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(ticketMessagesColumns, ", ")
	query := fmt.Sprintf(`
		INSERT INTO %s.ticket_messages (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING %s`, r.schema, columnsStr, columnsStr)

	err := db.QueryRowxContext(
		ctx,
		query,
		message.ID,
		message.TicketID,
		message.AuthorID,
		message.SentAt,
		message.Body,
		message.StaffMessageID,
		message.UserMessageID,
	).StructScan(message)
	if err != nil {
		return fmt.Errorf("failed to create ticket message: %w", err)
	}

	return nil
}

// GetTicketMessages returns a ticket's messages in send order
func (r *PostgresTicketMessagesRepository) GetTicketMessages(
	ctx context.Context,
	ticketID string,
) ([]*models.TicketMessage, error) {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(ticketMessagesColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.ticket_messages
		WHERE ticket_id = $1
		ORDER BY sent_at ASC, id ASC`, columnsStr, r.schema)

	var messages []*models.TicketMessage
	err := db.SelectContext(ctx, &messages, query, ticketID)
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket messages: %w", err)
	}

	return messages, nil
}
