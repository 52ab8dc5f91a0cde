package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"supportbot/core"
	"supportbot/db"
	"supportbot/models"
	"supportbot/services"
	"supportbot/services/moderation"
	"supportbot/services/tickets"
	"supportbot/services/txmanager"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Print stored tickets and moderation history as JSON",
}

var inspectTranscriptCmd = &cobra.Command{
	Use:   "transcript <ticket-id>",
	Short: "Print a ticket with every recorded message",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dbConn, schema, err := openToolingDB(cmd.Context())
		if err != nil {
			return err
		}
		defer dbConn.Close()

		ticketsService := tickets.NewTicketsService(
			db.NewPostgresTicketsRepository(dbConn, schema),
			db.NewPostgresTicketMessagesRepository(dbConn, schema),
			db.NewPostgresPendingPartnersRepository(dbConn, schema),
			txmanager.NewTransactionManager(dbConn),
		)
		return printTranscript(cmd.Context(), cmd.OutOrStdout(), ticketsService, args[0])
	},
}

var inspectHistoryCmd = &cobra.Command{
	Use:   "history <guild-id> <user-id>",
	Short: "Print the moderation actions taken against a member",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		dbConn, schema, err := openToolingDB(cmd.Context())
		if err != nil {
			return err
		}
		defer dbConn.Close()

		moderationService := moderation.NewModerationService(
			db.NewPostgresModerationActionsRepository(dbConn, schema),
		)
		return printHistory(cmd.Context(), cmd.OutOrStdout(), moderationService, args[0], args[1])
	},
}

func init() {
	inspectCmd.AddCommand(inspectTranscriptCmd)
	inspectCmd.AddCommand(inspectHistoryCmd)
}

type transcript struct {
	Ticket   *models.Ticket          `json:"ticket"`
	Messages []*models.TicketMessage `json:"messages"`
}

func printTranscript(ctx context.Context, w io.Writer, ticketsService services.TicketsService, ticketID string) error {
	maybeTicket, err := ticketsService.GetTicketByID(ctx, ticketID)
	if err != nil {
		return fmt.Errorf("failed to load ticket: %w", err)
	}
	ticket, ok := maybeTicket.Get()
	if !ok {
		return fmt.Errorf("ticket %s: %w", ticketID, core.ErrNotFound)
	}

	messages, err := ticketsService.GetTicketMessages(ctx, ticket.ID)
	if err != nil {
		return fmt.Errorf("failed to load ticket messages: %w", err)
	}
	if messages == nil {
		messages = []*models.TicketMessage{}
	}

	return writeJSON(w, transcript{Ticket: ticket, Messages: messages})
}

func printHistory(
	ctx context.Context,
	w io.Writer,
	moderationService services.ModerationService,
	guildID, userID string,
) error {
	actions, err := moderationService.GetHistory(ctx, guildID, userID)
	if err != nil {
		return fmt.Errorf("failed to load moderation history: %w", err)
	}
	if actions == nil {
		actions = []*models.ModerationAction{}
	}
	return writeJSON(w, actions)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}
