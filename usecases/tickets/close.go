package tickets

import (
	"context"
	"fmt"

	"supportbot/clients"
	"supportbot/core"
	"supportbot/core/log"
	"supportbot/models"
	"supportbot/usecases"
)

const alreadyClosedMessage = "This ticket is already closed."

// CloseTicket marks the ticket of the current thread closed and locks the thread. The
// follow-up platform calls run after the response and only log their failures.
func (u *TicketsUseCase) CloseTicket(ctx context.Context, it *models.Interaction) error {
	ticket, _, reason, err := u.staffTicket(ctx, it)
	if err != nil {
		return err
	}
	if reason != "" {
		return usecases.RespondEphemeral(ctx, u.discordClient, it, reason)
	}
	if !ticket.Open {
		return usecases.RespondEphemeral(ctx, u.discordClient, it, alreadyClosedMessage)
	}
	log.Info("📋 Starting to close ticket", "ticket_id", ticket.ID, "closed_by", it.UserID)

	err = u.ticketsService.CloseTicket(ctx, ticket.ID, it.UserID, u.now().UTC())
	if core.IsConflictError(err) {
		return usecases.RespondEphemeral(ctx, u.discordClient, it, alreadyClosedMessage)
	}
	if err != nil {
		return fmt.Errorf("failed to close ticket: %w", err)
	}

	if err := u.discordClient.RespondMessage(ctx, it, clients.Message{
		Content: fmt.Sprintf("🔒 Ticket closed by <@%s>.", it.UserID),
	}); err != nil {
		log.Error("❌ Failed to announce ticket closure", "ticket_id", ticket.ID, "error", err)
	}

	// The starter message of a forum post shares the thread's ID
	if err := u.discordClient.UpdateMessage(ctx, ticket.ThreadID, ticket.ThreadID, clients.Message{ClearRows: true}); err != nil {
		log.Warn("⚠️ Failed to remove ticket controls", "ticket_id", ticket.ID, "error", err)
	}
	if err := u.discordClient.LockThread(ctx, ticket.ThreadID); err != nil {
		log.Error("❌ Failed to lock ticket thread", "ticket_id", ticket.ID, "thread_id", ticket.ThreadID, "error", err)
	}

	_, err = u.discordClient.SendDirectMessage(ctx, ticket.UserID, clients.Message{
		Content: fmt.Sprintf("Your ticket \"%s\" has been closed.", ticket.Title),
	})
	if err != nil {
		log.Warn("⚠️ Could not notify user about closed ticket", "ticket_id", ticket.ID, "user_id", ticket.UserID, "error", err)
	}

	log.Info("📋 Completed successfully - closed ticket", "ticket_id", ticket.ID)
	return nil
}
