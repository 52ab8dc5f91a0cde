package tickets

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"supportbot/clients"
	"supportbot/components"
	"supportbot/core/log"
	"supportbot/models"
	"supportbot/router"
	"supportbot/services"
	"supportbot/sessions"
	"supportbot/usecases"
)

const replyField = "body"

const (
	notTicketThreadMessage = "This can only be used inside a ticket thread."
	ticketClosedMessage    = "This ticket is closed."
	notStaffMessage        = "Only staff members can do that."
	emptyReplyMessage      = "The reply cannot be empty."
	replySentMessage       = "Your reply has been sent."
)

// maxReplyLength leaves room for the longest prefix, the DM heading with a full title
const maxReplyLength = clients.MaxMessageLength - 200

// StartReply opens the reply modal for the ticket whose thread the interaction came from
func (u *TicketsUseCase) StartReply(ctx context.Context, it *models.Interaction) error {
	ticket, config, reason, err := u.staffTicket(ctx, it)
	if err != nil {
		return err
	}
	if reason != "" {
		return usecases.RespondEphemeral(ctx, u.discordClient, it, reason)
	}
	if !ticket.Open {
		return usecases.RespondEphemeral(ctx, u.discordClient, it, ticketClosedMessage)
	}
	log.Info("📋 Starting ticket reply", "ticket_id", ticket.ID, "guild_id", config.GuildID, "user_id", it.UserID)

	sessionID := sessions.NewSessionID()
	session := sessions.ReplySession{TicketID: ticket.ID, GuildID: ticket.GuildID, ThreadID: ticket.ThreadID}
	if err := u.replySessions.Create(sessionID, session); err != nil {
		return fmt.Errorf("failed to create reply session: %w", err)
	}

	return respond(u.discordClient.RespondModal(ctx, it, clients.Modal{
		CustomID: router.ReplyMessageID(sessionID),
		Title:    "Reply to ticket",
		Inputs: []clients.TextInput{
			components.TextField(replyField, "Message", "", true, true, maxReplyLength),
		},
	}))
}

// SubmitReply delivers the reply to the staff thread and to the user, then records both
// message IDs on one ticket message. Nothing is recorded unless both sends succeed.
func (u *TicketsUseCase) SubmitReply(ctx context.Context, it *models.Interaction, sessionID string) error {
	session, ok := u.replySessions.Remove(sessionID).Get()
	if !ok {
		// The modal may come from the reply button on the ticket's starter message, which
		// keeps its controls
		return usecases.RespondEphemeral(ctx, u.discordClient, it, usecases.ExpiredMessage)
	}

	body := strings.TrimSpace(it.Fields[replyField])
	if body == "" {
		return usecases.RespondEphemeral(ctx, u.discordClient, it, emptyReplyMessage)
	}
	if err := usecases.DeferEphemeral(ctx, u.discordClient, it); err != nil {
		return err
	}

	maybeTicket, err := u.ticketsService.GetTicketByID(ctx, session.TicketID)
	if err != nil {
		return fmt.Errorf("failed to get ticket: %w", err)
	}
	ticket, ok := maybeTicket.Get()
	if !ok || !ticket.Open {
		return usecases.RespondEphemeral(ctx, u.discordClient, it, ticketClosedMessage)
	}
	log.Info("📋 Starting to deliver ticket reply", "ticket_id", ticket.ID, "author_id", it.UserID)

	var staffMessage, userMessage *clients.PostedMessage
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		posted, err := u.discordClient.SendMessage(gctx, ticket.ThreadID, clients.Message{
			Content: fitMessage(fmt.Sprintf("**<@%s> replied:**\n%s", it.UserID, body)),
		})
		if err != nil {
			return fmt.Errorf("failed to post reply in thread %s: %w", ticket.ThreadID, err)
		}
		staffMessage = posted
		return nil
	})
	g.Go(func() error {
		posted, err := u.discordClient.SendDirectMessage(gctx, ticket.UserID, clients.Message{
			Content: fitMessage(fmt.Sprintf("**Reply to your ticket \"%s\":**\n%s", ticket.Title, body)),
		})
		if err != nil {
			return fmt.Errorf("failed to forward reply to user %s: %w", ticket.UserID, err)
		}
		userMessage = posted
		return nil
	})
	if err := g.Wait(); err != nil {
		log.Error("❌ Failed to deliver ticket reply", "ticket_id", ticket.ID, "error", err)
		return err
	}

	_, err = u.ticketsService.RecordMessage(ctx, services.RecordMessageParams{
		TicketID:       ticket.ID,
		AuthorID:       it.UserID,
		Body:           body,
		SentAt:         u.sentAt(it),
		StaffMessageID: staffMessage.MessageID,
		UserMessageID:  &userMessage.MessageID,
	})
	if err != nil {
		return fmt.Errorf("failed to record reply: %w", err)
	}

	log.Info("📋 Completed successfully - delivered ticket reply", "ticket_id", ticket.ID)
	return usecases.RespondEphemeral(ctx, u.discordClient, it, replySentMessage)
}

// staffTicket loads the ticket of the current thread and checks the member may work it.
// A non-empty reason is the message to show instead.
func (u *TicketsUseCase) staffTicket(
	ctx context.Context,
	it *models.Interaction,
) (*models.Ticket, *models.GuildConfig, string, error) {
	if it.ChannelID == "" {
		return nil, nil, notTicketThreadMessage, nil
	}
	maybeTicket, err := u.ticketsService.GetTicketByThreadID(ctx, it.ChannelID)
	if err != nil {
		return nil, nil, "", fmt.Errorf("failed to get ticket by thread: %w", err)
	}
	ticket, ok := maybeTicket.Get()
	if !ok || ticket.GuildID != it.GuildID {
		return nil, nil, notTicketThreadMessage, nil
	}

	maybeConfig, err := u.guildConfigsService.GetGuildConfig(ctx, it.GuildID)
	if err != nil {
		return nil, nil, "", fmt.Errorf("failed to get guild config: %w", err)
	}
	config, ok := maybeConfig.Get()
	if !ok {
		return nil, nil, usecases.NotSetUpMessage, nil
	}
	if !usecases.IsStaff(it, config) {
		return nil, nil, notStaffMessage, nil
	}
	return ticket, config, "", nil
}
