package tickets

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/samber/mo"

	"supportbot/core"
	"supportbot/core/log"
	"supportbot/models"
	"supportbot/services"
)

type TicketsRepository interface {
	CreateTicket(ctx context.Context, ticket *models.Ticket) error
	GetTicketByID(ctx context.Context, id string) (mo.Option[*models.Ticket], error)
	GetTicketByThreadID(ctx context.Context, threadID string) (mo.Option[*models.Ticket], error)
	CloseTicket(ctx context.Context, id, closedBy string, closedAt time.Time) (bool, error)
}

type TicketMessagesRepository interface {
	CreateTicketMessage(ctx context.Context, message *models.TicketMessage) error
	GetTicketMessages(ctx context.Context, ticketID string) ([]*models.TicketMessage, error)
}

type PendingPartnersRepository interface {
	CreatePendingPartner(ctx context.Context, partner *models.PendingPartner) error
}

type TicketsService struct {
	ticketsRepo  TicketsRepository
	messagesRepo TicketMessagesRepository
	partnersRepo PendingPartnersRepository
	txManager    services.TransactionManager
}

func NewTicketsService(
	ticketsRepo TicketsRepository,
	messagesRepo TicketMessagesRepository,
	partnersRepo PendingPartnersRepository,
	txManager services.TransactionManager,
) *TicketsService {
	return &TicketsService{
		ticketsRepo:  ticketsRepo,
		messagesRepo: messagesRepo,
		partnersRepo: partnersRepo,
		txManager:    txManager,
	}
}

// OpenTicket persists a ticket whose staff thread already exists, together with its first
// message and, for partnership requests, the pending partner record. All rows are written in
// one transaction.
func (s *TicketsService) OpenTicket(ctx context.Context, params services.OpenTicketParams) (*models.Ticket, error) {
	log.Info("📋 Starting to open ticket", "guild_id", params.GuildID, "thread_id", params.ThreadID)
	if err := validateOpenTicketParams(params); err != nil {
		return nil, err
	}

	ticket := &models.Ticket{
		ID:       core.NewID("tkt"),
		GuildID:  params.GuildID,
		UserID:   params.UserID,
		Title:    params.Title,
		ThreadID: params.ThreadID,
		Open:     true,
	}
	if params.Category.IsBuiltIn() {
		category := params.Category.BuiltIn
		ticket.BuiltInCategory = &category
	} else {
		customID := params.Category.CustomID
		ticket.CustomCategoryID = &customID
	}

	err := s.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.ticketsRepo.CreateTicket(ctx, ticket); err != nil {
			return err
		}

		first := &models.TicketMessage{
			ID:             core.NewID("tkm"),
			TicketID:       ticket.ID,
			AuthorID:       params.UserID,
			SentAt:         params.SentAt,
			Body:           params.Body,
			StaffMessageID: params.StarterMessageID,
		}
		if err := s.messagesRepo.CreateTicketMessage(ctx, first); err != nil {
			return err
		}

		if invite, ok := params.Invite.Get(); ok {
			partner := &models.PendingPartner{
				TicketID:       ticket.ID,
				GuildID:        params.GuildID,
				InviteCode:     invite.Code,
				PartnerGuildID: invite.PartnerGuildID,
			}
			if err := s.partnersRepo.CreatePendingPartner(ctx, partner); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open ticket: %w", err)
	}

	log.Info("📋 Completed successfully - opened ticket", "ticket_id", ticket.ID, "thread_id", ticket.ThreadID)
	return ticket, nil
}

func validateOpenTicketParams(params services.OpenTicketParams) error {
	if params.GuildID == "" || params.UserID == "" {
		return fmt.Errorf("guild and user IDs cannot be empty")
	}
	if strings.TrimSpace(params.Title) == "" {
		return fmt.Errorf("ticket title cannot be empty")
	}
	if params.Category.IsZero() {
		return fmt.Errorf("ticket category must be set")
	}
	if params.ThreadID == "" || params.StarterMessageID == "" {
		return fmt.Errorf("thread and starter message IDs cannot be empty")
	}
	if params.Category.IsBuiltIn() && params.Category.BuiltIn.RequiresInvite() && params.Invite.IsAbsent() {
		return fmt.Errorf("%s tickets require a partner invite", params.Category.BuiltIn)
	}
	return nil
}

func (s *TicketsService) GetTicketByID(ctx context.Context, id string) (mo.Option[*models.Ticket], error) {
	if !core.IsValidULID(id) {
		return mo.None[*models.Ticket](), fmt.Errorf("ticket ID must be a valid ULID")
	}

	maybeTicket, err := s.ticketsRepo.GetTicketByID(ctx, id)
	if err != nil {
		return mo.None[*models.Ticket](), fmt.Errorf("failed to get ticket: %w", err)
	}
	return maybeTicket, nil
}

func (s *TicketsService) GetTicketByThreadID(ctx context.Context, threadID string) (mo.Option[*models.Ticket], error) {
	if threadID == "" {
		return mo.None[*models.Ticket](), fmt.Errorf("thread ID cannot be empty")
	}

	maybeTicket, err := s.ticketsRepo.GetTicketByThreadID(ctx, threadID)
	if err != nil {
		return mo.None[*models.Ticket](), fmt.Errorf("failed to get ticket by thread: %w", err)
	}
	return maybeTicket, nil
}

// RecordMessage persists a message that has already been delivered
func (s *TicketsService) RecordMessage(
	ctx context.Context,
	params services.RecordMessageParams,
) (*models.TicketMessage, error) {
	if !core.IsValidULID(params.TicketID) {
		return nil, fmt.Errorf("ticket ID must be a valid ULID")
	}
	if params.StaffMessageID == "" {
		return nil, fmt.Errorf("staff message ID cannot be empty")
	}

	message := &models.TicketMessage{
		ID:             core.NewID("tkm"),
		TicketID:       params.TicketID,
		AuthorID:       params.AuthorID,
		SentAt:         params.SentAt,
		Body:           params.Body,
		StaffMessageID: params.StaffMessageID,
		UserMessageID:  params.UserMessageID,
	}
	if err := s.messagesRepo.CreateTicketMessage(ctx, message); err != nil {
		return nil, fmt.Errorf("failed to record ticket message: %w", err)
	}

	log.Info("📋 Recorded ticket message", "ticket_id", params.TicketID, "message_id", message.ID)
	return message, nil
}

func (s *TicketsService) GetTicketMessages(ctx context.Context, ticketID string) ([]*models.TicketMessage, error) {
	messages, err := s.messagesRepo.GetTicketMessages(ctx, ticketID)
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket messages: %w", err)
	}
	return messages, nil
}

// CloseTicket closes an open ticket. Closing a ticket that is not open returns an error
// wrapping core.ErrConflict.
func (s *TicketsService) CloseTicket(ctx context.Context, ticketID, closedBy string, closedAt time.Time) error {
	log.Info("📋 Starting to close ticket", "ticket_id", ticketID, "closed_by", closedBy)

	closed, err := s.ticketsRepo.CloseTicket(ctx, ticketID, closedBy, closedAt)
	if err != nil {
		return fmt.Errorf("failed to close ticket: %w", err)
	}
	if !closed {
		return fmt.Errorf("ticket %s is not open: %w", ticketID, core.ErrConflict)
	}

	log.Info("📋 Completed successfully - closed ticket", "ticket_id", ticketID)
	return nil
}
