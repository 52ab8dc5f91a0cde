package tickets

import (
	"context"
	"time"

	"github.com/samber/mo"
	"github.com/stretchr/testify/mock"

	"supportbot/models"
	"supportbot/services"
)

// MockTicketsService is a mock implementation of the TicketsService interface
type MockTicketsService struct {
	mock.Mock
}

func (m *MockTicketsService) OpenTicket(ctx context.Context, params services.OpenTicketParams) (*models.Ticket, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Ticket), args.Error(1)
}

func (m *MockTicketsService) GetTicketByID(ctx context.Context, id string) (mo.Option[*models.Ticket], error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return mo.None[*models.Ticket](), args.Error(1)
	}
	return args.Get(0).(mo.Option[*models.Ticket]), args.Error(1)
}

func (m *MockTicketsService) GetTicketByThreadID(
	ctx context.Context,
	threadID string,
) (mo.Option[*models.Ticket], error) {
	args := m.Called(ctx, threadID)
	if args.Get(0) == nil {
		return mo.None[*models.Ticket](), args.Error(1)
	}
	return args.Get(0).(mo.Option[*models.Ticket]), args.Error(1)
}

func (m *MockTicketsService) RecordMessage(
	ctx context.Context,
	params services.RecordMessageParams,
) (*models.TicketMessage, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TicketMessage), args.Error(1)
}

func (m *MockTicketsService) GetTicketMessages(ctx context.Context, ticketID string) ([]*models.TicketMessage, error) {
	args := m.Called(ctx, ticketID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.TicketMessage), args.Error(1)
}

func (m *MockTicketsService) CloseTicket(ctx context.Context, ticketID, closedBy string, closedAt time.Time) error {
	args := m.Called(ctx, ticketID, closedBy, closedAt)
	return args.Error(0)
}
