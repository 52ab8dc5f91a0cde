package moderation

import (
	"context"

	"github.com/stretchr/testify/mock"

	"supportbot/models"
)

// MockModerationService is a mock implementation of the ModerationService interface
type MockModerationService struct {
	mock.Mock
}

func (m *MockModerationService) RecordAction(ctx context.Context, action *models.ModerationAction) (bool, error) {
	args := m.Called(ctx, action)
	return args.Bool(0), args.Error(1)
}

func (m *MockModerationService) GetHistory(
	ctx context.Context,
	guildID, targetID string,
) ([]*models.ModerationAction, error) {
	args := m.Called(ctx, guildID, targetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ModerationAction), args.Error(1)
}
