package moderation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"supportbot/core"
	"supportbot/models"
)

type MockModerationActionsRepository struct {
	mock.Mock
}

func (m *MockModerationActionsRepository) CreateModerationAction(
	ctx context.Context,
	action *models.ModerationAction,
) (bool, error) {
	args := m.Called(ctx, action)
	return args.Bool(0), args.Error(1)
}

func (m *MockModerationActionsRepository) GetModerationActionsByTarget(
	ctx context.Context,
	guildID, targetID string,
) ([]*models.ModerationAction, error) {
	args := m.Called(ctx, guildID, targetID)
	return args.Get(0).([]*models.ModerationAction), args.Error(1)
}

func TestModerationService_RecordAction(t *testing.T) {
	ctx := context.Background()

	t.Run("assigns an ID and stores", func(t *testing.T) {
		repo := &MockModerationActionsRepository{}
		repo.On("CreateModerationAction", ctx, mock.Anything).Return(true, nil)

		action := &models.ModerationAction{Kind: models.ModerationKindBan, AuditEntryID: "1", HappenedAt: time.Now()}
		created, err := NewModerationService(repo).RecordAction(ctx, action)
		require.NoError(t, err)
		assert.True(t, created)
		assert.True(t, core.IsValidULID(action.ID))
	})

	t.Run("duplicate delivery is not an error", func(t *testing.T) {
		repo := &MockModerationActionsRepository{}
		repo.On("CreateModerationAction", ctx, mock.Anything).Return(false, nil)

		action := &models.ModerationAction{Kind: models.ModerationKindKick, AuditEntryID: "1", HappenedAt: time.Now()}
		created, err := NewModerationService(repo).RecordAction(ctx, action)
		require.NoError(t, err)
		assert.False(t, created)
	})

	t.Run("timeout requires end time", func(t *testing.T) {
		repo := &MockModerationActionsRepository{}

		action := &models.ModerationAction{Kind: models.ModerationKindTimeout, AuditEntryID: "1", HappenedAt: time.Now()}
		_, err := NewModerationService(repo).RecordAction(ctx, action)
		assert.Error(t, err)
		repo.AssertNotCalled(t, "CreateModerationAction", mock.Anything, mock.Anything)
	})
}
