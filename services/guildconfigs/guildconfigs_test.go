package guildconfigs

import (
	"context"
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"supportbot/core"
	"supportbot/models"
)

type MockGuildConfigsRepository struct {
	mock.Mock
}

func (m *MockGuildConfigsRepository) CreateGuildConfig(ctx context.Context, config *models.GuildConfig) error {
	args := m.Called(ctx, config)
	return args.Error(0)
}

func (m *MockGuildConfigsRepository) GetGuildConfig(
	ctx context.Context,
	guildID string,
) (mo.Option[*models.GuildConfig], error) {
	args := m.Called(ctx, guildID)
	return args.Get(0).(mo.Option[*models.GuildConfig]), args.Error(1)
}

func (m *MockGuildConfigsRepository) SetChannelSetting(
	ctx context.Context,
	guildID string,
	setting models.GuildSetting,
	channelID *string,
) (bool, error) {
	args := m.Called(ctx, guildID, setting, channelID)
	return args.Bool(0), args.Error(1)
}

func (m *MockGuildConfigsRepository) SetTicketMessage(
	ctx context.Context,
	guildID, channelID, messageID string,
) (bool, error) {
	args := m.Called(ctx, guildID, channelID, messageID)
	return args.Bool(0), args.Error(1)
}

func (m *MockGuildConfigsRepository) ClearTicketMessage(ctx context.Context, guildID string) (bool, error) {
	args := m.Called(ctx, guildID)
	return args.Bool(0), args.Error(1)
}

func (m *MockGuildConfigsRepository) SetDefaultForm(
	ctx context.Context,
	guildID string,
	category models.BuiltInCategory,
	formID *string,
) (bool, error) {
	args := m.Called(ctx, guildID, category, formID)
	return args.Bool(0), args.Error(1)
}

func TestGuildConfigsService_CreateGuildConfig_Success(t *testing.T) {
	repo := &MockGuildConfigsRepository{}
	service := NewGuildConfigsService(repo)
	ctx := context.Background()

	repo.On("CreateGuildConfig", ctx, mock.MatchedBy(func(c *models.GuildConfig) bool {
		return c.GuildID == "g1" && c.AdminRoleID == "admin" && c.StaffRoleID == "staff"
	})).Return(nil)

	config, err := service.CreateGuildConfig(ctx, "g1", "admin", "staff")
	require.NoError(t, err)
	assert.Equal(t, "g1", config.GuildID)
	repo.AssertExpectations(t)
}

func TestGuildConfigsService_CreateGuildConfig_AlreadySetUp(t *testing.T) {
	repo := &MockGuildConfigsRepository{}
	service := NewGuildConfigsService(repo)
	ctx := context.Background()

	repo.On("CreateGuildConfig", ctx, mock.Anything).Return(&pq.Error{Code: "23505"})

	config, err := service.CreateGuildConfig(ctx, "g1", "admin", "staff")
	assert.Nil(t, config)
	assert.True(t, core.IsConflictError(err))
}

func TestGuildConfigsService_CreateGuildConfig_OtherError(t *testing.T) {
	repo := &MockGuildConfigsRepository{}
	service := NewGuildConfigsService(repo)
	ctx := context.Background()

	repo.On("CreateGuildConfig", ctx, mock.Anything).Return(errors.New("connection reset"))

	_, err := service.CreateGuildConfig(ctx, "g1", "admin", "staff")
	require.Error(t, err)
	assert.False(t, core.IsConflictError(err))
}

func TestGuildConfigsService_CreateGuildConfig_RequiresBothRoles(t *testing.T) {
	service := NewGuildConfigsService(&MockGuildConfigsRepository{})

	_, err := service.CreateGuildConfig(context.Background(), "g1", "admin", "")
	assert.Error(t, err)
}

func TestGuildConfigsService_SetChannelSetting(t *testing.T) {
	ctx := context.Background()
	channel := "c1"

	t.Run("updates", func(t *testing.T) {
		repo := &MockGuildConfigsRepository{}
		repo.On("SetChannelSetting", ctx, "g1", models.GuildSettingQuestionChannel, &channel).Return(true, nil)

		err := NewGuildConfigsService(repo).SetChannelSetting(ctx, "g1", models.GuildSettingQuestionChannel, &channel)
		assert.NoError(t, err)
	})

	t.Run("unconfigured guild", func(t *testing.T) {
		repo := &MockGuildConfigsRepository{}
		repo.On("SetChannelSetting", ctx, "g1", models.GuildSettingQuestionChannel, (*string)(nil)).Return(false, nil)

		err := NewGuildConfigsService(repo).SetChannelSetting(ctx, "g1", models.GuildSettingQuestionChannel, nil)
		assert.True(t, core.IsNotFoundError(err))
	})

	t.Run("unknown setting never reaches the repository", func(t *testing.T) {
		repo := &MockGuildConfigsRepository{}

		err := NewGuildConfigsService(repo).SetChannelSetting(ctx, "g1", models.GuildSetting("admin_role"), &channel)
		assert.True(t, core.IsProtocolError(err))
		repo.AssertNotCalled(t, "SetChannelSetting", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestGuildConfigsService_ClearTicketMessage(t *testing.T) {
	ctx := context.Background()

	repo := &MockGuildConfigsRepository{}
	repo.On("ClearTicketMessage", ctx, "g1").Return(true, nil)
	repo.On("ClearTicketMessage", ctx, "g2").Return(false, nil)

	assert.NoError(t, NewGuildConfigsService(repo).ClearTicketMessage(ctx, "g1"))
	assert.True(t, core.IsNotFoundError(NewGuildConfigsService(repo).ClearTicketMessage(ctx, "g2")))
	repo.AssertNotCalled(t, "SetChannelSetting", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGuildConfigsService_SetDefaultForm(t *testing.T) {
	ctx := context.Background()
	formID := core.NewID("frm")

	repo := &MockGuildConfigsRepository{}
	repo.On("SetDefaultForm", ctx, "g1", models.BuiltInCategoryComplaint, mock.MatchedBy(func(id *string) bool {
		return id != nil && *id == formID
	})).Return(true, nil)

	err := NewGuildConfigsService(repo).SetDefaultForm(ctx, "g1", models.BuiltInCategoryComplaint, formID)
	assert.NoError(t, err)

	err = NewGuildConfigsService(repo).SetDefaultForm(ctx, "g1", models.BuiltInCategoryComplaint, "not-an-id")
	assert.Error(t, err)
}
