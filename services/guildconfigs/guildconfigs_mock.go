package guildconfigs

import (
	"context"

	"github.com/samber/mo"
	"github.com/stretchr/testify/mock"

	"supportbot/models"
)

// MockGuildConfigsService is a mock implementation of the GuildConfigsService interface
type MockGuildConfigsService struct {
	mock.Mock
}

func (m *MockGuildConfigsService) CreateGuildConfig(
	ctx context.Context,
	guildID, adminRoleID, staffRoleID string,
) (*models.GuildConfig, error) {
	args := m.Called(ctx, guildID, adminRoleID, staffRoleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GuildConfig), args.Error(1)
}

func (m *MockGuildConfigsService) GetGuildConfig(
	ctx context.Context,
	guildID string,
) (mo.Option[*models.GuildConfig], error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return mo.None[*models.GuildConfig](), args.Error(1)
	}
	return args.Get(0).(mo.Option[*models.GuildConfig]), args.Error(1)
}

func (m *MockGuildConfigsService) SetChannelSetting(
	ctx context.Context,
	guildID string,
	setting models.GuildSetting,
	channelID *string,
) error {
	args := m.Called(ctx, guildID, setting, channelID)
	return args.Error(0)
}

func (m *MockGuildConfigsService) SetTicketMessage(ctx context.Context, guildID, channelID, messageID string) error {
	args := m.Called(ctx, guildID, channelID, messageID)
	return args.Error(0)
}

func (m *MockGuildConfigsService) ClearTicketMessage(ctx context.Context, guildID string) error {
	args := m.Called(ctx, guildID)
	return args.Error(0)
}

func (m *MockGuildConfigsService) SetDefaultForm(
	ctx context.Context,
	guildID string,
	category models.BuiltInCategory,
	formID string,
) error {
	args := m.Called(ctx, guildID, category, formID)
	return args.Error(0)
}
