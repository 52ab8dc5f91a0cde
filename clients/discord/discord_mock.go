package discord

import (
	"context"

	"github.com/stretchr/testify/mock"

	"supportbot/clients"
	"supportbot/models"
)

// MockDiscordClient implements the clients.DiscordClient interface for testing
type MockDiscordClient struct {
	mock.Mock
}

func (m *MockDiscordClient) RespondMessage(
	ctx context.Context,
	interaction *models.Interaction,
	message clients.Message,
) error {
	args := m.Called(ctx, interaction, message)
	return args.Error(0)
}

// DeferMessage marks the interaction deferred on success, like the real client
func (m *MockDiscordClient) DeferMessage(ctx context.Context, interaction *models.Interaction, ephemeral bool) error {
	args := m.Called(ctx, interaction, ephemeral)
	if args.Error(0) == nil {
		interaction.Deferred = true
	}
	return args.Error(0)
}

func (m *MockDiscordClient) RespondUpdate(
	ctx context.Context,
	interaction *models.Interaction,
	message clients.Message,
) error {
	args := m.Called(ctx, interaction, message)
	return args.Error(0)
}

func (m *MockDiscordClient) RespondModal(ctx context.Context, interaction *models.Interaction, modal clients.Modal) error {
	args := m.Called(ctx, interaction, modal)
	return args.Error(0)
}

func (m *MockDiscordClient) SendMessage(
	ctx context.Context,
	channelID string,
	message clients.Message,
) (*clients.PostedMessage, error) {
	args := m.Called(ctx, channelID, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*clients.PostedMessage), args.Error(1)
}

func (m *MockDiscordClient) UpdateMessage(
	ctx context.Context,
	channelID, messageID string,
	message clients.Message,
) error {
	args := m.Called(ctx, channelID, messageID, message)
	return args.Error(0)
}

func (m *MockDiscordClient) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	args := m.Called(ctx, channelID, messageID)
	return args.Error(0)
}

func (m *MockDiscordClient) SendDirectMessage(
	ctx context.Context,
	userID string,
	message clients.Message,
) (*clients.PostedMessage, error) {
	args := m.Called(ctx, userID, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*clients.PostedMessage), args.Error(1)
}

func (m *MockDiscordClient) CreateForumThread(
	ctx context.Context,
	channelID, name string,
	starter clients.Message,
) (*clients.Thread, error) {
	args := m.Called(ctx, channelID, name, starter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*clients.Thread), args.Error(1)
}

func (m *MockDiscordClient) LockThread(ctx context.Context, threadID string) error {
	args := m.Called(ctx, threadID)
	return args.Error(0)
}

func (m *MockDiscordClient) ResolveInvite(ctx context.Context, code string) (*clients.Invite, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*clients.Invite), args.Error(1)
}

func (m *MockDiscordClient) BotChannelPermissions(ctx context.Context, channelID string) (clients.Permissions, error) {
	args := m.Called(ctx, channelID)
	return args.Get(0).(clients.Permissions), args.Error(1)
}
