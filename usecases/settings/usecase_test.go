package settings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"supportbot/clients"
	discordclient "supportbot/clients/discord"
	"supportbot/core"
	"supportbot/models"
	"supportbot/router"
	"supportbot/services/categories"
	"supportbot/services/forms"
	"supportbot/services/guildconfigs"
	"supportbot/sessions"
	"supportbot/usecases"
)

const (
	testGuildID   = "guild-1"
	testUserID    = "user-1"
	testAdminRole = "role-admin"
	testStaffRole = "role-staff"
)

type settingsUseCaseTestFixture struct {
	useCase       *SettingsUseCase
	discordClient *discordclient.MockDiscordClient
	guildConfigs  *guildconfigs.MockGuildConfigsService
	categories    *categories.MockCategoriesService
	forms         *forms.MockFormsService
	store         *sessions.Store
	ctx           context.Context
}

func setupSettingsUseCaseTest(t *testing.T) *settingsUseCaseTestFixture {
	discordClient := new(discordclient.MockDiscordClient)
	guildConfigs := new(guildconfigs.MockGuildConfigsService)
	categoriesService := new(categories.MockCategoriesService)
	formsService := new(forms.MockFormsService)
	store := sessions.NewStore(time.Minute)
	t.Cleanup(store.Close)

	return &settingsUseCaseTestFixture{
		useCase:       NewSettingsUseCase(discordClient, guildConfigs, categoriesService, formsService, store),
		discordClient: discordClient,
		guildConfigs:  guildConfigs,
		categories:    categoriesService,
		forms:         formsService,
		store:         store,
		ctx:           context.Background(),
	}
}

func (f *settingsUseCaseTestFixture) assertAllExpectations(t *testing.T) {
	f.discordClient.AssertExpectations(t)
	f.guildConfigs.AssertExpectations(t)
	f.categories.AssertExpectations(t)
	f.forms.AssertExpectations(t)
}

func (f *settingsUseCaseTestFixture) captureMessage(method string) *clients.Message {
	captured := &clients.Message{}
	f.discordClient.On(method, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { *captured = args.Get(2).(clients.Message) }).
		Return(nil).Once()
	return captured
}

// configured registers a stored config for the test guild and returns it for tweaking
func (f *settingsUseCaseTestFixture) configured() *models.GuildConfig {
	config := &models.GuildConfig{GuildID: testGuildID, AdminRoleID: testAdminRole, StaffRoleID: testStaffRole}
	f.guildConfigs.On("GetGuildConfig", mock.Anything, testGuildID).Return(mo.Some(config), nil)
	return config
}

func settingsCommand(options map[string]string, path ...string) *models.Interaction {
	return &models.Interaction{
		Type:          models.InteractionTypeCommand,
		GuildID:       testGuildID,
		UserID:        testUserID,
		MemberRoleIDs: []string{testAdminRole},
		CommandPath:   append([]string{router.CommandSettings}, path...),
		Options:       options,
	}
}

func TestHandleSettingsCommandAccess(t *testing.T) {
	t.Run("guild not set up", func(t *testing.T) {
		f := setupSettingsUseCaseTest(t)
		f.guildConfigs.On("GetGuildConfig", mock.Anything, testGuildID).Return(mo.None[*models.GuildConfig](), nil)
		reply := f.captureMessage("RespondMessage")

		require.NoError(t, f.useCase.HandleSettingsCommand(f.ctx, settingsCommand(nil, SubcommandGet)))

		assert.Equal(t, usecases.NotSetUpMessage, reply.Content)
		assert.True(t, reply.Ephemeral)
		f.assertAllExpectations(t)
	})

	t.Run("staff member is not an admin", func(t *testing.T) {
		f := setupSettingsUseCaseTest(t)
		f.configured()
		reply := f.captureMessage("RespondMessage")
		it := settingsCommand(nil, SubcommandGet)
		it.MemberRoleIDs = []string{testStaffRole}

		require.NoError(t, f.useCase.HandleSettingsCommand(f.ctx, it))

		assert.Equal(t, usecases.NotAdminMessage, reply.Content)
		f.assertAllExpectations(t)
	})

	t.Run("administrator permission without the admin role", func(t *testing.T) {
		f := setupSettingsUseCaseTest(t)
		f.configured()
		reply := f.captureMessage("RespondMessage")
		it := settingsCommand(nil, SubcommandGet)
		it.MemberRoleIDs = nil
		it.MemberPermissions = int64(clients.PermissionAdministrator)

		require.NoError(t, f.useCase.HandleSettingsCommand(f.ctx, it))

		assert.Contains(t, reply.Content, "**ticket_channel**: not set")
		f.assertAllExpectations(t)
	})

	t.Run("config lookup fails", func(t *testing.T) {
		f := setupSettingsUseCaseTest(t)
		f.guildConfigs.On("GetGuildConfig", mock.Anything, testGuildID).
			Return(mo.None[*models.GuildConfig](), errors.New("db down"))

		err := f.useCase.HandleSettingsCommand(f.ctx, settingsCommand(nil, SubcommandGet))

		require.Error(t, err)
		assert.NotErrorIs(t, err, core.ErrProtocol)
		f.assertAllExpectations(t)
	})

	t.Run("unknown subcommand is a protocol error", func(t *testing.T) {
		f := setupSettingsUseCaseTest(t)
		f.configured()

		err := f.useCase.HandleSettingsCommand(f.ctx, settingsCommand(nil, GroupCategory, "rename"))

		assert.ErrorIs(t, err, core.ErrProtocol)
		f.assertAllExpectations(t)
	})
}
