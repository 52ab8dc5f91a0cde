package setup

import (
	"context"
	"errors"
	"fmt"
	"sync"
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

type setupUseCaseTestFixture struct {
	useCase       *SetupUseCase
	discordClient *discordclient.MockDiscordClient
	guildConfigs  *guildconfigs.MockGuildConfigsService
	store         *sessions.Store
	ctx           context.Context
}

func setupSetupUseCaseTest(t *testing.T) *setupUseCaseTestFixture {
	discordClient := new(discordclient.MockDiscordClient)
	guildConfigs := new(guildconfigs.MockGuildConfigsService)
	store := sessions.NewStore(time.Minute)
	t.Cleanup(store.Close)

	return &setupUseCaseTestFixture{
		useCase:       NewSetupUseCase(discordClient, guildConfigs, store),
		discordClient: discordClient,
		guildConfigs:  guildConfigs,
		store:         store,
		ctx:           context.Background(),
	}
}

func (f *setupUseCaseTestFixture) assertAllExpectations(t *testing.T) {
	f.discordClient.AssertExpectations(t)
	f.guildConfigs.AssertExpectations(t)
}

func (f *setupUseCaseTestFixture) captureMessage(method string) *clients.Message {
	captured := &clients.Message{}
	f.discordClient.On(method, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { *captured = args.Get(2).(clients.Message) }).
		Return(nil)
	return captured
}

func interaction(customID string, values ...string) *models.Interaction {
	return &models.Interaction{
		Type:     models.InteractionTypeComponent,
		GuildID:  testGuildID,
		UserID:   testUserID,
		CustomID: customID,
		Values:   values,
	}
}

func adminCommand() *models.Interaction {
	return &models.Interaction{
		Type:              models.InteractionTypeCommand,
		GuildID:           testGuildID,
		UserID:            testUserID,
		MemberPermissions: int64(clients.PermissionAdministrator),
		CommandPath:       []string{router.CommandSetup},
	}
}

func confirmButton(message *clients.Message) clients.Button {
	return message.Rows[2].Components[0].(clients.Button)
}

func TestStartSetup(t *testing.T) {
	t.Run("prompts for roles with confirm disabled", func(t *testing.T) {
		f := setupSetupUseCaseTest(t)
		f.guildConfigs.On("GetGuildConfig", mock.Anything, testGuildID).Return(mo.None[*models.GuildConfig](), nil)
		reply := f.captureMessage("RespondMessage")

		require.NoError(t, f.useCase.StartSetup(f.ctx, adminCommand()))

		assert.Equal(t, 1, f.store.Setup.Len())
		require.Len(t, reply.Rows, 3)
		assert.True(t, confirmButton(reply).Disabled)
		assert.True(t, reply.Ephemeral)
		f.assertAllExpectations(t)
	})

	t.Run("already configured", func(t *testing.T) {
		f := setupSetupUseCaseTest(t)
		f.guildConfigs.On("GetGuildConfig", mock.Anything, testGuildID).
			Return(mo.Some(&models.GuildConfig{GuildID: testGuildID}), nil)
		reply := f.captureMessage("RespondMessage")

		require.NoError(t, f.useCase.StartSetup(f.ctx, adminCommand()))

		assert.Equal(t, alreadySetUpMessage, reply.Content)
		assert.Equal(t, 0, f.store.Setup.Len())
		f.assertAllExpectations(t)
	})

	t.Run("requires administrator", func(t *testing.T) {
		f := setupSetupUseCaseTest(t)
		reply := f.captureMessage("RespondMessage")
		it := adminCommand()
		it.MemberPermissions = 0

		require.NoError(t, f.useCase.StartSetup(f.ctx, it))

		assert.Equal(t, usecases.NotAdminMessage, reply.Content)
		f.assertAllExpectations(t)
	})
}

func TestSelectRoles_EnablesConfirmOnceBothSet(t *testing.T) {
	f := setupSetupUseCaseTest(t)
	require.NoError(t, f.store.Setup.Create("s_1", sessions.SetupSession{GuildID: testGuildID}))
	var rendered []clients.Message
	f.discordClient.On("RespondUpdate", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { rendered = append(rendered, args.Get(2).(clients.Message)) }).
		Return(nil)

	require.NoError(t, f.useCase.SelectAdminRole(f.ctx, interaction(router.SetupID("s_1", router.ActionAdminRole), testAdminRole), "s_1"))
	require.NoError(t, f.useCase.SelectStaffRole(f.ctx, interaction(router.SetupID("s_1", router.ActionStaffRole), testStaffRole), "s_1"))

	require.Len(t, rendered, 2)
	assert.True(t, confirmButton(&rendered[0]).Disabled)
	assert.Equal(t, testAdminRole, rendered[0].Rows[0].Components[0].(clients.RoleSelect).DefaultRoleID)
	assert.False(t, confirmButton(&rendered[1]).Disabled)
	assert.Equal(t, testStaffRole, rendered[1].Rows[1].Components[0].(clients.RoleSelect).DefaultRoleID)
	f.assertAllExpectations(t)
}

func TestSelectRole_Expired(t *testing.T) {
	f := setupSetupUseCaseTest(t)
	reply := f.captureMessage("RespondUpdate")

	require.NoError(t, f.useCase.SelectAdminRole(f.ctx, interaction(router.SetupID("s_1", router.ActionAdminRole), testAdminRole), "s_1"))

	assert.Equal(t, usecases.ExpiredMessage, reply.Content)
	assert.True(t, reply.ClearRows)
	f.assertAllExpectations(t)
}

func TestConfirmSetup(t *testing.T) {
	t.Run("only admin role selected keeps the session", func(t *testing.T) {
		f := setupSetupUseCaseTest(t)
		require.NoError(t, f.store.Setup.Create("s_1", sessions.SetupSession{GuildID: testGuildID, AdminRoleID: testAdminRole}))
		reply := f.captureMessage("RespondMessage")

		require.NoError(t, f.useCase.ConfirmSetup(f.ctx, interaction(router.SetupID("s_1", router.ActionConfirm)), "s_1"))

		assert.Equal(t, bothRolesMessage, reply.Content)
		assert.True(t, f.store.Setup.Get("s_1").IsPresent())
		f.guildConfigs.AssertNotCalled(t, "CreateGuildConfig", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		f.assertAllExpectations(t)
	})

	t.Run("creates the guild config", func(t *testing.T) {
		f := setupSetupUseCaseTest(t)
		require.NoError(t, f.store.Setup.Create("s_1", sessions.SetupSession{
			GuildID: testGuildID, AdminRoleID: testAdminRole, StaffRoleID: testStaffRole,
		}))
		f.guildConfigs.On("CreateGuildConfig", mock.Anything, testGuildID, testAdminRole, testStaffRole).
			Return(&models.GuildConfig{GuildID: testGuildID}, nil)
		reply := f.captureMessage("RespondUpdate")

		require.NoError(t, f.useCase.ConfirmSetup(f.ctx, interaction(router.SetupID("s_1", router.ActionConfirm)), "s_1"))

		assert.Contains(t, reply.Content, "Setup complete")
		assert.True(t, reply.ClearRows)
		assert.True(t, f.store.Setup.Get("s_1").IsAbsent())
		f.assertAllExpectations(t)
	})

	t.Run("already set up by someone else", func(t *testing.T) {
		f := setupSetupUseCaseTest(t)
		require.NoError(t, f.store.Setup.Create("s_1", sessions.SetupSession{
			GuildID: testGuildID, AdminRoleID: testAdminRole, StaffRoleID: testStaffRole,
		}))
		f.guildConfigs.On("CreateGuildConfig", mock.Anything, testGuildID, testAdminRole, testStaffRole).
			Return(nil, fmt.Errorf("guild already set up: %w", core.ErrConflict))
		reply := f.captureMessage("RespondUpdate")

		require.NoError(t, f.useCase.ConfirmSetup(f.ctx, interaction(router.SetupID("s_1", router.ActionConfirm)), "s_1"))

		assert.Equal(t, alreadySetUpMessage, reply.Content)
		f.assertAllExpectations(t)
	})

	t.Run("database error is internal", func(t *testing.T) {
		f := setupSetupUseCaseTest(t)
		require.NoError(t, f.store.Setup.Create("s_1", sessions.SetupSession{
			GuildID: testGuildID, AdminRoleID: testAdminRole, StaffRoleID: testStaffRole,
		}))
		f.guildConfigs.On("CreateGuildConfig", mock.Anything, testGuildID, testAdminRole, testStaffRole).
			Return(nil, errors.New("connection refused"))

		err := f.useCase.ConfirmSetup(f.ctx, interaction(router.SetupID("s_1", router.ActionConfirm)), "s_1")

		assert.ErrorContains(t, err, "connection refused")
		f.assertAllExpectations(t)
	})
}

func TestConfirmSetup_ConcurrentConfirmsInsertOnce(t *testing.T) {
	f := setupSetupUseCaseTest(t)
	require.NoError(t, f.store.Setup.Create("s_1", sessions.SetupSession{
		GuildID: testGuildID, AdminRoleID: testAdminRole, StaffRoleID: testStaffRole,
	}))
	f.guildConfigs.On("CreateGuildConfig", mock.Anything, testGuildID, testAdminRole, testStaffRole).
		Return(&models.GuildConfig{GuildID: testGuildID}, nil).Once()

	var mu sync.Mutex
	var contents []string
	f.discordClient.On("RespondUpdate", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			mu.Lock()
			defer mu.Unlock()
			contents = append(contents, args.Get(2).(clients.Message).Content)
		}).
		Return(nil)

	var wg sync.WaitGroup
	for range 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			it := interaction(router.SetupID("s_1", router.ActionConfirm))
			assert.NoError(t, f.useCase.ConfirmSetup(f.ctx, it, "s_1"))
		}()
	}
	wg.Wait()

	require.Len(t, contents, 2)
	assert.Contains(t, contents, usecases.ExpiredMessage)
	f.guildConfigs.AssertNumberOfCalls(t, "CreateGuildConfig", 1)
}

func TestCancelSetup(t *testing.T) {
	f := setupSetupUseCaseTest(t)
	require.NoError(t, f.store.Setup.Create("s_1", sessions.SetupSession{GuildID: testGuildID}))
	reply := f.captureMessage("RespondUpdate")

	require.NoError(t, f.useCase.CancelSetup(f.ctx, interaction(router.SetupID("s_1", router.ActionCancel)), "s_1"))

	assert.Equal(t, setupCancelledMessage, reply.Content)
	assert.Equal(t, 0, f.store.Setup.Len())
	f.assertAllExpectations(t)
}
