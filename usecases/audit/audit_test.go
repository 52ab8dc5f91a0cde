package audit

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
	"supportbot/services/guildconfigs"
	"supportbot/services/moderation"
)

const (
	testGuildID = "guild-1"
	testActorID = "mod-1"
	testTarget  = "member-1"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type auditUseCaseTestFixture struct {
	useCase       *AuditUseCase
	discordClient *discordclient.MockDiscordClient
	guildConfigs  *guildconfigs.MockGuildConfigsService
	moderation    *moderation.MockModerationService
	ctx           context.Context
}

func setupAuditUseCaseTest(t *testing.T) *auditUseCaseTestFixture {
	discordClient := new(discordclient.MockDiscordClient)
	guildConfigs := new(guildconfigs.MockGuildConfigsService)
	moderationService := new(moderation.MockModerationService)

	useCase := NewAuditUseCase(discordClient, guildConfigs, moderationService)
	useCase.now = func() time.Time { return testNow }

	return &auditUseCaseTestFixture{
		useCase:       useCase,
		discordClient: discordClient,
		guildConfigs:  guildConfigs,
		moderation:    moderationService,
		ctx:           context.Background(),
	}
}

func (f *auditUseCaseTestFixture) assertAllExpectations(t *testing.T) {
	f.discordClient.AssertExpectations(t)
	f.guildConfigs.AssertExpectations(t)
	f.moderation.AssertExpectations(t)
}

func (f *auditUseCaseTestFixture) configured(missingReasonChannel *string) {
	config := &models.GuildConfig{GuildID: testGuildID, MissingReasonChannelID: missingReasonChannel}
	f.guildConfigs.On("GetGuildConfig", mock.Anything, testGuildID).Return(mo.Some(config), nil)
}

// captureRecord expects one RecordAction call and returns the recorded action
func (f *auditUseCaseTestFixture) captureRecord(created bool) **models.ModerationAction {
	var recorded *models.ModerationAction
	f.moderation.On("RecordAction", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { recorded = args.Get(1).(*models.ModerationAction) }).
		Return(created, nil).Once()
	return &recorded
}

var entryTime = testNow.Add(-time.Minute)

func event(actionType int, reason string) *models.AuditEvent {
	return &models.AuditEvent{
		EntryID:    core.FormatSnowflake(entryTime, 7),
		GuildID:    testGuildID,
		ActionType: actionType,
		ActorID:    testActorID,
		TargetID:   testTarget,
		Reason:     reason,
	}
}

func strPtr(s string) *string { return &s }

func TestHandleAuditEvent(t *testing.T) {
	t.Run("ban with reason", func(t *testing.T) {
		f := setupAuditUseCaseTest(t)
		f.configured(strPtr("chan-mr"))
		recorded := f.captureRecord(true)

		require.NoError(t, f.useCase.HandleAuditEvent(f.ctx, event(ActionMemberBanAdd, "spam")))

		action := *recorded
		assert.Equal(t, models.ModerationKindBan, action.Kind)
		assert.Equal(t, testActorID, action.ActorID)
		assert.Equal(t, testTarget, action.TargetID)
		assert.Equal(t, "spam", action.Reason)
		assert.Equal(t, entryTime.UnixMilli(), action.HappenedAt.UnixMilli())
		f.discordClient.AssertNotCalled(t, "SendMessage", mock.Anything, mock.Anything, mock.Anything)
		f.assertAllExpectations(t)
	})

	t.Run("kick without reason notifies once", func(t *testing.T) {
		f := setupAuditUseCaseTest(t)
		f.configured(strPtr("chan-mr"))
		recorded := f.captureRecord(true)
		var notification clients.Message
		f.discordClient.On("SendMessage", mock.Anything, "chan-mr", mock.Anything).
			Run(func(args mock.Arguments) { notification = args.Get(2).(clients.Message) }).
			Return(&clients.PostedMessage{ChannelID: "chan-mr", MessageID: "m1"}, nil).Once()

		require.NoError(t, f.useCase.HandleAuditEvent(f.ctx, event(ActionMemberKick, "")))

		assert.Equal(t, models.ModerationKindKick, (*recorded).Kind)
		assert.Equal(t, "⚠️ <@mod-1> issued a kick to <@member-1> without a reason.", notification.Content)
		f.assertAllExpectations(t)
	})

	t.Run("redelivered entry is not recorded or notified again", func(t *testing.T) {
		f := setupAuditUseCaseTest(t)
		f.configured(strPtr("chan-mr"))
		f.captureRecord(false)

		require.NoError(t, f.useCase.HandleAuditEvent(f.ctx, event(ActionMemberKick, "")))

		f.discordClient.AssertNotCalled(t, "SendMessage", mock.Anything, mock.Anything, mock.Anything)
		f.assertAllExpectations(t)
	})

	t.Run("missing reason without a channel configured", func(t *testing.T) {
		f := setupAuditUseCaseTest(t)
		f.configured(nil)
		f.captureRecord(true)

		require.NoError(t, f.useCase.HandleAuditEvent(f.ctx, event(ActionMemberBanAdd, "")))

		f.discordClient.AssertNotCalled(t, "SendMessage", mock.Anything, mock.Anything, mock.Anything)
		f.assertAllExpectations(t)
	})

	t.Run("timeout carries its end", func(t *testing.T) {
		f := setupAuditUseCaseTest(t)
		f.configured(nil)
		recorded := f.captureRecord(true)
		ev := event(ActionMemberUpdate, "cool down")
		ev.Changes = map[string]any{ChangeCommunicationDisabledUntil: "2026-03-01T13:00:00+00:00"}

		require.NoError(t, f.useCase.HandleAuditEvent(f.ctx, ev))

		action := *recorded
		assert.Equal(t, models.ModerationKindTimeout, action.Kind)
		require.NotNil(t, action.Until)
		assert.True(t, action.Until.Equal(time.Date(2026, 3, 1, 13, 0, 0, 0, time.UTC)))
		f.assertAllExpectations(t)
	})

	t.Run("member update without a timeout is ignored", func(t *testing.T) {
		f := setupAuditUseCaseTest(t)
		ev := event(ActionMemberUpdate, "")
		ev.Changes = map[string]any{"nick": "new name"}

		require.NoError(t, f.useCase.HandleAuditEvent(f.ctx, ev))

		f.assertAllExpectations(t)
	})

	t.Run("cleared timeout is ignored", func(t *testing.T) {
		f := setupAuditUseCaseTest(t)
		ev := event(ActionMemberUpdate, "")
		ev.Changes = map[string]any{ChangeCommunicationDisabledUntil: nil}

		require.NoError(t, f.useCase.HandleAuditEvent(f.ctx, ev))

		f.assertAllExpectations(t)
	})

	t.Run("automod entries record the action and rule without notifying", func(t *testing.T) {
		for actionType, automodAction := range map[int]string{
			ActionAutomodBlockMessage:         AutomodActionBlockMessage,
			ActionAutomodFlagToChannel:        AutomodActionFlagToChannel,
			ActionAutomodDisableCommunication: AutomodActionTimeout,
		} {
			f := setupAuditUseCaseTest(t)
			f.configured(strPtr("chan-mr"))
			recorded := f.captureRecord(true)
			ev := event(actionType, "")
			ev.AutomodRuleName = "No invites"

			require.NoError(t, f.useCase.HandleAuditEvent(f.ctx, ev))

			action := *recorded
			assert.Equal(t, models.ModerationKindAutomod, action.Kind)
			require.NotNil(t, action.AutomodAction)
			assert.Equal(t, automodAction, *action.AutomodAction)
			require.NotNil(t, action.RuleName)
			assert.Equal(t, "No invites", *action.RuleName)
			f.discordClient.AssertNotCalled(t, "SendMessage", mock.Anything, mock.Anything, mock.Anything)
			f.assertAllExpectations(t)
		}
	})

	t.Run("unconfigured guild is skipped", func(t *testing.T) {
		f := setupAuditUseCaseTest(t)
		f.guildConfigs.On("GetGuildConfig", mock.Anything, testGuildID).Return(mo.None[*models.GuildConfig](), nil)

		require.NoError(t, f.useCase.HandleAuditEvent(f.ctx, event(ActionMemberBanAdd, "")))

		f.moderation.AssertNotCalled(t, "RecordAction", mock.Anything, mock.Anything)
		f.assertAllExpectations(t)
	})

	t.Run("other action types are ignored", func(t *testing.T) {
		f := setupAuditUseCaseTest(t)

		require.NoError(t, f.useCase.HandleAuditEvent(f.ctx, event(1, "")))

		f.assertAllExpectations(t)
	})

	t.Run("unparseable entry id is a hard failure", func(t *testing.T) {
		f := setupAuditUseCaseTest(t)
		ev := event(ActionMemberBanAdd, "")
		ev.EntryID = "not-a-snowflake"

		err := f.useCase.HandleAuditEvent(f.ctx, ev)

		assert.ErrorIs(t, err, core.ErrInvalidTimestamp)
		f.moderation.AssertNotCalled(t, "RecordAction", mock.Anything, mock.Anything)
		f.assertAllExpectations(t)
	})

	t.Run("entry id far in the future is a hard failure", func(t *testing.T) {
		f := setupAuditUseCaseTest(t)
		ev := event(ActionMemberKick, "")
		ev.EntryID = core.FormatSnowflake(testNow.Add(72*time.Hour), 1)

		assert.ErrorIs(t, f.useCase.HandleAuditEvent(f.ctx, ev), core.ErrInvalidTimestamp)
		f.assertAllExpectations(t)
	})

	t.Run("malformed timeout end is a hard failure", func(t *testing.T) {
		f := setupAuditUseCaseTest(t)
		ev := event(ActionMemberUpdate, "")
		ev.Changes = map[string]any{ChangeCommunicationDisabledUntil: "tomorrow"}

		assert.ErrorIs(t, f.useCase.HandleAuditEvent(f.ctx, ev), core.ErrInvalidTimestamp)
		f.assertAllExpectations(t)
	})

	t.Run("record failure", func(t *testing.T) {
		f := setupAuditUseCaseTest(t)
		f.configured(nil)
		f.moderation.On("RecordAction", mock.Anything, mock.Anything).Return(false, errors.New("db down"))

		require.Error(t, f.useCase.HandleAuditEvent(f.ctx, event(ActionMemberBanAdd, "x")))

		f.assertAllExpectations(t)
	})

	t.Run("notification failure is reported", func(t *testing.T) {
		f := setupAuditUseCaseTest(t)
		f.configured(strPtr("chan-mr"))
		f.captureRecord(true)
		f.discordClient.On("SendMessage", mock.Anything, "chan-mr", mock.Anything).Return(nil, errors.New("missing access"))

		require.Error(t, f.useCase.HandleAuditEvent(f.ctx, event(ActionMemberBanAdd, "")))

		f.assertAllExpectations(t)
	})
}
