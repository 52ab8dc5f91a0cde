package audit

import (
	"context"
	"fmt"
	"time"

	"supportbot/clients"
	"supportbot/core"
	"supportbot/core/log"
	"supportbot/models"
	"supportbot/services"
)

// Audit log action types delivered by the gateway
const (
	ActionMemberKick                  = 20
	ActionMemberBanAdd                = 22
	ActionMemberUpdate                = 24
	ActionAutomodBlockMessage         = 143
	ActionAutomodFlagToChannel        = 144
	ActionAutomodDisableCommunication = 145
)

// ChangeCommunicationDisabledUntil is the member update change key that carries a timeout end
const ChangeCommunicationDisabledUntil = "communication_disabled_until"

// Automod actions as stored on moderation records
const (
	AutomodActionBlockMessage  = "block_message"
	AutomodActionFlagToChannel = "flag_to_channel"
	AutomodActionTimeout       = "timeout"
)

// AuditUseCase turns moderation audit log entries into moderation records
type AuditUseCase struct {
	discordClient       clients.DiscordClient
	guildConfigsService services.GuildConfigsService
	moderationService   services.ModerationService
	now                 func() time.Time
}

func NewAuditUseCase(
	discordClient clients.DiscordClient,
	guildConfigsService services.GuildConfigsService,
	moderationService services.ModerationService,
) *AuditUseCase {
	return &AuditUseCase{
		discordClient:       discordClient,
		guildConfigsService: guildConfigsService,
		moderationService:   moderationService,
		now:                 time.Now,
	}
}

// HandleAuditEvent records one audit entry. Entries of other types, timeout removals and
// entries of unconfigured guilds are skipped. A timestamp that cannot be decoded fails with
// core.ErrInvalidTimestamp.
func (u *AuditUseCase) HandleAuditEvent(ctx context.Context, event *models.AuditEvent) error {
	action, ok, err := u.toModerationAction(event)
	if err != nil {
		return fmt.Errorf("failed to decode audit entry %s: %w", event.EntryID, err)
	}
	if !ok {
		log.Debug("🔍 Ignoring audit entry", "guild_id", event.GuildID, "action_type", event.ActionType)
		return nil
	}

	maybeConfig, err := u.guildConfigsService.GetGuildConfig(ctx, event.GuildID)
	if err != nil {
		return fmt.Errorf("failed to get guild config: %w", err)
	}
	config, ok := maybeConfig.Get()
	if !ok {
		log.Debug("🔍 Skipping audit entry of unconfigured guild", "guild_id", event.GuildID)
		return nil
	}

	log.Info("📋 Starting to record moderation action", "guild_id", event.GuildID, "kind", string(action.Kind),
		"audit_entry_id", event.EntryID)
	created, err := u.moderationService.RecordAction(ctx, action)
	if err != nil {
		return fmt.Errorf("failed to record moderation action: %w", err)
	}
	if !created {
		return nil
	}

	if action.Reason == "" && action.Kind != models.ModerationKindAutomod && config.MissingReasonChannelID != nil {
		if err := u.notifyMissingReason(ctx, *config.MissingReasonChannelID, action); err != nil {
			return err
		}
	}

	log.Info("📋 Completed successfully - recorded moderation action", "guild_id", event.GuildID,
		"audit_entry_id", event.EntryID)
	return nil
}

// toModerationAction reports false for entries that are not moderation actions
func (u *AuditUseCase) toModerationAction(event *models.AuditEvent) (*models.ModerationAction, bool, error) {
	action := &models.ModerationAction{
		GuildID:      event.GuildID,
		AuditEntryID: event.EntryID,
		ActorID:      event.ActorID,
		TargetID:     event.TargetID,
		Reason:       event.Reason,
	}

	switch event.ActionType {
	case ActionMemberBanAdd:
		action.Kind = models.ModerationKindBan
	case ActionMemberKick:
		action.Kind = models.ModerationKindKick
	case ActionMemberUpdate:
		until, ok, err := timeoutEnd(event.Changes)
		if err != nil || !ok {
			return nil, false, err
		}
		action.Kind = models.ModerationKindTimeout
		action.Until = &until
	case ActionAutomodBlockMessage, ActionAutomodFlagToChannel, ActionAutomodDisableCommunication:
		action.Kind = models.ModerationKindAutomod
		automodAction := automodActionName(event.ActionType)
		action.AutomodAction = &automodAction
		if event.AutomodRuleName != "" {
			ruleName := event.AutomodRuleName
			action.RuleName = &ruleName
		}
	default:
		return nil, false, nil
	}

	happenedAt, err := core.SnowflakeTime(event.EntryID, u.now())
	if err != nil {
		return nil, false, err
	}
	action.HappenedAt = happenedAt
	return action, true, nil
}

// timeoutEnd extracts the new timeout end of a member update. A cleared timeout or a member
// update without one reports false.
func timeoutEnd(changes map[string]any) (time.Time, bool, error) {
	raw, ok := changes[ChangeCommunicationDisabledUntil]
	if !ok || raw == nil {
		return time.Time{}, false, nil
	}

	value, ok := raw.(string)
	if !ok {
		return time.Time{}, false, fmt.Errorf("%w: %s has type %T", core.ErrInvalidTimestamp, ChangeCommunicationDisabledUntil, raw)
	}
	if value == "" {
		return time.Time{}, false, nil
	}

	until, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("%w: %s %q: %v", core.ErrInvalidTimestamp, ChangeCommunicationDisabledUntil, value, err)
	}
	return until.UTC(), true, nil
}

func automodActionName(actionType int) string {
	switch actionType {
	case ActionAutomodBlockMessage:
		return AutomodActionBlockMessage
	case ActionAutomodFlagToChannel:
		return AutomodActionFlagToChannel
	}
	return AutomodActionTimeout
}

func (u *AuditUseCase) notifyMissingReason(ctx context.Context, channelID string, action *models.ModerationAction) error {
	content := fmt.Sprintf("⚠️ <@%s> issued a %s to <@%s> without a reason.", action.ActorID, action.Kind, action.TargetID)
	if action.Until != nil {
		content += fmt.Sprintf(" The timeout ends <t:%d:f>.", action.Until.Unix())
	}

	if _, err := u.discordClient.SendMessage(ctx, channelID, clients.Message{Content: content}); err != nil {
		return fmt.Errorf("failed to send missing reason notification: %w", err)
	}
	log.Info("📋 Sent missing reason notification", "guild_id", action.GuildID, "audit_entry_id", action.AuditEntryID)
	return nil
}
