package moderation

import (
	"context"
	"fmt"

	"supportbot/core"
	"supportbot/core/log"
	"supportbot/models"
)

type ModerationActionsRepository interface {
	CreateModerationAction(ctx context.Context, action *models.ModerationAction) (bool, error)
	GetModerationActionsByTarget(ctx context.Context, guildID, targetID string) ([]*models.ModerationAction, error)
}

type ModerationService struct {
	repo ModerationActionsRepository
}

func NewModerationService(repo ModerationActionsRepository) *ModerationService {
	return &ModerationService{repo: repo}
}

// RecordAction stores a moderation record. It reports false when the audit entry had already
// been recorded, which happens on gateway redelivery.
func (s *ModerationService) RecordAction(ctx context.Context, action *models.ModerationAction) (bool, error) {
	if action.AuditEntryID == "" {
		return false, fmt.Errorf("audit entry ID cannot be empty")
	}
	if action.HappenedAt.IsZero() {
		return false, fmt.Errorf("moderation action must carry a timestamp")
	}
	if action.Kind == models.ModerationKindTimeout && action.Until == nil {
		return false, fmt.Errorf("timeout must carry an end time")
	}
	if action.ID == "" {
		action.ID = core.NewID("mod")
	}

	created, err := s.repo.CreateModerationAction(ctx, action)
	if err != nil {
		return false, fmt.Errorf("failed to record moderation action: %w", err)
	}
	if !created {
		log.Info("📋 Moderation action already recorded, ignoring", "audit_entry_id", action.AuditEntryID)
		return false, nil
	}

	log.Info("📋 Recorded moderation action",
		"kind", string(action.Kind),
		"guild_id", action.GuildID,
		"audit_entry_id", action.AuditEntryID,
	)
	return true, nil
}

func (s *ModerationService) GetHistory(
	ctx context.Context,
	guildID, targetID string,
) ([]*models.ModerationAction, error) {
	actions, err := s.repo.GetModerationActionsByTarget(ctx, guildID, targetID)
	if err != nil {
		return nil, fmt.Errorf("failed to get moderation history: %w", err)
	}
	return actions, nil
}
