package guildconfigs

import (
	"context"
	"fmt"

	"github.com/samber/mo"

	"supportbot/core"
	"supportbot/core/log"
	"supportbot/db"
	"supportbot/models"
)

// GuildConfigsRepository defines the repository operations the service depends on
type GuildConfigsRepository interface {
	CreateGuildConfig(ctx context.Context, config *models.GuildConfig) error
	GetGuildConfig(ctx context.Context, guildID string) (mo.Option[*models.GuildConfig], error)
	SetChannelSetting(ctx context.Context, guildID string, setting models.GuildSetting, channelID *string) (bool, error)
	SetTicketMessage(ctx context.Context, guildID, channelID, messageID string) (bool, error)
	ClearTicketMessage(ctx context.Context, guildID string) (bool, error)
	SetDefaultForm(ctx context.Context, guildID string, category models.BuiltInCategory, formID *string) (bool, error)
}

type GuildConfigsService struct {
	repo GuildConfigsRepository
}

func NewGuildConfigsService(repo GuildConfigsRepository) *GuildConfigsService {
	return &GuildConfigsService{repo: repo}
}

// CreateGuildConfig stores the initial configuration of a guild. A guild that is already set up
// yields an error wrapping core.ErrConflict.
func (s *GuildConfigsService) CreateGuildConfig(
	ctx context.Context,
	guildID, adminRoleID, staffRoleID string,
) (*models.GuildConfig, error) {
	log.Info("📋 Starting to create guild config", "guild_id", guildID)
	if guildID == "" {
		return nil, fmt.Errorf("guild ID cannot be empty")
	}
	if adminRoleID == "" || staffRoleID == "" {
		return nil, fmt.Errorf("admin and staff roles must both be set")
	}

	config := &models.GuildConfig{
		GuildID:     guildID,
		AdminRoleID: adminRoleID,
		StaffRoleID: staffRoleID,
	}
	if err := s.repo.CreateGuildConfig(ctx, config); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, fmt.Errorf("guild %s is already set up: %w", guildID, core.ErrConflict)
		}
		return nil, fmt.Errorf("failed to create guild config: %w", err)
	}

	log.Info("📋 Completed successfully - created guild config", "guild_id", guildID)
	return config, nil
}

func (s *GuildConfigsService) GetGuildConfig(
	ctx context.Context,
	guildID string,
) (mo.Option[*models.GuildConfig], error) {
	if guildID == "" {
		return mo.None[*models.GuildConfig](), fmt.Errorf("guild ID cannot be empty")
	}

	maybeConfig, err := s.repo.GetGuildConfig(ctx, guildID)
	if err != nil {
		return mo.None[*models.GuildConfig](), fmt.Errorf("failed to get guild config: %w", err)
	}
	return maybeConfig, nil
}

// SetChannelSetting sets a channel setting, or clears it when channelID is nil
func (s *GuildConfigsService) SetChannelSetting(
	ctx context.Context,
	guildID string,
	setting models.GuildSetting,
	channelID *string,
) error {
	log.Info("📋 Starting to update guild setting", "guild_id", guildID, "setting", string(setting))
	if !setting.IsValid() {
		return fmt.Errorf("unknown setting %q: %w", setting, core.ErrProtocol)
	}

	updated, err := s.repo.SetChannelSetting(ctx, guildID, setting, channelID)
	if err != nil {
		return fmt.Errorf("failed to update guild setting: %w", err)
	}
	if !updated {
		return fmt.Errorf("guild config %s: %w", guildID, core.ErrNotFound)
	}

	log.Info("📋 Completed successfully - updated guild setting", "guild_id", guildID, "setting", string(setting))
	return nil
}

func (s *GuildConfigsService) SetTicketMessage(ctx context.Context, guildID, channelID, messageID string) error {
	if channelID == "" || messageID == "" {
		return fmt.Errorf("channel and message IDs cannot be empty")
	}

	updated, err := s.repo.SetTicketMessage(ctx, guildID, channelID, messageID)
	if err != nil {
		return fmt.Errorf("failed to update ticket message: %w", err)
	}
	if !updated {
		return fmt.Errorf("guild config %s: %w", guildID, core.ErrNotFound)
	}
	return nil
}

// ClearTicketMessage unsets the ticket channel together with the intake message it carried
func (s *GuildConfigsService) ClearTicketMessage(ctx context.Context, guildID string) error {
	updated, err := s.repo.ClearTicketMessage(ctx, guildID)
	if err != nil {
		return fmt.Errorf("failed to clear ticket message: %w", err)
	}
	if !updated {
		return fmt.Errorf("guild config %s: %w", guildID, core.ErrNotFound)
	}
	return nil
}

func (s *GuildConfigsService) SetDefaultForm(
	ctx context.Context,
	guildID string,
	category models.BuiltInCategory,
	formID string,
) error {
	log.Info("📋 Starting to set default form", "guild_id", guildID, "category", string(category))
	if !core.IsValidULID(formID) {
		return fmt.Errorf("form ID must be a valid ULID")
	}

	updated, err := s.repo.SetDefaultForm(ctx, guildID, category, &formID)
	if err != nil {
		return fmt.Errorf("failed to set default form: %w", err)
	}
	if !updated {
		return fmt.Errorf("guild config %s: %w", guildID, core.ErrNotFound)
	}

	log.Info("📋 Completed successfully - set default form", "guild_id", guildID, "category", string(category))
	return nil
}
