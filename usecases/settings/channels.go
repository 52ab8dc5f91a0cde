package settings

import (
	"context"
	"fmt"
	"strings"

	"supportbot/clients"
	"supportbot/core"
	"supportbot/core/log"
	"supportbot/models"
	"supportbot/router"
	"supportbot/usecases"
)

const (
	intakeMessage          = "Need help? Open a ticket with the button below."
	intakePostFailedFormat = "I could not post the ticket message in <#%s>. Please check my permissions there."
)

func parseSetting(it *models.Interaction) (models.GuildSetting, error) {
	value, err := requiredOption(it, OptionSetting)
	if err != nil {
		return "", err
	}
	setting := models.GuildSetting(value)
	if !setting.IsValid() {
		return "", fmt.Errorf("%w: unknown setting %q", core.ErrProtocol, value)
	}
	return setting, nil
}

// getSetting shows one setting, or all of them when none is named
func (u *SettingsUseCase) getSetting(ctx context.Context, it *models.Interaction, config *models.GuildConfig) error {
	settings := models.GuildSettings
	if _, ok := it.Option(OptionSetting); ok {
		setting, err := parseSetting(it)
		if err != nil {
			return err
		}
		settings = []models.GuildSetting{setting}
	}

	lines := make([]string, 0, len(settings))
	for _, setting := range settings {
		lines = append(lines, fmt.Sprintf("**%s**: %s", setting, describeChannel(config.Value(setting))))
	}
	return usecases.RespondEphemeral(ctx, u.discordClient, it, strings.Join(lines, "\n"))
}

func (u *SettingsUseCase) setSetting(ctx context.Context, it *models.Interaction, config *models.GuildConfig) error {
	setting, err := parseSetting(it)
	if err != nil {
		return err
	}
	channelID, err := requiredOption(it, OptionChannel)
	if err != nil {
		return err
	}

	if setting == models.GuildSettingTicketChannel {
		return u.setTicketChannel(ctx, it, config, channelID)
	}

	if err := u.guildConfigsService.SetChannelSetting(ctx, it.GuildID, setting, &channelID); err != nil {
		return fmt.Errorf("failed to set %s: %w", setting, err)
	}
	return usecases.RespondEphemeral(ctx, u.discordClient, it, fmt.Sprintf("**%s** is now <#%s>.", setting, channelID))
}

// setTicketChannel posts the intake message first so the stored message ID always points at
// a real message. The previous intake message is removed on a best-effort basis.
func (u *SettingsUseCase) setTicketChannel(
	ctx context.Context,
	it *models.Interaction,
	config *models.GuildConfig,
	channelID string,
) error {
	posted, err := u.discordClient.SendMessage(ctx, channelID, clients.Message{
		Content: intakeMessage,
		Rows: []clients.ActionRow{{Components: []clients.Component{clients.Button{
			CustomID: router.CreateTicketStartID(),
			Label:    "Open a ticket",
			Style:    clients.ButtonStylePrimary,
		}}}},
	})
	if err != nil {
		log.Warn("⚠️ Failed to post intake message", "guild_id", it.GuildID, "channel_id", channelID, "error", err)
		return usecases.RespondEphemeral(ctx, u.discordClient, it, fmt.Sprintf(intakePostFailedFormat, channelID))
	}

	// ticket_channel_id and ticket_message_id are written by a single statement
	if err := u.guildConfigsService.SetTicketMessage(ctx, it.GuildID, posted.ChannelID, posted.MessageID); err != nil {
		u.deleteBestEffort(ctx, posted.ChannelID, posted.MessageID)
		return fmt.Errorf("failed to store ticket message: %w", err)
	}

	u.deletePreviousIntake(ctx, config)
	return usecases.RespondEphemeral(ctx, u.discordClient, it, fmt.Sprintf("Tickets can now be opened from <#%s>.", channelID))
}

func (u *SettingsUseCase) unsetSetting(ctx context.Context, it *models.Interaction, config *models.GuildConfig) error {
	setting, err := parseSetting(it)
	if err != nil {
		return err
	}

	if setting == models.GuildSettingTicketChannel {
		if err := u.guildConfigsService.ClearTicketMessage(ctx, it.GuildID); err != nil {
			return fmt.Errorf("failed to unset %s: %w", setting, err)
		}
		u.deletePreviousIntake(ctx, config)
		return usecases.RespondEphemeral(ctx, u.discordClient, it, fmt.Sprintf("**%s** has been cleared.", setting))
	}

	if err := u.guildConfigsService.SetChannelSetting(ctx, it.GuildID, setting, nil); err != nil {
		return fmt.Errorf("failed to unset %s: %w", setting, err)
	}
	return usecases.RespondEphemeral(ctx, u.discordClient, it, fmt.Sprintf("**%s** has been cleared.", setting))
}

func (u *SettingsUseCase) deletePreviousIntake(ctx context.Context, config *models.GuildConfig) {
	if config.TicketChannelID == nil || config.TicketMessageID == nil {
		return
	}
	u.deleteBestEffort(ctx, *config.TicketChannelID, *config.TicketMessageID)
}

func (u *SettingsUseCase) deleteBestEffort(ctx context.Context, channelID, messageID string) {
	if err := u.discordClient.DeleteMessage(ctx, channelID, messageID); err != nil {
		log.Warn("⚠️ Failed to delete message", "channel_id", channelID, "message_id", messageID, "error", err)
	}
}

func describeChannel(channelID *string) string {
	if channelID == nil {
		return "not set"
	}
	return fmt.Sprintf("<#%s>", *channelID)
}
