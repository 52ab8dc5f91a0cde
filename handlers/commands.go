package handlers

import (
	"github.com/bwmarrin/discordgo"

	"supportbot/models"
	"supportbot/router"
	"supportbot/services/categories"
	"supportbot/services/forms"
	"supportbot/usecases/settings"
)

var (
	adminPermissions int64 = discordgo.PermissionAdministrator
	guildOnly              = &[]discordgo.InteractionContextType{discordgo.InteractionContextGuild}
	settingChannels        = []discordgo.ChannelType{discordgo.ChannelTypeGuildText, discordgo.ChannelTypeGuildForum}
)

// SlashCommands returns the application commands served by the router
func SlashCommands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:                     router.CommandSetup,
			Description:              "Set up the support bot for this server",
			DefaultMemberPermissions: &adminPermissions,
			Contexts:                 guildOnly,
		},
		{
			Name:        router.CommandReply,
			Description: "Reply to the user of this ticket",
			Contexts:    guildOnly,
		},
		{
			Name:        router.CommandClose,
			Description: "Close this ticket",
			Contexts:    guildOnly,
		},
		settingsCommand(),
	}
}

func settingsCommand() *discordgo.ApplicationCommand {
	settingChoices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(models.GuildSettings))
	for _, setting := range models.GuildSettings {
		settingChoices = append(settingChoices, &discordgo.ApplicationCommandOptionChoice{
			Name:  string(setting),
			Value: string(setting),
		})
	}
	settingOption := func(required bool) *discordgo.ApplicationCommandOption {
		return &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        settings.OptionSetting,
			Description: "The setting",
			Required:    required,
			Choices:     settingChoices,
		}
	}

	return &discordgo.ApplicationCommand{
		Name:        router.CommandSettings,
		Description: "Manage the support bot",
		Contexts:    guildOnly,
		Options: []*discordgo.ApplicationCommandOption{
			subcommand(settings.SubcommandGet, "Show the current settings", settingOption(false)),
			subcommand(settings.SubcommandSet, "Change a channel setting",
				settingOption(true),
				&discordgo.ApplicationCommandOption{
					Type:         discordgo.ApplicationCommandOptionChannel,
					Name:         settings.OptionChannel,
					Description:  "The channel",
					Required:     true,
					ChannelTypes: settingChannels,
				},
			),
			subcommand(settings.SubcommandUnset, "Clear a channel setting", settingOption(true)),
			subcommand(settings.SubcommandCategoryForm, "Choose the form used by a custom category"),
			subcommand(settings.SubcommandTicketTypeForm, "Choose the default form of a ticket type"),
			{
				Type:        discordgo.ApplicationCommandOptionSubCommandGroup,
				Name:        settings.GroupCategory,
				Description: "Manage custom ticket categories",
				Options: []*discordgo.ApplicationCommandOption{
					subcommand(settings.SubcommandCreate, "Create a custom category",
						nameOption("Category name", categories.MaxCategoryNameLength),
						&discordgo.ApplicationCommandOption{
							Type:         discordgo.ApplicationCommandOptionChannel,
							Name:         settings.OptionChannel,
							Description:  "Forum channel for tickets of this category",
							Required:     true,
							ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildForum},
						},
					),
					subcommand(settings.SubcommandDelete, "Delete a custom category",
						nameOption("Category name", categories.MaxCategoryNameLength)),
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommandGroup,
				Name:        settings.GroupForm,
				Description: "Manage ticket forms",
				Options: []*discordgo.ApplicationCommandOption{
					subcommand(settings.SubcommandCreate, "Create a form", nameOption("Form name", forms.MaxNameLength)),
					subcommand(settings.SubcommandQuestion, "Add a question to a form",
						&discordgo.ApplicationCommandOption{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        settings.OptionForm,
							Description: "Form name",
							Required:    true,
							MaxLength:   forms.MaxNameLength,
						},
						&discordgo.ApplicationCommandOption{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        settings.OptionLabel,
							Description: "Question shown to the user",
							Required:    true,
							MaxLength:   forms.MaxLabelLength,
						},
						&discordgo.ApplicationCommandOption{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        settings.OptionStyle,
							Description: "Answer size",
							Choices: []*discordgo.ApplicationCommandOptionChoice{
								{Name: "short", Value: string(models.FormQuestionStyleShort)},
								{Name: "paragraph", Value: string(models.FormQuestionStyleParagraph)},
							},
						},
						&discordgo.ApplicationCommandOption{
							Type:        discordgo.ApplicationCommandOptionBoolean,
							Name:        settings.OptionRequired,
							Description: "Whether an answer is required (default true)",
						},
					),
				},
			},
		},
	}
}

func subcommand(name, description string, options ...*discordgo.ApplicationCommandOption) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionSubCommand,
		Name:        name,
		Description: description,
		Options:     options,
	}
}

func nameOption(description string, maxLength int) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        settings.OptionName,
		Description: description,
		Required:    true,
		MaxLength:   maxLength,
	}
}
