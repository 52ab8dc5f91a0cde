package settings

import (
	"context"
	"fmt"

	"supportbot/clients"
	"supportbot/core"
	"supportbot/core/log"
	"supportbot/models"
	"supportbot/router"
	"supportbot/services"
	"supportbot/sessions"
	"supportbot/usecases"
)

// Subcommands of /settings. Nested groups are followed by their own subcommand.
const (
	SubcommandGet            = "get"
	SubcommandSet            = "set"
	SubcommandUnset          = "unset"
	SubcommandCategoryForm   = string(router.SettingsFlowCategoryForm)
	SubcommandTicketTypeForm = string(router.SettingsFlowTicketTypeForm)
	GroupCategory            = "category"
	GroupForm                = "form"
	SubcommandCreate         = "create"
	SubcommandDelete         = "delete"
	SubcommandQuestion       = "question"
)

// Option names of /settings subcommands
const (
	OptionSetting  = "setting"
	OptionChannel  = "channel"
	OptionName     = "name"
	OptionForm     = "form"
	OptionLabel    = "label"
	OptionStyle    = "style"
	OptionRequired = "required"
)

// SettingsUseCase serves the /settings command tree and the form association flows. Every
// entry point requires the admin role or the Administrator permission.
type SettingsUseCase struct {
	discordClient       clients.DiscordClient
	guildConfigsService services.GuildConfigsService
	categoriesService   services.CategoriesService
	formsService        services.FormsService
	categoryForm        sessions.Sessions[sessions.AssociationSession]
	ticketTypeForm      sessions.Sessions[sessions.AssociationSession]
}

func NewSettingsUseCase(
	discordClient clients.DiscordClient,
	guildConfigsService services.GuildConfigsService,
	categoriesService services.CategoriesService,
	formsService services.FormsService,
	store *sessions.Store,
) *SettingsUseCase {
	return &SettingsUseCase{
		discordClient:       discordClient,
		guildConfigsService: guildConfigsService,
		categoriesService:   categoriesService,
		formsService:        formsService,
		categoryForm:        store.CategoryForm,
		ticketTypeForm:      store.TicketTypeForm,
	}
}

func (u *SettingsUseCase) HandleSettingsCommand(ctx context.Context, it *models.Interaction) error {
	config, ok, err := u.authorize(ctx, it)
	if err != nil || !ok {
		return err
	}

	sub := it.Subcommand(1)
	log.Info("📋 Handling settings command", "guild_id", it.GuildID, "user_id", it.UserID, "subcommand", sub)

	switch sub {
	case SubcommandGet:
		return u.getSetting(ctx, it, config)
	case SubcommandSet:
		return u.setSetting(ctx, it, config)
	case SubcommandUnset:
		return u.unsetSetting(ctx, it, config)
	case SubcommandCategoryForm:
		return u.startAssociation(ctx, it, router.SettingsFlowCategoryForm)
	case SubcommandTicketTypeForm:
		return u.startAssociation(ctx, it, router.SettingsFlowTicketTypeForm)
	case GroupCategory:
		switch it.Subcommand(2) {
		case SubcommandCreate:
			return u.createCategory(ctx, it)
		case SubcommandDelete:
			return u.deleteCategory(ctx, it)
		}
	case GroupForm:
		switch it.Subcommand(2) {
		case SubcommandCreate:
			return u.createForm(ctx, it)
		case SubcommandQuestion:
			return u.addQuestion(ctx, it)
		}
	}

	return fmt.Errorf("%w: unknown settings subcommand %v", core.ErrProtocol, it.CommandPath)
}

// authorize loads the guild config and answers the interaction itself when the member may
// not continue
func (u *SettingsUseCase) authorize(ctx context.Context, it *models.Interaction) (*models.GuildConfig, bool, error) {
	maybeConfig, err := u.guildConfigsService.GetGuildConfig(ctx, it.GuildID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to get guild config: %w", err)
	}
	config, ok := maybeConfig.Get()
	if !ok {
		return nil, false, usecases.RespondEphemeral(ctx, u.discordClient, it, usecases.NotSetUpMessage)
	}
	if !usecases.IsAdmin(it, config) {
		return nil, false, usecases.RespondEphemeral(ctx, u.discordClient, it, usecases.NotAdminMessage)
	}
	return config, true, nil
}

func requiredOption(it *models.Interaction, name string) (string, error) {
	value, ok := it.Option(name)
	if !ok {
		return "", fmt.Errorf("%w: missing option %q for %v", core.ErrProtocol, name, it.CommandPath)
	}
	return value, nil
}

func respond(err error) error {
	if err != nil {
		return fmt.Errorf("failed to respond to interaction: %w", err)
	}
	return nil
}
