package settings

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"supportbot/core"
	"supportbot/core/log"
	"supportbot/models"
	"supportbot/usecases"
)

const (
	categoryExistsMessage   = "A category with that name already exists."
	formExistsMessage       = "A form with that name already exists."
	formFullMessage         = "That form already has the maximum number of questions."
	unknownCategoryFormat   = "No active category named **%s**."
	unknownFormFormat       = "No form named **%s**."
	categoryCreatedFormat   = "Category **%s** created. Tickets will be posted in <#%s>."
	categoryDeletedFormat   = "Category **%s** deleted."
	formCreatedFormat       = "Form **%s** created. Add questions with `/settings form question`."
	questionAddedFormat     = "Question %d added to **%s**."
	invalidRequiredOptError = "required must be a boolean"
)

func (u *SettingsUseCase) createCategory(ctx context.Context, it *models.Interaction) error {
	name, err := requiredOption(it, OptionName)
	if err != nil {
		return err
	}
	channelID, err := requiredOption(it, OptionChannel)
	if err != nil {
		return err
	}
	name = strings.TrimSpace(name)

	category, err := u.categoriesService.CreateCategory(ctx, it.GuildID, name, channelID)
	if errors.Is(err, core.ErrConflict) {
		return usecases.RespondEphemeral(ctx, u.discordClient, it, categoryExistsMessage)
	}
	if err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}

	log.Info("📋 Created custom category", "guild_id", it.GuildID, "category_id", category.ID, "name", category.Name)
	return usecases.RespondEphemeral(ctx, u.discordClient, it, fmt.Sprintf(categoryCreatedFormat, category.Name, category.ChannelID))
}

func (u *SettingsUseCase) deleteCategory(ctx context.Context, it *models.Interaction) error {
	name, err := requiredOption(it, OptionName)
	if err != nil {
		return err
	}
	name = strings.TrimSpace(name)

	err = u.categoriesService.DeactivateCategory(ctx, it.GuildID, name)
	if errors.Is(err, core.ErrNotFound) {
		return usecases.RespondEphemeral(ctx, u.discordClient, it, fmt.Sprintf(unknownCategoryFormat, name))
	}
	if err != nil {
		return fmt.Errorf("failed to deactivate category: %w", err)
	}

	log.Info("📋 Deactivated custom category", "guild_id", it.GuildID, "name", name)
	return usecases.RespondEphemeral(ctx, u.discordClient, it, fmt.Sprintf(categoryDeletedFormat, name))
}

func (u *SettingsUseCase) createForm(ctx context.Context, it *models.Interaction) error {
	name, err := requiredOption(it, OptionName)
	if err != nil {
		return err
	}
	name = strings.TrimSpace(name)

	form, err := u.formsService.CreateForm(ctx, it.GuildID, name)
	if errors.Is(err, core.ErrConflict) {
		return usecases.RespondEphemeral(ctx, u.discordClient, it, formExistsMessage)
	}
	if err != nil {
		return fmt.Errorf("failed to create form: %w", err)
	}

	log.Info("📋 Created form", "guild_id", it.GuildID, "form_id", form.ID, "name", form.Name)
	return usecases.RespondEphemeral(ctx, u.discordClient, it, fmt.Sprintf(formCreatedFormat, form.Name))
}

func (u *SettingsUseCase) addQuestion(ctx context.Context, it *models.Interaction) error {
	formName, err := requiredOption(it, OptionForm)
	if err != nil {
		return err
	}
	label, err := requiredOption(it, OptionLabel)
	if err != nil {
		return err
	}
	formName = strings.TrimSpace(formName)

	style := models.FormQuestionStyleShort
	if value, ok := it.Option(OptionStyle); ok {
		style = models.FormQuestionStyle(value)
	}
	required := true
	if value, ok := it.Option(OptionRequired); ok {
		if required, err = strconv.ParseBool(value); err != nil {
			return fmt.Errorf("%w: %s: %v", core.ErrProtocol, invalidRequiredOptError, err)
		}
	}

	question, err := u.formsService.AddQuestion(ctx, it.GuildID, formName, strings.TrimSpace(label), style, required)
	switch {
	case errors.Is(err, core.ErrNotFound):
		return usecases.RespondEphemeral(ctx, u.discordClient, it, fmt.Sprintf(unknownFormFormat, formName))
	case errors.Is(err, core.ErrConflict):
		return usecases.RespondEphemeral(ctx, u.discordClient, it, formFullMessage)
	case err != nil:
		return fmt.Errorf("failed to add question: %w", err)
	}

	log.Info("📋 Added form question", "guild_id", it.GuildID, "form_id", question.FormID, "position", question.Position)
	return usecases.RespondEphemeral(ctx, u.discordClient, it, fmt.Sprintf(questionAddedFormat, question.Position, formName))
}
