package settings

import (
	"context"
	"errors"
	"fmt"

	"supportbot/clients"
	"supportbot/components"
	"supportbot/core"
	"supportbot/core/log"
	"supportbot/models"
	"supportbot/router"
	"supportbot/sessions"
	"supportbot/usecases"
	"supportbot/utils"
)

const (
	categoryFormPrompt      = "Select a category and the form its tickets should use."
	ticketTypeFormPrompt    = "Select a ticket type and the form it should use by default."
	noFormsMessage          = "No forms exist yet. Create one with `/settings form create`."
	noCategoriesMessage     = "No custom categories exist yet. Create one with `/settings category create`."
	selectionGoneMessage    = "That option is no longer available. Please pick another one."
	incompleteMessage       = "Select both a category and a form first."
	associationGoneMessage  = "That category or form no longer exists."
	associationSavedMessage = "The form has been assigned."
	associationCancelledMsg = "Form assignment cancelled."
)

var errIncomplete = errors.New("association needs both a target and a form")

func (u *SettingsUseCase) sessionsFor(flow router.SettingsFlow) sessions.Sessions[sessions.AssociationSession] {
	utils.AssertInvariant(flow.IsValid(), "unknown settings flow")
	if flow == router.SettingsFlowCategoryForm {
		return u.categoryForm
	}
	return u.ticketTypeForm
}

func (u *SettingsUseCase) startAssociation(ctx context.Context, it *models.Interaction, flow router.SettingsFlow) error {
	log.Info("📋 Starting form association", "guild_id", it.GuildID, "user_id", it.UserID, "flow", flow)

	targets, forms, err := u.associationItems(ctx, it.GuildID, flow)
	if err != nil {
		return err
	}
	if len(forms) == 0 {
		return usecases.RespondEphemeral(ctx, u.discordClient, it, noFormsMessage)
	}
	if len(targets) == 0 {
		return usecases.RespondEphemeral(ctx, u.discordClient, it, noCategoriesMessage)
	}

	sessionID := sessions.NewSessionID()
	session := sessions.AssociationSession{GuildID: it.GuildID, UserID: it.UserID}
	if err := u.sessionsFor(flow).Create(sessionID, session); err != nil {
		return fmt.Errorf("failed to create association session: %w", err)
	}

	return respond(u.discordClient.RespondMessage(ctx, it, clients.Message{
		Content:   associationPrompt(flow),
		Rows:      associationRows(flow, sessionID, targets, forms, session),
		Ephemeral: true,
	}))
}

func (u *SettingsUseCase) SelectTarget(ctx context.Context, it *models.Interaction, flow router.SettingsFlow, sessionID string) error {
	return u.selectItem(ctx, it, flow, sessionID, func(s *sessions.AssociationSession) (*string, *uint) {
		return &s.TargetID, &s.TargetPage
	}, func(targets, _ []components.Item) []components.Item {
		return targets
	})
}

func (u *SettingsUseCase) SelectForm(ctx context.Context, it *models.Interaction, flow router.SettingsFlow, sessionID string) error {
	return u.selectItem(ctx, it, flow, sessionID, func(s *sessions.AssociationSession) (*string, *uint) {
		return &s.FormID, &s.FormPage
	}, func(_, forms []components.Item) []components.Item {
		return forms
	})
}

// selectItem applies a select interaction to one of the two selectors of the session. field
// picks the selector's fields, offered picks the list the value must come from.
func (u *SettingsUseCase) selectItem(
	ctx context.Context,
	it *models.Interaction,
	flow router.SettingsFlow,
	sessionID string,
	field func(*sessions.AssociationSession) (*string, *uint),
	offered func(targets, forms []components.Item) []components.Item,
) error {
	value, ok := it.FirstValue()
	if !ok {
		return fmt.Errorf("%w: association select without a value", core.ErrProtocol)
	}
	selection, err := components.ParseSelection(value)
	if err != nil {
		return err
	}

	table := u.sessionsFor(flow)
	if table.Get(sessionID).IsAbsent() {
		return usecases.RespondExpired(ctx, u.discordClient, it)
	}

	targets, forms, err := u.associationItems(ctx, it.GuildID, flow)
	if err != nil {
		return err
	}
	if len(forms) == 0 || len(targets) == 0 {
		table.Remove(sessionID)
		if len(forms) == 0 {
			return usecases.RespondClosed(ctx, u.discordClient, it, noFormsMessage)
		}
		return usecases.RespondClosed(ctx, u.discordClient, it, noCategoriesMessage)
	}

	content := associationPrompt(flow)
	accepted := selection.IsPage() || components.Contains(offered(targets, forms), selection.ID)
	if !accepted {
		content = selectionGoneMessage
	}

	maybeSession := table.Update(sessionID, func(s *sessions.AssociationSession) {
		if accepted {
			selected, page := field(s)
			selection.Apply(selected, page)
		}
	})
	session, ok := maybeSession.Get()
	if !ok {
		return usecases.RespondExpired(ctx, u.discordClient, it)
	}

	return respond(u.discordClient.RespondUpdate(ctx, it, clients.Message{
		Content: content,
		Rows:    associationRows(flow, sessionID, targets, forms, session),
	}))
}

func (u *SettingsUseCase) SubmitAssociation(ctx context.Context, it *models.Interaction, flow router.SettingsFlow, sessionID string) error {
	maybeSession, err := u.sessionsFor(flow).RemoveIf(sessionID, func(s sessions.AssociationSession) error {
		if !s.Complete() {
			return errIncomplete
		}
		return nil
	})
	if errors.Is(err, errIncomplete) {
		return usecases.RespondEphemeral(ctx, u.discordClient, it, incompleteMessage)
	}
	session, ok := maybeSession.Get()
	if !ok {
		return usecases.RespondExpired(ctx, u.discordClient, it)
	}

	log.Info("📋 Assigning form", "guild_id", session.GuildID, "flow", flow, "target", session.TargetID, "form_id", session.FormID)

	switch flow {
	case router.SettingsFlowCategoryForm:
		err = u.categoriesService.SetCategoryForm(ctx, session.GuildID, session.TargetID, session.FormID)
	case router.SettingsFlowTicketTypeForm:
		category, known := models.ParseBuiltInCategory(session.TargetID)
		if !known {
			return fmt.Errorf("%w: unknown ticket type %q", core.ErrProtocol, session.TargetID)
		}
		err = u.guildConfigsService.SetDefaultForm(ctx, session.GuildID, category, session.FormID)
	}
	if errors.Is(err, core.ErrNotFound) {
		return usecases.RespondClosed(ctx, u.discordClient, it, associationGoneMessage)
	}
	if err != nil {
		return fmt.Errorf("failed to assign form: %w", err)
	}

	log.Info("📋 Completed successfully - assigned form", "guild_id", session.GuildID, "flow", flow)
	return usecases.RespondClosed(ctx, u.discordClient, it, associationSavedMessage)
}

func (u *SettingsUseCase) CancelAssociation(ctx context.Context, it *models.Interaction, flow router.SettingsFlow, sessionID string) error {
	if u.sessionsFor(flow).Remove(sessionID).IsAbsent() {
		return usecases.RespondExpired(ctx, u.discordClient, it)
	}
	return usecases.RespondClosed(ctx, u.discordClient, it, associationCancelledMsg)
}

// associationItems loads the selectable targets of the flow and the guild's forms
func (u *SettingsUseCase) associationItems(
	ctx context.Context,
	guildID string,
	flow router.SettingsFlow,
) ([]components.Item, []components.Item, error) {
	forms, err := u.formsService.GetForms(ctx, guildID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get forms: %w", err)
	}
	formItems := make([]components.Item, 0, len(forms))
	for _, form := range forms {
		formItems = append(formItems, components.Item{ID: form.ID, Label: form.Name})
	}

	if flow == router.SettingsFlowTicketTypeForm {
		targets := make([]components.Item, 0, len(models.BuiltInCategories))
		for _, category := range models.BuiltInCategories {
			targets = append(targets, components.Item{ID: string(category), Label: category.DisplayName()})
		}
		return targets, formItems, nil
	}

	categories, err := u.categoriesService.GetActiveCategories(ctx, guildID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get categories: %w", err)
	}
	targets := make([]components.Item, 0, len(categories))
	for _, category := range categories {
		targets = append(targets, components.Item{ID: category.ID, Label: category.Name})
	}
	return targets, formItems, nil
}

func associationPrompt(flow router.SettingsFlow) string {
	if flow == router.SettingsFlowTicketTypeForm {
		return ticketTypeFormPrompt
	}
	return categoryFormPrompt
}

func associationRows(
	flow router.SettingsFlow,
	sessionID string,
	targets, forms []components.Item,
	session sessions.AssociationSession,
) []clients.ActionRow {
	targetPlaceholder := "Select a category"
	if flow == router.SettingsFlowTicketTypeForm {
		targetPlaceholder = "Select a ticket type"
	}

	prompt := components.SelectionPrompt{
		Selectors: []components.Selector{
			{
				CustomID:    router.SettingsID(flow, sessionID, router.ActionCategory),
				Placeholder: targetPlaceholder,
				Items:       targets,
				SelectedID:  session.TargetID,
				Page:        session.TargetPage,
			},
			{
				CustomID:    router.SettingsID(flow, sessionID, router.ActionForm),
				Placeholder: "Select a form",
				Items:       forms,
				SelectedID:  session.FormID,
				Page:        session.FormPage,
			},
		},
		SubmitID:    router.SettingsID(flow, sessionID, router.ActionSubmit),
		SubmitLabel: "Save",
		CancelID:    router.SettingsID(flow, sessionID, router.ActionCancel),
	}
	return prompt.Rows()
}
