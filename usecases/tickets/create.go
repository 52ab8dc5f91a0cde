package tickets

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/samber/mo"

	"supportbot/clients"
	"supportbot/components"
	"supportbot/core"
	"supportbot/core/log"
	"supportbot/models"
	"supportbot/router"
	"supportbot/services"
	"supportbot/sessions"
	"supportbot/usecases"
	"supportbot/utils"
)

// Modal field IDs of the ticket form
const (
	titleField        = "title"
	bodyField         = "body"
	inviteField       = "invite"
	answerFieldPrefix = "answer_"
)

const (
	maxModalInputs     = 5
	maxInputLabel      = 45
	maxTitleLength     = 100
	maxAnswerLength    = 1024
	maxInviteURLLength = 100
)

// bodyOverhead covers the longest framing around a ticket body. That is the mention and
// invite line of the starter message, or a notice plus the title when the draft is echoed.
const (
	bodyOverhead  = 300
	maxBodyLength = clients.MaxMessageLength - bodyOverhead
	// answerFraming is what composeBody adds per answer besides the label and the text
	answerFraming = 7
)

const (
	categoryPrompt             = "Choose the category of your ticket."
	categoryUnavailableMessage = "That category is no longer available. " + categoryPrompt
	notAcceptingMessage        = "This server is not accepting tickets right now."
	closedCategoryMessage      = "This server is no longer accepting tickets of that category."
	selectCategoryFirstMessage = "Please select a category first."
	missingTitleMessage        = "Please give your ticket a title."
	missingBodyMessage         = "Please describe your request."
	invalidInviteMessage       = "That is not a valid invite link."
	unknownInviteMessage       = "That invite does not exist or has expired."
	temporaryInviteMessage     = "Please provide a permanent invite to your server."
	missingPermissionsMessage  = "I am missing permissions to post in the ticket channel. Please let a server administrator know."
	threadFailedMessage        = "I could not create your ticket. Here is what you wrote so nothing is lost:"
	creationCancelledMessage   = "Ticket creation cancelled."
)

var ticketChannelPermissions = clients.PermissionViewChannel | clients.PermissionSendMessages

// categoryTarget is where tickets of one category go
type categoryTarget struct {
	ChannelID string
	FormID    *string
}

func (u *TicketsUseCase) StartCreateTicket(ctx context.Context, it *models.Interaction) error {
	log.Info("📋 Starting ticket creation", "guild_id", it.GuildID, "user_id", it.UserID)

	maybeConfig, err := u.guildConfigsService.GetGuildConfig(ctx, it.GuildID)
	if err != nil {
		return fmt.Errorf("failed to get guild config: %w", err)
	}
	config, ok := maybeConfig.Get()
	if !ok {
		return usecases.RespondEphemeral(ctx, u.discordClient, it, usecases.NotSetUpMessage)
	}

	items, err := u.categoryItems(ctx, config)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		log.Info("🔍 No ticket categories available", "guild_id", it.GuildID)
		return usecases.RespondEphemeral(ctx, u.discordClient, it, notAcceptingMessage)
	}

	sessionID := sessions.NewSessionID()
	session := sessions.CreateTicketSession{GuildID: it.GuildID, UserID: it.UserID}
	if err := u.createSessions.Create(sessionID, session); err != nil {
		return fmt.Errorf("failed to create ticket session: %w", err)
	}

	return respond(u.discordClient.RespondMessage(ctx, it, clients.Message{
		Content:   categoryPrompt,
		Rows:      categoryRows(sessionID, items, session),
		Ephemeral: true,
	}))
}

func (u *TicketsUseCase) SetCategory(ctx context.Context, it *models.Interaction, sessionID string) error {
	value, ok := it.FirstValue()
	if !ok {
		return fmt.Errorf("%w: category select without a value", core.ErrProtocol)
	}
	selection, err := components.ParseSelection(value)
	if err != nil {
		return err
	}

	if u.createSessions.Get(sessionID).IsAbsent() {
		return usecases.RespondExpired(ctx, u.discordClient, it)
	}

	items, err := u.loadCategoryItems(ctx, it.GuildID)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		u.createSessions.Remove(sessionID)
		return usecases.RespondClosed(ctx, u.discordClient, it, notAcceptingMessage)
	}

	content := categoryPrompt
	offered := selection.IsPage() || components.Contains(items, selection.ID)
	if !offered {
		content = categoryUnavailableMessage
	}

	updated := u.createSessions.Update(sessionID, func(s *sessions.CreateTicketSession) {
		if !offered {
			return
		}
		selected := s.Category.Value()
		selection.Apply(&selected, &s.Page)
		if selected != s.Category.Value() {
			s.Category = models.ParseCategoryRef(selected)
			s.Questions = nil
			s.Draft.Answers = [models.MaxFormQuestions]string{}
		}
	})
	session, ok := updated.Get()
	if !ok {
		return usecases.RespondExpired(ctx, u.discordClient, it)
	}

	return respond(u.discordClient.RespondUpdate(ctx, it, clients.Message{
		Content: content,
		Rows:    categoryRows(sessionID, items, session),
	}))
}

func (u *TicketsUseCase) ConfirmCategory(ctx context.Context, it *models.Interaction, sessionID string) error {
	maybeSession := u.createSessions.Get(sessionID)
	session, ok := maybeSession.Get()
	if !ok {
		return usecases.RespondExpired(ctx, u.discordClient, it)
	}
	if session.Category.IsZero() {
		return usecases.RespondEphemeral(ctx, u.discordClient, it, selectCategoryFirstMessage)
	}

	maybeTarget, err := u.resolveCategory(ctx, session.GuildID, session.Category)
	if err != nil {
		return err
	}
	target, ok := maybeTarget.Get()
	if !ok {
		u.createSessions.Remove(sessionID)
		return usecases.RespondClosed(ctx, u.discordClient, it, closedCategoryMessage)
	}

	questions, err := u.formQuestions(ctx, target.FormID, questionLimit(session.Category))
	if err != nil {
		return err
	}

	updated := u.createSessions.Update(sessionID, func(s *sessions.CreateTicketSession) {
		s.Questions = questions
	})
	session, ok = updated.Get()
	if !ok {
		return usecases.RespondExpired(ctx, u.discordClient, it)
	}

	return respond(u.discordClient.RespondModal(ctx, it, ticketModal(sessionID, session)))
}

// SubmitTicket consumes the session and turns the modal into a ticket thread plus its rows.
// Validation failures hand the typed text back through a fresh session and a retry button.
// Once the draft is well formed the interaction is deferred, the invite lookup and thread
// creation can outlast the acknowledgement deadline.
func (u *TicketsUseCase) SubmitTicket(ctx context.Context, it *models.Interaction, sessionID string) error {
	maybeSession := u.createSessions.Remove(sessionID)
	session, ok := maybeSession.Get()
	if !ok {
		return usecases.RespondExpired(ctx, u.discordClient, it)
	}
	log.Info("📋 Starting to submit ticket", "guild_id", session.GuildID, "user_id", session.UserID)

	draft := readDraft(it, session)
	body := composeBody(session.Questions, draft)
	if reason := validateDraft(session.Questions, draft, body); reason != "" {
		return u.rejectSubmission(ctx, it, session, draft, body, reason)
	}
	if err := usecases.DeferEphemeral(ctx, u.discordClient, it); err != nil {
		return err
	}

	invite := mo.None[services.PartnerInvite]()
	if requiresInvite(session.Category) {
		partner, reason, err := u.checkInvite(ctx, draft.Invite)
		if err != nil {
			return err
		}
		if reason != "" {
			return u.rejectSubmission(ctx, it, session, draft, body, reason)
		}
		invite = mo.Some(partner)
	}

	maybeTarget, err := u.resolveCategory(ctx, session.GuildID, session.Category)
	if err != nil {
		return err
	}
	target, ok := maybeTarget.Get()
	if !ok {
		return usecases.RespondEphemeral(ctx, u.discordClient, it, withEcho(closedCategoryMessage, draft.Title, body))
	}

	permissions, err := u.discordClient.BotChannelPermissions(ctx, target.ChannelID)
	if err != nil {
		return fmt.Errorf("failed to get permissions in channel %s: %w", target.ChannelID, err)
	}
	if !permissions.Has(ticketChannelPermissions) {
		log.Warn("⚠️ Missing permissions in ticket channel", "guild_id", session.GuildID, "channel_id", target.ChannelID)
		return usecases.RespondEphemeral(ctx, u.discordClient, it, withEcho(missingPermissionsMessage, draft.Title, body))
	}

	starter := clients.Message{
		Content: starterContent(session.UserID, invite, body),
		Rows:    []clients.ActionRow{ticketControls()},
	}
	thread, err := u.discordClient.CreateForumThread(ctx, target.ChannelID, utils.Truncate(draft.Title, maxTitleLength), starter)
	if err != nil {
		log.Error("❌ Failed to create ticket thread", "guild_id", session.GuildID, "channel_id", target.ChannelID, "error", err)
		return usecases.RespondEphemeral(ctx, u.discordClient, it, withEcho(threadFailedMessage, draft.Title, body))
	}

	ticket, err := u.ticketsService.OpenTicket(ctx, services.OpenTicketParams{
		GuildID:          session.GuildID,
		UserID:           session.UserID,
		Title:            draft.Title,
		Body:             body,
		Category:         session.Category,
		ThreadID:         thread.ID,
		StarterMessageID: thread.StarterMessageID,
		SentAt:           u.sentAt(it),
		Invite:           invite,
	})
	if err != nil {
		log.Warn("⚠️ Orphaned ticket thread left without a ticket row",
			"guild_id", session.GuildID, "thread_id", thread.ID, "error", err)
		return fmt.Errorf("failed to persist ticket for thread %s: %w", thread.ID, err)
	}

	log.Info("📋 Completed successfully - created ticket", "ticket_id", ticket.ID, "thread_id", thread.ID)
	return usecases.RespondEphemeral(ctx, u.discordClient, it, fmt.Sprintf("Your ticket has been created: <#%s>", thread.ID))
}

func (u *TicketsUseCase) RetryTicket(ctx context.Context, it *models.Interaction, sessionID string) error {
	session, ok := u.createSessions.Get(sessionID).Get()
	if !ok {
		return usecases.RespondExpired(ctx, u.discordClient, it)
	}
	return respond(u.discordClient.RespondModal(ctx, it, ticketModal(sessionID, session)))
}

func (u *TicketsUseCase) CancelTicket(ctx context.Context, it *models.Interaction, sessionID string) error {
	if u.createSessions.Remove(sessionID).IsAbsent() {
		return usecases.RespondExpired(ctx, u.discordClient, it)
	}
	return usecases.RespondClosed(ctx, u.discordClient, it, creationCancelledMessage)
}

func (u *TicketsUseCase) rejectSubmission(
	ctx context.Context,
	it *models.Interaction,
	session sessions.CreateTicketSession,
	draft sessions.TicketDraft,
	body, reason string,
) error {
	log.Info("🔍 Ticket submission rejected", "guild_id", session.GuildID, "user_id", session.UserID, "reason", reason)

	session.Draft = draft
	retryID := sessions.NewSessionID()
	if err := u.createSessions.Create(retryID, session); err != nil {
		return fmt.Errorf("failed to create retry session: %w", err)
	}

	return respond(u.discordClient.RespondMessage(ctx, it, clients.Message{
		Content: withEcho(reason, draft.Title, body),
		Rows: []clients.ActionRow{components.Row(
			clients.Button{
				CustomID: router.CreateTicketID(retryID, router.ActionRetry),
				Label:    "Try again",
				Style:    clients.ButtonStylePrimary,
			},
			components.CancelButton(router.CreateTicketID(retryID, router.ActionCancel)),
		)},
		Ephemeral: true,
	}))
}

// checkInvite returns a user-facing reason when the invite cannot be accepted
func (u *TicketsUseCase) checkInvite(ctx context.Context, raw string) (services.PartnerInvite, string, error) {
	code, ok := ParseInviteCode(raw)
	if !ok {
		return services.PartnerInvite{}, invalidInviteMessage, nil
	}

	invite, err := u.discordClient.ResolveInvite(ctx, code)
	if core.IsNotFoundError(err) {
		return services.PartnerInvite{}, unknownInviteMessage, nil
	}
	if err != nil {
		return services.PartnerInvite{}, "", fmt.Errorf("failed to resolve invite %s: %w", code, err)
	}
	if !invite.IsPermanentGuildInvite() {
		return services.PartnerInvite{}, temporaryInviteMessage, nil
	}

	return services.PartnerInvite{Code: code, PartnerGuildID: invite.GuildID}, "", nil
}

func (u *TicketsUseCase) loadCategoryItems(ctx context.Context, guildID string) ([]components.Item, error) {
	maybeConfig, err := u.guildConfigsService.GetGuildConfig(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to get guild config: %w", err)
	}
	config, ok := maybeConfig.Get()
	if !ok {
		return nil, nil
	}
	return u.categoryItems(ctx, config)
}

// categoryItems lists built-in categories with a destination channel followed by the active
// custom categories
func (u *TicketsUseCase) categoryItems(ctx context.Context, config *models.GuildConfig) ([]components.Item, error) {
	var items []components.Item
	for _, category := range models.BuiltInCategories {
		if config.ChannelForCategory(category) != nil {
			items = append(items, components.Item{ID: string(category), Label: category.DisplayName()})
		}
	}

	custom, err := u.categoriesService.GetActiveCategories(ctx, config.GuildID)
	if err != nil {
		return nil, fmt.Errorf("failed to get custom categories: %w", err)
	}
	for _, category := range custom {
		items = append(items, components.Item{ID: category.ID, Label: category.Name})
	}
	return items, nil
}

func (u *TicketsUseCase) resolveCategory(
	ctx context.Context,
	guildID string,
	ref models.CategoryRef,
) (mo.Option[categoryTarget], error) {
	if ref.IsBuiltIn() {
		maybeConfig, err := u.guildConfigsService.GetGuildConfig(ctx, guildID)
		if err != nil {
			return mo.None[categoryTarget](), fmt.Errorf("failed to get guild config: %w", err)
		}
		config, ok := maybeConfig.Get()
		if !ok {
			return mo.None[categoryTarget](), nil
		}
		channelID := config.ChannelForCategory(ref.BuiltIn)
		if channelID == nil {
			return mo.None[categoryTarget](), nil
		}
		return mo.Some(categoryTarget{ChannelID: *channelID, FormID: config.FormForCategory(ref.BuiltIn)}), nil
	}

	maybeCategory, err := u.categoriesService.GetActiveCategory(ctx, guildID, ref.CustomID)
	if err != nil {
		return mo.None[categoryTarget](), fmt.Errorf("failed to get custom category: %w", err)
	}
	category, ok := maybeCategory.Get()
	if !ok {
		return mo.None[categoryTarget](), nil
	}
	return mo.Some(categoryTarget{ChannelID: category.ChannelID, FormID: category.FormID}), nil
}

func (u *TicketsUseCase) formQuestions(ctx context.Context, formID *string, limit int) ([]sessions.TicketQuestion, error) {
	if formID == nil {
		return nil, nil
	}
	questions, err := u.formsService.GetQuestions(ctx, *formID)
	if err != nil {
		return nil, fmt.Errorf("failed to get form questions: %w", err)
	}

	result := make([]sessions.TicketQuestion, 0, min(len(questions), limit))
	for _, q := range questions {
		if len(result) == limit {
			log.Warn("⚠️ Form has more questions than the ticket modal can show", "form_id", *formID)
			break
		}
		result = append(result, sessions.TicketQuestion{
			Label:     q.Label,
			Paragraph: q.Style == models.FormQuestionStyleParagraph,
			Required:  q.Required,
		})
	}
	return result, nil
}

func requiresInvite(ref models.CategoryRef) bool {
	return ref.IsBuiltIn() && ref.BuiltIn.RequiresInvite()
}

// questionLimit is the number of form questions that fit next to the fixed modal fields
func questionLimit(ref models.CategoryRef) int {
	limit := maxModalInputs - 1
	if requiresInvite(ref) {
		limit--
	}
	return min(limit, models.MaxFormQuestions)
}

func categoryRows(sessionID string, items []components.Item, session sessions.CreateTicketSession) []clients.ActionRow {
	prompt := components.SelectionPrompt{
		Selectors: []components.Selector{{
			CustomID:    router.CreateTicketID(sessionID, router.ActionSetCategory),
			Placeholder: "Select a category",
			Items:       items,
			SelectedID:  session.Category.Value(),
			Page:        session.Page,
		}},
		SubmitID:    router.CreateTicketID(sessionID, router.ActionConfirmCategory),
		SubmitLabel: "Continue",
		CancelID:    router.CreateTicketID(sessionID, router.ActionCancel),
	}
	return prompt.Rows()
}

func ticketModal(sessionID string, session sessions.CreateTicketSession) clients.Modal {
	draft := session.Draft
	inputs := []clients.TextInput{
		components.TextField(titleField, "Title", draft.Title, false, true, maxTitleLength),
	}
	if requiresInvite(session.Category) {
		inputs = append(inputs, components.TextField(inviteField, "Server invite link", draft.Invite, false, true, maxInviteURLLength))
	}
	if len(session.Questions) == 0 {
		inputs = append(inputs, components.TextField(bodyField, "How can we help?", draft.Body, true, true, maxBodyLength))
	}
	answerMax := answerLength(session.Questions)
	for i, q := range session.Questions {
		label := utils.Truncate(q.Label, maxInputLabel)
		inputs = append(inputs, components.TextField(answerField(i), label, draft.Answers[i], q.Paragraph, q.Required, answerMax))
	}

	return clients.Modal{
		CustomID: router.CreateTicketID(sessionID, router.ActionMessage),
		Title:    "Open a ticket",
		Inputs:   inputs,
	}
}

// answerLength splits the body budget evenly between the questions once their labels are
// accounted for, so the composed body never exceeds maxBodyLength
func answerLength(questions []sessions.TicketQuestion) int {
	if len(questions) == 0 {
		return maxAnswerLength
	}
	budget := maxBodyLength
	for _, q := range questions {
		budget -= utf8.RuneCountInString(q.Label) + answerFraming
	}
	return max(1, min(maxAnswerLength, budget/len(questions)))
}

func answerField(i int) string {
	return answerFieldPrefix + strconv.Itoa(i)
}

func readDraft(it *models.Interaction, session sessions.CreateTicketSession) sessions.TicketDraft {
	draft := sessions.TicketDraft{
		Title:  strings.TrimSpace(it.Fields[titleField]),
		Invite: strings.TrimSpace(it.Fields[inviteField]),
	}
	if len(session.Questions) == 0 {
		draft.Body = strings.TrimSpace(it.Fields[bodyField])
	}
	for i := range session.Questions {
		draft.Answers[i] = strings.TrimSpace(it.Fields[answerField(i)])
	}
	return draft
}

// composeBody renders form answers as labelled paragraphs, or returns the free text body
func composeBody(questions []sessions.TicketQuestion, draft sessions.TicketDraft) string {
	if len(questions) == 0 {
		return draft.Body
	}
	parts := make([]string, 0, len(questions))
	for i, q := range questions {
		if draft.Answers[i] == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("**%s**\n%s", q.Label, draft.Answers[i]))
	}
	return strings.Join(parts, "\n\n")
}

func validateDraft(questions []sessions.TicketQuestion, draft sessions.TicketDraft, body string) string {
	if draft.Title == "" {
		return missingTitleMessage
	}
	for i, q := range questions {
		if q.Required && draft.Answers[i] == "" {
			return fmt.Sprintf("Please answer %q.", q.Label)
		}
	}
	if body == "" {
		return missingBodyMessage
	}
	return ""
}

func starterContent(userID string, invite mo.Option[services.PartnerInvite], body string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<@%s>\n", userID)
	if partner, ok := invite.Get(); ok {
		b.WriteString(InviteURL(partner.Code))
		b.WriteString("\n")
	}
	b.WriteString(body)
	return fitMessage(b.String())
}

func ticketControls() clients.ActionRow {
	return components.Row(
		clients.Button{CustomID: router.ReplyStartID(), Label: "Reply", Style: clients.ButtonStylePrimary},
		clients.Button{CustomID: router.TicketCloseID(), Label: "Close", Style: clients.ButtonStyleDanger},
	)
}

// withEcho appends what the user typed so it can be copied into a new attempt
func withEcho(message, title, body string) string {
	return fitMessage(fmt.Sprintf("%s\n\n**Title:** %s\n**Message:**\n%s", message, title, body))
}

// fitMessage cuts content that would still exceed the message limit. Modal limits keep
// composed messages below it, so this only trims input that bypassed them.
func fitMessage(content string) string {
	return utils.Truncate(content, clients.MaxMessageLength)
}

func respond(err error) error {
	if err != nil {
		return fmt.Errorf("failed to respond to interaction: %w", err)
	}
	return nil
}
