package setup

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
	"supportbot/services"
	"supportbot/sessions"
	"supportbot/usecases"
)

const (
	setupPrompt           = "Select the admin and staff roles for this server."
	alreadySetUpMessage   = "This server is already set up."
	bothRolesMessage      = "Both roles must be selected."
	setupCancelledMessage = "Setup cancelled."
)

var errRolesMissing = errors.New("admin and staff roles must both be selected")

// SetupUseCase runs the first-time guild setup workflow
type SetupUseCase struct {
	discordClient       clients.DiscordClient
	guildConfigsService services.GuildConfigsService
	setupSessions       sessions.Sessions[sessions.SetupSession]
}

func NewSetupUseCase(
	discordClient clients.DiscordClient,
	guildConfigsService services.GuildConfigsService,
	store *sessions.Store,
) *SetupUseCase {
	return &SetupUseCase{
		discordClient:       discordClient,
		guildConfigsService: guildConfigsService,
		setupSessions:       store.Setup,
	}
}

func (u *SetupUseCase) StartSetup(ctx context.Context, it *models.Interaction) error {
	log.Info("📋 Starting guild setup", "guild_id", it.GuildID, "user_id", it.UserID)
	if !usecases.IsAdmin(it, nil) {
		return usecases.RespondEphemeral(ctx, u.discordClient, it, usecases.NotAdminMessage)
	}

	maybeConfig, err := u.guildConfigsService.GetGuildConfig(ctx, it.GuildID)
	if err != nil {
		return fmt.Errorf("failed to get guild config: %w", err)
	}
	if maybeConfig.IsPresent() {
		return usecases.RespondEphemeral(ctx, u.discordClient, it, alreadySetUpMessage)
	}

	sessionID := sessions.NewSessionID()
	session := sessions.SetupSession{GuildID: it.GuildID, UserID: it.UserID}
	if err := u.setupSessions.Create(sessionID, session); err != nil {
		return fmt.Errorf("failed to create setup session: %w", err)
	}

	return respond(u.discordClient.RespondMessage(ctx, it, clients.Message{
		Content:   setupPrompt,
		Rows:      setupRows(sessionID, session),
		Ephemeral: true,
	}))
}

func (u *SetupUseCase) SelectAdminRole(ctx context.Context, it *models.Interaction, sessionID string) error {
	return u.selectRole(ctx, it, sessionID, func(s *sessions.SetupSession, roleID string) { s.AdminRoleID = roleID })
}

func (u *SetupUseCase) SelectStaffRole(ctx context.Context, it *models.Interaction, sessionID string) error {
	return u.selectRole(ctx, it, sessionID, func(s *sessions.SetupSession, roleID string) { s.StaffRoleID = roleID })
}

func (u *SetupUseCase) selectRole(
	ctx context.Context,
	it *models.Interaction,
	sessionID string,
	set func(*sessions.SetupSession, string),
) error {
	roleID, ok := it.FirstValue()
	if !ok {
		return fmt.Errorf("%w: role select without a value", core.ErrProtocol)
	}

	updated := u.setupSessions.Update(sessionID, func(s *sessions.SetupSession) { set(s, roleID) })
	session, ok := updated.Get()
	if !ok {
		return usecases.RespondExpired(ctx, u.discordClient, it)
	}

	return respond(u.discordClient.RespondUpdate(ctx, it, clients.Message{
		Content: setupPrompt,
		Rows:    setupRows(sessionID, session),
	}))
}

// ConfirmSetup consumes the session only when both roles are present. The disabled confirm
// button is not trusted since the client may show a stale prompt.
func (u *SetupUseCase) ConfirmSetup(ctx context.Context, it *models.Interaction, sessionID string) error {
	maybeSession, err := u.setupSessions.RemoveIf(sessionID, func(s sessions.SetupSession) error {
		if s.AdminRoleID == "" || s.StaffRoleID == "" {
			return errRolesMissing
		}
		return nil
	})
	if errors.Is(err, errRolesMissing) {
		return usecases.RespondEphemeral(ctx, u.discordClient, it, bothRolesMessage)
	}
	session, ok := maybeSession.Get()
	if !ok {
		return usecases.RespondExpired(ctx, u.discordClient, it)
	}

	_, err = u.guildConfigsService.CreateGuildConfig(ctx, session.GuildID, session.AdminRoleID, session.StaffRoleID)
	if core.IsConflictError(err) {
		log.Info("🔍 Guild was set up concurrently", "guild_id", session.GuildID)
		return usecases.RespondClosed(ctx, u.discordClient, it, alreadySetUpMessage)
	}
	if err != nil {
		return fmt.Errorf("failed to create guild config: %w", err)
	}

	log.Info("📋 Completed successfully - guild set up", "guild_id", session.GuildID)
	return usecases.RespondClosed(ctx, u.discordClient, it, fmt.Sprintf(
		"Setup complete. Admin role: <@&%s>, staff role: <@&%s>.\n"+
			"Use `/settings set` to choose the ticket channels.",
		session.AdminRoleID, session.StaffRoleID,
	))
}

func (u *SetupUseCase) CancelSetup(ctx context.Context, it *models.Interaction, sessionID string) error {
	if u.setupSessions.Remove(sessionID).IsAbsent() {
		return usecases.RespondExpired(ctx, u.discordClient, it)
	}
	return usecases.RespondClosed(ctx, u.discordClient, it, setupCancelledMessage)
}

func setupRows(sessionID string, session sessions.SetupSession) []clients.ActionRow {
	complete := session.AdminRoleID != "" && session.StaffRoleID != ""
	return []clients.ActionRow{
		components.Row(clients.RoleSelect{
			CustomID:      router.SetupID(sessionID, router.ActionAdminRole),
			Placeholder:   "Admin role",
			DefaultRoleID: session.AdminRoleID,
		}),
		components.Row(clients.RoleSelect{
			CustomID:      router.SetupID(sessionID, router.ActionStaffRole),
			Placeholder:   "Staff role",
			DefaultRoleID: session.StaffRoleID,
		}),
		components.Row(
			components.SubmitButton(router.SetupID(sessionID, router.ActionConfirm), "Confirm", complete),
			components.CancelButton(router.SetupID(sessionID, router.ActionCancel)),
		),
	}
}

func respond(err error) error {
	if err != nil {
		return fmt.Errorf("failed to respond to interaction: %w", err)
	}
	return nil
}
