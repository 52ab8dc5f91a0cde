package router

import (
	"context"
	"fmt"

	"supportbot/core"
	"supportbot/core/log"
	"supportbot/models"
)

type CreateTicketHandler interface {
	StartCreateTicket(ctx context.Context, it *models.Interaction) error
	SetCategory(ctx context.Context, it *models.Interaction, sessionID string) error
	ConfirmCategory(ctx context.Context, it *models.Interaction, sessionID string) error
	SubmitTicket(ctx context.Context, it *models.Interaction, sessionID string) error
	RetryTicket(ctx context.Context, it *models.Interaction, sessionID string) error
	CancelTicket(ctx context.Context, it *models.Interaction, sessionID string) error
}

// ReplyHandler serves both the reply button and the /reply command
type ReplyHandler interface {
	StartReply(ctx context.Context, it *models.Interaction) error
	SubmitReply(ctx context.Context, it *models.Interaction, sessionID string) error
}

type TicketHandler interface {
	CloseTicket(ctx context.Context, it *models.Interaction) error
}

type SetupHandler interface {
	StartSetup(ctx context.Context, it *models.Interaction) error
	SelectAdminRole(ctx context.Context, it *models.Interaction, sessionID string) error
	SelectStaffRole(ctx context.Context, it *models.Interaction, sessionID string) error
	ConfirmSetup(ctx context.Context, it *models.Interaction, sessionID string) error
	CancelSetup(ctx context.Context, it *models.Interaction, sessionID string) error
}

// SettingsHandler owns the /settings command tree and the two association flows
type SettingsHandler interface {
	HandleSettingsCommand(ctx context.Context, it *models.Interaction) error
	SelectTarget(ctx context.Context, it *models.Interaction, flow SettingsFlow, sessionID string) error
	SelectForm(ctx context.Context, it *models.Interaction, flow SettingsFlow, sessionID string) error
	SubmitAssociation(ctx context.Context, it *models.Interaction, flow SettingsFlow, sessionID string) error
	CancelAssociation(ctx context.Context, it *models.Interaction, flow SettingsFlow, sessionID string) error
}

// Command names registered with the platform
const (
	CommandSetup    = "setup"
	CommandSettings = "settings"
	CommandReply    = "reply"
	CommandClose    = "close"
)

type routeFunc func(ctx context.Context, it *models.Interaction, route Route) error
type commandFunc func(ctx context.Context, it *models.Interaction) error

// Router maps interactions to workflow handlers. Both tables are built once in NewRouter.
type Router struct {
	routes   map[Family]routeFunc
	commands map[string]commandFunc
}

func NewRouter(
	createTicket CreateTicketHandler,
	reply ReplyHandler,
	ticket TicketHandler,
	setup SetupHandler,
	settings SettingsHandler,
) *Router {
	routes := map[Family]routeFunc{
		FamilyCreateTicket: func(ctx context.Context, it *models.Interaction, r Route) error {
			switch r.Action {
			case ActionStart:
				return createTicket.StartCreateTicket(ctx, it)
			case ActionSetCategory:
				return createTicket.SetCategory(ctx, it, r.SessionID)
			case ActionConfirmCategory:
				return createTicket.ConfirmCategory(ctx, it, r.SessionID)
			case ActionMessage:
				return createTicket.SubmitTicket(ctx, it, r.SessionID)
			case ActionRetry:
				return createTicket.RetryTicket(ctx, it, r.SessionID)
			case ActionCancel:
				return createTicket.CancelTicket(ctx, it, r.SessionID)
			}
			return unroutable(r)
		},
		FamilyReply: func(ctx context.Context, it *models.Interaction, r Route) error {
			switch r.Action {
			case ActionStart:
				return reply.StartReply(ctx, it)
			case ActionMessage:
				return reply.SubmitReply(ctx, it, r.SessionID)
			}
			return unroutable(r)
		},
		FamilyTicket: func(ctx context.Context, it *models.Interaction, r Route) error {
			if r.Action == ActionClose {
				return ticket.CloseTicket(ctx, it)
			}
			return unroutable(r)
		},
		FamilySetup: func(ctx context.Context, it *models.Interaction, r Route) error {
			switch r.Action {
			case ActionAdminRole:
				return setup.SelectAdminRole(ctx, it, r.SessionID)
			case ActionStaffRole:
				return setup.SelectStaffRole(ctx, it, r.SessionID)
			case ActionConfirm:
				return setup.ConfirmSetup(ctx, it, r.SessionID)
			case ActionCancel:
				return setup.CancelSetup(ctx, it, r.SessionID)
			}
			return unroutable(r)
		},
		FamilySettings: func(ctx context.Context, it *models.Interaction, r Route) error {
			switch r.Action {
			case ActionCategory:
				return settings.SelectTarget(ctx, it, r.Flow, r.SessionID)
			case ActionForm:
				return settings.SelectForm(ctx, it, r.Flow, r.SessionID)
			case ActionSubmit:
				return settings.SubmitAssociation(ctx, it, r.Flow, r.SessionID)
			case ActionCancel:
				return settings.CancelAssociation(ctx, it, r.Flow, r.SessionID)
			}
			return unroutable(r)
		},
	}

	commands := map[string]commandFunc{
		CommandSetup:    setup.StartSetup,
		CommandSettings: settings.HandleSettingsCommand,
		CommandReply:    reply.StartReply,
		CommandClose:    ticket.CloseTicket,
	}

	return &Router{routes: routes, commands: commands}
}

// Dispatch hands the interaction to its workflow handler. Errors wrapping core.ErrProtocol mean
// the interaction did not match anything this build knows how to serve.
func (r *Router) Dispatch(ctx context.Context, it *models.Interaction) error {
	switch it.Type {
	case models.InteractionTypeCommand:
		name := it.CommandName()
		handle, ok := r.commands[name]
		if !ok {
			return fmt.Errorf("%w: unknown command %q", core.ErrProtocol, name)
		}
		log.Debug("📋 Dispatching command", "command", name, "guild_id", it.GuildID, "user_id", it.UserID)
		return handle(ctx, it)

	case models.InteractionTypeComponent, models.InteractionTypeModalSubmit:
		route, err := Parse(it.CustomID)
		if err != nil {
			return err
		}
		if route.IsModal() != (it.Type == models.InteractionTypeModalSubmit) {
			return fmt.Errorf("%w: custom ID %q delivered as %s", core.ErrProtocol, it.CustomID, it.Type)
		}
		handle, ok := r.routes[route.Family]
		if !ok {
			return unroutable(route)
		}
		log.Debug("📋 Dispatching interaction", "custom_id", it.CustomID, "guild_id", it.GuildID, "user_id", it.UserID)
		return handle(ctx, it, route)
	}

	return fmt.Errorf("%w: unsupported interaction type %s", core.ErrProtocol, it.Type)
}

// Commands returns the names of the commands the router serves
func (r *Router) Commands() []string {
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	return names
}

func unroutable(r Route) error {
	return fmt.Errorf("%w: no handler for %s", core.ErrProtocol, r.String())
}
