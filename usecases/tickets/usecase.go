package tickets

import (
	"time"

	"supportbot/clients"
	"supportbot/core"
	"supportbot/models"
	"supportbot/services"
	"supportbot/sessions"
)

// TicketsUseCase runs the ticket creation, reply and close workflows
type TicketsUseCase struct {
	discordClient       clients.DiscordClient
	guildConfigsService services.GuildConfigsService
	ticketsService      services.TicketsService
	categoriesService   services.CategoriesService
	formsService        services.FormsService
	createSessions      sessions.Sessions[sessions.CreateTicketSession]
	replySessions       sessions.Sessions[sessions.ReplySession]
	now                 func() time.Time
}

func NewTicketsUseCase(
	discordClient clients.DiscordClient,
	guildConfigsService services.GuildConfigsService,
	ticketsService services.TicketsService,
	categoriesService services.CategoriesService,
	formsService services.FormsService,
	store *sessions.Store,
) *TicketsUseCase {
	return &TicketsUseCase{
		discordClient:       discordClient,
		guildConfigsService: guildConfigsService,
		ticketsService:      ticketsService,
		categoriesService:   categoriesService,
		formsService:        formsService,
		createSessions:      store.CreateTicket,
		replySessions:       store.Reply,
		now:                 time.Now,
	}
}

// sentAt prefers the creation time carried by the interaction ID so the record reflects when
// the user acted rather than when the request was processed.
func (u *TicketsUseCase) sentAt(it *models.Interaction) time.Time {
	now := u.now()
	t, err := core.SnowflakeTime(it.ID, now)
	if err != nil {
		return now.UTC()
	}
	return t
}
