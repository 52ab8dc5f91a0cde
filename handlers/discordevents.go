package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/gammazero/workerpool"
	"github.com/jpillora/backoff"

	"supportbot/clients"
	"supportbot/core"
	"supportbot/core/log"
	"supportbot/middleware"
	"supportbot/models"
	"supportbot/usecases"
)

// eventTimeout bounds the work done for one gateway event
const eventTimeout = 30 * time.Second

const commandRegistrationAttempts = 5

// InteractionDispatcher routes interactions to their workflow
type InteractionDispatcher interface {
	Dispatch(ctx context.Context, it *models.Interaction) error
}

// AuditEventHandler records moderation audit entries
type AuditEventHandler interface {
	HandleAuditEvent(ctx context.Context, event *models.AuditEvent) error
}

// EventProcessor runs one mapped event to completion and decides how failures are answered
type EventProcessor struct {
	discordClient clients.DiscordClient
	dispatcher    InteractionDispatcher
	auditHandler  AuditEventHandler
}

func NewEventProcessor(
	discordClient clients.DiscordClient,
	dispatcher InteractionDispatcher,
	auditHandler AuditEventHandler,
) *EventProcessor {
	return &EventProcessor{
		discordClient: discordClient,
		dispatcher:    dispatcher,
		auditHandler:  auditHandler,
	}
}

// ProcessInteraction dispatches it. Protocol errors are left unanswered; any other error is
// answered with the generic internal error reply, which fills in a deferred acknowledgement
// when the handler made one. The error is returned for alerting.
func (p *EventProcessor) ProcessInteraction(ctx context.Context, it *models.Interaction) error {
	err := p.dispatcher.Dispatch(ctx, it)
	if err == nil {
		return nil
	}

	if core.IsProtocolError(err) {
		log.Error("❌ Unroutable interaction", "type", it.Type.String(), "custom_id", it.CustomID,
			"command", it.CommandPath, "guild_id", it.GuildID, "error", err)
		return err
	}

	log.Error("❌ Failed to handle interaction", "type", it.Type.String(), "custom_id", it.CustomID,
		"command", it.CommandPath, "guild_id", it.GuildID, "user_id", it.UserID, "error", err)
	if respondErr := usecases.RespondInternalError(ctx, p.discordClient, it); respondErr != nil {
		log.Warn("⚠️ Failed to send internal error reply", "interaction_id", it.ID, "error", respondErr)
	}
	return err
}

func (p *EventProcessor) ProcessAuditEvent(ctx context.Context, event *models.AuditEvent) error {
	if err := p.auditHandler.HandleAuditEvent(ctx, event); err != nil {
		log.Error("❌ Failed to handle audit entry", "guild_id", event.GuildID, "audit_entry_id", event.EntryID,
			"action_type", event.ActionType, "error", err)
		return err
	}
	return nil
}

// DiscordEventsHandler connects the gateway session to the event processor. Every event runs
// as its own task on a bounded worker pool.
type DiscordEventsHandler struct {
	session    *discordgo.Session
	processor  *EventProcessor
	alerts     *middleware.ErrorAlertMiddleware
	pool       *workerpool.WorkerPool
	appID      string
	devGuildID string
}

func NewDiscordEventsHandler(
	session *discordgo.Session,
	processor *EventProcessor,
	alerts *middleware.ErrorAlertMiddleware,
	workers int,
	appID string,
	devGuildID string,
) *DiscordEventsHandler {
	handler := &DiscordEventsHandler{
		session:    session,
		processor:  processor,
		alerts:     alerts,
		pool:       workerpool.New(workers),
		appID:      appID,
		devGuildID: devGuildID,
	}

	session.AddHandler(handler.handleReady)
	session.AddHandler(handler.handleInteractionCreate)
	session.AddHandler(handler.handleAuditLogEntryCreate)

	session.Identify.Intents = discordgo.IntentGuilds |
		discordgo.IntentGuildModeration |
		discordgo.IntentAutoModerationExecution

	return handler
}

// StartBot opens the gateway connection and starts listening for events
func (h *DiscordEventsHandler) StartBot() error {
	if err := h.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}

	log.Info("🤖 Discord bot is now running and listening for events")
	return nil
}

// StopBot closes the gateway connection and waits for queued events to finish
func (h *DiscordEventsHandler) StopBot() {
	if err := h.session.Close(); err != nil {
		log.Warn("⚠️ Failed to close Discord session", "error", err)
	}
	h.pool.StopWait()
	h.alerts.Wait()
}

func (h *DiscordEventsHandler) handleReady(s *discordgo.Session, r *discordgo.Ready) {
	log.Info("🤖 Discord session ready", "guilds", len(r.Guilds))
	h.pool.Submit(h.alerts.WrapTask("register commands", func() error {
		return h.registerCommands(s)
	}))
}

// registerCommands overwrites the command set, on the dev guild when one is configured
func (h *DiscordEventsHandler) registerCommands(s *discordgo.Session) error {
	commands := SlashCommands()
	b := &backoff.Backoff{Min: time.Second, Max: 30 * time.Second, Factor: 2, Jitter: true}

	var err error
	for attempt := 1; attempt <= commandRegistrationAttempts; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), eventTimeout)
		_, err = s.ApplicationCommandBulkOverwrite(h.appID, h.devGuildID, commands, discordgo.WithContext(ctx))
		cancel()
		if err == nil {
			log.Info("📋 Registered slash commands", "count", len(commands), "dev_guild_id", h.devGuildID)
			return nil
		}

		if attempt == commandRegistrationAttempts {
			break
		}
		wait := b.Duration()
		log.Warn("⚠️ Failed to register slash commands, retrying", "attempt", attempt, "wait", wait.String(), "error", err)
		time.Sleep(wait)
	}
	return fmt.Errorf("failed to register slash commands: %w", err)
}

func (h *DiscordEventsHandler) handleInteractionCreate(_ *discordgo.Session, i *discordgo.InteractionCreate) {
	it, err := toInteraction(i.Interaction)
	if err != nil {
		log.Error("❌ Failed to map interaction", "interaction_id", i.ID, "error", err)
		return
	}

	h.pool.Submit(h.alerts.WrapTask("interaction "+it.Type.String(), func() error {
		ctx, cancel := context.WithTimeout(context.Background(), eventTimeout)
		defer cancel()
		return h.processor.ProcessInteraction(ctx, it)
	}))
}

func (h *DiscordEventsHandler) handleAuditLogEntryCreate(_ *discordgo.Session, e *discordgo.GuildAuditLogEntryCreate) {
	event := toAuditEvent(e, time.Now().UTC())

	h.pool.Submit(h.alerts.WrapTask("audit log entry", func() error {
		ctx, cancel := context.WithTimeout(context.Background(), eventTimeout)
		defer cancel()
		return h.processor.ProcessAuditEvent(ctx, event)
	}))
}
