package discord

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/bwmarrin/discordgo"

	"supportbot/clients"
	"supportbot/core"
	"supportbot/models"
)

// forumAutoArchiveMinutes keeps ticket threads visible for a week of inactivity
const forumAutoArchiveMinutes = 10080

// DiscordClient implements the clients.DiscordClient interface on top of a discordgo session
type DiscordClient struct {
	session *discordgo.Session
}

func NewDiscordClient(session *discordgo.Session) clients.DiscordClient {
	return &DiscordClient{session: session}
}

// RespondMessage answers the interaction, or fills in the reply of a deferred one. The
// ephemeral flag of a deferred reply was fixed when it was deferred.
func (c *DiscordClient) RespondMessage(
	ctx context.Context,
	interaction *models.Interaction,
	message clients.Message,
) error {
	if interaction.Deferred {
		_, err := c.session.InteractionResponseEdit(toTarget(interaction), toWebhookEdit(message), discordgo.WithContext(ctx))
		if err != nil {
			return fmt.Errorf("failed to edit deferred response %s: %w", interaction.ID, err)
		}
		return nil
	}
	return c.respond(ctx, interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: toResponseData(message),
	})
}

// DeferMessage acknowledges the interaction with a loading state so slow work can finish
// after the acknowledgement deadline
func (c *DiscordClient) DeferMessage(ctx context.Context, interaction *models.Interaction, ephemeral bool) error {
	response := &discordgo.InteractionResponse{Type: discordgo.InteractionResponseDeferredChannelMessageWithSource}
	if ephemeral {
		response.Data = &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral}
	}
	if err := c.respond(ctx, interaction, response); err != nil {
		return err
	}
	interaction.Deferred = true
	return nil
}

func (c *DiscordClient) RespondUpdate(
	ctx context.Context,
	interaction *models.Interaction,
	message clients.Message,
) error {
	return c.respond(ctx, interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: toResponseData(message),
	})
}

func (c *DiscordClient) RespondModal(ctx context.Context, interaction *models.Interaction, modal clients.Modal) error {
	return c.respond(ctx, interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: toModalData(modal),
	})
}

func (c *DiscordClient) respond(
	ctx context.Context,
	interaction *models.Interaction,
	response *discordgo.InteractionResponse,
) error {
	if err := c.session.InteractionRespond(toTarget(interaction), response, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to respond to interaction %s: %w", interaction.ID, err)
	}
	return nil
}

func (c *DiscordClient) SendMessage(
	ctx context.Context,
	channelID string,
	message clients.Message,
) (*clients.PostedMessage, error) {
	sent, err := c.session.ChannelMessageSendComplex(channelID, toMessageSend(message), discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to send message to channel %s: %w", channelID, err)
	}
	return &clients.PostedMessage{ChannelID: sent.ChannelID, MessageID: sent.ID}, nil
}

func (c *DiscordClient) UpdateMessage(
	ctx context.Context,
	channelID, messageID string,
	message clients.Message,
) error {
	components := toComponents(message)
	edit := &discordgo.MessageEdit{
		ID:      messageID,
		Channel: channelID,
	}
	if message.Content != "" {
		edit.Content = &message.Content
	}
	if components != nil {
		edit.Components = &components
	}
	if _, err := c.session.ChannelMessageEditComplex(edit, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to update message %s: %w", messageID, err)
	}
	return nil
}

func (c *DiscordClient) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	if err := c.session.ChannelMessageDelete(channelID, messageID, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to delete message %s: %w", messageID, err)
	}
	return nil
}

// SendDirectMessage opens (or reuses) the DM channel with userID and posts message in it
func (c *DiscordClient) SendDirectMessage(
	ctx context.Context,
	userID string,
	message clients.Message,
) (*clients.PostedMessage, error) {
	channel, err := c.session.UserChannelCreate(userID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to open DM channel with %s: %w", userID, err)
	}
	return c.SendMessage(ctx, channel.ID, message)
}

func (c *DiscordClient) CreateForumThread(
	ctx context.Context,
	channelID, name string,
	starter clients.Message,
) (*clients.Thread, error) {
	thread, err := c.session.ForumThreadStartComplex(
		channelID,
		&discordgo.ThreadStart{Name: name, AutoArchiveDuration: forumAutoArchiveMinutes},
		toMessageSend(starter),
		discordgo.WithContext(ctx),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create forum thread in %s: %w", channelID, err)
	}

	// A forum post's starter message shares the thread's ID
	return &clients.Thread{ID: thread.ID, StarterMessageID: thread.ID}, nil
}

func (c *DiscordClient) LockThread(ctx context.Context, threadID string) error {
	locked, archived := true, true
	_, err := c.session.ChannelEditComplex(
		threadID,
		&discordgo.ChannelEdit{Locked: &locked, Archived: &archived},
		discordgo.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("failed to lock thread %s: %w", threadID, err)
	}
	return nil
}

// ResolveInvite looks up an invite code. Unknown codes yield an error wrapping core.ErrNotFound.
func (c *DiscordClient) ResolveInvite(ctx context.Context, code string) (*clients.Invite, error) {
	invite, err := c.session.Invite(code, discordgo.WithContext(ctx))
	if err != nil {
		if isUnknownInvite(err) {
			return nil, fmt.Errorf("invite %q: %w", code, core.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to resolve invite %q: %w", code, err)
	}
	return toInvite(invite), nil
}

// BotChannelPermissions returns the bot's effective permissions in channelID
func (c *DiscordClient) BotChannelPermissions(ctx context.Context, channelID string) (clients.Permissions, error) {
	if c.session.State == nil || c.session.State.User == nil {
		return 0, fmt.Errorf("bot user is not known before the gateway is ready")
	}

	perms, err := c.session.UserChannelPermissions(c.session.State.User.ID, channelID, discordgo.WithContext(ctx))
	if err != nil {
		return 0, fmt.Errorf("failed to get permissions in channel %s: %w", channelID, err)
	}
	return clients.Permissions(perms), nil
}

func isUnknownInvite(err error) bool {
	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) {
		return false
	}
	if restErr.Message != nil && restErr.Message.Code == discordgo.ErrCodeUnknownInvite {
		return true
	}
	return restErr.Response != nil && restErr.Response.StatusCode == http.StatusNotFound
}

func toTarget(interaction *models.Interaction) *discordgo.Interaction {
	return &discordgo.Interaction{ID: interaction.ID, AppID: interaction.AppID, Token: interaction.Token}
}

func toInvite(invite *discordgo.Invite) *clients.Invite {
	result := &clients.Invite{Code: invite.Code, ExpiresAt: invite.ExpiresAt}
	if invite.Guild != nil {
		result.GuildID = invite.Guild.ID
		result.GuildName = invite.Guild.Name
	}
	return result
}
