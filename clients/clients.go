package clients

import (
	"context"

	"supportbot/models"
)

// DiscordClient defines the chat platform operations the workflows need. Every method
// performs network I/O and must not be called while a session lock is held.
type DiscordClient interface {
	// Interaction responses. Each interaction can be answered exactly once, except that a
	// deferred interaction takes one RespondMessage which replaces the loading state.
	RespondMessage(ctx context.Context, interaction *models.Interaction, message Message) error
	DeferMessage(ctx context.Context, interaction *models.Interaction, ephemeral bool) error
	RespondUpdate(ctx context.Context, interaction *models.Interaction, message Message) error
	RespondModal(ctx context.Context, interaction *models.Interaction, modal Modal) error

	// Channel operations
	SendMessage(ctx context.Context, channelID string, message Message) (*PostedMessage, error)
	// UpdateMessage leaves the text unchanged when message.Content is empty
	UpdateMessage(ctx context.Context, channelID, messageID string, message Message) error
	DeleteMessage(ctx context.Context, channelID, messageID string) error
	SendDirectMessage(ctx context.Context, userID string, message Message) (*PostedMessage, error)
	CreateForumThread(ctx context.Context, channelID, name string, starter Message) (*Thread, error)
	LockThread(ctx context.Context, threadID string) error

	// Lookups
	ResolveInvite(ctx context.Context, code string) (*Invite, error)
	BotChannelPermissions(ctx context.Context, channelID string) (Permissions, error)
}
