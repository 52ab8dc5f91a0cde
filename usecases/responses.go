package usecases

import (
	"context"
	"fmt"

	"supportbot/clients"
	"supportbot/models"
)

const (
	ExpiredMessage       = "This interaction has expired. Please start again."
	InternalErrorMessage = "An internal error occurred. Please try again later."
	NotSetUpMessage      = "This server has not been set up yet. An administrator can run `/setup`."
	NotAdminMessage      = "Only server administrators can do that."
)

// RespondExpired answers an action whose session is gone. The prompt the action came from
// has its controls cleared so it cannot be submitted again. That covers components and
// modals opened from a component.
func RespondExpired(ctx context.Context, client clients.DiscordClient, it *models.Interaction) error {
	if it.Type == models.InteractionTypeComponent || it.SourceMessageID != "" {
		return respond(client.RespondUpdate(ctx, it, clients.Message{Content: ExpiredMessage, ClearRows: true}))
	}
	return RespondEphemeral(ctx, client, it, ExpiredMessage)
}

// RespondInternalError sends the generic reply for failures that are not the user's to fix
func RespondInternalError(ctx context.Context, client clients.DiscordClient, it *models.Interaction) error {
	return RespondEphemeral(ctx, client, it, InternalErrorMessage)
}

// DeferEphemeral acknowledges the interaction before slow work. The next RespondMessage,
// including RespondEphemeral and RespondInternalError, becomes the reply.
func DeferEphemeral(ctx context.Context, client clients.DiscordClient, it *models.Interaction) error {
	return respond(client.DeferMessage(ctx, it, true))
}

func RespondEphemeral(ctx context.Context, client clients.DiscordClient, it *models.Interaction, content string) error {
	return respond(client.RespondMessage(ctx, it, clients.Message{Content: content, Ephemeral: true}))
}

// RespondClosed replaces a prompt with a final message and no controls
func RespondClosed(ctx context.Context, client clients.DiscordClient, it *models.Interaction, content string) error {
	return respond(client.RespondUpdate(ctx, it, clients.Message{Content: content, ClearRows: true}))
}

func respond(err error) error {
	if err != nil {
		return fmt.Errorf("failed to respond to interaction: %w", err)
	}
	return nil
}
