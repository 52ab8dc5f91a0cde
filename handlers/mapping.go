package handlers

import (
	"fmt"
	"strconv"
	"time"

	"github.com/bwmarrin/discordgo"

	"supportbot/core"
	"supportbot/models"
)

// toInteraction maps a gateway interaction to the platform-neutral model. Interaction types
// the bot never registers for (autocomplete, pings) are protocol errors.
func toInteraction(i *discordgo.Interaction) (*models.Interaction, error) {
	it := &models.Interaction{
		ID:        i.ID,
		AppID:     i.AppID,
		Token:     i.Token,
		GuildID:   i.GuildID,
		ChannelID: i.ChannelID,
	}
	if i.Message != nil {
		it.SourceMessageID = i.Message.ID
	}

	switch {
	case i.Member != nil:
		if i.Member.User != nil {
			it.UserID = i.Member.User.ID
		}
		it.MemberRoleIDs = i.Member.Roles
		it.MemberPermissions = i.Member.Permissions
	case i.User != nil:
		it.UserID = i.User.ID
	}

	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		data := i.ApplicationCommandData()
		it.Type = models.InteractionTypeCommand
		it.CommandPath = []string{data.Name}
		it.Options = make(map[string]string)
		if err := flattenOptions(it, data.Options); err != nil {
			return nil, err
		}
	case discordgo.InteractionMessageComponent:
		data := i.MessageComponentData()
		it.Type = models.InteractionTypeComponent
		it.CustomID = data.CustomID
		it.Values = data.Values
	case discordgo.InteractionModalSubmit:
		data := i.ModalSubmitData()
		it.Type = models.InteractionTypeModalSubmit
		it.CustomID = data.CustomID
		it.Fields = modalFields(data.Components)
	default:
		return nil, fmt.Errorf("%w: unsupported interaction type %s", core.ErrProtocol, i.Type)
	}

	return it, nil
}

// flattenOptions appends subcommand groups and subcommands to the command path and collects
// leaf options as strings
func flattenOptions(it *models.Interaction, options []*discordgo.ApplicationCommandInteractionDataOption) error {
	for _, option := range options {
		switch option.Type {
		case discordgo.ApplicationCommandOptionSubCommandGroup, discordgo.ApplicationCommandOptionSubCommand:
			it.CommandPath = append(it.CommandPath, option.Name)
			if err := flattenOptions(it, option.Options); err != nil {
				return err
			}
		default:
			value, err := optionString(option)
			if err != nil {
				return err
			}
			it.Options[option.Name] = value
		}
	}
	return nil
}

func optionString(option *discordgo.ApplicationCommandInteractionDataOption) (string, error) {
	switch v := option.Value.(type) {
	case string:
		return v, nil
	case bool:
		return strconv.FormatBool(v), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	}
	return "", fmt.Errorf("%w: option %q has unsupported value type %T", core.ErrProtocol, option.Name, option.Value)
}

func modalFields(rows []discordgo.MessageComponent) map[string]string {
	fields := make(map[string]string)
	for _, row := range rows {
		var components []discordgo.MessageComponent
		switch r := row.(type) {
		case *discordgo.ActionsRow:
			components = r.Components
		case discordgo.ActionsRow:
			components = r.Components
		}
		for _, component := range components {
			switch input := component.(type) {
			case *discordgo.TextInput:
				fields[input.CustomID] = input.Value
			case discordgo.TextInput:
				fields[input.CustomID] = input.Value
			}
		}
	}
	return fields
}

// toAuditEvent maps a gateway audit log entry. Change values are kept as delivered.
func toAuditEvent(e *discordgo.GuildAuditLogEntryCreate, receivedAt time.Time) *models.AuditEvent {
	event := &models.AuditEvent{
		GuildID:    e.GuildID,
		ReceivedAt: receivedAt,
		Changes:    make(map[string]any),
	}
	entry := e.AuditLogEntry
	if entry == nil {
		return event
	}

	event.EntryID = entry.ID
	event.ActorID = entry.UserID
	event.TargetID = entry.TargetID
	event.Reason = entry.Reason
	if entry.ActionType != nil {
		event.ActionType = int(*entry.ActionType)
	}
	for _, change := range entry.Changes {
		if change == nil || change.Key == nil {
			continue
		}
		event.Changes[string(*change.Key)] = change.NewValue
	}
	if entry.Options != nil {
		event.AutomodRuleName = entry.Options.AutoModerationRuleName
	}
	return event
}
