package discord

import (
	"github.com/bwmarrin/discordgo"

	"supportbot/clients"
)

func toResponseData(message clients.Message) *discordgo.InteractionResponseData {
	data := &discordgo.InteractionResponseData{
		Content:    message.Content,
		Components: toComponents(message),
	}
	if message.Ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	return data
}

// toWebhookEdit fills in a deferred reply. Components are only sent when there are some, a
// deferred reply has none to clear.
func toWebhookEdit(message clients.Message) *discordgo.WebhookEdit {
	edit := &discordgo.WebhookEdit{Content: &message.Content}
	if components := toComponents(message); len(components) > 0 {
		edit.Components = &components
	}
	return edit
}

func toMessageSend(message clients.Message) *discordgo.MessageSend {
	return &discordgo.MessageSend{
		Content:    message.Content,
		Components: toComponents(message),
		// Mentions in ticket bodies are user input; only explicit user pings are allowed
		AllowedMentions: &discordgo.MessageAllowedMentions{
			Parse: []discordgo.AllowedMentionType{discordgo.AllowedMentionTypeUsers},
		},
	}
}

func toModalData(modal clients.Modal) *discordgo.InteractionResponseData {
	rows := make([]discordgo.MessageComponent, 0, len(modal.Inputs))
	for _, input := range modal.Inputs {
		rows = append(rows, discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{toTextInput(input)},
		})
	}
	return &discordgo.InteractionResponseData{
		CustomID:   modal.CustomID,
		Title:      modal.Title,
		Components: rows,
	}
}

// toComponents converts action rows. An update that clears rows must send an empty,
// non-nil slice; nil leaves the existing controls in place.
func toComponents(message clients.Message) []discordgo.MessageComponent {
	if len(message.Rows) == 0 {
		if message.ClearRows {
			return []discordgo.MessageComponent{}
		}
		return nil
	}

	rows := make([]discordgo.MessageComponent, 0, len(message.Rows))
	for _, row := range message.Rows {
		components := make([]discordgo.MessageComponent, 0, len(row.Components))
		for _, component := range row.Components {
			if converted := toComponent(component); converted != nil {
				components = append(components, converted)
			}
		}
		rows = append(rows, discordgo.ActionsRow{Components: components})
	}
	return rows
}

func toComponent(component clients.Component) discordgo.MessageComponent {
	switch c := component.(type) {
	case clients.Button:
		return discordgo.Button{
			CustomID: c.CustomID,
			Label:    c.Label,
			Style:    toButtonStyle(c.Style),
			Disabled: c.Disabled,
		}
	case clients.StringSelect:
		options := make([]discordgo.SelectMenuOption, 0, len(c.Options))
		for _, o := range c.Options {
			options = append(options, discordgo.SelectMenuOption{
				Label:       o.Label,
				Value:       o.Value,
				Description: o.Description,
				Default:     o.Default,
			})
		}
		return discordgo.SelectMenu{
			MenuType:    discordgo.StringSelectMenu,
			CustomID:    c.CustomID,
			Placeholder: c.Placeholder,
			Options:     options,
			Disabled:    c.Disabled,
		}
	case clients.RoleSelect:
		menu := discordgo.SelectMenu{
			MenuType:    discordgo.RoleSelectMenu,
			CustomID:    c.CustomID,
			Placeholder: c.Placeholder,
		}
		if c.DefaultRoleID != "" {
			menu.DefaultValues = []discordgo.SelectMenuDefaultValue{
				{ID: c.DefaultRoleID, Type: discordgo.SelectMenuDefaultValueRole},
			}
		}
		return menu
	case clients.TextInput:
		return toTextInput(c)
	}
	return nil
}

func toTextInput(input clients.TextInput) discordgo.TextInput {
	style := discordgo.TextInputShort
	if input.Paragraph {
		style = discordgo.TextInputParagraph
	}
	return discordgo.TextInput{
		CustomID:    input.CustomID,
		Label:       input.Label,
		Style:       style,
		Placeholder: input.Placeholder,
		Value:       input.Value,
		Required:    input.Required,
		MinLength:   input.MinLength,
		MaxLength:   input.MaxLength,
	}
}

func toButtonStyle(style clients.ButtonStyle) discordgo.ButtonStyle {
	switch style {
	case clients.ButtonStyleSecondary:
		return discordgo.SecondaryButton
	case clients.ButtonStyleSuccess:
		return discordgo.SuccessButton
	case clients.ButtonStyleDanger:
		return discordgo.DangerButton
	}
	return discordgo.PrimaryButton
}
