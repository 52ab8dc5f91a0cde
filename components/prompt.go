package components

import (
	"supportbot/clients"
)

// Selector describes one paged select of a selection prompt
type Selector struct {
	CustomID    string
	Placeholder string
	Items       []Item
	SelectedID  string
	Page        uint
}

// SelectionPrompt is the shared layout of every multi-step selection flow: one paged select
// per selector followed by a submit button and an optional cancel button.
type SelectionPrompt struct {
	Selectors   []Selector
	SubmitID    string
	SubmitLabel string
	CancelID    string
}

// Complete reports whether every selector has a chosen item
func (p SelectionPrompt) Complete() bool {
	for _, s := range p.Selectors {
		if s.SelectedID == "" {
			return false
		}
	}
	return true
}

// Rows renders the prompt; the submit button is enabled iff Complete
func (p SelectionPrompt) Rows() []clients.ActionRow {
	rows := make([]clients.ActionRow, 0, len(p.Selectors)+1)
	for _, s := range p.Selectors {
		rows = append(rows, Row(PagedSelect(s.CustomID, s.Placeholder, s.Items, s.SelectedID, s.Page)))
	}

	buttons := []clients.Component{SubmitButton(p.SubmitID, p.SubmitLabel, p.Complete())}
	if p.CancelID != "" {
		buttons = append(buttons, CancelButton(p.CancelID))
	}
	return append(rows, Row(buttons...))
}

func Row(components ...clients.Component) clients.ActionRow {
	return clients.ActionRow{Components: components}
}

func SubmitButton(customID, label string, enabled bool) clients.Button {
	return clients.Button{
		CustomID: customID,
		Label:    label,
		Style:    clients.ButtonStyleSuccess,
		Disabled: !enabled,
	}
}

func CancelButton(customID string) clients.Button {
	return clients.Button{CustomID: customID, Label: "Cancel", Style: clients.ButtonStyleSecondary}
}

// TextField builds a modal input. maxLength 0 leaves the platform default.
func TextField(customID, label, value string, paragraph, required bool, maxLength int) clients.TextInput {
	return clients.TextInput{
		CustomID:  customID,
		Label:     label,
		Value:     value,
		Paragraph: paragraph,
		Required:  required,
		MaxLength: maxLength,
	}
}
