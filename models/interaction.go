package models

import (
	"time"
)

type InteractionType int

const (
	InteractionTypeCommand InteractionType = iota + 1
	InteractionTypeComponent
	InteractionTypeModalSubmit
)

func (t InteractionType) String() string {
	switch t {
	case InteractionTypeCommand:
		return "command"
	case InteractionTypeComponent:
		return "component"
	case InteractionTypeModalSubmit:
		return "modal_submit"
	}
	return "unknown"
}

// Interaction is the platform-neutral form of an inbound interaction event.
type Interaction struct {
	// ID, AppID and Token are needed to respond to the interaction
	ID    string
	AppID string
	Token string

	Type      InteractionType
	GuildID   string
	ChannelID string
	UserID    string
	// MemberRoleIDs and MemberPermissions describe the invoking member in GuildID
	MemberRoleIDs     []string
	MemberPermissions int64

	// Command fields. CommandPath holds the command name followed by any subcommand group
	// and subcommand names; Options holds leaf option values keyed by option name.
	CommandPath []string
	Options     map[string]string

	// Component and modal fields
	CustomID string
	Values   []string
	Fields   map[string]string
	// SourceMessageID is the message holding the component that was used, or that opened the
	// submitted modal. Empty for modals opened from a command.
	SourceMessageID string

	// Deferred is set once the interaction was acknowledged without content. The reply then
	// edits that acknowledgement.
	Deferred bool
}

// CommandName returns the top-level command name
func (i *Interaction) CommandName() string {
	if len(i.CommandPath) == 0 {
		return ""
	}
	return i.CommandPath[0]
}

// Subcommand returns the path element after the command name, or "" when absent
func (i *Interaction) Subcommand(depth int) string {
	if len(i.CommandPath) <= depth {
		return ""
	}
	return i.CommandPath[depth]
}

func (i *Interaction) Option(name string) (string, bool) {
	v, ok := i.Options[name]
	return v, ok && v != ""
}

// FirstValue returns the first selected value of a select-menu interaction
func (i *Interaction) FirstValue() (string, bool) {
	if len(i.Values) == 0 {
		return "", false
	}
	return i.Values[0], true
}

func (i *Interaction) HasRole(roleID string) bool {
	for _, r := range i.MemberRoleIDs {
		if r == roleID {
			return true
		}
	}
	return false
}

// AuditEvent is a moderation audit log entry delivered by the gateway
type AuditEvent struct {
	EntryID    string
	GuildID    string
	ActionType int
	ActorID    string
	TargetID   string
	Reason     string
	// Changes maps change keys to their new value as delivered by the platform
	Changes map[string]any
	// AutomodRuleName is only filled for automod entries
	AutomodRuleName string
	ReceivedAt      time.Time
}
