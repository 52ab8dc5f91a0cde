package clients

import (
	"time"
)

// Permissions is a platform permission bit set
type Permissions int64

const (
	PermissionAdministrator Permissions = 1 << 3
	PermissionViewChannel   Permissions = 1 << 10
	PermissionSendMessages  Permissions = 1 << 11
	PermissionManageThreads Permissions = 1 << 34
)

// Has reports whether every bit of required is granted. Administrator implies everything.
func (p Permissions) Has(required Permissions) bool {
	if p&PermissionAdministrator != 0 {
		return true
	}
	return p&required == required
}

// MaxMessageLength is the most characters a message or interaction reply may carry
const MaxMessageLength = 2000

// Message is the content of a posted message or an interaction reply
type Message struct {
	Content string
	Rows    []ActionRow
	// Ephemeral replies are only visible to the invoking user
	Ephemeral bool
	// ClearRows removes all controls when updating a message that had some
	ClearRows bool
}

// Modal is a pop-up form of text inputs
type Modal struct {
	CustomID string
	Title    string
	Inputs   []TextInput
}

type ActionRow struct {
	Components []Component
}

// Component is one interactive control inside an action row
type Component interface {
	ComponentCustomID() string
}

type ButtonStyle int

const (
	ButtonStylePrimary ButtonStyle = iota + 1
	ButtonStyleSecondary
	ButtonStyleSuccess
	ButtonStyleDanger
)

type Button struct {
	CustomID string
	Label    string
	Style    ButtonStyle
	Disabled bool
}

func (b Button) ComponentCustomID() string { return b.CustomID }

type SelectOption struct {
	Label       string
	Value       string
	Description string
	Default     bool
}

type StringSelect struct {
	CustomID    string
	Placeholder string
	Options     []SelectOption
	Disabled    bool
}

func (s StringSelect) ComponentCustomID() string { return s.CustomID }

// RoleSelect lets the user pick one guild role
type RoleSelect struct {
	CustomID      string
	Placeholder   string
	DefaultRoleID string
}

func (s RoleSelect) ComponentCustomID() string { return s.CustomID }

type TextInput struct {
	CustomID    string
	Label       string
	Placeholder string
	Value       string
	Paragraph   bool
	Required    bool
	MinLength   int
	MaxLength   int
}

func (t TextInput) ComponentCustomID() string { return t.CustomID }

type PostedMessage struct {
	ChannelID string
	MessageID string
}

// Thread is a created forum post. StarterMessageID is the first message in it.
type Thread struct {
	ID               string
	StarterMessageID string
}

// Invite is a resolved invite code. GuildID is empty for non-guild invites.
type Invite struct {
	Code      string
	GuildID   string
	GuildName string
	ExpiresAt *time.Time
}

// IsPermanentGuildInvite reports whether the invite targets a guild and never expires
func (i *Invite) IsPermanentGuildInvite() bool {
	return i.GuildID != "" && i.ExpiresAt == nil
}
