package models

import (
	"time"
)

type BuiltInCategory string

const (
	BuiltInCategoryQuestion        BuiltInCategory = "question"
	BuiltInCategorySuggestion      BuiltInCategory = "suggestion"
	BuiltInCategoryComplaint       BuiltInCategory = "complaint"
	BuiltInCategoryNewPartner      BuiltInCategory = "new_partner"
	BuiltInCategoryExistingPartner BuiltInCategory = "existing_partner"
)

// BuiltInCategories lists the code-defined ticket types in display order
var BuiltInCategories = []BuiltInCategory{
	BuiltInCategoryQuestion,
	BuiltInCategorySuggestion,
	BuiltInCategoryComplaint,
	BuiltInCategoryNewPartner,
	BuiltInCategoryExistingPartner,
}

func ParseBuiltInCategory(value string) (BuiltInCategory, bool) {
	for _, c := range BuiltInCategories {
		if string(c) == value {
			return c, true
		}
	}
	return "", false
}

func (c BuiltInCategory) DisplayName() string {
	switch c {
	case BuiltInCategoryQuestion:
		return "Question"
	case BuiltInCategorySuggestion:
		return "Suggestion"
	case BuiltInCategoryComplaint:
		return "Complaint"
	case BuiltInCategoryNewPartner:
		return "New Partner"
	case BuiltInCategoryExistingPartner:
		return "Existing Partner"
	}
	return string(c)
}

// RequiresInvite reports whether tickets of this category must carry a partner invite
func (c BuiltInCategory) RequiresInvite() bool {
	return c == BuiltInCategoryNewPartner
}

// Ticket is a support conversation. Exactly one of BuiltInCategory and CustomCategoryID is set.
type Ticket struct {
	ID               string           `db:"id"                 json:"id"`
	GuildID          string           `db:"guild_id"           json:"guild_id"`
	UserID           string           `db:"user_id"            json:"user_id"`
	Title            string           `db:"title"              json:"title"`
	BuiltInCategory  *BuiltInCategory `db:"built_in_category"  json:"built_in_category,omitempty"`
	CustomCategoryID *string          `db:"custom_category_id" json:"custom_category_id,omitempty"`
	Open             bool             `db:"open"               json:"open"`
	ThreadID         string           `db:"thread_id"          json:"thread_id"`
	ClosedBy         *string          `db:"closed_by"          json:"closed_by,omitempty"`
	ClosedAt         *time.Time       `db:"closed_at"          json:"closed_at,omitempty"`
	CreatedAt        time.Time        `db:"created_at"         json:"created_at"`
}

// TicketMessage is one logical message of a ticket. StaffMessageID points at the copy in the
// staff thread; UserMessageID at the copy delivered to the user, nil when none exists.
type TicketMessage struct {
	ID             string    `db:"id"               json:"id"`
	TicketID       string    `db:"ticket_id"        json:"ticket_id"`
	AuthorID       string    `db:"author_id"        json:"author_id"`
	SentAt         time.Time `db:"sent_at"          json:"sent_at"`
	Body           string    `db:"body"             json:"body"`
	StaffMessageID string    `db:"staff_message_id" json:"staff_message_id"`
	UserMessageID  *string   `db:"user_message_id"  json:"user_message_id,omitempty"`
}

// Internal reports whether the message has no user-facing copy
func (m *TicketMessage) Internal() bool {
	return m.UserMessageID == nil
}

// PendingPartner records a partnership request awaiting staff review
type PendingPartner struct {
	TicketID       string    `db:"ticket_id"        json:"ticket_id"`
	GuildID        string    `db:"guild_id"         json:"guild_id"`
	InviteCode     string    `db:"invite_code"      json:"invite_code"`
	PartnerGuildID string    `db:"partner_guild_id" json:"partner_guild_id"`
	CreatedAt      time.Time `db:"created_at"       json:"created_at"`
}
