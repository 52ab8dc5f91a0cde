package models

import (
	"time"
)

// CustomCategory is a guild-defined ticket type bound to a destination channel
type CustomCategory struct {
	ID        string    `db:"id"         json:"id"`
	GuildID   string    `db:"guild_id"   json:"guild_id"`
	Name      string    `db:"name"       json:"name"`
	ChannelID string    `db:"channel_id" json:"channel_id"`
	FormID    *string   `db:"form_id"    json:"form_id,omitempty"`
	Active    bool      `db:"active"     json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// CategoryRef identifies the category a ticket is filed under: either a built-in category or
// a custom category ID, never both.
type CategoryRef struct {
	BuiltIn  BuiltInCategory
	CustomID string
}

func BuiltInRef(c BuiltInCategory) CategoryRef {
	return CategoryRef{BuiltIn: c}
}

func CustomRef(id string) CategoryRef {
	return CategoryRef{CustomID: id}
}

func (r CategoryRef) IsZero() bool {
	return r.BuiltIn == "" && r.CustomID == ""
}

func (r CategoryRef) IsBuiltIn() bool {
	return r.BuiltIn != ""
}

// Value is the select-menu value encoding of the reference
func (r CategoryRef) Value() string {
	if r.IsBuiltIn() {
		return string(r.BuiltIn)
	}
	return r.CustomID
}

// ParseCategoryRef decodes a select-menu value; built-in names win over custom IDs
func ParseCategoryRef(value string) CategoryRef {
	if c, ok := ParseBuiltInCategory(value); ok {
		return BuiltInRef(c)
	}
	return CustomRef(value)
}
