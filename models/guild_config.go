package models

import (
	"time"
)

// GuildConfig holds per-guild settings. It is only ever written by completed workflows.
type GuildConfig struct {
	GuildID     string `db:"guild_id"      json:"guild_id"`
	AdminRoleID string `db:"admin_role_id" json:"admin_role_id"`
	StaffRoleID string `db:"staff_role_id" json:"staff_role_id"`

	TicketChannelID          *string `db:"ticket_channel_id"           json:"ticket_channel_id,omitempty"`
	TicketMessageID          *string `db:"ticket_message_id"           json:"ticket_message_id,omitempty"`
	QuestionChannelID        *string `db:"question_channel_id"         json:"question_channel_id,omitempty"`
	SuggestionChannelID      *string `db:"suggestion_channel_id"       json:"suggestion_channel_id,omitempty"`
	ComplaintChannelID       *string `db:"complaint_channel_id"        json:"complaint_channel_id,omitempty"`
	NewPartnerChannelID      *string `db:"new_partner_channel_id"      json:"new_partner_channel_id,omitempty"`
	ExistingPartnerChannelID *string `db:"existing_partner_channel_id" json:"existing_partner_channel_id,omitempty"`
	MissingReasonChannelID   *string `db:"missing_reason_channel_id"   json:"missing_reason_channel_id,omitempty"`

	QuestionFormID        *string `db:"question_form_id"         json:"question_form_id,omitempty"`
	SuggestionFormID      *string `db:"suggestion_form_id"       json:"suggestion_form_id,omitempty"`
	ComplaintFormID       *string `db:"complaint_form_id"        json:"complaint_form_id,omitempty"`
	NewPartnerFormID      *string `db:"new_partner_form_id"      json:"new_partner_form_id,omitempty"`
	ExistingPartnerFormID *string `db:"existing_partner_form_id" json:"existing_partner_form_id,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ChannelForCategory returns the destination channel configured for a built-in category
func (g *GuildConfig) ChannelForCategory(category BuiltInCategory) *string {
	switch category {
	case BuiltInCategoryQuestion:
		return g.QuestionChannelID
	case BuiltInCategorySuggestion:
		return g.SuggestionChannelID
	case BuiltInCategoryComplaint:
		return g.ComplaintChannelID
	case BuiltInCategoryNewPartner:
		return g.NewPartnerChannelID
	case BuiltInCategoryExistingPartner:
		return g.ExistingPartnerChannelID
	}
	return nil
}

// FormForCategory returns the default form bound to a built-in category
func (g *GuildConfig) FormForCategory(category BuiltInCategory) *string {
	switch category {
	case BuiltInCategoryQuestion:
		return g.QuestionFormID
	case BuiltInCategorySuggestion:
		return g.SuggestionFormID
	case BuiltInCategoryComplaint:
		return g.ComplaintFormID
	case BuiltInCategoryNewPartner:
		return g.NewPartnerFormID
	case BuiltInCategoryExistingPartner:
		return g.ExistingPartnerFormID
	}
	return nil
}

// GuildSetting names a single nullable channel column that can be managed with
// /settings get|set|unset.
type GuildSetting string

const (
	GuildSettingTicketChannel          GuildSetting = "ticket_channel"
	GuildSettingQuestionChannel        GuildSetting = "question_channel"
	GuildSettingSuggestionChannel      GuildSetting = "suggestion_channel"
	GuildSettingComplaintChannel       GuildSetting = "complaint_channel"
	GuildSettingNewPartnerChannel      GuildSetting = "new_partner_channel"
	GuildSettingExistingPartnerChannel GuildSetting = "existing_partner_channel"
	GuildSettingMissingReasonChannel   GuildSetting = "missing_reason_channel"
)

// GuildSettings lists every managed setting in display order
var GuildSettings = []GuildSetting{
	GuildSettingTicketChannel,
	GuildSettingQuestionChannel,
	GuildSettingSuggestionChannel,
	GuildSettingComplaintChannel,
	GuildSettingNewPartnerChannel,
	GuildSettingExistingPartnerChannel,
	GuildSettingMissingReasonChannel,
}

// Column returns the guild_configs column backing the setting
func (s GuildSetting) Column() string {
	return string(s) + "_id"
}

func (s GuildSetting) IsValid() bool {
	for _, known := range GuildSettings {
		if s == known {
			return true
		}
	}
	return false
}

// Value reads the setting from a loaded config
func (g *GuildConfig) Value(setting GuildSetting) *string {
	switch setting {
	case GuildSettingTicketChannel:
		return g.TicketChannelID
	case GuildSettingQuestionChannel:
		return g.QuestionChannelID
	case GuildSettingSuggestionChannel:
		return g.SuggestionChannelID
	case GuildSettingComplaintChannel:
		return g.ComplaintChannelID
	case GuildSettingNewPartnerChannel:
		return g.NewPartnerChannelID
	case GuildSettingExistingPartnerChannel:
		return g.ExistingPartnerChannelID
	case GuildSettingMissingReasonChannel:
		return g.MissingReasonChannelID
	}
	return nil
}
