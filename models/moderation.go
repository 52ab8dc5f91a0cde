package models

import (
	"time"
)

type ModerationKind string

const (
	ModerationKindBan     ModerationKind = "ban"
	ModerationKindKick    ModerationKind = "kick"
	ModerationKindTimeout ModerationKind = "timeout"
	ModerationKindAutomod ModerationKind = "automod"
)

// ModerationAction is a persisted moderation audit record. Until is only set for timeouts,
// AutomodAction and RuleName only for automod records.
type ModerationAction struct {
	ID            string         `db:"id"             json:"id"`
	Kind          ModerationKind `db:"kind"           json:"kind"`
	GuildID       string         `db:"guild_id"       json:"guild_id"`
	AuditEntryID  string         `db:"audit_entry_id" json:"audit_entry_id"`
	ActorID       string         `db:"actor_id"       json:"actor_id"`
	TargetID      string         `db:"target_id"      json:"target_id"`
	Reason        string         `db:"reason"         json:"reason"`
	HappenedAt    time.Time      `db:"happened_at"    json:"happened_at"`
	Until         *time.Time     `db:"until"          json:"until,omitempty"`
	AutomodAction *string        `db:"automod_action" json:"automod_action,omitempty"`
	RuleName      *string        `db:"rule_name"      json:"rule_name,omitempty"`
}
