package services

import (
	"context"
	"time"

	"github.com/samber/mo"

	"supportbot/models"
)

// GuildConfigsService manages per-guild configuration
type GuildConfigsService interface {
	CreateGuildConfig(ctx context.Context, guildID, adminRoleID, staffRoleID string) (*models.GuildConfig, error)
	GetGuildConfig(ctx context.Context, guildID string) (mo.Option[*models.GuildConfig], error)
	SetChannelSetting(ctx context.Context, guildID string, setting models.GuildSetting, channelID *string) error
	SetTicketMessage(ctx context.Context, guildID, channelID, messageID string) error
	ClearTicketMessage(ctx context.Context, guildID string) error
	SetDefaultForm(ctx context.Context, guildID string, category models.BuiltInCategory, formID string) error
}

// OpenTicketParams carries everything persisted when a ticket thread has been created
type OpenTicketParams struct {
	GuildID          string
	UserID           string
	Title            string
	Body             string
	Category         models.CategoryRef
	ThreadID         string
	StarterMessageID string
	SentAt           time.Time
	// Invite is set for partnership requests only
	Invite mo.Option[PartnerInvite]
}

type PartnerInvite struct {
	Code           string
	PartnerGuildID string
}

// RecordMessageParams describes a delivered ticket message
type RecordMessageParams struct {
	TicketID       string
	AuthorID       string
	Body           string
	SentAt         time.Time
	StaffMessageID string
	UserMessageID  *string
}

// TicketsService manages tickets and their messages
type TicketsService interface {
	OpenTicket(ctx context.Context, params OpenTicketParams) (*models.Ticket, error)
	GetTicketByID(ctx context.Context, id string) (mo.Option[*models.Ticket], error)
	GetTicketByThreadID(ctx context.Context, threadID string) (mo.Option[*models.Ticket], error)
	RecordMessage(ctx context.Context, params RecordMessageParams) (*models.TicketMessage, error)
	GetTicketMessages(ctx context.Context, ticketID string) ([]*models.TicketMessage, error)
	CloseTicket(ctx context.Context, ticketID, closedBy string, closedAt time.Time) error
}

// CategoriesService manages guild-defined ticket categories
type CategoriesService interface {
	CreateCategory(ctx context.Context, guildID, name, channelID string) (*models.CustomCategory, error)
	GetActiveCategories(ctx context.Context, guildID string) ([]*models.CustomCategory, error)
	GetActiveCategory(ctx context.Context, guildID, id string) (mo.Option[*models.CustomCategory], error)
	DeactivateCategory(ctx context.Context, guildID, name string) error
	SetCategoryForm(ctx context.Context, guildID, categoryID, formID string) error
}

// FormsService manages ticket forms and their questions
type FormsService interface {
	CreateForm(ctx context.Context, guildID, name string) (*models.Form, error)
	GetForms(ctx context.Context, guildID string) ([]*models.Form, error)
	GetForm(ctx context.Context, guildID, id string) (mo.Option[*models.Form], error)
	AddQuestion(
		ctx context.Context,
		guildID, formName, label string,
		style models.FormQuestionStyle,
		required bool,
	) (*models.FormQuestion, error)
	GetQuestions(ctx context.Context, formID string) ([]*models.FormQuestion, error)
}

// ModerationService stores moderation audit records
type ModerationService interface {
	RecordAction(ctx context.Context, action *models.ModerationAction) (bool, error)
	GetHistory(ctx context.Context, guildID, targetID string) ([]*models.ModerationAction, error)
}

// TransactionManager runs fn with a context carrying a transaction. Repositories pick the
// transaction up through db/tx.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
