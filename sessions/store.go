package sessions

import (
	"time"

	"supportbot/core"
	"supportbot/models"
)

// DefaultTTL bounds how long an unfinished workflow keeps its state
const DefaultTTL = time.Hour

// TicketDraft holds what the user typed into the ticket modal so it can be offered again
// after a failed submission
type TicketDraft struct {
	Title   string
	Body    string
	Invite  string
	Answers [models.MaxFormQuestions]string
}

func (d TicketDraft) IsEmpty() bool {
	return d == TicketDraft{}
}

// TicketQuestion is a form question as it was shown in the ticket modal
type TicketQuestion struct {
	Label     string
	Paragraph bool
	Required  bool
}

// CreateTicketSession tracks one ticket being filed. Questions is captured when the category
// is confirmed and never mutated afterwards.
type CreateTicketSession struct {
	GuildID   string
	UserID    string
	Category  models.CategoryRef
	Page      uint
	Questions []TicketQuestion
	Draft     TicketDraft
}

type ReplySession struct {
	TicketID string
	GuildID  string
	ThreadID string
}

type SetupSession struct {
	GuildID     string
	UserID      string
	AdminRoleID string
	StaffRoleID string
}

// AssociationSession backs the two form association flows. TargetID is a custom category ID
// or a built-in category name depending on the flow.
type AssociationSession struct {
	GuildID    string
	UserID     string
	TargetID   string
	FormID     string
	TargetPage uint
	FormPage   uint
}

// Complete reports whether both selections have been made
func (s AssociationSession) Complete() bool {
	return s.TargetID != "" && s.FormID != ""
}

// Store holds one typed table per workflow kind. It is constructed once and passed to every
// workflow handler.
type Store struct {
	CreateTicket   *Table[CreateTicketSession]
	Reply          *Table[ReplySession]
	Setup          *Table[SetupSession]
	CategoryForm   *Table[AssociationSession]
	TicketTypeForm *Table[AssociationSession]
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		CreateTicket:   NewTable[CreateTicketSession]("create_ticket", ttl),
		Reply:          NewTable[ReplySession]("reply", ttl),
		Setup:          NewTable[SetupSession]("setup", ttl),
		CategoryForm:   NewTable[AssociationSession]("category_form", ttl),
		TicketTypeForm: NewTable[AssociationSession]("ticket_type_form", ttl),
	}
}

// NewSessionID generates a collision-resistant identifier that is safe to embed in custom IDs
func NewSessionID() string {
	return core.NewID("s")
}

// Close stops all expiry timers
func (s *Store) Close() {
	s.CreateTicket.Close()
	s.Reply.Close()
	s.Setup.Close()
	s.CategoryForm.Close()
	s.TicketTypeForm.Close()
}
