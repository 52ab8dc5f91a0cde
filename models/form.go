package models

import (
	"time"
)

type Form struct {
	ID        string    `db:"id"         json:"id"`
	GuildID   string    `db:"guild_id"   json:"guild_id"`
	Name      string    `db:"name"       json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// MaxFormQuestions is the number of free-form questions a ticket modal has room for next to
// its title field
const MaxFormQuestions = 4

type FormQuestionStyle string

const (
	FormQuestionStyleShort     FormQuestionStyle = "short"
	FormQuestionStyleParagraph FormQuestionStyle = "paragraph"
)

// FormQuestion is ordered within its form by Position; positions need not be contiguous.
type FormQuestion struct {
	ID       string            `db:"id"       json:"id"`
	FormID   string            `db:"form_id"  json:"form_id"`
	Position int               `db:"position" json:"position"`
	Label    string            `db:"label"    json:"label"`
	Style    FormQuestionStyle `db:"style"    json:"style"`
	Required bool              `db:"required" json:"required"`
}
