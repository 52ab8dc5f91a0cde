package forms

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/mo"

	"supportbot/core"
	"supportbot/core/log"
	"supportbot/db"
	"supportbot/models"
)

const (
	MaxQuestions = models.MaxFormQuestions
	// MaxLabelLength is the platform limit for text input labels
	MaxLabelLength = 45
	MaxNameLength  = 100
)

type FormsRepository interface {
	CreateForm(ctx context.Context, form *models.Form) error
	GetFormsByGuildID(ctx context.Context, guildID string) ([]*models.Form, error)
	GetFormByID(ctx context.Context, guildID, id string) (mo.Option[*models.Form], error)
	GetFormByName(ctx context.Context, guildID, name string) (mo.Option[*models.Form], error)
	AddFormQuestion(ctx context.Context, question *models.FormQuestion) error
	GetFormQuestions(ctx context.Context, formID string) ([]*models.FormQuestion, error)
}

type FormsService struct {
	repo FormsRepository
}

func NewFormsService(repo FormsRepository) *FormsService {
	return &FormsService{repo: repo}
}

func (s *FormsService) CreateForm(ctx context.Context, guildID, name string) (*models.Form, error) {
	log.Info("📋 Starting to create form", "guild_id", guildID, "name", name)
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("form name cannot be empty")
	}
	if len([]rune(name)) > MaxNameLength {
		return nil, fmt.Errorf("form name cannot exceed %d characters", MaxNameLength)
	}

	form := &models.Form{ID: core.NewID("frm"), GuildID: guildID, Name: name}
	if err := s.repo.CreateForm(ctx, form); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, fmt.Errorf("form %q already exists: %w", name, core.ErrConflict)
		}
		return nil, fmt.Errorf("failed to create form: %w", err)
	}

	log.Info("📋 Completed successfully - created form", "form_id", form.ID)
	return form, nil
}

func (s *FormsService) GetForms(ctx context.Context, guildID string) ([]*models.Form, error) {
	forms, err := s.repo.GetFormsByGuildID(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to get forms: %w", err)
	}
	return forms, nil
}

// GetForm looks a form up by ID within a guild; IDs from other guilds are absent
func (s *FormsService) GetForm(ctx context.Context, guildID, id string) (mo.Option[*models.Form], error) {
	if !core.IsValidULID(id) {
		return mo.None[*models.Form](), nil
	}

	maybeForm, err := s.repo.GetFormByID(ctx, guildID, id)
	if err != nil {
		return mo.None[*models.Form](), fmt.Errorf("failed to get form: %w", err)
	}
	return maybeForm, nil
}

// AddQuestion appends a question to the named form. Forms hold at most MaxQuestions questions;
// a full form yields an error wrapping core.ErrConflict.
func (s *FormsService) AddQuestion(
	ctx context.Context,
	guildID, formName, label string,
	style models.FormQuestionStyle,
	required bool,
) (*models.FormQuestion, error) {
	log.Info("📋 Starting to add form question", "guild_id", guildID, "form", formName)
	label = strings.TrimSpace(label)
	if label == "" {
		return nil, fmt.Errorf("question label cannot be empty")
	}
	if len([]rune(label)) > MaxLabelLength {
		return nil, fmt.Errorf("question label cannot exceed %d characters", MaxLabelLength)
	}
	if style != models.FormQuestionStyleShort && style != models.FormQuestionStyleParagraph {
		return nil, fmt.Errorf("unknown question style %q", style)
	}

	maybeForm, err := s.repo.GetFormByName(ctx, guildID, strings.TrimSpace(formName))
	if err != nil {
		return nil, fmt.Errorf("failed to get form: %w", err)
	}
	form, ok := maybeForm.Get()
	if !ok {
		return nil, fmt.Errorf("form %q: %w", formName, core.ErrNotFound)
	}

	existing, err := s.repo.GetFormQuestions(ctx, form.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get form questions: %w", err)
	}
	if len(existing) >= MaxQuestions {
		return nil, fmt.Errorf("form %q already has %d questions: %w", form.Name, MaxQuestions, core.ErrConflict)
	}

	question := &models.FormQuestion{
		ID:       core.NewID("frq"),
		FormID:   form.ID,
		Label:    label,
		Style:    style,
		Required: required,
	}
	if err := s.repo.AddFormQuestion(ctx, question); err != nil {
		return nil, fmt.Errorf("failed to add form question: %w", err)
	}

	log.Info("📋 Completed successfully - added form question", "form_id", form.ID, "position", question.Position)
	return question, nil
}

// GetQuestions returns the form's questions ordered by position
func (s *FormsService) GetQuestions(ctx context.Context, formID string) ([]*models.FormQuestion, error) {
	questions, err := s.repo.GetFormQuestions(ctx, formID)
	if err != nil {
		return nil, fmt.Errorf("failed to get form questions: %w", err)
	}
	return questions, nil
}
