package forms

import (
	"context"
	"testing"

	"github.com/lib/pq"
	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"supportbot/core"
	"supportbot/models"
)

type MockFormsRepository struct {
	mock.Mock
}

func (m *MockFormsRepository) CreateForm(ctx context.Context, form *models.Form) error {
	args := m.Called(ctx, form)
	return args.Error(0)
}

func (m *MockFormsRepository) GetFormsByGuildID(ctx context.Context, guildID string) ([]*models.Form, error) {
	args := m.Called(ctx, guildID)
	return args.Get(0).([]*models.Form), args.Error(1)
}

func (m *MockFormsRepository) GetFormByID(ctx context.Context, guildID, id string) (mo.Option[*models.Form], error) {
	args := m.Called(ctx, guildID, id)
	return args.Get(0).(mo.Option[*models.Form]), args.Error(1)
}

func (m *MockFormsRepository) GetFormByName(ctx context.Context, guildID, name string) (mo.Option[*models.Form], error) {
	args := m.Called(ctx, guildID, name)
	return args.Get(0).(mo.Option[*models.Form]), args.Error(1)
}

func (m *MockFormsRepository) AddFormQuestion(ctx context.Context, question *models.FormQuestion) error {
	args := m.Called(ctx, question)
	return args.Error(0)
}

func (m *MockFormsRepository) GetFormQuestions(ctx context.Context, formID string) ([]*models.FormQuestion, error) {
	args := m.Called(ctx, formID)
	return args.Get(0).([]*models.FormQuestion), args.Error(1)
}

func TestFormsService_CreateForm_Duplicate(t *testing.T) {
	ctx := context.Background()
	repo := &MockFormsRepository{}
	repo.On("CreateForm", ctx, mock.Anything).Return(&pq.Error{Code: "23505"})

	_, err := NewFormsService(repo).CreateForm(ctx, "g1", "Partner")
	assert.True(t, core.IsConflictError(err))
}

func TestFormsService_AddQuestion(t *testing.T) {
	ctx := context.Background()
	form := &models.Form{ID: core.NewID("frm"), GuildID: "g1", Name: "Partner"}

	t.Run("appends question", func(t *testing.T) {
		repo := &MockFormsRepository{}
		repo.On("GetFormByName", ctx, "g1", "Partner").Return(mo.Some(form), nil)
		repo.On("GetFormQuestions", ctx, form.ID).Return([]*models.FormQuestion{{ID: "q1", Position: 1}}, nil)
		repo.On("AddFormQuestion", ctx, mock.MatchedBy(func(q *models.FormQuestion) bool {
			return q.FormID == form.ID && q.Label == "Member count" && q.Style == models.FormQuestionStyleShort
		})).Return(nil)

		question, err := NewFormsService(repo).AddQuestion(ctx, "g1", "Partner", " Member count ", models.FormQuestionStyleShort, true)
		require.NoError(t, err)
		assert.True(t, question.Required)
		repo.AssertExpectations(t)
	})

	t.Run("unknown form", func(t *testing.T) {
		repo := &MockFormsRepository{}
		repo.On("GetFormByName", ctx, "g1", "Nope").Return(mo.None[*models.Form](), nil)

		_, err := NewFormsService(repo).AddQuestion(ctx, "g1", "Nope", "Label", models.FormQuestionStyleShort, true)
		assert.True(t, core.IsNotFoundError(err))
	})

	t.Run("full form", func(t *testing.T) {
		repo := &MockFormsRepository{}
		full := make([]*models.FormQuestion, MaxQuestions)
		for i := range full {
			full[i] = &models.FormQuestion{Position: i + 1}
		}
		repo.On("GetFormByName", ctx, "g1", "Partner").Return(mo.Some(form), nil)
		repo.On("GetFormQuestions", ctx, form.ID).Return(full, nil)

		_, err := NewFormsService(repo).AddQuestion(ctx, "g1", "Partner", "Label", models.FormQuestionStyleParagraph, false)
		assert.True(t, core.IsConflictError(err))
		repo.AssertNotCalled(t, "AddFormQuestion", mock.Anything, mock.Anything)
	})

	t.Run("invalid style", func(t *testing.T) {
		_, err := NewFormsService(&MockFormsRepository{}).AddQuestion(ctx, "g1", "Partner", "Label", "long", false)
		assert.Error(t, err)
	})
}
