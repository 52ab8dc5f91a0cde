package forms

import (
	"context"

	"github.com/samber/mo"
	"github.com/stretchr/testify/mock"

	"supportbot/models"
)

// MockFormsService is a mock implementation of the FormsService interface
type MockFormsService struct {
	mock.Mock
}

func (m *MockFormsService) CreateForm(ctx context.Context, guildID, name string) (*models.Form, error) {
	args := m.Called(ctx, guildID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Form), args.Error(1)
}

func (m *MockFormsService) GetForms(ctx context.Context, guildID string) ([]*models.Form, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Form), args.Error(1)
}

func (m *MockFormsService) GetForm(ctx context.Context, guildID, id string) (mo.Option[*models.Form], error) {
	args := m.Called(ctx, guildID, id)
	if args.Get(0) == nil {
		return mo.None[*models.Form](), args.Error(1)
	}
	return args.Get(0).(mo.Option[*models.Form]), args.Error(1)
}

func (m *MockFormsService) AddQuestion(
	ctx context.Context,
	guildID, formName, label string,
	style models.FormQuestionStyle,
	required bool,
) (*models.FormQuestion, error) {
	args := m.Called(ctx, guildID, formName, label, style, required)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FormQuestion), args.Error(1)
}

func (m *MockFormsService) GetQuestions(ctx context.Context, formID string) ([]*models.FormQuestion, error) {
	args := m.Called(ctx, formID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.FormQuestion), args.Error(1)
}
