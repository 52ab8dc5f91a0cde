package categories

import (
	"context"

	"github.com/samber/mo"
	"github.com/stretchr/testify/mock"

	"supportbot/models"
)

// MockCategoriesService is a mock implementation of the CategoriesService interface
type MockCategoriesService struct {
	mock.Mock
}

func (m *MockCategoriesService) CreateCategory(
	ctx context.Context,
	guildID, name, channelID string,
) (*models.CustomCategory, error) {
	args := m.Called(ctx, guildID, name, channelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CustomCategory), args.Error(1)
}

func (m *MockCategoriesService) GetActiveCategories(
	ctx context.Context,
	guildID string,
) ([]*models.CustomCategory, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.CustomCategory), args.Error(1)
}

func (m *MockCategoriesService) GetActiveCategory(
	ctx context.Context,
	guildID, id string,
) (mo.Option[*models.CustomCategory], error) {
	args := m.Called(ctx, guildID, id)
	if args.Get(0) == nil {
		return mo.None[*models.CustomCategory](), args.Error(1)
	}
	return args.Get(0).(mo.Option[*models.CustomCategory]), args.Error(1)
}

func (m *MockCategoriesService) DeactivateCategory(ctx context.Context, guildID, name string) error {
	args := m.Called(ctx, guildID, name)
	return args.Error(0)
}

func (m *MockCategoriesService) SetCategoryForm(ctx context.Context, guildID, categoryID, formID string) error {
	args := m.Called(ctx, guildID, categoryID, formID)
	return args.Error(0)
}
