package categories

import (
	"context"
	"strings"
	"testing"

	"github.com/lib/pq"
	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"supportbot/core"
	"supportbot/models"
)

type MockCustomCategoriesRepository struct {
	mock.Mock
}

func (m *MockCustomCategoriesRepository) CreateCustomCategory(ctx context.Context, category *models.CustomCategory) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCustomCategoriesRepository) GetActiveCustomCategories(
	ctx context.Context,
	guildID string,
) ([]*models.CustomCategory, error) {
	args := m.Called(ctx, guildID)
	return args.Get(0).([]*models.CustomCategory), args.Error(1)
}

func (m *MockCustomCategoriesRepository) GetActiveCustomCategory(
	ctx context.Context,
	guildID, id string,
) (mo.Option[*models.CustomCategory], error) {
	args := m.Called(ctx, guildID, id)
	return args.Get(0).(mo.Option[*models.CustomCategory]), args.Error(1)
}

func (m *MockCustomCategoriesRepository) DeactivateCustomCategory(ctx context.Context, guildID, name string) (bool, error) {
	args := m.Called(ctx, guildID, name)
	return args.Bool(0), args.Error(1)
}

func (m *MockCustomCategoriesRepository) SetCustomCategoryForm(
	ctx context.Context,
	guildID, id string,
	formID *string,
) (bool, error) {
	args := m.Called(ctx, guildID, id, formID)
	return args.Bool(0), args.Error(1)
}

func TestCategoriesService_CreateCategory(t *testing.T) {
	ctx := context.Background()

	t.Run("success trims name", func(t *testing.T) {
		repo := &MockCustomCategoriesRepository{}
		repo.On("CreateCustomCategory", ctx, mock.MatchedBy(func(c *models.CustomCategory) bool {
			return c.Name == "Appeals" && c.ChannelID == "c1" && core.IsValidULID(c.ID)
		})).Return(nil)

		category, err := NewCategoriesService(repo).CreateCategory(ctx, "g1", "  Appeals ", "c1")
		require.NoError(t, err)
		assert.Equal(t, "Appeals", category.Name)
	})

	t.Run("duplicate active name", func(t *testing.T) {
		repo := &MockCustomCategoriesRepository{}
		repo.On("CreateCustomCategory", ctx, mock.Anything).Return(&pq.Error{Code: "23505"})

		_, err := NewCategoriesService(repo).CreateCategory(ctx, "g1", "Appeals", "c1")
		assert.True(t, core.IsConflictError(err))
	})

	t.Run("built-in name is reserved", func(t *testing.T) {
		repo := &MockCustomCategoriesRepository{}

		_, err := NewCategoriesService(repo).CreateCategory(ctx, "g1", "question", "c1")
		assert.True(t, core.IsConflictError(err))
		repo.AssertNotCalled(t, "CreateCustomCategory", mock.Anything, mock.Anything)
	})

	t.Run("rejects empty and oversized names", func(t *testing.T) {
		service := NewCategoriesService(&MockCustomCategoriesRepository{})

		_, err := service.CreateCategory(ctx, "g1", "   ", "c1")
		assert.Error(t, err)
		_, err = service.CreateCategory(ctx, "g1", strings.Repeat("x", MaxCategoryNameLength+1), "c1")
		assert.Error(t, err)
	})
}

func TestCategoriesService_DeactivateCategory_Unknown(t *testing.T) {
	ctx := context.Background()
	repo := &MockCustomCategoriesRepository{}
	repo.On("DeactivateCustomCategory", ctx, "g1", "Appeals").Return(false, nil)

	err := NewCategoriesService(repo).DeactivateCategory(ctx, "g1", "Appeals")
	assert.True(t, core.IsNotFoundError(err))
}

func TestCategoriesService_GetActiveCategory_MalformedIDIsAbsent(t *testing.T) {
	repo := &MockCustomCategoriesRepository{}

	maybeCategory, err := NewCategoriesService(repo).GetActiveCategory(context.Background(), "g1", "question")
	require.NoError(t, err)
	assert.True(t, maybeCategory.IsAbsent())
	repo.AssertNotCalled(t, "GetActiveCustomCategory", mock.Anything, mock.Anything, mock.Anything)
}
