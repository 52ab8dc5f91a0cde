package categories

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

// MaxCategoryNameLength keeps category names usable as select option labels
const MaxCategoryNameLength = 100

type CustomCategoriesRepository interface {
	CreateCustomCategory(ctx context.Context, category *models.CustomCategory) error
	GetActiveCustomCategories(ctx context.Context, guildID string) ([]*models.CustomCategory, error)
	GetActiveCustomCategory(ctx context.Context, guildID, id string) (mo.Option[*models.CustomCategory], error)
	DeactivateCustomCategory(ctx context.Context, guildID, name string) (bool, error)
	SetCustomCategoryForm(ctx context.Context, guildID, id string, formID *string) (bool, error)
}

type CategoriesService struct {
	repo CustomCategoriesRepository
}

func NewCategoriesService(repo CustomCategoriesRepository) *CategoriesService {
	return &CategoriesService{repo: repo}
}

// CreateCategory adds an active category. A name already used by an active category of the
// guild yields an error wrapping core.ErrConflict.
func (s *CategoriesService) CreateCategory(
	ctx context.Context,
	guildID, name, channelID string,
) (*models.CustomCategory, error) {
	log.Info("📋 Starting to create custom category", "guild_id", guildID, "name", name)
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("category name cannot be empty")
	}
	if len([]rune(name)) > MaxCategoryNameLength {
		return nil, fmt.Errorf("category name cannot exceed %d characters", MaxCategoryNameLength)
	}
	if _, ok := models.ParseBuiltInCategory(name); ok {
		return nil, fmt.Errorf("category name %q is reserved: %w", name, core.ErrConflict)
	}
	if channelID == "" {
		return nil, fmt.Errorf("channel ID cannot be empty")
	}

	category := &models.CustomCategory{
		ID:        core.NewID("cat"),
		GuildID:   guildID,
		Name:      name,
		ChannelID: channelID,
	}
	if err := s.repo.CreateCustomCategory(ctx, category); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, fmt.Errorf("category %q already exists: %w", name, core.ErrConflict)
		}
		return nil, fmt.Errorf("failed to create custom category: %w", err)
	}

	log.Info("📋 Completed successfully - created custom category", "category_id", category.ID)
	return category, nil
}

func (s *CategoriesService) GetActiveCategories(ctx context.Context, guildID string) ([]*models.CustomCategory, error) {
	categories, err := s.repo.GetActiveCustomCategories(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to get custom categories: %w", err)
	}
	return categories, nil
}

func (s *CategoriesService) GetActiveCategory(
	ctx context.Context,
	guildID, id string,
) (mo.Option[*models.CustomCategory], error) {
	if !core.IsValidULID(id) {
		return mo.None[*models.CustomCategory](), nil
	}

	maybeCategory, err := s.repo.GetActiveCustomCategory(ctx, guildID, id)
	if err != nil {
		return mo.None[*models.CustomCategory](), fmt.Errorf("failed to get custom category: %w", err)
	}
	return maybeCategory, nil
}

func (s *CategoriesService) DeactivateCategory(ctx context.Context, guildID, name string) error {
	log.Info("📋 Starting to deactivate custom category", "guild_id", guildID, "name", name)

	deactivated, err := s.repo.DeactivateCustomCategory(ctx, guildID, strings.TrimSpace(name))
	if err != nil {
		return fmt.Errorf("failed to deactivate custom category: %w", err)
	}
	if !deactivated {
		return fmt.Errorf("category %q: %w", name, core.ErrNotFound)
	}

	log.Info("📋 Completed successfully - deactivated custom category", "guild_id", guildID, "name", name)
	return nil
}

func (s *CategoriesService) SetCategoryForm(ctx context.Context, guildID, categoryID, formID string) error {
	updated, err := s.repo.SetCustomCategoryForm(ctx, guildID, categoryID, &formID)
	if err != nil {
		return fmt.Errorf("failed to set category form: %w", err)
	}
	if !updated {
		return fmt.Errorf("category %s: %w", categoryID, core.ErrNotFound)
	}

	log.Info("📋 Bound form to custom category", "category_id", categoryID, "form_id", formID)
	return nil
}
