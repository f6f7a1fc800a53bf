package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fitcourse/backend/internal/domain"
	"fitcourse/backend/internal/repository"
)

// postgresRecipeRepository implements repository.RecipeRepository
type postgresRecipeRepository struct {
	db *gorm.DB
}

// NewRecipeRepository creates a new recipe repository.
func NewRecipeRepository(db *gorm.DB) repository.RecipeRepository {
	return &postgresRecipeRepository{db: db}
}

func (r *postgresRecipeRepository) Create(ctx context.Context, recipe *domain.Recipe) (uuid.UUID, error) {
	if recipe.Title == "" {
		return uuid.Nil, errors.New("recipe requires a title")
	}
	if err := r.db.WithContext(ctx).Create(recipe).Error; err != nil {
		return uuid.Nil, err
	}
	return recipe.ID, nil
}

func (r *postgresRecipeRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Recipe, error) {
	var recipe domain.Recipe
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&recipe).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

func (r *postgresRecipeRepository) List(ctx context.Context, publishedOnly bool) ([]domain.Recipe, error) {
	var recipes []domain.Recipe
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if publishedOnly {
		q = q.Where("published = ?", true)
	}
	if err := q.Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

func (r *postgresRecipeRepository) Update(ctx context.Context, recipe *domain.Recipe) error {
	if recipe.ID == uuid.Nil {
		return errors.New("recipe ID is required for update")
	}
	result := r.db.WithContext(ctx).Model(&domain.Recipe{}).Where("id = ?", recipe.ID).
		Updates(map[string]interface{}{
			"title":       recipe.Title,
			"description": recipe.Description,
			"ingredients": recipe.Ingredients,
			"calories":    recipe.Calories,
			"photo_key":   recipe.PhotoKey,
			"published":   recipe.Published,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *postgresRecipeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Recipe{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
