package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"fitcourse/backend/internal/domain"
	"fitcourse/backend/internal/logger"
	"fitcourse/backend/internal/repository"
	"fitcourse/backend/internal/storage"
)

var ErrRecipeNotFound = errors.New("recipe not found")

// RecipeService covers the nutrition section: recipe CRUD plus photo
// storage through the shared object store.
type RecipeService interface {
	CreateRecipe(ctx context.Context, recipe *domain.Recipe) (*domain.Recipe, error)
	UpdateRecipe(ctx context.Context, recipe *domain.Recipe) error
	DeleteRecipe(ctx context.Context, id uuid.UUID) error
	GetRecipe(ctx context.Context, id uuid.UUID) (*domain.Recipe, error)
	ListRecipes(ctx context.Context, publishedOnly bool) ([]domain.Recipe, error)

	PhotoUploadURL(ctx context.Context, id uuid.UUID, contentType string) (string, error)
	PhotoDownloadURL(ctx context.Context, recipe *domain.Recipe) (string, error)
}

// recipeService implements the RecipeService interface.
type recipeService struct {
	recipes repository.RecipeRepository
	files   storage.FileStorage
	log     *logger.Logger
}

// NewRecipeService creates a new instance of recipeService.
func NewRecipeService(recipes repository.RecipeRepository, files storage.FileStorage, log *logger.Logger) RecipeService {
	return &recipeService{
		recipes: recipes,
		files:   files,
		log:     log.With("service", "RecipeService"),
	}
}

func (s *recipeService) CreateRecipe(ctx context.Context, recipe *domain.Recipe) (*domain.Recipe, error) {
	id, err := s.recipes.Create(ctx, recipe)
	if err != nil {
		return nil, err
	}
	recipe.ID = id
	return recipe, nil
}

func (s *recipeService) UpdateRecipe(ctx context.Context, recipe *domain.Recipe) error {
	err := s.recipes.Update(ctx, recipe)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrRecipeNotFound
	}
	return err
}

func (s *recipeService) DeleteRecipe(ctx context.Context, id uuid.UUID) error {
	recipe, err := s.GetRecipe(ctx, id)
	if err != nil {
		return err
	}
	if recipe.PhotoKey != "" {
		if err := s.files.DeleteObject(ctx, recipe.PhotoKey); err != nil {
			s.log.Warn("failed to delete recipe photo", "recipeId", id, "error", err)
		}
	}
	return s.recipes.Delete(ctx, id)
}

func (s *recipeService) GetRecipe(ctx context.Context, id uuid.UUID) (*domain.Recipe, error) {
	recipe, err := s.recipes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	return recipe, nil
}

func (s *recipeService) ListRecipes(ctx context.Context, publishedOnly bool) ([]domain.Recipe, error) {
	return s.recipes.List(ctx, publishedOnly)
}

func (s *recipeService) PhotoUploadURL(ctx context.Context, id uuid.UUID, contentType string) (string, error) {
	recipe, err := s.GetRecipe(ctx, id)
	if err != nil {
		return "", err
	}
	key := fmt.Sprintf("recipes/%s/photo-%d", id, time.Now().UTC().Unix())
	url, err := s.files.GeneratePresignedUploadURL(ctx, key, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return "", err
	}
	recipe.PhotoKey = key
	if err := s.recipes.Update(ctx, recipe); err != nil {
		return "", err
	}
	return url, nil
}

func (s *recipeService) PhotoDownloadURL(ctx context.Context, recipe *domain.Recipe) (string, error) {
	if recipe.PhotoKey == "" {
		return "", nil
	}
	return s.files.GeneratePresignedDownloadURL(ctx, recipe.PhotoKey, storage.DefaultPresignedURLExpiry)
}
