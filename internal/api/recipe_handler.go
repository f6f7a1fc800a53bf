package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"fitcourse/backend/internal/domain"
	"fitcourse/backend/internal/service"
)

// RecipeHandler holds the recipe service dependency.
type RecipeHandler struct {
	recipeService service.RecipeService
}

// NewRecipeHandler creates a new RecipeHandler.
func NewRecipeHandler(recipeService service.RecipeService) *RecipeHandler {
	return &RecipeHandler{recipeService: recipeService}
}

// --- Request/Response Structs ---

type RecipeRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Ingredients string `json:"ingredients"`
	Calories    int    `json:"calories" binding:"omitempty,min=0"`
	Published   bool   `json:"published"`
}

type RecipeResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Ingredients string    `json:"ingredients,omitempty"`
	Calories    int       `json:"calories,omitempty"`
	PhotoURL    string    `json:"photoUrl,omitempty"`
	Published   bool      `json:"published"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (h *RecipeHandler) mapRecipeToResponse(c *gin.Context, recipe *domain.Recipe) RecipeResponse {
	resp := RecipeResponse{
		ID:          recipe.ID.String(),
		Title:       recipe.Title,
		Description: recipe.Description,
		Ingredients: recipe.Ingredients,
		Calories:    recipe.Calories,
		Published:   recipe.Published,
		CreatedAt:   recipe.CreatedAt,
	}
	if url, err := h.recipeService.PhotoDownloadURL(c.Request.Context(), recipe); err == nil {
		resp.PhotoURL = url
	}
	return resp
}

// --- Handler Methods ---

// ListRecipes godoc
// @Summary List recipes
// @Description Users see published recipes only; admins see everything.
// @Tags Recipes
// @Produce json
// @Success 200 {array} RecipeResponse
// @Router /recipes [get]
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	role, _ := getUserRoleFromContext(c)
	publishedOnly := role != domain.RoleAdmin

	recipes, err := h.recipeService.ListRecipes(c.Request.Context(), publishedOnly)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list recipes")
		return
	}
	resp := make([]RecipeResponse, 0, len(recipes))
	for i := range recipes {
		resp = append(resp, h.mapRecipeToResponse(c, &recipes[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// GetRecipe godoc
// @Summary Get a recipe by ID
// @Tags Recipes
// @Produce json
// @Param id path string true "Recipe ID"
// @Success 200 {object} RecipeResponse
// @Failure 404 {object} gin.H "Recipe not found"
// @Router /recipes/{id} [get]
func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid recipe ID format")
		return
	}
	recipe, err := h.recipeService.GetRecipe(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrRecipeNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to get recipe")
		}
		return
	}
	if role, _ := getUserRoleFromContext(c); !recipe.Published && role != domain.RoleAdmin {
		abortWithError(c, http.StatusNotFound, service.ErrRecipeNotFound.Error())
		return
	}
	c.JSON(http.StatusOK, h.mapRecipeToResponse(c, recipe))
}

// CreateRecipe godoc
// @Summary Create a recipe (Admin)
// @Tags Recipes
// @Accept json
// @Produce json
// @Param recipe body RecipeRequest true "Recipe details"
// @Success 201 {object} RecipeResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Router /admin/recipes [post]
func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var req RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	recipe := &domain.Recipe{
		Title:       req.Title,
		Description: req.Description,
		Ingredients: req.Ingredients,
		Calories:    req.Calories,
		Published:   req.Published,
	}
	created, err := h.recipeService.CreateRecipe(c.Request.Context(), recipe)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to create recipe")
		return
	}
	c.JSON(http.StatusCreated, h.mapRecipeToResponse(c, created))
}

// UpdateRecipe godoc
// @Summary Update a recipe (Admin)
// @Tags Recipes
// @Accept json
// @Produce json
// @Param id path string true "Recipe ID"
// @Param recipe body RecipeRequest true "Recipe details"
// @Success 200 {object} RecipeResponse
// @Failure 404 {object} gin.H "Recipe not found"
// @Router /admin/recipes/{id} [put]
func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid recipe ID format")
		return
	}
	var req RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	recipe, err := h.recipeService.GetRecipe(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrRecipeNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to load recipe")
		}
		return
	}

	recipe.Title = req.Title
	recipe.Description = req.Description
	recipe.Ingredients = req.Ingredients
	recipe.Calories = req.Calories
	recipe.Published = req.Published

	if err := h.recipeService.UpdateRecipe(c.Request.Context(), recipe); err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to update recipe")
		return
	}
	c.JSON(http.StatusOK, h.mapRecipeToResponse(c, recipe))
}

// DeleteRecipe godoc
// @Summary Delete a recipe (Admin)
// @Tags Recipes
// @Param id path string true "Recipe ID"
// @Success 204 "Deleted"
// @Failure 404 {object} gin.H "Recipe not found"
// @Router /admin/recipes/{id} [delete]
func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid recipe ID format")
		return
	}
	if err := h.recipeService.DeleteRecipe(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrRecipeNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to delete recipe")
		}
		return
	}
	c.Status(http.StatusNoContent)
}

// PhotoUploadURL godoc
// @Summary Get a presigned upload URL for the recipe photo (Admin)
// @Tags Recipes
// @Accept json
// @Produce json
// @Param id path string true "Recipe ID"
// @Param request body UploadURLRequest true "Content type of the image"
// @Success 200 {object} UploadURLResponse
// @Failure 404 {object} gin.H "Recipe not found"
// @Router /admin/recipes/{id}/photo-upload-url [post]
func (h *RecipeHandler) PhotoUploadURL(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid recipe ID format")
		return
	}
	var req UploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	url, err := h.recipeService.PhotoUploadURL(c.Request.Context(), id, req.ContentType)
	if err != nil {
		if errors.Is(err, service.ErrRecipeNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to generate upload URL")
		}
		return
	}
	c.JSON(http.StatusOK, UploadURLResponse{UploadURL: url})
}
