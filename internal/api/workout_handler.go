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

// WorkoutHandler holds the workout service dependency.
type WorkoutHandler struct {
	workoutService service.WorkoutService
}

// NewWorkoutHandler creates a new WorkoutHandler.
func NewWorkoutHandler(workoutService service.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService}
}

// --- Request/Response Structs ---

type WorkoutRequest struct {
	Title       string             `json:"title" binding:"required"`
	Description string             `json:"description"`
	Kind        domain.WorkoutKind `json:"kind" binding:"required,oneof=warmup main"`
	DurationMin int                `json:"durationMin" binding:"omitempty,min=1"`
	VideoURL    string             `json:"videoUrl" binding:"omitempty,url"`
}

type WorkoutResponse struct {
	ID          string             `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description,omitempty"`
	Kind        domain.WorkoutKind `json:"kind"`
	DurationMin int                `json:"durationMin,omitempty"`
	VideoURL    string             `json:"videoUrl,omitempty"`
	CreatedAt   time.Time          `json:"createdAt"`
}

func mapWorkoutToResponse(w *domain.Workout) WorkoutResponse {
	return WorkoutResponse{
		ID:          w.ID.String(),
		Title:       w.Title,
		Description: w.Description,
		Kind:        w.Kind,
		DurationMin: w.DurationMin,
		VideoURL:    w.VideoURL,
		CreatedAt:   w.CreatedAt,
	}
}

// --- Handler Methods ---

// CreateWorkout godoc
// @Summary Create a workout (Admin)
// @Tags Workouts
// @Accept json
// @Produce json
// @Param workout body WorkoutRequest true "Workout details"
// @Success 201 {object} WorkoutResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Router /admin/workouts [post]
func (h *WorkoutHandler) CreateWorkout(c *gin.Context) {
	var req WorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	workout, err := h.workoutService.CreateWorkout(c.Request.Context(), req.Title, req.Description, req.Kind, req.DurationMin, req.VideoURL)
	if err != nil {
		if errors.Is(err, service.ErrValidationFailed) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to create workout")
		}
		return
	}
	c.JSON(http.StatusCreated, mapWorkoutToResponse(workout))
}

// ListWorkouts godoc
// @Summary List workouts in the library
// @Tags Workouts
// @Produce json
// @Param kind query string false "Filter by kind (warmup or main)"
// @Success 200 {array} WorkoutResponse
// @Router /workouts [get]
func (h *WorkoutHandler) ListWorkouts(c *gin.Context) {
	kind := domain.WorkoutKind(c.Query("kind"))
	if kind != "" && kind != domain.WorkoutKindWarmup && kind != domain.WorkoutKindMain {
		abortWithError(c, http.StatusBadRequest, "kind must be 'warmup' or 'main'")
		return
	}

	workouts, err := h.workoutService.ListWorkouts(c.Request.Context(), kind)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list workouts")
		return
	}
	resp := make([]WorkoutResponse, 0, len(workouts))
	for i := range workouts {
		resp = append(resp, mapWorkoutToResponse(&workouts[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// GetWorkout godoc
// @Summary Get a workout by ID
// @Tags Workouts
// @Produce json
// @Param id path string true "Workout ID"
// @Success 200 {object} WorkoutResponse
// @Failure 404 {object} gin.H "Workout not found"
// @Router /workouts/{id} [get]
func (h *WorkoutHandler) GetWorkout(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid workout ID format")
		return
	}
	workout, err := h.workoutService.GetWorkout(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrWorkoutNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to get workout")
		}
		return
	}
	c.JSON(http.StatusOK, mapWorkoutToResponse(workout))
}

// UpdateWorkout godoc
// @Summary Update a workout (Admin)
// @Tags Workouts
// @Accept json
// @Produce json
// @Param id path string true "Workout ID"
// @Param workout body WorkoutRequest true "Workout details"
// @Success 200 {object} WorkoutResponse
// @Failure 404 {object} gin.H "Workout not found"
// @Router /admin/workouts/{id} [put]
func (h *WorkoutHandler) UpdateWorkout(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid workout ID format")
		return
	}
	var req WorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	workout, err := h.workoutService.UpdateWorkout(c.Request.Context(), id, req.Title, req.Description, req.Kind, req.DurationMin, req.VideoURL)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWorkoutNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrValidationFailed):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to update workout")
		}
		return
	}
	c.JSON(http.StatusOK, mapWorkoutToResponse(workout))
}

// DeleteWorkout godoc
// @Summary Delete a workout (Admin)
// @Tags Workouts
// @Param id path string true "Workout ID"
// @Success 204 "Deleted"
// @Failure 404 {object} gin.H "Workout not found"
// @Router /admin/workouts/{id} [delete]
func (h *WorkoutHandler) DeleteWorkout(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid workout ID format")
		return
	}
	if err := h.workoutService.DeleteWorkout(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrWorkoutNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to delete workout")
		}
		return
	}
	c.Status(http.StatusNoContent)
}
