package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"fitcourse/backend/internal/domain"
	"fitcourse/backend/internal/service"
)

// CourseHandler holds the course service dependency.
type CourseHandler struct {
	courseService service.CourseService
}

// NewCourseHandler creates a new CourseHandler.
func NewCourseHandler(courseService service.CourseService) *CourseHandler {
	return &CourseHandler{courseService: courseService}
}

// --- Request/Response Structs ---

type CourseRequest struct {
	Title                     string            `json:"title" binding:"required"`
	Description               string            `json:"description"`
	Type                      domain.CourseType `json:"type" binding:"required,oneof=subscription fixed"`
	DurationWeeks             int               `json:"durationWeeks" binding:"required,min=1"`
	AllowedWorkoutDaysPerWeek []int             `json:"allowedWorkoutDaysPerWeek" binding:"required,min=1,dive,min=1,max=7"`
}

type CourseResponse struct {
	ID                        string                `json:"id"`
	Title                     string                `json:"title"`
	Description               string                `json:"description,omitempty"`
	Type                      domain.CourseType     `json:"type"`
	DurationWeeks             int                   `json:"durationWeeks"`
	AllowedWorkoutDaysPerWeek []int                 `json:"allowedWorkoutDaysPerWeek"`
	Published                 bool                  `json:"published"`
	CoverImageURL             string                `json:"coverImageUrl,omitempty"`
	TemplateDays              []TemplateDayResponse `json:"templateDays,omitempty"`
	CreatedAt                 time.Time             `json:"createdAt"`
}

type TemplateDayRequest struct {
	WeekNumber      int      `json:"weekNumber" binding:"required,min=1"`
	DayNumberInWeek int      `json:"dayNumberInWeek" binding:"required,min=1,max=7"`
	WarmupID        *string  `json:"warmupId"`
	MealPlanID      *string  `json:"mealPlanId"`
	MainWorkoutIDs  []string `json:"mainWorkoutIds"`
}

type TemplateDayResponse struct {
	ID              string   `json:"id"`
	WeekNumber      int      `json:"weekNumber"`
	DayNumberInWeek int      `json:"dayNumberInWeek"`
	WarmupID        *string  `json:"warmupId,omitempty"`
	MealPlanID      *string  `json:"mealPlanId,omitempty"`
	MainWorkoutIDs  []string `json:"mainWorkoutIds"`
}

type ValidationResponse struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

type UploadURLRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

type UploadURLResponse struct {
	UploadURL string `json:"uploadUrl"`
}

func (h *CourseHandler) mapCourseToResponse(c *gin.Context, course *domain.Course) CourseResponse {
	resp := CourseResponse{
		ID:                        course.ID.String(),
		Title:                     course.Title,
		Description:               course.Description,
		Type:                      course.Type,
		DurationWeeks:             course.DurationWeeks,
		AllowedWorkoutDaysPerWeek: course.AllowedWorkoutDaysPerWeek,
		Published:                 course.Published,
		CreatedAt:                 course.CreatedAt,
	}
	// Presign failures degrade to a missing cover, never a failed request.
	if url, err := h.courseService.CoverDownloadURL(c.Request.Context(), course); err == nil {
		resp.CoverImageURL = url
	}
	for i := range course.TemplateDays {
		resp.TemplateDays = append(resp.TemplateDays, mapTemplateDayToResponse(&course.TemplateDays[i]))
	}
	return resp
}

func mapTemplateDayToResponse(day *domain.TemplateDay) TemplateDayResponse {
	resp := TemplateDayResponse{
		ID:              day.ID.String(),
		WeekNumber:      day.WeekNumber,
		DayNumberInWeek: day.DayNumberInWeek,
		MainWorkoutIDs:  []string{},
	}
	if day.WarmupID != nil {
		s := day.WarmupID.String()
		resp.WarmupID = &s
	}
	if day.MealPlanID != nil {
		s := day.MealPlanID.String()
		resp.MealPlanID = &s
	}
	for _, w := range day.MainWorkouts {
		resp.MainWorkoutIDs = append(resp.MainWorkoutIDs, w.WorkoutID.String())
	}
	return resp
}

func (r *TemplateDayRequest) toDomain(courseID uuid.UUID) (*domain.TemplateDay, error) {
	day := &domain.TemplateDay{
		CourseID:        courseID,
		WeekNumber:      r.WeekNumber,
		DayNumberInWeek: r.DayNumberInWeek,
	}
	if r.WarmupID != nil {
		id, err := uuid.Parse(*r.WarmupID)
		if err != nil {
			return nil, fmt.Errorf("invalid warmup ID: %w", err)
		}
		day.WarmupID = &id
	}
	if r.MealPlanID != nil {
		id, err := uuid.Parse(*r.MealPlanID)
		if err != nil {
			return nil, fmt.Errorf("invalid meal plan ID: %w", err)
		}
		day.MealPlanID = &id
	}
	for i, raw := range r.MainWorkoutIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid main workout ID at position %d: %w", i, err)
		}
		day.MainWorkouts = append(day.MainWorkouts, domain.TemplateDayWorkout{
			WorkoutID: id,
			Position:  i + 1,
		})
	}
	return day, nil
}

// --- Handler Methods ---

// ListCourses godoc
// @Summary List courses
// @Description Users see published courses only; admins see everything.
// @Tags Courses
// @Produce json
// @Success 200 {array} CourseResponse
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /courses [get]
func (h *CourseHandler) ListCourses(c *gin.Context) {
	role, _ := getUserRoleFromContext(c)
	publishedOnly := role != domain.RoleAdmin

	courses, err := h.courseService.ListCourses(c.Request.Context(), publishedOnly)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list courses")
		return
	}

	resp := make([]CourseResponse, 0, len(courses))
	for i := range courses {
		resp = append(resp, h.mapCourseToResponse(c, &courses[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// GetCourse godoc
// @Summary Get a course with its template days
// @Tags Courses
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} CourseResponse
// @Failure 404 {object} gin.H "Course not found"
// @Router /courses/{id} [get]
func (h *CourseHandler) GetCourse(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid course ID format")
		return
	}

	course, err := h.courseService.GetCourse(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrCourseMissing) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to get course")
		}
		return
	}

	// Unpublished courses are admin-only.
	if role, _ := getUserRoleFromContext(c); !course.Published && role != domain.RoleAdmin {
		abortWithError(c, http.StatusNotFound, service.ErrCourseMissing.Error())
		return
	}

	c.JSON(http.StatusOK, h.mapCourseToResponse(c, course))
}

// CreateCourse godoc
// @Summary Create a course (Admin)
// @Tags Courses
// @Accept json
// @Produce json
// @Param course body CourseRequest true "Course details"
// @Success 201 {object} CourseResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Router /admin/courses [post]
func (h *CourseHandler) CreateCourse(c *gin.Context) {
	var req CourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	course := &domain.Course{
		Title:                     req.Title,
		Description:               req.Description,
		Type:                      req.Type,
		DurationWeeks:             req.DurationWeeks,
		AllowedWorkoutDaysPerWeek: datatypes.JSONSlice[int](req.AllowedWorkoutDaysPerWeek),
	}
	created, err := h.courseService.CreateCourse(c.Request.Context(), course)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	c.JSON(http.StatusCreated, h.mapCourseToResponse(c, created))
}

// UpdateCourse godoc
// @Summary Update a course (Admin)
// @Tags Courses
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param course body CourseRequest true "Course details"
// @Success 200 {object} CourseResponse
// @Failure 404 {object} gin.H "Course not found"
// @Router /admin/courses/{id} [put]
func (h *CourseHandler) UpdateCourse(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid course ID format")
		return
	}
	var req CourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	course, err := h.courseService.GetCourse(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrCourseMissing) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to load course")
		}
		return
	}

	course.Title = req.Title
	course.Description = req.Description
	course.Type = req.Type
	course.DurationWeeks = req.DurationWeeks
	course.AllowedWorkoutDaysPerWeek = datatypes.JSONSlice[int](req.AllowedWorkoutDaysPerWeek)

	if err := h.courseService.UpdateCourse(c.Request.Context(), course); err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to update course")
		return
	}
	c.JSON(http.StatusOK, h.mapCourseToResponse(c, course))
}

// DeleteCourse godoc
// @Summary Delete a course (Admin)
// @Tags Courses
// @Param id path string true "Course ID"
// @Success 204 "Deleted"
// @Failure 404 {object} gin.H "Course not found"
// @Router /admin/courses/{id} [delete]
func (h *CourseHandler) DeleteCourse(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid course ID format")
		return
	}
	if err := h.courseService.DeleteCourse(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrCourseMissing) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to delete course")
		}
		return
	}
	c.Status(http.StatusNoContent)
}

// AddTemplateDay godoc
// @Summary Add a template day to a course (Admin)
// @Tags Courses
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param day body TemplateDayRequest true "Template day"
// @Success 201 {object} TemplateDayResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Router /admin/courses/{id}/template-days [post]
func (h *CourseHandler) AddTemplateDay(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid course ID format")
		return
	}
	var req TemplateDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	day, err := req.toDomain(courseID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.courseService.AddTemplateDay(c.Request.Context(), day)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCourseMissing):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrInvalidTemplateDay):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to add template day")
		}
		return
	}
	c.JSON(http.StatusCreated, mapTemplateDayToResponse(created))
}

// UpdateTemplateDay godoc
// @Summary Update a template day (Admin)
// @Tags Courses
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param dayId path string true "Template day ID"
// @Param day body TemplateDayRequest true "Template day"
// @Success 200 {object} TemplateDayResponse
// @Failure 404 {object} gin.H "Not found"
// @Router /admin/courses/{id}/template-days/{dayId} [put]
func (h *CourseHandler) UpdateTemplateDay(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid course ID format")
		return
	}
	dayID, err := uuid.Parse(c.Param("dayId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid template day ID format")
		return
	}
	var req TemplateDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	day, err := req.toDomain(courseID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	day.ID = dayID

	if err := h.courseService.UpdateTemplateDay(c.Request.Context(), day); err != nil {
		switch {
		case errors.Is(err, service.ErrCourseMissing), errors.Is(err, service.ErrTemplateDayMissing):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrInvalidTemplateDay):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to update template day")
		}
		return
	}
	c.JSON(http.StatusOK, mapTemplateDayToResponse(day))
}

// DeleteTemplateDay godoc
// @Summary Delete a template day (Admin)
// @Tags Courses
// @Param id path string true "Course ID"
// @Param dayId path string true "Template day ID"
// @Success 204 "Deleted"
// @Failure 404 {object} gin.H "Not found"
// @Router /admin/courses/{id}/template-days/{dayId} [delete]
func (h *CourseHandler) DeleteTemplateDay(c *gin.Context) {
	dayID, err := uuid.Parse(c.Param("dayId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid template day ID format")
		return
	}
	if err := h.courseService.DeleteTemplateDay(c.Request.Context(), dayID); err != nil {
		if errors.Is(err, service.ErrTemplateDayMissing) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to delete template day")
		}
		return
	}
	c.Status(http.StatusNoContent)
}

// ValidateCourse godoc
// @Summary Validate a course template without publishing (Admin)
// @Description Reports every template rule violation at once.
// @Tags Courses
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} ValidationResponse
// @Failure 404 {object} gin.H "Course not found"
// @Router /admin/courses/{id}/validate [post]
func (h *CourseHandler) ValidateCourse(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid course ID format")
		return
	}
	res, err := h.courseService.ValidateCourse(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrCourseMissing) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to validate course")
		}
		return
	}
	c.JSON(http.StatusOK, ValidationResponse{Valid: res.Valid, Errors: res.Errors})
}

// PublishCourse godoc
// @Summary Publish a course (Admin)
// @Description Validates the template first; returns 422 with all violations when it fails.
// @Tags Courses
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} gin.H "Published"
// @Failure 404 {object} gin.H "Course not found"
// @Failure 422 {object} ValidationResponse "Template validation failed"
// @Router /admin/courses/{id}/publish [post]
func (h *CourseHandler) PublishCourse(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid course ID format")
		return
	}
	if err := h.courseService.Publish(c.Request.Context(), id); err != nil {
		var verr *service.ValidationError
		switch {
		case errors.As(err, &verr):
			c.AbortWithStatusJSON(http.StatusUnprocessableEntity, ValidationResponse{Valid: false, Errors: verr.Reasons})
		case errors.Is(err, service.ErrCourseMissing):
			abortWithError(c, http.StatusNotFound, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to publish course")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"published": true})
}

// UnpublishCourse godoc
// @Summary Unpublish a course (Admin)
// @Tags Courses
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} gin.H "Unpublished"
// @Router /admin/courses/{id}/unpublish [post]
func (h *CourseHandler) UnpublishCourse(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid course ID format")
		return
	}
	if err := h.courseService.Unpublish(c.Request.Context(), id); err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to unpublish course")
		return
	}
	c.JSON(http.StatusOK, gin.H{"published": false})
}

// CoverUploadURL godoc
// @Summary Get a presigned upload URL for the course cover image (Admin)
// @Tags Courses
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param request body UploadURLRequest true "Content type of the image"
// @Success 200 {object} UploadURLResponse
// @Failure 404 {object} gin.H "Course not found"
// @Router /admin/courses/{id}/cover-upload-url [post]
func (h *CourseHandler) CoverUploadURL(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid course ID format")
		return
	}
	var req UploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	url, err := h.courseService.CoverUploadURL(c.Request.Context(), id, req.ContentType)
	if err != nil {
		if errors.Is(err, service.ErrCourseMissing) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to generate upload URL")
		}
		return
	}
	c.JSON(http.StatusOK, UploadURLResponse{UploadURL: url})
}
