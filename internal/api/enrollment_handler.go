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

// EnrollmentHandler holds the enrollment and completion service dependencies.
type EnrollmentHandler struct {
	enrollmentService service.EnrollmentService
	completionService service.CompletionService
}

// NewEnrollmentHandler creates a new EnrollmentHandler.
func NewEnrollmentHandler(enrollmentService service.EnrollmentService, completionService service.CompletionService) *EnrollmentHandler {
	return &EnrollmentHandler{
		enrollmentService: enrollmentService,
		completionService: completionService,
	}
}

// --- Request/Response Structs ---

type EnrollRequest struct {
	CourseID    string   `json:"courseId" binding:"required"`
	StartDate   string   `json:"startDate" binding:"required"` // YYYY-MM-DD
	WorkoutDays []string `json:"workoutDays" binding:"required,min=1"`
}

type ChangeScheduleRequest struct {
	WorkoutDays  []string `json:"workoutDays" binding:"required,min=1"`
	KeepProgress *bool    `json:"keepProgress" binding:"required"`
}

type CompletionRequest struct {
	DailyPlanID string `json:"dailyPlanId" binding:"required"`
	Comment     string `json:"comment"`
}

type DailyPlanResponse struct {
	ID                string         `json:"id"`
	DayNumberInCourse int            `json:"dayNumberInCourse"`
	Date              string         `json:"date"` // YYYY-MM-DD
	WeekNumber        int            `json:"weekNumber"`
	DayOfWeek         domain.Weekday `json:"dayOfWeek"`
	IsWorkoutDay      bool           `json:"isWorkoutDay"`
	WarmupID          *string        `json:"warmupId,omitempty"`
	MealPlanID        *string        `json:"mealPlanId,omitempty"`
	MainWorkoutIDs    []string       `json:"mainWorkoutIds"`
	Completed         bool           `json:"completed"`
}

type EnrollmentResponse struct {
	ID                  string           `json:"id"`
	CourseID            string           `json:"courseId"`
	StartDate           string           `json:"startDate"`
	SelectedWorkoutDays []domain.Weekday `json:"selectedWorkoutDays"`
	Active              bool             `json:"active"`
}

type CalendarResponse struct {
	Enrollment EnrollmentResponse  `json:"enrollment"`
	Days       []DailyPlanResponse `json:"days"`
}

type CompletionResponse struct {
	ID          string    `json:"id"`
	DailyPlanID string    `json:"dailyPlanId"`
	Comment     string    `json:"comment,omitempty"`
	CompletedAt time.Time `json:"completedAt"`
}

const dateLayout = "2006-01-02"

func mapEnrollmentToResponse(e *domain.Enrollment) EnrollmentResponse {
	return EnrollmentResponse{
		ID:                  e.ID.String(),
		CourseID:            e.CourseID.String(),
		StartDate:           e.StartDate.Format(dateLayout),
		SelectedWorkoutDays: e.SelectedWorkoutDays,
		Active:              e.Active,
	}
}

func mapDailyPlanToResponse(p *domain.DailyPlan, completed map[uuid.UUID]bool) DailyPlanResponse {
	resp := DailyPlanResponse{
		ID:                p.ID.String(),
		DayNumberInCourse: p.DayNumberInCourse,
		Date:              p.Date.Format(dateLayout),
		WeekNumber:        p.WeekNumber,
		DayOfWeek:         p.DayOfWeek,
		IsWorkoutDay:      p.IsWorkoutDay,
		MainWorkoutIDs:    []string{},
		Completed:         completed[p.ID],
	}
	if p.WarmupID != nil {
		s := p.WarmupID.String()
		resp.WarmupID = &s
	}
	if p.MealPlanID != nil {
		s := p.MealPlanID.String()
		resp.MealPlanID = &s
	}
	for _, w := range p.MainWorkouts {
		resp.MainWorkoutIDs = append(resp.MainWorkoutIDs, w.WorkoutID.String())
	}
	return resp
}

func parseWorkoutDays(raw []string) ([]domain.Weekday, error) {
	days := make([]domain.Weekday, 0, len(raw))
	for _, s := range raw {
		wd, err := domain.ParseWeekday(s)
		if err != nil {
			return nil, err
		}
		days = append(days, wd)
	}
	return days, nil
}

func (h *EnrollmentHandler) mapCalendarToResponse(c *gin.Context, enrollment *domain.Enrollment, plans []domain.DailyPlan) CalendarResponse {
	completed := map[uuid.UUID]bool{}
	if completions, err := h.completionService.GetForEnrollment(c.Request.Context(), enrollment.ID); err == nil {
		for _, comp := range completions {
			completed[comp.DailyPlanID] = true
		}
	}

	days := make([]DailyPlanResponse, 0, len(plans))
	for i := range plans {
		days = append(days, mapDailyPlanToResponse(&plans[i], completed))
	}
	return CalendarResponse{
		Enrollment: mapEnrollmentToResponse(enrollment),
		Days:       days,
	}
}

// --- Handler Methods ---

// Enroll godoc
// @Summary Enroll in a course
// @Description Enrolls the authenticated user, deactivates any prior enrollment and generates the full calendar.
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param enrollment body EnrollRequest true "Enrollment details"
// @Success 201 {object} CalendarResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 404 {object} gin.H "Course not found"
// @Failure 422 {object} ValidationResponse "Course template failed validation"
// @Router /enrollments [post]
func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req EnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	courseID, err := uuid.Parse(req.CourseID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid course ID format")
		return
	}
	startDate, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "startDate must be formatted as YYYY-MM-DD")
		return
	}
	days, err := parseWorkoutDays(req.WorkoutDays)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	enrollment, plans, err := h.enrollmentService.Enroll(c.Request.Context(), userID, courseID, startDate, days)
	if err != nil {
		var verr *service.ValidationError
		switch {
		case errors.As(err, &verr):
			c.AbortWithStatusJSON(http.StatusUnprocessableEntity, ValidationResponse{Valid: false, Errors: verr.Reasons})
		case errors.Is(err, service.ErrCourseMissing), errors.Is(err, service.ErrCourseNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrCourseNotPublished),
			errors.Is(err, service.ErrWorkoutDayCount),
			errors.Is(err, service.ErrDuplicateWorkoutDays),
			errors.Is(err, service.ErrNoWorkoutDays):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to enroll")
		}
		return
	}

	c.JSON(http.StatusCreated, h.mapCalendarToResponse(c, enrollment, plans))
}

// GetCalendar godoc
// @Summary Get the authenticated user's calendar
// @Description Returns the active enrollment and all generated daily plans with completion flags.
// @Tags Enrollments
// @Produce json
// @Success 200 {object} CalendarResponse
// @Failure 404 {object} gin.H "No active enrollment"
// @Router /enrollments/calendar [get]
func (h *EnrollmentHandler) GetCalendar(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	enrollment, plans, err := h.enrollmentService.GetCalendar(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrNotEnrolled) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to load calendar")
		}
		return
	}

	c.JSON(http.StatusOK, h.mapCalendarToResponse(c, enrollment, plans))
}

// ChangeSchedule godoc
// @Summary Change workout days for the active enrollment
// @Description Regenerates the calendar with the new selection. Row identity for unchanged day numbers is preserved; completions are kept or realigned when keepProgress is true, discarded otherwise.
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param schedule body ChangeScheduleRequest true "New workout day selection"
// @Success 200 {object} CalendarResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 404 {object} gin.H "No active enrollment"
// @Failure 422 {object} ValidationResponse "Course template failed validation"
// @Router /enrollments/schedule [put]
func (h *EnrollmentHandler) ChangeSchedule(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req ChangeScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	days, err := parseWorkoutDays(req.WorkoutDays)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	plans, err := h.enrollmentService.ChangeSchedule(c.Request.Context(), userID, days, *req.KeepProgress)
	if err != nil {
		var verr *service.ValidationError
		switch {
		case errors.As(err, &verr):
			c.AbortWithStatusJSON(http.StatusUnprocessableEntity, ValidationResponse{Valid: false, Errors: verr.Reasons})
		case errors.Is(err, service.ErrNotEnrolled):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrWorkoutDayCount),
			errors.Is(err, service.ErrDuplicateWorkoutDays),
			errors.Is(err, service.ErrNoWorkoutDays):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to change schedule")
		}
		return
	}

	enrollment, _, err := h.enrollmentService.GetCalendar(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to load calendar")
		return
	}
	c.JSON(http.StatusOK, h.mapCalendarToResponse(c, enrollment, plans))
}

// Unenroll godoc
// @Summary Leave the active course
// @Description Removes the enrollment, its calendar and its completions.
// @Tags Enrollments
// @Success 204 "Unenrolled"
// @Failure 404 {object} gin.H "No active enrollment"
// @Router /enrollments [delete]
func (h *EnrollmentHandler) Unenroll(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	if err := h.enrollmentService.Unenroll(c.Request.Context(), userID); err != nil {
		if errors.Is(err, service.ErrNotEnrolled) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to unenroll")
		}
		return
	}
	c.Status(http.StatusNoContent)
}

// RecordCompletion godoc
// @Summary Mark a workout day as completed
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param completion body CompletionRequest true "Completion details"
// @Success 201 {object} CompletionResponse
// @Failure 400 {object} gin.H "Invalid input or rest day"
// @Failure 404 {object} gin.H "Daily plan not found"
// @Failure 409 {object} gin.H "Already completed"
// @Router /enrollments/completions [post]
func (h *EnrollmentHandler) RecordCompletion(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req CompletionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	planID, err := uuid.Parse(req.DailyPlanID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid daily plan ID format")
		return
	}

	completion, err := h.completionService.RecordCompletion(c.Request.Context(), userID, planID, req.Comment)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDailyPlanNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrDailyPlanNotOwned):
			abortWithError(c, http.StatusForbidden, err.Error())
		case errors.Is(err, service.ErrAlreadyCompleted):
			abortWithError(c, http.StatusConflict, err.Error())
		case errors.Is(err, service.ErrCompletionNotWorkout):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to record completion")
		}
		return
	}

	c.JSON(http.StatusCreated, CompletionResponse{
		ID:          completion.ID.String(),
		DailyPlanID: completion.DailyPlanID.String(),
		Comment:     completion.Comment,
		CompletedAt: completion.CompletedAt,
	})
}
