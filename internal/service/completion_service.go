package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fitcourse/backend/internal/domain"
	"fitcourse/backend/internal/logger"
	"fitcourse/backend/internal/repository"
)

// --- Error Definitions ---
var (
	ErrDailyPlanNotFound    = errors.New("daily plan not found")
	ErrDailyPlanNotOwned    = errors.New("daily plan does not belong to this user")
	ErrAlreadyCompleted     = errors.New("workout already completed for this day")
	ErrCompletionNotWorkout = errors.New("cannot complete a rest day")
)

// CompletionService records workout completions and realigns them when a
// calendar is regenerated. It implements CompletionRealigner.
type CompletionService interface {
	CompletionRealigner
	RecordCompletion(ctx context.Context, userID, dailyPlanID uuid.UUID, comment string) (*domain.WorkoutCompletion, error)
	GetForEnrollment(ctx context.Context, enrollmentID uuid.UUID) ([]domain.WorkoutCompletion, error)
}

// completionService implements the CompletionService interface.
type completionService struct {
	completions repository.CompletionRepository
	dailyPlans  repository.DailyPlanRepository
	log         *logger.Logger
}

// NewCompletionService creates a new instance of completionService.
func NewCompletionService(
	completions repository.CompletionRepository,
	dailyPlans repository.DailyPlanRepository,
	log *logger.Logger,
) CompletionService {
	return &completionService{
		completions: completions,
		dailyPlans:  dailyPlans,
		log:         log.With("service", "CompletionService"),
	}
}

// RecordCompletion marks one daily plan's workouts as done.
func (s *completionService) RecordCompletion(ctx context.Context, userID, dailyPlanID uuid.UUID, comment string) (*domain.WorkoutCompletion, error) {
	plan, err := s.dailyPlans.GetByID(ctx, nil, dailyPlanID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrDailyPlanNotFound
		}
		return nil, err
	}
	if plan.UserID != userID {
		return nil, ErrDailyPlanNotOwned
	}
	if !plan.IsWorkoutDay {
		return nil, ErrCompletionNotWorkout
	}
	if _, err := s.completions.GetByDailyPlanID(ctx, nil, dailyPlanID); err == nil {
		return nil, ErrAlreadyCompleted
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	completion := &domain.WorkoutCompletion{
		UserID:       userID,
		EnrollmentID: plan.EnrollmentID,
		DailyPlanID:  dailyPlanID,
		CompletedAt:  time.Now().UTC(),
		Comment:      comment,
	}
	if _, err := s.completions.Create(ctx, nil, completion); err != nil {
		return nil, err
	}
	return completion, nil
}

func (s *completionService) GetForEnrollment(ctx context.Context, enrollmentID uuid.UUID) ([]domain.WorkoutCompletion, error) {
	return s.completions.GetByEnrollmentID(ctx, nil, enrollmentID)
}

// Realign decides per recorded completion whether it survives a calendar
// regeneration. A completion is kept as-is when the day it points at still
// carries the same template day, remapped when that template day moved to a
// different day number, and discarded when the template day left the
// calendar entirely.
func (s *completionService) Realign(ctx context.Context, tx *gorm.DB, userID, enrollmentID uuid.UUID, previous, updated []domain.DailyPlan) error {
	completions, err := s.completions.GetByEnrollmentID(ctx, tx, enrollmentID)
	if err != nil {
		return err
	}
	if len(completions) == 0 {
		return nil
	}

	previousByPlanID := make(map[uuid.UUID]domain.DailyPlan, len(previous))
	for _, p := range previous {
		previousByPlanID[p.ID] = p
	}
	updatedByDay := make(map[int]domain.DailyPlan, len(updated))
	for _, p := range updated {
		updatedByDay[p.DayNumberInCourse] = p
	}

	// Template days can occur on several calendar days; each remap target is
	// claimed at most once.
	claimed := make(map[uuid.UUID]bool, len(completions))

	kept, remapped, discarded := 0, 0, 0
	for _, completion := range completions {
		prev, ok := previousByPlanID[completion.DailyPlanID]
		if !ok {
			// The row the completion pointed at is gone (e.g. pruned).
			if err := s.completions.Delete(ctx, tx, completion.ID); err != nil {
				return err
			}
			discarded++
			continue
		}

		if now, ok := updatedByDay[prev.DayNumberInCourse]; ok && now.TemplateDayID == prev.TemplateDayID {
			claimed[now.ID] = true
			kept++
			continue
		}

		target, ok := findRealignTarget(updated, prev.TemplateDayID, claimed)
		if !ok {
			if err := s.completions.Delete(ctx, tx, completion.ID); err != nil {
				return err
			}
			discarded++
			continue
		}
		if err := s.completions.UpdateDailyPlanID(ctx, tx, completion.ID, target.ID); err != nil {
			return err
		}
		claimed[target.ID] = true
		remapped++
	}

	s.log.Info("realigned completions",
		"enrollmentId", enrollmentID, "kept", kept, "remapped", remapped, "discarded", discarded)
	return nil
}

// DeleteAllForEnrollment drops every completion for the enrollment; the
// simpler alternative when progress should not survive a schedule change.
func (s *completionService) DeleteAllForEnrollment(ctx context.Context, tx *gorm.DB, userID, enrollmentID uuid.UUID) error {
	return s.completions.DeleteByEnrollmentID(ctx, tx, enrollmentID)
}

// findRealignTarget returns the first unclaimed workout day in the updated
// sequence that carries the wanted template day.
func findRealignTarget(updated []domain.DailyPlan, templateDayID uuid.UUID, claimed map[uuid.UUID]bool) (domain.DailyPlan, bool) {
	for _, p := range updated {
		if p.TemplateDayID == templateDayID && p.IsWorkoutDay && !claimed[p.ID] {
			return p, true
		}
	}
	return domain.DailyPlan{}, false
}
