package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"fitcourse/backend/internal/domain"
)

func TestRecordCompletion(t *testing.T) {
	fx := newCalendarFixture(t)
	course := seedCourse(t, fx.db, domain.CourseTypeFixed, 1, 3, []int{3})
	enrollment := seedEnrollment(t, fx.db, course, monday, domain.Monday, domain.Wednesday, domain.Friday)

	plans, err := fx.calendar.GenerateForEnrollment(context.Background(), enrollment.ID)
	if err != nil {
		t.Fatalf("GenerateForEnrollment: %v", err)
	}
	workoutDay := plans[0] // Monday
	restDay := plans[1]    // Tuesday

	t.Run("records a workout day", func(t *testing.T) {
		completion, err := fx.completions.RecordCompletion(context.Background(), enrollment.UserID, workoutDay.ID, "done")
		if err != nil {
			t.Fatalf("RecordCompletion: %v", err)
		}
		if completion.DailyPlanID != workoutDay.ID || completion.EnrollmentID != enrollment.ID {
			t.Error("completion does not reference the completed plan")
		}
		if completion.Comment != "done" {
			t.Errorf("got comment %q", completion.Comment)
		}
	})

	t.Run("rejects a second completion for the same day", func(t *testing.T) {
		_, err := fx.completions.RecordCompletion(context.Background(), enrollment.UserID, workoutDay.ID, "")
		if !errors.Is(err, ErrAlreadyCompleted) {
			t.Fatalf("got %v, want ErrAlreadyCompleted", err)
		}
	})

	t.Run("rejects rest days", func(t *testing.T) {
		_, err := fx.completions.RecordCompletion(context.Background(), enrollment.UserID, restDay.ID, "")
		if !errors.Is(err, ErrCompletionNotWorkout) {
			t.Fatalf("got %v, want ErrCompletionNotWorkout", err)
		}
	})

	t.Run("rejects other users' plans", func(t *testing.T) {
		_, err := fx.completions.RecordCompletion(context.Background(), uuid.New(), plans[2].ID, "")
		if !errors.Is(err, ErrDailyPlanNotOwned) {
			t.Fatalf("got %v, want ErrDailyPlanNotOwned", err)
		}
	})

	t.Run("rejects unknown plans", func(t *testing.T) {
		_, err := fx.completions.RecordCompletion(context.Background(), enrollment.UserID, uuid.New(), "")
		if !errors.Is(err, ErrDailyPlanNotFound) {
			t.Fatalf("got %v, want ErrDailyPlanNotFound", err)
		}
	})

	completions, err := fx.completions.GetForEnrollment(context.Background(), enrollment.ID)
	if err != nil {
		t.Fatalf("GetForEnrollment: %v", err)
	}
	if len(completions) != 1 {
		t.Errorf("expected exactly 1 recorded completion, got %d", len(completions))
	}
}
