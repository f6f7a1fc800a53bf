package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"fitcourse/backend/internal/domain"
)

func TestEnrollGeneratesFullCalendar(t *testing.T) {
	fx := newCalendarFixture(t)
	course := seedCourse(t, fx.db, domain.CourseTypeFixed, 2, 3, []int{3})
	userID := uuid.New()

	enrollment, plans, err := fx.enrollments.Enroll(context.Background(), userID, course.ID, monday,
		[]domain.Weekday{domain.Monday, domain.Wednesday, domain.Friday})
	if err != nil {
		t.Fatalf("Enroll: %v", err)
	}
	if !enrollment.Active {
		t.Error("new enrollment is not active")
	}
	if len(plans) != 14 {
		t.Errorf("expected 14 daily plans, got %d", len(plans))
	}
	for i, p := range plans {
		if p.DayNumberInCourse != i+1 {
			t.Fatalf("day numbers are not contiguous at index %d", i)
		}
	}
}

func TestEnrollDeactivatesPreviousEnrollment(t *testing.T) {
	fx := newCalendarFixture(t)
	first := seedCourse(t, fx.db, domain.CourseTypeFixed, 1, 3, []int{3})
	second := seedCourse(t, fx.db, domain.CourseTypeFixed, 1, 3, []int{3})
	userID := uuid.New()
	days := []domain.Weekday{domain.Monday, domain.Wednesday, domain.Friday}

	old, _, err := fx.enrollments.Enroll(context.Background(), userID, first.ID, monday, days)
	if err != nil {
		t.Fatalf("first Enroll: %v", err)
	}
	current, _, err := fx.enrollments.Enroll(context.Background(), userID, second.ID, monday, days)
	if err != nil {
		t.Fatalf("second Enroll: %v", err)
	}

	var stored domain.Enrollment
	if err := fx.db.First(&stored, "id = ?", old.ID).Error; err != nil {
		t.Fatalf("reload old enrollment: %v", err)
	}
	if stored.Active {
		t.Error("previous enrollment is still active")
	}

	active, _, err := fx.enrollments.GetCalendar(context.Background(), userID)
	if err != nil {
		t.Fatalf("GetCalendar: %v", err)
	}
	if active.ID != current.ID {
		t.Errorf("active enrollment is %s, want %s", active.ID, current.ID)
	}
}

func TestEnrollRejectsBadSelections(t *testing.T) {
	fx := newCalendarFixture(t)
	course := seedCourse(t, fx.db, domain.CourseTypeFixed, 1, 4, []int{3, 4})
	userID := uuid.New()

	tests := []struct {
		name    string
		days    []domain.Weekday
		wantErr error
	}{
		{"empty selection", nil, ErrNoWorkoutDays},
		{"duplicate days", []domain.Weekday{domain.Monday, domain.Monday, domain.Friday}, ErrDuplicateWorkoutDays},
		{"count not allowed", []domain.Weekday{domain.Monday, domain.Friday}, ErrWorkoutDayCount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := fx.enrollments.Enroll(context.Background(), userID, course.ID, monday, tt.days)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestEnrollRejectsUnpublishedCourse(t *testing.T) {
	fx := newCalendarFixture(t)
	course := seedCourse(t, fx.db, domain.CourseTypeFixed, 1, 3, []int{3})
	if err := fx.db.Model(&domain.Course{}).Where("id = ?", course.ID).Update("published", false).Error; err != nil {
		t.Fatalf("unpublish course: %v", err)
	}

	_, _, err := fx.enrollments.Enroll(context.Background(), uuid.New(), course.ID, monday,
		[]domain.Weekday{domain.Monday, domain.Wednesday, domain.Friday})
	if !errors.Is(err, ErrCourseNotPublished) {
		t.Fatalf("got %v, want ErrCourseNotPublished", err)
	}
}

func TestEnrollLeavesNothingBehindOnGenerationFailure(t *testing.T) {
	fx := newCalendarFixture(t)
	// Template short of the quota: publishable flag is forced here to reach
	// the generation step, which must then fail validation atomically.
	course := seedCourse(t, fx.db, domain.CourseTypeFixed, 1, 2, []int{3})
	userID := uuid.New()

	_, _, err := fx.enrollments.Enroll(context.Background(), userID, course.ID, monday,
		[]domain.Weekday{domain.Monday, domain.Wednesday, domain.Friday})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	var n int64
	if err := fx.db.Model(&domain.Enrollment{}).Where("user_id = ?", userID).Count(&n).Error; err != nil {
		t.Fatalf("count enrollments: %v", err)
	}
	if n != 0 {
		t.Errorf("failed enroll left %d enrollment rows behind", n)
	}
}

func TestChangeScheduleRequiresActiveEnrollment(t *testing.T) {
	fx := newCalendarFixture(t)
	_, err := fx.enrollments.ChangeSchedule(context.Background(), uuid.New(),
		[]domain.Weekday{domain.Monday, domain.Wednesday, domain.Friday}, true)
	if !errors.Is(err, ErrNotEnrolled) {
		t.Fatalf("got %v, want ErrNotEnrolled", err)
	}
}

func TestUnenrollRemovesCalendarAndCompletions(t *testing.T) {
	fx := newCalendarFixture(t)
	course := seedCourse(t, fx.db, domain.CourseTypeFixed, 1, 3, []int{3})
	userID := uuid.New()

	enrollment, plans, err := fx.enrollments.Enroll(context.Background(), userID, course.ID, monday,
		[]domain.Weekday{domain.Monday, domain.Wednesday, domain.Friday})
	if err != nil {
		t.Fatalf("Enroll: %v", err)
	}
	if _, err := fx.completions.RecordCompletion(context.Background(), userID, plans[0].ID, ""); err != nil {
		t.Fatalf("RecordCompletion: %v", err)
	}

	if err := fx.enrollments.Unenroll(context.Background(), userID); err != nil {
		t.Fatalf("Unenroll: %v", err)
	}

	if n := countDailyPlans(t, fx.db, enrollment.ID); n != 0 {
		t.Errorf("unenroll left %d daily plans behind", n)
	}
	var completions int64
	if err := fx.db.Model(&domain.WorkoutCompletion{}).Where("enrollment_id = ?", enrollment.ID).Count(&completions).Error; err != nil {
		t.Fatalf("count completions: %v", err)
	}
	if completions != 0 {
		t.Errorf("unenroll left %d completions behind", completions)
	}
	if _, _, err := fx.enrollments.GetCalendar(context.Background(), userID); !errors.Is(err, ErrNotEnrolled) {
		t.Errorf("expected ErrNotEnrolled after unenroll, got %v", err)
	}
}
