package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"fitcourse/backend/internal/domain"
	"fitcourse/backend/internal/repository"
)

// --- Error Definitions ---
var (
	ErrWorkoutNotFound  = errors.New("workout not found")
	ErrValidationFailed = errors.New("workout validation failed")
)

// WorkoutService manages the admin-authored workout library (warmups and
// main workouts) plus meal plans. Template days reference these by ID.
type WorkoutService interface {
	CreateWorkout(ctx context.Context, title, description string, kind domain.WorkoutKind, durationMin int, videoURL string) (*domain.Workout, error)
	GetWorkout(ctx context.Context, id uuid.UUID) (*domain.Workout, error)
	ListWorkouts(ctx context.Context, kind domain.WorkoutKind) ([]domain.Workout, error)
	UpdateWorkout(ctx context.Context, id uuid.UUID, title, description string, kind domain.WorkoutKind, durationMin int, videoURL string) (*domain.Workout, error)
	DeleteWorkout(ctx context.Context, id uuid.UUID) error
}

// workoutService implements the WorkoutService interface.
type workoutService struct {
	workouts repository.WorkoutRepository
}

// NewWorkoutService creates a new instance of workoutService.
func NewWorkoutService(workouts repository.WorkoutRepository) WorkoutService {
	return &workoutService{workouts: workouts}
}

func (s *workoutService) CreateWorkout(ctx context.Context, title, description string, kind domain.WorkoutKind, durationMin int, videoURL string) (*domain.Workout, error) {
	if title == "" {
		return nil, ErrValidationFailed
	}
	if kind != domain.WorkoutKindWarmup && kind != domain.WorkoutKindMain {
		return nil, ErrValidationFailed
	}

	workout := &domain.Workout{
		Title:       title,
		Description: description,
		Kind:        kind,
		DurationMin: durationMin,
		VideoURL:    videoURL,
	}

	id, err := s.workouts.Create(ctx, workout)
	if err != nil {
		return nil, err
	}
	return s.workouts.GetByID(ctx, id)
}

func (s *workoutService) GetWorkout(ctx context.Context, id uuid.UUID) (*domain.Workout, error) {
	workout, err := s.workouts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}
	return workout, nil
}

// ListWorkouts returns the library, optionally filtered by kind. An empty
// kind returns everything.
func (s *workoutService) ListWorkouts(ctx context.Context, kind domain.WorkoutKind) ([]domain.Workout, error) {
	return s.workouts.List(ctx, kind)
}

func (s *workoutService) UpdateWorkout(ctx context.Context, id uuid.UUID, title, description string, kind domain.WorkoutKind, durationMin int, videoURL string) (*domain.Workout, error) {
	workout, err := s.GetWorkout(ctx, id)
	if err != nil {
		return nil, err
	}
	if title == "" {
		return nil, ErrValidationFailed
	}
	if kind != domain.WorkoutKindWarmup && kind != domain.WorkoutKindMain {
		return nil, ErrValidationFailed
	}

	workout.Title = title
	workout.Description = description
	workout.Kind = kind
	workout.DurationMin = durationMin
	workout.VideoURL = videoURL

	if err := s.workouts.Update(ctx, workout); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}
	return workout, nil
}

func (s *workoutService) DeleteWorkout(ctx context.Context, id uuid.UUID) error {
	err := s.workouts.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrWorkoutNotFound
	}
	return err
}
