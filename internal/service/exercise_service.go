package service

import (
	"context"
	"fmt"

	"github.com/mansoorceksport/coachbook/internal/domain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ExercisePage is one page of an exercise listing plus the total number of
// matching exercises.
type ExercisePage struct {
	Items []*domain.Exercise
	Total int64
}

type ExerciseService struct {
	repo domain.ExerciseRepository
}

func NewExerciseService(repo domain.ExerciseRepository) *ExerciseService {
	return &ExerciseService{repo: repo}
}

func (s *ExerciseService) Create(ctx context.Context, exercise *domain.Exercise) (*domain.Exercise, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "ExerciseService.Create")
	defer span.End()

	exercise.ID = ""
	if err := s.repo.Create(ctx, exercise); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to create exercise: %w", err)
	}
	return exercise, nil
}

func (s *ExerciseService) Get(ctx context.Context, id string) (*domain.Exercise, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ExerciseService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// List returns the requested page and the count of the filtered collection.
// The count is recomputed on every call.
func (s *ExerciseService) List(ctx context.Context, filter domain.ExerciseFilter, page domain.PageRequest) (*ExercisePage, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "ExerciseService.List",
		trace.WithAttributes(
			attribute.String("exercise.section", filter.Section),
			attribute.Int("page", page.Page),
			attribute.Int("page_size", page.PageSize),
		),
	)
	defer span.End()

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to count exercises: %w", err)
	}

	items, err := s.repo.List(ctx, filter, page)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list exercises: %w", err)
	}
	if items == nil {
		items = []*domain.Exercise{}
	}

	return &ExercisePage{Items: items, Total: total}, nil
}
